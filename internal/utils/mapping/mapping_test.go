package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestJournalEntryNullableLinks(t *testing.T) {
	original := "entry-1"
	d := domain.JournalEntry{
		EntryID:         "entry-2",
		DocType:         domain.DocJournal,
		PostingDate:     time.Date(2025, 1, 31, 15, 4, 0, 0, time.UTC),
		Status:          domain.Posted,
		OriginalEntryID: &original,
	}

	m := ToModelJournalEntry(d)
	assert.True(t, m.OriginalEntryID.Valid)
	assert.False(t, m.ReversingEntryID.Valid)
	assert.False(t, m.Approver.Valid)

	back := ToDomainJournalEntry(m)
	assert.Equal(t, "entry-1", *back.OriginalEntryID)
	assert.Nil(t, back.ReversingEntryID)
	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), back.PostingDate)
}

func TestPeriodClosedFields(t *testing.T) {
	closedAt := time.Date(2025, 2, 3, 9, 0, 0, 0, time.UTC)
	closedBy := "controller"
	d := domain.AccountingPeriod{
		PeriodID: "p1",
		Status:   domain.PeriodClosed,
		ClosedAt: &closedAt,
		ClosedBy: &closedBy,
	}

	back := ToDomainPeriod(ToModelPeriod(d))

	assert.Equal(t, domain.PeriodClosed, back.Status)
	assert.True(t, closedAt.Equal(*back.ClosedAt))
	assert.Equal(t, "controller", *back.ClosedBy)
}

func TestDocumentAppliesTo(t *testing.T) {
	m := ToModelDocument(domain.LedgerDocument{DocumentID: "pay-1", Total: decimal.NewFromInt(5)})
	assert.False(t, m.AppliesToDocID.Valid)
	assert.Nil(t, ToDomainDocument(m).AppliesToDocID)
}
