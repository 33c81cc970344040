package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestAccountingPeriod_Contains(t *testing.T) {
	jan := domain.AccountingPeriod{StartDate: day("2025-01-01"), EndDate: day("2025-01-31")}

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"start date", day("2025-01-01"), true},
		{"end date", day("2025-01-31"), true},
		{"late on end date", day("2025-01-31").Add(23 * time.Hour), true},
		{"day before", day("2024-12-31"), false},
		{"day after", day("2025-02-01"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, jan.Contains(tt.date))
		})
	}
}

func TestAccountingPeriod_Overlaps(t *testing.T) {
	jan := domain.AccountingPeriod{StartDate: day("2025-01-01"), EndDate: day("2025-01-31")}

	tests := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"touching end boundary", "2025-01-31", "2025-02-28", true},
		{"touching start boundary", "2024-12-01", "2025-01-01", true},
		{"contained", "2025-01-10", "2025-01-20", true},
		{"enclosing", "2024-12-01", "2025-03-01", true},
		{"adjacent after", "2025-02-01", "2025-02-28", false},
		{"adjacent before", "2024-12-01", "2024-12-31", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, jan.Overlaps(day(tt.start), day(tt.end)))
		})
	}
}

func TestAccountType(t *testing.T) {
	assert.True(t, domain.Asset.IsValid())
	assert.False(t, domain.AccountType("CASH").IsValid())

	assert.True(t, domain.Asset.IsDebitNormal())
	assert.True(t, domain.Expense.IsDebitNormal())
	assert.False(t, domain.Liability.IsDebitNormal())
	assert.False(t, domain.Equity.IsDebitNormal())
	assert.False(t, domain.Revenue.IsDebitNormal())
}

func TestJournalEntry_Totals(t *testing.T) {
	entry := domain.JournalEntry{Lines: []domain.JournalLine{
		{Debit: decimal.RequireFromString("49.99"), Credit: decimal.Zero},
		{Debit: decimal.RequireFromString("0.01"), Credit: decimal.Zero},
		{Debit: decimal.Zero, Credit: decimal.NewFromInt(50)},
	}}

	assert.True(t, entry.TotalDebit().Equal(decimal.NewFromInt(50)))
	assert.True(t, entry.TotalCredit().Equal(decimal.NewFromInt(50)))
}

func TestJournalStatus_IsFinal(t *testing.T) {
	assert.False(t, domain.Draft.IsFinal())
	assert.True(t, domain.Posted.IsFinal())
	assert.True(t, domain.Reversed.IsFinal())
}

func TestLedgerDocument(t *testing.T) {
	inv := domain.LedgerDocument{DocType: domain.DocARInvoice, Total: decimal.NewFromInt(120), PaidAmount: decimal.NewFromInt(20)}
	pay := domain.LedgerDocument{DocType: domain.DocIncomingPayment}

	assert.True(t, inv.Outstanding().Equal(decimal.NewFromInt(100)))
	assert.True(t, inv.IsInvoice())
	assert.False(t, pay.IsInvoice())
	assert.Equal(t, "ARINV-", domain.DocARInvoice.DefaultPrefix())

	assert.False(t, inv.IsVoid())
	pay.EntryStatus = domain.Reversed
	assert.True(t, pay.IsVoid())
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	got := domain.DateOnly(time.Date(2025, 3, 9, 23, 30, 0, 0, loc))

	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), got)
}
