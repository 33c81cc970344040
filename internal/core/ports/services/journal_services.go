package services

import (
	"context"
	"time"

	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
)

// JournalReaderSvc defines read operations for journal entries
type JournalReaderSvc interface {
	GetEntry(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error)

	// ListEntries returns a page of entries and the token for the next page, if any.
	ListEntries(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalPostingSvc defines the posting engine operations
type JournalPostingSvc interface {
	// PostEntry validates and atomically commits a balanced entry with its balance effects.
	PostEntry(ctx context.Context, tenantID string, req domain.PostingRequest) (*domain.JournalEntry, error)

	// SaveDraft stores an entry without balance effects or a series number.
	SaveDraft(ctx context.Context, tenantID string, req domain.PostingRequest) (*domain.JournalEntry, error)

	// PostDraft posts a previously saved draft, allocating its number.
	PostDraft(ctx context.Context, tenantID string, entryID string, approverID string) (*domain.JournalEntry, error)

	// ReverseEntry posts the mirror image of a posted entry and marks the original REVERSED.
	ReverseEntry(ctx context.Context, tenantID string, entryID string, reversalDate time.Time, remarks string, userID string) (*domain.JournalEntry, error)

	// DeleteEntry removes an entry, reverting its balance effects when it was posted.
	DeleteEntry(ctx context.Context, tenantID string, entryID string, userID string) error
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalPostingSvc
}
