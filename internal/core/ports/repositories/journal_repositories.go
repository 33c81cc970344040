package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindEntryByID retrieves an entry with its lines.
	FindEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a page of entries (without lines) newest first using token-based pagination.
	// It returns the entries, a token for the next page, and an error.
	ListEntries(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal data. All of them run inside a caller-owned transaction.
type JournalWriter interface {
	// InsertEntry persists an entry header and all of its lines in one batch.
	InsertEntry(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error

	// MarkEntryPosted turns a draft into a posted entry with its allocated number.
	MarkEntryPosted(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error

	// UpdateEntryStatusAndLinks updates the status and reversal link of an entry.
	UpdateEntryStatusAndLinks(ctx context.Context, tx pgx.Tx, entryID string, status domain.JournalStatus, reversingEntryID *string, userID string, now time.Time) error

	// DeleteEntry removes an entry; lines are removed by cascade.
	DeleteEntry(ctx context.Context, tx pgx.Tx, entryID string) error
}

// JournalTransactionSupport defines locking and aggregate reads over journal data
type JournalTransactionSupport interface {
	// FindEntryByIDForUpdate locks an entry row and returns it with its lines.
	FindEntryByIDForUpdate(ctx context.Context, tx pgx.Tx, tenantID string, entryID string) (*domain.JournalEntry, error)

	// CountEntriesInRange counts entries of any status with a posting date in [start, end].
	CountEntriesInRange(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time) (int64, error)

	// CountDraftsInRange counts DRAFT entries with a posting date in [start, end].
	CountDraftsInRange(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time) (int64, error)

	// SumFinalLinesInRange aggregates debits and credits of finalized entries in [start, end].
	SumFinalLinesInRange(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time) (domain.PeriodTotals, error)

	// SumLinesByAccountInRange aggregates debits and credits of finalized entries in [start, end]
	// per account, ordered by account code. Net is left for the caller.
	SumLinesByAccountInRange(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time) ([]domain.TrialBalanceRow, error)

	// FindUnbalancedEntriesInRange returns the document numbers of finalized entries whose
	// debits and credits differ by at least tolerance.
	FindUnbalancedEntriesInRange(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time, tolerance decimal.Decimal) ([]string, error)
}

// SequenceRepository allocates document numbers.
type SequenceRepository interface {
	// NextDocNumber reads and increments the tenant's series for docType under a row lock held
	// until the transaction ends, creating the series on first use. It returns prefix+number.
	NextDocNumber(ctx context.Context, tx pgx.Tx, tenantID string, docType domain.DocumentType) (string, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	JournalTransactionSupport
}
