package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// DocumentRepository persists the business documents posted through the ledger.
type DocumentRepository interface {
	SaveDocument(ctx context.Context, tx pgx.Tx, doc domain.LedgerDocument) error

	// FindDocumentByIDForUpdate locks a document row, typically an invoice being paid.
	FindDocumentByIDForUpdate(ctx context.Context, tx pgx.Tx, tenantID string, documentID string) (*domain.LedgerDocument, error)

	// FindDocumentsByEntryID returns the documents posted through the given entry.
	FindDocumentsByEntryID(ctx context.Context, tx pgx.Tx, entryID string) ([]domain.LedgerDocument, error)

	// AddPaidAmount applies paid_amount += amount to an invoice.
	AddPaidAmount(ctx context.Context, tx pgx.Tx, documentID string, amount decimal.Decimal, userID string, now time.Time) error

	// DeleteDocumentsByEntryID removes every document linked to the entry.
	DeleteDocumentsByEntryID(ctx context.Context, tx pgx.Tx, entryID string) error
}

// BankTransactionRepository persists bank-feed lines used by the close heuristics.
type BankTransactionRepository interface {
	SaveBankTransaction(ctx context.Context, txn domain.BankTransaction) error

	// MarkReconciled flags a bank transaction as matched. Unknown IDs yield apperrors.ErrNotFound.
	MarkReconciled(ctx context.Context, tenantID string, bankTransactionID string, userID string, now time.Time) error

	// CountUnreconciledInRange counts unreconciled bank transactions dated within [start, end].
	CountUnreconciledInRange(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time) (int64, error)
}
