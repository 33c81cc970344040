package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for chart-of-accounts data
type AccountReader interface {
	// FindAccountByCode retrieves a tenant's account by its code.
	FindAccountByCode(ctx context.Context, tenantID string, code string) (*domain.GLAccount, error)

	// ListAccounts retrieves a paginated list of accounts for a given tenant ordered by code.
	// A non-positive limit returns every account.
	ListAccounts(ctx context.Context, tenantID string, limit int, offset int) ([]domain.GLAccount, error)
}

// AccountWriter defines write operations for chart-of-accounts data
type AccountWriter interface {
	// SaveAccount persists a new account. A code clash within the tenant yields apperrors.ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.GLAccount) error

	// DeleteAccountInTx removes an account within the given transaction.
	DeleteAccountInTx(ctx context.Context, tx pgx.Tx, accountID string) error
}

// AccountTransactionSupport defines operations that support ledger transactions
type AccountTransactionSupport interface {
	// FindAccountsByCodesForUpdate selects a tenant's accounts by code and locks them for update.
	// The result is keyed by code; unknown codes are simply absent.
	FindAccountsByCodesForUpdate(ctx context.Context, tx pgx.Tx, tenantID string, codes []string) (map[string]domain.GLAccount, error)

	// FindAccountsByIDsForUpdate selects accounts by ID and locks them for update. The result is keyed by ID.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.GLAccount, error)

	// IncrementBalancesInTx applies balance += delta for every account in changes.
	IncrementBalancesInTx(ctx context.Context, tx pgx.Tx, changes map[string]decimal.Decimal, userID string, now time.Time) error

	// CountLinesForAccount counts journal lines referencing the account.
	CountLinesForAccount(ctx context.Context, tx pgx.Tx, accountID string) (int64, error)
}

// AccountAuditor recomputes balances from the source of truth. Both reads go through the
// caller's transaction so cached and computed balances come from one snapshot.
type AccountAuditor interface {
	// ListAccountsInTx returns every account of the tenant ordered by code.
	ListAccountsInTx(ctx context.Context, tx pgx.Tx, tenantID string) ([]domain.GLAccount, error)

	// ComputeBalancesFromLines sums the signed effect of all finalized lines per account of the tenant.
	ComputeBalancesFromLines(ctx context.Context, tx pgx.Tx, tenantID string) (map[string]decimal.Decimal, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
	AccountAuditor
}
