package services

import (
	"context"

	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	"github.com/SscSPs/restaurant_ledger/internal/dto"
)

// AccountReaderSvc defines read operations for the chart of accounts
type AccountReaderSvc interface {
	// GetAccountByCode retrieves a tenant's account by its code.
	GetAccountByCode(ctx context.Context, tenantID string, code string) (*domain.GLAccount, error)

	// ListAccounts retrieves a paginated list of accounts for a tenant.
	ListAccounts(ctx context.Context, tenantID string, limit int, offset int) ([]domain.GLAccount, error)
}

// AccountWriterSvc defines write operations for the chart of accounts
type AccountWriterSvc interface {
	// CreateAccount persists a new account with a zero balance.
	CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.GLAccount, error)

	// DeleteAccount removes an account that no journal line references.
	DeleteAccount(ctx context.Context, tenantID string, code string, userID string) error
}

// AccountAuditSvc recomputes balances from posted lines.
type AccountAuditSvc interface {
	// AuditBalances reports every account whose cached balance differs from its posted lines.
	AuditBalances(ctx context.Context, tenantID string) ([]domain.BalanceMismatch, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountAuditSvc
}
