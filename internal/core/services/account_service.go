package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/restaurant_ledger/internal/apperrors"
	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/restaurant_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/restaurant_ledger/internal/core/ports/services"
	"github.com/SscSPs/restaurant_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const defaultAccountListLimit = 100

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new chart-of-accounts service.
func NewAccountService(txManager portsrepo.TransactionManager, repo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{
		txManager:   txManager,
		accountRepo: repo,
	}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.GLAccount, error) {
	code := strings.TrimSpace(req.Code)
	name := strings.TrimSpace(req.Name)
	if code == "" || name == "" {
		return nil, fmt.Errorf("%w: account code and name are required", apperrors.ErrValidation)
	}
	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: invalid account type '%s'", apperrors.ErrValidation, req.AccountType)
	}

	account := domain.GLAccount{
		AccountID:   uuid.NewString(),
		TenantID:    tenantID,
		Code:        code,
		Name:        name,
		AccountType: req.AccountType,
		Balance:     decimal.Zero,
		AuditFields: domain.NewAuditFields(userID, time.Now()),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("code", code),
			slog.String("tenant_id", tenantID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("code", code),
		slog.String("tenant_id", tenantID))
	return &account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, tenantID string, code string) (*domain.GLAccount, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, tenantID string, limit int, offset int) ([]domain.GLAccount, error) {
	if limit <= 0 {
		limit = defaultAccountListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.accountRepo.ListAccounts(ctx, tenantID, limit, offset)
}

// DeleteAccount locks the account before counting references so that a concurrent
// posting either completes first (and blocks the delete) or waits for it.
func (s *accountService) DeleteAccount(ctx context.Context, tenantID string, code string, userID string) error {
	err := s.txManager.WithinTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx pgx.Tx) error {
		accounts, err := s.accountRepo.FindAccountsByCodesForUpdate(ctx, tx, tenantID, []string{code})
		if err != nil {
			return err
		}
		account, ok := accounts[code]
		if !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, code)
		}

		refs, err := s.accountRepo.CountLinesForAccount(ctx, tx, account.AccountID)
		if err != nil {
			return err
		}
		if refs > 0 {
			return fmt.Errorf("%w: account %s has %d journal lines", apperrors.ErrAccountInUse, code, refs)
		}

		return s.accountRepo.DeleteAccountInTx(ctx, tx, account.AccountID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete account",
			slog.String("code", code),
			slog.String("tenant_id", tenantID))
		return err
	}

	s.LogInfo(ctx, "Account deleted",
		slog.String("code", code),
		slog.String("tenant_id", tenantID),
		slog.String("user_id", userID))
	return nil
}

// snapshotTxOptions gives read-only reports one consistent view of accounts and lines.
var snapshotTxOptions = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

// AuditBalances compares every cached balance with the sum of posted line effects.
// Mismatches are reported, never repaired.
func (s *accountService) AuditBalances(ctx context.Context, tenantID string) ([]domain.BalanceMismatch, error) {
	var accounts []domain.GLAccount
	var computed map[string]decimal.Decimal
	err := s.txManager.WithinTx(ctx, snapshotTxOptions, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		if accounts, err = s.accountRepo.ListAccountsInTx(ctx, tx, tenantID); err != nil {
			return err
		}
		computed, err = s.accountRepo.ComputeBalancesFromLines(ctx, tx, tenantID)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to audit balances", slog.String("tenant_id", tenantID))
		return nil, err
	}

	mismatches := []domain.BalanceMismatch{}
	for _, account := range accounts {
		expected := computed[account.AccountID]
		if account.Balance.Equal(expected) {
			continue
		}
		mismatches = append(mismatches, domain.BalanceMismatch{
			AccountID:       account.AccountID,
			Code:            account.Code,
			CachedBalance:   account.Balance,
			ComputedBalance: expected,
		})
		s.LogError(ctx, apperrors.ErrLedgerIntegrity, "Cached balance diverges from posted lines",
			slog.String("tenant_id", tenantID),
			slog.String("code", account.Code),
			slog.String("cached", account.Balance.String()),
			slog.String("computed", expected.String()))
	}
	return mismatches, nil
}
