package services

import (
	"context"
	"errors"
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
)

type bankTransactionService struct {
	BaseService
	bankRepo    portsrepo.BankTransactionRepository
	accountRepo portsrepo.AccountReader
}

// NewBankTransactionService creates the service recording bank-feed lines.
func NewBankTransactionService(bankRepo portsrepo.BankTransactionRepository, accountRepo portsrepo.AccountReader) portssvc.BankTransactionSvc {
	return &bankTransactionService{
		bankRepo:    bankRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.BankTransactionSvc = (*bankTransactionService)(nil)

func (s *bankTransactionService) RecordBankTransaction(ctx context.Context, tenantID string, req dto.RecordBankTransactionRequest, userID string) (*domain.BankTransaction, error) {
	date, err := dto.ParseDate(req.TransactionDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if req.Amount.IsZero() {
		return nil, fmt.Errorf("%w: bank transaction amount must not be zero", apperrors.ErrValidation)
	}

	code := strings.TrimSpace(req.AccountCode)
	if _, err := s.accountRepo.FindAccountByCode(ctx, tenantID, code); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account code %q does not exist for tenant %s", apperrors.ErrUnknownAccount, code, tenantID)
		}
		return nil, err
	}

	txn := domain.BankTransaction{
		BankTransactionID: uuid.NewString(),
		TenantID:          tenantID,
		AccountCode:       code,
		TransactionDate:   date,
		Amount:            req.Amount,
		Reference:         req.Reference,
		AuditFields:       domain.NewAuditFields(userID, time.Now()),
	}
	if err := s.bankRepo.SaveBankTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save bank transaction", slog.String("tenant_id", tenantID))
		return nil, err
	}
	return &txn, nil
}

func (s *bankTransactionService) ReconcileBankTransaction(ctx context.Context, tenantID string, bankTransactionID string, userID string) error {
	if err := s.bankRepo.MarkReconciled(ctx, tenantID, bankTransactionID, userID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to reconcile bank transaction",
			slog.String("tenant_id", tenantID),
			slog.String("bank_transaction_id", bankTransactionID))
		return err
	}
	s.LogInfo(ctx, "Bank transaction reconciled", slog.String("bank_transaction_id", bankTransactionID))
	return nil
}
