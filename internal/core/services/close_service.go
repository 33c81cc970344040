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
	"github.com/SscSPs/restaurant_ledger/internal/utils/accounting"
	"github.com/jackc/pgx/v5"
)

// periodCloseService implements the validate/close protocol over a period.
type periodCloseService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	periodRepo  portsrepo.PeriodRepositoryFacade
	journalRepo portsrepo.JournalTransactionSupport
	bankRepo    portsrepo.BankTransactionRepository
	retry       RetryPolicy
}

// CloseServiceOption is a functional option for configuring the close service
type CloseServiceOption func(*periodCloseService)

// WithBankTransactions enables the unreconciled bank transaction warning.
func WithBankTransactions(repo portsrepo.BankTransactionRepository) CloseServiceOption {
	return func(s *periodCloseService) {
		s.bankRepo = repo
	}
}

// WithCloseRetryPolicy overrides how often a conflicting close is re-run.
func WithCloseRetryPolicy(policy RetryPolicy) CloseServiceOption {
	return func(s *periodCloseService) {
		s.retry = policy
	}
}

// NewPeriodCloseService creates the period close validator and closer.
func NewPeriodCloseService(txManager portsrepo.TransactionManager, periodRepo portsrepo.PeriodRepositoryFacade, journalRepo portsrepo.JournalTransactionSupport, options ...CloseServiceOption) portssvc.PeriodCloseSvc {
	svc := &periodCloseService{
		txManager:   txManager,
		periodRepo:  periodRepo,
		journalRepo: journalRepo,
		retry:       DefaultRetryPolicy(),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.PeriodCloseSvc = (*periodCloseService)(nil)

// ValidatePeriod runs every close check against a consistent snapshot without changing anything.
func (s *periodCloseService) ValidatePeriod(ctx context.Context, tenantID string, periodID string) (*domain.PeriodValidation, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, tenantID, periodID)
	if err != nil {
		return nil, err
	}

	var result *domain.PeriodValidation
	opts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	err = s.txManager.WithinTx(ctx, opts, func(ctx context.Context, tx pgx.Tx) error {
		v, err := s.evaluate(ctx, tx, period)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to validate period",
			slog.String("tenant_id", tenantID),
			slog.String("period_id", periodID))
		return nil, err
	}
	return result, nil
}

// ClosePeriod locks the period row, re-validates and flips the status in the same transaction,
// so no posting can land between the check and the close. Closing a CLOSED period succeeds.
func (s *periodCloseService) ClosePeriod(ctx context.Context, tenantID string, periodID string, userID string) (*domain.CloseResult, error) {
	var result *domain.CloseResult
	err := s.runWithRetry(ctx, s.retry, "close_period", func() error {
		return s.txManager.WithinTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx pgx.Tx) error {
			period, err := s.periodRepo.FindPeriodByIDForUpdate(ctx, tx, tenantID, periodID)
			if err != nil {
				return err
			}
			if !period.IsOpen() {
				result = &domain.CloseResult{Success: true, Message: fmt.Sprintf("period %q already closed", period.Name)}
				return nil
			}

			v, err := s.evaluate(ctx, tx, period)
			if err != nil {
				return err
			}
			if !v.CanClose {
				return fmt.Errorf("%w: %s", apperrors.ErrPeriodNotCloseable, v.Errors[0])
			}

			if err := s.periodRepo.UpdatePeriodStatus(ctx, tx, period.PeriodID, domain.PeriodClosed, userID, time.Now()); err != nil {
				return err
			}
			result = &domain.CloseResult{Success: true, Message: fmt.Sprintf("period %q closed", period.Name)}
			return nil
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to close period",
			slog.String("tenant_id", tenantID),
			slog.String("period_id", periodID))
		return nil, err
	}

	s.LogInfo(ctx, "Period close finished",
		slog.String("period_id", periodID),
		slog.String("user_id", userID),
		slog.String("message", result.Message))
	return result, nil
}

func (s *periodCloseService) evaluate(ctx context.Context, tx pgx.Tx, period *domain.AccountingPeriod) (*domain.PeriodValidation, error) {
	v := &domain.PeriodValidation{
		PeriodID: period.PeriodID,
		Status:   period.Status,
		Errors:   []string{},
		Warnings: []string{},
	}
	tenantID, start, end := period.TenantID, period.StartDate, period.EndDate

	drafts, err := s.journalRepo.CountDraftsInRange(ctx, tx, tenantID, start, end)
	if err != nil {
		return nil, err
	}
	if drafts > 0 {
		v.Errors = append(v.Errors, fmt.Sprintf("%d draft entries are dated within the period; post or delete them first", drafts))
	}

	totals, err := s.journalRepo.SumFinalLinesInRange(ctx, tx, tenantID, start, end)
	if err != nil {
		return nil, err
	}
	if !accounting.IsBalanced(totals.TotalDebit, totals.TotalCredit) {
		msg := fmt.Sprintf("period debits %s do not equal credits %s", totals.TotalDebit.StringFixed(2), totals.TotalCredit.StringFixed(2))
		v.Errors = append(v.Errors, msg)
		s.LogError(ctx, apperrors.ErrLedgerIntegrity, msg,
			slog.String("tenant_id", tenantID),
			slog.String("period_id", period.PeriodID))
	}

	unbalanced, err := s.journalRepo.FindUnbalancedEntriesInRange(ctx, tx, tenantID, start, end, accounting.BalanceTolerance)
	if err != nil {
		return nil, err
	}
	if len(unbalanced) > 0 {
		msg := fmt.Sprintf("unbalanced entries: %s", strings.Join(unbalanced, ", "))
		v.Errors = append(v.Errors, msg)
		s.LogError(ctx, apperrors.ErrLedgerIntegrity, msg,
			slog.String("tenant_id", tenantID),
			slog.String("period_id", period.PeriodID))
	}

	if s.bankRepo != nil {
		pending, err := s.bankRepo.CountUnreconciledInRange(ctx, tx, tenantID, start, end)
		if err != nil {
			return nil, err
		}
		if pending > 0 {
			v.Warnings = append(v.Warnings, fmt.Sprintf("%d bank transactions dated within the period are unreconciled", pending))
		}
	}

	if !period.IsOpen() {
		v.Warnings = append(v.Warnings, "period is already closed")
	}

	v.IsValid = len(v.Errors) == 0
	v.CanClose = v.IsValid && period.IsOpen()
	return v, nil
}
