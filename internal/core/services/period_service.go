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
	"github.com/jackc/pgx/v5"
)

// periodService implements the PeriodSvcFacade interface
type periodService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	periodRepo  portsrepo.PeriodRepositoryFacade
	journalRepo portsrepo.JournalTransactionSupport
	retry       RetryPolicy
}

// PeriodServiceOption is a functional option for configuring the period service
type PeriodServiceOption func(*periodService)

// WithPeriodRetryPolicy overrides the retry policy for registry writes.
func WithPeriodRetryPolicy(policy RetryPolicy) PeriodServiceOption {
	return func(s *periodService) {
		s.retry = policy
	}
}

// NewPeriodService creates a new accounting period registry.
func NewPeriodService(txManager portsrepo.TransactionManager, periodRepo portsrepo.PeriodRepositoryFacade, journalRepo portsrepo.JournalTransactionSupport, options ...PeriodServiceOption) portssvc.PeriodSvcFacade {
	svc := &periodService{
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

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

func (s *periodService) CreatePeriod(ctx context.Context, tenantID string, req dto.CreatePeriodRequest, userID string) (*domain.AccountingPeriod, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: period name is required", apperrors.ErrValidation)
	}
	start, err := dto.ParseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	end, err := dto.ParseDate(req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if err := checkRange(start, end); err != nil {
		return nil, err
	}

	period := domain.AccountingPeriod{
		PeriodID:    uuid.NewString(),
		TenantID:    tenantID,
		Name:        name,
		StartDate:   start,
		EndDate:     end,
		Status:      domain.PeriodOpen,
		AuditFields: domain.NewAuditFields(userID, time.Now()),
	}

	err = s.runWithRetry(ctx, s.retry, "create_period", func() error {
		return s.txManager.WithinTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx pgx.Tx) error {
			if err := s.periodRepo.LockPeriodRegistry(ctx, tx, tenantID); err != nil {
				return err
			}
			if err := s.checkNoOverlap(ctx, tx, tenantID, start, end, ""); err != nil {
				return err
			}
			return s.periodRepo.SavePeriod(ctx, tx, period)
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create period",
			slog.String("tenant_id", tenantID),
			slog.String("name", name))
		return nil, err
	}

	s.LogInfo(ctx, "Accounting period created",
		slog.String("period_id", period.PeriodID),
		slog.String("tenant_id", tenantID),
		slog.String("start_date", dto.FormatDate(start)),
		slog.String("end_date", dto.FormatDate(end)))
	return &period, nil
}

func (s *periodService) UpdatePeriod(ctx context.Context, tenantID string, periodID string, req dto.UpdatePeriodRequest, userID string) (*domain.AccountingPeriod, error) {
	var updated domain.AccountingPeriod
	err := s.runWithRetry(ctx, s.retry, "update_period", func() error {
		return s.txManager.WithinTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx pgx.Tx) error {
			if err := s.periodRepo.LockPeriodRegistry(ctx, tx, tenantID); err != nil {
				return err
			}
			current, err := s.periodRepo.FindPeriodByIDForUpdate(ctx, tx, tenantID, periodID)
			if err != nil {
				return err
			}
			if !current.IsOpen() {
				return fmt.Errorf("%w: period %q cannot be edited", apperrors.ErrPeriodClosed, current.Name)
			}

			next, err := applyPeriodUpdate(*current, req)
			if err != nil {
				return err
			}
			if err := checkRange(next.StartDate, next.EndDate); err != nil {
				return err
			}

			redated := !next.StartDate.Equal(current.StartDate) || !next.EndDate.Equal(current.EndDate)
			if redated {
				if err := s.checkNoOverlap(ctx, tx, tenantID, next.StartDate, next.EndDate, periodID); err != nil {
					return err
				}
				if err := s.checkEntriesStayInside(ctx, tx, *current, next); err != nil {
					return err
				}
			}

			next.LastUpdatedAt = time.Now()
			next.LastUpdatedBy = userID
			if err := s.periodRepo.UpdatePeriod(ctx, tx, next); err != nil {
				return err
			}
			updated = next
			return nil
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update period",
			slog.String("tenant_id", tenantID),
			slog.String("period_id", periodID))
		return nil, err
	}
	return &updated, nil
}

func (s *periodService) DeletePeriod(ctx context.Context, tenantID string, periodID string, userID string) error {
	err := s.txManager.WithinTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx pgx.Tx) error {
		period, err := s.periodRepo.FindPeriodByIDForUpdate(ctx, tx, tenantID, periodID)
		if err != nil {
			return err
		}
		if !period.IsOpen() {
			return fmt.Errorf("%w: period %q cannot be deleted", apperrors.ErrPeriodClosed, period.Name)
		}
		count, err := s.journalRepo.CountEntriesInRange(ctx, tx, tenantID, period.StartDate, period.EndDate)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: %d entries dated within %q", apperrors.ErrPeriodHasEntries, count, period.Name)
		}
		return s.periodRepo.DeletePeriod(ctx, tx, periodID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete period",
			slog.String("tenant_id", tenantID),
			slog.String("period_id", periodID))
		return err
	}

	s.LogInfo(ctx, "Accounting period deleted",
		slog.String("period_id", periodID),
		slog.String("user_id", userID))
	return nil
}

func (s *periodService) GetPeriod(ctx context.Context, tenantID string, periodID string) (*domain.AccountingPeriod, error) {
	return s.periodRepo.FindPeriodByID(ctx, tenantID, periodID)
}

func (s *periodService) ListPeriods(ctx context.Context, tenantID string) ([]domain.AccountingPeriod, error) {
	return s.periodRepo.ListPeriods(ctx, tenantID)
}

func (s *periodService) ResolveActivePeriod(ctx context.Context, tenantID string, date time.Time) (*domain.AccountingPeriod, error) {
	var found *domain.AccountingPeriod
	err := s.txManager.WithinTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx pgx.Tx) error {
		p, err := findContainingPeriod(ctx, s.periodRepo, tx, tenantID, date)
		if err != nil {
			return err
		}
		found = p
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrPeriodIntegrity) {
			s.LogError(ctx, err, "Ambiguous period resolution",
				slog.String("tenant_id", tenantID),
				slog.String("date", dto.FormatDate(date)))
		}
		return nil, err
	}
	if found == nil || !found.IsOpen() {
		return nil, fmt.Errorf("%w: no open period contains %s", apperrors.ErrNotFound, dto.FormatDate(date))
	}
	return found, nil
}

func (s *periodService) checkNoOverlap(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time, excludeID string) error {
	overlapping, err := s.periodRepo.FindOverlappingPeriods(ctx, tx, tenantID, start, end, excludeID)
	if err != nil {
		return err
	}
	for _, o := range overlapping {
		if o.PeriodID == excludeID || !o.Overlaps(start, end) {
			continue
		}
		return fmt.Errorf("%w: [%s, %s] overlaps %q [%s, %s]", apperrors.ErrOverlappingPeriod,
			dto.FormatDate(start), dto.FormatDate(end),
			o.Name, dto.FormatDate(o.StartDate), dto.FormatDate(o.EndDate))
	}
	return nil
}

// checkEntriesStayInside rejects a re-dating that would leave entries of the old range outside the new one.
func (s *periodService) checkEntriesStayInside(ctx context.Context, tx pgx.Tx, current, next domain.AccountingPeriod) error {
	total, err := s.journalRepo.CountEntriesInRange(ctx, tx, current.TenantID, current.StartDate, current.EndDate)
	if err != nil {
		return err
	}
	if total == 0 {
		return nil
	}

	var kept int64
	lo, hi := latest(current.StartDate, next.StartDate), earliest(current.EndDate, next.EndDate)
	if !lo.After(hi) {
		kept, err = s.journalRepo.CountEntriesInRange(ctx, tx, current.TenantID, lo, hi)
		if err != nil {
			return err
		}
	}
	if outside := total - kept; outside > 0 {
		return fmt.Errorf("%w: %d entries would fall outside [%s, %s]", apperrors.ErrPeriodHasEntries,
			outside, dto.FormatDate(next.StartDate), dto.FormatDate(next.EndDate))
	}
	return nil
}

func applyPeriodUpdate(p domain.AccountingPeriod, req dto.UpdatePeriodRequest) (domain.AccountingPeriod, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return p, fmt.Errorf("%w: period name is required", apperrors.ErrValidation)
		}
		p.Name = name
	}
	if req.StartDate != nil {
		start, err := dto.ParseDate(*req.StartDate)
		if err != nil {
			return p, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		p.StartDate = start
	}
	if req.EndDate != nil {
		end, err := dto.ParseDate(*req.EndDate)
		if err != nil {
			return p, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		p.EndDate = end
	}
	return p, nil
}

func checkRange(start, end time.Time) error {
	if !start.Before(end) {
		return fmt.Errorf("%w: start %s must be before end %s", apperrors.ErrInvalidRange,
			dto.FormatDate(start), dto.FormatDate(end))
	}
	return nil
}

// findContainingPeriod returns the single period containing date, or nil when there is none.
// More than one containing period means the non-overlap invariant was broken.
func findContainingPeriod(ctx context.Context, repo portsrepo.PeriodTransactionSupport, tx pgx.Tx, tenantID string, date time.Time) (*domain.AccountingPeriod, error) {
	candidates, err := repo.FindPeriodsContaining(ctx, tx, tenantID, domain.DateOnly(date))
	if err != nil {
		return nil, err
	}
	periods := candidates[:0]
	for _, p := range candidates {
		if p.Contains(date) {
			periods = append(periods, p)
		}
	}
	switch len(periods) {
	case 0:
		return nil, nil
	case 1:
		return &periods[0], nil
	default:
		ids := make([]string, len(periods))
		for i, p := range periods {
			ids[i] = p.PeriodID
		}
		return nil, fmt.Errorf("%w: %d periods contain %s (%s)", apperrors.ErrPeriodIntegrity,
			len(periods), dto.FormatDate(date), strings.Join(ids, ", "))
	}
}

func latest(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earliest(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
