package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// PeriodReader defines read operations for accounting periods
type PeriodReader interface {
	// FindPeriodByID retrieves a tenant's period.
	FindPeriodByID(ctx context.Context, tenantID string, periodID string) (*domain.AccountingPeriod, error)

	// ListPeriods retrieves all periods of a tenant ordered by start date.
	ListPeriods(ctx context.Context, tenantID string) ([]domain.AccountingPeriod, error)
}

// PeriodWriter defines write operations for accounting periods
type PeriodWriter interface {
	SavePeriod(ctx context.Context, tx pgx.Tx, period domain.AccountingPeriod) error
	UpdatePeriod(ctx context.Context, tx pgx.Tx, period domain.AccountingPeriod) error
	UpdatePeriodStatus(ctx context.Context, tx pgx.Tx, periodID string, status domain.PeriodStatus, userID string, now time.Time) error
	DeletePeriod(ctx context.Context, tx pgx.Tx, periodID string) error
}

// PeriodTransactionSupport defines locking reads used by posting and closing
type PeriodTransactionSupport interface {
	// LockPeriodRegistry serializes period creation and re-dating for a tenant until the transaction ends.
	LockPeriodRegistry(ctx context.Context, tx pgx.Tx, tenantID string) error

	// FindPeriodByIDForUpdate locks a period row exclusively.
	FindPeriodByIDForUpdate(ctx context.Context, tx pgx.Tx, tenantID string, periodID string) (*domain.AccountingPeriod, error)

	// FindPeriodsContaining returns every period whose range contains date, locked FOR SHARE
	// so that a concurrent close waits for the posting transaction.
	FindPeriodsContaining(ctx context.Context, tx pgx.Tx, tenantID string, date time.Time) ([]domain.AccountingPeriod, error)

	// FindOverlappingPeriods returns periods intersecting [start, end] (inclusive), ignoring excludeID when set.
	FindOverlappingPeriods(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time, excludeID string) ([]domain.AccountingPeriod, error)
}

// PeriodRepositoryFacade combines all period-related repository interfaces
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
	PeriodTransactionSupport
}
