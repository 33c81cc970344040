package services

import (
	"context"
	"time"

	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	"github.com/SscSPs/restaurant_ledger/internal/dto"
)

// PeriodReaderSvc defines read operations for accounting periods
type PeriodReaderSvc interface {
	GetPeriod(ctx context.Context, tenantID string, periodID string) (*domain.AccountingPeriod, error)
	ListPeriods(ctx context.Context, tenantID string) ([]domain.AccountingPeriod, error)

	// ResolveActivePeriod returns the unique OPEN period containing date.
	ResolveActivePeriod(ctx context.Context, tenantID string, date time.Time) (*domain.AccountingPeriod, error)
}

// PeriodWriterSvc defines write operations for accounting periods
type PeriodWriterSvc interface {
	// CreatePeriod opens a new period; ranges may not overlap existing periods, endpoints included.
	CreatePeriod(ctx context.Context, tenantID string, req dto.CreatePeriodRequest, userID string) (*domain.AccountingPeriod, error)

	// UpdatePeriod renames or re-dates an OPEN period.
	UpdatePeriod(ctx context.Context, tenantID string, periodID string, req dto.UpdatePeriodRequest, userID string) (*domain.AccountingPeriod, error)

	// DeletePeriod removes a period with no entries dated inside its range.
	DeletePeriod(ctx context.Context, tenantID string, periodID string, userID string) error
}

// PeriodSvcFacade combines all period-related service interfaces
type PeriodSvcFacade interface {
	PeriodReaderSvc
	PeriodWriterSvc
}

// PeriodCloseSvc implements the two-phase close protocol.
type PeriodCloseSvc interface {
	// ValidatePeriod previews whether a period can be closed. It never changes state.
	ValidatePeriod(ctx context.Context, tenantID string, periodID string) (*domain.PeriodValidation, error)

	// ClosePeriod re-validates and flips the period to CLOSED in one transaction.
	ClosePeriod(ctx context.Context, tenantID string, periodID string, userID string) (*domain.CloseResult, error)
}
