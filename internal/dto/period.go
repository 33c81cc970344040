package dto

import (
	"time"

	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
)

// CreatePeriodRequest defines the data needed to open a new accounting period.
type CreatePeriodRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	StartDate string `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" binding:"required,datetime=2006-01-02"`
}

// UpdatePeriodRequest defines the editable fields of an open period. Nil fields are left unchanged.
type UpdatePeriodRequest struct {
	Name      *string `json:"name" binding:"omitempty,max=100"`
	StartDate *string `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
}

// PeriodResponse defines the data returned for a period.
type PeriodResponse struct {
	PeriodID  string              `json:"periodID"`
	Name      string              `json:"name"`
	StartDate string              `json:"startDate"`
	EndDate   string              `json:"endDate"`
	Status    domain.PeriodStatus `json:"status"`
	ClosedAt  *time.Time          `json:"closedAt,omitempty"`
	ClosedBy  *string             `json:"closedBy,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
	CreatedBy string              `json:"createdBy"`
}

// ListPeriodsResponse wraps a list of periods.
type ListPeriodsResponse struct {
	Periods []PeriodResponse `json:"periods"`
}

// CloseResponse is returned by the close endpoint.
type CloseResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ToPeriodResponse converts a domain.AccountingPeriod to a PeriodResponse DTO.
func ToPeriodResponse(p *domain.AccountingPeriod) PeriodResponse {
	return PeriodResponse{
		PeriodID:  p.PeriodID,
		Name:      p.Name,
		StartDate: FormatDate(p.StartDate),
		EndDate:   FormatDate(p.EndDate),
		Status:    p.Status,
		ClosedAt:  p.ClosedAt,
		ClosedBy:  p.ClosedBy,
		CreatedAt: p.CreatedAt,
		CreatedBy: p.CreatedBy,
	}
}

// ToListPeriodsResponse converts a slice of periods.
func ToListPeriodsResponse(periods []domain.AccountingPeriod) ListPeriodsResponse {
	list := make([]PeriodResponse, len(periods))
	for i := range periods {
		list[i] = ToPeriodResponse(&periods[i])
	}
	return ListPeriodsResponse{Periods: list}
}
