package services

import (
	"context"

	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
)

// ReportingSvc builds read-only ledger reports.
type ReportingSvc interface {
	// TrialBalance lists the movement of every account touched by finalized entries dated inside the period.
	TrialBalance(ctx context.Context, tenantID string, periodID string) (*domain.TrialBalance, error)

	// ProfitAndLoss nets the period's revenue and expense movement.
	ProfitAndLoss(ctx context.Context, tenantID string, periodID string) (*domain.ProfitAndLoss, error)

	// BalanceSheet reports the current running balance of every account, grouped by statement section.
	BalanceSheet(ctx context.Context, tenantID string) (*domain.BalanceSheet, error)
}
