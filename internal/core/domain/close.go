package domain

import "github.com/shopspring/decimal"

// PeriodValidation is the read-only preview produced before closing a period.
// Errors block the close; warnings do not.
type PeriodValidation struct {
	PeriodID string       `json:"periodID"`
	Status   PeriodStatus `json:"status"`
	IsValid  bool         `json:"isValid"`
	CanClose bool         `json:"canClose"`
	Errors   []string     `json:"errors"`
	Warnings []string     `json:"warnings"`
}

// CloseResult reports the outcome of a successful close.
type CloseResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// PeriodTotals aggregates finalized lines dated within a period.
type PeriodTotals struct {
	EntryCount  int             `json:"entryCount"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
}
