package domain

import "time"

// PeriodStatus enumerates accounting period lifecycle stages.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
)

// AccountingPeriod is a named, inclusive date range gating which posting dates are writable.
type AccountingPeriod struct {
	PeriodID  string       `json:"periodID"`
	TenantID  string       `json:"tenantID"`
	Name      string       `json:"name"`
	StartDate time.Time    `json:"startDate"`
	EndDate   time.Time    `json:"endDate"`
	Status    PeriodStatus `json:"status"`
	ClosedAt  *time.Time   `json:"closedAt,omitempty"`
	ClosedBy  *string      `json:"closedBy,omitempty"`
	AuditFields
}

// IsOpen reports whether postings dated inside the period are allowed.
func (p AccountingPeriod) IsOpen() bool {
	return p.Status == PeriodOpen
}

// Contains reports whether date falls within [StartDate, EndDate], endpoints included.
func (p AccountingPeriod) Contains(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(p.StartDate)) && !d.After(DateOnly(p.EndDate))
}

// Overlaps applies the inclusive-endpoint interval rule: touching boundaries overlap.
func (p AccountingPeriod) Overlaps(start, end time.Time) bool {
	return !DateOnly(p.StartDate).After(DateOnly(end)) && !DateOnly(p.EndDate).Before(DateOnly(start))
}
