package models

import (
	"database/sql"
	"time"
)

// AccountingPeriod is a row of accounting_periods. Dates are stored as DATE columns.
type AccountingPeriod struct {
	PeriodID  string         `db:"period_id"`
	TenantID  string         `db:"tenant_id"`
	Name      string         `db:"name"`
	StartDate time.Time      `db:"start_date"`
	EndDate   time.Time      `db:"end_date"`
	Status    string         `db:"status"`
	ClosedAt  sql.NullTime   `db:"closed_at"`
	ClosedBy  sql.NullString `db:"closed_by"`
	AuditFields
}
