package models

import (
	"github.com/shopspring/decimal"
)

// GLAccount is a row of gl_accounts.
type GLAccount struct {
	AccountID   string          `db:"account_id"`
	TenantID    string          `db:"tenant_id"`
	Code        string          `db:"code"`
	Name        string          `db:"name"`
	AccountType string          `db:"account_type"`
	Balance     decimal.Decimal `db:"balance"`
	AuditFields
}
