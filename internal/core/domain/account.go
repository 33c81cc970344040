package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is one of the five ledger account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// IsDebitNormal reports whether debits increase the balance of accounts of this type.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// GLAccount represents a general-ledger account in a tenant's chart of accounts.
// Balance is a projection of all posted journal lines and is only changed by postings.
type GLAccount struct {
	AccountID   string          `json:"accountID"`   // Primary Key (UUID)
	TenantID    string          `json:"tenantID"`    // Owning business unit
	Code        string          `json:"code"`        // Unique per tenant, e.g. "1000"
	Name        string          `json:"name"`        // Display name
	AccountType AccountType     `json:"accountType"` // ASSET, LIABILITY, etc.
	Balance     decimal.Decimal `json:"balance"`     // Running balance in the account's normal direction
	AuditFields
}

// BalanceMismatch reports an account whose cached balance differs from the sum of its posted lines.
type BalanceMismatch struct {
	AccountID       string          `json:"accountID"`
	Code            string          `json:"code"`
	CachedBalance   decimal.Decimal `json:"cachedBalance"`
	ComputedBalance decimal.Decimal `json:"computedBalance"`
}
