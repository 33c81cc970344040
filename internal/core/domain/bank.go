package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankTransaction is a line from a bank feed awaiting reconciliation against the ledger.
type BankTransaction struct {
	BankTransactionID string          `json:"bankTransactionID"`
	TenantID          string          `json:"tenantID"`
	AccountCode       string          `json:"accountCode"` // GL cash account the statement belongs to
	TransactionDate   time.Time       `json:"transactionDate"`
	Amount            decimal.Decimal `json:"amount"` // Signed: deposits positive, withdrawals negative
	Reference         string          `json:"reference"`
	Reconciled        bool            `json:"reconciled"`
	ReconciledAt      *time.Time      `json:"reconciledAt,omitempty"`
	AuditFields
}
