package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerDocument is a row of ledger_documents.
type LedgerDocument struct {
	DocumentID     string          `db:"document_id"`
	TenantID       string          `db:"tenant_id"`
	DocType        string          `db:"doc_type"`
	EntryID        string          `db:"entry_id"`
	Counterparty   string          `db:"counterparty"`
	ControlAccount string          `db:"control_account"`
	DocumentDate   time.Time       `db:"document_date"`
	Total          decimal.Decimal `db:"total"`
	PaidAmount     decimal.Decimal `db:"paid_amount"`
	AppliesToDocID sql.NullString  `db:"applies_to_doc_id"`
	EntryStatus    string          `db:"entry_status"` // joined from journal_entries, never written
	AuditFields
}

// BankTransaction is a row of bank_transactions.
type BankTransaction struct {
	BankTransactionID string          `db:"bank_transaction_id"`
	TenantID          string          `db:"tenant_id"`
	AccountCode       string          `db:"account_code"`
	TransactionDate   time.Time       `db:"transaction_date"`
	Amount            decimal.Decimal `db:"amount"`
	Reference         string          `db:"reference"`
	Reconciled        bool            `db:"reconciled"`
	ReconciledAt      sql.NullTime    `db:"reconciled_at"`
	AuditFields
}
