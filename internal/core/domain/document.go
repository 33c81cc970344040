package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType identifies a numbering series and the business document behind an entry.
type DocumentType string

const (
	DocJournal         DocumentType = "JE"
	DocARInvoice       DocumentType = "ARINV"
	DocAPInvoice       DocumentType = "APINV"
	DocIncomingPayment DocumentType = "PAYIN"
	DocOutgoingPayment DocumentType = "PAYOUT"
)

// DefaultPrefix returns the number prefix used when a series is first created.
func (t DocumentType) DefaultPrefix() string {
	return string(t) + "-"
}

// LedgerDocument links a business document (invoice or payment) to the journal entry posted for it.
type LedgerDocument struct {
	DocumentID     string          `json:"documentID"`
	TenantID       string          `json:"tenantID"`
	DocType        DocumentType    `json:"docType"`
	EntryID        string          `json:"entryID"`
	Counterparty   string          `json:"counterparty"`
	ControlAccount string          `json:"controlAccount"` // AR or AP account code carrying the open balance
	DocumentDate   time.Time       `json:"documentDate"`
	Total          decimal.Decimal `json:"total"`
	PaidAmount     decimal.Decimal `json:"paidAmount"`     // Payments recorded against an invoice
	AppliesToDocID *string         `json:"appliesToDocID"` // Invoice settled by a payment
	EntryStatus    JournalStatus   `json:"entryStatus,omitempty"` // Status of the posting entry; REVERSED voids the document
	AuditFields
}

// Outstanding is the unpaid remainder of an invoice.
func (d LedgerDocument) Outstanding() decimal.Decimal {
	return d.Total.Sub(d.PaidAmount)
}

// IsVoid reports whether the entry that posted the document has been reversed.
func (d LedgerDocument) IsVoid() bool {
	return d.EntryStatus == Reversed
}

// IsInvoice reports whether the document is an AR or AP invoice.
func (d LedgerDocument) IsInvoice() bool {
	return d.DocType == DocARInvoice || d.DocType == DocAPInvoice
}
