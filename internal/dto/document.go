package dto

import (
	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceLineRequest is one revenue (AR) or expense (AP) line of an invoice.
type InvoiceLineRequest struct {
	AccountCode string          `json:"accountCode" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"gt=0"`
	Memo        string          `json:"memo" binding:"max=255"`
}

// InvoiceRequest defines an AR (sales) or AP (purchase) invoice to post.
// ControlAccountCode is the receivable or payable account; TaxAccountCode is
// required when TaxAmount is non-zero.
type InvoiceRequest struct {
	Counterparty       string               `json:"counterparty" binding:"required,max=255"`
	InvoiceDate        string               `json:"invoiceDate" binding:"required,datetime=2006-01-02"`
	ControlAccountCode string               `json:"controlAccountCode" binding:"required"`
	TaxAccountCode     string               `json:"taxAccountCode"`
	TaxAmount          decimal.Decimal      `json:"taxAmount" binding:"gte=0"`
	Remarks            string               `json:"remarks" binding:"max=1000"`
	Lines              []InvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// PaymentRequest defines an incoming (customer) or outgoing (supplier) payment against an invoice.
type PaymentRequest struct {
	InvoiceID       string          `json:"invoiceID" binding:"required,uuid"`
	PaymentDate     string          `json:"paymentDate" binding:"required,datetime=2006-01-02"`
	CashAccountCode string          `json:"cashAccountCode" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"gt=0"`
	Remarks         string          `json:"remarks" binding:"max=1000"`
}

// DocumentResponse returns a posted document with its journal entry.
type DocumentResponse struct {
	DocumentID   string              `json:"documentID"`
	DocType      domain.DocumentType `json:"docType"`
	Counterparty string              `json:"counterparty"`
	DocumentDate string              `json:"documentDate"`
	Total        decimal.Decimal     `json:"total"`
	PaidAmount   decimal.Decimal     `json:"paidAmount"`
	AppliesTo    *string             `json:"appliesTo,omitempty"`
	Entry        JournalResponse     `json:"entry"`
}

// ToDocumentResponse converts a document and its entry to a DocumentResponse DTO.
func ToDocumentResponse(doc *domain.LedgerDocument, entry *domain.JournalEntry) DocumentResponse {
	return DocumentResponse{
		DocumentID:   doc.DocumentID,
		DocType:      doc.DocType,
		Counterparty: doc.Counterparty,
		DocumentDate: FormatDate(doc.DocumentDate),
		Total:        doc.Total,
		PaidAmount:   doc.PaidAmount,
		AppliesTo:    doc.AppliesToDocID,
		Entry:        ToJournalResponse(entry),
	}
}
