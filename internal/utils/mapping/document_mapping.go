package mapping

import (
	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	"github.com/SscSPs/restaurant_ledger/internal/models"
)

// ToModelDocument converts a domain LedgerDocument to a model LedgerDocument
func ToModelDocument(d domain.LedgerDocument) models.LedgerDocument {
	return models.LedgerDocument{
		DocumentID:     d.DocumentID,
		TenantID:       d.TenantID,
		DocType:        string(d.DocType),
		EntryID:        d.EntryID,
		Counterparty:   d.Counterparty,
		ControlAccount: d.ControlAccount,
		DocumentDate:   domain.DateOnly(d.DocumentDate),
		Total:          d.Total,
		PaidAmount:     d.PaidAmount,
		AppliesToDocID: nullString(d.AppliesToDocID),
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDocument converts a model LedgerDocument to a domain LedgerDocument
func ToDomainDocument(m models.LedgerDocument) domain.LedgerDocument {
	return domain.LedgerDocument{
		DocumentID:     m.DocumentID,
		TenantID:       m.TenantID,
		DocType:        domain.DocumentType(m.DocType),
		EntryID:        m.EntryID,
		Counterparty:   m.Counterparty,
		ControlAccount: m.ControlAccount,
		DocumentDate:   domain.DateOnly(m.DocumentDate),
		Total:          m.Total,
		PaidAmount:     m.PaidAmount,
		AppliesToDocID: stringPtr(m.AppliesToDocID),
		EntryStatus:    domain.JournalStatus(m.EntryStatus),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelBankTransaction converts a domain BankTransaction to its row form
func ToModelBankTransaction(d domain.BankTransaction) models.BankTransaction {
	return models.BankTransaction{
		BankTransactionID: d.BankTransactionID,
		TenantID:          d.TenantID,
		AccountCode:       d.AccountCode,
		TransactionDate:   domain.DateOnly(d.TransactionDate),
		Amount:            d.Amount,
		Reference:         d.Reference,
		Reconciled:        d.Reconciled,
		ReconciledAt:      nullTime(d.ReconciledAt),
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}
