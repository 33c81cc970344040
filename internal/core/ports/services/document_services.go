package services

import (
	"context"

	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	"github.com/SscSPs/restaurant_ledger/internal/dto"
)

// DocumentPosterSvc builds balanced entries from business documents and posts them.
type DocumentPosterSvc interface {
	// PostARInvoice debits the receivable and credits revenue (and output tax).
	PostARInvoice(ctx context.Context, tenantID string, req dto.InvoiceRequest, userID string) (*domain.LedgerDocument, *domain.JournalEntry, error)

	// PostAPInvoice debits expenses (and input tax) and credits the payable.
	PostAPInvoice(ctx context.Context, tenantID string, req dto.InvoiceRequest, userID string) (*domain.LedgerDocument, *domain.JournalEntry, error)

	// PostIncomingPayment settles an AR invoice: debit cash, credit the receivable.
	PostIncomingPayment(ctx context.Context, tenantID string, req dto.PaymentRequest, userID string) (*domain.LedgerDocument, *domain.JournalEntry, error)

	// PostOutgoingPayment settles an AP invoice: debit the payable, credit cash.
	PostOutgoingPayment(ctx context.Context, tenantID string, req dto.PaymentRequest, userID string) (*domain.LedgerDocument, *domain.JournalEntry, error)
}

// BankTransactionSvc manages the bank-feed lines consulted by period close.
type BankTransactionSvc interface {
	RecordBankTransaction(ctx context.Context, tenantID string, req dto.RecordBankTransactionRequest, userID string) (*domain.BankTransaction, error)
	ReconcileBankTransaction(ctx context.Context, tenantID string, bankTransactionID string, userID string) error
}
