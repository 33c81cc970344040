package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/restaurant_ledger/internal/apperrors"
	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/restaurant_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/restaurant_ledger/internal/core/ports/services"
	"github.com/SscSPs/restaurant_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// documentService turns invoices and payments into balanced entries. The document row
// and its entry are written in one transaction through the posting engine.
type documentService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	poster       EntryPoster
	documentRepo portsrepo.DocumentRepository
	retry        RetryPolicy
}

// DocumentServiceOption is a functional option for configuring the document service
type DocumentServiceOption func(*documentService)

// WithDocumentRetryPolicy overrides how often a conflicting document posting is re-run.
func WithDocumentRetryPolicy(policy RetryPolicy) DocumentServiceOption {
	return func(s *documentService) {
		s.retry = policy
	}
}

// NewDocumentService creates the AR/AP document posters.
func NewDocumentService(txManager portsrepo.TransactionManager, poster EntryPoster, documentRepo portsrepo.DocumentRepository, options ...DocumentServiceOption) portssvc.DocumentPosterSvc {
	svc := &documentService{
		txManager:    txManager,
		poster:       poster,
		documentRepo: documentRepo,
		retry:        DefaultRetryPolicy(),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.DocumentPosterSvc = (*documentService)(nil)

func (s *documentService) PostARInvoice(ctx context.Context, tenantID string, req dto.InvoiceRequest, userID string) (*domain.LedgerDocument, *domain.JournalEntry, error) {
	return s.postInvoice(ctx, tenantID, domain.DocARInvoice, req, userID)
}

func (s *documentService) PostAPInvoice(ctx context.Context, tenantID string, req dto.InvoiceRequest, userID string) (*domain.LedgerDocument, *domain.JournalEntry, error) {
	return s.postInvoice(ctx, tenantID, domain.DocAPInvoice, req, userID)
}

func (s *documentService) PostIncomingPayment(ctx context.Context, tenantID string, req dto.PaymentRequest, userID string) (*domain.LedgerDocument, *domain.JournalEntry, error) {
	return s.postPayment(ctx, tenantID, domain.DocIncomingPayment, domain.DocARInvoice, req, userID)
}

func (s *documentService) PostOutgoingPayment(ctx context.Context, tenantID string, req dto.PaymentRequest, userID string) (*domain.LedgerDocument, *domain.JournalEntry, error) {
	return s.postPayment(ctx, tenantID, domain.DocOutgoingPayment, domain.DocAPInvoice, req, userID)
}

func (s *documentService) postInvoice(ctx context.Context, tenantID string, docType domain.DocumentType, req dto.InvoiceRequest, userID string) (*domain.LedgerDocument, *domain.JournalEntry, error) {
	date, err := dto.ParseDate(req.InvoiceDate)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	lines, total, err := invoiceLines(docType, req)
	if err != nil {
		return nil, nil, err
	}

	remarks := req.Remarks
	if remarks == "" {
		remarks = fmt.Sprintf("%s for %s", docType, req.Counterparty)
	}
	posting := domain.PostingRequest{
		DocType:     docType,
		PostingDate: date,
		Lines:       lines,
		Author:      userID,
		Remarks:     remarks,
	}

	var doc domain.LedgerDocument
	var entry *domain.JournalEntry
	err = s.runWithRetry(ctx, s.retry, "post_invoice", func() error {
		return s.txManager.WithinTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx pgx.Tx) error {
			posted, err := s.poster.PostEntryTx(ctx, tx, tenantID, posting)
			if err != nil {
				return err
			}
			doc = domain.LedgerDocument{
				DocumentID:     uuid.NewString(),
				TenantID:       tenantID,
				DocType:        docType,
				EntryID:        posted.EntryID,
				Counterparty:   req.Counterparty,
				ControlAccount: req.ControlAccountCode,
				DocumentDate:   domain.DateOnly(date),
				Total:          total,
				PaidAmount:     decimal.Zero,
				AuditFields:    domain.NewAuditFields(userID, time.Now()),
			}
			if err := s.documentRepo.SaveDocument(ctx, tx, doc); err != nil {
				return err
			}
			entry = posted
			return nil
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post invoice",
			slog.String("tenant_id", tenantID),
			slog.String("doc_type", string(docType)))
		return nil, nil, err
	}

	s.LogInfo(ctx, "Invoice posted",
		slog.String("document_id", doc.DocumentID),
		slog.String("doc_number", entry.DocNumber),
		slog.String("total", total.String()))
	return &doc, entry, nil
}

func (s *documentService) postPayment(ctx context.Context, tenantID string, docType, invoiceType domain.DocumentType, req dto.PaymentRequest, userID string) (*domain.LedgerDocument, *domain.JournalEntry, error) {
	date, err := dto.ParseDate(req.PaymentDate)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if !req.Amount.IsPositive() {
		return nil, nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	var doc domain.LedgerDocument
	var entry *domain.JournalEntry
	err = s.runWithRetry(ctx, s.retry, "post_payment", func() error {
		return s.txManager.WithinTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx pgx.Tx) error {
			invoice, err := s.documentRepo.FindDocumentByIDForUpdate(ctx, tx, tenantID, req.InvoiceID)
			if err != nil {
				return err
			}
			if invoice.DocType != invoiceType {
				return fmt.Errorf("%w: document %s is %s, expected %s", apperrors.ErrValidation, invoice.DocumentID, invoice.DocType, invoiceType)
			}
			if invoice.EntryStatus != domain.Posted {
				return fmt.Errorf("%w: invoice %s was posted by an entry that is %s", apperrors.ErrEntryNotPosted, invoice.DocumentID, invoice.EntryStatus)
			}
			if outstanding := invoice.Outstanding(); req.Amount.GreaterThan(outstanding) {
				return fmt.Errorf("%w: paying %s against %s outstanding", apperrors.ErrOverpayment, req.Amount, outstanding)
			}

			remarks := req.Remarks
			if remarks == "" {
				remarks = fmt.Sprintf("%s from %s", docType, invoice.Counterparty)
			}
			posted, err := s.poster.PostEntryTx(ctx, tx, tenantID, domain.PostingRequest{
				DocType:     docType,
				PostingDate: date,
				Lines:       paymentLines(docType, req.CashAccountCode, invoice.ControlAccount, req.Amount),
				Author:      userID,
				Remarks:     remarks,
			})
			if err != nil {
				return err
			}

			now := time.Now()
			doc = domain.LedgerDocument{
				DocumentID:     uuid.NewString(),
				TenantID:       tenantID,
				DocType:        docType,
				EntryID:        posted.EntryID,
				Counterparty:   invoice.Counterparty,
				ControlAccount: invoice.ControlAccount,
				DocumentDate:   domain.DateOnly(date),
				Total:          req.Amount,
				PaidAmount:     decimal.Zero,
				AppliesToDocID: &invoice.DocumentID,
				AuditFields:    domain.NewAuditFields(userID, now),
			}
			if err := s.documentRepo.SaveDocument(ctx, tx, doc); err != nil {
				return err
			}
			if err := s.documentRepo.AddPaidAmount(ctx, tx, invoice.DocumentID, req.Amount, userID, now); err != nil {
				return err
			}
			entry = posted
			return nil
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post payment",
			slog.String("tenant_id", tenantID),
			slog.String("invoice_id", req.InvoiceID))
		return nil, nil, err
	}

	s.LogInfo(ctx, "Payment posted",
		slog.String("document_id", doc.DocumentID),
		slog.String("invoice_id", req.InvoiceID),
		slog.String("amount", req.Amount.String()))
	return &doc, entry, nil
}

// invoiceLines builds the entry for an invoice. AR invoices debit the receivable and credit
// revenue and output tax; AP invoices mirror that against the payable.
func invoiceLines(docType domain.DocumentType, req dto.InvoiceRequest) ([]domain.LineInput, decimal.Decimal, error) {
	if len(req.Lines) == 0 {
		return nil, decimal.Zero, fmt.Errorf("%w: invoice has no lines", apperrors.ErrInsufficientLines)
	}
	if req.TaxAmount.IsNegative() {
		return nil, decimal.Zero, fmt.Errorf("%w: tax amount must not be negative", apperrors.ErrInvalidLine)
	}
	if req.TaxAmount.IsPositive() && req.TaxAccountCode == "" {
		return nil, decimal.Zero, fmt.Errorf("%w: tax account is required when tax is charged", apperrors.ErrValidation)
	}

	sales := docType == domain.DocARInvoice
	total := decimal.Zero
	lines := make([]domain.LineInput, 0, len(req.Lines)+2)
	lines = append(lines, domain.LineInput{AccountCode: req.ControlAccountCode, Memo: req.Counterparty})

	for i, l := range req.Lines {
		if !l.Amount.IsPositive() {
			return nil, decimal.Zero, fmt.Errorf("%w: invoice line %d must be positive", apperrors.ErrInvalidLine, i+1)
		}
		total = total.Add(l.Amount)
		lines = append(lines, sideLine(l.AccountCode, l.Amount, l.Memo, !sales))
	}
	if req.TaxAmount.IsPositive() {
		total = total.Add(req.TaxAmount)
		lines = append(lines, sideLine(req.TaxAccountCode, req.TaxAmount, "tax", !sales))
	}

	if sales {
		lines[0].Debit = total
	} else {
		lines[0].Credit = total
	}
	return lines, total, nil
}

// paymentLines moves cash against the invoice's control account.
func paymentLines(docType domain.DocumentType, cashCode, controlCode string, amount decimal.Decimal) []domain.LineInput {
	incoming := docType == domain.DocIncomingPayment
	return []domain.LineInput{
		sideLine(cashCode, amount, "", incoming),
		sideLine(controlCode, amount, "", !incoming),
	}
}

func sideLine(code string, amount decimal.Decimal, memo string, debit bool) domain.LineInput {
	line := domain.LineInput{AccountCode: code, Memo: memo}
	if debit {
		line.Debit = amount
	} else {
		line.Credit = amount
	}
	return line
}
