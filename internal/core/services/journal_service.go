package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/restaurant_ledger/internal/apperrors"
	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/restaurant_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/restaurant_ledger/internal/core/ports/services"
	"github.com/SscSPs/restaurant_ledger/internal/dto"
	"github.com/SscSPs/restaurant_ledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	minPostedLines = 2
	minDraftLines  = 1

	defaultEntryListLimit = 20
	maxEntryListLimit     = 100
)

// EntryPoster posts an entry inside a transaction owned by the caller.
// Document posters use it to write their document row in the same transaction as the entry.
type EntryPoster interface {
	PostEntryTx(ctx context.Context, tx pgx.Tx, tenantID string, req domain.PostingRequest) (*domain.JournalEntry, error)
}

// journalService is the posting engine. Every mutation runs in exactly one
// transaction; balances, the entry and the series counter commit or roll back together.
type journalService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	journalRepo  portsrepo.JournalRepositoryFacade
	accountRepo  portsrepo.AccountTransactionSupport
	periodRepo   portsrepo.PeriodTransactionSupport
	sequenceRepo portsrepo.SequenceRepository
	documentRepo portsrepo.DocumentRepository
	retry        RetryPolicy
}

// JournalServiceOption is a functional option for configuring the journal service
type JournalServiceOption func(*journalService)

// WithJournalRetryPolicy overrides how often a conflicting posting is re-run.
func WithJournalRetryPolicy(policy RetryPolicy) JournalServiceOption {
	return func(s *journalService) {
		s.retry = policy
	}
}

// NewJournalService creates the posting engine.
func NewJournalService(
	txManager portsrepo.TransactionManager,
	journalRepo portsrepo.JournalRepositoryFacade,
	accountRepo portsrepo.AccountTransactionSupport,
	periodRepo portsrepo.PeriodTransactionSupport,
	sequenceRepo portsrepo.SequenceRepository,
	documentRepo portsrepo.DocumentRepository,
	options ...JournalServiceOption,
) portssvc.JournalSvcFacade {
	svc := &journalService{
		txManager:    txManager,
		journalRepo:  journalRepo,
		accountRepo:  accountRepo,
		periodRepo:   periodRepo,
		sequenceRepo: sequenceRepo,
		documentRepo: documentRepo,
		retry:        DefaultRetryPolicy(),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var (
	_ portssvc.JournalSvcFacade = (*journalService)(nil)
	_ EntryPoster               = (*journalService)(nil)
)

// PostEntry validates and commits a balanced entry. A transaction conflict re-runs the
// whole call, so a retried posting never reuses a number allocated by an aborted attempt.
func (s *journalService) PostEntry(ctx context.Context, tenantID string, req domain.PostingRequest) (*domain.JournalEntry, error) {
	if err := validateLines(req.Lines, minPostedLines); err != nil {
		return nil, err
	}

	var posted *domain.JournalEntry
	err := s.runWithRetry(ctx, s.retry, "post_entry", func() error {
		return s.txManager.WithinTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx pgx.Tx) error {
			entry, err := s.PostEntryTx(ctx, tx, tenantID, req)
			if err != nil {
				return err
			}
			posted = entry
			return nil
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post journal entry",
			slog.String("tenant_id", tenantID),
			slog.String("posting_date", dto.FormatDate(req.PostingDate)))
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry posted",
		slog.String("entry_id", posted.EntryID),
		slog.String("doc_number", posted.DocNumber),
		slog.String("tenant_id", tenantID))
	return posted, nil
}

// PostEntryTx runs the posting checks and commit steps inside tx. Checks are evaluated
// in order and the first failure wins: line count, accounts, balance, period.
func (s *journalService) PostEntryTx(ctx context.Context, tx pgx.Tx, tenantID string, req domain.PostingRequest) (*domain.JournalEntry, error) {
	if err := validateRequest(req, minPostedLines); err != nil {
		return nil, err
	}
	accounts, err := s.lockAccounts(ctx, tx, tenantID, req.Lines)
	if err != nil {
		return nil, err
	}
	lines := buildLines(req.Lines, accounts)
	if err := checkBalanced(lines); err != nil {
		return nil, err
	}
	if err := s.checkPostable(ctx, tx, tenantID, req.PostingDate); err != nil {
		return nil, err
	}

	docType := req.DocType
	if docType == "" {
		docType = domain.DocJournal
	}
	docNumber, err := s.sequenceRepo.NextDocNumber(ctx, tx, tenantID, docType)
	if err != nil {
		return nil, fmt.Errorf("allocating %s number: %w", docType, err)
	}

	now := time.Now()
	entry := newEntry(tenantID, req, docType, lines, now)
	entry.DocNumber = docNumber
	entry.Status = domain.Posted

	if err := s.journalRepo.InsertEntry(ctx, tx, entry); err != nil {
		return nil, err
	}
	if err := s.applyBalances(ctx, tx, entry.Lines, accounts, req.Author, now); err != nil {
		return nil, err
	}
	return &entry, nil
}

// SaveDraft stores an entry that has no balance effect yet. Drafts need known accounts
// but may be unbalanced or dated where no period exists yet; a CLOSED period still rejects them.
// PostDraft applies the full checks.
func (s *journalService) SaveDraft(ctx context.Context, tenantID string, req domain.PostingRequest) (*domain.JournalEntry, error) {
	if err := validateRequest(req, minDraftLines); err != nil {
		return nil, err
	}

	var draft domain.JournalEntry
	err := s.txManager.WithinTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx pgx.Tx) error {
		accounts, err := s.lockAccounts(ctx, tx, tenantID, req.Lines)
		if err != nil {
			return err
		}
		period, err := findContainingPeriod(ctx, s.periodRepo, tx, tenantID, req.PostingDate)
		if err != nil {
			return err
		}
		if period != nil && !period.IsOpen() {
			return fmt.Errorf("%w: period %q covering %s is %s", apperrors.ErrPeriodClosed,
				period.Name, dto.FormatDate(req.PostingDate), period.Status)
		}
		draft = newEntry(tenantID, req, domain.DocJournal, buildLines(req.Lines, accounts), time.Now())
		draft.DocNumber = "DRAFT-" + draft.EntryID[:8]
		draft.Status = domain.Draft
		return s.journalRepo.InsertEntry(ctx, tx, draft)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to save draft entry", slog.String("tenant_id", tenantID))
		return nil, err
	}

	s.LogInfo(ctx, "Draft entry saved",
		slog.String("entry_id", draft.EntryID),
		slog.String("tenant_id", tenantID))
	return &draft, nil
}

func (s *journalService) PostDraft(ctx context.Context, tenantID string, entryID string, approverID string) (*domain.JournalEntry, error) {
	var posted *domain.JournalEntry
	err := s.runWithRetry(ctx, s.retry, "post_draft", func() error {
		return s.txManager.WithinTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx pgx.Tx) error {
			entry, err := s.journalRepo.FindEntryByIDForUpdate(ctx, tx, tenantID, entryID)
			if err != nil {
				return err
			}
			if entry.Status != domain.Draft {
				return fmt.Errorf("%w: entry %s is %s", apperrors.ErrEntryNotDraft, entry.DocNumber, entry.Status)
			}

			inputs := linesToInputs(entry.Lines)
			if err := validateLines(inputs, minPostedLines); err != nil {
				return err
			}
			accounts, err := s.lockAccounts(ctx, tx, tenantID, inputs)
			if err != nil {
				return err
			}
			lines := buildLines(inputs, accounts)
			if err := checkBalanced(lines); err != nil {
				return err
			}
			if err := s.checkPostable(ctx, tx, tenantID, entry.PostingDate); err != nil {
				return err
			}

			docNumber, err := s.sequenceRepo.NextDocNumber(ctx, tx, tenantID, entry.DocType)
			if err != nil {
				return fmt.Errorf("allocating %s number: %w", entry.DocType, err)
			}

			now := time.Now()
			entry.DocNumber = docNumber
			entry.Status = domain.Posted
			entry.Approver = &approverID
			entry.LastUpdatedAt = now
			entry.LastUpdatedBy = approverID
			if err := s.journalRepo.MarkEntryPosted(ctx, tx, *entry); err != nil {
				return err
			}
			if err := s.applyBalances(ctx, tx, entry.Lines, accounts, approverID, now); err != nil {
				return err
			}
			posted = entry
			return nil
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post draft entry",
			slog.String("tenant_id", tenantID),
			slog.String("entry_id", entryID))
		return nil, err
	}

	s.LogInfo(ctx, "Draft entry posted",
		slog.String("entry_id", entryID),
		slog.String("doc_number", posted.DocNumber))
	return posted, nil
}

// ReverseEntry posts the mirror entry on reversalDate and links both entries, in one transaction.
func (s *journalService) ReverseEntry(ctx context.Context, tenantID string, entryID string, reversalDate time.Time, remarks string, userID string) (*domain.JournalEntry, error) {
	var reversal *domain.JournalEntry
	err := s.runWithRetry(ctx, s.retry, "reverse_entry", func() error {
		return s.txManager.WithinTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx pgx.Tx) error {
			original, err := s.journalRepo.FindEntryByIDForUpdate(ctx, tx, tenantID, entryID)
			if err != nil {
				return err
			}
			if original.Status != domain.Posted {
				return fmt.Errorf("%w: entry %s is %s", apperrors.ErrEntryNotPosted, original.DocNumber, original.Status)
			}
			now := time.Now()
			if err := s.voidDocuments(ctx, tx, tenantID, original, userID, now); err != nil {
				return err
			}

			if remarks == "" {
				remarks = "Reversal of " + original.DocNumber
			}
			req := domain.PostingRequest{
				DocType:         original.DocType,
				PostingDate:     reversalDate,
				Lines:           linesToInputs(accounting.Negate(original.Lines)),
				Author:          userID,
				Remarks:         remarks,
				OriginalEntryID: &original.EntryID,
			}
			posted, err := s.PostEntryTx(ctx, tx, tenantID, req)
			if err != nil {
				return err
			}

			if err := s.journalRepo.UpdateEntryStatusAndLinks(ctx, tx, original.EntryID, domain.Reversed, &posted.EntryID, userID, now); err != nil {
				return err
			}
			reversal = posted
			return nil
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to reverse journal entry",
			slog.String("tenant_id", tenantID),
			slog.String("entry_id", entryID))
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("entry_id", entryID),
		slog.String("reversal_id", reversal.EntryID))
	return reversal, nil
}

// DeleteEntry removes a draft, or a posted entry whose period is still open and whose
// documents carry no payments. Balance effects of a posted entry are reverted in the same transaction.
func (s *journalService) DeleteEntry(ctx context.Context, tenantID string, entryID string, userID string) error {
	err := s.runWithRetry(ctx, s.retry, "delete_entry", func() error {
		return s.txManager.WithinTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx pgx.Tx) error {
			entry, err := s.journalRepo.FindEntryByIDForUpdate(ctx, tx, tenantID, entryID)
			if err != nil {
				return err
			}
			if entry.Status == domain.Draft {
				return s.journalRepo.DeleteEntry(ctx, tx, entry.EntryID)
			}
			if entry.Status == domain.Reversed {
				return fmt.Errorf("%w: entry %s is reversed, delete its reversal first", apperrors.ErrEntryNotPosted, entry.DocNumber)
			}

			period, err := findContainingPeriod(ctx, s.periodRepo, tx, tenantID, entry.PostingDate)
			if err != nil {
				return err
			}
			if period == nil || !period.IsOpen() {
				return fmt.Errorf("%w: entry %s is dated %s", apperrors.ErrPeriodClosed, entry.DocNumber, dto.FormatDate(entry.PostingDate))
			}

			now := time.Now()
			if err := s.releaseDocuments(ctx, tx, tenantID, entry, userID, now); err != nil {
				return err
			}

			accounts, err := s.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs(entry.Lines))
			if err != nil {
				return err
			}
			if err := s.applyBalancesByID(ctx, tx, accounting.Negate(entry.Lines), accounts, userID, now); err != nil {
				return err
			}

			if entry.OriginalEntryID != nil {
				if err := s.journalRepo.UpdateEntryStatusAndLinks(ctx, tx, *entry.OriginalEntryID, domain.Posted, nil, userID, now); err != nil {
					return err
				}
				if err := s.restoreDocuments(ctx, tx, tenantID, *entry.OriginalEntryID, userID, now); err != nil {
					return err
				}
			}
			return s.journalRepo.DeleteEntry(ctx, tx, entry.EntryID)
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete journal entry",
			slog.String("tenant_id", tenantID),
			slog.String("entry_id", entryID))
		return err
	}

	s.LogInfo(ctx, "Journal entry deleted",
		slog.String("entry_id", entryID),
		slog.String("user_id", userID))
	return nil
}

func (s *journalService) GetEntry(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error) {
	return s.journalRepo.FindEntryByID(ctx, tenantID, entryID)
}

func (s *journalService) ListEntries(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = defaultEntryListLimit
	}
	if limit > maxEntryListLimit {
		limit = maxEntryListLimit
	}
	return s.journalRepo.ListEntries(ctx, tenantID, limit, nextToken)
}

// releaseDocuments drops the documents posted through entry. Invoices with payments block the
// delete; a payment gives its amount back to the invoice it settled.
func (s *journalService) releaseDocuments(ctx context.Context, tx pgx.Tx, tenantID string, entry *domain.JournalEntry, userID string, now time.Time) error {
	docs, err := s.documentRepo.FindDocumentsByEntryID(ctx, tx, entry.EntryID)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if doc.IsInvoice() && doc.PaidAmount.IsPositive() {
			return fmt.Errorf("%w: invoice %s has %s paid", apperrors.ErrEntryHasPayments, entry.DocNumber, doc.PaidAmount)
		}
		if doc.AppliesToDocID != nil {
			if _, err := s.documentRepo.FindDocumentByIDForUpdate(ctx, tx, tenantID, *doc.AppliesToDocID); err != nil {
				return err
			}
			if err := s.documentRepo.AddPaidAmount(ctx, tx, *doc.AppliesToDocID, doc.Total.Neg(), userID, now); err != nil {
				return err
			}
		}
	}
	if len(docs) == 0 {
		return nil
	}
	return s.documentRepo.DeleteDocumentsByEntryID(ctx, tx, entry.EntryID)
}

// voidDocuments prepares the documents of an entry about to be reversed. The rows stay and read
// as void through the REVERSED entry. A paid invoice blocks the reversal; a payment gives its
// amount back to the invoice it settled.
func (s *journalService) voidDocuments(ctx context.Context, tx pgx.Tx, tenantID string, entry *domain.JournalEntry, userID string, now time.Time) error {
	docs, err := s.documentRepo.FindDocumentsByEntryID(ctx, tx, entry.EntryID)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if doc.IsInvoice() && doc.PaidAmount.IsPositive() {
			return fmt.Errorf("%w: invoice %s has %s paid, reverse its payments first", apperrors.ErrEntryHasPayments, entry.DocNumber, doc.PaidAmount)
		}
		if doc.AppliesToDocID == nil {
			continue
		}
		if _, err := s.documentRepo.FindDocumentByIDForUpdate(ctx, tx, tenantID, *doc.AppliesToDocID); err != nil {
			return err
		}
		if err := s.documentRepo.AddPaidAmount(ctx, tx, *doc.AppliesToDocID, doc.Total.Neg(), userID, now); err != nil {
			return err
		}
	}
	return nil
}

// restoreDocuments re-applies the payments of an entry whose reversal is being deleted.
func (s *journalService) restoreDocuments(ctx context.Context, tx pgx.Tx, tenantID string, entryID string, userID string, now time.Time) error {
	docs, err := s.documentRepo.FindDocumentsByEntryID(ctx, tx, entryID)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if doc.AppliesToDocID == nil {
			continue
		}
		invoice, err := s.documentRepo.FindDocumentByIDForUpdate(ctx, tx, tenantID, *doc.AppliesToDocID)
		if err != nil {
			return err
		}
		if invoice.EntryStatus != domain.Posted {
			return fmt.Errorf("%w: invoice %s was reversed after this payment", apperrors.ErrEntryNotPosted, invoice.DocumentID)
		}
		if outstanding := invoice.Outstanding(); doc.Total.GreaterThan(outstanding) {
			return fmt.Errorf("%w: restoring %s against %s outstanding", apperrors.ErrOverpayment, doc.Total, outstanding)
		}
		if err := s.documentRepo.AddPaidAmount(ctx, tx, invoice.DocumentID, doc.Total, userID, now); err != nil {
			return err
		}
	}
	return nil
}

// lockAccounts loads and row-locks every referenced account. Any code unknown to the tenant fails the posting.
func (s *journalService) lockAccounts(ctx context.Context, tx pgx.Tx, tenantID string, lines []domain.LineInput) (map[string]domain.GLAccount, error) {
	codes := uniqueCodes(lines)
	accounts, err := s.accountRepo.FindAccountsByCodesForUpdate(ctx, tx, tenantID, codes)
	if err != nil {
		return nil, err
	}
	for _, code := range codes {
		if _, ok := accounts[code]; !ok {
			return nil, fmt.Errorf("%w: account code %q does not exist for tenant %s", apperrors.ErrUnknownAccount, code, tenantID)
		}
	}
	return accounts, nil
}

// checkPostable requires an OPEN period covering date. The period row stays share-locked
// until commit so that a concurrent close waits for this transaction.
func (s *journalService) checkPostable(ctx context.Context, tx pgx.Tx, tenantID string, date time.Time) error {
	period, err := findContainingPeriod(ctx, s.periodRepo, tx, tenantID, date)
	if err != nil {
		return err
	}
	if period == nil {
		return fmt.Errorf("%w: no period covers %s", apperrors.ErrPeriodClosedOrMissing, dto.FormatDate(date))
	}
	if !period.IsOpen() {
		return fmt.Errorf("%w: period %q covering %s is %s", apperrors.ErrPeriodClosedOrMissing,
			period.Name, dto.FormatDate(date), period.Status)
	}
	return nil
}

func (s *journalService) applyBalances(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine, accountsByCode map[string]domain.GLAccount, userID string, now time.Time) error {
	byID := make(map[string]domain.GLAccount, len(accountsByCode))
	for _, a := range accountsByCode {
		byID[a.AccountID] = a
	}
	return s.applyBalancesByID(ctx, tx, lines, byID, userID, now)
}

func (s *journalService) applyBalancesByID(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine, accountsByID map[string]domain.GLAccount, userID string, now time.Time) error {
	types := make(map[string]domain.AccountType, len(accountsByID))
	for id, a := range accountsByID {
		types[id] = a.AccountType
	}
	changes, err := accounting.BalanceChanges(lines, types)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrLedgerIntegrity, err)
	}
	return s.accountRepo.IncrementBalancesInTx(ctx, tx, changes, userID, now)
}

func validateRequest(req domain.PostingRequest, minLines int) error {
	if err := validateLines(req.Lines, minLines); err != nil {
		return err
	}
	if req.PostingDate.IsZero() {
		return fmt.Errorf("%w: posting date is required", apperrors.ErrValidation)
	}
	if req.Author == "" {
		return fmt.Errorf("%w: author is required", apperrors.ErrValidation)
	}
	return nil
}

func validateLines(lines []domain.LineInput, minLines int) error {
	if len(lines) < minLines {
		return fmt.Errorf("%w: got %d, need at least %d", apperrors.ErrInsufficientLines, len(lines), minLines)
	}
	for i, l := range lines {
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return fmt.Errorf("%w: line %d has a negative amount", apperrors.ErrInvalidLine, i+1)
		}
	}
	return nil
}

func checkBalanced(lines []domain.JournalLine) error {
	debits, credits := accounting.Totals(lines)
	if !accounting.IsBalanced(debits, credits) {
		return fmt.Errorf("%w: debits %s, credits %s", apperrors.ErrUnbalancedEntry, debits.StringFixed(2), credits.StringFixed(2))
	}
	return nil
}

func newEntry(tenantID string, req domain.PostingRequest, docType domain.DocumentType, lines []domain.JournalLine, now time.Time) domain.JournalEntry {
	entry := domain.JournalEntry{
		EntryID:         uuid.NewString(),
		TenantID:        tenantID,
		DocType:         docType,
		PostingDate:     domain.DateOnly(req.PostingDate),
		Remarks:         req.Remarks,
		Author:          req.Author,
		Approver:        req.Approver,
		OriginalEntryID: req.OriginalEntryID,
		AuditFields:     domain.NewAuditFields(req.Author, now),
	}
	for i := range lines {
		lines[i].EntryID = entry.EntryID
	}
	entry.Lines = lines
	return entry
}

func buildLines(inputs []domain.LineInput, accounts map[string]domain.GLAccount) []domain.JournalLine {
	lines := make([]domain.JournalLine, len(inputs))
	for i, in := range inputs {
		lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			LineNo:      i + 1,
			AccountID:   accounts[in.AccountCode].AccountID,
			AccountCode: in.AccountCode,
			Debit:       in.Debit,
			Credit:      in.Credit,
			Memo:        in.Memo,
		}
	}
	return lines
}

func linesToInputs(lines []domain.JournalLine) []domain.LineInput {
	inputs := make([]domain.LineInput, len(lines))
	for i, l := range lines {
		inputs[i] = domain.LineInput{
			AccountCode: l.AccountCode,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Memo:        l.Memo,
		}
	}
	return inputs
}

// uniqueCodes returns the distinct account codes of lines in sorted order.
func uniqueCodes(lines []domain.LineInput) []string {
	seen := make(map[string]struct{}, len(lines))
	codes := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AccountCode]; ok {
			continue
		}
		seen[l.AccountCode] = struct{}{}
		codes = append(codes, l.AccountCode)
	}
	sort.Strings(codes)
	return codes
}

func accountIDs(lines []domain.JournalLine) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	sort.Strings(ids)
	return ids
}
