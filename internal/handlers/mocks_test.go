package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/restaurant_ledger/internal/core/ports/services"
	"github.com/SscSPs/restaurant_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByCode(ctx context.Context, tenantID string, code string) (*domain.GLAccount, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GLAccount), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, tenantID string, limit int, offset int) ([]domain.GLAccount, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GLAccount), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.GLAccount, error) {
	args := m.Called(ctx, tenantID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GLAccount), args.Error(1)
}
func (m *MockAccountService) DeleteAccount(ctx context.Context, tenantID string, code string, userID string) error {
	args := m.Called(ctx, tenantID, code, userID)
	return args.Error(0)
}
func (m *MockAccountService) AuditBalances(ctx context.Context, tenantID string) ([]domain.BalanceMismatch, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BalanceMismatch), args.Error(1)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock PeriodService ---
type MockPeriodService struct {
	mock.Mock
}

func (m *MockPeriodService) GetPeriod(ctx context.Context, tenantID string, periodID string) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, tenantID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}
func (m *MockPeriodService) ListPeriods(ctx context.Context, tenantID string) ([]domain.AccountingPeriod, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingPeriod), args.Error(1)
}
func (m *MockPeriodService) ResolveActivePeriod(ctx context.Context, tenantID string, date time.Time) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, tenantID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}
func (m *MockPeriodService) CreatePeriod(ctx context.Context, tenantID string, req dto.CreatePeriodRequest, userID string) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, tenantID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}
func (m *MockPeriodService) UpdatePeriod(ctx context.Context, tenantID string, periodID string, req dto.UpdatePeriodRequest, userID string) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, tenantID, periodID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}
func (m *MockPeriodService) DeletePeriod(ctx context.Context, tenantID string, periodID string, userID string) error {
	args := m.Called(ctx, tenantID, periodID, userID)
	return args.Error(0)
}

var _ portssvc.PeriodSvcFacade = (*MockPeriodService)(nil)

// --- Mock PeriodCloseService ---
type MockCloseService struct {
	mock.Mock
}

func (m *MockCloseService) ValidatePeriod(ctx context.Context, tenantID string, periodID string) (*domain.PeriodValidation, error) {
	args := m.Called(ctx, tenantID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodValidation), args.Error(1)
}
func (m *MockCloseService) ClosePeriod(ctx context.Context, tenantID string, periodID string, userID string) (*domain.CloseResult, error) {
	args := m.Called(ctx, tenantID, periodID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CloseResult), args.Error(1)
}

var _ portssvc.PeriodCloseSvc = (*MockCloseService)(nil)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) GetEntry(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) ListEntries(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, tenantID, limit, nextToken)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.JournalEntry), next, args.Error(2)
}
func (m *MockJournalService) PostEntry(ctx context.Context, tenantID string, req domain.PostingRequest) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) SaveDraft(ctx context.Context, tenantID string, req domain.PostingRequest) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) PostDraft(ctx context.Context, tenantID string, entryID string, approverID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, entryID, approverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) ReverseEntry(ctx context.Context, tenantID string, entryID string, reversalDate time.Time, remarks string, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, entryID, reversalDate, remarks, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) DeleteEntry(ctx context.Context, tenantID string, entryID string, userID string) error {
	args := m.Called(ctx, tenantID, entryID, userID)
	return args.Error(0)
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Mock DocumentService ---
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) result(args mock.Arguments) (*domain.LedgerDocument, *domain.JournalEntry, error) {
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.LedgerDocument), args.Get(1).(*domain.JournalEntry), args.Error(2)
}
func (m *MockDocumentService) PostARInvoice(ctx context.Context, tenantID string, req dto.InvoiceRequest, userID string) (*domain.LedgerDocument, *domain.JournalEntry, error) {
	return m.result(m.Called(ctx, tenantID, req, userID))
}
func (m *MockDocumentService) PostAPInvoice(ctx context.Context, tenantID string, req dto.InvoiceRequest, userID string) (*domain.LedgerDocument, *domain.JournalEntry, error) {
	return m.result(m.Called(ctx, tenantID, req, userID))
}
func (m *MockDocumentService) PostIncomingPayment(ctx context.Context, tenantID string, req dto.PaymentRequest, userID string) (*domain.LedgerDocument, *domain.JournalEntry, error) {
	return m.result(m.Called(ctx, tenantID, req, userID))
}
func (m *MockDocumentService) PostOutgoingPayment(ctx context.Context, tenantID string, req dto.PaymentRequest, userID string) (*domain.LedgerDocument, *domain.JournalEntry, error) {
	return m.result(m.Called(ctx, tenantID, req, userID))
}

var _ portssvc.DocumentPosterSvc = (*MockDocumentService)(nil)

// --- Mock BankService ---
type MockBankService struct {
	mock.Mock
}

func (m *MockBankService) RecordBankTransaction(ctx context.Context, tenantID string, req dto.RecordBankTransactionRequest, userID string) (*domain.BankTransaction, error) {
	args := m.Called(ctx, tenantID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankTransaction), args.Error(1)
}
func (m *MockBankService) ReconcileBankTransaction(ctx context.Context, tenantID string, bankTransactionID string, userID string) error {
	args := m.Called(ctx, tenantID, bankTransactionID, userID)
	return args.Error(0)
}

var _ portssvc.BankTransactionSvc = (*MockBankService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) TrialBalance(ctx context.Context, tenantID string, periodID string) (*domain.TrialBalance, error) {
	args := m.Called(ctx, tenantID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}

func (m *MockReportingService) ProfitAndLoss(ctx context.Context, tenantID string, periodID string) (*domain.ProfitAndLoss, error) {
	args := m.Called(ctx, tenantID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProfitAndLoss), args.Error(1)
}

func (m *MockReportingService) BalanceSheet(ctx context.Context, tenantID string) (*domain.BalanceSheet, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSheet), args.Error(1)
}

var _ portssvc.ReportingSvc = (*MockReportingService)(nil)
