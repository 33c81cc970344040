package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/restaurant_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/restaurant_ledger/internal/core/services"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Fake TransactionManager ---

// fakeTxManager runs the callback with a nil transaction. Queued errors are returned
// instead of running the callback, one per call, to simulate aborted transactions.
type fakeTxManager struct {
	calls int
	fail  []error
	opts  []pgx.TxOptions
}

var _ portsrepo.TransactionManager = (*fakeTxManager)(nil)

func (f *fakeTxManager) WithinTx(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, tx pgx.Tx) error) error {
	f.calls++
	f.opts = append(f.opts, opts)
	if len(f.fail) > 0 {
		err := f.fail[0]
		f.fail = f.fail[1:]
		return err
	}
	return fn(ctx, nil)
}

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, tenantID string, code string) (*domain.GLAccount, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GLAccount), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, tenantID string, limit int, offset int) ([]domain.GLAccount, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GLAccount), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.GLAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccountInTx(ctx context.Context, tx pgx.Tx, accountID string) error {
	args := m.Called(ctx, tx, accountID)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByCodesForUpdate(ctx context.Context, tx pgx.Tx, tenantID string, codes []string) (map[string]domain.GLAccount, error) {
	args := m.Called(ctx, tx, tenantID, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.GLAccount), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.GLAccount, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.GLAccount), args.Error(1)
}

func (m *MockAccountRepository) IncrementBalancesInTx(ctx context.Context, tx pgx.Tx, changes map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, changes, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) CountLinesForAccount(ctx context.Context, tx pgx.Tx, accountID string) (int64, error) {
	args := m.Called(ctx, tx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsInTx(ctx context.Context, tx pgx.Tx, tenantID string) ([]domain.GLAccount, error) {
	args := m.Called(ctx, tx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GLAccount), args.Error(1)
}

func (m *MockAccountRepository) ComputeBalancesFromLines(ctx context.Context, tx pgx.Tx, tenantID string) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, tx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

// --- Mock PeriodRepository ---
type MockPeriodRepository struct {
	mock.Mock
}

var _ portsrepo.PeriodRepositoryFacade = (*MockPeriodRepository)(nil)

func (m *MockPeriodRepository) FindPeriodByID(ctx context.Context, tenantID string, periodID string) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, tenantID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodRepository) ListPeriods(ctx context.Context, tenantID string) ([]domain.AccountingPeriod, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodRepository) SavePeriod(ctx context.Context, tx pgx.Tx, period domain.AccountingPeriod) error {
	args := m.Called(ctx, tx, period)
	return args.Error(0)
}

func (m *MockPeriodRepository) UpdatePeriod(ctx context.Context, tx pgx.Tx, period domain.AccountingPeriod) error {
	args := m.Called(ctx, tx, period)
	return args.Error(0)
}

func (m *MockPeriodRepository) UpdatePeriodStatus(ctx context.Context, tx pgx.Tx, periodID string, status domain.PeriodStatus, userID string, now time.Time) error {
	args := m.Called(ctx, tx, periodID, status, userID, now)
	return args.Error(0)
}

func (m *MockPeriodRepository) DeletePeriod(ctx context.Context, tx pgx.Tx, periodID string) error {
	args := m.Called(ctx, tx, periodID)
	return args.Error(0)
}

func (m *MockPeriodRepository) LockPeriodRegistry(ctx context.Context, tx pgx.Tx, tenantID string) error {
	args := m.Called(ctx, tx, tenantID)
	return args.Error(0)
}

func (m *MockPeriodRepository) FindPeriodByIDForUpdate(ctx context.Context, tx pgx.Tx, tenantID string, periodID string) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, tx, tenantID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodRepository) FindPeriodsContaining(ctx context.Context, tx pgx.Tx, tenantID string, date time.Time) ([]domain.AccountingPeriod, error) {
	args := m.Called(ctx, tx, tenantID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodRepository) FindOverlappingPeriods(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time, excludeID string) ([]domain.AccountingPeriod, error) {
	args := m.Called(ctx, tx, tenantID, start, end, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingPeriod), args.Error(1)
}

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, tenantID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.JournalEntry), returnedNextToken, args.Error(2)
}

func (m *MockJournalRepository) InsertEntry(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) MarkEntryPosted(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) UpdateEntryStatusAndLinks(ctx context.Context, tx pgx.Tx, entryID string, status domain.JournalStatus, reversingEntryID *string, userID string, now time.Time) error {
	args := m.Called(ctx, tx, entryID, status, reversingEntryID, userID, now)
	return args.Error(0)
}

func (m *MockJournalRepository) DeleteEntry(ctx context.Context, tx pgx.Tx, entryID string) error {
	args := m.Called(ctx, tx, entryID)
	return args.Error(0)
}

func (m *MockJournalRepository) FindEntryByIDForUpdate(ctx context.Context, tx pgx.Tx, tenantID string, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tx, tenantID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) CountEntriesInRange(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time) (int64, error) {
	args := m.Called(ctx, tx, tenantID, start, end)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJournalRepository) CountDraftsInRange(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time) (int64, error) {
	args := m.Called(ctx, tx, tenantID, start, end)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJournalRepository) SumFinalLinesInRange(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time) (domain.PeriodTotals, error) {
	args := m.Called(ctx, tx, tenantID, start, end)
	return args.Get(0).(domain.PeriodTotals), args.Error(1)
}

func (m *MockJournalRepository) SumLinesByAccountInRange(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, tx, tenantID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

func (m *MockJournalRepository) FindUnbalancedEntriesInRange(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time, tolerance decimal.Decimal) ([]string, error) {
	args := m.Called(ctx, tx, tenantID, start, end, tolerance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- Mock SequenceRepository ---
type MockSequenceRepository struct {
	mock.Mock
}

var _ portsrepo.SequenceRepository = (*MockSequenceRepository)(nil)

func (m *MockSequenceRepository) NextDocNumber(ctx context.Context, tx pgx.Tx, tenantID string, docType domain.DocumentType) (string, error) {
	args := m.Called(ctx, tx, tenantID, docType)
	return args.String(0), args.Error(1)
}

// --- Mock DocumentRepository ---
type MockDocumentRepository struct {
	mock.Mock
}

var _ portsrepo.DocumentRepository = (*MockDocumentRepository)(nil)

func (m *MockDocumentRepository) SaveDocument(ctx context.Context, tx pgx.Tx, doc domain.LedgerDocument) error {
	args := m.Called(ctx, tx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) FindDocumentByIDForUpdate(ctx context.Context, tx pgx.Tx, tenantID string, documentID string) (*domain.LedgerDocument, error) {
	args := m.Called(ctx, tx, tenantID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerDocument), args.Error(1)
}

func (m *MockDocumentRepository) FindDocumentsByEntryID(ctx context.Context, tx pgx.Tx, entryID string) ([]domain.LedgerDocument, error) {
	args := m.Called(ctx, tx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerDocument), args.Error(1)
}

func (m *MockDocumentRepository) AddPaidAmount(ctx context.Context, tx pgx.Tx, documentID string, amount decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, documentID, amount, userID, now)
	return args.Error(0)
}

func (m *MockDocumentRepository) DeleteDocumentsByEntryID(ctx context.Context, tx pgx.Tx, entryID string) error {
	args := m.Called(ctx, tx, entryID)
	return args.Error(0)
}

// --- Mock BankTransactionRepository ---
type MockBankRepository struct {
	mock.Mock
}

var _ portsrepo.BankTransactionRepository = (*MockBankRepository)(nil)

func (m *MockBankRepository) SaveBankTransaction(ctx context.Context, txn domain.BankTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockBankRepository) MarkReconciled(ctx context.Context, tenantID string, bankTransactionID string, userID string, now time.Time) error {
	args := m.Called(ctx, tenantID, bankTransactionID, userID, now)
	return args.Error(0)
}

func (m *MockBankRepository) CountUnreconciledInRange(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time) (int64, error) {
	args := m.Called(ctx, tx, tenantID, start, end)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock EntryPoster ---
type MockEntryPoster struct {
	mock.Mock
}

var _ services.EntryPoster = (*MockEntryPoster)(nil)

func (m *MockEntryPoster) PostEntryTx(ctx context.Context, tx pgx.Tx, tenantID string, req domain.PostingRequest) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

// --- Fixtures ---

const testTenantID = "tenant-1"

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func account(id, code string, t domain.AccountType) domain.GLAccount {
	return domain.GLAccount{AccountID: id, TenantID: testTenantID, Code: code, Name: code, AccountType: t, Balance: decimal.Zero}
}

func openPeriod(id, name, start, end string) domain.AccountingPeriod {
	return domain.AccountingPeriod{PeriodID: id, TenantID: testTenantID, Name: name, StartDate: date(start), EndDate: date(end), Status: domain.PeriodOpen}
}

func closedPeriod(id, name, start, end string) domain.AccountingPeriod {
	p := openPeriod(id, name, start, end)
	p.Status = domain.PeriodClosed
	return p
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
