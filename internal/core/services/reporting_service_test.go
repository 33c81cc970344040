package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/restaurant_ledger/internal/apperrors"
	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/restaurant_ledger/internal/core/ports/services"
	"github.com/SscSPs/restaurant_ledger/internal/core/services"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	txManager   *fakeTxManager
	periodRepo  *MockPeriodRepository
	journalRepo *MockJournalRepository
	accountRepo *MockAccountRepository
	service     portssvc.ReportingSvc
	jan         domain.AccountingPeriod
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.txManager = &fakeTxManager{}
	suite.periodRepo = new(MockPeriodRepository)
	suite.journalRepo = new(MockJournalRepository)
	suite.accountRepo = new(MockAccountRepository)
	suite.service = services.NewReportingService(suite.txManager, suite.periodRepo, suite.journalRepo, suite.accountRepo)
	suite.jan = closedPeriod("period-jan", "Jan 2025", "2025-01-01", "2025-01-31")
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}

func (suite *ReportingServiceTestSuite) expectPeriod() {
	suite.periodRepo.On("FindPeriodByID", mock.Anything, testTenantID, "period-jan").Return(&suite.jan, nil)
}

func (suite *ReportingServiceTestSuite) saleRows() []domain.TrialBalanceRow {
	return []domain.TrialBalanceRow{
		{AccountID: "acc-cash", Code: "1000", AccountName: "Cash drawer", AccountType: domain.Asset, Debit: dec("800"), Credit: dec("120")},
		{AccountID: "acc-tips", Code: "2200", AccountName: "Tips payable", AccountType: domain.Liability, Debit: dec("0"), Credit: dec("30")},
		{AccountID: "acc-sales", Code: "4000", AccountName: "Food sales", AccountType: domain.Revenue, Debit: dec("120"), Credit: dec("770")},
	}
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_NetsByNormalSide() {
	suite.expectPeriod()
	suite.journalRepo.On("SumLinesByAccountInRange", mock.Anything, mock.Anything, testTenantID, suite.jan.StartDate, suite.jan.EndDate).
		Return(suite.saleRows(), nil)
	suite.journalRepo.On("SumFinalLinesInRange", mock.Anything, mock.Anything, testTenantID, suite.jan.StartDate, suite.jan.EndDate).
		Return(domain.PeriodTotals{EntryCount: 4, TotalDebit: dec("920"), TotalCredit: dec("920")}, nil)

	report, err := suite.service.TrialBalance(context.Background(), testTenantID, "period-jan")

	suite.Require().NoError(err)
	suite.True(report.Balanced)
	suite.Equal("period-jan", report.Period.PeriodID)
	suite.Require().Len(report.Rows, 3)
	suite.True(report.Rows[0].Net.Equal(dec("680")), "asset grows with debits")
	suite.True(report.Rows[1].Net.Equal(dec("30")), "liability grows with credits")
	suite.True(report.Rows[2].Net.Equal(dec("650")), "revenue grows with credits")
	suite.Equal(4, report.Totals.EntryCount)
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_ReadsOneSnapshot() {
	suite.expectPeriod()
	suite.journalRepo.On("SumLinesByAccountInRange", mock.Anything, mock.Anything, testTenantID, mock.Anything, mock.Anything).
		Return([]domain.TrialBalanceRow{}, nil)
	suite.journalRepo.On("SumFinalLinesInRange", mock.Anything, mock.Anything, testTenantID, mock.Anything, mock.Anything).
		Return(domain.PeriodTotals{TotalDebit: dec("0"), TotalCredit: dec("0")}, nil)

	report, err := suite.service.TrialBalance(context.Background(), testTenantID, "period-jan")

	suite.Require().NoError(err)
	suite.Empty(report.Rows)
	suite.True(report.Balanced)
	suite.Equal(1, suite.txManager.calls)
	suite.Equal(pgx.RepeatableRead, suite.txManager.opts[0].IsoLevel)
	suite.Equal(pgx.ReadOnly, suite.txManager.opts[0].AccessMode)
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_RowsDisagreeWithTotals() {
	suite.expectPeriod()
	suite.journalRepo.On("SumLinesByAccountInRange", mock.Anything, mock.Anything, testTenantID, mock.Anything, mock.Anything).
		Return(suite.saleRows(), nil)
	suite.journalRepo.On("SumFinalLinesInRange", mock.Anything, mock.Anything, testTenantID, mock.Anything, mock.Anything).
		Return(domain.PeriodTotals{EntryCount: 5, TotalDebit: dec("1000"), TotalCredit: dec("1000")}, nil)

	_, err := suite.service.TrialBalance(context.Background(), testTenantID, "period-jan")

	suite.ErrorIs(err, apperrors.ErrLedgerIntegrity)
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_UnknownPeriod() {
	suite.periodRepo.On("FindPeriodByID", mock.Anything, testTenantID, "missing").Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.TrialBalance(context.Background(), testTenantID, "missing")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Equal(0, suite.txManager.calls)
}

func (suite *ReportingServiceTestSuite) TestProfitAndLoss_NetsRevenueAgainstExpenses() {
	suite.expectPeriod()
	suite.journalRepo.On("SumLinesByAccountInRange", mock.Anything, mock.Anything, testTenantID, suite.jan.StartDate, suite.jan.EndDate).
		Return([]domain.TrialBalanceRow{
			{AccountID: "acc-cash", Code: "1000", AccountName: "Cash drawer", AccountType: domain.Asset, Debit: dec("800"), Credit: dec("300")},
			{AccountID: "acc-sales", Code: "4000", AccountName: "Food sales", AccountType: domain.Revenue, Debit: dec("0"), Credit: dec("700")},
			{AccountID: "acc-cogs", Code: "5000", AccountName: "Cost of food", AccountType: domain.Expense, Debit: dec("200"), Credit: dec("0")},
		}, nil)
	suite.journalRepo.On("SumFinalLinesInRange", mock.Anything, mock.Anything, testTenantID, suite.jan.StartDate, suite.jan.EndDate).
		Return(domain.PeriodTotals{EntryCount: 3, TotalDebit: dec("1000"), TotalCredit: dec("1000")}, nil)

	report, err := suite.service.ProfitAndLoss(context.Background(), testTenantID, "period-jan")

	suite.Require().NoError(err)
	suite.Equal("period-jan", report.Period.PeriodID)
	suite.Require().Len(report.Revenue, 1)
	suite.Require().Len(report.Expenses, 1)
	suite.Equal("4000", report.Revenue[0].Code)
	suite.True(report.TotalRevenue.Equal(dec("700")))
	suite.True(report.TotalExpenses.Equal(dec("200")))
	suite.True(report.NetProfit.Equal(dec("500")))
}

func (suite *ReportingServiceTestSuite) TestProfitAndLoss_UnknownPeriod() {
	suite.periodRepo.On("FindPeriodByID", mock.Anything, testTenantID, "missing").Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.ProfitAndLoss(context.Background(), testTenantID, "missing")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_CarriesEarningsIntoClaims() {
	suite.accountRepo.On("ListAccountsInTx", mock.Anything, mock.Anything, testTenantID).Return([]domain.GLAccount{
		{AccountID: "acc-cash", Code: "1000", Name: "Cash drawer", AccountType: domain.Asset, Balance: dec("1500")},
		{AccountID: "acc-ap", Code: "2000", Name: "Produce suppliers", AccountType: domain.Liability, Balance: dec("400")},
		{AccountID: "acc-cap", Code: "3000", Name: "Owner capital", AccountType: domain.Equity, Balance: dec("600")},
		{AccountID: "acc-sales", Code: "4000", Name: "Food sales", AccountType: domain.Revenue, Balance: dec("900")},
		{AccountID: "acc-cogs", Code: "5000", Name: "Cost of food", AccountType: domain.Expense, Balance: dec("400")},
	}, nil)

	report, err := suite.service.BalanceSheet(context.Background(), testTenantID)

	suite.Require().NoError(err)
	suite.True(report.Balanced)
	suite.True(report.TotalAssets.Equal(dec("1500")))
	suite.True(report.TotalLiabilities.Equal(dec("400")))
	suite.True(report.TotalEquity.Equal(dec("600")))
	suite.True(report.CurrentEarnings.Equal(dec("500")))
	suite.Len(report.Assets, 1)
	suite.Len(report.Liabilities, 1)
	suite.Len(report.Equity, 1)
	suite.Equal(1, suite.txManager.calls)
	suite.Equal(pgx.RepeatableRead, suite.txManager.opts[0].IsoLevel)
	suite.Equal(pgx.ReadOnly, suite.txManager.opts[0].AccessMode)
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_FlagsDriftedBalances() {
	suite.accountRepo.On("ListAccountsInTx", mock.Anything, mock.Anything, testTenantID).Return([]domain.GLAccount{
		{AccountID: "acc-cash", Code: "1000", AccountType: domain.Asset, Balance: dec("1500")},
		{AccountID: "acc-cap", Code: "3000", AccountType: domain.Equity, Balance: dec("600")},
	}, nil)

	report, err := suite.service.BalanceSheet(context.Background(), testTenantID)

	suite.Require().NoError(err)
	suite.False(report.Balanced)
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_UnknownAccountType() {
	suite.accountRepo.On("ListAccountsInTx", mock.Anything, mock.Anything, testTenantID).Return([]domain.GLAccount{
		{AccountID: "acc-x", Code: "9999", AccountType: domain.AccountType("MEMO"), Balance: dec("1")},
	}, nil)

	_, err := suite.service.BalanceSheet(context.Background(), testTenantID)

	suite.ErrorIs(err, apperrors.ErrLedgerIntegrity)
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_StoreFailure() {
	suite.accountRepo.On("ListAccountsInTx", mock.Anything, mock.Anything, testTenantID).Return(nil, apperrors.ErrInternal)

	_, err := suite.service.BalanceSheet(context.Background(), testTenantID)

	suite.ErrorIs(err, apperrors.ErrInternal)
}
