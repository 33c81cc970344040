package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/restaurant_ledger/internal/apperrors"
	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/restaurant_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/restaurant_ledger/internal/core/ports/services"
	"github.com/SscSPs/restaurant_ledger/internal/dto"
	"github.com/SscSPs/restaurant_ledger/internal/utils/accounting"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// reportingService implements the ReportingSvc interface
type reportingService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	periodRepo  portsrepo.PeriodRepositoryFacade
	journalRepo portsrepo.JournalTransactionSupport
	accountRepo portsrepo.AccountAuditor
}

// NewReportingService creates a new reporting service
func NewReportingService(txManager portsrepo.TransactionManager, periodRepo portsrepo.PeriodRepositoryFacade, journalRepo portsrepo.JournalTransactionSupport, accountRepo portsrepo.AccountAuditor) portssvc.ReportingSvc {
	return &reportingService{
		txManager:   txManager,
		periodRepo:  periodRepo,
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.ReportingSvc = (*reportingService)(nil)

// TrialBalance reads per-account sums and the period totals from one snapshot. The two must
// agree; a difference means lines the account aggregate could not attribute.
func (s *reportingService) TrialBalance(ctx context.Context, tenantID string, periodID string) (*domain.TrialBalance, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, tenantID, periodID)
	if err != nil {
		return nil, err
	}

	var rows []domain.TrialBalanceRow
	var totals domain.PeriodTotals
	err = s.txManager.WithinTx(ctx, snapshotTxOptions, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		if rows, err = s.journalRepo.SumLinesByAccountInRange(ctx, tx, tenantID, period.StartDate, period.EndDate); err != nil {
			return err
		}
		totals, err = s.journalRepo.SumFinalLinesInRange(ctx, tx, tenantID, period.StartDate, period.EndDate)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve trial balance data",
			slog.String("tenant_id", tenantID),
			slog.String("period_id", periodID))
		return nil, err
	}

	debits, credits := decimal.Zero, decimal.Zero
	for i := range rows {
		net, err := accounting.SignedDelta(domain.JournalLine{
			AccountID:   rows[i].AccountID,
			AccountCode: rows[i].Code,
			Debit:       rows[i].Debit,
			Credit:      rows[i].Credit,
		}, rows[i].AccountType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrLedgerIntegrity, err)
		}
		rows[i].Net = net
		debits = debits.Add(rows[i].Debit)
		credits = credits.Add(rows[i].Credit)
	}
	if !debits.Equal(totals.TotalDebit) || !credits.Equal(totals.TotalCredit) {
		err := fmt.Errorf("%w: account rows sum to %s/%s but period %s totals %s/%s", apperrors.ErrLedgerIntegrity,
			debits, credits, period.Name, totals.TotalDebit, totals.TotalCredit)
		s.LogError(ctx, err, "Trial balance rows disagree with period totals",
			slog.String("tenant_id", tenantID),
			slog.String("period_id", periodID))
		return nil, err
	}

	report := &domain.TrialBalance{
		Period:   *period,
		Rows:     rows,
		Totals:   totals,
		Balanced: accounting.IsBalanced(totals.TotalDebit, totals.TotalCredit),
	}
	s.LogInfo(ctx, "Trial balance report generated",
		slog.String("tenant_id", tenantID),
		slog.String("period_id", periodID),
		slog.String("start_date", dto.FormatDate(period.StartDate)),
		slog.String("end_date", dto.FormatDate(period.EndDate)),
		slog.Int("row_count", len(rows)))
	return report, nil
}

// ProfitAndLoss is built from the trial balance so both reports agree on the same rows.
func (s *reportingService) ProfitAndLoss(ctx context.Context, tenantID string, periodID string) (*domain.ProfitAndLoss, error) {
	tb, err := s.TrialBalance(ctx, tenantID, periodID)
	if err != nil {
		return nil, err
	}

	report := &domain.ProfitAndLoss{
		Period:        tb.Period,
		Revenue:       []domain.AccountAmount{},
		Expenses:      []domain.AccountAmount{},
		TotalRevenue:  decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	for _, row := range tb.Rows {
		amount := domain.AccountAmount{AccountID: row.AccountID, Code: row.Code, Name: row.AccountName, NetAmount: row.Net}
		switch row.AccountType {
		case domain.Revenue:
			report.Revenue = append(report.Revenue, amount)
			report.TotalRevenue = report.TotalRevenue.Add(row.Net)
		case domain.Expense:
			report.Expenses = append(report.Expenses, amount)
			report.TotalExpenses = report.TotalExpenses.Add(row.Net)
		}
	}
	report.NetProfit = report.TotalRevenue.Sub(report.TotalExpenses)

	s.LogInfo(ctx, "Profit and loss report generated",
		slog.String("tenant_id", tenantID),
		slog.String("period_id", periodID),
		slog.Int("revenue_accounts", len(report.Revenue)),
		slog.Int("expense_accounts", len(report.Expenses)),
		slog.String("net_profit", report.NetProfit.String()))
	return report, nil
}

// BalanceSheet reads the cached balances. They are kept in each account's normal direction,
// so assets and liabilities both come out positive when healthy.
func (s *reportingService) BalanceSheet(ctx context.Context, tenantID string) (*domain.BalanceSheet, error) {
	var accounts []domain.GLAccount
	err := s.txManager.WithinTx(ctx, snapshotTxOptions, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		accounts, err = s.accountRepo.ListAccountsInTx(ctx, tx, tenantID)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve balance sheet data", slog.String("tenant_id", tenantID))
		return nil, err
	}

	report := &domain.BalanceSheet{
		Assets:           []domain.AccountAmount{},
		Liabilities:      []domain.AccountAmount{},
		Equity:           []domain.AccountAmount{},
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
		CurrentEarnings:  decimal.Zero,
	}
	for _, acc := range accounts {
		amount := domain.AccountAmount{AccountID: acc.AccountID, Code: acc.Code, Name: acc.Name, NetAmount: acc.Balance}
		switch acc.AccountType {
		case domain.Asset:
			report.Assets = append(report.Assets, amount)
			report.TotalAssets = report.TotalAssets.Add(acc.Balance)
		case domain.Liability:
			report.Liabilities = append(report.Liabilities, amount)
			report.TotalLiabilities = report.TotalLiabilities.Add(acc.Balance)
		case domain.Equity:
			report.Equity = append(report.Equity, amount)
			report.TotalEquity = report.TotalEquity.Add(acc.Balance)
		case domain.Revenue:
			report.CurrentEarnings = report.CurrentEarnings.Add(acc.Balance)
		case domain.Expense:
			report.CurrentEarnings = report.CurrentEarnings.Sub(acc.Balance)
		default:
			return nil, fmt.Errorf("%w: account %s has unknown type %q", apperrors.ErrLedgerIntegrity, acc.Code, acc.AccountType)
		}
	}
	claims := report.TotalLiabilities.Add(report.TotalEquity).Add(report.CurrentEarnings)
	report.Balanced = accounting.IsBalanced(report.TotalAssets, claims)
	if !report.Balanced {
		s.LogError(ctx, apperrors.ErrLedgerIntegrity, "Balance sheet does not balance",
			slog.String("tenant_id", tenantID),
			slog.String("total_assets", report.TotalAssets.String()),
			slog.String("total_claims", claims.String()))
	}

	s.LogInfo(ctx, "Balance sheet report generated",
		slog.String("tenant_id", tenantID),
		slog.Int("asset_accounts", len(report.Assets)),
		slog.Int("liability_accounts", len(report.Liabilities)),
		slog.Int("equity_accounts", len(report.Equity)))
	return report, nil
}
