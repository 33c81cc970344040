package dto

import (
	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID   string             `json:"accountID"`
	Code        string             `json:"code"`
	AccountName string             `json:"accountName"`
	AccountType domain.AccountType `json:"accountType"`
	Debit       decimal.Decimal    `json:"debit"`
	Credit      decimal.Decimal    `json:"credit"`
	Net         decimal.Decimal    `json:"net"`
}

// TrialBalanceResponse represents the trial balance of one accounting period
type TrialBalanceResponse struct {
	PeriodID   string                    `json:"periodID"`
	PeriodName string                    `json:"periodName"`
	StartDate  string                    `json:"startDate"`
	EndDate    string                    `json:"endDate"`
	Status     domain.PeriodStatus       `json:"status"`
	Rows       []TrialBalanceRowResponse `json:"rows"`
	EntryCount int                       `json:"entryCount"`
	Totals     struct {
		Debit  decimal.Decimal `json:"debit"`
		Credit decimal.Decimal `json:"credit"`
	} `json:"totals"`
	Balanced bool `json:"balanced"`
}

// ToTrialBalanceResponse converts a domain trial balance to its response DTO.
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	resp := TrialBalanceResponse{
		PeriodID:   tb.Period.PeriodID,
		PeriodName: tb.Period.Name,
		StartDate:  FormatDate(tb.Period.StartDate),
		EndDate:    FormatDate(tb.Period.EndDate),
		Status:     tb.Period.Status,
		Rows:       make([]TrialBalanceRowResponse, len(tb.Rows)),
		EntryCount: tb.Totals.EntryCount,
		Balanced:   tb.Balanced,
	}
	for i, r := range tb.Rows {
		resp.Rows[i] = TrialBalanceRowResponse{
			AccountID:   r.AccountID,
			Code:        r.Code,
			AccountName: r.AccountName,
			AccountType: r.AccountType,
			Debit:       r.Debit,
			Credit:      r.Credit,
			Net:         r.Net,
		}
	}
	resp.Totals.Debit = tb.Totals.TotalDebit
	resp.Totals.Credit = tb.Totals.TotalCredit
	return resp
}

// AccountAmountResponse is one account line of a financial statement
type AccountAmountResponse struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// ProfitAndLossResponse represents the profit and loss statement of one accounting period
type ProfitAndLossResponse struct {
	PeriodID      string                  `json:"periodID"`
	PeriodName    string                  `json:"periodName"`
	StartDate     string                  `json:"startDate"`
	EndDate       string                  `json:"endDate"`
	Revenue       []AccountAmountResponse `json:"revenue"`
	Expenses      []AccountAmountResponse `json:"expenses"`
	TotalRevenue  decimal.Decimal         `json:"totalRevenue"`
	TotalExpenses decimal.Decimal         `json:"totalExpenses"`
	NetProfit     decimal.Decimal         `json:"netProfit"`
}

// BalanceSheetResponse represents the current balance sheet of a tenant
type BalanceSheetResponse struct {
	Assets           []AccountAmountResponse `json:"assets"`
	Liabilities      []AccountAmountResponse `json:"liabilities"`
	Equity           []AccountAmountResponse `json:"equity"`
	TotalAssets      decimal.Decimal         `json:"totalAssets"`
	TotalLiabilities decimal.Decimal         `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal         `json:"totalEquity"`
	CurrentEarnings  decimal.Decimal         `json:"currentEarnings"`
	Balanced         bool                    `json:"balanced"`
}

func toAccountAmounts(in []domain.AccountAmount) []AccountAmountResponse {
	out := make([]AccountAmountResponse, len(in))
	for i, a := range in {
		out[i] = AccountAmountResponse{AccountID: a.AccountID, Code: a.Code, Name: a.Name, NetAmount: a.NetAmount}
	}
	return out
}

// ToProfitAndLossResponse converts a domain profit and loss statement to its response DTO.
func ToProfitAndLossResponse(r *domain.ProfitAndLoss) ProfitAndLossResponse {
	return ProfitAndLossResponse{
		PeriodID:      r.Period.PeriodID,
		PeriodName:    r.Period.Name,
		StartDate:     FormatDate(r.Period.StartDate),
		EndDate:       FormatDate(r.Period.EndDate),
		Revenue:       toAccountAmounts(r.Revenue),
		Expenses:      toAccountAmounts(r.Expenses),
		TotalRevenue:  r.TotalRevenue,
		TotalExpenses: r.TotalExpenses,
		NetProfit:     r.NetProfit,
	}
}

// ToBalanceSheetResponse converts a domain balance sheet to its response DTO.
func ToBalanceSheetResponse(r *domain.BalanceSheet) BalanceSheetResponse {
	return BalanceSheetResponse{
		Assets:           toAccountAmounts(r.Assets),
		Liabilities:      toAccountAmounts(r.Liabilities),
		Equity:           toAccountAmounts(r.Equity),
		TotalAssets:      r.TotalAssets,
		TotalLiabilities: r.TotalLiabilities,
		TotalEquity:      r.TotalEquity,
		CurrentEarnings:  r.CurrentEarnings,
		Balanced:         r.Balanced,
	}
}
