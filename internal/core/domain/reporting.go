package domain

import "github.com/shopspring/decimal"

// TrialBalanceRow is one account's finalized movement within a period.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Net         decimal.Decimal `json:"net"` // Signed toward the account type's normal side
}

// TrialBalance lists every account moved by finalized entries dated inside a period.
type TrialBalance struct {
	Period   AccountingPeriod  `json:"period"`
	Rows     []TrialBalanceRow `json:"rows"`
	Totals   PeriodTotals      `json:"totals"`
	Balanced bool              `json:"balanced"`
}

// AccountAmount is one account's figure on a financial statement.
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// ProfitAndLoss nets revenue against expenses for the finalized entries of a period.
type ProfitAndLoss struct {
	Period        AccountingPeriod `json:"period"`
	Revenue       []AccountAmount  `json:"revenue"`
	Expenses      []AccountAmount  `json:"expenses"`
	TotalRevenue  decimal.Decimal  `json:"totalRevenue"`
	TotalExpenses decimal.Decimal  `json:"totalExpenses"`
	NetProfit     decimal.Decimal  `json:"netProfit"` // Total revenue minus total expenses
}

// BalanceSheet groups the running balances of the permanent accounts. Revenue less expenses
// not yet carried into an equity account shows up as CurrentEarnings.
type BalanceSheet struct {
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	CurrentEarnings  decimal.Decimal `json:"currentEarnings"`
	Balanced         bool            `json:"balanced"` // Assets equal liabilities plus equity plus current earnings
}
