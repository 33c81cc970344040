package dto

import (
	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordBankTransactionRequest defines a bank-feed line to import.
type RecordBankTransactionRequest struct {
	AccountCode     string          `json:"accountCode" binding:"required"`
	TransactionDate string          `json:"transactionDate" binding:"required,datetime=2006-01-02"`
	Amount          decimal.Decimal `json:"amount"`
	Reference       string          `json:"reference" binding:"max=255"`
}

// BankTransactionResponse defines the data returned for a bank transaction.
type BankTransactionResponse struct {
	BankTransactionID string          `json:"bankTransactionID"`
	AccountCode       string          `json:"accountCode"`
	TransactionDate   string          `json:"transactionDate"`
	Amount            decimal.Decimal `json:"amount"`
	Reference         string          `json:"reference"`
	Reconciled        bool            `json:"reconciled"`
}

// ToBankTransactionResponse converts a domain.BankTransaction to its response DTO.
func ToBankTransactionResponse(t *domain.BankTransaction) BankTransactionResponse {
	return BankTransactionResponse{
		BankTransactionID: t.BankTransactionID,
		AccountCode:       t.AccountCode,
		TransactionDate:   FormatDate(t.TransactionDate),
		Amount:            t.Amount,
		Reference:         t.Reference,
		Reconciled:        t.Reconciled,
	}
}
