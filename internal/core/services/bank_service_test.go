package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/restaurant_ledger/internal/apperrors"
	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	"github.com/SscSPs/restaurant_ledger/internal/core/services"
	"github.com/SscSPs/restaurant_ledger/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecordBankTransaction(t *testing.T) {
	bankRepo := new(MockBankRepository)
	accountRepo := new(MockAccountRepository)
	svc := services.NewBankTransactionService(bankRepo, accountRepo)
	cash := account("acc-cash", "1000", domain.Asset)

	accountRepo.On("FindAccountByCode", mock.Anything, testTenantID, "1000").Return(&cash, nil)
	bankRepo.On("SaveBankTransaction", mock.Anything, mock.MatchedBy(func(txn domain.BankTransaction) bool {
		return txn.AccountCode == "1000" && !txn.Reconciled && txn.Amount.Equal(dec("-42.50"))
	})).Return(nil)

	txn, err := svc.RecordBankTransaction(context.Background(), testTenantID, dto.RecordBankTransactionRequest{
		AccountCode:     "1000",
		TransactionDate: "2025-01-12",
		Amount:          dec("-42.50"),
		Reference:       "Card fee",
	}, "user-1")

	require.NoError(t, err)
	assert.NotEmpty(t, txn.BankTransactionID)
	bankRepo.AssertExpectations(t)
}

func TestRecordBankTransaction_UnknownAccount(t *testing.T) {
	bankRepo := new(MockBankRepository)
	accountRepo := new(MockAccountRepository)
	svc := services.NewBankTransactionService(bankRepo, accountRepo)

	accountRepo.On("FindAccountByCode", mock.Anything, testTenantID, "1999").Return(nil, apperrors.ErrNotFound)

	_, err := svc.RecordBankTransaction(context.Background(), testTenantID, dto.RecordBankTransactionRequest{
		AccountCode:     "1999",
		TransactionDate: "2025-01-12",
		Amount:          dec("10"),
	}, "user-1")

	assert.ErrorIs(t, err, apperrors.ErrUnknownAccount)
	bankRepo.AssertNotCalled(t, "SaveBankTransaction", mock.Anything, mock.Anything)
}

func TestRecordBankTransaction_ZeroAmount(t *testing.T) {
	svc := services.NewBankTransactionService(new(MockBankRepository), new(MockAccountRepository))

	_, err := svc.RecordBankTransaction(context.Background(), testTenantID, dto.RecordBankTransactionRequest{
		AccountCode:     "1000",
		TransactionDate: "2025-01-12",
	}, "user-1")

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestReconcileBankTransaction(t *testing.T) {
	bankRepo := new(MockBankRepository)
	svc := services.NewBankTransactionService(bankRepo, new(MockAccountRepository))
	bankRepo.On("MarkReconciled", mock.Anything, testTenantID, "bt-1", "user-1", mock.Anything).Return(nil)

	assert.NoError(t, svc.ReconcileBankTransaction(context.Background(), testTenantID, "bt-1", "user-1"))
	bankRepo.AssertExpectations(t)
}
