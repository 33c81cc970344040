package accounting_test

import (
	"testing"

	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	"github.com/SscSPs/restaurant_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debitLine(accountID string, amount int64) domain.JournalLine {
	return domain.JournalLine{AccountID: accountID, Debit: decimal.NewFromInt(amount), Credit: decimal.Zero}
}

func creditLine(accountID string, amount int64) domain.JournalLine {
	return domain.JournalLine{AccountID: accountID, Debit: decimal.Zero, Credit: decimal.NewFromInt(amount)}
}

func TestSignedDelta(t *testing.T) {
	tests := []struct {
		name        string
		line        domain.JournalLine
		accountType domain.AccountType
		want        int64
	}{
		{"debit asset increases", debitLine("a", 100), domain.Asset, 100},
		{"credit asset decreases", creditLine("a", 100), domain.Asset, -100},
		{"debit expense increases", debitLine("a", 40), domain.Expense, 40},
		{"debit liability decreases", debitLine("a", 100), domain.Liability, -100},
		{"credit liability increases", creditLine("a", 100), domain.Liability, 100},
		{"credit equity increases", creditLine("a", 10), domain.Equity, 10},
		{"credit revenue increases", creditLine("a", 500), domain.Revenue, 500},
		{"debit revenue decreases", debitLine("a", 500), domain.Revenue, -500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := accounting.SignedDelta(tt.line, tt.accountType)
			require.NoError(t, err)
			assert.True(t, decimal.NewFromInt(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestSignedDelta_UnknownType(t *testing.T) {
	_, err := accounting.SignedDelta(debitLine("a", 1), domain.AccountType("INCOME"))
	assert.Error(t, err)
}

func TestBalanceChanges_FoldsPerAccount(t *testing.T) {
	lines := []domain.JournalLine{
		debitLine("cash", 300),
		debitLine("cash", 200),
		creditLine("sales", 500),
	}
	types := map[string]domain.AccountType{"cash": domain.Asset, "sales": domain.Revenue}

	changes, err := accounting.BalanceChanges(lines, types)
	require.NoError(t, err)
	assert.Len(t, changes, 2)
	assert.True(t, decimal.NewFromInt(500).Equal(changes["cash"]))
	assert.True(t, decimal.NewFromInt(500).Equal(changes["sales"]))
}

func TestBalanceChanges_MissingType(t *testing.T) {
	_, err := accounting.BalanceChanges([]domain.JournalLine{debitLine("x", 1)}, map[string]domain.AccountType{})
	assert.Error(t, err)
}

func TestIsBalanced_Tolerance(t *testing.T) {
	assert.True(t, accounting.IsBalanced(decimal.RequireFromString("100.00"), decimal.RequireFromString("100.00")))
	assert.True(t, accounting.IsBalanced(decimal.RequireFromString("100.004"), decimal.RequireFromString("100.00")))
	assert.True(t, accounting.IsBalanced(decimal.RequireFromString("33.33"), decimal.RequireFromString("33.3333")))
	assert.False(t, accounting.IsBalanced(decimal.RequireFromString("100.01"), decimal.RequireFromString("100.00")))
	assert.False(t, accounting.IsBalanced(decimal.RequireFromString("99"), decimal.RequireFromString("100")))
}

func TestNegate(t *testing.T) {
	lines := []domain.JournalLine{debitLine("cash", 10), creditLine("sales", 10)}
	reversed := accounting.Negate(lines)

	assert.True(t, reversed[0].Credit.Equal(decimal.NewFromInt(10)))
	assert.True(t, reversed[0].Debit.IsZero())
	assert.True(t, reversed[1].Debit.Equal(decimal.NewFromInt(10)))
	// original untouched
	assert.True(t, lines[0].Debit.Equal(decimal.NewFromInt(10)))
}
