package accounting

import (
	"fmt"

	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceTolerance absorbs rounding in currency math when comparing debit and credit totals.
var BalanceTolerance = decimal.New(1, -2)

// SignedDelta returns the balance change a line applies to an account of the given type.
// ASSET and EXPENSE accounts grow with debits; LIABILITY, EQUITY and REVENUE accounts grow with credits.
func SignedDelta(line domain.JournalLine, accountType domain.AccountType) (decimal.Decimal, error) {
	if !accountType.IsValid() {
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account %s", accountType, line.AccountCode)
	}
	if accountType.IsDebitNormal() {
		return line.Debit.Sub(line.Credit), nil
	}
	return line.Credit.Sub(line.Debit), nil
}

// BalanceChanges folds the signed deltas of all lines into one change per account ID.
func BalanceChanges(lines []domain.JournalLine, accountTypes map[string]domain.AccountType) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal, len(lines))
	for _, line := range lines {
		accountType, ok := accountTypes[line.AccountID]
		if !ok {
			return nil, fmt.Errorf("account type not found for account ID %s", line.AccountID)
		}
		delta, err := SignedDelta(line, accountType)
		if err != nil {
			return nil, err
		}
		changes[line.AccountID] = changes[line.AccountID].Add(delta)
	}
	return changes, nil
}

// Totals sums both sides of the given lines.
func Totals(lines []domain.JournalLine) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, line := range lines {
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}
	return debits, credits
}

// IsBalanced reports whether |debits - credits| is strictly below BalanceTolerance.
func IsBalanced(debits, credits decimal.Decimal) bool {
	return debits.Sub(credits).Abs().LessThan(BalanceTolerance)
}

// Negate swaps the debit and credit sides of every line, producing the reversing lines.
func Negate(lines []domain.JournalLine) []domain.JournalLine {
	out := make([]domain.JournalLine, len(lines))
	for i, line := range lines {
		out[i] = line
		out[i].Debit, out[i].Credit = line.Credit, line.Debit
	}
	return out
}
