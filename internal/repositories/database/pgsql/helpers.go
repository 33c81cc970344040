package pgsql

import (
	"sort"

	"github.com/shopspring/decimal"
)

// sortedKeys keeps multi-row updates in a deterministic order.
func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
