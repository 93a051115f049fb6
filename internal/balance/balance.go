// Package balance aggregates ledger records into net per-person balances.
package balance

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Svyat-tmn/workledger/internal/models"
)

// NobodyOwes is the report line used when every person nets to zero.
const NobodyOwes = "Nobody owes anybody."

// Compute aggregates records into a net balance per person name.
//
// For each record the beneficiary (ForWhom) is credited the amount and
// the performer (WhoDid) is debited it. A positive net value means the
// group collectively owes that person — they performed unpaid-for work.
// The accumulation is commutative, so input order does not matter.
//
// Amounts accumulate as fixed-point decimals, never floats, so the
// conservation invariant (all balances sum to exactly zero) holds at any
// scale.
func Compute(records []models.Record) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal)
	for _, rec := range records {
		balances[rec.ForWhom] = balances[rec.ForWhom].Add(rec.Amount)
		balances[rec.WhoDid] = balances[rec.WhoDid].Sub(rec.Amount)
	}
	return balances
}

// Report renders balances into the human-readable period summary.
//
// Only persons with a positive net value appear, each presented as owed
// that amount; zero and negative entries are omitted from the render but
// remain queryable in the computed map. When nobody nets positive the
// report carries the NobodyOwes sentinel instead of an empty list.
func Report(balances map[string]decimal.Decimal, period string) string {
	names := make([]string, 0, len(balances))
	for name := range balances {
		if balances[name].IsPositive() {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	lines := []string{fmt.Sprintf("Balance for %s:", period)}
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("%s is owed %s", name, balances[name].String()))
	}
	if len(lines) == 1 {
		lines = append(lines, NobodyOwes)
	}
	return strings.Join(lines, "\n")
}
