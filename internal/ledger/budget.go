package ledger

import "contabot/internal/core"

// Alert reports that a new expense would push a category past its
// configured monthly limit.
type Alert struct {
	Category  string
	Limit     core.Money
	Projected core.Money // month total including the new amount
}

// EvaluateBudget decides whether adding newAmount to a category breaches
// its configured limit for the given MM/YYYY month.
//
// Without a configured limit for the category there is no alert
// capability and the result is always negative. Otherwise the amounts
// of every entry in that month and category are summed; the alert
// fires only on a strict breach (sum + newAmount > limit), so landing
// exactly at the limit stays silent. The evaluation is advisory and
// never blocks the write it follows.
func EvaluateBudget(category string, newAmount core.Money, entries []core.Entry, limits []core.BudgetLimit, monthKey string) (Alert, bool) {
	key := core.FoldCategory(category)
	var limit core.Money
	found := false
	for _, l := range limits {
		if core.FoldCategory(l.Category) == key {
			limit = l.Limit
			found = true
			break
		}
	}
	if !found {
		return Alert{}, false
	}

	var spent int64
	for _, e := range entries {
		if e.Date.MonthKey() != monthKey {
			continue
		}
		if core.FoldCategory(e.Category) != key {
			continue
		}
		spent += e.Amount.Cents
	}

	projected := spent + newAmount.Cents
	if projected <= limit.Cents {
		return Alert{}, false
	}
	return Alert{
		Category:  category,
		Limit:     limit,
		Projected: core.Money{Cents: projected},
	}, true
}
