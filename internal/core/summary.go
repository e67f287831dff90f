package core

import "sort"

type (
	CategoryAmount struct {
		Name   string
		Amount Money
	}

	// MonthSummary aggregates one calendar month of a user's ledger.
	MonthSummary struct {
		MonthKey     string // MM/YYYY
		IncomeTotal  Money
		ExpenseTotal Money
		ByCategory   []CategoryAmount // expenses only, largest first
		EntryCount   int
	}
)

// BuildMonthSummary aggregates the entries whose date carries the given
// MM/YYYY suffix. Category grouping preserves the casing of the first
// occurrence.
func BuildMonthSummary(entries []Entry, monthKey string) MonthSummary {
	s := MonthSummary{MonthKey: monthKey}
	byCat := map[string]int64{}
	names := map[string]string{}
	for _, e := range entries {
		if e.Date.MonthKey() != monthKey {
			continue
		}
		s.EntryCount++
		if e.Kind == KindIncome {
			s.IncomeTotal.Cents += e.Amount.Cents
			continue
		}
		s.ExpenseTotal.Cents += e.Amount.Cents
		key := FoldCategory(e.Category)
		if _, ok := names[key]; !ok {
			names[key] = e.Category
		}
		byCat[key] += e.Amount.Cents
	}
	for key, cents := range byCat {
		s.ByCategory = append(s.ByCategory, CategoryAmount{Name: names[key], Amount: Money{Cents: cents}})
	}
	sort.Slice(s.ByCategory, func(i, j int) bool {
		if s.ByCategory[i].Amount.Cents != s.ByCategory[j].Amount.Cents {
			return s.ByCategory[i].Amount.Cents > s.ByCategory[j].Amount.Cents
		}
		return s.ByCategory[i].Name < s.ByCategory[j].Name
	})
	return s
}
