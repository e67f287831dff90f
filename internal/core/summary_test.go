package core

import "testing"

func TestBuildMonthSummary(t *testing.T) {
	march := Date{Day: 10, Month: 3, Year: 2025}
	february := Date{Day: 10, Month: 2, Year: 2025}
	entries := []Entry{
		{Date: march, Category: "Food", Item: "Lunch", Amount: Money{Cents: 2500}, Kind: KindExpense},
		{Date: march, Category: "food", Item: "Groceries", Amount: Money{Cents: 10000}, Kind: KindExpense},
		{Date: march, Category: "Transport", Item: "Bus", Amount: Money{Cents: 500}, Kind: KindExpense},
		{Date: march, Category: "Other", Item: "Salary", Amount: Money{Cents: 300000}, Kind: KindIncome},
		{Date: february, Category: "Food", Item: "Old lunch", Amount: Money{Cents: 9999}, Kind: KindExpense},
	}

	s := BuildMonthSummary(entries, "03/2025")

	if s.EntryCount != 4 {
		t.Errorf("EntryCount = %d, want 4", s.EntryCount)
	}
	if s.IncomeTotal.Cents != 300000 {
		t.Errorf("IncomeTotal = %d, want 300000", s.IncomeTotal.Cents)
	}
	if s.ExpenseTotal.Cents != 13000 {
		t.Errorf("ExpenseTotal = %d, want 13000", s.ExpenseTotal.Cents)
	}
	if len(s.ByCategory) != 2 {
		t.Fatalf("ByCategory has %d groups, want 2", len(s.ByCategory))
	}
	// Food and food group together under the first-seen casing,
	// largest category first.
	if s.ByCategory[0].Name != "Food" || s.ByCategory[0].Amount.Cents != 12500 {
		t.Errorf("ByCategory[0] = %+v, want Food/12500", s.ByCategory[0])
	}
	if s.ByCategory[1].Name != "Transport" || s.ByCategory[1].Amount.Cents != 500 {
		t.Errorf("ByCategory[1] = %+v, want Transport/500", s.ByCategory[1])
	}
}

func TestBuildMonthSummaryEmptyMonth(t *testing.T) {
	s := BuildMonthSummary(nil, "03/2025")
	if s.EntryCount != 0 || len(s.ByCategory) != 0 {
		t.Errorf("empty ledger should produce an empty summary, got %+v", s)
	}
}
