package bot

import (
	"context"
	"strings"
	"testing"

	"contabot/internal/core"
	"contabot/internal/intent"
	"contabot/internal/ledger"
)

func newTestDispatcher(repo ledger.Repository) *Dispatcher {
	d := NewDispatcher(repo, nil)
	d.today = func() core.Date { return core.Date{Day: 15, Month: 3, Year: 2025} }
	return d
}

func mustAppend(t *testing.T, repo ledger.Repository, userID string, e core.Entry) {
	t.Helper()
	if err := repo.AppendEntry(context.Background(), userID, e); err != nil {
		t.Fatalf("AppendEntry: %v", err)
	}
}

func TestDispatchRegister(t *testing.T) {
	ctx := context.Background()
	repo := ledger.NewMemoryRepository()
	d := newTestDispatcher(repo)

	out := d.Dispatch(ctx, "u1", &intent.Intent{
		Action: intent.ActionRegister,
		Register: &intent.RegisterPayload{
			Date:     "05/03/2025",
			Category: "Food",
			Item:     "Lunch",
			Amount:   "25.00",
			Kind:     "Saída",
		},
	})
	if !strings.Contains(out.Reply, `Registered "Lunch"`) {
		t.Errorf("reply = %q, want a registration confirmation", out.Reply)
	}
	if strings.Contains(out.Reply, "Heads up") {
		t.Errorf("reply = %q, no limit configured so no alert", out.Reply)
	}

	entries, err := repo.ListEntries(ctx, "u1")
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %+v, want exactly one", entries)
	}
	want := core.Entry{
		Date:     core.Date{Day: 5, Month: 3, Year: 2025},
		Category: "Food",
		Item:     "Lunch",
		Amount:   core.Money{Cents: 2500},
		Kind:     core.KindExpense,
	}
	if entries[0] != want {
		t.Errorf("entry = %+v, want %+v", entries[0], want)
	}
}

func TestDispatchRegisterBudgetAlert(t *testing.T) {
	ctx := context.Background()
	repo := ledger.NewMemoryRepository()
	d := newTestDispatcher(repo)

	if err := repo.CreateLimit(ctx, "u1", core.BudgetLimit{Category: "Food", Limit: core.Money{Cents: 100000}}); err != nil {
		t.Fatalf("CreateLimit: %v", err)
	}
	mustAppend(t, repo, "u1", core.Entry{
		Date:     core.Date{Day: 2, Month: 3, Year: 2025},
		Category: "Food",
		Item:     "Groceries",
		Amount:   core.Money{Cents: 96000},
		Kind:     core.KindExpense,
	})

	out := d.Dispatch(ctx, "u1", &intent.Intent{
		Action: intent.ActionRegister,
		Register: &intent.RegisterPayload{
			Date:     "10/03/2025",
			Category: "Food",
			Item:     "Dinner",
			Amount:   "50.00",
			Kind:     "Saída",
		},
	})
	if !strings.Contains(out.Reply, "Registered") {
		t.Fatalf("reply = %q, entry must still be registered on a breach", out.Reply)
	}
	if !strings.Contains(out.Reply, "Heads up") {
		t.Errorf("reply = %q, want a budget alert appended", out.Reply)
	}
	if !strings.Contains(out.Reply, "R$ 1010,00") {
		t.Errorf("reply = %q, want the projected total R$ 1010,00", out.Reply)
	}
}

func TestDispatchRegisterIncomeSkipsBudget(t *testing.T) {
	ctx := context.Background()
	repo := ledger.NewMemoryRepository()
	d := newTestDispatcher(repo)

	if err := repo.CreateLimit(ctx, "u1", core.BudgetLimit{Category: "Food", Limit: core.Money{Cents: 1}}); err != nil {
		t.Fatalf("CreateLimit: %v", err)
	}

	out := d.Dispatch(ctx, "u1", &intent.Intent{
		Action: intent.ActionRegister,
		Register: &intent.RegisterPayload{
			Date:     "10/03/2025",
			Category: "Food",
			Item:     "Refund",
			Amount:   "500.00",
			Kind:     "Entrada",
		},
	})
	if strings.Contains(out.Reply, "Heads up") {
		t.Errorf("reply = %q, income must never trigger a budget alert", out.Reply)
	}
}

func TestDispatchRegisterInvalidPayload(t *testing.T) {
	d := newTestDispatcher(ledger.NewMemoryRepository())

	out := d.Dispatch(context.Background(), "u1", &intent.Intent{
		Action:   intent.ActionRegister,
		Register: &intent.RegisterPayload{Category: "Food", Item: "Lunch", Amount: "25.00", Kind: "Saída"},
	})
	if !strings.Contains(out.Reply, "Could not register") {
		t.Errorf("reply = %q, want a validation refusal", out.Reply)
	}
	if !strings.Contains(out.Reply, "DD/MM/YYYY") {
		t.Errorf("reply = %q, want the date failure named first", out.Reply)
	}
}

func TestDispatchEdit(t *testing.T) {
	ctx := context.Background()
	repo := ledger.NewMemoryRepository()
	d := newTestDispatcher(repo)

	mustAppend(t, repo, "u1", core.Entry{
		Date:     core.Date{Day: 2, Month: 3, Year: 2025},
		Category: "Food",
		Item:     "Padaria",
		Amount:   core.Money{Cents: 1500},
		Kind:     core.KindExpense,
	})

	out := d.Dispatch(ctx, "u1", &intent.Intent{
		Action: intent.ActionEdit,
		Edit:   &intent.EditPayload{Item: "padaria", NewAmount: "20,00"},
	})
	if !strings.Contains(out.Reply, `Updated "Padaria"`) {
		t.Errorf("reply = %q", out.Reply)
	}
	entries, _ := repo.ListEntries(ctx, "u1")
	if entries[0].Amount.Cents != 2000 {
		t.Errorf("amount = %d, want 2000", entries[0].Amount.Cents)
	}
}

func TestDispatchEditSentinel(t *testing.T) {
	ctx := context.Background()
	repo := ledger.NewMemoryRepository()
	d := newTestDispatcher(repo)

	mustAppend(t, repo, "u1", core.Entry{Date: core.Date{Day: 1, Month: 3, Year: 2025}, Category: "Food", Item: "First", Amount: core.Money{Cents: 100}, Kind: core.KindExpense})
	mustAppend(t, repo, "u1", core.Entry{Date: core.Date{Day: 2, Month: 3, Year: 2025}, Category: "Food", Item: "Last", Amount: core.Money{Cents: 200}, Kind: core.KindExpense})

	out := d.Dispatch(ctx, "u1", &intent.Intent{
		Action: intent.ActionEdit,
		Edit:   &intent.EditPayload{Item: "ULTIMO", NewAmount: "3.00"},
	})
	if !strings.Contains(out.Reply, `Updated "Last"`) {
		t.Errorf("reply = %q, want the most recent entry updated", out.Reply)
	}
	entries, _ := repo.ListEntries(ctx, "u1")
	if entries[0].Amount.Cents != 100 || entries[1].Amount.Cents != 300 {
		t.Errorf("amounts = %d/%d, want 100/300", entries[0].Amount.Cents, entries[1].Amount.Cents)
	}
}

func TestDispatchEditNotFound(t *testing.T) {
	d := newTestDispatcher(ledger.NewMemoryRepository())
	out := d.Dispatch(context.Background(), "u1", &intent.Intent{
		Action: intent.ActionEdit,
		Edit:   &intent.EditPayload{Item: "Aluguel", NewAmount: "10"},
	})
	if !strings.Contains(out.Reply, "couldn't find") {
		t.Errorf("reply = %q, want a not-found message", out.Reply)
	}
}

func TestDispatchEditBadAmountLeavesEntryUntouched(t *testing.T) {
	ctx := context.Background()
	repo := ledger.NewMemoryRepository()
	d := newTestDispatcher(repo)

	mustAppend(t, repo, "u1", core.Entry{Date: core.Date{Day: 2, Month: 3, Year: 2025}, Category: "Food", Item: "Padaria", Amount: core.Money{Cents: 1500}, Kind: core.KindExpense})

	out := d.Dispatch(ctx, "u1", &intent.Intent{
		Action: intent.ActionEdit,
		Edit:   &intent.EditPayload{Item: "Padaria", NewAmount: "-5"},
	})
	if !strings.Contains(out.Reply, "Could not edit") {
		t.Errorf("reply = %q", out.Reply)
	}
	entries, _ := repo.ListEntries(ctx, "u1")
	if entries[0].Amount.Cents != 1500 {
		t.Errorf("amount = %d, a rejected edit must not mutate the entry", entries[0].Amount.Cents)
	}
}

func TestDispatchDelete(t *testing.T) {
	ctx := context.Background()
	repo := ledger.NewMemoryRepository()
	d := newTestDispatcher(repo)

	mustAppend(t, repo, "u1", core.Entry{Date: core.Date{Day: 2, Month: 3, Year: 2025}, Category: "Food", Item: "Padaria", Amount: core.Money{Cents: 1500}, Kind: core.KindExpense})
	mustAppend(t, repo, "u1", core.Entry{Date: core.Date{Day: 3, Month: 3, Year: 2025}, Category: "Food", Item: "Mercado", Amount: core.Money{Cents: 8000}, Kind: core.KindExpense})

	out := d.Dispatch(ctx, "u1", &intent.Intent{
		Action: intent.ActionDelete,
		Delete: &intent.DeletePayload{Item: "Padaria"},
	})
	if !strings.Contains(out.Reply, `Deleted "Padaria"`) {
		t.Errorf("reply = %q", out.Reply)
	}
	entries, _ := repo.ListEntries(ctx, "u1")
	if len(entries) != 1 || entries[0].Item != "Mercado" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestDispatchCreateCategory(t *testing.T) {
	ctx := context.Background()
	repo := ledger.NewMemoryRepository()
	d := newTestDispatcher(repo)

	out := d.Dispatch(ctx, "u1", &intent.Intent{
		Action:      intent.ActionCreateCategory,
		NewCategory: &intent.CreateCategoryPayload{Name: "Pets"},
	})
	if !strings.Contains(out.Reply, `Category "Pets" created`) {
		t.Errorf("reply = %q", out.Reply)
	}

	// Same name in a different case is a duplicate.
	out = d.Dispatch(ctx, "u1", &intent.Intent{
		Action:      intent.ActionCreateCategory,
		NewCategory: &intent.CreateCategoryPayload{Name: "pets"},
	})
	if !strings.Contains(out.Reply, "already exists") {
		t.Errorf("reply = %q, want a duplicate notice", out.Reply)
	}

	limits, _ := repo.ListLimits(ctx, "u1")
	if len(limits) != 1 || limits[0].Limit != core.DefaultCategoryLimit {
		t.Errorf("limits = %+v", limits)
	}
}

func TestDispatchSuggestCategory(t *testing.T) {
	ctx := context.Background()
	repo := ledger.NewMemoryRepository()
	d := newTestDispatcher(repo)

	out := d.Dispatch(ctx, "u1", &intent.Intent{
		Action:  intent.ActionSuggestCategory,
		Suggest: &intent.SuggestPayload{Suggestion: "Pets", OriginalItem: "Dog food"},
	})
	if !strings.Contains(out.Reply, `"Pets"`) || !strings.Contains(out.Reply, `"Dog food"`) {
		t.Errorf("reply = %q", out.Reply)
	}

	// Suggesting must not persist anything.
	if limits, _ := repo.ListLimits(ctx, "u1"); len(limits) != 0 {
		t.Errorf("limits = %+v, suggestion must not create the category", limits)
	}
}

func TestDispatchRegisterFixed(t *testing.T) {
	ctx := context.Background()
	repo := ledger.NewMemoryRepository()
	d := newTestDispatcher(repo)

	out := d.Dispatch(ctx, "u1", &intent.Intent{
		Action:        intent.ActionRegisterFixed,
		RegisterFixed: &intent.RegisterFixedPayload{Item: "Rent", Amount: "1200.00", Category: "Home"},
	})
	if !strings.Contains(out.Reply, "Recurring expense saved") {
		t.Errorf("reply = %q", out.Reply)
	}
	templates, _ := repo.ListRecurring(ctx, "u1")
	if len(templates) != 1 || templates[0].Item != "Rent" {
		t.Errorf("templates = %+v", templates)
	}
	// Registering the template does not touch the ledger.
	if entries, _ := repo.ListEntries(ctx, "u1"); len(entries) != 0 {
		t.Errorf("entries = %+v, template registration must not append entries", entries)
	}
}

func TestDispatchQueryEmpty(t *testing.T) {
	d := newTestDispatcher(ledger.NewMemoryRepository())
	out := d.Dispatch(context.Background(), "u1", &intent.Intent{Action: intent.ActionQuery})
	if !strings.Contains(out.Reply, "ledger is empty") {
		t.Errorf("reply = %q", out.Reply)
	}
}

func TestDispatchQuerySummary(t *testing.T) {
	ctx := context.Background()
	repo := ledger.NewMemoryRepository()
	d := newTestDispatcher(repo)

	mustAppend(t, repo, "u1", core.Entry{Date: core.Date{Day: 1, Month: 3, Year: 2025}, Category: "Work", Item: "Salary", Amount: core.Money{Cents: 500000}, Kind: core.KindIncome})
	mustAppend(t, repo, "u1", core.Entry{Date: core.Date{Day: 2, Month: 3, Year: 2025}, Category: "Food", Item: "Mercado", Amount: core.Money{Cents: 30000}, Kind: core.KindExpense})

	out := d.Dispatch(ctx, "u1", &intent.Intent{Action: intent.ActionQuery})
	for _, fragment := range []string{"Report for 03/2025", "Income: R$ 5000,00", "Expenses: R$ 300,00", "Food", "Balance: R$ 4700,00"} {
		if !strings.Contains(out.Reply, fragment) {
			t.Errorf("reply missing %q:\n%s", fragment, out.Reply)
		}
	}
}

func TestDispatchConverse(t *testing.T) {
	d := newTestDispatcher(ledger.NewMemoryRepository())

	out := d.Dispatch(context.Background(), "u1", &intent.Intent{Action: intent.ActionConverse, Reply: "Hi there!"})
	if out.Reply != "Hi there!" {
		t.Errorf("reply = %q, want the model's text passed through", out.Reply)
	}

	out = d.Dispatch(context.Background(), "u1", &intent.Intent{Action: intent.ActionConverse})
	if out.Reply != replyFallback {
		t.Errorf("reply = %q, empty conversational text falls back", out.Reply)
	}
}

func TestDispatchUnknownAndNil(t *testing.T) {
	d := newTestDispatcher(ledger.NewMemoryRepository())

	if out := d.Dispatch(context.Background(), "u1", &intent.Intent{Action: intent.ActionUnknown}); out.Reply != replyFallback {
		t.Errorf("unknown action reply = %q", out.Reply)
	}
	if out := d.Dispatch(context.Background(), "u1", nil); out.Reply != replyFallback {
		t.Errorf("nil intent reply = %q", out.Reply)
	}
	// Action with a missing payload must not panic through.
	if out := d.Dispatch(context.Background(), "u1", &intent.Intent{Action: intent.ActionEdit}); out.Reply != replyFallback {
		t.Errorf("payload-less edit reply = %q", out.Reply)
	}
}

func TestReplayRecurring(t *testing.T) {
	ctx := context.Background()
	repo := ledger.NewMemoryRepository()
	d := newTestDispatcher(repo)

	if out := d.ReplayRecurring(ctx, "u1"); !strings.Contains(out.Reply, "no recurring expenses") {
		t.Errorf("reply = %q", out.Reply)
	}

	if err := repo.AppendRecurring(ctx, "u1", core.RecurringExpense{Item: "Rent", Amount: core.Money{Cents: 120000}, Category: "Home"}); err != nil {
		t.Fatalf("AppendRecurring: %v", err)
	}
	if err := repo.AppendRecurring(ctx, "u1", core.RecurringExpense{Item: "Internet", Amount: core.Money{Cents: 9900}, Category: "Bills"}); err != nil {
		t.Fatalf("AppendRecurring: %v", err)
	}

	out := d.ReplayRecurring(ctx, "u1")
	if !strings.Contains(out.Reply, "Applied 2 of 2") {
		t.Errorf("reply = %q", out.Reply)
	}
	entries, _ := repo.ListEntries(ctx, "u1")
	if len(entries) != 2 {
		t.Fatalf("entries = %+v, want both templates applied", entries)
	}
	for _, e := range entries {
		if e.Kind != core.KindExpense {
			t.Errorf("kind = %q, replayed entries are always expenses", e.Kind)
		}
		if e.Date != (core.Date{Day: 15, Month: 3, Year: 2025}) {
			t.Errorf("date = %s, replayed entries are dated today", e.Date)
		}
	}
}
