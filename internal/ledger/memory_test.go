package ledger

import (
	"context"
	"testing"

	"contabot/internal/core"
)

func TestMemoryRepositoryEntries(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	if err := repo.AppendEntry(ctx, "u1", entry("Padaria")); err != nil {
		t.Fatalf("AppendEntry: %v", err)
	}
	if err := repo.AppendEntry(ctx, "u1", entry("Mercado")); err != nil {
		t.Fatalf("AppendEntry: %v", err)
	}
	if err := repo.AppendEntry(ctx, "u2", entry("Aluguel")); err != nil {
		t.Fatalf("AppendEntry: %v", err)
	}

	entries, err := repo.ListEntries(ctx, "u1")
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 2 || entries[0].Item != "Padaria" || entries[1].Item != "Mercado" {
		t.Fatalf("entries = %+v, insertion order must be preserved per user", entries)
	}

	if err := repo.UpdateEntryAmount(ctx, "u1", 0, core.Money{Cents: 4200}); err != nil {
		t.Fatalf("UpdateEntryAmount: %v", err)
	}
	entries, _ = repo.ListEntries(ctx, "u1")
	if entries[0].Amount.Cents != 4200 {
		t.Errorf("amount = %d, want 4200", entries[0].Amount.Cents)
	}
	if entries[0].Item != "Padaria" {
		t.Errorf("update must touch only the amount, item became %q", entries[0].Item)
	}

	if err := repo.DeleteEntry(ctx, "u1", 0); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	entries, _ = repo.ListEntries(ctx, "u1")
	if len(entries) != 1 || entries[0].Item != "Mercado" {
		t.Errorf("entries after delete = %+v", entries)
	}

	if err := repo.UpdateEntryAmount(ctx, "u1", 5, core.Money{Cents: 1}); err != ErrNotFound {
		t.Errorf("out-of-range update = %v, want ErrNotFound", err)
	}
	if err := repo.DeleteEntry(ctx, "u1", -1); err != ErrNotFound {
		t.Errorf("negative-index delete = %v, want ErrNotFound", err)
	}
}

func TestMemoryRepositoryRejectsInvalidEntry(t *testing.T) {
	repo := NewMemoryRepository()
	bad := entry("Padaria")
	bad.Amount.Cents = 0
	if err := repo.AppendEntry(context.Background(), "u1", bad); err == nil {
		t.Error("invalid entries must not be persisted")
	}
}

func TestMemoryRepositoryLimits(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	l := core.BudgetLimit{Category: "Food", Limit: core.Money{Cents: 100000}}
	if err := repo.CreateLimit(ctx, "u1", l); err != nil {
		t.Fatalf("CreateLimit: %v", err)
	}
	// Duplicate creation, differing only in case, is a no-op.
	if err := repo.CreateLimit(ctx, "u1", core.BudgetLimit{Category: "food", Limit: core.Money{Cents: 1}}); err != nil {
		t.Fatalf("CreateLimit duplicate: %v", err)
	}

	limits, err := repo.ListLimits(ctx, "u1")
	if err != nil {
		t.Fatalf("ListLimits: %v", err)
	}
	if len(limits) != 1 || limits[0].Limit.Cents != 100000 {
		t.Errorf("limits = %+v, duplicate must not overwrite", limits)
	}
}

func TestMemoryRepositoryRecurring(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	r := core.RecurringExpense{Item: "Rent", Amount: core.Money{Cents: 120000}, Category: "Home"}
	if err := repo.AppendRecurring(ctx, "u1", r); err != nil {
		t.Fatalf("AppendRecurring: %v", err)
	}
	templates, err := repo.ListRecurring(ctx, "u1")
	if err != nil {
		t.Fatalf("ListRecurring: %v", err)
	}
	if len(templates) != 1 || templates[0] != r {
		t.Errorf("templates = %+v", templates)
	}
}
