package ledger

import (
	"testing"

	"contabot/internal/core"
)

func entry(item string) core.Entry {
	return core.Entry{
		Date:     core.Date{Day: 1, Month: 3, Year: 2025},
		Category: "Food",
		Item:     item,
		Amount:   core.Money{Cents: 1000},
		Kind:     core.KindExpense,
	}
}

func TestResolveMostRecentSentinel(t *testing.T) {
	entries := []core.Entry{entry("Padaria"), entry("Mercado"), entry("Farmácia")}

	match, ok := Resolve("ULTIMO", entries)
	if !ok {
		t.Fatal("sentinel should resolve on a non-empty ledger")
	}
	if match.Index != 2 || match.Entry.Item != "Farmácia" {
		t.Errorf("resolved %d/%q, want the last entry", match.Index, match.Entry.Item)
	}

	// Accent/case variants of the sentinel behave the same.
	if m, ok := Resolve("último", entries); !ok || m.Index != 2 {
		t.Errorf("accented sentinel resolved %v/%v, want last entry", m, ok)
	}
}

func TestResolveEmptyLedger(t *testing.T) {
	if _, ok := Resolve("ULTIMO", nil); ok {
		t.Error("sentinel must not resolve on an empty ledger")
	}
	if _, ok := Resolve("Padaria", nil); ok {
		t.Error("fragment must not resolve on an empty ledger")
	}
}

func TestResolveRecencyWins(t *testing.T) {
	entries := []core.Entry{entry("Padaria #1"), entry("Padaria #2"), entry("Mercado")}

	match, ok := Resolve("Padaria", entries)
	if !ok {
		t.Fatal("fragment should resolve")
	}
	if match.Entry.Item != "Padaria #2" {
		t.Errorf("resolved %q, want the most recent match %q", match.Entry.Item, "Padaria #2")
	}
	if match.Index != 1 {
		t.Errorf("Index = %d, want 1", match.Index)
	}
}

func TestResolveNewerPartialBeatsOlderExact(t *testing.T) {
	entries := []core.Entry{entry("Luz"), entry("Luz e Gás")}

	match, ok := Resolve("Luz", entries)
	if !ok {
		t.Fatal("fragment should resolve")
	}
	if match.Entry.Item != "Luz e Gás" {
		t.Errorf("resolved %q, recency must win over exact-match position", match.Entry.Item)
	}
}

func TestResolveAccentInsensitive(t *testing.T) {
	entries := []core.Entry{entry("Cartão de Crédito")}

	match, ok := Resolve("cartao", entries)
	if !ok {
		t.Fatal("accent-insensitive fragment should resolve")
	}
	if match.Index != 0 {
		t.Errorf("Index = %d, want 0", match.Index)
	}
}

func TestResolveNoMatch(t *testing.T) {
	entries := []core.Entry{entry("Padaria"), entry("Mercado")}
	if _, ok := Resolve("Aluguel", entries); ok {
		t.Error("unmatched fragment should report not-found")
	}
	if _, ok := Resolve("   ", entries); ok {
		t.Error("blank reference should report not-found")
	}
}
