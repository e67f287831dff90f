// Package ledger defines the per-user ledger port and the matching and
// budget-evaluation rules that operate on it.
package ledger

import (
	"context"
	"errors"

	"contabot/internal/core"
)

// ErrNotFound is returned when an index or reference does not resolve
// to an existing row.
var ErrNotFound = errors.New("ledger entry not found")

// Repository is the row-oriented persistence port. Entries are
// append-ordered per user; the index of an entry in ListEntries order
// is its identity for mutation, so "most recent" is the highest index.
type Repository interface {
	AppendEntry(ctx context.Context, userID string, e core.Entry) error
	ListEntries(ctx context.Context, userID string) ([]core.Entry, error)
	// UpdateEntryAmount mutates only the amount of the entry at index.
	UpdateEntryAmount(ctx context.Context, userID string, index int, amount core.Money) error
	DeleteEntry(ctx context.Context, userID string, index int) error

	ListLimits(ctx context.Context, userID string) ([]core.BudgetLimit, error)
	CreateLimit(ctx context.Context, userID string, l core.BudgetLimit) error

	AppendRecurring(ctx context.Context, userID string, r core.RecurringExpense) error
	ListRecurring(ctx context.Context, userID string) ([]core.RecurringExpense, error)
}
