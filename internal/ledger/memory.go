package ledger

import (
	"context"
	"sync"

	"contabot/internal/core"
)

// MemoryRepository is a mutex-guarded in-memory Repository. It backs
// unit tests and the default development backend.
type MemoryRepository struct {
	mu    sync.Mutex
	users map[string]*userData
}

type userData struct {
	entries   []core.Entry
	limits    []core.BudgetLimit
	recurring []core.RecurringExpense
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: map[string]*userData{}}
}

func (m *MemoryRepository) user(userID string) *userData {
	u, ok := m.users[userID]
	if !ok {
		u = &userData{}
		m.users[userID] = u
	}
	return u
}

func (m *MemoryRepository) AppendEntry(_ context.Context, userID string, e core.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.user(userID)
	u.entries = append(u.entries, e)
	return nil
}

func (m *MemoryRepository) ListEntries(_ context.Context, userID string) ([]core.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.user(userID)
	return append([]core.Entry(nil), u.entries...), nil
}

func (m *MemoryRepository) UpdateEntryAmount(_ context.Context, userID string, index int, amount core.Money) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.user(userID)
	if index < 0 || index >= len(u.entries) {
		return ErrNotFound
	}
	u.entries[index].Amount = amount
	return nil
}

func (m *MemoryRepository) DeleteEntry(_ context.Context, userID string, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.user(userID)
	if index < 0 || index >= len(u.entries) {
		return ErrNotFound
	}
	u.entries = append(u.entries[:index], u.entries[index+1:]...)
	return nil
}

func (m *MemoryRepository) ListLimits(_ context.Context, userID string) ([]core.BudgetLimit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.user(userID)
	return append([]core.BudgetLimit(nil), u.limits...), nil
}

// CreateLimit adds a limit for a new category. Creating a category that
// already exists (case-insensitively) is a no-op.
func (m *MemoryRepository) CreateLimit(_ context.Context, userID string, l core.BudgetLimit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.user(userID)
	key := core.FoldCategory(l.Category)
	for _, existing := range u.limits {
		if core.FoldCategory(existing.Category) == key {
			return nil
		}
	}
	u.limits = append(u.limits, l)
	return nil
}

func (m *MemoryRepository) AppendRecurring(_ context.Context, userID string, r core.RecurringExpense) error {
	if err := r.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.user(userID)
	u.recurring = append(u.recurring, r)
	return nil
}

func (m *MemoryRepository) ListRecurring(_ context.Context, userID string) ([]core.RecurringExpense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.user(userID)
	return append([]core.RecurringExpense(nil), u.recurring...), nil
}
