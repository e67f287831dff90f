// Package storage implements the ledger repository on SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"contabot/internal/core"
	"contabot/internal/ledger"
)

// SQLiteRepository persists per-user ledgers in a local SQLite file.
// Entry identity for mutation is the insertion-order index, resolved
// to the row id at call time.
type SQLiteRepository struct {
	db *sql.DB
}

var _ ledger.Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) AppendEntry(ctx context.Context, userID string, e core.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO entries (user_id, entry_date, category, item, amount_cents, kind)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		userID, e.Date.String(), e.Category, e.Item, e.Amount.Cents, string(e.Kind))
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListEntries(ctx context.Context, userID string) ([]core.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT entry_date, category, item, amount_cents, kind
		 FROM entries WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("select entries: %w", err)
	}
	defer rows.Close()

	var entries []core.Entry
	for rows.Next() {
		var (
			dateStr string
			e       core.Entry
			kind    string
		)
		if err := rows.Scan(&dateStr, &e.Category, &e.Item, &e.Amount.Cents, &kind); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		date, err := core.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", dateStr, err)
		}
		e.Date = date
		e.Kind = core.Kind(kind)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// entryID resolves an insertion-order index to the row id.
func (r *SQLiteRepository) entryID(ctx context.Context, userID string, index int) (int64, error) {
	if index < 0 {
		return 0, ledger.ErrNotFound
	}
	var id int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM entries WHERE user_id = ? ORDER BY id LIMIT 1 OFFSET ?`,
		userID, index).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, ledger.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("resolve entry index: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) UpdateEntryAmount(ctx context.Context, userID string, index int, amount core.Money) error {
	id, err := r.entryID(ctx, userID, index)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE entries SET amount_cents = ? WHERE id = ?`, amount.Cents, id)
	if err != nil {
		return fmt.Errorf("update entry amount: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteEntry(ctx context.Context, userID string, index int) error {
	id, err := r.entryID(ctx, userID, index)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListLimits(ctx context.Context, userID string) ([]core.BudgetLimit, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, limit_cents FROM budget_limits WHERE user_id = ? ORDER BY category`, userID)
	if err != nil {
		return nil, fmt.Errorf("select limits: %w", err)
	}
	defer rows.Close()

	var limits []core.BudgetLimit
	for rows.Next() {
		var l core.BudgetLimit
		if err := rows.Scan(&l.Category, &l.Limit.Cents); err != nil {
			return nil, fmt.Errorf("scan limit: %w", err)
		}
		limits = append(limits, l)
	}
	return limits, rows.Err()
}

// CreateLimit inserts a limit for a new category; creating one that
// already exists (case-insensitively) is a no-op.
func (r *SQLiteRepository) CreateLimit(ctx context.Context, userID string, l core.BudgetLimit) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budget_limits (user_id, category, category_key, limit_cents)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id, category_key) DO NOTHING`,
		userID, l.Category, core.FoldCategory(l.Category), l.Limit.Cents)
	if err != nil {
		return fmt.Errorf("insert limit: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) AppendRecurring(ctx context.Context, userID string, rec core.RecurringExpense) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO recurring_expenses (user_id, item, amount_cents, category)
		 VALUES (?, ?, ?, ?)`,
		userID, rec.Item, rec.Amount.Cents, rec.Category)
	if err != nil {
		return fmt.Errorf("insert recurring: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListRecurring(ctx context.Context, userID string) ([]core.RecurringExpense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT item, amount_cents, category
		 FROM recurring_expenses WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("select recurring: %w", err)
	}
	defer rows.Close()

	var templates []core.RecurringExpense
	for rows.Next() {
		var rec core.RecurringExpense
		if err := rows.Scan(&rec.Item, &rec.Amount.Cents, &rec.Category); err != nil {
			return nil, fmt.Errorf("scan recurring: %w", err)
		}
		templates = append(templates, rec)
	}
	return templates, rows.Err()
}

// ListUserIDs returns every user with at least one ledger row; the
// mirror worker uses it for full resyncs.
func (r *SQLiteRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM entries ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("select user ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
