package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	KindIncome  Kind = "Income"
	KindExpense Kind = "Expense"

	// Wire literals produced by the classifier for the tipo field.
	WireKindIncome  = "Entrada"
	WireKindExpense = "Saída"
)

// MaxAmountCents caps a single entry at 1,000,000.00.
const MaxAmountCents int64 = 100_000_000

type (
	Kind string

	// Date is a calendar day carried in the ledger's DD/MM/YYYY encoding.
	Date struct {
		Day   int
		Month int
		Year  int
	}

	Money struct {
		Cents int64
	}

	// Entry is one row of a user's ledger. Insertion order approximates
	// chronological order and is the basis for "most recent".
	Entry struct {
		Date     Date
		Category string
		Item     string
		Amount   Money
		Kind     Kind
	}

	// BudgetLimit is a per-category monthly ceiling, keyed by category
	// (case-insensitive, trimmed).
	BudgetLimit struct {
		Category string
		Limit    Money
	}

	// RecurringExpense is a template replayed into the ledger on user
	// command; it is not itself a ledger row.
	RecurringExpense struct {
		Item     string
		Amount   Money
		Category string
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidKind   = errors.New("invalid entry kind")
	ErrEmptyCategory = errors.New("empty category")
	ErrEmptyItem     = errors.New("empty item")
)

// DefaultCategories is the category set used when a user has none configured.
var DefaultCategories = []string{"Food", "Transport", "Leisure", "Home", "Bills", "Other"}

// DefaultCategoryLimit is the placeholder ceiling assigned to a newly
// created category until the user sets a real one.
var DefaultCategoryLimit = Money{Cents: 50_000}

// ParseDate parses the DD/MM/YYYY ledger encoding.
func ParseDate(s string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return Date{}, ErrInvalidDate
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	d := Date{Day: day, Month: month, Year: year}
	if err := d.Validate(); err != nil {
		return Date{}, err
	}
	return d, nil
}

// Today returns the current calendar day.
func Today() Date {
	now := time.Now()
	return Date{Day: now.Day(), Month: int(now.Month()), Year: now.Year()}
}

func (d Date) Validate() error {
	if d.Year < 2000 || d.Year > 2100 {
		return ErrInvalidDate
	}
	if d.Month < 1 || d.Month > 12 {
		return ErrInvalidDate
	}
	if d.Day < 1 || d.Day > daysInMonth(d.Year, d.Month) {
		return ErrInvalidDate
	}
	return nil
}

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			return 29
		}
		return 28
	}
	return 0
}

func (d Date) String() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, d.Month, d.Year)
}

// MonthKey returns the MM/YYYY suffix used for month-scoped aggregation.
func (d Date) MonthKey() string {
	return fmt.Sprintf("%02d/%04d", d.Month, d.Year)
}

// ParseKind maps the wire literals (Entrada/Saída) onto the domain kinds.
// Comparison tolerates case and the missing accent on Saida.
func ParseKind(s string) (Kind, error) {
	v := strings.TrimSpace(s)
	switch {
	case strings.EqualFold(v, WireKindIncome):
		return KindIncome, nil
	case strings.EqualFold(v, WireKindExpense), strings.EqualFold(v, "Saida"):
		return KindExpense, nil
	}
	return "", ErrInvalidKind
}

// FoldCategory returns the comparison key for category names: trimmed
// and lower-cased. Limits and entries match on this key.
func FoldCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (m Money) Validate() error {
	if m.Cents <= 0 || m.Cents > MaxAmountCents {
		return ErrInvalidAmount
	}
	return nil
}

func (e Entry) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(e.Item) == "" {
		return ErrEmptyItem
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if e.Kind != KindIncome && e.Kind != KindExpense {
		return ErrInvalidKind
	}
	return nil
}

func (r RecurringExpense) Validate() error {
	if strings.TrimSpace(r.Item) == "" {
		return ErrEmptyItem
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}
