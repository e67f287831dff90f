package bot

import (
	"errors"
	"strings"

	"contabot/internal/core"
	"contabot/internal/intent"
)

// Validation failures are user-facing: the first failing field, in a
// fixed precedence order, is the single reason the user sees.
var (
	errMissingDate   = errors.New("missing or invalid date, expected DD/MM/YYYY")
	errMissingCat    = errors.New("missing category")
	errMissingItem   = errors.New("missing item description")
	errBadAmount     = errors.New("amount must be greater than zero and at most 1,000,000")
	errBadKind       = errors.New("entry kind must be Entrada or Saída")
	errMissingFields = errors.New("missing item, amount or category")
)

// ParseRegistration validates a REGISTRAR payload against the domain
// constraints and constructs the ledger entry.
//
// Checks run in precedence order (date, category, item, amount, kind)
// and the first failure wins, so diagnostics stay predictable when
// several fields are bad at once.
func ParseRegistration(p *intent.RegisterPayload) (core.Entry, error) {
	if p == nil || strings.TrimSpace(p.Date) == "" {
		return core.Entry{}, errMissingDate
	}
	date, err := core.ParseDate(p.Date)
	if err != nil {
		return core.Entry{}, errMissingDate
	}
	category := strings.TrimSpace(p.Category)
	if category == "" {
		return core.Entry{}, errMissingCat
	}
	item := strings.TrimSpace(p.Item)
	if item == "" {
		return core.Entry{}, errMissingItem
	}
	amount, err := parseAmount(p.Amount)
	if err != nil {
		return core.Entry{}, errBadAmount
	}
	kind, err := core.ParseKind(p.Kind)
	if err != nil {
		return core.Entry{}, errBadKind
	}
	return core.Entry{
		Date:     date,
		Category: category,
		Item:     item,
		Amount:   amount,
		Kind:     kind,
	}, nil
}

// ParseRecurring validates a CADASTRAR_FIXO payload and constructs the
// recurring-expense template.
func ParseRecurring(p *intent.RegisterFixedPayload) (core.RecurringExpense, error) {
	if p == nil {
		return core.RecurringExpense{}, errMissingFields
	}
	item := strings.TrimSpace(p.Item)
	category := strings.TrimSpace(p.Category)
	if item == "" || category == "" || strings.TrimSpace(p.Amount) == "" {
		return core.RecurringExpense{}, errMissingFields
	}
	amount, err := parseAmount(p.Amount)
	if err != nil {
		return core.RecurringExpense{}, errBadAmount
	}
	return core.RecurringExpense{Item: item, Amount: amount, Category: category}, nil
}

// parseAmount parses a decimal amount (comma or dot separator) and
// enforces the positive, at-most-1,000,000 invariant.
func parseAmount(s string) (core.Money, error) {
	cents, err := core.ParseDecimalToCents(s)
	if err != nil {
		return core.Money{}, err
	}
	m := core.Money{Cents: cents}
	if err := m.Validate(); err != nil {
		return core.Money{}, err
	}
	return m, nil
}
