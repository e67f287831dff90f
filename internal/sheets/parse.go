package sheets

import (
	"contabot/internal/core"
)

// parseEntryRows converts a values matrix (as returned by the Sheets
// API, first data row at sheet row 2) into entries plus the 1-based
// sheet row of each parsed entry. Rows that do not parse — stray
// notes, half-filled lines — are skipped, which is why the row numbers
// must travel with the entries.
func parseEntryRows(values [][]interface{}) ([]core.Entry, []int64) {
	var (
		entries []core.Entry
		rows    []int64
	)
	for i, raw := range values {
		row := toStrings(raw)
		if len(row) < 5 {
			continue
		}
		date, err := core.ParseDate(row[0])
		if err != nil {
			continue
		}
		cents, err := core.ParseDisplayToCents(row[3])
		if err != nil {
			continue
		}
		kind, err := core.ParseKind(row[4])
		if err != nil {
			continue
		}
		e := core.Entry{
			Date:     date,
			Category: row[1],
			Item:     row[2],
			Amount:   core.Money{Cents: cents},
			Kind:     kind,
		}
		if e.Category == "" || e.Item == "" {
			continue
		}
		entries = append(entries, e)
		rows = append(rows, int64(i+2))
	}
	return entries, rows
}

func parseLimitRows(values [][]interface{}) []core.BudgetLimit {
	var limits []core.BudgetLimit
	for _, raw := range values {
		row := toStrings(raw)
		if len(row) < 2 || row[0] == "" {
			continue
		}
		cents, err := core.ParseDisplayToCents(row[1])
		if err != nil {
			continue
		}
		limits = append(limits, core.BudgetLimit{
			Category: row[0],
			Limit:    core.Money{Cents: cents},
		})
	}
	return limits
}

func parseRecurringRows(values [][]interface{}) []core.RecurringExpense {
	var templates []core.RecurringExpense
	for _, raw := range values {
		row := toStrings(raw)
		if len(row) < 3 || row[0] == "" || row[2] == "" {
			continue
		}
		cents, err := core.ParseDisplayToCents(row[1])
		if err != nil {
			continue
		}
		templates = append(templates, core.RecurringExpense{
			Item:     row[0],
			Amount:   core.Money{Cents: cents},
			Category: row[2],
		})
	}
	return templates
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		if s, ok := v.(string); ok {
			out[i] = s
		}
	}
	return out
}
