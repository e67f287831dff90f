package bot

import (
	"fmt"
	"strings"

	"contabot/internal/core"
)

const (
	// replyFallback covers classification faults and free-text turns
	// without a usable payload. Never retried automatically.
	replyFallback = "Sorry, I didn't get that. You can register an expense, edit or delete one, or ask for a report."

	// replyGenericError is the downgrade target for any handler fault.
	replyGenericError = "Something went wrong on my side. Your message was received, please try again."
)

func replyNotFound(reference string) string {
	if strings.TrimSpace(reference) == "" {
		return "I couldn't find that entry in your ledger."
	}
	return fmt.Sprintf("I couldn't find an entry matching %q in your ledger.", reference)
}

func formatSummary(s core.MonthSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Report for %s:\n", s.MonthKey)
	fmt.Fprintf(&b, "Income: %s\n", s.IncomeTotal.Display())
	fmt.Fprintf(&b, "Expenses: %s\n", s.ExpenseTotal.Display())
	if len(s.ByCategory) > 0 {
		b.WriteString("By category:\n")
		for _, c := range s.ByCategory {
			fmt.Fprintf(&b, "- %s: %s\n", c.Name, c.Amount.Display())
		}
	}
	balance := core.Money{Cents: s.IncomeTotal.Cents - s.ExpenseTotal.Cents}
	if balance.Cents < 0 {
		fmt.Fprintf(&b, "Balance: -%s", core.Money{Cents: -balance.Cents}.Display())
	} else {
		fmt.Fprintf(&b, "Balance: %s", balance.Display())
	}
	return b.String()
}
