package bot

import (
	"context"
	"fmt"

	"contabot/internal/core"
	"contabot/internal/intent"
	"contabot/internal/ledger"
	"contabot/internal/log"
)

// Outcome is what a dispatched intent produces: the reply sent back to
// the user.
type Outcome struct {
	Reply string
}

// Dispatcher routes a validated intent to its handler. It is stateless
// across invocations: one intent in, one outcome out, no retained
// session. Every handler runs behind a recovery wrapper so no fault
// ever propagates out; unexpected errors downgrade to a logged generic
// reply.
type Dispatcher struct {
	repo   ledger.Repository
	logger *log.Logger
	today  func() core.Date
}

func NewDispatcher(repo ledger.Repository, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Dispatcher{
		repo:   repo,
		logger: logger.WithComponent(log.ComponentDispatcher),
		today:  core.Today,
	}
}

// Dispatch invokes the handler for the intent's action.
func (d *Dispatcher) Dispatch(ctx context.Context, userID string, in *intent.Intent) (out Outcome) {
	if in == nil {
		return Outcome{Reply: replyFallback}
	}
	defer func() {
		if r := recover(); r != nil {
			d.logger.ErrorContext(ctx, "handler panic",
				log.FieldUserID, userID,
				log.FieldAction, string(in.Action),
				log.FieldError, fmt.Sprint(r))
			out = Outcome{Reply: replyGenericError}
		}
	}()

	switch in.Action {
	case intent.ActionRegister:
		return d.handleRegister(ctx, userID, in.Register)
	case intent.ActionSuggestCategory:
		return d.handleSuggestCategory(in.Suggest)
	case intent.ActionCreateCategory:
		return d.handleCreateCategory(ctx, userID, in.NewCategory)
	case intent.ActionEdit:
		return d.handleEdit(ctx, userID, in.Edit)
	case intent.ActionDelete:
		return d.handleDelete(ctx, userID, in.Delete)
	case intent.ActionRegisterFixed:
		return d.handleRegisterFixed(ctx, userID, in.RegisterFixed)
	case intent.ActionQuery:
		return d.handleQuery(ctx, userID)
	case intent.ActionConverse:
		if in.Reply == "" {
			return Outcome{Reply: replyFallback}
		}
		return Outcome{Reply: in.Reply}
	default:
		// Unknown and Error variants share the recoverable fallback.
		return Outcome{Reply: replyFallback}
	}
}

func (d *Dispatcher) handleRegister(ctx context.Context, userID string, p *intent.RegisterPayload) Outcome {
	entry, err := ParseRegistration(p)
	if err != nil {
		return Outcome{Reply: "Could not register: " + err.Error() + "."}
	}

	// Snapshot before the append so the budget evaluation does not
	// count the new entry twice.
	existing, listErr := d.repo.ListEntries(ctx, userID)

	if err := d.repo.AppendEntry(ctx, userID, entry); err != nil {
		d.logger.ErrorContext(ctx, "append entry failed",
			log.FieldUserID, userID,
			log.FieldItem, entry.Item,
			log.FieldError, err)
		return Outcome{Reply: replyGenericError}
	}
	d.logger.InfoContext(ctx, "entry registered",
		log.FieldUserID, userID,
		log.FieldItem, entry.Item,
		log.FieldCategory, entry.Category,
		log.FieldAmount, entry.Amount.Cents)

	reply := fmt.Sprintf("Registered %q: %s (%s, %s).",
		entry.Item, entry.Amount.Display(), entry.Category, entry.Date)

	// Advisory only: the entry is already persisted, a breach merely
	// augments the confirmation.
	if entry.Kind == core.KindExpense {
		if alert, ok := d.evaluateBudget(ctx, userID, entry, existing, listErr); ok {
			reply += "\n" + alert
		}
	}
	return Outcome{Reply: reply}
}

func (d *Dispatcher) evaluateBudget(ctx context.Context, userID string, entry core.Entry, existing []core.Entry, listErr error) (string, bool) {
	if listErr != nil {
		d.logger.WarnContext(ctx, "skipping budget evaluation",
			log.FieldUserID, userID, log.FieldError, listErr)
		return "", false
	}
	limits, err := d.repo.ListLimits(ctx, userID)
	if err != nil {
		d.logger.WarnContext(ctx, "skipping budget evaluation",
			log.FieldUserID, userID, log.FieldError, err)
		return "", false
	}
	alert, ok := ledger.EvaluateBudget(entry.Category, entry.Amount, existing, limits, d.today().MonthKey())
	if !ok {
		return "", false
	}
	return fmt.Sprintf("Heads up: %s spending this month is now %s, over the %s limit.",
		alert.Category, alert.Projected.Display(), alert.Limit.Display()), true
}

func (d *Dispatcher) handleSuggestCategory(p *intent.SuggestPayload) Outcome {
	if p == nil || p.Suggestion == "" {
		return Outcome{Reply: replyFallback}
	}
	reply := fmt.Sprintf("There is no %q category yet", p.Suggestion)
	if p.OriginalItem != "" {
		reply += fmt.Sprintf(" for %q", p.OriginalItem)
	}
	reply += fmt.Sprintf(". Say \"create category %s\" to add it, or pick an existing one.", p.Suggestion)
	return Outcome{Reply: reply}
}

func (d *Dispatcher) handleCreateCategory(ctx context.Context, userID string, p *intent.CreateCategoryPayload) Outcome {
	if p == nil || p.Name == "" {
		return Outcome{Reply: replyFallback}
	}
	limits, err := d.repo.ListLimits(ctx, userID)
	if err != nil {
		d.logger.ErrorContext(ctx, "list limits failed",
			log.FieldUserID, userID, log.FieldError, err)
		return Outcome{Reply: replyGenericError}
	}
	key := core.FoldCategory(p.Name)
	for _, l := range limits {
		if core.FoldCategory(l.Category) == key {
			return Outcome{Reply: fmt.Sprintf("The category %q already exists.", l.Category)}
		}
	}
	limit := core.BudgetLimit{Category: p.Name, Limit: core.DefaultCategoryLimit}
	if err := d.repo.CreateLimit(ctx, userID, limit); err != nil {
		d.logger.ErrorContext(ctx, "create limit failed",
			log.FieldUserID, userID,
			log.FieldCategory, p.Name,
			log.FieldError, err)
		return Outcome{Reply: replyGenericError}
	}
	return Outcome{Reply: fmt.Sprintf("Category %q created with a default monthly limit of %s.",
		p.Name, limit.Limit.Display())}
}

func (d *Dispatcher) handleEdit(ctx context.Context, userID string, p *intent.EditPayload) Outcome {
	if p == nil {
		return Outcome{Reply: replyFallback}
	}
	entries, err := d.repo.ListEntries(ctx, userID)
	if err != nil {
		d.logger.ErrorContext(ctx, "list entries failed",
			log.FieldUserID, userID, log.FieldError, err)
		return Outcome{Reply: replyGenericError}
	}
	match, ok := ledger.Resolve(p.Item, entries)
	if !ok {
		return Outcome{Reply: replyNotFound(p.Item)}
	}
	amount, err := parseAmount(p.NewAmount)
	if err != nil {
		return Outcome{Reply: "Could not edit: " + errBadAmount.Error() + "."}
	}
	if err := d.repo.UpdateEntryAmount(ctx, userID, match.Index, amount); err != nil {
		d.logger.ErrorContext(ctx, "update entry failed",
			log.FieldUserID, userID,
			log.FieldEntryIdx, match.Index,
			log.FieldError, err)
		return Outcome{Reply: replyGenericError}
	}
	return Outcome{Reply: fmt.Sprintf("Updated %q: %s changed to %s.",
		match.Entry.Item, match.Entry.Amount.Display(), amount.Display())}
}

func (d *Dispatcher) handleDelete(ctx context.Context, userID string, p *intent.DeletePayload) Outcome {
	if p == nil {
		return Outcome{Reply: replyFallback}
	}
	entries, err := d.repo.ListEntries(ctx, userID)
	if err != nil {
		d.logger.ErrorContext(ctx, "list entries failed",
			log.FieldUserID, userID, log.FieldError, err)
		return Outcome{Reply: replyGenericError}
	}
	match, ok := ledger.Resolve(p.Item, entries)
	if !ok {
		return Outcome{Reply: replyNotFound(p.Item)}
	}
	if err := d.repo.DeleteEntry(ctx, userID, match.Index); err != nil {
		d.logger.ErrorContext(ctx, "delete entry failed",
			log.FieldUserID, userID,
			log.FieldEntryIdx, match.Index,
			log.FieldError, err)
		return Outcome{Reply: replyGenericError}
	}
	return Outcome{Reply: fmt.Sprintf("Deleted %q (%s, %s).",
		match.Entry.Item, match.Entry.Amount.Display(), match.Entry.Date)}
}

func (d *Dispatcher) handleRegisterFixed(ctx context.Context, userID string, p *intent.RegisterFixedPayload) Outcome {
	recurring, err := ParseRecurring(p)
	if err != nil {
		return Outcome{Reply: "Could not save recurring expense: " + err.Error() + "."}
	}
	if err := d.repo.AppendRecurring(ctx, userID, recurring); err != nil {
		d.logger.ErrorContext(ctx, "append recurring failed",
			log.FieldUserID, userID,
			log.FieldItem, recurring.Item,
			log.FieldError, err)
		return Outcome{Reply: replyGenericError}
	}
	return Outcome{Reply: fmt.Sprintf("Recurring expense saved: %q, %s (%s).",
		recurring.Item, recurring.Amount.Display(), recurring.Category)}
}

func (d *Dispatcher) handleQuery(ctx context.Context, userID string) Outcome {
	entries, err := d.repo.ListEntries(ctx, userID)
	if err != nil {
		d.logger.ErrorContext(ctx, "list entries failed",
			log.FieldUserID, userID, log.FieldError, err)
		return Outcome{Reply: replyGenericError}
	}
	if len(entries) == 0 {
		return Outcome{Reply: "There is nothing to report yet, the ledger is empty."}
	}
	summary := core.BuildMonthSummary(entries, d.today().MonthKey())
	return Outcome{Reply: formatSummary(summary)}
}

// ReplayRecurring appends every recurring template into the ledger as
// an expense dated today. Triggered by an explicit user command, never
// on a schedule.
func (d *Dispatcher) ReplayRecurring(ctx context.Context, userID string) Outcome {
	templates, err := d.repo.ListRecurring(ctx, userID)
	if err != nil {
		d.logger.ErrorContext(ctx, "list recurring failed",
			log.FieldUserID, userID, log.FieldError, err)
		return Outcome{Reply: replyGenericError}
	}
	if len(templates) == 0 {
		return Outcome{Reply: "You have no recurring expenses configured."}
	}
	today := d.today()
	applied := 0
	for _, tpl := range templates {
		entry := core.Entry{
			Date:     today,
			Category: tpl.Category,
			Item:     tpl.Item,
			Amount:   tpl.Amount,
			Kind:     core.KindExpense,
		}
		if err := d.repo.AppendEntry(ctx, userID, entry); err != nil {
			d.logger.ErrorContext(ctx, "replay append failed",
				log.FieldUserID, userID,
				log.FieldItem, tpl.Item,
				log.FieldError, err)
			continue
		}
		applied++
	}
	if applied == 0 {
		return Outcome{Reply: replyGenericError}
	}
	return Outcome{Reply: fmt.Sprintf("Applied %d of %d recurring expenses for %s.",
		applied, len(templates), today)}
}
