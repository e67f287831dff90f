// Package bot contains the intent pipeline: validation, dispatch and
// the assistant that ties classification to the ledger.
package bot

import (
	"context"
	"strings"

	"contabot/internal/core"
	"contabot/internal/intent"
	"contabot/internal/ledger"
	"contabot/internal/log"
	"contabot/internal/textnorm"
)

// Classifier is the language-model collaborator. It turns free-form
// user text into raw model output; the repair parser owns extraction.
type Classifier interface {
	Classify(ctx context.Context, userText string, categories []string) (string, error)
}

// Assistant handles one inbound message end to end: keyword commands,
// classification, repair, dispatch. Processing is request-scoped and
// sequential; the classifier and the repository are the only
// suspension points.
type Assistant struct {
	classifier Classifier
	dispatcher *Dispatcher
	repo       ledger.Repository
	logger     *log.Logger
}

func NewAssistant(classifier Classifier, repo ledger.Repository, logger *log.Logger) *Assistant {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Assistant{
		classifier: classifier,
		dispatcher: NewDispatcher(repo, logger),
		repo:       repo,
		logger:     logger.WithComponent(log.ComponentBot),
	}
}

// replayCommands are matched against the normalized message before any
// classifier call.
var replayCommands = []string{"lancar fixos", "aplicar fixos"}

// HandleMessage produces the reply for one inbound text message. It
// never returns an empty reply and never lets a fault escape.
func (a *Assistant) HandleMessage(ctx context.Context, userID, text string) string {
	if strings.TrimSpace(text) == "" {
		return replyFallback
	}

	normalized := textnorm.Normalize(text)
	for _, cmd := range replayCommands {
		if normalized == cmd {
			return a.dispatcher.ReplayRecurring(ctx, userID).Reply
		}
	}

	raw, err := a.classifier.Classify(ctx, text, a.categories(ctx, userID))
	if err != nil {
		a.logger.ErrorContext(ctx, "classification failed",
			log.FieldUserID, userID,
			log.FieldOperation, log.OpClassify,
			log.FieldError, err)
		return replyFallback
	}

	in := intent.Repair(raw)
	if in == nil {
		a.logger.WarnContext(ctx, "unusable classifier output",
			log.FieldUserID, userID,
			log.FieldOperation, log.OpRepair)
		return replyFallback
	}

	return a.dispatcher.Dispatch(ctx, userID, in).Reply
}

// categories returns the user's configured category names, falling
// back to the default set when none are configured or the lookup
// fails.
func (a *Assistant) categories(ctx context.Context, userID string) []string {
	limits, err := a.repo.ListLimits(ctx, userID)
	if err != nil {
		a.logger.WarnContext(ctx, "list limits failed, using defaults",
			log.FieldUserID, userID, log.FieldError, err)
		return core.DefaultCategories
	}
	if len(limits) == 0 {
		return core.DefaultCategories
	}
	names := make([]string, len(limits))
	for i, l := range limits {
		names[i] = l.Category
	}
	return names
}
