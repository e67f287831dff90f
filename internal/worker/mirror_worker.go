// Package worker mirrors locally persisted ledgers into the user's
// spreadsheet in the background.
package worker

import (
	"context"
	"fmt"
	"time"

	"contabot/internal/amqp"
	"contabot/internal/log"
	"contabot/internal/sheets"
	"contabot/internal/storage"
)

// MirrorWorker consumes mirror messages and rewrites the affected
// user's spreadsheet tab from the authoritative SQLite state. Handling
// is idempotent, so requeued deliveries are harmless.
type MirrorWorker struct {
	storage *storage.SQLiteRepository
	sheets  *sheets.Client
	client  *amqp.Client
	logger  *log.Logger
	timeout time.Duration
}

func NewMirrorWorker(st *storage.SQLiteRepository, sh *sheets.Client, client *amqp.Client, logger *log.Logger) *MirrorWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &MirrorWorker{
		storage: st,
		sheets:  sh,
		client:  client,
		logger:  logger.WithComponent(log.ComponentWorker),
		timeout: 30 * time.Second,
	}
}

// Run consumes until the context is cancelled.
func (w *MirrorWorker) Run(ctx context.Context) error {
	return w.client.ConsumeMirror(ctx, func(msg *amqp.MirrorMessage) error {
		return w.handle(ctx, msg)
	})
}

func (w *MirrorWorker) handle(ctx context.Context, msg *amqp.MirrorMessage) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	entries, err := w.storage.ListEntries(ctx, msg.UserID)
	if err != nil {
		return fmt.Errorf("list entries for mirror: %w", err)
	}
	if err := w.sheets.MirrorEntries(ctx, msg.UserID, entries); err != nil {
		return fmt.Errorf("mirror entries: %w", err)
	}
	w.logger.InfoContext(ctx, "ledger mirrored",
		log.FieldUserID, msg.UserID,
		log.FieldOperation, log.OpMirror,
		"entries", len(entries),
		"trigger", msg.Reason)
	return nil
}

// ResyncAll mirrors every known user once, used at worker startup to
// repair drift from missed messages.
func (w *MirrorWorker) ResyncAll(ctx context.Context) error {
	userIDs, err := w.storage.ListUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("list users for resync: %w", err)
	}
	for _, userID := range userIDs {
		if err := w.handle(ctx, amqp.NewMirrorMessage(userID, "resync")); err != nil {
			w.logger.ErrorContext(ctx, "resync failed",
				log.FieldUserID, userID,
				log.FieldError, err)
		}
	}
	return nil
}
