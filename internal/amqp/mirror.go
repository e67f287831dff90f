package amqp

import (
	"context"

	"contabot/internal/core"
	"contabot/internal/ledger"
	"contabot/internal/log"
)

// MirroringRepository decorates a ledger repository so every entry
// mutation publishes a mirror message after the local write succeeds.
// Publish failures are logged and swallowed: the mirror is best-effort
// and must never fail the user's request.
type MirroringRepository struct {
	ledger.Repository
	client *Client
	logger *log.Logger
}

var _ ledger.Repository = (*MirroringRepository)(nil)

func NewMirroringRepository(repo ledger.Repository, client *Client, logger *log.Logger) *MirroringRepository {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &MirroringRepository{
		Repository: repo,
		client:     client,
		logger:     logger.WithComponent(log.ComponentAMQP),
	}
}

func (m *MirroringRepository) AppendEntry(ctx context.Context, userID string, e core.Entry) error {
	if err := m.Repository.AppendEntry(ctx, userID, e); err != nil {
		return err
	}
	m.publish(ctx, userID, ReasonAppend)
	return nil
}

func (m *MirroringRepository) UpdateEntryAmount(ctx context.Context, userID string, index int, amount core.Money) error {
	if err := m.Repository.UpdateEntryAmount(ctx, userID, index, amount); err != nil {
		return err
	}
	m.publish(ctx, userID, ReasonUpdate)
	return nil
}

func (m *MirroringRepository) DeleteEntry(ctx context.Context, userID string, index int) error {
	if err := m.Repository.DeleteEntry(ctx, userID, index); err != nil {
		return err
	}
	m.publish(ctx, userID, ReasonDelete)
	return nil
}

func (m *MirroringRepository) publish(ctx context.Context, userID, reason string) {
	if m.client == nil {
		return
	}
	if err := m.client.PublishMirror(ctx, userID, reason); err != nil {
		m.logger.WarnContext(ctx, "mirror publish failed",
			log.FieldUserID, userID,
			log.FieldOperation, log.OpMirror,
			log.FieldError, err)
	}
}
