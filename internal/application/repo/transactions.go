package repo

import (
	"context"
	"fmt"

	"portal/internal/application/entity"
	"portal/pkg/config"

	"go.uber.org/zap"
)

type Transactions interface {
	InsertOutboxEvents(ctx context.Context, events []entity.OutboxEvent) error
	GetOperationsFromOutbox(ctx context.Context, c config.RelayConfig) ([]entity.OutboxEvent, error)
	MarkSent(ctx context.Context, outboxID int) error
}

type TransactionsImpl struct {
	repo   *RepoImpl
	logger *zap.SugaredLogger
}

func NewTransactions(repo *RepoImpl, logger *zap.SugaredLogger) *TransactionsImpl {
	return &TransactionsImpl{repo: repo, logger: logger}
}

// InsertOutboxEvents пишет события одной транзакцией: либо все, либо ни одного
func (t *TransactionsImpl) InsertOutboxEvents(ctx context.Context, events []entity.OutboxEvent) error {
	return t.repo.db.WithinTransaction(ctx, func(ctx context.Context) error {
		for i := range events {
			id, err := t.repo.InsertOutbox(ctx, &events[i])
			if err != nil {
				t.logger.Errorf("[event: %s %s] insert outbox failed: %v", events[i].EventType, events[i].AggregateID, err)
				return err
			}
			events[i].ID = id
		}
		return nil
	})
}

func (t *TransactionsImpl) GetOperationsFromOutbox(ctx context.Context, c config.RelayConfig) ([]entity.OutboxEvent, error) {
	var events []entity.OutboxEvent
	err := t.repo.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		events, err = t.repo.ReserveOutboxBatch(txCtx, c.Lease, c.BatchSize, c.MaxAttempts)
		return err
	})
	if err != nil {
		t.logger.Errorw("reserve outbox batch failed", "err", err)
		return nil, err
	}
	return events, nil
}

func (t *TransactionsImpl) MarkSent(ctx context.Context, outboxID int) error {
	result, err := t.repo.db.Exec(ctx, markSentSQL, outboxID, entity.OutboxSent)
	if err != nil {
		return fmt.Errorf("outbox mark sent: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("[ID %d] outbox not found", outboxID)
	}
	return nil
}
