package repo

import (
	"context"
	"fmt"
	"time"

	"portal/internal/application/entity"
	"portal/pkg/db"

	"go.uber.org/zap"
)

// Repo хранилище outbox в Postgres
type Repo interface {
	InsertOutbox(ctx context.Context, e *entity.OutboxEvent) (int, error)
	ReserveOutboxBatch(ctx context.Context, lease time.Duration, limit, maxAttempts int) ([]entity.OutboxEvent, error)
	MarkFailedWithBackoff(ctx context.Context, outboxID int, nextAttemptAt time.Time) error
	MarkGaveUp(ctx context.Context, outboxID int) error
	PurgeSent(ctx context.Context, days int) (int64, error)

	HealthCheck(ctx context.Context) error
}

type RepoImpl struct {
	db     db.DB
	logger *zap.SugaredLogger
}

func NewRepo(db db.DB, logger *zap.SugaredLogger) *RepoImpl {
	return &RepoImpl{db: db, logger: logger}
}

func (r *RepoImpl) HealthCheck(ctx context.Context) error {
	var result int
	if err := r.db.QueryRow(ctx, healthCheckSQL).Scan(&result); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}
