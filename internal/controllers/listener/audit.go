package listener

import (
	"context"

	"portal/internal/application/entity"

	"go.uber.org/zap"
)

// AuditLogger пишет в лог каждое событие шины
func AuditLogger(logger *zap.SugaredLogger) func(ctx context.Context, env entity.Envelope) error {
	return func(_ context.Context, env entity.Envelope) error {
		logger.Infow("event",
			"id", env.ID.String(),
			"event", env.Event,
			"module", env.Module,
			"trigger", env.Trigger,
			"emittedAt", env.EmittedAt,
			"payloadBytes", len(env.Payload),
		)
		return nil
	}
}
