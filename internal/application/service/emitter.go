package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"portal/internal/application/entity"
	"portal/internal/application/repo"
	"portal/pkg/metrics"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// Emitter публикует события приложения. Событие пишется в outbox,
// в Kafka его отправляет relay.
type Emitter interface {
	Emit(ctx context.Context, module, event string, trigger entity.Trigger, payload any) (entity.Envelope, error)
}

type EmitterImpl struct {
	transactions repo.Transactions
	m            *metrics.Metrics
	logger       *zap.SugaredLogger
	now          func() time.Time
}

func NewEmitter(transactions repo.Transactions, m *metrics.Metrics, logger *zap.SugaredLogger) *EmitterImpl {
	return &EmitterImpl{
		transactions: transactions,
		m:            m,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (e *EmitterImpl) Emit(ctx context.Context, module, event string, trigger entity.Trigger, payload any) (entity.Envelope, error) {
	env, err := e.envelope(module, event, trigger, payload)
	if err != nil {
		return env, err
	}

	body, err := json.Marshal(env)
	if err != nil {
		return env, fmt.Errorf("marshal envelope: %w", err)
	}

	outbox := []entity.OutboxEvent{{
		AggregateID:   env.ID,
		AggregateType: module,
		EventType:     event,
		Payload:       body,
		Status:        entity.OutboxNew,
	}}
	if err := e.transactions.InsertOutboxEvents(ctx, outbox); err != nil {
		e.logger.Errorf("[event: %s %s] emit failed: %v", event, env.ID, err)
		return env, fmt.Errorf("emit %s: %w", event, err)
	}

	if e.m != nil {
		e.m.Events.EmittedTotal.WithLabelValues(event, string(trigger)).Inc()
	}
	e.logger.Infof("[event: %s %s] emitted by %s, trigger: %s, outbox id: %d", event, env.ID, module, trigger, outbox[0].ID)
	return env, nil
}

func (e *EmitterImpl) envelope(module, event string, trigger entity.Trigger, payload any) (entity.Envelope, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return entity.Envelope{}, fmt.Errorf("generate event id: %w", err)
	}

	env := entity.Envelope{
		ID:        id,
		Event:     event,
		Module:    module,
		Trigger:   trigger,
		EmittedAt: e.now(),
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return env, fmt.Errorf("marshal %s payload: %w", event, err)
		}
		env.Payload = raw
	}
	return env, nil
}

// emitAfterWrite публикует событие после уже сохраненного изменения.
// Ошибка только логируется: данные записаны, повтор запроса не поможет.
func emitAfterWrite(ctx context.Context, emitter Emitter, logger *zap.SugaredLogger, module, event string, payload any) {
	if _, err := emitter.Emit(ctx, module, event, entity.TriggerApp, payload); err != nil {
		logger.Errorf("[event: %s] emit after write failed: %v", event, err)
	}
}
