package use_cases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"portal/internal/appers"
	"portal/internal/application/bus"
	"portal/internal/application/entity"
	"portal/internal/application/registry"
	"portal/internal/application/service"

	"go.uber.org/zap"
)

// ErrUndecodable сообщение из Kafka не является конвертом события
var ErrUndecodable = errors.New("undecodable event envelope")

type UseCaser interface {
	Trigger(ctx context.Context, module string, trigger entity.Trigger, payload entity.TriggerPayload) (entity.Envelope, error)
	RunRelay(ctx context.Context)
	PurgeOutbox(ctx context.Context)
	ConsumerMessage(ctx context.Context, msg []byte, msgTime time.Time) error

	HealthCheck(ctx context.Context) entity.HealthCheckResponse
}

type UseCase struct {
	service  service.Service
	emitter  service.Emitter
	registry *registry.Registry
	bus      *bus.Bus
	logger   *zap.SugaredLogger
}

func NewUseCase(service service.Service, emitter service.Emitter, registry *registry.Registry, bus *bus.Bus, logger *zap.SugaredLogger) *UseCase {
	return &UseCase{
		service:  service,
		emitter:  emitter,
		registry: registry,
		bus:      bus,
		logger:   logger,
	}
}

func (u *UseCase) HealthCheck(ctx context.Context) entity.HealthCheckResponse {
	return u.service.HealthCheck(ctx)
}

// Trigger публикует событие модуля по расписанию или по GET запросу
func (u *UseCase) Trigger(ctx context.Context, module string, trigger entity.Trigger, payload entity.TriggerPayload) (entity.Envelope, error) {
	b, ok := u.registry.Lookup(module)
	if !ok {
		return entity.Envelope{}, appers.ErrUnknownTrigger
	}
	u.logger.Debugf("[module: %s] Trigger started, event: %s, trigger: %s", module, b.Event, trigger)
	payload.Trigger = trigger

	return u.emitter.Emit(ctx, b.Module, b.Event, trigger, payload)
}

func (u *UseCase) RunRelay(ctx context.Context) {
	u.logger.Debug("relay started")
	u.service.RelayEventRun(ctx)
}

func (u *UseCase) PurgeOutbox(ctx context.Context) {
	if _, err := u.service.PurgeOutbox(ctx); err != nil {
		u.logger.Errorf("PurgeOutbox failed: %v", err)
	}
}

// ConsumerMessage разбирает конверт и раздает его подписчикам шины
func (u *UseCase) ConsumerMessage(ctx context.Context, msg []byte, msgTime time.Time) error {
	var env entity.Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	if env.Event == "" {
		return fmt.Errorf("%w: empty event name", ErrUndecodable)
	}

	u.logger.Debugf("[event: %s %s] consumed, kafka time: %s, lag: %s", env.Event, env.ID, msgTime, time.Since(env.EmittedAt))
	u.bus.Publish(ctx, env)
	return nil
}
