package cron

import (
	"context"
	"fmt"
	"time"

	"portal/internal/application/common"
	"portal/internal/application/registry"
	"portal/pkg/config"
	"portal/pkg/metrics"

	"go.uber.org/zap"
)

type Controller struct {
	scheduler *Scheduler
	locker    Locker
	lockTTL   time.Duration
	m         *metrics.Metrics
	logger    *zap.SugaredLogger
}

// NewController locker может быть nil - тогда тик выполняет каждый экземпляр
func NewController(ctx context.Context, conf config.Cron, locker Locker, m *metrics.Metrics, logger *zap.SugaredLogger) *Controller {
	return &Controller{
		scheduler: NewScheduler(ctx, common.LoadLocation(conf.Timezone), conf.Timeout),
		locker:    locker,
		lockTTL:   conf.LockTTL,
		m:         m,
		logger:    logger,
	}
}

// RegisterBindings регистрирует задачу на каждую включенную привязку с расписанием
func (c *Controller) RegisterBindings(usecase Triggerer, bindings []registry.Binding) error {
	for _, b := range bindings {
		job := NewEmitJob(b, usecase, c.locker, c.lockTTL, c.m, c.logger)

		entryID, err := c.scheduler.Add(b.Schedule, job)
		if err != nil {
			return fmt.Errorf("module %s: register schedule %q: %w", b.Module, b.Schedule, err)
		}
		c.logger.Infof("[cron: %s] %s зарегистрирован с ID: %d, расписание: %s (%s)",
			b.Module, b.Event, entryID, b.Schedule, c.scheduler.Location())
	}
	return nil
}

// RegisterPurgeOutboxJob пустое расписание отключает очистку
func (c *Controller) RegisterPurgeOutboxJob(usecase Purger, spec string) error {
	if spec == "" {
		c.logger.Warn("Расписание очистки outbox не указано, очистка отключена")
		return nil
	}

	entryID, err := c.scheduler.Add(spec, NewPurgeOutboxJob(usecase, c.logger))
	if err != nil {
		return fmt.Errorf("не удалось зарегистрировать очистку outbox: %w", err)
	}
	c.logger.Infof("Очистка outbox зарегистрирована с ID: %d, расписание: %s", entryID, spec)
	return nil
}

func (c *Controller) Start() {
	c.logger.Info("Запуск планировщика cron задач")
	c.scheduler.Start()
}

func (c *Controller) Stop() {
	c.logger.Info("Остановка планировщика cron задач")
	c.scheduler.Stop()
	c.logger.Info("Планировщик cron задач остановлен")
}
