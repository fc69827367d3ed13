package cron

import (
	"context"
	"fmt"
	"time"

	"portal/internal/application/entity"
	"portal/internal/application/registry"
	"portal/pkg/metrics"
	"portal/pkg/validator"

	"go.uber.org/zap"
)

// Locker распределенная блокировка, чтобы тик выполнил только один экземпляр сервиса
type Locker interface {
	TryLock(ctx context.Context, resource string, ttl time.Duration) (bool, error)
}

// Triggerer публикует событие модуля
type Triggerer interface {
	Trigger(ctx context.Context, module string, trigger entity.Trigger, payload entity.TriggerPayload) (entity.Envelope, error)
}

type Purger interface {
	PurgeOutbox(ctx context.Context)
}

// EmitJob публикует событие привязки по расписанию
type EmitJob struct {
	binding registry.Binding
	usecase Triggerer
	locker  Locker
	lockTTL time.Duration
	m       *metrics.Metrics
	logger  *zap.SugaredLogger
	now     func() time.Time
}

func NewEmitJob(b registry.Binding, usecase Triggerer, locker Locker, lockTTL time.Duration, m *metrics.Metrics, logger *zap.SugaredLogger) *EmitJob {
	return &EmitJob{
		binding: b,
		usecase: usecase,
		locker:  locker,
		lockTTL: LockTTL(b.Schedule, lockTTL),
		m:       m,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// LockResource ресурс блокировки тика: модуль + секунда запуска.
// Расписания с секундами и @every 30s дают несколько тиков в минуту, у каждого свой ключ.
func LockResource(module string, at time.Time) string {
	return fmt.Sprintf("cron:%s:%d", module, at.Unix())
}

// LockTTL ttl блокировки не дольше половины интервала расписания
func LockTTL(spec string, ttl time.Duration) time.Duration {
	sched, err := validator.CronParser.Parse(spec)
	if err != nil {
		return ttl
	}
	ref := time.Date(2000, 1, 3, 0, 0, 0, 0, time.UTC)
	first := sched.Next(ref)
	gap := sched.Next(first).Sub(first)
	if gap > 0 && (ttl <= 0 || ttl >= gap) {
		return gap / 2
	}
	return ttl
}

func (j *EmitJob) Run(ctx context.Context) {
	module := j.binding.Module
	start := time.Now()
	scheduledAt := j.now().Truncate(time.Second)

	result := "ok"
	defer func() {
		if r := recover(); r != nil {
			j.logger.Errorf("[cron: %s] panic: %v", module, r)
			result = "panic"
		}
		j.observe(result, start)
	}()

	if !j.acquire(ctx, scheduledAt) {
		result = "skipped"
		return
	}

	env, err := j.usecase.Trigger(ctx, module, entity.TriggerCron, entity.TriggerPayload{ScheduledAt: scheduledAt})
	if err != nil {
		j.logger.Errorf("[cron: %s] emit %s failed: %v", module, j.binding.Event, err)
		result = "error"
		return
	}
	j.logger.Infof("[cron: %s] emitted %s, id: %s", module, env.Event, env.ID)
}

// acquire false - тик уже выполняет другой экземпляр. Ошибка Redis не блокирует запуск.
func (j *EmitJob) acquire(ctx context.Context, at time.Time) bool {
	if j.locker == nil {
		return true
	}
	resource := LockResource(j.binding.Module, at)
	ok, err := j.locker.TryLock(ctx, resource, j.lockTTL)
	if err != nil {
		j.logger.Warnf("[cron: %s] lock %s failed, running anyway: %v", j.binding.Module, resource, err)
		return true
	}
	if !ok {
		j.logger.Infof("[cron: %s] lock %s held by another instance, skipping", j.binding.Module, resource)
	}
	return ok
}

func (j *EmitJob) observe(result string, start time.Time) {
	if j.m == nil {
		return
	}
	j.m.Cron.RunsTotal.WithLabelValues(j.binding.Module, result).Inc()
	j.m.Cron.DurationSeconds.WithLabelValues(j.binding.Module).Observe(time.Since(start).Seconds())
}

// PurgeOutboxJob чистит отправленные записи outbox
type PurgeOutboxJob struct {
	usecase Purger
	logger  *zap.SugaredLogger
}

func NewPurgeOutboxJob(usecase Purger, logger *zap.SugaredLogger) *PurgeOutboxJob {
	return &PurgeOutboxJob{usecase: usecase, logger: logger}
}

func (j *PurgeOutboxJob) Run(ctx context.Context) {
	j.logger.Info("Запуск очистки outbox")

	defer func() {
		if r := recover(); r != nil {
			j.logger.Errorf("Паника при очистке outbox: %v", r)
		}
	}()

	j.usecase.PurgeOutbox(ctx)
	j.logger.Info("Очистка outbox завершена")
}
