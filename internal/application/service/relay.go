package service

import (
	"context"
	"time"

	"portal/internal/application/common"
	"portal/internal/application/entity"
)

func (s *ServiceImpl) RelayEventRun(ctx context.Context) {
	s.logger.Infow("relay started", "workers", s.cfg.Workers, "batch", s.cfg.BatchSize, "lease", s.cfg.Lease.String())

	jobs := make(chan entity.OutboxEvent, s.cfg.BatchSize*2)

	for i := 0; i < s.cfg.Workers; i++ {
		go s.worker(ctx, i, jobs)
	}

	ticker := time.NewTicker(s.cfg.PollPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("relay stopping")
			return
		case <-ticker.C:
			events, err := s.transactions.GetOperationsFromOutbox(ctx, *s.cfg)
			if err != nil {
				s.logger.Errorw("get operations from outbox failed", "err", err)
				continue
			}

			s.logger.Debugf("len jobs: %d, len events: %d", len(jobs), len(events))
			for _, e := range events {
				select {
				case jobs <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

func (s *ServiceImpl) worker(ctx context.Context, id int, jobs <-chan entity.OutboxEvent) {
	s.logger.Infow("worker started", "id", id)
	if s.m != nil {
		s.m.Go.InternalGoroutines.WithLabelValues("relay_worker").Inc()
		defer s.m.Go.InternalGoroutines.WithLabelValues("relay_worker").Dec()
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("worker stopping", "id", id)
			return
		case e := <-jobs:
			s.ProcessOne(ctx, id, e)
		}
	}
}

// ProcessOne отправляет одно событие из outbox и переводит запись в SENT, FAILED или GAVE_UP
func (s *ServiceImpl) ProcessOne(ctx context.Context, wid int, e entity.OutboxEvent) {
	s.logger.Debugf("[ID %d] relay-process started, event: %s, workerID: %d", e.ID, e.EventType, wid)

	if err := s.kafkaProducer.ProduceMessage(ctx, e); err != nil {
		s.logger.Errorf("[ID %d] kafka send failed, err: %v", e.ID, err)
		// контекст воркера может быть уже отменен, статус все равно нужно записать
		status, mErr := s.markOutboxFailedOrGaveUp(context.Background(), e.ID, e.Attempts, s.cfg.MaxAttempts, common.NextBackoffWithJitter(e.Attempts))
		if mErr != nil {
			s.logger.Errorf("[ID %d] mark %s failed, err: %v", e.ID, status, mErr)
			return
		}
		s.countOutbox(status)
		return
	}

	if err := s.transactions.MarkSent(ctx, e.ID); err != nil {
		// сообщение уже в Kafka; запись уйдет повторно после истечения lease, получатели дедуплицируют по id конверта
		s.logger.Errorf("[ID %d] mark sent failed, err: %v", e.ID, err)
		return
	}
	s.countOutbox(entity.OutboxSent)

	s.logger.Infof("[ID %d] relay-process completed", e.ID)
}

func (s *ServiceImpl) markOutboxFailedOrGaveUp(ctx context.Context, outboxID int, attempts, maxAttempts int, backoff time.Duration) (entity.OutboxStatus, error) {
	if attempts+1 >= maxAttempts {
		s.logger.Warnf("[ID %d] giving up after %d attempts", outboxID, attempts+1)
		return entity.OutboxGaveUp, s.repo.MarkGaveUp(ctx, outboxID)
	}
	return entity.OutboxFailed, s.repo.MarkFailedWithBackoff(ctx, outboxID, time.Now().UTC().Add(backoff))
}

func (s *ServiceImpl) countOutbox(status entity.OutboxStatus) {
	if s.m != nil {
		s.m.Events.OutboxTotal.WithLabelValues(string(status)).Inc()
	}
}
