package cron

import (
	"context"
	"time"

	"portal/pkg/validator"

	"github.com/robfig/cron/v3"
)

const defaultRunTimeout = 5 * time.Minute

type Job interface {
	Run(ctx context.Context)
}

type Scheduler struct {
	c       *cron.Cron
	ctx     context.Context
	timeout time.Duration
}

// NewScheduler планировщик в зоне loc. Расписания: 5 полей, 6 полей с секундами, @daily, @every 1h.
func NewScheduler(ctx context.Context, loc *time.Location, timeout time.Duration) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if timeout <= 0 {
		timeout = defaultRunTimeout
	}
	c := cron.New(
		cron.WithParser(validator.CronParser),
		cron.WithLocation(loc),
	)
	return &Scheduler{c: c, ctx: ctx, timeout: timeout}
}

func (s *Scheduler) Add(spec string, job Job) (cron.EntryID, error) {
	return s.c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
		defer cancel()
		job.Run(ctx)
	})
}

func (s *Scheduler) Entries() []cron.Entry {
	return s.c.Entries()
}

func (s *Scheduler) Location() *time.Location {
	return s.c.Location()
}

func (s *Scheduler) Start() {
	s.c.Start()
}

// Stop ждет завершения запущенных задач
func (s *Scheduler) Stop() {
	ctx := s.c.Stop()
	<-ctx.Done()
}
