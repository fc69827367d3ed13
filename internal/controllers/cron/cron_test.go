package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"portal/internal/application/entity"
	"portal/internal/application/registry"
	"portal/pkg/config"
	"portal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTriggerer struct {
	calls   []entity.TriggerPayload
	modules []string
	err     error
	panics  bool
}

func (f *fakeTriggerer) Trigger(_ context.Context, module string, trigger entity.Trigger, payload entity.TriggerPayload) (entity.Envelope, error) {
	if f.panics {
		panic("boom")
	}
	if trigger != entity.TriggerCron {
		return entity.Envelope{}, errors.New("unexpected trigger " + string(trigger))
	}
	f.modules = append(f.modules, module)
	f.calls = append(f.calls, payload)
	return entity.Envelope{Event: "EVT", Module: module}, f.err
}

type fakeLocker struct {
	held      map[string]bool
	err       error
	resources []string
	ttls      []time.Duration
}

func (f *fakeLocker) TryLock(_ context.Context, resource string, ttl time.Duration) (bool, error) {
	f.resources = append(f.resources, resource)
	f.ttls = append(f.ttls, ttl)
	if f.err != nil {
		return false, f.err
	}
	if f.held[resource] {
		return false, nil
	}
	f.held[resource] = true
	return true, nil
}

var newsBinding = registry.Binding{Module: "news", Event: entity.EventGenerateDailyNews, Schedule: "0 8 * * 1-5", Enabled: true}

func newTestJob(u Triggerer, l Locker) (*EmitJob, *metrics.Metrics) {
	m := metrics.New(prometheus.NewRegistry())
	j := NewEmitJob(newsBinding, u, l, time.Minute, m, zap.NewNop().Sugar())
	j.now = func() time.Time { return time.Date(2026, 3, 2, 8, 0, 0, 300, time.UTC) }
	return j, m
}

func runs(m *metrics.Metrics, result string) float64 {
	return testutil.ToFloat64(m.Cron.RunsTotal.WithLabelValues("news", result))
}

func TestEmitJob_Emits(t *testing.T) {
	u := &fakeTriggerer{}
	j, m := newTestJob(u, nil)

	j.Run(context.Background())

	require.Len(t, u.calls, 1)
	assert.Equal(t, "news", u.modules[0])
	assert.Equal(t, time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC), u.calls[0].ScheduledAt)
	assert.Equal(t, 1.0, runs(m, "ok"))
}

func TestEmitJob_OnlyOneReplicaPerTick(t *testing.T) {
	u, l := &fakeTriggerer{}, &fakeLocker{held: map[string]bool{}}
	a, m := newTestJob(u, l)
	b, _ := newTestJob(u, l)
	b.m = m

	a.Run(context.Background())
	b.Run(context.Background())

	assert.Len(t, u.calls, 1)
	assert.Equal(t, 1.0, runs(m, "ok"))
	assert.Equal(t, 1.0, runs(m, "skipped"))
	assert.Equal(t, LockResource("news", a.now()), l.resources[0])
	assert.Equal(t, "cron:news:1772438400", l.resources[0])
}

func TestEmitJob_SubMinuteSchedule(t *testing.T) {
	u, l := &fakeTriggerer{}, &fakeLocker{held: map[string]bool{}}
	m := metrics.New(prometheus.NewRegistry())
	every20s := registry.Binding{Module: "news", Event: entity.EventGenerateDailyNews, Schedule: "*/20 * * * * *", Enabled: true}
	a := NewEmitJob(every20s, u, l, 55*time.Second, m, zap.NewNop().Sugar())
	b := NewEmitJob(every20s, u, l, 55*time.Second, m, zap.NewNop().Sugar())

	for _, sec := range []int{0, 20, 40} {
		at := time.Date(2026, 3, 2, 8, 0, sec, 1000, time.UTC)
		a.now = func() time.Time { return at }
		b.now = func() time.Time { return at }
		a.Run(context.Background())
		b.Run(context.Background())
	}

	require.Len(t, u.calls, 3)
	assert.Equal(t, 3.0, runs(m, "ok"))
	assert.Equal(t, 3.0, runs(m, "skipped"))
	assert.Equal(t, time.Date(2026, 3, 2, 8, 0, 40, 0, time.UTC), u.calls[2].ScheduledAt)
	assert.Equal(t, "cron:news:1772438420", l.resources[2])
	for _, ttl := range l.ttls {
		assert.Equal(t, 10*time.Second, ttl)
	}
}

func TestLockTTL(t *testing.T) {
	tests := []struct {
		spec string
		ttl  time.Duration
		want time.Duration
	}{
		{spec: "0 8 * * 1-5", ttl: 55 * time.Second, want: 55 * time.Second},
		{spec: "* * * * *", ttl: 55 * time.Second, want: 55 * time.Second},
		{spec: "* * * * *", ttl: 2 * time.Minute, want: 30 * time.Second},
		{spec: "@every 30s", ttl: 55 * time.Second, want: 15 * time.Second},
		{spec: "*/20 * * * * *", ttl: 0, want: 10 * time.Second},
		{spec: "every morning", ttl: 55 * time.Second, want: 55 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			assert.Equal(t, tt.want, LockTTL(tt.spec, tt.ttl))
		})
	}
}

func TestEmitJob_LockErrorFailsOpen(t *testing.T) {
	u := &fakeTriggerer{}
	j, m := newTestJob(u, &fakeLocker{err: errors.New("redis down")})

	j.Run(context.Background())

	assert.Len(t, u.calls, 1)
	assert.Equal(t, 1.0, runs(m, "ok"))
}

func TestEmitJob_ErrorAndPanic(t *testing.T) {
	j, m := newTestJob(&fakeTriggerer{err: errors.New("outbox down")}, nil)
	j.Run(context.Background())
	assert.Equal(t, 1.0, runs(m, "error"))

	j, m = newTestJob(&fakeTriggerer{panics: true}, nil)
	assert.NotPanics(t, func() { j.Run(context.Background()) })
	assert.Equal(t, 1.0, runs(m, "panic"))
}

func TestController_RegisterBindings(t *testing.T) {
	reg, err := registry.New(map[string]config.CronJob{"weather": {Enabled: false}})
	require.NoError(t, err)

	conf := config.Cron{Timezone: "Europe/Paris", Timeout: time.Minute}
	c := NewController(context.Background(), conf, nil, nil, zap.NewNop().Sugar())
	require.NoError(t, c.RegisterBindings(&fakeTriggerer{}, reg.Scheduled()))
	require.NoError(t, c.RegisterPurgeOutboxJob(nil, ""))

	assert.Len(t, c.scheduler.Entries(), 2)
	assert.Equal(t, "Europe/Paris", c.scheduler.Location().String())

	bad := registry.Binding{Module: "news", Schedule: "every morning"}
	err = c.RegisterBindings(&fakeTriggerer{}, []registry.Binding{bad})
	assert.ErrorContains(t, err, "module news")
}

func TestScheduler_SecondsAndDescriptors(t *testing.T) {
	s := NewScheduler(context.Background(), nil, 0)
	for _, spec := range []string{"0 9 * * 1-5", "30 0 9 * * 1-5", "@daily", "@every 1h"} {
		_, err := s.Add(spec, NewPurgeOutboxJob(nil, zap.NewNop().Sugar()))
		assert.NoError(t, err, spec)
	}
	assert.Equal(t, time.UTC, s.Location())
}

type fakePurger struct{ calls int }

func (f *fakePurger) PurgeOutbox(context.Context) { f.calls++ }

func TestPurgeOutboxJob(t *testing.T) {
	p := &fakePurger{}
	NewPurgeOutboxJob(p, zap.NewNop().Sugar()).Run(context.Background())
	assert.Equal(t, 1, p.calls)

	c := NewController(context.Background(), config.Cron{}, nil, nil, zap.NewNop().Sugar())
	require.NoError(t, c.RegisterPurgeOutboxJob(p, "0 3 * * *"))
	assert.Len(t, c.scheduler.Entries(), 1)
	assert.Error(t, c.RegisterPurgeOutboxJob(p, "nightly"))
}
