package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"portal/internal/application/entity"
	"portal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(repo *fakeOutboxRepo, tx *fakeTransactions, p *fakeProducer, checks ...HealthCheck) *ServiceImpl {
	cfg := &config.RelayConfig{Workers: 1, BatchSize: 10, Lease: time.Second, PollPeriod: 5 * time.Millisecond, MaxAttempts: 3, PurgeAfterDays: 7}
	return NewService(repo, tx, p, checks, nil, nopLogger, cfg)
}

func TestProcessOne_MarksSent(t *testing.T) {
	repo, tx, p := &fakeOutboxRepo{}, &fakeTransactions{}, &fakeProducer{}
	s := newTestService(repo, tx, p)

	s.ProcessOne(context.Background(), 0, entity.OutboxEvent{ID: 5, EventType: entity.EventGenerateDailyNews})

	assert.Equal(t, []int{5}, tx.sent)
	assert.Len(t, p.sent, 1)
	assert.Empty(t, repo.failed)
}

func TestProcessOne_FailureBacksOff(t *testing.T) {
	repo, tx, p := &fakeOutboxRepo{}, &fakeTransactions{}, &fakeProducer{err: errors.New("kafka down")}
	s := newTestService(repo, tx, p)

	before := time.Now().UTC()
	s.ProcessOne(context.Background(), 0, entity.OutboxEvent{ID: 6, Attempts: 0})

	require.Contains(t, repo.failed, 6)
	assert.True(t, repo.failed[6].After(before))
	assert.Empty(t, tx.sent)
	assert.Empty(t, repo.gaveUp)
}

func TestProcessOne_GivesUpAfterMaxAttempts(t *testing.T) {
	repo, tx, p := &fakeOutboxRepo{}, &fakeTransactions{}, &fakeProducer{err: errors.New("kafka down")}
	s := newTestService(repo, tx, p)

	s.ProcessOne(context.Background(), 0, entity.OutboxEvent{ID: 7, Attempts: 2})

	assert.Equal(t, []int{7}, repo.gaveUp)
	assert.NotContains(t, repo.failed, 7)
}

func TestRelayEventRun_DeliversReservedBatch(t *testing.T) {
	repo, p := &fakeOutboxRepo{}, &fakeProducer{}
	tx := &fakeTransactions{reserved: []entity.OutboxEvent{{ID: 1}, {ID: 2}}}
	s := newTestService(repo, tx, p)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	go s.RelayEventRun(ctx)

	assert.Eventually(t, func() bool { return len(tx.sentIDs()) == 2 }, time.Second, 5*time.Millisecond)
}

func TestPurgeOutbox(t *testing.T) {
	repo := &fakeOutboxRepo{}
	n, err := newTestService(repo, &fakeTransactions{}, &fakeProducer{}).PurgeOutbox(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.Equal(t, 7, repo.purged)
}

func TestHealthCheck(t *testing.T) {
	ok := HealthCheck{Name: "database", Type: "postgresql", Check: func(context.Context) error { return nil }}
	bad := HealthCheck{Name: "documents", Type: "mongodb", Check: func(context.Context) error { return errors.New("no primary") }}

	resp := newTestService(&fakeOutboxRepo{}, &fakeTransactions{}, &fakeProducer{}, ok).HealthCheck(context.Background())
	assert.True(t, resp.Status)
	assert.Equal(t, "success", resp.Message)

	resp = newTestService(&fakeOutboxRepo{}, &fakeTransactions{}, &fakeProducer{}, ok, bad).HealthCheck(context.Background())
	assert.False(t, resp.Status)
	assert.True(t, resp.Checks["database"].Status)
	assert.False(t, resp.Checks["documents"].Status)
	assert.Equal(t, "mongodb connection failed", resp.Checks["documents"].Error)
}
