package service

import (
	"context"
	"testing"
	"time"

	"portal/internal/appers"
	"portal/internal/application/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPresence(loc *time.Location) (*PresenceImpl, *fakePresenceRepo, *fakeEmitter) {
	repo, em := &fakePresenceRepo{records: map[string]entity.Presence{}}, &fakeEmitter{}
	s := NewPresence(repo, em, loc, nopLogger)
	s.now = func() time.Time { return time.Date(2026, 4, 6, 8, 15, 0, 0, time.UTC) }
	return s, repo, em
}

func TestRecord_SameHalfDayDedups(t *testing.T) {
	ctx := context.Background()
	s, repo, em := newTestPresence(time.UTC)

	first, err := s.Record(ctx, entity.PresenceRequest{UserID: "u1"})
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, entity.PeriodAM, first.Presence.Period)
	assert.Equal(t, "2026-04-06", first.Presence.Date)
	assert.Equal(t, entity.PresenceOffice, first.Presence.Status)

	second, err := s.Record(ctx, entity.PresenceRequest{UserID: "u1", Status: entity.PresenceRemote, RecordedAt: "2026-04-06T11:59:00Z"})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Presence.ID, second.Presence.ID)
	assert.Len(t, repo.records, 1)
	assert.Equal(t, entity.PresenceRemote, repo.records[first.Presence.ID].Status)

	pm, err := s.Record(ctx, entity.PresenceRequest{UserID: "u1", RecordedAt: "2026-04-06T12:00:00Z"})
	require.NoError(t, err)
	assert.True(t, pm.Created)
	assert.Equal(t, entity.PeriodPM, pm.Presence.Period)
	assert.Len(t, repo.records, 2)

	require.Len(t, em.events, 3)
	assert.Equal(t, entity.EventPresenceRecorded, em.events[1].Event)
	assert.False(t, em.events[1].Payload.(entity.PresenceResult).Created)
}

func TestRecord_UsesConfiguredZone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	s, _, _ := newTestPresence(tokyo)

	// 08:15 UTC = 17:15 в Токио
	res, err := s.Record(context.Background(), entity.PresenceRequest{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, entity.PeriodPM, res.Presence.Period)
}

func TestRecord_BadTimestamp(t *testing.T) {
	s, _, _ := newTestPresence(time.UTC)
	_, err := s.Record(context.Background(), entity.PresenceRequest{UserID: "u1", RecordedAt: "yesterday"})
	assert.ErrorIs(t, err, appers.ErrInvalidDate)
}

func TestListByUser_Range(t *testing.T) {
	ctx := context.Background()
	s, repo, _ := newTestPresence(time.UTC)

	_, err := s.ListByUser(ctx, "u1", "", "")
	require.NoError(t, err)
	assert.Equal(t, "2026-04-06", repo.from)
	assert.Equal(t, "2026-04-06", repo.to)

	_, err = s.ListByUser(ctx, "u1", "2026-04-10", "2026-04-01")
	assert.ErrorIs(t, err, appers.ErrInvalidDateRange)

	_, err = s.ListByUser(ctx, "u1", "04/01/2026", "")
	assert.ErrorIs(t, err, appers.ErrInvalidDate)

	_, err = s.ListByDate(ctx, "2026-13-01")
	assert.ErrorIs(t, err, appers.ErrInvalidDate)
}
