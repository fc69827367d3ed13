package service

import (
	"context"
	"time"

	"portal/internal/appers"
	"portal/internal/application/entity"
	"portal/internal/application/repo"

	"go.uber.org/zap"
)

const modulePresence = "presence"

type PresenceService interface {
	Record(ctx context.Context, req entity.PresenceRequest) (entity.PresenceResult, error)
	ListByDate(ctx context.Context, date string) ([]entity.Presence, error)
	ListByUser(ctx context.Context, userID, from, to string) ([]entity.Presence, error)
}

type PresenceImpl struct {
	repo    repo.PresenceRepo
	emitter Emitter
	loc     *time.Location
	logger  *zap.SugaredLogger
	now     func() time.Time
}

func NewPresence(repo repo.PresenceRepo, emitter Emitter, loc *time.Location, logger *zap.SugaredLogger) *PresenceImpl {
	if loc == nil {
		loc = time.UTC
	}
	return &PresenceImpl{
		repo:    repo,
		emitter: emitter,
		loc:     loc,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Record отметка за половину дня момента recordedAt (по умолчанию - сейчас).
// Повторная отметка в ту же половину дня обновляет существующую.
func (s *PresenceImpl) Record(ctx context.Context, req entity.PresenceRequest) (entity.PresenceResult, error) {
	at := s.now()
	if req.RecordedAt != "" {
		t, err := time.Parse(time.RFC3339, req.RecordedAt)
		if err != nil {
			return entity.PresenceResult{}, appers.ErrInvalidDate
		}
		at = t.UTC()
	}

	date, period := entity.HalfDay(at, s.loc)
	p := entity.Presence{
		UserID:     req.UserID,
		Date:       date,
		Period:     period,
		Status:     req.Status,
		Note:       req.Note,
		RecordedAt: at,
	}
	if p.Status == "" {
		p.Status = entity.PresenceOffice
	}

	s.logger.Debugf("[presence: %s %s %s] Record started, status: %s", p.UserID, date, period, p.Status)

	created, err := s.repo.UpsertPresence(ctx, &p)
	if err != nil {
		return entity.PresenceResult{}, err
	}

	res := entity.PresenceResult{Presence: p, Created: created}
	emitAfterWrite(ctx, s.emitter, s.logger, modulePresence, entity.EventPresenceRecorded, res)
	return res, nil
}

func (s *PresenceImpl) ListByDate(ctx context.Context, date string) ([]entity.Presence, error) {
	if date == "" {
		date = s.now().In(s.loc).Format(time.DateOnly)
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return nil, appers.ErrInvalidDate
	}
	return s.repo.ListPresenceByDate(ctx, date)
}

// ListByUser отметки за [from, to]; пустой to - один день from, пустой from - сегодня
func (s *PresenceImpl) ListByUser(ctx context.Context, userID, from, to string) ([]entity.Presence, error) {
	if from == "" {
		from = s.now().In(s.loc).Format(time.DateOnly)
	}
	if to == "" {
		to = from
	}

	start, err := time.Parse(time.DateOnly, from)
	if err != nil {
		return nil, appers.ErrInvalidDate
	}
	end, err := time.Parse(time.DateOnly, to)
	if err != nil {
		return nil, appers.ErrInvalidDate
	}
	if end.Before(start) {
		return nil, appers.ErrInvalidDateRange
	}

	return s.repo.ListPresenceByUser(ctx, userID, from, to)
}
