package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portal/internal/appers"
	"portal/internal/application/entity"
	"portal/internal/application/repo"

	"go.uber.org/zap"
)

const moduleLeveling = "leveling"

type LevelingService interface {
	CreateBadge(ctx context.Context, b entity.Badge) (entity.Badge, error)
	ListBadges(ctx context.Context) ([]entity.Badge, error)
	GetBadge(ctx context.Context, id string) (entity.Badge, error)
	DeleteBadge(ctx context.Context, id string) (entity.BadgeCascade, error)

	CreateQuest(ctx context.Context, q entity.Quest) (entity.Quest, error)
	ListQuests(ctx context.Context, status entity.QuestStatus) ([]entity.Quest, error)
	GetQuest(ctx context.Context, id string) (entity.Quest, error)
	UpdateQuestStatus(ctx context.Context, id string, status entity.QuestStatus) (entity.Quest, error)

	GetProfile(ctx context.Context, userID string) (entity.Profile, error)
	AwardBadge(ctx context.Context, userID, badgeID string) (entity.Profile, error)
	RequestXPGain(ctx context.Context, userID string, req entity.XPGainRequest) error

	CreateLootbox(ctx context.Context, l entity.Lootbox) (entity.Lootbox, error)
	ListLootboxes(ctx context.Context, userID string) ([]entity.Lootbox, error)
	RequestLootboxOpen(ctx context.Context, userID, lootboxID string) error
}

type Leveling struct {
	repo    repo.LevelingRepo
	emitter Emitter
	logger  *zap.SugaredLogger
	now     func() time.Time
}

func NewLeveling(repo repo.LevelingRepo, emitter Emitter, logger *zap.SugaredLogger) *Leveling {
	return &Leveling{
		repo:    repo,
		emitter: emitter,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (l *Leveling) CreateBadge(ctx context.Context, b entity.Badge) (entity.Badge, error) {
	l.logger.Debugf("[badge: %s] CreateBadge started", b.Name)

	b.ApplyDefaults()
	if err := l.repo.CreateBadge(ctx, &b); err != nil {
		return b, err
	}
	return b, nil
}

func (l *Leveling) ListBadges(ctx context.Context) ([]entity.Badge, error) {
	return l.repo.ListBadges(ctx)
}

func (l *Leveling) GetBadge(ctx context.Context, id string) (entity.Badge, error) {
	return l.repo.GetBadge(ctx, id)
}

// DeleteBadge каскадное удаление: бейдж пропадает из квестов и профилей
func (l *Leveling) DeleteBadge(ctx context.Context, id string) (entity.BadgeCascade, error) {
	l.logger.Debugf("[badge: %s] DeleteBadge started", id)

	res, err := l.repo.DeleteBadgeCascade(ctx, id)
	if err != nil {
		return res, err
	}

	emitAfterWrite(ctx, l.emitter, l.logger, moduleLeveling, entity.EventBadgeDeleted, res)
	return res, nil
}

func (l *Leveling) CreateQuest(ctx context.Context, q entity.Quest) (entity.Quest, error) {
	l.logger.Debugf("[quest: %s] CreateQuest started", q.Name)

	q.ApplyDefaults(l.now())
	if err := q.CheckDates(); err != nil {
		return q, err
	}
	for _, badgeID := range q.Badges {
		if _, err := l.repo.GetBadge(ctx, badgeID); err != nil {
			return q, err
		}
	}

	if err := l.repo.CreateQuest(ctx, &q); err != nil {
		return q, err
	}

	// бейдж мог быть удален между проверкой и вставкой: каскад уже прошел, убираем ссылку сами
	for _, badgeID := range l.vanished(ctx, q.Badges) {
		q.Badges, _ = without(q.Badges, badgeID)
	}
	return q, nil
}

func (l *Leveling) ListQuests(ctx context.Context, status entity.QuestStatus) ([]entity.Quest, error) {
	return l.repo.ListQuests(ctx, status)
}

func (l *Leveling) GetQuest(ctx context.Context, id string) (entity.Quest, error) {
	return l.repo.GetQuest(ctx, id)
}

func (l *Leveling) UpdateQuestStatus(ctx context.Context, id string, status entity.QuestStatus) (entity.Quest, error) {
	l.logger.Debugf("[quest: %s] UpdateQuestStatus started, status: %s", id, status)
	return l.repo.UpdateQuestStatus(ctx, id, status)
}

// GetProfile профиль пользователя; для пользователя без записей - профиль по умолчанию
func (l *Leveling) GetProfile(ctx context.Context, userID string) (entity.Profile, error) {
	p, err := l.repo.GetProfile(ctx, userID)
	if errors.Is(err, appers.ErrNotFound) {
		return entity.NewProfile(userID), nil
	}
	return p, err
}

// AwardBadge идемпотентно: повторная выдача того же бейджа не дублирует его
func (l *Leveling) AwardBadge(ctx context.Context, userID, badgeID string) (entity.Profile, error) {
	l.logger.Debugf("[user: %s] AwardBadge started, badge: %s", userID, badgeID)

	if _, err := l.repo.GetBadge(ctx, badgeID); err != nil {
		return entity.Profile{}, err
	}

	p, err := l.repo.AwardBadge(ctx, userID, badgeID)
	if err != nil {
		return p, err
	}
	if len(l.vanished(ctx, []string{badgeID})) > 0 {
		return entity.Profile{}, fmt.Errorf("[badge: %s] deleted during award: %w", badgeID, appers.ErrNotFound)
	}

	emitAfterWrite(ctx, l.emitter, l.logger, moduleLeveling, entity.EventBadgeAwarded,
		entity.BadgeAwardedPayload{UserID: userID, BadgeID: badgeID})
	return p, nil
}

// vanished бейджи, удаленные после записи ссылок на них. Ссылки на них убираются.
func (l *Leveling) vanished(ctx context.Context, badgeIDs []string) []string {
	var gone []string
	for _, badgeID := range badgeIDs {
		_, err := l.repo.GetBadge(ctx, badgeID)
		if !errors.Is(err, appers.ErrNotFound) {
			continue
		}
		gone = append(gone, badgeID)
		if _, err := l.repo.PullBadge(ctx, badgeID); err != nil {
			l.logger.Errorf("[badge: %s] pull dangling refs failed: %v", badgeID, err)
		}
	}
	return gone
}

func without(ids []string, id string) ([]string, bool) {
	kept := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			kept = append(kept, v)
		}
	}
	return kept, len(kept) != len(ids)
}

func (l *Leveling) RequestXPGain(ctx context.Context, userID string, req entity.XPGainRequest) error {
	l.logger.Debugf("[user: %s] RequestXPGain started, amount: %d", userID, req.Amount)

	_, err := l.emitter.Emit(ctx, moduleLeveling, entity.EventXPGainRequested, entity.TriggerApp,
		entity.XPGainPayload{UserID: userID, Amount: req.Amount, Reason: req.Reason})
	return err
}

func (l *Leveling) CreateLootbox(ctx context.Context, box entity.Lootbox) (entity.Lootbox, error) {
	box.ApplyDefaults()
	box.Status = entity.LootboxClosed
	box.OpenedAt = nil
	box.Reward = ""

	if err := l.repo.CreateLootbox(ctx, &box); err != nil {
		return box, err
	}
	return box, nil
}

func (l *Leveling) ListLootboxes(ctx context.Context, userID string) ([]entity.Lootbox, error) {
	return l.repo.ListLootboxes(ctx, userID)
}

// RequestLootboxOpen только закрытый лутбокс самого пользователя; награду выбирает слушатель
func (l *Leveling) RequestLootboxOpen(ctx context.Context, userID, lootboxID string) error {
	l.logger.Debugf("[user: %s] RequestLootboxOpen started, lootbox: %s", userID, lootboxID)

	box, err := l.repo.GetLootbox(ctx, lootboxID)
	if err != nil {
		return err
	}
	if box.UserID != userID {
		return appers.ErrNotFound
	}
	if box.Status == entity.LootboxOpened {
		return appers.ErrLootboxOpened
	}

	_, err = l.emitter.Emit(ctx, moduleLeveling, entity.EventLootboxOpenRequested, entity.TriggerApp,
		entity.LootboxOpenPayload{UserID: userID, LootboxID: lootboxID, Kind: box.Kind})
	return err
}
