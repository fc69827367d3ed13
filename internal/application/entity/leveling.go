package entity

import (
	"time"

	"portal/internal/appers"
)

type BadgeRarity string

const (
	RarityCommon    BadgeRarity = "common"
	RarityRare      BadgeRarity = "rare"
	RarityEpic      BadgeRarity = "epic"
	RarityLegendary BadgeRarity = "legendary"
)

type Badge struct {
	ID          string      `json:"id" bson:"_id"`
	Name        string      `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Description string      `json:"description,omitempty" bson:"description,omitempty" validate:"max=1000"`
	ImageURL    string      `json:"imageUrl,omitempty" bson:"imageUrl,omitempty" validate:"omitempty,url"`
	Rarity      BadgeRarity `json:"rarity" bson:"rarity" validate:"oneof=common rare epic legendary"`
	CreatedAt   time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt" bson:"updatedAt"`
}

func (b *Badge) ApplyDefaults() {
	if b.Rarity == "" {
		b.Rarity = RarityCommon
	}
}

type QuestStatus string

const (
	QuestActive   QuestStatus = "active"
	QuestInactive QuestStatus = "inactive"
	QuestArchived QuestStatus = "archived"
)

type Quest struct {
	ID          string      `json:"id" bson:"_id"`
	Name        string      `json:"name" bson:"name" validate:"required,min=1,max=200"`
	Description string      `json:"description,omitempty" bson:"description,omitempty" validate:"max=2000"`
	XPReward    int         `json:"xpReward" bson:"xpReward" validate:"gte=0"`
	Badges      []string    `json:"badges" bson:"badges" validate:"max=50,dive,required"`
	StartDate   time.Time   `json:"startDate" bson:"startDate"`
	EndDate     *time.Time  `json:"endDate,omitempty" bson:"endDate,omitempty"`
	Status      QuestStatus `json:"status" bson:"status" validate:"oneof=active inactive archived"`
	CreatedAt   time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt" bson:"updatedAt"`
}

func (q *Quest) ApplyDefaults(now time.Time) {
	if q.Status == "" {
		q.Status = QuestActive
	}
	if q.Badges == nil {
		q.Badges = []string{}
	}
	if q.StartDate.IsZero() {
		q.StartDate = now
	}
}

// CheckDates конец квеста не раньше начала
func (q *Quest) CheckDates() error {
	if q.EndDate != nil && q.EndDate.Before(q.StartDate) {
		return appers.ErrInvalidDateRange
	}
	return nil
}

// Profile прогресс пользователя. XP и уровень считаются слушателями событий вне сервиса.
type Profile struct {
	UserID    string    `json:"userId" bson:"_id" validate:"required,max=100"`
	XP        int       `json:"xp" bson:"xp" validate:"gte=0"`
	Level     int       `json:"level" bson:"level" validate:"gte=1"`
	Badges    []string  `json:"badges" bson:"badges"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// NewProfile профиль по умолчанию для пользователя без записей
func NewProfile(userID string) Profile {
	return Profile{UserID: userID, Level: 1, Badges: []string{}}
}

type LootboxKind string

const (
	LootboxDaily LootboxKind = "daily"
	LootboxQuest LootboxKind = "quest"
	LootboxEvent LootboxKind = "event"
)

type LootboxStatus string

const (
	LootboxClosed LootboxStatus = "closed"
	LootboxOpened LootboxStatus = "opened"
)

type Lootbox struct {
	ID        string        `json:"id" bson:"_id"`
	UserID    string        `json:"userId" bson:"userId" validate:"required,max=100"`
	Kind      LootboxKind   `json:"kind" bson:"kind" validate:"oneof=daily quest event"`
	Status    LootboxStatus `json:"status" bson:"status" validate:"oneof=closed opened"`
	Reward    string        `json:"reward,omitempty" bson:"reward,omitempty" validate:"max=200"`
	OpenedAt  *time.Time    `json:"openedAt,omitempty" bson:"openedAt,omitempty"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
}

func (l *Lootbox) ApplyDefaults() {
	if l.Kind == "" {
		l.Kind = LootboxDaily
	}
	if l.Status == "" {
		l.Status = LootboxClosed
	}
}

// XPGainRequest запрос на начисление опыта, расчет уровня делает слушатель события
type XPGainRequest struct {
	Amount int    `json:"amount" validate:"required,gt=0,lte=100000"`
	Reason string `json:"reason,omitempty" validate:"max=200"`
}

type QuestStatusRequest struct {
	Status QuestStatus `json:"status" validate:"required,oneof=active inactive archived"`
}

// BadgeCascade результат каскадного удаления бейджа
type BadgeCascade struct {
	BadgeID         string `json:"badgeId"`
	QuestsUpdated   int64  `json:"questsUpdated"`
	ProfilesUpdated int64  `json:"profilesUpdated"`
}
