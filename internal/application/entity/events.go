package entity

import (
	"encoding/json"
	"time"

	"github.com/gofrs/uuid"
)

// Имена событий, которые публикует сервис. Обработчики живут в других сервисах.
const (
	EventGenerateDailyBirthday = "GENERATE_DAILY_BIRTHDAY"
	EventGenerateDailyNews     = "GENERATE_DAILY_NEWS"
	EventGenerateDailyWeather  = "GENERATE_DAILY_WEATHER"

	EventBadgeDeleted         = "BADGE_DELETED"
	EventBadgeAwarded         = "BADGE_AWARDED"
	EventXPGainRequested      = "XP_GAIN_REQUESTED"
	EventLootboxOpenRequested = "LOOTBOX_OPEN_REQUESTED"

	EventAssetAssigned = "ASSET_ASSIGNED"
	EventAssetReleased = "ASSET_RELEASED"

	EventPresenceRecorded = "PRESENCE_RECORDED"
)

type Trigger string

const (
	TriggerCron Trigger = "cron"
	TriggerHTTP Trigger = "http"
	TriggerApp  Trigger = "app"
)

// Envelope конверт события в outbox и в Kafka
type Envelope struct {
	ID        uuid.UUID       `json:"id"`
	Event     string          `json:"event"`
	Module    string          `json:"module"`
	Trigger   Trigger         `json:"trigger"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	EmittedAt time.Time       `json:"emittedAt"`
}

// TriggerPayload полезная нагрузка событий, запущенных по расписанию или через GET
type TriggerPayload struct {
	Trigger     Trigger   `json:"trigger"`
	ScheduledAt time.Time `json:"scheduledAt,omitzero"`
	RequestedBy string    `json:"requestedBy,omitempty"`
}

// Полезная нагрузка событий модулей

type BadgeAwardedPayload struct {
	UserID  string `json:"userId"`
	BadgeID string `json:"badgeId"`
}

type XPGainPayload struct {
	UserID string `json:"userId"`
	Amount int    `json:"amount"`
	Reason string `json:"reason,omitempty"`
}

type LootboxOpenPayload struct {
	UserID    string      `json:"userId"`
	LootboxID string      `json:"lootboxId"`
	Kind      LootboxKind `json:"kind"`
}

type AssetPayload struct {
	AssetID      string `json:"assetId"`
	SerialNumber string `json:"serialNumber"`
	UserID       string `json:"userId"`
}
