package entity

import (
	"encoding/json"
	"time"

	"github.com/gofrs/uuid"
)

type OutboxStatus string

const (
	OutboxNew    OutboxStatus = "NEW"
	OutboxSent   OutboxStatus = "SENT"
	OutboxFailed OutboxStatus = "FAILED"
	OutboxGaveUp OutboxStatus = "GAVE_UP"
)

type OutboxEvent struct {
	ID            int             `db:"id"`
	AggregateID   uuid.UUID       `db:"aggregate_id"`   // id конверта события
	AggregateType string          `db:"aggregate_type"` // модуль: birthday, leveling, ...
	EventType     string          `db:"event_type"`     // GENERATE_DAILY_BIRTHDAY, ...
	Payload       json.RawMessage `db:"payload"`        // Envelope в JSON, уходит в Kafka как есть
	Status        OutboxStatus    `db:"status"`
	Attempts      int             `db:"attempts"`
	NextAttemptAt time.Time       `db:"next_attempt_at"`
	CreatedAt     time.Time       `db:"created_at"`
}
