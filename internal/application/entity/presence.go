package entity

import "time"

type Period string

const (
	PeriodAM Period = "AM"
	PeriodPM Period = "PM"
)

type PresenceStatus string

const (
	PresenceOffice PresenceStatus = "office"
	PresenceRemote PresenceStatus = "remote"
	PresenceAbsent PresenceStatus = "absent"
)

// Presence отметка присутствия. На пару (userId, date, period) не больше одной записи.
type Presence struct {
	ID         string         `json:"id" bson:"_id"`
	UserID     string         `json:"userId" bson:"userId" validate:"required,min=1,max=100"`
	Date       string         `json:"date" bson:"date" validate:"ymd"`
	Period     Period         `json:"period" bson:"period" validate:"oneof=AM PM"`
	Status     PresenceStatus `json:"status" bson:"status" validate:"oneof=office remote absent"`
	Note       string         `json:"note,omitempty" bson:"note,omitempty" validate:"max=500"`
	RecordedAt time.Time      `json:"recordedAt" bson:"recordedAt"`
	CreatedAt  time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt" bson:"updatedAt"`
}

type PresenceRequest struct {
	UserID     string         `json:"userId" validate:"required,min=1,max=100"`
	Status     PresenceStatus `json:"status" validate:"omitempty,oneof=office remote absent"`
	Note       string         `json:"note" validate:"max=500"`
	RecordedAt string         `json:"recordedAt" validate:"rfc3339_optional"`
}

// HalfDay день (YYYY-MM-DD) и половина дня момента t в зоне loc. До 12:00 - AM.
func HalfDay(t time.Time, loc *time.Location) (string, Period) {
	local := t.In(loc)
	if local.Hour() < 12 {
		return local.Format(time.DateOnly), PeriodAM
	}
	return local.Format(time.DateOnly), PeriodPM
}

// PresenceResult результат записи: Created=false - обновлена запись той же половины дня
type PresenceResult struct {
	Presence Presence `json:"presence"`
	Created  bool     `json:"created"`
}
