package entity

import "time"

type Contact struct {
	ID        string    `json:"id" bson:"_id"`
	Firstname string    `json:"firstname" bson:"firstname" validate:"required,min=1,max=100"`
	Lastname  string    `json:"lastname" bson:"lastname" validate:"required,min=1,max=100"`
	Email     string    `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email,max=254"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty" validate:"e164_optional"`
	Company   string    `json:"company,omitempty" bson:"company,omitempty" validate:"max=200"`
	Position  string    `json:"position,omitempty" bson:"position,omitempty" validate:"max=200"`
	Tags      []string  `json:"tags" bson:"tags" validate:"max=20,dive,min=1,max=50"`
	Notes     string    `json:"notes,omitempty" bson:"notes,omitempty" validate:"max=2000"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (c *Contact) ApplyDefaults() {
	if c.Tags == nil {
		c.Tags = []string{}
	}
}

// ContactPatch обновляются только непустые поля
type ContactPatch struct {
	Firstname string   `json:"firstname" validate:"omitempty,max=100"`
	Lastname  string   `json:"lastname" validate:"omitempty,max=100"`
	Email     string   `json:"email" validate:"omitempty,email,max=254"`
	Phone     string   `json:"phone" validate:"e164_optional"`
	Company   string   `json:"company" validate:"max=200"`
	Position  string   `json:"position" validate:"max=200"`
	Tags      []string `json:"tags" validate:"omitempty,max=20,dive,min=1,max=50"`
	Notes     string   `json:"notes" validate:"max=2000"`
}

// ContactFilter фильтр списка контактов
type ContactFilter struct {
	Tag    string
	Query  string
	Limit  int64
	Offset int64
}
