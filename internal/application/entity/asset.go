package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AssetCategory string

const (
	AssetLaptop    AssetCategory = "laptop"
	AssetPhone     AssetCategory = "phone"
	AssetScreen    AssetCategory = "screen"
	AssetAccessory AssetCategory = "accessory"
	AssetFurniture AssetCategory = "furniture"
	AssetOther     AssetCategory = "other"
)

type AssetStatus string

const (
	AssetAvailable AssetStatus = "available"
	AssetAssigned  AssetStatus = "assigned"
	AssetRepair    AssetStatus = "repair"
	AssetRetired   AssetStatus = "retired"
)

type Asset struct {
	ID            string                `json:"id" bson:"_id"`
	Name          string                `json:"name" bson:"name" validate:"required,min=1,max=200"`
	Category      AssetCategory         `json:"category" bson:"category" validate:"oneof=laptop phone screen accessory furniture other"`
	SerialNumber  string                `json:"serialNumber" bson:"serialNumber" validate:"required,min=1,max=100"`
	Status        AssetStatus           `json:"status" bson:"status" validate:"oneof=available assigned repair retired"`
	AssignedTo    string                `json:"assignedTo,omitempty" bson:"assignedTo,omitempty" validate:"required_if=Status assigned,max=100"`
	PurchaseDate  *time.Time            `json:"purchaseDate,omitempty" bson:"purchaseDate,omitempty"`
	PurchasePrice *primitive.Decimal128 `json:"purchasePrice,omitempty" bson:"purchasePrice,omitempty"`
	Notes         string                `json:"notes,omitempty" bson:"notes,omitempty" validate:"max=2000"`
	CreatedAt     time.Time             `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt" bson:"updatedAt"`
}

func (a *Asset) ApplyDefaults() {
	if a.Category == "" {
		a.Category = AssetOther
	}
	if a.Status == "" {
		a.Status = AssetAvailable
	}
}

// AssetRequest тело запроса создания/обновления. Цена строкой, чтобы не терять точность.
type AssetRequest struct {
	Name          string        `json:"name" validate:"required,min=1,max=200"`
	Category      AssetCategory `json:"category" validate:"omitempty,oneof=laptop phone screen accessory furniture other"`
	SerialNumber  string        `json:"serialNumber" validate:"required,min=1,max=100"`
	Status        AssetStatus   `json:"status" validate:"omitempty,oneof=available assigned repair retired"`
	AssignedTo    string        `json:"assignedTo" validate:"max=100"`
	PurchaseDate  string        `json:"purchaseDate" validate:"omitempty,ymd"`
	PurchasePrice string        `json:"purchasePrice" validate:"decimal2"`
	Notes         string        `json:"notes" validate:"max=2000"`
}

type AssignRequest struct {
	UserID string `json:"userId" validate:"required,max=100"`
}

// AssetFilter фильтр списка активов
type AssetFilter struct {
	Status     AssetStatus
	Category   AssetCategory
	AssignedTo string
}
