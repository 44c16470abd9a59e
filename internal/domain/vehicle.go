package domain

import "time"

type VehicleType string

const (
	VehicleMountain VehicleType = "mountain"
	VehicleRoad     VehicleType = "road"
	VehicleHybrid   VehicleType = "hybrid"
	VehicleElectric VehicleType = "electric"
	VehicleCargo    VehicleType = "cargo"
)

type VehicleCondition string

const (
	ConditionExcellent VehicleCondition = "excellent"
	ConditionGood      VehicleCondition = "good"
	ConditionFair      VehicleCondition = "fair"
)

// Vehicle is a rentable unit-type. Physical units of the same vehicle are
// interchangeable; their count lives in the InventoryRecord.
type Vehicle struct {
	ID                int64            `json:"id"`
	ShopID            int64            `json:"shop_id"`
	Name              string           `json:"name" validate:"required"`
	Model             string           `json:"model" validate:"required"`
	Type              VehicleType      `json:"type" validate:"required"`
	Description       string           `json:"description,omitempty"`
	PricePerHourCents int64            `json:"price_per_hour_cents" validate:"required,gt=0"`
	PricePerDayCents  int64            `json:"price_per_day_cents" validate:"required,gt=0"`
	Condition         VehicleCondition `json:"condition"`
	IsAvailable       bool             `json:"is_available"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}
