package domain

import "time"

// InventoryRecord tracks how many units of a vehicle are free vs. in use.
// Invariant: Available + Rented == Total, all non-negative. Mutated only by
// the inventory repository's guarded adjust operations.
type InventoryRecord struct {
	ID        int64     `json:"id"`
	VehicleID int64     `json:"vehicle_id" gorm:"uniqueIndex"`
	Total     int       `json:"total"`
	Available int       `json:"available"`
	Rented    int       `json:"rented"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
