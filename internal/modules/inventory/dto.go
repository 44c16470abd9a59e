package inventory

// CreateInventoryRequest uses validate tags instead of binding tags so an
// explicit total of zero passes; binding's required would reject it.
type CreateInventoryRequest struct {
	VehicleID int64 `json:"vehicle_id" validate:"required"`
	Total     int   `json:"total" validate:"gte=0"`
}

type SetCapacityRequest struct {
	Total *int `json:"total" binding:"required"`
}

// RangeAvailability is an advisory estimate of how many units of a vehicle
// are free during a time window. It is computed without the reservation
// lock and may be stale; only the locked create path is authoritative.
type RangeAvailability struct {
	VehicleID   int64 `json:"vehicle_id"`
	IsAvailable bool  `json:"is_available"`
	Available   int   `json:"available_count"`
	Total       int   `json:"total_count"`
}
