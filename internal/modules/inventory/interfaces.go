package inventory

import (
	"context"
	"time"

	"bikerental/internal/domain"
)

type InventoryRepository interface {
	Create(ctx context.Context, vehicleID int64, total int) (*domain.InventoryRecord, error)
	GetByVehicleID(ctx context.Context, vehicleID int64) (*domain.InventoryRecord, error)
	ListByShop(ctx context.Context, shopID int64) ([]domain.InventoryRecord, error)
	SetTotal(ctx context.Context, vehicleID int64, newTotal int) (*domain.InventoryRecord, error)
}

type VehicleDirectory interface {
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	GetOwnerID(ctx context.Context, vehicleID int64) (int64, error)
	ListByShop(ctx context.Context, shopID int64) ([]domain.Vehicle, error)
}

type ShopDirectory interface {
	GetByID(ctx context.Context, id int64) (*domain.Shop, error)
}

// BookingCounter is the overlap validator, used for advisory range
// availability estimates.
type BookingCounter interface {
	CountOverlapping(ctx context.Context, vehicleID int64, start, end time.Time, excludeID int64) (int64, error)
}
