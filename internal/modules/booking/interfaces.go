package booking

import (
	"context"
	"time"

	"bikerental/internal/domain"
)

// BookingRepository provides the storage primitives the state machine builds
// on. The *Releasing methods pair a status change with its inventory effect
// in one transaction; they fail without mutation when the guarded status does
// not match.
type BookingRepository interface {
	CreateReserving(ctx context.Context, b *domain.Booking) error
	CountOverlapping(ctx context.Context, vehicleID int64, start, end time.Time, excludeID int64) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]domain.Booking, error)
	ListByShop(ctx context.Context, shopID int64) ([]domain.Booking, error)
	GetShopOwnerForBooking(ctx context.Context, bookingID int64) (int64, error)
	Confirm(ctx context.Context, id int64) error
	CancelReleasing(ctx context.Context, id, vehicleID int64, from domain.BookingStatus) error
	CompleteReleasing(ctx context.Context, id, vehicleID int64) error
	UpdateInterval(ctx context.Context, id int64, start, end time.Time) error
}

// VehicleDirectory resolves vehicles and their owning administrator.
type VehicleDirectory interface {
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	GetOwnerID(ctx context.Context, vehicleID int64) (int64, error)
}

// ShopDirectory resolves shop ownership for shop-scoped listings.
type ShopDirectory interface {
	GetByID(ctx context.Context, id int64) (*domain.Shop, error)
}

// EventSink receives booking lifecycle notifications. Delivery is
// best-effort; failures never affect the operation outcome.
type EventSink interface {
	BookingCreated(ctx context.Context, ownerID int64, b *domain.Booking)
	BookingConfirmed(ctx context.Context, customerID int64, b *domain.Booking)
	BookingCancelled(ctx context.Context, recipientID int64, b *domain.Booking)
	BookingCompleted(ctx context.Context, customerID int64, b *domain.Booking)
}
