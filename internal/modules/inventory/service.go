package inventory

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"bikerental/internal/domain"
	"bikerental/internal/pkg/keylock"
	"bikerental/internal/repository"
)

// Service manages per-vehicle unit counters. Capacity changes share the
// reservation lock map with the booking engine so they never interleave with
// an in-flight reservation for the same vehicle.
type Service struct {
	records  InventoryRepository
	vehicles VehicleDirectory
	shops    ShopDirectory
	bookings BookingCounter
	locks    *keylock.Map
}

func NewService(
	records InventoryRepository,
	vehicles VehicleDirectory,
	shops ShopDirectory,
	bookings BookingCounter,
	locks *keylock.Map,
) *Service {
	return &Service{
		records:  records,
		vehicles: vehicles,
		shops:    shops,
		bookings: bookings,
		locks:    locks,
	}
}

// CreateRecord makes a vehicle bookable: total units set, all available,
// none rented. Owning administrator only.
func (s *Service) CreateRecord(ctx context.Context, actorID int64, req CreateInventoryRequest) (*domain.InventoryRecord, error) {
	if req.Total < 0 {
		return nil, ErrInvalidInput
	}
	if err := s.requireOwner(ctx, actorID, req.VehicleID); err != nil {
		return nil, err
	}

	rec, err := s.records.Create(ctx, req.VehicleID, req.Total)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return rec, nil
}

// SetCapacity adjusts total while preserving rented units. Runs under the
// vehicle's reservation lock like every other inventory mutation.
func (s *Service) SetCapacity(ctx context.Context, actorID, vehicleID int64, newTotal int) (*domain.InventoryRecord, error) {
	if newTotal < 0 {
		return nil, ErrInvalidInput
	}
	if err := s.requireOwner(ctx, actorID, vehicleID); err != nil {
		return nil, err
	}

	release, err := s.locks.Acquire(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, keylock.ErrTimeout) {
			return nil, ErrConflict
		}
		return nil, err
	}
	defer release()

	rec, err := s.records.SetTotal(ctx, vehicleID, newTotal)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCapacityConflict):
			return nil, ErrConflict
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// GetAvailability returns the point-in-time counters. Advisory: read without
// the reservation lock.
func (s *Service) GetAvailability(ctx context.Context, vehicleID int64) (*domain.InventoryRecord, error) {
	rec, err := s.records.GetByVehicleID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s *Service) ListShopInventory(ctx context.Context, shopID int64) ([]domain.InventoryRecord, error) {
	if _, err := s.shops.GetByID(ctx, shopID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.records.ListByShop(ctx, shopID)
}

// RangeAvailability estimates, per vehicle of a shop, how many units are
// free for the given window: total minus active bookings overlapping it.
func (s *Service) RangeAvailability(ctx context.Context, shopID int64, start, end time.Time) ([]RangeAvailability, error) {
	if !start.Before(end) {
		return nil, ErrInvalidInput
	}
	if _, err := s.shops.GetByID(ctx, shopID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	vehicles, err := s.vehicles.ListByShop(ctx, shopID)
	if err != nil {
		return nil, err
	}

	out := make([]RangeAvailability, 0, len(vehicles))
	for _, v := range vehicles {
		rec, err := s.records.GetByVehicleID(ctx, v.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue // not stocked yet
			}
			return nil, err
		}

		overlapping, err := s.bookings.CountOverlapping(ctx, v.ID, start, end, 0)
		if err != nil {
			return nil, err
		}

		free := rec.Total - int(overlapping)
		if free < 0 {
			free = 0
		}
		out = append(out, RangeAvailability{
			VehicleID:   v.ID,
			IsAvailable: free > 0,
			Available:   free,
			Total:       rec.Total,
		})
	}
	return out, nil
}

func (s *Service) requireOwner(ctx context.Context, actorID, vehicleID int64) error {
	ownerID, err := s.vehicles.GetOwnerID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if ownerID != actorID {
		return ErrForbidden
	}
	return nil
}
