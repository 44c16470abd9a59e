package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"bikerental/internal/domain"
	"bikerental/internal/pkg/keylock"
	"bikerental/internal/repository"
)

// Service is the reservation engine: it serializes mutating operations per
// vehicle, validates overlap and inventory against a consistent snapshot,
// and applies status transitions together with their inventory effects.
// It is stateless apart from the lock map; construct once and share.
type Service struct {
	bookings BookingRepository
	vehicles VehicleDirectory
	shops    ShopDirectory
	events   EventSink
	locks    *keylock.Map
}

// NewService wires the engine. The lock map is shared with the inventory
// service so capacity changes and reservations for one vehicle serialize
// against each other.
func NewService(
	bookings BookingRepository,
	vehicles VehicleDirectory,
	shops ShopDirectory,
	events EventSink,
	locks *keylock.Map,
) *Service {
	return &Service{
		bookings: bookings,
		vehicles: vehicles,
		shops:    shops,
		events:   events,
		locks:    locks,
	}
}

// CreateBooking runs one reservation attempt. The vehicle's lock is held
// from the overlap check through the inventory decrement, so two concurrent
// attempts can never both observe the last free unit.
func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	start := req.StartTime.UTC()
	end := req.EndTime.UTC()
	if !start.Before(end) {
		return nil, ErrInvalidInput
	}
	if start.Before(time.Now().UTC()) {
		return nil, ErrInvalidInput
	}

	v, err := s.vehicles.GetByID(ctx, req.VehicleID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if !v.IsAvailable {
		return nil, ErrConflict
	}

	release, err := s.lockVehicle(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	overlapping, err := s.bookings.CountOverlapping(ctx, v.ID, start, end, 0)
	if err != nil {
		return nil, err
	}
	if overlapping > 0 {
		return nil, ErrConflict
	}

	b := &domain.Booking{
		VehicleID:       v.ID,
		CustomerID:      req.CustomerID,
		StartTime:       start,
		EndTime:         end,
		Status:          domain.BookingPending,
		TotalPriceCents: estimatePriceCents(v, start, end),
	}

	if err := s.bookings.CreateReserving(ctx, b); err != nil {
		// A vehicle without an inventory record is not stocked yet;
		// to the caller that is the same as zero units.
		if errors.Is(err, repository.ErrNoUnits) || errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if s.events != nil {
		if ownerID, err := s.vehicles.GetOwnerID(ctx, v.ID); err == nil && ownerID > 0 {
			s.events.BookingCreated(ctx, ownerID, b)
		}
	}

	return b, nil
}

// ConfirmBooking moves pending -> confirmed. Owning administrator only; no
// inventory effect.
func (s *Service) ConfirmBooking(ctx context.Context, bookingID, actorID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	release, err := s.lockVehicle(ctx, b.VehicleID)
	if err != nil {
		return nil, err
	}
	defer release()

	// Reload under the lock: the status may have moved while we waited.
	b, err = s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	ownerID, err := s.bookings.GetShopOwnerForBooking(ctx, bookingID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if ownerID != actorID {
		return nil, ErrForbidden
	}
	if b.Status != domain.BookingPending {
		return nil, ErrInvalidState
	}

	if err := s.bookings.Confirm(ctx, bookingID); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, ErrInvalidState
		}
		return nil, err
	}

	b, err = s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if s.events != nil {
		s.events.BookingConfirmed(ctx, b.CustomerID, b)
	}
	return b, nil
}

// RejectBooking moves pending -> cancelled and returns the unit to the pool.
// Owning administrator only.
func (s *Service) RejectBooking(ctx context.Context, bookingID, actorID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	release, err := s.lockVehicle(ctx, b.VehicleID)
	if err != nil {
		return nil, err
	}
	defer release()

	b, err = s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	ownerID, err := s.bookings.GetShopOwnerForBooking(ctx, bookingID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if ownerID != actorID {
		return nil, ErrForbidden
	}
	if b.Status != domain.BookingPending {
		return nil, ErrInvalidState
	}

	if err := s.bookings.CancelReleasing(ctx, bookingID, b.VehicleID, b.Status); err != nil {
		return nil, s.mapReleaseErr(b, err)
	}

	b, err = s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if s.events != nil {
		s.events.BookingCancelled(ctx, b.CustomerID, b)
	}
	return b, nil
}

// CancelBooking lets the booking's customer cancel a pending or confirmed
// booking, returning the unit to the pool. Completed and already-cancelled
// bookings cannot be cancelled.
func (s *Service) CancelBooking(ctx context.Context, bookingID, actorID int64) error {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return mapNotFound(err)
	}

	release, err := s.lockVehicle(ctx, b.VehicleID)
	if err != nil {
		return err
	}
	defer release()

	b, err = s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return mapNotFound(err)
	}

	if b.CustomerID != actorID {
		return ErrForbidden
	}
	if !b.Status.IsActive() {
		return ErrInvalidState
	}

	if err := s.bookings.CancelReleasing(ctx, bookingID, b.VehicleID, b.Status); err != nil {
		return s.mapReleaseErr(b, err)
	}

	if s.events != nil {
		if ownerID, err := s.vehicles.GetOwnerID(ctx, b.VehicleID); err == nil && ownerID > 0 {
			s.events.BookingCancelled(ctx, ownerID, b)
		}
	}
	return nil
}

// CompleteBooking moves confirmed -> completed and returns the unit to the
// pool. Owning administrator only.
func (s *Service) CompleteBooking(ctx context.Context, bookingID, actorID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	release, err := s.lockVehicle(ctx, b.VehicleID)
	if err != nil {
		return nil, err
	}
	defer release()

	b, err = s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	ownerID, err := s.bookings.GetShopOwnerForBooking(ctx, bookingID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if ownerID != actorID {
		return nil, ErrForbidden
	}
	if b.Status != domain.BookingConfirmed {
		return nil, ErrInvalidState
	}

	if err := s.bookings.CompleteReleasing(ctx, bookingID, b.VehicleID); err != nil {
		return nil, s.mapReleaseErr(b, err)
	}

	b, err = s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if s.events != nil {
		s.events.BookingCompleted(ctx, b.CustomerID, b)
	}
	return b, nil
}

// RescheduleBooking moves a pending booking to a new window. The overlap
// check runs under the vehicle lock with the booking's own interval excluded.
// No inventory effect: the booking keeps its unit.
func (s *Service) RescheduleBooking(ctx context.Context, bookingID, actorID int64, req RescheduleRequest) (*domain.Booking, error) {
	start := req.StartTime.UTC()
	end := req.EndTime.UTC()
	if !start.Before(end) {
		return nil, ErrInvalidInput
	}
	if start.Before(time.Now().UTC()) {
		return nil, ErrInvalidInput
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if b.CustomerID != actorID {
		return nil, ErrForbidden
	}

	release, err := s.lockVehicle(ctx, b.VehicleID)
	if err != nil {
		return nil, err
	}
	defer release()

	b, err = s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if b.Status != domain.BookingPending {
		return nil, ErrInvalidState
	}

	overlapping, err := s.bookings.CountOverlapping(ctx, b.VehicleID, start, end, b.ID)
	if err != nil {
		return nil, err
	}
	if overlapping > 0 {
		return nil, ErrConflict
	}

	if err := s.bookings.UpdateInterval(ctx, bookingID, start, end); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, ErrInvalidState
		}
		return nil, err
	}

	return s.bookings.GetByID(ctx, bookingID)
}

// GetBooking returns a booking to its customer or to the owning
// administrator of the vehicle's shop.
func (s *Service) GetBooking(ctx context.Context, bookingID, actorID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if b.CustomerID == actorID {
		return b, nil
	}

	ownerID, err := s.bookings.GetShopOwnerForBooking(ctx, bookingID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if ownerID != actorID {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *Service) ListMyBookings(ctx context.Context, customerID int64, limit, offset int) ([]domain.Booking, error) {
	return s.bookings.ListByCustomer(ctx, customerID, limit, offset)
}

func (s *Service) ListShopBookings(ctx context.Context, shopID, actorID int64) ([]domain.Booking, error) {
	shop, err := s.shops.GetByID(ctx, shopID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if shop.OwnerID != actorID {
		return nil, ErrForbidden
	}
	return s.bookings.ListByShop(ctx, shopID)
}

func (s *Service) lockVehicle(ctx context.Context, vehicleID int64) (func(), error) {
	release, err := s.locks.Acquire(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, keylock.ErrTimeout) {
			return nil, ErrLockTimeout
		}
		return nil, err
	}
	return release, nil
}

func (s *Service) mapReleaseErr(b *domain.Booking, err error) error {
	switch {
	case errors.Is(err, repository.ErrStaleStatus):
		return ErrInvalidState
	case errors.Is(err, repository.ErrRentedUnderflow), errors.Is(err, gorm.ErrRecordNotFound):
		log.Printf("ledger_fault booking_id=%d vehicle_id=%d err=%v", b.ID, b.VehicleID, err)
		return ErrLedgerFault
	default:
		return err
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// estimatePriceCents records an advisory total at creation time: full days
// at the day rate, the remainder in whole hours at the hourly rate.
func estimatePriceCents(v *domain.Vehicle, start, end time.Time) int64 {
	d := end.Sub(start)
	days := int64(d / (24 * time.Hour))
	rem := d - time.Duration(days)*24*time.Hour
	hours := int64((rem + time.Hour - 1) / time.Hour)
	return days*v.PricePerDayCents + hours*v.PricePerHourCents
}
