package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"bikerental/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID              int64      `gorm:"column:id;primaryKey"`
	VehicleID       int64      `gorm:"column:vehicle_id"`
	CustomerID      int64      `gorm:"column:customer_id"`
	StartTime       time.Time  `gorm:"column:start_time"`
	EndTime         time.Time  `gorm:"column:end_time"`
	Status          string     `gorm:"column:status"`
	TotalPriceCents int64      `gorm:"column:total_price_cents"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
	ConfirmedAt     *time.Time `gorm:"column:confirmed_at"`
	CompletedAt     *time.Time `gorm:"column:completed_at"`
	CancelledAt     *time.Time `gorm:"column:cancelled_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	return &domain.Booking{
		ID:              m.ID,
		VehicleID:       m.VehicleID,
		CustomerID:      m.CustomerID,
		StartTime:       m.StartTime,
		EndTime:         m.EndTime,
		Status:          domain.BookingStatus(m.Status),
		TotalPriceCents: m.TotalPriceCents,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		ConfirmedAt:     m.ConfirmedAt,
		CompletedAt:     m.CompletedAt,
		CancelledAt:     m.CancelledAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:              b.ID,
		VehicleID:       b.VehicleID,
		CustomerID:      b.CustomerID,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		Status:          string(b.Status),
		TotalPriceCents: b.TotalPriceCents,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
		ConfirmedAt:     b.ConfirmedAt,
		CompletedAt:     b.CompletedAt,
		CancelledAt:     b.CancelledAt,
	}
}

// CreateReserving inserts the booking and debits one inventory unit in one
// transaction. If either step fails the other is rolled back, so a booking
// row never exists without its inventory effect.
func (r *BookingRepository) CreateReserving(ctx context.Context, b *domain.Booking) error {
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	m := toBookingModel(b)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := reserveUnit(tx, b.VehicleID); err != nil {
			return err
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		return err
	}

	*b = *toDomainBooking(m)
	return nil
}

// CountOverlapping counts active bookings for the vehicle whose [start, end)
// interval intersects the given one; half-open, so end == other start is not
// an overlap. excludeID ignores the caller's own booking on reschedule
// (pass 0 to exclude none).
func (r *BookingRepository) CountOverlapping(ctx context.Context, vehicleID int64, start, end time.Time, excludeID int64) (int64, error) {
	var cnt int64
	q := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("vehicle_id = ?", vehicleID).
		Where("status IN ?", []string{string(domain.BookingPending), string(domain.BookingConfirmed)}).
		Where("start_time < ? AND end_time > ?", end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&cnt).Error; err != nil {
		return 0, err
	}
	return cnt, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]domain.Booking, error) {
	var ms []bookingModel
	tx := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("start_time DESC").
		Limit(limit).Offset(offset).
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

func (r *BookingRepository) ListByShop(ctx context.Context, shopID int64) ([]domain.Booking, error) {
	var ms []bookingModel
	tx := r.db.WithContext(ctx).
		Joins("JOIN vehicles ON vehicles.id = bookings.vehicle_id").
		Where("vehicles.shop_id = ?", shopID).
		Order("bookings.start_time DESC").
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// GetShopOwnerForBooking resolves the administrator who owns the shop that
// owns the booked vehicle.
func (r *BookingRepository) GetShopOwnerForBooking(ctx context.Context, bookingID int64) (int64, error) {
	var ownerID int64
	q := `
SELECT shops.owner_id
FROM bookings
JOIN vehicles ON vehicles.id = bookings.vehicle_id
JOIN shops ON shops.id = vehicles.shop_id
WHERE bookings.id = ?`
	tx := r.db.WithContext(ctx).Raw(q, bookingID).Scan(&ownerID)
	if tx.Error != nil {
		return 0, tx.Error
	}
	if tx.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return ownerID, nil
}

// Confirm moves a pending booking to confirmed. No inventory effect.
func (r *BookingRepository) Confirm(ctx context.Context, id int64) error {
	now := time.Now().UTC()
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ? AND status = ?", id, string(domain.BookingPending)).
		Updates(map[string]any{
			"status":       string(domain.BookingConfirmed),
			"confirmed_at": now,
			"updated_at":   now,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

// CancelReleasing moves a booking from the observed status to cancelled and
// credits its unit back, as one transaction. Serves Reject and Cancel alike.
func (r *BookingRepository) CancelReleasing(ctx context.Context, id, vehicleID int64, from domain.BookingStatus) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		res := tx.Model(&bookingModel{}).
			Where("id = ? AND status = ?", id, string(from)).
			Updates(map[string]any{
				"status":       string(domain.BookingCancelled),
				"cancelled_at": now,
				"updated_at":   now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}
		return releaseUnit(tx, vehicleID)
	})
}

// CompleteReleasing moves a confirmed booking to completed and returns its
// unit to the pool, as one transaction.
func (r *BookingRepository) CompleteReleasing(ctx context.Context, id, vehicleID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		res := tx.Model(&bookingModel{}).
			Where("id = ? AND status = ?", id, string(domain.BookingConfirmed)).
			Updates(map[string]any{
				"status":       string(domain.BookingCompleted),
				"completed_at": now,
				"updated_at":   now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}
		return releaseUnit(tx, vehicleID)
	})
}

// UpdateInterval moves a pending booking to a new time window. Overlap must
// have been re-validated by the caller under the vehicle lock.
func (r *BookingRepository) UpdateInterval(ctx context.Context, id int64, start, end time.Time) error {
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ? AND status = ?", id, string(domain.BookingPending)).
		Updates(map[string]any{
			"start_time": start,
			"end_time":   end,
			"updated_at": time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}
