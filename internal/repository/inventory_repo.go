package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"bikerental/internal/domain"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

type inventoryModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	VehicleID int64     `gorm:"column:vehicle_id"`
	Total     int       `gorm:"column:total"`
	Available int       `gorm:"column:available"`
	Rented    int       `gorm:"column:rented"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (inventoryModel) TableName() string { return "inventory_records" }

func toDomainInventory(m inventoryModel) *domain.InventoryRecord {
	return &domain.InventoryRecord{
		ID:        m.ID,
		VehicleID: m.VehicleID,
		Total:     m.Total,
		Available: m.Available,
		Rented:    m.Rented,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// Create inserts the record for a vehicle that becomes bookable:
// available starts at total, rented at zero.
func (r *InventoryRepository) Create(ctx context.Context, vehicleID int64, total int) (*domain.InventoryRecord, error) {
	now := time.Now().UTC()
	m := inventoryModel{
		VehicleID: vehicleID,
		Total:     total,
		Available: total,
		Rented:    0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		if isUniqueViolation(tx.Error) {
			return nil, ErrDuplicate
		}
		return nil, tx.Error
	}
	return toDomainInventory(m), nil
}

func (r *InventoryRepository) GetByVehicleID(ctx context.Context, vehicleID int64) (*domain.InventoryRecord, error) {
	var m inventoryModel
	tx := r.db.WithContext(ctx).Where("vehicle_id = ?", vehicleID).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainInventory(m), nil
}

func (r *InventoryRepository) ListByShop(ctx context.Context, shopID int64) ([]domain.InventoryRecord, error) {
	var ms []inventoryModel
	tx := r.db.WithContext(ctx).
		Joins("JOIN vehicles ON vehicles.id = inventory_records.vehicle_id").
		Where("vehicles.shop_id = ?", shopID).
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.InventoryRecord, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainInventory(m))
	}
	return out, nil
}

// SetTotal changes capacity while preserving rented units: available moves by
// new_total - old_total. The guard rejects adjustments that would drive
// available negative, in the same statement that applies them.
func (r *InventoryRepository) SetTotal(ctx context.Context, vehicleID int64, newTotal int) (*domain.InventoryRecord, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE inventory_records
SET available = available + (? - total),
    total = ?,
    updated_at = ?
WHERE vehicle_id = ?
  AND available + (? - total) >= 0`,
		newTotal, newTotal, time.Now().UTC(), vehicleID, newTotal)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		if _, err := r.GetByVehicleID(ctx, vehicleID); err != nil {
			return nil, err
		}
		return nil, ErrCapacityConflict
	}

	return r.GetByVehicleID(ctx, vehicleID)
}

// reserveUnit and releaseUnit are the ledger's adjust operations. Both are
// single guarded UPDATE statements, so the check and the mutation are one
// atomic step even without a row lock. They run inside the caller's
// transaction so a booking write and its inventory effect commit together.

func reserveUnit(tx *gorm.DB, vehicleID int64) error {
	res := tx.Exec(`
UPDATE inventory_records
SET available = available - 1,
    rented = rented + 1,
    updated_at = ?
WHERE vehicle_id = ?
  AND available > 0`,
		time.Now().UTC(), vehicleID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Table("inventory_records").Where("vehicle_id = ?", vehicleID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrNoUnits
	}
	return nil
}

func releaseUnit(tx *gorm.DB, vehicleID int64) error {
	res := tx.Exec(`
UPDATE inventory_records
SET available = available + 1,
    rented = rented - 1,
    updated_at = ?
WHERE vehicle_id = ?
  AND rented > 0`,
		time.Now().UTC(), vehicleID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Table("inventory_records").Where("vehicle_id = ?", vehicleID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrRentedUnderflow
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// The pure-Go sqlite driver surfaces constraint failures as plain
	// errors that GORM does not translate.
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
