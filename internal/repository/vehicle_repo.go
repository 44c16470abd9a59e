package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"bikerental/internal/domain"
)

type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

type vehicleModel struct {
	ID                int64     `gorm:"column:id;primaryKey"`
	ShopID            int64     `gorm:"column:shop_id"`
	Name              string    `gorm:"column:name"`
	Model             string    `gorm:"column:model"`
	Type              string    `gorm:"column:type"`
	Description       *string   `gorm:"column:description"`
	PricePerHourCents int64     `gorm:"column:price_per_hour_cents"`
	PricePerDayCents  int64     `gorm:"column:price_per_day_cents"`
	Condition         string    `gorm:"column:condition"`
	IsAvailable       bool      `gorm:"column:is_available"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (vehicleModel) TableName() string { return "vehicles" }

func toDomainVehicle(m vehicleModel) *domain.Vehicle {
	var desc string
	if m.Description != nil {
		desc = *m.Description
	}

	return &domain.Vehicle{
		ID:                m.ID,
		ShopID:            m.ShopID,
		Name:              m.Name,
		Model:             m.Model,
		Type:              domain.VehicleType(m.Type),
		Description:       desc,
		PricePerHourCents: m.PricePerHourCents,
		PricePerDayCents:  m.PricePerDayCents,
		Condition:         domain.VehicleCondition(m.Condition),
		IsAvailable:       m.IsAvailable,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toVehicleModel(v *domain.Vehicle) vehicleModel {
	var desc *string
	if v.Description != "" {
		d := v.Description
		desc = &d
	}

	return vehicleModel{
		ID:                v.ID,
		ShopID:            v.ShopID,
		Name:              v.Name,
		Model:             v.Model,
		Type:              string(v.Type),
		Description:       desc,
		PricePerHourCents: v.PricePerHourCents,
		PricePerDayCents:  v.PricePerDayCents,
		Condition:         string(v.Condition),
		IsAvailable:       v.IsAvailable,
		CreatedAt:         v.CreatedAt,
		UpdatedAt:         v.UpdatedAt,
	}
}

func (r *VehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now
	m := toVehicleModel(v)

	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*v = *toDomainVehicle(m)
	return nil
}

func (r *VehicleRepository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	var m vehicleModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainVehicle(m), nil
}

func (r *VehicleRepository) ListByShop(ctx context.Context, shopID int64) ([]domain.Vehicle, error) {
	var ms []vehicleModel
	tx := r.db.WithContext(ctx).Where("shop_id = ?", shopID).Order("id").Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Vehicle, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainVehicle(m))
	}
	return out, nil
}

func (r *VehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	v.UpdatedAt = time.Now().UTC()
	m := toVehicleModel(v)

	tx := r.db.WithContext(ctx).Model(&vehicleModel{}).Where("id = ?", v.ID).Updates(&m)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *VehicleRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&vehicleModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetOwnerID resolves the owning administrator of the vehicle's shop.
func (r *VehicleRepository) GetOwnerID(ctx context.Context, vehicleID int64) (int64, error) {
	var ownerID int64
	q := `
SELECT shops.owner_id
FROM vehicles
JOIN shops ON shops.id = vehicles.shop_id
WHERE vehicles.id = ?`
	tx := r.db.WithContext(ctx).Raw(q, vehicleID).Scan(&ownerID)
	if tx.Error != nil {
		return 0, tx.Error
	}
	if tx.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return ownerID, nil
}

// SearchFilter narrows the vehicle listing. Zero values mean "no filter".
type SearchFilter struct {
	City         string
	Type         string
	MaxHourCents int64
	OnlyListed   bool
}

func (r *VehicleRepository) Search(ctx context.Context, f SearchFilter, limit, offset int) ([]domain.Vehicle, error) {
	q := r.db.WithContext(ctx).Model(&vehicleModel{}).
		Joins("JOIN shops ON shops.id = vehicles.shop_id").
		Where("shops.is_active = ?", true)

	if f.City != "" {
		q = q.Where("LOWER(shops.city) = LOWER(?)", f.City)
	}
	if f.Type != "" {
		q = q.Where("vehicles.type = ?", f.Type)
	}
	if f.MaxHourCents > 0 {
		q = q.Where("vehicles.price_per_hour_cents <= ?", f.MaxHourCents)
	}
	if f.OnlyListed {
		q = q.Where("vehicles.is_available = ?", true)
	}

	var ms []vehicleModel
	tx := q.Order("vehicles.price_per_hour_cents").Limit(limit).Offset(offset).Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Vehicle, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainVehicle(m))
	}
	return out, nil
}
