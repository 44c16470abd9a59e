package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"bikerental/internal/domain"
)

type ShopRepository struct {
	db *gorm.DB
}

func NewShopRepository(db *gorm.DB) *ShopRepository {
	return &ShopRepository{db: db}
}

type shopModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	OwnerID      int64     `gorm:"column:owner_id"`
	Name         string    `gorm:"column:name"`
	Description  *string   `gorm:"column:description"`
	Phone        string    `gorm:"column:phone"`
	Address      string    `gorm:"column:address"`
	City         string    `gorm:"column:city"`
	State        *string   `gorm:"column:state"`
	ZipCode      *string   `gorm:"column:zip_code"`
	Rating       float64   `gorm:"column:rating"`
	TotalReviews int       `gorm:"column:total_reviews"`
	IsActive     bool      `gorm:"column:is_active"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (shopModel) TableName() string { return "shops" }

func strOrEmpty(p *string) string {
	if p != nil {
		return *p
	}
	return ""
}

func strOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toDomainShop(m shopModel) *domain.Shop {
	return &domain.Shop{
		ID:           m.ID,
		OwnerID:      m.OwnerID,
		Name:         m.Name,
		Description:  strOrEmpty(m.Description),
		Phone:        m.Phone,
		Address:      m.Address,
		City:         m.City,
		State:        strOrEmpty(m.State),
		ZipCode:      strOrEmpty(m.ZipCode),
		Rating:       m.Rating,
		TotalReviews: m.TotalReviews,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toShopModel(s *domain.Shop) shopModel {
	return shopModel{
		ID:           s.ID,
		OwnerID:      s.OwnerID,
		Name:         s.Name,
		Description:  strOrNil(s.Description),
		Phone:        s.Phone,
		Address:      s.Address,
		City:         s.City,
		State:        strOrNil(s.State),
		ZipCode:      strOrNil(s.ZipCode),
		Rating:       s.Rating,
		TotalReviews: s.TotalReviews,
		IsActive:     s.IsActive,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (r *ShopRepository) Create(ctx context.Context, s *domain.Shop) error {
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	m := toShopModel(s)

	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*s = *toDomainShop(m)
	return nil
}

func (r *ShopRepository) GetByID(ctx context.Context, id int64) (*domain.Shop, error) {
	var m shopModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainShop(m), nil
}

func (r *ShopRepository) List(ctx context.Context, city string, limit, offset int) ([]domain.Shop, error) {
	q := r.db.WithContext(ctx).Model(&shopModel{}).Where("is_active = ?", true)
	if city != "" {
		q = q.Where("LOWER(city) = LOWER(?)", city)
	}

	var ms []shopModel
	tx := q.Order("rating DESC").Limit(limit).Offset(offset).Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Shop, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainShop(m))
	}
	return out, nil
}

func (r *ShopRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Shop, error) {
	var ms []shopModel
	tx := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id").Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Shop, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainShop(m))
	}
	return out, nil
}

func (r *ShopRepository) Update(ctx context.Context, s *domain.Shop) error {
	s.UpdatedAt = time.Now().UTC()
	m := toShopModel(s)

	tx := r.db.WithContext(ctx).Model(&shopModel{}).Where("id = ?", s.ID).Updates(&m)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
