package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"bikerental/internal/domain"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

type reviewModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	ShopID     int64     `gorm:"column:shop_id"`
	CustomerID int64     `gorm:"column:customer_id"`
	Rating     int       `gorm:"column:rating"`
	Comment    *string   `gorm:"column:comment"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (reviewModel) TableName() string { return "reviews" }

func toDomainReview(m reviewModel) *domain.Review {
	return &domain.Review{
		ID:         m.ID,
		ShopID:     m.ShopID,
		CustomerID: m.CustomerID,
		Rating:     m.Rating,
		Comment:    strOrEmpty(m.Comment),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// Create inserts the review and refreshes the shop's rating aggregate in the
// same transaction.
func (r *ReviewRepository) Create(ctx context.Context, rev *domain.Review) error {
	now := time.Now().UTC()
	m := reviewModel{
		ShopID:     rev.ShopID,
		CustomerID: rev.CustomerID,
		Rating:     rev.Rating,
		Comment:    strOrNil(rev.Comment),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		return tx.Exec(`
UPDATE shops
SET rating = (SELECT AVG(rating) FROM reviews WHERE shop_id = ?),
    total_reviews = (SELECT COUNT(1) FROM reviews WHERE shop_id = ?),
    updated_at = ?
WHERE id = ?`,
			rev.ShopID, rev.ShopID, now, rev.ShopID).Error
	})
	if err != nil {
		return err
	}

	*rev = *toDomainReview(m)
	return nil
}

func (r *ReviewRepository) ListByShop(ctx context.Context, shopID int64, limit, offset int) ([]domain.Review, error) {
	var ms []reviewModel
	tx := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Review, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainReview(m))
	}
	return out, nil
}

// HasCompletedBooking reports whether the customer finished a rental at the
// shop, which gates review creation.
func (r *ReviewRepository) HasCompletedBooking(ctx context.Context, customerID, shopID int64) (bool, error) {
	var cnt int64
	q := `
SELECT COUNT(1)
FROM bookings
JOIN vehicles ON vehicles.id = bookings.vehicle_id
WHERE bookings.customer_id = ?
  AND vehicles.shop_id = ?
  AND bookings.status = ?`
	tx := r.db.WithContext(ctx).Raw(q, customerID, shopID, string(domain.BookingCompleted)).Scan(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}
