package review

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"bikerental/internal/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, rev *domain.Review) error
	ListByShop(ctx context.Context, shopID int64, limit, offset int) ([]domain.Review, error)
	HasCompletedBooking(ctx context.Context, customerID, shopID int64) (bool, error)
}

type ShopDirectory interface {
	GetByID(ctx context.Context, id int64) (*domain.Shop, error)
}

type Service struct {
	reviews ReviewRepository
	shops   ShopDirectory
}

func NewService(reviews ReviewRepository, shops ShopDirectory) *Service {
	return &Service{reviews: reviews, shops: shops}
}

func (s *Service) CreateReview(ctx context.Context, customerID int64, req CreateReviewRequest) (*domain.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrValidation
	}

	if _, err := s.shops.GetByID(ctx, req.ShopID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	eligible, err := s.reviews.HasCompletedBooking(ctx, customerID, req.ShopID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, ErrNotEligible
	}

	rev := &domain.Review{
		ShopID:     req.ShopID,
		CustomerID: customerID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := s.reviews.Create(ctx, rev); err != nil {
		return nil, err
	}
	return rev, nil
}

func (s *Service) ListShopReviews(ctx context.Context, shopID int64, limit, offset int) ([]domain.Review, error) {
	if _, err := s.shops.GetByID(ctx, shopID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.reviews.ListByShop(ctx, shopID, limit, offset)
}
