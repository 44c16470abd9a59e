package review

import (
	"context"
	"testing"

	"bikerental/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, rev *domain.Review) error {
	args := m.Called(ctx, rev)
	if rev != nil && args.Error(0) == nil {
		rev.ID = 3
	}
	return args.Error(0)
}

func (m *MockReviewRepository) ListByShop(ctx context.Context, shopID int64, limit, offset int) ([]domain.Review, error) {
	args := m.Called(ctx, shopID, limit, offset)
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *MockReviewRepository) HasCompletedBooking(ctx context.Context, customerID, shopID int64) (bool, error) {
	args := m.Called(ctx, customerID, shopID)
	return args.Bool(0), args.Error(1)
}

type MockShopDirectory struct {
	mock.Mock
}

func (m *MockShopDirectory) GetByID(ctx context.Context, id int64) (*domain.Shop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shop), args.Error(1)
}

func TestCreateReview_RequiresCompletedRental(t *testing.T) {
	reviews := new(MockReviewRepository)
	shops := new(MockShopDirectory)

	shops.On("GetByID", mock.Anything, int64(5)).Return(&domain.Shop{ID: 5}, nil)
	reviews.On("HasCompletedBooking", mock.Anything, int64(3), int64(5)).Return(false, nil)

	service := NewService(reviews, shops)

	_, err := service.CreateReview(context.Background(), 3, CreateReviewRequest{ShopID: 5, Rating: 4})

	assert.ErrorIs(t, err, ErrNotEligible)
	reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateReview_Success(t *testing.T) {
	reviews := new(MockReviewRepository)
	shops := new(MockShopDirectory)

	shops.On("GetByID", mock.Anything, int64(5)).Return(&domain.Shop{ID: 5}, nil)
	reviews.On("HasCompletedBooking", mock.Anything, int64(3), int64(5)).Return(true, nil)
	reviews.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewService(reviews, shops)

	rev, err := service.CreateReview(context.Background(), 3, CreateReviewRequest{
		ShopID:  5,
		Rating:  5,
		Comment: "Great bikes.",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(3), rev.CustomerID)
	assert.Equal(t, 5, rev.Rating)
}

func TestCreateReview_RatingBounds(t *testing.T) {
	service := NewService(new(MockReviewRepository), new(MockShopDirectory))

	for _, rating := range []int{0, 6, -1} {
		_, err := service.CreateReview(context.Background(), 3, CreateReviewRequest{ShopID: 5, Rating: rating})
		assert.ErrorIs(t, err, ErrValidation)
	}
}

func TestListShopReviews_UnknownShop(t *testing.T) {
	shops := new(MockShopDirectory)
	shops.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	service := NewService(new(MockReviewRepository), shops)

	_, err := service.ListShopReviews(context.Background(), 99, 20, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}
