package catalog

import (
	"context"

	"bikerental/internal/domain"
	"bikerental/internal/repository"
)

type ShopRepository interface {
	Create(ctx context.Context, s *domain.Shop) error
	GetByID(ctx context.Context, id int64) (*domain.Shop, error)
	List(ctx context.Context, city string, limit, offset int) ([]domain.Shop, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Shop, error)
	Update(ctx context.Context, s *domain.Shop) error
}

type VehicleRepository interface {
	Create(ctx context.Context, v *domain.Vehicle) error
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	ListByShop(ctx context.Context, shopID int64) ([]domain.Vehicle, error)
	Update(ctx context.Context, v *domain.Vehicle) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, f repository.SearchFilter, limit, offset int) ([]domain.Vehicle, error)
}
