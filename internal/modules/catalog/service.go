package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"bikerental/internal/domain"
	"bikerental/internal/repository"
)

type Service struct {
	shops    ShopRepository
	vehicles VehicleRepository
}

func NewService(shops ShopRepository, vehicles VehicleRepository) *Service {
	return &Service{shops: shops, vehicles: vehicles}
}

func (s *Service) CreateShop(ctx context.Context, ownerID int64, req CreateShopRequest) (*domain.Shop, error) {
	shop := &domain.Shop{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		Phone:       req.Phone,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		ZipCode:     req.ZipCode,
		IsActive:    true,
	}
	if err := s.shops.Create(ctx, shop); err != nil {
		return nil, err
	}
	return shop, nil
}

func (s *Service) GetShop(ctx context.Context, id int64) (*domain.Shop, error) {
	shop, err := s.shops.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return shop, nil
}

func (s *Service) ListShops(ctx context.Context, city string, limit, offset int) ([]domain.Shop, error) {
	return s.shops.List(ctx, city, limit, offset)
}

func (s *Service) ListMyShops(ctx context.Context, ownerID int64) ([]domain.Shop, error) {
	return s.shops.ListByOwner(ctx, ownerID)
}

func (s *Service) UpdateShop(ctx context.Context, actorID, shopID int64, req UpdateShopRequest) (*domain.Shop, error) {
	shop, err := s.shops.GetByID(ctx, shopID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if shop.OwnerID != actorID {
		return nil, ErrForbidden
	}

	applyString(&shop.Name, req.Name)
	applyString(&shop.Description, req.Description)
	applyString(&shop.Phone, req.Phone)
	applyString(&shop.Address, req.Address)
	applyString(&shop.City, req.City)
	applyString(&shop.State, req.State)
	applyString(&shop.ZipCode, req.ZipCode)
	if req.IsActive != nil {
		shop.IsActive = *req.IsActive
	}

	if err := s.shops.Update(ctx, shop); err != nil {
		return nil, mapNotFound(err)
	}
	return shop, nil
}

func (s *Service) CreateVehicle(ctx context.Context, actorID int64, req CreateVehicleRequest) (*domain.Vehicle, error) {
	shop, err := s.shops.GetByID(ctx, req.ShopID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if shop.OwnerID != actorID {
		return nil, ErrForbidden
	}

	cond := domain.VehicleCondition(req.Condition)
	if cond == "" {
		cond = domain.ConditionGood
	}

	v := &domain.Vehicle{
		ShopID:            req.ShopID,
		Name:              req.Name,
		Model:             req.Model,
		Type:              domain.VehicleType(req.Type),
		Description:       req.Description,
		PricePerHourCents: req.PricePerHourCents,
		PricePerDayCents:  req.PricePerDayCents,
		Condition:         cond,
		IsAvailable:       true,
	}
	if err := s.vehicles.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) GetVehicle(ctx context.Context, id int64) (*domain.Vehicle, error) {
	v, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return v, nil
}

func (s *Service) ListShopVehicles(ctx context.Context, shopID int64) ([]domain.Vehicle, error) {
	if _, err := s.shops.GetByID(ctx, shopID); err != nil {
		return nil, mapNotFound(err)
	}
	return s.vehicles.ListByShop(ctx, shopID)
}

func (s *Service) UpdateVehicle(ctx context.Context, actorID, vehicleID int64, req UpdateVehicleRequest) (*domain.Vehicle, error) {
	v, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if err := s.requireShopOwner(ctx, actorID, v.ShopID); err != nil {
		return nil, err
	}

	applyString(&v.Name, req.Name)
	applyString(&v.Model, req.Model)
	applyString(&v.Description, req.Description)
	if req.Type != nil {
		v.Type = domain.VehicleType(*req.Type)
	}
	if req.Condition != nil {
		v.Condition = domain.VehicleCondition(*req.Condition)
	}
	if req.PricePerHourCents != nil {
		v.PricePerHourCents = *req.PricePerHourCents
	}
	if req.PricePerDayCents != nil {
		v.PricePerDayCents = *req.PricePerDayCents
	}
	if req.IsAvailable != nil {
		v.IsAvailable = *req.IsAvailable
	}

	if err := s.vehicles.Update(ctx, v); err != nil {
		return nil, mapNotFound(err)
	}
	return v, nil
}

func (s *Service) DeleteVehicle(ctx context.Context, actorID, vehicleID int64) error {
	v, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return mapNotFound(err)
	}
	if err := s.requireShopOwner(ctx, actorID, v.ShopID); err != nil {
		return err
	}
	return mapNotFound(s.vehicles.Delete(ctx, vehicleID))
}

func (s *Service) SearchVehicles(ctx context.Context, f repository.SearchFilter, limit, offset int) ([]domain.Vehicle, error) {
	return s.vehicles.Search(ctx, f, limit, offset)
}

func (s *Service) requireShopOwner(ctx context.Context, actorID, shopID int64) error {
	shop, err := s.shops.GetByID(ctx, shopID)
	if err != nil {
		return mapNotFound(err)
	}
	if shop.OwnerID != actorID {
		return ErrForbidden
	}
	return nil
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
