package inventory

import (
	"context"
	"testing"
	"time"

	"bikerental/internal/domain"
	"bikerental/internal/pkg/keylock"
	"bikerental/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// Mock repositories
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) Create(ctx context.Context, vehicleID int64, total int) (*domain.InventoryRecord, error) {
	args := m.Called(ctx, vehicleID, total)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryRecord), args.Error(1)
}

func (m *MockInventoryRepository) GetByVehicleID(ctx context.Context, vehicleID int64) (*domain.InventoryRecord, error) {
	args := m.Called(ctx, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryRecord), args.Error(1)
}

func (m *MockInventoryRepository) ListByShop(ctx context.Context, shopID int64) ([]domain.InventoryRecord, error) {
	args := m.Called(ctx, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryRecord), args.Error(1)
}

func (m *MockInventoryRepository) SetTotal(ctx context.Context, vehicleID int64, newTotal int) (*domain.InventoryRecord, error) {
	args := m.Called(ctx, vehicleID, newTotal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryRecord), args.Error(1)
}

type MockVehicleDirectory struct {
	mock.Mock
}

func (m *MockVehicleDirectory) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleDirectory) GetOwnerID(ctx context.Context, vehicleID int64) (int64, error) {
	args := m.Called(ctx, vehicleID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVehicleDirectory) ListByShop(ctx context.Context, shopID int64) ([]domain.Vehicle, error) {
	args := m.Called(ctx, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vehicle), args.Error(1)
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

type MockBookingCounter struct {
	mock.Mock
}

func (m *MockBookingCounter) CountOverlapping(ctx context.Context, vehicleID int64, start, end time.Time, excludeID int64) (int64, error) {
	args := m.Called(ctx, vehicleID, start, end, excludeID)
	return args.Get(0).(int64), args.Error(1)
}

func newTestService(records *MockInventoryRepository, vehicles *MockVehicleDirectory, shops *MockShopDirectory, bookings *MockBookingCounter) *Service {
	return NewService(records, vehicles, shops, bookings, keylock.New(time.Second))
}

func TestService_CreateRecord_Success(t *testing.T) {
	mockRecords := new(MockInventoryRepository)
	mockVehicles := new(MockVehicleDirectory)

	mockVehicles.On("GetOwnerID", mock.Anything, int64(10)).Return(int64(1), nil)
	mockRecords.On("Create", mock.Anything, int64(10), 3).Return(&domain.InventoryRecord{
		VehicleID: 10, Total: 3, Available: 3, Rented: 0,
	}, nil)

	service := newTestService(mockRecords, mockVehicles, new(MockShopDirectory), new(MockBookingCounter))

	rec, err := service.CreateRecord(context.Background(), 1, CreateInventoryRequest{VehicleID: 10, Total: 3})

	assert.NoError(t, err)
	assert.Equal(t, 3, rec.Available)
	assert.Equal(t, 0, rec.Rented)
}

func TestService_CreateRecord_NotOwner(t *testing.T) {
	mockRecords := new(MockInventoryRepository)
	mockVehicles := new(MockVehicleDirectory)

	mockVehicles.On("GetOwnerID", mock.Anything, int64(10)).Return(int64(1), nil)

	service := newTestService(mockRecords, mockVehicles, new(MockShopDirectory), new(MockBookingCounter))

	_, err := service.CreateRecord(context.Background(), 42, CreateInventoryRequest{VehicleID: 10, Total: 3})

	assert.ErrorIs(t, err, ErrForbidden)
	mockRecords.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CreateRecord_Duplicate(t *testing.T) {
	mockRecords := new(MockInventoryRepository)
	mockVehicles := new(MockVehicleDirectory)

	mockVehicles.On("GetOwnerID", mock.Anything, int64(10)).Return(int64(1), nil)
	mockRecords.On("Create", mock.Anything, int64(10), 3).Return(nil, repository.ErrDuplicate)

	service := newTestService(mockRecords, mockVehicles, new(MockShopDirectory), new(MockBookingCounter))

	_, err := service.CreateRecord(context.Background(), 1, CreateInventoryRequest{VehicleID: 10, Total: 3})

	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_CreateRecord_NegativeTotal(t *testing.T) {
	service := newTestService(new(MockInventoryRepository), new(MockVehicleDirectory), new(MockShopDirectory), new(MockBookingCounter))

	_, err := service.CreateRecord(context.Background(), 1, CreateInventoryRequest{VehicleID: 10, Total: -1})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_SetCapacity_Success(t *testing.T) {
	mockRecords := new(MockInventoryRepository)
	mockVehicles := new(MockVehicleDirectory)

	mockVehicles.On("GetOwnerID", mock.Anything, int64(10)).Return(int64(1), nil)
	mockRecords.On("SetTotal", mock.Anything, int64(10), 5).Return(&domain.InventoryRecord{
		VehicleID: 10, Total: 5, Available: 3, Rented: 2,
	}, nil)

	service := newTestService(mockRecords, mockVehicles, new(MockShopDirectory), new(MockBookingCounter))

	rec, err := service.SetCapacity(context.Background(), 1, 10, 5)

	assert.NoError(t, err)
	assert.Equal(t, 5, rec.Total)
	assert.Equal(t, 2, rec.Rented) // rented units are untouched
}

func TestService_SetCapacity_BelowRented(t *testing.T) {
	mockRecords := new(MockInventoryRepository)
	mockVehicles := new(MockVehicleDirectory)

	mockVehicles.On("GetOwnerID", mock.Anything, int64(10)).Return(int64(1), nil)
	mockRecords.On("SetTotal", mock.Anything, int64(10), 1).Return(nil, repository.ErrCapacityConflict)

	service := newTestService(mockRecords, mockVehicles, new(MockShopDirectory), new(MockBookingCounter))

	_, err := service.SetCapacity(context.Background(), 1, 10, 1)

	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_SetCapacity_LockHeld(t *testing.T) {
	mockVehicles := new(MockVehicleDirectory)
	mockVehicles.On("GetOwnerID", mock.Anything, int64(10)).Return(int64(1), nil)

	locks := keylock.New(50 * time.Millisecond)
	service := NewService(new(MockInventoryRepository), mockVehicles, new(MockShopDirectory), new(MockBookingCounter), locks)

	release, err := locks.Acquire(context.Background(), 10)
	assert.NoError(t, err)
	defer release()

	_, err = service.SetCapacity(context.Background(), 1, 10, 5)

	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_GetAvailability_Missing(t *testing.T) {
	mockRecords := new(MockInventoryRepository)
	mockRecords.On("GetByVehicleID", mock.Anything, int64(10)).Return(nil, gorm.ErrRecordNotFound)

	service := newTestService(mockRecords, new(MockVehicleDirectory), new(MockShopDirectory), new(MockBookingCounter))

	_, err := service.GetAvailability(context.Background(), 10)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_RangeAvailability(t *testing.T) {
	mockRecords := new(MockInventoryRepository)
	mockVehicles := new(MockVehicleDirectory)
	mockShops := new(MockShopDirectory)
	mockBookings := new(MockBookingCounter)

	start := time.Now().UTC().Add(24 * time.Hour)
	end := start.Add(4 * time.Hour)

	mockShops.On("GetByID", mock.Anything, int64(5)).Return(&domain.Shop{ID: 5, OwnerID: 1}, nil)
	mockVehicles.On("ListByShop", mock.Anything, int64(5)).Return([]domain.Vehicle{
		{ID: 10, ShopID: 5},
		{ID: 11, ShopID: 5},
		{ID: 12, ShopID: 5},
	}, nil)

	// vehicle 10: 3 total, 1 overlapping booking -> 2 free
	mockRecords.On("GetByVehicleID", mock.Anything, int64(10)).Return(&domain.InventoryRecord{VehicleID: 10, Total: 3}, nil)
	mockBookings.On("CountOverlapping", mock.Anything, int64(10), start, end, int64(0)).Return(int64(1), nil)

	// vehicle 11: fully booked
	mockRecords.On("GetByVehicleID", mock.Anything, int64(11)).Return(&domain.InventoryRecord{VehicleID: 11, Total: 2}, nil)
	mockBookings.On("CountOverlapping", mock.Anything, int64(11), start, end, int64(0)).Return(int64(2), nil)

	// vehicle 12: never stocked, skipped
	mockRecords.On("GetByVehicleID", mock.Anything, int64(12)).Return(nil, gorm.ErrRecordNotFound)

	service := newTestService(mockRecords, mockVehicles, mockShops, mockBookings)

	out, err := service.RangeAvailability(context.Background(), 5, start, end)

	assert.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, int64(10), out[0].VehicleID)
	assert.True(t, out[0].IsAvailable)
	assert.Equal(t, 2, out[0].Available)
	assert.False(t, out[1].IsAvailable)
	assert.Equal(t, 0, out[1].Available)
}

func TestService_RangeAvailability_BadWindow(t *testing.T) {
	service := newTestService(new(MockInventoryRepository), new(MockVehicleDirectory), new(MockShopDirectory), new(MockBookingCounter))

	now := time.Now().UTC()
	_, err := service.RangeAvailability(context.Background(), 5, now, now)

	assert.ErrorIs(t, err, ErrInvalidInput)
}
