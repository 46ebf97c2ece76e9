package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"equiprent-backend/internal/domain"
)

// MockContractRepo
type MockContractRepo struct {
	mock.Mock
}

func (m *MockContractRepo) Insert(ctx context.Context, c *domain.RentalContract) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockContractRepo) GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*domain.RentalContract, error) {
	args := m.Called(ctx, id, includeDeleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalContract), args.Error(1)
}
func (m *MockContractRepo) ListReserving(ctx context.Context, equipmentID uuid.UUID, excludeID *uuid.UUID) ([]domain.RentalContract, error) {
	args := m.Called(ctx, equipmentID, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RentalContract), args.Error(1)
}
func (m *MockContractRepo) ListActiveEndingBefore(ctx context.Context, cutoff time.Time) ([]domain.RentalContract, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RentalContract), args.Error(1)
}
func (m *MockContractRepo) Update(ctx context.Context, c *domain.RentalContract, expectedToken []byte) error {
	args := m.Called(ctx, c, expectedToken)
	return args.Error(0)
}
func (m *MockContractRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockContractRepo) Restore(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockContractRepo) ListDeleted(ctx context.Context) ([]domain.RentalContract, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RentalContract), args.Error(1)
}

// MockReferenceRepo
type MockReferenceRepo struct {
	mock.Mock
}

func (m *MockReferenceRepo) EquipmentExists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
func (m *MockReferenceRepo) CustomerExists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
