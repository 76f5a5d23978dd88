package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"proprental-backend/internal/domain"
)

// MockAgreementRepo
type MockAgreementRepo struct {
	mock.Mock
}

func (m *MockAgreementRepo) Create(ctx context.Context, a *domain.Agreement) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockAgreementRepo) GetByID(ctx context.Context, id int32) (*domain.Agreement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agreement), args.Error(1)
}
func (m *MockAgreementRepo) List(ctx context.Context) ([]domain.Agreement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Agreement), args.Error(1)
}
func (m *MockAgreementRepo) Update(ctx context.Context, a *domain.Agreement) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockAgreementRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockAgreementRepo) NextID(ctx context.Context) (int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(int32), args.Error(1)
}

// MockRoomRepo
type MockRoomRepo struct {
	mock.Mock
}

func (m *MockRoomRepo) Create(ctx context.Context, r *domain.Room) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockRoomRepo) GetByID(ctx context.Context, id int32) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}
func (m *MockRoomRepo) List(ctx context.Context) ([]domain.Room, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Room), args.Error(1)
}
func (m *MockRoomRepo) ListByBuilding(ctx context.Context, buildingID int32) ([]domain.Room, error) {
	args := m.Called(ctx, buildingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Room), args.Error(1)
}
func (m *MockRoomRepo) Update(ctx context.Context, r *domain.Room) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockRoomRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockRoomRepo) NextID(ctx context.Context) (int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(int32), args.Error(1)
}

// MockBuildingRepo
type MockBuildingRepo struct {
	mock.Mock
}

func (m *MockBuildingRepo) Create(ctx context.Context, b *domain.Building) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBuildingRepo) GetByID(ctx context.Context, id int32) (*domain.Building, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Building), args.Error(1)
}
func (m *MockBuildingRepo) List(ctx context.Context) ([]domain.Building, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Building), args.Error(1)
}
func (m *MockBuildingRepo) Update(ctx context.Context, b *domain.Building) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBuildingRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBuildingRepo) NextID(ctx context.Context) (int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(int32), args.Error(1)
}

// MockContractorRepo serves as either contractor variant store
type MockContractorRepo struct {
	mock.Mock
}

func (m *MockContractorRepo) Create(ctx context.Context, c *domain.Contractor) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockContractorRepo) GetByID(ctx context.Context, id int32) (*domain.Contractor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contractor), args.Error(1)
}
func (m *MockContractorRepo) List(ctx context.Context) ([]domain.Contractor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contractor), args.Error(1)
}
func (m *MockContractorRepo) Update(ctx context.Context, c *domain.Contractor) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockContractorRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockContractorRepo) NextID(ctx context.Context) (int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(int32), args.Error(1)
}
