package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/stwalsh4118/blockjoin/internal/models"
)

// MockBlockRepository is a mock implementation of BlockRepository for testing
type MockBlockRepository struct {
	mock.Mock
}

func (m *MockBlockRepository) Provision(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockBlockRepository) BulkInsert(ctx context.Context, blocks []models.Block) (int64, error) {
	args := m.Called(ctx, blocks)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBlockRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBlockRepository) Sample(ctx context.Context, limit int) ([]models.Block, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Block), args.Error(1)
}

func (m *MockBlockRepository) SRID(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockParcelRepository is a mock implementation of ParcelRepository for testing
type MockParcelRepository struct {
	mock.Mock
}

func (m *MockParcelRepository) Provision(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockParcelRepository) BulkInsert(ctx context.Context, parcels []models.Parcel) (int64, error) {
	args := m.Called(ctx, parcels)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockParcelRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockParcelRepository) Sample(ctx context.Context, limit int) ([]models.Parcel, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Parcel), args.Error(1)
}

func (m *MockParcelRepository) SRID(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockAssignmentRepository is a mock implementation of AssignmentRepository for testing
type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) Materialize(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAssignmentRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAssignmentRepository) Matched(ctx context.Context) ([]models.ResultRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ResultRow), args.Error(1)
}

// MockMaintainer is a mock implementation of Maintainer for testing
type MockMaintainer struct {
	mock.Mock
}

func (m *MockMaintainer) Maintain(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
