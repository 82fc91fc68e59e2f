package app

import (
	"context"

	"mvextras/domain/stats"

	"github.com/stretchr/testify/mock"
)

type MockAssociationRepository struct {
	mock.Mock
}

func (m *MockAssociationRepository) SaveAssociations(ctx context.Context, records []stats.AssociationRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockAssociationRepository) ListAssociations(ctx context.Context, tableName string) ([]stats.AssociationRecord, error) {
	args := m.Called(ctx, tableName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]stats.AssociationRecord), args.Error(1)
}

type MockRegressionRepository struct {
	mock.Mock
}

func (m *MockRegressionRepository) SaveRegression(ctx context.Context, rows []stats.RegressionRow) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockRegressionRepository) MaxRunID(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockRegressionRepository) ListRegression(ctx context.Context, runID int) ([]stats.RegressionRow, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]stats.RegressionRow), args.Error(1)
}
