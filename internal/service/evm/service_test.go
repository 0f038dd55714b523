package evm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"production-ledger/internal/storage"
)

type MockProjectStore struct {
	mock.Mock
}

func (m *MockProjectStore) GetProject(ctx context.Context, id string) (*storage.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Project), args.Error(1)
}

type MockCostSource struct {
	mock.Mock
}

func (m *MockCostSource) ActualCost(ctx context.Context, projectID string) (decimal.Decimal, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func TestProjectEVM(t *testing.T) {
	projects := new(MockProjectStore)
	costs := new(MockCostSource)

	projects.On("GetProject", mock.Anything, "PRJ-7").
		Return(&storage.Project{ID: "PRJ-7", Name: "Gearbox", PV: 600000, EV: 540000, BAC: 1250000}, nil)
	costs.On("ActualCost", mock.Anything, "PRJ-7").Return(decimal.NewFromInt(580000), nil)

	snap, err := NewService(projects, costs).ProjectEVM(context.Background(), "PRJ-7")

	require.NoError(t, err)
	assert.Equal(t, "PRJ-7", snap.ProjectID)
	assert.Equal(t, 580000.0, snap.AC)
	assert.InDelta(t, -92592.59, snap.VAC, 0.01)
	assert.True(t, snap.IsOverBudget)
	projects.AssertExpectations(t)
	costs.AssertExpectations(t)
}

func TestProjectEVM_UnknownProject(t *testing.T) {
	projects := new(MockProjectStore)
	costs := new(MockCostSource)

	projects.On("GetProject", mock.Anything, "NOPE").
		Return(nil, fmt.Errorf("get: %w", storage.ErrNotFound))
	costs.On("ActualCost", mock.Anything, "NOPE").Return(decimal.Zero, nil).Maybe()

	_, err := NewService(projects, costs).ProjectEVM(context.Background(), "NOPE")

	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestProjectEVM_InvalidProjectData(t *testing.T) {
	projects := new(MockProjectStore)
	costs := new(MockCostSource)

	projects.On("GetProject", mock.Anything, "BAD").
		Return(&storage.Project{ID: "BAD", PV: -1, EV: 0, BAC: 10}, nil)
	costs.On("ActualCost", mock.Anything, "BAD").Return(decimal.Zero, nil)

	_, err := NewService(projects, costs).ProjectEVM(context.Background(), "BAD")

	assert.True(t, errors.Is(err, ErrInvalidInput))
}
