// Package testutils provides mock implementations for testing
package testutils

import (
	"context"
	"time"

	"github.com/alchemorsel/dietplanner/internal/ports/outbound"
	"github.com/stretchr/testify/mock"
)

// MockStore provides a mock implementation of outbound.Store whose
// repositories are mocks as well
type MockStore struct {
	mock.Mock
	RecipeRepo *MockRecipeRepository
	MealRepo   *MockMealRepository
	DietRepo   *MockDietRepository
}

// NewMockStore creates a mock store with fresh repository mocks
func NewMockStore() *MockStore {
	return &MockStore{
		RecipeRepo: &MockRecipeRepository{},
		MealRepo:   &MockMealRepository{},
		DietRepo:   &MockDietRepository{},
	}
}

// ExpectEmptyLoad lets a service load an empty plan from the store
func (m *MockStore) ExpectEmptyLoad() *MockStore {
	m.RecipeRepo.On("List", mock.Anything).Return([]outbound.RecipeRecord{}, []outbound.RecordError(nil), nil).Once()
	m.MealRepo.On("Load", mock.Anything).Return([]outbound.MealRecord{}, nil).Once()
	m.DietRepo.On("Load", mock.Anything).Return(outbound.DietRecord{}, nil).Once()
	return m
}

func (m *MockStore) Recipes() outbound.RecipeRepository { return m.RecipeRepo }
func (m *MockStore) Meals() outbound.MealRepository     { return m.MealRepo }
func (m *MockStore) Diet() outbound.DietRepository      { return m.DietRepo }

func (m *MockStore) Location() string {
	return "mock"
}

func (m *MockStore) Close() error {
	return nil
}

// AssertExpectations asserts every repository mock
func (m *MockStore) AssertExpectations(t mock.TestingT) bool {
	ok := m.RecipeRepo.AssertExpectations(t)
	ok = m.MealRepo.AssertExpectations(t) && ok
	return m.DietRepo.AssertExpectations(t) && ok
}

// MockRecipeRepository provides a mock implementation of RecipeRepository
type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) List(ctx context.Context) ([]outbound.RecipeRecord, []outbound.RecordError, error) {
	args := m.Called(ctx)
	var records []outbound.RecipeRecord
	if v := args.Get(0); v != nil {
		records = v.([]outbound.RecipeRecord)
	}
	var bad []outbound.RecordError
	if v := args.Get(1); v != nil {
		bad = v.([]outbound.RecordError)
	}
	return records, bad, args.Error(2)
}

func (m *MockRecipeRepository) Save(ctx context.Context, record outbound.RecipeRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecipeRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockMealRepository provides a mock implementation of MealRepository
type MockMealRepository struct {
	mock.Mock
}

func (m *MockMealRepository) Load(ctx context.Context) ([]outbound.MealRecord, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]outbound.MealRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMealRepository) Save(ctx context.Context, meals []outbound.MealRecord) error {
	args := m.Called(ctx, meals)
	return args.Error(0)
}

// MockDietRepository provides a mock implementation of DietRepository
type MockDietRepository struct {
	mock.Mock
}

func (m *MockDietRepository) Load(ctx context.Context) (outbound.DietRecord, error) {
	args := m.Called(ctx)
	return args.Get(0).(outbound.DietRecord), args.Error(1)
}

func (m *MockDietRepository) Save(ctx context.Context, diet outbound.DietRecord) error {
	args := m.Called(ctx, diet)
	return args.Error(0)
}

// MockMetricsRecorder provides a mock implementation of MetricsRecorder.
// Every call is accepted; inspect Calls or use AssertCalled.
type MockMetricsRecorder struct {
	mock.Mock
}

// NewMockMetricsRecorder creates a recorder that accepts any call
func NewMockMetricsRecorder() *MockMetricsRecorder {
	m := &MockMetricsRecorder{}
	m.On("RecordOperation", mock.Anything, mock.Anything, mock.Anything).Maybe()
	m.On("RecordCompliance", mock.Anything, mock.Anything, mock.Anything).Maybe()
	m.On("RecordEvent", mock.Anything).Maybe()
	m.On("RecordSkipped", mock.Anything).Maybe()
	m.On("SetPlanSize", mock.Anything, mock.Anything).Maybe()
	return m
}

func (m *MockMetricsRecorder) RecordOperation(operation, outcome string, duration time.Duration) {
	m.Called(operation, outcome, duration)
}

func (m *MockMetricsRecorder) RecordCompliance(scope string, passed bool, fraction float64) {
	m.Called(scope, passed, fraction)
}

func (m *MockMetricsRecorder) RecordEvent(name string) {
	m.Called(name)
}

func (m *MockMetricsRecorder) RecordSkipped(kind string) {
	m.Called(kind)
}

func (m *MockMetricsRecorder) SetPlanSize(recipes, meals int) {
	m.Called(recipes, meals)
}

var (
	_ outbound.Store            = (*MockStore)(nil)
	_ outbound.MetricsRecorder  = (*MockMetricsRecorder)(nil)
	_ outbound.RecipeRepository = (*MockRecipeRepository)(nil)
)
