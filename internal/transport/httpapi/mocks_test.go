package httpapi

import (
	"context"

	"github.com/KotFed0t/wealth_tax_helper/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) GetCase(ctx context.Context) (model.CaseData, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.CaseData), args.Error(1)
}

func (m *MockService) SaveCase(ctx context.Context, c model.CaseData) (model.CaseData, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(model.CaseData), args.Error(1)
}

func (m *MockService) ListAssets(ctx context.Context, category *model.Category) ([]model.AssetPosition, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AssetPosition), args.Error(1)
}

func (m *MockService) GetAsset(ctx context.Context, id string) (model.AssetPosition, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.AssetPosition), args.Error(1)
}

func (m *MockService) AddAsset(ctx context.Context, draft model.AssetDraft) (model.AssetPosition, error) {
	args := m.Called(ctx, draft)
	return args.Get(0).(model.AssetPosition), args.Error(1)
}

func (m *MockService) UpdateAsset(ctx context.Context, id string, draft model.AssetDraft) (model.AssetPosition, error) {
	args := m.Called(ctx, id, draft)
	return args.Get(0).(model.AssetPosition), args.Error(1)
}

func (m *MockService) DeleteAsset(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockService) ListDebts(ctx context.Context) ([]model.DebtPosition, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DebtPosition), args.Error(1)
}

func (m *MockService) GetDebt(ctx context.Context, id string) (model.DebtPosition, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.DebtPosition), args.Error(1)
}

func (m *MockService) AddDebt(ctx context.Context, draft model.DebtDraft) (model.DebtPosition, error) {
	args := m.Called(ctx, draft)
	return args.Get(0).(model.DebtPosition), args.Error(1)
}

func (m *MockService) UpdateDebt(ctx context.Context, id string, draft model.DebtDraft) (model.DebtPosition, error) {
	args := m.Called(ctx, id, draft)
	return args.Get(0).(model.DebtPosition), args.Error(1)
}

func (m *MockService) DeleteDebt(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockService) Calculate(ctx context.Context) (model.TaxResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.TaxResult), args.Error(1)
}

func (m *MockService) LastResult(ctx context.Context) (model.TaxResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.TaxResult), args.Error(1)
}

func (m *MockService) Summary(ctx context.Context) (model.Summary, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.Summary), args.Error(1)
}

func (m *MockService) Report(ctx context.Context) ([]byte, string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *MockService) PublishReport(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
