package wealthTaxService

import (
	"context"
	"io"

	"github.com/KotFed0t/wealth_tax_helper/internal/model"
	"github.com/KotFed0t/wealth_tax_helper/internal/model/fxModel"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetAssets(ctx context.Context) ([]model.AssetPosition, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AssetPosition), args.Error(1)
}

func (m *MockRepository) SaveAssets(ctx context.Context, assets []model.AssetPosition) error {
	args := m.Called(ctx, assets)
	return args.Error(0)
}

func (m *MockRepository) GetDebts(ctx context.Context) ([]model.DebtPosition, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DebtPosition), args.Error(1)
}

func (m *MockRepository) SaveDebts(ctx context.Context, debts []model.DebtPosition) error {
	args := m.Called(ctx, debts)
	return args.Error(0)
}

func (m *MockRepository) GetCase(ctx context.Context) (model.CaseData, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.CaseData), args.Error(1)
}

func (m *MockRepository) SaveCase(ctx context.Context, c model.CaseData) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetTaxResult(ctx context.Context) (model.TaxResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.TaxResult), args.Error(1)
}

func (m *MockCache) SetTaxResult(ctx context.Context, res model.TaxResult) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}

func (m *MockCache) FlushTaxResult(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockFxApi struct {
	mock.Mock
}

func (m *MockFxApi) GetRate(ctx context.Context, from, to, date string) (fxModel.Rate, error) {
	args := m.Called(ctx, from, to, date)
	return args.Get(0).(fxModel.Rate), args.Error(1)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, report model.Report) ([]byte, string, error) {
	args := m.Called(ctx, report)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) UploadFile(ctx context.Context, reader io.Reader, filename string) (string, error) {
	args := m.Called(ctx, reader, filename)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) DeleteOldFiles(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
