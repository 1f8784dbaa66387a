package wealthTaxService

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/KotFed0t/wealth_tax_helper/data/repository"
	"github.com/KotFed0t/wealth_tax_helper/internal/externalApi"
	"github.com/KotFed0t/wealth_tax_helper/internal/model"
	"github.com/KotFed0t/wealth_tax_helper/internal/model/fxModel"
	"github.com/KotFed0t/wealth_tax_helper/internal/service"
	"github.com/KotFed0t/wealth_tax_helper/internal/taxcalc"
	"github.com/KotFed0t/wealth_tax_helper/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultCurrency = "EUR"

type Repository interface {
	GetAssets(ctx context.Context) ([]model.AssetPosition, error)
	SaveAssets(ctx context.Context, assets []model.AssetPosition) error
	GetDebts(ctx context.Context) ([]model.DebtPosition, error)
	SaveDebts(ctx context.Context, debts []model.DebtPosition) error
	GetCase(ctx context.Context) (model.CaseData, error)
	SaveCase(ctx context.Context, c model.CaseData) error
}

type Cache interface {
	GetTaxResult(ctx context.Context) (model.TaxResult, error)
	SetTaxResult(ctx context.Context, res model.TaxResult) error
	FlushTaxResult(ctx context.Context) error
}

type FxApi interface {
	GetRate(ctx context.Context, from, to, date string) (fxModel.Rate, error)
}

type ReportGenerator interface {
	Generate(ctx context.Context, report model.Report) (fileBytes []byte, fileExtension string, err error)
}

type CloudStorage interface {
	UploadFile(ctx context.Context, reader io.Reader, filename string) (link string, err error)
	DeleteOldFiles(ctx context.Context) error
}

type WealthTaxService struct {
	repo      Repository
	cache     Cache
	fxApi     FxApi
	generator ReportGenerator
	storage   CloudStorage
	calc      *taxcalc.Calculator
	now       func() time.Time

	// serialises load-modify-save sequences on the collections
	mu sync.Mutex
}

// New wires the service. storage may be nil, which disables report publishing.
func New(repo Repository, cache Cache, fxApi FxApi, generator ReportGenerator, storage CloudStorage, calc *taxcalc.Calculator) *WealthTaxService {
	return &WealthTaxService{
		repo:      repo,
		cache:     cache,
		fxApi:     fxApi,
		generator: generator,
		storage:   storage,
		calc:      calc,
		now:       time.Now,
	}
}

// Seed writes the demo case, assets and debts for every part of the store that is still empty.
func (s *WealthTaxService) Seed(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WealthTaxService.Seed"

	slog.Debug("Seed start", slog.String("rqID", rqID), slog.String("op", op))

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.repo.GetCase(ctx)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		if err = s.repo.SaveCase(ctx, seedCase()); err != nil {
			slog.Error("got error from repo.SaveCase", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return err
		}
		slog.Info("demo case seeded", slog.String("rqID", rqID))
	case err != nil:
		slog.Error("got error from repo.GetCase", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	assets, err := s.repo.GetAssets(ctx)
	if err != nil {
		slog.Error("got error from repo.GetAssets", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}
	if len(assets) == 0 {
		if err = s.repo.SaveAssets(ctx, seedAssets()); err != nil {
			slog.Error("got error from repo.SaveAssets", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return err
		}
		slog.Info("demo assets seeded", slog.String("rqID", rqID))
	}

	debts, err := s.repo.GetDebts(ctx)
	if err != nil {
		slog.Error("got error from repo.GetDebts", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}
	if len(debts) == 0 {
		if err = s.repo.SaveDebts(ctx, seedDebts()); err != nil {
			slog.Error("got error from repo.SaveDebts", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return err
		}
		slog.Info("demo debts seeded", slog.String("rqID", rqID))
	}

	s.flushResult(ctx)

	return nil
}

func (s *WealthTaxService) GetCase(ctx context.Context) (model.CaseData, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WealthTaxService.GetCase"

	c, err := s.repo.GetCase(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.CaseData{}, service.ErrNotFound
		}
		slog.Error("got error from repo.GetCase", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.CaseData{}, err
	}

	return c, nil
}

// SaveCase normalises and validates c and replaces the stored case.
func (s *WealthTaxService) SaveCase(ctx context.Context, c model.CaseData) (model.CaseData, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WealthTaxService.SaveCase"

	slog.Debug("SaveCase start", slog.String("rqID", rqID), slog.String("op", op))

	c = c.Normalize()
	if err := c.Validate(); err != nil {
		return model.CaseData{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.SaveCase(ctx, c); err != nil {
		slog.Error("got error from repo.SaveCase", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.CaseData{}, err
	}

	s.flushResult(ctx)

	return c, nil
}

// ListAssets returns all assets, or only those of category when it is set.
func (s *WealthTaxService) ListAssets(ctx context.Context, category *model.Category) ([]model.AssetPosition, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WealthTaxService.ListAssets"

	assets, err := s.repo.GetAssets(ctx)
	if err != nil {
		slog.Error("got error from repo.GetAssets", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	if category == nil {
		return assets, nil
	}

	filtered := make([]model.AssetPosition, 0, len(assets))
	for _, a := range assets {
		if a.Category == *category {
			filtered = append(filtered, a)
		}
	}

	return filtered, nil
}

func (s *WealthTaxService) GetAsset(ctx context.Context, id string) (model.AssetPosition, error) {
	assets, err := s.ListAssets(ctx, nil)
	if err != nil {
		return model.AssetPosition{}, err
	}

	i := slices.IndexFunc(assets, func(a model.AssetPosition) bool { return a.ID == id })
	if i < 0 {
		return model.AssetPosition{}, service.ErrNotFound
	}

	return assets[i], nil
}

func (s *WealthTaxService) AddAsset(ctx context.Context, draft model.AssetDraft) (model.AssetPosition, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WealthTaxService.AddAsset"

	slog.Debug("AddAsset start", slog.String("rqID", rqID), slog.String("op", op))

	asset, err := s.buildAsset(ctx, uuid.NewString(), draft)
	if err != nil {
		return model.AssetPosition{}, err
	}

	err = s.modifyAssets(ctx, op, func(assets []model.AssetPosition) ([]model.AssetPosition, error) {
		return append(assets, asset), nil
	})
	if err != nil {
		return model.AssetPosition{}, err
	}

	slog.Info("asset added", slog.String("rqID", rqID), slog.String("op", op), slog.String("id", asset.ID))

	return asset, nil
}

func (s *WealthTaxService) UpdateAsset(ctx context.Context, id string, draft model.AssetDraft) (model.AssetPosition, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WealthTaxService.UpdateAsset"

	slog.Debug("UpdateAsset start", slog.String("rqID", rqID), slog.String("op", op), slog.String("id", id))

	asset, err := s.buildAsset(ctx, id, draft)
	if err != nil {
		return model.AssetPosition{}, err
	}

	err = s.modifyAssets(ctx, op, func(assets []model.AssetPosition) ([]model.AssetPosition, error) {
		i := slices.IndexFunc(assets, func(a model.AssetPosition) bool { return a.ID == id })
		if i < 0 {
			return nil, service.ErrNotFound
		}
		assets[i] = asset
		return assets, nil
	})
	if err != nil {
		return model.AssetPosition{}, err
	}

	return asset, nil
}

func (s *WealthTaxService) DeleteAsset(ctx context.Context, id string) error {
	op := "WealthTaxService.DeleteAsset"

	return s.modifyAssets(ctx, op, func(assets []model.AssetPosition) ([]model.AssetPosition, error) {
		i := slices.IndexFunc(assets, func(a model.AssetPosition) bool { return a.ID == id })
		if i < 0 {
			return nil, service.ErrNotFound
		}
		return slices.Delete(assets, i, i+1), nil
	})
}

func (s *WealthTaxService) ListDebts(ctx context.Context) ([]model.DebtPosition, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WealthTaxService.ListDebts"

	debts, err := s.repo.GetDebts(ctx)
	if err != nil {
		slog.Error("got error from repo.GetDebts", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	return debts, nil
}

func (s *WealthTaxService) GetDebt(ctx context.Context, id string) (model.DebtPosition, error) {
	debts, err := s.ListDebts(ctx)
	if err != nil {
		return model.DebtPosition{}, err
	}

	i := slices.IndexFunc(debts, func(d model.DebtPosition) bool { return d.ID == id })
	if i < 0 {
		return model.DebtPosition{}, service.ErrNotFound
	}

	return debts[i], nil
}

func (s *WealthTaxService) AddDebt(ctx context.Context, draft model.DebtDraft) (model.DebtPosition, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WealthTaxService.AddDebt"

	debt, err := draft.Build(uuid.NewString())
	if err != nil {
		return model.DebtPosition{}, err
	}

	err = s.modifyDebts(ctx, op, func(debts []model.DebtPosition) ([]model.DebtPosition, error) {
		return append(debts, debt), nil
	})
	if err != nil {
		return model.DebtPosition{}, err
	}

	slog.Info("debt added", slog.String("rqID", rqID), slog.String("op", op), slog.String("id", debt.ID))

	return debt, nil
}

func (s *WealthTaxService) UpdateDebt(ctx context.Context, id string, draft model.DebtDraft) (model.DebtPosition, error) {
	op := "WealthTaxService.UpdateDebt"

	debt, err := draft.Build(id)
	if err != nil {
		return model.DebtPosition{}, err
	}

	err = s.modifyDebts(ctx, op, func(debts []model.DebtPosition) ([]model.DebtPosition, error) {
		i := slices.IndexFunc(debts, func(d model.DebtPosition) bool { return d.ID == id })
		if i < 0 {
			return nil, service.ErrNotFound
		}
		debts[i] = debt
		return debts, nil
	})
	if err != nil {
		return model.DebtPosition{}, err
	}

	return debt, nil
}

func (s *WealthTaxService) DeleteDebt(ctx context.Context, id string) error {
	op := "WealthTaxService.DeleteDebt"

	return s.modifyDebts(ctx, op, func(debts []model.DebtPosition) ([]model.DebtPosition, error) {
		i := slices.IndexFunc(debts, func(d model.DebtPosition) bool { return d.ID == id })
		if i < 0 {
			return nil, service.ErrNotFound
		}
		return slices.Delete(debts, i, i+1), nil
	})
}

// Calculate computes the tax estimate from the current store content and caches it.
func (s *WealthTaxService) Calculate(ctx context.Context) (res model.TaxResult, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WealthTaxService.Calculate"

	slog.Debug("Calculate start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		if err != nil {
			slog.Error("Calculate failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("Calculate completed", slog.String("rqID", rqID), slog.String("op", op), slog.String("tax", res.Tax.String()))
		}
	}()

	// held until the cache is set so a concurrent edit cannot be overwritten by an older result
	s.mu.Lock()
	defer s.mu.Unlock()

	report, err := s.load(ctx)
	if err != nil {
		return model.TaxResult{}, err
	}

	res = report.Result

	if err := s.cache.SetTaxResult(ctx, res); err != nil {
		slog.Warn("can't cache tax result", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	return res, nil
}

// LastResult returns the cached result, calculating a fresh one on a cache miss.
func (s *WealthTaxService) LastResult(ctx context.Context) (model.TaxResult, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WealthTaxService.LastResult"

	res, err := s.cache.GetTaxResult(ctx)
	if err == nil {
		return res, nil
	}

	slog.Debug("tax result not cached", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))

	return s.Calculate(ctx)
}

// Summary aggregates the positions per category for the dashboard header and allocation chart.
func (s *WealthTaxService) Summary(ctx context.Context) (model.Summary, error) {
	assets, err := s.ListAssets(ctx, nil)
	if err != nil {
		return model.Summary{}, err
	}

	debts, err := s.ListDebts(ctx)
	if err != nil {
		return model.Summary{}, err
	}

	categories := model.Categories()
	summary := model.Summary{
		Categories: make([]model.CategorySummary, len(categories)),
		AssetCount: len(assets),
		DebtCount:  len(debts),
	}
	for i, c := range categories {
		summary.Categories[i] = model.CategorySummary{Category: c, Total: decimal.Zero}
	}

	for _, a := range assets {
		i := slices.Index(categories, a.Category)
		if i < 0 {
			continue
		}
		summary.Categories[i].Count++
		summary.Categories[i].Total = summary.Categories[i].Total.Add(a.Value())
	}

	summary.GrossAssets = taxcalc.GrossAssets(assets)
	summary.GrossDebts = taxcalc.GrossDebts(debts)
	summary.Balance = summary.GrossAssets.Sub(summary.GrossDebts)

	return summary, nil
}

// Report renders the current positions and a fresh calculation into a workbook.
func (s *WealthTaxService) Report(ctx context.Context) (fileBytes []byte, filename string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WealthTaxService.Report"

	slog.Debug("Report start", slog.String("rqID", rqID), slog.String("op", op))

	report, err := s.load(ctx)
	if err != nil {
		slog.Error("can't load report data", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	fileBytes, ext, err := s.generator.Generate(ctx, report)
	if err != nil {
		slog.Error("got error from generator.Generate", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	filename = fmt.Sprintf("Vermoegensteuer_%s_%s%s", report.Result.ValuationDate, report.GeneratedAt.Format("20060102-150405"), ext)

	slog.Debug("Report completed", slog.String("rqID", rqID), slog.String("op", op), slog.String("filename", filename))

	return fileBytes, filename, nil
}

// PublishReport uploads a fresh report and returns its share link.
func (s *WealthTaxService) PublishReport(ctx context.Context) (string, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WealthTaxService.PublishReport"

	if s.storage == nil {
		return "", service.ErrPublishingDisabled
	}

	fileBytes, filename, err := s.Report(ctx)
	if err != nil {
		return "", err
	}

	link, err := s.storage.UploadFile(ctx, bytes.NewReader(fileBytes), filename)
	if err != nil {
		slog.Error("got error from storage.UploadFile", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return "", err
	}

	slog.Info("report published", slog.String("rqID", rqID), slog.String("op", op), slog.String("filename", filename))

	return link, nil
}

// DeleteOldReports removes expired published reports; a no-op when publishing is disabled.
func (s *WealthTaxService) DeleteOldReports(ctx context.Context) error {
	if s.storage == nil {
		return nil
	}
	return s.storage.DeleteOldFiles(ctx)
}

// load reads all positions and the case and runs the calculation over them.
func (s *WealthTaxService) load(ctx context.Context) (model.Report, error) {
	assets, err := s.repo.GetAssets(ctx)
	if err != nil {
		return model.Report{}, fmt.Errorf("get assets: %w", err)
	}

	debts, err := s.repo.GetDebts(ctx)
	if err != nil {
		return model.Report{}, fmt.Errorf("get debts: %w", err)
	}

	var casePtr *model.CaseData
	c, err := s.repo.GetCase(ctx)
	switch {
	case err == nil:
		casePtr = &c
	case !errors.Is(err, repository.ErrNotFound):
		return model.Report{}, fmt.Errorf("get case: %w", err)
	}

	now := s.now()

	return model.Report{
		Case:        casePtr,
		Assets:      assets,
		Debts:       debts,
		Result:      s.calc.Calculate(assets, debts, casePtr.CutoffDate(now)),
		GeneratedAt: now,
	}, nil
}

// buildAsset validates the draft and converts a foreign quote currency into the
// case valuation currency at the reference rate of the valuation date.
func (s *WealthTaxService) buildAsset(ctx context.Context, id string, draft model.AssetDraft) (model.AssetPosition, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WealthTaxService.buildAsset"

	asset, err := draft.Build(id, s.now())
	if err != nil {
		return model.AssetPosition{}, err
	}

	from := draft.Currency()
	if from == "" {
		return asset, nil
	}

	to, err := s.valuationCurrency(ctx)
	if err != nil {
		return model.AssetPosition{}, err
	}
	if from == to {
		return asset, nil
	}

	rate, err := s.fxApi.GetRate(ctx, from, to, asset.ValuationDate)
	if err != nil {
		if errors.Is(err, externalApi.ErrNotFound) {
			verr := &model.ValidationError{}
			verr.Add("quoteCurrency", fmt.Sprintf("no reference rate %s/%s on %s", from, to, asset.ValuationDate))
			return model.AssetPosition{}, verr
		}
		slog.Error("got error from fxApi.GetRate", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.AssetPosition{}, fmt.Errorf("get rate %s/%s: %w", from, to, err)
	}

	slog.Debug("unit value converted", slog.String("rqID", rqID), slog.String("op", op),
		slog.String("from", from), slog.String("to", to), slog.String("rate", rate.Value.String()))

	return asset.WithUnitValue(asset.UnitValue.Mul(rate.Value).Round(model.UnitValueScale)), nil
}

func (s *WealthTaxService) valuationCurrency(ctx context.Context) (string, error) {
	c, err := s.repo.GetCase(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return defaultCurrency, nil
		}
		return "", fmt.Errorf("get case: %w", err)
	}
	if c.Assessment.Currency == "" {
		return defaultCurrency, nil
	}
	return c.Assessment.Currency, nil
}

func (s *WealthTaxService) modifyAssets(ctx context.Context, op string, fn func([]model.AssetPosition) ([]model.AssetPosition, error)) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	assets, err := s.repo.GetAssets(ctx)
	if err != nil {
		slog.Error("got error from repo.GetAssets", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	assets, err = fn(assets)
	if err != nil {
		return err
	}

	if err = s.repo.SaveAssets(ctx, assets); err != nil {
		slog.Error("got error from repo.SaveAssets", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	s.flushResult(ctx)

	return nil
}

func (s *WealthTaxService) modifyDebts(ctx context.Context, op string, fn func([]model.DebtPosition) ([]model.DebtPosition, error)) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	debts, err := s.repo.GetDebts(ctx)
	if err != nil {
		slog.Error("got error from repo.GetDebts", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	debts, err = fn(debts)
	if err != nil {
		return err
	}

	if err = s.repo.SaveDebts(ctx, debts); err != nil {
		slog.Error("got error from repo.SaveDebts", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	s.flushResult(ctx)

	return nil
}

func (s *WealthTaxService) flushResult(ctx context.Context) {
	if err := s.cache.FlushTaxResult(ctx); err != nil {
		slog.Warn("can't flush cached tax result",
			slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
	}
}
