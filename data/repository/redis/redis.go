// Package redis stores the case, assets and debts as one JSON document per key,
// mirroring the browser local-storage layout of the dashboard.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/wealth_tax_helper/data/repository"
	"github.com/KotFed0t/wealth_tax_helper/internal/model"
	"github.com/KotFed0t/wealth_tax_helper/utils"
	"github.com/redis/go-redis/v9"
)

const (
	KeyCase   = "b2b_dashboard_case"
	KeyAssets = "b2b_dashboard_assets"
	KeyDebts  = "b2b_dashboard_schulden"
)

type Store struct {
	redis *redis.Client
}

func NewStore(redisClient *redis.Client) *Store {
	return &Store{redis: redisClient}
}

func (s *Store) GetAssets(ctx context.Context) ([]model.AssetPosition, error) {
	assets := []model.AssetPosition{}
	if err := s.get(ctx, "Store.GetAssets", KeyAssets, &assets); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []model.AssetPosition{}, nil
		}
		return nil, err
	}
	return assets, nil
}

func (s *Store) SaveAssets(ctx context.Context, assets []model.AssetPosition) error {
	if assets == nil {
		assets = []model.AssetPosition{}
	}
	return s.set(ctx, "Store.SaveAssets", KeyAssets, assets)
}

func (s *Store) GetDebts(ctx context.Context) ([]model.DebtPosition, error) {
	debts := []model.DebtPosition{}
	if err := s.get(ctx, "Store.GetDebts", KeyDebts, &debts); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []model.DebtPosition{}, nil
		}
		return nil, err
	}
	return debts, nil
}

func (s *Store) SaveDebts(ctx context.Context, debts []model.DebtPosition) error {
	if debts == nil {
		debts = []model.DebtPosition{}
	}
	return s.set(ctx, "Store.SaveDebts", KeyDebts, debts)
}

// GetCase returns repository.ErrNotFound when no case has been saved yet.
func (s *Store) GetCase(ctx context.Context) (model.CaseData, error) {
	c := model.CaseData{}
	if err := s.get(ctx, "Store.GetCase", KeyCase, &c); err != nil {
		return model.CaseData{}, err
	}
	return c, nil
}

func (s *Store) SaveCase(ctx context.Context, c model.CaseData) error {
	return s.set(ctx, "Store.SaveCase", KeyCase, c)
}

func (s *Store) get(ctx context.Context, op, key string, dest any) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	slog.Debug("get start", slog.String("rqID", rqID), slog.String("op", op), slog.String("key", key))
	defer func() {
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			slog.Error("get failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("get completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	res, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return repository.ErrNotFound
		}
		return err
	}

	if err = json.Unmarshal(res, dest); err != nil {
		return fmt.Errorf("unmarshal %s: %w", key, err)
	}

	return nil
}

func (s *Store) set(ctx context.Context, op, key string, value any) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	slog.Debug("set start", slog.String("rqID", rqID), slog.String("op", op), slog.String("key", key))
	defer func() {
		if err != nil {
			slog.Error("set failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("set completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	return s.redis.Set(ctx, key, payload, 0).Err()
}
