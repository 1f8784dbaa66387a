package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/KotFed0t/wealth_tax_helper/internal/model"
	"github.com/KotFed0t/wealth_tax_helper/utils"
	"github.com/redis/go-redis/v9"
)

const KeyLastResult = "wealth_tax:last_result"

var ErrCacheMiss = errors.New("cache miss")

type RedisCache struct {
	redis      *redis.Client
	expiration time.Duration
}

func NewRedisCache(redisClient *redis.Client, expiration time.Duration) *RedisCache {
	return &RedisCache{redis: redisClient, expiration: expiration}
}

func (r *RedisCache) SetTaxResult(ctx context.Context, res model.TaxResult) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisCache.SetTaxResult"
	slog.Debug("SetTaxResult start", slog.String("rqID", rqID), slog.String("op", op))

	resJson, err := json.Marshal(res)
	if err != nil {
		slog.Error("can't marshall tax result", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	err = r.redis.Set(ctx, KeyLastResult, resJson, r.expiration).Err()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	slog.Debug("SetTaxResult completed", slog.String("rqID", rqID), slog.String("op", op))

	return nil
}

// GetTaxResult returns ErrCacheMiss when nothing is cached.
func (r *RedisCache) GetTaxResult(ctx context.Context) (model.TaxResult, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisCache.GetTaxResult"
	slog.Debug("GetTaxResult start", slog.String("rqID", rqID), slog.String("op", op))

	res, err := r.redis.Get(ctx, KeyLastResult).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.TaxResult{}, ErrCacheMiss
		}
		slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.TaxResult{}, err
	}

	taxResult := model.TaxResult{}
	err = json.Unmarshal(res, &taxResult)
	if err != nil {
		slog.Error("can't unmarshall tax result", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.TaxResult{}, err
	}

	slog.Debug("GetTaxResult finished", slog.String("rqID", rqID), slog.String("op", op))

	return taxResult, nil
}

func (r *RedisCache) FlushTaxResult(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisCache.FlushTaxResult"

	err := r.redis.Del(ctx, KeyLastResult).Err()
	if err != nil {
		slog.Error("failed on redis.Del", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	slog.Debug("FlushTaxResult completed", slog.String("rqID", rqID), slog.String("op", op))

	return nil
}
