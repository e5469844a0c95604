// File: database/repository/business/cache.go
package businessRepo

import (
	"context"
	"encoding/json"
	"time"

	"bookline/models"
	"bookline/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CachedBusinessRepo is a read-through Redis cache in front of the Mongo repo.
// Booking traffic reads the same config on every request; the TTL keeps edits
// from the dashboard visible within a few minutes.
type CachedBusinessRepo struct {
	Inner BusinessRepository
	Cache *redis.Client
	TTL   time.Duration
}

// NewCachedBusinessRepo wraps inner with the shared cache client.
func NewCachedBusinessRepo(inner BusinessRepository) BusinessRepository {
	return &CachedBusinessRepo{
		Inner: inner,
		Cache: utils.GetCacheClient(),
		TTL:   5 * time.Minute,
	}
}

func (repo *CachedBusinessRepo) GetByID(ctx context.Context, id string) (*models.BusinessConfig, error) {
	logger := utils.GetLogger()
	key := "business:" + id

	if data, err := repo.Cache.Get(ctx, key).Result(); err == nil {
		var biz models.BusinessConfig
		if jerr := json.Unmarshal([]byte(data), &biz); jerr == nil {
			return &biz, nil
		}
		logger.Warn("discarding unreadable cached business config", zap.String("businessId", id))
	}

	biz, err := repo.Inner.GetByID(ctx, id)
	if err != nil || biz == nil {
		return biz, err
	}

	if data, jerr := json.Marshal(biz); jerr == nil {
		if serr := repo.Cache.Set(ctx, key, data, repo.TTL).Err(); serr != nil {
			logger.Warn("failed to cache business config", zap.String("businessId", id), zap.Error(serr))
		}
	}
	return biz, nil
}
