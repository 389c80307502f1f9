// Package core holds the cache abstraction shared by catalog services.
package core

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/lovenote/lovenote-web/internal/domain/model"
)

// CacheRepository is a byte cache. The data layer provides the Redis implementation.
type CacheRepository interface {
	// Set stores value under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get returns nil when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete reports whether the key existed.
	Delete(ctx context.Context, key string) (bool, error)

	Health(ctx context.Context) error
}

// CategoryCacheKey is the cache key holding the live category list.
const CategoryCacheKey = "catalog:categories"

// DefaultCategoryTTL is used when CategoryCacheOptions.TTL is not positive.
const DefaultCategoryTTL = 10 * time.Minute

// CategoryCache memoises the live category list in a CacheRepository.
// Cache failures degrade to a direct load; they never fail the read.
type CategoryCache struct {
	cache  CacheRepository
	ttl    time.Duration
	logger *slog.Logger
}

// CategoryCacheOptions bundles dependencies for NewCategoryCache.
type CategoryCacheOptions struct {
	Cache  CacheRepository
	TTL    time.Duration
	Logger *slog.Logger
}

// NewCategoryCache creates a CategoryCache. A nil Cache disables caching.
func NewCategoryCache(opts CategoryCacheOptions) *CategoryCache {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultCategoryTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CategoryCache{cache: opts.Cache, ttl: ttl, logger: logger.With("component", "category_cache")}
}

// Categories returns the cached list, calling load and storing its result on a miss.
func (c *CategoryCache) Categories(
	ctx context.Context,
	load func(context.Context) ([]model.Category, error),
) ([]model.Category, error) {
	if c.cache == nil {
		return load(ctx)
	}

	raw, err := c.cache.Get(ctx, CategoryCacheKey)
	if err != nil {
		c.logger.WarnContext(ctx, "category cache read failed", "error", err)
	} else if len(raw) > 0 {
		var cats []model.Category
		if jerr := json.Unmarshal(raw, &cats); jerr == nil {
			return cats, nil
		}
		c.logger.WarnContext(ctx, "discarding malformed category cache entry")
	}

	cats, err := load(ctx)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(cats)
	if err != nil {
		return cats, nil
	}
	if serr := c.cache.Set(ctx, CategoryCacheKey, encoded, c.ttl); serr != nil {
		c.logger.WarnContext(ctx, "category cache write failed", "error", serr)
	}
	return cats, nil
}

// Invalidate drops the cached list.
func (c *CategoryCache) Invalidate(ctx context.Context) error {
	if c.cache == nil {
		return nil
	}
	_, err := c.cache.Delete(ctx, CategoryCacheKey)
	return err
}
