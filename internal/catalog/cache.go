package catalog

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"fitpact/fitness-backend/internal/domain"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

const cacheTTL = 12 * time.Hour

// CachedCatalog is a read-through Redis cache in front of another catalog.
// Only single-item lookups are cached; searches always hit the inner catalog.
// Cache failures degrade to the inner catalog, never to an error.
type CachedCatalog struct {
	inner Catalog
	rdb   *redis.Client
	log   zerolog.Logger
}

// NewCachedCatalog wraps inner with a Redis cache.
func NewCachedCatalog(inner Catalog, rdb *redis.Client, log zerolog.Logger) *CachedCatalog {
	return &CachedCatalog{
		inner: inner,
		rdb:   rdb,
		log:   log.With().Str("component", "catalog-cache").Logger(),
	}
}

func (c *CachedCatalog) Search(ctx context.Context, filter Filter) ([]domain.ExerciseCandidate, error) {
	return c.inner.Search(ctx, filter)
}

func (c *CachedCatalog) GetByID(ctx context.Context, id string) (*domain.ExerciseCandidate, error) {
	return c.lookup(ctx, "catalog:id:"+id, func() (*domain.ExerciseCandidate, error) {
		return c.inner.GetByID(ctx, id)
	})
}

func (c *CachedCatalog) GetByName(ctx context.Context, name string) (*domain.ExerciseCandidate, error) {
	return c.lookup(ctx, "catalog:name:"+strings.ToLower(name), func() (*domain.ExerciseCandidate, error) {
		return c.inner.GetByName(ctx, name)
	})
}

func (c *CachedCatalog) lookup(ctx context.Context, key string, fetch func() (*domain.ExerciseCandidate, error)) (*domain.ExerciseCandidate, error) {
	if cached, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var ex domain.ExerciseCandidate
		if jsonErr := json.Unmarshal([]byte(cached), &ex); jsonErr == nil {
			return &ex, nil
		}
		// Corrupt entry; drop it and fall through to the inner catalog.
		c.rdb.Del(ctx, key)
	} else if err != redis.Nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	ex, err := fetch()
	if err != nil {
		return nil, err
	}

	if payload, jsonErr := json.Marshal(ex); jsonErr == nil {
		if setErr := c.rdb.Set(ctx, key, payload, cacheTTL).Err(); setErr != nil {
			c.log.Warn().Err(setErr).Str("key", key).Msg("cache write failed")
		}
	}
	return ex, nil
}
