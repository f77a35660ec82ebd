// Package catalog caches the bet-type/prize-field catalog consumed by the
// override engine. The catalog is maintained elsewhere; this package only
// reads it through the upstream API and memoizes the result.
package catalog

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/sync/singleflight"

	"github.com/bancalot/pool-admin-backend/internal/models"
)

// DefaultTTL is how long a fetched catalog stays fresh.
const DefaultTTL = 5 * time.Minute

const cacheKey = "bet-types"

// Loader fetches the catalog from the upstream platform.
type Loader interface {
	FetchBetTypes(ctx context.Context) ([]models.BetType, error)
}

// Cache is a TTL-memoized view of the bet-type catalog. Concurrent refreshes
// collapse into a single in-flight fetch whose result every caller shares.
type Cache struct {
	loader Loader
	ttl    time.Duration
	cache  *ttlcache.Cache[string, []models.BetType]
	flight singleflight.Group
}

// New creates a Cache with the default TTL.
func New(loader Loader) *Cache {
	return NewWithTTL(loader, DefaultTTL)
}

// NewWithTTL creates a Cache with an explicit TTL, used by tests.
func NewWithTTL(loader Loader, ttl time.Duration) *Cache {
	return &Cache{
		loader: loader,
		ttl:    ttl,
		// Reads must not extend an item's life; staleness is bounded by the
		// TTL measured from the fetch, not from the last hit.
		cache: ttlcache.New[string, []models.BetType](
			ttlcache.WithTTL[string, []models.BetType](ttl),
			ttlcache.WithDisableTouchOnHit[string, []models.BetType](),
		),
	}
}

// GetBetTypes returns the catalog, fetching it when the cached copy is
// missing, expired or forceRefresh is set.
func (c *Cache) GetBetTypes(ctx context.Context, forceRefresh bool) ([]models.BetType, error) {
	if !forceRefresh {
		if item := c.cache.Get(cacheKey); item != nil {
			return item.Value(), nil
		}
	}

	v, err, _ := c.flight.Do(cacheKey, func() (interface{}, error) {
		betTypes, err := c.loader.FetchBetTypes(ctx)
		if err != nil {
			return nil, err
		}
		c.cache.Set(cacheKey, betTypes, c.ttl)
		return betTypes, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.BetType), nil
}

// ClearCache drops the cached catalog so the next call refetches.
func (c *Cache) ClearCache() {
	c.cache.Delete(cacheKey)
}

// Index returns a lookup index over the current catalog.
func (c *Cache) Index(ctx context.Context) (*Index, error) {
	betTypes, err := c.GetBetTypes(ctx, false)
	if err != nil {
		return nil, err
	}
	return NewIndex(betTypes), nil
}
