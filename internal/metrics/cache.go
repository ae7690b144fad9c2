package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/SC0R9I0N/qr-class-manager/internal/cache"
	"github.com/SC0R9I0N/qr-class-manager/internal/core"
)

const activeSessionsKey = "sessions:active"

// CacheWrapper provides a read-through cache for metrics data.
// It queries the database on cache miss and updates the cache for subsequent requests.
type CacheWrapper struct {
	store core.MetricsStore
	cache core.Cache[int64]
}

// NewCacheWrapper creates a new cache wrapper for metrics.
func NewCacheWrapper(store core.MetricsStore, cache core.Cache[int64]) *CacheWrapper {
	return &CacheWrapper{
		store: store,
		cache: cache,
	}
}

// GetActiveSessionsCount retrieves the count of active class sessions.
func (m *CacheWrapper) GetActiveSessionsCount(ctx context.Context, ttl time.Duration) (int64, error) {
	count, err := m.cache.Get(ctx, activeSessionsKey)
	if err == nil {
		return count, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		return 0, err
	}

	count, err = m.store.CountActiveSessions()
	if err != nil {
		return 0, err
	}

	// A failed write only costs an extra query next time
	_ = m.cache.Set(ctx, activeSessionsKey, count, ttl)
	return count, nil
}
