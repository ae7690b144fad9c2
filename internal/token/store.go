package token

import (
	"context"
	"fmt"
	"time"

	"github.com/SC0R9I0N/qr-class-manager/internal/core"
)

// Well-known keys the token triple is persisted under.
const (
	KeyAccessToken  = "accessToken"
	KeyIDToken      = "idToken"
	KeyRefreshToken = "refreshToken"
)

var storeKeys = []string{KeyAccessToken, KeyIDToken, KeyRefreshToken}

var _ core.TokenStore = (*CacheStore)(nil)

// CacheStore keeps the token triple in a core.Cache. With a MemoryCache it
// is the in-memory store used by tests; with a RueidisCache the set is
// shared by every client pointed at the same Redis prefix.
type CacheStore struct {
	cache core.Cache[string]
	ttl   time.Duration
}

// NewCacheStore creates a store on top of c. ttl bounds how long an unused
// set survives; zero keeps it until Clear.
func NewCacheStore(c core.Cache[string], ttl time.Duration) *CacheStore {
	return &CacheStore{cache: c, ttl: ttl}
}

// Load returns the stored set; missing keys come back as empty strings.
func (s *CacheStore) Load(ctx context.Context) (core.TokenSet, error) {
	values, err := s.cache.MGet(ctx, storeKeys)
	if err != nil {
		return core.TokenSet{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return core.TokenSet{
		AccessToken:  values[KeyAccessToken],
		IDToken:      values[KeyIDToken],
		RefreshToken: values[KeyRefreshToken],
	}, nil
}

// Save writes every non-empty token of set and removes the keys of the empty ones.
func (s *CacheStore) Save(ctx context.Context, set core.TokenSet) error {
	values := map[string]string{
		KeyAccessToken:  set.AccessToken,
		KeyIDToken:      set.IDToken,
		KeyRefreshToken: set.RefreshToken,
	}

	present := make(map[string]string, len(values))
	var absent []string
	for key, value := range values {
		if value == "" {
			absent = append(absent, key)
			continue
		}
		present[key] = value
	}

	if len(present) > 0 {
		if err := s.cache.MSet(ctx, present, s.ttl); err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}
	if len(absent) > 0 {
		if err := s.cache.Delete(ctx, absent...); err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}
	return nil
}

// Clear removes all three keys together.
func (s *CacheStore) Clear(ctx context.Context) error {
	if err := s.cache.Delete(ctx, storeKeys...); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
