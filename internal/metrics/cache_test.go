package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/SC0R9I0N/qr-class-manager/internal/cache"
	"github.com/SC0R9I0N/qr-class-manager/internal/mocks"
)

func TestCacheWrapper_GetActiveSessionsCount_CacheHit(t *testing.T) {
	ctx := context.Background()
	memCache := cache.NewMemoryCache[int64]()
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockMetricsStore(ctrl)
	// No expectations: if CountActiveSessions is called, gomock fails automatically

	wrapper := NewCacheWrapper(mockStore, memCache)

	_ = memCache.Set(ctx, activeSessionsKey, 42, time.Minute)

	count, err := wrapper.GetActiveSessionsCount(ctx, time.Minute)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if count != 42 {
		t.Errorf("Expected count 42, got %d", count)
	}
}

func TestCacheWrapper_GetActiveSessionsCount_CacheMiss(t *testing.T) {
	ctx := context.Background()
	memCache := cache.NewMemoryCache[int64]()
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockMetricsStore(ctrl)
	mockStore.EXPECT().CountActiveSessions().Return(int64(7), nil).Times(1)

	wrapper := NewCacheWrapper(mockStore, memCache)

	count, err := wrapper.GetActiveSessionsCount(ctx, time.Minute)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if count != 7 {
		t.Errorf("Expected count 7, got %d", count)
	}

	cached, err := memCache.Get(ctx, activeSessionsKey)
	if err != nil {
		t.Fatalf("Expected cache to be updated, got error: %v", err)
	}
	if cached != 7 {
		t.Errorf("Expected cached value 7, got %d", cached)
	}
}

func TestCacheWrapper_GetActiveSessionsCount_DBError(t *testing.T) {
	ctx := context.Background()
	memCache := cache.NewMemoryCache[int64]()
	ctrl := gomock.NewController(t)
	expectedErr := errors.New("database connection failed")
	mockStore := mocks.NewMockMetricsStore(ctrl)
	mockStore.EXPECT().CountActiveSessions().Return(int64(0), expectedErr).Times(1)

	wrapper := NewCacheWrapper(mockStore, memCache)

	_, err := wrapper.GetActiveSessionsCount(ctx, time.Minute)
	if !errors.Is(err, expectedErr) {
		t.Errorf("Expected error %v, got %v", expectedErr, err)
	}

	if _, err := memCache.Get(ctx, activeSessionsKey); !errors.Is(err, cache.ErrCacheMiss) {
		t.Errorf("Expected nothing cached after DB error, got %v", err)
	}
}

func TestCacheWrapper_GetActiveSessionsCount_CacheError(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	mockCache := mocks.NewMockCache[int64](ctrl)
	mockStore := mocks.NewMockMetricsStore(ctrl)

	mockCache.EXPECT().
		Get(gomock.Any(), activeSessionsKey).
		Return(int64(0), cache.ErrCacheUnavailable)

	wrapper := NewCacheWrapper(mockStore, mockCache)

	_, err := wrapper.GetActiveSessionsCount(ctx, time.Minute)
	if !errors.Is(err, cache.ErrCacheUnavailable) {
		t.Errorf("Expected ErrCacheUnavailable, got %v", err)
	}
}

func TestCacheWrapper_GetActiveSessionsCount_CacheExpiration(t *testing.T) {
	ctx := context.Background()
	memCache := cache.NewMemoryCache[int64]()
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockMetricsStore(ctrl)

	callCount := 0
	mockStore.EXPECT().
		CountActiveSessions().
		DoAndReturn(func() (int64, error) {
			callCount++
			return int64(callCount * 10), nil
		}).
		Times(2)

	wrapper := NewCacheWrapper(mockStore, memCache)

	count1, _ := wrapper.GetActiveSessionsCount(ctx, 50*time.Millisecond)
	if count1 != 10 {
		t.Errorf("Expected first count 10, got %d", count1)
	}

	count2, _ := wrapper.GetActiveSessionsCount(ctx, 50*time.Millisecond)
	if count2 != 10 {
		t.Errorf("Expected second count 10 (cached), got %d", count2)
	}

	time.Sleep(100 * time.Millisecond)

	count3, _ := wrapper.GetActiveSessionsCount(ctx, 50*time.Millisecond)
	if count3 != 20 {
		t.Errorf("Expected third count 20 (new DB query), got %d", count3)
	}

	if callCount != 2 {
		t.Errorf("Expected 2 DB calls after expiration, got %d", callCount)
	}
}
