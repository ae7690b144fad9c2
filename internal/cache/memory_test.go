package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMemoryCache_GetSet(t *testing.T) {
	cache := NewMemoryCache[string]()
	ctx := context.Background()

	if err := cache.Set(ctx, "idToken", "abc", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, err := cache.Get(ctx, "idToken")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != "abc" {
		t.Errorf("Expected value abc, got %q", value)
	}
}

func TestMemoryCache_GetMiss(t *testing.T) {
	cache := NewMemoryCache[string]()

	_, err := cache.Get(context.Background(), "non-existent")
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	cache := NewMemoryCache[string]()
	ctx := context.Background()

	if err := cache.Set(ctx, "expire-key", "v", 50*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, err := cache.Get(ctx, "expire-key"); err != nil {
		t.Fatalf("Get failed before expiration: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	if _, err := cache.Get(ctx, "expire-key"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss after expiration, got %v", err)
	}
}

func TestMemoryCache_ZeroTTLNeverExpires(t *testing.T) {
	cache := NewMemoryCache[string]()
	ctx := context.Background()

	if err := cache.Set(ctx, "refreshToken", "r1", 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	value, err := cache.Get(ctx, "refreshToken")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != "r1" {
		t.Errorf("Expected r1, got %q", value)
	}
}

func TestMemoryCache_MGetMSet(t *testing.T) {
	cache := NewMemoryCache[string]()
	ctx := context.Background()

	values := map[string]string{
		"accessToken":  "a",
		"idToken":      "i",
		"refreshToken": "r",
	}
	if err := cache.MSet(ctx, values, time.Minute); err != nil {
		t.Fatalf("MSet failed: %v", err)
	}

	result, err := cache.MGet(ctx, []string{"accessToken", "idToken", "refreshToken", "missing"})
	if err != nil {
		t.Fatalf("MGet failed: %v", err)
	}
	if len(result) != 3 {
		t.Errorf("Expected 3 results, got %d", len(result))
	}
	if result["accessToken"] != "a" || result["idToken"] != "i" || result["refreshToken"] != "r" {
		t.Errorf("MGet returned incorrect values: %v", result)
	}
	if _, exists := result["missing"]; exists {
		t.Error("MGet should not return non-existent keys")
	}
}

func TestMemoryCache_DeleteMany(t *testing.T) {
	cache := NewMemoryCache[string]()
	ctx := context.Background()

	_ = cache.MSet(ctx, map[string]string{"a": "1", "b": "2", "c": "3"}, 0)

	if err := cache.Delete(ctx, "a", "b"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	result, _ := cache.MGet(ctx, []string{"a", "b", "c"})
	if len(result) != 1 || result["c"] != "3" {
		t.Errorf("Expected only c to survive, got %v", result)
	}
}

func TestMemoryCache_Close(t *testing.T) {
	cache := NewMemoryCache[string]()
	ctx := context.Background()

	_ = cache.Set(ctx, "k", "v", time.Minute)
	if err := cache.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := cache.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss after Close, got %v", err)
	}
	if err := cache.Health(ctx); err != nil {
		t.Errorf("Health should always succeed, got %v", err)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := NewMemoryCache[string]()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = cache.Set(ctx, "shared", "v", time.Minute)
		}()
		go func() {
			defer wg.Done()
			_, _ = cache.Get(ctx, "shared")
		}()
	}
	wg.Wait()

	if _, err := cache.Get(ctx, "shared"); err != nil {
		t.Errorf("Expected shared key to be present, got %v", err)
	}
}
