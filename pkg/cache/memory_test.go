package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCacheSetGet(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "coin:btc", "bitcoin", 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got string
	if err := mc.Get(ctx, "coin:btc", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "bitcoin" {
		t.Fatalf("got %q", got)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	var got string
	if err := mc.Get(context.Background(), "absent", &got); err != ErrCacheMiss {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheExpiration(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "k", "v", 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	var got string
	if err := mc.Get(ctx, "k", &got); err != ErrCacheMiss {
		t.Fatalf("expected expiry miss, got %v", err)
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	_ = mc.Set(ctx, "k", "v", 0)
	if err := mc.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	ok, err := mc.Exists(ctx, "k")
	if err != nil || ok {
		t.Fatalf("exists after delete: ok=%v err=%v", ok, err)
	}
}

func TestMemoryCacheEvictLRU(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()
	ctx := context.Background()

	_ = mc.Set(ctx, "a", "1", 0)
	time.Sleep(time.Millisecond)
	_ = mc.Set(ctx, "b", "2", 0)
	time.Sleep(time.Millisecond)
	_ = mc.Set(ctx, "c", "3", 0) // evicts a

	if ok, _ := mc.Exists(ctx, "a"); ok {
		t.Fatalf("expected oldest entry evicted")
	}
	if ok, _ := mc.Exists(ctx, "c"); !ok {
		t.Fatalf("expected newest entry kept")
	}
}

func TestMemoryCacheJSONRoundTrip(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	type payload struct {
		ID   string `json:"id"`
		Rank int    `json:"rank"`
	}
	if err := mc.Set(ctx, "p", payload{ID: "bitcoin", Rank: 1}, 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	var got payload
	if err := mc.Get(ctx, "p", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != "bitcoin" || got.Rank != 1 {
		t.Fatalf("round trip: %+v", got)
	}
}
