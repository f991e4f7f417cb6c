package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func TestMemoryCacheGetAssignsTypedValue(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "p", point{1, 2}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	var got point
	if err := mc.Get(ctx, "p", &got); err != nil || got != (point{1, 2}) {
		t.Fatalf("get: %+v %v", got, err)
	}

	// different but JSON-compatible type
	var m map[string]int
	if err := mc.Get(ctx, "p", &m); err != nil || m["y"] != 2 {
		t.Fatalf("json fallback: %+v %v", m, err)
	}

	if err := mc.Get(ctx, "nope", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss, got %v", err)
	}
	if err := mc.Get(ctx, "p", got); err == nil {
		t.Fatalf("non-pointer dest must fail")
	}
}

func TestMemoryCacheExpiryAndEviction(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()
	ctx := context.Background()

	_ = mc.Set(ctx, "short", "v", time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	if ok, _ := mc.Exists(ctx, "short"); ok {
		t.Fatalf("expired key still present")
	}

	_ = mc.Set(ctx, "a", "1", 0)
	time.Sleep(time.Millisecond)
	_ = mc.Set(ctx, "b", "2", 0)
	time.Sleep(time.Millisecond)
	var s string
	_ = mc.Get(ctx, "a", &s) // touch a so b is least recently used
	_ = mc.Set(ctx, "c", "3", 0)

	if ok, _ := mc.Exists(ctx, "b"); ok {
		t.Fatalf("b should have been evicted")
	}
	if ok, _ := mc.Exists(ctx, "a", "c"); !ok {
		t.Fatalf("a and c should remain")
	}
}

func TestLayeredCacheReadThrough(t *testing.T) {
	remote := NewMemoryCache()
	lc := NewLayeredCache(remote, 10, time.Second)
	defer lc.Close()
	ctx := context.Background()

	_ = remote.Set(ctx, "k", point{3, 4}, time.Minute)
	var got point
	if err := lc.Get(ctx, "k", &got); err != nil || got.X != 3 {
		t.Fatalf("read-through: %+v %v", got, err)
	}
	_ = remote.Delete(ctx, "k")
	got = point{}
	if err := lc.Get(ctx, "k", &got); err != nil || got.Y != 4 {
		t.Fatalf("L1 should still serve: %+v %v", got, err)
	}
}
