package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"
)

func newTestManager(t *testing.T, maxSize int) (*CacheManager, *time.Time) {
	t.Helper()
	m := NewManager(config.CacheConfig{Enabled: true, MaxSize: maxSize, TTL: time.Minute})
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	t.Cleanup(func() { m.Close() })
	return m, &now
}

func TestManagerGetSet(t *testing.T) {
	m, _ := newTestManager(t, 10)
	ctx := context.Background()

	if _, err := m.Get(ctx, "k"); !errors.Is(err, common.ErrCacheMiss) {
		t.Errorf("err = %v, want miss", err)
	}
	if err := m.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := m.Get(ctx, "k")
	if err != nil || got != "v" {
		t.Errorf("Get = %q, %v", got, err)
	}
	stats := m.GetStats()
	if stats["hits"].(int64) != 1 || stats["misses"].(int64) != 1 {
		t.Errorf("stats = %v", stats)
	}
}

func TestManagerExpiry(t *testing.T) {
	m, now := newTestManager(t, 10)
	ctx := context.Background()
	m.Set(ctx, "k", "v")

	*now = now.Add(2 * time.Minute)
	if _, err := m.Get(ctx, "k"); !errors.Is(err, common.ErrCacheMiss) {
		t.Errorf("expired entry returned err = %v", err)
	}
}

func TestManagerEvictsLeastUsed(t *testing.T) {
	m, now := newTestManager(t, 2)
	ctx := context.Background()

	m.Set(ctx, "a", "1")
	*now = now.Add(time.Second)
	m.Set(ctx, "b", "2")
	m.Get(ctx, "a")

	if err := m.Set(ctx, "c", "3"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := m.Get(ctx, "b"); !errors.Is(err, common.ErrCacheMiss) {
		t.Error("least used entry should be evicted")
	}
	if v, _ := m.Get(ctx, "a"); v != "1" {
		t.Error("frequently used entry should stay")
	}
}

func TestManagerFullWithZeroSize(t *testing.T) {
	m, _ := newTestManager(t, 0)
	if err := m.Set(context.Background(), "k", "v"); !errors.Is(err, common.ErrCacheFull) {
		t.Errorf("err = %v, want ErrCacheFull", err)
	}
}

func TestNewDisabled(t *testing.T) {
	c, err := New(config.CacheConfig{Enabled: false})
	if err != nil || c != nil {
		t.Errorf("New(disabled) = %v, %v", c, err)
	}
	if _, err := New(config.CacheConfig{Enabled: true, Backend: "memcached"}); err == nil {
		t.Error("unknown backend should fail")
	}
}

func TestKeyIsStable(t *testing.T) {
	if Key("alt", "pizza") != Key("alt", "pizza") {
		t.Error("key not stable")
	}
	if Key("alt", "pizza") == Key("alt", "tacos") {
		t.Error("different prompts share a key")
	}
}
