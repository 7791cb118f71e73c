package main

import (
	"testing"
	"time"

	"TrendCast/internal/cache"
	"TrendCast/internal/collector"
	"TrendCast/internal/config"
)

func TestBuildFetcher_CleanupClosesCache(t *testing.T) {
	cfg := &config.Config{}
	cfg.DataSource.Provider = "mock"
	cfg.Cache.TTL = time.Hour

	f, cleanup := buildFetcher(cfg)
	cf, ok := f.(*collector.CachedFetcher)
	if !ok {
		t.Fatalf("fetcher = %T, want *collector.CachedFetcher", f)
	}
	mem, ok := cf.Cache.(*cache.TTLCache)
	if !ok {
		t.Fatalf("cache = %T, want *cache.TTLCache", cf.Cache)
	}
	_ = mem.SetBytes("k", []byte("v"), 0)

	cleanup()
	if mem.Len() != 0 {
		t.Errorf("cache still holds %d entries after cleanup", mem.Len())
	}
}

func TestBuildFetcher_NoCache(t *testing.T) {
	cfg := &config.Config{}
	cfg.DataSource.Provider = "mock"

	f, cleanup := buildFetcher(cfg)
	defer cleanup()
	if _, ok := f.(*collector.CachedFetcher); ok {
		t.Error("zero ttl should not wrap the fetcher in a cache")
	}
}
