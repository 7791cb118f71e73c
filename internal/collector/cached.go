package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"TrendCast/internal/cache"
	"TrendCast/internal/model"
)

// CachedFetcher serves repeated window requests from a BytesCache.
type CachedFetcher struct {
	Next  Fetcher
	Cache cache.BytesCache
	TTL   time.Duration
}

func NewCachedFetcher(next Fetcher, c cache.BytesCache, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{Next: next, Cache: c, TTL: ttl}
}

func (c *CachedFetcher) Name() string { return c.Next.Name() }

func (c *CachedFetcher) FetchDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]model.RawBar, error) {
	key := fmt.Sprintf("bars:%s:%s:%s:%s", c.Next.Name(), symbol, from.Format(dateLayout), to.Format(dateLayout))

	if b, ok, err := c.Cache.GetBytes(key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	} else if ok {
		var bars []model.RawBar
		if err := json.Unmarshal(b, &bars); err == nil {
			log.Debug().Str("key", key).Int("bars", len(bars)).Msg("cache hit")
			return bars, nil
		}
	}

	bars, err := c.Next.FetchDailyBars(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(bars); err == nil {
		if err := c.Cache.SetBytes(key, b, c.TTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return bars, nil
}
