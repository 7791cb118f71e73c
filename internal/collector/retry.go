package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"TrendCast/internal/model"
)

// RetryingFetcher retries transient provider failures with exponential backoff.
type RetryingFetcher struct {
	Next       Fetcher
	MaxRetries int
	BaseDelay  time.Duration
}

// WithRetry wraps f; the backoff doubles from one second.
func WithRetry(f Fetcher, maxRetries int) *RetryingFetcher {
	return &RetryingFetcher{Next: f, MaxRetries: maxRetries, BaseDelay: time.Second}
}

func (r *RetryingFetcher) Name() string { return r.Next.Name() }

func (r *RetryingFetcher) FetchDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]model.RawBar, error) {
	var lastErr error
	for i := 0; i <= r.MaxRetries; i++ {
		bars, err := r.Next.FetchDailyBars(ctx, symbol, from, to)
		if err == nil {
			return bars, nil
		}
		lastErr = err
		if !Retryable(err) || i == r.MaxRetries {
			break
		}
		backoff := r.BaseDelay * time.Duration(1<<uint(i))
		log.Warn().Err(err).Str("source", r.Name()).Str("symbol", symbol).
			Int("attempt", i+1).Dur("backoff", backoff).Msg("fetch failed, retrying")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
	return nil, fmt.Errorf("fetch %s from %s: %w", symbol, r.Name(), lastErr)
}
