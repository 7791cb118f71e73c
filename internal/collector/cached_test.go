package collector

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendCast/internal/cache"
)

func TestCachedFetcher_ServesRepeatsFromCache(t *testing.T) {
	mock := &MockFetcher{Price: 50}
	c := NewCachedFetcher(mock, cache.NewTTLCache(), time.Hour)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 14)

	first, err := c.FetchDailyBars(context.Background(), "AAPL", from, to)
	require.NoError(t, err)
	second, err := c.FetchDailyBars(context.Background(), "AAPL", from, to)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, mock.Calls())

	_, err = c.FetchDailyBars(context.Background(), "MSFT", from, to)
	require.NoError(t, err)
	assert.Equal(t, 2, mock.Calls())
}

func TestCachedFetcher_DoesNotCacheErrors(t *testing.T) {
	mock := &MockFetcher{Err: &StatusError{Code: 500}}
	c := NewCachedFetcher(mock, cache.NewTTLCache(), time.Hour)
	for i := 0; i < 2; i++ {
		_, err := c.FetchDailyBars(context.Background(), "AAPL", time.Time{}, time.Time{})
		require.Error(t, err)
	}
	assert.Equal(t, 2, mock.Calls())
}
