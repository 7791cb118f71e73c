package collector

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendCast/internal/model"
)

// flakyFetcher fails with the queued errors before succeeding.
type flakyFetcher struct {
	errs  []error
	calls int
}

func (f *flakyFetcher) Name() string { return "flaky" }

func (f *flakyFetcher) FetchDailyBars(context.Context, string, time.Time, time.Time) ([]model.RawBar, error) {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	return []model.RawBar{{TimestampMs: 1, Close: 1}}, nil
}

func TestRetryingFetcher(t *testing.T) {
	transient := &StatusError{Source: "flaky", Code: http.StatusServiceUnavailable}
	permanent := &StatusError{Source: "flaky", Code: http.StatusNotFound}

	tests := []struct {
		name      string
		errs      []error
		wantCalls int
		wantErr   bool
	}{
		{"first try", nil, 1, false},
		{"recovers", []error{transient, transient}, 3, false},
		{"gives up", []error{transient, transient, transient, transient}, 3, true},
		{"permanent", []error{permanent}, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &flakyFetcher{errs: tt.errs}
			r := &RetryingFetcher{Next: next, MaxRetries: 2, BaseDelay: time.Millisecond}
			_, err := r.FetchDailyBars(context.Background(), "AAPL", time.Time{}, time.Time{})
			assert.Equal(t, tt.wantCalls, next.calls)
			if tt.wantErr {
				require.Error(t, err)
				var se *StatusError
				assert.True(t, errors.As(err, &se))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRetryingFetcher_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	next := &flakyFetcher{errs: []error{&StatusError{Code: 500}}}
	r := &RetryingFetcher{Next: next, MaxRetries: 5, BaseDelay: time.Hour}
	_, err := r.FetchDailyBars(ctx, "AAPL", time.Time{}, time.Time{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, next.calls)
}
