package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolygonFetcher_FollowsNextURL(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("apiKey"))
		switch r.URL.Path {
		case "/v2/aggs/ticker/AAPL/range/1/day/2024-01-01/2024-01-10":
			assert.Equal(t, "asc", r.URL.Query().Get("sort"))
			fmt.Fprintf(w, `{"status":"OK","results":[{"t":1704171600000,"o":1,"h":2,"l":0.5,"c":1.5,"v":100}],"next_url":"%s/v2/aggs/cursor/abc"}`, srv.URL)
		case "/v2/aggs/cursor/abc":
			fmt.Fprint(w, `{"status":"OK","results":[{"t":1704258000000,"o":1.5,"h":2.5,"l":1,"c":2,"v":120.6}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewPolygonFetcher(srv.URL, "secret", "", 5*time.Second)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars, err := f.FetchDailyBars(context.Background(), "AAPL", from, from.AddDate(0, 0, 9))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, int64(1704171600000), bars[0].TimestampMs)
	assert.Equal(t, 2.0, bars[1].Close)
	assert.Equal(t, 120.6, bars[1].Volume)
}

func TestPolygonFetcher_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		retryable bool
	}{
		{"rate limited", http.StatusTooManyRequests, `{"status":"ERROR","error":"too many requests"}`, true},
		{"server error", http.StatusBadGateway, `bad gateway`, true},
		{"unauthorized", http.StatusForbidden, `{"status":"NOT_AUTHORIZED"}`, false},
		{"api error body", http.StatusOK, `{"status":"ERROR","error":"Unknown API Key"}`, false},
		{"malformed json", http.StatusOK, `{`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			f := NewPolygonFetcher(srv.URL, "k", "", 5*time.Second)
			now := time.Now()
			_, err := f.FetchDailyBars(context.Background(), "AAPL", now.AddDate(0, 0, -5), now)
			require.Error(t, err)
			assert.Equal(t, tt.retryable, Retryable(err))
		})
	}
}
