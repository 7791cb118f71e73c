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

const avBody = `{
  "Meta Data": {"2. Symbol": "IBM"},
  "Time Series (Daily)": {
    "2024-01-04": {"1. open": "160.0", "2. high": "161.5", "3. low": "159.2", "4. close": "161.1", "5. volume": "4000000"},
    "2024-01-03": {"1. open": "158.0", "2. high": "160.1", "3. low": "157.9", "4. close": "159.9", "5. volume": "3500000"},
    "2023-12-29": {"1. open": "150.0", "2. high": "151.0", "3. low": "149.0", "4. close": "150.5", "5. volume": "1000000"}
  }
}`

func TestAlphaVantageFetcher_ParsesAndFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "TIME_SERIES_DAILY", q.Get("function"))
		assert.Equal(t, "IBM", q.Get("symbol"))
		assert.Equal(t, "full", q.Get("outputsize"))
		assert.Equal(t, "demo", q.Get("apikey"))
		fmt.Fprint(w, avBody)
	}))
	defer srv.Close()

	f := NewAlphaVantageFetcher(srv.URL, "demo", "", 5*time.Second)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars, err := f.FetchDailyBars(context.Background(), "IBM", from, from.AddDate(0, 0, 10))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC).UnixMilli(), bars[0].TimestampMs)
	assert.Equal(t, 159.9, bars[0].Close)
	assert.Equal(t, 4000000.0, bars[1].Volume)
}

func TestAlphaVantageFetcher_APIMessages(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		retryable bool
	}{
		{"invalid call", `{"Error Message": "Invalid API call."}`, false},
		{"rate limit note", `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`, true},
		{"information", `{"Information": "premium endpoint"}`, false},
		{"bad number", `{"Time Series (Daily)": {"2024-01-03": {"1. open": "x", "2. high": "1", "3. low": "1", "4. close": "1", "5. volume": "1"}}}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			f := NewAlphaVantageFetcher(srv.URL, "demo", "", 5*time.Second)
			from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			_, err := f.FetchDailyBars(context.Background(), "IBM", from, from.AddDate(0, 0, 10))
			require.Error(t, err)
			assert.Equal(t, tt.retryable, Retryable(err))
		})
	}
}
