package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"TrendCast/internal/model"
)

// AlphaVantageFetcher implements Fetcher using the Alpha Vantage TIME_SERIES_DAILY endpoint.
type AlphaVantageFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewAlphaVantageFetcher creates a fetcher with optional proxy support.
func NewAlphaVantageFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration) *AlphaVantageFetcher {
	if baseURL == "" {
		baseURL = "https://www.alphavantage.co"
	}
	return &AlphaVantageFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  NewHTTPClient(timeout, proxyURL),
	}
}

func (f *AlphaVantageFetcher) Name() string { return "alphavantage" }

// avBar is one entry of "Time Series (Daily)". All values arrive as strings.
type avBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

type avDaily struct {
	Series       map[string]avBar `json:"Time Series (Daily)"`
	ErrorMessage string           `json:"Error Message"`
	Note         string           `json:"Note"`
	Information  string           `json:"Information"`
}

func (f *AlphaVantageFetcher) FetchDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]model.RawBar, error) {
	q := url.Values{}
	q.Set("function", "TIME_SERIES_DAILY")
	q.Set("symbol", symbol)
	q.Set("outputsize", "full")
	q.Set("apikey", f.APIKey)
	endpoint := fmt.Sprintf("%s/query?%s", f.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("alphavantage read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Source: f.Name(), Code: resp.StatusCode, Body: string(body)}
	}

	var daily avDaily
	if err := json.Unmarshal(body, &daily); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}
	switch {
	case daily.ErrorMessage != "":
		return nil, fmt.Errorf("alphavantage api error: %s", daily.ErrorMessage)
	case daily.Note != "":
		// Rate-limit notices come back with status 200.
		return nil, &StatusError{Source: f.Name(), Code: http.StatusTooManyRequests, Body: daily.Note}
	case daily.Information != "" && len(daily.Series) == 0:
		return nil, fmt.Errorf("alphavantage api error: %s", daily.Information)
	}

	fromDay, toDay := model.TruncateDate(from), model.TruncateDate(to)
	bars := make([]model.RawBar, 0, len(daily.Series))
	for day, v := range daily.Series {
		d, err := time.Parse(dateLayout, day)
		if err != nil {
			return nil, fmt.Errorf("alphavantage date %q: %w", day, err)
		}
		if d.Before(fromDay) || d.After(toDay) {
			continue
		}
		bar, err := v.toRaw(d)
		if err != nil {
			return nil, fmt.Errorf("alphavantage %s: %w", day, err)
		}
		bars = append(bars, bar)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].TimestampMs < bars[j].TimestampMs })
	return bars, nil
}

func (b avBar) toRaw(day time.Time) (model.RawBar, error) {
	var vals [5]float64
	for i, s := range []string{b.Open, b.High, b.Low, b.Close, b.Volume} {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return model.RawBar{}, fmt.Errorf("parse %q: %w", s, err)
		}
		vals[i] = v
	}
	return model.RawBar{
		TimestampMs: day.UnixMilli(),
		Open:        vals[0],
		High:        vals[1],
		Low:         vals[2],
		Close:       vals[3],
		Volume:      vals[4],
	}, nil
}
