package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"TrendCast/internal/model"
)

const maxPolygonPages = 20

// PolygonFetcher implements Fetcher using the Polygon.io aggregates API.
type PolygonFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewPolygonFetcher creates a Polygon fetcher with optional proxy support.
func NewPolygonFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration) *PolygonFetcher {
	if baseURL == "" {
		baseURL = "https://api.polygon.io"
	}
	return &PolygonFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  NewHTTPClient(timeout, proxyURL),
	}
}

func (f *PolygonFetcher) Name() string { return "polygon" }

// polygonAggs is the response structure of /v2/aggs.
type polygonAggs struct {
	Status       string         `json:"status"`
	ResultsCount int            `json:"resultsCount"`
	Results      []model.RawBar `json:"results"`
	NextURL      string         `json:"next_url"`
	Error        string         `json:"error"`
	Message      string         `json:"message"`
}

func (f *PolygonFetcher) FetchDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]model.RawBar, error) {
	endpoint := fmt.Sprintf("%s/v2/aggs/ticker/%s/range/1/day/%s/%s?adjusted=true&sort=asc&limit=50000",
		f.BaseURL, url.PathEscape(symbol), from.Format(dateLayout), to.Format(dateLayout))

	var bars []model.RawBar
	for page := 0; endpoint != ""; page++ {
		if page == maxPolygonPages {
			log.Warn().Str("symbol", symbol).Int("pages", page).Msg("polygon pagination limit reached")
			break
		}
		aggs, err := f.fetchPage(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		bars = append(bars, aggs.Results...)
		endpoint = aggs.NextURL
	}
	return bars, nil
}

func (f *PolygonFetcher) fetchPage(ctx context.Context, endpoint string) (*polygonAggs, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("polygon url: %w", err)
	}
	q := u.Query()
	q.Set("apiKey", f.APIKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("polygon fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("polygon read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Source: f.Name(), Code: resp.StatusCode, Body: string(body)}
	}

	var aggs polygonAggs
	if err := json.Unmarshal(body, &aggs); err != nil {
		return nil, fmt.Errorf("polygon decode: %w", err)
	}
	if aggs.Status == "ERROR" || aggs.Status == "NOT_AUTHORIZED" {
		msg := aggs.Error
		if msg == "" {
			msg = aggs.Message
		}
		return nil, fmt.Errorf("polygon api error: %s", msg)
	}
	return &aggs, nil
}
