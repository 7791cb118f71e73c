package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"TrendCast/internal/collector"
	"TrendCast/internal/model"
)

const timeLayout = "2006-01-02T15:04:05Z"

// Client fetches ticker-tagged stories from the Aylien News API.
type Client struct {
	BaseURL      string
	AppID        string
	APIKey       string
	LookbackDays int
	PerPage      int
	MaxPages     int
	Client       *http.Client

	now func() time.Time
}

// NewClient creates an Aylien client with optional proxy support.
func NewClient(baseURL, appID, apiKey, proxyURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://api.aylien.com/news"
	}
	return &Client{
		BaseURL:      baseURL,
		AppID:        appID,
		APIKey:       apiKey,
		LookbackDays: 7,
		PerPage:      10,
		MaxPages:     5,
		Client:       collector.NewHTTPClient(timeout, proxyURL),
		now:          time.Now,
	}
}

type storiesResponse struct {
	Stories []struct {
		ID     int64  `json:"id"`
		Title  string `json:"title"`
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Links struct {
			Permalink string `json:"permalink"`
		} `json:"links"`
		PublishedAt time.Time `json:"published_at"`
	} `json:"stories"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

// Stories returns the newest stories mentioning symbol, newest first.
func (c *Client) Stories(ctx context.Context, symbol string) ([]model.NewsStory, error) {
	end := c.now().UTC()
	start := end.AddDate(0, 0, -c.LookbackDays)

	params := url.Values{}
	params.Set("entities.stock_tickers", symbol)
	params.Set("published_at.start", start.Format(timeLayout))
	params.Set("published_at.end", end.Format(timeLayout))
	params.Set("language", "en")
	params.Set("per_page", strconv.Itoa(c.PerPage))
	params.Set("sort_by", "published_at")
	params.Set("sort_direction", "desc")

	var stories []model.NewsStory
	for page := 0; page < c.MaxPages; page++ {
		resp, err := c.fetchPage(ctx, params)
		if err != nil {
			return nil, err
		}
		for _, s := range resp.Stories {
			stories = append(stories, model.NewsStory{
				ID:          s.ID,
				Title:       s.Title,
				Source:      s.Source.Name,
				URL:         s.Links.Permalink,
				PublishedAt: s.PublishedAt,
			})
		}
		if resp.Links.Next == "" || len(resp.Stories) == 0 {
			break
		}
		params.Set("cursor", resp.Links.Next)
	}
	log.Debug().Str("symbol", symbol).Int("stories", len(stories)).Msg("fetched news")
	return stories, nil
}

func (c *Client) fetchPage(ctx context.Context, params url.Values) (*storiesResponse, error) {
	endpoint := fmt.Sprintf("%s/stories?%s", c.BaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Application-Id", c.AppID)
	req.Header.Set("X-Application-Key", c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("aylien fetch: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("aylien read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &collector.StatusError{Source: "aylien", Code: resp.StatusCode, Body: string(body)}
	}
	var out storiesResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("aylien decode: %w", err)
	}
	return &out, nil
}
