package model

import "time"

// NewsStory is a news article tagged with a stock ticker.
type NewsStory struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}
