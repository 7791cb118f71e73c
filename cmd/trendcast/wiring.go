package main

import (
	"github.com/rs/zerolog/log"

	"TrendCast/internal/cache"
	"TrendCast/internal/collector"
	"TrendCast/internal/config"
	"TrendCast/internal/metrics"
	"TrendCast/internal/news"
	"TrendCast/internal/recorder"
)

// buildFetcher returns the configured fetch chain and a cleanup that
// releases its cache.
func buildFetcher(cfg *config.Config) (collector.Fetcher, func()) {
	cleanup := func() {}
	ds := cfg.DataSource
	var f collector.Fetcher
	switch ds.Provider {
	case "alphavantage":
		f = collector.NewAlphaVantageFetcher(ds.AlphaVantageBaseURL, ds.AlphaVantageAPIKey, ds.Proxy, ds.Timeout)
	case "mock":
		f = &collector.MockFetcher{Price: 100}
	default:
		f = collector.NewPolygonFetcher(ds.PolygonBaseURL, ds.PolygonAPIKey, ds.Proxy, ds.Timeout)
	}
	f = collector.WithRetry(f, ds.MaxRetries)
	if cfg.Cache.TTL > 0 {
		c := cache.New(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		f = collector.NewCachedFetcher(f, c, cfg.Cache.TTL)
		cleanup = func() {
			if err := c.Close(); err != nil {
				log.Warn().Err(err).Msg("close cache failed")
			}
		}
	}
	log.Info().Str("source", f.Name()).Msg("data source ready")
	return f, cleanup
}

func buildRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}

func buildCollector(cfg *config.Config, rec recorder.Recorder, m *metrics.Recorder) (*collector.Collector, func()) {
	f, cleanup := buildFetcher(cfg)
	col := collector.NewCollector(f, rec, m)
	col.CSVDir = cfg.Export.CSVDir
	col.LookbackDays = cfg.DataSource.LookbackDays
	col.Options = cfg.ForecastOptions()
	return col, cleanup
}

func buildNews(cfg *config.Config) *news.Client {
	if !cfg.NewsEnabled() {
		return nil
	}
	c := news.NewClient(cfg.News.BaseURL, cfg.News.AppID, cfg.News.APIKey, cfg.DataSource.Proxy, cfg.DataSource.Timeout)
	c.LookbackDays = cfg.News.LookbackDays
	c.PerPage = cfg.News.PerPage
	c.MaxPages = cfg.News.MaxPages
	return c
}
