package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"TrendCast/internal/exporter"
	"TrendCast/internal/forecast"
	"TrendCast/internal/metrics"
	"TrendCast/internal/model"
	"TrendCast/internal/recorder"
)

// ErrFetch marks failures to obtain data from the provider.
var ErrFetch = errors.New("fetch market data")

// Collector orchestrates data fetching, persistence and forecasting.
type Collector struct {
	Fetcher      Fetcher
	Recorder     recorder.Recorder
	Metrics      *metrics.Recorder
	CSVDir       string
	LookbackDays int
	Options      forecast.Options

	now func() time.Time
}

// NewCollector creates a Collector with a 1000 day lookback and default options.
func NewCollector(fetcher Fetcher, rec recorder.Recorder, m *metrics.Recorder) *Collector {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Collector{
		Fetcher:      fetcher,
		Recorder:     rec,
		Metrics:      m,
		LookbackDays: 1000,
		Options:      forecast.DefaultOptions(),
		now:          time.Now,
	}
}

// Window returns the inclusive [today-lookback, today] fetch range in UTC.
func (c *Collector) Window() (from, to time.Time) {
	to = model.TruncateDate(c.now())
	return to.AddDate(0, 0, -c.LookbackDays), to
}

// FetchSeries fetches and normalizes the lookback window for symbol, then
// writes it to CSV and the recorder.
func (c *Collector) FetchSeries(ctx context.Context, symbol string) (model.Series, error) {
	symbol, err := CleanSymbol(symbol)
	if err != nil {
		return model.Series{}, err
	}
	from, to := c.Window()

	start := time.Now()
	raw, err := c.Fetcher.FetchDailyBars(ctx, symbol, from, to)
	c.Metrics.ObserveSince("fetch", start)
	if err != nil {
		c.Metrics.RecordFetchError(c.Fetcher.Name())
		return model.Series{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	series, err := forecast.Normalize(symbol, raw)
	if err != nil {
		return model.Series{}, fmt.Errorf("normalize %s: %w", symbol, err)
	}
	log.Info().Str("symbol", symbol).Str("source", c.Fetcher.Name()).Int("bars", series.Len()).Msg("fetched daily bars")

	if c.CSVDir != "" {
		if path, err := exporter.WriteBarsCSV(c.CSVDir, series); err != nil {
			log.Error().Err(err).Str("symbol", symbol).Msg("export bars csv")
		} else {
			log.Debug().Str("path", path).Msg("historical data saved")
		}
	}
	if err := c.Recorder.RecordBars(series); err != nil {
		log.Error().Err(err).Str("symbol", symbol).Msg("record bars")
	}
	return series, nil
}

// Forecast runs the pipeline for symbol with the collector's options.
func (c *Collector) Forecast(ctx context.Context, symbol string) (*model.Forecast, error) {
	return c.ForecastWithOptions(ctx, symbol, c.Options)
}

// ForecastWithOptions fetches fresh data for symbol and forecasts it with opts.
func (c *Collector) ForecastWithOptions(ctx context.Context, symbol string, opts forecast.Options) (*model.Forecast, error) {
	f, err := c.forecast(ctx, symbol, opts)
	if err != nil {
		c.Metrics.RecordFailure(failureReason(err))
		log.Warn().Err(err).Str("symbol", symbol).Msg("forecast failed")
		return nil, err
	}
	c.Metrics.RecordForecast(f.Symbol, f.LastClose)
	return f, nil
}

func (c *Collector) forecast(ctx context.Context, symbol string, opts forecast.Options) (*model.Forecast, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	series, err := c.FetchSeries(ctx, symbol)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	f, err := forecast.Run(series, opts)
	c.Metrics.ObserveSince("forecast", start)
	if err != nil {
		return nil, fmt.Errorf("forecast %s: %w", series.Symbol, err)
	}
	f.GeneratedAt = c.now().UTC()

	if c.CSVDir != "" {
		if _, err := exporter.WriteForecastCSV(c.CSVDir, f); err != nil {
			log.Error().Err(err).Str("symbol", f.Symbol).Msg("export forecast csv")
		}
	}
	if id, err := c.Recorder.RecordForecast(f); err != nil {
		log.Error().Err(err).Str("symbol", f.Symbol).Msg("record forecast")
	} else {
		log.Info().Str("symbol", f.Symbol).Int64("run_id", id).
			Float64("slope", f.Model.Slope).Float64("std_error", f.Residuals.StdError).
			Msg("forecast recorded")
	}
	return f, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrFetch):
		return "fetch"
	case errors.Is(err, ErrInvalidSymbol):
		return "invalid_symbol"
	}
	return forecast.Reason(err)
}
