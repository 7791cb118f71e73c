package recorder

import (
	"errors"

	"TrendCast/internal/model"
)

// ErrNotFound is returned when no forecast has been recorded for a symbol.
var ErrNotFound = errors.New("no recorded forecast")

// Recorder persists fetched bars and forecast runs for later analysis.
type Recorder interface {
	// RecordBars upserts daily bars keyed by symbol and date.
	RecordBars(series model.Series) error
	// RecordForecast stores a forecast run with its points and returns the run id.
	RecordForecast(f *model.Forecast) (int64, error)
	// LatestForecast loads the most recent run for symbol, without historical points.
	LatestForecast(symbol string) (*model.Forecast, error)
	Close() error
}
