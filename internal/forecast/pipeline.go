package forecast

import (
	"fmt"
	"math"

	"TrendCast/internal/model"
)

// Default pipeline settings.
const (
	DefaultTrainRatio  = 0.8
	DefaultHorizonDays = 90
	DefaultConfidenceZ = 1.96
)

// Options controls a single forecast run.
type Options struct {
	TrainRatio  float64
	HorizonDays int
	ConfidenceZ float64
}

// DefaultOptions returns an 80/20 split, a 90 day horizon and a 1.96 z-score.
func DefaultOptions() Options {
	return Options{
		TrainRatio:  DefaultTrainRatio,
		HorizonDays: DefaultHorizonDays,
		ConfidenceZ: DefaultConfidenceZ,
	}
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if !(o.TrainRatio > 0 && o.TrainRatio < 1) {
		return fmt.Errorf("%w: train_test_split_ratio %v must be in (0, 1)", ErrInvalidOptions, o.TrainRatio)
	}
	if o.HorizonDays < 1 {
		return fmt.Errorf("%w: forecast_horizon_days %d must be positive", ErrInvalidOptions, o.HorizonDays)
	}
	if !(o.ConfidenceZ > 0) || math.IsInf(o.ConfidenceZ, 0) {
		return fmt.Errorf("%w: confidence_z %v must be a positive number", ErrInvalidOptions, o.ConfidenceZ)
	}
	return nil
}

// Run fits, projects and bands a forecast for the series. It either returns
// a complete forecast or an error, never a partial result.
func Run(series model.Series, opts Options) (*model.Forecast, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := validateSeries(series); err != nil {
		return nil, fmt.Errorf("validate series: %w", err)
	}

	train, heldOut, err := Split(series, opts.TrainRatio)
	if err != nil {
		return nil, fmt.Errorf("split series: %w", err)
	}
	trend, err := Fit(train)
	if err != nil {
		return nil, fmt.Errorf("fit trend: %w", err)
	}
	last := series.Last()
	points, err := Project(trend, last.Date, opts.HorizonDays)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	stats, err := EstimateResiduals(trend, heldOut)
	if err != nil {
		return nil, fmt.Errorf("estimate residuals: %w", err)
	}

	return &model.Forecast{
		Symbol:      series.Symbol,
		TrainRatio:  opts.TrainRatio,
		HorizonDays: opts.HorizonDays,
		ConfidenceZ: opts.ConfidenceZ,
		Model:       trend,
		Residuals:   stats,
		TrainSize:   len(train),
		HeldOutSize: len(heldOut),
		LastDate:    last.Date,
		LastClose:   last.Close,
		Historical:  series.Historical(),
		Points:      ApplyBand(points, stats, opts.ConfidenceZ),
	}, nil
}
