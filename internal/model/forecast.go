package model

import "time"

// TrendModel is a fitted line of closing price against day ordinal.
type TrendModel struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// Predict evaluates the line at the given date.
func (m TrendModel) Predict(date time.Time) float64 {
	return m.Slope*float64(DayOrdinal(date)) + m.Intercept
}

// ResidualStats summarizes the held-out error of a TrendModel.
type ResidualStats struct {
	StdError float64 `json:"std_error"`
	Count    int     `json:"count"`
}

// HistoricalPoint is an observed close.
type HistoricalPoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// ForecastPoint is one projected day with its confidence band.
type ForecastPoint struct {
	Date      time.Time `json:"date"`
	Predicted float64   `json:"predicted_price"`
	Lower     float64   `json:"lower_bound"`
	Upper     float64   `json:"upper_bound"`
}

// Forecast is the complete result of one forecast request.
type Forecast struct {
	Symbol      string            `json:"symbol"`
	GeneratedAt time.Time         `json:"generated_at"`
	TrainRatio  float64           `json:"train_test_split_ratio"`
	HorizonDays int               `json:"forecast_horizon_days"`
	ConfidenceZ float64           `json:"confidence_z"`
	Model       TrendModel        `json:"model"`
	Residuals   ResidualStats     `json:"residuals"`
	TrainSize   int               `json:"train_size"`
	HeldOutSize int               `json:"held_out_size"`
	LastDate    time.Time         `json:"last_date"`
	LastClose   float64           `json:"last_close"`
	Historical  []HistoricalPoint `json:"historical,omitempty"`
	Points      []ForecastPoint   `json:"forecast"`
}

// BandWidth returns upper minus lower, identical for every point of a forecast.
func (f *Forecast) BandWidth() float64 {
	return 2 * f.ConfidenceZ * f.Residuals.StdError
}
