package forecast

import (
	"fmt"
	"time"

	"TrendCast/internal/model"
)

// Project evaluates the model on the horizon calendar days that follow lastDate.
// Weekends and holidays are not skipped. Bounds are left equal to the prediction
// until ApplyBand runs.
func Project(m model.TrendModel, lastDate time.Time, horizon int) ([]model.ForecastPoint, error) {
	if horizon < 1 {
		return nil, fmt.Errorf("%w: horizon %d must be positive", ErrInvalidOptions, horizon)
	}
	start := model.TruncateDate(lastDate)
	points := make([]model.ForecastPoint, horizon)
	for i := range points {
		date := start.AddDate(0, 0, i+1)
		p := m.Predict(date)
		points[i] = model.ForecastPoint{Date: date, Predicted: p, Lower: p, Upper: p}
	}
	return points, nil
}
