package forecast

import (
	"fmt"
	"math"

	"TrendCast/internal/calculator"
	"TrendCast/internal/model"
)

// EstimateResiduals computes the population standard deviation of
// actual minus predicted over the held-out bars.
func EstimateResiduals(m model.TrendModel, heldOut []model.Bar) (model.ResidualStats, error) {
	if len(heldOut) == 0 {
		return model.ResidualStats{}, fmt.Errorf("%w: no held-out bars", ErrInsufficientData)
	}
	residuals := make([]float64, len(heldOut))
	for i, b := range heldOut {
		residuals[i] = b.Close - m.Predict(b.Date)
	}
	_, std := calculator.CalculateMeanStd(residuals)
	if math.IsNaN(std) || math.IsInf(std, 0) || std < 0 {
		return model.ResidualStats{}, fmt.Errorf("%w: std error %v", ErrDegenerateModel, std)
	}
	return model.ResidualStats{StdError: std, Count: len(residuals)}, nil
}

// ApplyBand sets a constant-width band of z standard errors around every point.
// The width does not grow with forecast distance.
func ApplyBand(points []model.ForecastPoint, stats model.ResidualStats, z float64) []model.ForecastPoint {
	half := z * stats.StdError
	out := make([]model.ForecastPoint, len(points))
	for i, p := range points {
		out[i] = model.ForecastPoint{
			Date:      p.Date,
			Predicted: p.Predicted,
			Lower:     p.Predicted - half,
			Upper:     p.Predicted + half,
		}
	}
	return out
}
