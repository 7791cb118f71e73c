package forecast

import (
	"math"
	"testing"
	"time"

	"TrendCast/internal/model"
)

var jan1 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func assertClose(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %.9f, want %.9f (tol=%g, diff=%g)", label, got, want, tol, math.Abs(got-want))
	}
}

// seriesOf builds a daily series starting 2024-01-01 with the given closes.
func seriesOf(closes ...float64) model.Series {
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{Date: jan1.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 1000}
	}
	return model.Series{Symbol: "TEST", Bars: bars}
}

// leastSquares is the closed-form OLS solution on absolute ordinals.
func leastSquares(bars []model.Bar) (slope, intercept float64) {
	n := float64(len(bars))
	var xMean, yMean float64
	for _, b := range bars {
		xMean += float64(model.DayOrdinal(b.Date))
		yMean += b.Close
	}
	xMean /= n
	yMean /= n
	var num, den float64
	for _, b := range bars {
		dx := float64(model.DayOrdinal(b.Date)) - xMean
		num += dx * (b.Close - yMean)
		den += dx * dx
	}
	slope = num / den
	return slope, yMean - slope*xMean
}

func sse(m model.TrendModel, bars []model.Bar) float64 {
	var sum float64
	for _, b := range bars {
		r := b.Close - m.Predict(b.Date)
		sum += r * r
	}
	return sum
}
