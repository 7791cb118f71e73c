package forecast

import (
	"fmt"
	"math"

	"github.com/sajari/regression"

	"TrendCast/internal/model"
)

// splitEpsilon absorbs float error in (1-ratio)*n so that 0.7 of 10 bars
// holds out 3, not 4.
const splitEpsilon = 1e-9

// Split divides the series chronologically: the first part trains the
// model, the rest is held out for residual estimation. The held-out size
// is ceil((1-ratio)*n).
func Split(series model.Series, ratio float64) (train, heldOut []model.Bar, err error) {
	if !(ratio > 0 && ratio < 1) {
		return nil, nil, fmt.Errorf("%w: train ratio %v must be in (0, 1)", ErrInvalidOptions, ratio)
	}
	n := series.Len()
	if n < 2 {
		return nil, nil, fmt.Errorf("%w: need at least 2 bars, got %d", ErrInsufficientData, n)
	}

	nHeldOut := int(math.Ceil((1-ratio)*float64(n) - splitEpsilon))
	if nHeldOut < 1 {
		return nil, nil, fmt.Errorf("%w: ratio %v leaves no held-out bars out of %d", ErrInsufficientData, ratio, n)
	}
	nTrain := n - nHeldOut
	if nTrain < 1 {
		return nil, nil, fmt.Errorf("%w: ratio %v leaves no training bars out of %d", ErrInsufficientData, ratio, n)
	}
	return series.Bars[:nTrain], series.Bars[nTrain:], nil
}

// Fit runs an ordinary least-squares regression of close on day ordinal.
// A single training bar yields a flat line through that bar; two bars
// yield the exact line through both.
func Fit(train []model.Bar) (model.TrendModel, error) {
	switch len(train) {
	case 0:
		return model.TrendModel{}, fmt.Errorf("%w: no training bars", ErrInsufficientData)
	case 1:
		return model.TrendModel{Slope: 0, Intercept: train[0].Close}, nil
	case 2:
		// The regression package needs at least three observations.
		return lineThrough(train[0], train[1])
	}

	// Regress on ordinals relative to the first training day to keep the
	// design matrix well conditioned, then shift the intercept back.
	origin := model.DayOrdinal(train[0].Date)

	r := new(regression.Regression)
	r.SetObserved("close")
	r.SetVar(0, "day")
	for _, b := range train {
		x := float64(model.DayOrdinal(b.Date) - origin)
		r.Train(regression.DataPoint(b.Close, []float64{x}))
	}
	if err := r.Run(); err != nil {
		return model.TrendModel{}, fmt.Errorf("%w: regression: %v", ErrDegenerateModel, err)
	}

	slope := r.Coeff(1)
	intercept := r.Coeff(0) - slope*float64(origin)
	if math.IsNaN(slope) || math.IsInf(slope, 0) || math.IsNaN(intercept) || math.IsInf(intercept, 0) {
		return model.TrendModel{}, fmt.Errorf("%w: non-finite coefficients", ErrDegenerateModel)
	}
	return model.TrendModel{Slope: slope, Intercept: intercept}, nil
}

func lineThrough(a, b model.Bar) (model.TrendModel, error) {
	x0, x1 := model.DayOrdinal(a.Date), model.DayOrdinal(b.Date)
	if x0 == x1 {
		return model.TrendModel{}, fmt.Errorf("%w: training bars share date %s", ErrDegenerateModel, a.Date.Format("2006-01-02"))
	}
	slope := (b.Close - a.Close) / float64(x1-x0)
	return model.TrendModel{Slope: slope, Intercept: a.Close - slope*float64(x0)}, nil
}
