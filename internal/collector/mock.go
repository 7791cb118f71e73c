package collector

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"TrendCast/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Bars  []model.RawBar
	Err   error
	calls atomic.Int32
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls returns how many times FetchDailyBars has been invoked.
func (m *MockFetcher) Calls() int { return int(m.calls.Load()) }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, from, to time.Time) ([]model.RawBar, error) {
	m.calls.Add(1)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	return generateMockBars(m.Price, from, to), nil
}

// generateMockBars emits one bar per weekday with a gentle uptrend and a
// deterministic wiggle so held-out residuals are non-zero.
func generateMockBars(basePrice float64, from, to time.Time) []model.RawBar {
	if basePrice <= 0 {
		basePrice = 100
	}
	var bars []model.RawBar
	i := 0
	for d := model.TruncateDate(from); !d.After(to); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		p := basePrice * (1 + float64(i)*0.001 + 0.01*math.Sin(float64(i)/5))
		bars = append(bars, model.RawBar{
			TimestampMs: d.Add(5 * time.Hour).UnixMilli(),
			Open:        p * 0.999,
			High:        p * 1.005,
			Low:         p * 0.995,
			Close:       p,
			Volume:      1000000,
		})
		i++
	}
	return bars
}
