package recorder

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"TrendCast/internal/model"
)

func openTestDB(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "db", "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestSQLiteRecorder_RecordBarsUpserts(t *testing.T) {
	r := openTestDB(t)
	s := model.Series{Symbol: "AAPL", Bars: []model.Bar{
		{Date: day(1), Close: 100, Volume: 10},
		{Date: day(2), Close: 101, Volume: 11},
	}}
	if err := r.RecordBars(s); err != nil {
		t.Fatalf("RecordBars: %v", err)
	}
	s.Bars = append(s.Bars, model.Bar{Date: day(3), Close: 102})
	if err := r.RecordBars(s); err != nil {
		t.Fatalf("RecordBars again: %v", err)
	}
	n, err := r.BarCount("AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("bar count = %d, want 3", n)
	}
}

func TestSQLiteRecorder_ForecastRoundTrip(t *testing.T) {
	r := openTestDB(t)

	if _, err := r.LatestForecast("AAPL"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty db: got %v, want ErrNotFound", err)
	}

	older := &model.Forecast{
		Symbol:      "AAPL",
		GeneratedAt: time.Date(2024, 1, 5, 22, 0, 0, 0, time.UTC),
		Points:      []model.ForecastPoint{{Date: day(6), Predicted: 1}},
	}
	newer := &model.Forecast{
		Symbol:      "AAPL",
		GeneratedAt: time.Date(2024, 1, 6, 22, 0, 0, 0, time.UTC),
		TrainRatio:  0.8,
		HorizonDays: 2,
		ConfidenceZ: 1.96,
		Model:       model.TrendModel{Slope: 2, Intercept: -1477672},
		Residuals:   model.ResidualStats{StdError: 0.5, Count: 1},
		TrainSize:   4,
		HeldOutSize: 1,
		LastDate:    day(5),
		LastClose:   108,
		Points: []model.ForecastPoint{
			{Date: day(6), Predicted: 110, Lower: 109.02, Upper: 110.98},
			{Date: day(7), Predicted: 112, Lower: 111.02, Upper: 112.98},
		},
	}
	if _, err := r.RecordForecast(older); err != nil {
		t.Fatal(err)
	}
	id, err := r.RecordForecast(newer)
	if err != nil {
		t.Fatal(err)
	}
	if id <= 0 {
		t.Errorf("run id = %d", id)
	}

	got, err := r.LatestForecast("AAPL")
	if err != nil {
		t.Fatalf("LatestForecast: %v", err)
	}
	if !got.GeneratedAt.Equal(newer.GeneratedAt) || got.Model != newer.Model || got.Residuals != newer.Residuals {
		t.Errorf("run = %+v", got)
	}
	if !got.LastDate.Equal(day(5)) || got.LastClose != 108 || got.TrainSize != 4 || got.HeldOutSize != 1 {
		t.Errorf("run metadata = %+v", got)
	}
	if len(got.Points) != 2 || got.Points[1] != newer.Points[1] {
		t.Errorf("points = %+v", got.Points)
	}

	if _, err := r.LatestForecast("MSFT"); !errors.Is(err, ErrNotFound) {
		t.Errorf("other symbol: got %v, want ErrNotFound", err)
	}
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	if _, err := r.RecordForecast(&model.Forecast{}); err != nil {
		t.Fatal(err)
	}
	if _, err := r.LatestForecast("X"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v", err)
	}
}
