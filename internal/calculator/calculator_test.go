package calculator

import (
	"math"
	"testing"
	"time"

	"TrendCast/internal/model"
)

func assertClose(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %.6f, want %.6f (tol=%.6f)", label, got, want, tol)
	}
}

func TestCalculateMeanStd(t *testing.T) {
	tests := []struct {
		name     string
		data     []float64
		wantMean float64
		wantStd  float64
	}{
		{"empty", nil, 0, 0},
		{"single value", []float64{3.5}, 3.5, 0},
		{"population std", []float64{2, 4, 4, 4, 5, 5, 7, 9}, 5, 2},
		{"symmetric residuals", []float64{-1, 1}, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, std := CalculateMeanStd(tt.data)
			assertClose(t, "mean", mean, tt.wantMean, 1e-12)
			assertClose(t, "std", std, tt.wantStd, 1e-12)
		})
	}
}

func TestCalculateSMA(t *testing.T) {
	got, err := CalculateSMA([]float64{100, 102, 104, 103, 105}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertClose(t, "SMA(3)", got, 104, 1e-9)

	if _, err := CalculateSMA([]float64{1, 2}, 3); err == nil {
		t.Error("expected error for insufficient data")
	}
	if _, err := CalculateSMA([]float64{1, 2}, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestCalculateCloseSMA(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := []model.Bar{
		{Date: day, Close: 10},
		{Date: day.AddDate(0, 0, 1), Close: 20},
	}
	got, err := CalculateCloseSMA(bars, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertClose(t, "SMA(2)", got, 15, 1e-9)
}

func TestCalculateRange(t *testing.T) {
	values := []float64{5, 1, 9, 3, 4}

	high, low, err := CalculateRange(values, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if high != 9 || low != 1 {
		t.Errorf("full range: got (%v, %v), want (9, 1)", high, low)
	}

	high, low, _ = CalculateRange(values, 2)
	if high != 4 || low != 3 {
		t.Errorf("lookback 2: got (%v, %v), want (4, 3)", high, low)
	}

	if _, _, err := CalculateRange(nil, 10); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestCalculateRangePosition(t *testing.T) {
	tests := []struct {
		current, high, low float64
		want               float64
	}{
		{15, 20, 10, 0.5},
		{25, 20, 10, 1},
		{5, 20, 10, 0},
		{10, 10, 10, 0.5},
	}
	for _, tt := range tests {
		got, err := CalculateRangePosition(tt.current, tt.high, tt.low)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertClose(t, "position", got, tt.want, 1e-12)
	}
	if _, err := CalculateRangePosition(1, 1, 2); err == nil {
		t.Error("expected error when high < low")
	}
}
