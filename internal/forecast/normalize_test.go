package forecast

import (
	"errors"
	"math"
	"strings"
	"testing"

	"TrendCast/internal/model"
)

func raw(day int, close float64) model.RawBar {
	ts := jan1.AddDate(0, 0, day).Add(5 * 3600e9).UnixMilli()
	return model.RawBar{TimestampMs: ts, Open: close, High: close + 1, Low: close - 1, Close: close, Volume: 1500.4}
}

func TestNormalize_SortsAndConvertsDates(t *testing.T) {
	series, err := Normalize("AAPL", []model.RawBar{raw(2, 103), raw(0, 101), raw(1, 102)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.Symbol != "AAPL" {
		t.Errorf("symbol = %q", series.Symbol)
	}
	if series.Len() != 3 {
		t.Fatalf("len = %d, want 3", series.Len())
	}
	for i, b := range series.Bars {
		want := jan1.AddDate(0, 0, i)
		if !b.Date.Equal(want) {
			t.Errorf("bar %d date = %s, want %s", i, b.Date, want)
		}
		if b.Close != float64(101+i) {
			t.Errorf("bar %d close = %v", i, b.Close)
		}
		if b.Volume != 1500 {
			t.Errorf("bar %d volume = %d, want 1500", i, b.Volume)
		}
	}
}

func TestNormalize_DuplicateDateLastWins(t *testing.T) {
	first := raw(1, 50)
	later := raw(1, 55)
	later.TimestampMs += 3600e3 // same calendar day, different clock time

	series, err := Normalize("AAPL", []model.RawBar{raw(0, 49), first, raw(2, 56), later})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.Len() != 3 {
		t.Fatalf("len = %d, want 3", series.Len())
	}
	if got := series.Bars[1].Close; got != 55 {
		t.Errorf("duplicate date kept close %v, want 55 (later record)", got)
	}
}

func TestNormalize_Errors(t *testing.T) {
	if _, err := Normalize("X", nil); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("empty input: got %v, want ErrEmptySeries", err)
	}

	zero := raw(0, 0)
	if _, err := Normalize("X", []model.RawBar{zero}); !errors.Is(err, ErrInvalidBar) {
		t.Errorf("zero close: got %v, want ErrInvalidBar", err)
	}

	negVol := raw(0, 10)
	negVol.Volume = -1
	if _, err := Normalize("X", []model.RawBar{negVol}); !errors.Is(err, ErrInvalidBar) {
		t.Errorf("negative volume: got %v, want ErrInvalidBar", err)
	}

	for _, v := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		bad := raw(0, 10)
		bad.Volume = v
		_, err := Normalize("X", []model.RawBar{bad})
		if !errors.Is(err, ErrInvalidBar) {
			t.Errorf("volume %v: got %v, want ErrInvalidBar", v, err)
			continue
		}
		if strings.Contains(err.Error(), "-9223372036854775808") {
			t.Errorf("volume %v reported as a wrapped integer: %v", v, err)
		}
	}
}

func TestNormalize_DuplicateDropsEarlierBadRecord(t *testing.T) {
	badVol := raw(0, 10)
	badVol.Volume = -5
	badClose := raw(0, 0)

	for name, first := range map[string]model.RawBar{"bad volume": badVol, "bad close": badClose} {
		series, err := Normalize("X", []model.RawBar{first, raw(0, 12), raw(1, 13)})
		if err != nil {
			t.Errorf("%s: superseded duplicate should be ignored, got %v", name, err)
			continue
		}
		if series.Len() != 2 || series.Bars[0].Close != 12 {
			t.Errorf("%s: got %+v, want later record to win", name, series.Bars)
		}
	}

	// A bad record that wins is still rejected.
	if _, err := Normalize("X", []model.RawBar{raw(0, 12), badVol}); !errors.Is(err, ErrInvalidBar) {
		t.Errorf("winning bad volume: got %v, want ErrInvalidBar", err)
	}
}
