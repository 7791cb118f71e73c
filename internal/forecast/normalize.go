package forecast

import (
	"fmt"
	"math"
	"sort"
	"time"

	"TrendCast/internal/model"
)

// Normalize converts provider bars into a Series sorted by date.
// When two records share a date, the one that appears later in raw wins.
func Normalize(symbol string, raw []model.RawBar) (model.Series, error) {
	if len(raw) == 0 {
		return model.Series{}, ErrEmptySeries
	}

	// Keep the provider volume alongside each bar so it is checked only
	// for the record that survives de-duplication.
	type candidate struct {
		bar    model.Bar
		volume float64
	}
	byDate := make(map[int64]candidate, len(raw))
	for _, r := range raw {
		date := model.DateFromMillis(r.TimestampMs)
		byDate[model.DayOrdinal(date)] = candidate{
			bar: model.Bar{
				Date:  date,
				Open:  r.Open,
				High:  r.High,
				Low:   r.Low,
				Close: r.Close,
			},
			volume: r.Volume,
		}
	}

	cands := make([]candidate, 0, len(byDate))
	for _, c := range byDate {
		cands = append(cands, c)
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].bar.Date.Before(cands[j].bar.Date) })

	bars := make([]model.Bar, len(cands))
	for i, c := range cands {
		if math.IsNaN(c.volume) || math.IsInf(c.volume, 0) || c.volume < 0 {
			return model.Series{}, fmt.Errorf("%w: %s volume %v must be a non-negative number", ErrInvalidBar, c.bar.Date.Format(time.DateOnly), c.volume)
		}
		c.bar.Volume = int64(math.Round(c.volume))
		bars[i] = c.bar
	}

	series := model.Series{Symbol: symbol, Bars: bars}
	if err := validateSeries(series); err != nil {
		return model.Series{}, err
	}
	return series, nil
}

// validateSeries enforces the Series invariants: non-empty, strictly
// increasing dates and positive closes.
func validateSeries(s model.Series) error {
	if s.Len() == 0 {
		return ErrEmptySeries
	}
	for i, b := range s.Bars {
		if !(b.Close > 0) || math.IsInf(b.Close, 0) {
			return fmt.Errorf("%w: %s close %v must be a positive number", ErrInvalidBar, b.Date.Format(time.DateOnly), b.Close)
		}
		if b.Volume < 0 {
			return fmt.Errorf("%w: %s volume %d is negative", ErrInvalidBar, b.Date.Format(time.DateOnly), b.Volume)
		}
		if i > 0 && !s.Bars[i-1].Date.Before(b.Date) {
			return fmt.Errorf("%w: %s does not follow %s", ErrInvalidBar, b.Date.Format(time.DateOnly), s.Bars[i-1].Date.Format(time.DateOnly))
		}
	}
	return nil
}
