package model

import "time"

// ordinalEpochOffset is the day ordinal of 1970-01-01 when 0001-01-01 is day 1.
const ordinalEpochOffset = 719163

const secondsPerDay = 86400

// RawBar is a daily bar as delivered by a market-data provider.
type RawBar struct {
	TimestampMs int64   `json:"t"`
	Open        float64 `json:"o"`
	High        float64 `json:"h"`
	Low         float64 `json:"l"`
	Close       float64 `json:"c"`
	Volume      float64 `json:"v"`
}

// Bar is one trading day keyed by calendar date (UTC midnight).
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Series is an ordered run of daily bars for one symbol.
type Series struct {
	Symbol string
	Bars   []Bar
}

// Len returns the number of bars.
func (s Series) Len() int { return len(s.Bars) }

// Last returns the most recent bar. The series must not be empty.
func (s Series) Last() Bar { return s.Bars[len(s.Bars)-1] }

// Closes returns the closing prices in series order.
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Historical returns the (date, close) pairs used for plotting actuals.
func (s Series) Historical() []HistoricalPoint {
	points := make([]HistoricalPoint, len(s.Bars))
	for i, b := range s.Bars {
		points[i] = HistoricalPoint{Date: b.Date, Close: b.Close}
	}
	return points
}

// DateFromMillis converts an epoch-millisecond timestamp to its UTC calendar date.
func DateFromMillis(ms int64) time.Time {
	return TruncateDate(time.UnixMilli(ms))
}

// TruncateDate drops the clock part of t after converting it to UTC.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayOrdinal returns the proleptic Gregorian day number of t's UTC date,
// counting 0001-01-01 as day 1.
func DayOrdinal(t time.Time) int64 {
	days := TruncateDate(t).Unix() / secondsPerDay
	return days + ordinalEpochOffset
}

// DateFromOrdinal is the inverse of DayOrdinal.
func DateFromOrdinal(ordinal int64) time.Time {
	return time.Unix((ordinal-ordinalEpochOffset)*secondsPerDay, 0).UTC()
}
