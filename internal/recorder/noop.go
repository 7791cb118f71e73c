package recorder

import "TrendCast/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordBars(_ model.Series) error                 { return nil }
func (n *NoopRecorder) RecordForecast(_ *model.Forecast) (int64, error) { return 0, nil }
func (n *NoopRecorder) LatestForecast(_ string) (*model.Forecast, error) {
	return nil, ErrNotFound
}
func (n *NoopRecorder) Close() error { return nil }
