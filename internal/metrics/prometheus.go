package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder exposes forecast pipeline metrics. A nil *Recorder is valid and records nothing.
type Recorder struct {
	reg         *prometheus.Registry
	forecasts   *prometheus.CounterVec
	failures    *prometheus.CounterVec
	fetchErrors *prometheus.CounterVec
	lastClose   *prometheus.GaugeVec
	latency     *prometheus.HistogramVec
}

// New creates a Recorder backed by its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		reg: reg,
		forecasts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendcast_forecasts_total",
				Help: "Total number of forecasts produced",
			},
			[]string{"symbol"},
		),
		failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendcast_forecast_failures_total",
				Help: "Total number of failed forecast requests",
			},
			[]string{"reason"},
		),
		fetchErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendcast_fetch_errors_total",
				Help: "Total number of market data fetch errors",
			},
			[]string{"source"},
		),
		lastClose: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "trendcast_last_close",
				Help: "Last observed close for a symbol",
			},
			[]string{"symbol"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trendcast_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordForecast counts a successful forecast and tracks its last close.
func (r *Recorder) RecordForecast(symbol string, lastClose float64) {
	if r == nil {
		return
	}
	r.forecasts.WithLabelValues(symbol).Inc()
	r.lastClose.WithLabelValues(symbol).Set(lastClose)
}

// RecordFailure counts a failed forecast by reason.
func (r *Recorder) RecordFailure(reason string) {
	if r == nil {
		return
	}
	r.failures.WithLabelValues(reason).Inc()
}

// RecordFetchError counts a provider error.
func (r *Recorder) RecordFetchError(source string) {
	if r == nil {
		return
	}
	r.fetchErrors.WithLabelValues(source).Inc()
}

// ObserveSince records the time elapsed since start for op.
func (r *Recorder) ObserveSince(op string, start time.Time) {
	if r == nil {
		return
	}
	r.latency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
