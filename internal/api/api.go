package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"TrendCast/internal/forecast"
	"TrendCast/internal/model"
)

const (
	DefaultTimeout      = 60 * time.Second
	ServiceName         = "trendcast"
	ServiceVersion      = "1.0.0"
	RequestIDContextKey = "request_id"
	RequestIDHeaderKey  = "X-Request-ID"
)

// ForecastService runs a fresh forecast.
type ForecastService interface {
	ForecastWithOptions(ctx context.Context, symbol string, opts forecast.Options) (*model.Forecast, error)
}

// HistoryStore loads previously recorded forecasts.
type HistoryStore interface {
	LatestForecast(symbol string) (*model.Forecast, error)
}

// Handler serves forecasts over HTTP.
type Handler struct {
	service  ForecastService
	history  HistoryStore
	defaults forecast.Options
	metrics  http.Handler
}

// NewHandler creates a Handler. metricsHandler may be nil to disable /metrics.
func NewHandler(service ForecastService, history HistoryStore, defaults forecast.Options, metricsHandler http.Handler) *Handler {
	return &Handler{
		service:  service,
		history:  history,
		defaults: defaults,
		metrics:  metricsHandler,
	}
}

// SetupRoutes configures all API routes.
func (h *Handler) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(requestIDMiddleware())
	router.Use(loggerMiddleware())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	api := router.Group("/api")
	api.GET("/health", h.HealthCheck)
	api.GET("/forecast/:symbol", h.GetForecast)
	api.GET("/forecast/:symbol/latest", h.GetLatestForecast)

	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics))
	}
	return router
}

// NewServer wraps the routes in an http.Server listening on addr.
func (h *Handler) NewServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
