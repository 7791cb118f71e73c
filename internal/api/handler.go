package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"TrendCast/internal/collector"
	"TrendCast/internal/forecast"
	"TrendCast/internal/recorder"
)

// HealthCheck handles GET /api/health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"service":   ServiceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   ServiceVersion,
	})
}

// GetForecast handles GET /api/forecast/:symbol with optional horizon, ratio and z overrides.
func (h *Handler) GetForecast(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultTimeout)
	defer cancel()

	symbol, err := collector.CleanSymbol(c.Param("symbol"))
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err)
		return
	}
	opts, err := h.parseOptions(c)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err)
		return
	}
	if err := opts.Validate(); err != nil {
		h.respondError(c, http.StatusUnprocessableEntity, err)
		return
	}

	f, err := h.service.ForecastWithOptions(ctx, symbol, opts)
	if err != nil {
		h.respondError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// GetLatestForecast handles GET /api/forecast/:symbol/latest.
func (h *Handler) GetLatestForecast(c *gin.Context) {
	symbol, err := collector.CleanSymbol(c.Param("symbol"))
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err)
		return
	}
	f, err := h.history.LatestForecast(symbol)
	if err != nil {
		h.respondError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *Handler) parseOptions(c *gin.Context) (forecast.Options, error) {
	opts := h.defaults
	if v := c.Query("horizon"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("horizon must be an integer: %q", v)
		}
		opts.HorizonDays = n
	}
	if v := c.Query("ratio"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, fmt.Errorf("ratio must be a number: %q", v)
		}
		opts.TrainRatio = r
	}
	if v := c.Query("z"); v != "" {
		z, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, fmt.Errorf("z must be a number: %q", v)
		}
		opts.ConfidenceZ = z
	}
	return opts, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, collector.ErrInvalidSymbol):
		return http.StatusBadRequest
	case errors.Is(err, recorder.ErrNotFound):
		return http.StatusNotFound
	case forecast.IsInputError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, collector.ErrFetch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) respondError(c *gin.Context, status int, err error) {
	requestID, _ := c.Get(RequestIDContextKey)
	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).
		Interface("request_id", requestID).
		Str("path", c.Request.URL.Path).
		Int("status", status).
		Msg("API error")

	body := gin.H{"error": err.Error(), "status": status}
	if status == http.StatusUnprocessableEntity {
		body["reason"] = forecast.Reason(err)
	}
	c.JSON(status, body)
}
