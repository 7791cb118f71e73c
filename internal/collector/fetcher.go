package collector

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"TrendCast/internal/model"
)

// Fetcher retrieves raw daily bars for a symbol over an inclusive date window.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]model.RawBar, error)
	Name() string
}

// StatusError is a non-200 reply from a market-data provider.
type StatusError struct {
	Source string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d, body: %s", e.Source, e.Code, e.Body)
}

// Retryable reports whether a request that failed with err may succeed if repeated.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	var ne net.Error
	return errors.As(err, &ne)
}

// ErrInvalidSymbol is returned for tickers that cannot be sent to a provider.
var ErrInvalidSymbol = errors.New("invalid symbol")

var symbolPattern = regexp.MustCompile(`^[A-Z][A-Z0-9.\-]{0,9}$`)

// CleanSymbol upper-cases and checks a ticker symbol.
func CleanSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if !symbolPattern.MatchString(s) {
		return "", fmt.Errorf("%w %q", ErrInvalidSymbol, symbol)
	}
	return s, nil
}

// NewHTTPClient builds a client with the given timeout and optional proxy.
func NewHTTPClient(timeout time.Duration, proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

const dateLayout = "2006-01-02"
