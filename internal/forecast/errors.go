package forecast

import "errors"

// Precondition failures. All are deterministic for a given input and are never retried.
var (
	ErrEmptySeries      = errors.New("empty series")
	ErrInsufficientData = errors.New("insufficient data")
	ErrDegenerateModel  = errors.New("degenerate model")
	ErrInvalidBar       = errors.New("invalid bar")
	ErrInvalidOptions   = errors.New("invalid forecast options")
)

// IsInputError reports whether err stems from malformed or too-short input.
func IsInputError(err error) bool {
	return Reason(err) != "unknown"
}

// Reason maps a pipeline error to a short label for logs and metrics.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrEmptySeries):
		return "empty_series"
	case errors.Is(err, ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, ErrDegenerateModel):
		return "degenerate_model"
	case errors.Is(err, ErrInvalidBar):
		return "invalid_bar"
	case errors.Is(err, ErrInvalidOptions):
		return "invalid_options"
	default:
		return "unknown"
	}
}
