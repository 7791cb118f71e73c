package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger. Format is "json" or "console".
func Init(level, format string) error {
	return InitWithWriter(level, format, os.Stderr)
}

// InitWithWriter is Init with an explicit output.
func InitWithWriter(level, format string, out io.Writer) error {
	if level == "" {
		level = "info"
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	if format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Caller().Logger()
	return nil
}
