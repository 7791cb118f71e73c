package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"TrendCast/internal/model"
	"TrendCast/internal/notifier"
)

// Forecaster produces a forecast for a symbol.
type Forecaster interface {
	Forecast(ctx context.Context, symbol string) (*model.Forecast, error)
}

// NewsSource returns recent stories for a symbol.
type NewsSource interface {
	Stories(ctx context.Context, symbol string) ([]model.NewsStory, error)
}

// Sender delivers a formatted report.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the daily watchlist forecast and answers chat commands.
type Scheduler struct {
	Cron       *cron.Cron
	Forecaster Forecaster
	News       NewsSource
	Notifier   Sender
	Symbols    []string
	Ctx        context.Context
}

// NewScheduler creates a new Scheduler. news and sender may be nil.
func NewScheduler(ctx context.Context, f Forecaster, news NewsSource, sender Sender, symbols []string) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Forecaster: f,
		News:       news,
		Notifier:   sender,
		Symbols:    symbols,
		Ctx:        ctx,
	}
}

// Register adds the daily watchlist forecast.
func (s *Scheduler) Register(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyForecast); err != nil {
		return fmt.Errorf("register daily forecast: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Strs("symbols", s.Symbols).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunNow executes the daily forecast immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.dailyForecast()
}

func (s *Scheduler) dailyForecast() {
	log.Info().Int("symbols", len(s.Symbols)).Msg("running daily forecast")
	for _, sym := range s.Symbols {
		if s.Ctx.Err() != nil {
			return
		}
		s.trySend(s.forecastReport(s.Ctx, sym))
	}
}

func (s *Scheduler) forecastReport(ctx context.Context, symbol string) string {
	f, err := s.Forecaster.Forecast(ctx, symbol)
	if err != nil {
		log.Error().Err(err).Str("symbol", symbol).Msg("daily forecast")
		return notifier.FormatFailure(symbol, err)
	}
	return notifier.FormatForecastReport(f)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.HelpText()
	}
	// Commands in groups arrive as /forecast@BotName.
	cmd, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	arg := ""
	if len(fields) > 1 {
		arg = strings.ToUpper(fields[1])
	}

	switch cmd {
	case "/forecast":
		if arg == "" {
			return "Usage: /forecast SYMBOL"
		}
		return s.forecastReport(ctx, arg)
	case "/news":
		if arg == "" {
			return "Usage: /news SYMBOL"
		}
		if s.News == nil {
			return "News is not configured."
		}
		stories, err := s.News.Stories(ctx, arg)
		if err != nil {
			log.Error().Err(err).Str("symbol", arg).Msg("fetch news")
			return fmt.Sprintf("❌ news for %s unavailable", arg)
		}
		return notifier.FormatNews(arg, stories)
	case "/watchlist":
		return notifier.FormatWatchlist(s.Symbols)
	default:
		return notifier.HelpText()
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		log.Info().Msg(text)
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
