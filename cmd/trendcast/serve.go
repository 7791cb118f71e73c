package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"TrendCast/internal/api"
	"TrendCast/internal/metrics"
	"TrendCast/internal/notifier"
	"TrendCast/internal/scheduler"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var runOnStart bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the daily scheduler, Telegram bot and HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := root.cfg
			log.Info().Msg("TrendCast starting...")

			m := metrics.New()
			rec := buildRecorder(cfg)
			defer rec.Close()
			col, closeCache := buildCollector(cfg, rec, m)
			defer closeCache()

			// Context for graceful shutdown
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			var sender scheduler.Sender
			var tn *notifier.TelegramNotifier
			if cfg.Telegram.Enabled {
				tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.DataSource.Proxy)
				sender = tn
			}
			var newsSource scheduler.NewsSource
			if c := buildNews(cfg); c != nil {
				newsSource = c
			}

			sched := scheduler.NewScheduler(ctx, col, newsSource, sender, cfg.Watchlist.Symbols)
			if err := sched.Register(cfg.Schedule.DailyCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			if tn != nil {
				go tn.StartPolling(ctx, sched.HandleCommand)
				log.Info().Msg("telegram polling started")
			}

			var srv *http.Server
			if cfg.Server.Enabled {
				gin.SetMode(gin.ReleaseMode)
				srv = api.NewHandler(col, rec, cfg.ForecastOptions(), m.Handler()).NewServer(cfg.Server.Addr)
				go func() {
					log.Info().Str("addr", cfg.Server.Addr).Msg("http api listening")
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Error().Err(err).Msg("http api stopped")
						cancel()
					}
				}()
			}

			if runOnStart || os.Getenv("RUN_ON_START") == "true" {
				log.Info().Msg("running daily forecast now")
				go sched.RunNow()
			}

			log.Info().Msg("TrendCast is running. Press Ctrl+C to stop.")
			<-ctx.Done()
			log.Info().Msg("shutdown signal received, stopping...")

			if srv != nil {
				shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
				defer done()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("http api shutdown")
				}
			}
			log.Info().Msg("TrendCast stopped")
			return nil
		},
	}
	cmd.Flags().BoolVar(&runOnStart, "run-now", false, "forecast the watchlist immediately on start")
	return cmd
}
