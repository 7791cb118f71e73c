package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"TrendCast/internal/config"
	"TrendCast/internal/logger"
)

type rootOptions struct {
	configPath string
	envFile    string
	provider   string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "trendcast",
		Short:         "Linear-trend stock price forecasts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load()
		},
	}

	defaultConfig := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultConfig = v
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfig, "path to the YAML config file")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before the config")
	cmd.PersistentFlags().StringVar(&opts.provider, "provider", "", "override data_source.provider (polygon, alphavantage, mock)")

	cmd.AddCommand(
		newFetchCmd(opts),
		newForecastCmd(opts),
		newNewsCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

func (o *rootOptions) load() error {
	if err := config.LoadDotEnv(o.envFile); err != nil {
		return err
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if o.provider != "" {
		cfg.DataSource.Provider = o.provider
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}
