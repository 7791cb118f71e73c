package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"TrendCast/internal/forecast"
)

var validate = validator.New()

// Config holds all application configuration.
type Config struct {
	Log        LogConfig        `yaml:"log"`
	DataSource DataSourceConfig `yaml:"data_source"`
	Forecast   ForecastConfig   `yaml:"forecast"`
	Watchlist  WatchlistConfig  `yaml:"watchlist"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Database   DatabaseConfig   `yaml:"database"`
	Export     ExportConfig     `yaml:"export"`
	Cache      CacheConfig      `yaml:"cache"`
	Server     ServerConfig     `yaml:"server"`
	News       NewsConfig       `yaml:"news"`
}

type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" default:"console" validate:"oneof=json console"`
}

type DataSourceConfig struct {
	Provider            string        `yaml:"provider" default:"polygon" validate:"oneof=polygon alphavantage mock"`
	PolygonAPIKey       string        `yaml:"polygon_api_key"`
	PolygonBaseURL      string        `yaml:"polygon_base_url" default:"https://api.polygon.io" validate:"url"`
	AlphaVantageAPIKey  string        `yaml:"alpha_vantage_api_key"`
	AlphaVantageBaseURL string        `yaml:"alpha_vantage_base_url" default:"https://www.alphavantage.co" validate:"url"`
	LookbackDays        int           `yaml:"lookback_days" default:"1000" validate:"gt=1"`
	Timeout             time.Duration `yaml:"timeout" default:"30s" validate:"gt=0"`
	MaxRetries          int           `yaml:"max_retries" default:"3" validate:"gte=0,lte=10"`
	Proxy               string        `yaml:"proxy"`
}

type ForecastConfig struct {
	TrainRatio  float64 `yaml:"train_test_split_ratio" default:"0.8" validate:"gt=0,lt=1"`
	HorizonDays int     `yaml:"forecast_horizon_days" default:"90" validate:"gt=0"`
	ConfidenceZ float64 `yaml:"confidence_z" default:"1.96" validate:"gt=0"`
}

type WatchlistConfig struct {
	Symbols []string `yaml:"symbols" default:"[\"AAPL\"]" validate:"min=1,dive,required"`
}

type ScheduleConfig struct {
	DailyCron string `yaml:"daily_cron" default:"0 30 22 * * 1-5"`
}

type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

type DatabaseConfig struct {
	SQLitePath string `yaml:"sqlite_path" default:"data/trendcast.db"`
}

type ExportConfig struct {
	CSVDir string `yaml:"csv_dir" default:"historical_data"`
}

type CacheConfig struct {
	TTL           time.Duration `yaml:"ttl" default:"1h"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db" validate:"gte=0"`
}

type ServerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr" default:":8080"`
}

type NewsConfig struct {
	AppID        string `yaml:"app_id"`
	APIKey       string `yaml:"api_key"`
	BaseURL      string `yaml:"base_url" default:"https://api.aylien.com/news" validate:"url"`
	LookbackDays int    `yaml:"lookback_days" default:"7" validate:"gt=0"`
	PerPage      int    `yaml:"per_page" default:"10" validate:"gt=0,lte=100"`
	MaxPages     int    `yaml:"max_pages" default:"5" validate:"gt=0"`
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment. Missing files are ignored; existing variables win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads config from a YAML file, applies environment variable overrides,
// then fills unset fields with defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("POLYGON_API_KEY"); v != "" {
		cfg.DataSource.PolygonAPIKey = v
	}
	if v := os.Getenv("ALPHA_VANTAGE_API_KEY"); v != "" {
		cfg.DataSource.AlphaVantageAPIKey = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.DataSource.Proxy = v
	}
	if v := os.Getenv("AYLIEN_APP_ID"); v != "" {
		cfg.News.AppID = v
	}
	if v := os.Getenv("AYLIEN_API_KEY"); v != "" {
		cfg.News.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
		cfg.Telegram.Enabled = true
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		cfg.Watchlist.Symbols = splitSymbols(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func splitSymbols(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToUpper(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks field ranges and the settings that depend on each other.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s failed %q validation (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("validate config: %w", err)
	}

	switch c.DataSource.Provider {
	case "polygon":
		if c.DataSource.PolygonAPIKey == "" {
			return fmt.Errorf("data_source.polygon_api_key is required for provider polygon")
		}
	case "alphavantage":
		if c.DataSource.AlphaVantageAPIKey == "" {
			return fmt.Errorf("data_source.alpha_vantage_api_key is required for provider alphavantage")
		}
	}
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required")
		}
	}
	if c.Schedule.DailyCron != "" {
		parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
		if _, err := parser.Parse(c.Schedule.DailyCron); err != nil {
			return fmt.Errorf("schedule.daily_cron: %w", err)
		}
	}
	return c.ForecastOptions().Validate()
}

// ForecastOptions returns the pipeline options configured under forecast.
func (c *Config) ForecastOptions() forecast.Options {
	return forecast.Options{
		TrainRatio:  c.Forecast.TrainRatio,
		HorizonDays: c.Forecast.HorizonDays,
		ConfidenceZ: c.Forecast.ConfidenceZ,
	}
}

// NewsEnabled reports whether Aylien credentials are configured.
func (c *Config) NewsEnabled() bool {
	return c.News.AppID != "" && c.News.APIKey != ""
}
