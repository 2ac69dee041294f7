package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	MarketData struct {
		ExchangeBaseURL string            `yaml:"exchange_base_url"`
		ExchangeAPIKey  string            `yaml:"exchange_api_key"`
		CryptoBaseURL   string            `yaml:"crypto_base_url"`
		Currency        string            `yaml:"currency"`
		Interval        string            `yaml:"interval"`
		OutputSize      int               `yaml:"output_size"`
		CryptoSymbols   map[string]string `yaml:"crypto_symbols"` // extra symbol→coin-id mappings
	} `yaml:"market_data"`
	Forecast struct {
		HorizonDays    int     `yaml:"horizon_days"`
		BandMultiplier float64 `yaml:"band_multiplier"`
	} `yaml:"forecast"`
	Alerts struct {
		ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	} `yaml:"alerts"`
	Scanner struct {
		MinConfidence float64 `yaml:"min_confidence"`
		BounceMargin  float64 `yaml:"bounce_margin"`
		TopN          int     `yaml:"top_n"`
	} `yaml:"scanner"`
	Schedule struct {
		PredictCron string `yaml:"predict_cron"`
		DigestCron  string `yaml:"digest_cron"`
	} `yaml:"schedule"`
	Watchlist []string `yaml:"watchlist"`
	Database  struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
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

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("EXCHANGE_API_KEY"); v != "" {
		cfg.MarketData.ExchangeAPIKey = v
	}
	if v := os.Getenv("EXCHANGE_BASE_URL"); v != "" {
		cfg.MarketData.ExchangeBaseURL = v
	}
	if v := os.Getenv("CRYPTO_BASE_URL"); v != "" {
		cfg.MarketData.CryptoBaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.Watchlist = splitList(v)
	}
	if v := os.Getenv("HORIZON_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Forecast.HorizonDays = n
		}
	}
	if v := os.Getenv("CRON_PREDICT"); v != "" {
		cfg.Schedule.PredictCron = v
	}

	// Defaults
	if cfg.MarketData.ExchangeBaseURL == "" {
		cfg.MarketData.ExchangeBaseURL = "https://api.twelvedata.com"
	}
	if cfg.MarketData.CryptoBaseURL == "" {
		cfg.MarketData.CryptoBaseURL = "https://api.coingecko.com"
	}
	if cfg.MarketData.Currency == "" {
		cfg.MarketData.Currency = "usd"
	}
	if cfg.MarketData.Interval == "" {
		cfg.MarketData.Interval = "1h"
	}
	if cfg.MarketData.OutputSize == 0 {
		cfg.MarketData.OutputSize = 100
	}
	if cfg.Forecast.HorizonDays == 0 {
		cfg.Forecast.HorizonDays = 3
	}
	if cfg.Forecast.BandMultiplier == 0 {
		cfg.Forecast.BandMultiplier = 1.0
	}
	if cfg.Alerts.ConfidenceThreshold == 0 {
		cfg.Alerts.ConfidenceThreshold = 85
	}
	if cfg.Scanner.MinConfidence == 0 {
		cfg.Scanner.MinConfidence = 70
	}
	if cfg.Scanner.BounceMargin == 0 {
		cfg.Scanner.BounceMargin = 1.05
	}
	if cfg.Scanner.TopN == 0 {
		cfg.Scanner.TopN = 10
	}
	if cfg.Schedule.PredictCron == "" {
		cfg.Schedule.PredictCron = "0 0 8 * * 1-5"
	}
	if cfg.Schedule.DigestCron == "" {
		cfg.Schedule.DigestCron = "0 0 18 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/tradeoracle.db"
	}

	return cfg, nil
}

// Validate checks value ranges. Telegram credentials are checked separately
// by the daemon; one-shot commands run without them.
func (c *Config) Validate() error {
	if c.Forecast.HorizonDays < 1 || c.Forecast.HorizonDays > 5 {
		return fmt.Errorf("forecast.horizon_days must be in [1,5], got %d", c.Forecast.HorizonDays)
	}
	if c.Forecast.BandMultiplier <= 0 {
		return fmt.Errorf("forecast.band_multiplier must be positive")
	}
	if c.Alerts.ConfidenceThreshold < 0 || c.Alerts.ConfidenceThreshold > 100 {
		return fmt.Errorf("alerts.confidence_threshold must be in [0,100]")
	}
	if c.Scanner.MinConfidence < 0 || c.Scanner.MinConfidence > 100 {
		return fmt.Errorf("scanner.min_confidence must be in [0,100]")
	}
	if c.Scanner.BounceMargin < 1 {
		return fmt.Errorf("scanner.bounce_margin must be >= 1")
	}
	if c.MarketData.OutputSize <= 0 {
		return fmt.Errorf("market_data.output_size must be positive")
	}
	return nil
}

// ValidateTelegram checks the fields the daemon needs for notifications.
func (c *Config) ValidateTelegram() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
