package main

import (
	"fmt"
	"os"
	"time"

	"TradeOracle/internal/config"
	"TradeOracle/internal/marketdata"
	"TradeOracle/internal/predlog"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var cfgPath string

// rootCmd is the base command for the TradeOracle CLI.
var rootCmd = &cobra.Command{
	Use:   "oracle",
	Short: "TradeOracle market prediction pipeline",
	Long: `TradeOracle fetches recent price history for equities and crypto pairs,
fits a short-horizon regression model, and emits buy/sell signals with a
confidence score and a bounded price range. Every prediction is appended to
a durable log used to surface bounce-back opportunities.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "configs/config.yaml", "Path to YAML config file")
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	path := cfgPath
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func buildAdapter(cfg *config.Config) *marketdata.Adapter {
	crypto := marketdata.NewCryptoProvider(cfg.MarketData.CryptoBaseURL, cfg.MarketData.Currency,
		cfg.Proxy, cfg.MarketData.CryptoSymbols)
	exchange := marketdata.NewExchangeProvider(cfg.MarketData.ExchangeBaseURL,
		cfg.MarketData.ExchangeAPIKey, cfg.Proxy)
	return marketdata.NewAdapter(marketdata.FetchOptions{
		Interval:   cfg.MarketData.Interval,
		OutputSize: cfg.MarketData.OutputSize,
	}, crypto, exchange)
}

func buildStore(cfg *config.Config) predlog.Store {
	if cfg.Database.SQLitePath == "" {
		return predlog.NewNoopStore()
	}
	store, err := predlog.NewSQLiteStore(cfg.Database.SQLitePath)
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite store failed, predictions will not be recorded")
		return predlog.NewNoopStore()
	}
	return store
}
