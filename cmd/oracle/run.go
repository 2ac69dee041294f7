package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"TradeOracle/internal/notifier"
	"TradeOracle/internal/pipeline"
	"TradeOracle/internal/scanner"
	"TradeOracle/internal/scheduler"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// runCmd starts the daemon: cron-scheduled watchlist predictions, the daily
// digest, and Telegram command polling.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the prediction daemon",
	RunE:  runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	log.Info().Msg("TradeOracle starting")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateTelegram(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	adapter := buildAdapter(cfg)
	store := buildStore(cfg)
	defer store.Close()

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	pipe := pipeline.New(adapter, store, tn, pipeline.Options{
		BandMultiplier: cfg.Forecast.BandMultiplier,
		AlertThreshold: cfg.Alerts.ConfidenceThreshold,
	})
	scan := scanner.New(store, cfg.Scanner.BounceMargin)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, pipe, scan, tn,
		cfg.Watchlist, cfg.Forecast.HorizonDays, cfg.Scanner.MinConfidence, cfg.Scanner.TopN)
	if err := sched.RegisterAll(cfg.Schedule.PredictCron, cfg.Schedule.DigestCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Info().Msg("telegram polling started")

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, executing watchlist pass now")
		go sched.RunWatchlistNow()
	}

	log.Info().Msg("TradeOracle is running, press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	cancel()
	log.Info().Msg("TradeOracle stopped")
	return nil
}
