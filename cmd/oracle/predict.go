package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"TradeOracle/internal/forecast"
	"TradeOracle/internal/marketdata"
	"TradeOracle/internal/model"
	"TradeOracle/internal/pipeline"
	"TradeOracle/internal/predlog"
	"TradeOracle/internal/scanner"

	"github.com/spf13/cobra"
)

var (
	predictDays  int
	scanMinConf  float64
	scanTopN     int
	fetchTimeout time.Duration
)

// predictCmd runs one prediction and prints the result.
var predictCmd = &cobra.Command{
	Use:   "predict SYMBOL",
	Short: "Run a single prediction for a symbol",
	Args:  cobra.ExactArgs(1),
	RunE:  runPredict,
}

// opportunitiesCmd lists bounce-back opportunities from the log.
var opportunitiesCmd = &cobra.Command{
	Use:   "opportunities",
	Short: "List bounce-back opportunities from the prediction log",
	RunE:  runOpportunities,
}

// topCmd lists today's top signals from the log.
var topCmd = &cobra.Command{
	Use:   "top",
	Short: "List today's top signals from the prediction log",
	RunE:  runTop,
}

func init() {
	predictCmd.Flags().IntVar(&predictDays, "days", 0, "Forecast horizon in days (1-5, 0 = config default)")
	predictCmd.Flags().DurationVar(&fetchTimeout, "timeout", 30*time.Second, "Fetch timeout")
	opportunitiesCmd.Flags().Float64Var(&scanMinConf, "min-confidence", 0, "Minimum confidence (0 = config default)")
	opportunitiesCmd.Flags().IntVar(&scanTopN, "top", 0, "Maximum entries (0 = config default)")
	topCmd.Flags().IntVar(&scanTopN, "top", 0, "Maximum entries (0 = config default)")
	rootCmd.AddCommand(predictCmd, opportunitiesCmd, topCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	days := predictDays
	if days == 0 {
		days = cfg.Forecast.HorizonDays
	}

	store := buildStore(cfg)
	defer store.Close()
	pipe := pipeline.New(buildAdapter(cfg), store, nil, pipeline.Options{
		BandMultiplier: cfg.Forecast.BandMultiplier,
		AlertThreshold: cfg.Alerts.ConfidenceThreshold,
	})

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	res, err := pipe.Run(ctx, args[0], days)
	if err != nil && res == nil {
		switch {
		case errors.Is(err, marketdata.ErrNoData):
			fmt.Printf("Could not produce a prediction for %s: no market data.\n", args[0])
			return nil
		case errors.Is(err, forecast.ErrInsufficientData):
			fmt.Printf("Could not produce a prediction for %s: not enough history.\n", args[0])
			return nil
		default:
			return err
		}
	}

	printResult(res)
	if err != nil && errors.Is(err, predlog.ErrWrite) {
		fmt.Println("\nWARNING: prediction was not recorded to the log.")
	}
	return nil
}

func printResult(res *model.PredictionResult) {
	fmt.Printf("%s  %s signal, %.2f%% confidence\n", res.Symbol, res.Direction(), res.Confidence)
	fmt.Printf("  current: %.2f\n", res.CurrentPrice)
	fmt.Printf("  target (%dd): %.2f\n", res.HorizonDays, res.TargetPrice)
	fmt.Printf("  range: %.2f - %.2f\n", res.Low, res.High)
	for i, p := range res.Forecast {
		fmt.Printf("  day %d: %.2f\n", i+1, p)
	}
	if res.IsNewListing == model.TriTrue {
		fmt.Println("  note: new listing, limited history")
	}
}

func runOpportunities(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	minConf := scanMinConf
	if minConf == 0 {
		minConf = cfg.Scanner.MinConfidence
	}
	topN := scanTopN
	if topN == 0 {
		topN = cfg.Scanner.TopN
	}

	store := buildStore(cfg)
	defer store.Close()
	scan := scanner.New(store, cfg.Scanner.BounceMargin)

	recs, err := scan.BounceBacks(context.Background(), minConf, topN)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("No bounce-back opportunities detected at the moment.")
		return nil
	}
	printRecords(recs)
	return nil
}

func runTop(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	topN := scanTopN
	if topN == 0 {
		topN = cfg.Scanner.TopN
	}

	store := buildStore(cfg)
	defer store.Close()
	scan := scanner.New(store, cfg.Scanner.BounceMargin)

	recs, err := scan.TopSignalsToday(context.Background(), topN)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("No signals recorded today.")
		return nil
	}
	printRecords(recs)
	return nil
}

func printRecords(recs []model.PredictionRecord) {
	for _, rec := range recs {
		fmt.Printf("%-10s  %10.2f -> %10.2f  %6.1f%%  %s\n",
			rec.Name, rec.CurrentPrice, rec.TargetPrice, rec.Confidence,
			rec.Timestamp.Format("2006-01-02 15:04"))
	}
}
