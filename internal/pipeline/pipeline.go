// Package pipeline drives one full prediction pass: fetch, model fit,
// forecast, log append, alert. Execution is synchronous and
// request-per-prediction; the only state shared across runs is the
// append-only log.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"TradeOracle/internal/forecast"
	"TradeOracle/internal/model"
	"TradeOracle/internal/predlog"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// MinHorizonDays and MaxHorizonDays bound the forecast horizon.
	MinHorizonDays = 1
	MaxHorizonDays = 5

	// DefaultAlertThreshold is the confidence above which an alert fires.
	DefaultAlertThreshold = 85
)

// Fetcher supplies a normalized price series for a symbol.
type Fetcher interface {
	Fetch(ctx context.Context, symbol string) (*model.PriceSeries, error)
}

// Alerter delivers high-confidence predictions. Fire-and-forget: delivery
// failures never fail the prediction.
type Alerter interface {
	Alert(ctx context.Context, res *model.PredictionResult) error
}

// Options tunes a Pipeline.
type Options struct {
	BandMultiplier float64
	AlertThreshold float64
}

// Pipeline runs predictions and appends them to the log.
type Pipeline struct {
	fetcher        Fetcher
	store          predlog.Store
	alerter        Alerter
	bandMultiplier float64
	alertThreshold float64
	now            func() time.Time
}

// New creates a Pipeline. alerter may be nil to disable notifications.
func New(fetcher Fetcher, store predlog.Store, alerter Alerter, opts Options) *Pipeline {
	threshold := opts.AlertThreshold
	if threshold <= 0 {
		threshold = DefaultAlertThreshold
	}
	return &Pipeline{
		fetcher:        fetcher,
		store:          store,
		alerter:        alerter,
		bandMultiplier: opts.BandMultiplier,
		alertThreshold: threshold,
		now:            time.Now,
	}
}

// Run executes one prediction for the symbol over horizonDays (clamped to
// [MinHorizonDays, MaxHorizonDays]).
//
// Fetch and model failures return a nil result with a typed error and
// append nothing. A log write failure still returns the result, flagged
// Recorded=false, alongside an error matching predlog.ErrWrite.
func (p *Pipeline) Run(ctx context.Context, symbol string, horizonDays int) (*model.PredictionResult, error) {
	if horizonDays < MinHorizonDays {
		horizonDays = MinHorizonDays
	}
	if horizonDays > MaxHorizonDays {
		horizonDays = MaxHorizonDays
	}
	sym := model.NormalizeSymbol(symbol)

	series, err := p.fetcher.Fetch(ctx, sym)
	if err != nil {
		return nil, fmt.Errorf("predict %s: %w", sym, err)
	}

	buy, confidence, err := forecast.PredictSignal(series)
	if err != nil {
		return nil, fmt.Errorf("predict %s: %w", sym, err)
	}
	rng, err := forecast.PredictRange(series, horizonDays, p.bandMultiplier)
	if err != nil {
		return nil, fmt.Errorf("predict %s: %w", sym, err)
	}
	future, err := forecast.Forecast(series, rng.Model, horizonDays)
	if err != nil {
		return nil, fmt.Errorf("predict %s: %w", sym, err)
	}

	res := &model.PredictionResult{
		Symbol:       sym,
		Buy:          buy,
		Confidence:   confidence,
		CurrentPrice: rng.CurrentPrice,
		TargetPrice:  rng.Target,
		Low:          rng.Low,
		High:         rng.High,
		HorizonDays:  horizonDays,
		Forecast:     future,
		IsNewListing: series.NewListing,
	}

	rec := model.PredictionRecord{
		ID:           uuid.NewString(),
		Timestamp:    p.now().Truncate(time.Second),
		Symbol:       sym,
		Name:         model.DisplayName(sym),
		CurrentPrice: rng.CurrentPrice,
		TargetPrice:  rng.Target,
		Confidence:   confidence,
		IsNewListing: series.NewListing,
	}
	appendErr := p.store.Append(ctx, rec)
	if appendErr != nil {
		log.Error().Err(appendErr).Str("symbol", sym).Msg("prediction not recorded")
	} else {
		res.Recorded = true
	}

	if p.alerter != nil && confidence >= p.alertThreshold {
		if err := p.alerter.Alert(ctx, res); err != nil {
			log.Warn().Err(err).Str("symbol", sym).Msg("alert delivery failed")
		}
	}

	log.Info().Str("symbol", sym).Str("signal", res.Direction()).
		Float64("confidence", confidence).Float64("target", rng.Target).
		Int("horizon_days", horizonDays).Bool("recorded", res.Recorded).
		Msg("prediction complete")
	return res, appendErr
}
