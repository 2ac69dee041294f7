package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"TradeOracle/internal/forecast"
	"TradeOracle/internal/marketdata"
	"TradeOracle/internal/notifier"
	"TradeOracle/internal/pipeline"
	"TradeOracle/internal/scanner"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler runs watchlist predictions and digests on cron schedules and
// serves interactive Telegram commands.
type Scheduler struct {
	Cron          *cron.Cron
	Pipeline      *pipeline.Pipeline
	Scanner       *scanner.Scanner
	Notifier      *notifier.TelegramNotifier
	Watchlist     []string
	HorizonDays   int
	MinConfidence float64
	TopN          int
	Ctx           context.Context
}

// NewScheduler creates a Scheduler.
func NewScheduler(ctx context.Context, p *pipeline.Pipeline, sc *scanner.Scanner, tn *notifier.TelegramNotifier,
	watchlist []string, horizonDays int, minConfidence float64, topN int) *Scheduler {
	return &Scheduler{
		Cron:          cron.New(cron.WithSeconds()),
		Pipeline:      p,
		Scanner:       sc,
		Notifier:      tn,
		Watchlist:     watchlist,
		HorizonDays:   horizonDays,
		MinConfidence: minConfidence,
		TopN:          topN,
		Ctx:           ctx,
	}
}

// RegisterAll registers the watchlist prediction pass and the daily digest.
func (s *Scheduler) RegisterAll(predictCron, digestCron string) error {
	if _, err := s.Cron.AddFunc(predictCron, s.predictTask); err != nil {
		return fmt.Errorf("register predict task: %w", err)
	}
	if _, err := s.Cron.AddFunc(digestCron, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Info().Msg("scheduler stopped")
}

// RunWatchlistNow executes the prediction pass immediately.
func (s *Scheduler) RunWatchlistNow() {
	s.predictTask()
}

// predictTask runs one full pipeline pass per watchlist symbol, strictly
// sequentially; a failing symbol never aborts the rest of the pass.
func (s *Scheduler) predictTask() {
	log.Info().Int("symbols", len(s.Watchlist)).Msg("running watchlist predictions")
	for _, symbol := range s.Watchlist {
		if _, err := s.Pipeline.Run(s.Ctx, symbol, s.HorizonDays); err != nil {
			log.Warn().Err(err).Str("symbol", symbol).Msg("watchlist prediction failed")
		}
	}
}

func (s *Scheduler) digestTask() {
	log.Info().Msg("running daily digest")
	top, err := s.Scanner.TopSignalsToday(s.Ctx, s.TopN)
	if err != nil {
		log.Error().Err(err).Msg("digest: load top signals")
		return
	}
	bounce, err := s.Scanner.BounceBacks(s.Ctx, s.MinConfidence, s.TopN)
	if err != nil {
		log.Error().Err(err).Msg("digest: load bounce-backs")
		return
	}
	msg := notifier.FormatTopSignals(top) + "\n\n" + notifier.FormatOpportunities(bounce)
	s.trySend(msg)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}

	switch fields[0] {
	case "/predict":
		if len(fields) < 2 {
			return "Usage: /predict SYMBOL [days]"
		}
		days := s.HorizonDays
		if len(fields) >= 3 {
			if n, err := strconv.Atoi(fields[2]); err == nil {
				days = n
			}
		}
		res, err := s.Pipeline.Run(s.Ctx, fields[1], days)
		if err != nil && res == nil {
			return predictionFailureReply(fields[1], err)
		}
		return notifier.FormatPrediction(res)

	case "/bounce":
		recs, err := s.Scanner.BounceBacks(s.Ctx, s.MinConfidence, s.TopN)
		if err != nil {
			return fmt.Sprintf("Could not read the prediction log: %v", err)
		}
		return notifier.FormatOpportunities(recs)

	case "/top":
		recs, err := s.Scanner.TopSignalsToday(s.Ctx, s.TopN)
		if err != nil {
			return fmt.Sprintf("Could not read the prediction log: %v", err)
		}
		return notifier.FormatTopSignals(recs)

	case "/watchlist":
		go s.RunWatchlistNow()
		return "Watchlist pass started."

	default:
		return helpText
	}
}

const helpText = "Commands:\n" +
	"/predict SYMBOL [days]\n" +
	"/bounce - bounce-back opportunities\n" +
	"/top - today's top signals\n" +
	"/watchlist - run the watchlist pass now"

func predictionFailureReply(symbol string, err error) string {
	switch {
	case errors.Is(err, marketdata.ErrNoData):
		return fmt.Sprintf("Could not produce a prediction for %s: no market data.", symbol)
	case errors.Is(err, forecast.ErrInsufficientData):
		return fmt.Sprintf("Could not produce a prediction for %s: not enough history.", symbol)
	default:
		return fmt.Sprintf("Could not produce a prediction for %s.", symbol)
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
