// Package scanner derives opportunity views from the prediction log.
// Pure read side: everything is a full scan over Store.LoadAll followed by
// filtering, deduplication, and sorting. The log is never mutated.
package scanner

import (
	"context"
	"sort"
	"time"

	"TradeOracle/internal/model"
	"TradeOracle/internal/predlog"
)

// DefaultBounceMargin requires the target to exceed the recorded current
// price by 5% before a record counts as unrealized upside.
const DefaultBounceMargin = 1.05

// Scanner reads the prediction log and surfaces opportunities.
type Scanner struct {
	store  predlog.Store
	margin float64
	now    func() time.Time
}

// New creates a Scanner. A margin of 0 falls back to DefaultBounceMargin.
func New(store predlog.Store, margin float64) *Scanner {
	if margin <= 0 {
		margin = DefaultBounceMargin
	}
	return &Scanner{store: store, margin: margin, now: time.Now}
}

// BounceBacks lists previously predicted upward moves that have not yet
// materialized: the most recent record per symbol whose target still
// exceeds its recorded current price by the margin, at or above
// minConfidence, best confidence first, at most topN entries.
func (s *Scanner) BounceBacks(ctx context.Context, minConfidence float64, topN int) ([]model.PredictionRecord, error) {
	recs, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	var out []model.PredictionRecord
	for _, rec := range latestPerSymbol(recs) {
		if rec.TargetPrice > rec.CurrentPrice*s.margin && rec.Confidence >= minConfidence {
			out = append(out, rec)
		}
	}
	sortByConfidence(out)
	return limit(out, topN), nil
}

// TopSignalsToday lists records created on the current calendar date,
// best confidence first, at most topN entries.
func (s *Scanner) TopSignalsToday(ctx context.Context, topN int) ([]model.PredictionRecord, error) {
	recs, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	y, m, d := s.now().Date()
	var out []model.PredictionRecord
	for _, rec := range recs {
		ry, rm, rd := rec.Timestamp.Date()
		if ry == y && rm == m && rd == d {
			out = append(out, rec)
		}
	}
	sortByConfidence(out)
	return limit(out, topN), nil
}

// latestPerSymbol collapses historical duplicates to the most recent record
// per symbol, preserving log order of the survivors.
func latestPerSymbol(recs []model.PredictionRecord) []model.PredictionRecord {
	latest := make(map[string]int, len(recs))
	for i, rec := range recs {
		if j, ok := latest[rec.Symbol]; !ok || !recs[i].Timestamp.Before(recs[j].Timestamp) {
			latest[rec.Symbol] = i
		}
	}
	out := make([]model.PredictionRecord, 0, len(latest))
	for i, rec := range recs {
		if latest[rec.Symbol] == i {
			out = append(out, rec)
		}
	}
	return out
}

func sortByConfidence(recs []model.PredictionRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Confidence > recs[j].Confidence
	})
}

func limit(recs []model.PredictionRecord, topN int) []model.PredictionRecord {
	if topN >= 0 && len(recs) > topN {
		recs = recs[:topN]
	}
	return recs
}
