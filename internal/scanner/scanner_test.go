package scanner

import (
	"context"
	"testing"
	"time"

	"TradeOracle/internal/model"
	"TradeOracle/internal/predlog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, recs ...model.PredictionRecord) predlog.Store {
	t.Helper()
	store := predlog.NewMemoryStore()
	for _, rec := range recs {
		require.NoError(t, store.Append(context.Background(), rec))
	}
	return store
}

func rec(symbol string, ts time.Time, current, target, confidence float64) model.PredictionRecord {
	return model.PredictionRecord{
		Timestamp:    ts,
		Symbol:       symbol,
		Name:         model.DisplayName(symbol),
		CurrentPrice: current,
		TargetPrice:  target,
		Confidence:   confidence,
	}
}

func TestBounceBacks_FilterCorrectness(t *testing.T) {
	ts := time.Date(2026, 8, 30, 10, 0, 0, 0, time.Local)
	store := seed(t,
		rec("A", ts, 100, 110, 80), // upside, qualifies
		rec("B", ts, 100, 90, 90),  // downside despite high confidence
	)
	// margin 1.0 mirrors the plain target > current filter
	s := New(store, 1.0)

	got, err := s.BounceBacks(context.Background(), 70, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Symbol)
}

func TestBounceBacks_MarginExcludesThinUpside(t *testing.T) {
	ts := time.Date(2026, 8, 30, 10, 0, 0, 0, time.Local)
	store := seed(t,
		rec("THIN", ts, 100, 102, 95), // +2%, below the 5% margin
		rec("FAT", ts, 100, 112, 75),  // +12%
	)
	s := New(store, DefaultBounceMargin)

	got, err := s.BounceBacks(context.Background(), 70, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "FAT", got[0].Symbol)
}

func TestBounceBacks_DedupesToMostRecentPerSymbol(t *testing.T) {
	ts := time.Date(2026, 8, 30, 10, 0, 0, 0, time.Local)
	store := seed(t,
		rec("A", ts, 100, 120, 95),                // stale, would qualify
		rec("A", ts.Add(time.Hour), 118, 119, 90), // latest: upside gone
		rec("B", ts, 50, 60, 80),
	)
	s := New(store, 1.0)

	got, err := s.BounceBacks(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].Symbol, "only the most recent record per symbol is considered")
}

func TestBounceBacks_SortedByConfidenceAndLimited(t *testing.T) {
	ts := time.Date(2026, 8, 30, 10, 0, 0, 0, time.Local)
	store := seed(t,
		rec("LOW", ts, 100, 120, 71),
		rec("HIGH", ts.Add(time.Minute), 100, 120, 99),
		rec("MID", ts.Add(2*time.Minute), 100, 120, 85),
	)
	s := New(store, 1.0)

	got, err := s.BounceBacks(context.Background(), 70, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "HIGH", got[0].Symbol)
	assert.Equal(t, "MID", got[1].Symbol)
}

func TestTopSignalsToday_ExcludesPriorDates(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 0, 0, 0, time.Local)
	store := seed(t,
		rec("OLD", now.AddDate(0, 0, -1), 100, 150, 99), // yesterday, excluded
		rec("NEW", now.Add(-2*time.Hour), 100, 105, 60),
	)
	s := New(store, 1.0)
	s.now = func() time.Time { return now }

	got, err := s.TopSignalsToday(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "NEW", got[0].Symbol)
}

func TestTopSignalsToday_SortedAndLimited(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 0, 0, 0, time.Local)
	store := seed(t,
		rec("A", now.Add(-3*time.Hour), 10, 11, 50),
		rec("B", now.Add(-2*time.Hour), 10, 11, 90),
		rec("C", now.Add(-1*time.Hour), 10, 11, 70),
	)
	s := New(store, 1.0)
	s.now = func() time.Time { return now }

	got, err := s.TopSignalsToday(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Symbol)
	assert.Equal(t, "C", got[1].Symbol)
}

func TestEmptyLog(t *testing.T) {
	s := New(predlog.NewMemoryStore(), 1.0)

	bounce, err := s.BounceBacks(context.Background(), 70, 10)
	require.NoError(t, err)
	assert.Empty(t, bounce)

	top, err := s.TopSignalsToday(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, top)
}
