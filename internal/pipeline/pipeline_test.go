package pipeline

import (
	"context"
	"fmt"
	"testing"
	"time"

	"TradeOracle/internal/forecast"
	"TradeOracle/internal/marketdata"
	"TradeOracle/internal/model"
	"TradeOracle/internal/predlog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	series *model.PriceSeries
	err    error
}

func (f *fakeFetcher) Fetch(context.Context, string) (*model.PriceSeries, error) {
	return f.series, f.err
}

type failingStore struct {
	predlog.MemoryStore
}

func (f *failingStore) Append(context.Context, model.PredictionRecord) error {
	return predlog.ErrWrite
}

type fakeAlerter struct {
	calls []*model.PredictionResult
}

func (f *fakeAlerter) Alert(_ context.Context, res *model.PredictionResult) error {
	f.calls = append(f.calls, res)
	return nil
}

// trendingSeries fits a perfect line, so signal confidence is 100.
func trendingSeries(n int) *model.PriceSeries {
	t0 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, n)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = model.OHLCV{Time: t0.Add(time.Duration(i) * time.Hour), Open: c, High: c, Low: c, Close: c}
	}
	return &model.PriceSeries{Symbol: "AAPL", Bars: bars, NewListing: model.TriFalse}
}

func TestRun_AppendsRecordAndAlerts(t *testing.T) {
	store := predlog.NewMemoryStore()
	alerter := &fakeAlerter{}
	p := New(&fakeFetcher{series: trendingSeries(30)}, store, alerter, Options{AlertThreshold: 85})

	res, err := p.Run(context.Background(), "aapl", 3)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, "AAPL", res.Symbol)
	assert.True(t, res.Buy)
	assert.InDelta(t, 100, res.Confidence, 1e-9)
	assert.Equal(t, 129.0, res.CurrentPrice)
	assert.LessOrEqual(t, res.Low, res.TargetPrice)
	assert.LessOrEqual(t, res.TargetPrice, res.High)
	assert.Len(t, res.Forecast, 3)
	assert.True(t, res.Recorded)

	recs, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.NotEmpty(t, recs[0].ID)
	assert.Equal(t, "AAPL", recs[0].Symbol)
	assert.Equal(t, "AAPL", recs[0].Name)
	assert.Equal(t, res.TargetPrice, recs[0].TargetPrice)
	assert.Equal(t, res.Confidence, recs[0].Confidence)
	assert.Zero(t, recs[0].Timestamp.Nanosecond(), "log timestamps are second precision")

	require.Len(t, alerter.calls, 1, "confidence 100 crosses the alert threshold")
	assert.Equal(t, res, alerter.calls[0])
}

func TestRun_FetchFailureAppendsNothing(t *testing.T) {
	store := predlog.NewMemoryStore()
	fetchErr := fmt.Errorf("exchange: %w", marketdata.ErrNoData)
	p := New(&fakeFetcher{err: fetchErr}, store, nil, Options{})

	res, err := p.Run(context.Background(), "XYZ", 3)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, marketdata.ErrNoData)

	empty, serr := store.IsEmpty(context.Background())
	require.NoError(t, serr)
	assert.True(t, empty)
}

func TestRun_InsufficientDataAppendsNothing(t *testing.T) {
	store := predlog.NewMemoryStore()
	p := New(&fakeFetcher{series: trendingSeries(3)}, store, nil, Options{})

	res, err := p.Run(context.Background(), "AAPL", 3)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, forecast.ErrInsufficientData)

	empty, serr := store.IsEmpty(context.Background())
	require.NoError(t, serr)
	assert.True(t, empty)
}

func TestRun_WriteFailureStillReturnsResult(t *testing.T) {
	p := New(&fakeFetcher{series: trendingSeries(30)}, &failingStore{}, nil, Options{})

	res, err := p.Run(context.Background(), "AAPL", 3)
	require.NotNil(t, res, "the prediction is still shown, flagged as not recorded")
	assert.ErrorIs(t, err, predlog.ErrWrite)
	assert.False(t, res.Recorded)
}

func TestRun_ClampsHorizon(t *testing.T) {
	store := predlog.NewMemoryStore()
	p := New(&fakeFetcher{series: trendingSeries(30)}, store, nil, Options{})

	res, err := p.Run(context.Background(), "AAPL", 99)
	require.NoError(t, err)
	assert.Equal(t, MaxHorizonDays, res.HorizonDays)
	assert.Len(t, res.Forecast, MaxHorizonDays)

	res, err = p.Run(context.Background(), "AAPL", 0)
	require.NoError(t, err)
	assert.Equal(t, MinHorizonDays, res.HorizonDays)
}

func TestRun_NoAlertBelowThreshold(t *testing.T) {
	// A noisy series keeps R² well under the threshold.
	t0 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	closes := []float64{100, 120, 95, 130, 90, 125, 98, 128, 92, 131, 96, 122}
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{Time: t0.Add(time.Duration(i) * time.Hour), Open: c, High: c, Low: c, Close: c}
	}
	series := &model.PriceSeries{Symbol: "NOISY", Bars: bars}

	alerter := &fakeAlerter{}
	p := New(&fakeFetcher{series: series}, predlog.NewMemoryStore(), alerter, Options{AlertThreshold: 85})

	_, err := p.Run(context.Background(), "NOISY", 2)
	require.NoError(t, err)
	assert.Empty(t, alerter.calls)
}
