package forecast

import (
	"testing"
	"time"

	"TradeOracle/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seriesOf builds a normalized hourly series from close prices.
func seriesOf(closes ...float64) *model.PriceSeries {
	t0 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{Time: t0.Add(time.Duration(i) * time.Hour), Open: c, High: c, Low: c, Close: c}
	}
	return &model.PriceSeries{Symbol: "TEST", Bars: bars}
}

func linearSeries(start float64, step float64, n int) *model.PriceSeries {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + step*float64(i)
	}
	return seriesOf(closes...)
}

func TestPredictSignal_Uptrend(t *testing.T) {
	buy, confidence, err := PredictSignal(linearSeries(100, 1, 20))
	require.NoError(t, err)
	assert.True(t, buy)
	assert.InDelta(t, 100, confidence, 1e-9, "perfect linear fit should report full confidence")
}

func TestPredictSignal_Downtrend(t *testing.T) {
	buy, confidence, err := PredictSignal(linearSeries(100, -1, 20))
	require.NoError(t, err)
	assert.False(t, buy)
	assert.InDelta(t, 100, confidence, 1e-9)
}

func TestPredictSignal_FlatSeries(t *testing.T) {
	buy, confidence, err := PredictSignal(seriesOf(50, 50, 50, 50, 50))
	require.NoError(t, err)
	assert.False(t, buy, "flat series carries no upside")
	assert.Equal(t, 0.0, confidence)
}

func TestPredictSignal_Deterministic(t *testing.T) {
	s := seriesOf(100, 103, 99, 104, 101, 108, 105, 111)
	buy1, conf1, err := PredictSignal(s)
	require.NoError(t, err)
	buy2, conf2, err := PredictSignal(s)
	require.NoError(t, err)
	assert.Equal(t, buy1, buy2)
	assert.Equal(t, conf1, conf2)
}

func TestPredictSignal_InsufficientData(t *testing.T) {
	_, _, err := PredictSignal(seriesOf(100))
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestPredictRange_Containment(t *testing.T) {
	s := seriesOf(100, 102, 101, 104, 103, 107, 106, 110, 109, 113, 112, 116)
	for horizon := 1; horizon <= 5; horizon++ {
		rng, err := PredictRange(s, horizon, 1.0)
		require.NoError(t, err, "horizon %d", horizon)
		assert.LessOrEqual(t, rng.Low, rng.Target, "horizon %d", horizon)
		assert.LessOrEqual(t, rng.Target, rng.High, "horizon %d", horizon)
		assert.Equal(t, 116.0, rng.CurrentPrice)
	}
}

func TestPredictRange_WidthGrowsWithHorizon(t *testing.T) {
	s := seriesOf(100, 102, 101, 104, 103, 107, 106, 110, 109, 113, 112, 116)
	prev := 0.0
	for horizon := 1; horizon <= 5; horizon++ {
		rng, err := PredictRange(s, horizon, 1.0)
		require.NoError(t, err)
		width := rng.High - rng.Low
		assert.GreaterOrEqual(t, width, prev, "width must not shrink as the horizon grows")
		prev = width
	}
}

func TestPredictRange_LinearSeriesTarget(t *testing.T) {
	// closes follow price = 100 + i, so the close 3 steps ahead is close+3.
	rng, err := PredictRange(linearSeries(100, 1, 20), 3, 1.0)
	require.NoError(t, err)
	assert.InDelta(t, 122, rng.Target, 1e-6)
	assert.Equal(t, 119.0, rng.CurrentPrice)
}

func TestPredictRange_InsufficientData(t *testing.T) {
	// horizon 3 needs at least 2*3+2 observations.
	_, err := PredictRange(linearSeries(100, 1, 7), 3, 1.0)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestPredictRange_ConstantSeriesDegenerateFit(t *testing.T) {
	_, err := PredictRange(seriesOf(50, 50, 50, 50, 50, 50, 50, 50, 50, 50), 3, 1.0)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestForecast_LengthInvariant(t *testing.T) {
	s := linearSeries(100, 1, 20)
	rng, err := PredictRange(s, 3, 1.0)
	require.NoError(t, err)

	for _, days := range []int{1, 2, 3, 4, 5} {
		got, err := Forecast(s, rng.Model, days)
		require.NoError(t, err)
		assert.Len(t, got, days)
	}
}

func TestForecast_ZeroDays(t *testing.T) {
	s := linearSeries(100, 1, 20)
	rng, err := PredictRange(s, 1, 1.0)
	require.NoError(t, err)

	got, err := Forecast(s, rng.Model, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestForecast_FeedsPredictionForward(t *testing.T) {
	// price = 100 + i fits forward close = close + 3 exactly, so each step
	// adds 3 to the previous prediction.
	s := linearSeries(100, 1, 20)
	rng, err := PredictRange(s, 3, 1.0)
	require.NoError(t, err)

	got, err := Forecast(s, rng.Model, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.InDelta(t, 122, got[0], 1e-6)
	assert.InDelta(t, 125, got[1], 1e-6)
	assert.InDelta(t, 128, got[2], 1e-6)
}

func TestForecast_Restartable(t *testing.T) {
	s := seriesOf(100, 102, 101, 104, 103, 107, 106, 110, 109, 113)
	rng, err := PredictRange(s, 2, 1.0)
	require.NoError(t, err)

	first, err := Forecast(s, rng.Model, 4)
	require.NoError(t, err)
	second, err := Forecast(s, rng.Model, 4)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
