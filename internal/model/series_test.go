package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bar(ts time.Time, close float64) OHLCV {
	return OHLCV{Time: ts, Open: close, High: close, Low: close, Close: close}
}

func TestNormalizeBars_SortsDropsAndDedupes(t *testing.T) {
	t0 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	bars := []OHLCV{
		bar(t0.Add(2*time.Hour), 102),
		bar(t0, 100),
		bar(time.Time{}, 50),            // zero timestamp dropped
		bar(t0.Add(time.Hour), 0),       // non-positive close dropped
		bar(t0.Add(time.Hour), -3),      // non-positive close dropped
		bar(t0.Add(time.Hour), 101),     // survives
		bar(t0.Add(2*time.Hour), 102.5), // duplicate timestamp, last wins
	}

	got := NormalizeBars(bars)
	require.Len(t, got, 3)
	assert.Equal(t, 100.0, got[0].Close)
	assert.Equal(t, 101.0, got[1].Close)
	assert.Equal(t, 102.5, got[2].Close)
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].Time.Before(got[i].Time))
	}
}

func TestNormalizeBars_Idempotent(t *testing.T) {
	t0 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	bars := []OHLCV{
		bar(t0.Add(3*time.Hour), 103),
		bar(t0, 100),
		bar(t0.Add(time.Hour), 0),
		bar(t0.Add(2*time.Hour), 102),
	}

	once := NormalizeBars(bars)
	twice := NormalizeBars(once)
	assert.Equal(t, once, twice)
}

func TestNormalized_ReturnsCopy(t *testing.T) {
	t0 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	s := &PriceSeries{Symbol: "AAPL", Bars: []OHLCV{bar(t0.Add(time.Hour), 101), bar(t0, 100)}}

	norm := s.Normalized()
	require.Equal(t, 2, norm.Len())
	assert.Equal(t, 100.0, norm.Bars[0].Close)
	// original untouched
	assert.Equal(t, 101.0, s.Bars[0].Close)
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		symbol string
		want   string
	}{
		{"TCS.BSE", "TCS"},
		{"BTC/USD", "BTC"},
		{"aapl", "AAPL"},
		{" eth/usd ", "ETH"},
		{"SPX500", "SPX500"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DisplayName(tt.symbol), "symbol %q", tt.symbol)
	}
}

func TestTristateString(t *testing.T) {
	assert.Equal(t, "yes", TriTrue.String())
	assert.Equal(t, "no", TriFalse.String())
	assert.Equal(t, "unknown", TriUnknown.String())
}
