package model

import (
	"sort"
	"time"
)

// OHLCV represents a single candlestick bar. Spot-only sources fill
// Open/High/Low with the same price and leave Volume at zero.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds normalized price data for one instrument.
type PriceSeries struct {
	Symbol     string
	Bars       []OHLCV
	NewListing Tristate
	FetchedAt  time.Time
}

// NormalizeBars returns a fresh slice sorted ascending by time, with bars
// carrying a zero timestamp or a non-positive close dropped, and duplicate
// timestamps collapsed to the last occurrence. Applying it to an already
// normalized slice yields an identical result.
func NormalizeBars(bars []OHLCV) []OHLCV {
	out := make([]OHLCV, 0, len(bars))
	for _, b := range bars {
		if b.Time.IsZero() || b.Close <= 0 {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })

	deduped := out[:0]
	for _, b := range out {
		if n := len(deduped); n > 0 && deduped[n-1].Time.Equal(b.Time) {
			deduped[n-1] = b
			continue
		}
		deduped = append(deduped, b)
	}
	return deduped
}

// Normalized returns a copy of the series with NormalizeBars applied.
func (s *PriceSeries) Normalized() *PriceSeries {
	return &PriceSeries{
		Symbol:     s.Symbol,
		Bars:       NormalizeBars(s.Bars),
		NewListing: s.NewListing,
		FetchedAt:  s.FetchedAt,
	}
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int { return len(s.Bars) }

// Closes extracts the close prices in series order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// LastClose returns the most recent close, or 0 for an empty series.
func (s *PriceSeries) LastClose() float64 {
	if len(s.Bars) == 0 {
		return 0
	}
	return s.Bars[len(s.Bars)-1].Close
}

// LastBar returns the most recent bar. Callers must check Len first.
func (s *PriceSeries) LastBar() OHLCV {
	return s.Bars[len(s.Bars)-1]
}
