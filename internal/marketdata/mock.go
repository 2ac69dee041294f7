package marketdata

import (
	"context"
	"time"

	"TradeOracle/internal/model"
)

// MockProvider returns controllable fixed data for development and testing.
type MockProvider struct {
	Series *model.PriceSeries
	Err    error
	Only   string // when set, Supports matches just this symbol
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Supports(symbol string) bool {
	return m.Only == "" || m.Only == symbol
}

func (m *MockProvider) Fetch(_ context.Context, symbol string, opts FetchOptions) (*model.PriceSeries, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Series != nil {
		return m.Series, nil
	}
	return &model.PriceSeries{
		Symbol:     symbol,
		Bars:       GenerateBars(100, opts.OutputSize),
		NewListing: model.TriFalse,
		FetchedAt:  time.Now(),
	}, nil
}

// GenerateBars builds a gently trending synthetic bar series.
func GenerateBars(basePrice float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   time.Now().Add(-time.Duration(count-i) * time.Hour),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
