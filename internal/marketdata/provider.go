package marketdata

import (
	"context"
	"errors"
	"fmt"

	"TradeOracle/internal/model"

	"github.com/rs/zerolog/log"
)

// ErrNoData covers every fetch failure: provider unreachable, malformed
// payload, or an empty series after normalization. Callers treat all of
// them the same and must not fabricate a series.
var ErrNoData = errors.New("no market data")

// ErrUnknownSymbol marks a crypto-looking symbol with no provider mapping.
// It is a fetch failure, never silently resolved to a default instrument.
var ErrUnknownSymbol = fmt.Errorf("unknown symbol: %w", ErrNoData)

// FetchOptions controls the shape of the requested series.
type FetchOptions struct {
	Interval   string // bar interval for exchange-listed instruments, e.g. "1h"
	OutputSize int    // number of bars requested
}

// PriceProvider fetches a price series for the symbols it supports.
type PriceProvider interface {
	Name() string
	Supports(symbol string) bool
	Fetch(ctx context.Context, symbol string, opts FetchOptions) (*model.PriceSeries, error)
}

// Adapter routes a symbol to the first provider that supports it and
// normalizes the result into the canonical series shape.
type Adapter struct {
	Providers []PriceProvider
	Opts      FetchOptions
}

// NewAdapter creates an Adapter. Provider order decides routing priority.
func NewAdapter(opts FetchOptions, providers ...PriceProvider) *Adapter {
	return &Adapter{Providers: providers, Opts: opts}
}

// Fetch returns a normalized, ascending price series for the symbol.
func (a *Adapter) Fetch(ctx context.Context, symbol string) (*model.PriceSeries, error) {
	sym := model.NormalizeSymbol(symbol)
	for _, p := range a.Providers {
		if !p.Supports(sym) {
			continue
		}
		series, err := p.Fetch(ctx, sym, a.Opts)
		if err != nil {
			if !errors.Is(err, ErrNoData) {
				err = fmt.Errorf("%s: %v: %w", p.Name(), err, ErrNoData)
			}
			return nil, err
		}
		normalized := series.Normalized()
		if normalized.Len() == 0 {
			return nil, fmt.Errorf("%s: empty series for %s: %w", p.Name(), sym, ErrNoData)
		}
		log.Debug().Str("provider", p.Name()).Str("symbol", sym).
			Int("bars", normalized.Len()).Msg("fetched price series")
		return normalized, nil
	}
	return nil, fmt.Errorf("no provider for %s: %w", sym, ErrNoData)
}
