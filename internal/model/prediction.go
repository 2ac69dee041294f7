package model

import (
	"strings"
	"time"
)

// Tristate is a three-valued flag for facts a provider may not know.
type Tristate int8

const (
	TriUnknown Tristate = -1
	TriFalse   Tristate = 0
	TriTrue    Tristate = 1
)

func (t Tristate) String() string {
	switch t {
	case TriTrue:
		return "yes"
	case TriFalse:
		return "no"
	default:
		return "unknown"
	}
}

// PredictionRecord is one row of the append-only prediction log.
// Records are immutable once appended.
type PredictionRecord struct {
	ID           string
	Timestamp    time.Time
	Symbol       string
	Name         string
	CurrentPrice float64
	TargetPrice  float64
	Confidence   float64
	IsNewListing Tristate
}

// PredictionResult is the full outcome of one prediction run.
type PredictionResult struct {
	Symbol       string
	Buy          bool
	Confidence   float64
	CurrentPrice float64
	TargetPrice  float64
	Low          float64
	High         float64
	HorizonDays  int
	Forecast     []float64
	IsNewListing Tristate
	Recorded     bool
}

// Direction renders the binary signal for display.
func (r *PredictionResult) Direction() string {
	if r.Buy {
		return "BUY"
	}
	return "SELL"
}

// NormalizeSymbol canonicalizes an instrument identifier.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// DisplayName derives a short display name from a symbol by stripping
// the exchange suffix ("TCS.BSE" → "TCS") or quote currency ("BTC/USD" → "BTC").
func DisplayName(symbol string) string {
	symbol = NormalizeSymbol(symbol)
	if i := strings.IndexAny(symbol, "./"); i > 0 {
		return symbol[:i]
	}
	return symbol
}
