package forecast

import (
	"fmt"

	"TradeOracle/internal/model"
)

// DefaultBandMultiplier scales the forecast range width.
const DefaultBandMultiplier = 1.0

// FittedModel binds learned parameters to the series they were trained on.
// It is confined to the prediction request that produced it: reuse it for
// multi-step forecasting within the same request, never persist it.
type FittedModel struct {
	model   *linearModel
	horizon int
}

// Predict applies the fitted model to one feature vector.
func (m *FittedModel) Predict(f FeatureVector) float64 {
	return m.model.predict(f.Close)
}

// RangePrediction is the outcome of a range forecast.
type RangePrediction struct {
	Target       float64
	Low          float64
	High         float64
	CurrentPrice float64
	Model        *FittedModel
}

// PredictRange projects a target price horizonDays ahead and derives a
// symmetric low/high band around it.
//
// The training set pairs each close with the close horizonDays later
// (forward shift with tail truncation), and a least squares model of the
// forward close on the current close is fitted. The band is the dispersion
// of one-period returns scaled by bandMultiplier and by the horizon length,
// applied to the current price, so the range widens with longer horizons.
func PredictRange(series *model.PriceSeries, horizonDays int, bandMultiplier float64) (*RangePrediction, error) {
	if horizonDays < 1 {
		return nil, fmt.Errorf("range: horizon %d: %w", horizonDays, ErrInsufficientData)
	}
	if bandMultiplier <= 0 {
		bandMultiplier = DefaultBandMultiplier
	}

	closes := series.Closes()
	rows := len(closes) - horizonDays
	if rows < horizonDays+2 {
		return nil, fmt.Errorf("range: %d usable rows at horizon %d: %w", rows, horizonDays, ErrInsufficientData)
	}

	xs := closes[:rows]
	ys := closes[horizonDays:]
	m, err := fitLinear(xs, ys)
	if err != nil {
		// A constant series makes the fit singular; same remedy as too
		// little data.
		return nil, fmt.Errorf("range fit: %w", err)
	}

	current := closes[len(closes)-1]
	target := m.predict(current)
	width := current * returnStd(closes) * bandMultiplier * float64(horizonDays)

	return &RangePrediction{
		Target:       target,
		Low:          target - width,
		High:         target + width,
		CurrentPrice: current,
		Model:        &FittedModel{model: m, horizon: horizonDays},
	}, nil
}
