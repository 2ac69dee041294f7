package forecast

import (
	"fmt"

	"TradeOracle/internal/model"
)

// PredictSignal fits a short-horizon directional model on the series and
// returns a buy/sell signal with a confidence percentage.
//
// The explanatory variable is the observation index; the model is a least
// squares fit of close on index. The signal is the sign of
// (predicted next close minus last close), and confidence is the fit's
// coefficient of determination scaled to [0, 100]. A better in-sample fit
// therefore always reports higher confidence.
//
// Pure function: a fresh model is fitted per call, no state is shared.
func PredictSignal(series *model.PriceSeries) (buy bool, confidence float64, err error) {
	closes := series.Closes()
	if len(closes) < 2 {
		return false, 0, fmt.Errorf("signal: %d observations: %w", len(closes), ErrInsufficientData)
	}

	xs := make([]float64, len(closes))
	for i := range xs {
		xs[i] = float64(i)
	}
	m, err := fitLinear(xs, closes)
	if err != nil {
		return false, 0, fmt.Errorf("signal fit: %w", err)
	}

	predicted := m.predict(float64(len(closes)))
	current := closes[len(closes)-1]
	return predicted > current, clampPercent(m.R2 * 100), nil
}
