package forecast

import (
	"fmt"

	"TradeOracle/internal/model"
)

// FeatureVector is the model input for one forecast step.
type FeatureVector struct {
	Index int
	Close float64
}

// nextFeatures derives the feature vector for the following step from the
// previous vector and its prediction. Pure function: the previous vector is
// never mutated.
func nextFeatures(prev FeatureVector, predicted float64) FeatureVector {
	return FeatureVector{Index: prev.Index + 1, Close: predicted}
}

// Forecast applies the fitted model sequentially to produce exactly days
// future prices, each step conditioned on the previous step's prediction.
//
// Each call is independent given the same (series, fitted) pair; no state
// persists between calls. Compounding error over steps is expected and not
// corrected.
func Forecast(series *model.PriceSeries, fitted *FittedModel, days int) ([]float64, error) {
	if days < 0 {
		return nil, fmt.Errorf("forecast: negative days %d", days)
	}
	if days == 0 {
		return []float64{}, nil
	}
	if series.Len() == 0 || fitted == nil {
		return nil, fmt.Errorf("forecast: %w", ErrInsufficientData)
	}

	f := FeatureVector{Index: series.Len() - 1, Close: series.LastClose()}
	out := make([]float64, 0, days)
	for i := 0; i < days; i++ {
		p := fitted.Predict(f)
		out = append(out, p)
		f = nextFeatures(f, p)
	}
	return out, nil
}
