package forecast

import (
	"errors"
	"math"
)

// ErrInsufficientData is returned when a series is too short for the
// requested fit, or when the fit is degenerate (constant explanatory
// variable). Callers surface it as "cannot predict for this symbol/horizon".
var ErrInsufficientData = errors.New("insufficient data to fit model")

// linearModel is an ordinary least-squares fit y = Intercept + Slope*x.
type linearModel struct {
	Intercept float64
	Slope     float64
	R2        float64
}

// fitLinear fits y on x by least squares. A constant x column makes the
// normal equations singular and is reported as ErrInsufficientData.
func fitLinear(xs, ys []float64) (*linearModel, error) {
	n := len(xs)
	if n != len(ys) || n < 2 {
		return nil, ErrInsufficientData
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var ssXX, ssXY, ssYY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		ssXX += dx * dx
		ssXY += dx * dy
		ssYY += dy * dy
	}
	if ssXX == 0 {
		return nil, ErrInsufficientData
	}

	slope := ssXY / ssXX
	intercept := meanY - slope*meanX

	// R² = 1 - SS_res/SS_tot; a constant target fits exactly but carries
	// no directional information, so report zero.
	r2 := 0.0
	if ssYY > 0 {
		var ssRes float64
		for i := 0; i < n; i++ {
			resid := ys[i] - (intercept + slope*xs[i])
			ssRes += resid * resid
		}
		r2 = 1 - ssRes/ssYY
		if r2 < 0 {
			r2 = 0
		}
	}
	return &linearModel{Intercept: intercept, Slope: slope, R2: r2}, nil
}

func (m *linearModel) predict(x float64) float64 {
	return m.Intercept + m.Slope*x
}

// returnStd computes the standard deviation of one-period returns.
func returnStd(closes []float64) float64 {
	if len(closes) < 2 {
		return 0
	}
	rets := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		rets = append(rets, closes[i]/closes[i-1]-1)
	}
	if len(rets) < 2 {
		return 0
	}
	var mean float64
	for _, r := range rets {
		mean += r
	}
	mean /= float64(len(rets))
	var ss float64
	for _, r := range rets {
		d := r - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(rets)-1))
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
