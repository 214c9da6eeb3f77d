package technicals

import (
	"math"

	"TickerPulse/internal/domain/models"
)

// Conventional Bollinger parameters.
const (
	DefaultBollingerPeriod = 20
	DefaultBollingerMult   = 2.0
)

// BollingerBands computes volatility bands around the trailing SMA at
// ± mult standard deviations (population variance over the same window).
// PercentB locates the latest close within the bands; a zero-variance
// window collapses the bands onto the price and PercentB is defined as
// the neutral midpoint 0.5.
func BollingerBands(closes []float64, period int, mult float64) (models.BollingerResult, error) {
	if err := checkFinite("bollinger", closes); err != nil {
		return models.BollingerResult{}, err
	}
	if period <= 0 || len(closes) < period {
		return models.BollingerResult{}, insufficient("bollinger", period, len(closes))
	}

	window := closes[len(closes)-period:]
	middle := 0.0
	for _, v := range window {
		middle += v
	}
	middle /= float64(period)

	variance := 0.0
	for _, v := range window {
		d := v - middle
		variance += d * d
	}
	variance /= float64(period)
	stdDev := math.Sqrt(variance)

	upper := middle + mult*stdDev
	lower := middle - mult*stdDev
	price := closes[len(closes)-1]

	percentB := 0.5
	if upper != lower {
		percentB = (price - lower) / (upper - lower)
	}

	return models.BollingerResult{
		Upper:    upper,
		Middle:   middle,
		Lower:    lower,
		Width:    upper - lower,
		PercentB: percentB,
	}, nil
}
