package technicals

import (
	"math"

	"TickerPulse/internal/domain/models"
)

// obvTrendWindow is the number of recent OBV points used for the
// short-term trend, with a ±5% percent-change threshold.
const (
	obvTrendWindow    = 5
	obvTrendThreshold = 5.0
)

// OBV computes the cumulative on-balance volume: volume is added on an
// up close, subtracted on a down close, and unchanged on a flat close.
// The result also classifies the short-term trend of the OBV line.
func OBV(closes, volumes []float64) (models.OBVResult, error) {
	if len(closes) != len(volumes) {
		return models.OBVResult{}, mismatched("obv", len(closes), len(volumes))
	}
	if err := checkFinite("obv", closes, volumes); err != nil {
		return models.OBVResult{}, err
	}
	if len(closes) < 2 {
		return models.OBVResult{}, insufficient("obv", 2, len(closes))
	}

	values := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		switch {
		case closes[i] > closes[i-1]:
			values[i] = values[i-1] + volumes[i]
		case closes[i] < closes[i-1]:
			values[i] = values[i-1] - volumes[i]
		default:
			values[i] = values[i-1]
		}
	}

	current := values[len(values)-1]
	return models.OBVResult{
		Current: current,
		Trend:   obvTrend(values),
		Values:  values,
	}, nil
}

func obvTrend(values []float64) models.OBVTrend {
	window := obvTrendWindow
	if len(values) < window {
		window = len(values)
	}
	recent := values[len(values)-window:]
	avg := 0.0
	for _, v := range recent {
		avg += v
	}
	avg /= float64(window)
	if avg == 0 {
		return models.OBVFlat
	}

	current := values[len(values)-1]
	change := (current - avg) / math.Abs(avg) * 100
	switch {
	case change > obvTrendThreshold:
		return models.OBVRising
	case change < -obvTrendThreshold:
		return models.OBVFalling
	default:
		return models.OBVFlat
	}
}
