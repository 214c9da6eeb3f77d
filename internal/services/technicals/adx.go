package technicals

import (
	"math"

	"TickerPulse/internal/domain/models"
)

// DefaultADXPeriod is the conventional ADX lookback.
const DefaultADXPeriod = 14

// ADX computes directional movement indexes and a simplified ADX: the
// single-period DX value is reported directly instead of the textbook
// double-smoothed average. The simplification is kept on purpose so the
// classification thresholds below stay calibrated against it.
// Requires at least period*2 bars.
func ADX(highs, lows, closes []float64, period int) (models.ADXResult, error) {
	if len(highs) != len(closes) || len(lows) != len(closes) {
		return models.ADXResult{}, mismatched("adx", len(highs), len(lows), len(closes))
	}
	if err := checkFinite("adx", highs, lows, closes); err != nil {
		return models.ADXResult{}, err
	}
	if period <= 0 || len(closes) < period*2 {
		return models.ADXResult{}, insufficient("adx", period*2, len(closes))
	}

	n := len(closes)
	var sumPlusDM, sumMinusDM, sumTR float64
	for i := n - period; i < n; i++ {
		upMove := highs[i] - highs[i-1]
		downMove := lows[i-1] - lows[i]
		if upMove > downMove && upMove > 0 {
			sumPlusDM += upMove
		}
		if downMove > upMove && downMove > 0 {
			sumMinusDM += downMove
		}
		sumTR += math.Max(highs[i]-lows[i],
			math.Max(math.Abs(highs[i]-closes[i-1]), math.Abs(lows[i]-closes[i-1])))
	}

	var plusDI, minusDI float64
	if sumTR > 0 {
		plusDI = sumPlusDM / sumTR * 100
		minusDI = sumMinusDM / sumTR * 100
	}

	adx := 0.0
	if plusDI+minusDI > 0 {
		adx = math.Abs(plusDI-minusDI) / (plusDI + minusDI) * 100
	}

	trend := models.TrendNone
	switch {
	case adx > 25:
		trend = models.TrendStrong
	case adx > 20:
		trend = models.TrendWeak
	}

	direction := models.SignalNeutral
	if adx > 20 {
		if plusDI > minusDI {
			direction = models.SignalBullish
		} else if minusDI > plusDI {
			direction = models.SignalBearish
		}
	}

	return models.ADXResult{
		ADX:       adx,
		PlusDI:    plusDI,
		MinusDI:   minusDI,
		Trend:     trend,
		Direction: direction,
	}, nil
}
