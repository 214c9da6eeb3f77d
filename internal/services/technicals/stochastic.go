package technicals

import "TickerPulse/internal/domain/models"

// Conventional stochastic parameters.
const (
	DefaultStochasticK = 14
	DefaultStochasticD = 3
)

// Stochastic computes the %K/%D oscillator. %K locates the latest close
// within the trailing kPeriod high/low range (midpoint 50 when the range
// is zero); %D is the SMA of the %K series over dPeriod, averaging
// whatever %K points exist when fewer are available.
func Stochastic(highs, lows, closes []float64, kPeriod, dPeriod int) (models.StochasticResult, error) {
	if len(highs) != len(closes) || len(lows) != len(closes) {
		return models.StochasticResult{}, mismatched("stochastic", len(highs), len(lows), len(closes))
	}
	if err := checkFinite("stochastic", highs, lows, closes); err != nil {
		return models.StochasticResult{}, err
	}
	if kPeriod <= 0 || dPeriod <= 0 || len(closes) < kPeriod {
		return models.StochasticResult{}, insufficient("stochastic", kPeriod, len(closes))
	}

	kSeries := make([]float64, 0, len(closes)-kPeriod+1)
	for end := kPeriod - 1; end < len(closes); end++ {
		lowest := lows[end]
		highest := highs[end]
		for i := end - kPeriod + 1; i <= end; i++ {
			if lows[i] < lowest {
				lowest = lows[i]
			}
			if highs[i] > highest {
				highest = highs[i]
			}
		}
		k := 50.0
		if highest != lowest {
			k = (closes[end] - lowest) / (highest - lowest) * 100
		}
		kSeries = append(kSeries, k)
	}

	dWindow := dPeriod
	if len(kSeries) < dWindow {
		dWindow = len(kSeries)
	}
	d := 0.0
	for _, k := range kSeries[len(kSeries)-dWindow:] {
		d += k
	}
	d /= float64(dWindow)

	return models.StochasticResult{K: kSeries[len(kSeries)-1], D: d}, nil
}
