package technicals

import "math"

// DefaultATRPeriod is the conventional ATR lookback.
const DefaultATRPeriod = 14

// ATR computes the Average True Range: a simple average of the first
// `period` true ranges, Wilder-smoothed for the remainder. Requires at
// least period+1 bars.
func ATR(highs, lows, closes []float64, period int) (float64, error) {
	if len(highs) != len(closes) || len(lows) != len(closes) {
		return 0, mismatched("atr", len(highs), len(lows), len(closes))
	}
	if err := checkFinite("atr", highs, lows, closes); err != nil {
		return 0, err
	}
	if period <= 0 || len(closes) < period+1 {
		return 0, insufficient("atr", period+1, len(closes))
	}

	trs := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		tr := math.Max(highs[i]-lows[i],
			math.Max(math.Abs(highs[i]-closes[i-1]), math.Abs(lows[i]-closes[i-1])))
		trs = append(trs, tr)
	}

	atr := 0.0
	for _, tr := range trs[:period] {
		atr += tr
	}
	atr /= float64(period)

	for _, tr := range trs[period:] {
		atr = (atr*float64(period-1) + tr) / float64(period)
	}
	return atr, nil
}
