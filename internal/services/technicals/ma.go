package technicals

// SMA computes the simple moving average of the trailing `period` elements.
func SMA(data []float64, period int) (float64, error) {
	if err := checkFinite("sma", data); err != nil {
		return 0, err
	}
	if period <= 0 || len(data) < period {
		return 0, insufficient("sma", period, len(data))
	}
	sum := 0.0
	for i := len(data) - period; i < len(data); i++ {
		sum += data[i]
	}
	return sum / float64(period), nil
}

// SMASeries computes the rolling simple moving average. The result has
// len(data)-period+1 points, one per trailing window.
func SMASeries(data []float64, period int) ([]float64, error) {
	if err := checkFinite("sma", data); err != nil {
		return nil, err
	}
	if period <= 0 || len(data) < period {
		return nil, insufficient("sma", period, len(data))
	}
	out := make([]float64, 0, len(data)-period+1)
	sum := 0.0
	for i, v := range data {
		sum += v
		if i >= period {
			sum -= data[i-period]
		}
		if i >= period-1 {
			out = append(out, sum/float64(period))
		}
	}
	return out, nil
}

// EMASeries computes the exponential moving average seeded by the SMA of
// the first `period` points, recurrence ema += (v-ema) * 2/(period+1).
// Short input returns an empty series rather than an error; MACD and the
// price-position fallback rely on this leniency.
func EMASeries(data []float64, period int) []float64 {
	if period <= 0 || len(data) < period {
		return []float64{}
	}
	seed := 0.0
	for _, v := range data[:period] {
		seed += v
	}
	seed /= float64(period)

	mult := 2.0 / float64(period+1)
	out := make([]float64, 0, len(data)-period+1)
	out = append(out, seed)
	ema := seed
	for _, v := range data[period:] {
		ema = (v-ema)*mult + ema
		out = append(out, ema)
	}
	return out
}

// EMA returns the latest exponential moving average, or 0 when the input
// is shorter than the period.
func EMA(data []float64, period int) float64 {
	s := EMASeries(data, period)
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1]
}
