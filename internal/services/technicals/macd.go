package technicals

import "TickerPulse/internal/domain/models"

// Conventional MACD parameters.
const (
	DefaultMACDFast   = 12
	DefaultMACDSlow   = 26
	DefaultMACDSignal = 9
)

// MACD computes the Moving Average Convergence Divergence: EMA(fast) minus
// EMA(slow), a signal line as EMA(signalPeriod) of the MACD line, and the
// histogram as their difference. Both latest scalars and full lines are
// returned. Undersized input degrades to a zero-valued result with empty
// lines instead of an error, since MACD is consumed as a building block
// where a stub is preferable to aborting the whole analysis.
func MACD(closes []float64, fast, slow, signalPeriod int) models.MACDResult {
	empty := models.MACDResult{
		MACDLine:      []float64{},
		SignalLine:    []float64{},
		HistogramLine: []float64{},
	}
	if fast <= 0 || slow <= fast || signalPeriod <= 0 {
		return empty
	}
	// The slow EMA needs `slow` points and the signal EMA needs
	// `signalPeriod` MACD points on top of that.
	if len(closes) < slow+signalPeriod-1 {
		return empty
	}

	emaFast := EMASeries(closes, fast)
	emaSlow := EMASeries(closes, slow)

	offset := slow - fast
	macdLine := make([]float64, len(emaSlow))
	for i := range emaSlow {
		macdLine[i] = emaFast[i+offset] - emaSlow[i]
	}

	signalLine := EMASeries(macdLine, signalPeriod)
	histLine := make([]float64, len(signalLine))
	shift := len(macdLine) - len(signalLine)
	for i := range signalLine {
		histLine[i] = macdLine[i+shift] - signalLine[i]
	}

	return models.MACDResult{
		MACD:          macdLine[len(macdLine)-1],
		Signal:        signalLine[len(signalLine)-1],
		Histogram:     histLine[len(histLine)-1],
		MACDLine:      macdLine,
		SignalLine:    signalLine,
		HistogramLine: histLine,
	}
}
