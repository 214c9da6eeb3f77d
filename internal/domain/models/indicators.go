package models

// MACDResult holds the latest MACD scalars plus the full lines for charting.
type MACDResult struct {
	MACD          float64   `json:"macd"`
	Signal        float64   `json:"signal"`
	Histogram     float64   `json:"histogram"`
	MACDLine      []float64 `json:"macd_line"`
	SignalLine    []float64 `json:"signal_line"`
	HistogramLine []float64 `json:"histogram_line"`
}

// BollingerResult holds Bollinger band levels around the middle SMA.
type BollingerResult struct {
	Upper    float64 `json:"upper"`
	Middle   float64 `json:"middle"`
	Lower    float64 `json:"lower"`
	Width    float64 `json:"width"`
	PercentB float64 `json:"percent_b"`
}

// StochasticResult holds the %K/%D oscillator pair.
type StochasticResult struct {
	K float64 `json:"k"`
	D float64 `json:"d"`
}

// OBVTrend is the short-term direction of the on-balance-volume line.
type OBVTrend string

const (
	OBVRising  OBVTrend = "rising"
	OBVFalling OBVTrend = "falling"
	OBVFlat    OBVTrend = "flat"
)

// OBVResult holds the cumulative OBV plus its recent trend.
type OBVResult struct {
	Current float64   `json:"current"`
	Trend   OBVTrend  `json:"trend"`
	Values  []float64 `json:"values"`
}

// TrendStrength classifies ADX magnitude.
type TrendStrength string

const (
	TrendStrong TrendStrength = "strong"
	TrendWeak   TrendStrength = "weak"
	TrendNone   TrendStrength = "none"
)

// ADXResult holds the simplified ADX with directional indexes.
type ADXResult struct {
	ADX       float64       `json:"adx"`
	PlusDI    float64       `json:"plus_di"`
	MinusDI   float64       `json:"minus_di"`
	Trend     TrendStrength `json:"trend"`
	Direction Signal        `json:"direction"`
}

// PricePosition reports where the current price sits relative to the
// standard moving averages, with moving averages falling back to the
// price itself when history is shorter than the window.
type PricePosition struct {
	Price       float64 `json:"price"`
	SMA20       float64 `json:"sma20"`
	SMA50       float64 `json:"sma50"`
	SMA200      float64 `json:"sma200"`
	EMA12       float64 `json:"ema12"`
	EMA26       float64 `json:"ema26"`
	AboveSMA20  bool    `json:"above_sma20"`
	AboveSMA50  bool    `json:"above_sma50"`
	AboveSMA200 bool    `json:"above_sma200"`
	AboveEMA12  bool    `json:"above_ema12"`
	AboveEMA26  bool    `json:"above_ema26"`
	GoldenCross bool    `json:"golden_cross"`
	DeathCross  bool    `json:"death_cross"`
}

// IndicatorSet is the full indicator snapshot computed from one bar window.
type IndicatorSet struct {
	RSI        float64          `json:"rsi"`
	MACD       MACDResult       `json:"macd"`
	Bollinger  BollingerResult  `json:"bollinger"`
	Stochastic StochasticResult `json:"stochastic"`
	ATR        float64          `json:"atr"`
	OBV        OBVResult        `json:"obv"`
	ADX        ADXResult        `json:"adx"`
	Position   PricePosition    `json:"position"`
}
