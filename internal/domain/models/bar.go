package models

import "time"

// Tick is a single trade print from the market stream.
type Tick struct {
	Symbol    string
	Timestamp int64 // unix seconds
	Price     float64
	Volume    float64
}

// Bar represents one OHLCV trading bar. Immutable once produced.
type Bar struct {
	Bucket time.Time
	Symbol string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// OptionStats carries per-symbol options-market context supplied by the
// quote collaborator. Both fields are optional inputs to classification.
type OptionStats struct {
	Symbol       string
	PutCallRatio float64
	IVRank       float64 // percentile, 0..100
}

// Closes extracts the closing prices of bars, oldest first.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Highs extracts the high prices of bars, oldest first.
func Highs(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.High
	}
	return out
}

// Lows extracts the low prices of bars, oldest first.
func Lows(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Low
	}
	return out
}

// Volumes extracts the volumes of bars, oldest first.
func Volumes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
	}
	return out
}
