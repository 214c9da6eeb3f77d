package models

import "time"

// Signal is the tri-state semantic classification of one indicator value.
type Signal string

const (
	SignalBullish Signal = "bullish"
	SignalNeutral Signal = "neutral"
	SignalBearish Signal = "bearish"
)

// GlowEffect flags extreme consensus among aggregated signals for the UI.
type GlowEffect string

const (
	GlowBullish GlowEffect = "glow-bullish"
	GlowBearish GlowEffect = "glow-bearish"
	GlowNone    GlowEffect = ""
)

// SignalResult is the classified, human-readable form of one indicator value.
type SignalResult struct {
	Signal      Signal `json:"signal"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Value       string `json:"value,omitempty"`
}

// AggregateScore is the composite consensus derived from a list of signals.
type AggregateScore struct {
	BullishCount int        `json:"bullish_count"`
	BearishCount int        `json:"bearish_count"`
	NeutralCount int        `json:"neutral_count"`
	Total        int        `json:"total"`
	Percentage   float64    `json:"percentage"`
	Sentiment    Signal     `json:"sentiment"`
	GlowEffect   GlowEffect `json:"glow_effect,omitempty"`
	Label        string     `json:"label"`
}

// SymbolReport is the full per-symbol analysis served over HTTP and
// published to the reports topic.
type SymbolReport struct {
	Symbol     string         `json:"symbol"`
	Timeframe  string         `json:"timeframe"`
	Timestamp  time.Time      `json:"timestamp"`
	Bars       int            `json:"bars"`
	Price      float64        `json:"price"`
	Indicators *IndicatorSet  `json:"indicators,omitempty"`
	Signals    []SignalResult `json:"signals"`
	Score      AggregateScore `json:"score"`
	// Errors lists indicators that could not be computed for this window,
	// keyed by indicator name. Partial reports are served, not rejected.
	Errors map[string]string `json:"errors,omitempty"`
}

// ScanEntry pairs a symbol with its aggregate score for watchlist scans.
type ScanEntry struct {
	Symbol string         `json:"symbol"`
	Score  AggregateScore `json:"score"`
	Error  string         `json:"error,omitempty"`
}
