// Package signals maps indicator values onto tri-state semantic signals
// with fixed, documented thresholds, and combines them into a composite
// consensus score. All boundary values at the extremes are neutral: an
// RSI of exactly 30 or 70, a stochastic %K of exactly 20 or 80, and so
// on, classify as neutral rather than tipping either way.
package signals

import (
	"fmt"

	"TickerPulse/internal/domain/models"
)

// RSISignal classifies Wilder's RSI: oversold below 30, overbought above 70.
func RSISignal(rsi float64) models.SignalResult {
	switch {
	case rsi < 30:
		return models.SignalResult{
			Signal:      models.SignalBullish,
			Label:       "Oversold",
			Description: fmt.Sprintf("RSI at %.1f signals an oversold market", rsi),
			Value:       fmt.Sprintf("%.1f", rsi),
		}
	case rsi > 70:
		return models.SignalResult{
			Signal:      models.SignalBearish,
			Label:       "Overbought",
			Description: fmt.Sprintf("RSI at %.1f signals an overbought market", rsi),
			Value:       fmt.Sprintf("%.1f", rsi),
		}
	default:
		return models.SignalResult{
			Signal:      models.SignalNeutral,
			Label:       "Neutral RSI",
			Description: fmt.Sprintf("RSI at %.1f sits inside the 30-70 band", rsi),
			Value:       fmt.Sprintf("%.1f", rsi),
		}
	}
}

// MACDSignal classifies the MACD histogram against its previous value:
// positive and rising is bullish, negative and falling is bearish.
func MACDSignal(histogram, prevHistogram float64) models.SignalResult {
	switch {
	case histogram > 0 && histogram > prevHistogram:
		return models.SignalResult{
			Signal:      models.SignalBullish,
			Label:       "Rising Momentum",
			Description: fmt.Sprintf("MACD histogram %.3f is positive and growing", histogram),
			Value:       fmt.Sprintf("%.3f", histogram),
		}
	case histogram < 0 && histogram < prevHistogram:
		return models.SignalResult{
			Signal:      models.SignalBearish,
			Label:       "Falling Momentum",
			Description: fmt.Sprintf("MACD histogram %.3f is negative and shrinking", histogram),
			Value:       fmt.Sprintf("%.3f", histogram),
		}
	default:
		return models.SignalResult{
			Signal:      models.SignalNeutral,
			Label:       "Mixed Momentum",
			Description: fmt.Sprintf("MACD histogram %.3f shows no clear momentum shift", histogram),
			Value:       fmt.Sprintf("%.3f", histogram),
		}
	}
}

// SMASignal compares the current price against a simple moving average.
// The value is the percent distance from the average, e.g. "+10.0%".
func SMASignal(price, sma float64, period int) models.SignalResult {
	pct := 0.0
	if sma != 0 {
		pct = (price - sma) / sma * 100
	}
	value := fmt.Sprintf("%+.1f%%", pct)
	switch {
	case price > sma:
		return models.SignalResult{
			Signal:      models.SignalBullish,
			Label:       fmt.Sprintf("Above SMA%d", period),
			Description: fmt.Sprintf("Price trades %s above its %d-period average", value, period),
			Value:       value,
		}
	case price < sma:
		return models.SignalResult{
			Signal:      models.SignalBearish,
			Label:       fmt.Sprintf("Below SMA%d", period),
			Description: fmt.Sprintf("Price trades %s below its %d-period average", value, period),
			Value:       value,
		}
	default:
		return models.SignalResult{
			Signal:      models.SignalNeutral,
			Label:       fmt.Sprintf("At SMA%d", period),
			Description: fmt.Sprintf("Price sits exactly on its %d-period average", period),
			Value:       value,
		}
	}
}

// CrossSignal classifies the long-term SMA50 vs SMA200 relationship.
func CrossSignal(sma50, sma200 float64) models.SignalResult {
	switch {
	case sma50 > sma200:
		return models.SignalResult{
			Signal:      models.SignalBullish,
			Label:       "Golden Cross",
			Description: fmt.Sprintf("SMA50 %.2f holds above SMA200 %.2f", sma50, sma200),
		}
	case sma50 < sma200:
		return models.SignalResult{
			Signal:      models.SignalBearish,
			Label:       "Death Cross",
			Description: fmt.Sprintf("SMA50 %.2f holds below SMA200 %.2f", sma50, sma200),
		}
	default:
		return models.SignalResult{
			Signal:      models.SignalNeutral,
			Label:       "No Cross",
			Description: "SMA50 and SMA200 are equal",
		}
	}
}

// BollingerSignal classifies the close against the bands: touching the
// lower band or %B under 0.10 is bullish, the upper band or %B over
// 0.90 is bearish.
func BollingerSignal(price float64, b models.BollingerResult) models.SignalResult {
	value := fmt.Sprintf("%.2f", b.PercentB)
	switch {
	case price <= b.Lower || b.PercentB < 0.10:
		return models.SignalResult{
			Signal:      models.SignalBullish,
			Label:       "At Lower Band",
			Description: fmt.Sprintf("Price pressed into the lower band with %%B at %s", value),
			Value:       value,
		}
	case price >= b.Upper || b.PercentB > 0.90:
		return models.SignalResult{
			Signal:      models.SignalBearish,
			Label:       "At Upper Band",
			Description: fmt.Sprintf("Price pressed into the upper band with %%B at %s", value),
			Value:       value,
		}
	default:
		return models.SignalResult{
			Signal:      models.SignalNeutral,
			Label:       "Mid Band",
			Description: fmt.Sprintf("Price sits inside the bands with %%B at %s", value),
			Value:       value,
		}
	}
}

// StochasticSignal classifies %K: oversold below 20, overbought above 80.
func StochasticSignal(k float64) models.SignalResult {
	value := fmt.Sprintf("%.1f", k)
	switch {
	case k < 20:
		return models.SignalResult{
			Signal:      models.SignalBullish,
			Label:       "Stochastic Oversold",
			Description: fmt.Sprintf("%%K at %s is in oversold territory", value),
			Value:       value,
		}
	case k > 80:
		return models.SignalResult{
			Signal:      models.SignalBearish,
			Label:       "Stochastic Overbought",
			Description: fmt.Sprintf("%%K at %s is in overbought territory", value),
			Value:       value,
		}
	default:
		return models.SignalResult{
			Signal:      models.SignalNeutral,
			Label:       "Stochastic Neutral",
			Description: fmt.Sprintf("%%K at %s sits inside the 20-80 band", value),
			Value:       value,
		}
	}
}

// VolumeSignal classifies current volume against its recent average:
// above 1.5x is bullish conviction, below 0.8x is fading interest.
func VolumeSignal(current, average float64) models.SignalResult {
	if average <= 0 {
		return models.SignalResult{
			Signal:      models.SignalNeutral,
			Label:       "No Volume Baseline",
			Description: "Average volume unavailable for comparison",
		}
	}
	ratio := current / average
	value := fmt.Sprintf("%.1fx", ratio)
	switch {
	case ratio > 1.5:
		return models.SignalResult{
			Signal:      models.SignalBullish,
			Label:       "Heavy Volume",
			Description: fmt.Sprintf("Volume runs %s of its recent average", value),
			Value:       value,
		}
	case ratio < 0.8:
		return models.SignalResult{
			Signal:      models.SignalBearish,
			Label:       "Light Volume",
			Description: fmt.Sprintf("Volume runs %s of its recent average", value),
			Value:       value,
		}
	default:
		return models.SignalResult{
			Signal:      models.SignalNeutral,
			Label:       "Normal Volume",
			Description: fmt.Sprintf("Volume runs %s of its recent average", value),
			Value:       value,
		}
	}
}

// OBVSignal classifies the short-term on-balance-volume trend.
func OBVSignal(trend models.OBVTrend) models.SignalResult {
	switch trend {
	case models.OBVRising:
		return models.SignalResult{
			Signal:      models.SignalBullish,
			Label:       "OBV Rising",
			Description: "On-balance volume is climbing, buyers are accumulating",
		}
	case models.OBVFalling:
		return models.SignalResult{
			Signal:      models.SignalBearish,
			Label:       "OBV Falling",
			Description: "On-balance volume is dropping, sellers are distributing",
		}
	default:
		return models.SignalResult{
			Signal:      models.SignalNeutral,
			Label:       "OBV Flat",
			Description: "On-balance volume shows no directional pressure",
		}
	}
}

// PutCallSignal classifies the options put/call ratio: under 0.7 is
// bullish positioning, over 1.0 is bearish hedging.
func PutCallSignal(ratio float64) models.SignalResult {
	value := fmt.Sprintf("%.2f", ratio)
	switch {
	case ratio < 0.7:
		return models.SignalResult{
			Signal:      models.SignalBullish,
			Label:       "Call Heavy",
			Description: fmt.Sprintf("Put/call ratio of %s leans toward calls", value),
			Value:       value,
		}
	case ratio > 1.0:
		return models.SignalResult{
			Signal:      models.SignalBearish,
			Label:       "Put Heavy",
			Description: fmt.Sprintf("Put/call ratio of %s leans toward puts", value),
			Value:       value,
		}
	default:
		return models.SignalResult{
			Signal:      models.SignalNeutral,
			Label:       "Balanced Options Flow",
			Description: fmt.Sprintf("Put/call ratio of %s is balanced", value),
			Value:       value,
		}
	}
}

// IVRankSignal classifies implied-volatility rank: cheap premium below
// 30% is bullish, expensive premium above 70% is bearish.
func IVRankSignal(rank float64) models.SignalResult {
	value := fmt.Sprintf("%.0f%%", rank)
	switch {
	case rank < 30:
		return models.SignalResult{
			Signal:      models.SignalBullish,
			Label:       "Low IV Rank",
			Description: fmt.Sprintf("IV rank of %s prices in little fear", value),
			Value:       value,
		}
	case rank > 70:
		return models.SignalResult{
			Signal:      models.SignalBearish,
			Label:       "High IV Rank",
			Description: fmt.Sprintf("IV rank of %s prices in elevated fear", value),
			Value:       value,
		}
	default:
		return models.SignalResult{
			Signal:      models.SignalNeutral,
			Label:       "Mid IV Rank",
			Description: fmt.Sprintf("IV rank of %s sits in the middle of its range", value),
			Value:       value,
		}
	}
}
