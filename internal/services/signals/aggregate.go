package signals

import (
	"fmt"

	"TickerPulse/internal/domain/models"
)

// Glow thresholds: consensus at or beyond these percentages marks a
// symbol for highlight styling.
const (
	glowBullishPct = 80.0
	glowBearishPct = 20.0
)

// Aggregate combines an arbitrary list of signals into one composite
// score. Order independent and idempotent; an empty list yields the
// neutral midpoint (50%) instead of a divide-by-zero.
func Aggregate(results []models.SignalResult) models.AggregateScore {
	score := models.AggregateScore{Total: len(results)}
	for _, r := range results {
		switch r.Signal {
		case models.SignalBullish:
			score.BullishCount++
		case models.SignalBearish:
			score.BearishCount++
		default:
			score.NeutralCount++
		}
	}

	if score.Total == 0 {
		score.Percentage = 50
	} else {
		score.Percentage = float64(score.BullishCount) / float64(score.Total) * 100
	}

	score.Sentiment = models.SignalNeutral
	if score.BullishCount > score.BearishCount && score.BullishCount > score.NeutralCount {
		score.Sentiment = models.SignalBullish
	} else if score.BearishCount > score.BullishCount && score.BearishCount > score.NeutralCount {
		score.Sentiment = models.SignalBearish
	}

	score.GlowEffect = models.GlowNone
	if score.Percentage >= glowBullishPct {
		score.GlowEffect = models.GlowBullish
	} else if score.Percentage <= glowBearishPct {
		score.GlowEffect = models.GlowBearish
	}

	score.Label = fmt.Sprintf("%d/%d Bullish", score.BullishCount, score.Total)
	return score
}
