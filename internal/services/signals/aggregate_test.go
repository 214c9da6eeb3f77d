package signals

import (
	"math/rand"
	"testing"

	"TickerPulse/internal/domain/models"
)

func bullish() models.SignalResult { return models.SignalResult{Signal: models.SignalBullish} }
func bearish() models.SignalResult { return models.SignalResult{Signal: models.SignalBearish} }
func neutral() models.SignalResult { return models.SignalResult{Signal: models.SignalNeutral} }

func TestAggregateMajorityBullish(t *testing.T) {
	results := []models.SignalResult{bullish(), bullish(), bullish(), bullish(), bearish()}
	score := Aggregate(results)
	if score.Total != 5 || score.BullishCount != 4 || score.BearishCount != 1 || score.NeutralCount != 0 {
		t.Fatalf("unexpected counts: %+v", score)
	}
	if score.Percentage != 80 {
		t.Fatalf("expected 80%%, got %v", score.Percentage)
	}
	if score.Sentiment != models.SignalBullish {
		t.Fatalf("expected bullish sentiment, got %v", score.Sentiment)
	}
	if score.GlowEffect != models.GlowBullish {
		t.Fatalf("expected glow-bullish at 80%%, got %q", score.GlowEffect)
	}
	if score.Label != "4/5 Bullish" {
		t.Fatalf("expected label '4/5 Bullish', got %q", score.Label)
	}
}

func TestAggregateEmpty(t *testing.T) {
	score := Aggregate(nil)
	if score.Total != 0 {
		t.Fatalf("expected total 0, got %d", score.Total)
	}
	if score.Percentage != 50 {
		t.Fatalf("expected neutral midpoint 50%%, got %v", score.Percentage)
	}
	if score.Sentiment != models.SignalNeutral {
		t.Fatalf("expected neutral sentiment, got %v", score.Sentiment)
	}
	if score.GlowEffect != models.GlowNone {
		t.Fatalf("expected no glow, got %q", score.GlowEffect)
	}
	if score.Label != "0/0 Bullish" {
		t.Fatalf("unexpected label %q", score.Label)
	}
}

func TestAggregateGlowBearish(t *testing.T) {
	results := []models.SignalResult{bullish(), bearish(), bearish(), bearish(), bearish()}
	score := Aggregate(results)
	if score.Percentage != 20 {
		t.Fatalf("expected 20%%, got %v", score.Percentage)
	}
	if score.GlowEffect != models.GlowBearish {
		t.Fatalf("expected glow-bearish at 20%%, got %q", score.GlowEffect)
	}
	if score.Sentiment != models.SignalBearish {
		t.Fatalf("expected bearish sentiment, got %v", score.Sentiment)
	}
}

func TestAggregateNoStrictMajority(t *testing.T) {
	// Ties and neutral-dominated mixes stay neutral.
	cases := [][]models.SignalResult{
		{bullish(), bearish()},
		{bullish(), bearish(), neutral(), neutral()},
		{neutral(), neutral(), bullish()},
	}
	for i, results := range cases {
		if score := Aggregate(results); score.Sentiment != models.SignalNeutral {
			t.Errorf("case %d: expected neutral sentiment, got %v", i, score.Sentiment)
		}
	}
}

func TestAggregateCountInvariant(t *testing.T) {
	results := []models.SignalResult{
		bullish(), bearish(), neutral(), bullish(), neutral(), neutral(), bearish(),
	}
	score := Aggregate(results)
	if score.BullishCount+score.BearishCount+score.NeutralCount != score.Total {
		t.Fatalf("counts do not sum to total: %+v", score)
	}
	if score.Percentage < 0 || score.Percentage > 100 {
		t.Fatalf("percentage out of range: %v", score.Percentage)
	}
}

func TestAggregateOrderIndependent(t *testing.T) {
	results := []models.SignalResult{
		bullish(), bullish(), bearish(), neutral(), bullish(), bearish(), neutral(),
	}
	want := Aggregate(results)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		rng.Shuffle(len(results), func(a, b int) {
			results[a], results[b] = results[b], results[a]
		})
		if got := Aggregate(results); got != want {
			t.Fatalf("shuffle %d changed the score: got %+v, want %+v", i, got, want)
		}
	}
}
