package technicals

import "testing"

func TestPositionGoldenCross(t *testing.T) {
	// Long rising series: the short average leads the long one.
	closes := make([]float64, 250)
	for i := range closes {
		closes[i] = 100 + float64(i)*0.5
	}
	p := Position(closes)
	if !p.GoldenCross || p.DeathCross {
		t.Fatalf("expected golden cross in uptrend, got %+v", p)
	}
	if !p.AboveSMA20 || !p.AboveSMA200 {
		t.Fatalf("expected price above its averages in uptrend, got %+v", p)
	}
}

func TestPositionDeathCross(t *testing.T) {
	closes := make([]float64, 250)
	for i := range closes {
		closes[i] = 300 - float64(i)*0.5
	}
	p := Position(closes)
	if !p.DeathCross || p.GoldenCross {
		t.Fatalf("expected death cross in downtrend, got %+v", p)
	}
}

func TestPositionShortHistoryFallback(t *testing.T) {
	closes := []float64{100, 101, 102, 103, 104}
	p := Position(closes)
	// Unavailable windows fall back to the price itself, so long-window
	// comparisons and the cross flags stay muted.
	if p.SMA200 != p.Price || p.SMA50 != p.Price {
		t.Fatalf("expected price fallback for long windows, got %+v", p)
	}
	if p.AboveSMA200 || p.GoldenCross || p.DeathCross {
		t.Fatalf("expected muted comparisons on fallback, got %+v", p)
	}
}

func TestPositionEmptyInput(t *testing.T) {
	p := Position(nil)
	if p.Price != 0 || p.GoldenCross || p.DeathCross {
		t.Fatalf("expected zero value for empty input, got %+v", p)
	}
}
