package technicals

import (
	"errors"
	"testing"

	"TickerPulse/internal/domain/models"
)

// The ADX here reports the single-period DX directly rather than the
// textbook double-smoothed average; these tests pin that simplified
// behavior so the classification thresholds stay calibrated against it.

func TestADXSimplifiedStrongUptrend(t *testing.T) {
	highs := []float64{10, 11, 12, 13}
	lows := []float64{9, 10, 11, 12}
	closes := []float64{9.5, 10.5, 11.5, 12.5}
	res, err := ADX(highs, lows, closes, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(res.ADX, 100) {
		t.Fatalf("expected DX 100 in pure uptrend, got %v", res.ADX)
	}
	if res.MinusDI != 0 {
		t.Fatalf("expected -DI 0, got %v", res.MinusDI)
	}
	if res.Trend != models.TrendStrong {
		t.Fatalf("expected strong trend, got %v", res.Trend)
	}
	if res.Direction != models.SignalBullish {
		t.Fatalf("expected bullish direction, got %v", res.Direction)
	}
}

func TestADXSimplifiedDowntrend(t *testing.T) {
	highs := []float64{13, 12, 11, 10}
	lows := []float64{12, 11, 10, 9}
	closes := []float64{12.5, 11.5, 10.5, 9.5}
	res, err := ADX(highs, lows, closes, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Direction != models.SignalBearish {
		t.Fatalf("expected bearish direction, got %v", res.Direction)
	}
	if res.PlusDI != 0 {
		t.Fatalf("expected +DI 0, got %v", res.PlusDI)
	}
}

func TestADXBounds(t *testing.T) {
	closes := rampSeries(60)
	highs := make([]float64, len(closes))
	lows := make([]float64, len(closes))
	for i, c := range closes {
		highs[i] = c + 0.5
		lows[i] = c - 0.5
	}
	res, err := ADX(highs, lows, closes, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ADX < 0 || res.ADX > 100 {
		t.Fatalf("adx out of bounds: %v", res.ADX)
	}
}

func TestADXFlatMarketNoTrend(t *testing.T) {
	n := 30
	flat := make([]float64, n)
	for i := range flat {
		flat[i] = 50
	}
	res, err := ADX(flat, flat, flat, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Trend != models.TrendNone || res.Direction != models.SignalNeutral {
		t.Fatalf("expected no trend in flat market, got %+v", res)
	}
}

func TestADXInsufficientData(t *testing.T) {
	xs := rampSeries(20)
	_, err := ADX(xs, xs, xs, 14)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}
