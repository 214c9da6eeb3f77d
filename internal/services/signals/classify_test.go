package signals

import (
	"testing"

	"TickerPulse/internal/domain/models"
)

func TestRSISignalThresholds(t *testing.T) {
	cases := []struct {
		rsi  float64
		want models.Signal
	}{
		{25, models.SignalBullish},
		{29.99, models.SignalBullish},
		{30, models.SignalNeutral}, // boundary is neutral
		{50, models.SignalNeutral},
		{70, models.SignalNeutral}, // boundary is neutral
		{70.01, models.SignalBearish},
		{85, models.SignalBearish},
	}
	for _, c := range cases {
		if got := RSISignal(c.rsi); got.Signal != c.want {
			t.Errorf("RSISignal(%v) = %v, want %v", c.rsi, got.Signal, c.want)
		}
	}
}

func TestMACDSignalDirection(t *testing.T) {
	if got := MACDSignal(0.5, 0.2); got.Signal != models.SignalBullish {
		t.Errorf("positive rising histogram should be bullish, got %v", got.Signal)
	}
	if got := MACDSignal(-0.5, -0.2); got.Signal != models.SignalBearish {
		t.Errorf("negative falling histogram should be bearish, got %v", got.Signal)
	}
	if got := MACDSignal(0.5, 0.8); got.Signal != models.SignalNeutral {
		t.Errorf("positive but falling histogram should be neutral, got %v", got.Signal)
	}
	if got := MACDSignal(-0.5, -0.8); got.Signal != models.SignalNeutral {
		t.Errorf("negative but rising histogram should be neutral, got %v", got.Signal)
	}
}

func TestSMASignalAboveAverage(t *testing.T) {
	got := SMASignal(110, 100, 20)
	if got.Signal != models.SignalBullish {
		t.Fatalf("expected bullish, got %v", got.Signal)
	}
	if got.Label != "Above SMA20" {
		t.Fatalf("expected label 'Above SMA20', got %q", got.Label)
	}
	if got.Value != "+10.0%" {
		t.Fatalf("expected value '+10.0%%', got %q", got.Value)
	}
}

func TestSMASignalBelowAndAt(t *testing.T) {
	if got := SMASignal(90, 100, 50); got.Signal != models.SignalBearish || got.Label != "Below SMA50" {
		t.Fatalf("expected bearish below average, got %+v", got)
	}
	if got := SMASignal(100, 100, 50); got.Signal != models.SignalNeutral {
		t.Fatalf("expected neutral at average, got %+v", got)
	}
}

func TestCrossSignal(t *testing.T) {
	if got := CrossSignal(105, 100); got.Signal != models.SignalBullish || got.Label != "Golden Cross" {
		t.Fatalf("expected golden cross, got %+v", got)
	}
	if got := CrossSignal(95, 100); got.Signal != models.SignalBearish || got.Label != "Death Cross" {
		t.Fatalf("expected death cross, got %+v", got)
	}
	if got := CrossSignal(100, 100); got.Signal != models.SignalNeutral {
		t.Fatalf("expected neutral on equal averages, got %+v", got)
	}
}

func TestBollingerSignalBands(t *testing.T) {
	b := models.BollingerResult{Upper: 110, Middle: 100, Lower: 90, PercentB: 0.5}
	if got := BollingerSignal(89, b); got.Signal != models.SignalBullish {
		t.Errorf("price at lower band should be bullish, got %v", got.Signal)
	}
	if got := BollingerSignal(111, b); got.Signal != models.SignalBearish {
		t.Errorf("price at upper band should be bearish, got %v", got.Signal)
	}
	if got := BollingerSignal(100, b); got.Signal != models.SignalNeutral {
		t.Errorf("mid-band price should be neutral, got %v", got.Signal)
	}
	low := models.BollingerResult{Upper: 110, Middle: 100, Lower: 90, PercentB: 0.05}
	if got := BollingerSignal(91, low); got.Signal != models.SignalBullish {
		t.Errorf("percentB under 0.10 should be bullish, got %v", got.Signal)
	}
	high := models.BollingerResult{Upper: 110, Middle: 100, Lower: 90, PercentB: 0.95}
	if got := BollingerSignal(109, high); got.Signal != models.SignalBearish {
		t.Errorf("percentB over 0.90 should be bearish, got %v", got.Signal)
	}
}

func TestStochasticSignalThresholds(t *testing.T) {
	cases := []struct {
		k    float64
		want models.Signal
	}{
		{10, models.SignalBullish},
		{20, models.SignalNeutral}, // boundary is neutral
		{50, models.SignalNeutral},
		{80, models.SignalNeutral}, // boundary is neutral
		{90, models.SignalBearish},
	}
	for _, c := range cases {
		if got := StochasticSignal(c.k); got.Signal != c.want {
			t.Errorf("StochasticSignal(%v) = %v, want %v", c.k, got.Signal, c.want)
		}
	}
}

func TestVolumeSignalThresholds(t *testing.T) {
	cases := []struct {
		current, avg float64
		want         models.Signal
	}{
		{200, 100, models.SignalBullish}, // 2.0x
		{150, 100, models.SignalNeutral}, // boundary is neutral
		{100, 100, models.SignalNeutral},
		{80, 100, models.SignalNeutral}, // boundary is neutral
		{70, 100, models.SignalBearish},
		{100, 0, models.SignalNeutral}, // no baseline
	}
	for _, c := range cases {
		if got := VolumeSignal(c.current, c.avg); got.Signal != c.want {
			t.Errorf("VolumeSignal(%v, %v) = %v, want %v", c.current, c.avg, got.Signal, c.want)
		}
	}
}

func TestOBVSignal(t *testing.T) {
	if got := OBVSignal(models.OBVRising); got.Signal != models.SignalBullish {
		t.Errorf("rising OBV should be bullish, got %v", got.Signal)
	}
	if got := OBVSignal(models.OBVFalling); got.Signal != models.SignalBearish {
		t.Errorf("falling OBV should be bearish, got %v", got.Signal)
	}
	if got := OBVSignal(models.OBVFlat); got.Signal != models.SignalNeutral {
		t.Errorf("flat OBV should be neutral, got %v", got.Signal)
	}
}

func TestPutCallSignalThresholds(t *testing.T) {
	cases := []struct {
		ratio float64
		want  models.Signal
	}{
		{0.5, models.SignalBullish},
		{0.7, models.SignalNeutral}, // boundary is neutral
		{0.9, models.SignalNeutral},
		{1.0, models.SignalNeutral}, // boundary is neutral
		{1.3, models.SignalBearish},
	}
	for _, c := range cases {
		if got := PutCallSignal(c.ratio); got.Signal != c.want {
			t.Errorf("PutCallSignal(%v) = %v, want %v", c.ratio, got.Signal, c.want)
		}
	}
}

func TestIVRankSignalThresholds(t *testing.T) {
	cases := []struct {
		rank float64
		want models.Signal
	}{
		{10, models.SignalBullish},
		{30, models.SignalNeutral}, // boundary is neutral
		{50, models.SignalNeutral},
		{70, models.SignalNeutral}, // boundary is neutral
		{90, models.SignalBearish},
	}
	for _, c := range cases {
		if got := IVRankSignal(c.rank); got.Signal != c.want {
			t.Errorf("IVRankSignal(%v) = %v, want %v", c.rank, got.Signal, c.want)
		}
	}
}
