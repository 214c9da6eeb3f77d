package technicals

import (
	"errors"
	"testing"

	"TickerPulse/internal/domain/models"
)

func TestOBVCumulative(t *testing.T) {
	closes := []float64{10, 11, 11, 10}
	volumes := []float64{100, 200, 300, 400}
	res, err := OBV(closes, volumes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{0, 200, 200, -200}
	if len(res.Values) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(res.Values))
	}
	for i := range want {
		if res.Values[i] != want[i] {
			t.Fatalf("value %d: expected %v, got %v", i, want[i], res.Values[i])
		}
	}
	if res.Current != -200 {
		t.Fatalf("expected current -200, got %v", res.Current)
	}
}

func TestOBVFallingTrend(t *testing.T) {
	closes := []float64{10, 11, 11, 10}
	volumes := []float64{100, 200, 300, 400}
	res, err := OBV(closes, volumes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Trend != models.OBVFalling {
		t.Fatalf("expected falling trend, got %v", res.Trend)
	}
}

func TestOBVRisingTrend(t *testing.T) {
	closes := []float64{10, 11, 12, 13, 14, 15}
	volumes := []float64{100, 100, 100, 100, 100, 100}
	res, err := OBV(closes, volumes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Trend != models.OBVRising {
		t.Fatalf("expected rising trend, got %v", res.Trend)
	}
}

func TestOBVFlatCloses(t *testing.T) {
	closes := []float64{10, 10, 10, 10}
	volumes := []float64{100, 200, 300, 400}
	res, err := OBV(closes, volumes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Current != 0 || res.Trend != models.OBVFlat {
		t.Fatalf("expected flat zero OBV, got %+v", res)
	}
}

func TestOBVMismatchedLengths(t *testing.T) {
	_, err := OBV([]float64{1, 2, 3}, []float64{1, 2})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
