package technicals

import (
	"errors"
	"testing"
)

func TestStochasticBounds(t *testing.T) {
	closes := rampSeries(30)
	highs := make([]float64, len(closes))
	lows := make([]float64, len(closes))
	for i, c := range closes {
		highs[i] = c + 1
		lows[i] = c - 1
	}
	res, err := Stochastic(highs, lows, closes, 14, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.K < 0 || res.K > 100 {
		t.Fatalf("%%K out of bounds: %v", res.K)
	}
	if res.D < 0 || res.D > 100 {
		t.Fatalf("%%D out of bounds: %v", res.D)
	}
}

func TestStochasticZeroRangeMidpoint(t *testing.T) {
	n := 20
	flat := make([]float64, n)
	for i := range flat {
		flat[i] = 77
	}
	res, err := Stochastic(flat, flat, flat, 14, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.K != 50 || res.D != 50 {
		t.Fatalf("expected midpoint 50 on zero range, got %+v", res)
	}
}

func TestStochasticCloseAtHigh(t *testing.T) {
	highs := []float64{1, 2, 3}
	lows := []float64{1, 2, 3}
	closes := []float64{1, 2, 3}
	res, err := Stochastic(highs, lows, closes, 3, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(res.K, 100) {
		t.Fatalf("expected %%K 100 at window high, got %v", res.K)
	}
}

func TestStochasticInsufficientData(t *testing.T) {
	short := []float64{1, 2, 3}
	_, err := Stochastic(short, short, short, 14, 3)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestStochasticMismatchedLengths(t *testing.T) {
	_, err := Stochastic([]float64{1, 2}, []float64{1, 2, 3}, []float64{1, 2, 3}, 2, 2)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
