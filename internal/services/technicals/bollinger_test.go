package technicals

import (
	"errors"
	"testing"
)

func TestBollingerOrdering(t *testing.T) {
	closes := rampSeries(40)
	b, err := BollingerBands(closes, 20, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Lower > b.Middle || b.Middle > b.Upper {
		t.Fatalf("band ordering violated: %+v", b)
	}
	if !almostEqual(b.Width, b.Upper-b.Lower) {
		t.Fatalf("width %v != upper-lower %v", b.Width, b.Upper-b.Lower)
	}
}

func TestBollingerConstantSeries(t *testing.T) {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 42.5
	}
	b, err := BollingerBands(closes, 20, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Upper != 42.5 || b.Middle != 42.5 || b.Lower != 42.5 {
		t.Fatalf("expected collapsed bands at price, got %+v", b)
	}
	// Zero-variance window: %B is defined as the neutral midpoint.
	if b.PercentB != 0.5 {
		t.Fatalf("expected percentB 0.5 on zero variance, got %v", b.PercentB)
	}
}

func TestBollingerInsufficientData(t *testing.T) {
	_, err := BollingerBands([]float64{1, 2, 3}, 20, 2)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestBollingerPopulationVariance(t *testing.T) {
	// Window {2,4,4,4,5,5,7,9}: mean 5, population stddev 2.
	closes := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	b, err := BollingerBands(closes, 8, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(b.Middle, 5) {
		t.Fatalf("expected middle 5, got %v", b.Middle)
	}
	if !almostEqual(b.Upper, 9) || !almostEqual(b.Lower, 1) {
		t.Fatalf("expected bands [1, 9], got [%v, %v]", b.Lower, b.Upper)
	}
	// price 9 against bands [1,9]: %B = 1.
	if !almostEqual(b.PercentB, 1) {
		t.Fatalf("expected percentB 1, got %v", b.PercentB)
	}
}
