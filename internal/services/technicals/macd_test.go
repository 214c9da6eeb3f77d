package technicals

import (
	"math"
	"testing"
)

func rampSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + float64(i) + 3*math.Sin(float64(i)/3)
	}
	return out
}

func TestMACDHistogramConsistency(t *testing.T) {
	closes := rampSeries(60)
	res := MACD(closes, 12, 26, 9)
	if len(res.SignalLine) == 0 {
		t.Fatalf("expected non-empty signal line")
	}
	if !almostEqual(res.Histogram, res.MACD-res.Signal) {
		t.Fatalf("histogram %v != macd-signal %v", res.Histogram, res.MACD-res.Signal)
	}
	// Alignment: every histogram point equals macd minus signal.
	shift := len(res.MACDLine) - len(res.SignalLine)
	for i := range res.SignalLine {
		want := res.MACDLine[i+shift] - res.SignalLine[i]
		if !almostEqual(res.HistogramLine[i], want) {
			t.Fatalf("histogram point %d: expected %v, got %v", i, want, res.HistogramLine[i])
		}
	}
}

func TestMACDLineLengths(t *testing.T) {
	closes := rampSeries(60)
	res := MACD(closes, 12, 26, 9)
	if len(res.MACDLine) != len(closes)-26+1 {
		t.Fatalf("macd line length %d, expected %d", len(res.MACDLine), len(closes)-26+1)
	}
	if len(res.SignalLine) != len(res.MACDLine)-9+1 {
		t.Fatalf("signal line length %d, expected %d", len(res.SignalLine), len(res.MACDLine)-9+1)
	}
	if len(res.HistogramLine) != len(res.SignalLine) {
		t.Fatalf("histogram line length %d, expected %d", len(res.HistogramLine), len(res.SignalLine))
	}
}

func TestMACDDegradesOnShortInput(t *testing.T) {
	res := MACD(rampSeries(20), 12, 26, 9)
	if res.MACD != 0 || res.Signal != 0 || res.Histogram != 0 {
		t.Fatalf("expected zero scalars, got %+v", res)
	}
	if len(res.MACDLine) != 0 || len(res.SignalLine) != 0 || len(res.HistogramLine) != 0 {
		t.Fatalf("expected empty lines, got %+v", res)
	}
}

func TestMACDScalarsMatchLineTails(t *testing.T) {
	closes := rampSeries(80)
	res := MACD(closes, 12, 26, 9)
	if res.MACD != res.MACDLine[len(res.MACDLine)-1] {
		t.Fatalf("macd scalar does not match line tail")
	}
	if res.Signal != res.SignalLine[len(res.SignalLine)-1] {
		t.Fatalf("signal scalar does not match line tail")
	}
}
