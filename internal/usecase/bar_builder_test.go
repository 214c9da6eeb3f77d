package usecase

import (
	"testing"
	"time"

	"TickerPulse/internal/domain/models"
	domrepo "TickerPulse/internal/domain/repository"
)

func tick(symbol string, ts int64, price, volume float64) *models.Tick {
	return &models.Tick{Symbol: symbol, Timestamp: ts, Price: price, Volume: volume}
}

func TestBarBuilderFoldsSameBucket(t *testing.T) {
	b := NewBarBuilder(domrepo.TF1m)

	base := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC).Unix()
	if sealed := b.Add(tick("AAPL", base, 100, 10)); sealed != nil {
		t.Fatalf("first tick should not seal a bar, got %+v", sealed)
	}
	if sealed := b.Add(tick("AAPL", base+10, 103, 5)); sealed != nil {
		t.Fatalf("same-bucket tick should not seal a bar, got %+v", sealed)
	}
	if sealed := b.Add(tick("AAPL", base+20, 99, 2)); sealed != nil {
		t.Fatalf("same-bucket tick should not seal a bar, got %+v", sealed)
	}

	bars := b.Flush()
	if len(bars) != 1 {
		t.Fatalf("expected 1 working bar, got %d", len(bars))
	}
	bar := bars[0]
	if bar.Open != 100 || bar.High != 103 || bar.Low != 99 || bar.Close != 99 {
		t.Fatalf("unexpected ohlc: %+v", bar)
	}
	if bar.Volume != 17 {
		t.Fatalf("expected volume 17, got %v", bar.Volume)
	}
}

func TestBarBuilderSealsOnNewBucket(t *testing.T) {
	b := NewBarBuilder(domrepo.TF1m)

	base := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC).Unix()
	b.Add(tick("AAPL", base, 100, 10))
	b.Add(tick("AAPL", base+30, 105, 10))

	sealed := b.Add(tick("AAPL", base+60, 104, 1))
	if sealed == nil {
		t.Fatal("expected new bucket to seal the previous bar")
	}
	if sealed.Close != 105 || sealed.Volume != 20 {
		t.Fatalf("sealed bar has wrong state: %+v", sealed)
	}
	if !sealed.Bucket.Equal(time.Unix(base, 0).UTC()) {
		t.Fatalf("sealed bucket %v, want %v", sealed.Bucket, time.Unix(base, 0).UTC())
	}

	// The new working bar opens at the tick that sealed the old one.
	bars := b.Flush()
	if len(bars) != 1 || bars[0].Open != 104 {
		t.Fatalf("unexpected working bars after seal: %+v", bars)
	}
}

func TestBarBuilderDropsLateTicks(t *testing.T) {
	b := NewBarBuilder(domrepo.TF1m)

	base := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC).Unix()
	b.Add(tick("AAPL", base+60, 100, 10))

	if sealed := b.Add(tick("AAPL", base, 999, 999)); sealed != nil {
		t.Fatalf("late tick should be dropped, got %+v", sealed)
	}
	bars := b.Flush()
	if len(bars) != 1 {
		t.Fatalf("expected 1 working bar, got %d", len(bars))
	}
	if bars[0].High == 999 || bars[0].Volume != 10 {
		t.Fatalf("late tick mutated the working bar: %+v", bars[0])
	}
}

func TestBarBuilderTracksSymbolsIndependently(t *testing.T) {
	b := NewBarBuilder(domrepo.TF1m)

	base := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC).Unix()
	b.Add(tick("AAPL", base, 100, 1))
	b.Add(tick("MSFT", base, 400, 1))

	// Rolling AAPL over must not seal MSFT.
	sealed := b.Add(tick("AAPL", base+60, 101, 1))
	if sealed == nil || sealed.Symbol != "AAPL" {
		t.Fatalf("expected AAPL seal, got %+v", sealed)
	}
	bars := b.Flush()
	if len(bars) != 2 {
		t.Fatalf("expected 2 working bars, got %d", len(bars))
	}
}

func TestBarBuilderFlushResets(t *testing.T) {
	b := NewBarBuilder(domrepo.TF1m)
	b.Add(tick("AAPL", time.Now().Unix(), 100, 1))

	if got := len(b.Flush()); got != 1 {
		t.Fatalf("expected 1 bar on first flush, got %d", got)
	}
	if got := len(b.Flush()); got != 0 {
		t.Fatalf("expected empty second flush, got %d", got)
	}
}

func TestBarBuilderNilTick(t *testing.T) {
	b := NewBarBuilder(domrepo.TF1m)
	if sealed := b.Add(nil); sealed != nil {
		t.Fatalf("nil tick should be ignored, got %+v", sealed)
	}
}
