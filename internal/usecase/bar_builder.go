package usecase

import (
	"sync"
	"time"

	"TickerPulse/internal/domain/models"
	domrepo "TickerPulse/internal/domain/repository"
)

// BarBuilder folds a tick stream into OHLCV bars, one working bar per
// symbol. A tick landing in a new bucket seals and returns the previous
// bar. Safe for concurrent use.
type BarBuilder struct {
	interval time.Duration
	mu       sync.Mutex
	working  map[string]*models.Bar
}

func NewBarBuilder(tf domrepo.Timeframe) *BarBuilder {
	return &BarBuilder{interval: tf.Duration(), working: make(map[string]*models.Bar)}
}

// Add folds one tick in. The returned bar is non-nil only when the tick
// opened a new bucket and sealed the previous one.
func (b *BarBuilder) Add(t *models.Tick) *models.Bar {
	if t == nil {
		return nil
	}
	bucket := time.Unix(t.Timestamp, 0).UTC().Truncate(b.interval)

	b.mu.Lock()
	defer b.mu.Unlock()

	cur, ok := b.working[t.Symbol]
	if !ok {
		b.working[t.Symbol] = newBar(t, bucket)
		return nil
	}
	if bucket.Equal(cur.Bucket) {
		applyTick(cur, t)
		return nil
	}
	// Late ticks for an already-sealed bucket are dropped rather than
	// rewriting history.
	if bucket.Before(cur.Bucket) {
		return nil
	}
	sealed := *cur
	b.working[t.Symbol] = newBar(t, bucket)
	return &sealed
}

// Flush seals and returns all working bars, e.g. on shutdown.
func (b *BarBuilder) Flush() []models.Bar {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Bar, 0, len(b.working))
	for _, bar := range b.working {
		out = append(out, *bar)
	}
	b.working = make(map[string]*models.Bar)
	return out
}

func newBar(t *models.Tick, bucket time.Time) *models.Bar {
	return &models.Bar{
		Bucket: bucket,
		Symbol: t.Symbol,
		Open:   t.Price,
		High:   t.Price,
		Low:    t.Price,
		Close:  t.Price,
		Volume: t.Volume,
	}
}

func applyTick(b *models.Bar, t *models.Tick) {
	if t.Price > b.High {
		b.High = t.Price
	}
	if t.Price < b.Low {
		b.Low = t.Price
	}
	b.Close = t.Price
	b.Volume += t.Volume
}
