package repository

import (
	"context"
	"time"

	"TickerPulse/internal/domain/models"
)

// TickStream is a live trade feed from a market-data provider.
type TickStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Tick, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// QuoteProvider supplies the current price and options context for a symbol.
// Implementations degrade by returning an error; callers omit the dependent
// signals rather than aborting the whole analysis.
type QuoteProvider interface {
	LastPrice(ctx context.Context, symbol string) (float64, error)
	OptionStats(ctx context.Context, symbol string) (models.OptionStats, error)
}

// TickPublisher publishes raw ticks to the streaming backend.
type TickPublisher interface {
	Publish(ctx context.Context, t *models.Tick) error
	PublishBatch(ctx context.Context, ticks []*models.Tick) error
	Close() error
}

// TickStorage persists raw ticks.
type TickStorage interface {
	Init(ctx context.Context) error
	Store(ctx context.Context, t *models.Tick) error
	StoreBatch(ctx context.Context, ticks []*models.Tick) error
	Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.Tick, error)
	Health(ctx context.Context) error
	Close() error
}

// BarPublisher publishes sealed OHLCV bars to the streaming backend.
type BarPublisher interface {
	PublishBar(ctx context.Context, b *models.Bar) error
	Close() error
}

// BarWriter persists sealed OHLCV bars.
type BarWriter interface {
	StoreBar(ctx context.Context, b *models.Bar) error
}

// ReportPublisher publishes computed symbol reports for downstream consumers.
type ReportPublisher interface {
	PublishReport(ctx context.Context, r *models.SymbolReport) error
	Close() error
}

// Metrics records operational metrics.
type Metrics interface {
	RecordMessageSent(backend, symbol string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
