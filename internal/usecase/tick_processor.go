package usecase

import (
	"context"
	"fmt"
	"time"

	"TickerPulse/internal/domain/models"
	drepo "TickerPulse/internal/domain/repository"
)

// TickProcessor routes ticks to the configured backend and folds them
// into OHLCV bars, publishing each sealed bar to the bars topic.
type TickProcessor struct {
	pub     drepo.TickPublisher
	store   drepo.TickStorage
	bars    drepo.BarPublisher // optional
	builder *BarBuilder        // optional
	metrics drepo.Metrics
	backend string
}

// NewTickProcessor creates a new TickProcessor instance.
func NewTickProcessor(
	pub drepo.TickPublisher,
	store drepo.TickStorage,
	bars drepo.BarPublisher,
	builder *BarBuilder,
	metrics drepo.Metrics,
	backend string,
) *TickProcessor {
	return &TickProcessor{
		pub:     pub,
		store:   store,
		bars:    bars,
		builder: builder,
		metrics: metrics,
		backend: backend,
	}
}

// Process routes a single tick to the configured backend.
func (p *TickProcessor) Process(ctx context.Context, t *models.Tick) error {
	if t == nil {
		return fmt.Errorf("tick is nil")
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.Publish(ctx, t)
	case "clickhouse":
		err = p.store.Store(ctx, t)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process tick: %w", err)
	}

	p.metrics.RecordMessageSent(p.backend, t.Symbol)
	p.metrics.RecordLatency("process", time.Since(start).Seconds())

	if p.builder != nil {
		if sealed := p.builder.Add(t); sealed != nil && p.bars != nil {
			if err := p.bars.PublishBar(ctx, sealed); err != nil {
				p.metrics.RecordError("bar_publish")
			}
		}
	}
	return nil
}

// ProcessBatch routes multiple ticks in a batch.
func (p *TickProcessor) ProcessBatch(ctx context.Context, ticks []*models.Tick) error {
	if len(ticks) == 0 {
		return nil
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.PublishBatch(ctx, ticks)
	case "clickhouse":
		err = p.store.StoreBatch(ctx, ticks)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process_batch")
		return fmt.Errorf("process batch: %w", err)
	}

	for _, t := range ticks {
		p.metrics.RecordMessageSent(p.backend, t.Symbol)
	}
	p.metrics.RecordLatency("process_batch", time.Since(start).Seconds())
	return nil
}

// Close seals and publishes any working bars, then closes resources.
func (p *TickProcessor) Close() {
	if p.builder != nil && p.bars != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		for _, b := range p.builder.Flush() {
			bar := b
			if err := p.bars.PublishBar(ctx, &bar); err != nil {
				p.metrics.RecordError("bar_publish")
			}
		}
		cancel()
	}
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
	if p.bars != nil {
		_ = p.bars.Close()
	}
}
