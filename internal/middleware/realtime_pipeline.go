package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TickerPulse/internal/domain/models"
	domrepo "TickerPulse/internal/domain/repository"
)

// Proc is the downstream side of the pipeline.
type Proc interface {
	Process(ctx context.Context, t *models.Tick) error
}

// RealtimePipeline sits between the market stream and the backend. It
// validates ticks, enforces a per-symbol rate, and buffers when the
// backend rejects a tick so a short outage does not lose data.
type RealtimePipeline struct {
	proc    Proc
	metrics domrepo.Metrics

	minGap time.Duration // minimum spacing between accepted ticks per symbol
	bufCh  chan *models.Tick
	stopCh chan struct{}

	mu       sync.Mutex
	started  bool
	lastSeen map[string]time.Time
}

type PipelineOption func(*pipelineConfig)

type pipelineConfig struct {
	maxRPS  int
	bufSize int
}

// WithMaxRPS caps accepted ticks per second per symbol.
func WithMaxRPS(n int) PipelineOption {
	return func(c *pipelineConfig) {
		if n > 0 {
			c.maxRPS = n
		}
	}
}

// WithBufferSize sets how many ticks may wait out a backend outage.
func WithBufferSize(n int) PipelineOption {
	return func(c *pipelineConfig) {
		if n > 0 {
			c.bufSize = n
		}
	}
}

func NewRealtimePipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *RealtimePipeline {
	cfg := pipelineConfig{maxRPS: 20, bufSize: 1000}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &RealtimePipeline{
		proc:     proc,
		metrics:  metrics,
		minGap:   time.Second / time.Duration(cfg.maxRPS),
		bufCh:    make(chan *models.Tick, cfg.bufSize),
		stopCh:   make(chan struct{}),
		lastSeen: make(map[string]time.Time),
	}
}

// Start launches the background flusher that retries buffered ticks.
func (p *RealtimePipeline) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true
	go p.flushLoop(ctx)
}

// Stop terminates the background flusher.
func (p *RealtimePipeline) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return
	}
	p.started = false
	close(p.stopCh)
}

// Process validates, throttles, and forwards one tick. A downstream
// failure buffers the tick for the flusher and returns the error.
func (p *RealtimePipeline) Process(ctx context.Context, t *models.Tick) error {
	start := time.Now()

	if err := checkTick(t); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if !p.admit(t.Symbol, start) {
		// over the per-symbol rate; dropped without error
		p.metrics.RecordError("pipeline_throttle")
		return nil
	}

	if err := p.proc.Process(ctx, t); err != nil {
		p.metrics.RecordError("pipeline_process")
		select {
		case p.bufCh <- t:
			p.metrics.RecordLatency("pipeline_buffer_depth", float64(len(p.bufCh)))
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}

	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

// flushLoop retries buffered ticks with exponential backoff while the
// backend keeps failing, and requeues what it cannot deliver.
func (p *RealtimePipeline) flushLoop(ctx context.Context) {
	backoff := 50 * time.Millisecond

	for {
		select {
		case <-p.stopCh:
			return
		case t := <-p.bufCh:
			if t == nil {
				continue
			}
			if err := p.proc.Process(ctx, t); err != nil {
				p.metrics.RecordError("pipeline_flush")
				if backoff < 2*time.Second {
					backoff *= 2
				}
				time.Sleep(backoff)
				select {
				case p.bufCh <- t:
				default:
					p.metrics.RecordError("pipeline_buffer_drop")
				}
				continue
			}
			backoff = 50 * time.Millisecond
		}
	}
}

func checkTick(t *models.Tick) error {
	switch {
	case t == nil:
		return fmt.Errorf("tick nil")
	case t.Symbol == "":
		return fmt.Errorf("symbol empty")
	case t.Timestamp <= 0:
		return fmt.Errorf("timestamp invalid")
	case t.Price < 0 || t.Volume < 0:
		return fmt.Errorf("negative price/volume")
	}
	return nil
}

// admit reports whether a tick for symbol may pass at now, updating the
// symbol's slot when it does.
func (p *RealtimePipeline) admit(symbol string, now time.Time) bool {
	if p.minGap <= 0 {
		return true
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	last, seen := p.lastSeen[symbol]
	if seen && now.Sub(last) < p.minGap {
		return false
	}
	p.lastSeen[symbol] = now
	return true
}
