package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"TickerPulse/internal/domain/models"
)

type countingProc struct {
	mu       sync.Mutex
	ticks    []*models.Tick
	failWith error
}

func (c *countingProc) Process(_ context.Context, t *models.Tick) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return c.failWith
	}
	c.ticks = append(c.ticks, t)
	return nil
}

func (c *countingProc) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ticks)
}

type nopMetrics struct{}

func (nopMetrics) RecordMessageSent(string, string) {}
func (nopMetrics) RecordError(string)               {}
func (nopMetrics) RecordLastPrice(string, float64)  {}
func (nopMetrics) RecordLatency(string, float64)    {}

func validTick() *models.Tick {
	return &models.Tick{Symbol: "AAPL", Timestamp: time.Now().Unix(), Price: 100, Volume: 1}
}

func TestPipelineForwardsValidTick(t *testing.T) {
	proc := &countingProc{}
	p := NewRealtimePipeline(proc, nopMetrics{})

	if err := p.Process(context.Background(), validTick()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proc.count() != 1 {
		t.Fatalf("expected 1 forwarded tick, got %d", proc.count())
	}
}

func TestPipelineRejectsInvalidTicks(t *testing.T) {
	proc := &countingProc{}
	p := NewRealtimePipeline(proc, nopMetrics{})

	bad := []*models.Tick{
		nil,
		{Symbol: "", Timestamp: 1, Price: 1},
		{Symbol: "AAPL", Timestamp: 0, Price: 1},
		{Symbol: "AAPL", Timestamp: 1, Price: -1},
	}
	for _, tick := range bad {
		if err := p.Process(context.Background(), tick); err == nil {
			t.Errorf("expected validation error for %+v", tick)
		}
	}
	if proc.count() != 0 {
		t.Fatalf("invalid ticks reached downstream: %d", proc.count())
	}
}

func TestPipelineThrottlesPerSymbol(t *testing.T) {
	proc := &countingProc{}
	p := NewRealtimePipeline(proc, nopMetrics{}, WithMaxRPS(1))

	// Second tick inside the same second is dropped without error.
	if err := p.Process(context.Background(), validTick()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Process(context.Background(), validTick()); err != nil {
		t.Fatalf("throttled tick should drop silently: %v", err)
	}
	if proc.count() != 1 {
		t.Fatalf("expected 1 forwarded tick, got %d", proc.count())
	}

	// A different symbol has its own budget.
	other := validTick()
	other.Symbol = "MSFT"
	if err := p.Process(context.Background(), other); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proc.count() != 2 {
		t.Fatalf("expected 2 forwarded ticks, got %d", proc.count())
	}
}

func TestPipelineBuffersOnDownstreamError(t *testing.T) {
	proc := &countingProc{failWith: errors.New("backend down")}
	p := NewRealtimePipeline(proc, nopMetrics{}, WithBufferSize(10))

	err := p.Process(context.Background(), validTick())
	if err == nil {
		t.Fatal("expected downstream error to propagate")
	}
	if len(p.bufCh) != 1 {
		t.Fatalf("expected 1 buffered tick, got %d", len(p.bufCh))
	}

	// Once downstream recovers, the background flusher drains the buffer.
	proc.mu.Lock()
	proc.failWith = nil
	proc.mu.Unlock()

	p.Start(context.Background())
	defer p.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if proc.count() == 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("buffered tick never flushed, forwarded=%d", proc.count())
}
