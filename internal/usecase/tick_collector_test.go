package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"TickerPulse/internal/domain/models"
)

// scriptedStream plays one read session per Read call: the first fails
// with a transient error, the second delivers a tick, later sessions
// stay open until the context is cancelled.
type scriptedStream struct {
	mu         sync.Mutex
	reads      int
	reconnects int
}

func (s *scriptedStream) Connect(ctx context.Context) error   { return nil }
func (s *scriptedStream) Subscribe(ctx context.Context) error { return nil }
func (s *scriptedStream) Close() error                        { return nil }
func (s *scriptedStream) IsConnected() bool                   { return true }

func (s *scriptedStream) Reconnect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconnects++
	return nil
}

func (s *scriptedStream) Read(ctx context.Context) (<-chan *models.Tick, <-chan error) {
	s.mu.Lock()
	s.reads++
	n := s.reads
	s.mu.Unlock()

	ticks := make(chan *models.Tick, 1)
	errs := make(chan error, 1)
	switch n {
	case 1:
		errs <- errors.New("connection reset")
		close(ticks)
		close(errs)
	case 2:
		ticks <- &models.Tick{Symbol: "AAPL", Timestamp: 1700000000, Price: 101.5, Volume: 3}
		close(ticks)
		close(errs)
	default:
		go func() {
			<-ctx.Done()
			close(ticks)
			close(errs)
		}()
	}
	return ticks, errs
}

func (s *scriptedStream) counts() (reads, reconnects int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads, s.reconnects
}

type capturingTickPublisher struct {
	mu    sync.Mutex
	ticks []*models.Tick
}

func (p *capturingTickPublisher) Publish(ctx context.Context, t *models.Tick) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ticks = append(p.ticks, t)
	return nil
}

func (p *capturingTickPublisher) PublishBatch(ctx context.Context, ticks []*models.Tick) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ticks = append(p.ticks, ticks...)
	return nil
}

func (p *capturingTickPublisher) Close() error { return nil }

func (p *capturingTickPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.ticks)
}

type noopMetrics struct{}

func (noopMetrics) RecordMessageSent(backend, symbol string)     {}
func (noopMetrics) RecordError(kind string)                      {}
func (noopMetrics) RecordLastPrice(symbol string, price float64) {}
func (noopMetrics) RecordLatency(op string, seconds float64)     {}

func TestCollectorReconnectsAndKeepsReading(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := &scriptedStream{}
	pub := &capturingTickPublisher{}
	proc := NewTickProcessor(pub, nil, nil, nil, noopMetrics{}, "kafka")
	c := NewTickCollector(stream, proc, noopMetrics{}, nil)

	if err := c.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for pub.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no tick processed after reconnect")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// let the third session start before inspecting counts
	for {
		reads, _ := stream.counts()
		if reads >= 3 || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	reads, reconnects := stream.counts()
	if reads < 3 {
		t.Errorf("reads = %d, want a fresh Read per session (>= 3)", reads)
	}
	if reconnects < 2 {
		t.Errorf("reconnects = %d, want >= 2", reconnects)
	}

	pub.mu.Lock()
	first := pub.ticks[0]
	pub.mu.Unlock()
	if first.Symbol != "AAPL" || first.Price != 101.5 {
		t.Errorf("tick = %+v, want the AAPL tick from the second session", first)
	}
}

func TestCollectorStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	stream := &scriptedStream{}
	pub := &capturingTickPublisher{}
	proc := NewTickProcessor(pub, nil, nil, nil, noopMetrics{}, "kafka")
	c := NewTickCollector(stream, proc, noopMetrics{}, nil)

	if err := c.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		reads, _ := stream.counts()
		if reads >= 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("collector never reached the blocking session")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	time.Sleep(50 * time.Millisecond)
	readsAfterCancel, _ := stream.counts()
	time.Sleep(50 * time.Millisecond)

	reads, _ := stream.counts()
	if reads != readsAfterCancel {
		t.Errorf("reads grew from %d to %d after cancel, want the cycle to stop", readsAfterCancel, reads)
	}
}
