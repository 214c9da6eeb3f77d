package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

type stubHandler struct {
	topic string
	err   error
	calls int
}

func (h *stubHandler) Topic() string { return h.topic }

func (h *stubHandler) Handle(context.Context, []byte) error {
	h.calls++
	return h.err
}

type hookCall struct {
	topic     string
	partition int
	attempts  int
	err       error
}

func newTestConsumer(t *testing.T, h MessageHandler) *Consumer {
	t.Helper()
	c, err := NewConsumer(
		WithConsumerBrokers([]string{"localhost:9092"}),
		WithConsumerRetry(1, time.Millisecond, 2*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("NewConsumer: %v", err)
	}
	c.RegisterHandler(h)
	return c
}

func TestHookSeesSuccessfulHandle(t *testing.T) {
	handler := &stubHandler{topic: "bars"}
	c := newTestConsumer(t, handler)

	var got []hookCall
	c.SetHook(HookFunc(func(topic string, partition, attempts int, err error) {
		got = append(got, hookCall{topic, partition, attempts, err})
	}))

	c.process(context.Background(), inbound{
		topic: "bars",
		msg:   kafka.Message{Partition: 3, Value: []byte(`{}`)},
	})

	if handler.calls != 1 {
		t.Fatalf("expected 1 handler call, got %d", handler.calls)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 hook call, got %d", len(got))
	}
	call := got[0]
	if call.topic != "bars" || call.partition != 3 || call.attempts != 1 || call.err != nil {
		t.Fatalf("unexpected hook call: %+v", call)
	}
}

func TestHookSeesExhaustedRetries(t *testing.T) {
	boom := errors.New("decode failed")
	handler := &stubHandler{topic: "bars", err: boom}
	c := newTestConsumer(t, handler)

	var got []hookCall
	c.SetHook(HookFunc(func(topic string, partition, attempts int, err error) {
		got = append(got, hookCall{topic, partition, attempts, err})
	}))

	c.process(context.Background(), inbound{
		topic: "bars",
		msg:   kafka.Message{Partition: 0, Value: []byte("garbage")},
	})

	// retryMax=1 means one initial try plus one retry.
	if handler.calls != 2 {
		t.Fatalf("expected 2 handler calls, got %d", handler.calls)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 hook call, got %d", len(got))
	}
	call := got[0]
	if call.attempts != 2 || !errors.Is(call.err, boom) {
		t.Fatalf("unexpected hook call: %+v", call)
	}
}

func TestProcessWithoutHookDoesNotPanic(t *testing.T) {
	handler := &stubHandler{topic: "bars"}
	c := newTestConsumer(t, handler)

	c.process(context.Background(), inbound{
		topic: "bars",
		msg:   kafka.Message{Value: []byte(`{}`)},
	})

	if handler.calls != 1 {
		t.Fatalf("expected 1 handler call, got %d", handler.calls)
	}
}
