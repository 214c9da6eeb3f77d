package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Job handles one message type pulled off the queue.
type Job interface {
	// Name identifies the job in logs.
	Name() string

	// Type is the message type this job consumes.
	Type() string

	// Handle processes one payload.
	Handle(ctx context.Context, payload interface{}) error
}

// Config tunes the queue's consumer side.
type Config struct {
	Workers    int
	RetryLimit int
	RetryDelay time.Duration
}

// ParsePayload converts a queued payload back into T. Payloads arrive as
// json.RawMessage after a round trip through redis, but direct local
// enqueues may hand the typed value straight through.
func ParsePayload[T any](payload interface{}) (*T, error) {
	switch p := payload.(type) {
	case *T:
		return p, nil
	case T:
		return &p, nil
	case json.RawMessage:
		var out T
		if err := json.Unmarshal(p, &out); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		return &out, nil
	default:
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("re-encode payload %T: %w", payload, err)
		}
		var out T
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("decode payload %T: %w", payload, err)
		}
		return &out, nil
	}
}
