package events

import (
	"time"
)

// OperationEvent mirrors a cart ledger entry onto the event stream.
type OperationEvent struct {
	EventID       string         `json:"event_id"`
	CartID        string         `json:"cart_id"`
	OperationType string         `json:"operation_type"`
	Details       map[string]any `json:"details,omitempty"`
	OccurredAt    time.Time      `json:"occurred_at"`
	Producer      string         `json:"producer"`
}

// Publisher emits cart operation events. Publishing is fire-and-forget:
// failures are logged by the implementation and never fail the originating
// cart mutation.
type Publisher interface {
	Publish(event OperationEvent)
	Close() error
}

// NopPublisher discards all events. Used when event publishing is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(OperationEvent) {}

func (NopPublisher) Close() error { return nil }
