package eventgraph

import (
	"context"
	"time"
)

// Event is a single entry in the hash-chained, append-only notification log.
type Event struct {
	ID        string         `json:"id"`        // UUID v7 (time-ordered)
	Type      string         `json:"type"`      // e.g. "task.completed"
	Timestamp time.Time      `json:"timestamp"` // when the event occurred
	Source    string         `json:"source"`    // component that emitted
	Content   map[string]any `json:"content"`   // event payload
	Hash      string         `json:"hash"`      // SHA-256 of canonical form
	PrevHash  string         `json:"prev_hash"` // hash chain link
}

// EventStore is the contract for event storage.
type EventStore interface {
	Append(ctx context.Context, eventType, source string, content map[string]any) (*Event, error)
	Recent(ctx context.Context, limit int) ([]Event, error)
	ByType(ctx context.Context, eventType string, limit int) ([]Event, error)
	Count(ctx context.Context) (int, error)
	VerifyChain(ctx context.Context) error
}
