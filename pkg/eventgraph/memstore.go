package eventgraph

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// record is a stored event. Content lives only as the JSON that was hashed,
// so nothing a caller does to a returned Event can reach the log.
type record struct {
	event   Event
	content []byte
}

// toEvent returns a copy of the event with freshly decoded content.
func (r record) toEvent() Event {
	e := r.event
	if err := json.Unmarshal(r.content, &e.Content); err != nil {
		e.Content = map[string]any{}
	}
	return e
}

// MemStore is an in-memory EventStore with hash-chained integrity.
type MemStore struct {
	clock   clockwork.Clock
	mu      sync.RWMutex
	records []record
}

// NewMemStore creates a MemStore stamping events with the given clock.
func NewMemStore(clock clockwork.Clock) *MemStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemStore{clock: clock}
}

// Append creates and stores a new event, extending the hash chain.
// The returned event is a copy; its Content does not alias content.
func (s *MemStore) Append(_ context.Context, eventType, source string, content map[string]any) (*Event, error) {
	if content == nil {
		content = map[string]any{}
	}

	contentJSON, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("marshal content: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("new event id: %w", err)
	}
	now := s.clock.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	var prevHash string
	if n := len(s.records); n > 0 {
		prevHash = s.records[n-1].event.Hash
	}

	r := record{
		event: Event{
			ID:        id.String(),
			Type:      eventType,
			Timestamp: now,
			Source:    source,
			Hash:      computeHash(prevHash, id.String(), eventType, source, now, contentJSON),
			PrevHash:  prevHash,
		},
		content: contentJSON,
	}
	s.records = append(s.records, r)

	e := r.toEvent()
	return &e, nil
}

// Recent returns up to limit events, newest first.
func (s *MemStore) Recent(_ context.Context, limit int) ([]Event, error) {
	return s.newest(limit, func(Event) bool { return true }), nil
}

// ByType returns up to limit events of the given type, newest first.
func (s *MemStore) ByType(_ context.Context, eventType string, limit int) ([]Event, error) {
	return s.newest(limit, func(e Event) bool { return e.Type == eventType }), nil
}

// Count returns the number of stored events.
func (s *MemStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// VerifyChain walks the log in order and checks every link and hash.
func (s *MemStore) VerifyChain(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prevHash := ""
	for i, r := range s.records {
		e := r.event
		if e.PrevHash != prevHash {
			return fmt.Errorf("event %d (%s): prev_hash mismatch: got %s, want %s", i, e.ID, e.PrevHash, prevHash)
		}
		expected := computeHash(prevHash, e.ID, e.Type, e.Source, e.Timestamp, r.content)
		if e.Hash != expected {
			return fmt.Errorf("event %d (%s): hash mismatch: got %s, want %s", i, e.ID, e.Hash, expected)
		}
		prevHash = e.Hash
	}
	return nil
}

func (s *MemStore) newest(limit int, match func(Event) bool) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Event
	for i := len(s.records) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if match(s.records[i].event) {
			out = append(out, s.records[i].toEvent())
		}
	}
	return out
}

// computeHash computes a SHA-256 hash for chain integrity.
func computeHash(prevHash, id, eventType, source string, timestamp time.Time, contentJSON []byte) string {
	data := fmt.Sprintf("%s|%s|%s|%s|%d|%s", prevHash, id, eventType, source, timestamp.UnixNano(), string(contentJSON))
	h := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", h)
}
