package audit

import (
	"context"
	"sync"

	id "vetgate/pkg/domain"
)

// Store is an append-only audit sink.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByCase(ctx context.Context, caseID id.CaseID) ([]Event, error)
}

// MemoryStore keeps audit events in memory, keyed by case. It favors clarity
// over performance and backs tests and local runs.
type MemoryStore struct {
	mu     sync.RWMutex
	events map[id.CaseID][]Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{events: make(map[id.CaseID][]Event)}
}

func (s *MemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.CaseID] = append(s.events[event.CaseID], event)
	return nil
}

func (s *MemoryStore) ListByCase(_ context.Context, caseID id.CaseID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[caseID]...), nil
}
