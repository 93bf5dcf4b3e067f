package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	audit "rigcheck/pkg/platform/audit"
)

// InMemoryStore keeps events in append order. It backs the audit trail for single-process
// deployments and tests, and takes part in tx.MemoryRunner rollbacks.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
	ids    []uuid.UUID
	seen   map[uuid.UUID]struct{}
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{seen: make(map[uuid.UUID]struct{})}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
	s.ids = nil
	s.seen = make(map[uuid.UUID]struct{})
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	s.ids = append(s.ids, uuid.Nil)
	return nil
}

// AppendWithID appends once per event id.
func (s *InMemoryStore) AppendWithID(_ context.Context, eventID uuid.UUID, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.seen[eventID]; dup {
		return nil
	}
	s.seen[eventID] = struct{}{}
	s.events = append(s.events, event)
	s.ids = append(s.ids, eventID)
	return nil
}

func (s *InMemoryStore) ListBySubject(_ context.Context, subjectType, subjectID string) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []audit.Event
	for _, e := range s.events {
		if e.SubjectType == subjectType && e.SubjectID == subjectID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ListRecent returns up to limit events, newest first.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]audit.Event(nil), s.events...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// All returns every event in append order.
func (s *InMemoryStore) All() []audit.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event(nil), s.events...)
}

// Snapshot implements tx.Snapshotter.
func (s *InMemoryStore) Snapshot() func() {
	s.mu.RLock()
	n := len(s.events)
	s.mu.RUnlock()
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if len(s.events) <= n {
			return
		}
		for _, eventID := range s.ids[n:] {
			delete(s.seen, eventID)
		}
		s.events = s.events[:n]
		s.ids = s.ids[:n]
	}
}
