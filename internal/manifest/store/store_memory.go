package store

import (
	"context"
	"sync"

	"rigcheck/internal/manifest/models"
	id "rigcheck/pkg/domain"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[id.ApparatusID][]models.Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[id.ApparatusID][]models.Entry)}
}

// Put replaces the manifest of an apparatus.
func (s *InMemoryStore) Put(apparatusID id.ApparatusID, entries ...models.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[apparatusID] = append([]models.Entry(nil), entries...)
}

// EntriesForApparatus returns a copy; an unknown apparatus has an empty manifest.
func (s *InMemoryStore) EntriesForApparatus(_ context.Context, apparatusID id.ApparatusID) (models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(models.Snapshot(nil), s.entries[apparatusID]...), nil
}
