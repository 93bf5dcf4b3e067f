package audit

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"rigcheck/internal/inventory/models"
	id "rigcheck/pkg/domain"
	"rigcheck/pkg/platform/sentinel"
)

// InMemoryStore mirrors the check store for formal audits.
type InMemoryStore struct {
	mu       sync.RWMutex
	audits   map[id.AuditID]models.FormalAudit
	active   map[id.ApparatusID]id.AuditID
	items    map[id.AuditID][]*models.FormalAuditItem
	itemKeys map[id.AuditID]map[string]id.AuditItemID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		audits:   make(map[id.AuditID]models.FormalAudit),
		active:   make(map[id.ApparatusID]id.AuditID),
		items:    make(map[id.AuditID][]*models.FormalAuditItem),
		itemKeys: make(map[id.AuditID]map[string]id.AuditItemID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, audit *models.InProgressAudit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.active[audit.ApparatusID]; busy {
		return sentinel.ErrConflict
	}
	if _, exists := s.audits[audit.ID]; exists {
		return sentinel.ErrAlreadyUsed
	}
	s.audits[audit.ID] = audit
	s.active[audit.ApparatusID] = audit.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, auditID id.AuditID) (models.FormalAudit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	audit, ok := s.audits[auditID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return audit, nil
}

func (s *InMemoryStore) FindByIDForUpdate(ctx context.Context, auditID id.AuditID) (models.FormalAudit, error) {
	return s.FindByID(ctx, auditID)
}

func (s *InMemoryStore) FindActiveByApparatus(_ context.Context, apparatusID id.ApparatusID) (*models.InProgressAudit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	auditID, ok := s.active[apparatusID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.audits[auditID].(*models.InProgressAudit), nil
}

func (s *InMemoryStore) Save(_ context.Context, audit models.FormalAudit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := audit.Header()
	if _, ok := s.audits[h.ID]; !ok {
		return sentinel.ErrNotFound
	}
	activeID, busy := s.active[h.ApparatusID]
	if audit.Status() == models.AuditStatusInProgress {
		if busy && activeID != h.ID {
			return sentinel.ErrConflict
		}
		s.active[h.ApparatusID] = h.ID
	} else if busy && activeID == h.ID {
		delete(s.active, h.ApparatusID)
	}
	s.audits[h.ID] = audit
	return nil
}

// ListStale returns in-progress audits idle since cutoff or earlier, oldest first. An
// empty stationIDs matches every station.
func (s *InMemoryStore) ListStale(_ context.Context, cutoff time.Time, stationIDs []id.StationID) ([]*models.InProgressAudit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.InProgressAudit
	for _, auditID := range s.active {
		a := s.audits[auditID].(*models.InProgressAudit)
		if a.LastActivityAt.After(cutoff) {
			continue
		}
		if len(stationIDs) > 0 && !slices.Contains(stationIDs, a.StationID) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastActivityAt.Before(out[j].LastActivityAt) })
	return out, nil
}

func (s *InMemoryStore) ItemExists(_ context.Context, auditID id.AuditID, target models.VerificationTarget) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.itemKeys[auditID][target.Key()]
	return ok, nil
}

func (s *InMemoryStore) AddItem(_ context.Context, item *models.FormalAuditItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.audits[item.AuditID]; !ok {
		return sentinel.ErrNotFound
	}
	keys := s.itemKeys[item.AuditID]
	if keys == nil {
		keys = make(map[string]id.AuditItemID)
		s.itemKeys[item.AuditID] = keys
	}
	if _, dup := keys[item.Target.Key()]; dup {
		return sentinel.ErrAlreadyUsed
	}
	keys[item.Target.Key()] = item.ID
	s.items[item.AuditID] = append(s.items[item.AuditID], item)
	return nil
}

func (s *InMemoryStore) LinkIssue(_ context.Context, auditID id.AuditID, itemID id.AuditItemID, issueID id.IssueID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.items[auditID]
	for i, item := range items {
		if item.ID != itemID {
			continue
		}
		linked, err := item.WithIssue(issueID)
		if err != nil {
			return err
		}
		next := slices.Clone(items)
		next[i] = linked
		s.items[auditID] = next
		return nil
	}
	return sentinel.ErrNotFound
}

func (s *InMemoryStore) ListItems(_ context.Context, auditID id.AuditID) ([]*models.FormalAuditItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items[auditID]), nil
}

func (s *InMemoryStore) Snapshot() func() {
	s.mu.RLock()
	audits := maps.Clone(s.audits)
	active := maps.Clone(s.active)
	items := maps.Clone(s.items)
	itemKeys := make(map[id.AuditID]map[string]id.AuditItemID, len(s.itemKeys))
	for k, v := range s.itemKeys {
		itemKeys[k] = maps.Clone(v)
	}
	s.mu.RUnlock()
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.audits = audits
		s.active = active
		s.items = items
		s.itemKeys = itemKeys
	}
}
