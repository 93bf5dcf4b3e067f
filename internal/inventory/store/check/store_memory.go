package check

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

// InMemoryStore keeps checks and their items. The active-by-apparatus index is updated
// under the same mutex as the checks so at most one in-progress check per apparatus can
// ever be observed.
type InMemoryStore struct {
	mu       sync.RWMutex
	checks   map[id.CheckID]models.InventoryCheck
	active   map[id.ApparatusID]id.CheckID
	items    map[id.CheckID][]*models.InventoryCheckItem
	itemKeys map[id.CheckID]map[string]id.CheckItemID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		checks:   make(map[id.CheckID]models.InventoryCheck),
		active:   make(map[id.ApparatusID]id.CheckID),
		items:    make(map[id.CheckID][]*models.InventoryCheckItem),
		itemKeys: make(map[id.CheckID]map[string]id.CheckItemID),
	}
}

// Create inserts a new in-progress check. sentinel.ErrConflict means another check is
// already active for the apparatus.
func (s *InMemoryStore) Create(_ context.Context, check *models.InProgressCheck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.active[check.ApparatusID]; busy {
		return sentinel.ErrConflict
	}
	if _, exists := s.checks[check.ID]; exists {
		return sentinel.ErrAlreadyUsed
	}
	s.checks[check.ID] = check
	s.active[check.ApparatusID] = check.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, checkID id.CheckID) (models.InventoryCheck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	check, ok := s.checks[checkID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return check, nil
}

// FindByIDForUpdate equals FindByID; MemoryRunner already serialises transactions.
func (s *InMemoryStore) FindByIDForUpdate(ctx context.Context, checkID id.CheckID) (models.InventoryCheck, error) {
	return s.FindByID(ctx, checkID)
}

func (s *InMemoryStore) FindActiveByApparatus(_ context.Context, apparatusID id.ApparatusID) (*models.InProgressCheck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	checkID, ok := s.active[apparatusID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.checks[checkID].(*models.InProgressCheck), nil
}

// Save replaces a check and maintains the active index. Moving a check back to in-progress
// while another is active returns sentinel.ErrConflict.
func (s *InMemoryStore) Save(_ context.Context, check models.InventoryCheck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := check.Header()
	if _, ok := s.checks[h.ID]; !ok {
		return sentinel.ErrNotFound
	}
	activeID, busy := s.active[h.ApparatusID]
	if check.Status() == models.CheckStatusInProgress {
		if busy && activeID != h.ID {
			return sentinel.ErrConflict
		}
		s.active[h.ApparatusID] = h.ID
	} else if busy && activeID == h.ID {
		delete(s.active, h.ApparatusID)
	}
	s.checks[h.ID] = check
	return nil
}

// ListStale returns in-progress checks idle since cutoff or earlier, oldest first.
func (s *InMemoryStore) ListStale(_ context.Context, cutoff time.Time) ([]id.CheckID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var stale []*models.InProgressCheck
	for _, checkID := range s.active {
		c := s.checks[checkID].(*models.InProgressCheck)
		if !c.LastActivityAt.After(cutoff) {
			stale = append(stale, c)
		}
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i].LastActivityAt.Before(stale[j].LastActivityAt) })
	out := make([]id.CheckID, 0, len(stale))
	for _, c := range stale {
		out = append(out, c.ID)
	}
	return out, nil
}

func (s *InMemoryStore) ItemExists(_ context.Context, checkID id.CheckID, target models.VerificationTarget) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.itemKeys[checkID][target.Key()]
	return ok, nil
}

// AddItem records an item. sentinel.ErrAlreadyUsed means the target was already recorded
// in this check.
func (s *InMemoryStore) AddItem(_ context.Context, item *models.InventoryCheckItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.checks[item.CheckID]; !ok {
		return sentinel.ErrNotFound
	}
	keys := s.itemKeys[item.CheckID]
	if keys == nil {
		keys = make(map[string]id.CheckItemID)
		s.itemKeys[item.CheckID] = keys
	}
	if _, dup := keys[item.Target.Key()]; dup {
		return sentinel.ErrAlreadyUsed
	}
	keys[item.Target.Key()] = item.ID
	s.items[item.CheckID] = append(s.items[item.CheckID], item)
	return nil
}

func (s *InMemoryStore) LinkIssue(_ context.Context, checkID id.CheckID, itemID id.CheckItemID, issueID id.IssueID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.items[checkID]
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
		s.items[checkID] = next
		return nil
	}
	return sentinel.ErrNotFound
}

// ListItems returns the items of a check in recording order.
func (s *InMemoryStore) ListItems(_ context.Context, checkID id.CheckID) ([]*models.InventoryCheckItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items[checkID]), nil
}

func (s *InMemoryStore) Snapshot() func() {
	s.mu.RLock()
	checks := maps.Clone(s.checks)
	active := maps.Clone(s.active)
	items := maps.Clone(s.items)
	itemKeys := make(map[id.CheckID]map[string]id.CheckItemID, len(s.itemKeys))
	for k, v := range s.itemKeys {
		itemKeys[k] = maps.Clone(v)
	}
	s.mu.RUnlock()
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.checks = checks
		s.active = active
		s.items = items
		s.itemKeys = itemKeys
	}
}
