package store

import (
	"context"
	"maps"
	"sort"
	"sync"

	"rigcheck/internal/issue/models"
	id "rigcheck/pkg/domain"
	"rigcheck/pkg/platform/sentinel"
)

// InMemoryStore keeps issues by id. Issue values are immutable, so storing the pointers
// is safe.
type InMemoryStore struct {
	mu     sync.RWMutex
	issues map[id.IssueID]models.Issue
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{issues: make(map[id.IssueID]models.Issue)}
}

func (s *InMemoryStore) Create(_ context.Context, issue models.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.issues[issue.Header().ID]; exists {
		return sentinel.ErrAlreadyUsed
	}
	s.issues[issue.Header().ID] = issue
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, issueID id.IssueID) (models.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	issue, ok := s.issues[issueID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return issue, nil
}

// FindByIDForUpdate equals FindByID; MemoryRunner already serialises transactions.
func (s *InMemoryStore) FindByIDForUpdate(ctx context.Context, issueID id.IssueID) (models.Issue, error) {
	return s.FindByID(ctx, issueID)
}

func (s *InMemoryStore) Save(_ context.Context, issue models.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.issues[issue.Header().ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.issues[issue.Header().ID] = issue
	return nil
}

func (s *InMemoryStore) ListOpenByStation(_ context.Context, stationID id.StationID) ([]models.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Issue
	for _, issue := range s.issues {
		if issue.Header().StationID == stationID && !issue.Status().IsTerminal() {
			out = append(out, issue)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Header().ReportedAt.Before(out[j].Header().ReportedAt)
	})
	return out, nil
}

func (s *InMemoryStore) Snapshot() func() {
	s.mu.RLock()
	saved := maps.Clone(s.issues)
	s.mu.RUnlock()
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.issues = saved
	}
}
