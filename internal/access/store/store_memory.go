package store

import (
	"context"
	"sync"

	id "rigcheck/pkg/domain"
	"rigcheck/pkg/platform/sentinel"
)

type assignment struct {
	user    id.UserID
	station id.StationID
}

// InMemoryDirectory holds apparatus placement and station assignments.
type InMemoryDirectory struct {
	mu          sync.RWMutex
	apparatus   map[id.ApparatusID]id.StationID
	assignments map[assignment]struct{}
}

func NewInMemoryDirectory() *InMemoryDirectory {
	return &InMemoryDirectory{
		apparatus:   make(map[id.ApparatusID]id.StationID),
		assignments: make(map[assignment]struct{}),
	}
}

func (d *InMemoryDirectory) PlaceApparatus(apparatusID id.ApparatusID, stationID id.StationID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.apparatus[apparatusID] = stationID
}

func (d *InMemoryDirectory) Assign(userID id.UserID, stationID id.StationID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.assignments[assignment{userID, stationID}] = struct{}{}
}

func (d *InMemoryDirectory) StationOf(_ context.Context, apparatusID id.ApparatusID) (id.StationID, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	stationID, ok := d.apparatus[apparatusID]
	if !ok {
		return id.StationID{}, sentinel.ErrNotFound
	}
	return stationID, nil
}

func (d *InMemoryDirectory) IsAssigned(_ context.Context, userID id.UserID, stationID id.StationID) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.assignments[assignment{userID, stationID}]
	return ok, nil
}
