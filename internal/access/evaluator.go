// Package access decides which stations an actor may work on. Maintenance technicians
// and administrators see every station; firefighters see the stations they are assigned to.
package access

import (
	"context"
	"errors"

	id "rigcheck/pkg/domain"
	dErrors "rigcheck/pkg/domain-errors"
	"rigcheck/pkg/platform/sentinel"
)

// Directory resolves apparatus placement and station assignments.
type Directory interface {
	StationOf(ctx context.Context, apparatusID id.ApparatusID) (id.StationID, error)
	IsAssigned(ctx context.Context, userID id.UserID, stationID id.StationID) (bool, error)
}

type Evaluator struct {
	directory Directory
}

func NewEvaluator(directory Directory) *Evaluator {
	return &Evaluator{directory: directory}
}

// StationIDFor returns the station housing the apparatus.
func (e *Evaluator) StationIDFor(ctx context.Context, apparatusID id.ApparatusID) (id.StationID, error) {
	stationID, err := e.directory.StationOf(ctx, apparatusID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return id.StationID{}, dErrors.New(dErrors.CodeNotFound, "apparatus not found")
		}
		return id.StationID{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve apparatus station")
	}
	return stationID, nil
}

func (e *Evaluator) CanAccessStation(ctx context.Context, actor id.Actor, stationID id.StationID) (bool, error) {
	if !actor.Role.IsValid() || actor.ID.IsNil() {
		return false, nil
	}
	if actor.Role.HasAllStationAccess() {
		return true, nil
	}
	ok, err := e.directory.IsAssigned(ctx, actor.ID, stationID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check station assignment")
	}
	return ok, nil
}
