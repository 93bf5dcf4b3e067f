package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	id "rigcheck/pkg/domain"
	dErrors "rigcheck/pkg/domain-errors"
)

const (
	// ResumeWindow bounds how long after abandonment a session may be resumed.
	ResumeWindow = 30 * time.Minute
	// StaleCheckAfter is the idle time after which the sweeper abandons an in-progress check.
	StaleCheckAfter = 4 * time.Hour
	// StaleCheckReason is recorded on checks abandoned by the sweeper.
	StaleCheckReason = "stale: no activity for 4h"
)

// CheckStatus is the persisted lifecycle state of an inventory check.
type CheckStatus string

const (
	CheckStatusInProgress CheckStatus = "in_progress"
	CheckStatusCompleted  CheckStatus = "completed"
	CheckStatusAbandoned  CheckStatus = "abandoned"
)

func (s CheckStatus) IsValid() bool {
	switch s {
	case CheckStatusInProgress, CheckStatusCompleted, CheckStatusAbandoned:
		return true
	}
	return false
}

// CheckHeader is the state shared by every inventory check variant.
type CheckHeader struct {
	ID          id.CheckID
	ApparatusID id.ApparatusID
	StationID   id.StationID
	PerformerID id.UserID
	StartedAt   time.Time
	Progress    CheckProgress
}

func (h CheckHeader) Header() CheckHeader { return h }

// InventoryCheck is a shift-level inventory check in one of three states:
// *InProgressCheck, *CompletedCheck or *AbandonedCheck. The set is closed; switch over it
// with RequireInProgressCheck or a type switch that handles all three.
//
// Transitions:
//
//	in_progress -> completed   (Complete, all items verified)
//	in_progress -> abandoned   (Abandon, any progress)
//	abandoned   -> in_progress (Resume, within ResumeWindow)
type InventoryCheck interface {
	Header() CheckHeader
	Status() CheckStatus
	sealedCheck()
}

// InProgressCheck is the only mutable variant.
type InProgressCheck struct {
	CheckHeader
	LastActivityAt time.Time
}

// CompletedCheck is terminal.
type CompletedCheck struct {
	CheckHeader
	CompletedAt time.Time
}

// AbandonedCheck is terminal once ResumeWindow has elapsed.
type AbandonedCheck struct {
	CheckHeader
	AbandonedAt    time.Time
	Reason         string
	LastActivityAt time.Time
}

func (*InProgressCheck) sealedCheck() {}
func (*CompletedCheck) sealedCheck()  {}
func (*AbandonedCheck) sealedCheck()  {}

func (*InProgressCheck) Status() CheckStatus { return CheckStatusInProgress }
func (*CompletedCheck) Status() CheckStatus  { return CheckStatusCompleted }
func (*AbandonedCheck) Status() CheckStatus  { return CheckStatusAbandoned }

// NewInProgressCheck starts a check over totalItems manifest entries.
func NewInProgressCheck(
	checkID id.CheckID,
	apparatusID id.ApparatusID,
	stationID id.StationID,
	performerID id.UserID,
	startedAt time.Time,
	totalItems int,
) (*InProgressCheck, error) {
	if err := validateHeader(uuid.UUID(checkID), apparatusID, stationID, performerID, startedAt); err != nil {
		return nil, err
	}
	if totalItems < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "total items must not be negative")
	}
	return &InProgressCheck{
		CheckHeader: CheckHeader{
			ID:          checkID,
			ApparatusID: apparatusID,
			StationID:   stationID,
			PerformerID: performerID,
			StartedAt:   startedAt,
			Progress:    InitialCheckProgress(totalItems),
		},
		LastActivityAt: startedAt,
	}, nil
}

// WithItemVerified returns the check advanced by one verified item.
func (c *InProgressCheck) WithItemVerified(hasIssue bool, at time.Time) *InProgressCheck {
	next := *c
	next.Progress = c.Progress.WithItemVerified(hasIssue)
	next.LastActivityAt = latest(c.LastActivityAt, at)
	return &next
}

// Complete finishes the check. Every manifest item must have been verified.
func (c *InProgressCheck) Complete(at time.Time) (*CompletedCheck, error) {
	return NewCompletedCheck(c.CheckHeader, at)
}

// Abandon stops the check, preserving partial progress.
func (c *InProgressCheck) Abandon(at time.Time, reason string) (*AbandonedCheck, error) {
	if at.Before(c.StartedAt) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "abandoned_at precedes started_at")
	}
	return &AbandonedCheck{
		CheckHeader:    c.CheckHeader,
		AbandonedAt:    at,
		Reason:         strings.TrimSpace(reason),
		LastActivityAt: c.LastActivityAt,
	}, nil
}

// IsStale reports whether the sweeper should abandon this check.
func (c *InProgressCheck) IsStale(now time.Time) bool {
	return now.Sub(c.LastActivityAt) >= StaleCheckAfter
}

// NewCompletedCheck enforces the completion invariants: all items verified and
// completedAt not before startedAt.
func NewCompletedCheck(header CheckHeader, completedAt time.Time) (*CompletedCheck, error) {
	if !header.Progress.IsAllVerified() {
		return nil, &IncompleteSessionError{Kind: SessionKindCheck, Remaining: header.Progress.Remaining()}
	}
	if completedAt.Before(header.StartedAt) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "completed_at precedes started_at")
	}
	return &CompletedCheck{CheckHeader: header, CompletedAt: completedAt}, nil
}

// ResumeDeadline is the first instant at which Resume is refused.
func (c *AbandonedCheck) ResumeDeadline() time.Time {
	return c.AbandonedAt.Add(ResumeWindow)
}

// CanResume reports whether now falls inside the resume window.
func (c *AbandonedCheck) CanResume(now time.Time) bool {
	return now.Sub(c.AbandonedAt) < ResumeWindow
}

// Resume reopens the check with its progress and start time intact. The idle clock
// restarts at now.
func (c *AbandonedCheck) Resume(now time.Time) (*InProgressCheck, error) {
	if !c.CanResume(now) {
		return nil, &ResumeWindowExpiredError{
			Kind:        SessionKindCheck,
			AbandonedAt: c.AbandonedAt,
			Deadline:    c.ResumeDeadline(),
		}
	}
	return &InProgressCheck{
		CheckHeader:    c.CheckHeader,
		LastActivityAt: now,
	}, nil
}

// RequireInProgressCheck narrows a check to its mutable variant or explains why it is not.
func RequireInProgressCheck(check InventoryCheck) (*InProgressCheck, error) {
	switch c := check.(type) {
	case *InProgressCheck:
		return c, nil
	case *CompletedCheck:
		return nil, &SessionTerminalError{Kind: SessionKindCheck, State: string(CheckStatusCompleted)}
	case *AbandonedCheck:
		return nil, &SessionTerminalError{Kind: SessionKindCheck, State: string(CheckStatusAbandoned)}
	default:
		panic("unknown inventory check variant")
	}
}

func validateHeader(sessionID uuid.UUID, apparatusID id.ApparatusID, stationID id.StationID, performerID id.UserID, startedAt time.Time) error {
	switch {
	case sessionID == uuid.Nil:
		return dErrors.New(dErrors.CodeInvariantViolation, "session id is required")
	case apparatusID.IsNil():
		return dErrors.New(dErrors.CodeInvariantViolation, "apparatus id is required")
	case stationID.IsNil():
		return dErrors.New(dErrors.CodeInvariantViolation, "station id is required")
	case performerID.IsNil():
		return dErrors.New(dErrors.CodeInvariantViolation, "performer id is required")
	case startedAt.IsZero():
		return dErrors.New(dErrors.CodeInvariantViolation, "started_at is required")
	}
	return nil
}

func latest(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
