package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	id "rigcheck/pkg/domain"
	dErrors "rigcheck/pkg/domain-errors"
)

// AuditStaleAfter is the idle time after which an audit is flagged stale. Staleness is
// advisory: audits are never abandoned automatically.
const AuditStaleAfter = 7 * 24 * time.Hour

type AuditStatus string

const (
	AuditStatusInProgress AuditStatus = "in_progress"
	AuditStatusCompleted  AuditStatus = "completed"
	AuditStatusAbandoned  AuditStatus = "abandoned"
)

func (s AuditStatus) IsValid() bool {
	switch s {
	case AuditStatusInProgress, AuditStatusCompleted, AuditStatusAbandoned:
		return true
	}
	return false
}

// AuditHeader is the state shared by every formal audit variant.
type AuditHeader struct {
	ID             id.AuditID
	ApparatusID    id.ApparatusID
	StationID      id.StationID
	PerformerID    id.UserID
	StartedAt      time.Time
	Progress       AuditProgress
	Notes          string
	LastActivityAt time.Time
}

func (h AuditHeader) Header() AuditHeader { return h }

// IsStale reports whether the audit has been idle for AuditStaleAfter or longer.
func (h AuditHeader) IsStale(now time.Time) bool {
	return now.Sub(h.LastActivityAt) >= AuditStaleAfter
}

// FormalAudit is a technician-led audit in one of three states: *InProgressAudit,
// *CompletedAudit or *AbandonedAudit. In-progress audits may additionally be paused,
// which is a hold inside the session rather than a lifecycle state.
type FormalAudit interface {
	Header() AuditHeader
	Status() AuditStatus
	IsStale(now time.Time) bool
	sealedAudit()
}

type InProgressAudit struct {
	AuditHeader
	PausedAt *time.Time
}

type CompletedAudit struct {
	AuditHeader
	CompletedAt time.Time
}

type AbandonedAudit struct {
	AuditHeader
	AbandonedAt time.Time
	Reason      string
}

func (*InProgressAudit) sealedAudit() {}
func (*CompletedAudit) sealedAudit()  {}
func (*AbandonedAudit) sealedAudit()  {}

func (*InProgressAudit) Status() AuditStatus { return AuditStatusInProgress }
func (*CompletedAudit) Status() AuditStatus  { return AuditStatusCompleted }
func (*AbandonedAudit) Status() AuditStatus  { return AuditStatusAbandoned }

func NewInProgressAudit(
	auditID id.AuditID,
	apparatusID id.ApparatusID,
	stationID id.StationID,
	performerID id.UserID,
	startedAt time.Time,
	totalItems int,
	notes string,
) (*InProgressAudit, error) {
	if err := validateHeader(uuid.UUID(auditID), apparatusID, stationID, performerID, startedAt); err != nil {
		return nil, err
	}
	if totalItems < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "total items must not be negative")
	}
	return &InProgressAudit{
		AuditHeader: AuditHeader{
			ID:             auditID,
			ApparatusID:    apparatusID,
			StationID:      stationID,
			PerformerID:    performerID,
			StartedAt:      startedAt,
			Progress:       InitialAuditProgress(totalItems),
			Notes:          strings.TrimSpace(notes),
			LastActivityAt: startedAt,
		},
	}, nil
}

func (a *InProgressAudit) IsPaused() bool {
	return a.PausedAt != nil
}

func (a *InProgressAudit) Pause(at time.Time) (*InProgressAudit, error) {
	if a.IsPaused() {
		return nil, ErrAuditAlreadyPaused
	}
	next := *a
	paused := at
	next.PausedAt = &paused
	next.LastActivityAt = latest(a.LastActivityAt, at)
	return &next, nil
}

func (a *InProgressAudit) Resume(at time.Time) (*InProgressAudit, error) {
	if !a.IsPaused() {
		return nil, ErrAuditNotPaused
	}
	next := *a
	next.PausedAt = nil
	next.LastActivityAt = latest(a.LastActivityAt, at)
	return &next, nil
}

// WithItemAudited returns the audit advanced by one audited manifest item.
func (a *InProgressAudit) WithItemAudited(hasIssue bool, at time.Time) (*InProgressAudit, error) {
	if a.IsPaused() {
		return nil, ErrAuditPaused
	}
	next := *a
	next.Progress = a.Progress.WithItemAudited(hasIssue)
	next.LastActivityAt = latest(a.LastActivityAt, at)
	return &next, nil
}

// WithUnexpectedItem returns the audit with one more off-manifest item recorded.
func (a *InProgressAudit) WithUnexpectedItem(at time.Time) (*InProgressAudit, error) {
	if a.IsPaused() {
		return nil, ErrAuditPaused
	}
	next := *a
	next.Progress = a.Progress.WithUnexpectedItem()
	next.LastActivityAt = latest(a.LastActivityAt, at)
	return &next, nil
}

func (a *InProgressAudit) Complete(at time.Time, notes string) (*CompletedAudit, error) {
	if a.IsPaused() {
		return nil, ErrAuditPaused
	}
	header := a.AuditHeader
	if n := strings.TrimSpace(notes); n != "" {
		header.Notes = n
	}
	return NewCompletedAudit(header, at)
}

func (a *InProgressAudit) Abandon(at time.Time, reason string) (*AbandonedAudit, error) {
	if at.Before(a.StartedAt) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "abandoned_at precedes started_at")
	}
	return &AbandonedAudit{
		AuditHeader: a.AuditHeader,
		AbandonedAt: at,
		Reason:      strings.TrimSpace(reason),
	}, nil
}

// NewCompletedAudit enforces that every manifest item was audited.
func NewCompletedAudit(header AuditHeader, completedAt time.Time) (*CompletedAudit, error) {
	if !header.Progress.IsAllAudited() {
		return nil, &IncompleteSessionError{Kind: SessionKindAudit, Remaining: header.Progress.Remaining()}
	}
	if completedAt.Before(header.StartedAt) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "completed_at precedes started_at")
	}
	header.LastActivityAt = latest(header.LastActivityAt, completedAt)
	return &CompletedAudit{AuditHeader: header, CompletedAt: completedAt}, nil
}

func (a *AbandonedAudit) ResumeDeadline() time.Time {
	return a.AbandonedAt.Add(ResumeWindow)
}

func (a *AbandonedAudit) CanReopen(now time.Time) bool {
	return now.Sub(a.AbandonedAt) < ResumeWindow
}

// Reopen returns the audit to in-progress within ResumeWindow of abandonment. Any pause in
// effect at abandonment is dropped.
func (a *AbandonedAudit) Reopen(now time.Time) (*InProgressAudit, error) {
	if !a.CanReopen(now) {
		return nil, &ResumeWindowExpiredError{
			Kind:        SessionKindAudit,
			AbandonedAt: a.AbandonedAt,
			Deadline:    a.ResumeDeadline(),
		}
	}
	header := a.AuditHeader
	header.LastActivityAt = now
	return &InProgressAudit{AuditHeader: header}, nil
}

// RequireInProgressAudit narrows an audit to its mutable variant.
func RequireInProgressAudit(audit FormalAudit) (*InProgressAudit, error) {
	switch a := audit.(type) {
	case *InProgressAudit:
		return a, nil
	case *CompletedAudit:
		return nil, &SessionTerminalError{Kind: SessionKindAudit, State: string(AuditStatusCompleted)}
	case *AbandonedAudit:
		return nil, &SessionTerminalError{Kind: SessionKindAudit, State: string(AuditStatusAbandoned)}
	default:
		panic("unknown formal audit variant")
	}
}
