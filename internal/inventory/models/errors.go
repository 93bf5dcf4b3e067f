package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	id "rigcheck/pkg/domain"
	dErrors "rigcheck/pkg/domain-errors"
)

// SessionKind distinguishes shift checks from formal audits in shared errors.
type SessionKind string

const (
	SessionKindCheck SessionKind = "check"
	SessionKindAudit SessionKind = "audit"
)

var (
	ErrAuditAlreadyPaused = dErrors.New(dErrors.CodeInvalidState, "audit is already paused")
	ErrAuditNotPaused     = dErrors.New(dErrors.CodeInvalidState, "audit is not paused")
	ErrAuditPaused        = dErrors.New(dErrors.CodeInvalidState, "audit is paused; resume it first")
	ErrAllItemsRecorded   = dErrors.New(dErrors.CodeInvalidState, "every manifest item has already been recorded")

	ErrQuantityDiscrepancyRequiresNotes = dErrors.New(dErrors.CodeValidation, "quantity discrepancy over 20% requires notes")
	ErrQuantityOnEquipment              = dErrors.New(dErrors.CodeValidation, "quantities apply to consumable targets only")
)

// ActiveSessionExistsError reports that the apparatus already has an in-progress session.
// It names the winner so the caller can show who holds the apparatus and since when.
type ActiveSessionExistsError struct {
	Kind        SessionKind
	ApparatusID id.ApparatusID
	SessionID   uuid.UUID
	PerformerID id.UserID
	StartedAt   time.Time
}

func (e *ActiveSessionExistsError) Error() string {
	return fmt.Sprintf("an %s is already in progress for apparatus %s (session %s started %s)",
		activeNoun(e.Kind), e.ApparatusID, e.SessionID, e.StartedAt.UTC().Format(time.RFC3339))
}

func (e *ActiveSessionExistsError) Unwrap() error {
	return &dErrors.Error{Code: dErrors.CodeActiveSession, Message: "active session exists"}
}

// ItemAlreadyRecordedError reports a duplicate submission for a target within one session.
type ItemAlreadyRecordedError struct {
	Kind      SessionKind
	SessionID uuid.UUID
	Target    VerificationTarget
}

func (e *ItemAlreadyRecordedError) Error() string {
	verb := "verified"
	if e.Kind == SessionKindAudit {
		verb = "audited"
	}
	return fmt.Sprintf("%s already %s in %s %s", e.Target, verb, e.Kind, e.SessionID)
}

func (e *ItemAlreadyRecordedError) Unwrap() error {
	return &dErrors.Error{Code: dErrors.CodeAlreadyRecorded, Message: "item already recorded"}
}

// IncompleteSessionError rejects completion while manifest items remain.
type IncompleteSessionError struct {
	Kind      SessionKind
	Remaining int
}

func (e *IncompleteSessionError) Error() string {
	return fmt.Sprintf("%s cannot be completed: %d item(s) remaining", e.Kind, e.Remaining)
}

func (e *IncompleteSessionError) Unwrap() error {
	return &dErrors.Error{Code: dErrors.CodeIncompleteSession, Message: "session incomplete"}
}

// ResumeWindowExpiredError rejects a resume attempted after the resume window closed.
type ResumeWindowExpiredError struct {
	Kind        SessionKind
	AbandonedAt time.Time
	Deadline    time.Time
}

func (e *ResumeWindowExpiredError) Error() string {
	return fmt.Sprintf("%s can no longer be resumed (window closed at %s); start a new one",
		e.Kind, e.Deadline.UTC().Format(time.RFC3339))
}

func (e *ResumeWindowExpiredError) Unwrap() error {
	return &dErrors.Error{Code: dErrors.CodeResumeWindowExpired, Message: "resume window expired"}
}

// SessionTerminalError rejects a mutation on a completed or abandoned session.
type SessionTerminalError struct {
	Kind  SessionKind
	State string
}

func (e *SessionTerminalError) Error() string {
	return fmt.Sprintf("%s is already %s", e.Kind, e.State)
}

func (e *SessionTerminalError) Unwrap() error {
	return &dErrors.Error{Code: dErrors.CodeSessionTerminal, Message: "session is terminal"}
}

// IsSessionTerminal reports whether err is a SessionTerminalError in the given state.
func IsSessionTerminal(err error, state string) bool {
	var te *SessionTerminalError
	return errors.As(err, &te) && te.State == state
}

func activeNoun(kind SessionKind) string {
	if kind == SessionKindAudit {
		return "audit"
	}
	return "inventory check"
}

func (e *ActiveSessionExistsError) Details() map[string]any {
	return map[string]any{
		"kind":         string(e.Kind),
		"apparatus_id": e.ApparatusID.String(),
		"session_id":   e.SessionID.String(),
		"performer_id": e.PerformerID.String(),
		"started_at":   e.StartedAt.UTC().Format(time.RFC3339),
	}
}

func (e *ItemAlreadyRecordedError) Details() map[string]any {
	return map[string]any{"session_id": e.SessionID.String(), "target": e.Target.Key()}
}

func (e *IncompleteSessionError) Details() map[string]any {
	return map[string]any{"remaining": e.Remaining}
}

func (e *ResumeWindowExpiredError) Details() map[string]any {
	return map[string]any{
		"abandoned_at": e.AbandonedAt.UTC().Format(time.RFC3339),
		"deadline":     e.Deadline.UTC().Format(time.RFC3339),
	}
}
