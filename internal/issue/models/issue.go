package models

import (
	"strings"
	"time"

	id "rigcheck/pkg/domain"
	dErrors "rigcheck/pkg/domain-errors"
)

var (
	ErrResolutionNotesRequired = dErrors.New(dErrors.CodeValidation, "resolution notes are required")
	ErrIssueAlreadyClosed      = dErrors.New(dErrors.CodeInvalidState, "issue is already resolved or closed")
)

type Status string

const (
	StatusOpen         Status = "open"
	StatusAcknowledged Status = "acknowledged"
	StatusInProgress   Status = "in_progress"
	StatusResolved     Status = "resolved"
	StatusClosed       Status = "closed"
)

func (s Status) IsTerminal() bool {
	return s == StatusResolved || s == StatusClosed
}

type Category string

const (
	CategoryMissing     Category = "MISSING"
	CategoryDamage      Category = "DAMAGE"
	CategoryMalfunction Category = "MALFUNCTION"
	CategoryExpired     Category = "EXPIRED"
	CategoryLowStock    Category = "LOW_STOCK"
	CategoryOther       Category = "OTHER"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryMissing, CategoryDamage, CategoryMalfunction, CategoryExpired, CategoryLowStock, CategoryOther:
		return true
	}
	return false
}

type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Raise returns the next severity level, saturating at critical.
func (s Severity) Raise() Severity {
	switch s {
	case SeverityLow:
		return SeverityMedium
	case SeverityMedium:
		return SeverityHigh
	default:
		return SeverityCritical
	}
}

// IssueHeader is the state shared by every issue variant. IsCrewResponsibility is fixed
// at creation; routing on it happens outside the lifecycle.
type IssueHeader struct {
	ID                   id.IssueID
	Target               Target
	ApparatusID          id.ApparatusID
	StationID            id.StationID
	Category             Category
	Severity             Severity
	Title                string
	Description          string
	ReporterID           id.UserID
	ReportedAt           time.Time
	IsCrewResponsibility bool
	UpdatedAt            time.Time
}

func (h IssueHeader) Header() IssueHeader { return h }

// Issue is one of *OpenIssue, *AcknowledgedIssue, *InProgressIssue, *ResolvedIssue,
// *ClosedIssue.
//
//	open -> acknowledged -> in_progress -> resolved
//	any non-terminal -> closed
type Issue interface {
	Header() IssueHeader
	Status() Status
	sealedIssue()
}

type OpenIssue struct {
	IssueHeader
}

type AcknowledgedIssue struct {
	IssueHeader
	AcknowledgedBy id.UserID
	AcknowledgedAt time.Time
}

type InProgressIssue struct {
	AcknowledgedIssue
	StartedBy id.UserID
	StartedAt time.Time
}

type ResolvedIssue struct {
	InProgressIssue
	ResolvedBy      id.UserID
	ResolvedAt      time.Time
	ResolutionNotes string
}

// ClosedIssue remembers the state it was closed from.
type ClosedIssue struct {
	IssueHeader
	ClosedFrom Status
	ClosedBy   id.UserID
	ClosedAt   time.Time
	Reason     string
}

func (*OpenIssue) sealedIssue()         {}
func (*AcknowledgedIssue) sealedIssue() {}
func (*InProgressIssue) sealedIssue()   {}
func (*ResolvedIssue) sealedIssue()     {}
func (*ClosedIssue) sealedIssue()       {}

func (*OpenIssue) Status() Status         { return StatusOpen }
func (*AcknowledgedIssue) Status() Status { return StatusAcknowledged }
func (*InProgressIssue) Status() Status   { return StatusInProgress }
func (*ResolvedIssue) Status() Status     { return StatusResolved }
func (*ClosedIssue) Status() Status       { return StatusClosed }

// NewOpenIssueParams groups the inputs of NewOpenIssue.
type NewOpenIssueParams struct {
	ID                   id.IssueID
	Target               Target
	ApparatusID          id.ApparatusID
	StationID            id.StationID
	Category             Category
	Severity             Severity
	Title                string
	Description          string
	ReporterID           id.UserID
	ReportedAt           time.Time
	IsCrewResponsibility bool
}

func NewOpenIssue(p NewOpenIssueParams) (*OpenIssue, error) {
	title := strings.TrimSpace(p.Title)
	switch {
	case p.ID.IsNil():
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "issue id is required")
	case p.Target.IsZero():
		return nil, dErrors.New(dErrors.CodeValidation, "issue target is required")
	case p.ApparatusID.IsNil() || p.StationID.IsNil():
		return nil, dErrors.New(dErrors.CodeValidation, "apparatus and station are required")
	case !p.Category.IsValid():
		return nil, dErrors.New(dErrors.CodeValidation, "invalid category: "+string(p.Category))
	case !p.Severity.IsValid():
		return nil, dErrors.New(dErrors.CodeValidation, "invalid severity: "+string(p.Severity))
	case title == "":
		return nil, dErrors.New(dErrors.CodeValidation, "title is required")
	case len(title) > 200:
		return nil, dErrors.New(dErrors.CodeValidation, "title must be 200 characters or less")
	case p.ReporterID.IsNil():
		return nil, dErrors.New(dErrors.CodeValidation, "reporter is required")
	case p.ReportedAt.IsZero():
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "reported_at is required")
	}
	return &OpenIssue{IssueHeader: IssueHeader{
		ID:                   p.ID,
		Target:               p.Target,
		ApparatusID:          p.ApparatusID,
		StationID:            p.StationID,
		Category:             p.Category,
		Severity:             p.Severity,
		Title:                title,
		Description:          strings.TrimSpace(p.Description),
		ReporterID:           p.ReporterID,
		ReportedAt:           p.ReportedAt,
		IsCrewResponsibility: p.IsCrewResponsibility,
		UpdatedAt:            p.ReportedAt,
	}}, nil
}

func (i *OpenIssue) Acknowledge(by id.UserID, at time.Time) *AcknowledgedIssue {
	header := i.IssueHeader
	header.UpdatedAt = at
	return &AcknowledgedIssue{IssueHeader: header, AcknowledgedBy: by, AcknowledgedAt: at}
}

func (i *AcknowledgedIssue) StartWork(by id.UserID, at time.Time) *InProgressIssue {
	ack := *i
	ack.UpdatedAt = at
	return &InProgressIssue{AcknowledgedIssue: ack, StartedBy: by, StartedAt: at}
}

func (i *InProgressIssue) Resolve(by id.UserID, notes string, at time.Time) (*ResolvedIssue, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil, ErrResolutionNotesRequired
	}
	work := *i
	work.UpdatedAt = at
	return &ResolvedIssue{InProgressIssue: work, ResolvedBy: by, ResolvedAt: at, ResolutionNotes: notes}, nil
}

// Close moves any non-terminal issue to closed.
func Close(issue Issue, by id.UserID, reason string, at time.Time) (*ClosedIssue, error) {
	if issue.Status().IsTerminal() {
		return nil, ErrIssueAlreadyClosed
	}
	header := issue.Header()
	header.UpdatedAt = at
	return &ClosedIssue{
		IssueHeader: header,
		ClosedFrom:  issue.Status(),
		ClosedBy:    by,
		ClosedAt:    at,
		Reason:      strings.TrimSpace(reason),
	}, nil
}

// RequireActiveIssue rejects terminal issues with ErrIssueAlreadyClosed.
func RequireActiveIssue(issue Issue) error {
	switch issue.(type) {
	case *OpenIssue, *AcknowledgedIssue, *InProgressIssue:
		return nil
	case *ResolvedIssue, *ClosedIssue:
		return ErrIssueAlreadyClosed
	default:
		panic("unknown issue variant")
	}
}

// WrongStateError builds the error returned when a transition is attempted from the wrong
// non-terminal state (for example resolving an open issue).
func WrongStateError(issue Issue, want Status) error {
	if err := RequireActiveIssue(issue); err != nil {
		return err
	}
	return dErrors.New(dErrors.CodeInvalidState, "issue is "+string(issue.Status())+", expected "+string(want))
}
