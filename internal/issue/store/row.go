package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rigcheck/internal/issue/models"
	id "rigcheck/pkg/domain"
)

// issueRow is the flattened persisted form shared by every variant.
type issueRow struct {
	ID                   uuid.UUID
	TargetKind           string
	TargetRef            uuid.NullUUID
	ApparatusID          uuid.UUID
	StationID            uuid.UUID
	Category             string
	Severity             string
	Title                string
	Description          string
	ReporterID           uuid.UUID
	ReportedAt           time.Time
	IsCrewResponsibility bool
	UpdatedAt            time.Time
	Status               string
	AcknowledgedBy       uuid.NullUUID
	AcknowledgedAt       sql.NullTime
	StartedBy            uuid.NullUUID
	StartedAt            sql.NullTime
	ResolvedBy           uuid.NullUUID
	ResolvedAt           sql.NullTime
	ResolutionNotes      string
	ClosedFrom           string
	ClosedBy             uuid.NullUUID
	ClosedAt             sql.NullTime
	CloseReason          string
}

func nullUser(u id.UserID) uuid.NullUUID {
	return uuid.NullUUID{UUID: uuid.UUID(u), Valid: !u.IsNil()}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func toRow(issue models.Issue) issueRow {
	h := issue.Header()
	row := issueRow{
		ID:                   uuid.UUID(h.ID),
		TargetKind:           string(h.Target.Kind()),
		TargetRef:            uuid.NullUUID{UUID: h.Target.Ref(), Valid: h.Target.Ref() != uuid.Nil},
		ApparatusID:          uuid.UUID(h.ApparatusID),
		StationID:            uuid.UUID(h.StationID),
		Category:             string(h.Category),
		Severity:             string(h.Severity),
		Title:                h.Title,
		Description:          h.Description,
		ReporterID:           uuid.UUID(h.ReporterID),
		ReportedAt:           h.ReportedAt,
		IsCrewResponsibility: h.IsCrewResponsibility,
		UpdatedAt:            h.UpdatedAt,
		Status:               string(issue.Status()),
	}
	fillAck := func(a models.AcknowledgedIssue) {
		row.AcknowledgedBy = nullUser(a.AcknowledgedBy)
		row.AcknowledgedAt = nullTime(a.AcknowledgedAt)
	}
	fillWork := func(w models.InProgressIssue) {
		fillAck(w.AcknowledgedIssue)
		row.StartedBy = nullUser(w.StartedBy)
		row.StartedAt = nullTime(w.StartedAt)
	}
	switch v := issue.(type) {
	case *models.OpenIssue:
	case *models.AcknowledgedIssue:
		fillAck(*v)
	case *models.InProgressIssue:
		fillWork(*v)
	case *models.ResolvedIssue:
		fillWork(v.InProgressIssue)
		row.ResolvedBy = nullUser(v.ResolvedBy)
		row.ResolvedAt = nullTime(v.ResolvedAt)
		row.ResolutionNotes = v.ResolutionNotes
	case *models.ClosedIssue:
		row.ClosedFrom = string(v.ClosedFrom)
		row.ClosedBy = nullUser(v.ClosedBy)
		row.ClosedAt = nullTime(v.ClosedAt)
		row.CloseReason = v.Reason
	}
	return row
}

func fromRow(row issueRow) (models.Issue, error) {
	target, err := models.RestoreTarget(models.TargetKind(row.TargetKind), row.TargetRef.UUID)
	if err != nil {
		return nil, err
	}
	header := models.IssueHeader{
		ID:                   id.IssueID(row.ID),
		Target:               target,
		ApparatusID:          id.ApparatusID(row.ApparatusID),
		StationID:            id.StationID(row.StationID),
		Category:             models.Category(row.Category),
		Severity:             models.Severity(row.Severity),
		Title:                row.Title,
		Description:          row.Description,
		ReporterID:           id.UserID(row.ReporterID),
		ReportedAt:           row.ReportedAt,
		IsCrewResponsibility: row.IsCrewResponsibility,
		UpdatedAt:            row.UpdatedAt,
	}
	ack := models.AcknowledgedIssue{
		IssueHeader:    header,
		AcknowledgedBy: id.UserID(row.AcknowledgedBy.UUID),
		AcknowledgedAt: row.AcknowledgedAt.Time,
	}
	work := models.InProgressIssue{
		AcknowledgedIssue: ack,
		StartedBy:         id.UserID(row.StartedBy.UUID),
		StartedAt:         row.StartedAt.Time,
	}
	switch models.Status(row.Status) {
	case models.StatusOpen:
		return &models.OpenIssue{IssueHeader: header}, nil
	case models.StatusAcknowledged:
		return &ack, nil
	case models.StatusInProgress:
		return &work, nil
	case models.StatusResolved:
		return &models.ResolvedIssue{
			InProgressIssue: work,
			ResolvedBy:      id.UserID(row.ResolvedBy.UUID),
			ResolvedAt:      row.ResolvedAt.Time,
			ResolutionNotes: row.ResolutionNotes,
		}, nil
	case models.StatusClosed:
		return &models.ClosedIssue{
			IssueHeader: header,
			ClosedFrom:  models.Status(row.ClosedFrom),
			ClosedBy:    id.UserID(row.ClosedBy.UUID),
			ClosedAt:    row.ClosedAt.Time,
			Reason:      row.CloseReason,
		}, nil
	default:
		return nil, fmt.Errorf("unknown issue status %q", row.Status)
	}
}
