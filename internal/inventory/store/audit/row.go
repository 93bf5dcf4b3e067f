package audit

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rigcheck/internal/inventory/models"
	"rigcheck/internal/inventory/store/rows"
	id "rigcheck/pkg/domain"
)

type auditRow struct {
	ID                   uuid.UUID
	ApparatusID          uuid.UUID
	StationID            uuid.UUID
	PerformerID          uuid.UUID
	Status               string
	StartedAt            time.Time
	LastActivityAt       time.Time
	PausedAt             sql.NullTime
	CompletedAt          sql.NullTime
	AbandonedAt          sql.NullTime
	AbandonReason        string
	Notes                string
	TotalItems           int
	AuditedCount         int
	IssuesFoundCount     int
	UnexpectedItemsCount int
}

func toRow(audit models.FormalAudit) auditRow {
	h := audit.Header()
	r := auditRow{
		ID:                   uuid.UUID(h.ID),
		ApparatusID:          uuid.UUID(h.ApparatusID),
		StationID:            uuid.UUID(h.StationID),
		PerformerID:          uuid.UUID(h.PerformerID),
		Status:               string(audit.Status()),
		StartedAt:            h.StartedAt,
		LastActivityAt:       h.LastActivityAt,
		Notes:                h.Notes,
		TotalItems:           h.Progress.TotalItems,
		AuditedCount:         h.Progress.AuditedCount,
		IssuesFoundCount:     h.Progress.IssuesFoundCount,
		UnexpectedItemsCount: h.Progress.UnexpectedItemsCount,
	}
	switch a := audit.(type) {
	case *models.InProgressAudit:
		r.PausedAt = rows.NullTimePtr(a.PausedAt)
	case *models.CompletedAudit:
		r.CompletedAt = rows.NullTime(a.CompletedAt)
	case *models.AbandonedAudit:
		r.AbandonedAt = rows.NullTime(a.AbandonedAt)
		r.AbandonReason = a.Reason
	}
	return r
}

func fromRow(r auditRow) (models.FormalAudit, error) {
	progress, err := models.NewAuditProgress(r.TotalItems, r.AuditedCount, r.IssuesFoundCount, r.UnexpectedItemsCount)
	if err != nil {
		return nil, fmt.Errorf("audit %s: %w", r.ID, err)
	}
	header := models.AuditHeader{
		ID:             id.AuditID(r.ID),
		ApparatusID:    id.ApparatusID(r.ApparatusID),
		StationID:      id.StationID(r.StationID),
		PerformerID:    id.UserID(r.PerformerID),
		StartedAt:      r.StartedAt,
		Progress:       progress,
		Notes:          r.Notes,
		LastActivityAt: r.LastActivityAt,
	}
	switch models.AuditStatus(r.Status) {
	case models.AuditStatusInProgress:
		return &models.InProgressAudit{AuditHeader: header, PausedAt: rows.TimePtr(r.PausedAt)}, nil
	case models.AuditStatusCompleted:
		return models.NewCompletedAudit(header, r.CompletedAt.Time)
	case models.AuditStatusAbandoned:
		return &models.AbandonedAudit{AuditHeader: header, AbandonedAt: r.AbandonedAt.Time, Reason: r.AbandonReason}, nil
	default:
		return nil, fmt.Errorf("audit %s: unknown status %q", r.ID, r.Status)
	}
}

type itemRow struct {
	ID               uuid.UUID
	AuditID          uuid.UUID
	TargetKey        string
	EquipmentItemID  uuid.NullUUID
	ConsumableStock  uuid.NullUUID
	CompartmentID    uuid.UUID
	ManifestEntryID  uuid.NullUUID
	Status           string
	IsUnexpected     bool
	Condition        string
	TestResult       string
	ExpiryStatus     string
	QuantityFound    sql.NullInt64
	QuantityExpected sql.NullInt64
	Notes            string
	AuditedBy        uuid.UUID
	AuditedAt        time.Time
	IssueID          uuid.NullUUID
}

func toItemRow(item *models.FormalAuditItem) itemRow {
	equipment, consumable := rows.TargetColumns(item.Target)
	return itemRow{
		ID:               uuid.UUID(item.ID),
		AuditID:          uuid.UUID(item.AuditID),
		TargetKey:        item.Target.Key(),
		EquipmentItemID:  equipment,
		ConsumableStock:  consumable,
		CompartmentID:    uuid.UUID(item.CompartmentID),
		ManifestEntryID:  rows.NullManifestEntry(item.ManifestEntryID),
		Status:           string(item.Status),
		IsUnexpected:     item.IsUnexpected,
		Condition:        string(item.Condition),
		TestResult:       string(item.TestResult),
		ExpiryStatus:     string(item.ExpiryStatus),
		QuantityFound:    rows.NullInt(item.Quantities.Found),
		QuantityExpected: rows.NullInt(item.Quantities.Expected),
		Notes:            item.Notes,
		AuditedBy:        uuid.UUID(item.AuditedBy),
		AuditedAt:        item.AuditedAt,
		IssueID:          rows.NullIssue(item.IssueID),
	}
}

func fromItemRow(r itemRow) (*models.FormalAuditItem, error) {
	target, err := rows.TargetFromColumns(r.EquipmentItemID, r.ConsumableStock)
	if err != nil {
		return nil, fmt.Errorf("audit item %s: %w", r.ID, err)
	}
	return &models.FormalAuditItem{
		ID:              id.AuditItemID(r.ID),
		AuditID:         id.AuditID(r.AuditID),
		Target:          target,
		CompartmentID:   id.CompartmentID(r.CompartmentID),
		ManifestEntryID: rows.ManifestEntryPtr(r.ManifestEntryID),
		Status:          models.AuditItemStatus(r.Status),
		IsUnexpected:    r.IsUnexpected,
		Condition:       models.Condition(r.Condition),
		TestResult:      models.TestResult(r.TestResult),
		ExpiryStatus:    models.ExpiryStatus(r.ExpiryStatus),
		Quantities: models.Quantities{
			Found:    rows.IntPtr(r.QuantityFound),
			Expected: rows.IntPtr(r.QuantityExpected),
		},
		Notes:     r.Notes,
		AuditedBy: id.UserID(r.AuditedBy),
		AuditedAt: r.AuditedAt,
		IssueID:   rows.IssuePtr(r.IssueID),
	}, nil
}
