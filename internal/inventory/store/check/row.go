package check

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rigcheck/internal/inventory/models"
	"rigcheck/internal/inventory/store/rows"
	id "rigcheck/pkg/domain"
)

// checkRow is the flattened persisted form shared by every check variant.
type checkRow struct {
	ID               uuid.UUID
	ApparatusID      uuid.UUID
	StationID        uuid.UUID
	PerformerID      uuid.UUID
	Status           string
	StartedAt        time.Time
	LastActivityAt   time.Time
	CompletedAt      sql.NullTime
	AbandonedAt      sql.NullTime
	AbandonReason    string
	TotalItems       int
	VerifiedCount    int
	IssuesFoundCount int
}

func toRow(check models.InventoryCheck) checkRow {
	h := check.Header()
	r := checkRow{
		ID:               uuid.UUID(h.ID),
		ApparatusID:      uuid.UUID(h.ApparatusID),
		StationID:        uuid.UUID(h.StationID),
		PerformerID:      uuid.UUID(h.PerformerID),
		Status:           string(check.Status()),
		StartedAt:        h.StartedAt,
		TotalItems:       h.Progress.TotalItems,
		VerifiedCount:    h.Progress.VerifiedCount,
		IssuesFoundCount: h.Progress.IssuesFoundCount,
	}
	switch c := check.(type) {
	case *models.InProgressCheck:
		r.LastActivityAt = c.LastActivityAt
	case *models.CompletedCheck:
		r.LastActivityAt = c.CompletedAt
		r.CompletedAt = rows.NullTime(c.CompletedAt)
	case *models.AbandonedCheck:
		r.LastActivityAt = c.LastActivityAt
		r.AbandonedAt = rows.NullTime(c.AbandonedAt)
		r.AbandonReason = c.Reason
	}
	return r
}

func fromRow(r checkRow) (models.InventoryCheck, error) {
	progress, err := models.NewCheckProgress(r.TotalItems, r.VerifiedCount, r.IssuesFoundCount)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", r.ID, err)
	}
	header := models.CheckHeader{
		ID:          id.CheckID(r.ID),
		ApparatusID: id.ApparatusID(r.ApparatusID),
		StationID:   id.StationID(r.StationID),
		PerformerID: id.UserID(r.PerformerID),
		StartedAt:   r.StartedAt,
		Progress:    progress,
	}
	switch models.CheckStatus(r.Status) {
	case models.CheckStatusInProgress:
		return &models.InProgressCheck{CheckHeader: header, LastActivityAt: r.LastActivityAt}, nil
	case models.CheckStatusCompleted:
		return models.NewCompletedCheck(header, r.CompletedAt.Time)
	case models.CheckStatusAbandoned:
		return &models.AbandonedCheck{
			CheckHeader:    header,
			AbandonedAt:    r.AbandonedAt.Time,
			Reason:         r.AbandonReason,
			LastActivityAt: r.LastActivityAt,
		}, nil
	default:
		return nil, fmt.Errorf("check %s: unknown status %q", r.ID, r.Status)
	}
}

// itemRow is the persisted form of an InventoryCheckItem.
type itemRow struct {
	ID               uuid.UUID
	CheckID          uuid.UUID
	TargetKey        string
	EquipmentItemID  uuid.NullUUID
	ConsumableStock  uuid.NullUUID
	CompartmentID    uuid.UUID
	ManifestEntryID  uuid.NullUUID
	Status           string
	QuantityFound    sql.NullInt64
	QuantityExpected sql.NullInt64
	ConditionNotes   string
	VerifiedBy       uuid.UUID
	VerifiedAt       time.Time
	IssueID          uuid.NullUUID
}

func toItemRow(item *models.InventoryCheckItem) itemRow {
	equipment, consumable := rows.TargetColumns(item.Target)
	return itemRow{
		ID:               uuid.UUID(item.ID),
		CheckID:          uuid.UUID(item.CheckID),
		TargetKey:        item.Target.Key(),
		EquipmentItemID:  equipment,
		ConsumableStock:  consumable,
		CompartmentID:    uuid.UUID(item.CompartmentID),
		ManifestEntryID:  rows.NullManifestEntry(item.ManifestEntryID),
		Status:           string(item.Status),
		QuantityFound:    rows.NullInt(item.Quantities.Found),
		QuantityExpected: rows.NullInt(item.Quantities.Expected),
		ConditionNotes:   item.ConditionNotes,
		VerifiedBy:       uuid.UUID(item.VerifiedBy),
		VerifiedAt:       item.VerifiedAt,
		IssueID:          rows.NullIssue(item.IssueID),
	}
}

func fromItemRow(r itemRow) (*models.InventoryCheckItem, error) {
	target, err := rows.TargetFromColumns(r.EquipmentItemID, r.ConsumableStock)
	if err != nil {
		return nil, fmt.Errorf("check item %s: %w", r.ID, err)
	}
	return &models.InventoryCheckItem{
		ID:              id.CheckItemID(r.ID),
		CheckID:         id.CheckID(r.CheckID),
		Target:          target,
		CompartmentID:   id.CompartmentID(r.CompartmentID),
		ManifestEntryID: rows.ManifestEntryPtr(r.ManifestEntryID),
		Status:          models.CheckItemStatus(r.Status),
		Quantities: models.Quantities{
			Found:    rows.IntPtr(r.QuantityFound),
			Expected: rows.IntPtr(r.QuantityExpected),
		},
		ConditionNotes: r.ConditionNotes,
		VerifiedBy:     id.UserID(r.VerifiedBy),
		VerifiedAt:     r.VerifiedAt,
		IssueID:        rows.IssuePtr(r.IssueID),
	}, nil
}
