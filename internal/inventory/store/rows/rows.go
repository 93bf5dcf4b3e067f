// Package rows holds the column conversions shared by the check and audit stores.
package rows

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"rigcheck/internal/inventory/models"
	id "rigcheck/pkg/domain"
)

// Scanner is implemented by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

func NullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func NullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func TimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func NullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func IntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func NullManifestEntry(entryID *id.ManifestEntryID) uuid.NullUUID {
	if entryID == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*entryID), Valid: true}
}

func ManifestEntryPtr(v uuid.NullUUID) *id.ManifestEntryID {
	if !v.Valid {
		return nil
	}
	entryID := id.ManifestEntryID(v.UUID)
	return &entryID
}

func NullIssue(issueID *id.IssueID) uuid.NullUUID {
	if issueID == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*issueID), Valid: true}
}

func IssuePtr(v uuid.NullUUID) *id.IssueID {
	if !v.Valid {
		return nil
	}
	issueID := id.IssueID(v.UUID)
	return &issueID
}

// TargetColumns splits a target into its two nullable id columns.
func TargetColumns(t models.VerificationTarget) (equipment, consumable uuid.NullUUID) {
	if itemID, ok := t.EquipmentItemID(); ok {
		equipment = uuid.NullUUID{UUID: uuid.UUID(itemID), Valid: true}
	}
	if stockID, ok := t.ConsumableStockID(); ok {
		consumable = uuid.NullUUID{UUID: uuid.UUID(stockID), Valid: true}
	}
	return equipment, consumable
}

// TargetFromColumns rebuilds a target from its id columns.
func TargetFromColumns(equipment, consumable uuid.NullUUID) (models.VerificationTarget, error) {
	var itemID *id.EquipmentItemID
	var stockID *id.ConsumableStockID
	if equipment.Valid {
		v := id.EquipmentItemID(equipment.UUID)
		itemID = &v
	}
	if consumable.Valid {
		v := id.ConsumableStockID(consumable.UUID)
		stockID = &v
	}
	return models.TargetFromIDs(itemID, stockID)
}
