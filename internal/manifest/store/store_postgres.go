package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"rigcheck/internal/manifest/models"
	id "rigcheck/pkg/domain"
	txcontext "rigcheck/pkg/platform/tx"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) EntriesForApparatus(ctx context.Context, apparatusID id.ApparatusID) (models.Snapshot, error) {
	rows, err := txcontext.Conn(ctx, s.db).QueryContext(ctx, `
		SELECT id, apparatus_id, compartment_id, equipment_type_id, required_quantity, is_critical
		FROM manifest_entries
		WHERE apparatus_id = $1
		ORDER BY compartment_id, id
	`, uuid.UUID(apparatusID))
	if err != nil {
		return nil, fmt.Errorf("query manifest entries: %w", err)
	}
	defer rows.Close()

	var out models.Snapshot
	for rows.Next() {
		var (
			entryID, appID, compartmentID, typeID uuid.UUID
			e                                     models.Entry
		)
		if err := rows.Scan(&entryID, &appID, &compartmentID, &typeID, &e.RequiredQuantity, &e.IsCritical); err != nil {
			return nil, fmt.Errorf("scan manifest entry: %w", err)
		}
		e.ID = id.ManifestEntryID(entryID)
		e.ApparatusID = id.ApparatusID(appID)
		e.CompartmentID = id.CompartmentID(compartmentID)
		e.EquipmentTypeID = id.EquipmentTypeID(typeID)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate manifest entries: %w", err)
	}
	return out, nil
}
