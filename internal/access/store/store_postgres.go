package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	id "rigcheck/pkg/domain"
	"rigcheck/pkg/platform/sentinel"
	txcontext "rigcheck/pkg/platform/tx"
)

type PostgresDirectory struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

func (d *PostgresDirectory) StationOf(ctx context.Context, apparatusID id.ApparatusID) (id.StationID, error) {
	var stationID uuid.UUID
	err := txcontext.Conn(ctx, d.db).QueryRowContext(ctx,
		`SELECT station_id FROM apparatus WHERE id = $1`, uuid.UUID(apparatusID)).Scan(&stationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return id.StationID{}, sentinel.ErrNotFound
		}
		return id.StationID{}, fmt.Errorf("find apparatus station: %w", err)
	}
	return id.StationID(stationID), nil
}

func (d *PostgresDirectory) IsAssigned(ctx context.Context, userID id.UserID, stationID id.StationID) (bool, error) {
	var ok bool
	err := txcontext.Conn(ctx, d.db).QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM station_assignments WHERE user_id = $1 AND station_id = $2
		)`, uuid.UUID(userID), uuid.UUID(stationID)).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check station assignment: %w", err)
	}
	return ok, nil
}
