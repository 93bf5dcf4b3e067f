package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"rigcheck/internal/issue/models"
	"rigcheck/internal/platform/postgres"
	id "rigcheck/pkg/domain"
	"rigcheck/pkg/platform/sentinel"
	txcontext "rigcheck/pkg/platform/tx"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const issueColumns = `
	id, target_kind, target_ref, apparatus_id, station_id, category, severity,
	title, description, reporter_id, reported_at, is_crew_responsibility, updated_at,
	status, acknowledged_by, acknowledged_at, started_by, started_at,
	resolved_by, resolved_at, resolution_notes, closed_from, closed_by, closed_at, close_reason
`

func (s *PostgresStore) Create(ctx context.Context, issue models.Issue) error {
	r := toRow(issue)
	_, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, `
		INSERT INTO issues (`+issueColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		        $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
	`, rowArgs(r)...)
	if err != nil {
		if postgres.IsUniqueViolation(err, "") {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert issue: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, issueID id.IssueID) (models.Issue, error) {
	return s.findOne(ctx, `SELECT `+issueColumns+` FROM issues WHERE id = $1`, issueID)
}

func (s *PostgresStore) FindByIDForUpdate(ctx context.Context, issueID id.IssueID) (models.Issue, error) {
	return s.findOne(ctx, `SELECT `+issueColumns+` FROM issues WHERE id = $1 FOR UPDATE`, issueID)
}

func (s *PostgresStore) findOne(ctx context.Context, query string, issueID id.IssueID) (models.Issue, error) {
	row := txcontext.Conn(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(issueID))
	r, err := scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find issue: %w", err)
	}
	return fromRow(r)
}

// Save rewrites the mutable lifecycle columns.
func (s *PostgresStore) Save(ctx context.Context, issue models.Issue) error {
	r := toRow(issue)
	res, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, `
		UPDATE issues SET
			status = $2, updated_at = $3,
			acknowledged_by = $4, acknowledged_at = $5,
			started_by = $6, started_at = $7,
			resolved_by = $8, resolved_at = $9, resolution_notes = $10,
			closed_from = $11, closed_by = $12, closed_at = $13, close_reason = $14
		WHERE id = $1
	`, r.ID, r.Status, r.UpdatedAt,
		r.AcknowledgedBy, r.AcknowledgedAt,
		r.StartedBy, r.StartedAt,
		r.ResolvedBy, r.ResolvedAt, r.ResolutionNotes,
		r.ClosedFrom, r.ClosedBy, r.ClosedAt, r.CloseReason)
	if err != nil {
		return fmt.Errorf("update issue: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update issue: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListOpenByStation(ctx context.Context, stationID id.StationID) ([]models.Issue, error) {
	rows, err := txcontext.Conn(ctx, s.db).QueryContext(ctx, `
		SELECT `+issueColumns+`
		FROM issues
		WHERE station_id = $1 AND status NOT IN ('resolved', 'closed')
		ORDER BY reported_at
	`, uuid.UUID(stationID))
	if err != nil {
		return nil, fmt.Errorf("list open issues: %w", err)
	}
	defer rows.Close()

	var out []models.Issue
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		issue, err := fromRow(r)
		if err != nil {
			return nil, err
		}
		out = append(out, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate issues: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(sc scanner) (issueRow, error) {
	var r issueRow
	err := sc.Scan(
		&r.ID, &r.TargetKind, &r.TargetRef, &r.ApparatusID, &r.StationID, &r.Category, &r.Severity,
		&r.Title, &r.Description, &r.ReporterID, &r.ReportedAt, &r.IsCrewResponsibility, &r.UpdatedAt,
		&r.Status, &r.AcknowledgedBy, &r.AcknowledgedAt, &r.StartedBy, &r.StartedAt,
		&r.ResolvedBy, &r.ResolvedAt, &r.ResolutionNotes, &r.ClosedFrom, &r.ClosedBy, &r.ClosedAt, &r.CloseReason,
	)
	return r, err
}

func rowArgs(r issueRow) []any {
	return []any{
		r.ID, r.TargetKind, r.TargetRef, r.ApparatusID, r.StationID, r.Category, r.Severity,
		r.Title, r.Description, r.ReporterID, r.ReportedAt, r.IsCrewResponsibility, r.UpdatedAt,
		r.Status, r.AcknowledgedBy, r.AcknowledgedAt, r.StartedBy, r.StartedAt,
		r.ResolvedBy, r.ResolvedAt, r.ResolutionNotes, r.ClosedFrom, r.ClosedBy, r.ClosedAt, r.CloseReason,
	}
}
