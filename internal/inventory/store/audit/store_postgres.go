package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"rigcheck/internal/inventory/models"
	"rigcheck/internal/inventory/store/rows"
	"rigcheck/internal/platform/postgres"
	id "rigcheck/pkg/domain"
	"rigcheck/pkg/platform/sentinel"
	txcontext "rigcheck/pkg/platform/tx"
)

const (
	activeConstraint = "uq_formal_audits_active"
	itemConstraint   = "uq_formal_audit_items_target"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const auditColumns = `
	id, apparatus_id, station_id, performer_id, status, started_at, last_activity_at,
	paused_at, completed_at, abandoned_at, abandon_reason, notes,
	total_items, audited_count, issues_found_count, unexpected_items_count
`

// Create inserts a new in-progress audit, returning sentinel.ErrConflict when another
// audit already holds the apparatus.
func (s *PostgresStore) Create(ctx context.Context, audit *models.InProgressAudit) error {
	r := toRow(audit)
	var inserted uuid.UUID
	err := txcontext.Conn(ctx, s.db).QueryRowContext(ctx, `
		INSERT INTO formal_audits (`+auditColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (apparatus_id) WHERE status = 'in_progress' DO NOTHING
		RETURNING id
	`, auditArgs(r)...).Scan(&inserted)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return sentinel.ErrConflict
	case err != nil:
		if postgres.IsUniqueViolation(err, "") {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert formal audit: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, auditID id.AuditID) (models.FormalAudit, error) {
	return s.findOne(ctx, `SELECT `+auditColumns+` FROM formal_audits WHERE id = $1`, uuid.UUID(auditID))
}

func (s *PostgresStore) FindByIDForUpdate(ctx context.Context, auditID id.AuditID) (models.FormalAudit, error) {
	return s.findOne(ctx, `SELECT `+auditColumns+` FROM formal_audits WHERE id = $1 FOR UPDATE`, uuid.UUID(auditID))
}

func (s *PostgresStore) FindActiveByApparatus(ctx context.Context, apparatusID id.ApparatusID) (*models.InProgressAudit, error) {
	audit, err := s.findOne(ctx, `
		SELECT `+auditColumns+` FROM formal_audits
		WHERE apparatus_id = $1 AND status = 'in_progress'
	`, uuid.UUID(apparatusID))
	if err != nil {
		return nil, err
	}
	active, ok := audit.(*models.InProgressAudit)
	if !ok {
		return nil, fmt.Errorf("active audit for apparatus %s has status %s", apparatusID, audit.Status())
	}
	return active, nil
}

func (s *PostgresStore) findOne(ctx context.Context, query string, arg uuid.UUID) (models.FormalAudit, error) {
	r, err := scanAudit(txcontext.Conn(ctx, s.db).QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find formal audit: %w", err)
	}
	return fromRow(r)
}

func (s *PostgresStore) Save(ctx context.Context, audit models.FormalAudit) error {
	r := toRow(audit)
	res, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, `
		UPDATE formal_audits SET
			status = $2, last_activity_at = $3, paused_at = $4, completed_at = $5,
			abandoned_at = $6, abandon_reason = $7, notes = $8,
			audited_count = $9, issues_found_count = $10, unexpected_items_count = $11
		WHERE id = $1
	`, r.ID, r.Status, r.LastActivityAt, r.PausedAt, r.CompletedAt,
		r.AbandonedAt, r.AbandonReason, r.Notes,
		r.AuditedCount, r.IssuesFoundCount, r.UnexpectedItemsCount)
	if err != nil {
		if postgres.IsUniqueViolation(err, activeConstraint) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update formal audit: %w", err)
	}
	return requireOneRow(res, "update formal audit")
}

// ListStale returns in-progress audits idle since cutoff or earlier, oldest first. An
// empty stationIDs matches every station.
func (s *PostgresStore) ListStale(ctx context.Context, cutoff time.Time, stationIDs []id.StationID) ([]*models.InProgressAudit, error) {
	stations := make([]string, 0, len(stationIDs))
	for _, stationID := range stationIDs {
		stations = append(stations, stationID.String())
	}
	rs, err := txcontext.Conn(ctx, s.db).QueryContext(ctx, `
		SELECT `+auditColumns+` FROM formal_audits
		WHERE status = 'in_progress' AND last_activity_at <= $1
		  AND (cardinality($2::uuid[]) = 0 OR station_id = ANY($2::uuid[]))
		ORDER BY last_activity_at
	`, cutoff, pq.Array(stations))
	if err != nil {
		return nil, fmt.Errorf("list stale audits: %w", err)
	}
	defer rs.Close()

	var out []*models.InProgressAudit
	for rs.Next() {
		r, err := scanAudit(rs)
		if err != nil {
			return nil, fmt.Errorf("scan stale audit: %w", err)
		}
		audit, err := fromRow(r)
		if err != nil {
			return nil, err
		}
		if active, ok := audit.(*models.InProgressAudit); ok {
			out = append(out, active)
		}
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("iterate stale audits: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ItemExists(ctx context.Context, auditID id.AuditID, target models.VerificationTarget) (bool, error) {
	var exists bool
	err := txcontext.Conn(ctx, s.db).QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM formal_audit_items WHERE audit_id = $1 AND target_key = $2)
	`, uuid.UUID(auditID), target.Key()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("audit item exists: %w", err)
	}
	return exists, nil
}

const itemColumns = `
	id, audit_id, target_key, equipment_item_id, consumable_stock_id, compartment_id,
	manifest_entry_id, status, is_unexpected, condition, test_result, expiry_status,
	quantity_found, quantity_expected, condition_notes, audited_by, audited_at, issue_id
`

func (s *PostgresStore) AddItem(ctx context.Context, item *models.FormalAuditItem) error {
	r := toItemRow(item)
	_, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, `
		INSERT INTO formal_audit_items (`+itemColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`, r.ID, r.AuditID, r.TargetKey, r.EquipmentItemID, r.ConsumableStock, r.CompartmentID,
		r.ManifestEntryID, r.Status, r.IsUnexpected, r.Condition, r.TestResult, r.ExpiryStatus,
		r.QuantityFound, r.QuantityExpected, r.Notes, r.AuditedBy, r.AuditedAt, r.IssueID)
	if err != nil {
		if postgres.IsUniqueViolation(err, itemConstraint) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert audit item: %w", err)
	}
	return nil
}

func (s *PostgresStore) LinkIssue(ctx context.Context, auditID id.AuditID, itemID id.AuditItemID, issueID id.IssueID) error {
	res, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, `
		UPDATE formal_audit_items SET issue_id = $3
		WHERE audit_id = $1 AND id = $2 AND issue_id IS NULL
	`, uuid.UUID(auditID), uuid.UUID(itemID), uuid.UUID(issueID))
	if err != nil {
		return fmt.Errorf("link audit item issue: %w", err)
	}
	return requireOneRow(res, "link audit item issue")
}

func (s *PostgresStore) ListItems(ctx context.Context, auditID id.AuditID) ([]*models.FormalAuditItem, error) {
	rs, err := txcontext.Conn(ctx, s.db).QueryContext(ctx, `
		SELECT `+itemColumns+` FROM formal_audit_items
		WHERE audit_id = $1
		ORDER BY audited_at, id
	`, uuid.UUID(auditID))
	if err != nil {
		return nil, fmt.Errorf("list audit items: %w", err)
	}
	defer rs.Close()

	var out []*models.FormalAuditItem
	for rs.Next() {
		var r itemRow
		if err := rs.Scan(&r.ID, &r.AuditID, &r.TargetKey, &r.EquipmentItemID, &r.ConsumableStock,
			&r.CompartmentID, &r.ManifestEntryID, &r.Status, &r.IsUnexpected, &r.Condition,
			&r.TestResult, &r.ExpiryStatus, &r.QuantityFound, &r.QuantityExpected, &r.Notes,
			&r.AuditedBy, &r.AuditedAt, &r.IssueID); err != nil {
			return nil, fmt.Errorf("scan audit item: %w", err)
		}
		item, err := fromItemRow(r)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit items: %w", err)
	}
	return out, nil
}

func scanAudit(sc rows.Scanner) (auditRow, error) {
	var r auditRow
	err := sc.Scan(
		&r.ID, &r.ApparatusID, &r.StationID, &r.PerformerID, &r.Status, &r.StartedAt, &r.LastActivityAt,
		&r.PausedAt, &r.CompletedAt, &r.AbandonedAt, &r.AbandonReason, &r.Notes,
		&r.TotalItems, &r.AuditedCount, &r.IssuesFoundCount, &r.UnexpectedItemsCount,
	)
	return r, err
}

func auditArgs(r auditRow) []any {
	return []any{
		r.ID, r.ApparatusID, r.StationID, r.PerformerID, r.Status, r.StartedAt, r.LastActivityAt,
		r.PausedAt, r.CompletedAt, r.AbandonedAt, r.AbandonReason, r.Notes,
		r.TotalItems, r.AuditedCount, r.IssuesFoundCount, r.UnexpectedItemsCount,
	}
}

func requireOneRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
