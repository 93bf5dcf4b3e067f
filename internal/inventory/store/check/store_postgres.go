package check

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rigcheck/internal/inventory/models"
	"rigcheck/internal/inventory/store/rows"
	"rigcheck/internal/platform/postgres"
	id "rigcheck/pkg/domain"
	"rigcheck/pkg/platform/sentinel"
	txcontext "rigcheck/pkg/platform/tx"
)

const (
	activeConstraint = "uq_inventory_checks_active"
	itemConstraint   = "uq_inventory_check_items_target"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const checkColumns = `
	id, apparatus_id, station_id, performer_id, status, started_at, last_activity_at,
	completed_at, abandoned_at, abandon_reason, total_items, verified_count, issues_found_count
`

// Create inserts a new in-progress check. A concurrent winner holding the apparatus makes
// the insert a no-op and the call returns sentinel.ErrConflict; the transaction stays
// usable so the caller can read the winner.
func (s *PostgresStore) Create(ctx context.Context, check *models.InProgressCheck) error {
	r := toRow(check)
	var inserted uuid.UUID
	err := txcontext.Conn(ctx, s.db).QueryRowContext(ctx, `
		INSERT INTO inventory_checks (`+checkColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (apparatus_id) WHERE status = 'in_progress' DO NOTHING
		RETURNING id
	`, checkArgs(r)...).Scan(&inserted)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return sentinel.ErrConflict
	case err != nil:
		if postgres.IsUniqueViolation(err, "") {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert inventory check: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, checkID id.CheckID) (models.InventoryCheck, error) {
	return s.findOne(ctx, `SELECT `+checkColumns+` FROM inventory_checks WHERE id = $1`, uuid.UUID(checkID))
}

func (s *PostgresStore) FindByIDForUpdate(ctx context.Context, checkID id.CheckID) (models.InventoryCheck, error) {
	return s.findOne(ctx, `SELECT `+checkColumns+` FROM inventory_checks WHERE id = $1 FOR UPDATE`, uuid.UUID(checkID))
}

func (s *PostgresStore) FindActiveByApparatus(ctx context.Context, apparatusID id.ApparatusID) (*models.InProgressCheck, error) {
	check, err := s.findOne(ctx, `
		SELECT `+checkColumns+` FROM inventory_checks
		WHERE apparatus_id = $1 AND status = 'in_progress'
	`, uuid.UUID(apparatusID))
	if err != nil {
		return nil, err
	}
	active, ok := check.(*models.InProgressCheck)
	if !ok {
		return nil, fmt.Errorf("active check for apparatus %s has status %s", apparatusID, check.Status())
	}
	return active, nil
}

func (s *PostgresStore) findOne(ctx context.Context, query string, arg uuid.UUID) (models.InventoryCheck, error) {
	r, err := scanCheck(txcontext.Conn(ctx, s.db).QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find inventory check: %w", err)
	}
	return fromRow(r)
}

// Save rewrites the mutable columns. Reactivating a check while another holds the
// apparatus returns sentinel.ErrConflict.
func (s *PostgresStore) Save(ctx context.Context, check models.InventoryCheck) error {
	r := toRow(check)
	res, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, `
		UPDATE inventory_checks SET
			status = $2, last_activity_at = $3, completed_at = $4, abandoned_at = $5,
			abandon_reason = $6, verified_count = $7, issues_found_count = $8
		WHERE id = $1
	`, r.ID, r.Status, r.LastActivityAt, r.CompletedAt, r.AbandonedAt,
		r.AbandonReason, r.VerifiedCount, r.IssuesFoundCount)
	if err != nil {
		if postgres.IsUniqueViolation(err, activeConstraint) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update inventory check: %w", err)
	}
	return requireOneRow(res, "update inventory check")
}

// ListStale returns in-progress checks idle since cutoff or earlier, oldest first.
func (s *PostgresStore) ListStale(ctx context.Context, cutoff time.Time) ([]id.CheckID, error) {
	rs, err := txcontext.Conn(ctx, s.db).QueryContext(ctx, `
		SELECT id FROM inventory_checks
		WHERE status = 'in_progress' AND last_activity_at <= $1
		ORDER BY last_activity_at
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list stale checks: %w", err)
	}
	defer rs.Close()

	var out []id.CheckID
	for rs.Next() {
		var checkID uuid.UUID
		if err := rs.Scan(&checkID); err != nil {
			return nil, fmt.Errorf("scan stale check: %w", err)
		}
		out = append(out, id.CheckID(checkID))
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("iterate stale checks: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ItemExists(ctx context.Context, checkID id.CheckID, target models.VerificationTarget) (bool, error) {
	var exists bool
	err := txcontext.Conn(ctx, s.db).QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM inventory_check_items WHERE check_id = $1 AND target_key = $2)
	`, uuid.UUID(checkID), target.Key()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check item exists: %w", err)
	}
	return exists, nil
}

const itemColumns = `
	id, check_id, target_key, equipment_item_id, consumable_stock_id, compartment_id,
	manifest_entry_id, status, quantity_found, quantity_expected, condition_notes,
	verified_by, verified_at, issue_id
`

// AddItem records an item. sentinel.ErrAlreadyUsed means the target was already recorded
// in this check.
func (s *PostgresStore) AddItem(ctx context.Context, item *models.InventoryCheckItem) error {
	r := toItemRow(item)
	_, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, `
		INSERT INTO inventory_check_items (`+itemColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, r.ID, r.CheckID, r.TargetKey, r.EquipmentItemID, r.ConsumableStock, r.CompartmentID,
		r.ManifestEntryID, r.Status, r.QuantityFound, r.QuantityExpected, r.ConditionNotes,
		r.VerifiedBy, r.VerifiedAt, r.IssueID)
	if err != nil {
		if postgres.IsUniqueViolation(err, itemConstraint) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert check item: %w", err)
	}
	return nil
}

func (s *PostgresStore) LinkIssue(ctx context.Context, checkID id.CheckID, itemID id.CheckItemID, issueID id.IssueID) error {
	res, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, `
		UPDATE inventory_check_items SET issue_id = $3
		WHERE check_id = $1 AND id = $2 AND issue_id IS NULL
	`, uuid.UUID(checkID), uuid.UUID(itemID), uuid.UUID(issueID))
	if err != nil {
		return fmt.Errorf("link check item issue: %w", err)
	}
	return requireOneRow(res, "link check item issue")
}

func (s *PostgresStore) ListItems(ctx context.Context, checkID id.CheckID) ([]*models.InventoryCheckItem, error) {
	rs, err := txcontext.Conn(ctx, s.db).QueryContext(ctx, `
		SELECT `+itemColumns+` FROM inventory_check_items
		WHERE check_id = $1
		ORDER BY verified_at, id
	`, uuid.UUID(checkID))
	if err != nil {
		return nil, fmt.Errorf("list check items: %w", err)
	}
	defer rs.Close()

	var out []*models.InventoryCheckItem
	for rs.Next() {
		var r itemRow
		if err := rs.Scan(&r.ID, &r.CheckID, &r.TargetKey, &r.EquipmentItemID, &r.ConsumableStock,
			&r.CompartmentID, &r.ManifestEntryID, &r.Status, &r.QuantityFound, &r.QuantityExpected,
			&r.ConditionNotes, &r.VerifiedBy, &r.VerifiedAt, &r.IssueID); err != nil {
			return nil, fmt.Errorf("scan check item: %w", err)
		}
		item, err := fromItemRow(r)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("iterate check items: %w", err)
	}
	return out, nil
}

func scanCheck(sc rows.Scanner) (checkRow, error) {
	var r checkRow
	err := sc.Scan(
		&r.ID, &r.ApparatusID, &r.StationID, &r.PerformerID, &r.Status, &r.StartedAt, &r.LastActivityAt,
		&r.CompletedAt, &r.AbandonedAt, &r.AbandonReason, &r.TotalItems, &r.VerifiedCount, &r.IssuesFoundCount,
	)
	return r, err
}

func checkArgs(r checkRow) []any {
	return []any{
		r.ID, r.ApparatusID, r.StationID, r.PerformerID, r.Status, r.StartedAt, r.LastActivityAt,
		r.CompletedAt, r.AbandonedAt, r.AbandonReason, r.TotalItems, r.VerifiedCount, r.IssuesFoundCount,
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
