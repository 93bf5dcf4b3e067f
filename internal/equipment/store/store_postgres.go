package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"rigcheck/internal/equipment/models"
	id "rigcheck/pkg/domain"
	"rigcheck/pkg/platform/sentinel"
	txcontext "rigcheck/pkg/platform/tx"
)

// PostgresStore reads and writes equipment status and consumable counts. Every call joins
// the transaction carried by ctx when there is one.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetStatus(ctx context.Context, itemID id.EquipmentItemID) (models.Status, error) {
	var status string
	err := txcontext.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT status FROM equipment_items WHERE id = $1`, uuid.UUID(itemID)).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", sentinel.ErrNotFound
		}
		return "", fmt.Errorf("get equipment status: %w", err)
	}
	return models.Status(status), nil
}

func (s *PostgresStore) SetStatus(ctx context.Context, itemID id.EquipmentItemID, status models.Status) error {
	res, err := txcontext.Conn(ctx, s.db).ExecContext(ctx,
		`UPDATE equipment_items SET status = $2 WHERE id = $1`, uuid.UUID(itemID), string(status))
	if err != nil {
		return fmt.Errorf("set equipment status: %w", err)
	}
	return requireOneRow(res)
}

func (s *PostgresStore) GetOwnership(ctx context.Context, itemID id.EquipmentItemID) (models.Ownership, error) {
	var ownership string
	err := txcontext.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT ownership FROM equipment_items WHERE id = $1`, uuid.UUID(itemID)).Scan(&ownership)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", sentinel.ErrNotFound
		}
		return "", fmt.Errorf("get equipment ownership: %w", err)
	}
	return models.Ownership(ownership), nil
}

func (s *PostgresStore) ItemPlacement(ctx context.Context, itemID id.EquipmentItemID) (models.Placement, error) {
	return s.placement(ctx,
		`SELECT apparatus_id, equipment_type_id FROM equipment_items WHERE id = $1`, uuid.UUID(itemID))
}

func (s *PostgresStore) StockPlacement(ctx context.Context, stockID id.ConsumableStockID) (models.Placement, error) {
	return s.placement(ctx,
		`SELECT apparatus_id, equipment_type_id FROM consumable_stocks WHERE id = $1`, uuid.UUID(stockID))
}

func (s *PostgresStore) placement(ctx context.Context, query string, recordID uuid.UUID) (models.Placement, error) {
	var (
		apparatusID uuid.NullUUID
		typeID      uuid.UUID
	)
	err := txcontext.Conn(ctx, s.db).QueryRowContext(ctx, query, recordID).Scan(&apparatusID, &typeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Placement{}, sentinel.ErrNotFound
		}
		return models.Placement{}, fmt.Errorf("get placement: %w", err)
	}
	p := models.Placement{EquipmentTypeID: id.EquipmentTypeID(typeID)}
	if apparatusID.Valid {
		p.ApparatusID = id.ApparatusID(apparatusID.UUID)
	}
	return p, nil
}

func (s *PostgresStore) GetQuantity(ctx context.Context, stockID id.ConsumableStockID) (int, error) {
	var quantity int
	err := txcontext.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT quantity FROM consumable_stocks WHERE id = $1`, uuid.UUID(stockID)).Scan(&quantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, sentinel.ErrNotFound
		}
		return 0, fmt.Errorf("get consumable quantity: %w", err)
	}
	return quantity, nil
}

func (s *PostgresStore) SetQuantity(ctx context.Context, stockID id.ConsumableStockID, quantity int) error {
	res, err := txcontext.Conn(ctx, s.db).ExecContext(ctx,
		`UPDATE consumable_stocks SET quantity = $2 WHERE id = $1`, uuid.UUID(stockID), quantity)
	if err != nil {
		return fmt.Errorf("set consumable quantity: %w", err)
	}
	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
