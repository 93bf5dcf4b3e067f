package models

import (
	"strings"

	"github.com/google/uuid"

	id "rigcheck/pkg/domain"
	dErrors "rigcheck/pkg/domain-errors"
)

type targetKind uint8

const (
	targetNone targetKind = iota
	targetEquipment
	targetConsumable
)

const (
	equipmentKeyPrefix  = "equipment:"
	consumableKeyPrefix = "consumable:"
)

// VerificationTarget names the thing being verified: exactly one of an equipment item or
// a consumable stock entry. The zero value is not a valid target; build one with
// ForEquipment or ForConsumable. Targets are comparable and usable as map keys.
type VerificationTarget struct {
	kind targetKind
	ref  uuid.UUID
}

func ForEquipment(itemID id.EquipmentItemID) (VerificationTarget, error) {
	if itemID.IsNil() {
		return VerificationTarget{}, dErrors.New(dErrors.CodeValidation, "equipment_item_id is required")
	}
	return VerificationTarget{kind: targetEquipment, ref: uuid.UUID(itemID)}, nil
}

func ForConsumable(stockID id.ConsumableStockID) (VerificationTarget, error) {
	if stockID.IsNil() {
		return VerificationTarget{}, dErrors.New(dErrors.CodeValidation, "consumable_stock_id is required")
	}
	return VerificationTarget{kind: targetConsumable, ref: uuid.UUID(stockID)}, nil
}

func (t VerificationTarget) IsEquipment() bool  { return t.kind == targetEquipment }
func (t VerificationTarget) IsConsumable() bool { return t.kind == targetConsumable }
func (t VerificationTarget) IsZero() bool       { return t.kind == targetNone }

func (t VerificationTarget) EquipmentItemID() (id.EquipmentItemID, bool) {
	if t.kind != targetEquipment {
		return id.EquipmentItemID{}, false
	}
	return id.EquipmentItemID(t.ref), true
}

func (t VerificationTarget) ConsumableStockID() (id.ConsumableStockID, bool) {
	if t.kind != targetConsumable {
		return id.ConsumableStockID{}, false
	}
	return id.ConsumableStockID(t.ref), true
}

// Key is the stable string form used for the (session, target) uniqueness constraint.
func (t VerificationTarget) Key() string {
	switch t.kind {
	case targetEquipment:
		return equipmentKeyPrefix + t.ref.String()
	case targetConsumable:
		return consumableKeyPrefix + t.ref.String()
	default:
		return ""
	}
}

func (t VerificationTarget) String() string {
	return t.Key()
}

// ParseTargetKey is the inverse of Key.
func ParseTargetKey(key string) (VerificationTarget, error) {
	if rest, ok := strings.CutPrefix(key, equipmentKeyPrefix); ok {
		itemID, err := id.ParseEquipmentItemID(rest)
		if err != nil {
			return VerificationTarget{}, err
		}
		return ForEquipment(itemID)
	}
	if rest, ok := strings.CutPrefix(key, consumableKeyPrefix); ok {
		stockID, err := id.ParseConsumableStockID(rest)
		if err != nil {
			return VerificationTarget{}, err
		}
		return ForConsumable(stockID)
	}
	return VerificationTarget{}, dErrors.New(dErrors.CodeInvalidInput, "unknown target key")
}

// TargetFromIDs builds a target from the two optional ids a request or row carries,
// rejecting both-set and neither-set.
func TargetFromIDs(itemID *id.EquipmentItemID, stockID *id.ConsumableStockID) (VerificationTarget, error) {
	switch {
	case itemID != nil && stockID != nil:
		return VerificationTarget{}, dErrors.New(dErrors.CodeValidation, "exactly one of equipment_item_id or consumable_stock_id must be set")
	case itemID != nil:
		return ForEquipment(*itemID)
	case stockID != nil:
		return ForConsumable(*stockID)
	default:
		return VerificationTarget{}, dErrors.New(dErrors.CodeValidation, "exactly one of equipment_item_id or consumable_stock_id must be set")
	}
}
