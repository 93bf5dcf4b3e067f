package models

import (
	"github.com/google/uuid"

	id "rigcheck/pkg/domain"
	dErrors "rigcheck/pkg/domain-errors"
)

// TargetKind is the persisted discriminant of a Target.
type TargetKind string

const (
	TargetEquipment  TargetKind = "equipment"
	TargetConsumable TargetKind = "consumable"
	TargetApparatus  TargetKind = "apparatus"
)

// Target is what an issue is about: exactly one of an equipment item, a consumable stock
// entry, or the apparatus as a whole.
type Target struct {
	kind TargetKind
	ref  uuid.UUID
}

func EquipmentTarget(itemID id.EquipmentItemID) (Target, error) {
	if itemID.IsNil() {
		return Target{}, dErrors.New(dErrors.CodeValidation, "equipment_item_id is required")
	}
	return Target{kind: TargetEquipment, ref: uuid.UUID(itemID)}, nil
}

func ConsumableTarget(stockID id.ConsumableStockID) (Target, error) {
	if stockID.IsNil() {
		return Target{}, dErrors.New(dErrors.CodeValidation, "consumable_stock_id is required")
	}
	return Target{kind: TargetConsumable, ref: uuid.UUID(stockID)}, nil
}

// ApparatusTarget marks an apparatus-level issue; the apparatus id lives on the issue.
func ApparatusTarget() Target {
	return Target{kind: TargetApparatus}
}

// RestoreTarget rebuilds a target from its persisted kind and reference.
func RestoreTarget(kind TargetKind, ref uuid.UUID) (Target, error) {
	switch kind {
	case TargetEquipment:
		return EquipmentTarget(id.EquipmentItemID(ref))
	case TargetConsumable:
		return ConsumableTarget(id.ConsumableStockID(ref))
	case TargetApparatus:
		return ApparatusTarget(), nil
	default:
		return Target{}, dErrors.New(dErrors.CodeInvariantViolation, "unknown issue target kind: "+string(kind))
	}
}

func (t Target) Kind() TargetKind { return t.kind }
func (t Target) IsZero() bool     { return t.kind == "" }

// Ref is the referenced item or stock id; uuid.Nil for apparatus-level targets.
func (t Target) Ref() uuid.UUID { return t.ref }

func (t Target) EquipmentItemID() (id.EquipmentItemID, bool) {
	return id.EquipmentItemID(t.ref), t.kind == TargetEquipment
}

func (t Target) ConsumableStockID() (id.ConsumableStockID, bool) {
	return id.ConsumableStockID(t.ref), t.kind == TargetConsumable
}
