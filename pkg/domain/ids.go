// Package domain holds the typed identifiers shared across bounded contexts.
//
// Every identifier is a distinct named uuid.UUID so the compiler rejects passing an
// apparatus id where a station id is expected. Parsing happens once at trust
// boundaries (HTTP handlers, CLI flags); everything inside works with typed values.
package domain

import (
	"github.com/google/uuid"

	dErrors "rigcheck/pkg/domain-errors"
)

type (
	UserID            uuid.UUID
	StationID         uuid.UUID
	ApparatusID       uuid.UUID
	CompartmentID     uuid.UUID
	ManifestEntryID   uuid.UUID
	EquipmentTypeID   uuid.UUID
	EquipmentItemID   uuid.UUID
	ConsumableStockID uuid.UUID
	CheckID           uuid.UUID
	CheckItemID       uuid.UUID
	AuditID           uuid.UUID
	AuditItemID       uuid.UUID
	IssueID           uuid.UUID
)

func parseUUID(kind, raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" must not be nil")
	}
	return parsed, nil
}

func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID("user_id", s)
	return UserID(u), err
}

func ParseStationID(s string) (StationID, error) {
	u, err := parseUUID("station_id", s)
	return StationID(u), err
}

func ParseApparatusID(s string) (ApparatusID, error) {
	u, err := parseUUID("apparatus_id", s)
	return ApparatusID(u), err
}

func ParseCompartmentID(s string) (CompartmentID, error) {
	u, err := parseUUID("compartment_id", s)
	return CompartmentID(u), err
}

func ParseManifestEntryID(s string) (ManifestEntryID, error) {
	u, err := parseUUID("manifest_entry_id", s)
	return ManifestEntryID(u), err
}

func ParseEquipmentTypeID(s string) (EquipmentTypeID, error) {
	u, err := parseUUID("equipment_type_id", s)
	return EquipmentTypeID(u), err
}

func ParseEquipmentItemID(s string) (EquipmentItemID, error) {
	u, err := parseUUID("equipment_item_id", s)
	return EquipmentItemID(u), err
}

func ParseConsumableStockID(s string) (ConsumableStockID, error) {
	u, err := parseUUID("consumable_stock_id", s)
	return ConsumableStockID(u), err
}

func ParseCheckID(s string) (CheckID, error) {
	u, err := parseUUID("check_id", s)
	return CheckID(u), err
}

func ParseAuditID(s string) (AuditID, error) {
	u, err := parseUUID("audit_id", s)
	return AuditID(u), err
}

func ParseIssueID(s string) (IssueID, error) {
	u, err := parseUUID("issue_id", s)
	return IssueID(u), err
}

func (id UserID) String() string            { return uuid.UUID(id).String() }
func (id StationID) String() string         { return uuid.UUID(id).String() }
func (id ApparatusID) String() string       { return uuid.UUID(id).String() }
func (id CompartmentID) String() string     { return uuid.UUID(id).String() }
func (id ManifestEntryID) String() string   { return uuid.UUID(id).String() }
func (id EquipmentTypeID) String() string   { return uuid.UUID(id).String() }
func (id EquipmentItemID) String() string   { return uuid.UUID(id).String() }
func (id ConsumableStockID) String() string { return uuid.UUID(id).String() }
func (id CheckID) String() string           { return uuid.UUID(id).String() }
func (id CheckItemID) String() string       { return uuid.UUID(id).String() }
func (id AuditID) String() string           { return uuid.UUID(id).String() }
func (id AuditItemID) String() string       { return uuid.UUID(id).String() }
func (id IssueID) String() string           { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool            { return uuid.UUID(id) == uuid.Nil }
func (id StationID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id ApparatusID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id CompartmentID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id ManifestEntryID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id EquipmentTypeID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id EquipmentItemID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id ConsumableStockID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id CheckID) IsNil() bool           { return uuid.UUID(id) == uuid.Nil }
func (id CheckItemID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id AuditID) IsNil() bool           { return uuid.UUID(id) == uuid.Nil }
func (id AuditItemID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id IssueID) IsNil() bool           { return uuid.UUID(id) == uuid.Nil }

func NewCheckID() CheckID         { return CheckID(uuid.New()) }
func NewCheckItemID() CheckItemID { return CheckItemID(uuid.New()) }
func NewAuditID() AuditID         { return AuditID(uuid.New()) }
func NewAuditItemID() AuditItemID { return AuditItemID(uuid.New()) }
func NewIssueID() IssueID         { return IssueID(uuid.New()) }

func (id ManifestEntryID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id ApparatusID) MarshalText() ([]byte, error)     { return uuid.UUID(id).MarshalText() }
func (id CompartmentID) MarshalText() ([]byte, error)   { return uuid.UUID(id).MarshalText() }
func (id EquipmentTypeID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *ManifestEntryID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *ApparatusID) UnmarshalText(b []byte) error     { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *CompartmentID) UnmarshalText(b []byte) error   { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *EquipmentTypeID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
