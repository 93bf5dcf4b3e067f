// Package models holds the equipment and consumable facts the verification workflow reads
// and writes. Equipment CRUD lives outside this service.
package models

import (
	id "rigcheck/pkg/domain"
)

// Status is the operational status of one equipment item.
type Status string

const (
	StatusAvailable        Status = "available"
	StatusInService        Status = "in_service"
	StatusMissing          Status = "missing"
	StatusDamaged          Status = "damaged"
	StatusFailedInspection Status = "failed_inspection"
	StatusOutOfService     Status = "out_of_service"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusInService, StatusMissing, StatusDamaged,
		StatusFailedInspection, StatusOutOfService:
		return true
	}
	return false
}

// Ownership decides whether a loss is charged to the crew.
type Ownership string

const (
	OwnershipDepartment Ownership = "department"
	OwnershipCrew       Ownership = "crew"
)

func (o Ownership) IsCrew() bool { return o == OwnershipCrew }

// Item is an individually tracked piece of equipment.
type Item struct {
	ID              id.EquipmentItemID
	ApparatusID     id.ApparatusID
	EquipmentTypeID id.EquipmentTypeID
	Status          Status
	Ownership       Ownership
}

// Stock is a counted consumable on an apparatus.
type Stock struct {
	ID              id.ConsumableStockID
	ApparatusID     id.ApparatusID
	EquipmentTypeID id.EquipmentTypeID
	Quantity        int
}

// Placement is the apparatus a record is assigned to and the type it is an instance of.
// A nil ApparatusID means the record is in station storage.
type Placement struct {
	ApparatusID     id.ApparatusID
	EquipmentTypeID id.EquipmentTypeID
}

// On reports whether the record is carried on apparatusID.
func (p Placement) On(apparatusID id.ApparatusID) bool {
	return !p.ApparatusID.IsNil() && p.ApparatusID == apparatusID
}
