package models

import (
	id "rigcheck/pkg/domain"
)

// Entry is one line of an apparatus manifest: what should be carried, where and how many.
type Entry struct {
	ID               id.ManifestEntryID `json:"id"`
	ApparatusID      id.ApparatusID     `json:"apparatus_id"`
	CompartmentID    id.CompartmentID   `json:"compartment_id"`
	EquipmentTypeID  id.EquipmentTypeID `json:"equipment_type_id"`
	RequiredQuantity int                `json:"required_quantity"`
	IsCritical       bool               `json:"is_critical"`
}

// Snapshot is the manifest of one apparatus at a point in time.
type Snapshot []Entry

// Find returns the entry with the given id.
func (s Snapshot) Find(entryID id.ManifestEntryID) (Entry, bool) {
	for _, e := range s {
		if e.ID == entryID {
			return e, true
		}
	}
	return Entry{}, false
}
