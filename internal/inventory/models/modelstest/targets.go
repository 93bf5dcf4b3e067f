// Package modelstest builds inventory model fixtures for tests.
package modelstest

import (
	"rigcheck/internal/inventory/models"
	id "rigcheck/pkg/domain"
)

// Equipment returns the target for itemID and panics on a nil id.
func Equipment(itemID id.EquipmentItemID) models.VerificationTarget {
	t, err := models.ForEquipment(itemID)
	if err != nil {
		panic(err)
	}
	return t
}

// Consumable returns the target for stockID and panics on a nil id.
func Consumable(stockID id.ConsumableStockID) models.VerificationTarget {
	t, err := models.ForConsumable(stockID)
	if err != nil {
		panic(err)
	}
	return t
}
