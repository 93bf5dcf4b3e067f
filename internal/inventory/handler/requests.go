package handler

import (
	"strings"

	"rigcheck/internal/inventory/models"
	id "rigcheck/pkg/domain"
	dErrors "rigcheck/pkg/domain-errors"
)

const maxTextLength = 2000

// targetFields is embedded by every item submission.
type targetFields struct {
	EquipmentItemID   string `json:"equipment_item_id,omitempty"`
	ConsumableStockID string `json:"consumable_stock_id,omitempty"`
	CompartmentID     string `json:"compartment_id"`
}

func (f targetFields) parse() (models.VerificationTarget, id.CompartmentID, error) {
	var (
		itemID  *id.EquipmentItemID
		stockID *id.ConsumableStockID
	)
	if raw := strings.TrimSpace(f.EquipmentItemID); raw != "" {
		v, err := id.ParseEquipmentItemID(raw)
		if err != nil {
			return models.VerificationTarget{}, id.CompartmentID{}, err
		}
		itemID = &v
	}
	if raw := strings.TrimSpace(f.ConsumableStockID); raw != "" {
		v, err := id.ParseConsumableStockID(raw)
		if err != nil {
			return models.VerificationTarget{}, id.CompartmentID{}, err
		}
		stockID = &v
	}
	target, err := models.TargetFromIDs(itemID, stockID)
	if err != nil {
		return models.VerificationTarget{}, id.CompartmentID{}, err
	}
	compartmentID, err := id.ParseCompartmentID(strings.TrimSpace(f.CompartmentID))
	if err != nil {
		return models.VerificationTarget{}, id.CompartmentID{}, err
	}
	return target, compartmentID, nil
}

func parseEntry(raw string) (*id.ManifestEntryID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	entryID, err := id.ParseManifestEntryID(raw)
	if err != nil {
		return nil, err
	}
	return &entryID, nil
}

func checkLength(field, value string) error {
	if len(value) > maxTextLength {
		return dErrors.New(dErrors.CodeValidation, field+" must be 2000 characters or less")
	}
	return nil
}

// VerifyItemRequest is the body of POST /checks/{checkID}/items.
type VerifyItemRequest struct {
	targetFields
	ManifestEntryID  string `json:"manifest_entry_id,omitempty"`
	Status           string `json:"status"`
	QuantityFound    *int   `json:"quantity_found,omitempty"`
	QuantityExpected *int   `json:"quantity_expected,omitempty"`
	Notes            string `json:"notes,omitempty"`
}

func (r *VerifyItemRequest) toModel() (models.VerifyCheckItemRequest, error) {
	target, compartmentID, err := r.parse()
	if err != nil {
		return models.VerifyCheckItemRequest{}, err
	}
	entryID, err := parseEntry(r.ManifestEntryID)
	if err != nil {
		return models.VerifyCheckItemRequest{}, err
	}
	if err := checkLength("notes", r.Notes); err != nil {
		return models.VerifyCheckItemRequest{}, err
	}
	return models.VerifyCheckItemRequest{
		Target:          target,
		CompartmentID:   compartmentID,
		ManifestEntryID: entryID,
		Status:          models.CheckItemStatus(r.Status),
		Quantities:      models.Quantities{Found: r.QuantityFound, Expected: r.QuantityExpected},
		Notes:           r.Notes,
	}, nil
}

// AuditItemRequest is the body of POST /audits/{auditID}/items.
type AuditItemRequest struct {
	targetFields
	ManifestEntryID  string `json:"manifest_entry_id,omitempty"`
	Status           string `json:"status"`
	Condition        string `json:"condition,omitempty"`
	TestResult       string `json:"test_result,omitempty"`
	ExpiryStatus     string `json:"expiry_status,omitempty"`
	QuantityFound    *int   `json:"quantity_found,omitempty"`
	QuantityExpected *int   `json:"quantity_expected,omitempty"`
	Notes            string `json:"notes,omitempty"`
}

func (r *AuditItemRequest) toModel() (models.AuditItemRequest, error) {
	target, compartmentID, err := r.parse()
	if err != nil {
		return models.AuditItemRequest{}, err
	}
	entryID, err := parseEntry(r.ManifestEntryID)
	if err != nil {
		return models.AuditItemRequest{}, err
	}
	if err := checkLength("notes", r.Notes); err != nil {
		return models.AuditItemRequest{}, err
	}
	return models.AuditItemRequest{
		Target:          target,
		CompartmentID:   compartmentID,
		ManifestEntryID: entryID,
		Status:          models.AuditItemStatus(r.Status),
		Condition:       models.Condition(r.Condition),
		TestResult:      models.TestResult(r.TestResult),
		ExpiryStatus:    models.ExpiryStatus(r.ExpiryStatus),
		Quantities:      models.Quantities{Found: r.QuantityFound, Expected: r.QuantityExpected},
		Notes:           r.Notes,
	}, nil
}

// UnexpectedItemRequest is the body of POST /audits/{auditID}/unexpected-items.
type UnexpectedItemRequest struct {
	targetFields
	Condition string `json:"condition,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

func (r *UnexpectedItemRequest) toModel() (models.UnexpectedItemRequest, error) {
	target, compartmentID, err := r.parse()
	if err != nil {
		return models.UnexpectedItemRequest{}, err
	}
	if err := checkLength("notes", r.Notes); err != nil {
		return models.UnexpectedItemRequest{}, err
	}
	return models.UnexpectedItemRequest{
		Target:        target,
		CompartmentID: compartmentID,
		Condition:     models.Condition(r.Condition),
		Notes:         r.Notes,
	}, nil
}

// StartAuditRequest is the optional body of POST /apparatus/{apparatusID}/audits.
type StartAuditRequest struct {
	Notes string `json:"notes,omitempty"`
}

// ReasonRequest is the body of the abandon endpoints.
type ReasonRequest struct {
	Reason string `json:"reason"`
}

func (r *ReasonRequest) Validate() error {
	r.Reason = strings.TrimSpace(r.Reason)
	if r.Reason == "" {
		return dErrors.New(dErrors.CodeValidation, "reason is required")
	}
	return checkLength("reason", r.Reason)
}

// NotesRequest is the optional body of POST /audits/{auditID}/complete.
type NotesRequest struct {
	Notes string `json:"notes,omitempty"`
}
