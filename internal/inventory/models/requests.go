package models

import (
	"strings"

	id "rigcheck/pkg/domain"
	dErrors "rigcheck/pkg/domain-errors"
)

// VerifyCheckItemRequest is one item submission during a shift check.
type VerifyCheckItemRequest struct {
	Target          VerificationTarget
	CompartmentID   id.CompartmentID
	ManifestEntryID *id.ManifestEntryID
	Status          CheckItemStatus
	Quantities      Quantities
	Notes           string
}

func (r *VerifyCheckItemRequest) Normalize() {
	r.Notes = strings.TrimSpace(r.Notes)
	r.Status = CheckItemStatus(strings.ToUpper(strings.TrimSpace(string(r.Status))))
}

// Validate applies the request-level rules. The notes rule for quantity discrepancies
// gates acceptance here; issue creation is decided later from the accepted status.
func (r *VerifyCheckItemRequest) Validate() error {
	if r.Target.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "target is required")
	}
	if r.CompartmentID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "compartment_id is required")
	}
	if !r.Status.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "invalid status: "+string(r.Status))
	}
	if err := r.Quantities.validate(r.Target); err != nil {
		return err
	}
	return RequireNotesForDiscrepancy(r.Quantities, r.Notes)
}

// AuditItemRequest is one manifest item submission during a formal audit.
type AuditItemRequest struct {
	Target          VerificationTarget
	CompartmentID   id.CompartmentID
	ManifestEntryID *id.ManifestEntryID
	Status          AuditItemStatus
	Condition       Condition
	TestResult      TestResult
	ExpiryStatus    ExpiryStatus
	Quantities      Quantities
	Notes           string
}

func (r *AuditItemRequest) Normalize() {
	r.Notes = strings.TrimSpace(r.Notes)
	r.Status = AuditItemStatus(strings.ToUpper(strings.TrimSpace(string(r.Status))))
	r.Condition = Condition(strings.ToUpper(strings.TrimSpace(string(r.Condition))))
	r.TestResult = TestResult(strings.ToUpper(strings.TrimSpace(string(r.TestResult))))
	r.ExpiryStatus = ExpiryStatus(strings.ToUpper(strings.TrimSpace(string(r.ExpiryStatus))))
}

func (r *AuditItemRequest) Validate() error {
	if r.Target.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "target is required")
	}
	if r.CompartmentID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "compartment_id is required")
	}
	if !r.Status.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "invalid status: "+string(r.Status))
	}
	if r.Condition != "" && !r.Condition.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "invalid condition: "+string(r.Condition))
	}
	if r.TestResult != "" && !r.TestResult.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "invalid test_result: "+string(r.TestResult))
	}
	if r.ExpiryStatus != "" && !r.ExpiryStatus.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "invalid expiry_status: "+string(r.ExpiryStatus))
	}
	if err := r.Quantities.validate(r.Target); err != nil {
		return err
	}
	return RequireNotesForDiscrepancy(r.Quantities, r.Notes)
}

// UnexpectedItemRequest records an item found during an audit that is not on the manifest.
type UnexpectedItemRequest struct {
	Target        VerificationTarget
	CompartmentID id.CompartmentID
	Condition     Condition
	Notes         string
}

func (r *UnexpectedItemRequest) Normalize() {
	r.Notes = strings.TrimSpace(r.Notes)
	r.Condition = Condition(strings.ToUpper(strings.TrimSpace(string(r.Condition))))
}

func (r *UnexpectedItemRequest) Validate() error {
	if r.Target.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "target is required")
	}
	if r.CompartmentID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "compartment_id is required")
	}
	if r.Condition != "" && !r.Condition.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "invalid condition: "+string(r.Condition))
	}
	return nil
}
