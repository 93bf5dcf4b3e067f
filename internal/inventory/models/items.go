package models

import (
	"strings"
	"time"

	id "rigcheck/pkg/domain"
	dErrors "rigcheck/pkg/domain-errors"
)

// QuantityDiscrepancyThreshold is the fraction of the expected quantity a count may be off
// by before notes become mandatory.
const QuantityDiscrepancyThreshold = 0.20

// CheckItemStatus is the outcome recorded for one target during a shift check.
type CheckItemStatus string

const (
	CheckItemPresent        CheckItemStatus = "PRESENT"
	CheckItemPresentDamaged CheckItemStatus = "PRESENT_DAMAGED"
	CheckItemMissing        CheckItemStatus = "MISSING"
	CheckItemExpired        CheckItemStatus = "EXPIRED"
	CheckItemLowQuantity    CheckItemStatus = "LOW_QUANTITY"
	CheckItemSkipped        CheckItemStatus = "SKIPPED"
)

func (s CheckItemStatus) IsValid() bool {
	switch s {
	case CheckItemPresent, CheckItemPresentDamaged, CheckItemMissing,
		CheckItemExpired, CheckItemLowQuantity, CheckItemSkipped:
		return true
	}
	return false
}

// IsAdverse reports whether the outcome raises an issue.
func (s CheckItemStatus) IsAdverse() bool {
	switch s {
	case CheckItemPresentDamaged, CheckItemMissing, CheckItemExpired, CheckItemLowQuantity:
		return true
	}
	return false
}

// AuditItemStatus is the outcome recorded for one target during a formal audit.
type AuditItemStatus string

const (
	AuditItemVerified         AuditItemStatus = "VERIFIED"
	AuditItemMissing          AuditItemStatus = "MISSING"
	AuditItemDamaged          AuditItemStatus = "DAMAGED"
	AuditItemFailedInspection AuditItemStatus = "FAILED_INSPECTION"
	AuditItemExpired          AuditItemStatus = "EXPIRED"
	AuditItemLowQuantity      AuditItemStatus = "LOW_QUANTITY"
)

func (s AuditItemStatus) IsValid() bool {
	switch s {
	case AuditItemVerified, AuditItemMissing, AuditItemDamaged,
		AuditItemFailedInspection, AuditItemExpired, AuditItemLowQuantity:
		return true
	}
	return false
}

func (s AuditItemStatus) IsAdverse() bool {
	return s.IsValid() && s != AuditItemVerified
}

type Condition string

const (
	ConditionGood          Condition = "GOOD"
	ConditionFair          Condition = "FAIR"
	ConditionPoor          Condition = "POOR"
	ConditionUnserviceable Condition = "UNSERVICEABLE"
)

func (c Condition) IsValid() bool {
	switch c {
	case ConditionGood, ConditionFair, ConditionPoor, ConditionUnserviceable:
		return true
	}
	return false
}

type TestResult string

const (
	TestPassed    TestResult = "PASSED"
	TestFailed    TestResult = "FAILED"
	TestNotTested TestResult = "NOT_TESTED"
)

func (r TestResult) IsValid() bool {
	switch r {
	case TestPassed, TestFailed, TestNotTested:
		return true
	}
	return false
}

type ExpiryStatus string

const (
	ExpiryCurrent       ExpiryStatus = "CURRENT"
	ExpiryExpiringSoon  ExpiryStatus = "EXPIRING_SOON"
	ExpiryExpired       ExpiryStatus = "EXPIRED"
	ExpiryNotApplicable ExpiryStatus = "NOT_APPLICABLE"
)

func (e ExpiryStatus) IsValid() bool {
	switch e {
	case ExpiryCurrent, ExpiryExpiringSoon, ExpiryExpired, ExpiryNotApplicable:
		return true
	}
	return false
}

// Quantities is the optional found/expected pair recorded for consumable targets.
type Quantities struct {
	Found    *int
	Expected *int
}

func (q Quantities) IsSet() bool {
	return q.Found != nil || q.Expected != nil
}

// DiscrepancyExceedsThreshold reports whether found differs from expected by more than
// QuantityDiscrepancyThreshold of expected. Both values must be present and expected
// positive for the rule to apply.
func (q Quantities) DiscrepancyExceedsThreshold() bool {
	if q.Found == nil || q.Expected == nil || *q.Expected <= 0 {
		return false
	}
	diff := *q.Expected - *q.Found
	if diff < 0 {
		diff = -diff
	}
	return float64(diff)/float64(*q.Expected) > QuantityDiscrepancyThreshold
}

func (q Quantities) validate(target VerificationTarget) error {
	if !q.IsSet() {
		return nil
	}
	if target.IsEquipment() {
		return ErrQuantityOnEquipment
	}
	if (q.Found != nil && *q.Found < 0) || (q.Expected != nil && *q.Expected < 0) {
		return dErrors.New(dErrors.CodeValidation, "quantities must not be negative")
	}
	return nil
}

// RequireNotesForDiscrepancy gates acceptance of a verification on the notes rule.
func RequireNotesForDiscrepancy(q Quantities, notes string) error {
	if q.DiscrepancyExceedsThreshold() && strings.TrimSpace(notes) == "" {
		return ErrQuantityDiscrepancyRequiresNotes
	}
	return nil
}

// InventoryCheckItem records the outcome for one target within one check. It is written
// once and only ever amended to link the auto-created issue.
type InventoryCheckItem struct {
	ID              id.CheckItemID
	CheckID         id.CheckID
	Target          VerificationTarget
	CompartmentID   id.CompartmentID
	ManifestEntryID *id.ManifestEntryID
	Status          CheckItemStatus
	Quantities      Quantities
	ConditionNotes  string
	VerifiedBy      id.UserID
	VerifiedAt      time.Time
	IssueID         *id.IssueID
}

// NewInventoryCheckItemParams groups the inputs of NewInventoryCheckItem.
type NewInventoryCheckItemParams struct {
	ID              id.CheckItemID
	CheckID         id.CheckID
	Target          VerificationTarget
	CompartmentID   id.CompartmentID
	ManifestEntryID *id.ManifestEntryID
	Status          CheckItemStatus
	Quantities      Quantities
	ConditionNotes  string
	VerifiedBy      id.UserID
	VerifiedAt      time.Time
}

func NewInventoryCheckItem(p NewInventoryCheckItemParams) (*InventoryCheckItem, error) {
	if p.ID.IsNil() || p.CheckID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "item and check ids are required")
	}
	if p.Target.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "target is required")
	}
	if p.CompartmentID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "compartment_id is required")
	}
	if !p.Status.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid status: "+string(p.Status))
	}
	if err := p.Quantities.validate(p.Target); err != nil {
		return nil, err
	}
	if p.VerifiedBy.IsNil() || p.VerifiedAt.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "verifier and verification time are required")
	}
	return &InventoryCheckItem{
		ID:              p.ID,
		CheckID:         p.CheckID,
		Target:          p.Target,
		CompartmentID:   p.CompartmentID,
		ManifestEntryID: p.ManifestEntryID,
		Status:          p.Status,
		Quantities:      p.Quantities,
		ConditionNotes:  strings.TrimSpace(p.ConditionNotes),
		VerifiedBy:      p.VerifiedBy,
		VerifiedAt:      p.VerifiedAt,
	}, nil
}

// WithIssue links the auto-created issue. The link is set at most once.
func (i *InventoryCheckItem) WithIssue(issueID id.IssueID) (*InventoryCheckItem, error) {
	if i.IssueID != nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "check item already linked to an issue")
	}
	next := *i
	next.IssueID = &issueID
	return &next, nil
}

// FormalAuditItem records the outcome for one target within one audit.
type FormalAuditItem struct {
	ID              id.AuditItemID
	AuditID         id.AuditID
	Target          VerificationTarget
	CompartmentID   id.CompartmentID
	ManifestEntryID *id.ManifestEntryID
	Status          AuditItemStatus
	IsUnexpected    bool
	Condition       Condition
	TestResult      TestResult
	ExpiryStatus    ExpiryStatus
	Quantities      Quantities
	Notes           string
	AuditedBy       id.UserID
	AuditedAt       time.Time
	IssueID         *id.IssueID
}

type NewFormalAuditItemParams struct {
	ID              id.AuditItemID
	AuditID         id.AuditID
	Target          VerificationTarget
	CompartmentID   id.CompartmentID
	ManifestEntryID *id.ManifestEntryID
	Status          AuditItemStatus
	IsUnexpected    bool
	Condition       Condition
	TestResult      TestResult
	ExpiryStatus    ExpiryStatus
	Quantities      Quantities
	Notes           string
	AuditedBy       id.UserID
	AuditedAt       time.Time
}

func NewFormalAuditItem(p NewFormalAuditItemParams) (*FormalAuditItem, error) {
	if p.ID.IsNil() || p.AuditID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "item and audit ids are required")
	}
	if p.Target.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "target is required")
	}
	if p.CompartmentID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "compartment_id is required")
	}
	if !p.Status.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid status: "+string(p.Status))
	}
	if p.IsUnexpected && p.ManifestEntryID != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "unexpected items cannot reference a manifest entry")
	}
	if p.Condition == "" {
		p.Condition = ConditionGood
	}
	if p.TestResult == "" {
		p.TestResult = TestNotTested
	}
	if p.ExpiryStatus == "" {
		p.ExpiryStatus = ExpiryNotApplicable
	}
	if !p.Condition.IsValid() || !p.TestResult.IsValid() || !p.ExpiryStatus.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid condition, test result or expiry status")
	}
	if err := p.Quantities.validate(p.Target); err != nil {
		return nil, err
	}
	if p.AuditedBy.IsNil() || p.AuditedAt.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "auditor and audit time are required")
	}
	return &FormalAuditItem{
		ID:              p.ID,
		AuditID:         p.AuditID,
		Target:          p.Target,
		CompartmentID:   p.CompartmentID,
		ManifestEntryID: p.ManifestEntryID,
		Status:          p.Status,
		IsUnexpected:    p.IsUnexpected,
		Condition:       p.Condition,
		TestResult:      p.TestResult,
		ExpiryStatus:    p.ExpiryStatus,
		Quantities:      p.Quantities,
		Notes:           strings.TrimSpace(p.Notes),
		AuditedBy:       p.AuditedBy,
		AuditedAt:       p.AuditedAt,
	}, nil
}

func (i *FormalAuditItem) WithIssue(issueID id.IssueID) (*FormalAuditItem, error) {
	if i.IssueID != nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "audit item already linked to an issue")
	}
	next := *i
	next.IssueID = &issueID
	return &next, nil
}
