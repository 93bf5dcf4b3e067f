package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	equipment "rigcheck/internal/equipment/models"
	"rigcheck/internal/inventory/models"
	issuemodels "rigcheck/internal/issue/models"
	issueservice "rigcheck/internal/issue/service"
	manifest "rigcheck/internal/manifest/models"
	id "rigcheck/pkg/domain"
	dErrors "rigcheck/pkg/domain-errors"
	"rigcheck/pkg/platform/sentinel"
)

// outcome is the status-independent view of one recorded item that drives side effects.
type outcome struct {
	category     issuemodels.Category
	mirrorStatus equipment.Status
	adverse      bool
	label        string
}

func checkOutcome(status models.CheckItemStatus) outcome {
	o := outcome{adverse: status.IsAdverse(), label: string(status)}
	switch status {
	case models.CheckItemMissing:
		o.category, o.mirrorStatus = issuemodels.CategoryMissing, equipment.StatusMissing
	case models.CheckItemPresentDamaged:
		o.category, o.mirrorStatus = issuemodels.CategoryDamage, equipment.StatusDamaged
	case models.CheckItemExpired:
		o.category = issuemodels.CategoryExpired
	case models.CheckItemLowQuantity:
		o.category = issuemodels.CategoryLowStock
	}
	return o
}

func auditOutcome(status models.AuditItemStatus) outcome {
	o := outcome{adverse: status.IsAdverse(), label: string(status)}
	switch status {
	case models.AuditItemMissing:
		o.category, o.mirrorStatus = issuemodels.CategoryMissing, equipment.StatusMissing
	case models.AuditItemDamaged:
		o.category, o.mirrorStatus = issuemodels.CategoryDamage, equipment.StatusDamaged
	case models.AuditItemFailedInspection:
		o.category, o.mirrorStatus = issuemodels.CategoryMalfunction, equipment.StatusFailedInspection
	case models.AuditItemExpired:
		o.category = issuemodels.CategoryExpired
	case models.AuditItemLowQuantity:
		o.category = issuemodels.CategoryLowStock
	}
	return o
}

func severityFor(category issuemodels.Category, critical bool) issuemodels.Severity {
	var severity issuemodels.Severity
	switch category {
	case issuemodels.CategoryMissing, issuemodels.CategoryMalfunction:
		severity = issuemodels.SeverityHigh
	case issuemodels.CategoryDamage, issuemodels.CategoryExpired:
		severity = issuemodels.SeverityMedium
	default:
		severity = issuemodels.SeverityLow
	}
	if critical {
		return severity.Raise()
	}
	return severity
}

func issueTarget(t models.VerificationTarget) (issuemodels.Target, error) {
	if itemID, ok := t.EquipmentItemID(); ok {
		return issuemodels.EquipmentTarget(itemID)
	}
	if stockID, ok := t.ConsumableStockID(); ok {
		return issuemodels.ConsumableTarget(stockID)
	}
	return issuemodels.Target{}, dErrors.New(dErrors.CodeValidation, "target is required")
}

// resolveEntry checks that a referenced manifest entry belongs to the apparatus.
func resolveEntry(snapshot manifest.Snapshot, entryID *id.ManifestEntryID) (*manifest.Entry, error) {
	if entryID == nil {
		return nil, nil
	}
	entry, ok := snapshot.Find(*entryID)
	if !ok {
		return nil, dErrors.New(dErrors.CodeValidation, "manifest entry does not belong to this apparatus")
	}
	return &entry, nil
}

// requireOnApparatus rejects targets that are not carried on apparatusID, or whose equipment
// type differs from the manifest entry they are recorded against.
func (s *Service) requireOnApparatus(ctx context.Context, target models.VerificationTarget, apparatusID id.ApparatusID, entry *manifest.Entry) error {
	var (
		placement equipment.Placement
		err       error
		what      string
	)
	if itemID, ok := target.EquipmentItemID(); ok {
		what = "equipment item"
		placement, err = s.equipment.ItemPlacement(ctx, itemID)
	} else if stockID, ok := target.ConsumableStockID(); ok {
		what = "consumable stock"
		placement, err = s.equipment.StockPlacement(ctx, stockID)
	} else {
		return dErrors.New(dErrors.CodeValidation, "verification target is required")
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeValidation, what+" not found")
	case err != nil:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load "+what+" placement")
	}
	if !placement.On(apparatusID) {
		return dErrors.New(dErrors.CodeValidation, what+" is not carried on this apparatus")
	}
	if entry != nil && entry.EquipmentTypeID != placement.EquipmentTypeID {
		return dErrors.New(dErrors.CodeValidation, what+" does not match the manifest entry type")
	}
	return nil
}

func (s *Service) manifestFor(ctx context.Context, apparatusID id.ApparatusID) (manifest.Snapshot, error) {
	snapshot, err := s.manifests.EntriesForApparatus(ctx, apparatusID)
	if err != nil {
		return nil, translateNotFound(err, "apparatus not found", "failed to load manifest")
	}
	return snapshot, nil
}

type sideEffects struct {
	actor       id.Actor
	apparatusID id.ApparatusID
	stationID   id.StationID
	target      models.VerificationTarget
	entry       *manifest.Entry
	outcome     outcome
	quantities  models.Quantities
	notes       string
	source      string
}

// openIssue raises the auto-issue for an adverse outcome. It must run inside the caller's
// transaction.
func (s *Service) openIssue(ctx context.Context, e sideEffects, now time.Time) (*issuemodels.OpenIssue, error) {
	target, err := issueTarget(e.target)
	if err != nil {
		return nil, err
	}
	crew := false
	if itemID, ok := e.target.EquipmentItemID(); ok {
		ownership, err := s.equipment.GetOwnership(ctx, itemID)
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeValidation, "equipment item not found")
		case err != nil:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load equipment ownership")
		}
		crew = ownership.IsCrew()
	}
	critical := e.entry != nil && e.entry.IsCritical
	description := e.notes
	if description == "" {
		description = fmt.Sprintf("Recorded as %s during %s", e.outcome.label, e.source)
	}
	issue, err := s.issues.CreateOpenIssue(ctx, issueservice.NewIssueParams{
		Target:               target,
		ApparatusID:          e.apparatusID,
		StationID:            e.stationID,
		Category:             e.outcome.category,
		Severity:             severityFor(e.outcome.category, critical),
		Title:                fmt.Sprintf("%s: %s", e.outcome.label, e.target),
		Description:          description,
		Reporter:             e.actor,
		ReportedAt:           now,
		IsCrewResponsibility: crew,
	})
	if err != nil {
		return nil, err
	}
	return issue, nil
}

// applyEquipment mirrors the outcome onto the equipment record, or records the counted
// quantity of a consumable.
func (s *Service) applyEquipment(ctx context.Context, e sideEffects) error {
	if itemID, ok := e.target.EquipmentItemID(); ok {
		if e.outcome.mirrorStatus == "" {
			return nil
		}
		current, err := s.equipment.GetStatus(ctx, itemID)
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return dErrors.New(dErrors.CodeValidation, "equipment item not found")
		case err != nil:
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load equipment status")
		}
		if current == e.outcome.mirrorStatus {
			return nil
		}
		if err := s.equipment.SetStatus(ctx, itemID, e.outcome.mirrorStatus); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update equipment status")
		}
		return nil
	}
	stockID, ok := e.target.ConsumableStockID()
	if !ok || e.quantities.Found == nil {
		return nil
	}
	err := s.equipment.SetQuantity(ctx, stockID, *e.quantities.Found)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeValidation, "consumable stock not found")
	case err != nil:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update consumable quantity")
	}
	return nil
}
