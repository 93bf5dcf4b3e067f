package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"rigcheck/internal/inventory/models"
	issuemodels "rigcheck/internal/issue/models"
	id "rigcheck/pkg/domain"
	dErrors "rigcheck/pkg/domain-errors"
	audit "rigcheck/pkg/platform/audit"
	"rigcheck/pkg/platform/sentinel"
)

// VerifyCheckResult is the outcome of one item verification.
type VerifyCheckResult struct {
	Check *models.InProgressCheck
	Item  *models.InventoryCheckItem
	Issue *issuemodels.OpenIssue
}

// StartCheck opens a shift check sized to the apparatus manifest. A concurrent start on the
// same apparatus yields *models.ActiveSessionExistsError naming the check that won.
func (s *Service) StartCheck(ctx context.Context, actor id.Actor, apparatusID id.ApparatusID, now time.Time) (_ *models.InProgressCheck, err error) {
	ctx, span := s.startSpan(ctx, "inventory.StartCheck", attribute.String("apparatus_id", apparatusID.String()))
	defer func() { endSpan(span, err) }()

	stationID, err := s.authorizeApparatus(ctx, actor, apparatusID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.manifestFor(ctx, apparatusID)
	if err != nil {
		return nil, err
	}
	check, err := models.NewInProgressCheck(id.NewCheckID(), apparatusID, stationID, actor.ID, now, len(snapshot))
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.checks.Create(txCtx, check); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return err
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create check")
		}
		return s.emit(txCtx, sessionEvent{
			actor:       actor,
			action:      audit.EventCheckStarted,
			subjectType: audit.SubjectInventoryCheck,
			subjectID:   check.ID.String(),
			apparatusID: apparatusID,
			stationID:   stationID,
			at:          now,
		})
	})
	if errors.Is(err, sentinel.ErrConflict) {
		s.countConflict(models.SessionKindCheck)
		return nil, s.activeCheckError(ctx, apparatusID)
	}
	if err != nil {
		return nil, err
	}
	s.countStarted(models.SessionKindCheck)
	s.logAudit(ctx, string(audit.EventCheckStarted),
		"check_id", check.ID.String(),
		"apparatus_id", apparatusID.String(),
		"user_id", actor.ID.String(),
		"total_items", check.Progress.TotalItems)
	return check, nil
}

func (s *Service) activeCheckError(ctx context.Context, apparatusID id.ApparatusID) error {
	winner, err := s.checks.FindActiveByApparatus(ctx, apparatusID)
	if err != nil {
		// The winner finished between our insert and this read.
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeActiveSession, "an inventory check is already in progress")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load active check")
	}
	return &models.ActiveSessionExistsError{
		Kind:        models.SessionKindCheck,
		ApparatusID: apparatusID,
		SessionID:   uuid.UUID(winner.ID),
		PerformerID: winner.PerformerID,
		StartedAt:   winner.StartedAt,
	}
}

// VerifyCheckItem records one manifest item. The item, its auto-issue, the equipment side
// effect, the progress update and the events commit together or not at all.
func (s *Service) VerifyCheckItem(
	ctx context.Context,
	actor id.Actor,
	checkID id.CheckID,
	req models.VerifyCheckItemRequest,
	now time.Time,
) (_ *VerifyCheckResult, err error) {
	ctx, span := s.startSpan(ctx, "inventory.VerifyCheckItem", attribute.String("check_id", checkID.String()))
	defer func() { endSpan(span, err) }()

	current, err := s.GetCheck(ctx, actor, checkID)
	if err != nil {
		return nil, err
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	header := current.Header()
	snapshot, err := s.manifestFor(ctx, header.ApparatusID)
	if err != nil {
		return nil, err
	}
	entry, err := resolveEntry(snapshot, req.ManifestEntryID)
	if err != nil {
		return nil, err
	}

	result := &VerifyCheckResult{}
	effects := sideEffects{
		actor:       actor,
		apparatusID: header.ApparatusID,
		stationID:   header.StationID,
		target:      req.Target,
		entry:       entry,
		outcome:     checkOutcome(req.Status),
		quantities:  req.Quantities,
		notes:       req.Notes,
		source:      "shift check",
	}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		locked, err := s.checks.FindByIDForUpdate(txCtx, checkID)
		if err != nil {
			return translateNotFound(err, "inventory check not found", "failed to load check")
		}
		check, err := models.RequireInProgressCheck(locked)
		if err != nil {
			return err
		}
		duplicate := &models.ItemAlreadyRecordedError{Kind: models.SessionKindCheck, SessionID: uuid.UUID(checkID), Target: req.Target}
		exists, err := s.checks.ItemExists(txCtx, checkID, req.Target)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up check item")
		}
		if exists {
			return duplicate
		}
		if check.Progress.Remaining() == 0 {
			return models.ErrAllItemsRecorded
		}
		if err := s.requireOnApparatus(txCtx, req.Target, header.ApparatusID, entry); err != nil {
			return err
		}

		item, err := models.NewInventoryCheckItem(models.NewInventoryCheckItemParams{
			ID:              id.NewCheckItemID(),
			CheckID:         checkID,
			Target:          req.Target,
			CompartmentID:   req.CompartmentID,
			ManifestEntryID: req.ManifestEntryID,
			Status:          req.Status,
			Quantities:      req.Quantities,
			ConditionNotes:  req.Notes,
			VerifiedBy:      actor.ID,
			VerifiedAt:      now,
		})
		if err != nil {
			return err
		}
		if err := s.checks.AddItem(txCtx, item); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return duplicate
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record check item")
		}

		if effects.outcome.adverse {
			issue, err := s.openIssue(txCtx, effects, now)
			if err != nil {
				return err
			}
			if err := s.checks.LinkIssue(txCtx, checkID, item.ID, issue.ID); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to link issue")
			}
			if item, err = item.WithIssue(issue.ID); err != nil {
				return err
			}
			result.Issue = issue
		}
		if err := s.applyEquipment(txCtx, effects); err != nil {
			return err
		}

		next := check.WithItemVerified(effects.outcome.adverse, now)
		if err := s.checks.Save(txCtx, next); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save check progress")
		}
		result.Check, result.Item = next, item
		return s.emit(txCtx, sessionEvent{
			actor:       actor,
			action:      audit.EventCheckItemVerified,
			subjectType: audit.SubjectInventoryCheck,
			subjectID:   checkID.String(),
			apparatusID: header.ApparatusID,
			stationID:   header.StationID,
			detail:      req.Target.Key() + " " + string(req.Status),
			at:          now,
		})
	})
	if err != nil {
		return nil, err
	}
	s.countItem(models.SessionKindCheck, string(req.Status))
	s.logAudit(ctx, string(audit.EventCheckItemVerified),
		"check_id", checkID.String(),
		"user_id", actor.ID.String(),
		"target", req.Target.Key(),
		"status", string(req.Status))
	return result, nil
}

func (s *Service) CompleteCheck(ctx context.Context, actor id.Actor, checkID id.CheckID, now time.Time) (*models.CompletedCheck, error) {
	var completed *models.CompletedCheck
	err := s.transitionCheck(ctx, actor, checkID, "inventory.CompleteCheck", audit.EventCheckCompleted, "",
		func(_ context.Context, current models.InventoryCheck) (models.InventoryCheck, error) {
			check, err := models.RequireInProgressCheck(current)
			if err != nil {
				return nil, err
			}
			completed, err = check.Complete(now)
			return completed, err
		}, now)
	if err != nil {
		return nil, err
	}
	s.countFinished(models.SessionKindCheck, "completed")
	s.observeDuration(models.SessionKindCheck, completed.CompletedAt.Sub(completed.StartedAt))
	return completed, nil
}

func (s *Service) AbandonCheck(ctx context.Context, actor id.Actor, checkID id.CheckID, reason string, now time.Time) (*models.AbandonedCheck, error) {
	var abandoned *models.AbandonedCheck
	err := s.transitionCheck(ctx, actor, checkID, "inventory.AbandonCheck", audit.EventCheckAbandoned, reason,
		func(_ context.Context, current models.InventoryCheck) (models.InventoryCheck, error) {
			check, err := models.RequireInProgressCheck(current)
			if err != nil {
				return nil, err
			}
			abandoned, err = check.Abandon(now, reason)
			return abandoned, err
		}, now)
	if err != nil {
		return nil, err
	}
	s.countFinished(models.SessionKindCheck, "abandoned")
	return abandoned, nil
}

// ResumeCheck reopens an abandoned check within the resume window. Only the original
// performer or an administrator may resume, and only while no other check holds the
// apparatus.
func (s *Service) ResumeCheck(ctx context.Context, actor id.Actor, checkID id.CheckID, now time.Time) (*models.InProgressCheck, error) {
	var resumed *models.InProgressCheck
	err := s.transitionCheck(ctx, actor, checkID, "inventory.ResumeCheck", audit.EventCheckResumed, "",
		func(txCtx context.Context, current models.InventoryCheck) (models.InventoryCheck, error) {
			abandoned, ok := current.(*models.AbandonedCheck)
			if !ok {
				if current.Status() == models.CheckStatusInProgress {
					return nil, dErrors.New(dErrors.CodeInvalidState, "inventory check is not abandoned")
				}
				return nil, &models.SessionTerminalError{Kind: models.SessionKindCheck, State: string(current.Status())}
			}
			if abandoned.PerformerID != actor.ID && actor.Role != id.RoleAdministrator {
				return nil, dErrors.New(dErrors.CodeForbidden, "only the original performer may resume this check")
			}
			next, err := abandoned.Resume(now)
			if err != nil {
				return nil, err
			}
			if err := s.ensureNoActiveCheck(txCtx, abandoned.ApparatusID); err != nil {
				return nil, err
			}
			resumed = next
			return next, nil
		}, now)
	if err != nil {
		return nil, err
	}
	return resumed, nil
}

func (s *Service) ensureNoActiveCheck(ctx context.Context, apparatusID id.ApparatusID) error {
	_, err := s.checks.FindActiveByApparatus(ctx, apparatusID)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return nil
	case err != nil:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load active check")
	}
	return s.activeCheckError(ctx, apparatusID)
}

// transitionCheck authorizes on the check's station, then loads it under lock inside one
// transaction, applies step and saves the result with its event.
func (s *Service) transitionCheck(
	ctx context.Context,
	actor id.Actor,
	checkID id.CheckID,
	spanName string,
	event audit.AuditEvent,
	reason string,
	step func(context.Context, models.InventoryCheck) (models.InventoryCheck, error),
	now time.Time,
) (err error) {
	ctx, span := s.startSpan(ctx, spanName, attribute.String("check_id", checkID.String()))
	defer func() { endSpan(span, err) }()

	if _, err := s.GetCheck(ctx, actor, checkID); err != nil {
		return err
	}
	var next models.InventoryCheck
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.checks.FindByIDForUpdate(txCtx, checkID)
		if err != nil {
			return translateNotFound(err, "inventory check not found", "failed to load check")
		}
		next, err = step(txCtx, current)
		if err != nil {
			return err
		}
		if err := s.checks.Save(txCtx, next); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeActiveSession, "an inventory check is already in progress")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save check")
		}
		h := next.Header()
		return s.emit(txCtx, sessionEvent{
			actor:       actor,
			action:      event,
			subjectType: audit.SubjectInventoryCheck,
			subjectID:   checkID.String(),
			apparatusID: h.ApparatusID,
			stationID:   h.StationID,
			reason:      reason,
			at:          now,
		})
	})
	if err != nil {
		return err
	}
	s.logAudit(ctx, string(event),
		"check_id", checkID.String(),
		"user_id", actor.ID.String(),
		"status", string(next.Status()))
	return nil
}

func (s *Service) GetCheck(ctx context.Context, actor id.Actor, checkID id.CheckID) (models.InventoryCheck, error) {
	check, err := s.checks.FindByID(ctx, checkID)
	if err != nil {
		return nil, translateNotFound(err, "inventory check not found", "failed to load check")
	}
	if err := s.authorizeStation(ctx, actor, check.Header().StationID); err != nil {
		return nil, err
	}
	return check, nil
}

func (s *Service) ListCheckItems(ctx context.Context, actor id.Actor, checkID id.CheckID) ([]*models.InventoryCheckItem, error) {
	if _, err := s.GetCheck(ctx, actor, checkID); err != nil {
		return nil, err
	}
	items, err := s.checks.ListItems(ctx, checkID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list check items")
	}
	return items, nil
}

// AbandonStaleChecks abandons every in-progress check idle for StaleCheckAfter or longer.
// Each check is abandoned in its own transaction; failures are joined and returned with the
// count of checks that were abandoned.
func (s *Service) AbandonStaleChecks(ctx context.Context, now time.Time) (_ int, err error) {
	ctx, span := s.startSpan(ctx, "inventory.AbandonStaleChecks")
	defer func() { endSpan(span, err) }()

	ids, err := s.checks.ListStale(ctx, now.Add(-models.StaleCheckAfter))
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list stale checks")
	}
	var (
		abandoned int
		errs      []error
	)
	for _, checkID := range ids {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		done, err := s.abandonStale(ctx, checkID, now)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if done {
			abandoned++
		}
	}
	if abandoned > 0 {
		s.logger.InfoContext(ctx, "abandoned stale checks", "count", abandoned)
	}
	return abandoned, errors.Join(errs...)
}

func (s *Service) abandonStale(ctx context.Context, checkID id.CheckID, now time.Time) (bool, error) {
	var abandoned *models.AbandonedCheck
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.checks.FindByIDForUpdate(txCtx, checkID)
		if err != nil {
			return err
		}
		// Activity may have landed since the listing.
		check, ok := current.(*models.InProgressCheck)
		if !ok || !check.IsStale(now) {
			return nil
		}
		if abandoned, err = check.Abandon(now, models.StaleCheckReason); err != nil {
			return err
		}
		if err := s.checks.Save(txCtx, abandoned); err != nil {
			return err
		}
		return s.emit(txCtx, sessionEvent{
			action:      audit.EventCheckAbandoned,
			subjectType: audit.SubjectInventoryCheck,
			subjectID:   checkID.String(),
			apparatusID: check.ApparatusID,
			stationID:   check.StationID,
			reason:      models.StaleCheckReason,
			at:          now,
		})
	})
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to abandon stale check "+checkID.String())
	}
	if abandoned == nil {
		return false, nil
	}
	s.countFinished(models.SessionKindCheck, "stale")
	if s.metrics != nil {
		s.metrics.StaleChecksAbandoned.Inc()
	}
	s.logAudit(ctx, string(audit.EventCheckAbandoned),
		"check_id", checkID.String(),
		"reason", models.StaleCheckReason)
	return true, nil
}
