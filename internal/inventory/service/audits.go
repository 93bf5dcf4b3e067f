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

// AuditItemResult is the outcome of one recorded audit item.
type AuditItemResult struct {
	Audit *models.InProgressAudit
	Item  *models.FormalAuditItem
	Issue *issuemodels.OpenIssue
}

// StartAudit opens a formal audit. Only maintenance technicians and administrators audit.
func (s *Service) StartAudit(ctx context.Context, actor id.Actor, apparatusID id.ApparatusID, notes string, now time.Time) (_ *models.InProgressAudit, err error) {
	ctx, span := s.startSpan(ctx, "inventory.StartAudit", attribute.String("apparatus_id", apparatusID.String()))
	defer func() { endSpan(span, err) }()

	stationID, err := s.authorizeApparatus(ctx, actor, apparatusID)
	if err != nil {
		return nil, err
	}
	if err := s.requireAuditor(ctx, actor, stationID); err != nil {
		return nil, err
	}
	snapshot, err := s.manifestFor(ctx, apparatusID)
	if err != nil {
		return nil, err
	}
	fa, err := models.NewInProgressAudit(id.NewAuditID(), apparatusID, stationID, actor.ID, now, len(snapshot), notes)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.audits.Create(txCtx, fa); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return err
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create audit")
		}
		return s.emit(txCtx, sessionEvent{
			actor:       actor,
			action:      audit.EventAuditStarted,
			subjectType: audit.SubjectFormalAudit,
			subjectID:   fa.ID.String(),
			apparatusID: apparatusID,
			stationID:   stationID,
			at:          now,
		})
	})
	if errors.Is(err, sentinel.ErrConflict) {
		s.countConflict(models.SessionKindAudit)
		return nil, s.activeAuditError(ctx, apparatusID)
	}
	if err != nil {
		return nil, err
	}
	s.countStarted(models.SessionKindAudit)
	s.logAudit(ctx, string(audit.EventAuditStarted),
		"audit_id", fa.ID.String(),
		"apparatus_id", apparatusID.String(),
		"user_id", actor.ID.String(),
		"total_items", fa.Progress.TotalItems)
	return fa, nil
}

func (s *Service) activeAuditError(ctx context.Context, apparatusID id.ApparatusID) error {
	winner, err := s.audits.FindActiveByApparatus(ctx, apparatusID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeActiveSession, "a formal audit is already in progress")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load active audit")
	}
	return &models.ActiveSessionExistsError{
		Kind:        models.SessionKindAudit,
		ApparatusID: apparatusID,
		SessionID:   uuid.UUID(winner.ID),
		PerformerID: winner.PerformerID,
		StartedAt:   winner.StartedAt,
	}
}

// authorizeAudit loads the audit, checks station access and, for mutations, the auditor
// role.
func (s *Service) authorizeAudit(ctx context.Context, actor id.Actor, auditID id.AuditID) (models.FormalAudit, error) {
	fa, err := s.GetAudit(ctx, actor, auditID)
	if err != nil {
		return nil, err
	}
	if err := s.requireAuditor(ctx, actor, fa.Header().StationID); err != nil {
		return nil, err
	}
	return fa, nil
}

// AuditItem records one manifest item of an audit with the same side effects as a check
// verification.
func (s *Service) AuditItem(
	ctx context.Context,
	actor id.Actor,
	auditID id.AuditID,
	req models.AuditItemRequest,
	now time.Time,
) (_ *AuditItemResult, err error) {
	ctx, span := s.startSpan(ctx, "inventory.AuditItem", attribute.String("audit_id", auditID.String()))
	defer func() { endSpan(span, err) }()

	current, err := s.authorizeAudit(ctx, actor, auditID)
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

	result := &AuditItemResult{}
	effects := sideEffects{
		actor:       actor,
		apparatusID: header.ApparatusID,
		stationID:   header.StationID,
		target:      req.Target,
		entry:       entry,
		outcome:     auditOutcome(req.Status),
		quantities:  req.Quantities,
		notes:       req.Notes,
		source:      "formal audit",
	}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		fa, err := s.lockAuditForItem(txCtx, auditID, req.Target)
		if err != nil {
			return err
		}
		if fa.Progress.Remaining() == 0 {
			return models.ErrAllItemsRecorded
		}
		if err := s.requireOnApparatus(txCtx, req.Target, header.ApparatusID, entry); err != nil {
			return err
		}
		next, err := fa.WithItemAudited(effects.outcome.adverse, now)
		if err != nil {
			return err
		}

		item, err := models.NewFormalAuditItem(models.NewFormalAuditItemParams{
			ID:              id.NewAuditItemID(),
			AuditID:         auditID,
			Target:          req.Target,
			CompartmentID:   req.CompartmentID,
			ManifestEntryID: req.ManifestEntryID,
			Status:          req.Status,
			Condition:       req.Condition,
			TestResult:      req.TestResult,
			ExpiryStatus:    req.ExpiryStatus,
			Quantities:      req.Quantities,
			Notes:           req.Notes,
			AuditedBy:       actor.ID,
			AuditedAt:       now,
		})
		if err != nil {
			return err
		}
		if err := s.addAuditItem(txCtx, item); err != nil {
			return err
		}

		if effects.outcome.adverse {
			issue, err := s.openIssue(txCtx, effects, now)
			if err != nil {
				return err
			}
			if err := s.audits.LinkIssue(txCtx, auditID, item.ID, issue.ID); err != nil {
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

		if err := s.audits.Save(txCtx, next); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save audit progress")
		}
		result.Audit, result.Item = next, item
		return s.emit(txCtx, sessionEvent{
			actor:       actor,
			action:      audit.EventAuditItemRecorded,
			subjectType: audit.SubjectFormalAudit,
			subjectID:   auditID.String(),
			apparatusID: header.ApparatusID,
			stationID:   header.StationID,
			detail:      req.Target.Key() + " " + string(req.Status),
			at:          now,
		})
	})
	if err != nil {
		return nil, err
	}
	s.countItem(models.SessionKindAudit, string(req.Status))
	s.logAudit(ctx, string(audit.EventAuditItemRecorded),
		"audit_id", auditID.String(),
		"user_id", actor.ID.String(),
		"target", req.Target.Key(),
		"status", string(req.Status))
	return result, nil
}

// RecordUnexpectedItem records an item found on the apparatus that is not on its manifest.
// Unexpected items never raise issues or touch equipment records.
func (s *Service) RecordUnexpectedItem(
	ctx context.Context,
	actor id.Actor,
	auditID id.AuditID,
	req models.UnexpectedItemRequest,
	now time.Time,
) (_ *AuditItemResult, err error) {
	ctx, span := s.startSpan(ctx, "inventory.RecordUnexpectedItem", attribute.String("audit_id", auditID.String()))
	defer func() { endSpan(span, err) }()

	current, err := s.authorizeAudit(ctx, actor, auditID)
	if err != nil {
		return nil, err
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	header := current.Header()

	result := &AuditItemResult{}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		fa, err := s.lockAuditForItem(txCtx, auditID, req.Target)
		if err != nil {
			return err
		}
		next, err := fa.WithUnexpectedItem(now)
		if err != nil {
			return err
		}
		item, err := models.NewFormalAuditItem(models.NewFormalAuditItemParams{
			ID:            id.NewAuditItemID(),
			AuditID:       auditID,
			Target:        req.Target,
			CompartmentID: req.CompartmentID,
			Status:        models.AuditItemVerified,
			IsUnexpected:  true,
			Condition:     req.Condition,
			Notes:         req.Notes,
			AuditedBy:     actor.ID,
			AuditedAt:     now,
		})
		if err != nil {
			return err
		}
		if err := s.addAuditItem(txCtx, item); err != nil {
			return err
		}
		if err := s.audits.Save(txCtx, next); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save audit progress")
		}
		result.Audit, result.Item = next, item
		return s.emit(txCtx, sessionEvent{
			actor:       actor,
			action:      audit.EventAuditUnexpectedItem,
			subjectType: audit.SubjectFormalAudit,
			subjectID:   auditID.String(),
			apparatusID: header.ApparatusID,
			stationID:   header.StationID,
			detail:      req.Target.Key(),
			at:          now,
		})
	})
	if err != nil {
		return nil, err
	}
	s.countItem(models.SessionKindAudit, "UNEXPECTED")
	s.logAudit(ctx, string(audit.EventAuditUnexpectedItem),
		"audit_id", auditID.String(),
		"user_id", actor.ID.String(),
		"target", req.Target.Key())
	return result, nil
}

// lockAuditForItem loads the audit under lock and rejects terminal, paused and duplicate
// submissions.
func (s *Service) lockAuditForItem(ctx context.Context, auditID id.AuditID, target models.VerificationTarget) (*models.InProgressAudit, error) {
	locked, err := s.audits.FindByIDForUpdate(ctx, auditID)
	if err != nil {
		return nil, translateNotFound(err, "formal audit not found", "failed to load audit")
	}
	fa, err := models.RequireInProgressAudit(locked)
	if err != nil {
		return nil, err
	}
	if fa.IsPaused() {
		return nil, models.ErrAuditPaused
	}
	exists, err := s.audits.ItemExists(ctx, auditID, target)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up audit item")
	}
	if exists {
		return nil, &models.ItemAlreadyRecordedError{Kind: models.SessionKindAudit, SessionID: uuid.UUID(auditID), Target: target}
	}
	return fa, nil
}

func (s *Service) addAuditItem(ctx context.Context, item *models.FormalAuditItem) error {
	err := s.audits.AddItem(ctx, item)
	switch {
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return &models.ItemAlreadyRecordedError{Kind: models.SessionKindAudit, SessionID: uuid.UUID(item.AuditID), Target: item.Target}
	case err != nil:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit item")
	}
	return nil
}

func (s *Service) PauseAudit(ctx context.Context, actor id.Actor, auditID id.AuditID, now time.Time) (*models.InProgressAudit, error) {
	return s.stepInProgressAudit(ctx, actor, auditID, "inventory.PauseAudit", audit.EventAuditPaused, now,
		func(fa *models.InProgressAudit) (*models.InProgressAudit, error) {
			return fa.Pause(now)
		})
}

func (s *Service) ResumeAudit(ctx context.Context, actor id.Actor, auditID id.AuditID, now time.Time) (*models.InProgressAudit, error) {
	return s.stepInProgressAudit(ctx, actor, auditID, "inventory.ResumeAudit", audit.EventAuditResumed, now,
		func(fa *models.InProgressAudit) (*models.InProgressAudit, error) {
			return fa.Resume(now)
		})
}

func (s *Service) stepInProgressAudit(
	ctx context.Context,
	actor id.Actor,
	auditID id.AuditID,
	spanName string,
	event audit.AuditEvent,
	now time.Time,
	step func(*models.InProgressAudit) (*models.InProgressAudit, error),
) (*models.InProgressAudit, error) {
	var out *models.InProgressAudit
	err := s.transitionAudit(ctx, actor, auditID, spanName, event, "", now,
		func(_ context.Context, current models.FormalAudit) (models.FormalAudit, error) {
			fa, err := models.RequireInProgressAudit(current)
			if err != nil {
				return nil, err
			}
			out, err = step(fa)
			return out, err
		})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) CompleteAudit(ctx context.Context, actor id.Actor, auditID id.AuditID, notes string, now time.Time) (*models.CompletedAudit, error) {
	var completed *models.CompletedAudit
	err := s.transitionAudit(ctx, actor, auditID, "inventory.CompleteAudit", audit.EventAuditCompleted, "", now,
		func(_ context.Context, current models.FormalAudit) (models.FormalAudit, error) {
			fa, err := models.RequireInProgressAudit(current)
			if err != nil {
				return nil, err
			}
			completed, err = fa.Complete(now, notes)
			return completed, err
		})
	if err != nil {
		return nil, err
	}
	s.countFinished(models.SessionKindAudit, "completed")
	s.observeDuration(models.SessionKindAudit, completed.CompletedAt.Sub(completed.StartedAt))
	return completed, nil
}

func (s *Service) AbandonAudit(ctx context.Context, actor id.Actor, auditID id.AuditID, reason string, now time.Time) (*models.AbandonedAudit, error) {
	var abandoned *models.AbandonedAudit
	err := s.transitionAudit(ctx, actor, auditID, "inventory.AbandonAudit", audit.EventAuditAbandoned, reason, now,
		func(_ context.Context, current models.FormalAudit) (models.FormalAudit, error) {
			fa, err := models.RequireInProgressAudit(current)
			if err != nil {
				return nil, err
			}
			abandoned, err = fa.Abandon(now, reason)
			return abandoned, err
		})
	if err != nil {
		return nil, err
	}
	s.countFinished(models.SessionKindAudit, "abandoned")
	return abandoned, nil
}

// ReopenAudit returns an abandoned audit to in-progress within the resume window.
func (s *Service) ReopenAudit(ctx context.Context, actor id.Actor, auditID id.AuditID, now time.Time) (*models.InProgressAudit, error) {
	var reopened *models.InProgressAudit
	err := s.transitionAudit(ctx, actor, auditID, "inventory.ReopenAudit", audit.EventAuditReopened, "", now,
		func(txCtx context.Context, current models.FormalAudit) (models.FormalAudit, error) {
			abandoned, ok := current.(*models.AbandonedAudit)
			if !ok {
				if current.Status() == models.AuditStatusInProgress {
					return nil, dErrors.New(dErrors.CodeInvalidState, "formal audit is not abandoned")
				}
				return nil, &models.SessionTerminalError{Kind: models.SessionKindAudit, State: string(current.Status())}
			}
			if abandoned.PerformerID != actor.ID && actor.Role != id.RoleAdministrator {
				return nil, dErrors.New(dErrors.CodeForbidden, "only the original auditor may reopen this audit")
			}
			next, err := abandoned.Reopen(now)
			if err != nil {
				return nil, err
			}
			if err := s.ensureNoActiveAudit(txCtx, abandoned.ApparatusID); err != nil {
				return nil, err
			}
			reopened = next
			return next, nil
		})
	if err != nil {
		return nil, err
	}
	return reopened, nil
}

func (s *Service) ensureNoActiveAudit(ctx context.Context, apparatusID id.ApparatusID) error {
	_, err := s.audits.FindActiveByApparatus(ctx, apparatusID)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return nil
	case err != nil:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load active audit")
	}
	return s.activeAuditError(ctx, apparatusID)
}

func (s *Service) transitionAudit(
	ctx context.Context,
	actor id.Actor,
	auditID id.AuditID,
	spanName string,
	event audit.AuditEvent,
	reason string,
	now time.Time,
	step func(context.Context, models.FormalAudit) (models.FormalAudit, error),
) (err error) {
	ctx, span := s.startSpan(ctx, spanName, attribute.String("audit_id", auditID.String()))
	defer func() { endSpan(span, err) }()

	if _, err := s.authorizeAudit(ctx, actor, auditID); err != nil {
		return err
	}
	var next models.FormalAudit
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.audits.FindByIDForUpdate(txCtx, auditID)
		if err != nil {
			return translateNotFound(err, "formal audit not found", "failed to load audit")
		}
		next, err = step(txCtx, current)
		if err != nil {
			return err
		}
		if err := s.audits.Save(txCtx, next); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeActiveSession, "a formal audit is already in progress")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save audit")
		}
		h := next.Header()
		return s.emit(txCtx, sessionEvent{
			actor:       actor,
			action:      event,
			subjectType: audit.SubjectFormalAudit,
			subjectID:   auditID.String(),
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
		"audit_id", auditID.String(),
		"user_id", actor.ID.String(),
		"status", string(next.Status()))
	return nil
}

func (s *Service) GetAudit(ctx context.Context, actor id.Actor, auditID id.AuditID) (models.FormalAudit, error) {
	fa, err := s.audits.FindByID(ctx, auditID)
	if err != nil {
		return nil, translateNotFound(err, "formal audit not found", "failed to load audit")
	}
	if err := s.authorizeStation(ctx, actor, fa.Header().StationID); err != nil {
		return nil, err
	}
	return fa, nil
}

func (s *Service) ListAuditItems(ctx context.Context, actor id.Actor, auditID id.AuditID) ([]*models.FormalAuditItem, error) {
	if _, err := s.GetAudit(ctx, actor, auditID); err != nil {
		return nil, err
	}
	items, err := s.audits.ListItems(ctx, auditID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit items")
	}
	return items, nil
}

// ListStaleAudits reports the in-progress audits of a station idle for AuditStaleAfter or
// longer. Stale audits are flagged for follow-up, never abandoned automatically.
func (s *Service) ListStaleAudits(ctx context.Context, actor id.Actor, stationID id.StationID, now time.Time) ([]*models.InProgressAudit, error) {
	if err := s.authorizeStation(ctx, actor, stationID); err != nil {
		return nil, err
	}
	stale, err := s.audits.ListStale(ctx, now.Add(-models.AuditStaleAfter), []id.StationID{stationID})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list stale audits")
	}
	return stale, nil
}

// FindStaleAudits is the system-wide variant of ListStaleAudits used by operators.
func (s *Service) FindStaleAudits(ctx context.Context, now time.Time) ([]*models.InProgressAudit, error) {
	stale, err := s.audits.ListStale(ctx, now.Add(-models.AuditStaleAfter), nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list stale audits")
	}
	return stale, nil
}
