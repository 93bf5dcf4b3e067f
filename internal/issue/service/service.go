package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	equipment "rigcheck/internal/equipment/models"
	"rigcheck/internal/issue/metrics"
	"rigcheck/internal/issue/models"
	id "rigcheck/pkg/domain"
	dErrors "rigcheck/pkg/domain-errors"
	audit "rigcheck/pkg/platform/audit"
	"rigcheck/pkg/platform/sentinel"
	"rigcheck/pkg/platform/tx"
	"rigcheck/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, issue models.Issue) error
	FindByID(ctx context.Context, issueID id.IssueID) (models.Issue, error)
	FindByIDForUpdate(ctx context.Context, issueID id.IssueID) (models.Issue, error)
	Save(ctx context.Context, issue models.Issue) error
	ListOpenByStation(ctx context.Context, stationID id.StationID) ([]models.Issue, error)
}

type AccessEvaluator interface {
	StationIDFor(ctx context.Context, apparatusID id.ApparatusID) (id.StationID, error)
	CanAccessStation(ctx context.Context, actor id.Actor, stationID id.StationID) (bool, error)
}

// EquipmentLookup resolves where reported equipment is carried and who is responsible for it.
type EquipmentLookup interface {
	GetOwnership(ctx context.Context, itemID id.EquipmentItemID) (equipment.Ownership, error)
	ItemPlacement(ctx context.Context, itemID id.EquipmentItemID) (equipment.Placement, error)
	StockPlacement(ctx context.Context, stockID id.ConsumableStockID) (equipment.Placement, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service owns the issue lifecycle.
type Service struct {
	issues    Store
	access    AccessEvaluator
	lookup    EquipmentLookup
	tx        tx.Runner
	logger    *slog.Logger
	publisher AuditPublisher
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithEquipmentLookup(lookup EquipmentLookup) Option {
	return func(s *Service) {
		s.lookup = lookup
	}
}

func New(issues Store, access AccessEvaluator, runner tx.Runner, opts ...Option) *Service {
	s := &Service{
		issues: issues,
		access: access,
		tx:     runner,
		logger: slog.Default(),
		tracer: otel.Tracer("rigcheck/issue"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewIssueParams describes an issue raised by a verification outcome.
type NewIssueParams struct {
	Target               models.Target
	ApparatusID          id.ApparatusID
	StationID            id.StationID
	Category             models.Category
	Severity             models.Severity
	Title                string
	Description          string
	Reporter             id.Actor
	ReportedAt           time.Time
	IsCrewResponsibility bool
}

// CreateOpenIssue opens an issue on behalf of the verification workflow. Access has
// already been checked by the caller; the write joins the caller's transaction.
func (s *Service) CreateOpenIssue(ctx context.Context, p NewIssueParams) (*models.OpenIssue, error) {
	issue, err := models.NewOpenIssue(models.NewOpenIssueParams{
		ID:                   id.NewIssueID(),
		Target:               p.Target,
		ApparatusID:          p.ApparatusID,
		StationID:            p.StationID,
		Category:             p.Category,
		Severity:             p.Severity,
		Title:                p.Title,
		Description:          p.Description,
		ReporterID:           p.Reporter.ID,
		ReportedAt:           p.ReportedAt,
		IsCrewResponsibility: p.IsCrewResponsibility,
	})
	if err != nil {
		return nil, err
	}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.issues.Create(txCtx, issue); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create issue")
		}
		return s.emit(txCtx, p.Reporter, audit.EventIssueCreated, issue.Header(), string(issue.Category))
	})
	if err != nil {
		return nil, err
	}
	s.countCreated(issue.Category, "verification")
	return issue, nil
}

// ReportIssueRequest is a manual issue report.
type ReportIssueRequest struct {
	ApparatusID       id.ApparatusID
	EquipmentItemID   *id.EquipmentItemID
	ConsumableStockID *id.ConsumableStockID
	Category          models.Category
	Severity          models.Severity
	Title             string
	Description       string
}

func (r *ReportIssueRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Category = models.Category(strings.ToUpper(strings.TrimSpace(string(r.Category))))
	r.Severity = models.Severity(strings.ToUpper(strings.TrimSpace(string(r.Severity))))
}

func (r *ReportIssueRequest) target() (models.Target, error) {
	switch {
	case r.EquipmentItemID != nil && r.ConsumableStockID != nil:
		return models.Target{}, dErrors.New(dErrors.CodeValidation, "report either an equipment item or a consumable, not both")
	case r.EquipmentItemID != nil:
		return models.EquipmentTarget(*r.EquipmentItemID)
	case r.ConsumableStockID != nil:
		return models.ConsumableTarget(*r.ConsumableStockID)
	default:
		return models.ApparatusTarget(), nil
	}
}

// requireOnApparatus rejects equipment and consumable targets that are not carried on apparatusID.
func (s *Service) requireOnApparatus(ctx context.Context, target models.Target, apparatusID id.ApparatusID) error {
	var (
		placement equipment.Placement
		err       error
		what      string
	)
	if itemID, ok := target.EquipmentItemID(); ok {
		what = "equipment item"
		placement, err = s.lookup.ItemPlacement(ctx, itemID)
	} else if stockID, ok := target.ConsumableStockID(); ok {
		what = "consumable stock"
		placement, err = s.lookup.StockPlacement(ctx, stockID)
	} else {
		return nil
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
	return nil
}

// ReportIssue opens an issue reported by a user.
func (s *Service) ReportIssue(ctx context.Context, actor id.Actor, req ReportIssueRequest, now time.Time) (_ *models.OpenIssue, err error) {
	ctx, span := s.startSpan(ctx, "issue.ReportIssue", attribute.String("apparatus_id", req.ApparatusID.String()))
	defer func() { endSpan(span, err) }()

	req.Normalize()
	if req.ApparatusID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "apparatus_id is required")
	}
	target, err := req.target()
	if err != nil {
		return nil, err
	}
	stationID, err := s.authorizeApparatus(ctx, actor, req.ApparatusID)
	if err != nil {
		return nil, err
	}

	crew := false
	if s.lookup != nil {
		if err := s.requireOnApparatus(ctx, target, req.ApparatusID); err != nil {
			return nil, err
		}
	}
	if itemID, ok := target.EquipmentItemID(); ok && s.lookup != nil {
		ownership, err := s.lookup.GetOwnership(ctx, itemID)
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeValidation, "equipment item not found")
		case err != nil:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load equipment ownership")
		}
		crew = ownership.IsCrew()
	}

	issue, err := models.NewOpenIssue(models.NewOpenIssueParams{
		ID:                   id.NewIssueID(),
		Target:               target,
		ApparatusID:          req.ApparatusID,
		StationID:            stationID,
		Category:             req.Category,
		Severity:             req.Severity,
		Title:                req.Title,
		Description:          req.Description,
		ReporterID:           actor.ID,
		ReportedAt:           now,
		IsCrewResponsibility: crew,
	})
	if err != nil {
		return nil, err
	}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.issues.Create(txCtx, issue); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create issue")
		}
		return s.emit(txCtx, actor, audit.EventIssueCreated, issue.Header(), string(issue.Category))
	})
	if err != nil {
		return nil, err
	}
	s.countCreated(issue.Category, "manual")
	s.logAudit(ctx, string(audit.EventIssueCreated),
		"issue_id", issue.ID.String(),
		"user_id", actor.ID.String(),
		"category", string(issue.Category))
	return issue, nil
}

func (s *Service) AcknowledgeIssue(ctx context.Context, actor id.Actor, issueID id.IssueID, now time.Time) (models.Issue, error) {
	return s.transition(ctx, actor, issueID, "issue.AcknowledgeIssue", audit.EventIssueAcknowledged, "",
		func(current models.Issue) (models.Issue, error) {
			open, ok := current.(*models.OpenIssue)
			if !ok {
				return nil, models.WrongStateError(current, models.StatusOpen)
			}
			return open.Acknowledge(actor.ID, now), nil
		})
}

func (s *Service) StartIssueWork(ctx context.Context, actor id.Actor, issueID id.IssueID, now time.Time) (models.Issue, error) {
	return s.transition(ctx, actor, issueID, "issue.StartIssueWork", audit.EventIssueWorkStarted, "",
		func(current models.Issue) (models.Issue, error) {
			ack, ok := current.(*models.AcknowledgedIssue)
			if !ok {
				return nil, models.WrongStateError(current, models.StatusAcknowledged)
			}
			return ack.StartWork(actor.ID, now), nil
		})
}

func (s *Service) ResolveIssue(ctx context.Context, actor id.Actor, issueID id.IssueID, notes string, now time.Time) (models.Issue, error) {
	resolved, err := s.transition(ctx, actor, issueID, "issue.ResolveIssue", audit.EventIssueResolved, notes,
		func(current models.Issue) (models.Issue, error) {
			work, ok := current.(*models.InProgressIssue)
			if !ok {
				return nil, models.WrongStateError(current, models.StatusInProgress)
			}
			return work.Resolve(actor.ID, notes, now)
		})
	if err == nil && s.metrics != nil {
		s.metrics.TimeToResolutionH.Observe(now.Sub(resolved.Header().ReportedAt).Hours())
	}
	return resolved, err
}

func (s *Service) CloseIssue(ctx context.Context, actor id.Actor, issueID id.IssueID, reason string, now time.Time) (models.Issue, error) {
	return s.transition(ctx, actor, issueID, "issue.CloseIssue", audit.EventIssueClosed, reason,
		func(current models.Issue) (models.Issue, error) {
			return models.Close(current, actor.ID, reason, now)
		})
}

// transition checks station access, then loads the issue under lock, applies step and
// saves the result together with its event.
func (s *Service) transition(
	ctx context.Context,
	actor id.Actor,
	issueID id.IssueID,
	spanName string,
	event audit.AuditEvent,
	reason string,
	step func(models.Issue) (models.Issue, error),
) (_ models.Issue, err error) {
	ctx, span := s.startSpan(ctx, spanName, attribute.String("issue_id", issueID.String()))
	defer func() { endSpan(span, err) }()

	// The station of an issue never changes, so access is decided before locking.
	if _, err := s.GetIssue(ctx, actor, issueID); err != nil {
		return nil, err
	}

	var next models.Issue
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.issues.FindByIDForUpdate(txCtx, issueID)
		if err != nil {
			return translateNotFound(err, "issue not found", "failed to load issue")
		}
		next, err = step(current)
		if err != nil {
			return err
		}
		if err := s.issues.Save(txCtx, next); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save issue")
		}
		return s.emit(txCtx, actor, event, next.Header(), reason)
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IssueTransitions.WithLabelValues(string(next.Status())).Inc()
	}
	s.logAudit(ctx, string(event),
		"issue_id", issueID.String(),
		"user_id", actor.ID.String(),
		"status", string(next.Status()))
	return next, nil
}

func (s *Service) GetIssue(ctx context.Context, actor id.Actor, issueID id.IssueID) (models.Issue, error) {
	issue, err := s.issues.FindByID(ctx, issueID)
	if err != nil {
		return nil, translateNotFound(err, "issue not found", "failed to load issue")
	}
	if err := s.authorizeStation(ctx, actor, issue.Header().StationID); err != nil {
		return nil, err
	}
	return issue, nil
}

// ListOpenIssues returns the non-terminal issues of a station, oldest first.
func (s *Service) ListOpenIssues(ctx context.Context, actor id.Actor, stationID id.StationID) ([]models.Issue, error) {
	if err := s.authorizeStation(ctx, actor, stationID); err != nil {
		return nil, err
	}
	issues, err := s.issues.ListOpenByStation(ctx, stationID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list issues")
	}
	return issues, nil
}

func (s *Service) authorizeApparatus(ctx context.Context, actor id.Actor, apparatusID id.ApparatusID) (id.StationID, error) {
	stationID, err := s.access.StationIDFor(ctx, apparatusID)
	if err != nil {
		return id.StationID{}, err
	}
	if err := s.authorizeStation(ctx, actor, stationID); err != nil {
		return id.StationID{}, err
	}
	return stationID, nil
}

func (s *Service) authorizeStation(ctx context.Context, actor id.Actor, stationID id.StationID) error {
	ok, err := s.access.CanAccessStation(ctx, actor, stationID)
	if err != nil {
		return err
	}
	if !ok {
		s.denied(ctx, actor, stationID)
		return dErrors.New(dErrors.CodeForbidden, "no access to this station")
	}
	return nil
}

// denied records a refused access. It runs outside any transaction and never fails the
// caller.
func (s *Service) denied(ctx context.Context, actor id.Actor, stationID id.StationID) {
	s.logAudit(ctx, string(audit.EventAccessDenied),
		"user_id", actor.ID.String(),
		"station_id", stationID.String())
	if s.publisher == nil {
		return
	}
	err := s.publisher.Emit(ctx, audit.Event{
		ActorID:     actor.ID,
		ActorRole:   string(actor.Role),
		Action:      string(audit.EventAccessDenied),
		SubjectType: audit.SubjectStation,
		SubjectID:   stationID.String(),
		StationID:   stationID.String(),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to record access denial", "error", err)
	}
}

func (s *Service) emit(ctx context.Context, actor id.Actor, event audit.AuditEvent, h models.IssueHeader, reason string) error {
	if s.publisher == nil {
		return nil
	}
	return s.publisher.Emit(ctx, audit.Event{
		ActorID:     actor.ID,
		ActorRole:   string(actor.Role),
		Action:      string(event),
		SubjectType: audit.SubjectIssue,
		SubjectID:   h.ID.String(),
		ApparatusID: h.ApparatusID.String(),
		StationID:   h.StationID.String(),
		Reason:      reason,
		Detail:      string(h.Severity),
		Timestamp:   h.UpdatedAt,
	})
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, event, args...)
	}
}

func (s *Service) countCreated(category models.Category, origin string) {
	if s.metrics != nil {
		s.metrics.IssuesCreated.WithLabelValues(string(category), origin).Inc()
	}
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func translateNotFound(err error, notFound, internal string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, notFound)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, internal)
}
