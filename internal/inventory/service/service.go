// Package service orchestrates inventory checks and formal audits. Every mutation runs in
// one transaction together with its issue creation, equipment side effects and outbox
// events.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	equipment "rigcheck/internal/equipment/models"
	"rigcheck/internal/inventory/metrics"
	"rigcheck/internal/inventory/models"
	issuemodels "rigcheck/internal/issue/models"
	issueservice "rigcheck/internal/issue/service"
	manifest "rigcheck/internal/manifest/models"
	id "rigcheck/pkg/domain"
	dErrors "rigcheck/pkg/domain-errors"
	audit "rigcheck/pkg/platform/audit"
	"rigcheck/pkg/platform/sentinel"
	"rigcheck/pkg/platform/tx"
	"rigcheck/pkg/requestcontext"
)

type CheckStore interface {
	Create(ctx context.Context, check *models.InProgressCheck) error
	FindByID(ctx context.Context, checkID id.CheckID) (models.InventoryCheck, error)
	FindByIDForUpdate(ctx context.Context, checkID id.CheckID) (models.InventoryCheck, error)
	FindActiveByApparatus(ctx context.Context, apparatusID id.ApparatusID) (*models.InProgressCheck, error)
	Save(ctx context.Context, check models.InventoryCheck) error
	ListStale(ctx context.Context, cutoff time.Time) ([]id.CheckID, error)
	ItemExists(ctx context.Context, checkID id.CheckID, target models.VerificationTarget) (bool, error)
	AddItem(ctx context.Context, item *models.InventoryCheckItem) error
	LinkIssue(ctx context.Context, checkID id.CheckID, itemID id.CheckItemID, issueID id.IssueID) error
	ListItems(ctx context.Context, checkID id.CheckID) ([]*models.InventoryCheckItem, error)
}

type AuditStore interface {
	Create(ctx context.Context, audit *models.InProgressAudit) error
	FindByID(ctx context.Context, auditID id.AuditID) (models.FormalAudit, error)
	FindByIDForUpdate(ctx context.Context, auditID id.AuditID) (models.FormalAudit, error)
	FindActiveByApparatus(ctx context.Context, apparatusID id.ApparatusID) (*models.InProgressAudit, error)
	Save(ctx context.Context, audit models.FormalAudit) error
	ListStale(ctx context.Context, cutoff time.Time, stationIDs []id.StationID) ([]*models.InProgressAudit, error)
	ItemExists(ctx context.Context, auditID id.AuditID, target models.VerificationTarget) (bool, error)
	AddItem(ctx context.Context, item *models.FormalAuditItem) error
	LinkIssue(ctx context.Context, auditID id.AuditID, itemID id.AuditItemID, issueID id.IssueID) error
	ListItems(ctx context.Context, auditID id.AuditID) ([]*models.FormalAuditItem, error)
}

// ManifestProvider returns the manifest of an apparatus.
type ManifestProvider interface {
	EntriesForApparatus(ctx context.Context, apparatusID id.ApparatusID) (manifest.Snapshot, error)
}

// EquipmentStore is written as a side effect of verification and must join the caller's
// transaction.
type EquipmentStore interface {
	GetStatus(ctx context.Context, itemID id.EquipmentItemID) (equipment.Status, error)
	SetStatus(ctx context.Context, itemID id.EquipmentItemID, status equipment.Status) error
	GetOwnership(ctx context.Context, itemID id.EquipmentItemID) (equipment.Ownership, error)
	GetQuantity(ctx context.Context, stockID id.ConsumableStockID) (int, error)
	SetQuantity(ctx context.Context, stockID id.ConsumableStockID, quantity int) error
	ItemPlacement(ctx context.Context, itemID id.EquipmentItemID) (equipment.Placement, error)
	StockPlacement(ctx context.Context, stockID id.ConsumableStockID) (equipment.Placement, error)
}

// IssueCreator opens issues inside the verification transaction.
type IssueCreator interface {
	CreateOpenIssue(ctx context.Context, p issueservice.NewIssueParams) (*issuemodels.OpenIssue, error)
}

type AccessEvaluator interface {
	StationIDFor(ctx context.Context, apparatusID id.ApparatusID) (id.StationID, error)
	CanAccessStation(ctx context.Context, actor id.Actor, stationID id.StationID) (bool, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service is the verification orchestrator.
type Service struct {
	checks    CheckStore
	audits    AuditStore
	manifests ManifestProvider
	equipment EquipmentStore
	issues    IssueCreator
	access    AccessEvaluator
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

// Deps groups the collaborators every Service needs.
type Deps struct {
	Checks    CheckStore
	Audits    AuditStore
	Manifests ManifestProvider
	Equipment EquipmentStore
	Issues    IssueCreator
	Access    AccessEvaluator
	Tx        tx.Runner
}

func New(deps Deps, opts ...Option) (*Service, error) {
	switch {
	case deps.Checks == nil || deps.Audits == nil:
		return nil, errors.New("check and audit stores are required")
	case deps.Manifests == nil || deps.Equipment == nil || deps.Issues == nil:
		return nil, errors.New("manifest, equipment and issue collaborators are required")
	case deps.Access == nil:
		return nil, errors.New("access evaluator is required")
	case deps.Tx == nil:
		return nil, errors.New("transaction runner is required")
	}
	s := &Service{
		checks:    deps.Checks,
		audits:    deps.Audits,
		manifests: deps.Manifests,
		equipment: deps.Equipment,
		issues:    deps.Issues,
		access:    deps.Access,
		tx:        deps.Tx,
		logger:    slog.Default(),
		tracer:    otel.Tracer("rigcheck/inventory"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
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

// requireAuditor gates formal audit mutations to technicians and administrators.
func (s *Service) requireAuditor(ctx context.Context, actor id.Actor, stationID id.StationID) error {
	if actor.Role.HasAllStationAccess() {
		return nil
	}
	s.denied(ctx, actor, stationID)
	return dErrors.New(dErrors.CodeForbidden, "formal audits are performed by maintenance technicians")
}

// denied records a refused access outside any transaction. Failures are logged only.
func (s *Service) denied(ctx context.Context, actor id.Actor, stationID id.StationID) {
	s.logAudit(ctx, string(audit.EventAccessDenied),
		"user_id", actor.ID.String(),
		"role", string(actor.Role),
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

type sessionEvent struct {
	actor       id.Actor
	action      audit.AuditEvent
	subjectType string
	subjectID   string
	apparatusID id.ApparatusID
	stationID   id.StationID
	reason      string
	detail      string
	at          time.Time
}

func (s *Service) emit(ctx context.Context, e sessionEvent) error {
	if s.publisher == nil {
		return nil
	}
	role := string(e.actor.Role)
	if e.actor.ID.IsNil() {
		role = "system"
	}
	err := s.publisher.Emit(ctx, audit.Event{
		ActorID:     e.actor.ID,
		ActorRole:   role,
		Action:      string(e.action),
		SubjectType: e.subjectType,
		SubjectID:   e.subjectID,
		ApparatusID: e.apparatusID.String(),
		StationID:   e.stationID.String(),
		Reason:      e.reason,
		Detail:      e.detail,
		Timestamp:   e.at,
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record event")
	}
	return nil
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

func (s *Service) countStarted(kind models.SessionKind) {
	if s.metrics != nil {
		s.metrics.SessionsStarted.WithLabelValues(string(kind)).Inc()
	}
}

func (s *Service) countFinished(kind models.SessionKind, outcome string) {
	if s.metrics != nil {
		s.metrics.SessionsFinished.WithLabelValues(string(kind), outcome).Inc()
	}
}

func (s *Service) countConflict(kind models.SessionKind) {
	if s.metrics != nil {
		s.metrics.StartConflicts.WithLabelValues(string(kind)).Inc()
	}
}

func (s *Service) countItem(kind models.SessionKind, status string) {
	if s.metrics != nil {
		s.metrics.ItemsRecorded.WithLabelValues(string(kind), status).Inc()
	}
}

func (s *Service) observeDuration(kind models.SessionKind, d time.Duration) {
	if s.metrics != nil {
		s.metrics.SessionDuration.WithLabelValues(string(kind)).Observe(d.Minutes())
	}
}

func translateNotFound(err error, notFound, internal string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, notFound)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, internal)
}
