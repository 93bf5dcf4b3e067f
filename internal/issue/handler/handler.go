package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rigcheck/internal/issue/models"
	"rigcheck/internal/issue/service"
	id "rigcheck/pkg/domain"
	dErrors "rigcheck/pkg/domain-errors"
	"rigcheck/pkg/platform/httputil"
	"rigcheck/pkg/requestcontext"
)

// Service defines the issue operations exposed over HTTP.
type Service interface {
	ReportIssue(ctx context.Context, actor id.Actor, req service.ReportIssueRequest, now time.Time) (*models.OpenIssue, error)
	AcknowledgeIssue(ctx context.Context, actor id.Actor, issueID id.IssueID, now time.Time) (models.Issue, error)
	StartIssueWork(ctx context.Context, actor id.Actor, issueID id.IssueID, now time.Time) (models.Issue, error)
	ResolveIssue(ctx context.Context, actor id.Actor, issueID id.IssueID, notes string, now time.Time) (models.Issue, error)
	CloseIssue(ctx context.Context, actor id.Actor, issueID id.IssueID, reason string, now time.Time) (models.Issue, error)
	GetIssue(ctx context.Context, actor id.Actor, issueID id.IssueID) (models.Issue, error)
	ListOpenIssues(ctx context.Context, actor id.Actor, stationID id.StationID) ([]models.Issue, error)
}

// Handler wires issue endpoints to the issue service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts issue endpoints. The router is expected to carry auth and request-time
// middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/apparatus/{apparatusID}/issues", h.HandleReport)
	r.Get("/stations/{stationID}/issues", h.HandleListOpen)
	r.Route("/issues/{issueID}", func(r chi.Router) {
		r.Get("/", h.HandleGet)
		r.Post("/acknowledge", h.HandleAcknowledge)
		r.Post("/start", h.HandleStartWork)
		r.Post("/resolve", h.HandleResolve)
		r.Post("/close", h.HandleClose)
	})
}

// HandleReport handles POST /apparatus/{apparatusID}/issues.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, err := httputil.RequireActor(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	apparatusID, err := id.ParseApparatusID(chi.URLParam(r, "apparatusID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var body ReportIssueRequest
	if err := httputil.DecodeJSON(r, &body); err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, err := body.toService(apparatusID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	issue, err := h.service.ReportIssue(ctx, actor, req, requestcontext.Now(ctx))
	if err != nil {
		h.fail(ctx, w, "report issue failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toIssueResponse(issue))
}

// HandleListOpen handles GET /stations/{stationID}/issues.
func (h *Handler) HandleListOpen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, err := httputil.RequireActor(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	stationID, err := id.ParseStationID(chi.URLParam(r, "stationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	issues, err := h.service.ListOpenIssues(ctx, actor, stationID)
	if err != nil {
		h.fail(ctx, w, "list issues failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toIssueList(issues))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	h.withIssue(w, r, func(ctx context.Context, actor id.Actor, issueID id.IssueID) (models.Issue, error) {
		return h.service.GetIssue(ctx, actor, issueID)
	})
}

func (h *Handler) HandleAcknowledge(w http.ResponseWriter, r *http.Request) {
	h.withIssue(w, r, func(ctx context.Context, actor id.Actor, issueID id.IssueID) (models.Issue, error) {
		return h.service.AcknowledgeIssue(ctx, actor, issueID, requestcontext.Now(ctx))
	})
}

func (h *Handler) HandleStartWork(w http.ResponseWriter, r *http.Request) {
	h.withIssue(w, r, func(ctx context.Context, actor id.Actor, issueID id.IssueID) (models.Issue, error) {
		return h.service.StartIssueWork(ctx, actor, issueID, requestcontext.Now(ctx))
	})
}

func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	var body ResolveIssueRequest
	if err := httputil.DecodeJSON(r, &body); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.withIssue(w, r, func(ctx context.Context, actor id.Actor, issueID id.IssueID) (models.Issue, error) {
		return h.service.ResolveIssue(ctx, actor, issueID, body.Notes, requestcontext.Now(ctx))
	})
}

func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	var body CloseIssueRequest
	if err := httputil.DecodeJSON(r, &body); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := body.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.withIssue(w, r, func(ctx context.Context, actor id.Actor, issueID id.IssueID) (models.Issue, error) {
		return h.service.CloseIssue(ctx, actor, issueID, body.Reason, requestcontext.Now(ctx))
	})
}

// withIssue resolves the actor and issue id, runs op and writes the resulting issue.
func (h *Handler) withIssue(w http.ResponseWriter, r *http.Request, op func(context.Context, id.Actor, id.IssueID) (models.Issue, error)) {
	ctx := r.Context()
	actor, err := httputil.RequireActor(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	issueID, err := id.ParseIssueID(chi.URLParam(r, "issueID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	issue, err := op(ctx, actor, issueID)
	if err != nil {
		h.fail(ctx, w, "issue operation failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toIssueResponse(issue))
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	if dErrors.IsClientFault(err) {
		h.logger.WarnContext(ctx, msg, "request_id", requestcontext.RequestID(ctx), "error", err)
	} else {
		h.logger.ErrorContext(ctx, msg, "request_id", requestcontext.RequestID(ctx), "error", err)
	}
	httputil.WriteError(w, err)
}
