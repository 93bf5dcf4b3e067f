package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rigcheck/internal/inventory/models"
	"rigcheck/internal/inventory/service"
	id "rigcheck/pkg/domain"
	dErrors "rigcheck/pkg/domain-errors"
	"rigcheck/pkg/platform/httputil"
	"rigcheck/pkg/requestcontext"
)

// Service defines the verification operations exposed over HTTP.
type Service interface {
	StartCheck(ctx context.Context, actor id.Actor, apparatusID id.ApparatusID, now time.Time) (*models.InProgressCheck, error)
	VerifyCheckItem(ctx context.Context, actor id.Actor, checkID id.CheckID, req models.VerifyCheckItemRequest, now time.Time) (*service.VerifyCheckResult, error)
	CompleteCheck(ctx context.Context, actor id.Actor, checkID id.CheckID, now time.Time) (*models.CompletedCheck, error)
	AbandonCheck(ctx context.Context, actor id.Actor, checkID id.CheckID, reason string, now time.Time) (*models.AbandonedCheck, error)
	ResumeCheck(ctx context.Context, actor id.Actor, checkID id.CheckID, now time.Time) (*models.InProgressCheck, error)
	GetCheck(ctx context.Context, actor id.Actor, checkID id.CheckID) (models.InventoryCheck, error)
	ListCheckItems(ctx context.Context, actor id.Actor, checkID id.CheckID) ([]*models.InventoryCheckItem, error)

	StartAudit(ctx context.Context, actor id.Actor, apparatusID id.ApparatusID, notes string, now time.Time) (*models.InProgressAudit, error)
	AuditItem(ctx context.Context, actor id.Actor, auditID id.AuditID, req models.AuditItemRequest, now time.Time) (*service.AuditItemResult, error)
	RecordUnexpectedItem(ctx context.Context, actor id.Actor, auditID id.AuditID, req models.UnexpectedItemRequest, now time.Time) (*service.AuditItemResult, error)
	PauseAudit(ctx context.Context, actor id.Actor, auditID id.AuditID, now time.Time) (*models.InProgressAudit, error)
	ResumeAudit(ctx context.Context, actor id.Actor, auditID id.AuditID, now time.Time) (*models.InProgressAudit, error)
	CompleteAudit(ctx context.Context, actor id.Actor, auditID id.AuditID, notes string, now time.Time) (*models.CompletedAudit, error)
	AbandonAudit(ctx context.Context, actor id.Actor, auditID id.AuditID, reason string, now time.Time) (*models.AbandonedAudit, error)
	ReopenAudit(ctx context.Context, actor id.Actor, auditID id.AuditID, now time.Time) (*models.InProgressAudit, error)
	GetAudit(ctx context.Context, actor id.Actor, auditID id.AuditID) (models.FormalAudit, error)
	ListAuditItems(ctx context.Context, actor id.Actor, auditID id.AuditID) ([]*models.FormalAuditItem, error)
	ListStaleAudits(ctx context.Context, actor id.Actor, stationID id.StationID, now time.Time) ([]*models.InProgressAudit, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts check and audit endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/apparatus/{apparatusID}/checks", h.HandleStartCheck)
	r.Post("/apparatus/{apparatusID}/audits", h.HandleStartAudit)
	r.Get("/stations/{stationID}/audits/stale", h.HandleListStaleAudits)

	r.Route("/checks/{checkID}", func(r chi.Router) {
		r.Get("/", h.HandleGetCheck)
		r.Get("/items", h.HandleListCheckItems)
		r.Post("/items", h.HandleVerifyItem)
		r.Post("/complete", h.HandleCompleteCheck)
		r.Post("/abandon", h.HandleAbandonCheck)
		r.Post("/resume", h.HandleResumeCheck)
	})
	r.Route("/audits/{auditID}", func(r chi.Router) {
		r.Get("/", h.HandleGetAudit)
		r.Get("/items", h.HandleListAuditItems)
		r.Post("/items", h.HandleAuditItem)
		r.Post("/unexpected-items", h.HandleUnexpectedItem)
		r.Post("/pause", h.HandlePauseAudit)
		r.Post("/resume", h.HandleResumeAudit)
		r.Post("/complete", h.HandleCompleteAudit)
		r.Post("/abandon", h.HandleAbandonAudit)
		r.Post("/reopen", h.HandleReopenAudit)
	})
}

// HandleStartCheck handles POST /apparatus/{apparatusID}/checks.
func (h *Handler) HandleStartCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, apparatusID, err := actorAndApparatus(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	check, err := h.service.StartCheck(ctx, actor, apparatusID, requestcontext.Now(ctx))
	if err != nil {
		h.fail(ctx, w, "start check failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toCheckResponse(check))
}

// HandleStartAudit handles POST /apparatus/{apparatusID}/audits.
func (h *Handler) HandleStartAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, apparatusID, err := actorAndApparatus(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var body StartAuditRequest
	if err := decodeOptional(r, &body); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := checkLength("notes", body.Notes); err != nil {
		httputil.WriteError(w, err)
		return
	}
	fa, err := h.service.StartAudit(ctx, actor, apparatusID, body.Notes, requestcontext.Now(ctx))
	if err != nil {
		h.fail(ctx, w, "start audit failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toAuditResponse(fa, requestcontext.Now(ctx)))
}

// HandleListStaleAudits handles GET /stations/{stationID}/audits/stale.
func (h *Handler) HandleListStaleAudits(w http.ResponseWriter, r *http.Request) {
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
	now := requestcontext.Now(ctx)
	stale, err := h.service.ListStaleAudits(ctx, actor, stationID, now)
	if err != nil {
		h.fail(ctx, w, "list stale audits failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"audits": toAuditList(stale, now)})
}

func (h *Handler) HandleGetCheck(w http.ResponseWriter, r *http.Request) {
	h.withCheck(w, r, func(ctx context.Context, actor id.Actor, checkID id.CheckID) (any, error) {
		check, err := h.service.GetCheck(ctx, actor, checkID)
		if err != nil {
			return nil, err
		}
		return toCheckResponse(check), nil
	})
}

func (h *Handler) HandleListCheckItems(w http.ResponseWriter, r *http.Request) {
	h.withCheck(w, r, func(ctx context.Context, actor id.Actor, checkID id.CheckID) (any, error) {
		items, err := h.service.ListCheckItems(ctx, actor, checkID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"items": toCheckItems(items)}, nil
	})
}

func (h *Handler) HandleVerifyItem(w http.ResponseWriter, r *http.Request) {
	var body VerifyItemRequest
	if err := httputil.DecodeJSON(r, &body); err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, err := body.toModel()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.withCheck(w, r, func(ctx context.Context, actor id.Actor, checkID id.CheckID) (any, error) {
		res, err := h.service.VerifyCheckItem(ctx, actor, checkID, req, requestcontext.Now(ctx))
		if err != nil {
			return nil, err
		}
		return toVerifyResponse(res), nil
	})
}

func (h *Handler) HandleCompleteCheck(w http.ResponseWriter, r *http.Request) {
	h.withCheck(w, r, func(ctx context.Context, actor id.Actor, checkID id.CheckID) (any, error) {
		check, err := h.service.CompleteCheck(ctx, actor, checkID, requestcontext.Now(ctx))
		if err != nil {
			return nil, err
		}
		return toCheckResponse(check), nil
	})
}

func (h *Handler) HandleAbandonCheck(w http.ResponseWriter, r *http.Request) {
	var body ReasonRequest
	if err := httputil.DecodeJSON(r, &body); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := body.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.withCheck(w, r, func(ctx context.Context, actor id.Actor, checkID id.CheckID) (any, error) {
		check, err := h.service.AbandonCheck(ctx, actor, checkID, body.Reason, requestcontext.Now(ctx))
		if err != nil {
			return nil, err
		}
		return toCheckResponse(check), nil
	})
}

func (h *Handler) HandleResumeCheck(w http.ResponseWriter, r *http.Request) {
	h.withCheck(w, r, func(ctx context.Context, actor id.Actor, checkID id.CheckID) (any, error) {
		check, err := h.service.ResumeCheck(ctx, actor, checkID, requestcontext.Now(ctx))
		if err != nil {
			return nil, err
		}
		return toCheckResponse(check), nil
	})
}

func (h *Handler) HandleGetAudit(w http.ResponseWriter, r *http.Request) {
	h.withAudit(w, r, func(ctx context.Context, actor id.Actor, auditID id.AuditID) (any, error) {
		fa, err := h.service.GetAudit(ctx, actor, auditID)
		if err != nil {
			return nil, err
		}
		return toAuditResponse(fa, requestcontext.Now(ctx)), nil
	})
}

func (h *Handler) HandleListAuditItems(w http.ResponseWriter, r *http.Request) {
	h.withAudit(w, r, func(ctx context.Context, actor id.Actor, auditID id.AuditID) (any, error) {
		items, err := h.service.ListAuditItems(ctx, actor, auditID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"items": toAuditItems(items)}, nil
	})
}

func (h *Handler) HandleAuditItem(w http.ResponseWriter, r *http.Request) {
	var body AuditItemRequest
	if err := httputil.DecodeJSON(r, &body); err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, err := body.toModel()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.withAudit(w, r, func(ctx context.Context, actor id.Actor, auditID id.AuditID) (any, error) {
		res, err := h.service.AuditItem(ctx, actor, auditID, req, requestcontext.Now(ctx))
		if err != nil {
			return nil, err
		}
		return toAuditItemResult(res, requestcontext.Now(ctx)), nil
	})
}

func (h *Handler) HandleUnexpectedItem(w http.ResponseWriter, r *http.Request) {
	var body UnexpectedItemRequest
	if err := httputil.DecodeJSON(r, &body); err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, err := body.toModel()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.withAudit(w, r, func(ctx context.Context, actor id.Actor, auditID id.AuditID) (any, error) {
		res, err := h.service.RecordUnexpectedItem(ctx, actor, auditID, req, requestcontext.Now(ctx))
		if err != nil {
			return nil, err
		}
		return toAuditItemResult(res, requestcontext.Now(ctx)), nil
	})
}

func (h *Handler) HandlePauseAudit(w http.ResponseWriter, r *http.Request) {
	h.withAudit(w, r, func(ctx context.Context, actor id.Actor, auditID id.AuditID) (any, error) {
		fa, err := h.service.PauseAudit(ctx, actor, auditID, requestcontext.Now(ctx))
		if err != nil {
			return nil, err
		}
		return toAuditResponse(fa, requestcontext.Now(ctx)), nil
	})
}

func (h *Handler) HandleResumeAudit(w http.ResponseWriter, r *http.Request) {
	h.withAudit(w, r, func(ctx context.Context, actor id.Actor, auditID id.AuditID) (any, error) {
		fa, err := h.service.ResumeAudit(ctx, actor, auditID, requestcontext.Now(ctx))
		if err != nil {
			return nil, err
		}
		return toAuditResponse(fa, requestcontext.Now(ctx)), nil
	})
}

func (h *Handler) HandleCompleteAudit(w http.ResponseWriter, r *http.Request) {
	var body NotesRequest
	if err := decodeOptional(r, &body); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := checkLength("notes", body.Notes); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.withAudit(w, r, func(ctx context.Context, actor id.Actor, auditID id.AuditID) (any, error) {
		fa, err := h.service.CompleteAudit(ctx, actor, auditID, body.Notes, requestcontext.Now(ctx))
		if err != nil {
			return nil, err
		}
		return toAuditResponse(fa, requestcontext.Now(ctx)), nil
	})
}

func (h *Handler) HandleAbandonAudit(w http.ResponseWriter, r *http.Request) {
	var body ReasonRequest
	if err := httputil.DecodeJSON(r, &body); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := body.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.withAudit(w, r, func(ctx context.Context, actor id.Actor, auditID id.AuditID) (any, error) {
		fa, err := h.service.AbandonAudit(ctx, actor, auditID, body.Reason, requestcontext.Now(ctx))
		if err != nil {
			return nil, err
		}
		return toAuditResponse(fa, requestcontext.Now(ctx)), nil
	})
}

func (h *Handler) HandleReopenAudit(w http.ResponseWriter, r *http.Request) {
	h.withAudit(w, r, func(ctx context.Context, actor id.Actor, auditID id.AuditID) (any, error) {
		fa, err := h.service.ReopenAudit(ctx, actor, auditID, requestcontext.Now(ctx))
		if err != nil {
			return nil, err
		}
		return toAuditResponse(fa, requestcontext.Now(ctx)), nil
	})
}

func actorAndApparatus(r *http.Request) (id.Actor, id.ApparatusID, error) {
	actor, err := httputil.RequireActor(r.Context())
	if err != nil {
		return id.Actor{}, id.ApparatusID{}, err
	}
	apparatusID, err := id.ParseApparatusID(chi.URLParam(r, "apparatusID"))
	if err != nil {
		return id.Actor{}, id.ApparatusID{}, err
	}
	return actor, apparatusID, nil
}

func (h *Handler) withCheck(w http.ResponseWriter, r *http.Request, op func(context.Context, id.Actor, id.CheckID) (any, error)) {
	ctx := r.Context()
	actor, err := httputil.RequireActor(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	checkID, err := id.ParseCheckID(chi.URLParam(r, "checkID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp, err := op(ctx, actor, checkID)
	if err != nil {
		h.fail(ctx, w, "check operation failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) withAudit(w http.ResponseWriter, r *http.Request, op func(context.Context, id.Actor, id.AuditID) (any, error)) {
	ctx := r.Context()
	actor, err := httputil.RequireActor(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	auditID, err := id.ParseAuditID(chi.URLParam(r, "auditID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp, err := op(ctx, actor, auditID)
	if err != nil {
		h.fail(ctx, w, "audit operation failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// decodeOptional accepts an empty body.
func decodeOptional(r *http.Request, v any) error {
	if r.ContentLength == 0 {
		return nil
	}
	return httputil.DecodeJSON(r, v)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	if dErrors.IsClientFault(err) {
		h.logger.WarnContext(ctx, msg, "request_id", requestcontext.RequestID(ctx), "error", err)
	} else {
		h.logger.ErrorContext(ctx, msg, "request_id", requestcontext.RequestID(ctx), "error", err)
	}
	httputil.WriteError(w, err)
}
