package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"painel/internal/registration/models"
	"painel/pkg/cnpj"
	id "painel/pkg/domain"
	dErrors "painel/pkg/domain-errors"
	"painel/pkg/platform/httputil"
	"painel/pkg/requestcontext"
)

// Service drives the registration modal for one operator session.
type Service interface {
	OpenForm(ctx context.Context, sessionID id.SessionID) models.FormView
	Submit(ctx context.Context, sessionID id.SessionID, edits models.Edits) (models.FormView, error)
	CloseForm(ctx context.Context, sessionID id.SessionID) (models.FormView, error)
}

// Handler serves the registration modal and live CNPJ formatting.
type Handler struct {
	registration Service
	logger       *slog.Logger
}

func New(registration Service, logger *slog.Logger) *Handler {
	return &Handler{registration: registration, logger: logger}
}

// Register mounts the routes. They must sit behind the session gate.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/registration/form", h.HandleOpen)
	r.Post("/api/registration", h.HandleSubmit)
	r.Post("/api/registration/close", h.HandleClose)
	r.Get("/api/cnpj/format", h.HandleFormat)
}

// HandleOpen implements GET /api/registration/form.
func (h *Handler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := h.requireSession(w, ctx)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.registration.OpenForm(ctx, sessionID))
}

// HandleSubmit implements POST /api/registration.
//
// Input: { "email": "...", "tax_id": "11.222.333/0001-81", "license_count": "10", "expires_at": "2027-01-31" }
// Output: the form projection. Invalid fields answer 422 with per-field errors;
// backend failures answer with the status of their error code and a notice.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := h.requireSession(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.SubmitRequest](w, r, h.logger)
	if !ok {
		return
	}

	view, err := h.registration.Submit(ctx, sessionID, req.Edits())
	if err != nil {
		code := dErrors.CodeOf(err)
		if code == dErrors.CodeValidation {
			httputil.WriteJSON(w, http.StatusUnprocessableEntity, view)
			return
		}
		h.logger.WarnContext(ctx, "registration failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteJSON(w, httputil.DomainCodeToHTTPStatus(code), view)
		return
	}

	h.logger.InfoContext(ctx, "tenant registered",
		"request_id", requestcontext.RequestID(ctx),
		"operator", requestcontext.OperatorEmail(ctx),
	)
	httputil.WriteJSON(w, http.StatusCreated, view)
}

// HandleClose implements POST /api/registration/close.
func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := h.requireSession(w, ctx)
	if !ok {
		return
	}
	view, err := h.registration.CloseForm(ctx, sessionID)
	if err != nil {
		httputil.WriteJSON(w, httputil.DomainCodeToHTTPStatus(dErrors.CodeOf(err)), view)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// HandleFormat implements GET /api/cnpj/format?value=...
func (h *Handler) HandleFormat(w http.ResponseWriter, r *http.Request) {
	formatted := cnpj.Format(r.URL.Query().Get("value"))
	digits := cnpj.Normalize(formatted)
	httputil.WriteJSON(w, http.StatusOK, models.FormatResponse{
		Value:    formatted,
		Digits:   digits,
		Complete: cnpj.IsValid(digits),
	})
}

func (h *Handler) requireSession(w http.ResponseWriter, ctx context.Context) (id.SessionID, bool) {
	if _, err := httputil.RequireOperator(ctx, h.logger); err != nil {
		httputil.WriteError(w, err)
		return id.SessionID{}, false
	}
	return requestcontext.SessionID(ctx), true
}
