package handler

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"

	"painel/internal/listing/export"
	"painel/internal/listing/metrics"
	"painel/internal/listing/models"
	"painel/internal/listing/service"
	id "painel/pkg/domain"
	"painel/pkg/platform/httputil"
	"painel/pkg/requestcontext"
)

// Service builds and edits the tenant grid.
type Service interface {
	Refresh(ctx context.Context) (service.Snapshot, error)
	Edit(ctx context.Context, accountID id.AccountID, licenseCount int, expiresAt civil.Date) (models.Row, error)
	EditRow(ctx context.Context, view *models.View, accountID id.AccountID, licenseCount int, expiresAt civil.Date) (models.Row, error)
	Watch(ctx context.Context, onRows func(service.Snapshot)) error
}

// Handler serves the tenant grid over JSON, a WebSocket push stream and a
// spreadsheet export.
type Handler struct {
	listing        Service
	logger         *slog.Logger
	metrics        *metrics.Metrics
	allowedOrigins []string
}

type Option func(*Handler)

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithAllowedOrigins lists the browser origins allowed to open the stream.
func WithAllowedOrigins(origins []string) Option {
	return func(h *Handler) {
		h.allowedOrigins = origins
	}
}

func New(listing Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{listing: listing, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the routes. They must sit behind the session gate.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/tenants", h.HandleList)
	r.Get("/api/tenants/stream", h.HandleStream)
	r.Get("/api/tenants/export.xlsx", h.HandleExport)
	r.Patch("/api/tenants/{id}", h.HandleEdit)
}

// HandleList implements GET /api/tenants?q=...
//
// Every call re-reads the collection and resolves company names.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, err := httputil.RequireOperator(ctx, h.logger); err != nil {
		httputil.WriteError(w, err)
		return
	}

	snap, err := h.listing.Refresh(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to refresh tenants",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.NewListResponse(snap.Rows, r.URL.Query().Get("q"), snap.Generation))
}

// HandleEdit implements PATCH /api/tenants/{id}.
//
// Input: { "license_count": 12, "expires_at": "2027-12-31" }
// Output: the updated row.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, err := httputil.RequireOperator(ctx, h.logger); err != nil {
		httputil.WriteError(w, err)
		return
	}

	accountID, err := id.ParseAccountID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.EditRequest](w, r, h.logger)
	if !ok {
		return
	}

	row, err := h.listing.Edit(ctx, accountID, req.LicenseCount, req.Expires())
	if err != nil {
		h.logger.WarnContext(ctx, "tenant edit failed",
			"account_id", accountID.String(),
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "tenant terms updated",
		"account_id", accountID.String(),
		"operator", requestcontext.OperatorEmail(ctx),
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, row)
}

// HandleExport implements GET /api/tenants/export.xlsx?q=...
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, err := httputil.RequireOperator(ctx, h.logger); err != nil {
		httputil.WriteError(w, err)
		return
	}

	snap, err := h.listing.Refresh(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, models.Filter(snap.Rows, r.URL.Query().Get("q"))); err != nil {
		h.logger.ErrorContext(ctx, "failed to render export",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}

	filename := fmt.Sprintf("tenants-%s.xlsx", civil.DateOf(requestcontext.Now(ctx)))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
