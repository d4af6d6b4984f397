package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"painel/internal/auth/models"
	id "painel/pkg/domain"
	"painel/pkg/platform/httputil"
	"painel/pkg/platform/middleware/session"
	"painel/pkg/requestcontext"
)

// Service is the slice of the credential system the session endpoints use.
type Service interface {
	SignIn(ctx context.Context, req *models.SignInRequest) (*models.SignInResult, error)
	SignOut(ctx context.Context, sessionID id.SessionID) error
	CurrentCredential(ctx context.Context, rawToken string) (*models.Session, error)
}

// Handler serves sign-in, sign-out and the current-session query.
type Handler struct {
	auth         Service
	logger       *slog.Logger
	secureCookie bool
}

func New(auth Service, logger *slog.Logger, secureCookie bool) *Handler {
	return &Handler{auth: auth, logger: logger, secureCookie: secureCookie}
}

// Register mounts the session routes. None of them sit behind the session gate.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/session", h.HandleSignIn)
	r.Delete("/api/session", h.HandleSignOut)
	r.Get("/api/session", h.HandleCurrent)
}

// HandleSignIn implements POST /api/session.
//
// Input: { "email": "ops@acme.com", "password": "..." }
// Output: { "account_id": "...", "email": "...", "expires_at": "...", "token": "..." } and the session cookie.
func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.SignInRequest](w, r, h.logger)
	if !ok {
		return
	}

	res, err := h.auth.SignIn(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "sign-in failed",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "sign-in successful",
		"request_id", requestID,
		"account_id", res.Session.AccountID.String(),
	)
	h.setCookie(w, res.Token, res.Session.ExpiresAt)
	httputil.WriteJSON(w, http.StatusOK, models.NewSessionResponse(res.Session, res.Token))
}

// HandleSignOut implements DELETE /api/session. The cookie is always cleared.
func (h *Handler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.clearCookie(w)

	current, err := h.auth.CurrentCredential(ctx, session.TokenFromRequest(r))
	if err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	ctx = requestcontext.WithOperator(ctx, current.AccountID, current.ID, current.Email)

	if err := h.auth.SignOut(ctx, current.ID); err != nil {
		h.logger.ErrorContext(ctx, "sign-out failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCurrent implements GET /api/session.
func (h *Handler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	current, err := h.auth.CurrentCredential(r.Context(), session.TokenFromRequest(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.NewSessionResponse(current, ""))
}

func (h *Handler) setCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
