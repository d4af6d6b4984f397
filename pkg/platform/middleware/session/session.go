// Package session gates protected routes behind a signed-in operator session.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	id "painel/pkg/domain"
	"painel/pkg/requestcontext"
)

const (
	// CookieName carries the session token for browser clients.
	CookieName = "painel_session"
	// LoginPath is where unauthenticated navigations are sent.
	LoginPath = "/login"
	// HomePath is where signed-in operators land.
	HomePath = "/tenants"
)

// Principal is the signed-in operator a session token resolves to.
type Principal struct {
	AccountID id.AccountID
	SessionID id.SessionID
	Email     string
}

// Resolver turns a session token into the operator it belongs to. It returns an
// error for unknown, expired or revoked sessions.
type Resolver interface {
	ResolveSession(ctx context.Context, token string) (*Principal, error)
}

// TokenFromRequest returns the session token from the Authorization bearer
// header, falling back to the session cookie.
func TokenFromRequest(r *http.Request) string {
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// RequireSession lets a request through only when it carries a live session.
// Browser navigations without one are redirected to the login view; API
// calls receive 401 with the redirect target.
func RequireSession(resolver Resolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token := TokenFromRequest(r)
			if token == "" {
				logger.InfoContext(ctx, "session required",
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(ctx),
				)
				deny(w, r)
				return
			}

			principal, err := resolver.ResolveSession(ctx, token)
			if err != nil {
				logger.WarnContext(ctx, "session rejected",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				deny(w, r)
				return
			}

			ctx = requestcontext.WithOperator(ctx, principal.AccountID, principal.SessionID, principal.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RedirectAuthenticated sends operators that already hold a live session away
// from the login view to the tenant listing.
func RedirectAuthenticated(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := TokenFromRequest(r); token != "" {
				if _, err := resolver.ResolveSession(r.Context(), token); err == nil {
					http.Redirect(w, r, HomePath, http.StatusSeeOther)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func deny(w http.ResponseWriter, r *http.Request) {
	if isNavigation(r) {
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"unauthorized","error_description":"Session required","redirect":%q}`, LoginPath)) //nolint:errcheck // headers already sent
}

// isNavigation reports whether the request is a browser page load rather than
// an API call.
func isNavigation(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}
	if r.Header.Get("Sec-Fetch-Mode") == "navigate" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
