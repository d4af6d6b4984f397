package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	id "painel/pkg/domain"
	"painel/pkg/requestcontext"
)

type stubResolver struct {
	valid     string
	principal *Principal
	calls     int
}

func (s *stubResolver) ResolveSession(_ context.Context, token string) (*Principal, error) {
	s.calls++
	if token != s.valid {
		return nil, errors.New("session not found")
	}
	return s.principal, nil
}

type SessionGateSuite struct {
	suite.Suite
	resolver *stubResolver
	logger   *slog.Logger
}

func TestSessionGateSuite(t *testing.T) {
	suite.Run(t, new(SessionGateSuite))
}

func (s *SessionGateSuite) SetupTest() {
	s.resolver = &stubResolver{
		valid: "good-token",
		principal: &Principal{
			AccountID: id.NewAccountID(),
			SessionID: id.NewSessionID(),
			Email:     "ops@example.com",
		},
	}
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *SessionGateSuite) protected() (http.Handler, *context.Context) {
	var seen context.Context
	h := RequireSession(s.resolver, s.logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Context()
		w.WriteHeader(http.StatusOK)
	}))
	return h, &seen
}

func (s *SessionGateSuite) TestAPIRequestWithoutSessionGets401WithRedirect() {
	h, _ := s.protected()
	req := httptest.NewRequest(http.MethodGet, "/api/tenants", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	s.Equal(http.StatusUnauthorized, w.Code)
	s.JSONEq(`{"error":"unauthorized","error_description":"Session required","redirect":"/login"}`, w.Body.String())
	s.Zero(s.resolver.calls, "no token means no lookup")
}

func (s *SessionGateSuite) TestNavigationWithoutSessionRedirectsToLogin() {
	h, _ := s.protected()
	req := httptest.NewRequest(http.MethodGet, "/tenants", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	s.Equal(http.StatusSeeOther, w.Code)
	s.Equal(LoginPath, w.Header().Get("Location"))
}

func (s *SessionGateSuite) TestInvalidTokenIsRejected() {
	h, _ := s.protected()
	req := httptest.NewRequest(http.MethodPatch, "/api/tenants/x", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal(1, s.resolver.calls)
}

func (s *SessionGateSuite) TestValidCookiePopulatesOperator() {
	h, seen := s.protected()
	req := httptest.NewRequest(http.MethodGet, "/api/tenants", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "good-token"})
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)
	s.Require().NotNil(*seen)
	s.Equal(s.resolver.principal.AccountID, requestcontext.AccountID(*seen))
	s.Equal(s.resolver.principal.SessionID, requestcontext.SessionID(*seen))
	s.Equal("ops@example.com", requestcontext.OperatorEmail(*seen))
}

func (s *SessionGateSuite) TestRedirectAuthenticated() {
	login := RedirectAuthenticated(s.resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	s.Run("signed-in operator goes to the listing", func() {
		req := httptest.NewRequest(http.MethodGet, LoginPath, nil)
		req.Header.Set("Authorization", "Bearer good-token")
		w := httptest.NewRecorder()
		login.ServeHTTP(w, req)
		s.Equal(http.StatusSeeOther, w.Code)
		s.Equal(HomePath, w.Header().Get("Location"))
	})

	s.Run("anonymous visitor sees the login view", func() {
		w := httptest.NewRecorder()
		login.ServeHTTP(w, httptest.NewRequest(http.MethodGet, LoginPath, nil))
		s.Equal(http.StatusOK, w.Code)
	})
}

func TestTokenFromRequest_BearerWinsOverCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "cookie-token"})
	assert.Equal(t, "header-token", TokenFromRequest(req))
}
