package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"painel/internal/platform/health"
	id "painel/pkg/domain"
	"painel/pkg/platform/httputil"
	"painel/pkg/platform/middleware/session"
	"painel/pkg/requestcontext"
)

type stubResolver struct {
	token     string
	principal *session.Principal
}

func (s stubResolver) ResolveSession(_ context.Context, token string) (*session.Principal, error) {
	if token == s.token {
		return s.principal, nil
	}
	return nil, errors.New("unknown session")
}

type routesFunc func(r chi.Router)

func (f routesFunc) Register(r chi.Router) { f(r) }

type RouterSuite struct {
	suite.Suite
	router http.Handler
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	resolver := stubResolver{
		token: "live-token",
		principal: &session.Principal{
			AccountID: id.NewAccountID(),
			SessionID: id.NewSessionID(),
			Email:     "ops@acme.com",
		},
	}
	probe := routesFunc(func(r chi.Router) {
		r.Get("/api/probe", func(w http.ResponseWriter, r *http.Request) {
			httputil.WriteJSON(w, http.StatusOK, map[string]string{"operator": requestcontext.OperatorEmail(r.Context())})
		})
		r.Post("/api/probe", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})
	s.router = NewRouter(Dependencies{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Sessions:  resolver,
		Public:    []Routes{health.New("test")},
		Protected: []Routes{probe},
	})
}

func (s *RouterSuite) do(method, path string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader("{}"))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *RouterSuite) TestPublicRoutes() {
	rec := s.do(http.MethodGet, "/health/live")
	s.Equal(http.StatusOK, rec.Code)
	s.NotEmpty(rec.Header().Get("X-Request-ID"))

	rec = s.do(http.MethodGet, "/login")
	s.Equal(http.StatusOK, rec.Code)
	var view LoginView
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &view))
	s.Equal("login", view.View)
}

func (s *RouterSuite) TestSessionGate() {
	s.Run("browser navigation goes to login", func() {
		rec := s.do(http.MethodGet, "/tenants", "Accept", "text/html")
		s.Equal(http.StatusSeeOther, rec.Code)
		s.Equal("/login", rec.Header().Get("Location"))
	})

	s.Run("api call is 401 with the redirect", func() {
		rec := s.do(http.MethodGet, "/api/probe")
		s.Equal(http.StatusUnauthorized, rec.Code)
		s.Contains(rec.Body.String(), `"redirect":"/login"`)
	})

	s.Run("stale token is rejected", func() {
		rec := s.do(http.MethodGet, "/api/probe", "Authorization", "Bearer revoked")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("live session reaches the handler with the operator", func() {
		rec := s.do(http.MethodGet, "/api/probe", "Authorization", "Bearer live-token")
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"operator":"ops@acme.com"`)
	})

	s.Run("listing view", func() {
		req := httptest.NewRequest(http.MethodGet, "/tenants", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "live-token"})
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		s.Equal(http.StatusOK, rec.Code)

		var view TenantsView
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &view))
		s.Equal("ops@acme.com", view.Operator)
		s.Equal("/api/tenants/stream", view.Endpoints["stream"])
	})

	s.Run("signed-in operator skips the login view", func() {
		rec := s.do(http.MethodGet, "/login", "Authorization", "Bearer live-token")
		s.Equal(http.StatusSeeOther, rec.Code)
		s.Equal("/tenants", rec.Header().Get("Location"))
	})
}

func (s *RouterSuite) TestContentType() {
	rec := s.do(http.MethodPost, "/api/probe", "Authorization", "Bearer live-token", "Content-Type", "text/plain")
	s.Equal(http.StatusUnsupportedMediaType, rec.Code)

	rec = s.do(http.MethodPost, "/api/probe", "Authorization", "Bearer live-token", "Content-Type", "application/json")
	s.Equal(http.StatusNoContent, rec.Code)
}
