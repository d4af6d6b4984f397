// Package httptransport assembles the HTTP surface: middleware, public routes
// and the routes behind the session gate.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"painel/pkg/platform/httputil"
	"painel/pkg/platform/middleware/metadata"
	"painel/pkg/platform/middleware/request"
	"painel/pkg/platform/middleware/requesttime"
	"painel/pkg/platform/middleware/session"
	"painel/pkg/requestcontext"
)

// Routes is implemented by every feature handler.
type Routes interface {
	Register(r chi.Router)
}

// Dependencies are the constructed pieces the router mounts.
type Dependencies struct {
	Logger   *slog.Logger
	Sessions session.Resolver
	Metadata *metadata.Middleware
	Latency  *request.Metrics
	Metrics  http.Handler

	// Public is mounted without the session gate (health, sign-in).
	Public []Routes
	// Protected is mounted behind the session gate.
	Protected []Routes

	MaxBodyBytes int64
}

// NewRouter wires all endpoints with middleware.
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	maxBody := deps.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = request.DefaultMaxBodyBytes
	}

	r := chi.NewRouter()
	r.Use(request.Recovery(logger))
	r.Use(request.RequestID)
	if deps.Metadata != nil {
		r.Use(deps.Metadata.Handler)
	}
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(logger))
	r.Use(request.LatencyMiddleware(deps.Latency))
	r.Use(request.BodyLimit(maxBody))
	r.Use(request.ContentTypeJSON)

	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics)
	}
	for _, routes := range deps.Public {
		routes.Register(r)
	}
	r.With(session.RedirectAuthenticated(deps.Sessions)).Get(session.LoginPath, handleLoginView)

	r.Group(func(r chi.Router) {
		r.Use(session.RequireSession(deps.Sessions, logger))
		r.Get(session.HomePath, handleTenantsView)
		for _, routes := range deps.Protected {
			routes.Register(r)
		}
	})

	return r
}

// LoginView describes the login screen.
type LoginView struct {
	View   string   `json:"view"`
	Fields []string `json:"fields"`
	Action string   `json:"action"`
}

// TenantsView describes the listing screen for the signed-in operator.
type TenantsView struct {
	View         string            `json:"view"`
	Operator     string            `json:"operator"`
	Endpoints    map[string]string `json:"endpoints"`
	SignOutRoute string            `json:"sign_out"`
}

func handleLoginView(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, LoginView{
		View:   "login",
		Fields: []string{"email", "password"},
		Action: "/api/session",
	})
}

func handleTenantsView(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, TenantsView{
		View:     "tenants",
		Operator: requestcontext.OperatorEmail(r.Context()),
		Endpoints: map[string]string{
			"list":     "/api/tenants",
			"stream":   "/api/tenants/stream",
			"export":   "/api/tenants/export.xlsx",
			"register": "/api/registration",
			"form":     "/api/registration/form",
			"format":   "/api/cnpj/format",
		},
		SignOutRoute: "/api/session",
	})
}
