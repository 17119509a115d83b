// Package httpapi exposes the guidance service over HTTP: auth,
// analytics, admin rule management, and the weather-driven data
// endpoints, plus health and metrics.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/cropwise-guidance-service/internal/auth"
	"github.com/couchcryptid/cropwise-guidance-service/internal/observability"
	"github.com/couchcryptid/cropwise-guidance-service/internal/service"
	"github.com/couchcryptid/cropwise-guidance-service/internal/store"
)

const serviceName = "cropwise-guidance-service"

// Deps carries everything the HTTP layer needs. All fields are required
// except CORSAllowOrigin, which disables CORS headers when empty.
type Deps struct {
	Store     *store.Store
	Guidance  *service.Guidance
	Analytics *service.Analytics
	Tokens    *auth.TokenIssuer
	Metrics   *observability.Metrics
	Logger    *slog.Logger

	CORSAllowOrigin string
}

// Server wraps the router and the underlying http.Server.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer builds the full route table. The write timeout leaves room
// for one upstream weather call, which is itself bounded at 20s.
func NewServer(addr string, deps Deps) *Server {
	h := &handlers{
		store:     deps.Store,
		guidance:  deps.Guidance,
		analytics: deps.Analytics,
		tokens:    deps.Tokens,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		validate:  validator.New(),
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(h.requestID)
	r.Use(h.countRequests)
	r.Use(h.logRequests)
	r.Use(chimw.Recoverer)
	if deps.CORSAllowOrigin != "" {
		r.Use(corsMiddleware(deps.CORSAllowOrigin))
	}

	r.Get("/", h.handleRoot)
	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(deps.Store))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/auth/signup", h.handleSignup)
	r.Post("/auth/login", h.handleLogin)
	r.Group(func(r chi.Router) {
		r.Use(h.requireUser)
		r.Get("/me", h.handleMe)
	})

	r.Post("/analytics/event", h.handleAnalyticsEvent)

	r.Get("/geocode", h.handleGeocode)
	r.Get("/states", h.handleStates)
	r.Get("/season_now", h.handleSeasonNow)
	r.Get("/live_crops", h.handleLiveCrops)

	r.Route("/admin/crop_rules", func(r chi.Router) {
		r.Use(h.requireUser, h.requireAdmin)
		r.Get("/", h.handleListRules)
		r.Post("/", h.handleCreateRule)
		r.Put("/{id}", h.handleUpdateRule)
		r.Delete("/{id}", h.handleDeleteRule)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: deps.Logger,
	}
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
