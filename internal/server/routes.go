package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/travelog/travelog/internal/handler"
	"github.com/travelog/travelog/internal/metrics"
	"github.com/travelog/travelog/internal/middleware"
	"github.com/travelog/travelog/internal/service"
)

// Deps holds everything the router wires into handlers.
type Deps struct {
	Logger  *slog.Logger
	Auth    *service.AuthService
	Travels *service.TravelService
	Metrics *metrics.InMemoryRecorder

	// Readiness checks; nil means not configured.
	DB    handler.HealthChecker
	Cache handler.HealthChecker

	IsDevelopment      bool
	CORSAllowedOrigins []string
	MaxRequestBodySize int64
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	recorder := metrics.Recorder(metrics.NewNoop())
	var snapshotter metrics.Snapshotter
	if deps.Metrics != nil {
		recorder = deps.Metrics
		snapshotter = deps.Metrics
	}

	h := handler.New(logger, deps.IsDevelopment)
	healthHandler := handler.NewHealthHandler(deps.DB, deps.Cache, logger)
	metricsHandler := handler.NewMetricsHandler(snapshotter)
	authHandler := handler.NewAuthHandler(h, deps.Auth)
	travelHandler := handler.NewTravelHandler(h, deps.Travels)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger, deps.IsDevelopment))
	r.Use(middleware.Metrics(recorder))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: deps.IsDevelopment}))
	if len(deps.CORSAllowedOrigins) > 0 {
		r.Use(middleware.CORS(middleware.DefaultCORSConfig(deps.CORSAllowedOrigins...)))
	}
	if deps.MaxRequestBodySize > 0 {
		r.Use(middleware.MaxBodySize(deps.MaxRequestBodySize))
	}

	// Probes and metrics (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)

	requireAuth := middleware.Auth(middleware.AuthConfig{
		Logger:        logger,
		Authenticator: deps.Auth,
		Metrics:       recorder,
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
		r.With(requireAuth).Post("/logout", authHandler.Logout)
		r.With(requireAuth).Get("/me", authHandler.Me)
	})

	r.Route("/travels", func(r chi.Router) {
		// Creation is open to anonymous clients.
		r.Post("/", travelHandler.Create)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", travelHandler.List)
			r.Get("/{id}", travelHandler.Get)
			r.Put("/{id}", travelHandler.Update)
			r.Delete("/{id}", travelHandler.Delete)
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
