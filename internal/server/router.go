package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/fitlog/fitlog/internal/handler"
	"github.com/fitlog/fitlog/internal/metrics"
	"github.com/fitlog/fitlog/internal/middleware"
	"github.com/fitlog/fitlog/internal/service"
	"github.com/fitlog/fitlog/internal/session"
)

// RouterConfig carries everything the HTTP surface is assembled from.
type RouterConfig struct {
	Logger   *slog.Logger
	Accounts *service.AccountService
	Records  *service.RecordService
	Sessions session.Authenticator

	// Metrics is both fed by handlers and served on /metrics.
	Metrics interface {
		metrics.Recorder
		metrics.Snapshotter
	}

	// Health probes. Cache may be nil when sessions live in memory.
	DB    handler.HealthChecker
	Cache handler.HealthChecker

	Security  middleware.SecurityConfig
	CORS      middleware.CORSConfig
	LoginRate middleware.RateLimitConfig
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var recorder metrics.Recorder = metrics.NewNoop()
	var snapshotter metrics.Snapshotter
	if cfg.Metrics != nil {
		recorder = cfg.Metrics
		snapshotter = cfg.Metrics
	}

	h := handler.New()
	healthHandler := handler.NewHealthHandler(cfg.DB, cfg.Cache)
	metricsHandler := handler.NewMetricsHandler(snapshotter)
	accountHandler := handler.NewAccountHandler(cfg.Accounts, cfg.Sessions, recorder, logger)
	recordHandler := handler.NewRecordHandler(cfg.Records, logger)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(cfg.Security))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.MaxBodySize(cfg.Security.MaxRequestBodySize))

	// Health and metrics endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)

	// Root info endpoint
	r.Get("/", h.Hello)

	loginRate := cfg.LoginRate
	loginRate.Logger = logger
	loginRate.Metrics = recorder

	requireSession := middleware.RequireSession(middleware.SessionConfig{
		Logger:   logger,
		Sessions: cfg.Sessions,
		Users:    cfg.Accounts,
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", accountHandler.Register)
		r.With(middleware.RateLimitLogin(loginRate)).Post("/login", accountHandler.Login)
		r.With(requireSession).Post("/logout", accountHandler.Logout)

		r.Route("/records", func(r chi.Router) {
			r.Use(requireSession)

			r.Post("/", recordHandler.Create)
			r.Get("/", recordHandler.List)
			r.Get("/{id}", recordHandler.Get)
			r.Put("/{id}", recordHandler.Update)
			r.Delete("/{id}", recordHandler.Delete)
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
