package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"wisdomwealth-lab/internal/api/handlers"
	apimiddleware "wisdomwealth-lab/internal/api/middleware"
	"wisdomwealth-lab/internal/config"
	"wisdomwealth-lab/internal/infrastructure/cache"
	"wisdomwealth-lab/pkg/logger"
)

// Router holds dependencies for the API router
type Router struct {
	config   config.Config
	handlers *handlers.Handlers
	cache    *cache.RedisCache
	logger   *logger.Logger
}

// NewRouter creates a new Router instance
func NewRouter(cfg config.Config, h *handlers.Handlers, c *cache.RedisCache, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		handlers: h,
		cache:    c,
		logger:   log.WithComponent("router"),
	}
}

// Setup sets up the Chi router with all routes and middleware
func (r *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Core middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(apimiddleware.Logger(r.logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.config.CORS.AllowedOrigins,
		AllowedMethods:   r.config.CORS.AllowedMethods,
		AllowedHeaders:   r.config.CORS.AllowedHeaders,
		AllowCredentials: r.config.CORS.AllowCredentials,
		MaxAge:           r.config.CORS.MaxAge,
	}))

	// Rate limiting
	if r.config.RateLimit.Enabled && r.cache != nil {
		router.Use(apimiddleware.RateLimiter(r.cache, r.config.RateLimit))
	}

	// Health check
	router.Get("/health", r.handlers.Health.Check)
	router.Get("/ready", r.handlers.Health.Ready)

	// API v1 routes
	router.Route("/api/v1", func(api chi.Router) {
		// Main advisory routing endpoint
		api.Post("/route", r.handlers.Advisory.Route)

		// Incident ledger
		api.Get("/incidents/{user_id}", r.handlers.Incidents.ListByUser)
		api.Get("/incidents/{user_id}/{incident_id}", r.handlers.Incidents.GetByID)

		// Pending family alerts
		api.Get("/alerts/{user_id}", r.handlers.Alerts.ListByUser)

		// Family alert preferences
		api.Route("/preferences", func(prefs chi.Router) {
			prefs.Get("/{user_id}", r.handlers.Preferences.Get)
			prefs.Put("/{user_id}", r.handlers.Preferences.Update)
		})

		// Scam pattern corpus
		api.Route("/patterns", func(pat chi.Router) {
			pat.Post("/", r.handlers.Patterns.Add)
			pat.Get("/stats", r.handlers.Patterns.Stats)
		})
	})

	return router
}
