package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/DavidDeLaTorre/Engage2Hackathon/internal/config"
	"github.com/DavidDeLaTorre/Engage2Hackathon/internal/runway"
	"github.com/DavidDeLaTorre/Engage2Hackathon/internal/storage/sqlite"
	"github.com/DavidDeLaTorre/Engage2Hackathon/pkg/logger"
)

// Router is the API router
type Router struct {
	handler    *Handler
	middleware *Middleware
	config     *config.Config
	logger     *logger.Logger
}

// NewRouter creates a new API router
func NewRouter(landings *sqlite.LandingStorage, faps, thresholds *runway.Registry, cfg *config.Config, log *logger.Logger) *Router {
	return &Router{
		handler:    NewHandler(landings, faps, thresholds, cfg, log),
		middleware: NewMiddleware(log),
		config:     cfg,
		logger:     log.Named("api-router"),
	}
}

// Routes returns the API routes
func (r *Router) Routes() http.Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(r.middleware.RequestID)
	router.Use(r.middleware.Logger)
	router.Use(r.middleware.Recoverer)
	router.Use(r.middleware.CORS(r.config.Server.CORSAllowedOrigins))

	// API routes
	router.Route("/api/v1", func(router chi.Router) {
		// Landing records
		router.Get("/landings", r.handler.GetLandings)
		router.Get("/landings/runway/{runway}", r.handler.GetLandingsByRunway)
		router.Get("/landings/time-range", r.handler.GetLandingsByTimeRange)

		// Statistics
		router.Get("/stats", r.handler.GetStats)

		// Reference geometry
		router.Get("/runways", r.handler.GetRunways)

		// Health check
		router.Get("/health", r.handler.GetHealth)

		// Configuration
		router.Get("/config", r.handler.GetConfig)
	})

	return router
}
