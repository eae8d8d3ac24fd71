package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zapponejosh/audioreader-api/internal/config"
	"github.com/zapponejosh/audioreader-api/internal/metrics"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
//	GET /health                      database health
//	GET /metrics                     Prometheus
//	GET /api/v1/schedule             program guide for a day
//	GET /api/v1/now-playing          what is being read right now
//	GET /api/v1/on-demand            latest recording of a program
//	GET /api/v1/streams/{name}       live or kc stream
//	GET /api/v1/help                 launch and help prompts
//
// /api/v1 requires X-API-Key when one is configured and is rate limited per IP.
func SetupRoutes(handlers *Handlers, cfg *config.Config, gatherer prometheus.Gatherer, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		CORSMiddleware(),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
	})

	// ==========================================================================
	// Public routes
	// ==========================================================================
	r.Get("/health", handlers.HealthCheck)
	r.Handle("/metrics", metrics.Handler(gatherer))

	// ==========================================================================
	// Voice routes
	// ==========================================================================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(
			RateLimitMiddleware(cfg.RateLimitPerMinute),
			AuthMiddleware(cfg, logger),
		)

		r.Get("/schedule", handlers.GetSchedule)
		r.Get("/now-playing", handlers.GetNowPlaying)
		r.Get("/on-demand", handlers.GetOnDemand)
		r.Get("/streams/{name}", handlers.GetStream)
		r.Get("/help", handlers.GetHelp)
	})

	return r
}
