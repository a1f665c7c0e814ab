package routes

import (
	"net/http"
	"time"

	"infinite-experiment/flightboard/internal/api"
	"infinite-experiment/flightboard/internal/logging"
	"infinite-experiment/flightboard/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func RegisterRoutes(deps *api.Dependencies, upSince time.Time) http.Handler {
	cfg := deps.Config

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.InFlightMiddleware(deps.Metrics))
	r.Use(middleware.MetricsMiddleware(deps.Metrics))
	r.Use(middleware.NewRateLimiter(cfg.HTTP.RateLimit, cfg.HTTP.RateBurst).Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.HTTP.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	logging.Info("Router initialized with metrics and logging middleware")
	// health check
	r.Get("/healthCheck", api.HealthCheckHandler(deps, upSince))

	RegisterAPIRoutes(r, deps)

	return r
}
