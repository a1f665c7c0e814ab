package routes

import (
	"infinite-experiment/flightboard/internal/api"
	"infinite-experiment/flightboard/internal/logging"
	"infinite-experiment/flightboard/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies) {
	secret := deps.Config.Auth.AdminJWTSecret
	if secret == "" {
		logging.Warn("ADMIN_JWT_SECRET is empty, admin routes are open")
	}

	r.Route("/api/v1", func(v1 chi.Router) {
		// Board (public)
		v1.Get("/snapshot", api.SnapshotHandler(deps))
		v1.Post("/reload", api.ReloadHandler(deps))
		v1.Get("/airports", api.AirportsHandler(deps))
		v1.Get("/board", api.BoardHandler(deps))
		v1.Get("/board.pdf", api.BoardPDFHandler(deps))

		// Admin
		v1.Route("/admin", func(admin chi.Router) {
			admin.Use(middleware.AdminAuthMiddleware(secret))

			admin.Get("/flights", api.AdminFlightsHandler(deps))
			admin.Post("/flights", api.CreateFlightHandler(deps))
			admin.Put("/flights/{id}", api.UpdateFlightHandler(deps))
			admin.Delete("/flights/{id}", api.DeleteFlightHandler(deps))

			admin.Post("/airlines", api.CreateAirlineHandler(deps))
			admin.Delete("/airlines/{id}", api.DeleteAirlineHandler(deps))

			admin.Get("/gates", api.AdminGatesHandler(deps))
			admin.Post("/gates", api.CreateGateHandler(deps))
			admin.Delete("/gates/{id}", api.DeleteGateHandler(deps))
			admin.Get("/gates/options", api.GateOptionsHandler(deps))
			admin.Post("/gates/airport/{airportId}", api.LoadGatesForAirportHandler(deps))

			admin.Get("/audit", api.AuditHandler(deps))
		})
	})
}
