// internal/routes/routes.go
package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"maw-backend/internal/handlers"
	"maw-backend/internal/middleware"
	"maw-backend/internal/repository"
)

type Handlers struct {
	Health    *handlers.HealthHandler
	User      *handlers.UserHandler
	Events    *handlers.EventsHandler
	Analytics *handlers.AnalyticsHandler
}

func SetupRoutes(h *Handlers, users repository.UserRepository) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger())
	r.Use(middleware.Recoverer())
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	r.Use(middleware.Timeout(90 * time.Second))
	r.Use(middleware.CORS())

	// Health check routes
	r.Get("/", h.Health.HealthCheck)
	r.Get("/health", h.Health.HealthCheck)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no authentication required)
		r.Group(func(r chi.Router) {
			r.Post("/register", h.User.RegisterUser)
		})

		// Protected routes (authentication required)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth())

			r.Post("/events", h.Events.RecordEvent)

			// Admin-only analytics
			r.With(middleware.AdminOnly(users)).Get("/admin/analytics", h.Analytics.GetAdminReport)
		})
	})

	return r
}
