package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/baraholka-be/internal/api/handlers"
	"github.com/isdelr/baraholka-be/internal/auth"
	"github.com/isdelr/baraholka-be/internal/services"
	"github.com/isdelr/baraholka-be/internal/websocket"
)

// Options holds router settings that come from configuration.
type Options struct {
	CORSOrigins   []string
	SecureCookies bool
}

// NewRouter creates and configures a new Chi router.
func NewRouter(
	opts Options,
	hub *websocket.Hub,
	issuer *auth.Issuer,
	userService services.UserServiceProvider,
	listingService services.ListingServiceProvider,
	moderationService services.ModerationServiceProvider,
	eventService services.EventServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, issuer, opts.SecureCookies)
	listingHandler := handlers.NewListingHandler(listingService)
	moderationHandler := handlers.NewModerationHandler(listingService, moderationService)
	userHandler := handlers.NewUserHandler(userService)
	eventHandler := handlers.NewEventHandler(eventService)
	wsHandler := handlers.NewWebSocketHandler(hub, opts.CORSOrigins)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.With(issuer.Middleware()).Get("/me", authHandler.GetMe)
		})

		r.Get("/categories", listingHandler.GetCategories)
		r.Get("/cities", listingHandler.GetCities)

		r.Route("/listings", func(r chi.Router) {
			r.Get("/", listingHandler.GetActive)
			r.With(issuer.Optional()).Get("/{id}", listingHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(issuer.Middleware())
				r.Post("/", listingHandler.Create)
				r.Put("/{id}", listingHandler.Update)
				r.Delete("/{id}", listingHandler.Delete)
			})
		})

		r.Route("/me", func(r chi.Router) {
			r.Use(issuer.Middleware())
			r.Get("/listings", listingHandler.GetMine)
			r.Get("/ws", wsHandler.Serve)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(issuer.Middleware())
			r.Use(auth.RequireAdmin)

			r.Route("/listings", func(r chi.Router) {
				r.Get("/", moderationHandler.GetAll)
				r.Post("/{id}/approve", moderationHandler.Approve)
				r.Post("/{id}/reject", moderationHandler.Reject)
			})
			r.Get("/users", userHandler.GetAll)
			r.Get("/users/{id}", userHandler.Get)
			r.Get("/events", eventHandler.GetRecent)
			r.Get("/ws", wsHandler.Serve)
		})
	})

	return r
}
