package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/events"
	"inkwell/internal/handlers/api/v1/achievements"
	"inkwell/internal/handlers/api/v1/health"
	"inkwell/internal/handlers/api/v1/notifications"
	"inkwell/internal/middleware"
	"inkwell/internal/response"
	"inkwell/internal/services"
)

// Dependencies bundles everything the router wires together.
type Dependencies struct {
	Config   *config.Config
	DB       *database.Manager
	Cache    cache.Cache
	Bus      events.EventBus
	Services *services.Collection
	Logger   *zap.Logger
}

// New builds the HTTP router. The health probe is open; everything under
// /api/v1 requires a bearer token.
func New(deps *Dependencies) http.Handler {
	responseBuilder := response.NewBuilder(deps.Config.IsProduction(), deps.Logger)

	notificationController := notifications.NewNotificationController(deps.Services, deps.Logger, responseBuilder)
	achievementController := achievements.NewAchievementController(deps.Services, deps.Logger, responseBuilder)
	healthController := health.NewHealthController(deps.DB, deps.Cache, deps.Bus, deps.Logger, responseBuilder)

	r := chi.NewRouter()

	r.Use(middleware.RequestID(deps.Logger))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logger(deps.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Compress(5))

	r.Get("/health", healthController.Check)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireAuth(&middleware.AuthConfig{
			JWTSecret: deps.Config.Auth.JWTSecret,
			Logger:    deps.Logger,
		}))

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", notificationController.List)
			r.Get("/unread-count", notificationController.UnreadCount)
			r.Post("/read", notificationController.MarkRead)
			r.Post("/read-all", notificationController.MarkAllRead)
			r.Get("/preferences", notificationController.GetPreferences)
			r.Put("/preferences", notificationController.UpdatePreferences)
		})

		r.Route("/achievements", func(r chi.Router) {
			r.Get("/", achievementController.List)
			r.Get("/progression", achievementController.Progression)
			r.Post("/evaluate", achievementController.Evaluate)
		})
	})

	return r
}
