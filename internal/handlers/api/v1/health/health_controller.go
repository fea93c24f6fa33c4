// ===============================
// FILE: internal/handlers/api/v1/health/health_controller.go
// ===============================

package health

import (
	"net/http"

	"go.uber.org/zap"

	"inkwell/internal/cache"
	"inkwell/internal/database"
	"inkwell/internal/events"
	"inkwell/internal/response"
)

// HealthController reports the liveness of the engine's dependencies.
type HealthController struct {
	db              *database.Manager
	cache           cache.Cache
	bus             events.EventBus
	responseBuilder *response.Builder
	logger          *zap.Logger
}

// NewHealthController creates a new health controller
func NewHealthController(
	db *database.Manager,
	cacheClient cache.Cache,
	bus events.EventBus,
	logger *zap.Logger,
	responseBuilder *response.Builder,
) *HealthController {
	return &HealthController{
		db:              db,
		cache:           cacheClient,
		bus:             bus,
		responseBuilder: responseBuilder,
		logger:          logger,
	}
}

// Check handles GET /health
func (c *HealthController) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dbHealth := c.db.Health(ctx)
	components := map[string]any{
		"database": dbHealth,
	}

	status := dbHealth.Status

	if err := c.cache.Health(ctx); err != nil {
		components["cache"] = map[string]any{"status": "unhealthy", "error": err.Error()}
		if status == "healthy" {
			status = "degraded"
		}
	} else {
		components["cache"] = map[string]any{"status": "healthy"}
	}

	if err := c.bus.Health(); err != nil {
		components["event_bus"] = map[string]any{"status": "unhealthy", "error": err.Error()}
		if status == "healthy" {
			status = "degraded"
		}
	} else {
		components["event_bus"] = map[string]any{"status": "healthy"}
	}

	httpStatus := http.StatusOK
	if status == "unhealthy" {
		httpStatus = http.StatusServiceUnavailable
	}

	c.responseBuilder.WriteSuccess(ctx, w, httpStatus, map[string]any{
		"status":     status,
		"components": components,
	})
}
