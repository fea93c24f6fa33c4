// ===============================
// FILE: internal/handlers/api/v1/achievements/achievements_controller.go
// ===============================

package achievements

import (
	"net/http"

	"go.uber.org/zap"

	"inkwell/internal/contextutils"
	"inkwell/internal/response"
	"inkwell/internal/services"
)

// AchievementController handles the achievement and progression API
// endpoints.
type AchievementController struct {
	services        *services.Collection
	responseBuilder *response.Builder
	logger          *zap.Logger
}

// NewAchievementController creates a new achievement API controller
func NewAchievementController(
	serviceCollection *services.Collection,
	logger *zap.Logger,
	responseBuilder *response.Builder,
) *AchievementController {
	return &AchievementController{
		services:        serviceCollection,
		responseBuilder: responseBuilder,
		logger:          logger,
	}
}

// List handles GET /api/v1/achievements
func (c *AchievementController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := contextutils.GetUserID(ctx)

	statuses, err := c.services.Achievements.ListForUser(ctx, userID)
	if err != nil {
		c.responseBuilder.WriteError(ctx, w, err)
		return
	}

	unlocked := 0
	for _, s := range statuses {
		if s.Unlocked {
			unlocked++
		}
	}

	c.responseBuilder.WriteSuccess(ctx, w, http.StatusOK, map[string]any{
		"achievements": statuses,
		"unlocked":     unlocked,
		"total":        len(statuses),
	})
}

// Progression handles GET /api/v1/achievements/progression
func (c *AchievementController) Progression(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := contextutils.GetUserID(ctx)

	progression, err := c.services.Achievements.GetProgression(ctx, userID)
	if err != nil {
		c.responseBuilder.WriteError(ctx, w, err)
		return
	}

	c.responseBuilder.WriteSuccess(ctx, w, http.StatusOK, progression)
}

// Evaluate handles POST /api/v1/achievements/evaluate. It runs an unlock
// pass for the caller on demand, useful after backfills or for clients that
// want an immediate re-check.
func (c *AchievementController) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := contextutils.GetUserID(ctx)

	result, err := c.services.Achievements.RunUnlockPass(ctx, userID)
	if err != nil {
		c.responseBuilder.WriteError(ctx, w, err)
		return
	}

	c.responseBuilder.WriteSuccess(ctx, w, http.StatusOK, result)
}
