// ===============================
// FILE: internal/handlers/api/v1/notifications/notifications_controller.go
// ===============================

package notifications

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"inkwell/internal/contextutils"
	"inkwell/internal/response"
	"inkwell/internal/services"
)

// NotificationController handles the notification inbox API endpoints.
type NotificationController struct {
	services        *services.Collection
	responseBuilder *response.Builder
	logger          *zap.Logger
}

// NewNotificationController creates a new notification API controller
func NewNotificationController(
	serviceCollection *services.Collection,
	logger *zap.Logger,
	responseBuilder *response.Builder,
) *NotificationController {
	return &NotificationController{
		services:        serviceCollection,
		responseBuilder: responseBuilder,
		logger:          logger,
	}
}

// List handles GET /api/v1/notifications
func (c *NotificationController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := contextutils.GetUserID(ctx)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.responseBuilder.WriteError(ctx, w,
				services.NewValidationError("limit must be an integer", nil))
			return
		}
		limit = parsed
	}

	notifications, err := c.services.Notifications.List(ctx, userID, limit)
	if err != nil {
		c.responseBuilder.WriteError(ctx, w, err)
		return
	}

	c.responseBuilder.WriteSuccess(ctx, w, http.StatusOK, map[string]any{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

// UnreadCount handles GET /api/v1/notifications/unread-count
func (c *NotificationController) UnreadCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := contextutils.GetUserID(ctx)

	count, err := c.services.Notifications.CountUnread(ctx, userID)
	if err != nil {
		c.responseBuilder.WriteError(ctx, w, err)
		return
	}

	c.responseBuilder.WriteSuccess(ctx, w, http.StatusOK, map[string]any{
		"unread_count": count,
	})
}

// markReadRequest is the body for POST /api/v1/notifications/read.
type markReadRequest struct {
	IDs []int64 `json:"ids"`
}

// MarkRead handles POST /api/v1/notifications/read
func (c *NotificationController) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := contextutils.GetUserID(ctx)

	var req markReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.WriteError(ctx, w,
			services.NewValidationError("invalid request body", nil))
		return
	}
	if len(req.IDs) == 0 {
		c.responseBuilder.WriteError(ctx, w,
			services.NewValidationError("ids is required", nil))
		return
	}

	if err := c.services.Notifications.MarkRead(ctx, userID, req.IDs); err != nil {
		c.responseBuilder.WriteError(ctx, w, err)
		return
	}

	c.responseBuilder.WriteSuccess(ctx, w, http.StatusOK, map[string]any{
		"marked_read": len(req.IDs),
	})
}

// MarkAllRead handles POST /api/v1/notifications/read-all
func (c *NotificationController) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := contextutils.GetUserID(ctx)

	affected, err := c.services.Notifications.MarkAllRead(ctx, userID)
	if err != nil {
		c.responseBuilder.WriteError(ctx, w, err)
		return
	}

	c.responseBuilder.WriteSuccess(ctx, w, http.StatusOK, map[string]any{
		"marked_read": affected,
	})
}

// GetPreferences handles GET /api/v1/notifications/preferences
func (c *NotificationController) GetPreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := contextutils.GetUserID(ctx)

	prefs, err := c.services.Notifications.GetPreferences(ctx, userID)
	if err != nil {
		c.responseBuilder.WriteError(ctx, w, err)
		return
	}

	c.responseBuilder.WriteSuccess(ctx, w, http.StatusOK, prefs)
}

// UpdatePreferences handles PUT /api/v1/notifications/preferences
func (c *NotificationController) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := contextutils.GetUserID(ctx)

	var req services.UpdatePreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.WriteError(ctx, w,
			services.NewValidationError("invalid request body", nil))
		return
	}

	prefs, err := c.services.Notifications.UpdatePreferences(ctx, userID, &req)
	if err != nil {
		c.responseBuilder.WriteError(ctx, w, err)
		return
	}

	c.responseBuilder.WriteSuccess(ctx, w, http.StatusOK, prefs)
}
