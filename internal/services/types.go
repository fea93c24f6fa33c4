// file: internal/services/types.go
package services

import (
	"time"

	"inkwell/internal/models"
)

// ===============================
// NOTIFICATION TYPES
// ===============================

// DispatchNotificationRequest describes one notification to create.
type DispatchNotificationRequest struct {
	RecipientID int64                   `json:"recipient_id" validate:"required,gt=0"`
	Type        models.NotificationType `json:"type" validate:"required"`
	Title       string                  `json:"title" validate:"required,max=150"`
	Message     string                  `json:"message" validate:"required,max=2000"`

	// ActorID is nil for system notifications. When it equals RecipientID
	// the dispatch is a defined no-op, never an error.
	ActorID   *int64         `json:"actor_id,omitempty" validate:"omitempty,gt=0"`
	PostID    *int64         `json:"post_id,omitempty" validate:"omitempty,gt=0"`
	CommentID *int64         `json:"comment_id,omitempty" validate:"omitempty,gt=0"`
	ActionURL *string        `json:"action_url,omitempty" validate:"omitempty,max=500"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// UpdatePreferencesRequest is the full replacement set of notification
// switches. Fields default to false when omitted, so clients send the
// complete set.
type UpdatePreferencesRequest struct {
	CommentsOnMyPosts bool `json:"comments_on_my_posts"`
	RepliesToComments bool `json:"replies_to_comments"`
	LikesOnMyContent  bool `json:"likes_on_my_content"`
	Bookmarks         bool `json:"bookmarks"`
	Achievements      bool `json:"achievements"`
	Editorial         bool `json:"editorial"`
}

// ===============================
// ACHIEVEMENT TYPES
// ===============================

// UnlockPassResult reports the outcome of one unlock coordinator pass.
type UnlockPassResult struct {
	UserID    int64                          `json:"user_id"`
	Unlocked  []models.AchievementDefinition `json:"unlocked"`
	XPAwarded int64                          `json:"xp_awarded"`
	TotalXP   int64                          `json:"total_xp"`
	Level     int                            `json:"level"`
	Evaluated int                            `json:"evaluated"`
	TakenAt   time.Time                      `json:"taken_at"`
}

// AchievementStatus pairs a catalog entry with the user's unlock state.
type AchievementStatus struct {
	models.AchievementDefinition
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

// ProgressionResponse is the UI-facing XP/level report.
type ProgressionResponse struct {
	UserID       int64                `json:"user_id"`
	XP           int64                `json:"xp"`
	Progress     models.LevelProgress `json:"progress"`
	UnlockedHave int                  `json:"unlocked_count"`
	CatalogTotal int                  `json:"catalog_total"`
}

// ===============================
// NOTIFIER CONTEXT TYPES
// ===============================

// CommentContext carries what the comment notifiers need to address and
// describe the event.
type CommentContext struct {
	PostID    int64
	CommentID int64
	PostTitle string
	Preview   string
}

// ModerationContext describes an editorial decision on a post.
type ModerationContext struct {
	PostID        int64
	PostTitle     string
	Approved      bool
	ModeratorName string
	Reason        string
}
