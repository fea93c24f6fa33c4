// file: internal/services/interface.go
package services

import (
	"context"

	"inkwell/internal/models"
)

// ===============================
// SERVICE INTERFACES
// ===============================

// AchievementService coordinates criteria evaluation, unlock recording, and
// XP progression for one user at a time.
type AchievementService interface {
	// RunUnlockPass evaluates every still-locked catalog entry against one
	// activity snapshot and records the unlocks that now qualify. Safe to
	// call after every qualifying action; repeated calls are idempotent.
	RunUnlockPass(ctx context.Context, userID int64) (*UnlockPassResult, error)

	// ListForUser returns the full catalog annotated with the user's unlock
	// state, catalog order preserved.
	ListForUser(ctx context.Context, userID int64) ([]*AchievementStatus, error)

	// GetProgression returns the user's XP total and derived level report.
	GetProgression(ctx context.Context, userID int64) (*ProgressionResponse, error)
}

// NotificationService creates and serves per-user notifications.
type NotificationService interface {
	// Dispatch validates and persists one notification. Dispatching to the
	// actor themselves returns (nil, nil) and writes nothing.
	Dispatch(ctx context.Context, req *DispatchNotificationRequest) (*models.Notification, error)

	// List returns the user's notifications, most recent first.
	List(ctx context.Context, userID int64, limit int) ([]*models.Notification, error)

	// CountUnread returns the user's unread notification count.
	CountUnread(ctx context.Context, userID int64) (int64, error)

	// MarkRead marks the given notifications read for the user.
	MarkRead(ctx context.Context, userID int64, ids []int64) error

	// MarkAllRead marks every unread notification read and returns how many
	// rows changed.
	MarkAllRead(ctx context.Context, userID int64) (int64, error)

	// GetPreferences returns the user's preferences, defaults included.
	GetPreferences(ctx context.Context, userID int64) (*models.NotificationPreferences, error)

	// UpdatePreferences replaces the user's preference set.
	UpdatePreferences(ctx context.Context, userID int64, req *UpdatePreferencesRequest) (*models.NotificationPreferences, error)
}

// ActivityNotifier is the platform-facing surface that turns domain events
// into notifications and unlock passes. Every method is best-effort: a
// failed notification is logged and dropped, never surfaced to the caller,
// because the triggering action has already committed.
type ActivityNotifier interface {
	OnPostPublished(ctx context.Context, authorID, postID int64, postTitle string)
	OnLikeReceived(ctx context.Context, ownerID, actorID, postID int64, postTitle string)
	OnBookmarkReceived(ctx context.Context, ownerID, actorID, postID int64, postTitle string)
	OnCommentCreated(ctx context.Context, postAuthorID, actorID int64, comment CommentContext)
	OnCommentReplied(ctx context.Context, parentAuthorID, actorID int64, comment CommentContext)
	OnPostFeatured(ctx context.Context, authorID, postID int64, postTitle string)
	OnPostModerated(ctx context.Context, authorID int64, decision ModerationContext)
}
