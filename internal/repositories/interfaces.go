// file: internal/repositories/interfaces.go
package repositories

import (
	"context"
	"time"

	"inkwell/internal/models"
)

// ===============================
// REPOSITORY INTERFACES
// ===============================

// ActivityRepository produces point-in-time activity snapshots and the
// cross-user monthly author ranking.
type ActivityRepository interface {
	// GetSnapshot computes every counter for one user inside a single read
	// transaction so the criteria pass never sees mixed state.
	GetSnapshot(ctx context.Context, userID int64) (*models.ActivitySnapshot, error)

	// GetMonthlyAuthorRanks returns userID -> rank (1-based) by published
	// posts for the month containing now. Consumers cache the result; it is
	// not meant to be recomputed per achievement check.
	GetMonthlyAuthorRanks(ctx context.Context, now time.Time) (map[int64]int, error)
}

// AchievementRepository owns unlock rows, XP credits, and catalog seeding.
type AchievementRepository interface {
	// GetUnlockedKeys returns the achievement keys the user has unlocked.
	GetUnlockedKeys(ctx context.Context, userID int64) ([]string, error)

	// InsertUnlock inserts the (user, key) unlock row if absent and credits
	// points to the user's XP in the same transaction. Returns false with a
	// nil error when the unlock already existed; in that case no XP is
	// credited.
	InsertUnlock(ctx context.Context, userID int64, key string, points int, unlockedAt time.Time) (bool, error)

	// ListUnlocks returns the user's unlocks, most recent first.
	ListUnlocks(ctx context.Context, userID int64) ([]*models.UserAchievement, error)

	// GetUserXP returns the user's XP total.
	GetUserXP(ctx context.Context, userID int64) (int64, error)

	// UpsertDefinition writes a catalog entry by key, updating metadata
	// without disturbing existing unlock history. Used by cmd/seed only.
	UpsertDefinition(ctx context.Context, def *models.AchievementDefinition) error
}

// NotificationRepository owns notification rows.
type NotificationRepository interface {
	// Create inserts one notification row and fills in ID, Read, and
	// CreatedAt.
	Create(ctx context.Context, n *models.Notification) error

	// ListByRecipient returns the user's notifications, most recent first.
	ListByRecipient(ctx context.Context, userID int64, limit int) ([]*models.Notification, error)

	// CountUnread returns the user's unread notification count.
	CountUnread(ctx context.Context, userID int64) (int64, error)

	// MarkRead flips the given notifications to read for the user. Already
	// read rows are unaffected; there is no read-to-unread transition.
	MarkRead(ctx context.Context, userID int64, ids []int64) error

	// MarkAllRead flips every unread notification for the user to read.
	MarkAllRead(ctx context.Context, userID int64) (int64, error)

	// GetPreferences returns the user's saved preferences, or nil when the
	// user never saved any.
	GetPreferences(ctx context.Context, userID int64) (*models.NotificationPreferences, error)

	// SavePreferences inserts or replaces the user's preference row.
	SavePreferences(ctx context.Context, prefs *models.NotificationPreferences) error
}

// UserRepository provides the identity reads the engine needs.
type UserRepository interface {
	// GetByID returns the user or nil when absent.
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetSummary returns the denormalized actor shape or nil when absent.
	GetSummary(ctx context.Context, id int64) (*models.UserSummary, error)
}

// Collection bundles every repository for service wiring.
type Collection struct {
	Activity     ActivityRepository
	Achievement  AchievementRepository
	Notification NotificationRepository
	User         UserRepository
}
