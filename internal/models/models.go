// file: internal/models/models.go
package models

import (
	"time"
)

// ===============================
// CORE ENTITIES
// ===============================

// User represents a platform member. Authentication and profile editing are
// owned by the surrounding platform; the engine only reads identity and XP.
type User struct {
	ID       int64  `json:"id" db:"id"`
	Email    string `json:"email" db:"email" validate:"required,email,max=320"`
	Username string `json:"username" db:"username" validate:"required,min=3,max=50,alphanum"`

	DisplayName string  `json:"display_name" db:"display_name"`
	AvatarURL   *string `json:"avatar_url,omitempty" db:"avatar_url"`
	Role        string  `json:"role" db:"role" validate:"required,oneof=reader author editor admin"`
	IsActive    bool    `json:"is_active" db:"is_active"`

	// XP is the cumulative experience total. It is incremented only by
	// confirmed achievement unlocks and never decremented. Level is derived
	// from XP at read time, never stored.
	XP int64 `json:"xp" db:"xp"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UserSummary is the denormalized actor shape embedded in notifications.
type UserSummary struct {
	ID          int64   `json:"id" db:"id"`
	Username    string  `json:"username" db:"username"`
	DisplayName string  `json:"display_name" db:"display_name"`
	AvatarURL   *string `json:"avatar_url,omitempty" db:"avatar_url"`
}

// Post carries the fields the engine reads for counters and notification
// context. Full post CRUD lives outside the engine.
type Post struct {
	ID         int64      `json:"id" db:"id"`
	UserID     int64      `json:"user_id" db:"user_id"`
	Title      string     `json:"title" db:"title"`
	Status     string     `json:"status" db:"status" validate:"oneof=draft published archived rejected"`
	IsFeatured bool       `json:"is_featured" db:"is_featured"`
	ViewsCount int        `json:"views_count" db:"views_count"`
	LikesCount int        `json:"likes_count" db:"likes_count"`

	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	PublishedAt *time.Time `json:"published_at,omitempty" db:"published_at"`
}

// Comment carries the fields the engine reads for counters and notification
// context.
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	PostID    int64     `json:"post_id" db:"post_id"`
	ParentID  *int64    `json:"parent_id,omitempty" db:"parent_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ===============================
// ACTIVITY SNAPSHOT
// ===============================

// ActivitySnapshot is the point-in-time view of one user's countable
// activity. All counters are computed inside a single read transaction so a
// criteria pass never mixes pre-write and post-write state.
type ActivitySnapshot struct {
	UserID int64 `json:"user_id"`

	PostCount            int `json:"post_count"`
	CommentCount         int `json:"comment_count"`
	LikesReceived        int `json:"likes_received"`
	MaxPostLikes         int `json:"max_post_likes"`
	MaxPostViews         int `json:"max_post_views"`
	BookmarksReceived    int `json:"bookmarks_received"`
	CommentLikesReceived int `json:"comment_likes_received"`
	StreakDays           int `json:"streak_days"`
	WeekendPosts         int `json:"weekend_posts"`
	FeaturedPosts        int `json:"featured_posts"`

	AccountCreatedAt time.Time `json:"account_created_at"`
	AccountAgeDays   int       `json:"account_age_days"`

	// Distinct UTC hours-of-day at which the user has published posts.
	// Time-of-day criteria are evaluated against UTC hours.
	PostHoursUTC []int `json:"post_hours_utc"`

	// Monthly rank by published posts across all users, from the cached
	// ranking snapshot. Zero means unranked.
	TopAuthorRank int `json:"top_author_rank"`

	TakenAt time.Time `json:"taken_at"`
}

// HasPostHour reports whether the user has ever published during the given
// UTC hour of day.
func (s *ActivitySnapshot) HasPostHour(hour int) bool {
	for _, h := range s.PostHoursUTC {
		if h == hour {
			return true
		}
	}
	return false
}
