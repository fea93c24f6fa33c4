// file: internal/models/achievement.go
package models

import (
	"time"
)

// ===============================
// ACHIEVEMENT CATALOG
// ===============================

// AchievementCategory groups achievements for presentation.
type AchievementCategory string

const (
	CategoryContent    AchievementCategory = "CONTENT"
	CategoryEngagement AchievementCategory = "ENGAGEMENT"
	CategoryMilestone  AchievementCategory = "MILESTONE"
	CategorySpecial    AchievementCategory = "SPECIAL"
)

// AchievementRarity is a presentational weight only; it never participates in
// criteria evaluation.
type AchievementRarity string

const (
	RarityCommon    AchievementRarity = "COMMON"
	RarityUncommon  AchievementRarity = "UNCOMMON"
	RarityRare      AchievementRarity = "RARE"
	RarityEpic      AchievementRarity = "EPIC"
	RarityLegendary AchievementRarity = "LEGENDARY"
)

// CriteriaType tags the unlock condition variant.
type CriteriaType string

const (
	CriteriaPostCount            CriteriaType = "post_count"
	CriteriaCommentCount         CriteriaType = "comment_count"
	CriteriaLikeReceived         CriteriaType = "like_received"
	CriteriaSinglePostLikes      CriteriaType = "single_post_likes"
	CriteriaSinglePostViews      CriteriaType = "single_post_views"
	CriteriaBookmarkCount        CriteriaType = "bookmark_count"
	CriteriaStreak               CriteriaType = "streak"
	CriteriaTimeOfDay            CriteriaType = "time_of_day"
	CriteriaWeekendPosts         CriteriaType = "weekend_posts"
	CriteriaFeaturedPost         CriteriaType = "featured_post"
	CriteriaEarlyAdopter         CriteriaType = "early_adopter"
	CriteriaMemberDays           CriteriaType = "member_days"
	CriteriaCommentLikesReceived CriteriaType = "comment_likes_received"
	CriteriaTopAuthorRank        CriteriaType = "top_author_rank"
)

// Criteria is the tagged unlock condition attached to an achievement
// definition. Only the fields relevant to the tagged type are set; the
// evaluator switches exhaustively on Type and treats unrecognized tags as
// not satisfied.
type Criteria struct {
	Type CriteriaType `json:"type"`

	// Threshold variants (post_count, comment_count, like_received, ...).
	Count int `json:"count,omitempty"`

	// time_of_day: qualifying UTC hours of day.
	Hours []int `json:"hours,omitempty"`

	// early_adopter: account must have been created before this instant.
	Before time.Time `json:"before,omitempty"`

	// top_author_rank: monthly rank must be <= Rank.
	Rank int `json:"rank,omitempty"`
}

// AchievementDefinition is one entry of the static catalog. Definitions are
// seeded by key; a key is never reused or changed once shipped.
type AchievementDefinition struct {
	Key         string              `json:"key" db:"key" validate:"required,max=64"`
	Name        string              `json:"name" db:"name" validate:"required,max=100"`
	Description string              `json:"description" db:"description"`
	Category    AchievementCategory `json:"category" db:"category" validate:"required,oneof=CONTENT ENGAGEMENT MILESTONE SPECIAL"`
	Rarity      AchievementRarity   `json:"rarity" db:"rarity" validate:"required,oneof=COMMON UNCOMMON RARE EPIC LEGENDARY"`
	Icon        string              `json:"icon" db:"icon"`

	// Points is the XP reward, credited exactly once per user on unlock.
	Points int `json:"points" db:"points" validate:"min=0"`

	Criteria Criteria `json:"criteria" db:"criteria"`
}

// ===============================
// UNLOCKS
// ===============================

// UserAchievement records one unlock. At most one row exists per
// (user, achievement key); the pair is enforced by a storage uniqueness
// constraint and the row is never mutated or deleted in normal operation.
type UserAchievement struct {
	UserID         int64     `json:"user_id" db:"user_id"`
	AchievementKey string    `json:"achievement_key" db:"achievement_key"`
	UnlockedAt     time.Time `json:"unlocked_at" db:"unlocked_at"`

	// Joined catalog fields for display.
	Name        string              `json:"name,omitempty" db:"-"`
	Description string              `json:"description,omitempty" db:"-"`
	Category    AchievementCategory `json:"category,omitempty" db:"-"`
	Rarity      AchievementRarity   `json:"rarity,omitempty" db:"-"`
	Icon        string              `json:"icon,omitempty" db:"-"`
	Points      int                 `json:"points,omitempty" db:"-"`
}

// LevelProgress describes where a user sits inside the XP curve.
type LevelProgress struct {
	CurrentLevel            int   `json:"current_level"`
	NextLevel               int   `json:"next_level"`
	XPIntoCurrentLevel      int64 `json:"xp_into_current_level"`
	XPNeededForCurrentLevel int64 `json:"xp_needed_for_current_level"`
	Percent                 int   `json:"percent"`
}
