// file: internal/services/catalog.go
package services

import (
	"fmt"
	"time"

	"inkwell/internal/models"
)

// ===============================
// ACHIEVEMENT CATALOG
// ===============================

// Catalog is the process-wide, read-only achievement table keyed by
// achievement key. It is built once at startup and never mutated in place;
// re-seeding storage is a separate administrative operation (cmd/seed).
type Catalog struct {
	byKey   map[string]models.AchievementDefinition
	ordered []models.AchievementDefinition
}

// NewCatalog builds a catalog from definitions, rejecting duplicate keys.
func NewCatalog(defs []models.AchievementDefinition) (*Catalog, error) {
	byKey := make(map[string]models.AchievementDefinition, len(defs))
	ordered := make([]models.AchievementDefinition, 0, len(defs))

	for _, def := range defs {
		if def.Key == "" {
			return nil, fmt.Errorf("achievement definition with empty key")
		}
		if _, exists := byKey[def.Key]; exists {
			return nil, fmt.Errorf("duplicate achievement key %q", def.Key)
		}
		byKey[def.Key] = def
		ordered = append(ordered, def)
	}

	return &Catalog{byKey: byKey, ordered: ordered}, nil
}

// Get returns the definition for key.
func (c *Catalog) Get(key string) (models.AchievementDefinition, bool) {
	def, ok := c.byKey[key]
	return def, ok
}

// All returns every definition in seed order.
func (c *Catalog) All() []models.AchievementDefinition {
	out := make([]models.AchievementDefinition, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Locked returns the definitions whose keys are absent from unlockedKeys.
func (c *Catalog) Locked(unlockedKeys []string) []models.AchievementDefinition {
	unlocked := make(map[string]struct{}, len(unlockedKeys))
	for _, k := range unlockedKeys {
		unlocked[k] = struct{}{}
	}

	var locked []models.AchievementDefinition
	for _, def := range c.ordered {
		if _, ok := unlocked[def.Key]; !ok {
			locked = append(locked, def)
		}
	}
	return locked
}

// Len returns the catalog size.
func (c *Catalog) Len() int {
	return len(c.ordered)
}

// DefaultCatalog returns the shipped achievement definitions. Keys are
// stable identifiers and must never be reused or renamed once shipped;
// metadata edits are fine and flow through seeding upserts.
func DefaultCatalog() *Catalog {
	catalog, err := NewCatalog(defaultDefinitions())
	if err != nil {
		// Definitions are compile-time data; a bad set is a programming error.
		panic(err)
	}
	return catalog
}

func defaultDefinitions() []models.AchievementDefinition {
	return []models.AchievementDefinition{
		// Content
		{
			Key: "first_post", Name: "First Post", Description: "Publish your first post.",
			Category: models.CategoryContent, Rarity: models.RarityCommon, Icon: "pencil", Points: 50,
			Criteria: models.Criteria{Type: models.CriteriaPostCount, Count: 1},
		},
		{
			Key: "10_posts", Name: "Prolific", Description: "Publish 10 posts.",
			Category: models.CategoryContent, Rarity: models.RarityUncommon, Icon: "stack", Points: 150,
			Criteria: models.Criteria{Type: models.CriteriaPostCount, Count: 10},
		},
		{
			Key: "50_posts", Name: "Wordsmith", Description: "Publish 50 posts.",
			Category: models.CategoryContent, Rarity: models.RarityRare, Icon: "library", Points: 400,
			Criteria: models.Criteria{Type: models.CriteriaPostCount, Count: 50},
		},
		{
			Key: "first_comment", Name: "Joining In", Description: "Write your first comment.",
			Category: models.CategoryContent, Rarity: models.RarityCommon, Icon: "chat", Points: 25,
			Criteria: models.Criteria{Type: models.CriteriaCommentCount, Count: 1},
		},
		{
			Key: "100_comments", Name: "Conversationalist", Description: "Write 100 comments.",
			Category: models.CategoryContent, Rarity: models.RarityRare, Icon: "chats", Points: 300,
			Criteria: models.Criteria{Type: models.CriteriaCommentCount, Count: 100},
		},
		{
			Key: "weekend_writer", Name: "Weekend Writer", Description: "Publish 5 posts on weekends.",
			Category: models.CategoryContent, Rarity: models.RarityUncommon, Icon: "calendar", Points: 100,
			Criteria: models.Criteria{Type: models.CriteriaWeekendPosts, Count: 5},
		},
		{
			Key: "night_owl", Name: "Night Owl", Description: "Publish a post in the dead of night.",
			Category: models.CategorySpecial, Rarity: models.RarityUncommon, Icon: "moon", Points: 75,
			Criteria: models.Criteria{Type: models.CriteriaTimeOfDay, Hours: []int{0, 1, 2, 3, 4}},
		},
		{
			Key: "early_bird", Name: "Early Bird", Description: "Publish a post before breakfast.",
			Category: models.CategorySpecial, Rarity: models.RarityUncommon, Icon: "sunrise", Points: 75,
			Criteria: models.Criteria{Type: models.CriteriaTimeOfDay, Hours: []int{5, 6, 7}},
		},

		// Engagement
		{
			Key: "first_like", Name: "Appreciated", Description: "Receive your first like.",
			Category: models.CategoryEngagement, Rarity: models.RarityCommon, Icon: "heart", Points: 25,
			Criteria: models.Criteria{Type: models.CriteriaLikeReceived, Count: 1},
		},
		{
			Key: "100_likes", Name: "Crowd Favorite", Description: "Receive 100 likes across your posts.",
			Category: models.CategoryEngagement, Rarity: models.RarityRare, Icon: "hearts", Points: 300,
			Criteria: models.Criteria{Type: models.CriteriaLikeReceived, Count: 100},
		},
		{
			Key: "viral_post", Name: "Gone Viral", Description: "Get 50 likes on a single post.",
			Category: models.CategoryEngagement, Rarity: models.RarityEpic, Icon: "flame", Points: 500,
			Criteria: models.Criteria{Type: models.CriteriaSinglePostLikes, Count: 50},
		},
		{
			Key: "1000_views", Name: "Widely Read", Description: "Get 1,000 views on a single post.",
			Category: models.CategoryEngagement, Rarity: models.RarityRare, Icon: "eye", Points: 250,
			Criteria: models.Criteria{Type: models.CriteriaSinglePostViews, Count: 1000},
		},
		{
			Key: "bookmarked_10", Name: "Worth Keeping", Description: "Have your posts bookmarked 10 times.",
			Category: models.CategoryEngagement, Rarity: models.RarityUncommon, Icon: "bookmark", Points: 150,
			Criteria: models.Criteria{Type: models.CriteriaBookmarkCount, Count: 10},
		},
		{
			Key: "liked_comments_25", Name: "Quotable", Description: "Receive 25 likes on your comments.",
			Category: models.CategoryEngagement, Rarity: models.RarityUncommon, Icon: "quote", Points: 125,
			Criteria: models.Criteria{Type: models.CriteriaCommentLikesReceived, Count: 25},
		},

		// Milestones
		{
			Key: "streak_7", Name: "One Week Streak", Description: "Be active 7 days in a row.",
			Category: models.CategoryMilestone, Rarity: models.RarityUncommon, Icon: "streak", Points: 150,
			Criteria: models.Criteria{Type: models.CriteriaStreak, Count: 7},
		},
		{
			Key: "streak_30", Name: "One Month Streak", Description: "Be active 30 days in a row.",
			Category: models.CategoryMilestone, Rarity: models.RarityEpic, Icon: "fire", Points: 600,
			Criteria: models.Criteria{Type: models.CriteriaStreak, Count: 30},
		},
		{
			Key: "member_365", Name: "Anniversary", Description: "Be a member for a full year.",
			Category: models.CategoryMilestone, Rarity: models.RarityRare, Icon: "cake", Points: 250,
			Criteria: models.Criteria{Type: models.CriteriaMemberDays, Count: 365},
		},
		{
			Key: "featured_author", Name: "Featured Author", Description: "Have a post featured by the editors.",
			Category: models.CategoryMilestone, Rarity: models.RarityEpic, Icon: "star", Points: 400,
			Criteria: models.Criteria{Type: models.CriteriaFeaturedPost, Count: 1},
		},

		// Special
		{
			Key: "early_adopter", Name: "Early Adopter", Description: "Joined during the launch window.",
			Category: models.CategorySpecial, Rarity: models.RarityLegendary, Icon: "rocket", Points: 500,
			Criteria: models.Criteria{
				Type:   models.CriteriaEarlyAdopter,
				Before: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			Key: "top_author", Name: "Top Author", Description: "Rank among the top 3 authors of the month.",
			Category: models.CategorySpecial, Rarity: models.RarityLegendary, Icon: "trophy", Points: 750,
			Criteria: models.Criteria{Type: models.CriteriaTopAuthorRank, Rank: 3},
		},
	}
}
