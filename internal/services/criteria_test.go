// file: internal/services/criteria_test.go
package services

import (
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateCriteriaThresholds(t *testing.T) {
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

	snap := &models.ActivitySnapshot{
		UserID:               1,
		PostCount:            10,
		CommentCount:         3,
		LikesReceived:        42,
		MaxPostLikes:         20,
		MaxPostViews:         999,
		BookmarksReceived:    5,
		CommentLikesReceived: 25,
		StreakDays:           7,
		WeekendPosts:         2,
		FeaturedPosts:        0,
		AccountAgeDays:       400,
	}

	tests := []struct {
		name     string
		criteria models.Criteria
		want     bool
	}{
		{"post count met exactly", models.Criteria{Type: models.CriteriaPostCount, Count: 10}, true},
		{"post count below", models.Criteria{Type: models.CriteriaPostCount, Count: 11}, false},
		{"post count exceeded", models.Criteria{Type: models.CriteriaPostCount, Count: 1}, true},
		{"comment count", models.Criteria{Type: models.CriteriaCommentCount, Count: 3}, true},
		{"likes received", models.Criteria{Type: models.CriteriaLikeReceived, Count: 43}, false},
		{"single post likes", models.Criteria{Type: models.CriteriaSinglePostLikes, Count: 20}, true},
		{"single post views one short", models.Criteria{Type: models.CriteriaSinglePostViews, Count: 1000}, false},
		{"bookmarks", models.Criteria{Type: models.CriteriaBookmarkCount, Count: 5}, true},
		{"comment likes boundary", models.Criteria{Type: models.CriteriaCommentLikesReceived, Count: 25}, true},
		{"streak met", models.Criteria{Type: models.CriteriaStreak, Count: 7}, true},
		{"streak not met", models.Criteria{Type: models.CriteriaStreak, Count: 30}, false},
		{"weekend posts", models.Criteria{Type: models.CriteriaWeekendPosts, Count: 5}, false},
		{"member days", models.Criteria{Type: models.CriteriaMemberDays, Count: 365}, true},
		{"featured post none", models.Criteria{Type: models.CriteriaFeaturedPost, Count: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateCriteria(tt.criteria, snap, now))
		})
	}
}

func TestEvaluateCriteriaTimeOfDay(t *testing.T) {
	now := time.Now().UTC()
	snap := &models.ActivitySnapshot{PostHoursUTC: []int{2, 14, 22}}

	// Any historical hour qualifies, so the unlock can happen retroactively.
	assert.True(t, EvaluateCriteria(models.Criteria{
		Type: models.CriteriaTimeOfDay, Hours: []int{0, 1, 2, 3, 4},
	}, snap, now))

	assert.False(t, EvaluateCriteria(models.Criteria{
		Type: models.CriteriaTimeOfDay, Hours: []int{5, 6, 7},
	}, snap, now))

	// No qualifying hours configured means never satisfied.
	assert.False(t, EvaluateCriteria(models.Criteria{
		Type: models.CriteriaTimeOfDay,
	}, snap, now))
}

func TestEvaluateCriteriaEarlyAdopter(t *testing.T) {
	now := time.Now().UTC()
	cutoff := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	before := &models.ActivitySnapshot{AccountCreatedAt: cutoff.Add(-time.Hour)}
	after := &models.ActivitySnapshot{AccountCreatedAt: cutoff.Add(time.Hour)}
	exact := &models.ActivitySnapshot{AccountCreatedAt: cutoff}

	c := models.Criteria{Type: models.CriteriaEarlyAdopter, Before: cutoff}
	assert.True(t, EvaluateCriteria(c, before, now))
	assert.False(t, EvaluateCriteria(c, after, now))
	assert.False(t, EvaluateCriteria(c, exact, now), "cutoff itself is exclusive")

	// A zero cutoff is a malformed definition, never satisfied.
	assert.False(t, EvaluateCriteria(models.Criteria{Type: models.CriteriaEarlyAdopter}, before, now))
}

func TestEvaluateCriteriaTopAuthorRank(t *testing.T) {
	now := time.Now().UTC()

	c := models.Criteria{Type: models.CriteriaTopAuthorRank, Rank: 3}
	assert.True(t, EvaluateCriteria(c, &models.ActivitySnapshot{TopAuthorRank: 1}, now))
	assert.True(t, EvaluateCriteria(c, &models.ActivitySnapshot{TopAuthorRank: 3}, now))
	assert.False(t, EvaluateCriteria(c, &models.ActivitySnapshot{TopAuthorRank: 4}, now))

	// Zero means unranked, not rank zero.
	assert.False(t, EvaluateCriteria(c, &models.ActivitySnapshot{TopAuthorRank: 0}, now))

	// A non-positive rank bound is malformed.
	assert.False(t, EvaluateCriteria(models.Criteria{Type: models.CriteriaTopAuthorRank}, &models.ActivitySnapshot{TopAuthorRank: 1}, now))
}

func TestEvaluateCriteriaDefensiveCases(t *testing.T) {
	now := time.Now().UTC()

	// Nil snapshot never satisfies anything.
	assert.False(t, EvaluateCriteria(models.Criteria{Type: models.CriteriaPostCount, Count: 0}, nil, now))

	// An unrecognized tag is simply not satisfied.
	snap := &models.ActivitySnapshot{PostCount: 100}
	assert.False(t, EvaluateCriteria(models.Criteria{Type: "some_future_criteria", Count: 1}, snap, now))
}
