// file: internal/services/criteria.go
package services

import (
	"time"

	"inkwell/internal/models"
)

// ===============================
// CRITERIA EVALUATOR
// ===============================

// EvaluateCriteria reports whether one unlock condition is satisfied by the
// given activity snapshot. Pure: no storage access, no side effects.
//
// All threshold variants use >= so a count of 1 unlocks on the first
// qualifying event. Unrecognized or malformed criteria evaluate to false so
// a bad catalog entry can never block the rest of the pass. Time-of-day
// hours are UTC.
func EvaluateCriteria(c models.Criteria, snap *models.ActivitySnapshot, now time.Time) bool {
	if snap == nil {
		return false
	}

	switch c.Type {
	case models.CriteriaPostCount:
		return snap.PostCount >= c.Count
	case models.CriteriaCommentCount:
		return snap.CommentCount >= c.Count
	case models.CriteriaLikeReceived:
		return snap.LikesReceived >= c.Count
	case models.CriteriaSinglePostLikes:
		return snap.MaxPostLikes >= c.Count
	case models.CriteriaSinglePostViews:
		return snap.MaxPostViews >= c.Count
	case models.CriteriaBookmarkCount:
		return snap.BookmarksReceived >= c.Count
	case models.CriteriaStreak:
		return snap.StreakDays >= c.Count
	case models.CriteriaWeekendPosts:
		return snap.WeekendPosts >= c.Count
	case models.CriteriaCommentLikesReceived:
		return snap.CommentLikesReceived >= c.Count
	case models.CriteriaMemberDays:
		return snap.AccountAgeDays >= c.Count
	case models.CriteriaFeaturedPost:
		return snap.FeaturedPosts >= c.Count

	case models.CriteriaTimeOfDay:
		// Evaluated against all historical post hours, so this can unlock
		// retroactively, not only on the triggering event.
		for _, h := range c.Hours {
			if snap.HasPostHour(h) {
				return true
			}
		}
		return false

	case models.CriteriaEarlyAdopter:
		if c.Before.IsZero() {
			return false
		}
		// Depends only on immutable account-creation time, so the result
		// never flips after the cutoff passes.
		return snap.AccountCreatedAt.Before(c.Before)

	case models.CriteriaTopAuthorRank:
		if c.Rank <= 0 {
			return false
		}
		return snap.TopAuthorRank > 0 && snap.TopAuthorRank <= c.Rank

	default:
		// Forward compatibility: a future tag this build does not know is
		// simply not satisfied.
		return false
	}
}
