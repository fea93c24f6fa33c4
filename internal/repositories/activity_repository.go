// file: internal/repositories/activity_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"inkwell/internal/database"
	"inkwell/internal/models"

	"go.uber.org/zap"
)

// activityRepository implements ActivityRepository over the relational store.
type activityRepository struct {
	*BaseRepository
}

// NewActivityRepository creates a new instance of ActivityRepository
func NewActivityRepository(db *database.Manager, logger *zap.Logger) ActivityRepository {
	return &activityRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// GetSnapshot computes all counters for one user inside a single REPEATABLE
// READ transaction. A failed read aborts the whole snapshot; callers never
// evaluate criteria against partial data.
func (r *activityRepository) GetSnapshot(ctx context.Context, userID int64) (*models.ActivitySnapshot, error) {
	snap := &models.ActivitySnapshot{
		UserID:  userID,
		TakenAt: time.Now().UTC(),
	}

	err := r.WithReadSnapshot(ctx, func(tx *sql.Tx) error {
		var createdAt time.Time
		err := tx.QueryRowContext(ctx,
			`SELECT created_at FROM users WHERE id = $1`, userID,
		).Scan(&createdAt)
		if err != nil {
			return fmt.Errorf("failed to load account age: %w", err)
		}
		snap.AccountCreatedAt = createdAt.UTC()
		snap.AccountAgeDays = int(snap.TakenAt.Sub(snap.AccountCreatedAt).Hours() / 24)

		// Post-side counters in one aggregate pass.
		err = tx.QueryRowContext(ctx, `
			SELECT
				COUNT(*) FILTER (WHERE status = 'published'),
				COALESCE(SUM(likes_count) FILTER (WHERE status = 'published'), 0),
				COALESCE(MAX(likes_count) FILTER (WHERE status = 'published'), 0),
				COALESCE(MAX(views_count) FILTER (WHERE status = 'published'), 0),
				COUNT(*) FILTER (WHERE status = 'published' AND is_featured),
				COUNT(*) FILTER (
					WHERE status = 'published'
					AND EXTRACT(DOW FROM published_at AT TIME ZONE 'UTC') IN (0, 6)
				)
			FROM posts
			WHERE user_id = $1`, userID,
		).Scan(
			&snap.PostCount,
			&snap.LikesReceived,
			&snap.MaxPostLikes,
			&snap.MaxPostViews,
			&snap.FeaturedPosts,
			&snap.WeekendPosts,
		)
		if err != nil {
			return fmt.Errorf("failed to aggregate post counters: %w", err)
		}

		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM comments WHERE user_id = $1`, userID,
		).Scan(&snap.CommentCount)
		if err != nil {
			return fmt.Errorf("failed to count comments: %w", err)
		}

		err = tx.QueryRowContext(ctx, `
			SELECT COUNT(*)
			FROM bookmarks b
			INNER JOIN posts p ON b.post_id = p.id
			WHERE p.user_id = $1`, userID,
		).Scan(&snap.BookmarksReceived)
		if err != nil {
			return fmt.Errorf("failed to count bookmarks received: %w", err)
		}

		err = tx.QueryRowContext(ctx, `
			SELECT COUNT(*)
			FROM comment_likes cl
			INNER JOIN comments c ON cl.comment_id = c.id
			WHERE c.user_id = $1`, userID,
		).Scan(&snap.CommentLikesReceived)
		if err != nil {
			return fmt.Errorf("failed to count comment likes received: %w", err)
		}

		hours, err := r.loadPostHours(ctx, tx, userID)
		if err != nil {
			return err
		}
		snap.PostHoursUTC = hours

		days, err := r.loadActivityDays(ctx, tx, userID)
		if err != nil {
			return err
		}
		snap.StreakDays = consecutiveDayStreak(days, snap.TakenAt)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return snap, nil
}

// loadPostHours returns the distinct UTC hours-of-day at which the user has
// published posts.
func (r *activityRepository) loadPostHours(ctx context.Context, tx *sql.Tx, userID int64) ([]int, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT DISTINCT EXTRACT(HOUR FROM published_at AT TIME ZONE 'UTC')::int
		FROM posts
		WHERE user_id = $1 AND status = 'published' AND published_at IS NOT NULL
		ORDER BY 1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load post hours: %w", err)
	}
	defer rows.Close()

	var hours []int
	for rows.Next() {
		var h int
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("failed to scan post hour: %w", err)
		}
		hours = append(hours, h)
	}
	return hours, rows.Err()
}

// loadActivityDays returns the distinct UTC days on which the user posted or
// commented, newest first.
func (r *activityRepository) loadActivityDays(ctx context.Context, tx *sql.Tx, userID int64) ([]time.Time, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT DISTINCT activity_day FROM (
			SELECT date_trunc('day', published_at AT TIME ZONE 'UTC') AS activity_day
			FROM posts
			WHERE user_id = $1 AND status = 'published' AND published_at IS NOT NULL
			UNION
			SELECT date_trunc('day', created_at AT TIME ZONE 'UTC') AS activity_day
			FROM comments
			WHERE user_id = $1
		) days
		ORDER BY activity_day DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity days: %w", err)
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan activity day: %w", err)
		}
		days = append(days, d.UTC())
	}
	return days, rows.Err()
}

// consecutiveDayStreak counts the run of consecutive active days ending
// today or yesterday. Days must be distinct, truncated to UTC midnight, and
// sorted newest first.
func consecutiveDayStreak(days []time.Time, now time.Time) int {
	if len(days) == 0 {
		return 0
	}

	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	today := now.UTC().Truncate(24 * time.Hour)
	head := days[0]

	// A streak survives until a full day is missed.
	if today.Sub(head) > 24*time.Hour {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if days[i-1].Sub(days[i]) != 24*time.Hour {
			break
		}
		streak++
	}
	return streak
}

// GetMonthlyAuthorRanks ranks every author by posts published in the month
// containing now. Callers cache the result for the trigger path; this query
// is a batch computation, not a per-check lookup.
func (r *activityRepository) GetMonthlyAuthorRanks(ctx context.Context, now time.Time) (map[int64]int, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	rows, err := r.QueryContext(ctx, `
		SELECT user_id, RANK() OVER (ORDER BY COUNT(*) DESC) AS rank
		FROM posts
		WHERE status = 'published'
			AND published_at >= $1 AND published_at < $2
		GROUP BY user_id`, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to compute monthly author ranks: %w", err)
	}
	defer rows.Close()

	ranks := make(map[int64]int)
	for rows.Next() {
		var userID int64
		var rank int
		if err := rows.Scan(&userID, &rank); err != nil {
			return nil, fmt.Errorf("failed to scan author rank: %w", err)
		}
		ranks[userID] = rank
	}
	return ranks, rows.Err()
}
