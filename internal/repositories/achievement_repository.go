// file: internal/repositories/achievement_repository.go
package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// uniqueViolation is the Postgres error code raised when the
// (user_id, achievement_key) uniqueness constraint rejects an insert.
const uniqueViolation = "23505"

// achievementRepository implements AchievementRepository with
// insert-if-absent unlock semantics.
type achievementRepository struct {
	*BaseRepository
}

// NewAchievementRepository creates a new instance of AchievementRepository
func NewAchievementRepository(db *database.Manager, logger *zap.Logger) AchievementRepository {
	return &achievementRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// GetUnlockedKeys returns the achievement keys the user has unlocked.
func (r *achievementRepository) GetUnlockedKeys(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.QueryContext(ctx,
		`SELECT achievement_key FROM user_achievements WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load unlocked keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan unlocked key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// InsertUnlock records one unlock and its XP credit atomically. The insert
// is conditioned on absence, so concurrent passes for the same user resolve
// to exactly one unlock row and exactly one credit: the loser of the race
// observes zero inserted rows and skips the XP update entirely.
func (r *achievementRepository) InsertUnlock(ctx context.Context, userID int64, key string, points int, unlockedAt time.Time) (bool, error) {
	inserted := false

	err := r.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO user_achievements (user_id, achievement_key, unlocked_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, achievement_key) DO NOTHING`,
			userID, key, unlockedAt)
		if err != nil {
			// ON CONFLICT covers the constraint, but keep the class check
			// for drivers surfacing the violation anyway.
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
				return nil
			}
			return fmt.Errorf("failed to insert unlock: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read unlock insert result: %w", err)
		}
		if rowsAffected == 0 {
			return nil
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET xp = xp + $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1`,
			userID, points); err != nil {
			return fmt.Errorf("failed to credit xp: %w", err)
		}

		inserted = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if inserted {
		r.GetLogger().Info("Achievement unlocked",
			zap.Int64("user_id", userID),
			zap.String("achievement_key", key),
			zap.Int("points", points),
		)
	}

	return inserted, nil
}

// ListUnlocks returns the user's unlocks joined with catalog metadata, most
// recent first.
func (r *achievementRepository) ListUnlocks(ctx context.Context, userID int64) ([]*models.UserAchievement, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT
			ua.user_id, ua.achievement_key, ua.unlocked_at,
			a.name, a.description, a.category, a.rarity, a.icon, a.points
		FROM user_achievements ua
		INNER JOIN achievements a ON ua.achievement_key = a.key
		WHERE ua.user_id = $1
		ORDER BY ua.unlocked_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unlocks: %w", err)
	}
	defer rows.Close()

	var unlocks []*models.UserAchievement
	for rows.Next() {
		var ua models.UserAchievement
		if err := rows.Scan(
			&ua.UserID, &ua.AchievementKey, &ua.UnlockedAt,
			&ua.Name, &ua.Description, &ua.Category, &ua.Rarity, &ua.Icon, &ua.Points,
		); err != nil {
			return nil, fmt.Errorf("failed to scan unlock: %w", err)
		}
		unlocks = append(unlocks, &ua)
	}
	return unlocks, rows.Err()
}

// GetUserXP returns the user's XP total.
func (r *achievementRepository) GetUserXP(ctx context.Context, userID int64) (int64, error) {
	var xp int64
	err := r.QueryRowContext(ctx,
		`SELECT xp FROM users WHERE id = $1`, userID,
	).Scan(&xp)
	if err != nil {
		if r.IsNotFound(err) {
			return 0, fmt.Errorf("user %d not found", userID)
		}
		return 0, fmt.Errorf("failed to load user xp: %w", err)
	}
	return xp, nil
}

// UpsertDefinition writes one catalog entry by key. Re-seeding updates
// metadata in place; unlock history references the key and is untouched.
func (r *achievementRepository) UpsertDefinition(ctx context.Context, def *models.AchievementDefinition) error {
	criteria, err := json.Marshal(def.Criteria)
	if err != nil {
		return fmt.Errorf("failed to encode criteria for %q: %w", def.Key, err)
	}

	_, err = r.ExecContext(ctx, `
		INSERT INTO achievements (key, name, description, category, rarity, icon, points, criteria)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (key) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			rarity = EXCLUDED.rarity,
			icon = EXCLUDED.icon,
			points = EXCLUDED.points,
			criteria = EXCLUDED.criteria,
			updated_at = CURRENT_TIMESTAMP`,
		def.Key, def.Name, def.Description, def.Category, def.Rarity, def.Icon, def.Points, criteria)
	if err != nil {
		return fmt.Errorf("failed to upsert achievement %q: %w", def.Key, err)
	}

	return nil
}
