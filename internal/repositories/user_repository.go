// file: internal/repositories/user_repository.go
package repositories

import (
	"context"
	"fmt"

	"inkwell/internal/database"
	"inkwell/internal/models"

	"go.uber.org/zap"
)

// userRepository implements the identity reads the engine needs. User
// creation and authentication belong to the surrounding platform.
type userRepository struct {
	*BaseRepository
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *database.Manager, logger *zap.Logger) UserRepository {
	return &userRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// GetByID returns the user or nil when absent.
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := r.QueryRowContext(ctx, `
		SELECT id, email, username, display_name, avatar_url, role, is_active, xp,
			created_at, updated_at
		FROM users
		WHERE id = $1`, id,
	).Scan(
		&u.ID, &u.Email, &u.Username, &u.DisplayName, &u.AvatarURL,
		&u.Role, &u.IsActive, &u.XP, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return &u, nil
}

// GetSummary returns the denormalized actor shape or nil when absent.
func (r *userRepository) GetSummary(ctx context.Context, id int64) (*models.UserSummary, error) {
	var s models.UserSummary
	err := r.QueryRowContext(ctx,
		`SELECT id, username, display_name, avatar_url FROM users WHERE id = $1`, id,
	).Scan(&s.ID, &s.Username, &s.DisplayName, &s.AvatarURL)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user summary: %w", err)
	}
	return &s, nil
}
