// file: internal/repositories/notification_repository.go
package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// notificationRepository implements NotificationRepository.
type notificationRepository struct {
	*BaseRepository
}

// NewNotificationRepository creates a new instance of NotificationRepository
func NewNotificationRepository(db *database.Manager, logger *zap.Logger) NotificationRepository {
	return &notificationRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// Create inserts one notification row and fills in ID, Read, and CreatedAt.
// Rows are write-once: content never changes after creation, only the read
// flag. No dedup happens here: repeated identical events produce repeated
// rows by design of the caller.
func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	var metadata []byte
	if n.Metadata != nil {
		var err error
		metadata, err = json.Marshal(n.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode notification metadata: %w", err)
		}
	}

	query := `
		INSERT INTO notifications (
			recipient_id, type, title, message,
			actor_id, post_id, comment_id, action_url, metadata
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, read, created_at`

	err := r.QueryRowContext(ctx, query,
		n.RecipientID, n.Type, n.Title, n.Message,
		n.ActorID, n.PostID, n.CommentID, n.ActionURL, metadata,
	).Scan(&n.ID, &n.Read, &n.CreatedAt)
	if err != nil {
		r.GetLogger().Error("Failed to create notification",
			zap.Error(err),
			zap.Int64("recipient_id", n.RecipientID),
			zap.String("type", string(n.Type)),
		)
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// ListByRecipient returns the user's notifications, most recent first.
func (r *notificationRepository) ListByRecipient(ctx context.Context, userID int64, limit int) ([]*models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := r.QueryContext(ctx, `
		SELECT
			n.id, n.recipient_id, n.type, n.title, n.message,
			n.actor_id, n.post_id, n.comment_id, n.action_url, n.metadata,
			n.read, n.created_at,
			u.id, u.username, u.display_name, u.avatar_url
		FROM notifications n
		LEFT JOIN users u ON n.actor_id = u.id
		WHERE n.recipient_id = $1
		ORDER BY n.created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func scanNotification(rows *sql.Rows) (*models.Notification, error) {
	var n models.Notification
	var metadata []byte
	var actorID sql.NullInt64
	var actorUsername, actorDisplayName sql.NullString
	var actorAvatarURL sql.NullString

	err := rows.Scan(
		&n.ID, &n.RecipientID, &n.Type, &n.Title, &n.Message,
		&n.ActorID, &n.PostID, &n.CommentID, &n.ActionURL, &metadata,
		&n.Read, &n.CreatedAt,
		&actorID, &actorUsername, &actorDisplayName, &actorAvatarURL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan notification: %w", err)
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &n.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode notification metadata: %w", err)
		}
	}

	if actorID.Valid {
		summary := &models.UserSummary{
			ID:          actorID.Int64,
			Username:    actorUsername.String,
			DisplayName: actorDisplayName.String,
		}
		if actorAvatarURL.Valid {
			summary.AvatarURL = &actorAvatarURL.String
		}
		n.Actor = summary
	}

	return &n, nil
}

// CountUnread returns the user's unread notification count.
func (r *notificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND read = FALSE`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flips the given notifications to read. The unread-to-read
// transition is one-way; rows already read are left alone.
func (r *notificationRepository) MarkRead(ctx context.Context, userID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := r.ExecContext(ctx, `
		UPDATE notifications
		SET read = TRUE
		WHERE recipient_id = $1 AND read = FALSE AND id = ANY($2)`,
		userID, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// GetPreferences returns the user's saved preferences, or nil when the user
// never saved any. Callers fall back to the everything-on defaults.
func (r *notificationRepository) GetPreferences(ctx context.Context, userID int64) (*models.NotificationPreferences, error) {
	var p models.NotificationPreferences
	err := r.QueryRowContext(ctx, `
		SELECT id, user_id, comments_on_my_posts, replies_to_comments,
			likes_on_my_content, bookmarks, achievements, editorial,
			created_at, updated_at
		FROM notification_preferences
		WHERE user_id = $1`, userID,
	).Scan(
		&p.ID, &p.UserID, &p.CommentsOnMyPosts, &p.RepliesToComments,
		&p.LikesOnMyContent, &p.Bookmarks, &p.Achievements, &p.Editorial,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load notification preferences: %w", err)
	}
	return &p, nil
}

// SavePreferences inserts or replaces the user's preference row.
func (r *notificationRepository) SavePreferences(ctx context.Context, prefs *models.NotificationPreferences) error {
	err := r.QueryRowContext(ctx, `
		INSERT INTO notification_preferences (
			user_id, comments_on_my_posts, replies_to_comments,
			likes_on_my_content, bookmarks, achievements, editorial
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			comments_on_my_posts = EXCLUDED.comments_on_my_posts,
			replies_to_comments = EXCLUDED.replies_to_comments,
			likes_on_my_content = EXCLUDED.likes_on_my_content,
			bookmarks = EXCLUDED.bookmarks,
			achievements = EXCLUDED.achievements,
			editorial = EXCLUDED.editorial,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id, created_at, updated_at`,
		prefs.UserID, prefs.CommentsOnMyPosts, prefs.RepliesToComments,
		prefs.LikesOnMyContent, prefs.Bookmarks, prefs.Achievements, prefs.Editorial,
	).Scan(&prefs.ID, &prefs.CreatedAt, &prefs.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save notification preferences: %w", err)
	}
	return nil
}

// MarkAllRead flips every unread notification for the user to read.
func (r *notificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	result, err := r.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE recipient_id = $1 AND read = FALSE`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications read: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read mark-all result: %w", err)
	}
	return affected, nil
}
