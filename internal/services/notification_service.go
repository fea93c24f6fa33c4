// file: internal/services/notification_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/repositories"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	unreadCountTTL  = 30 * time.Second
	preferencesTTL  = 5 * time.Minute
	defaultPageSize = 20
)

// notificationService implements NotificationService.
type notificationService struct {
	repo      repositories.NotificationRepository
	users     repositories.UserRepository
	cache     cache.Cache
	validator *validator.Validate
	pageSize  int
	logger    *zap.Logger
}

// NotificationServiceConfig holds notification service dependencies
type NotificationServiceConfig struct {
	Repo   repositories.NotificationRepository
	Users  repositories.UserRepository
	Cache  cache.Cache
	Logger *zap.Logger

	// PageSize overrides the default list page size.
	PageSize int
}

// NewNotificationService creates a new notification service
func NewNotificationService(cfg *NotificationServiceConfig) NotificationService {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	return &notificationService{
		repo:      cfg.Repo,
		users:     cfg.Users,
		cache:     cfg.Cache,
		validator: validator.New(),
		pageSize:  pageSize,
		logger:    cfg.Logger,
	}
}

// Dispatch validates and persists one notification. A request whose actor is
// its own recipient is silently skipped: users never get notified about their
// own actions. Identical repeated requests each produce a row; deduplication
// is not this layer's job.
func (s *notificationService) Dispatch(ctx context.Context, req *DispatchNotificationRequest) (*models.Notification, error) {
	if req == nil {
		return nil, NewValidationError("dispatch request is required", nil)
	}

	if req.ActorID != nil && *req.ActorID == req.RecipientID {
		s.logger.Debug("Skipping self-notification",
			zap.Int64("user_id", req.RecipientID),
			zap.String("type", string(req.Type)),
		)
		return nil, nil
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, NewValidationErrorWithDetails("invalid notification request", map[string]any{
			"validation_error": err.Error(),
		})
	}
	if !req.Type.Valid() {
		return nil, NewValidationError(
			fmt.Sprintf("unknown notification type: %s", req.Type), nil)
	}

	if prefs := s.loadPreferences(ctx, req.RecipientID); !prefs.Allows(req.Type) {
		s.logger.Debug("Notification suppressed by recipient preferences",
			zap.Int64("recipient_id", req.RecipientID),
			zap.String("type", string(req.Type)),
		)
		return nil, nil
	}

	n := &models.Notification{
		RecipientID: req.RecipientID,
		Type:        req.Type,
		Title:       req.Title,
		Message:     req.Message,
		ActorID:     req.ActorID,
		PostID:      req.PostID,
		CommentID:   req.CommentID,
		ActionURL:   req.ActionURL,
		Metadata:    req.Metadata,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, NewStorageError("failed to create notification", err)
	}
	s.attachActorSummary(ctx, n)

	s.invalidateUnreadCount(ctx, req.RecipientID)

	s.logger.Info("Notification dispatched",
		zap.Int64("notification_id", n.ID),
		zap.Int64("recipient_id", n.RecipientID),
		zap.String("type", string(n.Type)),
	)
	return n, nil
}

// List returns the user's notifications, most recent first. A non-positive
// limit falls back to the configured page size.
func (s *notificationService) List(ctx context.Context, userID int64, limit int) ([]*models.Notification, error) {
	if userID <= 0 {
		return nil, NewValidationError("user ID is required", nil)
	}
	if limit <= 0 {
		limit = s.pageSize
	}

	notifications, err := s.repo.ListByRecipient(ctx, userID, limit)
	if err != nil {
		return nil, NewStorageError("failed to list notifications", err)
	}
	return notifications, nil
}

// CountUnread returns the user's unread count, served from cache when fresh.
func (s *notificationService) CountUnread(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, NewValidationError("user ID is required", nil)
	}

	cacheKey := s.unreadCountKey(userID)
	if cached, found := s.cache.Get(ctx, cacheKey); found {
		switch v := cached.(type) {
		case int64:
			return v, nil
		case float64:
			return int64(v), nil
		}
	}

	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, NewStorageError("failed to count unread notifications", err)
	}

	if err := s.cache.Set(ctx, cacheKey, count, unreadCountTTL); err != nil {
		s.logger.Warn("Failed to cache unread count", zap.Error(err))
	}
	return count, nil
}

// MarkRead marks the given notifications read. The transition is one-way
// and scoped to the user; IDs belonging to someone else are ignored.
func (s *notificationService) MarkRead(ctx context.Context, userID int64, ids []int64) error {
	if userID <= 0 {
		return NewValidationError("user ID is required", nil)
	}
	if len(ids) == 0 {
		return nil
	}

	if err := s.repo.MarkRead(ctx, userID, ids); err != nil {
		return NewStorageError("failed to mark notifications read", err)
	}

	s.invalidateUnreadCount(ctx, userID)
	return nil
}

// MarkAllRead marks every unread notification read.
func (s *notificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, NewValidationError("user ID is required", nil)
	}

	affected, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, NewStorageError("failed to mark all notifications read", err)
	}

	s.invalidateUnreadCount(ctx, userID)

	if affected > 0 {
		s.logger.Info("Marked all notifications read",
			zap.Int64("user_id", userID),
			zap.Int64("affected", affected),
		)
	}
	return affected, nil
}

// GetPreferences returns the user's preferences, falling back to the
// everything-on defaults when none were saved.
func (s *notificationService) GetPreferences(ctx context.Context, userID int64) (*models.NotificationPreferences, error) {
	if userID <= 0 {
		return nil, NewValidationError("user ID is required", nil)
	}

	prefs, err := s.repo.GetPreferences(ctx, userID)
	if err != nil {
		return nil, NewStorageError("failed to load notification preferences", err)
	}
	if prefs == nil {
		return models.DefaultNotificationPreferences(userID), nil
	}
	return prefs, nil
}

// UpdatePreferences replaces the user's preference set.
func (s *notificationService) UpdatePreferences(ctx context.Context, userID int64, req *UpdatePreferencesRequest) (*models.NotificationPreferences, error) {
	if userID <= 0 {
		return nil, NewValidationError("user ID is required", nil)
	}
	if req == nil {
		return nil, NewValidationError("preferences are required", nil)
	}

	prefs := &models.NotificationPreferences{
		UserID:            userID,
		CommentsOnMyPosts: req.CommentsOnMyPosts,
		RepliesToComments: req.RepliesToComments,
		LikesOnMyContent:  req.LikesOnMyContent,
		Bookmarks:         req.Bookmarks,
		Achievements:      req.Achievements,
		Editorial:         req.Editorial,
	}
	if err := s.repo.SavePreferences(ctx, prefs); err != nil {
		return nil, NewStorageError("failed to save notification preferences", err)
	}

	if err := s.cache.Delete(ctx, s.preferencesKey(userID)); err != nil {
		s.logger.Warn("Failed to invalidate preferences cache",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	s.logger.Info("Notification preferences updated", zap.Int64("user_id", userID))
	return prefs, nil
}

// attachActorSummary fills in the denormalized actor shape on a freshly
// created notification. The row exists either way; a failed lookup only
// degrades display and is logged.
func (s *notificationService) attachActorSummary(ctx context.Context, n *models.Notification) {
	if n.ActorID == nil || s.users == nil {
		return
	}

	actor, err := s.users.GetSummary(ctx, *n.ActorID)
	if err != nil {
		s.logger.Warn("Failed to load actor summary",
			zap.Int64("actor_id", *n.ActorID),
			zap.Error(err),
		)
		return
	}
	n.Actor = actor
}

// loadPreferences fetches preferences for the dispatch gate. Failures only
// log: a broken preferences read must not block notification delivery, and a
// nil result means everything is allowed.
func (s *notificationService) loadPreferences(ctx context.Context, userID int64) *models.NotificationPreferences {
	cacheKey := s.preferencesKey(userID)
	if cached, found := s.cache.Get(ctx, cacheKey); found {
		if prefs, ok := cached.(*models.NotificationPreferences); ok {
			return prefs
		}
	}

	prefs, err := s.repo.GetPreferences(ctx, userID)
	if err != nil {
		s.logger.Warn("Failed to load notification preferences",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return nil
	}
	if prefs == nil {
		return nil
	}

	if err := s.cache.Set(ctx, cacheKey, prefs, preferencesTTL); err != nil {
		s.logger.Warn("Failed to cache notification preferences", zap.Error(err))
	}
	return prefs
}

func (s *notificationService) preferencesKey(userID int64) string {
	return fmt.Sprintf("notifications:prefs:%d", userID)
}

func (s *notificationService) unreadCountKey(userID int64) string {
	return fmt.Sprintf("notifications:unread:%d", userID)
}

func (s *notificationService) invalidateUnreadCount(ctx context.Context, userID int64) {
	if err := s.cache.Delete(ctx, s.unreadCountKey(userID)); err != nil {
		s.logger.Warn("Failed to invalidate unread count cache",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}
}
