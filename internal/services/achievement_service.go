// file: internal/services/achievement_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/events"
	"inkwell/internal/models"
	"inkwell/internal/repositories"

	"go.uber.org/zap"
)

// defaultRankingTTL bounds how stale the monthly author ranking may be. The
// ranking is a cross-user aggregate and far too expensive to recompute per
// pass.
const defaultRankingTTL = 10 * time.Minute

// achievementService implements AchievementService.
type achievementService struct {
	catalog       *Catalog
	achievements  repositories.AchievementRepository
	activity      repositories.ActivityRepository
	users         repositories.UserRepository
	notifications NotificationService
	bus           events.EventBus
	cache         cache.Cache
	rankingTTL    time.Duration
	logger        *zap.Logger
}

// AchievementServiceConfig holds achievement service dependencies
type AchievementServiceConfig struct {
	Catalog       *Catalog
	Achievements  repositories.AchievementRepository
	Activity      repositories.ActivityRepository
	Users         repositories.UserRepository
	Notifications NotificationService
	Cache         cache.Cache
	Logger        *zap.Logger

	// Bus, when set, receives an achievement.unlocked event per committed
	// unlock so other subsystems can react without touching this service.
	Bus events.EventBus

	// RankingTTL overrides the default author ranking cache lifetime.
	RankingTTL time.Duration
}

// NewAchievementService creates a new achievement service
func NewAchievementService(cfg *AchievementServiceConfig) AchievementService {
	rankingTTL := cfg.RankingTTL
	if rankingTTL <= 0 {
		rankingTTL = defaultRankingTTL
	}

	return &achievementService{
		catalog:       cfg.Catalog,
		achievements:  cfg.Achievements,
		activity:      cfg.Activity,
		users:         cfg.Users,
		notifications: cfg.Notifications,
		bus:           cfg.Bus,
		cache:         cfg.Cache,
		rankingTTL:    rankingTTL,
		logger:        cfg.Logger,
	}
}

// RunUnlockPass evaluates every still-locked achievement for the user against
// a single activity snapshot. Each qualifying unlock is recorded atomically
// with its XP credit; the pass then sends one notification per new unlock.
// A snapshot failure aborts the pass before any unlock is attempted. Because
// unlock inserts are conditioned on absence, concurrent or repeated passes
// converge on the same unlock set.
func (s *achievementService) RunUnlockPass(ctx context.Context, userID int64) (*UnlockPassResult, error) {
	if userID <= 0 {
		return nil, NewValidationError("user ID is required", nil)
	}

	unlockedKeys, err := s.achievements.GetUnlockedKeys(ctx, userID)
	if err != nil {
		return nil, NewStorageError("failed to load unlocked achievements", err)
	}

	now := time.Now().UTC()
	result := &UnlockPassResult{UserID: userID, TakenAt: now}

	locked := s.catalog.Locked(unlockedKeys)
	result.Evaluated = len(locked)
	if len(locked) == 0 {
		s.fillProgression(ctx, result)
		return result, nil
	}

	snapshot, err := s.activity.GetSnapshot(ctx, userID)
	if err != nil {
		return nil, NewStorageError("failed to take activity snapshot", err)
	}
	s.attachAuthorRank(ctx, userID, locked, snapshot, now)

	for _, def := range locked {
		if !EvaluateCriteria(def.Criteria, snapshot, now) {
			continue
		}

		inserted, err := s.achievements.InsertUnlock(ctx, userID, def.Key, def.Points, now)
		if err != nil {
			// Unlocks recorded so far stand; the next pass picks up the rest.
			return nil, NewStorageError(
				fmt.Sprintf("failed to record unlock %q", def.Key), err)
		}
		if !inserted {
			// Lost a race with a concurrent pass. The other pass credited
			// the XP and owns the announcement.
			continue
		}

		result.Unlocked = append(result.Unlocked, def)
		result.XPAwarded += int64(def.Points)
	}

	s.fillProgression(ctx, result)

	for _, def := range result.Unlocked {
		s.announceUnlock(ctx, userID, def)
		s.publishUnlock(ctx, userID, def)
	}

	if len(result.Unlocked) > 0 {
		s.logger.Info("Unlock pass completed",
			zap.Int64("user_id", userID),
			zap.Int("unlocked", len(result.Unlocked)),
			zap.Int64("xp_awarded", result.XPAwarded),
			zap.Int("level", result.Level),
		)
	}
	return result, nil
}

// attachAuthorRank injects the user's monthly rank into the snapshot, but
// only when a locked definition actually needs it. The ranking is served
// from cache and recomputed at most once per TTL window.
func (s *achievementService) attachAuthorRank(ctx context.Context, userID int64, locked []models.AchievementDefinition, snapshot *models.ActivitySnapshot, now time.Time) {
	needed := false
	for _, def := range locked {
		if def.Criteria.Type == models.CriteriaTopAuthorRank {
			needed = true
			break
		}
	}
	if !needed || snapshot == nil {
		return
	}

	ranks, err := s.monthlyAuthorRanks(ctx, now)
	if err != nil {
		// Rank-gated achievements simply stay locked this pass.
		s.logger.Warn("Failed to load monthly author ranking",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return
	}
	snapshot.TopAuthorRank = ranks[userID]
}

func (s *achievementService) monthlyAuthorRanks(ctx context.Context, now time.Time) (map[int64]int, error) {
	cacheKey := fmt.Sprintf("achievements:author_ranks:%s", now.Format("2006-01"))
	if cached, found := s.cache.Get(ctx, cacheKey); found {
		if ranks, ok := cached.(map[int64]int); ok {
			return ranks, nil
		}
	}

	ranks, err := s.activity.GetMonthlyAuthorRanks(ctx, now)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, ranks, s.rankingTTL); err != nil {
		s.logger.Warn("Failed to cache author ranking", zap.Error(err))
	}
	return ranks, nil
}

// announceUnlock dispatches the achievement notification. The unlock is
// already committed, so a dispatch failure is logged and dropped rather than
// unwinding anything.
func (s *achievementService) announceUnlock(ctx context.Context, userID int64, def models.AchievementDefinition) {
	actionURL := "/achievements"
	_, err := s.notifications.Dispatch(ctx, &DispatchNotificationRequest{
		RecipientID: userID,
		Type:        models.NotificationAchievement,
		Title:       "Achievement unlocked!",
		Message:     fmt.Sprintf("You earned %q: %s (+%d XP)", def.Name, def.Description, def.Points),
		ActionURL:   &actionURL,
		Metadata: map[string]any{
			"achievement_key": def.Key,
			"rarity":          string(def.Rarity),
			"points":          def.Points,
		},
	})
	if err != nil {
		s.logger.Error("Failed to announce unlock",
			zap.Int64("user_id", userID),
			zap.String("achievement_key", def.Key),
			zap.Error(err),
		)
	}
}

// publishUnlock emits the achievement.unlocked event for subscribers outside
// the engine. Like the announcement, the unlock is already committed, so a
// full queue is logged and dropped.
func (s *achievementService) publishUnlock(ctx context.Context, userID int64, def models.AchievementDefinition) {
	if s.bus == nil {
		return
	}

	event := events.NewAchievementUnlockedEvent(userID, def.Key, def.Points)
	if err := s.bus.PublishAsync(ctx, event); err != nil {
		s.logger.Warn("Failed to publish unlock event",
			zap.Int64("user_id", userID),
			zap.String("achievement_key", def.Key),
			zap.Error(err),
		)
	}
}

// fillProgression loads the post-pass XP total. The pass itself already
// succeeded, so a failure here degrades the report instead of failing it.
func (s *achievementService) fillProgression(ctx context.Context, result *UnlockPassResult) {
	xp, err := s.achievements.GetUserXP(ctx, result.UserID)
	if err != nil {
		s.logger.Warn("Failed to load xp after unlock pass",
			zap.Int64("user_id", result.UserID),
			zap.Error(err),
		)
		return
	}
	result.TotalXP = xp
	result.Level = LevelFromXP(xp)
}

// ListForUser returns the catalog in seed order, annotated with the user's
// unlock state.
func (s *achievementService) ListForUser(ctx context.Context, userID int64) ([]*AchievementStatus, error) {
	if userID <= 0 {
		return nil, NewValidationError("user ID is required", nil)
	}

	unlocks, err := s.achievements.ListUnlocks(ctx, userID)
	if err != nil {
		return nil, NewStorageError("failed to list unlocks", err)
	}

	unlockedAt := make(map[string]time.Time, len(unlocks))
	for _, ua := range unlocks {
		unlockedAt[ua.AchievementKey] = ua.UnlockedAt
	}

	statuses := make([]*AchievementStatus, 0, s.catalog.Len())
	for _, def := range s.catalog.All() {
		status := &AchievementStatus{AchievementDefinition: def}
		if at, ok := unlockedAt[def.Key]; ok {
			status.Unlocked = true
			t := at
			status.UnlockedAt = &t
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// GetProgression returns the user's XP and derived level report. Level is
// always derived from XP, never stored.
func (s *achievementService) GetProgression(ctx context.Context, userID int64) (*ProgressionResponse, error) {
	if userID <= 0 {
		return nil, NewValidationError("user ID is required", nil)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, NewStorageError("failed to load user", err)
	}
	if user == nil {
		return nil, NewNotFoundError("user not found")
	}

	xp, err := s.achievements.GetUserXP(ctx, userID)
	if err != nil {
		return nil, NewStorageError("failed to load user xp", err)
	}

	keys, err := s.achievements.GetUnlockedKeys(ctx, userID)
	if err != nil {
		return nil, NewStorageError("failed to load unlocked achievements", err)
	}

	return &ProgressionResponse{
		UserID:       userID,
		XP:           xp,
		Progress:     Progress(xp),
		UnlockedHave: len(keys),
		CatalogTotal: s.catalog.Len(),
	}, nil
}
