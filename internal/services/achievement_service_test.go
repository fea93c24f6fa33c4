// file: internal/services/achievement_service_test.go
package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/events"
	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type achievementFixture struct {
	service   AchievementService
	achRepo   *fakeAchievementRepo
	actRepo   *fakeActivityRepo
	notifRepo *fakeNotificationRepo
}

func newAchievementFixture(t *testing.T, catalog *Catalog, actRepo *fakeActivityRepo) *achievementFixture {
	t.Helper()

	achRepo := newFakeAchievementRepo()
	notifRepo := newFakeNotificationRepo()
	memCache := cache.NewMemoryCache(cache.DefaultConfig(), zap.NewNop())
	t.Cleanup(func() { memCache.Close() })

	notifications := NewNotificationService(&NotificationServiceConfig{
		Repo:   notifRepo,
		Users:  newFakeUserRepo(7, 8, 9),
		Cache:  memCache,
		Logger: zap.NewNop(),
	})

	service := NewAchievementService(&AchievementServiceConfig{
		Catalog:       catalog,
		Achievements:  achRepo,
		Activity:      actRepo,
		Users:         newFakeUserRepo(7, 8, 9),
		Notifications: notifications,
		Cache:         memCache,
		Logger:        zap.NewNop(),
	})

	return &achievementFixture{
		service:   service,
		achRepo:   achRepo,
		actRepo:   actRepo,
		notifRepo: notifRepo,
	}
}

func countingCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := NewCatalog([]models.AchievementDefinition{
		{
			Key: "first_post", Name: "First Post", Points: 50,
			Rarity:   models.RarityCommon,
			Criteria: models.Criteria{Type: models.CriteriaPostCount, Count: 1},
		},
		{
			Key: "10_posts", Name: "Prolific", Points: 150,
			Rarity:   models.RarityUncommon,
			Criteria: models.Criteria{Type: models.CriteriaPostCount, Count: 10},
		},
		{
			Key: "first_like", Name: "Appreciated", Points: 25,
			Rarity:   models.RarityCommon,
			Criteria: models.Criteria{Type: models.CriteriaLikeReceived, Count: 1},
		},
	})
	require.NoError(t, err)
	return catalog
}

func TestRunUnlockPassUnlocksAndCredits(t *testing.T) {
	actRepo := &fakeActivityRepo{
		snapshot: &models.ActivitySnapshot{UserID: 7, PostCount: 1},
	}
	fx := newAchievementFixture(t, countingCatalog(t), actRepo)

	result, err := fx.service.RunUnlockPass(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, result.Unlocked, 1)
	assert.Equal(t, "first_post", result.Unlocked[0].Key)
	assert.Equal(t, int64(50), result.XPAwarded)
	assert.Equal(t, int64(50), result.TotalXP)
	assert.Equal(t, 1, result.Level)
	assert.Equal(t, 3, result.Evaluated)

	// One announcement, addressed to the user, with catalog metadata.
	announcements := fx.notifRepo.byType(models.NotificationAchievement)
	require.Len(t, announcements, 1)
	assert.Equal(t, int64(7), announcements[0].RecipientID)
	assert.Nil(t, announcements[0].ActorID)
	assert.Equal(t, "first_post", announcements[0].Metadata["achievement_key"])
}

func TestRunUnlockPassIsIdempotent(t *testing.T) {
	actRepo := &fakeActivityRepo{
		snapshot: &models.ActivitySnapshot{UserID: 7, PostCount: 1},
	}
	fx := newAchievementFixture(t, countingCatalog(t), actRepo)

	first, err := fx.service.RunUnlockPass(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, first.Unlocked, 1)

	second, err := fx.service.RunUnlockPass(context.Background(), 7)
	require.NoError(t, err)

	assert.Empty(t, second.Unlocked)
	assert.Equal(t, int64(0), second.XPAwarded)
	assert.Equal(t, int64(50), second.TotalXP, "xp credited exactly once")
	assert.Equal(t, 2, second.Evaluated, "already unlocked entries are skipped")
	assert.Len(t, fx.notifRepo.byType(models.NotificationAchievement), 1,
		"announcement sent exactly once")
}

func TestRunUnlockPassRaceLoserStaysQuiet(t *testing.T) {
	actRepo := &fakeActivityRepo{
		snapshot: &models.ActivitySnapshot{UserID: 7, PostCount: 1},
	}
	fx := newAchievementFixture(t, countingCatalog(t), actRepo)
	fx.achRepo.loseRaces = true

	result, err := fx.service.RunUnlockPass(context.Background(), 7)
	require.NoError(t, err)

	// The concurrent winner owns the XP credit and the announcement.
	assert.Empty(t, result.Unlocked)
	assert.Equal(t, int64(0), result.XPAwarded)
	assert.Empty(t, fx.notifRepo.created)
}

func TestRunUnlockPassAbortsOnSnapshotFailure(t *testing.T) {
	actRepo := &fakeActivityRepo{snapshotErr: errors.New("db down")}
	fx := newAchievementFixture(t, countingCatalog(t), actRepo)

	result, err := fx.service.RunUnlockPass(context.Background(), 7)
	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, IsStorageError(err))
	assert.Empty(t, fx.achRepo.unlocked, "no unlock attempted without a snapshot")
}

func TestRunUnlockPassAbortsOnInsertFailure(t *testing.T) {
	actRepo := &fakeActivityRepo{
		snapshot: &models.ActivitySnapshot{UserID: 7, PostCount: 1},
	}
	fx := newAchievementFixture(t, countingCatalog(t), actRepo)
	fx.achRepo.insertErr = errors.New("write failed")

	result, err := fx.service.RunUnlockPass(context.Background(), 7)
	assert.Nil(t, result)
	assert.True(t, IsStorageError(err))
}

func TestRunUnlockPassSurvivesNotificationFailure(t *testing.T) {
	actRepo := &fakeActivityRepo{
		snapshot: &models.ActivitySnapshot{UserID: 7, PostCount: 1},
	}
	fx := newAchievementFixture(t, countingCatalog(t), actRepo)
	fx.notifRepo.createErr = errors.New("notification store down")

	// The unlock is committed before the announcement is attempted, so a
	// dispatch failure never fails the pass.
	result, err := fx.service.RunUnlockPass(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, result.Unlocked, 1)
	assert.Equal(t, int64(50), result.XPAwarded)
	assert.Contains(t, fx.achRepo.unlocked, "first_post")
}

func TestRunUnlockPassSkipsSnapshotWhenNothingLocked(t *testing.T) {
	actRepo := &fakeActivityRepo{
		snapshot: &models.ActivitySnapshot{UserID: 7, PostCount: 100},
	}
	fx := newAchievementFixture(t, countingCatalog(t), actRepo)
	fx.achRepo.unlocked["first_post"] = time.Now()
	fx.achRepo.unlocked["10_posts"] = time.Now()
	fx.achRepo.unlocked["first_like"] = time.Now()

	result, err := fx.service.RunUnlockPass(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Evaluated)
	assert.Zero(t, actRepo.snapshotCalls, "no snapshot taken for a fully unlocked user")
}

func TestRunUnlockPassRejectsInvalidUser(t *testing.T) {
	fx := newAchievementFixture(t, countingCatalog(t), &fakeActivityRepo{})
	_, err := fx.service.RunUnlockPass(context.Background(), 0)
	assert.True(t, IsValidationError(err))
}

func rankCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := NewCatalog([]models.AchievementDefinition{
		{
			Key: "top_author", Name: "Top Author", Points: 750,
			Rarity:   models.RarityLegendary,
			Criteria: models.Criteria{Type: models.CriteriaTopAuthorRank, Rank: 3},
		},
	})
	require.NoError(t, err)
	return catalog
}

func TestRunUnlockPassUsesMonthlyRanking(t *testing.T) {
	actRepo := &fakeActivityRepo{
		snapshot: &models.ActivitySnapshot{UserID: 7},
		ranks:    map[int64]int{7: 2, 8: 1},
	}
	fx := newAchievementFixture(t, rankCatalog(t), actRepo)

	result, err := fx.service.RunUnlockPass(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, result.Unlocked, 1)
	assert.Equal(t, "top_author", result.Unlocked[0].Key)
	assert.Equal(t, 1, actRepo.rankCalls)
}

func TestRunUnlockPassCachesRanking(t *testing.T) {
	actRepo := &fakeActivityRepo{
		snapshot: &models.ActivitySnapshot{UserID: 9},
		ranks:    map[int64]int{7: 1},
	}
	fx := newAchievementFixture(t, rankCatalog(t), actRepo)

	// User 9 is unranked, so top_author stays locked and every pass needs the
	// ranking; the second pass must hit the cache.
	_, err := fx.service.RunUnlockPass(context.Background(), 9)
	require.NoError(t, err)
	_, err = fx.service.RunUnlockPass(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, 1, actRepo.rankCalls)
}

func TestRunUnlockPassDegradesWhenRankingFails(t *testing.T) {
	actRepo := &fakeActivityRepo{
		snapshot: &models.ActivitySnapshot{UserID: 7},
		ranksErr: errors.New("ranking query failed"),
	}
	fx := newAchievementFixture(t, rankCatalog(t), actRepo)

	// A broken ranking leaves rank-gated achievements locked this pass but
	// never fails the pass itself.
	result, err := fx.service.RunUnlockPass(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, result.Unlocked)
}

func TestListForUser(t *testing.T) {
	actRepo := &fakeActivityRepo{
		snapshot: &models.ActivitySnapshot{UserID: 7, PostCount: 1},
	}
	fx := newAchievementFixture(t, countingCatalog(t), actRepo)

	_, err := fx.service.RunUnlockPass(context.Background(), 7)
	require.NoError(t, err)

	statuses, err := fx.service.ListForUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, statuses, 3)

	// Catalog order is preserved and unlock state annotated.
	assert.Equal(t, "first_post", statuses[0].Key)
	assert.True(t, statuses[0].Unlocked)
	assert.NotNil(t, statuses[0].UnlockedAt)
	assert.False(t, statuses[1].Unlocked)
	assert.Nil(t, statuses[1].UnlockedAt)
}

func TestGetProgression(t *testing.T) {
	actRepo := &fakeActivityRepo{
		snapshot: &models.ActivitySnapshot{UserID: 7, PostCount: 1, LikesReceived: 1},
	}
	fx := newAchievementFixture(t, countingCatalog(t), actRepo)

	_, err := fx.service.RunUnlockPass(context.Background(), 7)
	require.NoError(t, err)

	// first_post (50) + first_like (25).
	progression, err := fx.service.GetProgression(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(75), progression.XP)
	assert.Equal(t, 1, progression.Progress.CurrentLevel)
	assert.Equal(t, 75, progression.Progress.Percent)
	assert.Equal(t, 2, progression.UnlockedHave)
	assert.Equal(t, 3, progression.CatalogTotal)
}

func TestGetProgressionUnknownUser(t *testing.T) {
	fx := newAchievementFixture(t, countingCatalog(t), &fakeActivityRepo{})

	progression, err := fx.service.GetProgression(context.Background(), 123)
	assert.Nil(t, progression)
	assert.True(t, IsNotFoundError(err))
}

func TestRunUnlockPassPublishesUnlockEvent(t *testing.T) {
	bus := events.NewEventBus(&events.EventBusConfig{
		BufferSize:     16,
		WorkerCount:    1,
		HandlerTimeout: time.Second,
	}, zap.NewNop())

	got := make(chan *events.AchievementUnlockedEvent, 1)
	require.NoError(t, bus.Subscribe(events.TypeAchievementUnlocked, events.NewTypedEventHandler(
		"test.unlocks", func(ctx context.Context, event *events.AchievementUnlockedEvent) error {
			got <- event
			return nil
		})))
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		bus.Stop(stopCtx)
	})

	memCache := cache.NewMemoryCache(cache.DefaultConfig(), zap.NewNop())
	t.Cleanup(func() { memCache.Close() })
	notifRepo := newFakeNotificationRepo()
	service := NewAchievementService(&AchievementServiceConfig{
		Catalog:      countingCatalog(t),
		Achievements: newFakeAchievementRepo(),
		Activity: &fakeActivityRepo{
			snapshot: &models.ActivitySnapshot{UserID: 7, PostCount: 1},
		},
		Users: newFakeUserRepo(7),
		Notifications: NewNotificationService(&NotificationServiceConfig{
			Repo:   notifRepo,
			Users:  newFakeUserRepo(7),
			Cache:  memCache,
			Logger: zap.NewNop(),
		}),
		Bus:    bus,
		Cache:  memCache,
		Logger: zap.NewNop(),
	})

	result, err := service.RunUnlockPass(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, result.Unlocked, 1)

	select {
	case event := <-got:
		assert.Equal(t, "first_post", event.AchievementKey)
		assert.Equal(t, 50, event.Points)
		require.NotNil(t, event.GetUserID())
		assert.Equal(t, int64(7), *event.GetUserID())
	case <-time.After(2 * time.Second):
		t.Fatal("unlock event was not published")
	}
}
