// file: internal/services/notifier_service_test.go
package services

import (
	"context"
	"errors"
	"testing"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeAchievementService records which users had an unlock pass run.
type fakeAchievementService struct {
	passes  []int64
	passErr error
}

func (f *fakeAchievementService) RunUnlockPass(ctx context.Context, userID int64) (*UnlockPassResult, error) {
	f.passes = append(f.passes, userID)
	if f.passErr != nil {
		return nil, f.passErr
	}
	return &UnlockPassResult{UserID: userID}, nil
}

func (f *fakeAchievementService) ListForUser(ctx context.Context, userID int64) ([]*AchievementStatus, error) {
	return nil, nil
}

func (f *fakeAchievementService) GetProgression(ctx context.Context, userID int64) (*ProgressionResponse, error) {
	return nil, nil
}

func newNotifierFixture(t *testing.T) (ActivityNotifier, *fakeNotificationRepo, *fakeAchievementService) {
	t.Helper()

	repo := newFakeNotificationRepo()
	memCache := cache.NewMemoryCache(cache.DefaultConfig(), zap.NewNop())
	t.Cleanup(func() { memCache.Close() })

	notifications := NewNotificationService(&NotificationServiceConfig{
		Repo:   repo,
		Cache:  memCache,
		Logger: zap.NewNop(),
	})
	achievements := &fakeAchievementService{}
	notifier := NewActivityNotifier(notifications, achievements, zap.NewNop())
	return notifier, repo, achievements
}

func TestOnPostPublishedRunsPassWithoutNotification(t *testing.T) {
	notifier, repo, achievements := newNotifierFixture(t)

	notifier.OnPostPublished(context.Background(), 5, 10, "Hello World")

	assert.Empty(t, repo.created, "publishing notifies nobody")
	assert.Equal(t, []int64{5}, achievements.passes)
}

func TestOnLikeReceived(t *testing.T) {
	notifier, repo, achievements := newNotifierFixture(t)

	notifier.OnLikeReceived(context.Background(), 5, 9, 10, "Hello World")

	likes := repo.byType(models.NotificationLikePost)
	require.Len(t, likes, 1)
	assert.Equal(t, int64(5), likes[0].RecipientID)
	require.NotNil(t, likes[0].ActorID)
	assert.Equal(t, int64(9), *likes[0].ActorID)
	require.NotNil(t, likes[0].ActionURL)
	assert.Equal(t, "/posts/10", *likes[0].ActionURL)

	// The owner's like counters moved, so the pass runs for the owner.
	assert.Equal(t, []int64{5}, achievements.passes)
}

func TestOnLikeReceivedSelfLike(t *testing.T) {
	notifier, repo, achievements := newNotifierFixture(t)

	// Liking your own post notifies nobody but still re-evaluates counters.
	notifier.OnLikeReceived(context.Background(), 5, 5, 10, "Hello World")

	assert.Empty(t, repo.created)
	assert.Equal(t, []int64{5}, achievements.passes)
}

func TestOnCommentCreated(t *testing.T) {
	notifier, repo, achievements := newNotifierFixture(t)

	notifier.OnCommentCreated(context.Background(), 5, 9, CommentContext{
		PostID:    10,
		CommentID: 33,
		PostTitle: "Hello World",
		Preview:   "Nice post!",
	})

	comments := repo.byType(models.NotificationComment)
	require.Len(t, comments, 1)
	assert.Equal(t, int64(5), comments[0].RecipientID)
	require.NotNil(t, comments[0].ActionURL)
	assert.Equal(t, "/posts/10#comment-33", *comments[0].ActionURL)

	// The commenter's comment count moved, not the post author's.
	assert.Equal(t, []int64{9}, achievements.passes)
}

func TestOnPostFeatured(t *testing.T) {
	notifier, repo, achievements := newNotifierFixture(t)

	notifier.OnPostFeatured(context.Background(), 5, 10, "Hello World")

	featured := repo.byType(models.NotificationPostFeatured)
	require.Len(t, featured, 1)
	assert.Equal(t, int64(5), featured[0].RecipientID)
	assert.Nil(t, featured[0].ActorID, "editorial notifications carry no actor")
	assert.Equal(t, []int64{5}, achievements.passes)
}

func TestOnPostModeratedApproved(t *testing.T) {
	notifier, repo, achievements := newNotifierFixture(t)

	notifier.OnPostModerated(context.Background(), 5, ModerationContext{
		PostID:        10,
		PostTitle:     "Hello World",
		Approved:      true,
		ModeratorName: "editor_jane",
	})

	approved := repo.byType(models.NotificationPostApproved)
	require.Len(t, approved, 1)
	assert.Equal(t, "editor_jane", approved[0].Metadata["moderator"])

	// Approval changes the published-post count.
	assert.Equal(t, []int64{5}, achievements.passes)
}

func TestOnPostModeratedRejected(t *testing.T) {
	notifier, repo, achievements := newNotifierFixture(t)

	notifier.OnPostModerated(context.Background(), 5, ModerationContext{
		PostID:        10,
		PostTitle:     "Hello World",
		Approved:      false,
		ModeratorName: "editor_jane",
		Reason:        "duplicate content",
	})

	rejected := repo.byType(models.NotificationPostRejected)
	require.Len(t, rejected, 1)
	assert.Contains(t, rejected[0].Message, "duplicate content")
	assert.Equal(t, "duplicate content", rejected[0].Metadata["reason"])

	// A rejection changes nothing the criteria can see.
	assert.Empty(t, achievements.passes)
}

func TestNotifierSwallowsFailures(t *testing.T) {
	notifier, repo, achievements := newNotifierFixture(t)
	repo.createErr = errors.New("store down")
	achievements.passErr = errors.New("pass failed")

	// The triggering action already committed; nothing here may blow up.
	notifier.OnLikeReceived(context.Background(), 5, 9, 10, "Hello World")
	notifier.OnBookmarkReceived(context.Background(), 5, 9, 10, "Hello World")

	assert.Empty(t, repo.created)
	assert.Equal(t, []int64{5, 5}, achievements.passes)
}
