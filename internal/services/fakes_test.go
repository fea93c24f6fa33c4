// file: internal/services/fakes_test.go
package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"inkwell/internal/models"
)

// fakeAchievementRepo is an in-memory AchievementRepository for service tests.
type fakeAchievementRepo struct {
	unlocked map[string]time.Time
	xp       int64

	unlockedKeysErr error
	insertErr       error
	xpErr           error

	// loseRaces makes every insert report the row as already present, as if a
	// concurrent pass won.
	loseRaces bool
}

func newFakeAchievementRepo() *fakeAchievementRepo {
	return &fakeAchievementRepo{unlocked: make(map[string]time.Time)}
}

func (f *fakeAchievementRepo) GetUnlockedKeys(ctx context.Context, userID int64) ([]string, error) {
	if f.unlockedKeysErr != nil {
		return nil, f.unlockedKeysErr
	}
	keys := make([]string, 0, len(f.unlocked))
	for k := range f.unlocked {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (f *fakeAchievementRepo) InsertUnlock(ctx context.Context, userID int64, key string, points int, unlockedAt time.Time) (bool, error) {
	if f.insertErr != nil {
		return false, f.insertErr
	}
	if f.loseRaces {
		return false, nil
	}
	if _, exists := f.unlocked[key]; exists {
		return false, nil
	}
	f.unlocked[key] = unlockedAt
	f.xp += int64(points)
	return true, nil
}

func (f *fakeAchievementRepo) ListUnlocks(ctx context.Context, userID int64) ([]*models.UserAchievement, error) {
	keys, _ := f.GetUnlockedKeys(ctx, userID)
	unlocks := make([]*models.UserAchievement, 0, len(keys))
	for _, k := range keys {
		unlocks = append(unlocks, &models.UserAchievement{
			UserID:         userID,
			AchievementKey: k,
			UnlockedAt:     f.unlocked[k],
		})
	}
	return unlocks, nil
}

func (f *fakeAchievementRepo) GetUserXP(ctx context.Context, userID int64) (int64, error) {
	if f.xpErr != nil {
		return 0, f.xpErr
	}
	return f.xp, nil
}

func (f *fakeAchievementRepo) UpsertDefinition(ctx context.Context, def *models.AchievementDefinition) error {
	return nil
}

// fakeActivityRepo serves a canned snapshot and ranking.
type fakeActivityRepo struct {
	snapshot *models.ActivitySnapshot
	ranks    map[int64]int

	snapshotErr error
	ranksErr    error

	snapshotCalls int
	rankCalls     int
}

func (f *fakeActivityRepo) GetSnapshot(ctx context.Context, userID int64) (*models.ActivitySnapshot, error) {
	f.snapshotCalls++
	if f.snapshotErr != nil {
		return nil, f.snapshotErr
	}
	// Copy so the service mutating TopAuthorRank never leaks between passes.
	snap := *f.snapshot
	return &snap, nil
}

func (f *fakeActivityRepo) GetMonthlyAuthorRanks(ctx context.Context, now time.Time) (map[int64]int, error) {
	f.rankCalls++
	if f.ranksErr != nil {
		return nil, f.ranksErr
	}
	return f.ranks, nil
}

// fakeNotificationRepo is an in-memory NotificationRepository.
type fakeNotificationRepo struct {
	created []*models.Notification
	prefs   *models.NotificationPreferences
	nextID  int64

	createErr error
	prefsErr  error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	n.ID = f.nextID
	n.Read = false
	n.CreatedAt = time.Now().UTC()
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotificationRepo) ListByRecipient(ctx context.Context, userID int64, limit int) ([]*models.Notification, error) {
	var out []*models.Notification
	for i := len(f.created) - 1; i >= 0; i-- {
		if f.created[i].RecipientID == userID {
			out = append(out, f.created[i])
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	for _, n := range f.created {
		if n.RecipientID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, userID int64, ids []int64) error {
	idSet := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}
	for _, n := range f.created {
		if _, ok := idSet[n.ID]; ok && n.RecipientID == userID {
			n.Read = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	var affected int64
	for _, n := range f.created {
		if n.RecipientID == userID && !n.Read {
			n.Read = true
			affected++
		}
	}
	return affected, nil
}

func (f *fakeNotificationRepo) GetPreferences(ctx context.Context, userID int64) (*models.NotificationPreferences, error) {
	if f.prefsErr != nil {
		return nil, f.prefsErr
	}
	if f.prefs == nil || f.prefs.UserID != userID {
		return nil, nil
	}
	return f.prefs, nil
}

func (f *fakeNotificationRepo) SavePreferences(ctx context.Context, prefs *models.NotificationPreferences) error {
	if f.prefsErr != nil {
		return f.prefsErr
	}
	f.nextID++
	prefs.ID = f.nextID
	prefs.CreatedAt = time.Now().UTC()
	prefs.UpdatedAt = prefs.CreatedAt
	f.prefs = prefs
	return nil
}

// fakeUserRepo serves canned identities keyed by ID.
type fakeUserRepo struct {
	users map[int64]*models.User

	getErr error
}

func newFakeUserRepo(ids ...int64) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[int64]*models.User)}
	for _, id := range ids {
		f.users[id] = &models.User{
			ID:          id,
			Email:       fmt.Sprintf("user%d@example.com", id),
			Username:    fmt.Sprintf("user%d", id),
			DisplayName: fmt.Sprintf("User %d", id),
			Role:        "author",
			IsActive:    true,
		}
	}
	return f
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.users[id], nil
}

func (f *fakeUserRepo) GetSummary(ctx context.Context, id int64) (*models.UserSummary, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &models.UserSummary{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	}, nil
}

// byType filters created notifications.
func (f *fakeNotificationRepo) byType(t models.NotificationType) []*models.Notification {
	var out []*models.Notification
	for _, n := range f.created {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}
