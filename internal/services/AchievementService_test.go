package services

import (
	"context"
	"errors"
	"testing"

	"studytime/internal/models"
	"studytime/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAchievementService_TierClosureAndLevel(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	u := env.user(t, "alice")

	_, err := env.store.Users().AddStudyTime(ctx, u.ID, 30000)
	require.NoError(t, err)

	unlocked, err := env.achievements.Evaluate(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, unlocked, 4)
	assert.Equal(t, "Workaholic", unlocked[3].Name)
	assert.Equal(t, "Workaholic", env.reload(t, u.ID).Level)
	assert.Equal(t, []string{"Student", "Specs Nerd", "Hardcore Student", "Workaholic"}, env.metrics.AchievementsUnlocked)

	statuses, err := env.achievements.GetAchievements(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, statuses, len(models.Tiers))
	for i, st := range statuses {
		assert.Equal(t, i < 4, st.Unlocked, st.Name)
		if st.Unlocked {
			require.NotNil(t, st.UnlockedAt)
			assert.Equal(t, t0, *st.UnlockedAt)
		}
	}

	again, err := env.achievements.Evaluate(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, again)
	notes, err := env.store.Notifications().ListByUser(ctx, u.ID, 0)
	require.NoError(t, err)
	assert.Len(t, notes, 4)
}

func TestAchievementService_LevelNeverRegresses(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	u := env.user(t, "alice")

	_, err := env.store.Users().RaiseLevel(ctx, u.ID, "King")
	require.NoError(t, err)
	_, err = env.store.Users().AddStudyTime(ctx, u.ID, 4000)
	require.NoError(t, err)

	_, err = env.achievements.Evaluate(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "King", env.reload(t, u.ID).Level)
}

func TestAchievementService_BelowFirstTier(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	u := env.user(t, "alice")
	_, err := env.store.Users().AddStudyTime(ctx, u.ID, 3599)
	require.NoError(t, err)

	unlocked, err := env.achievements.Evaluate(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, unlocked)
	assert.Equal(t, models.DefaultLevel, env.reload(t, u.ID).Level)
}

func TestAchievementService_UnknownUser(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.achievements.Evaluate(context.Background(), 404)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestAchievementService_CachesCatalog(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	u := env.user(t, "alice")

	_, err := env.achievements.GetAchievements(ctx, u.ID)
	require.NoError(t, err)
	_, ok := env.cache.Get(achievementCatalogCacheKey)
	assert.True(t, ok)

	env.cache.Set(achievementCatalogCacheKey, []byte(`[{"id":1,"name":"Cached","requiredTime":1,"level":1}]`))
	statuses, err := env.achievements.GetAchievements(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, "Cached", statuses[0].Name)
}

// flakyNotifyStore rejects notification writes while failures is positive.
type flakyNotifyStore struct {
	*models.MemoryStore
	failures int
}

func (s *flakyNotifyStore) Notifications() models.NotificationRepository {
	return &flakyNotifications{NotificationRepository: s.MemoryStore.Notifications(), store: s}
}

type flakyNotifications struct {
	models.NotificationRepository
	store *flakyNotifyStore
}

func (n *flakyNotifications) Create(ctx context.Context, note *models.Notification) (*models.Notification, error) {
	if n.store.failures > 0 {
		n.store.failures--
		return nil, errors.New("notifications unavailable")
	}
	return n.NotificationRepository.Create(ctx, note)
}

func TestAchievementService_NotificationFailureRetried(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	u := env.user(t, "alice")
	_, err := env.store.Users().AddStudyTime(ctx, u.ID, 3600)
	require.NoError(t, err)

	flaky := &flakyNotifyStore{MemoryStore: env.store, failures: 1}
	svc := NewAchievementService(flaky, env.cache, env.metrics, env.clock, &testutil.MockLogger{})

	_, err = svc.Evaluate(ctx, u.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notify \"Student\"")
	owned, err := env.store.Achievements().ListUnlocked(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, owned)

	unlocked, err := svc.Evaluate(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, "Student", unlocked[0].Name)
	assert.Equal(t, "Student", env.reload(t, u.ID).Level)

	notes, err := env.store.Notifications().ListByUser(ctx, u.ID, 0)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "You've unlocked a new achievement: Student!", notes[0].Message)
}
