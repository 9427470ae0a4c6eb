package services

import (
	"context"
	"studytime/internal/models"
	"studytime/internal/providers"
	"studytime/internal/structures"
	"studytime/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	store        *models.MemoryStore
	clock        *testutil.MockClock
	cache        *testutil.MockCache
	metrics      *testutil.MockMetrics
	logger       *testutil.MockLogger
	leaderboard  LeaderboardServiceInterface
	achievements AchievementServiceInterface
	aggregator   AggregatorServiceInterface
	sessions     SessionServiceInterface
	accounts     AccountServiceInterface
	subjects     SubjectServiceInterface
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store:   models.NewMemoryStore(),
		clock:   testutil.NewMockClock(t0),
		cache:   testutil.NewMockCache(),
		metrics: &testutil.MockMetrics{},
		logger:  &testutil.MockLogger{},
	}
	auth := providers.NewAuthProvider(&structures.Config{Auth: structures.AuthConfig{
		Secret:     "services-test-secret-1234",
		TokenTTL:   3600,
		BcryptCost: bcrypt.MinCost,
	}})
	env.leaderboard = NewLeaderboardService(env.store, env.cache, env.logger)
	env.achievements = NewAchievementService(env.store, env.cache, env.metrics, env.clock, env.logger)
	env.aggregator = NewAggregatorService(env.store, env.achievements, env.leaderboard, env.metrics, env.clock, env.logger)
	env.sessions = NewSessionService(env.store, env.aggregator, env.metrics, env.clock, env.logger)
	env.accounts = NewAccountService(env.store, auth, env.leaderboard, env.clock, env.logger)
	env.subjects = NewSubjectService(env.store, env.clock, env.logger)
	return env
}

func (e *testEnv) user(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := e.accounts.Register(context.Background(), RegisterInput{Username: name, Password: "secret123"})
	require.NoError(t, err)
	return u
}

func (e *testEnv) subject(t *testing.T, userID int64, name string) *models.Subject {
	t.Helper()
	s, err := e.subjects.CreateSubject(context.Background(), userID, CreateSubjectInput{Name: name, Color: "#3366ff"})
	require.NoError(t, err)
	return s
}

func (e *testEnv) reload(t *testing.T, userID int64) *models.User {
	t.Helper()
	u, err := e.store.Users().Get(context.Background(), userID)
	require.NoError(t, err)
	return u
}

func ptr[T any](v T) *T { return &v }
