package internal

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"studytime/internal/controllers"
	"studytime/internal/models"
	"studytime/internal/providers"
	"studytime/internal/services"
	"studytime/internal/structures"
	"studytime/internal/testutil"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T) (*httptest.Server, *testutil.MockClock) {
	t.Helper()
	conf := &structures.Config{
		Auth: structures.AuthConfig{Secret: "routes-test-secret-0123", TokenTTL: 3600, BcryptCost: bcrypt.MinCost},
	}
	store := models.NewMemoryStore()
	clock := testutil.NewMockClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	logger := &testutil.MockLogger{}
	cache := testutil.NewMockCache()
	metrics := providers.NewMetricsProvider(conf, store)
	auth := providers.NewAuthProvider(conf)

	leaderboard := services.NewLeaderboardService(store, cache, logger)
	achievements := services.NewAchievementService(store, cache, metrics, clock, logger)
	aggregator := services.NewAggregatorService(store, achievements, leaderboard, metrics, clock, logger)
	ac := controllers.NewApiController(
		logger,
		services.NewAccountService(store, auth, leaderboard, clock, logger),
		services.NewSubjectService(store, clock, logger),
		services.NewSessionService(store, aggregator, metrics, clock, logger),
		services.NewStatsService(store),
		achievements,
		leaderboard,
		services.NewNotificationService(store),
		services.NewGroupService(store, clock, logger),
	)

	handler := NewHandler(controllers.NewHealthController(store), conf, InitRoutes(ac, auth), metrics)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, clock
}

func do(t *testing.T, srv *httptest.Server, method, path, token, body string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func TestRoutes_EndToEnd(t *testing.T) {
	srv, clock := newTestServer(t)

	code, _ := do(t, srv, http.MethodPost, "/api/register", "", `{"username":"alice","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, code)

	code, body := do(t, srv, http.MethodPost, "/api/login", "", `{"username":"alice","password":"secret123"}`)
	require.Equal(t, http.StatusOK, code)
	var tok services.AuthToken
	require.NoError(t, json.Unmarshal([]byte(body), &tok))

	code, body = do(t, srv, http.MethodPost, "/api/subjects", tok.Token, `{"name":"Physics","color":"#00ff00"}`)
	require.Equal(t, http.StatusCreated, code, body)
	var sub models.Subject
	require.NoError(t, json.Unmarshal([]byte(body), &sub))

	code, body = do(t, srv, http.MethodPost, "/api/sessions/start", tok.Token, `{"subjectId":`+itoa(sub.ID)+`}`)
	require.Equal(t, http.StatusCreated, code, body)
	var s models.Session
	require.NoError(t, json.Unmarshal([]byte(body), &s))

	clock.Advance(time.Hour)
	code, body = do(t, srv, http.MethodPost, "/api/sessions/"+itoa(s.ID)+"/end", tok.Token, `{"duration":3600}`)
	require.Equal(t, http.StatusOK, code, body)

	code, body = do(t, srv, http.MethodGet, "/api/user", tok.Token, "")
	require.Equal(t, http.StatusOK, code)
	var u models.User
	require.NoError(t, json.Unmarshal([]byte(body), &u))
	assert.Equal(t, int64(3600), u.TotalStudyTime)
	assert.Equal(t, "Student", u.Level)

	code, body = do(t, srv, http.MethodGet, "/api/leaderboard?timeframe=all", tok.Token, "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"isCurrentUser":true`)

	code, body = do(t, srv, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"status":"ok"`)
}

func TestRoutes_RequireToken(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/api/user", "/api/sessions/active", "/api/leaderboard", "/api/groups"} {
		code, body := do(t, srv, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, code, path)
		assert.JSONEq(t, `{"error":"unauthenticated"}`, body)
	}
}

func TestRoutes_MethodAndPathMismatch(t *testing.T) {
	srv, _ := newTestServer(t)

	code, _ := do(t, srv, http.MethodGet, "/api/register", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, code)

	code, _ = do(t, srv, http.MethodGet, "/api/nowhere", "", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, srv, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusNotFound, code)
}
