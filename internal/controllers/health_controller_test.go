package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studytime/internal/models"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingCountsStore struct {
	*models.MemoryStore
}

func (failingCountsStore) Counts(context.Context) (map[string]int, error) {
	return nil, errors.New("disk on fire")
}

func TestHealth_ReturnsOK(t *testing.T) {
	store := models.NewMemoryStore()
	u, err := store.Users().Create(context.Background(), &models.User{Username: "alice", Level: models.DefaultLevel, CreatedAt: t0})
	require.NoError(t, err)
	_, err = store.Sessions().Create(context.Background(), models.NewSession(u.ID, 1, models.SessionStudy, t0))
	require.NoError(t, err)

	hc := NewHealthController(store)
	rr := httptest.NewRecorder()
	hc.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Contains(t, resp, "uptime")
	assert.Contains(t, resp, "uptime_seconds")
	assert.Equal(t, float64(1), resp["active_sessions"])
	records := resp["records"].(map[string]interface{})
	assert.Equal(t, float64(1), records["users"])
}

func TestHealth_Degraded(t *testing.T) {
	hc := NewHealthController(failingCountsStore{models.NewMemoryStore()})
	rr := httptest.NewRecorder()
	hc.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), `"degraded"`)
}

func TestHealth_MethodNotAllowed(t *testing.T) {
	hc := NewHealthController(models.NewMemoryStore())
	rr := httptest.NewRecorder()
	hc.Health(rr, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"zero", 0, "0h0m0s"},
		{"one minute", 60 * time.Second, "0h1m0s"},
		{"one hour", time.Hour, "1h0m0s"},
		{"mixed", time.Hour + time.Minute + time.Second, "1h1m1s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatDuration(tt.duration))
		})
	}
}
