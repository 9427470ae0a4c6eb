package providers

import (
	"context"
	"studytime/internal/models"
	"studytime/internal/structures"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metricsTestStore() models.Store {
	return models.NewMemoryStore()
}

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf, metricsTestStore())
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	// Ensure no-op methods don't panic
	m.IncRequestsTotal("/test", 200)
	m.ObserveRequestDuration("/test", time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.ObservePersistenceDuration(time.Millisecond)
	m.SetRecordsTotal("users", 10)
	m.IncSessionsEnded("study")
	m.AddAccountedSeconds("study", 60)
	m.IncAchievementsUnlocked("Student")
}

func TestMetricsProvider_WhenEnabled(t *testing.T) {
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	defer func() {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		prometheus.DefaultGatherer = prometheus.DefaultRegisterer.(prometheus.Gatherer)
	}()

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf, metricsTestStore())
	_, ok := m.(*MetricsProvider)
	assert.True(t, ok, "should return MetricsProvider when enabled")
}

func TestMetricsProvider_IncrementCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	defer func() {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		prometheus.DefaultGatherer = prometheus.DefaultRegisterer.(prometheus.Gatherer)
	}()

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf, metricsTestStore())

	// These should not panic
	m.IncRequestsTotal("GET /api/leaderboard", 200)
	m.IncRequestsTotal("GET /api/leaderboard", 404)
	m.ObserveRequestDuration("GET /api/leaderboard", 5*time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.ObservePersistenceDuration(100 * time.Millisecond)
	m.SetRecordsTotal("users", 42)
	m.IncSessionsEnded("break")
	m.AddAccountedSeconds("break", 300)
	m.AddAccountedSeconds("break", -1)
	m.IncAchievementsUnlocked("King")

	families, err := reg.Gather()
	require.NoError(t, err)
	found := map[string]bool{}
	for _, f := range families {
		found[f.GetName()] = true
	}
	assert.True(t, found["studytime_sessions_ended_total"])
	assert.True(t, found["studytime_accounted_seconds_total"])
	assert.True(t, found["studytime_achievements_unlocked_total"])
	assert.True(t, found["studytime_active_sessions"])
}

func TestMetricsProvider_ActiveSessionsGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	defer func() {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		prometheus.DefaultGatherer = prometheus.DefaultRegisterer.(prometheus.Gatherer)
	}()

	store := models.NewMemoryStore()
	_, err := store.Sessions().Create(context.Background(), models.NewSession(1, 1, models.SessionStudy, time.Now()))
	require.NoError(t, err)

	NewMetricsProvider(&structures.Config{Metrics: structures.MetricsConfig{Enabled: true}}, store)

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "studytime_active_sessions" {
			assert.Equal(t, float64(1), f.GetMetric()[0].GetGauge().GetValue())
			return
		}
	}
	t.Fatal("active sessions gauge not registered")
}

func TestHttpStatusBucket(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{404, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, httpStatusBucket(tt.code))
	}
}
