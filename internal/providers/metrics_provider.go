package providers

import (
	"context"
	"studytime/internal/models"
	"studytime/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	SetRecordsTotal(collection string, count int)
	IncSessionsEnded(sessionType string)
	AddAccountedSeconds(sessionType string, seconds int64)
	IncAchievementsUnlocked(name string)
}

type MetricsProvider struct {
	requestsTotal        *prometheus.CounterVec
	requestDuration      *prometheus.HistogramVec
	cacheHits            prometheus.Counter
	cacheMisses          prometheus.Counter
	persistenceDuration  prometheus.Histogram
	recordsTotal         *prometheus.GaugeVec
	sessionsEnded        *prometheus.CounterVec
	accountedSeconds     *prometheus.CounterVec
	achievementsUnlocked *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) SetRecordsTotal(collection string, count int) {
	m.recordsTotal.WithLabelValues(collection).Set(float64(count))
}

func (m *MetricsProvider) IncSessionsEnded(sessionType string) {
	m.sessionsEnded.WithLabelValues(sessionType).Inc()
}

func (m *MetricsProvider) AddAccountedSeconds(sessionType string, seconds int64) {
	if seconds <= 0 {
		return
	}
	m.accountedSeconds.WithLabelValues(sessionType).Add(float64(seconds))
}

func (m *MetricsProvider) IncAchievementsUnlocked(name string) {
	m.achievementsUnlocked.WithLabelValues(name).Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, store models.Store) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "studytime_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "studytime_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "studytime_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "studytime_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "studytime_persistence_duration_seconds",
			Help:    "Duration of snapshot persistence in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		recordsTotal: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "studytime_records_total",
			Help: "Number of stored records per collection",
		}, []string{"collection"}),

		sessionsEnded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "studytime_sessions_ended_total",
			Help: "Total number of ended sessions per type",
		}, []string{"type"}),

		accountedSeconds: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "studytime_accounted_seconds_total",
			Help: "Seconds aggregated into statistics per session type",
		}, []string{"type"}),

		achievementsUnlocked: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "studytime_achievements_unlocked_total",
			Help: "Total number of achievement unlocks per tier",
		}, []string{"tier"}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "studytime_active_sessions",
		Help: "Current number of active sessions",
	}, func() float64 {
		n, err := store.Sessions().CountActive(context.Background())
		if err != nil {
			return 0
		}
		return float64(n)
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) SetRecordsTotal(_ string, _ int)                  {}
func (n *noopMetrics) IncSessionsEnded(_ string)                        {}
func (n *noopMetrics) AddAccountedSeconds(_ string, _ int64)            {}
func (n *noopMetrics) IncAchievementsUnlocked(_ string)                 {}
