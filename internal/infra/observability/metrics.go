package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the gateway.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	remoteErrors    *prometheus.CounterVec
	refreshesTotal  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	sessionEvents   *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dompet_remote_request_duration_seconds",
				Help:    "Duration of remote API calls by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		remoteErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dompet_remote_errors_total",
				Help: "Total failed remote API calls by error class.",
			},
			[]string{"class"},
		),
		refreshesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dompet_list_refreshes_total",
				Help: "Total wholesale list refreshes by container.",
			},
			[]string{"container"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dompet_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dompet_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		sessionEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dompet_session_events_total",
				Help: "Session lifecycle events (login, logout, expired).",
			},
			[]string{"event"},
		),
	}
}

// RecordRequestDuration records the duration of a remote operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrRemoteError increments the remote error counter for an error class.
func (m *Metrics) IncrRemoteError(class string) {
	m.remoteErrors.WithLabelValues(class).Inc()
}

// IncrRefresh increments the refresh counter for a container.
func (m *Metrics) IncrRefresh(container string) {
	m.refreshesTotal.WithLabelValues(container).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrSessionEvent increments a session lifecycle counter.
func (m *Metrics) IncrSessionEvent(event string) {
	m.sessionEvents.WithLabelValues(event).Inc()
}

// SyncSnapshot summarizes the synchronization health of the client, exposed
// on GET /v1/metrics/sync for the front end's debug panel.
type SyncSnapshot struct {
	DashboardRefreshes float64 `json:"dashboard_refreshes"`
	ManageRefreshes    float64 `json:"manage_refreshes"`
	RemoteErrors       float64 `json:"remote_errors"`
	MemberCacheHitRate float64 `json:"member_cache_hit_rate"`
	SessionExpiries    float64 `json:"session_expiries"`
}

// GetSyncSnapshot reads the current counter values.
// Prometheus counters expose cumulative values since process start.
func (m *Metrics) GetSyncSnapshot() *SyncSnapshot {
	hits := getCounterValue(m.cacheHits, "members")
	misses := getCounterValue(m.cacheMisses, "members")

	hitRate := float64(0)
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	errors := float64(0)
	for _, class := range []string{"network", "server", "not_found", "unauthorized", "circuit_open"} {
		errors += getCounterValue(m.remoteErrors, class)
	}

	return &SyncSnapshot{
		DashboardRefreshes: getCounterValue(m.refreshesTotal, "dashboard"),
		ManageRefreshes:    getCounterValue(m.refreshesTotal, "manage"),
		RemoteErrors:       errors,
		MemberCacheHitRate: hitRate,
		SessionExpiries:    getCounterValue(m.sessionEvents, "expired"),
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
