// Package observability provides Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"sync"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidtube_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// CacheLookups counts cache-aside lookups by result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidtube_cache_lookups_total",
		Help: "Total cache-aside lookups by result",
	}, []string{"namespace", "result"})

	// ReactionsTotal counts reaction transitions applied to videos.
	ReactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidtube_reactions_total",
		Help: "Total video reactions by resulting state",
	}, []string{"reaction"})

	// SubscriptionToggles counts subscribe and unsubscribe operations.
	SubscriptionToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidtube_subscription_toggles_total",
		Help: "Total subscription toggles by direction",
	}, []string{"direction"})

	// ViewsTotal counts recorded views by increment mode.
	ViewsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidtube_views_total",
		Help: "Total recorded video views by increment mode",
	}, []string{"mode"})

	// CommentsPostedTotal counts posted comments by kind (root, reply).
	CommentsPostedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidtube_comments_posted_total",
		Help: "Total comments posted by kind",
	}, []string{"kind"})

	// LockWaitSeconds records how long callers waited for a distributed lock.
	LockWaitSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vidtube_lock_wait_seconds",
		Help:    "Time spent acquiring distributed locks",
		Buckets: prometheus.DefBuckets,
	}, []string{"scope"})
)

// ObserveLockWait records the time since start on the lock wait histogram.
func ObserveLockWait(scope string, start time.Time) {
	LockWaitSeconds.WithLabelValues(scope).Observe(time.Since(start).Seconds())
}

var (
	httpMetrics     *fiberprometheus.FiberPrometheus
	httpMetricsOnce sync.Once
)

// InitMetrics returns the HTTP request metrics middleware. The collectors are
// registered once per process so several servers can share them.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	httpMetricsOnce.Do(func() {
		httpMetrics = fiberprometheus.New(serviceName)
	})
	return httpMetrics
}
