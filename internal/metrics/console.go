package metrics

import "github.com/prometheus/client_golang/prometheus"

// Console Prometheus metrics.
var (
	ScopeResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "opsconsole",
			Name:      "scope_resolutions_total",
			Help:      "Route scope evaluations by rule and outcome",
		},
		[]string{"rule", "outcome"}, // rule: "route" / "legacy"
	)

	PlatformRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "opsconsole",
			Name:      "platform_requests_total",
			Help:      "Total number of platform API requests",
		},
		[]string{"endpoint", "status"},
	)

	PlatformRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "opsconsole",
			Name:      "platform_request_duration_seconds",
			Help:      "Platform API request duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"endpoint"},
	)

	WorkspaceCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "opsconsole",
			Name:      "workspace_cache_total",
			Help:      "Workspace list cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	OrgReconciliationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "opsconsole",
			Name:      "org_reconciliations_total",
			Help:      "Current-organization reconciliations by action",
		},
		[]string{"action"},
	)
)

var consoleMetricsRegistered bool

// RegisterConsoleMetrics registers console metrics. Must be called once from main.
func RegisterConsoleMetrics() {
	if consoleMetricsRegistered {
		return
	}
	prometheus.MustRegister(ScopeResolutionsTotal)
	prometheus.MustRegister(PlatformRequestsTotal)
	prometheus.MustRegister(PlatformRequestDuration)
	prometheus.MustRegister(WorkspaceCacheTotal)
	prometheus.MustRegister(OrgReconciliationsTotal)
	consoleMetricsRegistered = true
}
