package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Surfaces group console routes for dashboards.
const (
	SurfaceAPI           = "api"
	SurfaceWorkspacePage = "workspace_page"
	SurfacePage          = "page"
	SurfaceOps           = "ops"
	SurfaceUnknown       = "unknown"
)

var httpLabels = []string{"method", "route", "surface", "status"}

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "opsconsole",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds by console route",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		httpLabels,
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "opsconsole",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by console route",
		},
		httpLabels,
	)
)

func init() {
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(httpRequestsTotal)
}

// Middleware records request duration and count labelled by the chi route
// pattern, so /orgs/7/... and /orgs/9/... share one series.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			var pattern string
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				pattern = rctx.RoutePattern()
			}
			route := routeLabel(pattern)
			labels := []string{r.Method, route, Surface(route), strconv.Itoa(status)}

			httpRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			httpRequestsTotal.WithLabelValues(labels...).Inc()
		})
	}
}

// routeLabel keeps label cardinality bounded: unmatched requests share one value.
func routeLabel(pattern string) string {
	if pattern == "" {
		return SurfaceUnknown
	}
	return pattern
}

// Surface classifies a route pattern.
func Surface(route string) string {
	switch {
	case route == "/health" || route == "/metrics":
		return SurfaceOps
	case strings.HasPrefix(route, "/api/"):
		return SurfaceAPI
	case strings.HasPrefix(route, "/orgs/"), strings.HasPrefix(route, "/workspaces/"):
		return SurfaceWorkspacePage
	case route == SurfaceUnknown:
		return SurfaceUnknown
	default:
		return SurfacePage
	}
}
