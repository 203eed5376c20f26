package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics of the HTTP layer.
// Prometheus метрики HTTP слоя.
var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_tracker_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "audit_tracker_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "audit_tracker_http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	// authzDecisionsTotal counts RBAC route guard decisions.
	// authzDecisionsTotal считает решения RBAC защиты маршрутов.
	authzDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_tracker_authz_decisions_total",
			Help: "Total number of authorization decisions",
		},
		[]string{"result", "resource", "action"},
	)

	rateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_tracker_rate_limited_total",
			Help: "Requests rejected by a rate limit policy",
		},
		[]string{"policy"},
	)
)

// Metrics returns a middleware that records Prometheus metrics for HTTP requests.
// Metrics возвращает middleware, который записывает Prometheus метрики для HTTP запросов.
//
// Paths are labelled by route template so ids do not blow up cardinality.
// Пути помечаются шаблоном маршрута, чтобы идентификаторы не раздували кардинальность.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordAuthzDecision records a route guard decision.
// RecordAuthzDecision записывает решение защиты маршрута.
func RecordAuthzDecision(allowed bool, resource, action string) {
	result := "denied"
	if allowed {
		result = "allowed"
	}
	authzDecisionsTotal.WithLabelValues(result, resource, action).Inc()
}

// RecordRateLimited counts a rejected request.
func RecordRateLimited(policy string) {
	rateLimitedTotal.WithLabelValues(policy).Inc()
}
