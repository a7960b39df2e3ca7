// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file holds the Prometheus HTTP instrumentation. Besides the generic
// request counters it breaks down the two flows that matter for CleanCity:
//
//   - cleancity_http_report_submissions_total{severity,status}: every request
//     annotated with SetReportSeverity, i.e. report submissions, by the
//     severity the client sent and the HTTP outcome.
//   - cleancity_http_assistant_requests_total{session,status}: assistant
//     traffic split by user vs guest sessions (see SetSession).
//   - cleancity_http_rate_limited_total{bucket}: 429s per limiter bucket.
//
// Route labels use the registered gin pattern. Unmatched requests share the
// "unmatched" label so scanners cannot inflate cardinality.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tbourn/cleancity-backend/internal/domain"
)

// UnmatchedRoute labels requests that matched no route.
const UnmatchedRoute = "unmatched"

var (
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// Status is left out to keep the histogram small.
	httpLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	// Photos push the upper buckets; JSON bodies stay in the lower ones.
	httpRespSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_response_size_bytes",
			Help: "Size of HTTP responses in bytes.",
			Buckets: []float64{
				200, 500, 1 << 10, 2 << 10, 5 << 10,
				10 << 10, 25 << 10, 50 << 10,
				100 << 10, 250 << 10, 500 << 10,
				1 << 20, 2 << 20, 5 << 20,
			},
		},
		[]string{"method", "path"},
	)

	reportSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cleancity_http_report_submissions_total",
			Help: "Report submission requests by requested severity and HTTP status.",
		},
		[]string{"severity", "status"},
	)

	assistantRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cleancity_http_assistant_requests_total",
			Help: "Assistant requests by session kind (user, guest) and HTTP status.",
		},
		[]string{"session", "status"},
	)

	rateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cleancity_http_rate_limited_total",
			Help: "Requests rejected with 429, by limiter bucket.",
		},
		[]string{"bucket"},
	)
)

func init() {
	prometheus.MustRegister(httpReqs, httpLat, httpInflight, httpRespSize,
		reportSubmissions, assistantRequests, rateLimited)
}

// Metrics instruments every request and, after the handler ran, records the
// report and assistant breakdowns from the request's fields.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInflight.Inc()
		defer httpInflight.Dec()

		c.Next()

		dur := time.Since(start).Seconds()
		path := routeLabel(c)
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		httpReqs.WithLabelValues(method, path, status).Inc()
		httpLat.WithLabelValues(method, path).Observe(dur)
		// Hijacked connections report -1.
		if size := c.Writer.Size(); size >= 0 {
			httpRespSize.WithLabelValues(method, path).Observe(float64(size))
		}

		f := fieldsOf(c)
		if f.severity != "" {
			reportSubmissions.WithLabelValues(severityLabel(f.severity), status).Inc()
		}
		if f.sessionKind != "" {
			assistantRequests.WithLabelValues(f.sessionKind, status).Inc()
		}
	}
}

func routeLabel(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return UnmatchedRoute
}

// severityLabel bounds the label to the severity domain.
func severityLabel(s string) string {
	if domain.Severity(s).Valid() {
		return s
	}
	return "invalid"
}
