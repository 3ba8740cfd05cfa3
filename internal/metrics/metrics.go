// Package metrics registers the portal's Prometheus collectors and the
// gin plumbing that serves and feeds them.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	signInsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_sign_ins_total",
		Help: "Total sign-in attempts by provider and decision.",
	}, []string{"provider", "decision"})

	auditDeliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_audit_deliveries_total",
		Help: "Total audit webhook deliveries by result.",
	}, []string{"result"})

	calendarSyncsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_calendar_syncs_total",
		Help: "Total per-event calendar sync operations by op and result.",
	}, []string{"op", "result"})

	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_requests_total",
		Help: "Total HTTP requests by method, path, and response status.",
	}, []string{"method", "path", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portal_request_duration_seconds",
		Help:    "Request duration in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// Middleware records per-request metrics.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		requestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		requestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the Prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// RecordSignIn records one sign-in attempt outcome.
func RecordSignIn(provider string, allowed bool) {
	decision := "deny"
	if allowed {
		decision = "allow"
	}
	signInsTotal.WithLabelValues(provider, decision).Inc()
}

// RecordAuditDelivery records one audit webhook delivery attempt.
func RecordAuditDelivery(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	auditDeliveriesTotal.WithLabelValues(result).Inc()
}

// RecordCalendarSync records one per-event calendar operation.
func RecordCalendarSync(op, result string) {
	calendarSyncsTotal.WithLabelValues(op, result).Inc()
}
