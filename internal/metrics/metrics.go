// Package metrics exposes Prometheus collectors for HTTP traffic and
// registration admission outcomes.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activityhub",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "activityhub",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	admissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activityhub",
		Name:      "registration_admissions_total",
		Help:      "Registration attempts by registrant kind and outcome.",
	}, []string{"kind", "outcome"})
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, admissions)
}

// Middleware records one observation per request, labelled with the
// matched route template rather than the raw path.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordAdmission counts an admission attempt. Outcome is "admitted" or the
// name of the rejecting error kind.
func RecordAdmission(kind, outcome string) {
	admissions.WithLabelValues(kind, outcome).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
