// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quillpress",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "quillpress",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	RateLimitHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quillpress",
			Name:      "rate_limit_hits_total",
			Help:      "Requests rejected by the rate limiter.",
		},
		[]string{"route"},
	)

	FailedLoginAttempts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "quillpress",
			Name:      "failed_login_attempts_total",
			Help:      "Logins rejected for an unknown email or a wrong password.",
		},
	)

	ModerationDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quillpress",
			Name:      "moderation_decisions_total",
			Help:      "Posts moved out of pending, by resulting status.",
		},
		[]string{"status"},
	)

	PostsByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "quillpress",
			Name:      "posts",
			Help:      "Stored posts by status, refreshed periodically.",
		},
		[]string{"status"},
	)
)

// Registry is served on /metrics. Collectors are registered once, at init.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		RateLimitHits,
		FailedLoginAttempts,
		ModerationDecisions,
		PostsByStatus,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}
