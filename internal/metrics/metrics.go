// Package metrics holds the gateway's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpstreamCallsTotal tracks upstream round trips per operation and result
	UpstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_upstream_calls_total",
			Help: "Total number of upstream calls",
		},
		[]string{"operation", "result"},
	)

	// UpstreamErrorsTotal tracks classified upstream failures
	UpstreamErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_upstream_errors_total",
			Help: "Total number of classified upstream errors",
		},
		[]string{"operation", "kind"},
	)

	// UpstreamLatency tracks upstream round trip latency
	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_upstream_latency_seconds",
			Help:    "Upstream call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// UpstreamRetriesTotal tracks rate-limit retries
	UpstreamRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_upstream_retries_total",
			Help: "Total number of retries after upstream rate limiting",
		},
		[]string{"operation"},
	)

	// ListTruncationsTotal counts list-all payloads cut to the safety ceiling
	ListTruncationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gateway_list_truncations_total",
			Help: "Total number of oversized upstream lists truncated",
		},
	)

	// DeleteRacesTotal counts deletes where the record vanished between resolve and delete
	DeleteRacesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gateway_delete_races_total",
			Help: "Total number of absorbed concurrent deletion races",
		},
	)

	// JournalFailuresTotal counts mutation journal writes that failed
	JournalFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_journal_failures_total",
			Help: "Total number of failed mutation journal writes",
		},
		[]string{"sink"},
	)

	// HTTPRequestsTotal tracks inbound API requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_http_requests_total",
			Help: "Total number of inbound HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks inbound request duration
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_http_request_duration_seconds",
			Help:    "Inbound HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// RateLimitRejects counts inbound requests rejected by the local limiter
	RateLimitRejects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gateway_rate_limit_rejects_total",
			Help: "Total number of inbound requests rejected by the rate limiter",
		},
	)

	// PanicRecoveries counts handler panics recovered by middleware
	PanicRecoveries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gateway_panic_recoveries_total",
			Help: "Total number of recovered handler panics",
		},
	)
)
