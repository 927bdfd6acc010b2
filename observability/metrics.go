package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notifier_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	WebhooksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_webhooks_total",
			Help: "Webhooks received by event type and outcome",
		},
		[]string{"type", "outcome"},
	)

	JobsDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notifier_jobs_dropped_total",
			Help: "Jobs dropped because the queue was full",
		},
	)

	ResolutionFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notifier_resolution_failures_total",
			Help: "Recipient resolutions aborted by a lookup failure",
		},
	)

	DeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_deliveries_total",
			Help: "Push deliveries by status",
		},
		[]string{"status"},
	)
)
