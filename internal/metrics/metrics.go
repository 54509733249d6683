// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	FlowSignup     = "signup"
	FlowLogin      = "login"
	FlowAdminLogin = "admin_login"

	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"

	BlobSaved   = "saved"
	BlobRemoved = "removed"
	BlobFailed  = "failed"
	BlobMissing = "missing"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodtune_http_requests_total",
			Help: "Total number of HTTP requests by method and status code",
		},
		[]string{"method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodtune_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodtune_auth_attempts_total",
			Help: "Authentication attempts by flow and outcome",
		},
		[]string{"flow", "outcome"},
	)

	ImageBlobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodtune_image_blobs_total",
			Help: "Captured image blob operations",
		},
		[]string{"operation"},
	)
)

func RecordHTTPRequest(method string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

func RecordAuthAttempt(flow string, outcome string) {
	AuthAttemptsTotal.WithLabelValues(flow, outcome).Inc()
}

func RecordImageBlob(operation string) {
	ImageBlobsTotal.WithLabelValues(operation).Inc()
}
