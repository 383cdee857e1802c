package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Relay outcomes, used as the "outcome" label.
const (
	OutcomeReply           = "reply"
	OutcomeFallback        = "fallback"
	OutcomeBadRequest      = "bad_request"
	OutcomeConfiguration   = "configuration_error"
	OutcomeUpstreamError   = "upstream_error"
	OutcomeUpstreamTimeout = "upstream_timeout"
	OutcomeTransportError  = "transport_error"
)

var (
	relayRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helpdesk_relay_requests_total",
			Help: "Number of chat requests handled by the relay",
		},
		[]string{"outcome"},
	)

	upstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "helpdesk_upstream_request_duration_seconds",
			Help:    "Duration of upstream generation calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	upstreamStatus = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helpdesk_upstream_responses_total",
			Help: "Upstream HTTP responses by status code",
		},
		[]string{"code"},
	)
)

// Register registers all metrics with the provided registerer.
func Register(r prometheus.Registerer) {
	r.MustRegister(relayRequests, upstreamDuration, upstreamStatus)
}

func RecordRelayOutcome(outcome string) {
	relayRequests.WithLabelValues(outcome).Inc()
}

// ObserveUpstream records one upstream call. success is false for any non-2xx or transport failure.
func ObserveUpstream(success bool, d time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	upstreamDuration.WithLabelValues(status).Observe(d.Seconds())
}

func RecordUpstreamStatus(code string) {
	upstreamStatus.WithLabelValues(code).Inc()
}
