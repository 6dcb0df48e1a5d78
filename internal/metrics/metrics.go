package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	WebhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_webhook_events_total",
			Help: "Total number of tracker webhook events by kind and outcome.",
		},
		[]string{"kind", "outcome"}, // outcome: accepted, ignored, malformed
	)

	AdmissionRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_admission_rejected_total",
			Help: "Total number of webhook requests rejected at admission.",
		},
		[]string{"reason"}, // not_allowed, rate_limited, blacklisted
	)

	CorrelationResolvedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_correlation_resolved_total",
			Help: "Total number of attachments resolved by correlation path.",
		},
		[]string{"path"}, // direct, pending, issue_level, api
	)

	CorrelationUnresolvedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bridge_correlation_unresolved_total",
			Help: "Total number of attachment references that could not be resolved.",
		},
	)

	PendingCachedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bridge_pending_cached_total",
			Help: "Total number of attachments parked in the pending cache.",
		},
	)

	EchoSuppressedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bridge_echo_suppressed_total",
			Help: "Total number of inbound events dropped as echoes of our own writes.",
		},
	)

	DownloadAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_download_attempts_total",
			Help: "Total number of attachment download attempts by result.",
		},
		[]string{"result"}, // success or a soft failure reason
	)

	DeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_deliveries_total",
			Help: "Total number of chat deliveries by type and status.",
		},
		[]string{"type", "status"}, // type: text, file
	)
)

func MustRegister(reg *prometheus.Registry) {
	reg.MustRegister(
		WebhookEventsTotal,
		AdmissionRejectedTotal,
		CorrelationResolvedTotal,
		CorrelationUnresolvedTotal,
		PendingCachedTotal,
		EchoSuppressedTotal,
		DownloadAttemptsTotal,
		DeliveriesTotal,
	)
}
