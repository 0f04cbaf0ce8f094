package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basho_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "basho_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	WorkshopOrdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basho_workshop_orders_total",
			Help: "Total number of workshop order attempts",
		},
		[]string{"result"},
	)

	PaymentVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basho_payment_verifications_total",
			Help: "Total number of payment verification attempts",
		},
		[]string{"result"},
	)

	SlotExhaustedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basho_slot_exhausted_total",
			Help: "Requests rejected because a time slot was full",
		},
		[]string{"stage"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "basho_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "basho_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	OpenReconciliations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "basho_open_reconciliations",
			Help: "Payment reconciliation items awaiting manual action",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}
