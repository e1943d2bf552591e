package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OrderMetrics bundles every metric of the order lifecycle.
type OrderMetrics struct {
	CheckoutsCreatedTotal       prometheus.CounterVec
	CheckoutsCreatedAmountTotal prometheus.CounterVec
	CheckoutsFailedTotal        prometheus.CounterVec

	OrdersCompletedTotal       prometheus.CounterVec
	OrdersCompletedAmountTotal prometheus.CounterVec
	OrdersCancelledTotal       prometheus.CounterVec

	WebhookEventsTotal       prometheus.CounterVec
	WebhookSignatureFailures prometheus.Counter

	StatusPollsTotal prometheus.CounterVec

	ProviderRequestDuration prometheus.HistogramVec
}

func NewOrderMetrics() *OrderMetrics {
	return &OrderMetrics{
		CheckoutsCreatedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkouts_created_total",
				Help: "Checkout sessions successfully created",
			},
			[]string{"owner_kind"},
		),

		CheckoutsCreatedAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkouts_created_amount_total",
				Help: "Total amount of successfully created checkouts",
			},
			[]string{"owner_kind"},
		),

		CheckoutsFailedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkouts_failed_total",
				Help: "Checkout attempts that got no provider session",
			},
			[]string{"reason"},
		),

		OrdersCompletedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_completed_total",
				Help: "Orders transitioned to COMPLETED",
			},
			[]string{"source"},
		),

		OrdersCompletedAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_completed_amount_total",
				Help: "Total amount of completed orders",
			},
			[]string{"source"},
		),

		OrdersCancelledTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_cancelled_total",
				Help: "Orders transitioned to CANCELLED",
			},
			[]string{"source"},
		),

		WebhookEventsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webhook_events_total",
				Help: "Inbound provider webhook deliveries by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),

		WebhookSignatureFailures: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "webhook_signature_failures_total",
				Help: "Webhook payloads rejected for a bad signature",
			},
		),

		StatusPollsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "status_polls_total",
				Help: "Status poll requests by outcome",
			},
			[]string{"outcome"},
		),

		ProviderRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "provider_request_duration_seconds",
				Help:    "Outbound payment provider call latency",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
			},
			[]string{"operation", "outcome"},
		),
	}
}
