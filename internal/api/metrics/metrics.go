// Package metrics defines and registers all custom Prometheus metrics for the
// clinic backend. It is the single source of truth for metric names, labels,
// and help strings; metrics register themselves with the default registry at
// init time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clinic"

// ── Booking metrics ───────────────────────────────────────────────────────────

// BookingsCreatedTotal counts successfully booked appointments.
// Label:
//   - service_type: the requested service/treatment (free-form, low cardinality
//     in practice: the clinic offers a fixed menu)
var BookingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of appointments booked, by service type.",
	},
	[]string{"service_type"},
)

// SlotConflictsTotal counts bookings rejected because the (date, time) slot
// was already reserved.
var SlotConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "slot_conflicts_total",
		Help:      "Total number of booking attempts rejected by the slot uniqueness constraint.",
	},
)

// ── Payment metrics ───────────────────────────────────────────────────────────

// PaymentOrdersTotal counts gateway orders created successfully.
var PaymentOrdersTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_orders_total",
		Help:      "Total number of payment orders created with the gateway.",
	},
)

// PaymentsVerifiedTotal counts payments whose callback signature verified and
// whose state was committed.
var PaymentsVerifiedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_verified_total",
		Help:      "Total number of payments verified and marked paid.",
	},
)

// PaymentFailuresTotal counts payment workflow failures.
// Label:
//   - reason: "invalid_signature", "gateway_error", "details_fetch"
var PaymentFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_failures_total",
		Help:      "Total number of payment workflow failures, by reason.",
	},
	[]string{"reason"},
)

// GatewayRequestDuration measures remote gateway call latency.
// Label:
//   - operation: "create_order" or "fetch_payment"
var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_duration_seconds",
		Help:      "Duration of remote payment gateway calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)
