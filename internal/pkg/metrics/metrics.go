package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Payment gateway metrics
var (
	// GatewayRequestDuration tracks gateway call latency by operation and outcome.
	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_request_duration_seconds",
			Help:    "Duration of payment gateway calls in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"operation", "outcome"},
	)

	// GatewayRequestsTotal counts gateway calls by operation and outcome
	// (ok, declined, not_found, unreachable).
	GatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Total number of payment gateway calls",
		},
		[]string{"operation", "outcome"},
	)

	// GatewayTransportRetriesTotal counts the single bounded retry taken on
	// transient transport failures.
	GatewayTransportRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_transport_retries_total",
			Help: "Total number of gateway transport retries",
		},
		[]string{"operation"},
	)
)

// Capture saga metrics
var (
	// CapturesTotal counts capture attempts by result
	// (captured, declined, unreachable, corrupted, store_failure).
	CapturesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservation_captures_total",
			Help: "Total number of reservation capture attempts",
		},
		[]string{"result"},
	)

	// ConfirmationNumberRetriesTotal counts confirmation number redraws
	// caused by collisions.
	ConfirmationNumberRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "confirmation_number_retries_total",
			Help: "Total number of confirmation number allocation retries",
		},
	)

	// DuplicateReservationsTotal counts creations rejected by the duplicate guard.
	DuplicateReservationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "duplicate_reservations_total",
			Help: "Total number of reservations rejected as duplicates",
		},
	)
)
