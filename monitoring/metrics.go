package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	orderOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_operations_total",
			Help: "Total order operations by outcome",
		},
		[]string{"operation", "status"},
	)

	paymentsDeclined = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payments_declined_total",
			Help: "Total simulated payment declines",
		},
	)

	ticketsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_issued_total",
			Help: "Total tickets issued across all orders",
		},
	)

	batchStock = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ticket_batch_available_tickets",
			Help: "Remaining available tickets per batch",
		},
		[]string{"batch_id"},
	)

	eventsCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_cache_requests_total",
			Help: "Events list cache lookups by result",
		},
		[]string{"result"},
	)
)

// TrackOrderOperation records the outcome of a create/cancel/pay call.
// status is "ok" or the rejection kind.
func TrackOrderOperation(operation, status string) {
	orderOperations.WithLabelValues(operation, status).Inc()
}

func TrackPaymentDeclined() {
	paymentsDeclined.Inc()
}

func TrackTicketsIssued(n int) {
	ticketsIssued.Add(float64(n))
}

// TrackBatchStock reflects a batch's committed stock level.
func TrackBatchStock(batchID string, available int) {
	batchStock.WithLabelValues(batchID).Set(float64(available))
}

func TrackEventsCache(result string) {
	eventsCacheHits.WithLabelValues(result).Inc()
}
