package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stayfinder",
			Name:      "marketplace_requests_total",
			Help:      "Marketplace API requests by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	reservationsSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "stayfinder",
			Name:      "reservations_submitted_total",
			Help:      "Reservations submitted to the marketplace.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(apiRequests, reservationsSubmitted)
	})
}

// IncAPIRequest increments the counter for an endpoint/outcome pair.
func IncAPIRequest(endpoint, outcome string) {
	apiRequests.WithLabelValues(endpoint, outcome).Inc()
}

// IncReservationSubmitted counts a successful reservation submission.
func IncReservationSubmitted() {
	reservationsSubmitted.Inc()
}
