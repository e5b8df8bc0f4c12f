package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics структура для метрик Prometheus
type Metrics struct {
	MessagesProcessed    prometheus.Counter
	CommandsProcessed    *prometheus.CounterVec
	ErrorsTotal          prometheus.Counter
	UpdateProcessingTime prometheus.Histogram
	ReservationsCreated  *prometheus.CounterVec
	GuardRedirects       *prometheus.CounterVec
}

// NewMetrics создает новые метрики
func NewMetrics() *Metrics {
	return &Metrics{
		MessagesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stayfinder_bot_messages_processed_total",
			Help: "Total number of messages processed",
		}),

		CommandsProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "stayfinder_bot_commands_processed_total",
			Help: "Total number of bot commands processed",
		}, []string{"command"}),

		ErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "stayfinder_bot_errors_total",
			Help: "Total number of handler errors and panics",
		}),

		UpdateProcessingTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "stayfinder_bot_update_processing_time_seconds",
			Help:    "Time spent processing updates",
			Buckets: prometheus.DefBuckets,
		}),

		ReservationsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "stayfinder_bot_reservations_created_total",
			Help: "Total number of reservations created",
		}, []string{"listing"}),

		GuardRedirects: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "stayfinder_bot_guard_redirects_total",
			Help: "Total number of access checks that ended in a redirect",
		}, []string{"route"}),
	}
}
