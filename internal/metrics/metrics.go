package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "darkveil",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	gatewayCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "darkveil",
			Name:      "gateway_calls_total",
			Help:      "Mock gateway calls by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	appointmentsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "darkveil",
			Name:      "appointments_created_total",
			Help:      "Appointments written into the store.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, gatewayCalls, appointmentsCreated)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncGateway increments the gateway call counter.
func IncGateway(operation, outcome string) {
	gatewayCalls.WithLabelValues(operation, outcome).Inc()
}

// IncAppointmentCreated counts a successful appointment write.
func IncAppointmentCreated() {
	appointmentsCreated.Inc()
}
