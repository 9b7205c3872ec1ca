package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Requests        *prometheus.CounterVec
	Unauthorized    prometheus.Counter
	RequestDuration prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		Requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "finadmin_gateway_requests_total",
			Help: "Total platform API requests by method and status",
		}, []string{"method", "status"}),
		Unauthorized: promauto.NewCounter(prometheus.CounterOpts{
			Name: "finadmin_gateway_unauthorized_total",
			Help: "Total 401 responses observed by the gateway",
		}),
		RequestDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "finadmin_gateway_request_duration_seconds",
			Help:    "Duration of platform API requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

func (m *Metrics) ObserveRequest(method, status string, start time.Time) {
	m.Requests.WithLabelValues(method, status).Inc()
	m.RequestDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementUnauthorized() {
	m.Unauthorized.Inc()
}
