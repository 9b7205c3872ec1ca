package proxy

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Proxied *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		Proxied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "devproxy_requests_total",
			Help: "Total requests forwarded to the upstream platform, by status",
		}, []string{"status"}),
	}
}
