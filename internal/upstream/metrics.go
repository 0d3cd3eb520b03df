package upstream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "studentportal",
	Subsystem: "upstream",
	Name:      "requests_total",
	Help:      "Upstream school API calls by endpoint and outcome.",
}, []string{"endpoint", "outcome"})

func observe(endpoint, outcome string) {
	requestsTotal.WithLabelValues(endpoint, outcome).Inc()
}
