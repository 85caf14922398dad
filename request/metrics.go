package request

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records one observation per dispatched call.
type Metrics struct {
	Calls    *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contract_api_calls_total",
				Help: "API calls dispatched by contract tests, by method and status class.",
			},
			[]string{"method", "status"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "contract_api_call_duration_seconds",
				Help:    "Latency of API calls dispatched by contract tests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Calls, m.Duration)
	}
	return m
}

func (m *Metrics) observe(method Method, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.Calls.WithLabelValues(string(method), statusClass(status)).Inc()
	m.Duration.WithLabelValues(string(method)).Observe(d.Seconds())
}

func statusClass(status int) string {
	if status <= 0 {
		return "error"
	}
	return fmt.Sprintf("%dxx", status/100)
}
