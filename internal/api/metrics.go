package api

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var histogramBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

// Metrics records dispatcher traffic.
type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	denials  *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// NewMetrics creates the dispatcher collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "logview",
			Subsystem: "ui",
			Name:      "http_requests_total",
			Help:      "Count of requests handled under the route prefix",
		}, []string{"route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "logview",
			Subsystem: "ui",
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution of route prefix requests",
			Buckets:   histogramBuckets,
		}, []string{"route"}),
		denials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "logview",
			Subsystem: "ui",
			Name:      "authorization_denied_total",
			Help:      "Requests rejected by the authorization chain",
		}, []string{"route"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "logview",
			Subsystem: "ui",
			Name:      "handler_errors_total",
			Help:      "Requests answered with the internal error envelope",
		}, []string{"route"}),
	}

	if reg != nil {
		reg.MustRegister(m.requests, m.latency, m.denials, m.failures)
	}
	return m
}

func (m *Metrics) observe(route string, status int, duration time.Duration) {
	if status == 0 {
		status = 200
	}
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(route).Observe(duration.Seconds())
}

func (m *Metrics) denied(route string) {
	m.denials.WithLabelValues(route).Inc()
}

func (m *Metrics) failure(route string) {
	m.failures.WithLabelValues(route).Inc()
}
