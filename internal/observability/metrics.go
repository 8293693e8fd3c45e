package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "student_management"

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	registry       *prometheus.Registry
	requests       *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	errors         *prometheus.CounterVec
	tokenFailures  *prometheus.CounterVec
	tokenRotations prometheus.Counter
	logins         *prometheus.CounterVec
}

// NewMetrics registers collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "Errors rendered to clients by error code.",
		}, []string{"route", "method", "code"}),
		tokenFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_validation_failures_total",
			Help:      "Rejected access/refresh tokens by kind and reason.",
		}, []string{"kind", "reason"}),
		tokenRotations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_rotations_total",
			Help:      "Access/refresh token pair rotations.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(
		m.requests,
		m.latency,
		m.errors,
		m.tokenFailures,
		m.tokenRotations,
		m.logins,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(route, method, code).Inc()
}

// RecordTokenFailure counts a rejected token. kind is "access" or "refresh".
func (m *Metrics) RecordTokenFailure(kind, reason string) {
	if m == nil {
		return
	}
	m.tokenFailures.WithLabelValues(kind, reason).Inc()
}

// RecordTokenRotation counts a silent refresh.
func (m *Metrics) RecordTokenRotation() {
	if m == nil {
		return
	}
	m.tokenRotations.Inc()
}

// RecordLogin counts a login attempt; outcome is "success" or "failure".
func (m *Metrics) RecordLogin(success bool) {
	if m == nil {
		return
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.logins.WithLabelValues(outcome).Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
