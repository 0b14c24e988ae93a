package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles Prometheus collectors for the worker and its HTTP surface.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rateLimited     prometheus.Counter
	jobsProcessed   *prometheus.CounterVec
	jobDuration     *prometheus.HistogramVec
	rowsWritten     prometheus.Counter
	objectsRead     prometheus.Counter
	storeErrors     *prometheus.CounterVec
}

func newMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fileout",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests received",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fileout",
			Name:      "http_request_duration_seconds",
			Help:      "Histogram of HTTP request durations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fileout",
			Name:      "http_rate_limited_total",
			Help:      "Number of HTTP requests rejected due to rate limiting",
		}),
		jobsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fileout",
			Name:      "jobs_processed_total",
			Help:      "Trigger messages processed by outcome",
		}, []string{"status"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fileout",
			Name:      "job_duration_seconds",
			Help:      "Duration of one flatten-and-export invocation",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"status"}),
		rowsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fileout",
			Name:      "rows_written_total",
			Help:      "Chat rows written to output documents",
		}),
		objectsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fileout",
			Name:      "input_objects_read_total",
			Help:      "Input chat objects read and decoded",
		}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fileout",
			Name:      "store_errors_total",
			Help:      "Object store operation failures",
		}, []string{"operation"}),
	}

	registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.rateLimited,
		m.jobsProcessed,
		m.jobDuration,
		m.rowsWritten,
		m.objectsRead,
		m.storeErrors,
	)

	return m
}

// Handler returns an HTTP handler exposing the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records timing and status information.
func (m *Metrics) ObserveRequest(route, method string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(dur.Seconds())
}

// IncRateLimited increments the rate limit counter.
func (m *Metrics) IncRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

// JobProcessed records the outcome and duration of one trigger.
func (m *Metrics) JobProcessed(status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.jobsProcessed.WithLabelValues(status).Inc()
	m.jobDuration.WithLabelValues(status).Observe(dur.Seconds())
}

// AddRowsWritten adds to the exported row counter.
func (m *Metrics) AddRowsWritten(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.rowsWritten.Add(float64(n))
}

// IncObjectsRead increments the decoded input object counter.
func (m *Metrics) IncObjectsRead() {
	if m == nil {
		return
	}
	m.objectsRead.Inc()
}

// IncStoreErrors increments the failure counter for a store operation.
func (m *Metrics) IncStoreErrors(operation string) {
	if m == nil {
		return
	}
	m.storeErrors.WithLabelValues(operation).Inc()
}
