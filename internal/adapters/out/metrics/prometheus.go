// Package metrics exposes fulfillment activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fulfillment"

// PrometheusMetrics implements ports.FulfillmentMetrics on its own registry.
type PrometheusMetrics struct {
	registry *prometheus.Registry

	ordersCreated        prometheus.Counter
	orderStatusChanges   *prometheus.CounterVec
	loadsReconciled      *prometheus.CounterVec
	loadedUnits          prometheus.Counter
	reservationsRejected *prometheus.CounterVec
	activeOrderAge       prometheus.Gauge

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewPrometheusMetrics creates the collectors and registers them together
// with the Go runtime and process collectors.
func NewPrometheusMetrics() *PrometheusMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &PrometheusMetrics{registry: registry}

	m.ordersCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created",
	})

	m.orderStatusChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_changes_total",
			Help:      "Total number of orders entering a status",
		},
		[]string{"status"},
	)

	m.loadsReconciled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loads_reconciled_total",
			Help:      "Total number of reported loads by outcome and rejection reason",
		},
		[]string{"outcome", "reason"},
	)

	m.loadedUnits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loaded_units_total",
		Help:      "Total number of units applied by reported loads",
	})

	m.reservationsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_rejected_total",
			Help:      "Total number of order creations refused by the inventory ledger",
		},
		[]string{"reason"},
	)

	m.activeOrderAge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_order_age_seconds",
		Help:      "Seconds since the order in progress was last updated, 0 when none is",
	})

	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(
		m.ordersCreated,
		m.orderStatusChanges,
		m.loadsReconciled,
		m.loadedUnits,
		m.reservationsRejected,
		m.activeOrderAge,
		m.httpRequestsTotal,
		m.httpRequestDuration,
	)

	return m
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the registry holding every collector.
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *PrometheusMetrics) OrderCreated() {
	m.ordersCreated.Inc()
}

func (m *PrometheusMetrics) OrderStatusChanged(status string) {
	m.orderStatusChanges.WithLabelValues(status).Inc()
}

// LoadReconciled counts the load under reason "none" when it was not
// rejected. Only such loads add to the loaded units, as rejected ones may or
// may not have been applied.
func (m *PrometheusMetrics) LoadReconciled(outcome string, reason string, delta int) {
	if reason != "" {
		m.loadsReconciled.WithLabelValues(outcome, reason).Inc()
		return
	}

	m.loadsReconciled.WithLabelValues(outcome, "none").Inc()
	if delta > 0 {
		m.loadedUnits.Add(float64(delta))
	}
}

func (m *PrometheusMetrics) ReservationRejected(reason string) {
	m.reservationsRejected.WithLabelValues(reason).Inc()
}

func (m *PrometheusMetrics) ActiveOrderAge(age time.Duration) {
	m.activeOrderAge.Set(age.Seconds())
}

// RecordHTTPRequest records one served request. path is the route template.
func (m *PrometheusMetrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
