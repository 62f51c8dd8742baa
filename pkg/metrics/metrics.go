package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for the lens catalog.
type Metrics struct {
	QueriesAppliedTotal *prometheus.CounterVec
	InvalidInputsTotal  *prometheus.CounterVec

	ReloadsTotal *prometheus.CounterVec
	Records      prometheus.Gauge

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics returns the process-wide metrics, registering them with the
// default registry on first use.
//
// Metrics:
//   - lensdb_queries_applied_total{predicate} - filters run per predicate
//   - lensdb_invalid_inputs_total{predicate} - rejected query values
//   - lensdb_reloads_total{result} - catalog reloads (success, error)
//   - lensdb_records - lenses in the current snapshot
//   - lensdb_http_requests_total{method,route,status}
//   - lensdb_http_request_duration_seconds{method,route}
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			QueriesAppliedTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "lensdb",
					Name:      "queries_applied_total",
					Help:      "Total number of predicate filters applied to the catalog",
				},
				[]string{"predicate"},
			),

			InvalidInputsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "lensdb",
					Name:      "invalid_inputs_total",
					Help:      "Total number of query values rejected as invalid",
				},
				[]string{"predicate"},
			),

			ReloadsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "lensdb",
					Name:      "reloads_total",
					Help:      "Total number of catalog reloads",
				},
				[]string{"result"},
			),

			Records: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "lensdb",
					Name:      "records",
					Help:      "Number of lenses in the current catalog snapshot",
				},
			),

			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "lensdb",
					Name:      "http_requests_total",
					Help:      "Total number of HTTP requests served",
				},
				[]string{"method", "route", "status"},
			),

			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Namespace: "lensdb",
					Name:      "http_request_duration_seconds",
					Help:      "Duration of HTTP requests in seconds",
					Buckets:   prometheus.DefBuckets,
				},
				[]string{"method", "route"},
			),
		}
	})

	return globalMetrics
}

func (m *Metrics) RecordQuery(predicate string) {
	m.QueriesAppliedTotal.WithLabelValues(predicate).Inc()
}

func (m *Metrics) RecordInvalidInput(predicate string) {
	m.InvalidInputsTotal.WithLabelValues(predicate).Inc()
}

// RecordReload counts a reload attempt and, on success, updates the record gauge.
func (m *Metrics) RecordReload(records int, err error) {
	if err != nil {
		m.ReloadsTotal.WithLabelValues("error").Inc()
		return
	}
	m.ReloadsTotal.WithLabelValues("success").Inc()
	m.Records.Set(float64(records))
}

func (m *Metrics) RecordRequest(method, route, status string, durationSeconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(durationSeconds)
}
