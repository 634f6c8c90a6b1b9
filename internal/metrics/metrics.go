// Package metrics exposes request, entity and back-reference metrics for
// Prometheus.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hacklingo"

// countTimeout bounds the store query behind each entity gauge on scrape
const countTimeout = 2 * time.Second

// Counter is anything that can count its records
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Metrics owns a registry and the collectors registered on it
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errors          *prometheus.CounterVec

	dangling *prometheus.GaugeVec
	sweeps   *prometheus.CounterVec
	repaired prometheus.Counter
}

// New creates the metric set on a fresh registry with Go and process
// collectors attached.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total requests by method, route and status",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Request latency in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Failures rendered to callers by front-end and kind",
		}, []string{"frontend", "kind"}),
		dangling: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "references",
			Name:      "dangling",
			Help:      "Back-reference entries pointing at deleted records, as of the last sweep",
		}, []string{"parent", "child"}),
		sweeps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "references",
			Name:      "sweeps_total",
			Help:      "Consistency sweeps by outcome",
		}, []string{"status"}),
		repaired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "references",
			Name:      "repaired_total",
			Help:      "Dangling back-reference entries removed by the sweeper",
		}),
	}

	reg.MustRegister(m.requests, m.requestDuration, m.errors, m.dangling, m.sweeps, m.repaired)
	return m
}

// RegisterEntityCount exposes the record count of one entity kind as a
// gauge evaluated at scrape time.
func (m *Metrics) RegisterEntityCount(entity string, c Counter) error {
	return m.registry.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "entities",
		Help:        "Stored records by entity kind",
		ConstLabels: prometheus.Labels{"entity": entity},
	}, func() float64 {
		ctx, cancel := context.WithTimeout(context.Background(), countTimeout)
		defer cancel()
		n, err := c.Count(ctx)
		if err != nil {
			return -1
		}
		return float64(n)
	}))
}

// ObserveRequest records one served request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveError records one failure rendered by a front-end
func (m *Metrics) ObserveError(frontend, kind string) {
	m.errors.WithLabelValues(frontend, kind).Inc()
}

// SetDangling replaces the dangling reference gauges with counts
// keyed by [parent, child] kind.
func (m *Metrics) SetDangling(counts map[[2]string]int) {
	m.dangling.Reset()
	for key, n := range counts {
		m.dangling.WithLabelValues(key[0], key[1]).Set(float64(n))
	}
}

// ObserveSweep records a sweep outcome and how many entries it repaired
func (m *Metrics) ObserveSweep(err error, repaired int) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.sweeps.WithLabelValues(status).Inc()
	m.repaired.Add(float64(repaired))
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
