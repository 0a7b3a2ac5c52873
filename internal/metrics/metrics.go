// Package metrics exposes Prometheus instrumentation for the export service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application. Each collector
// owns its registry so tests can create as many as they like.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Export metrics
	Exports        *prometheus.CounterVec
	ExportDuration *prometheus.HistogramVec
	ArtifactBytes  *prometheus.HistogramVec
	Diagnostics    *prometheus.CounterVec

	// Registry metrics
	ModelsRegistered prometheus.Gauge
}

func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exports_total",
				Help:      "Total number of network exports by outcome",
			},
			[]string{"network_type", "format", "status"},
		),
		ExportDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "export_duration_seconds",
				Help:      "Time spent extracting and serialising a network",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"network_type", "format"},
		),
		ArtifactBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "artifact_size_bytes",
				Help:      "Size of exported artifacts",
				Buckets:   prometheus.ExponentialBuckets(256, 4, 10),
			},
			[]string{"format"},
		),
		Diagnostics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "extraction_diagnostics_total",
				Help:      "Recoverable problems absorbed while building networks",
			},
			[]string{"kind"},
		),
		ModelsRegistered: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "models_registered",
				Help:      "Number of models currently held in the registry",
			},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Exports,
		c.ExportDuration,
		c.ArtifactBytes,
		c.Diagnostics,
		c.ModelsRegistered,
	)
	return c
}

// ObserveHTTP records one served request.
func (c *Collector) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveExport records the outcome of one export. size is ignored for
// failed exports.
func (c *Collector) ObserveExport(networkType, format string, err error, elapsed time.Duration, size int) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.Exports.WithLabelValues(networkType, format, status).Inc()
	c.ExportDuration.WithLabelValues(networkType, format).Observe(elapsed.Seconds())
	if err == nil {
		c.ArtifactBytes.WithLabelValues(format).Observe(float64(size))
	}
}

func (c *Collector) AddDiagnostic(kind string) {
	c.Diagnostics.WithLabelValues(kind).Inc()
}

func (c *Collector) SetModels(n int) {
	c.ModelsRegistered.Set(float64(n))
}

// Registry returns the Prometheus registry for this collector
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
