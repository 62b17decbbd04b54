// Package metrics exposes Prometheus metrics for the frontend and its calls
// to the backend.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"snapstream/internal/backend"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upload outcomes.
const (
	UploadSucceeded = "succeeded"
	UploadFailed    = "failed"
	UploadRejected  = "rejected"
)

var _ backend.Observer = (*Collector)(nil)

// Collector owns a private registry so several instances can coexist in tests.
type Collector struct {
	registry        *prometheus.Registry
	backendDuration *prometheus.HistogramVec
	httpRequests    *prometheus.CounterVec
	uploads         *prometheus.CounterVec
	uploadBytes     prometheus.Counter
}

// NewCollector creates and registers all metrics.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		backendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "snapstream",
			Name:      "backend_request_duration_seconds",
			Help:      "Duration of calls to the SnapStream backend.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"method", "route", "status"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snapstream",
			Name:      "http_requests_total",
			Help:      "Requests served by the frontend.",
		}, []string{"method", "route", "status"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snapstream",
			Name:      "uploads_total",
			Help:      "Upload attempts by outcome.",
		}, []string{"outcome"}),
		uploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "snapstream",
			Name:      "upload_bytes_total",
			Help:      "Bytes of successfully uploaded files.",
		}),
	}
	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.backendDuration,
		c.httpRequests,
		c.uploads,
		c.uploadBytes,
	)
	return c
}

// ObserveRequest records one backend call. Status 0 means no response.
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	c.backendDuration.WithLabelValues(method, route, label).Observe(elapsed.Seconds())
}

// ObserveHTTP records one request served by the frontend.
func (c *Collector) ObserveHTTP(method, route string, status int) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// ObserveUpload records an upload attempt.
func (c *Collector) ObserveUpload(outcome string, size int64) {
	c.uploads.WithLabelValues(outcome).Inc()
	if outcome == UploadSucceeded && size > 0 {
		c.uploadBytes.Add(float64(size))
	}
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
