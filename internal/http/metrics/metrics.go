package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recruitportal/internal/common"
)

// Collector owns a private registry so tests can build as many as they like.
type Collector struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	errors        *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	importRows    *prometheus.CounterVec
	importBatches *prometheus.CounterVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "HTTP requests by method and status.",
		}, []string{"method", "status"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_http_errors_total",
			Help: "Error responses by error code.",
		}, []string{"code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		importRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_import_rows_total",
			Help: "Bulk import rows by result.",
		}, []string{"result"}),
		importBatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_import_batches_total",
			Help: "Bulk import uploads by result.",
		}, []string{"result"}),
	}
	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.requests, c.errors, c.duration, c.importRows, c.importBatches,
	)
	return c
}

func (c *Collector) ObserveRequest(method string, status int, elapsed time.Duration) {
	c.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (c *Collector) IncError(code common.Code) {
	c.errors.WithLabelValues(string(code)).Inc()
}

func (c *Collector) ImportRows(result string, n int) {
	if n > 0 {
		c.importRows.WithLabelValues(result).Add(float64(n))
	}
}

func (c *Collector) ImportBatch(result string) {
	c.importBatches.WithLabelValues(result).Inc()
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
