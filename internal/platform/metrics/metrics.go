package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the service's Prometheus instruments. A nil *Collector is
// valid and records nothing.
type Collector struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration prometheus.Histogram
	reports         *prometheus.CounterVec
	renderDuration  prometheus.Histogram
}

func New() *Collector {
	registry := prometheus.NewRegistry()
	c := &Collector{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kpiassess_http_requests_total",
			Help: "HTTP requests by status code.",
		}, []string{"status"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kpiassess_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kpiassess_reports_total",
			Help: "Report generations by variant and outcome.",
		}, []string{"variant", "outcome"}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kpiassess_report_render_duration_seconds",
			Help:    "Time spent rendering report documents.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
	registry.MustRegister(c.requests, c.requestDuration, c.reports, c.renderDuration)
	return c
}

func (c *Collector) Record(status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.requests.WithLabelValues(strconv.Itoa(status)).Inc()
	c.requestDuration.Observe(duration.Seconds())
}

func (c *Collector) RecordReport(variant, outcome string) {
	if c == nil {
		return
	}
	c.reports.WithLabelValues(variant, outcome).Inc()
}

func (c *Collector) ObserveRender(duration time.Duration) {
	if c == nil {
		return
	}
	c.renderDuration.Observe(duration.Seconds())
}

func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
