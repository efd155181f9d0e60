package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce            sync.Once
	httpRequestsTotal       *prometheus.CounterVec
	httpLatencySeconds      *prometheus.HistogramVec
	httpErrorsTotal         *prometheus.CounterVec
	analyticsLatencySeconds prometheus.Histogram
	viewsTrackedTotal       prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vireo_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vireo_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vireo_errors_total",
			Help: "Total number of error responses.",
		}, []string{"method", "route", "status"})

		analyticsLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vireo_analytics_aggregation_seconds",
			Help:    "Latency distribution for dashboard aggregation.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		})

		viewsTrackedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vireo_page_views_tracked_total",
			Help: "Total number of page views recorded.",
		})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			analyticsLatencySeconds,
			viewsTrackedTotal,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// AnalyticsLatency exposes the dashboard aggregation histogram.
func AnalyticsLatency() prometheus.Histogram {
	RegisterMetrics()
	return analyticsLatencySeconds
}

// ViewsTracked exposes the page view counter.
func ViewsTracked() prometheus.Counter {
	RegisterMetrics()
	return viewsTrackedTotal
}
