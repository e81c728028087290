// Package metrics exposes Prometheus collectors for the archive service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	archivePagesTotal          *prometheus.CounterVec
	archiveBytesTotal          *prometheus.CounterVec
	archiveFetchDuration       *prometheus.HistogramVec
	archiveCrawlDuration       prometheus.Histogram
	feedItemsRendered          prometheus.Gauge
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		archivePagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "archive_pages_fetched_total",
				Help: "Total number of origin pages fetched, labeled by crawl layer and outcome.",
			},
			[]string{"layer", "status"},
		)

		archiveBytesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "archive_fetch_bytes_total",
				Help: "Total number of bytes fetched from the origin, labeled by crawl layer.",
			},
			[]string{"layer"},
		)

		archiveFetchDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "archive_fetch_duration_seconds",
				Help:    "Histogram of origin fetch latencies, labeled by crawl layer.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"layer"},
		)

		archiveCrawlDuration = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "archive_crawl_duration_seconds",
				Help:    "Histogram of full archive crawl durations.",
				Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120},
			},
		)

		feedItemsRendered = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "archive_feed_items_rendered",
				Help: "Number of feed items rendered by the most recent feed request.",
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15, 60},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveFetch records one origin page fetch.
func ObserveFetch(layer, status string, bytesFetched int, duration time.Duration) {
	if archivePagesTotal == nil {
		return
	}
	archivePagesTotal.WithLabelValues(layer, status).Inc()
	if bytesFetched > 0 {
		archiveBytesTotal.WithLabelValues(layer).Add(float64(bytesFetched))
	}
	archiveFetchDuration.WithLabelValues(layer).Observe(duration.Seconds())
}

// ObserveCrawl records the duration of a full archive crawl.
func ObserveCrawl(duration time.Duration) {
	if archiveCrawlDuration == nil {
		return
	}
	archiveCrawlDuration.Observe(duration.Seconds())
}

// SetFeedItems records how many items the last feed render produced.
func SetFeedItems(n int) {
	if feedItemsRendered == nil {
		return
	}
	feedItemsRendered.Set(float64(n))
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
