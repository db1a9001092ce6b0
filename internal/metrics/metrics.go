// Package metrics exposes Prometheus collectors for the price service.
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
	scrapeFetchTotal           *prometheus.CounterVec
	scrapeFetchDurationSeconds *prometheus.HistogramVec
	scrapeRecordsTotal         *prometheus.CounterVec
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		scrapeFetchTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scrape_fetch_total",
				Help: "Total number of vendor page fetches, labeled by vendor and outcome.",
			},
			[]string{"vendor", "outcome"},
		)

		scrapeFetchDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scrape_fetch_duration_seconds",
				Help:    "Histogram of vendor page fetch latencies, labeled by vendor.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"vendor"},
		)

		scrapeRecordsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scrape_records_total",
				Help: "Total number of normalized price records extracted, labeled by vendor and commodity.",
			},
			[]string{"vendor", "commodity"},
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
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)
	})
}

// ObserveFetch records the outcome and latency of one vendor page fetch.
func ObserveFetch(vendor, outcome string, duration time.Duration) {
	Init()
	scrapeFetchTotal.WithLabelValues(vendor, outcome).Inc()
	scrapeFetchDurationSeconds.WithLabelValues(vendor).Observe(duration.Seconds())
}

// ObserveRecords counts normalized records produced by one extraction pass.
func ObserveRecords(vendor, commodity string, count int) {
	Init()
	scrapeRecordsTotal.WithLabelValues(vendor, commodity).Add(float64(count))
}

// ObserveHTTPRequest records one served API request.
func ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	Init()
	return promhttp.Handler()
}
