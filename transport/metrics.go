package transport

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds the SDK's Prometheus collectors. Hosts that expose metrics
// can mount it alongside their own registries.
var Registry = prometheus.NewRegistry()

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lingnexus",
			Subsystem: "transport",
			Name:      "requests_total",
			Help:      "Total number of API requests by terminal outcome.",
		},
		[]string{"method", "status"},
	)

	retriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lingnexus",
			Subsystem: "transport",
			Name:      "retries_total",
			Help:      "Total number of retry attempts for transient failures.",
		},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lingnexus",
			Subsystem: "transport",
			Name:      "request_duration_seconds",
			Help:      "Duration of API requests including retries.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		},
		[]string{"method"},
	)
)

func init() {
	Registry.MustRegister(requestsTotal, retriesTotal, requestDuration)
}

func observeRequest(method string, status int, started time.Time) {
	label := "network_error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	requestsTotal.WithLabelValues(method, label).Inc()
	requestDuration.WithLabelValues(method).Observe(time.Since(started).Seconds())
}
