package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "techdocs", Name: "http_requests_total", Help: "Number of handled HTTP requests by method and status."},
		[]string{"method", "status"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "techdocs", Name: "http_request_duration_seconds", Help: "HTTP request latency by method.", Buckets: prometheus.DefBuckets},
		[]string{"method"},
	)
	TagDecodeFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "techdocs", Name: "tag_decode_failures_total", Help: "Number of tag blobs that did not decode as an array of strings."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RequestsTotal)
	reg.MustRegister(RequestDuration)
	reg.MustRegister(TagDecodeFailures)
}
