package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salvo",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests sent by virtual users",
		},
		[]string{"resource", "code"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "salvo",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests sent by virtual users",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"resource"},
	)

	cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salvo",
			Name:      "cache_hits_total",
			Help:      "Fetches skipped because the cached resource was still fresh",
		},
		[]string{"resource"},
	)

	cacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salvo",
			Name:      "cache_misses_total",
			Help:      "Fetches with no usable cache metadata for the resource",
		},
		[]string{"resource"},
	)

	conditionalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salvo",
			Name:      "conditional_requests_total",
			Help:      "Requests sent with If-None-Match or If-Modified-Since",
		},
		[]string{"resource"},
	)

	notModified = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salvo",
			Name:      "not_modified_total",
			Help:      "304 responses received for conditional requests",
		},
		[]string{"resource"},
	)

	validatorsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salvo",
			Name:      "validators_recorded_total",
			Help:      "Validators recorded from responses, by validator kind",
		},
		[]string{"resource", "validator"},
	)
)

func Init() {
	prometheus.MustRegister(
		requestTotal,
		requestDuration,
		cacheHits,
		cacheMisses,
		conditionalRequests,
		notModified,
		validatorsRecorded,
	)
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveRequest(resource, code string, d time.Duration) {
	requestTotal.WithLabelValues(resource, code).Inc()
	requestDuration.WithLabelValues(resource).Observe(d.Seconds())
}

func IncCacheHit(resource string) {
	cacheHits.WithLabelValues(resource).Inc()
}

func IncCacheMiss(resource string) {
	cacheMisses.WithLabelValues(resource).Inc()
}

func IncConditional(resource string) {
	conditionalRequests.WithLabelValues(resource).Inc()
}

func IncNotModified(resource string) {
	notModified.WithLabelValues(resource).Inc()
}

func IncValidator(resource, validator string) {
	validatorsRecorded.WithLabelValues(resource, validator).Inc()
}
