// Package metrics holds the prometheus collectors for the feed service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LocationParseFailures counts stored location strings that failed to
// parse as WKT points. Such items are served without a location instead
// of failing the request, so the counter is the only visible signal.
var LocationParseFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "feed_location_parse_failures_total",
	Help: "Number of feed items whose stored location could not be parsed.",
})

// RequestDuration tracks feed request latency by mode (list or map).
var RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "feed_request_duration_seconds",
	Help:    "Duration of feed requests.",
	Buckets: prometheus.DefBuckets,
}, []string{"mode"})
