// Package metrics emits StatsD counters, gauges and timings.
//
// Callers depend on Sink; a nil Sink is valid everywhere and records nothing.
package metrics

import (
	"time"
)

// Sink receives metric samples. Implementations must be safe for concurrent use.
type Sink interface {
	Count(name string, value int64, tags Tags)
	Gauge(name string, value float64, tags Tags)
	Timing(name string, value time.Duration, tags Tags)
}

// Tags are DogStatsD-style key/value labels.
type Tags map[string]string

// Metric names.
const (
	GuardOutcome   = "guard.outcome"
	CatalogSource  = "catalog.live"
	CatalogProbe   = "catalog.probe"
	BannerProbe    = "connection.probe"
	HTTPRequest    = "http.request"
	KeyGateAttempt = "keygate.attempt"
)

// Count forwards to sink when it is non-nil.
func Count(sink Sink, name string, tags Tags) {
	if sink != nil {
		sink.Count(name, 1, tags)
	}
}

// Gauge forwards to sink when it is non-nil.
func Gauge(sink Sink, name string, value float64, tags Tags) {
	if sink != nil {
		sink.Gauge(name, value, tags)
	}
}

// Since records the time elapsed since start.
func Since(sink Sink, name string, start time.Time, tags Tags) {
	if sink != nil {
		sink.Timing(name, time.Since(start), tags)
	}
}

// Result is the "result" tag value for err.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
