// Package metrics provides Prometheus instrumentation for vents. It counts
// which source satisfied each resolution, how catalog loads went, and how
// long provider sessions took to build.
//
// # Basic Usage
//
//	// Record a resolution hit
//	metrics.ResolutionsTotal.WithLabelValues(metrics.SourcePath).Inc()
//
//	// Time a session build
//	timer := metrics.NewTimer("postgres")
//	pool, err := build(ctx)
//	metrics.ObserveSession("postgres", timer.Stop(), err)
//
// # Metric Types
//
// Counter: resolutions, catalog loads, session builds
// Histogram: session build latency
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resolution source labels
const (
	SourcePath   = "path"
	SourceSchema = "schema"
	SourceEnv    = "env"
	SourceOSEnv  = "os_env"
	SourceNone   = "none"
)

// Result labels
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultUnset   = "unset"
)

var (
	// ResolutionsTotal counts ReadKeys calls by the source that produced the
	// value, or "none" when every source missed.
	// Labels: source (path/schema/env/os_env/none)
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vents_resolutions_total",
			Help: "Total number of key resolutions by winning source",
		},
		[]string{"source"},
	)

	// CatalogLoadsTotal counts connections catalog loads.
	// Labels: result (success/failure/unset)
	CatalogLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vents_catalog_loads_total",
			Help: "Total number of connections catalog loads",
		},
		[]string{"result"},
	)

	// SessionsTotal counts provider session builds.
	// Labels: kind (connection kind), result (success/failure)
	SessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vents_sessions_total",
			Help: "Total number of provider session builds",
		},
		[]string{"kind", "result"},
	)

	// SessionBuildSeconds tracks how long provider session construction takes.
	// Builds may dial remote services, so buckets reach into tens of seconds.
	SessionBuildSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "vents_session_build_seconds",
			Help: "Provider session build latency in seconds",
			Buckets: []float64{
				0.001, // local clients
				0.01,
				0.1,
				0.5,
				1,
				5,
				10,
				30, // slow dials and credential exchanges
			},
		},
		[]string{"kind"},
	)
)

// ObserveSession records the outcome and latency of a session build
func ObserveSession(kind string, d time.Duration, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	SessionsTotal.WithLabelValues(kind, result).Inc()
	SessionBuildSeconds.WithLabelValues(kind).Observe(d.Seconds())
}

// Timer provides a simple timing mechanism for measuring operation durations.
// It captures the start time on creation and calculates elapsed time on stop.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
// The name parameter is for identification in logs or metrics.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Name returns the name the timer was created with
func (t *Timer) Name() string {
	return t.name
}

// Stop returns the elapsed duration since creation. The timer can be stopped
// multiple times, each returning the total elapsed time since creation.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}
