package slotz

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus,
// StatsD, etc. Implement this interface to receive callbacks on key load
// events. Callbacks fire on the owner executor and must not block.
type MetricsProvider interface {
	// OnLoadStarted is called when a load is issued.
	OnLoadStarted()

	// OnLoadSuccess is called when a current load's image is applied.
	// Duration covers issue through apply, transitions included.
	OnLoadSuccess(origin Origin, duration time.Duration)

	// OnLoadFailure is called when a current load fails. Stage indicates
	// where the failure occurred: "fetch" or "pipeline".
	OnLoadFailure(stage string, duration time.Duration)

	// OnLoadSuperseded is called when a completion arrives for a task
	// that was superseded by a later load.
	OnLoadSuperseded()

	// OnLoadCancelled is called when an in-flight task is cancelled.
	OnLoadCancelled()
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnLoadStarted()                            {}
func (NoOpMetricsProvider) OnLoadSuccess(_ Origin, _ time.Duration)   {}
func (NoOpMetricsProvider) OnLoadFailure(_ string, _ time.Duration)   {}
func (NoOpMetricsProvider) OnLoadSuperseded()                         {}
func (NoOpMetricsProvider) OnLoadCancelled()                          {}
