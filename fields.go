package slotz

import "github.com/zoobzio/capitan"

// Field keys for load events.
var (
	// KeyTask is the task identifier of the load.
	KeyTask = capitan.NewStringKey("task")

	// KeyError is the error message when a load fails.
	KeyError = capitan.NewStringKey("error")

	// KeyOrigin is the cache origin of a successful result.
	KeyOrigin = capitan.NewStringKey("origin")

	// KeyStage is the stage a failure occurred in.
	KeyStage = capitan.NewStringKey("stage")

	// KeyDuration is the elapsed time of a completed load or transition.
	KeyDuration = capitan.NewDurationKey("duration")

	// KeyTransition is the transition kind performing a swap.
	KeyTransition = capitan.NewStringKey("transition")

	// KeyIndicator is the indicator type being installed.
	KeyIndicator = capitan.NewStringKey("indicator")
)
