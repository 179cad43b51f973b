package slotz

import "github.com/zoobzio/capitan"

// Load lifecycle signals.
var (
	// LoadStarted is emitted when a load is issued against a slot.
	LoadStarted = capitan.NewSignal(
		"slotz.load.started",
		"Load issued against a slot",
	)

	// LoadEmpty is emitted when a load is requested with no source.
	LoadEmpty = capitan.NewSignal(
		"slotz.load.empty",
		"Load requested with no source",
	)

	// LoadSucceeded is emitted when a load's image is applied to its slot.
	LoadSucceeded = capitan.NewSignal(
		"slotz.load.succeeded",
		"Image applied to slot",
	)

	// LoadFailed is emitted when a current load completes with an error.
	LoadFailed = capitan.NewSignal(
		"slotz.load.failed",
		"Load completed with an error",
	)

	// LoadSuperseded is emitted when a completion arrives for a task that
	// is no longer the slot's current one.
	LoadSuperseded = capitan.NewSignal(
		"slotz.load.superseded",
		"Completion arrived for a superseded task",
	)

	// LoadCancelled is emitted when an in-flight task is cancelled.
	LoadCancelled = capitan.NewSignal(
		"slotz.load.cancelled",
		"In-flight task cancelled",
	)
)

// Slot surface signals.
var (
	// TransitionApplied is emitted when an animated transition performs
	// the content swap.
	TransitionApplied = capitan.NewSignal(
		"slotz.transition.applied",
		"Animated transition performed",
	)

	// IndicatorReplaced is emitted when the slot's indicator is installed,
	// replaced, or removed.
	IndicatorReplaced = capitan.NewSignal(
		"slotz.indicator.replaced",
		"Indicator view installed or removed",
	)
)
