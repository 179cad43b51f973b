package slotz

// TaskState represents the lifecycle state of one issued load.
type TaskState int32

const (
	// TaskIssued indicates the load has been issued and is in flight.
	TaskIssued TaskState = iota

	// TaskSuperseded indicates a later load took over the slot before this
	// one completed. Terminal; the slot was left untouched by this task.
	TaskSuperseded

	// TaskSucceeded indicates the load completed and its image was applied.
	TaskSucceeded

	// TaskFailed indicates the load completed with an error.
	TaskFailed
)

// String returns the string representation of the state.
func (s TaskState) String() string {
	switch s {
	case TaskIssued:
		return "issued"
	case TaskSuperseded:
		return "superseded"
	case TaskSucceeded:
		return "succeeded"
	case TaskFailed:
		return "failed"
	default:
		return "unknown"
	}
}
