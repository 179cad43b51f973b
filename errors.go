package slotz

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors delivered through completion callbacks. Underlying fetch
// errors are surfaced unchanged alongside these.
var (
	// ErrEmptySource is reported synchronously when Load is called with a
	// nil source. No task is issued and no indicator is started.
	ErrEmptySource = errors.New("slotz: load request has no source")

	// ErrNotCurrent is reported when a task's completion arrives after a
	// later load took over the slot. Match with errors.Is; the concrete
	// error is a *StaleError carrying the stale outcome.
	ErrNotCurrent = errors.New("slotz: task superseded before completion")
)

// StaleError reports a superseded completion. The slot was left untouched;
// the stale outcome is retained for diagnostics.
type StaleError struct {
	// Task is the superseded task's identifier.
	Task TaskID

	// Result is the stale success payload, if the task itself succeeded.
	Result Result

	// Err is the task's own failure, if it failed before being noticed
	// as stale.
	Err error
}

// Error implements the error interface.
func (e *StaleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("slotz: task %s superseded (failed with: %v)", e.Task, e.Err)
	}
	return fmt.Sprintf("slotz: task %s superseded", e.Task)
}

// Is reports true for ErrNotCurrent, so callers can use errors.Is without
// reaching for the concrete type.
func (e *StaleError) Is(target error) bool {
	return target == ErrNotCurrent
}

// Unwrap returns the stale task's own failure, if any.
func (e *StaleError) Unwrap() error {
	return e.Err
}

// Failure is one recorded load failure, kept by the binding's error
// history ring.
type Failure struct {
	Task  TaskID
	Stage string // "fetch" or "pipeline"
	Err   error
	At    time.Time
}

// failureRing is a ring buffer of recent load failures.
type failureRing struct {
	entries []Failure
	size    int
	head    int
	count   int
}

// newFailureRing creates a ring with the given capacity. Zero disables it.
func newFailureRing(size int) *failureRing {
	if size <= 0 {
		return nil
	}
	return &failureRing{
		entries: make([]Failure, size),
		size:    size,
	}
}

func (r *failureRing) push(f Failure) {
	if r == nil {
		return
	}
	r.entries[r.head] = f
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// all returns the recorded failures, oldest first.
func (r *failureRing) all() []Failure {
	if r == nil || r.count == 0 {
		return nil
	}
	result := make([]Failure, r.count)
	start := (r.head - r.count + r.size) % r.size
	for i := 0; i < r.count; i++ {
		result[i] = r.entries[(start+i)%r.size]
	}
	return result
}
