package slotz

import (
	"context"
	crand "crypto/rand"
	"sync"
	"sync/atomic"

	"github.com/oklog/ulid/v2"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// TaskID identifies a single load issued against a slot. Identifiers are
// ULIDs: millisecond timestamp plus monotonic entropy, so each generator
// produces strictly increasing values as long as its clock never goes
// backwards. Equality against the slot's current identifier is the sole
// correctness primitive; ordering exists only for diagnostics.
//
// The zero TaskID means "no task".
type TaskID ulid.ULID

// IsZero reports whether the identifier is unset.
func (id TaskID) IsZero() bool {
	return id == TaskID{}
}

// String returns the canonical ULID encoding.
func (id TaskID) String() string {
	return ulid.ULID(id).String()
}

// Compare returns -1, 0, or 1 depending on whether id is ordered before,
// equal to, or after other.
func (id TaskID) Compare(other TaskID) int {
	return ulid.ULID(id).Compare(ulid.ULID(other))
}

// taskSource issues TaskIDs. Safe for concurrent use from multiple
// bindings; a Registry shares one source across all of its bindings.
type taskSource struct {
	mu      sync.Mutex
	clock   clockz.Clock
	entropy *ulid.MonotonicEntropy
}

func newTaskSource(clock clockz.Clock) *taskSource {
	return &taskSource{
		clock:   clock,
		entropy: ulid.Monotonic(crand.Reader, 0),
	}
}

// next returns an identifier strictly greater than every identifier this
// source has returned before.
func (s *taskSource) next() TaskID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return TaskID(ulid.MustNew(ulid.Timestamp(s.clock.Now()), s.entropy))
}

// TaskHandle represents one issued load. It is returned by Binding.Load and
// tracks the task through the issued → {superseded, succeeded, failed}
// state machine.
type TaskHandle struct {
	id      TaskID
	binding *Binding
	state   atomic.Int32

	// fetch is the collaborator's cancellable handle. Set once the fetch
	// has been started; nil for the brief window before, or forever if the
	// fetch completed synchronously.
	fetch Handle
}

// ID returns the task identifier.
func (h *TaskHandle) ID() TaskID {
	return h.id
}

// State returns the task's current state.
func (h *TaskHandle) State() TaskState {
	return TaskState(h.state.Load())
}

func (h *TaskHandle) setState(s TaskState) {
	h.state.Store(int32(s))
}

// Cancel requests best-effort cancellation of this task. If the task is
// still the slot's current one, the slot's current identifier is cleared so
// a late completion resolves as superseded. Indicator and placeholder state
// are untouched; cancellation stops the pending work, it does not reset the
// view. Must be called on the binding's owner executor.
func (h *TaskHandle) Cancel() {
	b := h.binding
	if b.current == h.id {
		b.current = TaskID{}
		b.handle = nil
		capitan.Emit(context.Background(), LoadCancelled, KeyTask.Field(h.id.String()))
		if b.metrics != nil {
			b.metrics.OnLoadCancelled()
		}
	}
	if h.fetch != nil {
		h.fetch.Cancel()
	}
}
