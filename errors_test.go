package slotz

import (
	"errors"
	"strings"
	"testing"

	"github.com/zoobzio/clockz"
)

func TestStaleError_IsNotCurrent(t *testing.T) {
	err := &StaleError{Task: newTaskSource(clockz.RealClock).next()}

	if !errors.Is(err, ErrNotCurrent) {
		t.Error("expected errors.Is(err, ErrNotCurrent)")
	}
	if errors.Is(err, ErrEmptySource) {
		t.Error("expected no match against ErrEmptySource")
	}
}

func TestStaleError_UnwrapsUnderlying(t *testing.T) {
	cause := errors.New("connection reset")
	err := &StaleError{Err: cause}

	if !errors.Is(err, cause) {
		t.Error("expected underlying cause reachable through errors.Is")
	}
	if errors.Unwrap(err) != cause {
		t.Error("expected Unwrap to return the underlying cause")
	}
}

func TestStaleError_Message(t *testing.T) {
	id := newTaskSource(clockz.RealClock).next()

	plain := &StaleError{Task: id}
	if !strings.Contains(plain.Error(), id.String()) {
		t.Errorf("expected message to carry the task id, got %q", plain.Error())
	}

	failed := &StaleError{Task: id, Err: errors.New("boom")}
	if !strings.Contains(failed.Error(), "boom") {
		t.Errorf("expected message to carry the underlying error, got %q", failed.Error())
	}
}

func TestFailureRing_CapsAndOrders(t *testing.T) {
	r := newFailureRing(3)

	for i := 0; i < 5; i++ {
		r.push(Failure{Stage: string(rune('a' + i))})
	}

	got := r.all()
	if len(got) != 3 {
		t.Fatalf("expected ring capped at 3, got %d", len(got))
	}
	want := []string{"c", "d", "e"}
	for i, f := range got {
		if f.Stage != want[i] {
			t.Errorf("entry %d: expected %q, got %q", i, want[i], f.Stage)
		}
	}
}

func TestFailureRing_NilSafe(t *testing.T) {
	var r *failureRing

	r.push(Failure{Stage: "fetch"})
	if r.all() != nil {
		t.Error("expected nil ring to record nothing")
	}

	if newFailureRing(0) != nil {
		t.Error("expected zero capacity to disable the ring")
	}
}

func TestFailureRing_PartialFill(t *testing.T) {
	r := newFailureRing(4)
	r.push(Failure{Stage: "fetch"})
	r.push(Failure{Stage: "pipeline"})

	got := r.all()
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Stage != "fetch" || got[1].Stage != "pipeline" {
		t.Errorf("expected oldest-first order, got %v", got)
	}
}
