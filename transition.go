package slotz

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// TransitionKind selects how a newly resolved image is applied.
type TransitionKind int

const (
	// TransitionNone always applies the image immediately.
	TransitionNone TransitionKind = iota

	// TransitionCrossFade fades the new image in over Duration.
	TransitionCrossFade

	// TransitionCustom delegates the swap to the Perform hook.
	TransitionCustom
)

// String returns the string representation of the transition kind.
func (k TransitionKind) String() string {
	switch k {
	case TransitionNone:
		return "none"
	case TransitionCrossFade:
		return "crossfade"
	case TransitionCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Transition describes the animated-vs-immediate policy for applying a
// resolved image.
type Transition struct {
	Kind     TransitionKind
	Duration time.Duration

	// Perform carries out a custom swap. It receives the slot, the image,
	// and a complete callback that must be invoked exactly once when the
	// swap finishes. Only consulted for TransitionCustom.
	Perform func(slot Slot, img Image, complete func())

	// Completion runs after the swap finishes, before the caller's
	// completion callback.
	Completion func()
}

// needsTransition is the transition policy. In order: a transition kind of
// none never animates; a slot whose configuration reports no transition
// capability never animates; forceTransition always animates; otherwise
// only freshly fetched images animate — cache hits apply immediately.
func needsTransition(t Transition, force bool, origin Origin, capable bool) bool {
	if t.Kind == TransitionNone {
		return false
	}
	if !capable {
		return false
	}
	if force {
		return true
	}
	return origin == OriginFresh
}

// applyTransition performs the animated content swap. The indicator is
// stopped synchronously first so it cannot flash during the animation, then
// the placeholder binding is cleared, then the swap runs. done fires after
// the transition's own Completion hook.
//
// The built-in kinds swap the content up front and schedule the completion
// on the clock after Duration; actual pixel-level animation is the slot
// implementation's business. Without transition capability this method is
// never reached — needsTransition gates it.
func (b *Binding) applyTransition(ctx context.Context, img Image, t Transition, done func()) {
	if b.indicator != nil {
		b.indicator.Stop()
	}
	b.setPlaceholder(nil)

	finish := func() {
		capitan.Emit(ctx, TransitionApplied,
			KeyTransition.Field(t.Kind.String()),
			KeyDuration.Field(t.Duration),
		)
		if t.Completion != nil {
			t.Completion()
		}
		done()
	}

	if t.Kind == TransitionCustom && t.Perform != nil {
		t.Perform(b.slot, img, finish)
		return
	}

	b.slot.SetImage(img)
	b.slot.SetBackground(ColorClear)

	if t.Duration <= 0 {
		finish()
		return
	}

	timer := b.clock.NewTimer(t.Duration)
	go func() {
		defer timer.Stop()
		<-timer.C()
		b.owner.Do(finish)
	}()
}
