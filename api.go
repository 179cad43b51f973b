package slotz

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/pipz"
)

// Request describes one load issued against a slot.
type Request struct {
	// Source locates the image. Nil fails synchronously with
	// ErrEmptySource; the placeholder is still installed.
	Source Source

	// Placeholder is shown while the load is in flight, subject to
	// KeepCurrent.
	Placeholder Placeholder

	// Fallback is rendered centered at half the slot width with a neutral
	// background when the load fails. The failure is still reported.
	Fallback Image

	// KeepCurrent leaves the currently displayed image or placeholder in
	// place while the new load runs, instead of installing Placeholder.
	// If the slot shows neither, Placeholder is installed regardless.
	KeepCurrent bool

	// ForceTransition animates the apply even for cache hits.
	ForceTransition bool

	// Transition is the animated-vs-immediate policy for applying the
	// resolved image.
	Transition Transition

	// OnProgress receives id-guarded progress notifications. Calls for
	// superseded tasks are silently dropped.
	OnProgress func(received, expected int64)

	// OnPartial receives id-guarded incremental renders after they have
	// been applied to the slot. Calls for superseded tasks are silently
	// dropped.
	OnPartial func(Image)

	// OnComplete receives the load's terminal outcome, exactly once per
	// issued load: (Result, nil) on success, (stale result, *StaleError)
	// when superseded, (Result{}, err) otherwise.
	OnComplete func(Result, error)
}

// Binding coordinates loads for a single slot. It owns the per-slot record
// the race guard lives in: the current task identifier, the in-flight fetch
// handle, and the installed indicator and placeholder.
//
// All methods except the pre-use chainable configuration must run on the
// owner executor; see Dispatch.
type Binding struct {
	slot     Slot
	fetcher  Fetcher
	pipeline pipz.Chainable[*Render]
	owner    Executor
	clock    clockz.Clock
	ids      *taskSource
	metrics  MetricsProvider

	contentMode ContentMode
	transitions bool
	ownsOwner   bool

	indicator   Indicator
	placeholder Placeholder
	current     TaskID
	handle      *TaskHandle
	failures    *failureRing
}

// New creates a Binding for one slot. The fetcher resolves sources; the
// options build the render pipeline.
//
// The binding starts with its own SerialExecutor as owner, transition
// capability on, and aspect-fit content mode. Configure with the chainable
// methods before the first Load:
//
//	binding := slotz.New(slot, fetcher).
//	    Indicator(slotz.IndicatorConfig{Type: slotz.IndicatorSpinner}).
//	    Metrics(provider)
func New(slot Slot, fetcher Fetcher, opts ...Option) *Binding {
	terminal := pipz.Transform(pipz.Name("deliver"), func(_ context.Context, r *Render) *Render {
		return r
	})
	return &Binding{
		slot:        slot,
		fetcher:     fetcher,
		pipeline:    buildPipeline(terminal, opts),
		owner:       NewSerialExecutor(),
		clock:       clockz.RealClock,
		ids:         newTaskSource(clockz.RealClock),
		contentMode: ContentModeAspectFit,
		transitions: true,
		ownsOwner:   true,
	}
}

// newBound creates a Binding owned by a Registry, sharing its executor,
// clock, and task identifier source.
func newBound(slot Slot, fetcher Fetcher, pipeline pipz.Chainable[*Render], owner Executor, clock clockz.Clock, ids *taskSource) *Binding {
	return &Binding{
		slot:        slot,
		fetcher:     fetcher,
		pipeline:    pipeline,
		owner:       owner,
		clock:       clock,
		ids:         ids,
		contentMode: ContentModeAspectFit,
		transitions: true,
	}
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Executor replaces the owner executor. Must be called before the first
// Load.
func (b *Binding) Executor(e Executor) *Binding {
	if b.ownsOwner {
		if se, ok := b.owner.(*SerialExecutor); ok {
			se.Close()
		}
		b.ownsOwner = false
	}
	b.owner = e
	return b
}

// Sync makes the binding run on the Immediate executor: loads and
// completions execute inline on the calling goroutine. Correct only when a
// single goroutine drives both, which is the shape of deterministic tests
// and single-threaded embedders. Must be called before the first Load.
func (b *Binding) Sync() *Binding {
	return b.Executor(Immediate)
}

// Clock sets a custom clock for timers and durations. Use this with
// clockz.FakeClock for deterministic transition and spinner testing.
// Task identifiers keep using the wall clock; they only need to be
// monotonic, never test-controlled. Must be called before the first Load
// and before Indicator.
func (b *Binding) Clock(clock clockz.Clock) *Binding {
	b.clock = clock
	return b
}

// Metrics sets a metrics provider for observability integration.
// Must be called before the first Load.
func (b *Binding) Metrics(provider MetricsProvider) *Binding {
	b.metrics = provider
	return b
}

// ContentMode sets the content mode Load applies to the slot while a load
// is in flight. Default: aspect-fit. Must be called before the first Load.
func (b *Binding) ContentMode(mode ContentMode) *Binding {
	b.contentMode = mode
	return b
}

// Transitions sets the transition capability flag. When off, every apply
// is immediate regardless of the request's transition. Default: on.
// Must be called before the first Load.
func (b *Binding) Transitions(capable bool) *Binding {
	b.transitions = capable
	return b
}

// FailureHistorySize sets the number of recent load failures to retain,
// readable via Failures. Use 0 (default) to disable. Must be called before
// the first Load.
func (b *Binding) FailureHistorySize(n int) *Binding {
	b.failures = newFailureRing(n)
	return b
}

// Indicator replaces the slot's busy indicator. Any previously installed
// indicator view is stopped and unmounted first, so the slot never carries
// more than one. The new view is mounted centered with the configured
// offset and sizing, hidden until a load starts it. IndicatorNone removes
// without replacement.
//
// Chainable, and also safe to call between loads at runtime on the owner
// executor.
func (b *Binding) Indicator(cfg IndicatorConfig) *Binding {
	if b.indicator != nil {
		b.indicator.Stop()
		b.slot.Unmount(b.indicator.View())
		b.indicator = nil
	}
	ind := buildIndicator(cfg, b.clock)
	if ind != nil {
		v := ind.View()
		b.slot.Mount(v, ind.Layout())
		v.SetHidden(true)
		b.indicator = ind
	}
	capitan.Emit(context.Background(), IndicatorReplaced,
		KeyIndicator.Field(cfg.Type.String()),
	)
	return b
}

// -----------------------------------------------------------------------------
// Accessors
// -----------------------------------------------------------------------------

// CurrentTask returns the identifier of the in-flight load and true, or the
// zero identifier and false when nothing is in flight.
func (b *Binding) CurrentTask() (TaskID, bool) {
	return b.current, !b.current.IsZero()
}

// CurrentIndicator returns the installed indicator, or nil.
func (b *Binding) CurrentIndicator() Indicator {
	return b.indicator
}

// Failures returns the recent load failure history, oldest first. Nil
// unless FailureHistorySize was set.
func (b *Binding) Failures() []Failure {
	return b.failures.all()
}

// Slot returns the slot this binding coordinates.
func (b *Binding) Slot() Slot {
	return b.slot
}

// Dispatch posts fn onto the owner executor. Use it to reach Load, Cancel,
// and the other owner-context methods from arbitrary goroutines.
func (b *Binding) Dispatch(fn func()) {
	b.owner.Do(fn)
}

// -----------------------------------------------------------------------------
// Coordination
// -----------------------------------------------------------------------------

// Load issues a new load against the slot, superseding any in-flight one.
// Must be called on the owner executor.
//
// The sequence: decide placeholder replacement, set the content mode, start
// the indicator, issue and store the task identifier, register id-guarded
// callbacks, hand the source to the fetcher. The identifier is stored
// before any callback is registered, so a completion firing at any point —
// including synchronously inside Fetch — can always be validated.
//
// With a nil source nothing is fetched: the placeholder is still installed,
// the current task identifier is cleared, the fallback (if any) renders,
// and the completion callback receives ErrEmptySource synchronously.
// Returns nil in that case, otherwise a handle for the issued task.
//
// The old in-flight fetch, if any, is not cancelled — its completion simply
// fails the currency check. Cancellation stays the caller's decision via
// Cancel or the returned handle.
func (b *Binding) Load(ctx context.Context, req Request) *TaskHandle {
	if req.Source == nil {
		b.setPlaceholder(req.Placeholder)
		b.current = TaskID{}
		b.handle = nil
		capitan.Emit(ctx, LoadEmpty)
		if req.Fallback != nil {
			b.renderFallback(req.Fallback)
		}
		if req.OnComplete != nil {
			req.OnComplete(Result{}, ErrEmptySource)
		}
		return nil
	}

	if !req.KeepCurrent || (b.slot.Image() == nil && b.placeholder == nil) {
		b.setPlaceholder(req.Placeholder)
	}
	b.slot.SetContentMode(b.contentMode)
	if b.indicator != nil {
		b.indicator.Start()
	}

	id := b.ids.next()
	b.current = id
	h := &TaskHandle{id: id, binding: b}
	h.setState(TaskIssued)
	b.handle = h
	start := b.clock.Now()

	cb := Callbacks{
		OnComplete: func(res Result, err error) {
			b.owner.Do(func() {
				b.finish(ctx, h, req, res, err, start)
			})
		},
		OnPartial: func(img Image) {
			b.owner.Do(func() {
				if b.current != id {
					return
				}
				b.slot.SetImage(img)
				if req.OnPartial != nil {
					req.OnPartial(img)
				}
			})
		},
	}
	if progress := req.OnProgress; progress != nil {
		cb.OnProgress = func(received, expected int64) {
			b.owner.Do(func() {
				if b.current != id {
					return
				}
				progress(received, expected)
			})
		}
	}

	capitan.Emit(ctx, LoadStarted, KeyTask.Field(id.String()))
	if b.metrics != nil {
		b.metrics.OnLoadStarted()
	}

	h.fetch = b.fetcher.Fetch(ctx, req.Source, cb)
	return h
}

// Cancel requests best-effort cancellation of the in-flight load and clears
// the current task, so a late completion resolves as superseded. A no-op
// when nothing is in flight. Indicator and placeholder state are untouched;
// cancellation stops the pending work, it does not reset the view. Must be
// called on the owner executor.
func (b *Binding) Cancel() {
	if b.handle == nil {
		return
	}
	b.handle.Cancel()
}

// Release tears the binding down for slot discard: cancels any in-flight
// load, unmounts the indicator, detaches the placeholder, and closes the
// owner executor if the binding created it. Must be called on the owner
// executor (Registry.Release handles this).
func (b *Binding) Release() {
	b.Cancel()
	if b.indicator != nil {
		b.indicator.Stop()
		b.slot.Unmount(b.indicator.View())
		b.indicator = nil
	}
	if b.placeholder != nil {
		b.placeholder.Detach(b.slot)
		b.placeholder = nil
	}
	if b.ownsOwner {
		if se, ok := b.owner.(*SerialExecutor); ok {
			se.Close()
		}
	}
}

// finish resolves one task's completion on the owner executor. The
// indicator stops unconditionally; everything else depends on whether the
// task is still current.
func (b *Binding) finish(ctx context.Context, h *TaskHandle, req Request, res Result, err error, start time.Time) {
	if b.indicator != nil {
		b.indicator.Stop()
	}

	if b.current != h.id {
		h.setState(TaskSuperseded)
		capitan.Emit(ctx, LoadSuperseded, KeyTask.Field(h.id.String()))
		if b.metrics != nil {
			b.metrics.OnLoadSuperseded()
		}
		if req.OnComplete != nil {
			req.OnComplete(res, &StaleError{Task: h.id, Result: res, Err: err})
		}
		return
	}

	b.current = TaskID{}
	b.handle = nil

	if err != nil {
		b.fail(ctx, h, req, res, err, "fetch", start)
		return
	}

	processed, perr := b.pipeline.Process(ctx, &Render{Task: h.id, Image: res.Image, Origin: res.Origin})
	if perr != nil {
		b.fail(ctx, h, req, res, perr, "pipeline", start)
		return
	}
	final := Result{Image: processed.Image, Origin: res.Origin}

	deliver := func() {
		h.setState(TaskSucceeded)
		capitan.Emit(ctx, LoadSucceeded,
			KeyTask.Field(h.id.String()),
			KeyOrigin.Field(final.Origin.String()),
			KeyDuration.Field(b.clock.Since(start)),
		)
		if b.metrics != nil {
			b.metrics.OnLoadSuccess(final.Origin, b.clock.Since(start))
		}
		if req.OnComplete != nil {
			req.OnComplete(final, nil)
		}
	}

	if needsTransition(req.Transition, req.ForceTransition, final.Origin, b.transitions) {
		b.applyTransition(ctx, final.Image, req.Transition, deliver)
		return
	}

	b.setPlaceholder(nil)
	b.slot.SetImage(final.Image)
	b.slot.SetBackground(ColorClear)
	deliver()
}

// fail resolves a current task's failure: fallback rendering is a side
// effect, not error suppression — the failure still reaches the caller.
func (b *Binding) fail(ctx context.Context, h *TaskHandle, req Request, res Result, err error, stage string, start time.Time) {
	h.setState(TaskFailed)
	if req.Fallback != nil {
		b.renderFallback(req.Fallback)
	}
	b.failures.push(Failure{Task: h.id, Stage: stage, Err: err, At: b.clock.Now()})
	capitan.Emit(ctx, LoadFailed,
		KeyTask.Field(h.id.String()),
		KeyStage.Field(stage),
		KeyError.Field(err.Error()),
	)
	if b.metrics != nil {
		b.metrics.OnLoadFailure(stage, b.clock.Since(start))
	}
	if req.OnComplete != nil {
		req.OnComplete(res, err)
	}
}

// renderFallback shows the fallback image centered at half the slot width
// on a neutral background.
func (b *Binding) renderFallback(img Image) {
	b.slot.SetContentMode(ContentModeCenter)
	b.slot.SetBackground(ColorNeutral)
	if s, ok := img.(Scalable); ok {
		img = s.ScaledToWidth(b.slot.Width() / 2)
	}
	b.slot.SetImage(img)
}
