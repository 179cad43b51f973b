package slotz

import (
	"context"
	"sync"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/pipz"
)

// Registry owns one Binding per slot, created lazily on first use. All
// bindings share a single owner executor, clock, and task identifier
// source, which models one UI thread driving many recycled cells.
// Cross-slot loads stay fully independent; the registry only shares the
// execution context.
type Registry struct {
	fetcher  Fetcher
	pipeline pipz.Chainable[*Render]
	owner    Executor
	clock    clockz.Clock
	ids      *taskSource
	metrics  MetricsProvider

	contentMode  ContentMode
	transitions  bool
	indicatorCfg *IndicatorConfig
	historySize  int
	ownsOwner    bool

	mu       sync.Mutex
	bindings map[Slot]*Binding
}

// NewRegistry creates a Registry. The fetcher and options are shared by
// every binding it creates. Configure with the chainable methods before the
// first Bind.
func NewRegistry(fetcher Fetcher, opts ...Option) *Registry {
	terminal := pipz.Transform(pipz.Name("deliver"), func(_ context.Context, r *Render) *Render {
		return r
	})
	return &Registry{
		fetcher:     fetcher,
		pipeline:    buildPipeline(terminal, opts),
		owner:       NewSerialExecutor(),
		clock:       clockz.RealClock,
		ids:         newTaskSource(clockz.RealClock),
		contentMode: ContentModeAspectFit,
		transitions: true,
		ownsOwner:   true,
		bindings:    make(map[Slot]*Binding),
	}
}

// Executor replaces the shared owner executor. Must be called before the
// first Bind.
func (r *Registry) Executor(e Executor) *Registry {
	if r.ownsOwner {
		if se, ok := r.owner.(*SerialExecutor); ok {
			se.Close()
		}
		r.ownsOwner = false
	}
	r.owner = e
	return r
}

// Sync makes every binding run on the Immediate executor, for deterministic
// tests and single-threaded embedders. Must be called before the first Bind.
func (r *Registry) Sync() *Registry {
	return r.Executor(Immediate)
}

// Clock sets a custom clock shared by every binding. Task identifiers keep
// using the wall clock. Must be called before the first Bind.
func (r *Registry) Clock(clock clockz.Clock) *Registry {
	r.clock = clock
	return r
}

// Metrics sets a metrics provider shared by every binding. Must be called
// before the first Bind.
func (r *Registry) Metrics(provider MetricsProvider) *Registry {
	r.metrics = provider
	return r
}

// ContentMode sets the in-flight content mode for every binding. Must be
// called before the first Bind.
func (r *Registry) ContentMode(mode ContentMode) *Registry {
	r.contentMode = mode
	return r
}

// Transitions sets the transition capability flag for every binding. Must
// be called before the first Bind.
func (r *Registry) Transitions(capable bool) *Registry {
	r.transitions = capable
	return r
}

// Indicator sets the indicator configuration installed on every binding at
// creation. Must be called before the first Bind.
func (r *Registry) Indicator(cfg IndicatorConfig) *Registry {
	r.indicatorCfg = &cfg
	return r
}

// FailureHistorySize sets the per-binding failure history capacity. Must be
// called before the first Bind.
func (r *Registry) FailureHistorySize(n int) *Registry {
	r.historySize = n
	return r
}

// Bind returns the slot's binding, creating it on first use.
func (r *Registry) Bind(slot Slot) *Binding {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.bindings[slot]; ok {
		return b
	}
	b := newBound(slot, r.fetcher, r.pipeline, r.owner, r.clock, r.ids)
	b.contentMode = r.contentMode
	b.transitions = r.transitions
	b.metrics = r.metrics
	b.failures = newFailureRing(r.historySize)
	if r.indicatorCfg != nil {
		b.Indicator(*r.indicatorCfg)
	}
	r.bindings[slot] = b
	return b
}

// Bound reports whether the slot already has a binding.
func (r *Registry) Bound(slot Slot) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.bindings[slot]
	return ok
}

// Len returns the number of live bindings.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bindings)
}

// Release tears down the slot's binding, if any: the in-flight load is
// cancelled and the indicator and placeholder are unmounted on the owner
// executor. Call when a slot is discarded for good, not on recycle —
// recycled slots just issue their next Load.
func (r *Registry) Release(slot Slot) {
	r.mu.Lock()
	b, ok := r.bindings[slot]
	if ok {
		delete(r.bindings, slot)
	}
	r.mu.Unlock()

	if ok {
		r.owner.Do(b.Release)
	}
}

// Close releases every binding and stops the owner executor if the
// registry created it.
func (r *Registry) Close() {
	r.mu.Lock()
	bindings := make([]*Binding, 0, len(r.bindings))
	for _, b := range r.bindings {
		bindings = append(bindings, b)
	}
	r.bindings = make(map[Slot]*Binding)
	r.mu.Unlock()

	done := make(chan struct{})
	r.owner.Do(func() {
		for _, b := range bindings {
			b.Release()
		}
		close(done)
	})
	<-done

	if r.ownsOwner {
		if se, ok := r.owner.(*SerialExecutor); ok {
			se.Close()
		}
	}
}
