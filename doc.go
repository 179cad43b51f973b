// Package slotz binds asynchronous, cancellable image loads to reusable
// visual slots.
//
// A slot is a display surface that may be recycled, such as a cell in a
// scrolling list. Many overlapping loads can be issued against the same slot
// before earlier ones finish; slotz guarantees that only the most recently
// requested load ever mutates the slot, while still reporting every load's
// outcome to its own caller.
//
// # Binding
//
// The core type is Binding, which owns the per-slot coordination state:
// the current task identifier, the in-flight fetch handle, and the installed
// indicator and placeholder.
//
//	binding := slotz.New(slot, fetcher).
//	    Indicator(slotz.IndicatorConfig{Type: slotz.IndicatorSpinner})
//
//	binding.Load(ctx, slotz.Request{
//	    Source:      slotz.Remote{URL: "https://example.com/cover.png"},
//	    Placeholder: slotz.ImagePlaceholder{Image: blank},
//	    OnComplete: func(res slotz.Result, err error) {
//	        if errors.Is(err, slotz.ErrNotCurrent) {
//	            return // a newer load took over the slot
//	        }
//	        // ...
//	    },
//	})
//
// # Task Identity
//
// Every Load issues a strictly increasing task identifier and stores it as
// the slot's current task before any callback is registered. A completion
// whose identifier no longer matches the current one is superseded: the
// slot's visible state is left untouched and the caller receives
// ErrNotCurrent carrying the stale result for diagnostics. This identifier
// comparison, not cancellation, is the correctness mechanism; an old fetch
// may keep running after a newer load starts, and its late completion is
// simply dropped from the slot.
//
// # Owner Executor
//
// All coordinator state and all slot-visible mutations are serialized onto a
// single owner Executor per slot. Fetchers complete on arbitrary goroutines;
// completions are re-posted onto the owner before the currency check so that
// the check and the mutation are atomic with respect to concurrent loads.
// Load itself must be invoked on the owner executor; use Binding.Dispatch to
// hop onto it from other goroutines, or Sync() for single-threaded use and
// deterministic tests.
//
// # Fetchers
//
// The Fetcher interface abstracts the fetch pipeline. The core package
// provides ManualFetcher for testing. Shipped implementations live in pkg/:
//
//   - pkg/httpfetch: HTTP fetcher with memory cache, progress reporting,
//     and retry/backoff/timeout resilience
//   - pkg/filefetch: filesystem fetcher whose cache is invalidated by
//     fsnotify events
//
// # Registry
//
// Registry owns one lazily created Binding per slot, sharing a single owner
// executor and task identifier source across them, which models one UI
// thread driving many recycled cells.
package slotz
