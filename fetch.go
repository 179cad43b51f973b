package slotz

import (
	"context"
	"sync"
)

// Origin tags a successful result with where the image came from. It feeds
// the transition policy: freshly fetched images cross-fade in, cache hits
// appear immediately.
type Origin int

const (
	// OriginFresh indicates the image was fetched from its source.
	OriginFresh Origin = iota

	// OriginCache indicates the image was served from a cache.
	OriginCache
)

// String returns the string representation of the origin.
func (o Origin) String() string {
	switch o {
	case OriginFresh:
		return "fresh"
	case OriginCache:
		return "cache"
	default:
		return "unknown"
	}
}

// Result is a successful fetch outcome.
type Result struct {
	Image  Image
	Origin Origin
}

// Callbacks carries the notification hooks a Binding hands to a Fetcher.
// OnComplete must be invoked exactly once per Fetch call; OnProgress and
// OnPartial are optional and may be nil. Fetchers may invoke all of them
// from arbitrary goroutines; the Binding re-posts onto the owner executor
// before touching any state.
type Callbacks struct {
	// OnProgress reports received and expected byte counts. Only called
	// when the source reports an expected size; zero or more calls before
	// the single completion.
	OnProgress func(received, expected int64)

	// OnPartial delivers an incremental render before the final completion.
	OnPartial func(Image)

	// OnComplete delivers the single terminal outcome. Exactly one of the
	// result or the error is meaningful.
	OnComplete func(Result, error)
}

// Handle is a best-effort cancellation handle on an in-flight fetch.
// Cancel may be a no-op; the fetch may still complete afterwards, and load
// correctness never depends on cancellation succeeding.
type Handle interface {
	Cancel()
}

// Fetcher is the external fetch collaborator. Retry, timeout, and cache
// replacement policy live here, not in the coordinator.
type Fetcher interface {
	// Fetch resolves the source and delivers the outcome through cb.
	// The returned handle must be non-nil.
	Fetch(ctx context.Context, src Source, cb Callbacks) Handle
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, src Source, cb Callbacks) Handle

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, src Source, cb Callbacks) Handle {
	return f(ctx, src, cb)
}

// Decoder turns raw bytes into an Image. Image decoding is platform
// territory; the shipped fetchers take a Decoder from the embedder.
type Decoder interface {
	Decode(data []byte) (Image, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(data []byte) (Image, error)

// Decode calls f.
func (f DecoderFunc) Decode(data []byte) (Image, error) {
	return f(data)
}

// ManualFetcher is an in-process Fetcher driven entirely by the caller.
// Each Fetch records a ManualLoad; the test (or embedder) then delivers
// progress, partial renders, and the completion by hand, in any
// interleaving. This is the deterministic stand-in for a real pipeline.
type ManualFetcher struct {
	mu    sync.Mutex
	loads []*ManualLoad
}

// NewManualFetcher creates an empty ManualFetcher.
func NewManualFetcher() *ManualFetcher {
	return &ManualFetcher{}
}

// Fetch records the load and returns it as the cancellation handle.
func (f *ManualFetcher) Fetch(_ context.Context, src Source, cb Callbacks) Handle {
	l := &ManualLoad{src: src, cb: cb}
	f.mu.Lock()
	f.loads = append(f.loads, l)
	f.mu.Unlock()
	return l
}

// Len returns the number of loads issued so far.
func (f *ManualFetcher) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.loads)
}

// Load returns the i-th issued load, oldest first.
func (f *ManualFetcher) Load(i int) *ManualLoad {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads[i]
}

// Last returns the most recently issued load.
func (f *ManualFetcher) Last() *ManualLoad {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads[len(f.loads)-1]
}

// ManualLoad is one recorded fetch awaiting manual delivery.
type ManualLoad struct {
	src Source
	cb  Callbacks

	mu        sync.Mutex
	cancelled bool
	done      bool
}

// Source returns the source the load was issued for.
func (l *ManualLoad) Source() Source {
	return l.src
}

// Cancel marks the load cancelled. Delivery methods still work afterwards;
// a cancelled fetch completing late is exactly the race this package
// exists to contain.
func (l *ManualLoad) Cancel() {
	l.mu.Lock()
	l.cancelled = true
	l.mu.Unlock()
}

// Cancelled reports whether Cancel was called.
func (l *ManualLoad) Cancelled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cancelled
}

// Progress delivers a progress notification.
func (l *ManualLoad) Progress(received, expected int64) {
	if l.cb.OnProgress != nil {
		l.cb.OnProgress(received, expected)
	}
}

// Partial delivers an incremental render.
func (l *ManualLoad) Partial(img Image) {
	if l.cb.OnPartial != nil {
		l.cb.OnPartial(img)
	}
}

// Succeed delivers a successful completion. Delivery after the first
// completion is dropped, preserving the exactly-once contract.
func (l *ManualLoad) Succeed(img Image, origin Origin) {
	l.complete(Result{Image: img, Origin: origin}, nil)
}

// Fail delivers a failed completion. Delivery after the first completion is
// dropped, preserving the exactly-once contract.
func (l *ManualLoad) Fail(err error) {
	l.complete(Result{}, err)
}

func (l *ManualLoad) complete(res Result, err error) {
	l.mu.Lock()
	if l.done {
		l.mu.Unlock()
		return
	}
	l.done = true
	l.mu.Unlock()

	if l.cb.OnComplete != nil {
		l.cb.OnComplete(res, err)
	}
}
