// Package httpfetch implements the slotz fetch collaborator over HTTP.
//
// Fetched images are kept in a bounded memory cache keyed by URL; cache
// hits are reported with slotz.OriginCache so the coordinator skips the
// transition. Progress is reported whenever the server sends a
// Content-Length. Retry, backoff, and timeout policy — the fetch
// collaborator's responsibility — are composed with pipeline options:
//
//	fetcher := httpfetch.New(decoder,
//	    httpfetch.WithRetry(3),
//	    httpfetch.WithTimeout(10*time.Second),
//	)
package httpfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/zoobzio/pipz"

	"github.com/zoobzio/slotz"
)

// DefaultCacheCapacity is the default number of cached images.
const DefaultCacheCapacity = 256

// payload carries one HTTP fetch through the resilience pipeline.
type payload struct {
	url      string
	data     []byte
	progress func(received, expected int64)
}

// Option wraps the fetch pipeline with resilience middleware.
type Option func(pipz.Chainable[*payload]) pipz.Chainable[*payload]

// WithRetry retries failed fetches immediately, up to maxAttempts total.
func WithRetry(maxAttempts int) Option {
	return func(p pipz.Chainable[*payload]) pipz.Chainable[*payload] {
		return pipz.NewRetry("retry", p, maxAttempts)
	}
}

// WithBackoff retries failed fetches with exponential backoff delays.
func WithBackoff(maxAttempts int, baseDelay time.Duration) Option {
	return func(p pipz.Chainable[*payload]) pipz.Chainable[*payload] {
		return pipz.NewBackoff("backoff", p, maxAttempts, baseDelay)
	}
}

// WithTimeout fails a fetch that takes longer than d, retries included
// when applied outside WithRetry.
func WithTimeout(d time.Duration) Option {
	return func(p pipz.Chainable[*payload]) pipz.Chainable[*payload] {
		return pipz.NewTimeout("timeout", p, d)
	}
}

// Fetcher resolves slotz.Remote sources over HTTP and slotz.Provider
// sources inline. Safe for concurrent use by many bindings.
type Fetcher struct {
	client   *http.Client
	decoder  slotz.Decoder
	pipeline pipz.Chainable[*payload]

	mu       sync.Mutex
	cache    map[string]slotz.Image
	capacity int
}

// New creates a Fetcher. The decoder turns response bytes into images;
// options compose the resilience pipeline around the HTTP request.
func New(decoder slotz.Decoder, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:   http.DefaultClient,
		decoder:  decoder,
		cache:    make(map[string]slotz.Image),
		capacity: DefaultCacheCapacity,
	}
	var pipeline pipz.Chainable[*payload] = pipz.Apply(pipz.Name("get"), f.get)
	for _, opt := range opts {
		pipeline = opt(pipeline)
	}
	f.pipeline = pipeline
	return f
}

// Client sets a custom HTTP client. Must be called before the first Fetch.
func (f *Fetcher) Client(c *http.Client) *Fetcher {
	f.client = c
	return f
}

// CacheCapacity sets the maximum number of cached images. Zero disables
// caching entirely, so every result reports slotz.OriginFresh. Must be
// called before the first Fetch.
func (f *Fetcher) CacheCapacity(n int) *Fetcher {
	f.capacity = n
	return f
}

// Fetch implements slotz.Fetcher. The returned handle cancels the
// in-flight request's context; the completion is still delivered exactly
// once, carrying the cancellation error if the request was cut short.
func (f *Fetcher) Fetch(ctx context.Context, src slotz.Source, cb slotz.Callbacks) slotz.Handle {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		defer cancel()
		res, err := f.resolve(ctx, src, cb)
		if cb.OnComplete != nil {
			cb.OnComplete(res, err)
		}
	}()
	return &handle{cancel: cancel}
}

func (f *Fetcher) resolve(ctx context.Context, src slotz.Source, cb slotz.Callbacks) (slotz.Result, error) {
	switch s := src.(type) {
	case slotz.Provider:
		img, err := s(ctx)
		if err != nil {
			return slotz.Result{}, err
		}
		return slotz.Result{Image: img, Origin: slotz.OriginFresh}, nil

	case slotz.Remote:
		if img, ok := f.cached(s.URL); ok {
			return slotz.Result{Image: img, Origin: slotz.OriginCache}, nil
		}
		p := &payload{url: s.URL, progress: cb.OnProgress}
		out, err := f.pipeline.Process(ctx, p)
		if err != nil {
			return slotz.Result{}, err
		}
		img, err := f.decoder.Decode(out.data)
		if err != nil {
			return slotz.Result{}, fmt.Errorf("decode %s: %w", s.URL, err)
		}
		f.store(s.URL, img)
		return slotz.Result{Image: img, Origin: slotz.OriginFresh}, nil

	default:
		return slotz.Result{}, fmt.Errorf("httpfetch: unsupported source %T", src)
	}
}

// get performs one HTTP request, streaming progress as the body arrives.
func (f *Fetcher) get(ctx context.Context, p *payload) (*payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", p.url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", p.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", p.url, resp.Status)
	}

	expected := resp.ContentLength
	var received int64
	buf := make([]byte, 32*1024)
	p.data = p.data[:0]
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			p.data = append(p.data, buf[:n]...)
			received += int64(n)
			// Progress only when the server declared an expected size.
			if expected >= 0 && p.progress != nil {
				p.progress(received, expected)
			}
		}
		if rerr == io.EOF {
			return p, nil
		}
		if rerr != nil {
			return nil, fmt.Errorf("read %s: %w", p.url, rerr)
		}
	}
}

func (f *Fetcher) cached(url string) (slotz.Image, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	img, ok := f.cache[url]
	return img, ok
}

// store caches the image. When full, an arbitrary entry is evicted; the
// replacement policy is deliberately simple and belongs to this
// collaborator, not the coordinator.
func (f *Fetcher) store(url string, img slotz.Image) {
	if f.capacity <= 0 {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.cache) >= f.capacity {
		for k := range f.cache {
			delete(f.cache, k)
			break
		}
	}
	f.cache[url] = img
}

type handle struct {
	cancel context.CancelFunc
}

func (h *handle) Cancel() {
	h.cancel()
}

// Ensure Fetcher implements slotz.Fetcher.
var _ slotz.Fetcher = (*Fetcher)(nil)
