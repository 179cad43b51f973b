// Package filefetch implements the slotz fetch collaborator over the
// filesystem.
//
// A slotz.Remote source's URL is a filesystem path (a file:// prefix is
// accepted and stripped). Decoded images are cached per path; an fsnotify
// watcher invalidates the cache entry when the file changes, so an
// untouched file reports slotz.OriginCache while a rewritten one reports
// slotz.OriginFresh and cross-fades in.
package filefetch

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/zoobzio/slotz"
)

// Fetcher resolves slotz.Remote paths from disk and slotz.Provider sources
// inline. Safe for concurrent use by many bindings.
type Fetcher struct {
	decoder slotz.Decoder
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	cache   map[string]slotz.Image
	watched map[string]bool

	closeOnce sync.Once
}

// New creates a Fetcher and starts its invalidation watcher.
func New(decoder slotz.Decoder) (*Fetcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("filefetch: create fsnotify watcher: %w", err)
	}

	f := &Fetcher{
		decoder: decoder,
		watcher: watcher,
		cache:   make(map[string]slotz.Image),
		watched: make(map[string]bool),
	}
	go f.invalidate()
	return f, nil
}

// invalidate drops cache entries for files that change on disk.
func (f *Fetcher) invalidate() {
	for {
		select {
		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			f.mu.Lock()
			delete(f.cache, event.Name)
			f.mu.Unlock()

		case _, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			// Keep watching despite errors; worst case is a stale cache
			// entry reported as a cache hit.
		}
	}
}

// Fetch implements slotz.Fetcher. Reads complete quickly; the handle's
// cancel stops the provider path via context and is otherwise a no-op.
func (f *Fetcher) Fetch(ctx context.Context, src slotz.Source, cb slotz.Callbacks) slotz.Handle {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		defer cancel()
		res, err := f.resolve(ctx, src)
		if cb.OnComplete != nil {
			cb.OnComplete(res, err)
		}
	}()
	return &handle{cancel: cancel}
}

func (f *Fetcher) resolve(ctx context.Context, src slotz.Source) (slotz.Result, error) {
	switch s := src.(type) {
	case slotz.Provider:
		img, err := s(ctx)
		if err != nil {
			return slotz.Result{}, err
		}
		return slotz.Result{Image: img, Origin: slotz.OriginFresh}, nil

	case slotz.Remote:
		path := strings.TrimPrefix(s.URL, "file://")

		f.mu.Lock()
		img, ok := f.cache[path]
		f.mu.Unlock()
		if ok {
			return slotz.Result{Image: img, Origin: slotz.OriginCache}, nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return slotz.Result{}, fmt.Errorf("read %s: %w", path, err)
		}
		img, err = f.decoder.Decode(data)
		if err != nil {
			return slotz.Result{}, fmt.Errorf("decode %s: %w", path, err)
		}

		f.mu.Lock()
		f.cache[path] = img
		if !f.watched[path] {
			// Watch failures are non-fatal: the path just stays uncached.
			if werr := f.watcher.Add(path); werr == nil {
				f.watched[path] = true
			} else {
				delete(f.cache, path)
			}
		}
		f.mu.Unlock()

		return slotz.Result{Image: img, Origin: slotz.OriginFresh}, nil

	default:
		return slotz.Result{}, fmt.Errorf("filefetch: unsupported source %T", src)
	}
}

// Close stops the invalidation watcher.
func (f *Fetcher) Close() error {
	var err error
	f.closeOnce.Do(func() {
		err = f.watcher.Close()
	})
	return err
}

type handle struct {
	cancel context.CancelFunc
}

func (h *handle) Cancel() {
	h.cancel()
}

// Ensure Fetcher implements slotz.Fetcher.
var _ slotz.Fetcher = (*Fetcher)(nil)
