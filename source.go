package slotz

import "context"

// Source describes where a load's image comes from. The set is closed: a
// Remote locator resolved by the fetcher, or an in-memory Provider. A nil
// Source on a Request is the "nothing to load" case and fails synchronously
// with ErrEmptySource.
type Source interface {
	isSource()
}

// Remote locates an image by URL. pkg/httpfetch resolves http and https
// URLs; pkg/filefetch treats the URL as a filesystem path.
type Remote struct {
	URL string
}

func (Remote) isSource() {}

// Provider supplies an image directly, without a fetch pipeline. Fetchers
// invoke it on their own goroutine and report the result as a fresh fetch.
type Provider func(ctx context.Context) (Image, error)

func (Provider) isSource() {}
