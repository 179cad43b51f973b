package slotz

import (
	"context"
	"errors"
	"testing"
)

func TestManualLoad_CompleteExactlyOnce(t *testing.T) {
	f := NewManualFetcher()

	var completions int
	var lastErr error
	f.Fetch(context.Background(), Remote{URL: "https://example.com/a.png"}, Callbacks{
		OnComplete: func(_ Result, err error) {
			completions++
			lastErr = err
		},
	})

	l := f.Last()
	l.Succeed(testImage{name: "a", w: 1, h: 1}, OriginFresh)
	l.Fail(errors.New("late failure"))
	l.Succeed(testImage{name: "b", w: 1, h: 1}, OriginCache)

	if completions != 1 {
		t.Errorf("expected exactly one completion, got %d", completions)
	}
	if lastErr != nil {
		t.Errorf("expected the first delivery to win, got %v", lastErr)
	}
}

func TestManualLoad_CancelDoesNotComplete(t *testing.T) {
	f := NewManualFetcher()

	var completions int
	f.Fetch(context.Background(), Remote{URL: "https://example.com/a.png"}, Callbacks{
		OnComplete: func(Result, error) { completions++ },
	})

	l := f.Last()
	l.Cancel()

	if !l.Cancelled() {
		t.Error("expected load marked cancelled")
	}
	if completions != 0 {
		t.Error("expected cancel not to deliver a completion")
	}

	// A cancelled fetch may still complete; delivery must still work.
	l.Fail(errors.New("aborted"))
	if completions != 1 {
		t.Errorf("expected late completion delivered, got %d", completions)
	}
}

func TestManualLoad_RecordsSource(t *testing.T) {
	f := NewManualFetcher()
	src := Remote{URL: "https://example.com/a.png"}
	f.Fetch(context.Background(), src, Callbacks{})

	if f.Last().Source() != Source(src) {
		t.Errorf("expected recorded source %v, got %v", src, f.Last().Source())
	}
	if f.Len() != 1 {
		t.Errorf("expected 1 load, got %d", f.Len())
	}
}

func TestManualLoad_NilOptionalCallbacks(t *testing.T) {
	f := NewManualFetcher()
	f.Fetch(context.Background(), Remote{URL: "https://example.com/a.png"}, Callbacks{})

	// Must not panic with no callbacks registered.
	l := f.Last()
	l.Progress(10, 100)
	l.Partial(testImage{name: "half", w: 1, h: 1})
	l.Succeed(testImage{name: "a", w: 1, h: 1}, OriginFresh)
}

func TestFetcherFunc(t *testing.T) {
	called := false
	var fetcher Fetcher = FetcherFunc(func(_ context.Context, _ Source, cb Callbacks) Handle {
		called = true
		cb.OnComplete(Result{Image: testImage{name: "a", w: 1, h: 1}, Origin: OriginCache}, nil)
		return noopHandle{}
	})

	var res Result
	fetcher.Fetch(context.Background(), Remote{URL: "x"}, Callbacks{
		OnComplete: func(r Result, _ error) { res = r },
	})

	if !called {
		t.Fatal("expected adapter to invoke the function")
	}
	if res.Origin != OriginCache {
		t.Errorf("expected cache origin, got %s", res.Origin)
	}
}

type noopHandle struct{}

func (noopHandle) Cancel() {}

func TestDecoderFunc(t *testing.T) {
	var decoder Decoder = DecoderFunc(func(data []byte) (Image, error) {
		return testImage{name: string(data), w: 1, h: 1}, nil
	})

	img, err := decoder.Decode([]byte("payload"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.(testImage).name != "payload" {
		t.Errorf("expected decoded payload, got %v", img)
	}
}
