package slotz

import (
	"context"
	"testing"
)

func newTestRegistry() (*Registry, *ManualFetcher) {
	fetcher := NewManualFetcher()
	return NewRegistry(fetcher).Sync(), fetcher
}

func TestRegistry_BindReturnsSameBinding(t *testing.T) {
	r, _ := newTestRegistry()
	defer r.Close()

	slot := newFakeSlot()
	b1 := r.Bind(slot)
	b2 := r.Bind(slot)

	if b1 != b2 {
		t.Error("expected the same binding for the same slot")
	}
	if r.Len() != 1 {
		t.Errorf("expected 1 binding, got %d", r.Len())
	}
	if !r.Bound(slot) {
		t.Error("expected slot reported as bound")
	}
}

func TestRegistry_CrossSlotIndependence(t *testing.T) {
	r, fetcher := newTestRegistry()
	defer r.Close()
	ctx := context.Background()

	slotA := newFakeSlot()
	slotB := newFakeSlot()

	r.Bind(slotA).Load(ctx, Request{Source: Remote{URL: "https://example.com/a.png"}})
	r.Bind(slotB).Load(ctx, Request{Source: Remote{URL: "https://example.com/b.png"}})

	// B's completion must not disturb A's in-flight load.
	imgB := testImage{name: "b", w: 1, h: 1}
	fetcher.Load(1).Succeed(imgB, OriginCache)

	if slotB.image != imgB {
		t.Errorf("expected B's image applied, got %v", slotB.image)
	}
	if slotA.image != nil {
		t.Errorf("expected A untouched, got %v", slotA.image)
	}
	if _, ok := r.Bind(slotA).CurrentTask(); !ok {
		t.Error("expected A's load still current")
	}

	imgA := testImage{name: "a", w: 1, h: 1}
	fetcher.Load(0).Succeed(imgA, OriginCache)
	if slotA.image != imgA {
		t.Errorf("expected A's image applied, got %v", slotA.image)
	}
}

func TestRegistry_SharedConfigurationApplied(t *testing.T) {
	fetcher := NewManualFetcher()
	metrics := &recordingMetrics{}
	r := NewRegistry(fetcher).
		Sync().
		Metrics(metrics).
		ContentMode(ContentModeAspectFill).
		Transitions(false).
		FailureHistorySize(4).
		Indicator(IndicatorConfig{Type: IndicatorSpinner})
	defer r.Close()

	slot := newFakeSlot()
	b := r.Bind(slot)

	if b.CurrentIndicator() == nil {
		t.Error("expected indicator installed at bind")
	}
	if len(slot.mounted) != 1 {
		t.Errorf("expected indicator view mounted, got %d", len(slot.mounted))
	}

	b.Load(context.Background(), Request{Source: Remote{URL: "https://example.com/a.png"}})
	if slot.mode != ContentModeAspectFill {
		t.Errorf("expected shared content mode, got %s", slot.mode)
	}
	if metrics.started != 1 {
		t.Errorf("expected shared metrics wired, got %d started", metrics.started)
	}
}

func TestRegistry_Release(t *testing.T) {
	r, fetcher := newTestRegistry()
	defer r.Close()

	slot := newFakeSlot()
	r.Bind(slot).Load(context.Background(), Request{Source: Remote{URL: "https://example.com/a.png"}})

	r.Release(slot)

	if r.Bound(slot) {
		t.Error("expected slot unbound after release")
	}
	if r.Len() != 0 {
		t.Errorf("expected 0 bindings, got %d", r.Len())
	}
	if !fetcher.Last().Cancelled() {
		t.Error("expected in-flight fetch cancelled")
	}

	// Rebinding creates a fresh binding.
	b2 := r.Bind(slot)
	if _, ok := b2.CurrentTask(); ok {
		t.Error("expected fresh binding with no current task")
	}
}

func TestRegistry_ReleaseUnknownSlot_NoOp(t *testing.T) {
	r, _ := newTestRegistry()
	defer r.Close()

	r.Release(newFakeSlot())

	if r.Len() != 0 {
		t.Errorf("expected no bindings, got %d", r.Len())
	}
}

func TestRegistry_Close_ReleasesAll(t *testing.T) {
	r, fetcher := newTestRegistry()

	slotA := newFakeSlot()
	slotB := newFakeSlot()
	ctx := context.Background()
	r.Bind(slotA).Load(ctx, Request{Source: Remote{URL: "https://example.com/a.png"}})
	r.Bind(slotB).Load(ctx, Request{Source: Remote{URL: "https://example.com/b.png"}})

	r.Close()

	if r.Len() != 0 {
		t.Errorf("expected all bindings released, got %d", r.Len())
	}
	if !fetcher.Load(0).Cancelled() || !fetcher.Load(1).Cancelled() {
		t.Error("expected all in-flight fetches cancelled")
	}
}

func TestRegistry_SharedTaskSourceOrdersAcrossSlots(t *testing.T) {
	r, _ := newTestRegistry()
	defer r.Close()
	ctx := context.Background()

	hA := r.Bind(newFakeSlot()).Load(ctx, Request{Source: Remote{URL: "https://example.com/a.png"}})
	hB := r.Bind(newFakeSlot()).Load(ctx, Request{Source: Remote{URL: "https://example.com/b.png"}})

	if hB.ID().Compare(hA.ID()) <= 0 {
		t.Error("expected shared source to order identifiers across slots")
	}
}
