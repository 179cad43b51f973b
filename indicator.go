package slotz

import (
	"sync"
	"time"

	"github.com/zoobzio/clockz"
)

// DefaultPulseInterval is how often the built-in spinner alternates shades.
const DefaultPulseInterval = 500 * time.Millisecond

// IndicatorType selects the busy-indicator variant installed on a slot.
// The set is closed; arbitrary behavior goes through IndicatorCustom.
type IndicatorType int

const (
	// IndicatorNone installs no indicator.
	IndicatorNone IndicatorType = iota

	// IndicatorSpinner installs the built-in pulse indicator, which
	// alternates between two shades on a fixed interval while a load is
	// in flight.
	IndicatorSpinner

	// IndicatorImage installs a static or animated image as the indicator.
	IndicatorImage

	// IndicatorCustom installs a caller-supplied Indicator.
	IndicatorCustom
)

// String returns the string representation of the indicator type.
func (t IndicatorType) String() string {
	switch t {
	case IndicatorNone:
		return "none"
	case IndicatorSpinner:
		return "spinner"
	case IndicatorImage:
		return "image"
	case IndicatorCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// IndicatorConfig describes the indicator a Binding installs on its slot.
type IndicatorConfig struct {
	Type IndicatorType

	// Image backs the IndicatorImage variant.
	Image Image

	// Custom backs the IndicatorCustom variant.
	Custom Indicator

	// Offset shifts the indicator from the slot's center.
	Offset Point

	// Interval overrides DefaultPulseInterval for the spinner variant.
	Interval time.Duration
}

// Indicator is a busy-state visual owned by a Binding. Start and Stop are
// called on the owner executor; implementations must tolerate repeated and
// unmatched calls.
type Indicator interface {
	// Start unhides the view and begins any variant-specific animation.
	Start()

	// Stop hides the view and halts animation and timers.
	Stop()

	// View returns the mountable view.
	View() View

	// Layout returns the centering offset and sizing strategy the view is
	// mounted with.
	Layout() Constraints
}

// buildIndicator constructs the variant for cfg, or nil for IndicatorNone.
func buildIndicator(cfg IndicatorConfig, clock clockz.Clock) Indicator {
	switch cfg.Type {
	case IndicatorSpinner:
		interval := cfg.Interval
		if interval <= 0 {
			interval = DefaultPulseInterval
		}
		return &pulseIndicator{
			view:     &PulseView{hidden: true},
			clock:    clock,
			interval: interval,
			offset:   cfg.Offset,
		}
	case IndicatorImage:
		return &imageIndicator{
			view:   &ImageView{hidden: true, image: cfg.Image},
			offset: cfg.Offset,
		}
	case IndicatorCustom:
		return cfg.Custom
	default:
		return nil
	}
}

// PulseView is the built-in spinner's view. It alternates between a light
// and a dark shade while animating. The shade carries no correctness
// meaning; it exists so platform adapters and tests can observe the
// animation.
type PulseView struct {
	mu     sync.Mutex
	hidden bool
	dark   bool
}

// SetHidden implements View.
func (v *PulseView) SetHidden(hidden bool) {
	v.mu.Lock()
	v.hidden = hidden
	v.mu.Unlock()
}

// Hidden reports whether the view is hidden.
func (v *PulseView) Hidden() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.hidden
}

// Shade returns the current pulse shade.
func (v *PulseView) Shade() Color {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.dark {
		return Color{R: 0xC8, G: 0xC8, B: 0xC8, A: 0xFF}
	}
	return Color{R: 0xE6, G: 0xE6, B: 0xE6, A: 0xFF}
}

func (v *PulseView) toggle() {
	v.mu.Lock()
	v.dark = !v.dark
	v.mu.Unlock()
}

// pulseIndicator drives PulseView on a fixed clock interval.
type pulseIndicator struct {
	view     *PulseView
	clock    clockz.Clock
	interval time.Duration
	offset   Point

	mu      sync.Mutex
	running bool
	stop    chan struct{}
}

func (p *pulseIndicator) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	stop := make(chan struct{})
	p.stop = stop
	p.mu.Unlock()

	p.view.SetHidden(false)

	// The timer must exist before Start returns, so callers advancing a
	// fake clock immediately afterwards are guaranteed to reach it.
	timer := p.clock.NewTimer(p.interval)
	go func() {
		defer timer.Stop()
		for {
			select {
			case <-stop:
				return
			case <-timer.C():
				p.view.toggle()
				timer.Reset(p.interval)
			}
		}
	}()
}

func (p *pulseIndicator) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stop)
	p.stop = nil
	p.mu.Unlock()

	p.view.SetHidden(true)
}

func (p *pulseIndicator) View() View {
	return p.view
}

func (p *pulseIndicator) Layout() Constraints {
	return Constraints{Offset: p.offset, Sizing: SizingIntrinsic}
}

// ImageView is the image indicator's view.
type ImageView struct {
	mu     sync.Mutex
	hidden bool
	image  Image
}

// SetHidden implements View.
func (v *ImageView) SetHidden(hidden bool) {
	v.mu.Lock()
	v.hidden = hidden
	v.mu.Unlock()
}

// Hidden reports whether the view is hidden.
func (v *ImageView) Hidden() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.hidden
}

// Image returns the indicator image.
func (v *ImageView) Image() Image {
	return v.image
}

// imageIndicator shows a static or animated image while a load is in
// flight. Animated images implement Playable and are played on Start.
type imageIndicator struct {
	view   *ImageView
	offset Point
}

func (i *imageIndicator) Start() {
	i.view.SetHidden(false)
	if p, ok := i.view.image.(Playable); ok {
		p.Play()
	}
}

func (i *imageIndicator) Stop() {
	if p, ok := i.view.image.(Playable); ok {
		p.Pause()
	}
	i.view.SetHidden(true)
}

func (i *imageIndicator) View() View {
	return i.view
}

func (i *imageIndicator) Layout() Constraints {
	c := Constraints{Offset: i.offset, Sizing: SizingIntrinsic}
	if i.view.image != nil {
		c.Sizing = SizingFixed
		c.Size = i.view.image.Size()
	}
	return c
}
