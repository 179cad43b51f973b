package slotz

// Point is an offset in slot coordinates.
type Point struct {
	X, Y float64
}

// Size is a width/height pair in slot coordinates.
type Size struct {
	Width, Height float64
}

// Color is an RGBA background color.
type Color struct {
	R, G, B, A uint8
}

// Predefined colors used by the coordinator.
var (
	// ColorClear is the zero background, applied after a successful load.
	ColorClear = Color{}

	// ColorNeutral is the neutral background applied behind fallback images.
	ColorNeutral = Color{R: 0xF5, G: 0xF5, B: 0xF5, A: 0xFF}
)

// ContentMode controls how a slot scales its image.
type ContentMode int

const (
	// ContentModeAspectFit scales the image to fit while preserving aspect.
	ContentModeAspectFit ContentMode = iota

	// ContentModeAspectFill scales the image to fill while preserving aspect.
	ContentModeAspectFill

	// ContentModeFill stretches the image to fill the slot.
	ContentModeFill

	// ContentModeCenter centers the image without scaling.
	ContentModeCenter
)

// String returns the string representation of the content mode.
func (m ContentMode) String() string {
	switch m {
	case ContentModeAspectFit:
		return "aspect-fit"
	case ContentModeAspectFill:
		return "aspect-fill"
	case ContentModeFill:
		return "fill"
	case ContentModeCenter:
		return "center"
	default:
		return "unknown"
	}
}

// Image is a rendered image. Decoding and resizing happen outside this
// package; the coordinator only moves images between fetchers and slots.
type Image interface {
	Size() Size
}

// Scalable is an optional Image capability. Fallback images that implement
// it are scaled to half the slot width before being applied.
type Scalable interface {
	ScaledToWidth(width float64) Image
}

// Playable is an optional Image capability for animated images. The image
// indicator variant plays and pauses the image on Start/Stop.
type Playable interface {
	Play()
	Pause()
}

// Sizing selects how a mounted child view is sized within its slot.
type Sizing int

const (
	// SizingIntrinsic keeps the view's own size.
	SizingIntrinsic Sizing = iota

	// SizingMatchOwner sizes the view to exactly cover the slot.
	SizingMatchOwner

	// SizingFixed applies the fixed size from the constraints.
	SizingFixed
)

// Constraints position a mounted child view: centered on the slot with an
// offset, sized per the strategy.
type Constraints struct {
	Offset Point
	Sizing Sizing
	Size   Size // used when Sizing == SizingFixed
}

// View is a mountable child visual element, such as an indicator or
// placeholder view. Rendering is platform territory; the coordinator only
// needs hide/unhide.
type View interface {
	SetHidden(hidden bool)
}

// Slot is the display surface a Binding coordinates. Implementations wrap
// whatever the platform's reusable visual element is (a list cell, a tile,
// a widget). Slot values are used as map keys by Registry and must be
// comparable; pointers are the usual shape.
//
// Slots are not expected to be safe for concurrent use. The Binding only
// touches its slot on the owner executor.
type Slot interface {
	// Image returns the currently displayed image, or nil.
	Image() Image

	// SetImage replaces the displayed image. Nil clears the content.
	SetImage(Image)

	// Background returns the current background color.
	Background() Color

	// SetBackground replaces the background color.
	SetBackground(Color)

	// ContentMode returns the current content mode.
	ContentMode() ContentMode

	// SetContentMode replaces the content mode.
	SetContentMode(ContentMode)

	// Width returns the slot's current width, used to scale fallback images.
	Width() float64

	// Mount attaches a child view centered per the constraints.
	Mount(View, Constraints)

	// Unmount detaches a previously mounted child view.
	Unmount(View)
}
