package slotz

// Placeholder is content shown by a slot while no real image is set.
// Attach and Detach are called on the owner executor, always in
// detach-old-then-attach-new order.
type Placeholder interface {
	Attach(Slot)
	Detach(Slot)
}

// ImagePlaceholder displays a static image as placeholder content.
type ImagePlaceholder struct {
	Image Image
}

// Attach implements Placeholder.
func (p ImagePlaceholder) Attach(s Slot) {
	s.SetImage(p.Image)
}

// Detach implements Placeholder.
func (p ImagePlaceholder) Detach(s Slot) {
	s.SetImage(nil)
}

// ViewPlaceholder mounts a child view as placeholder content, for
// placeholders that are richer than a single image.
type ViewPlaceholder struct {
	View   View
	Layout Constraints
}

// Attach implements Placeholder.
func (p ViewPlaceholder) Attach(s Slot) {
	s.Mount(p.View, p.Layout)
	p.View.SetHidden(false)
}

// Detach implements Placeholder.
func (p ViewPlaceholder) Detach(s Slot) {
	s.Unmount(p.View)
}

// setPlaceholder replaces the slot's placeholder binding: detach the old
// one if present, attach the new one, or clear the displayed content when
// p is nil. The new value is always recorded, nil included.
func (b *Binding) setPlaceholder(p Placeholder) {
	if b.placeholder != nil {
		b.placeholder.Detach(b.slot)
	}
	if p != nil {
		p.Attach(b.slot)
	} else {
		b.slot.SetImage(nil)
	}
	b.placeholder = p
}

// SetPlaceholder installs placeholder content outside of a load, using the
// same replace semantics Load uses. Must be called on the owner executor.
func (b *Binding) SetPlaceholder(p Placeholder) {
	b.setPlaceholder(p)
}

// CurrentPlaceholder returns the recorded placeholder, or nil.
func (b *Binding) CurrentPlaceholder() Placeholder {
	return b.placeholder
}
