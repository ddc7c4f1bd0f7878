package wr

import "fmt"

// DisplayListBuilder accumulates primitives for one content unit.
//
// Primitives are append-only: paint order inside the list is the order of
// the Push calls. Finish seals the builder and returns the immutable
// DisplayList; every later call fails with ErrListSealed.
//
// A builder is not safe for concurrent use. The sealed DisplayList is.
type DisplayListBuilder struct {
	items  []Primitive
	sealed bool
}

// NewDisplayListBuilder creates an empty builder.
func NewDisplayListBuilder() *DisplayListBuilder {
	return &DisplayListBuilder{}
}

// Len returns the number of primitives appended so far.
func (b *DisplayListBuilder) Len() int {
	return len(b.items)
}

// Sealed reports whether Finish has been called.
func (b *DisplayListBuilder) Sealed() bool {
	return b.sealed
}

// PushRect appends a solid rectangle.
func (b *DisplayListBuilder) PushRect(level StackingLevel, bounds Rect, clip ClipRegion, color ColorF) error {
	item, err := b.item(level, bounds, clip)
	if err != nil {
		return err
	}
	b.items = append(b.items, &RectPrimitive{Item: item, Color: color})
	return nil
}

// PushText appends a run of positioned glyphs drawn with font at size.
// The glyph slice is copied.
func (b *DisplayListBuilder) PushText(level StackingLevel, bounds Rect, clip ClipRegion,
	glyphs []GlyphInstance, font FontKey, color ColorF, size Au) error {
	item, err := b.item(level, bounds, clip)
	if err != nil {
		return err
	}
	if size < 0 {
		return fmt.Errorf("wr: text size %d: %w", size, ErrInvalidGeometry)
	}
	for i, g := range glyphs {
		if !finite(g.X) || !finite(g.Y) {
			return fmt.Errorf("wr: glyph %d position: %w", i, ErrInvalidGeometry)
		}
	}
	b.items = append(b.items, &TextPrimitive{
		Item:   item,
		Font:   font,
		Color:  color,
		Size:   size,
		glyphs: append([]GlyphInstance(nil), glyphs...),
	})
	return nil
}

// PushImage appends an image tiled over bounds, one tile per stretchSize.
func (b *DisplayListBuilder) PushImage(level StackingLevel, bounds Rect, clip ClipRegion,
	stretchSize Size, image ImageKey) error {
	item, err := b.item(level, bounds, clip)
	if err != nil {
		return err
	}
	stretch := Rect{Size: stretchSize}
	if !stretch.valid() || stretchSize.IsEmpty() {
		return &GeometryError{Field: "stretch size", Rect: stretch}
	}
	b.items = append(b.items, &ImagePrimitive{Item: item, StretchSize: stretchSize, Image: image})
	return nil
}

// PushGradient appends a linear gradient from start to end.
//
// Stops must be non-empty, with offsets in [0, 1] that never decrease.
// Violations are rejected with ErrInvalidGradientStops; stops are never
// clamped. The slice is copied.
func (b *DisplayListBuilder) PushGradient(level StackingLevel, bounds Rect, clip ClipRegion,
	start, end Point, stops []GradientStop) error {
	item, err := b.item(level, bounds, clip)
	if err != nil {
		return err
	}
	if !finite(start.X) || !finite(start.Y) || !finite(end.X) || !finite(end.Y) {
		return fmt.Errorf("wr: gradient line: %w", ErrInvalidGeometry)
	}
	if err := validateStops(stops); err != nil {
		return err
	}
	b.items = append(b.items, &GradientPrimitive{
		Item:  item,
		Start: start,
		End:   end,
		stops: append([]GradientStop(nil), stops...),
	})
	return nil
}

// PushBorder appends a border with four sides and four corner radii.
func (b *DisplayListBuilder) PushBorder(level StackingLevel, bounds Rect, clip ClipRegion,
	left, top, right, bottom BorderSide, radius BorderRadius) error {
	item, err := b.item(level, bounds, clip)
	if err != nil {
		return err
	}
	for _, s := range [4]BorderSide{left, top, right, bottom} {
		if !finite(s.Width) || s.Width < 0 {
			return fmt.Errorf("wr: border width %g: %w", s.Width, ErrInvalidGeometry)
		}
	}
	for _, r := range [4]Size{radius.TopLeft, radius.TopRight, radius.BottomLeft, radius.BottomRight} {
		if rr := (Rect{Size: r}); !rr.valid() {
			return &GeometryError{Field: "corner radius", Rect: rr}
		}
	}
	b.items = append(b.items, &BorderPrimitive{
		Item:   item,
		Left:   left,
		Top:    top,
		Right:  right,
		Bottom: bottom,
		Radius: radius,
	})
	return nil
}

// Finish seals the builder and returns the immutable list.
func (b *DisplayListBuilder) Finish() (*DisplayList, error) {
	if b.sealed {
		return nil, ErrListSealed
	}
	b.sealed = true
	dl := &DisplayList{items: b.items}
	for _, p := range b.items {
		dl.bounds = dl.bounds.Union(p.Base().Bounds)
	}
	return dl, nil
}

func (b *DisplayListBuilder) item(level StackingLevel, bounds Rect, clip ClipRegion) (Item, error) {
	if b.sealed {
		return Item{}, ErrListSealed
	}
	if !bounds.valid() {
		return Item{}, &GeometryError{Field: "bounds", Rect: bounds}
	}
	if !clip.Main.valid() {
		return Item{}, &GeometryError{Field: "clip", Rect: clip.Main}
	}
	return Item{Level: level, Bounds: bounds, Clip: clip}, nil
}

func validateStops(stops []GradientStop) error {
	if len(stops) == 0 {
		return &StopsError{Index: -1, Reason: "empty"}
	}
	prev := float32(0)
	for i, s := range stops {
		switch {
		case !finite(s.Offset) || s.Offset < 0 || s.Offset > 1:
			return &StopsError{Index: i, Offset: s.Offset, Reason: "outside [0, 1]"}
		case s.Offset < prev:
			return &StopsError{Index: i, Offset: s.Offset, Reason: "decreases"}
		}
		prev = s.Offset
	}
	return nil
}

// DisplayList is a sealed, immutable sequence of primitives.
// It is safe for concurrent reads.
type DisplayList struct {
	items  []Primitive
	bounds Rect
}

// Len returns the number of primitives.
func (dl *DisplayList) Len() int {
	return len(dl.items)
}

// Item returns the i-th primitive in paint order.
func (dl *DisplayList) Item(i int) Primitive {
	return dl.items[i]
}

// Items returns the primitives in paint order. The returned slice is a
// copy; the primitives it points to are shared and must not be modified.
func (dl *DisplayList) Items() []Primitive {
	return append([]Primitive(nil), dl.items...)
}

// Bounds returns the union of the primitive bounds.
func (dl *DisplayList) Bounds() Rect {
	return dl.bounds
}
