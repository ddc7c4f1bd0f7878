package wr

import "fmt"

// MixBlendMode is how an isolated stacking context is composited onto
// whatever its parent context painted before it.
type MixBlendMode uint8

const (
	// BlendNormal is source-over.
	BlendNormal MixBlendMode = iota
	// BlendMultiply multiplies source and backdrop; the result is darker.
	BlendMultiply
	// BlendScreen inverts, multiplies and inverts; the result is lighter.
	BlendScreen
	// BlendOverlay is HardLight with source and backdrop swapped.
	BlendOverlay
	// BlendDarken keeps the darker channel.
	BlendDarken
	// BlendLighten keeps the lighter channel.
	BlendLighten
	// BlendColorDodge brightens the backdrop by the source.
	BlendColorDodge
	// BlendColorBurn darkens the backdrop by the source.
	BlendColorBurn
	// BlendHardLight multiplies or screens depending on the source.
	BlendHardLight
	// BlendSoftLight darkens or lightens depending on the source.
	BlendSoftLight
	// BlendDifference is the absolute difference of the channels.
	BlendDifference
	// BlendExclusion is like Difference with lower contrast.
	BlendExclusion
	// BlendHue takes the source hue with the backdrop saturation and luminosity.
	BlendHue
	// BlendSaturation takes the source saturation.
	BlendSaturation
	// BlendColor takes the source hue and saturation.
	BlendColor
	// BlendLuminosity takes the source luminosity.
	BlendLuminosity
	blendModeCount
)

var blendModeNames = [blendModeCount]string{
	"Normal", "Multiply", "Screen", "Overlay", "Darken", "Lighten",
	"ColorDodge", "ColorBurn", "HardLight", "SoftLight", "Difference",
	"Exclusion", "Hue", "Saturation", "Color", "Luminosity",
}

func (m MixBlendMode) String() string {
	if m < blendModeCount {
		return blendModeNames[m]
	}
	return "Unknown"
}

// IsValid returns true if m is a known blend mode.
func (m MixBlendMode) IsValid() bool {
	return m < blendModeCount
}

// NeedsIsolation returns true if m differs from plain source-over, so a
// context using it (and every non-root ancestor) must be rendered to an
// intermediate surface before compositing.
func (m MixBlendMode) NeedsIsolation() bool {
	return m != BlendNormal
}

// StackingContextDesc holds the construction parameters of a
// StackingContext. A zero Transform or Perspective means identity.
type StackingContextDesc struct {
	// ScrollLayer is set when the context scrolls independently.
	ScrollLayer *ScrollLayerID

	// Bounds is the context's rectangle in parent space. Its origin
	// offsets the whole subtree.
	Bounds Rect

	// ContentRect is the local rectangle the content occupies.
	ContentRect Rect

	// Z is an ordering hint for consumers; paint order is append order.
	Z int32

	Transform   Matrix4
	Perspective Matrix4

	// Establishes3D keeps descendants' depth until this context is
	// composited back; otherwise the subtree is flattened to 2D.
	Establishes3D bool

	BlendMode MixBlendMode
}

// StackingContext is one node of the compositing tree. It owns its
// children exclusively and references display lists by ID.
//
// A context is mutable until it is submitted as (part of) a scene with
// API.SetRootStackingContext; after that every mutator returns
// ErrListSealed. Contexts are not safe for concurrent mutation.
type StackingContext struct {
	desc     StackingContextDesc
	lists    []DisplayListID
	children []*StackingContext
	parent   *StackingContext
	root     bool
	sealed   bool
}

// NewStackingContext creates a detached context.
func NewStackingContext(desc StackingContextDesc) (*StackingContext, error) {
	if !desc.Bounds.valid() {
		return nil, &GeometryError{Field: "bounds", Rect: desc.Bounds}
	}
	if !desc.ContentRect.valid() {
		return nil, &GeometryError{Field: "content rect", Rect: desc.ContentRect}
	}
	if !desc.Transform.finite() || !desc.Perspective.finite() {
		return nil, fmt.Errorf("wr: non-finite transform: %w", ErrInvalidGeometry)
	}
	if !desc.BlendMode.IsValid() {
		return nil, fmt.Errorf("wr: blend mode %d: %w", desc.BlendMode, ErrInvalidGeometry)
	}
	if desc.ScrollLayer != nil {
		id := *desc.ScrollLayer
		desc.ScrollLayer = &id
	}
	desc.Transform = desc.Transform.norm()
	desc.Perspective = desc.Perspective.norm()
	return &StackingContext{desc: desc}, nil
}

// Desc returns the construction parameters.
func (sc *StackingContext) Desc() StackingContextDesc {
	d := sc.desc
	if d.ScrollLayer != nil {
		id := *d.ScrollLayer
		d.ScrollLayer = &id
	}
	return d
}

// Bounds returns the context's rectangle in parent space.
func (sc *StackingContext) Bounds() Rect { return sc.desc.Bounds }

// BlendMode returns the composite-time blend mode.
func (sc *StackingContext) BlendMode() MixBlendMode { return sc.desc.BlendMode }

// Establishes3D reports whether the context is a flattening boundary.
func (sc *StackingContext) Establishes3D() bool { return sc.desc.Establishes3D }

// DisplayLists returns the referenced display lists in paint order.
func (sc *StackingContext) DisplayLists() []DisplayListID {
	return append([]DisplayListID(nil), sc.lists...)
}

// Children returns the child contexts in paint order.
func (sc *StackingContext) Children() []*StackingContext {
	return append([]*StackingContext(nil), sc.children...)
}

// Owned reports whether the context has a parent or is a scene root.
func (sc *StackingContext) Owned() bool {
	return sc.parent != nil || sc.root
}

// Sealed reports whether the context has been submitted in a scene.
func (sc *StackingContext) Sealed() bool {
	return sc.sealed
}

// AddDisplayList appends a display list reference. The same list may be
// referenced more than once; each reference paints.
func (sc *StackingContext) AddDisplayList(id DisplayListID) error {
	if sc.sealed {
		return ErrListSealed
	}
	if id == 0 {
		return fmt.Errorf("wr: %v: %w", id, ErrUnknownResource)
	}
	sc.lists = append(sc.lists, id)
	return nil
}

// AddStackingContext transfers ownership of child to sc, appending it
// after the existing children.
//
// It fails with ErrAlreadyOwned if child already has a parent, is a scene
// root, is sc itself, or is an ancestor of sc.
func (sc *StackingContext) AddStackingContext(child *StackingContext) error {
	if sc.sealed {
		return ErrListSealed
	}
	if child == nil {
		return fmt.Errorf("wr: nil stacking context: %w", ErrInvalidGeometry)
	}
	if child.Owned() {
		return ErrAlreadyOwned
	}
	for p := sc; p != nil; p = p.parent {
		if p == child {
			return fmt.Errorf("wr: stacking context would contain itself: %w", ErrAlreadyOwned)
		}
	}
	child.parent = sc
	sc.children = append(sc.children, child)
	return nil
}

// walk visits sc and its descendants in paint order (pre-order).
func (sc *StackingContext) walk(fn func(*StackingContext) bool) bool {
	if !fn(sc) {
		return false
	}
	for _, c := range sc.children {
		if !c.walk(fn) {
			return false
		}
	}
	return true
}

// Count returns the number of contexts in the subtree rooted at sc.
func (sc *StackingContext) Count() int {
	n := 0
	sc.walk(func(*StackingContext) bool { n++; return true })
	return n
}

func (sc *StackingContext) seal() {
	sc.walk(func(c *StackingContext) bool { c.sealed = true; return true })
}
