package wr

// StackingLevel is the paint phase a primitive belongs to. Within one
// display list paint order is always append order; the level is kept as a
// hint for consumers that merge lists.
type StackingLevel uint8

const (
	// LevelBackgroundAndBorders is the stacking context's own background.
	LevelBackgroundAndBorders StackingLevel = iota
	// LevelBlockBackgroundAndBorders is backgrounds of in-flow blocks.
	LevelBlockBackgroundAndBorders
	// LevelFloats is floated content.
	LevelFloats
	// LevelContent is in-flow inline content such as text and images.
	LevelContent
	// LevelPositionedContent is positioned descendants with z-index 0.
	LevelPositionedContent
	// LevelOutlines is outlines, painted last.
	LevelOutlines
)

func (l StackingLevel) String() string {
	switch l {
	case LevelBackgroundAndBorders:
		return "BackgroundAndBorders"
	case LevelBlockBackgroundAndBorders:
		return "BlockBackgroundAndBorders"
	case LevelFloats:
		return "Floats"
	case LevelContent:
		return "Content"
	case LevelPositionedContent:
		return "PositionedContent"
	case LevelOutlines:
		return "Outlines"
	default:
		return "Unknown"
	}
}

// PrimitiveKind identifies the concrete type of a Primitive.
type PrimitiveKind uint8

const (
	// KindRect is a *RectPrimitive.
	KindRect PrimitiveKind = iota + 1
	// KindText is a *TextPrimitive.
	KindText
	// KindImage is an *ImagePrimitive.
	KindImage
	// KindGradient is a *GradientPrimitive.
	KindGradient
	// KindBorder is a *BorderPrimitive.
	KindBorder
)

func (k PrimitiveKind) String() string {
	switch k {
	case KindRect:
		return "Rect"
	case KindText:
		return "Text"
	case KindImage:
		return "Image"
	case KindGradient:
		return "Gradient"
	case KindBorder:
		return "Border"
	default:
		return "Unknown"
	}
}

// Item holds the fields shared by every primitive.
type Item struct {
	Level  StackingLevel
	Bounds Rect
	Clip   ClipRegion
}

// Primitive is one entry of a display list. Implementations are the
// *Primitive types in this package and are immutable once appended.
type Primitive interface {
	Kind() PrimitiveKind
	Base() Item
}

// RectPrimitive fills its bounds with a solid color.
type RectPrimitive struct {
	Item
	Color ColorF
}

// GlyphInstance positions one glyph of a run. No shaping is applied.
type GlyphInstance struct {
	Index uint32
	X, Y  float32
}

// TextPrimitive is a run of positioned glyphs from one font.
type TextPrimitive struct {
	Item
	Font   FontKey
	Color  ColorF
	Size   Au
	glyphs []GlyphInstance
}

// Glyphs returns a copy of the glyph run.
func (p *TextPrimitive) Glyphs() []GlyphInstance {
	return append([]GlyphInstance(nil), p.glyphs...)
}

// NumGlyphs returns the length of the run.
func (p *TextPrimitive) NumGlyphs() int { return len(p.glyphs) }

// ImagePrimitive tiles an image over its bounds; each tile is StretchSize.
type ImagePrimitive struct {
	Item
	StretchSize Size
	Image       ImageKey
}

// GradientStop is one color stop of a linear gradient.
type GradientStop struct {
	Offset float32
	Color  ColorF
}

// GradientPrimitive fills its bounds with a linear gradient from Start to
// End, both in the same local space as the bounds.
type GradientPrimitive struct {
	Item
	Start, End Point
	stops      []GradientStop
}

// Stops returns a copy of the ordered stop list.
func (p *GradientPrimitive) Stops() []GradientStop {
	return append([]GradientStop(nil), p.stops...)
}

// BorderStyle is the line style of one border side.
type BorderStyle uint8

const (
	// BorderNone draws nothing; the side keeps no width.
	BorderNone BorderStyle = iota
	// BorderSolid is a single solid line.
	BorderSolid
	// BorderDashed is a series of dashes.
	BorderDashed
	// BorderDotted is a series of dots.
	BorderDotted
	// BorderDouble is two parallel solid lines.
	BorderDouble
	// BorderGroove looks carved into the surface.
	BorderGroove
	// BorderRidge looks raised from the surface.
	BorderRidge
	// BorderInset makes the box look embedded.
	BorderInset
	// BorderOutset makes the box look embossed.
	BorderOutset
	// BorderHidden is like BorderNone but wins border conflicts.
	BorderHidden
)

// BorderSide is the width, color and style of one edge.
type BorderSide struct {
	Width float32
	Color ColorF
	Style BorderStyle
}

// BorderRadius holds the elliptical outer radius of each corner.
type BorderRadius struct {
	TopLeft, TopRight, BottomLeft, BottomRight Size
}

// UniformRadius returns a radius with all corners set to r.
func UniformRadius(r float32) BorderRadius {
	s := Size{Width: r, Height: r}
	return BorderRadius{TopLeft: s, TopRight: s, BottomLeft: s, BottomRight: s}
}

// BorderPrimitive strokes the inside edge of its bounds.
type BorderPrimitive struct {
	Item
	Left, Top, Right, Bottom BorderSide
	Radius                   BorderRadius
}

func (p *RectPrimitive) Kind() PrimitiveKind     { return KindRect }
func (p *TextPrimitive) Kind() PrimitiveKind     { return KindText }
func (p *ImagePrimitive) Kind() PrimitiveKind    { return KindImage }
func (p *GradientPrimitive) Kind() PrimitiveKind { return KindGradient }
func (p *BorderPrimitive) Kind() PrimitiveKind   { return KindBorder }

func (p *RectPrimitive) Base() Item     { return p.Item }
func (p *TextPrimitive) Base() Item     { return p.Item }
func (p *ImagePrimitive) Base() Item    { return p.Item }
func (p *GradientPrimitive) Base() Item { return p.Item }
func (p *BorderPrimitive) Base() Item   { return p.Item }
