package wr

// Tag is the one-byte command identifier of an encoded primitive.
// The high nibble groups commands:
//
//	0x0X: stream framing
//	0x1X: fills
//	0x2X: text
//	0x3X: images
//	0x4X: borders
type Tag byte

// Every primitive tag is followed by its Item: 1 byte level, 4 float32
// bounds [x, y, w, h] and 4 float32 clip [x, y, w, h].
const (
	// TagEnd terminates the stream.
	// Data: none
	TagEnd Tag = 0x00

	// TagRect encodes a RectPrimitive.
	// Data: Item, 4 float32 color [r, g, b, a]
	TagRect Tag = 0x10

	// TagGradient encodes a GradientPrimitive.
	// Data: Item, 4 float32 [startX, startY, endX, endY], 1 uint32 stop
	// count, then per stop 5 float32 [offset, r, g, b, a]
	TagGradient Tag = 0x11

	// TagText encodes a TextPrimitive.
	// Data: Item, 1 uint32 font, 4 float32 color, 1 int32 size (Au),
	// 1 uint32 glyph count, then per glyph 1 uint32 index and 2 float32 [x, y]
	TagText Tag = 0x20

	// TagImage encodes an ImagePrimitive.
	// Data: Item, 2 float32 stretch [w, h], 1 uint64 image key
	TagImage Tag = 0x30

	// TagBorder encodes a BorderPrimitive.
	// Data: Item, 4 sides each [width float32, color 4 float32, style byte],
	// then 8 float32 radii [tlW, tlH, trW, trH, blW, blH, brW, brH]
	TagBorder Tag = 0x40
)

func (t Tag) String() string {
	switch t {
	case TagEnd:
		return "End"
	case TagRect:
		return "Rect"
	case TagGradient:
		return "Gradient"
	case TagText:
		return "Text"
	case TagImage:
		return "Image"
	case TagBorder:
		return "Border"
	default:
		return "Unknown"
	}
}

func tagFor(k PrimitiveKind) Tag {
	switch k {
	case KindRect:
		return TagRect
	case KindText:
		return TagText
	case KindImage:
		return TagImage
	case KindGradient:
		return TagGradient
	case KindBorder:
		return TagBorder
	default:
		return TagEnd
	}
}
