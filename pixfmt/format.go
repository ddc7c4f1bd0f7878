// Package pixfmt normalizes decoded bitmaps into the canonical pixel format
// consumed by display lists and the software compositor.
//
// The canonical format stores 8 bits per channel in B, G, R, A byte order.
// Color channels are premultiplied by alpha whenever the source carries an
// independent alpha channel.
package pixfmt

// Format tags a canonical image buffer.
type Format uint8

const (
	// FormatA8 is an 8-bit alpha mask (1 byte per pixel).
	// Normalize never produces it; it exists so that registries can describe
	// masks supplied directly by a caller.
	FormatA8 Format = iota

	// FormatRGB8 is opaque color stored as B, G, R, X (4 bytes per pixel).
	FormatRGB8

	// FormatRGBA8 is premultiplied color stored as B, G, R, A (4 bytes per pixel).
	FormatRGBA8

	formatCount
)

// FormatInfo contains metadata about a canonical format.
type FormatInfo struct {
	// BytesPerPixel is the stride of one pixel.
	BytesPerPixel int

	// HasAlpha reports whether the fourth byte carries coverage.
	HasAlpha bool

	// IsPremultiplied reports whether color channels are scaled by alpha.
	IsPremultiplied bool
}

var formatInfoTable = [formatCount]FormatInfo{
	FormatA8: {
		BytesPerPixel:   1,
		HasAlpha:        true,
		IsPremultiplied: false,
	},
	FormatRGB8: {
		BytesPerPixel:   4,
		HasAlpha:        false,
		IsPremultiplied: false,
	},
	FormatRGBA8: {
		BytesPerPixel:   4,
		HasAlpha:        true,
		IsPremultiplied: true,
	},
}

// Info returns the FormatInfo for this format.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// BytesPerPixel returns the number of bytes per pixel for this format.
func (f Format) BytesPerPixel() int {
	return f.Info().BytesPerPixel
}

// IsValid returns true if the format is a known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// ImageBytes returns the buffer size of a tightly packed image.
func (f Format) ImageBytes(width, height int) int {
	return width * height * f.BytesPerPixel()
}

// String returns a string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatA8:
		return "A8"
	case FormatRGB8:
		return "RGB8"
	case FormatRGBA8:
		return "RGBA8"
	default:
		return "Unknown"
	}
}

// Layout describes the channel order and alpha convention of a decoded buffer.
type Layout uint8

const (
	// LayoutRGBA is R, G, B, A with straight (non-premultiplied) alpha.
	LayoutRGBA Layout = iota

	// LayoutRGBAPremul is R, G, B, A already premultiplied upstream.
	LayoutRGBAPremul

	// LayoutRGBX is opaque R, G, B padded to 4 bytes.
	LayoutRGBX

	// LayoutBGRA is B, G, R, A with straight alpha.
	LayoutBGRA

	// LayoutBGRAPremul is B, G, R, A already premultiplied.
	LayoutBGRAPremul

	// LayoutBGRX is opaque B, G, R padded to 4 bytes.
	LayoutBGRX

	// LayoutGray is a single 8-bit channel (luminance or alpha-only).
	LayoutGray

	// LayoutGrayAlpha is 8-bit luminance followed by 8-bit alpha.
	LayoutGrayAlpha

	// LayoutRGBAF32 is high dynamic range R, G, B, A float32 samples.
	LayoutRGBAF32
)

// String returns a string representation of the layout.
func (l Layout) String() string {
	switch l {
	case LayoutRGBA:
		return "RGBA"
	case LayoutRGBAPremul:
		return "RGBAPremul"
	case LayoutRGBX:
		return "RGBX"
	case LayoutBGRA:
		return "BGRA"
	case LayoutBGRAPremul:
		return "BGRAPremul"
	case LayoutBGRX:
		return "BGRX"
	case LayoutGray:
		return "Gray"
	case LayoutGrayAlpha:
		return "GrayAlpha"
	case LayoutRGBAF32:
		return "RGBAF32"
	default:
		return "Unknown"
	}
}

// supported reports whether Normalize can convert the layout at all.
func (l Layout) supported() bool {
	return l <= LayoutBGRX
}

// swapsChannels reports whether the source stores red before blue.
func (l Layout) swapsChannels() bool {
	return l == LayoutRGBA || l == LayoutRGBAPremul || l == LayoutRGBX
}

// straightAlpha reports whether the source alpha still has to be applied.
func (l Layout) straightAlpha() bool {
	return l == LayoutRGBA || l == LayoutBGRA
}

// opaque reports whether the source has no meaningful alpha channel.
func (l Layout) opaque() bool {
	return l == LayoutRGBX || l == LayoutBGRX
}

// Origin identifies the container a decoded buffer came from.
// It matters for formats whose alpha must be treated as straight no matter
// what the decoder reports.
type Origin uint8

const (
	// OriginUnknown is any container without special handling.
	OriginUnknown Origin = iota

	// OriginPNG is a PNG still image.
	OriginPNG

	// OriginJPEG is a JPEG still image.
	OriginJPEG

	// OriginGIF is a GIF (palette, possibly animated). Its alpha is always
	// straight, so buffers from it are always premultiplied on the way in.
	OriginGIF

	// OriginOther is any other decoder (BMP, WebP, ...).
	OriginOther
)

// String returns a string representation of the origin.
func (o Origin) String() string {
	switch o {
	case OriginPNG:
		return "PNG"
	case OriginJPEG:
		return "JPEG"
	case OriginGIF:
		return "GIF"
	case OriginOther:
		return "Other"
	default:
		return "Unknown"
	}
}
