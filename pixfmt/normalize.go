package pixfmt

import (
	"errors"
	"fmt"
)

// Errors returned by the normalizer.
var (
	// ErrMalformedImageBuffer is returned when a buffer does not consist of
	// whole 4-byte pixels or does not match its declared dimensions.
	ErrMalformedImageBuffer = errors.New("pixfmt: malformed image buffer")

	// ErrUnsupportedPixelFormat is returned for alpha-only, luminance+alpha,
	// non-4-byte and floating point sources.
	ErrUnsupportedPixelFormat = errors.New("pixfmt: unsupported pixel format")
)

// Decoded is a bitmap as handed over by a decoder.
// Decoders are expected to expand every 8-bit source to Depth 4.
type Decoded struct {
	Width  int
	Height int

	// Depth is the number of bytes per pixel.
	Depth int

	Layout Layout
	Origin Origin
	Pix    []byte
}

// Normalize converts a decoded bitmap into a canonical Image.
//
// Opaque and already premultiplied sources are only channel swapped. Sources
// with straight alpha, and every GIF-origin buffer, are swapped and
// premultiplied. The input is never retained or modified.
func Normalize(d Decoded) (*Image, error) {
	if !d.Layout.supported() || d.Depth != 4 {
		return nil, fmt.Errorf("%w: layout %s depth %d", ErrUnsupportedPixelFormat, d.Layout, d.Depth)
	}
	if err := checkStride(d.Pix); err != nil {
		return nil, err
	}
	if d.Width <= 0 || d.Height <= 0 || len(d.Pix) != d.Width*d.Height*4 {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrMalformedImageBuffer, len(d.Pix), d.Width, d.Height)
	}

	pix := make([]byte, len(d.Pix))
	copy(pix, d.Pix)

	format := FormatRGBA8
	premultiply := d.Layout.straightAlpha() || d.Origin == OriginGIF
	if d.Layout.opaque() && d.Origin != OriginGIF {
		format = FormatRGB8
	}

	switch {
	case premultiply && d.Layout.swapsChannels():
		byteSwapAndPremultiply(pix)
	case premultiply:
		premultiplyInPlace(pix)
	case d.Layout.swapsChannels():
		byteSwap(pix)
	}

	return &Image{
		width:  d.Width,
		height: d.Height,
		format: format,
		pix:    pix,
	}, nil
}

// ByteSwap exchanges the first and third byte of every 4-byte pixel in place,
// turning R, G, B, A into B, G, R, A and back. Applying it twice restores the
// original bytes. The buffer is untouched when its length is not a multiple of 4.
func ByteSwap(p []byte) error {
	if err := checkStride(p); err != nil {
		return err
	}
	byteSwap(p)
	return nil
}

// ByteSwapAndPremultiply swaps channel order like ByteSwap and scales the
// three color channels by alpha with truncating integer division.
// Alpha is passed through. The buffer is untouched on error.
func ByteSwapAndPremultiply(p []byte) error {
	if err := checkStride(p); err != nil {
		return err
	}
	byteSwapAndPremultiply(p)
	return nil
}

// Premultiply scales the color channels of every 4-byte pixel by its
// alpha without changing channel order.
func Premultiply(p []byte) error {
	if err := checkStride(p); err != nil {
		return err
	}
	premultiplyInPlace(p)
	return nil
}

func checkStride(p []byte) error {
	if len(p)%4 != 0 {
		return fmt.Errorf("%w: length %d is not a multiple of 4", ErrMalformedImageBuffer, len(p))
	}
	return nil
}

func byteSwap(p []byte) {
	for i := 0; i < len(p); i += 4 {
		p[i], p[i+2] = p[i+2], p[i]
	}
}

func byteSwapAndPremultiply(p []byte) {
	for i := 0; i < len(p); i += 4 {
		a := uint32(p[i+3])
		c0, c1, c2 := uint32(p[i]), uint32(p[i+1]), uint32(p[i+2])
		p[i] = byte(c2 * a / 255)
		p[i+1] = byte(c1 * a / 255)
		p[i+2] = byte(c0 * a / 255)
	}
}

func premultiplyInPlace(p []byte) {
	for i := 0; i < len(p); i += 4 {
		a := uint32(p[i+3])
		p[i] = byte(uint32(p[i]) * a / 255)
		p[i+1] = byte(uint32(p[i+1]) * a / 255)
		p[i+2] = byte(uint32(p[i+2]) * a / 255)
	}
}
