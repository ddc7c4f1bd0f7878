package pixfmt

import (
	"fmt"
	"hash/fnv"
	"image"
)

// Image is an immutable buffer in a canonical format.
//
// Thread safety: Image is safe for concurrent read access. The slice returned
// by Pix must not be modified.
type Image struct {
	width  int
	height int
	format Format
	pix    []byte
}

// NewImage wraps a copy of pix, which must already be in the given canonical
// format and tightly packed.
func NewImage(width, height int, format Format, pix []byte) (*Image, error) {
	if !format.IsValid() {
		return nil, fmt.Errorf("%w: format %d", ErrUnsupportedPixelFormat, format)
	}
	if width <= 0 || height <= 0 || len(pix) != format.ImageBytes(width, height) {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d %s", ErrMalformedImageBuffer, len(pix), width, height, format)
	}
	buf := make([]byte, len(pix))
	copy(buf, pix)
	return &Image{width: width, height: height, format: format, pix: buf}, nil
}

// Width returns the image width in pixels.
func (img *Image) Width() int { return img.width }

// Height returns the image height in pixels.
func (img *Image) Height() int { return img.height }

// Format returns the canonical format tag.
func (img *Image) Format() Format { return img.format }

// Pix returns the pixel bytes. Callers must not modify them.
func (img *Image) Pix() []byte { return img.pix }

// At returns the canonical B, G, R, A bytes of the pixel at (x, y).
// Opaque images report alpha 255; A8 masks report their coverage in every channel.
// Out of range coordinates return transparent black.
func (img *Image) At(x, y int) (b, g, r, a byte) {
	if x < 0 || y < 0 || x >= img.width || y >= img.height {
		return 0, 0, 0, 0
	}
	switch img.format {
	case FormatA8:
		v := img.pix[y*img.width+x]
		return v, v, v, v
	case FormatRGB8:
		i := (y*img.width + x) * 4
		return img.pix[i], img.pix[i+1], img.pix[i+2], 255
	default:
		i := (y*img.width + x) * 4
		return img.pix[i], img.pix[i+1], img.pix[i+2], img.pix[i+3]
	}
}

// Digest returns a 64-bit FNV-1a hash of the format, dimensions and bytes.
// Registries use it to detect repeated registrations of the same image.
func (img *Image) Digest() uint64 {
	h := fnv.New64a()
	//nolint:gosec // dimensions are positive and bounded by the buffer size
	hdr := []byte{
		byte(img.format),
		byte(img.width), byte(img.width >> 8), byte(img.width >> 16), byte(img.width >> 24),
		byte(img.height), byte(img.height >> 8), byte(img.height >> 16), byte(img.height >> 24),
	}
	_, _ = h.Write(hdr)
	_, _ = h.Write(img.pix)
	return h.Sum64()
}

// ToRGBA converts a canonical BGRA buffer into an *image.RGBA. The standard
// library RGBA type is premultiplied, so only the channel order changes.
func ToRGBA(width, height int, pix []byte) (*image.RGBA, error) {
	if width <= 0 || height <= 0 || len(pix) != width*height*4 {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrMalformedImageBuffer, len(pix), width, height)
	}
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	copy(out.Pix, pix)
	byteSwap(out.Pix)
	return out, nil
}
