// Package decode adapts the standard image decoders to the pixfmt
// normalization contract.
//
// Compressed bitstreams are decoded by image/png, image/jpeg, image/gif and
// golang.org/x/image/{bmp,webp}. This package only sniffs the container,
// expands the result to 4 bytes per pixel and describes its layout so that
// pixfmt.Normalize can produce the canonical premultiplied BGRA image.
package decode

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register GIF
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG
	"os"
	"runtime"

	_ "golang.org/x/image/bmp"  // register BMP
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/wr"
	"github.com/gogpu/wr/pixfmt"
)

var (
	pngMagic  = []byte("\x89PNG\r\n\x1a\n")
	gif87a    = []byte("GIF87a")
	gif89a    = []byte("GIF89a")
	jpegMagic = []byte{0xff, 0xd8, 0xff}
)

// IsPNG reports whether data starts with the PNG signature.
func IsPNG(data []byte) bool { return bytes.HasPrefix(data, pngMagic) }

// IsGIF reports whether data starts with a GIF87a or GIF89a header.
func IsGIF(data []byte) bool {
	return bytes.HasPrefix(data, gif87a) || bytes.HasPrefix(data, gif89a)
}

// IsJPEG reports whether data starts with a JPEG SOI marker.
func IsJPEG(data []byte) bool { return bytes.HasPrefix(data, jpegMagic) }

// Sniff returns the container of data.
func Sniff(data []byte) pixfmt.Origin {
	switch {
	case IsPNG(data):
		return pixfmt.OriginPNG
	case IsGIF(data):
		return pixfmt.OriginGIF
	case IsJPEG(data):
		return pixfmt.OriginJPEG
	default:
		return pixfmt.OriginOther
	}
}

// Decode decodes data and returns the pixels in a form pixfmt.Normalize
// accepts. 8-bit color sources are expanded to R, G, B, A with straight
// alpha (LayoutRGBA), or LayoutRGBX when every pixel is opaque. Luminance
// sources are expanded the same way and come out opaque. Alpha-only
// sources are returned as LayoutGray so that normalization rejects them
// with pixfmt.ErrUnsupportedPixelFormat.
func Decode(data []byte) (pixfmt.Decoded, error) {
	src, kind, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return pixfmt.Decoded{}, fmt.Errorf("decode: %w", err)
	}
	b := src.Bounds()
	d := pixfmt.Decoded{
		Width:  b.Dx(),
		Height: b.Dy(),
		Origin: Sniff(data),
	}

	switch m := src.(type) {
	case *image.Alpha:
		d.Layout, d.Depth, d.Pix = pixfmt.LayoutGray, 1, m.Pix
	case *image.Alpha16:
		d.Layout, d.Depth, d.Pix = pixfmt.LayoutGray, 2, m.Pix
	default:
		dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		d.Layout, d.Depth, d.Pix = pixfmt.LayoutRGBA, 4, dst.Pix
		if dst.Opaque() {
			d.Layout = pixfmt.LayoutRGBX
		}
	}

	wr.Logger().Debug("image decoded",
		"format", kind, "origin", d.Origin.String(), "layout", d.Layout.String(),
		"width", d.Width, "height", d.Height)
	return d, nil
}

// Load decodes and normalizes data.
func Load(data []byte) (*pixfmt.Image, error) {
	d, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return pixfmt.Normalize(d)
}

// LoadFile reads, decodes and normalizes the image at path.
func LoadFile(path string) (*pixfmt.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	img, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("decode: %s: %w", path, err)
	}
	return img, nil
}

// LoadFiles loads several images concurrently. The result is in the order
// of paths. The first failure cancels the remaining loads.
func LoadFiles(ctx context.Context, paths []string) ([]*pixfmt.Image, error) {
	out := make([]*pixfmt.Image, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := LoadFile(p)
			if err != nil {
				return err
			}
			out[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// FromImage converts an in-memory image to the canonical format. The alpha
// of m is treated as straight unless m is an *image.RGBA, whose pixels are
// already premultiplied.
func FromImage(m image.Image, origin pixfmt.Origin) (*pixfmt.Image, error) {
	b := m.Bounds()
	d := pixfmt.Decoded{Width: b.Dx(), Height: b.Dy(), Depth: 4, Origin: origin}
	if rgba, ok := m.(*image.RGBA); ok && rgba.Stride == 4*b.Dx() {
		d.Layout, d.Pix = pixfmt.LayoutRGBAPremul, rgba.Pix[:4*b.Dx()*b.Dy()]
		return pixfmt.Normalize(d)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), m, b.Min, draw.Src)
	d.Layout, d.Pix = pixfmt.LayoutRGBA, dst.Pix
	if dst.Opaque() {
		d.Layout = pixfmt.LayoutRGBX
	}
	return pixfmt.Normalize(d)
}
