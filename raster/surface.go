// Package raster is a software compositor for wr scenes.
//
// It walks a scene in paint order and fills a Surface of canonical
// premultiplied B, G, R, A bytes. Contexts whose blend mode needs isolation
// are rendered into an intermediate surface taken from a Pool and
// composited onto their parent when the context is popped.
//
// The compositor samples pixel centers without anti-aliasing, so output is
// deterministic and suitable for golden comparisons in tests.
package raster

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/wr"
	"github.com/gogpu/wr/pixfmt"
)

// ErrInvalidSize is returned for non-positive or oversized surfaces.
var ErrInvalidSize = errors.New("raster: invalid surface size")

// Surface is a premultiplied BGRA pixel buffer with stride 4*Width.
type Surface struct {
	Width, Height int
	Pix           []byte
}

// NewSurface allocates a transparent surface.
func NewSurface(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 || width > wr.MaxDeviceExtent || height > wr.MaxDeviceExtent {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return &Surface{Width: width, Height: height, Pix: make([]byte, width*height*4)}, nil
}

// Clear fills the surface with c.
func (s *Surface) Clear(c wr.ColorF) {
	b, g, r, a := c.PremulBGRA()
	for i := 0; i < len(s.Pix); i += 4 {
		s.Pix[i], s.Pix[i+1], s.Pix[i+2], s.Pix[i+3] = b, g, r, a
	}
}

// At returns the B, G, R, A bytes at (x, y), or zeros out of range.
func (s *Surface) At(x, y int) (b, g, r, a byte) {
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return 0, 0, 0, 0
	}
	i := (y*s.Width + x) * 4
	return s.Pix[i], s.Pix[i+1], s.Pix[i+2], s.Pix[i+3]
}

// Image returns the surface as a canonical pixfmt image. The pixels are
// copied.
func (s *Surface) Image() (*pixfmt.Image, error) {
	pix := make([]byte, len(s.Pix))
	copy(pix, s.Pix)
	return pixfmt.NewImage(s.Width, s.Height, pixfmt.FormatRGBA8, pix)
}

// RGBA converts the surface to a standard library image for encoding.
func (s *Surface) RGBA() (*image.RGBA, error) {
	return pixfmt.ToRGBA(s.Width, s.Height, s.Pix)
}

func (s *Surface) offset(x, y int) int {
	return (y*s.Width + x) * 4
}

// Pool reuses surfaces of identical size.
//
// Thread safety: all methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*Surface
	maxSize int
}

type poolKey struct {
	width, height int
}

// NewPool creates a pool that keeps at most maxPerBucket surfaces of each
// size. Zero means unlimited.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]*Surface),
		maxSize: maxPerBucket,
	}
}

// Get returns a cleared surface, reusing a pooled one when available.
func (p *Pool) Get(width, height int) (*Surface, error) {
	key := poolKey{width, height}

	p.mu.Lock()
	if bucket := p.buckets[key]; len(bucket) > 0 {
		s := bucket[len(bucket)-1]
		p.buckets[key] = bucket[:len(bucket)-1]
		p.mu.Unlock()
		clear(s.Pix)
		return s, nil
	}
	p.mu.Unlock()

	return NewSurface(width, height)
}

// Put returns s to the pool. A full bucket drops it.
func (p *Pool) Put(s *Surface) {
	if s == nil {
		return
	}
	key := poolKey{s.Width, s.Height}

	p.mu.Lock()
	defer p.mu.Unlock()
	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, s)
}

// Len returns the number of pooled surfaces.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, b := range p.buckets {
		n += len(b)
	}
	return n
}

var defaultPool = NewPool(8)
