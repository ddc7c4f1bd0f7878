package raster

import (
	"github.com/gogpu/wr"
	"github.com/gogpu/wr/pixfmt"
)

// ImageResolver looks up registered images. *wr.API implements it.
type ImageResolver interface {
	Image(k wr.ImageKey) (*pixfmt.Image, bool)
}

// Option configures Render.
type Option func(*options)

type options struct {
	background *wr.ColorF
	pool       *Pool
	images     ImageResolver
}

func defaultOptions() options {
	return options{pool: defaultPool}
}

// WithBackground overrides the clear color of the scene.
func WithBackground(c wr.ColorF) Option {
	return func(o *options) {
		o.background = &c
	}
}

// WithSurfacePool sets the pool used for intermediate surfaces of isolated
// contexts. A nil pool restores the package default.
func WithSurfacePool(p *Pool) Option {
	return func(o *options) {
		if p == nil {
			p = defaultPool
		}
		o.pool = p
	}
}

// WithImages sets the resolver for image primitives. Without one, image
// primitives are skipped.
func WithImages(r ImageResolver) Option {
	return func(o *options) {
		o.images = r
	}
}
