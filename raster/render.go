package raster

import (
	"errors"
	"fmt"

	"github.com/gogpu/wr"
	"github.com/gogpu/wr/internal/blend"
)

// ErrNilScene is returned when Render is called without a scene.
var ErrNilScene = errors.New("raster: nil scene")

// Render composites scene into a new width×height surface.
func Render(scene *wr.Scene, width, height int, opts ...Option) (*Surface, error) {
	if scene == nil {
		return nil, ErrNilScene
	}
	return RenderTree(scene.Root(), scene, scene.Background(), width, height, opts...)
}

// RenderTree composites the tree rooted at root. Display lists are resolved
// through lists and the surface is cleared to background first.
func RenderTree(root *wr.StackingContext, lists wr.ListResolver, background wr.ColorF, width, height int, opts ...Option) (*Surface, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.background != nil {
		background = *o.background
	}

	dst, err := NewSurface(width, height)
	if err != nil {
		return nil, err
	}
	dst.Clear(background)

	r := renderer{opts: o, targets: []*Surface{dst}}
	defer r.release()

	if err := wr.Paint(root, lists, r.step); err != nil {
		return nil, err
	}
	if r.err != nil {
		return nil, r.err
	}

	wr.Logger().Debug("scene rendered",
		"width", width, "height", height,
		"primitives", r.drawn, "skipped", r.skipped, "layers", r.layers)
	return dst, nil
}

type renderer struct {
	opts options

	// targets[0] is the output surface; every isolated context pushes one.
	targets []*Surface
	err     error

	drawn, skipped, layers int
}

func (r *renderer) target() *Surface {
	return r.targets[len(r.targets)-1]
}

func (r *renderer) step(s wr.PaintStep) bool {
	switch s.Op {
	case wr.PaintPushContext:
		if !s.Isolate {
			return true
		}
		base := r.targets[0]
		layer, err := r.opts.pool.Get(base.Width, base.Height)
		if err != nil {
			r.err = fmt.Errorf("raster: isolate %v: %w", s.BlendMode, err)
			return false
		}
		r.targets = append(r.targets, layer)
		r.layers++

	case wr.PaintPopContext:
		if !s.Isolate {
			return true
		}
		layer := r.target()
		r.targets = r.targets[:len(r.targets)-1]
		blend.Span(r.target().Pix, layer.Pix, blend.Mode(s.BlendMode))
		r.opts.pool.Put(layer)

	case wr.PaintPrimitive:
		if r.draw(r.target(), s.Transform, s.Primitive) {
			r.drawn++
		} else {
			r.skipped++
		}
	}
	return true
}

// release returns intermediate surfaces left over by an aborted walk.
func (r *renderer) release() {
	for _, s := range r.targets[1:] {
		r.opts.pool.Put(s)
	}
	r.targets = r.targets[:1]
}
