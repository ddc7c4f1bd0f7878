package wr

import "fmt"

// PaintOp is the kind of a PaintStep.
type PaintOp uint8

const (
	// PaintPushContext enters a stacking context. When Isolate is set the
	// consumer must start an intermediate surface.
	PaintPushContext PaintOp = iota
	// PaintPrimitive paints one primitive under Transform.
	PaintPrimitive
	// PaintPopContext leaves a stacking context. When Isolate is set the
	// intermediate surface is composited onto the parent with BlendMode.
	PaintPopContext
)

func (op PaintOp) String() string {
	switch op {
	case PaintPushContext:
		return "push"
	case PaintPrimitive:
		return "primitive"
	case PaintPopContext:
		return "pop"
	default:
		return "unknown"
	}
}

// PaintStep is one event of the flattened paint traversal.
type PaintStep struct {
	Op    PaintOp
	Depth int

	Context *StackingContext

	// Transform maps the context's local space to device space.
	Transform Matrix4

	BlendMode MixBlendMode
	Isolate   bool

	// Set for PaintPrimitive only.
	List      DisplayListID
	Index     int
	Primitive Primitive
}

// ListResolver looks up sealed display lists by ID.
type ListResolver interface {
	DisplayList(id DisplayListID) (*DisplayList, bool)
}

// Paint walks the tree rooted at root in paint order, calling fn for each
// step. For every context it emits PaintPushContext, then the primitives
// of its display lists in append order, then the subtrees of its children
// in append order, then PaintPopContext.
//
// A child's content transform is the parent's content transform composed
// with the parent's perspective, the child's bounds offset and the child's
// own transform. Unless the parent establishes a 3D context the composed
// parent part is flattened to the z = 0 plane first.
//
// Every non-root context whose subtree contains a blend mode other than
// Normal is isolated, so a blended context only sees what its own parent
// painted before it. The root composites directly onto the background.
// Contexts whose subtree is entirely Normal are not isolated: source-over
// composited through a group gives the same result as painting in place.
//
// Returning false from fn stops the walk.
func Paint(root *StackingContext, lists ListResolver, fn func(PaintStep) bool) error {
	if root == nil {
		return nil
	}
	w := painter{lists: lists, fn: fn, groups: make(map[*StackingContext]bool)}
	w.markGroups(root)
	_, err := w.context(root, Identity4(), 0)
	return err
}

// PaintOrder returns the primitives of the tree in the order they paint.
func PaintOrder(root *StackingContext, lists ListResolver) ([]Primitive, error) {
	var out []Primitive
	err := Paint(root, lists, func(s PaintStep) bool {
		if s.Op == PaintPrimitive {
			out = append(out, s.Primitive)
		}
		return true
	})
	return out, err
}

type painter struct {
	lists ListResolver
	fn    func(PaintStep) bool

	// groups holds the contexts whose subtree blends with a non-Normal mode.
	groups map[*StackingContext]bool
}

func (w *painter) markGroups(sc *StackingContext) bool {
	blends := sc.desc.BlendMode.NeedsIsolation()
	for _, c := range sc.children {
		if w.markGroups(c) {
			blends = true
		}
	}
	if blends {
		w.groups[sc] = true
	}
	return blends
}

func (w *painter) context(sc *StackingContext, base Matrix4, depth int) (bool, error) {
	origin := sc.desc.Bounds.Origin
	xf := base.Mul(Translate4(origin.X, origin.Y, 0)).Mul(sc.desc.Transform)
	step := PaintStep{
		Depth:     depth,
		Context:   sc,
		Transform: xf,
		BlendMode: sc.desc.BlendMode,
		Isolate:   depth > 0 && w.groups[sc],
	}

	step.Op = PaintPushContext
	if !w.fn(step) {
		return false, nil
	}

	for _, id := range sc.lists {
		dl, ok := w.lists.DisplayList(id)
		if !ok {
			return false, fmt.Errorf("wr: %v: %w", id, ErrUnknownResource)
		}
		for i, p := range dl.items {
			ps := step
			ps.Op = PaintPrimitive
			ps.List = id
			ps.Index = i
			ps.Primitive = p
			if !w.fn(ps) {
				return false, nil
			}
		}
	}

	childBase := xf.Mul(sc.desc.Perspective)
	if !sc.desc.Establishes3D {
		childBase = childBase.Flatten()
	}
	for _, c := range sc.children {
		cont, err := w.context(c, childBase, depth+1)
		if err != nil || !cont {
			return false, err
		}
	}

	step.Op = PaintPopContext
	return w.fn(step), nil
}
