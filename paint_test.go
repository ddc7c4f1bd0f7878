package wr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listMap map[DisplayListID]*DisplayList

func (m listMap) DisplayList(id DisplayListID) (*DisplayList, bool) {
	dl, ok := m[id]
	return dl, ok
}

func rectList(t *testing.T, color ColorF, bounds Rect) *DisplayList {
	t.Helper()
	b := NewDisplayListBuilder()
	require.NoError(t, b.PushRect(LevelContent, bounds, DeviceClip(), color))
	dl, err := b.Finish()
	require.NoError(t, err)
	return dl
}

func paintColors(t *testing.T, root *StackingContext, lists ListResolver) []ColorF {
	t.Helper()
	prims, err := PaintOrder(root, lists)
	require.NoError(t, err)
	out := make([]ColorF, 0, len(prims))
	for _, p := range prims {
		out = append(out, p.(*RectPrimitive).Color)
	}
	return out
}

func TestPaintOrderListsThenChildren(t *testing.T) {
	lists := listMap{
		1: rectList(t, Red, NewRect(0, 0, 10, 10)),
		2: rectList(t, Green, NewRect(0, 0, 10, 10)),
		3: rectList(t, Blue, NewRect(0, 0, 10, 10)),
	}
	root := newContext(t, NewRect(0, 0, 100, 100))
	require.NoError(t, root.AddDisplayList(1))
	require.NoError(t, root.AddDisplayList(2))
	assert.Equal(t, []ColorF{Red, Green}, paintColors(t, root, lists))

	child := newContext(t, NewRect(0, 0, 10, 10))
	require.NoError(t, child.AddDisplayList(3))
	require.NoError(t, root.AddStackingContext(child))
	assert.Equal(t, []ColorF{Red, Green, Blue}, paintColors(t, root, lists))

	// A list added after a child still paints before every child.
	require.NoError(t, root.AddDisplayList(3))
	assert.Equal(t, []ColorF{Red, Green, Blue, Blue}, paintColors(t, root, lists))
}

func TestPaintNestedDepthFirst(t *testing.T) {
	lists := listMap{
		1: rectList(t, Red, NewRect(0, 0, 1, 1)),
		2: rectList(t, Green, NewRect(0, 0, 1, 1)),
		3: rectList(t, Blue, NewRect(0, 0, 1, 1)),
		4: rectList(t, Yellow, NewRect(0, 0, 1, 1)),
	}
	root := newContext(t, NewRect(0, 0, 10, 10))
	a := newContext(t, NewRect(0, 0, 10, 10))
	aa := newContext(t, NewRect(0, 0, 10, 10))
	b := newContext(t, NewRect(0, 0, 10, 10))
	require.NoError(t, root.AddDisplayList(1))
	require.NoError(t, a.AddDisplayList(2))
	require.NoError(t, aa.AddDisplayList(3))
	require.NoError(t, b.AddDisplayList(4))
	require.NoError(t, a.AddStackingContext(aa))
	require.NoError(t, root.AddStackingContext(a))
	require.NoError(t, root.AddStackingContext(b))

	assert.Equal(t, []ColorF{Red, Green, Blue, Yellow}, paintColors(t, root, lists))

	var ops []PaintOp
	var depths []int
	require.NoError(t, Paint(root, lists, func(s PaintStep) bool {
		ops = append(ops, s.Op)
		depths = append(depths, s.Depth)
		return true
	}))
	assert.Equal(t, []PaintOp{
		PaintPushContext, PaintPrimitive,
		PaintPushContext, PaintPrimitive,
		PaintPushContext, PaintPrimitive, PaintPopContext,
		PaintPopContext,
		PaintPushContext, PaintPrimitive, PaintPopContext,
		PaintPopContext,
	}, ops)
	assert.Equal(t, []int{0, 0, 1, 1, 2, 2, 2, 1, 1, 1, 1, 0}, depths)
}

// The reference scene: a green rect in the root and a yellow rect in a
// child offset to (100, 600).
func TestPaintReferenceScene(t *testing.T) {
	api := NewAPI()
	green, err := api.AddDisplayList(rectList(t, Green, NewRect(100, 100, 100, 100)), 0, 0)
	require.NoError(t, err)
	yellow, err := api.AddDisplayList(rectList(t, Yellow, NewRect(0, 0, 100, 100)), 0, 0)
	require.NoError(t, err)

	layer := ScrollLayerID(0)
	root, err := NewStackingContext(StackingContextDesc{
		ScrollLayer: &layer,
		Bounds:      NewRect(0, 0, 1024, 1024),
		ContentRect: NewRect(0, 0, 1024, 1024),
	})
	require.NoError(t, err)
	require.NoError(t, root.AddDisplayList(green))

	child, err := NewStackingContext(StackingContextDesc{
		Bounds:      NewRect(100, 600, 100, 100),
		ContentRect: NewRect(0, 0, 100, 100),
		BlendMode:   BlendNormal,
	})
	require.NoError(t, err)
	require.NoError(t, child.AddDisplayList(yellow))
	require.NoError(t, root.AddStackingContext(child))

	require.NoError(t, api.SetRootStackingContext(root, White, 0, 0))
	scene := api.CurrentScene(0)
	require.NotNil(t, scene)

	type seen struct {
		op     PaintOp
		ctx    *StackingContext
		color  ColorF
		origin Point
	}
	var got []seen
	require.NoError(t, scene.Paint(func(s PaintStep) bool {
		e := seen{op: s.Op, ctx: s.Context}
		if s.Op == PaintPrimitive {
			r := s.Primitive.(*RectPrimitive)
			e.color = r.Color
			e.origin = s.Transform.TransformPoint(r.Bounds.Origin)
		}
		got = append(got, e)
		return true
	}))

	assert.Equal(t, []seen{
		{op: PaintPushContext, ctx: root},
		{op: PaintPrimitive, ctx: root, color: Green, origin: Pt(100, 100)},
		{op: PaintPushContext, ctx: child},
		{op: PaintPrimitive, ctx: child, color: Yellow, origin: Pt(100, 600)},
		{op: PaintPopContext, ctx: child},
		{op: PaintPopContext, ctx: root},
	}, got)
}

func TestPaintTransformComposition(t *testing.T) {
	lists := listMap{1: rectList(t, Red, NewRect(0, 0, 1, 1))}

	root, err := NewStackingContext(StackingContextDesc{
		Bounds:    NewRect(10, 10, 100, 100),
		Transform: Scale4(2, 2, 1),
	})
	require.NoError(t, err)
	child, err := NewStackingContext(StackingContextDesc{
		Bounds:    NewRect(5, 0, 10, 10),
		Transform: Translate4(0, 3, 0),
	})
	require.NoError(t, err)
	require.NoError(t, child.AddDisplayList(1))
	require.NoError(t, root.AddStackingContext(child))

	var xf Matrix4
	require.NoError(t, Paint(root, lists, func(s PaintStep) bool {
		if s.Op == PaintPrimitive {
			xf = s.Transform
		}
		return true
	}))
	// Root: translate(10,10) · scale(2). Child: translate(5,0) · translate(0,3).
	// Local (1,1) -> (6,4) in root space -> (22,18) in device space.
	assert.Equal(t, Pt(22, 18), xf.TransformPoint(Pt(1, 1)))
}

func TestPaintFlattening(t *testing.T) {
	lists := listMap{1: rectList(t, Red, NewRect(0, 0, 1, 1))}
	build := func(preserve bool) Matrix4 {
		root, err := NewStackingContext(StackingContextDesc{
			Transform:     Translate4(0, 0, 50),
			Establishes3D: preserve,
		})
		require.NoError(t, err)
		child := newContext(t, Rect{})
		require.NoError(t, child.AddDisplayList(1))
		require.NoError(t, root.AddStackingContext(child))

		var xf Matrix4
		require.NoError(t, Paint(root, lists, func(s PaintStep) bool {
			if s.Op == PaintPrimitive {
				xf = s.Transform
			}
			return true
		}))
		return xf
	}
	assert.Equal(t, float32(0), build(false)[11], "flattened subtree keeps no depth")
	assert.Equal(t, float32(50), build(true)[11], "3D context keeps depth")
}

// A Normal context is isolated when something below it blends, so the
// blend sees only its parent's surface. The root is never isolated.
func TestPaintIsolation(t *testing.T) {
	root := newContext(t, NewRect(0, 0, 10, 10))
	parent, err := NewStackingContext(StackingContextDesc{})
	require.NoError(t, err)
	diff, err := NewStackingContext(StackingContextDesc{BlendMode: BlendDifference})
	require.NoError(t, err)
	plain, err := NewStackingContext(StackingContextDesc{})
	require.NoError(t, err)
	require.NoError(t, parent.AddStackingContext(diff))
	require.NoError(t, root.AddStackingContext(parent))
	require.NoError(t, root.AddStackingContext(plain))

	type event struct {
		op      PaintOp
		depth   int
		isolate bool
	}
	var got []event
	require.NoError(t, Paint(root, listMap{}, func(s PaintStep) bool {
		got = append(got, event{s.Op, s.Depth, s.Isolate})
		return true
	}))
	assert.Equal(t, []event{
		{PaintPushContext, 0, false},
		{PaintPushContext, 1, true},
		{PaintPushContext, 2, true},
		{PaintPopContext, 2, true},
		{PaintPopContext, 1, true},
		{PaintPushContext, 1, false},
		{PaintPopContext, 1, false},
		{PaintPopContext, 0, false},
	}, got)

	blendRoot, err := NewStackingContext(StackingContextDesc{BlendMode: BlendMultiply})
	require.NoError(t, err)
	require.NoError(t, Paint(blendRoot, listMap{}, func(s PaintStep) bool {
		assert.False(t, s.Isolate, "root composites onto the background")
		return true
	}))
}

func TestPaintStopAndErrors(t *testing.T) {
	lists := listMap{1: rectList(t, Red, NewRect(0, 0, 1, 1))}
	root := newContext(t, NewRect(0, 0, 10, 10))
	require.NoError(t, root.AddDisplayList(1))
	require.NoError(t, root.AddDisplayList(1))

	n := 0
	require.NoError(t, Paint(root, lists, func(PaintStep) bool { n++; return n < 2 }))
	assert.Equal(t, 2, n)

	require.NoError(t, root.AddDisplayList(9))
	_, err := PaintOrder(root, lists)
	assert.ErrorIs(t, err, ErrUnknownResource)

	assert.NoError(t, Paint(nil, lists, func(PaintStep) bool { return true }))
}
