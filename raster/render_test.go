package raster

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/wr"
	"github.com/gogpu/wr/pixfmt"
)

var (
	gray   = wr.NewColorF(0.5, 0.5, 0.5, 1)
	olive  = wr.NewColorF(0.5, 0.5, 0, 1)
	teal   = wr.NewColorF(0, 0.5, 0.5, 1)
	purple = wr.NewColorF(0.5, 0, 0.5, 1)
)

func bgra(s *Surface, x, y int) [4]byte {
	b, g, r, a := s.At(x, y)
	return [4]byte{b, g, r, a}
}

func list(t *testing.T, api *wr.API, push func(b *wr.DisplayListBuilder) error) wr.DisplayListID {
	t.Helper()
	b := wr.NewDisplayListBuilder()
	require.NoError(t, push(b))
	dl, err := b.Finish()
	require.NoError(t, err)
	id, err := api.AddDisplayList(dl, 0, 0)
	require.NoError(t, err)
	return id
}

func rect(t *testing.T, api *wr.API, c wr.ColorF, bounds wr.Rect) wr.DisplayListID {
	return list(t, api, func(b *wr.DisplayListBuilder) error {
		return b.PushRect(wr.LevelContent, bounds, wr.DeviceClip(), c)
	})
}

func context(t *testing.T, desc wr.StackingContextDesc, lists ...wr.DisplayListID) *wr.StackingContext {
	t.Helper()
	sc, err := wr.NewStackingContext(desc)
	require.NoError(t, err)
	for _, id := range lists {
		require.NoError(t, sc.AddDisplayList(id))
	}
	return sc
}

func submit(t *testing.T, api *wr.API, root *wr.StackingContext, bg wr.ColorF) *wr.Scene {
	t.Helper()
	require.NoError(t, api.SetRootStackingContext(root, bg, 0, 0))
	s := api.CurrentScene(0)
	require.NotNil(t, s)
	return s
}

func TestRenderReferenceScene(t *testing.T) {
	api := wr.NewAPI()
	root := context(t, wr.StackingContextDesc{Bounds: wr.NewRect(0, 0, 800, 800)},
		rect(t, api, wr.Green, wr.NewRect(100, 100, 100, 100)))
	child := context(t, wr.StackingContextDesc{Bounds: wr.NewRect(100, 600, 100, 100)},
		rect(t, api, wr.Yellow, wr.NewRect(0, 0, 100, 100)))
	require.NoError(t, root.AddStackingContext(child))

	out, err := Render(submit(t, api, root, wr.White), 800, 800)
	require.NoError(t, err)

	assert.Equal(t, [4]byte{255, 255, 255, 255}, bgra(out, 50, 50))
	assert.Equal(t, [4]byte{0, 255, 0, 255}, bgra(out, 100, 100))
	assert.Equal(t, [4]byte{0, 255, 0, 255}, bgra(out, 199, 199))
	assert.Equal(t, [4]byte{255, 255, 255, 255}, bgra(out, 200, 200))
	assert.Equal(t, [4]byte{0, 255, 255, 255}, bgra(out, 150, 650))
	assert.Equal(t, [4]byte{255, 255, 255, 255}, bgra(out, 150, 599))
}

// Three overlapping Difference siblings over gray: the result depends on
// sibling order, so each region checks one step of the cascade.
func TestRenderDifferenceCascade(t *testing.T) {
	api := wr.NewAPI()
	square := wr.NewRect(0, 0, 250, 250)
	root := context(t, wr.StackingContextDesc{Bounds: wr.NewRect(100, 100, 467, 462)})
	for _, c := range []struct {
		x, y  float32
		color wr.ColorF
	}{{80, 60, olive}, {140, 120, teal}, {180, 180, purple}} {
		sc := context(t, wr.StackingContextDesc{
			Bounds:    wr.NewRect(c.x, c.y, 250, 250),
			BlendMode: wr.BlendDifference,
		}, rect(t, api, c.color, square))
		require.NoError(t, root.AddStackingContext(sc))
	}

	pool := NewPool(4)
	out, err := Render(submit(t, api, root, gray), 640, 640, WithSurfacePool(pool))
	require.NoError(t, err)

	assert.Equal(t, [4]byte{128, 128, 128, 255}, bgra(out, 50, 50), "background")
	assert.Equal(t, [4]byte{128, 0, 0, 255}, bgra(out, 190, 170), "gray - olive")
	assert.Equal(t, [4]byte{0, 128, 0, 255}, bgra(out, 250, 250), "then - teal")
	assert.Equal(t, [4]byte{128, 128, 128, 255}, bgra(out, 300, 300), "then - purple")
	assert.Equal(t, 1, pool.Len(), "one intermediate surface reused for every sibling")
}

// A Difference context inside a Normal one blends against its parent's
// surface, not against what the root painted underneath.
func TestRenderNestedBlendBackdrop(t *testing.T) {
	api := wr.NewAPI()
	root := context(t, wr.StackingContextDesc{Bounds: wr.NewRect(0, 0, 40, 20)},
		rect(t, api, wr.White, wr.NewRect(0, 0, 40, 20)))
	parent := context(t, wr.StackingContextDesc{Bounds: wr.NewRect(0, 0, 40, 20)},
		rect(t, api, wr.Green, wr.NewRect(0, 0, 10, 20)))
	diff := context(t, wr.StackingContextDesc{
		Bounds:    wr.NewRect(0, 0, 30, 20),
		BlendMode: wr.BlendDifference,
	}, rect(t, api, wr.Red, wr.NewRect(0, 0, 30, 20)))
	require.NoError(t, parent.AddStackingContext(diff))
	require.NoError(t, root.AddStackingContext(parent))

	pool := NewPool(4)
	out, err := Render(submit(t, api, root, wr.Black), 40, 20, WithSurfacePool(pool))
	require.NoError(t, err)

	assert.Equal(t, [4]byte{0, 255, 255, 255}, bgra(out, 5, 10), "red - green")
	assert.Equal(t, [4]byte{0, 0, 255, 255}, bgra(out, 20, 10), "red over the parent's empty surface")
	assert.Equal(t, [4]byte{255, 255, 255, 255}, bgra(out, 35, 10), "root content")
	assert.Equal(t, 2, pool.Len(), "parent and child were both isolated")
}

func TestRenderTransform(t *testing.T) {
	api := wr.NewAPI()
	root := context(t, wr.StackingContextDesc{
		Bounds:    wr.NewRect(10, 10, 100, 100),
		Transform: wr.Scale4(2, 2, 1),
	}, rect(t, api, wr.Red, wr.NewRect(0, 0, 10, 10)))

	out, err := Render(submit(t, api, root, wr.Black), 64, 64)
	require.NoError(t, err)
	assert.Equal(t, [4]byte{0, 0, 255, 255}, bgra(out, 10, 10))
	assert.Equal(t, [4]byte{0, 0, 255, 255}, bgra(out, 29, 29))
	assert.Equal(t, [4]byte{0, 0, 0, 255}, bgra(out, 30, 30))
	assert.Equal(t, [4]byte{0, 0, 0, 255}, bgra(out, 9, 9))
}

func TestRenderClip(t *testing.T) {
	api := wr.NewAPI()
	id := list(t, api, func(b *wr.DisplayListBuilder) error {
		return b.PushRect(wr.LevelContent, wr.NewRect(0, 0, 20, 20), wr.NewClipRegion(wr.NewRect(5, 5, 5, 5)), wr.Blue)
	})
	root := context(t, wr.StackingContextDesc{}, id)
	out, err := Render(submit(t, api, root, wr.Black), 20, 20)
	require.NoError(t, err)
	assert.Equal(t, [4]byte{255, 0, 0, 255}, bgra(out, 7, 7))
	assert.Equal(t, [4]byte{0, 0, 0, 255}, bgra(out, 2, 2))
	assert.Equal(t, [4]byte{0, 0, 0, 255}, bgra(out, 12, 12))
}

func TestRenderTranslucentRect(t *testing.T) {
	api := wr.NewAPI()
	root := context(t, wr.StackingContextDesc{},
		rect(t, api, wr.NewColorF(1, 0, 0, 0.5), wr.NewRect(0, 0, 4, 4)))
	out, err := Render(submit(t, api, root, wr.White), 4, 4)
	require.NoError(t, err)
	// red at 128 alpha over white: (255, 127, 127).
	assert.Equal(t, [4]byte{127, 127, 255, 255}, bgra(out, 1, 1))
}

func TestRenderGradient(t *testing.T) {
	api := wr.NewAPI()
	id := list(t, api, func(b *wr.DisplayListBuilder) error {
		return b.PushGradient(wr.LevelContent, wr.NewRect(0, 0, 100, 10), wr.DeviceClip(),
			wr.Pt(0, 0), wr.Pt(100, 0), []wr.GradientStop{
				{Offset: 0, Color: wr.Red},
				{Offset: 0.5, Color: wr.Blue},
				{Offset: 1, Color: wr.Green},
			})
	})
	out, err := Render(submit(t, api, context(t, wr.StackingContextDesc{}, id), wr.Black), 100, 10)
	require.NoError(t, err)

	b, _, r, _ := out.At(0, 5)
	assert.Greater(t, r, byte(250))
	assert.Less(t, b, byte(5))

	b, g, r, _ := out.At(50, 5)
	assert.Greater(t, b, byte(250), "blue at the middle stop")
	assert.Less(t, r, byte(5))
	assert.Less(t, g, byte(5))

	_, g, _, _ = out.At(99, 5)
	assert.Greater(t, g, byte(250))
}

func TestStopColor(t *testing.T) {
	stops := []wr.GradientStop{{Offset: 0.2, Color: wr.Red}, {Offset: 0.2, Color: wr.Blue}, {Offset: 0.8, Color: wr.Green}}
	assert.Equal(t, wr.Red, stopColor(stops, 0))
	assert.Equal(t, wr.Red, stopColor(stops, 0.2))
	assert.Equal(t, wr.Green, stopColor(stops, 1))
	mid := stopColor(stops, 0.5)
	assert.InDelta(t, 0.5, mid.B, 1e-5)
	assert.InDelta(t, 0.5, mid.G, 1e-5)
}

func TestRenderImageTiled(t *testing.T) {
	api := wr.NewAPI()
	img, err := pixfmt.NewImage(2, 1, pixfmt.FormatRGBA8, []byte{
		0, 0, 255, 255, // red
		255, 0, 0, 255, // blue
	})
	require.NoError(t, err)
	key, err := api.AddImage(img)
	require.NoError(t, err)

	id := list(t, api, func(b *wr.DisplayListBuilder) error {
		return b.PushImage(wr.LevelContent, wr.NewRect(0, 0, 8, 2), wr.DeviceClip(), wr.Sz(4, 2), key)
	})
	scene := submit(t, api, context(t, wr.StackingContextDesc{}, id), wr.Black)

	out, err := Render(scene, 8, 2, WithImages(api))
	require.NoError(t, err)
	red, blue := [4]byte{0, 0, 255, 255}, [4]byte{255, 0, 0, 255}
	for x, want := range [][4]byte{red, red, blue, blue, red, red, blue, blue} {
		assert.Equal(t, want, bgra(out, x, 1), "x=%d", x)
	}

	// Without a resolver the image is skipped.
	out, err = Render(scene, 8, 2)
	require.NoError(t, err)
	assert.Equal(t, [4]byte{0, 0, 0, 255}, bgra(out, 0, 0))
}

func TestRenderBorder(t *testing.T) {
	api := wr.NewAPI()
	side := func(w float32, c wr.ColorF) wr.BorderSide {
		return wr.BorderSide{Width: w, Color: c, Style: wr.BorderSolid}
	}
	id := list(t, api, func(b *wr.DisplayListBuilder) error {
		return b.PushBorder(wr.LevelContent, wr.NewRect(0, 0, 40, 40), wr.DeviceClip(),
			side(4, wr.Red), side(4, wr.Green),
			wr.BorderSide{Width: 4, Color: wr.Blue, Style: wr.BorderNone},
			side(4, wr.Yellow), wr.BorderRadius{TopLeft: wr.Sz(20, 20)})
	})
	out, err := Render(submit(t, api, context(t, wr.StackingContextDesc{}, id), wr.Black), 40, 40)
	require.NoError(t, err)

	black := [4]byte{0, 0, 0, 255}
	assert.Equal(t, [4]byte{0, 0, 255, 255}, bgra(out, 1, 30), "left")
	assert.Equal(t, [4]byte{0, 255, 0, 255}, bgra(out, 30, 1), "top")
	assert.Equal(t, black, bgra(out, 38, 20), "right side has no style")
	assert.Equal(t, [4]byte{0, 255, 255, 255}, bgra(out, 20, 38), "bottom")
	assert.Equal(t, black, bgra(out, 20, 20), "inside")
	assert.Equal(t, black, bgra(out, 1, 1), "outside the rounded corner")
}

func TestInsideRounded(t *testing.T) {
	r := wr.NewRect(0, 0, 10, 10)
	rad := wr.UniformRadius(5)
	assert.True(t, insideRounded(r, rad, 5, 5))
	assert.False(t, insideRounded(r, rad, 0.5, 0.5))
	assert.True(t, insideRounded(r, rad, 1.5, 5))
	assert.False(t, insideRounded(r, rad, 9.5, 9.5))
	assert.False(t, insideRounded(r, rad, 11, 5))
	assert.True(t, insideRounded(r, wr.BorderRadius{}, 0.1, 0.1))
}

func TestRenderSkipsText(t *testing.T) {
	var buf bytes.Buffer
	wr.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer wr.SetLogger(nil)

	api := wr.NewAPI()
	fk, err := api.AddFont("", goregular.TTF)
	require.NoError(t, err)
	id := list(t, api, func(b *wr.DisplayListBuilder) error {
		return b.PushText(wr.LevelContent, wr.NewRect(0, 0, 10, 10), wr.DeviceClip(),
			[]wr.GlyphInstance{{Index: 1}}, fk, wr.Red, wr.AuFromPx(12))
	})
	out, err := Render(submit(t, api, context(t, wr.StackingContextDesc{}, id), wr.Black), 10, 10)
	require.NoError(t, err)
	assert.Equal(t, [4]byte{0, 0, 0, 255}, bgra(out, 2, 2))
	assert.Contains(t, buf.String(), "text run skipped")
}

func TestRenderErrors(t *testing.T) {
	_, err := Render(nil, 10, 10)
	assert.ErrorIs(t, err, ErrNilScene)

	api := wr.NewAPI()
	scene := submit(t, api, context(t, wr.StackingContextDesc{}), wr.Black)
	_, err = Render(scene, 0, 10)
	assert.ErrorIs(t, err, ErrInvalidSize)
	_, err = Render(scene, wr.MaxDeviceExtent+1, 10)
	assert.ErrorIs(t, err, ErrInvalidSize)

	root := context(t, wr.StackingContextDesc{}, 42)
	_, err = RenderTree(root, api, wr.Black, 4, 4)
	assert.ErrorIs(t, err, wr.ErrUnknownResource)
}

func TestRenderWithBackground(t *testing.T) {
	api := wr.NewAPI()
	scene := submit(t, api, context(t, wr.StackingContextDesc{}), wr.Black)
	out, err := Render(scene, 2, 2, WithBackground(wr.Red))
	require.NoError(t, err)
	assert.Equal(t, [4]byte{0, 0, 255, 255}, bgra(out, 1, 1))
}
