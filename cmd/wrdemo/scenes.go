package main

import (
	"image"
	"image/color"
	"os"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/wr"
	"github.com/gogpu/wr/decode"
	"github.com/gogpu/wr/pixfmt"
)

// assets are the external resources test1 references.
type assets struct {
	font  []byte
	image *pixfmt.Image
}

func loadAssets(cfg config) (assets, error) {
	var a assets
	if cfg.Font != "" {
		data, err := os.ReadFile(cfg.Font)
		if err != nil {
			return a, err
		}
		a.font = data
	} else {
		a.font = goregular.TTF
	}

	var err error
	if cfg.Image != "" {
		a.image, err = decode.LoadFile(cfg.Image)
	} else {
		a.image, err = decode.FromImage(checkerboard(64, 8), pixfmt.OriginOther)
	}
	return a, err
}

func checkerboard(size, cell int) image.Image {
	m := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := color.NRGBA{R: 240, G: 200, B: 60, A: 255}
			if (x/cell+y/cell)%2 == 1 {
				c = color.NRGBA{R: 40, G: 40, B: 60, A: 255}
			}
			m.SetNRGBA(x, y, c)
		}
	}
	return m
}

func stack(desc wr.StackingContextDesc, lists ...wr.DisplayListID) (*wr.StackingContext, error) {
	sc, err := wr.NewStackingContext(desc)
	if err != nil {
		return nil, err
	}
	for _, id := range lists {
		if err := sc.AddDisplayList(id); err != nil {
			return nil, err
		}
	}
	return sc, nil
}

// buildTest1 registers the primitive showcase: a rect, a text run, two
// tiled images, a gradient, a border with one rounded corner and two
// overlapping rects, plus a child context holding a yellow square.
func buildTest1(api *wr.API, a assets, width, height int) (*wr.StackingContext, error) {
	fontKey, err := api.AddFont("", a.font)
	if err != nil {
		return nil, err
	}
	imageKey, err := api.AddImage(a.image)
	if err != nil {
		return nil, err
	}

	w, h := float32(width), float32(height)
	clip := wr.DeviceClip()
	b := wr.NewDisplayListBuilder()

	glyphs := make([]wr.GlyphInstance, 0, 12)
	for i, idx := range []uint32{48, 68, 80, 82, 81, 3, 86, 79, 72, 83, 87, 17} {
		glyphs = append(glyphs, wr.GlyphInstance{Index: idx, X: 100 + 50*float32(i), Y: 100})
	}
	stretch := wr.Sz(100, 100)
	side := func(width float32, c wr.ColorF) wr.BorderSide {
		return wr.BorderSide{Width: width, Color: c, Style: wr.BorderSolid}
	}

	for _, push := range []func() error{
		func() error { return b.PushRect(wr.LevelContent, wr.NewRect(100, 100, 100, 100), clip, wr.Green) },
		func() error {
			return b.PushText(wr.LevelContent, wr.NewRect(0, 0, w, h), clip, glyphs, fontKey, wr.Red, wr.AuFromPx(50))
		},
		func() error {
			return b.PushImage(wr.LevelContent, wr.NewRect(600, 100, 100, 100), clip, stretch, imageKey)
		},
		func() error {
			return b.PushImage(wr.LevelContent, wr.NewRect(600, 400, 100, 100), clip, stretch, imageKey)
		},
		func() error {
			return b.PushGradient(wr.LevelContent, wr.NewRect(0, 0, 100, 100), clip,
				wr.Pt(0, 0), wr.Pt(100, 100), []wr.GradientStop{
					{Offset: 0, Color: wr.Red},
					{Offset: 0.5, Color: wr.Blue},
					{Offset: 1, Color: wr.Green},
				})
		},
		func() error {
			return b.PushBorder(wr.LevelContent, wr.NewRect(100, 100, 400, 400), clip,
				side(200, wr.Red), side(200, wr.Green), side(20, wr.Blue), side(20, wr.Yellow),
				wr.BorderRadius{TopLeft: wr.Sz(200, 200)})
		},
		func() error {
			return b.PushRect(wr.LevelContent, wr.NewRect(200, 500, 100, 100), clip, wr.NewColorF(1, 0, 0, 0.5))
		},
		func() error { return b.PushRect(wr.LevelContent, wr.NewRect(250, 500, 100, 100), clip, wr.Green) },
	} {
		if err := push(); err != nil {
			return nil, err
		}
	}
	dl, err := b.Finish()
	if err != nil {
		return nil, err
	}
	id, err := api.AddDisplayList(dl, 0, 0)
	if err != nil {
		return nil, err
	}

	b2 := wr.NewDisplayListBuilder()
	if err := b2.PushRect(wr.LevelContent, wr.NewRect(0, 0, 100, 100), clip, wr.Yellow); err != nil {
		return nil, err
	}
	dl2, err := b2.Finish()
	if err != nil {
		return nil, err
	}
	id2, err := api.AddDisplayList(dl2, 0, 0)
	if err != nil {
		return nil, err
	}

	layer := wr.ScrollLayerID(0)
	root, err := stack(wr.StackingContextDesc{
		ScrollLayer: &layer,
		Bounds:      wr.NewRect(0, 0, w, h),
		ContentRect: wr.NewRect(0, 0, w, h),
	}, id)
	if err != nil {
		return nil, err
	}
	child, err := stack(wr.StackingContextDesc{
		Bounds:      wr.NewRect(100, 600, 100, 100),
		ContentRect: wr.NewRect(0, 0, 100, 100),
	}, id2)
	if err != nil {
		return nil, err
	}
	return root, root.AddStackingContext(child)
}

// buildTest2 registers three overlapping Difference-blended squares.
func buildTest2(api *wr.API) (*wr.StackingContext, error) {
	layer := wr.ScrollLayerID(0)
	root, err := stack(wr.StackingContextDesc{
		ScrollLayer: &layer,
		Bounds:      wr.NewRect(100, 100, 467, 462),
		ContentRect: wr.NewRect(0, 0, 467, 462),
	})
	if err != nil {
		return nil, err
	}

	for _, sq := range []struct {
		x, y  float32
		color wr.ColorF
	}{
		{80, 60, wr.NewColorF(0.5, 0.5, 0, 1)},
		{140, 120, wr.NewColorF(0, 0.5, 0.5, 1)},
		{180, 180, wr.NewColorF(0.5, 0, 0.5, 1)},
	} {
		b := wr.NewDisplayListBuilder()
		if err := b.PushRect(wr.LevelContent, wr.NewRect(0, 0, 250, 250), wr.DeviceClip(), sq.color); err != nil {
			return nil, err
		}
		dl, err := b.Finish()
		if err != nil {
			return nil, err
		}
		id, err := api.AddDisplayList(dl, 0, 0)
		if err != nil {
			return nil, err
		}
		sc, err := stack(wr.StackingContextDesc{
			Bounds:      wr.NewRect(sq.x, sq.y, 250, 250),
			ContentRect: wr.NewRect(0, 0, 250, 250),
			BlendMode:   wr.BlendDifference,
		}, id)
		if err != nil {
			return nil, err
		}
		if err := root.AddStackingContext(sc); err != nil {
			return nil, err
		}
	}
	return root, nil
}
