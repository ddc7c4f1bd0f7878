// Package wr is a retained-mode scene model: display lists of paint
// primitives, a stacking-context compositing tree, and atomic per-pipeline
// scene submission.
//
// # Overview
//
// Content is described once and then handed to a consumer (a renderer)
// that may read it from another goroutine:
//
//   - A DisplayListBuilder accumulates rectangles, text runs, images,
//     gradients and borders. Finish seals it into an immutable DisplayList.
//   - API.AddDisplayList registers the list and returns a DisplayListID.
//   - StackingContexts reference lists by ID and own their children,
//     forming a strict tree with transforms and blend modes.
//   - API.SetRootStackingContext seals the tree and publishes it as the
//     current Scene of a pipeline in one atomic step.
//
// # Quick Start
//
//	api := wr.NewAPI()
//
//	b := wr.NewDisplayListBuilder()
//	b.PushRect(wr.LevelContent, wr.NewRect(100, 100, 100, 100), wr.DeviceClip(), wr.Green)
//	dl, _ := b.Finish()
//	id, _ := api.AddDisplayList(dl, 0, 0)
//
//	root, _ := wr.NewStackingContext(wr.StackingContextDesc{Bounds: wr.NewRect(0, 0, 1024, 1024)})
//	root.AddDisplayList(id)
//	api.SetRootStackingContext(root, wr.White, 0, 0)
//
//	scene := api.CurrentScene(0)
//	scene.Paint(func(s wr.PaintStep) bool { ...; return true })
//
// # Paint order
//
// Within a stacking context the display lists paint first, in the order
// they were added, then the children, in the order they were added. A
// context with a blend mode other than BlendNormal is isolated: its
// subtree is rendered to an intermediate surface that is then blended
// onto what the parent painted before it. Sibling order therefore matters
// for non-commutative modes such as BlendDifference.
//
// # Images
//
// Images enter through package pixfmt, which converts decoded pixels to the
// canonical premultiplied B, G, R, A byte order. Package decode wraps the
// standard decoders for convenience. Package raster is a software
// compositor for submitted scenes.
//
// # Logging
//
// wr is silent by default. See SetLogger.
package wr
