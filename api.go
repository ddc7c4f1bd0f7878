package wr

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/wr/font"
	"github.com/gogpu/wr/pixfmt"
)

// API is the registry and submission point for one renderer. It owns every
// registered display list, image and font, and publishes the current scene
// of each pipeline.
//
// All methods are safe for concurrent use. Builders and unsubmitted
// stacking contexts passed to it are not: they belong to one producer.
type API struct {
	log      *slog.Logger
	notifier Notifier
	width    int
	height   int

	nextList  atomic.Uint64
	nextImage atomic.Uint64

	// submitMu serializes scene submission.
	submitMu sync.Mutex

	mu      sync.RWMutex
	lists   map[DisplayListID]*DisplayList
	images  map[ImageKey]*pixfmt.Image
	digests map[uint64]ImageKey

	fonts  *font.Registry
	scenes *sceneStore
}

// NewAPI creates an empty API.
func NewAPI(opts ...Option) *API {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	p, err := font.LookupParser(o.fontParser)
	if err != nil {
		p, _ = font.LookupParser(font.DefaultParser)
	}
	if o.notifier == nil {
		o.notifier = nopNotifier{}
	}
	return &API{
		log:      o.logger,
		notifier: o.notifier,
		width:    o.width,
		height:   o.height,
		lists:    make(map[DisplayListID]*DisplayList),
		images:   make(map[ImageKey]*pixfmt.Image),
		digests:  make(map[uint64]ImageKey),
		fonts:    font.NewRegistry(p),
		scenes:   newSceneStore(),
	}
}

func (api *API) logger() *slog.Logger {
	if api.log != nil {
		return api.log
	}
	return Logger()
}

// DeviceSize returns the device surface size configured with WithDeviceSize.
func (api *API) DeviceSize() (width, height int) {
	return api.width, api.height
}

// AddDisplayList registers a sealed list for pipeline and returns its
// handle. Every image and font the list references must already be
// registered, and every glyph index must exist in its font.
func (api *API) AddDisplayList(dl *DisplayList, pipeline PipelineID, epoch Epoch) (DisplayListID, error) {
	if dl == nil {
		return 0, fmt.Errorf("wr: nil display list: %w", ErrUnknownResource)
	}
	if err := api.checkResources(dl); err != nil {
		return 0, err
	}
	id := DisplayListID(api.nextList.Add(1))

	api.mu.Lock()
	api.lists[id] = dl
	api.mu.Unlock()

	api.logger().Debug("display list registered",
		"id", uint64(id), "pipeline", uint32(pipeline), "epoch", uint32(epoch), "items", dl.Len())
	return id, nil
}

func (api *API) checkResources(dl *DisplayList) error {
	for i, p := range dl.items {
		switch p := p.(type) {
		case *ImagePrimitive:
			if _, ok := api.Image(p.Image); !ok {
				return fmt.Errorf("wr: item %d: %v: %w", i, p.Image, ErrUnknownResource)
			}
		case *TextPrimitive:
			if _, ok := api.fonts.Face(p.Font); !ok {
				return fmt.Errorf("wr: item %d: %v: %w", i, p.Font, ErrUnknownResource)
			}
			for _, g := range p.glyphs {
				if err := api.fonts.CheckGlyph(p.Font, g.Index); err != nil {
					return fmt.Errorf("wr: item %d: %w: %w", i, ErrInvalidGlyph, err)
				}
			}
		}
	}
	return nil
}

// DisplayList returns a registered list.
func (api *API) DisplayList(id DisplayListID) (*DisplayList, bool) {
	api.mu.RLock()
	defer api.mu.RUnlock()
	dl, ok := api.lists[id]
	return dl, ok
}

// AddImage registers a normalized image. Registering identical content
// (same size, format and bytes) again returns the existing key.
func (api *API) AddImage(img *pixfmt.Image) (ImageKey, error) {
	if img == nil {
		return 0, fmt.Errorf("wr: nil image: %w", ErrMalformedImageBuffer)
	}
	digest := img.Digest()

	api.mu.Lock()
	defer api.mu.Unlock()

	k, ok := api.digests[digest]
	if ok && sameImage(api.images[k], img) {
		api.logger().Debug("image dedup hit", "key", uint64(k))
		return k, nil
	}
	k = ImageKey(api.nextImage.Add(1))
	api.images[k] = img
	if !ok {
		api.digests[digest] = k
	}
	api.logger().Debug("image registered",
		"key", uint64(k), "width", img.Width(), "height", img.Height(), "format", img.Format().String())
	return k, nil
}

// Image returns a registered image.
func (api *API) Image(k ImageKey) (*pixfmt.Image, bool) {
	api.mu.RLock()
	defer api.mu.RUnlock()
	img, ok := api.images[k]
	return img, ok
}

// DeleteImage evicts an image. Scenes already submitted keep painting
// nothing for it; new display lists referencing it are rejected.
func (api *API) DeleteImage(k ImageKey) bool {
	api.mu.Lock()
	defer api.mu.Unlock()
	img, ok := api.images[k]
	if !ok {
		api.logger().Warn("delete of unknown image", "key", uint64(k))
		return false
	}
	delete(api.images, k)
	if d := img.Digest(); api.digests[d] == k {
		delete(api.digests, d)
	}
	return true
}

// sameImage guards digest hits against hash collisions.
func sameImage(a, b *pixfmt.Image) bool {
	return a != nil && a.Width() == b.Width() && a.Height() == b.Height() &&
		a.Format() == b.Format() && bytes.Equal(a.Pix(), b.Pix())
}

// AddFont parses and registers font file bytes. name overrides the
// family name used by FontByName; pass "" to use the font's own.
func (api *API) AddFont(name string, data []byte) (FontKey, error) {
	k, f, err := api.fonts.Add(name, data)
	if err != nil {
		return 0, err
	}
	api.logger().Debug("font registered", "key", uint32(k), "family", f.Family(), "glyphs", f.NumGlyphs())
	return k, nil
}

// FontByName returns the key of the most recently added font with name.
func (api *API) FontByName(name string) (FontKey, bool) {
	return api.fonts.Lookup(name)
}

// Font returns the parsed metadata of a registered font.
func (api *API) Font(k FontKey) (font.Face, bool) {
	return api.fonts.Face(k)
}

// GlyphAdvance returns the horizontal advance of one glyph of font k at
// size.
func (api *API) GlyphAdvance(k FontKey, index uint32, size Au) (Au, error) {
	adv, err := api.fonts.Advance(k, index, size.Fixed())
	if err != nil {
		return 0, fmt.Errorf("wr: %w: %w", ErrInvalidGlyph, err)
	}
	return AuFromFixed(adv), nil
}

// RunAdvance returns the sum of the advances of the glyphs of run, the
// width the run occupies when its glyphs are set one after another.
func (api *API) RunAdvance(run *TextPrimitive) (Au, error) {
	var total Au
	for _, g := range run.glyphs {
		adv, err := api.GlyphAdvance(run.Font, g.Index, run.Size)
		if err != nil {
			return 0, err
		}
		total += adv
	}
	return total, nil
}

// SetRootStackingContext seals the tree under root and publishes it as the
// current scene of pipeline. Consumers calling CurrentScene see either the
// previous scene or this one, never a mix.
//
// root must be detached (not a child and not a previous root), every
// display list it references must be registered, and epoch must not be
// older than the pipeline's current epoch. On failure nothing is sealed or
// published.
func (api *API) SetRootStackingContext(root *StackingContext, background ColorF, epoch Epoch, pipeline PipelineID) error {
	if root == nil {
		return fmt.Errorf("wr: nil root: %w", ErrUnknownResource)
	}
	api.submitMu.Lock()
	defer api.submitMu.Unlock()

	if root.Owned() {
		return ErrAlreadyOwned
	}

	var missing DisplayListID
	api.mu.RLock()
	root.walk(func(sc *StackingContext) bool {
		for _, id := range sc.lists {
			if _, ok := api.lists[id]; !ok {
				missing = id
				return false
			}
		}
		return true
	})
	api.mu.RUnlock()
	if missing != 0 {
		return fmt.Errorf("wr: %v: %w", missing, ErrUnknownResource)
	}

	slot := api.scenes.slot(pipeline)
	if cur := slot.Load(); cur != nil && epoch < cur.epoch {
		return fmt.Errorf("wr: %v epoch %d < %d: %w", pipeline, epoch, cur.epoch, ErrStaleEpoch)
	}

	// The tree is sealed before it becomes visible to readers.
	root.root = true
	root.seal()
	slot.Store(&Scene{root: root, background: background, epoch: epoch, pipeline: pipeline, lists: api})

	api.logger().Info("scene submitted",
		"pipeline", uint32(pipeline), "epoch", uint32(epoch), "contexts", root.Count())
	api.notifier.NewFrameReady(pipeline, epoch)
	return nil
}

// CurrentScene returns the last scene published for pipeline, or nil.
func (api *API) CurrentScene(pipeline PipelineID) *Scene {
	return api.scenes.load(pipeline)
}

// Pipelines returns the pipelines that have a scene, in ascending order.
func (api *API) Pipelines() []PipelineID {
	return api.scenes.pipelines()
}
