// Package inspect serves read-only views of published scenes over HTTP.
//
//	GET /pipelines                    pipelines with a current scene
//	GET /pipelines/{id}/scene         the paint stream as JSON
//	GET /pipelines/{id}/frame.png     the scene rendered by raster
//
// frame.png accepts width, height and scale query parameters. Encoded
// frames are cached per scene and size; the X-Frame-Cache response header
// reports hit or miss.
package inspect

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/gogpu/wr"
	"github.com/gogpu/wr/internal/cache"
	"github.com/gogpu/wr/raster"
)

// FrameCacheBudget bounds the encoded frames kept between requests, in bytes.
const FrameCacheBudget = 32 << 20

// Source is the scene registry being inspected. *wr.API implements it.
type Source interface {
	raster.ImageResolver
	Pipelines() []wr.PipelineID
	CurrentScene(p wr.PipelineID) *wr.Scene
	DeviceSize() (width, height int)
	RunAdvance(run *wr.TextPrimitive) (wr.Au, error)
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	ErrorType    string `json:"errorType"`
	ErrorMessage string `json:"errorMessage"`
}

// PipelineInfo describes the current scene of one pipeline.
type PipelineInfo struct {
	Pipeline   wr.PipelineID `json:"pipeline"`
	Epoch      wr.Epoch      `json:"epoch"`
	Contexts   int           `json:"contexts"`
	Background [4]float32    `json:"background"`
}

// Step is one entry of the paint stream.
type Step struct {
	Op        string      `json:"op"`
	Depth     int         `json:"depth"`
	BlendMode string      `json:"blendMode,omitempty"`
	Isolate   bool        `json:"isolate,omitempty"`
	List      uint64      `json:"list,omitempty"`
	Index     int         `json:"index"`
	Kind      string      `json:"kind,omitempty"`
	Level     string      `json:"level,omitempty"`
	Bounds    *[4]float32 `json:"bounds,omitempty"`
	Device    *[4]float32 `json:"device,omitempty"`

	// Advance is the set width of a text run in pixels.
	Advance *float32 `json:"advance,omitempty"`
}

// SceneResponse is the body of GET /pipelines/{id}/scene.
type SceneResponse struct {
	PipelineInfo
	Steps []Step `json:"steps"`
}

// NewRouter returns the inspector routes for src.
func NewRouter(src Source) *chi.Mux {
	h := handler{
		src:    src,
		frames: cache.New[frameKey, []byte](FrameCacheBudget, func(b []byte) int { return len(b) }),
	}
	r := chi.NewRouter()
	r.Get("/pipelines", h.pipelines)
	r.Route("/pipelines/{id}", func(r chi.Router) {
		r.Get("/scene", h.scene)
		r.Get("/frame.png", h.frame)
	})
	return r
}

type handler struct {
	src    Source
	frames *cache.Cache[frameKey, []byte]
}

// frameKey identifies an encoded frame. Scenes are immutable, so the
// pointer identifies the content even when an epoch is resubmitted.
type frameKey struct {
	scene         *wr.Scene
	width, height int
	scale         float64
}

func (h handler) pipelines(w http.ResponseWriter, r *http.Request) {
	out := []PipelineInfo{}
	for _, p := range h.src.Pipelines() {
		if s := h.src.CurrentScene(p); s != nil {
			out = append(out, info(s))
		}
	}
	render.JSON(w, r, out)
}

func (h handler) scene(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	resp := SceneResponse{PipelineInfo: info(s), Steps: []Step{}}
	err := s.Paint(func(ps wr.PaintStep) bool {
		resp.Steps = append(resp.Steps, h.step(ps))
		return true
	})
	if err != nil {
		fail(w, r, http.StatusInternalServerError, "Scene.PaintFailed", err)
		return
	}
	render.JSON(w, r, resp)
}

func (h handler) frame(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	width, height := h.src.DeviceSize()
	q := r.URL.Query()
	width, errW := intParam(q.Get("width"), width)
	height, errH := intParam(q.Get("height"), height)
	scale, errS := floatParam(q.Get("scale"), 1)
	if err := firstErr(errW, errH, errS); err != nil || !(scale > 0 && scale <= 1) {
		if err == nil {
			err = fmt.Errorf("scale %v out of (0, 1]", scale)
		}
		fail(w, r, http.StatusBadRequest, "Frame.InvalidParameter", err)
		return
	}

	key := frameKey{scene: s, width: width, height: height, scale: scale}
	data, hit := h.frames.Get(key)
	if !hit {
		var err error
		if data, err = encodeFrame(s, h.src, width, height, scale); err != nil {
			fail(w, r, http.StatusUnprocessableEntity, "Frame.RenderFailed", err)
			return
		}
		// Frames of replaced scenes can no longer be requested.
		h.frames.DeleteFunc(func(k frameKey) bool {
			return k.scene.Pipeline() == s.Pipeline() && k.scene != s
		})
		h.frames.Set(key, data)
	}

	status := "miss"
	if hit {
		status = "hit"
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Frame-Cache", status)
	if _, err := w.Write(data); err != nil {
		wr.Logger().Warn("inspect: frame write failed", "pipeline", s.Pipeline(), "err", err)
	}
}

func encodeFrame(s *wr.Scene, images raster.ImageResolver, width, height int, scale float64) ([]byte, error) {
	surf, err := raster.Render(s, width, height, raster.WithImages(images))
	if err != nil {
		return nil, err
	}
	img, err := surf.RGBA()
	if err != nil {
		return nil, err
	}
	out := img
	if scale < 1 {
		out = transform.Resize(img,
			max(1, int(float64(width)*scale)), max(1, int(float64(height)*scale)),
			transform.Linear)
	}
	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (h handler) lookup(w http.ResponseWriter, r *http.Request) (*wr.Scene, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		fail(w, r, http.StatusBadRequest, "Pipeline.InvalidID", err)
		return nil, false
	}
	s := h.src.CurrentScene(wr.PipelineID(id))
	if s == nil {
		fail(w, r, http.StatusNotFound, "Pipeline.NotFound",
			fmt.Errorf("no scene for pipeline %d", id))
		return nil, false
	}
	return s, true
}

func fail(w http.ResponseWriter, r *http.Request, status int, kind string, err error) {
	wr.Logger().Debug("inspect: request failed", "path", r.URL.Path, "status", status, "err", err)
	render.Status(r, status)
	render.JSON(w, r, &ErrorResponse{ErrorType: kind, ErrorMessage: err.Error()})
}

func info(s *wr.Scene) PipelineInfo {
	bg := s.Background()
	return PipelineInfo{
		Pipeline:   s.Pipeline(),
		Epoch:      s.Epoch(),
		Contexts:   s.Root().Count(),
		Background: [4]float32{bg.R, bg.G, bg.B, bg.A},
	}
}

func (h handler) step(ps wr.PaintStep) Step {
	st := Step{
		Op:      ps.Op.String(),
		Depth:   ps.Depth,
		Isolate: ps.Isolate,
		Index:   ps.Index,
	}
	if ps.Op != wr.PaintPrimitive {
		st.BlendMode = ps.BlendMode.String()
		return st
	}
	base := ps.Primitive.Base()
	dev := ps.Transform.TransformRect(base.Bounds)
	st.List = uint64(ps.List)
	st.Kind = ps.Primitive.Kind().String()
	st.Level = base.Level.String()
	st.Bounds = rect4(base.Bounds)
	st.Device = rect4(dev)
	if run, ok := ps.Primitive.(*wr.TextPrimitive); ok {
		adv, err := h.src.RunAdvance(run)
		if err != nil {
			wr.Logger().Warn("inspect: run advance", "list", st.List, "index", ps.Index, "err", err)
		} else {
			px := adv.Px()
			st.Advance = &px
		}
	}
	return st
}

func rect4(r wr.Rect) *[4]float32 {
	return &[4]float32{r.MinX(), r.MinY(), r.Size.Width, r.Size.Height}
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func floatParam(v string, def float64) (float64, error) {
	if v == "" {
		return def, nil
	}
	return strconv.ParseFloat(v, 64)
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
