package wr

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Scene is a submitted frame for one pipeline: a sealed stacking context
// tree, a background color and the epoch it was submitted with.
// A Scene is immutable and safe to share between goroutines.
type Scene struct {
	root       *StackingContext
	background ColorF
	epoch      Epoch
	pipeline   PipelineID
	lists      ListResolver
}

// Root returns the root stacking context. The tree is sealed.
func (s *Scene) Root() *StackingContext { return s.root }

// Background returns the clear color.
func (s *Scene) Background() ColorF { return s.background }

// Epoch returns the frame version.
func (s *Scene) Epoch() Epoch { return s.epoch }

// Pipeline returns the pipeline the scene belongs to.
func (s *Scene) Pipeline() PipelineID { return s.pipeline }

// Paint walks the scene in paint order. See the package-level Paint.
func (s *Scene) Paint(fn func(PaintStep) bool) error {
	return Paint(s.root, s.lists, fn)
}

// DisplayList resolves a list referenced by the scene.
func (s *Scene) DisplayList(id DisplayListID) (*DisplayList, bool) {
	return s.lists.DisplayList(id)
}

// sceneStore publishes the current scene of each pipeline. Readers load an
// atomic pointer and never observe a partially replaced tree.
type sceneStore struct {
	mu    sync.RWMutex
	slots map[PipelineID]*atomic.Pointer[Scene]
}

func newSceneStore() *sceneStore {
	return &sceneStore{slots: make(map[PipelineID]*atomic.Pointer[Scene])}
}

func (st *sceneStore) slot(p PipelineID) *atomic.Pointer[Scene] {
	st.mu.RLock()
	s := st.slots[p]
	st.mu.RUnlock()
	if s != nil {
		return s
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if s = st.slots[p]; s == nil {
		s = new(atomic.Pointer[Scene])
		st.slots[p] = s
	}
	return s
}

func (st *sceneStore) load(p PipelineID) *Scene {
	st.mu.RLock()
	s := st.slots[p]
	st.mu.RUnlock()
	if s == nil {
		return nil
	}
	return s.Load()
}

func (st *sceneStore) pipelines() []PipelineID {
	st.mu.RLock()
	out := make([]PipelineID, 0, len(st.slots))
	for p, s := range st.slots {
		if s.Load() != nil {
			out = append(out, p)
		}
	}
	st.mu.RUnlock()
	slices.Sort(out)
	return out
}
