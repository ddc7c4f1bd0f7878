package wr

import (
	"fmt"

	"github.com/gogpu/wr/font"
)

// PipelineID groups the scenes that belong to one logical document.
type PipelineID uint32

// Epoch is the version of a scene submitted for a pipeline.
// Epochs for a pipeline never go backwards.
type Epoch uint32

// ScrollLayerID identifies a stacking context that scrolls independently.
type ScrollLayerID uint32

// DisplayListID is the opaque handle of a registered display list.
// The zero value is never assigned.
type DisplayListID uint64

// ImageKey is the opaque handle of a registered image.
// The zero value is never assigned.
type ImageKey uint64

// FontKey is the opaque handle of a registered font.
type FontKey = font.Key

func (id PipelineID) String() string    { return fmt.Sprintf("pipeline(%d)", uint32(id)) }
func (id DisplayListID) String() string { return fmt.Sprintf("dl(%d)", uint64(id)) }
func (k ImageKey) String() string       { return fmt.Sprintf("image(%d)", uint64(k)) }
