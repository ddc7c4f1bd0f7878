package wr

import (
	"errors"
	"fmt"

	"github.com/gogpu/wr/pixfmt"
)

// Sentinel errors returned by scene construction.
// All of them are synchronous and non-retryable; an operation that fails
// leaves the receiver unchanged.
var (
	// ErrMalformedImageBuffer is returned when an image buffer is not a
	// whole number of 4-byte pixels or does not match its dimensions.
	ErrMalformedImageBuffer = pixfmt.ErrMalformedImageBuffer

	// ErrUnsupportedPixelFormat is returned for alpha-only, luminance-alpha
	// and floating point sources.
	ErrUnsupportedPixelFormat = pixfmt.ErrUnsupportedPixelFormat

	// ErrInvalidGeometry is returned for negative or non-finite geometry.
	ErrInvalidGeometry = errors.New("wr: invalid geometry")

	// ErrInvalidGradientStops is returned for an empty, out of range or
	// decreasing stop list.
	ErrInvalidGradientStops = errors.New("wr: invalid gradient stops")

	// ErrListSealed is returned when mutating a finished display list or a
	// stacking context that has been submitted in a scene.
	ErrListSealed = errors.New("wr: list sealed")

	// ErrAlreadyOwned is returned when a stacking context would get a
	// second parent or become its own ancestor.
	ErrAlreadyOwned = errors.New("wr: stacking context already owned")

	// ErrUnknownResource is returned when a handle does not name a
	// registered display list, image or font.
	ErrUnknownResource = errors.New("wr: unknown resource")

	// ErrInvalidGlyph is returned when a glyph index is outside the font.
	ErrInvalidGlyph = errors.New("wr: glyph index out of range")

	// ErrStaleEpoch is returned when a scene is submitted with an epoch
	// older than the current one for its pipeline.
	ErrStaleEpoch = errors.New("wr: stale epoch")
)

// GeometryError describes the argument that failed geometry validation.
type GeometryError struct {
	Field string
	Rect  Rect
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("wr: invalid geometry: %s %v", e.Field, e.Rect)
}

func (e *GeometryError) Unwrap() error { return ErrInvalidGeometry }

// StopsError describes why a gradient stop list was rejected.
// Index is -1 when the list is empty.
type StopsError struct {
	Index  int
	Offset float32
	Reason string
}

func (e *StopsError) Error() string {
	if e.Index < 0 {
		return "wr: invalid gradient stops: " + e.Reason
	}
	return fmt.Sprintf("wr: invalid gradient stops: stop %d (offset %g) %s", e.Index, e.Offset, e.Reason)
}

func (e *StopsError) Unwrap() error { return ErrInvalidGradientStops }
