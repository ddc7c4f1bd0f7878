package wr

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(t *testing.T, bounds Rect) *StackingContext {
	t.Helper()
	sc, err := NewStackingContext(StackingContextDesc{Bounds: bounds, ContentRect: Rect{Size: bounds.Size}})
	require.NoError(t, err)
	return sc
}

func TestNewStackingContext(t *testing.T) {
	layer := ScrollLayerID(0)
	sc, err := NewStackingContext(StackingContextDesc{
		ScrollLayer: &layer,
		Bounds:      NewRect(0, 0, 1024, 768),
		ContentRect: NewRect(0, 0, 1024, 768),
		BlendMode:   BlendDifference,
	})
	require.NoError(t, err)

	d := sc.Desc()
	require.NotNil(t, d.ScrollLayer)
	assert.Equal(t, ScrollLayerID(0), *d.ScrollLayer)
	assert.True(t, d.Transform.IsIdentity())
	assert.Equal(t, Identity4(), d.Transform)
	assert.Equal(t, BlendDifference, sc.BlendMode())
	assert.False(t, sc.Owned())

	layer = 5
	assert.Equal(t, ScrollLayerID(0), *sc.Desc().ScrollLayer, "desc must not alias caller memory")
}

func TestNewStackingContextInvalid(t *testing.T) {
	tests := []struct {
		name string
		desc StackingContextDesc
	}{
		{"negative bounds", StackingContextDesc{Bounds: NewRect(0, 0, -1, 1)}},
		{"negative content", StackingContextDesc{ContentRect: NewRect(0, 0, 1, -1)}},
		{"nan transform", StackingContextDesc{Transform: Translate4(math32.NaN(), 0, 0)}},
		{"unknown blend", StackingContextDesc{BlendMode: MixBlendMode(200)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStackingContext(tt.desc)
			assert.ErrorIs(t, err, ErrInvalidGeometry)
		})
	}
}

func TestAddStackingContextOwnership(t *testing.T) {
	a := newContext(t, NewRect(0, 0, 100, 100))
	b := newContext(t, NewRect(0, 0, 100, 100))
	c := newContext(t, NewRect(0, 0, 100, 100))

	require.NoError(t, a.AddStackingContext(c))
	assert.True(t, c.Owned())

	// Second parent.
	assert.ErrorIs(t, b.AddStackingContext(c), ErrAlreadyOwned)
	// Same parent twice.
	assert.ErrorIs(t, a.AddStackingContext(c), ErrAlreadyOwned)
	// Self.
	assert.ErrorIs(t, b.AddStackingContext(b), ErrAlreadyOwned)
	// Ancestor: a is detached but would end up inside its own child.
	assert.ErrorIs(t, c.AddStackingContext(a), ErrAlreadyOwned)

	assert.Len(t, a.Children(), 1)
	assert.Empty(t, b.Children())
	assert.Empty(t, c.Children())
}

func TestAddDisplayListOrder(t *testing.T) {
	sc := newContext(t, NewRect(0, 0, 10, 10))
	require.NoError(t, sc.AddDisplayList(3))
	require.NoError(t, sc.AddDisplayList(1))
	require.NoError(t, sc.AddDisplayList(3))
	assert.Equal(t, []DisplayListID{3, 1, 3}, sc.DisplayLists())
	assert.ErrorIs(t, sc.AddDisplayList(0), ErrUnknownResource)
}

func TestSealedContextRejectsMutation(t *testing.T) {
	root := newContext(t, NewRect(0, 0, 10, 10))
	child := newContext(t, NewRect(0, 0, 10, 10))
	require.NoError(t, root.AddStackingContext(child))
	root.seal()

	assert.True(t, child.Sealed())
	assert.ErrorIs(t, root.AddDisplayList(1), ErrListSealed)
	assert.ErrorIs(t, child.AddStackingContext(newContext(t, Rect{})), ErrListSealed)
	assert.Equal(t, 2, root.Count())
}

func TestBlendModeNames(t *testing.T) {
	assert.Equal(t, "Normal", BlendNormal.String())
	assert.Equal(t, "Difference", BlendDifference.String())
	assert.Equal(t, "Luminosity", BlendLuminosity.String())
	assert.Equal(t, "Unknown", MixBlendMode(99).String())
	assert.False(t, BlendNormal.NeedsIsolation())
	assert.True(t, BlendDifference.NeedsIsolation())
}
