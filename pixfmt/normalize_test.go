package pixfmt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePixels() []byte {
	return []byte{
		10, 20, 30, 40,
		255, 128, 0, 255,
		200, 100, 50, 0,
		1, 2, 3, 128,
	}
}

func TestByteSwapIsInvolution(t *testing.T) {
	inputs := [][]byte{
		{},
		{1, 2, 3, 4},
		samplePixels(),
	}
	for _, in := range inputs {
		buf := append([]byte(nil), in...)
		require.NoError(t, ByteSwap(buf))
		require.NoError(t, ByteSwap(buf))
		assert.Equal(t, in, buf)
	}
}

func TestByteSwapOrder(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	require.NoError(t, ByteSwap(buf))
	assert.Equal(t, []byte{3, 2, 1, 4, 7, 6, 5, 8}, buf)
}

func TestPremultiplyOpaqueMatchesSwap(t *testing.T) {
	src := []byte{
		10, 20, 30, 255,
		255, 254, 253, 255,
		0, 128, 77, 255,
	}
	swapped := append([]byte(nil), src...)
	premul := append([]byte(nil), src...)

	require.NoError(t, ByteSwap(swapped))
	require.NoError(t, ByteSwapAndPremultiply(premul))
	assert.Equal(t, swapped, premul)
}

func TestPremultiplyTransparentIsBlack(t *testing.T) {
	src := []byte{
		255, 255, 255, 0,
		12, 200, 99, 0,
	}
	require.NoError(t, ByteSwapAndPremultiply(src))
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0}, src)
}

func TestPremultiplyTruncates(t *testing.T) {
	// R=200 G=100 B=51 A=128: 200*128/255=100.39, 100*128/255=50.19, 51*128/255=25.6
	src := []byte{200, 100, 51, 128}
	require.NoError(t, ByteSwapAndPremultiply(src))
	assert.Equal(t, []byte{25, 50, 100, 128}, src)
}

func TestMalformedLengthLeavesBufferUntouched(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 7, 9} {
		buf := bytes.Repeat([]byte{9}, n)
		orig := append([]byte(nil), buf...)

		err := ByteSwap(buf)
		assert.ErrorIs(t, err, ErrMalformedImageBuffer)
		err = ByteSwapAndPremultiply(buf)
		assert.ErrorIs(t, err, ErrMalformedImageBuffer)
		err = Premultiply(buf)
		assert.ErrorIs(t, err, ErrMalformedImageBuffer)
		assert.Equal(t, orig, buf)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		layout Layout
		origin Origin
		in     []byte
		want   []byte
		format Format
	}{
		{
			name:   "straight rgba is swapped and premultiplied",
			layout: LayoutRGBA,
			origin: OriginPNG,
			in:     []byte{200, 100, 51, 128},
			want:   []byte{25, 50, 100, 128},
			format: FormatRGBA8,
		},
		{
			name:   "opaque rgbx is only swapped",
			layout: LayoutRGBX,
			origin: OriginJPEG,
			in:     []byte{200, 100, 51, 255},
			want:   []byte{51, 100, 200, 255},
			format: FormatRGB8,
		},
		{
			name:   "premultiplied upstream is only swapped",
			layout: LayoutRGBAPremul,
			origin: OriginOther,
			in:     []byte{100, 50, 25, 128},
			want:   []byte{25, 50, 100, 128},
			format: FormatRGBA8,
		},
		{
			name:   "gif is premultiplied even when declared premultiplied",
			layout: LayoutRGBAPremul,
			origin: OriginGIF,
			in:     []byte{200, 100, 51, 128},
			want:   []byte{25, 50, 100, 128},
			format: FormatRGBA8,
		},
		{
			name:   "gif is premultiplied even when declared opaque",
			layout: LayoutRGBX,
			origin: OriginGIF,
			in:     []byte{200, 100, 51, 0},
			want:   []byte{0, 0, 0, 0},
			format: FormatRGBA8,
		},
		{
			name:   "straight bgra keeps order",
			layout: LayoutBGRA,
			origin: OriginOther,
			in:     []byte{51, 100, 200, 128},
			want:   []byte{25, 50, 100, 128},
			format: FormatRGBA8,
		},
		{
			name:   "bgrx is copied",
			layout: LayoutBGRX,
			origin: OriginOther,
			in:     []byte{1, 2, 3, 255},
			want:   []byte{1, 2, 3, 255},
			format: FormatRGB8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := append([]byte(nil), tt.in...)
			img, err := Normalize(Decoded{
				Width: 1, Height: 1, Depth: 4,
				Layout: tt.layout, Origin: tt.origin, Pix: in,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, img.Pix())
			assert.Equal(t, tt.format, img.Format())
			assert.Equal(t, tt.in, in, "input must not be modified")
		})
	}
}

func TestNormalizeDoesNotRetainInput(t *testing.T) {
	in := []byte{1, 2, 3, 255}
	img, err := Normalize(Decoded{Width: 1, Height: 1, Depth: 4, Layout: LayoutBGRX, Pix: in})
	require.NoError(t, err)

	in[0] = 99
	assert.Equal(t, byte(1), img.Pix()[0])
}

func TestNormalizeErrors(t *testing.T) {
	tests := []struct {
		name string
		d    Decoded
		want error
	}{
		{"alpha only", Decoded{Width: 4, Height: 1, Depth: 1, Layout: LayoutGray, Pix: make([]byte, 4)}, ErrUnsupportedPixelFormat},
		{"luminance alpha", Decoded{Width: 2, Height: 1, Depth: 2, Layout: LayoutGrayAlpha, Pix: make([]byte, 4)}, ErrUnsupportedPixelFormat},
		{"hdr", Decoded{Width: 1, Height: 1, Depth: 16, Layout: LayoutRGBAF32, Pix: make([]byte, 16)}, ErrUnsupportedPixelFormat},
		{"rgb depth 3", Decoded{Width: 1, Height: 1, Depth: 3, Layout: LayoutRGBX, Pix: make([]byte, 3)}, ErrUnsupportedPixelFormat},
		{"ragged length", Decoded{Width: 1, Height: 1, Depth: 4, Layout: LayoutRGBA, Pix: make([]byte, 6)}, ErrMalformedImageBuffer},
		{"dimension mismatch", Decoded{Width: 2, Height: 2, Depth: 4, Layout: LayoutRGBA, Pix: make([]byte, 8)}, ErrMalformedImageBuffer},
		{"zero size", Decoded{Width: 0, Height: 0, Depth: 4, Layout: LayoutRGBA}, ErrMalformedImageBuffer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Normalize(tt.d)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, img)
		})
	}
}
