package wr

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
)

// encodingMagic opens every encoded display list.
var encodingMagic = [4]byte{'W', 'R', 'D', 'L'}

const encodingVersion = 1

// ErrCorruptEncoding is returned by DecodeDisplayList for truncated or
// unrecognized input.
var ErrCorruptEncoding = errors.New("wr: corrupt display list encoding")

// Encode serializes the list into a compact tag stream: one Tag byte per
// primitive followed by its little-endian data. The layout of each tag is
// documented on the Tag constants.
func (dl *DisplayList) Encode() []byte {
	e := encoder{buf: make([]byte, 0, 16+len(dl.items)*48)}
	e.buf = append(e.buf, encodingMagic[:]...)
	e.buf = append(e.buf, encodingVersion)
	e.u32(uint32(len(dl.items)))
	for _, p := range dl.items {
		e.primitive(p)
	}
	e.buf = append(e.buf, byte(TagEnd))
	return e.buf
}

// Hash returns a 64-bit FNV-1a digest of the encoded list. Two lists with
// the same primitives in the same order hash equally.
func (dl *DisplayList) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write(dl.Encode())
	return h.Sum64()
}

// DecodeDisplayList rebuilds a sealed list from Encode output. Every
// primitive is replayed through a DisplayListBuilder, so decoded lists obey
// the same validation as built ones.
func DecodeDisplayList(data []byte) (*DisplayList, error) {
	d := decoder{buf: data}
	var magic [4]byte
	copy(magic[:], d.bytes(4))
	if d.err != nil || magic != encodingMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrCorruptEncoding)
	}
	if v := d.byte(); v != encodingVersion {
		return nil, fmt.Errorf("%w: version %d", ErrCorruptEncoding, v)
	}
	count := d.u32()
	b := NewDisplayListBuilder()
	for i := uint32(0); i < count && d.err == nil; i++ {
		if err := d.primitive(b); err != nil {
			return nil, err
		}
	}
	if d.err != nil {
		return nil, d.err
	}
	if Tag(d.byte()) != TagEnd || d.err != nil {
		return nil, fmt.Errorf("%w: missing end tag", ErrCorruptEncoding)
	}
	return b.Finish()
}

type encoder struct {
	buf []byte
}

func (e *encoder) u32(v uint32)  { e.buf = binary.LittleEndian.AppendUint32(e.buf, v) }
func (e *encoder) u64(v uint64)  { e.buf = binary.LittleEndian.AppendUint64(e.buf, v) }
func (e *encoder) f32(v float32) { e.u32(math.Float32bits(v)) }

func (e *encoder) rect(r Rect) {
	e.f32(r.Origin.X)
	e.f32(r.Origin.Y)
	e.f32(r.Size.Width)
	e.f32(r.Size.Height)
}

func (e *encoder) color(c ColorF) {
	e.f32(c.R)
	e.f32(c.G)
	e.f32(c.B)
	e.f32(c.A)
}

func (e *encoder) item(it Item) {
	e.buf = append(e.buf, byte(it.Level))
	e.rect(it.Bounds)
	e.rect(it.Clip.Main)
}

func (e *encoder) side(s BorderSide) {
	e.f32(s.Width)
	e.color(s.Color)
	e.buf = append(e.buf, byte(s.Style))
}

func (e *encoder) primitive(p Primitive) {
	e.buf = append(e.buf, byte(tagFor(p.Kind())))
	e.item(p.Base())
	switch p := p.(type) {
	case *RectPrimitive:
		e.color(p.Color)
	case *GradientPrimitive:
		e.f32(p.Start.X)
		e.f32(p.Start.Y)
		e.f32(p.End.X)
		e.f32(p.End.Y)
		e.u32(uint32(len(p.stops)))
		for _, s := range p.stops {
			e.f32(s.Offset)
			e.color(s.Color)
		}
	case *TextPrimitive:
		e.u32(uint32(p.Font))
		e.color(p.Color)
		e.u32(uint32(p.Size))
		e.u32(uint32(len(p.glyphs)))
		for _, g := range p.glyphs {
			e.u32(g.Index)
			e.f32(g.X)
			e.f32(g.Y)
		}
	case *ImagePrimitive:
		e.f32(p.StretchSize.Width)
		e.f32(p.StretchSize.Height)
		e.u64(uint64(p.Image))
	case *BorderPrimitive:
		e.side(p.Left)
		e.side(p.Top)
		e.side(p.Right)
		e.side(p.Bottom)
		for _, r := range [4]Size{p.Radius.TopLeft, p.Radius.TopRight, p.Radius.BottomLeft, p.Radius.BottomRight} {
			e.f32(r.Width)
			e.f32(r.Height)
		}
	}
}

// decoder reads little-endian values with a sticky error.
type decoder struct {
	buf []byte
	off int
	err error
}

func (d *decoder) bytes(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || d.off+n > len(d.buf) {
		d.err = fmt.Errorf("%w: truncated at offset %d", ErrCorruptEncoding, d.off)
		return nil
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b
}

func (d *decoder) byte() byte {
	if b := d.bytes(1); b != nil {
		return b[0]
	}
	return 0
}

func (d *decoder) u32() uint32 {
	if b := d.bytes(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (d *decoder) u64() uint64 {
	if b := d.bytes(8); b != nil {
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}

func (d *decoder) f32() float32 { return math.Float32frombits(d.u32()) }

func (d *decoder) rect() Rect {
	x, y, w, h := d.f32(), d.f32(), d.f32(), d.f32()
	return NewRect(x, y, w, h)
}

func (d *decoder) color() ColorF {
	r, g, b, a := d.f32(), d.f32(), d.f32(), d.f32()
	return ColorF{R: r, G: g, B: b, A: a}
}

func (d *decoder) side() BorderSide {
	w := d.f32()
	c := d.color()
	return BorderSide{Width: w, Color: c, Style: BorderStyle(d.byte())}
}

// count reads a length prefix and rejects values the remaining input
// cannot possibly hold.
func (d *decoder) count(elemSize int) int {
	n := int(d.u32())
	if d.err == nil && n*elemSize > len(d.buf)-d.off {
		d.err = fmt.Errorf("%w: count %d exceeds input", ErrCorruptEncoding, n)
		return 0
	}
	return n
}

func (d *decoder) primitive(b *DisplayListBuilder) error {
	tag := Tag(d.byte())
	level := StackingLevel(d.byte())
	bounds := d.rect()
	clip := NewClipRegion(d.rect())
	var push func() error
	switch tag {
	case TagRect:
		c := d.color()
		push = func() error { return b.PushRect(level, bounds, clip, c) }
	case TagGradient:
		start := Point{X: d.f32(), Y: d.f32()}
		end := Point{X: d.f32(), Y: d.f32()}
		stops := make([]GradientStop, d.count(20))
		for i := range stops {
			stops[i].Offset = d.f32()
			stops[i].Color = d.color()
		}
		push = func() error { return b.PushGradient(level, bounds, clip, start, end, stops) }
	case TagText:
		font := FontKey(d.u32())
		c := d.color()
		size := Au(int32(d.u32()))
		glyphs := make([]GlyphInstance, d.count(12))
		for i := range glyphs {
			glyphs[i] = GlyphInstance{Index: d.u32(), X: d.f32(), Y: d.f32()}
		}
		push = func() error { return b.PushText(level, bounds, clip, glyphs, font, c, size) }
	case TagImage:
		stretch := Size{Width: d.f32(), Height: d.f32()}
		key := ImageKey(d.u64())
		push = func() error { return b.PushImage(level, bounds, clip, stretch, key) }
	case TagBorder:
		l, t, r, bt := d.side(), d.side(), d.side(), d.side()
		var radius BorderRadius
		for _, s := range []*Size{&radius.TopLeft, &radius.TopRight, &radius.BottomLeft, &radius.BottomRight} {
			s.Width, s.Height = d.f32(), d.f32()
		}
		push = func() error { return b.PushBorder(level, bounds, clip, l, t, r, bt, radius) }
	default:
		return fmt.Errorf("%w: unknown tag 0x%02x", ErrCorruptEncoding, byte(tag))
	}
	if d.err != nil {
		return d.err
	}
	return push()
}
