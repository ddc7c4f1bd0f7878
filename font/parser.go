package font

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	gotext "github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// DefaultParser is the parser used when none is selected.
const DefaultParser = "ximage"

var (
	parsersMu sync.RWMutex
	parsers   = make(map[string]Parser)
)

func init() {
	RegisterParser("ximage", ParserFunc(parseXImage))
	RegisterParser("gotext", ParserFunc(parseGoText))
}

// RegisterParser makes a parser available by name, following the
// database/sql driver pattern. It panics if p is nil or the name is
// already taken.
func RegisterParser(name string, p Parser) {
	parsersMu.Lock()
	defer parsersMu.Unlock()

	if p == nil {
		panic("font: RegisterParser parser is nil")
	}
	if _, dup := parsers[name]; dup {
		panic("font: RegisterParser called twice for " + name)
	}
	parsers[name] = p
}

// LookupParser returns the parser registered under name. An empty name
// selects DefaultParser.
func LookupParser(name string) (Parser, error) {
	if name == "" {
		name = DefaultParser
	}
	parsersMu.RLock()
	defer parsersMu.RUnlock()

	p, ok := parsers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParser, name)
	}
	return p, nil
}

// Parsers returns the names of all registered parsers, sorted.
func Parsers() []string {
	parsersMu.RLock()
	defer parsersMu.RUnlock()

	names := make([]string, 0, len(parsers))
	for name := range parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func parseXImage(data []byte) (Face, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("font: parse: %w", err)
	}
	family, err := f.Name(nil, sfnt.NameIDFamily)
	if err != nil && !errors.Is(err, sfnt.ErrNotFound) {
		return nil, fmt.Errorf("font: family name: %w", err)
	}
	upem := int(f.UnitsPerEm())
	advances, err := ximageAdvances(f, upem)
	if err != nil {
		return nil, err
	}
	return &face{
		family:     family,
		numGlyphs:  f.NumGlyphs(),
		unitsPerEm: upem,
		advances:   advances,
	}, nil
}

// ximageAdvances reads every advance in design units by asking for it at
// one pixel per design unit.
func ximageAdvances(f *sfnt.Font, upem int) ([]uint16, error) {
	var buf sfnt.Buffer
	out := make([]uint16, f.NumGlyphs())
	for i := range out {
		adv, err := f.GlyphAdvance(&buf, sfnt.GlyphIndex(i), fixed.I(upem), xfont.HintingNone)
		if err != nil {
			return nil, fmt.Errorf("font: advance of glyph %d: %w", i, err)
		}
		out[i] = uint16(adv.Round())
	}
	return out, nil
}

var (
	maxpTag        = ot.MustNewTag("maxp")
	errMissingMaxp = errors.New("font: parse: missing maxp table")
)

func parseGoText(data []byte) (Face, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	ld, err := ot.NewLoader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("font: parse: %w", err)
	}
	ft, err := gotext.NewFont(ld)
	if err != nil {
		return nil, fmt.Errorf("font: parse: %w", err)
	}
	// The maxp table starts with a 4-byte version followed by numGlyphs.
	maxp, err := ld.RawTable(maxpTag)
	if err != nil || len(maxp) < 6 {
		return nil, errMissingMaxp
	}
	numGlyphs := int(binary.BigEndian.Uint16(maxp[4:6]))
	fc := gotext.NewFace(ft)
	advances := make([]uint16, numGlyphs)
	for i := range advances {
		advances[i] = uint16(math.Round(float64(fc.HorizontalAdvance(gotext.GID(i)))))
	}
	return &face{
		family:     ft.Describe().Family,
		numGlyphs:  numGlyphs,
		unitsPerEm: int(ft.Upem()),
		advances:   advances,
	}, nil
}
