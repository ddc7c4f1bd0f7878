package font

import (
	"fmt"
	"sync"

	"golang.org/x/image/math/fixed"
	"golang.org/x/text/cases"
)

// Registry owns the parsed fonts of one API instance.
// It is safe for concurrent use.
type Registry struct {
	parser Parser

	mu       sync.RWMutex
	next     Key
	faces    map[Key]Face
	byFamily map[string]Key
}

// foldName case-folds a family name for lookup. Casers are not safe for
// concurrent use.
func foldName(name string) string {
	return cases.Fold().String(name)
}

// NewRegistry creates an empty registry that parses with p.
// A nil p selects DefaultParser.
func NewRegistry(p Parser) *Registry {
	if p == nil {
		p, _ = LookupParser(DefaultParser)
	}
	return &Registry{
		parser:   p,
		faces:    make(map[Key]Face),
		byFamily: make(map[string]Key),
	}
}

// Add parses data and registers the resulting face under a fresh key.
// When name is non-empty it is used as the lookup name instead of the
// font's own family name.
func (r *Registry) Add(name string, data []byte) (Key, Face, error) {
	f, err := r.parser.Parse(data)
	if err != nil {
		return 0, nil, err
	}
	if name == "" {
		name = f.Family()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	k := r.next
	r.faces[k] = f
	if name != "" {
		r.byFamily[foldName(name)] = k
	}
	return k, f, nil
}

// Face returns the face registered under k.
func (r *Registry) Face(k Key) (Face, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.faces[k]
	return f, ok
}

// Lookup returns the most recently added font with the given name,
// compared case-insensitively.
func (r *Registry) Lookup(name string) (Key, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.byFamily[foldName(name)]
	return k, ok
}

// Remove evicts k. It reports whether k was registered.
func (r *Registry) Remove(k Key) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.faces[k]; !ok {
		return false
	}
	delete(r.faces, k)
	for name, fk := range r.byFamily {
		if fk == k {
			delete(r.byFamily, name)
		}
	}
	return true
}

// Len returns the number of registered fonts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.faces)
}

// Advance returns the advance of glyph index of font k at size pixels per em.
func (r *Registry) Advance(k Key, index uint32, size fixed.Int26_6) (fixed.Int26_6, error) {
	f, ok := r.Face(k)
	if !ok {
		return 0, fmt.Errorf("font: %v not registered", k)
	}
	return f.Advance(index, size)
}

// CheckGlyph reports an error if index is not a glyph of the font k.
func (r *Registry) CheckGlyph(k Key, index uint32) error {
	f, ok := r.Face(k)
	if !ok {
		return fmt.Errorf("font: %v not registered", k)
	}
	if int64(index) >= int64(f.NumGlyphs()) {
		return fmt.Errorf("font: glyph %d out of range [0, %d)", index, f.NumGlyphs())
	}
	return nil
}
