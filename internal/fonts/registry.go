package fonts

import "fmt"

// Registry maps each GlyphSet to the Store serving it. A set with no store
// is unmapped: every lookup against it reports ErrNoGlyph. Registries are
// immutable; With returns a modified copy.
type Registry struct {
	emoji, bold, regular, small, hanzi *Store
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// DefaultRegistry returns a registry holding only the built-in Small set.
func DefaultRegistry() *Registry {
	return &Registry{small: smallStore}
}

// With returns a copy of r with set served by s. A nil s unmaps the set.
func (r *Registry) With(set GlyphSet, s *Store) (*Registry, error) {
	out := &Registry{}
	if r != nil {
		*out = *r
	}
	switch set {
	case Emoji:
		out.emoji = s
	case Bold:
		out.bold = s
	case Regular:
		out.regular = s
	case Small:
		out.small = s
	case Hanzi:
		out.hanzi = s
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownGlyphSet, int(set))
	}
	return out, nil
}

// Store returns the store serving set, or nil when the set is unmapped.
func (r *Registry) Store(set GlyphSet) *Store {
	if r == nil {
		return nil
	}
	switch set {
	case Emoji:
		return r.emoji
	case Bold:
		return r.bold
	case Regular:
		return r.regular
	case Small:
		return r.small
	case Hanzi:
		return r.hanzi
	}
	return nil
}

// Resolve looks up the leading cluster in set. It returns the glyph handle
// and the number of bytes consumed. Glyphs too wide to blit are reported as
// ErrNoGlyph so the caller moves on to the next set.
func (r *Registry) Resolve(set GlyphSet, cluster string) (Handle, int, error) {
	s := r.Store(set)
	if s == nil {
		return Handle{}, 0, ErrNoGlyph
	}
	off, n, err := s.Lookup(cluster)
	if err != nil {
		return Handle{}, 0, err
	}
	hdr, err := s.Header(off)
	if err != nil {
		return Handle{}, 0, err
	}
	if !hdr.Renderable() {
		return Handle{}, 0, ErrNoGlyph
	}
	return Handle{Set: set, Offset: off}, n, nil
}

// Header returns the header of the glyph behind h.
func (r *Registry) Header(h Handle) (Header, error) {
	s := r.Store(h.Set)
	if s == nil {
		return Header{}, ErrNoGlyph
	}
	return s.Header(h.Offset)
}

// Word returns the n-th word of the glyph behind h; n 0 is the header.
func (r *Registry) Word(h Handle, n int) (uint32, error) {
	s := r.Store(h.Set)
	if s == nil {
		return 0, ErrNoGlyph
	}
	return s.Word(h.Offset, n)
}

// Source returns the provider holding the glyph behind h and the index of
// its header word, for callers that read pattern words in a tight loop.
func (r *Registry) Source(h Handle) (Provider, int, bool) {
	s := r.Store(h.Set)
	if s == nil || s.Data == nil {
		return nil, 0, false
	}
	return s.Data, int(h.Offset), true
}

// MaxHeight returns the line height of set, or 0 when it is unmapped.
func (r *Registry) MaxHeight(set GlyphSet) int {
	if s := r.Store(set); s != nil {
		return s.MaxHeight
	}
	return 0
}
