package fonts

import (
	"fmt"
	"slices"
	"sort"
	"unicode/utf8"

	"github.com/ryanlewis/blitstr/internal/common"
	"github.com/ryanlewis/blitstr/internal/m3hash"
)

// Bucket indexes the glyphs whose cluster starts with a codepoint in
// [Low, High]. Keys are strictly increasing and Offsets is parallel to Keys.
type Bucket struct {
	Low, High rune
	// Limits are the cluster lengths, in codepoints, to try in order.
	Limits  []int
	Keys    []uint32
	Offsets []uint32
}

// Store is one glyph set: its hash index and its packed pattern words.
// A Store is immutable once built and safe to share.
type Store struct {
	Name string
	// MaxHeight is the tallest h+yOffset of any pattern; a line drawn in
	// this set is at least this tall.
	MaxHeight int
	Seed      uint32
	Buckets   []Bucket
	Data      Provider
}

// Lookup resolves the leading cluster of s to the offset of its glyph and
// the number of bytes of s the glyph stands for.
func (s *Store) Lookup(cluster string) (offset uint32, n int, err error) {
	if s == nil || len(cluster) == 0 {
		return 0, 0, ErrNoGlyph
	}
	r, _ := utf8.DecodeRuneInString(cluster)
	b := s.bucket(r)
	if b == nil {
		return 0, 0, ErrNoGlyph
	}
	for _, limit := range b.Limits {
		key, used := m3hash.Cluster(cluster, s.Seed, limit)
		if i, ok := slices.BinarySearch(b.Keys, key); ok {
			return b.Offsets[i], used, nil
		}
	}
	return 0, 0, ErrNoGlyph
}

func (s *Store) bucket(r rune) *Bucket {
	i := sort.Search(len(s.Buckets), func(i int) bool { return s.Buckets[i].High >= r })
	if i < len(s.Buckets) && s.Buckets[i].Low <= r {
		return &s.Buckets[i]
	}
	return nil
}

// Word returns the n-th word of the glyph at offset; n 0 is the header.
func (s *Store) Word(offset uint32, n int) (uint32, error) {
	if s == nil || s.Data == nil || n < 0 {
		return 0, ErrNoGlyph
	}
	w, ok := s.Data.Word(int(offset) + n)
	if !ok {
		return 0, ErrNoGlyph
	}
	return w, nil
}

// Header decodes the header of the glyph at offset.
func (s *Store) Header(offset uint32) (Header, error) {
	w, err := s.Word(offset, 0)
	if err != nil {
		return Header{}, err
	}
	return DecodeHeader(w), nil
}

// Entries returns the number of indexed clusters.
func (s *Store) Entries() int {
	n := 0
	for i := range s.Buckets {
		n += len(s.Buckets[i].Keys)
	}
	return n
}

// Validate checks the structural invariants lookups rely on. Errors wrap
// common.ErrBadFormat.
func (s *Store) Validate() error {
	if s.MaxHeight <= 0 {
		return fmt.Errorf("%w: %s: max height %d", common.ErrBadFormat, s.Name, s.MaxHeight)
	}
	if s.Data == nil {
		return fmt.Errorf("%w: %s: no data", common.ErrBadFormat, s.Name)
	}
	size := s.Data.Len()
	for i := range s.Buckets {
		b := &s.Buckets[i]
		if b.Low > b.High {
			return fmt.Errorf("%w: %s: bucket %04X-%04X reversed", common.ErrBadFormat, s.Name, b.Low, b.High)
		}
		if i > 0 && s.Buckets[i-1].High >= b.Low {
			return fmt.Errorf("%w: %s: bucket %04X-%04X overlaps its predecessor", common.ErrBadFormat, s.Name, b.Low, b.High)
		}
		if len(b.Limits) == 0 {
			return fmt.Errorf("%w: %s: bucket %04X has no limits", common.ErrBadFormat, s.Name, b.Low)
		}
		for j, l := range b.Limits {
			if l <= 0 || (j > 0 && l >= b.Limits[j-1]) {
				return fmt.Errorf("%w: %s: bucket %04X limits %v not descending", common.ErrBadFormat, s.Name, b.Low, b.Limits)
			}
		}
		if len(b.Keys) != len(b.Offsets) {
			return fmt.Errorf("%w: %s: bucket %04X has %d keys and %d offsets",
				common.ErrBadFormat, s.Name, b.Low, len(b.Keys), len(b.Offsets))
		}
		for j, k := range b.Keys {
			if j > 0 && k <= b.Keys[j-1] {
				return fmt.Errorf("%w: %s: bucket %04X key %08X out of order", common.ErrBadFormat, s.Name, b.Low, k)
			}
			off := int(b.Offsets[j])
			hw, ok := s.Data.Word(off)
			if !ok {
				return fmt.Errorf("%w: %s: offset %d beyond %d words", common.ErrBadFormat, s.Name, off, size)
			}
			h := DecodeHeader(hw)
			if off+1+h.DataWords() > size {
				return fmt.Errorf("%w: %s: glyph at %d runs past the data", common.ErrBadFormat, s.Name, off)
			}
		}
	}
	return nil
}

// SmallStore returns the built-in Small glyph set.
func SmallStore() *Store { return smallStore }
