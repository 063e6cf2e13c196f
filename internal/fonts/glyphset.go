// Package fonts holds packed glyph stores, the per-glyph-set registry that
// resolves grapheme clusters to glyph handles, and the accessor that reads
// glyph headers and pattern words out of injected providers.
package fonts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ryanlewis/blitstr/internal/common"
)

// GlyphSet names one of the glyph stores a Registry can hold.
type GlyphSet int

// The glyph sets known to the layout engine. The set is closed: adding one
// means touching every switch in this package.
const (
	Emoji GlyphSet = iota
	Bold
	Regular
	Small
	Hanzi

	// NumGlyphSets is the number of glyph sets.
	NumGlyphSets = 5
)

// ErrNoGlyph is returned when a glyph set has nothing for a cluster.
var ErrNoGlyph = common.ErrNoGlyph

// ErrUnknownGlyphSet is returned for a GlyphSet outside the closed enum.
var ErrUnknownGlyphSet = errors.New("unknown glyph set")

// String implements fmt.Stringer.
func (g GlyphSet) String() string {
	switch g {
	case Emoji:
		return "emoji"
	case Bold:
		return "bold"
	case Regular:
		return "regular"
	case Small:
		return "small"
	case Hanzi:
		return "hanzi"
	default:
		return fmt.Sprintf("GlyphSet(%d)", int(g))
	}
}

// Valid reports whether g is one of the known glyph sets.
func (g GlyphSet) Valid() bool {
	switch g {
	case Emoji, Bold, Regular, Small, Hanzi:
		return true
	}
	return false
}

// ParseGlyphSet accepts a glyph set name, case-insensitively.
func ParseGlyphSet(name string) (GlyphSet, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "emoji":
		return Emoji, nil
	case "bold":
		return Bold, nil
	case "regular":
		return Regular, nil
	case "small":
		return Small, nil
	case "hanzi":
		return Hanzi, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGlyphSet, name)
}

// LatinSet returns the glyph set a style draws Latin script with.
func LatinSet(style common.GlyphStyle) GlyphSet {
	switch style {
	case common.Small:
		return Small
	case common.Bold:
		return Bold
	default:
		return Regular
	}
}

// Handle locates a glyph: the set it lives in and the word offset of its
// header within that set's data.
type Handle struct {
	Set    GlyphSet
	Offset uint32
}

// Header is the decoded first word of a packed glyph.
type Header struct {
	W       int // pattern width in pixels
	H       int // pattern height in pixels
	YOffset int // rows between the line top and the first pattern row
}

// DecodeHeader unpacks a header word laid out as 0x00WWHHYY.
func DecodeHeader(word uint32) Header {
	return Header{
		W:       int((word << 8) >> 24),
		H:       int((word << 16) >> 24),
		YOffset: int(word & 0xff),
	}
}

// Word packs h back into a header word. Fields are truncated to 8 bits.
func (h Header) Word() uint32 {
	return uint32(h.W&0xff)<<16 | uint32(h.H&0xff)<<8 | uint32(h.YOffset&0xff)
}

// DataWords returns the number of pattern words following the header.
func (h Header) DataWords() int {
	return (h.W*h.H + common.WordBits - 1) / common.WordBits
}

// Renderable reports whether the blitter can draw patterns of this width.
func (h Header) Renderable() bool {
	return h.W <= common.MaxGlyphWidth
}
