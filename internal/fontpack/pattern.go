// Package fontpack builds glyph stores: it rasterizes faces and sprite
// sheets into 1bpp patterns, hashes clusters into bucketed index tables and
// writes the result as a glyph-set file or as Go source.
package fontpack

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/ryanlewis/blitstr/internal/common"
	"github.com/ryanlewis/blitstr/internal/fonts"
)

// Pattern is an unpacked glyph bitmap. Bit y*W+x of Pix is set where the
// pixel at column x of row y is ink.
type Pattern struct {
	W, H    int
	YOffset int
	Pix     *bitset.BitSet
}

// NewPattern returns a blank w x h pattern.
func NewPattern(w, h int) Pattern {
	return Pattern{W: w, H: h, Pix: bitset.New(uint(max(w*h, 0)))}
}

// PatternFromRows builds a pattern from strings where '#' marks ink. Rows
// shorter than the longest row are padded with blanks.
func PatternFromRows(rows ...string) Pattern {
	w := 0
	for _, r := range rows {
		w = max(w, len(r))
	}
	p := NewPattern(w, len(rows))
	for y, r := range rows {
		for x := 0; x < len(r); x++ {
			if r[x] == '#' {
				p.Set(x, y)
			}
		}
	}
	return p
}

func (p Pattern) index(x, y int) (uint, bool) {
	if x < 0 || y < 0 || x >= p.W || y >= p.H || p.Pix == nil {
		return 0, false
	}
	return uint(y*p.W + x), true
}

// Set marks the pixel at (x, y) as ink. Out-of-range pixels are ignored.
func (p Pattern) Set(x, y int) {
	if i, ok := p.index(x, y); ok {
		p.Pix.Set(i)
	}
}

// At reports whether the pixel at (x, y) is ink.
func (p Pattern) At(x, y int) bool {
	i, ok := p.index(x, y)
	return ok && p.Pix.Test(i)
}

// Blank reports whether no pixel is ink.
func (p Pattern) Blank() bool {
	return p.Pix == nil || p.Pix.None()
}

// Trim removes blank rows and columns around the ink. Rows trimmed from
// the top are added to YOffset. A blank pattern trims to 0x0.
func (p Pattern) Trim() Pattern {
	if p.Blank() {
		return Pattern{YOffset: p.YOffset, Pix: bitset.New(0)}
	}
	minX, minY, maxX, maxY := p.W, p.H, -1, -1
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			if p.At(x, y) {
				minX, maxX = min(minX, x), max(maxX, x)
				minY, maxY = min(minY, y), max(maxY, y)
			}
		}
	}
	out := NewPattern(maxX-minX+1, maxY-minY+1)
	out.YOffset = p.YOffset + minY
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if p.At(x, y) {
				out.Set(x-minX, y-minY)
			}
		}
	}
	return out
}

// Header returns the packed header fields of p.
func (p Pattern) Header() fonts.Header {
	return fonts.Header{W: p.W, H: p.H, YOffset: p.YOffset}
}

// Words packs p into a header word followed by its row words. Rows are
// written as one MSB-first bit stream, each row's pixels right to left,
// and the final word is zero padded.
func (p Pattern) Words() []uint32 {
	words := make([]uint32, 1, 1+p.Header().DataWords())
	words[0] = p.Header().Word()
	var acc uint32
	n := 0
	for y := 0; y < p.H; y++ {
		for x := p.W - 1; x >= 0; x-- {
			acc <<= 1
			if p.At(x, y) {
				acc |= 1
			}
			n++
			if n == common.WordBits {
				words = append(words, acc)
				acc, n = 0, 0
			}
		}
	}
	if n > 0 {
		words = append(words, acc<<(common.WordBits-n))
	}
	return words
}

// Decode unpacks the glyph whose header is words[0].
func Decode(words []uint32) (Pattern, error) {
	if len(words) == 0 {
		return Pattern{}, fmt.Errorf("%w: empty glyph", common.ErrBadFormat)
	}
	h := fonts.DecodeHeader(words[0])
	if len(words) < 1+h.DataWords() {
		return Pattern{}, fmt.Errorf("%w: %dx%d glyph needs %d words, have %d",
			common.ErrBadFormat, h.W, h.H, h.DataWords(), len(words)-1)
	}
	p := NewPattern(h.W, h.H)
	p.YOffset = h.YOffset
	bit := 0
	for y := 0; y < h.H; y++ {
		for x := h.W - 1; x >= 0; x-- {
			w := words[1+bit/common.WordBits]
			if w&(1<<(common.WordBits-1-bit%common.WordBits)) != 0 {
				p.Set(x, y)
			}
			bit++
		}
	}
	return p, nil
}

// DecodeFrom unpacks the glyph at offset in s.
func DecodeFrom(s *fonts.Store, offset uint32) (Pattern, error) {
	hdr, err := s.Header(offset)
	if err != nil {
		return Pattern{}, err
	}
	words := make([]uint32, 1+hdr.DataWords())
	for i := range words {
		if words[i], err = s.Word(offset, i); err != nil {
			return Pattern{}, err
		}
	}
	return Decode(words)
}

// String renders p as rows of '#' and '.', for debugging and test output.
func (p Pattern) String() string {
	var sb strings.Builder
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			if p.At(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
