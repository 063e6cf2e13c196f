// Package blit composes glyph patterns and solid shapes into a word-packed
// 1bpp surface.
//
// Pixel x of a scanline lives in bit x&31 of word x>>5 of that line. A set
// bit is a light pixel: clearing a region sets bits and ink clears them.
//
// Glyph pattern rows are stored as an MSB-first bit stream with each row's
// pixels in right-to-left order, so that a row extracted into the low bits
// of a word has its leftmost pixel in bit 0.
package blit

import "github.com/ryanlewis/blitstr/internal/common"

// Surface is a view of a frame buffer. Stride is the number of words per
// scanline.
type Surface struct {
	Words  []uint32
	Width  int
	Lines  int
	Stride int
}

// NewSurface wraps words with the given geometry.
func NewSurface(words []uint32, g common.Geometry) Surface {
	return Surface{Words: words, Width: g.Width, Lines: g.Lines, Stride: g.WordsPerLine}
}

// accepts reports whether clip is a drawable region of s.
func (s Surface) accepts(clip common.ClipRect) bool {
	if s.Stride <= 0 || len(s.Words) < s.Stride*s.Lines {
		return false
	}
	return clip.Within(s.Width, s.Lines)
}

// ComposeMode selects how pattern bits combine with the surface.
type ComposeMode int

const (
	// ComposeXor toggles every pixel under a set pattern bit.
	ComposeXor ComposeMode = iota
	// ComposeErase forces every pixel under a set pattern bit to ink.
	ComposeErase
)

// String implements fmt.Stringer.
func (m ComposeMode) String() string {
	switch m {
	case ComposeXor:
		return "xor"
	case ComposeErase:
		return "erase"
	default:
		return "unknown"
	}
}

// Op carries the per-call compose settings.
type Op struct {
	Mode ComposeMode
	// Dirty sets common.DirtyBit in the last word of every row written.
	Dirty bool
}

func (op Op) compose(w *uint32, pattern uint32) {
	if op.Mode == ComposeErase {
		*w &^= pattern
		return
	}
	*w ^= pattern
}

func (op Op) mark(s Surface, base int) {
	if op.Dirty {
		s.Words[base+s.Stride-1] |= common.DirtyBit
	}
}

// ClearRegion sets every pixel of clip to light. A clip that is empty or
// reaches outside the surface leaves the surface untouched. It returns the
// number of rows written.
func ClearRegion(s Surface, clip common.ClipRect, op Op) int {
	if !s.accepts(clip) {
		return 0
	}
	lowW := clip.Min.X >> 5
	highW := clip.Max.X >> 5
	pxLow := 32 - (clip.Min.X & 31)
	pxHigh := clip.Max.X & 31
	lowMask := ^uint32(0) << (32 - pxLow)
	highMask := ^uint32(0) >> (32 - pxHigh)
	if lowW == highW {
		lowMask &= highMask
	}
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		base := y * s.Stride
		s.Words[base+lowW] |= lowMask
		for w := lowW + 1; w < highW; w++ {
			s.Words[base+w] = ^uint32(0)
		}
		if lowW < highW && highW < s.Stride {
			s.Words[base+highW] |= highMask
		}
		op.mark(s, base)
	}
	return clip.Dy()
}

// Source reads pattern words; it is satisfied by fonts.Provider.
type Source interface {
	Word(n int) (uint32, bool)
}

// Pattern locates one glyph pattern: its size and the index of its header
// word in Src. Row words follow the header.
type Pattern struct {
	W, H int
	Src  Source
	Base int
}

func (p Pattern) word(n int) uint32 {
	w, ok := p.Src.Word(p.Base + n)
	if !ok {
		return 0
	}
	return w
}

// Glyph composes p with its top-left pixel at (x0, y0). Rows outside clip
// and columns at or beyond clip.Max.X are skipped. It returns the number of
// rows written.
func Glyph(s Surface, clip common.ClipRect, x0, y0 int, p Pattern, op Op) int {
	w := p.W
	if !s.accepts(clip) || p.Src == nil || w <= 0 || w > common.MaxGlyphWidth || p.H <= 0 || x0 < 0 {
		return 0
	}
	if y0 >= clip.Max.Y || y0+p.H <= clip.Min.Y {
		return 0
	}
	lo := max(0, clip.Min.X-x0)
	hi := min(w, clip.Max.X-x0)
	if hi <= lo {
		return 0
	}
	colMask := (^uint32(0) >> (32 - (hi - lo))) << lo

	ymax := p.H
	if y0+p.H > clip.Max.Y {
		ymax = clip.Max.Y - y0
	}
	destLow := x0 >> 5
	destHigh := (x0 + w) >> 5
	pxDestLow := 32 - (x0 & 31)

	rows := 0
	for y := 0; y < ymax; y++ {
		if y0+y < clip.Min.Y {
			continue
		}
		bitOff := y * w
		lowWord := 1 + bitOff>>5
		pxInLow := 32 - (bitOff & 31)
		pattern := p.word(lowWord) << (32 - pxInLow) >> (32 - w)
		if w > pxInLow {
			pattern |= p.word(lowWord+1) >> (32 - (w - pxInLow))
		}
		pattern &= colMask

		base := (y0 + y) * s.Stride
		op.compose(&s.Words[base+destLow], pattern<<(32-pxDestLow))
		if pxDestLow < w && destHigh < s.Stride {
			op.compose(&s.Words[base+destHigh], pattern>>pxDestLow)
		}
		op.mark(s, base)
		rows++
	}
	return rows
}

// Fill composes a solid rectangle, clipped to clip. It returns the number
// of rows written.
func Fill(s Surface, clip, r common.ClipRect, op Op) int {
	if !s.accepts(clip) {
		return 0
	}
	x0 := max(r.Min.X, clip.Min.X)
	y0 := max(r.Min.Y, clip.Min.Y)
	x1 := min(r.Max.X, clip.Max.X)
	y1 := min(r.Max.Y, clip.Max.Y)
	if x0 >= x1 || y0 >= y1 {
		return 0
	}
	for y := y0; y < y1; y++ {
		base := y * s.Stride
		for x := x0; x < x1; {
			// Fill the run of x up to the end of its word in one compose.
			n := min(32-(x&31), x1-x)
			mask := (^uint32(0) >> (32 - n)) << (x & 31)
			op.compose(&s.Words[base+x>>5], mask)
			x += n
		}
		op.mark(s, base)
	}
	return y1 - y0
}

// Caret composes a 1px vertical stroke at column x covering rows
// [top, bottom).
func Caret(s Surface, clip common.ClipRect, x, top, bottom int, op Op) int {
	return Fill(s, clip, common.ClipRect{Min: common.Pt{X: x, Y: top}, Max: common.Pt{X: x + 1, Y: bottom}}, op)
}

// Ellipsis dot geometry.
const (
	DotSize  = 2
	DotPitch = 4
	// EllipsisWidth is the space reserved at the end of a truncated line.
	EllipsisWidth = 13
)

// Dots composes three DotSize squares DotPitch apart, the first with its
// top-left pixel at (x, y).
func Dots(s Surface, clip common.ClipRect, x, y int, op Op) {
	for i := 0; i < 3; i++ {
		dx := x + i*DotPitch
		Fill(s, clip, common.ClipRect{Min: common.Pt{X: dx, Y: y}, Max: common.Pt{X: dx + DotSize, Y: y + DotSize}}, op)
	}
}
