package common

import "fmt"

// Pt is a pixel coordinate. (0,0) is top left, y grows downward.
type Pt struct {
	X, Y int
}

// String implements fmt.Stringer.
func (p Pt) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// ClipRect is a region of pixels. Min is inclusive and Max is exclusive on
// both axes, so a rectangle covers Min.X..Max.X-1 and Min.Y..Max.Y-1.
type ClipRect struct {
	Min, Max Pt
}

// NewClipRect returns a rectangle with its corners swapped as needed so that
// Min <= Max on both axes.
func NewClipRect(minX, minY, maxX, maxY int) ClipRect {
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	return ClipRect{Min: Pt{minX, minY}, Max: Pt{maxX, maxY}}
}

// Empty reports whether the rectangle covers no pixels.
func (r ClipRect) Empty() bool {
	return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y
}

// Dx returns the width of r.
func (r ClipRect) Dx() int { return r.Max.X - r.Min.X }

// Dy returns the height of r.
func (r ClipRect) Dy() int { return r.Max.Y - r.Min.Y }

// Within reports whether r is non-empty and lies inside a width x lines area.
func (r ClipRect) Within(width, lines int) bool {
	if r.Min.X < 0 || r.Min.Y < 0 {
		return false
	}
	if r.Max.X > width || r.Max.Y > lines {
		return false
	}
	return !r.Empty()
}

// String implements fmt.Stringer.
func (r ClipRect) String() string {
	return fmt.Sprintf("%v-%v", r.Min, r.Max)
}

// Cursor is a drawing position along a line of text. LineHeight tracks the
// tallest glyph drawn so far on the current line.
type Cursor struct {
	Pt         Pt
	LineHeight int
}

// NewCursor returns a cursor at (x, y). When in doubt, use lineHeight 0.
func NewCursor(x, y, lineHeight int) Cursor {
	return Cursor{Pt: Pt{x, y}, LineHeight: lineHeight}
}

// CursorFromTopLeftOf returns a cursor at the top left corner of r.
func CursorFromTopLeftOf(r ClipRect) Cursor {
	return Cursor{Pt: r.Min}
}

// Geometry describes the shape of a word-packed frame buffer.
type Geometry struct {
	Width        int // visible pixels per scanline
	Lines        int // number of scanlines
	WordsPerLine int // 32-bit words per scanline
}

// Screen is the geometry of the default frame buffer.
var Screen = Geometry{Width: Width, Lines: Lines, WordsPerLine: WordsPerLine}

// Words returns the number of words a buffer of this geometry holds.
func (g Geometry) Words() int {
	return g.WordsPerLine * g.Lines
}

// Validate checks that every visible pixel fits in the row's words.
func (g Geometry) Validate() error {
	if g.Width <= 0 || g.Lines <= 0 || g.WordsPerLine <= 0 {
		return fmt.Errorf("%w: %dx%d with %d words per line", ErrBadGeometry, g.Width, g.Lines, g.WordsPerLine)
	}
	if g.WordsPerLine*WordBits < g.Width {
		return fmt.Errorf("%w: %d words cannot hold %d pixels", ErrBadGeometry, g.WordsPerLine, g.Width)
	}
	return nil
}

// FullFrame returns the clip rectangle covering every pixel of g.
func FullFrame(g Geometry) ClipRect {
	return NewClipRect(0, 0, g.Width, g.Lines)
}

// PaddedFrame returns the clip rectangle of g inset by PaddedInset pixels.
func PaddedFrame(g Geometry) ClipRect {
	return NewClipRect(PaddedInset, PaddedInset, g.Width-PaddedInset, g.Lines-PaddedInset)
}
