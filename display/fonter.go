package display

import (
	"image"
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"

	"github.com/ryanlewis/blitstr"
)

// Fonter exposes a glyph set as a tinyfont.Fonter. tinyfont positions
// text by its baseline; Fonter puts the baseline Baseline pixels below
// the top of a blitstr line, so tinyfont.WriteLine at (x, top+Baseline)
// draws the same pixels PaintStr draws from a cursor at (x, top).
//
// Runes the set cannot draw use its U+FFFD glyph, or draw nothing.
type Fonter struct {
	set      *blitstr.GlyphSetData
	baseline int
}

var _ tinyfont.Fonter = (*Fonter)(nil)

// NewFonter returns a Fonter for set. A baseline of 0 or less defaults to
// three quarters of the set's line height.
func NewFonter(set *blitstr.GlyphSetData, baseline int) *Fonter {
	if baseline <= 0 {
		baseline = set.MaxHeight() * 3 / 4
	}
	return &Fonter{set: set, baseline: baseline}
}

// Baseline returns the distance from the top of a line to the baseline.
func (f *Fonter) Baseline() int { return f.baseline }

// GetYAdvance implements tinyfont.Fonter. It matches the line pitch
// PaintStr uses for a newline.
func (f *Fonter) GetYAdvance() uint8 {
	return uint8(min(f.set.MaxHeight()+1, 0xff))
}

// GetGlyph implements tinyfont.Fonter.
func (f *Fonter) GetGlyph(r rune) tinyfont.Glypher {
	m, _, err := f.set.GlyphMask(string(r))
	if err != nil {
		m, _, err = f.set.GlyphMask(string(blitstr.ReplacementChar))
	}
	if err != nil {
		return &Glyph{r: r}
	}
	return &Glyph{r: r, mask: m, baseline: f.baseline}
}

// Glyph is one decoded glyph. It implements tinyfont.Glypher.
type Glyph struct {
	r        rune
	mask     *image.Alpha
	baseline int
}

// Draw implements tinyfont.Glypher: (x, y) is the pen position on the
// baseline.
func (g *Glyph) Draw(display drivers.Displayer, x, y int16, c color.RGBA) {
	if g.mask == nil {
		return
	}
	info := g.Info()
	b := g.mask.Bounds()
	for j := 0; j < b.Dy(); j++ {
		for i := 0; i < b.Dx(); i++ {
			if g.mask.AlphaAt(b.Min.X+i, b.Min.Y+j).A == 0 {
				continue
			}
			display.SetPixel(x+int16(info.XOffset)+int16(i), y+int16(info.YOffset)+int16(j), c)
		}
	}
}

// Info implements tinyfont.Glypher. Glyphs carry the 1px left and 2px
// right padding blitstr lays text out with.
func (g *Glyph) Info() tinyfont.GlyphInfo {
	if g.mask == nil {
		return tinyfont.GlyphInfo{Rune: g.r}
	}
	b := g.mask.Bounds()
	return tinyfont.GlyphInfo{
		Rune:     g.r,
		Width:    uint8(b.Dx()),
		Height:   uint8(b.Dy()),
		XAdvance: uint8(b.Dx() + 3),
		XOffset:  1,
		YOffset:  int8(b.Min.Y - g.baseline),
	}
}
