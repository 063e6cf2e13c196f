package blitstr

import (
	"image"
	"image/color"
	"slices"
	"sync"

	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"

	"github.com/ryanlewis/blitstr/internal/common"
	"github.com/ryanlewis/blitstr/internal/fontpack"
	"github.com/ryanlewis/blitstr/internal/fonts"
)

// GlyphSetData is an immutable glyph set ready to be registered with
// Fonts. It is safe to share across goroutines.
type GlyphSetData struct {
	store    *fonts.Store
	comments []string
}

// Name returns the name recorded in the glyph set.
func (d *GlyphSetData) Name() string { return d.store.Name }

// MaxHeight returns the line height the glyph set needs.
func (d *GlyphSetData) MaxHeight() int { return d.store.MaxHeight }

// Entries returns the number of clusters the glyph set indexes.
func (d *GlyphSetData) Entries() int { return d.store.Entries() }

// Words returns the number of packed data words.
func (d *GlyphSetData) Words() int { return d.store.Data.Len() }

// Comments returns a copy of the file's comment lines.
func (d *GlyphSetData) Comments() []string { return slices.Clone(d.comments) }

// Has reports whether the glyph set has a glyph for the leading cluster
// of s.
func (d *GlyphSetData) Has(s string) bool {
	_, _, err := d.store.Lookup(s)
	return err == nil
}

// GlyphMask decodes the glyph for the leading cluster of s into an alpha
// mask where ink is opaque. The mask's bounds start at the glyph's offset
// below the top of the line. It also returns the number of bytes of s the
// glyph covers.
func (d *GlyphSetData) GlyphMask(s string) (*image.Alpha, int, error) {
	off, n, err := d.store.Lookup(s)
	if err != nil {
		return nil, 0, err
	}
	p, err := fontpack.DecodeFrom(d.store, off)
	if err != nil {
		return nil, 0, err
	}
	m := image.NewAlpha(image.Rect(0, p.YOffset, p.W, p.YOffset+p.H))
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			if p.At(x, y) {
				m.SetAlpha(x, p.YOffset+y, color.Alpha{A: 0xff})
			}
		}
	}
	return m, n, nil
}

// Fonts maps glyph sets to glyph data. A set with no data is skipped
// during lookup. Fonts values are immutable; WithGlyphSet returns a
// modified copy.
type Fonts struct {
	reg *fonts.Registry
}

// NewFonts returns a Fonts value with every glyph set unmapped.
func NewFonts() *Fonts {
	return &Fonts{reg: fonts.NewRegistry()}
}

// DefaultFonts returns the built-in glyph sets: Small (Geneva bitmaps),
// Regular and Bold (Inconsolata at twice its pixel size). Emoji and Hanzi
// are unmapped.
func DefaultFonts() *Fonts {
	return defaultFonts()
}

var defaultFonts = sync.OnceValue(func() *Fonts {
	reg := fonts.DefaultRegistry()
	for _, b := range []struct {
		set   GlyphSet
		store func() (*fonts.Store, error)
	}{
		{RegularSet, builtinRegular},
		{BoldSet, builtinBold},
	} {
		s, err := b.store()
		if err != nil {
			// An unbuildable face leaves the set unmapped; text in that
			// style falls through to the other sets.
			continue
		}
		reg, _ = reg.With(b.set, s)
	}
	return &Fonts{reg: reg}
})

var (
	builtinRegular = sync.OnceValues(func() (*fonts.Store, error) {
		return buildFaceStore("regular", inconsolata.Regular8x16)
	})
	builtinBold = sync.OnceValues(func() (*fonts.Store, error) {
		return buildFaceStore("bold", inconsolata.Bold8x16)
	})
)

// faceScale is the pixel multiplier of the built-in Inconsolata sets.
const faceScale = 2

// buildFaceStore rasterizes a basicfont face at faceScale, borrowing
// U+FFFD from Face7x13 when the face has none.
func buildFaceStore(name string, face *basicfont.Face) (*fonts.Store, error) {
	b := fontpack.NewBuilder(name, 0)
	b.SetMaxHeight(face.Height * faceScale)
	baseline := face.Ascent * faceScale
	if _, err := fontpack.ImportFace(b, fontpack.FaceSource{
		Face:  face,
		Runes: fontpack.RunesOf(face),
		Scale: faceScale,
	}); err != nil {
		return nil, err
	}
	if _, err := fontpack.ImportFace(b, fontpack.FaceSource{
		Face:     basicfont.Face7x13,
		Runes:    []rune{ReplacementChar},
		Scale:    faceScale,
		Baseline: baseline,
	}); err != nil {
		return nil, err
	}
	b.AddNFDAliases()
	return b.BuildAutoSeed(16)
}

// ReplacementChar is drawn for clusters no glyph set can render.
const ReplacementChar = common.ReplacementChar

// WithGlyphSet returns a copy of f with set served by d. A nil d unmaps
// the set.
func (f *Fonts) WithGlyphSet(set GlyphSet, d *GlyphSetData) (*Fonts, error) {
	var s *fonts.Store
	if d != nil {
		s = d.store
	}
	reg, err := f.registry().With(set, s)
	if err != nil {
		return nil, err
	}
	return &Fonts{reg: reg}, nil
}

// GlyphSet returns the data serving set, or nil when it is unmapped.
func (f *Fonts) GlyphSet(set GlyphSet) *GlyphSetData {
	s := f.registry().Store(set)
	if s == nil {
		return nil
	}
	return &GlyphSetData{store: s}
}

func (f *Fonts) registry() *fonts.Registry {
	if f == nil || f.reg == nil {
		return fonts.NewRegistry()
	}
	return f.reg
}
