package fontpack

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultThreshold is the alpha (or darkness) at which a pixel counts as ink.
const DefaultThreshold = 0x80

// FaceSource describes how to rasterize a font.Face into patterns.
type FaceSource struct {
	Face  font.Face
	Runes []rune
	// Scale multiplies every pixel; 0 means 1.
	Scale int
	// Threshold is the minimum mask alpha of an ink pixel; 0 means
	// DefaultThreshold.
	Threshold uint8
	// Baseline is the row of the baseline below the line top, in output
	// pixels; 0 means the face's ascent times Scale.
	Baseline int
}

func (fs FaceSource) scale() int {
	return max(fs.Scale, 1)
}

func (fs FaceSource) threshold() uint8 {
	if fs.Threshold == 0 {
		return DefaultThreshold
	}
	return fs.Threshold
}

// ImportFace adds one glyph per rune of src to b. Runes the face has no
// glyph for, runes outside the known Unicode blocks and runes already in
// b are skipped. It returns the number
// of glyphs added.
func ImportFace(b *Builder, src FaceSource) (int, error) {
	if src.Face == nil {
		return 0, errors.New("import face: no face")
	}
	ascent := src.Face.Metrics().Ascent.Ceil()
	scale := src.scale()
	baseline := src.Baseline
	if baseline == 0 {
		baseline = ascent * scale
	}
	shift := baseline - ascent*scale

	added := 0
	for _, r := range src.Runes {
		cluster := string(r)
		if b.Has(cluster) || !hasGlyph(src.Face, r) {
			continue
		}
		p, ok := rasterize(src.Face, r, ascent, scale, src.threshold())
		if !ok {
			continue
		}
		p.YOffset += shift
		if p.YOffset < 0 {
			return added, fmt.Errorf("import face: U+%04X rises %dpx above the line top", r, -p.YOffset)
		}
		if err := b.Add(cluster, p); err != nil {
			if errors.Is(err, ErrUnknownBlock) {
				continue
			}
			return added, err
		}
		added++
	}
	return added, nil
}

// rasterize draws r with the dot at (0, ascent), so that row 0 of the
// result is the line top before scaling.
func rasterize(face font.Face, r rune, ascent, scale int, threshold uint8) (Pattern, bool) {
	dr, mask, maskp, advance, ok := face.Glyph(fixed.P(0, ascent), r)
	if !ok {
		return Pattern{}, false
	}
	if dr.Empty() {
		return blankPattern(advance.Round(), scale), true
	}

	cell := image.NewAlpha(image.Rect(0, 0, dr.Dx(), dr.Dy()))
	for y := 0; y < dr.Dy(); y++ {
		for x := 0; x < dr.Dx(); x++ {
			a := color.AlphaModel.Convert(mask.At(maskp.X+x, maskp.Y+y)).(color.Alpha).A
			if a >= threshold {
				cell.SetAlpha(x, y, color.Alpha{A: 0xff})
			}
		}
	}

	scaled := cell
	if scale > 1 {
		scaled = image.NewAlpha(image.Rect(0, 0, dr.Dx()*scale, dr.Dy()*scale))
		draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), cell, cell.Bounds(), draw.Src, nil)
	}

	p := patternFromAlpha(scaled)
	p.YOffset = dr.Min.Y * scale
	p = p.Trim()
	if p.W == 0 {
		return blankPattern(advance.Round(), scale), true
	}
	return p, true
}

// blankPattern stands in for glyphs with no ink, such as spaces: a single
// blank row half as wide as the advance.
func blankPattern(advance, scale int) Pattern {
	return NewPattern(max(1, advance*scale/2), 1)
}

func patternFromAlpha(img *image.Alpha) Pattern {
	b := img.Bounds()
	p := NewPattern(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.AlphaAt(x, y).A >= DefaultThreshold {
				p.Set(x-b.Min.X, y-b.Min.Y)
			}
		}
	}
	return p
}

// RunesOf lists every rune a basicfont face has a glyph for.
func RunesOf(face *basicfont.Face) []rune {
	var rs []rune
	for _, rg := range face.Ranges {
		for r := rg.Low; r < rg.High; r++ {
			rs = append(rs, r)
		}
	}
	return rs
}

// hasGlyph reports whether face has its own glyph for r. basicfont faces
// substitute U+FFFD for runes outside their ranges.
func hasGlyph(face font.Face, r rune) bool {
	bf, ok := face.(*basicfont.Face)
	if !ok {
		return true
	}
	for _, rg := range bf.Ranges {
		if rg.Low <= r && r < rg.High {
			return true
		}
	}
	return false
}
