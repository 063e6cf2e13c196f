package fontpack

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png" // sheets are PNG
	"io"

	_ "golang.org/x/image/bmp" // or BMP
	"golang.org/x/image/draw"
)

// SheetSource describes a sprite sheet of square glyph cells laid out in
// rows of Cols cells, Gutter pixels apart, inside a Border.
type SheetSource struct {
	Image  image.Image
	Size   int
	Cols   int
	Gutter int
	Border int
	// Clusters names the cells in row-major order. Empty names are
	// skipped.
	Clusters []string
	// Scale multiplies every pixel; 0 means 1.
	Scale int
	// Threshold is the luminance below which a pixel is ink; 0 means
	// DefaultThreshold.
	Threshold uint8
}

// DecodeSheet reads a PNG or BMP sprite sheet.
func DecodeSheet(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode sheet: %w", err)
	}
	return img, nil
}

// ImportSheet adds the glyph of every named cell of src to b. It returns
// the number of glyphs added.
func ImportSheet(b *Builder, src SheetSource) (int, error) {
	if src.Image == nil {
		return 0, errors.New("import sheet: no image")
	}
	if src.Size <= 0 || src.Cols <= 0 || src.Gutter < 0 || src.Border < 0 {
		return 0, fmt.Errorf("import sheet: bad grid size %d cols %d gutter %d border %d",
			src.Size, src.Cols, src.Gutter, src.Border)
	}
	threshold := src.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	scale := max(src.Scale, 1)
	bounds := src.Image.Bounds()
	pitch := src.Size + src.Gutter

	added := 0
	for i, cluster := range src.Clusters {
		if cluster == "" {
			continue
		}
		origin := bounds.Min.Add(image.Pt(src.Border+(i%src.Cols)*pitch, src.Border+(i/src.Cols)*pitch))
		cellRect := image.Rectangle{Min: origin, Max: origin.Add(image.Pt(src.Size, src.Size))}
		if !cellRect.In(bounds) {
			return added, fmt.Errorf("import sheet: cell %d (%q) at %v lies outside the %v image", i, cluster, cellRect, bounds)
		}

		cell := image.NewAlpha(image.Rect(0, 0, src.Size*scale, src.Size*scale))
		ink := image.NewAlpha(image.Rect(0, 0, src.Size, src.Size))
		for y := 0; y < src.Size; y++ {
			for x := 0; x < src.Size; x++ {
				if dark(src.Image.At(origin.X+x, origin.Y+y), threshold) {
					ink.SetAlpha(x, y, color.Alpha{A: 0xff})
				}
			}
		}
		draw.NearestNeighbor.Scale(cell, cell.Bounds(), ink, ink.Bounds(), draw.Src, nil)

		p := patternFromAlpha(cell).Trim()
		if p.W == 0 {
			p = blankPattern(src.Size/2, scale)
		}
		if err := b.Add(cluster, p); err != nil {
			return added, fmt.Errorf("import sheet: cell %d: %w", i, err)
		}
		added++
	}
	return added, nil
}

// dark reports whether an opaque pixel is darker than threshold.
// Transparent pixels are background.
func dark(c color.Color, threshold uint8) bool {
	if _, _, _, a := c.RGBA(); a < 0x8000 {
		return false
	}
	return color.GrayModel.Convert(c).(color.Gray).Y < threshold
}
