// Command blitview is an interactive viewer: typed text is painted into a
// frame shown in a desktop window. Tab cycles the glyph style and Escape
// quits.
package main

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ryanlewis/blitstr"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	fs := pflag.NewFlagSet("blitview", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	style := fs.StringP("style", "s", "regular", "Glyph style: small, regular or bold")
	clip := fs.StringP("clip", "c", "padded", "Clip rectangle: full, padded or x0,y0,x1,y1")
	scale := fs.Int("scale", 2, "Window pixels per frame pixel")
	emoji := fs.String("emoji", "", "Glyph-set file for emoji")
	hanzi := fs.String("hanzi", "", "Glyph-set file for Hanzi")
	snapshot := fs.String("png", "", "Write the first frame to a PNG file instead of opening a window")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	st, err := blitstr.ParseGlyphStyle(*style)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	rect, err := blitstr.ParseClipRect(*clip)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	fonts := blitstr.DefaultFonts()
	for set, path := range map[blitstr.GlyphSet]string{blitstr.Emoji: *emoji, blitstr.Hanzi: *hanzi} {
		if path == "" {
			continue
		}
		d, err := blitstr.LoadGlyphSetCached(path)
		if err == nil {
			fonts, err = fonts.WithGlyphSet(set, d)
		}
		if err != nil {
			fmt.Fprintf(stderr, "Error loading glyph set: %v\n", err)
			return 1
		}
	}

	e := newEditor(strings.Join(fs.Args(), " "), st, rect, blitstr.WithFonts(fonts))
	if _, err := e.Render(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if *snapshot != "" {
		if err := writePNG(*snapshot, e.Frame()); err != nil {
			fmt.Fprintf(stderr, "Error writing %s: %v\n", *snapshot, err)
			return 1
		}
		return 0
	}
	if err := runWindow(e, "blitstr", max(*scale, 1)); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// fillRGBA copies f into img: light pixels white, ink black.
func fillRGBA(img *image.RGBA, f *blitstr.Frame) {
	b := img.Bounds().Intersect(image.Rect(0, 0, f.Bounds().Max.X, f.Bounds().Max.Y))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			var v uint8
			if f.Light(x, y) {
				v = 0xff
			}
			i := img.PixOffset(x, y)
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = v, v, v, 0xff
		}
	}
}

func writePNG(path string, f *blitstr.Frame) error {
	b := f.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Max.X, b.Max.Y))
	fillRGBA(img, f)
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
