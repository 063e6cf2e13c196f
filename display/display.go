// Package display connects blitstr frames to TinyGo display drivers.
//
// Frame implements drivers.Displayer, so anything that draws through that
// interface (tinyfont, tinydraw, tinyterm) can draw into a 1bpp frame.
// Fonter goes the other way and exposes a blitstr glyph set as a
// tinyfont.Fonter.
package display

import (
	"image/color"

	"tinygo.org/x/drivers"

	"github.com/ryanlewis/blitstr"
)

var (
	// Ink is the color SetPixel treats as a dark pixel.
	Ink = color.RGBA{A: 0xff}
	// Paper is the color SetPixel treats as a light pixel.
	Paper = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

var _ drivers.Displayer = (*Frame)(nil)

// Frame adapts a blitstr frame to drivers.Displayer. Colors darker than
// mid gray are ink; fully transparent colors are ignored.
//
// Frame is not safe for concurrent use.
type Frame struct {
	f     *blitstr.Frame
	dirty bool
	flush func(*blitstr.Frame) error
}

// Option configures a Frame.
type Option func(*Frame)

// WithDirtyBits marks every scanline SetPixel writes with the dirty bit.
func WithDirtyBits(on bool) Option {
	return func(d *Frame) {
		d.dirty = on
	}
}

// WithFlush sets the function Display calls to push the frame to a panel.
func WithFlush(fn func(*blitstr.Frame) error) Option {
	return func(d *Frame) {
		d.flush = fn
	}
}

// New wraps f.
func New(f *blitstr.Frame, opts ...Option) *Frame {
	d := &Frame{f: f}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Frame returns the wrapped frame.
func (d *Frame) Frame() *blitstr.Frame { return d.f }

// Size implements drivers.Displayer.
func (d *Frame) Size() (x, y int16) {
	if d.f == nil {
		return 0, 0
	}
	g := d.f.Geometry()
	return int16(g.Width), int16(g.Lines)
}

// SetPixel implements drivers.Displayer. Pixels outside the frame are
// dropped.
func (d *Frame) SetPixel(x, y int16, c color.RGBA) {
	if d.f == nil || c.A == 0 {
		return
	}
	g := d.f.Geometry()
	ix, iy := int(x), int(y)
	if ix < 0 || iy < 0 || ix >= g.Width || iy >= g.Lines {
		return
	}
	words := d.f.Words()
	base := iy * g.WordsPerLine
	bit := uint32(1) << (ix & 31)
	if isInk(c) {
		words[base+(ix>>5)] &^= bit
	} else {
		words[base+(ix>>5)] |= bit
	}
	if d.dirty {
		words[base+g.WordsPerLine-1] |= blitstr.DirtyBit
	}
}

// FillRectangle sets every pixel of the rectangle to c. The part outside
// the frame is dropped.
func (d *Frame) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	if d.f == nil {
		return nil
	}
	g := d.f.Geometry()
	// int16 sums wrap near the type's limits.
	x0, y0 := max(int(x), 0), max(int(y), 0)
	x1 := min(int(x)+int(width), g.Width)
	y1 := min(int(y)+int(height), g.Lines)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			d.SetPixel(int16(px), int16(py), c)
		}
	}
	return nil
}

// Display implements drivers.Displayer by calling the flush function, if
// any.
func (d *Frame) Display() error {
	if d.flush == nil || d.f == nil {
		return nil
	}
	return d.flush(d.f)
}

// isInk reports whether c is darker than mid gray (Rec. 601 luma).
func isInk(c color.RGBA) bool {
	luma := (299*uint32(c.R) + 587*uint32(c.G) + 114*uint32(c.B)) / 1000
	return luma < 0x80
}
