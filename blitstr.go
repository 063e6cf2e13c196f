// Package blitstr draws Unicode text into monochrome frame buffers.
//
// A frame is a packed 1bpp bitmap of 32-bit words, WordsPerLine words per
// scanline, where a set bit is a light pixel. Text is laid out inside a
// clip rectangle from a Cursor that PaintStr advances, so successive calls
// continue where the last one stopped. Glyphs come from up to five glyph
// sets (emoji, the Small, Regular and Bold Latin sets, and Hanzi) that can
// be replaced with sets loaded from glyph-set files.
//
// Example:
//
//	f := blitstr.NewFrame()
//	blitstr.ClearRegion(f, blitstr.FullScreen())
//	clip := blitstr.PaddedScreen()
//	c := blitstr.CursorFromTopLeftOf(clip)
//	if _, err := blitstr.PaintStr(f, clip, &c, blitstr.Regular, "Hello, world!\n"); err != nil {
//	    log.Fatal(err)
//	}
package blitstr

import (
	"fmt"

	"github.com/ryanlewis/blitstr/internal/blit"
	"github.com/ryanlewis/blitstr/internal/debug"
	"github.com/ryanlewis/blitstr/internal/renderer"
)

// ClearRegion sets every pixel of clip to light and returns the number of
// scanlines written. A clip that is empty or reaches outside the frame is
// ignored. Only WithDirtyBits and WithDebug affect clearing.
func ClearRegion(f *Frame, clip ClipRect, opts ...Option) int {
	if f == nil {
		return 0
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	rows := blit.ClearRegion(f.surface(), clip, blit.Op{Dirty: o.flags.Has(FlagDirty)})
	o.session.Emit("paint", "Clear", debug.ClearData{Clip: clip.String(), Rows: rows})
	return rows
}

// PaintStr draws text into f starting at c and leaves c where the next
// glyph would go. Text wraps at the right edge of clip and on '\n'; layout
// stops at the bottom of clip. A nil c starts at the top left of clip.
//
// Every cluster is looked up in the Emoji set, then the Latin set of
// style, then Hanzi. Clusters no set can draw are painted as U+FFFD, one
// per codepoint.
//
// PaintStr returns ErrModeConflict when both XOR and erase composition are
// requested and ErrBadGeometry for a nil frame. Degenerate clips are not
// errors: they draw nothing.
func PaintStr(f *Frame, clip ClipRect, c *Cursor, style GlyphStyle, text string, opts ...Option) (Result, error) {
	if f == nil {
		return Result{}, fmt.Errorf("%w: nil frame", ErrBadGeometry)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	ro, err := o.toInternal()
	if err != nil {
		o.session.Emit("paint", "Error", debug.ErrorData{Type: "flags", Message: err.Error()})
		return Result{}, err
	}
	if c == nil {
		start := CursorFromTopLeftOf(clip)
		c = &start
	}
	return renderer.Paint(f.surface(), o.registry(), clip, c, style, text, ro), nil
}

// Measure lays text out exactly as PaintStr would on a default-geometry
// frame, advancing c, without drawing anything.
func Measure(clip ClipRect, c *Cursor, style GlyphStyle, text string, opts ...Option) (Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	ro, err := o.toInternal()
	if err != nil {
		return Result{}, err
	}
	ro.Measure = true
	if c == nil {
		start := CursorFromTopLeftOf(clip)
		c = &start
	}
	surf := blit.Surface{Width: Screen.Width, Lines: Screen.Lines, Stride: Screen.WordsPerLine}
	return renderer.Paint(surf, o.registry(), clip, c, style, text, ro), nil
}

// HeightHint returns the height of a line of text in style: 24 for Small,
// and the tallest glyph extent of the Regular and Bold sets.
func HeightHint(style GlyphStyle, opts ...Option) int {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return renderer.HeightHint(o.registry(), style)
}
