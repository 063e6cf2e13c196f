package renderer

import (
	"github.com/ryanlewis/blitstr/internal/blit"
	"github.com/ryanlewis/blitstr/internal/common"
	"github.com/ryanlewis/blitstr/internal/debug"
	"github.com/ryanlewis/blitstr/internal/fonts"
)

// Options contains paint options passed from the main package
type Options struct {
	// Op selects XOR or erase composition and dirty-row marking
	Op blit.Op
	// Ellipsis truncates a line that would wrap with "..." and stops
	Ellipsis bool
	// Caret draws an insertion caret after Caret clusters when HasCaret is set
	Caret    int
	HasCaret bool
	// Measure runs layout without touching the surface
	Measure bool
	// Flags is the public flag mask, reported in debug events only
	Flags int
	// Debug receives trace events; nil disables tracing
	Debug *debug.Session
}

// Result summarizes one Paint call.
type Result struct {
	Clusters    int // clusters consumed, a newline counts as one
	Glyphs      int // glyphs placed, replacement glyphs included
	Fallbacks   int // clusters no glyph set could draw
	Lines       int // line breaks taken
	RowsWritten int // scanlines composed into the surface
	Truncated   bool
	Done        bool // an ellipsis ended layout before the end of the text
}

// paintState holds the layout state of one Paint call. It lives on the
// caller's stack; painting does not allocate.
type paintState struct {
	surf  blit.Surface
	reg   *fonts.Registry
	clip  common.ClipRect
	c     *common.Cursor
	style common.GlyphStyle
	latin fonts.GlyphSet
	opts  *Options
	dbg   *debug.Session

	res  Result
	done bool
}

// layout phases, reported in debug events
const (
	phaseScanning = "scan"
	phaseBreak    = "break"
	phaseFallback = "fallback"
	phaseDone     = "done"
)
