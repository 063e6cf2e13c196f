package blitstr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ryanlewis/blitstr/internal/blit"
	"github.com/ryanlewis/blitstr/internal/common"
	"github.com/ryanlewis/blitstr/internal/debug"
	"github.com/ryanlewis/blitstr/internal/fontpack"
	"github.com/ryanlewis/blitstr/internal/fonts"
	"github.com/ryanlewis/blitstr/internal/renderer"
)

// Pt is a pixel coordinate. (0,0) is the top left of the frame.
type Pt = common.Pt

// ClipRect is a pixel region, Min inclusive and Max exclusive.
type ClipRect = common.ClipRect

// Cursor is a drawing position plus the height of the line drawn so far.
type Cursor = common.Cursor

// Geometry describes the shape of a frame buffer.
type Geometry = common.Geometry

// GlyphStyle selects the Latin glyph set text is drawn with.
type GlyphStyle = common.GlyphStyle

// GlyphSet names one of the glyph sets a Fonts value can hold.
type GlyphSet = fonts.GlyphSet

// Result summarizes one PaintStr or Measure call.
type Result = renderer.Result

// Glyph styles.
const (
	Small   = common.Small
	Regular = common.Regular
	Bold    = common.Bold
)

// Glyph sets. Lookups try Emoji, then the style's Latin set, then Hanzi.
const (
	Emoji        = fonts.Emoji
	BoldSet      = fonts.Bold
	RegularSet   = fonts.Regular
	SmallSet     = fonts.Small
	Hanzi        = fonts.Hanzi
	NumGlyphSets = fonts.NumGlyphSets
)

// Frame geometry of the default screen.
const (
	Width        = common.Width
	Lines        = common.Lines
	WordsPerLine = common.WordsPerLine
	FrameBufSize = common.FrameBufSize
	DirtyBit     = common.DirtyBit
	BlankWord    = common.BlankWord
)

// Screen is the geometry of the default frame.
var Screen = common.Screen

// Common errors returned by the blitstr package
var (
	// ErrNoGlyph is returned when a glyph set has no entry for a cluster
	ErrNoGlyph = common.ErrNoGlyph

	// ErrBadFormat is returned when a glyph-set file has an invalid structure
	ErrBadFormat = common.ErrBadFormat

	// ErrBadGeometry is returned when a buffer does not match its geometry
	ErrBadGeometry = common.ErrBadGeometry

	// ErrModeConflict is returned when both XOR and erase composition are set
	ErrModeConflict = common.ErrModeConflict

	// ErrUnknownGlyphSet is returned for a glyph set outside the known sets
	ErrUnknownGlyphSet = fonts.ErrUnknownGlyphSet

	// Glyph-set build errors.
	ErrHashCollision    = fontpack.ErrHashCollision
	ErrDuplicateCluster = fontpack.ErrDuplicateCluster
	ErrGlyphTooWide     = fontpack.ErrGlyphTooWide
	ErrUnknownBlock     = fontpack.ErrUnknownBlock
)

// NewClipRect returns a rectangle with its corners ordered so that Min is
// the top left.
func NewClipRect(minX, minY, maxX, maxY int) ClipRect {
	return common.NewClipRect(minX, minY, maxX, maxY)
}

// NewCursor returns a cursor at (x, y) on a line already lineHeight tall.
func NewCursor(x, y, lineHeight int) Cursor {
	return common.NewCursor(x, y, lineHeight)
}

// CursorFromTopLeftOf returns a cursor at the top left corner of r.
func CursorFromTopLeftOf(r ClipRect) Cursor {
	return common.CursorFromTopLeftOf(r)
}

// FullScreen returns the clip rectangle covering the whole default screen.
func FullScreen() ClipRect { return common.FullFrame(common.Screen) }

// PaddedScreen returns the default screen inset by 6 pixels on every side.
func PaddedScreen() ClipRect { return common.PaddedFrame(common.Screen) }

// ParseClipRect accepts "full", "padded" or four comma separated
// coordinates "x0,y0,x1,y1" in any corner order.
func ParseClipRect(s string) (ClipRect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full":
		return FullScreen(), nil
	case "padded", "":
		return PaddedScreen(), nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return ClipRect{}, fmt.Errorf("%w: clip %q: want full, padded or x0,y0,x1,y1", ErrBadGeometry, s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return ClipRect{}, fmt.Errorf("%w: clip %q: %v", ErrBadGeometry, s, err)
		}
		v[i] = n
	}
	return NewClipRect(v[0], v[1], v[2], v[3]), nil
}

// StyleFromInt decodes a style: 0 is Small, 2 is Bold and anything else is
// Regular.
func StyleFromInt(n int) GlyphStyle { return common.StyleFromInt(n) }

// ParseGlyphStyle accepts a style name or its integer encoding.
func ParseGlyphStyle(s string) (GlyphStyle, error) { return common.ParseGlyphStyle(s) }

// ParseGlyphSetName accepts a glyph set name such as "emoji".
func ParseGlyphSetName(s string) (GlyphSet, error) { return fonts.ParseGlyphSet(s) }

// Option configures a paint, measure or load call.
type Option func(*options)

type options struct {
	flags   PaintFlags
	caret   *int
	fonts   *Fonts
	session *debug.Session
}

func defaultOptions() *options {
	return &options{}
}

// WithFlags replaces the paint flags. The mask is validated when painting
// starts.
func WithFlags(f PaintFlags) Option {
	return func(o *options) {
		o.flags = f
	}
}

// WithCompose selects XOR (the default) or erase composition.
func WithCompose(m ComposeMode) Option {
	return func(o *options) {
		o.flags = o.flags&^(FlagXor|FlagErase) | m.flag()
	}
}

// WithDirtyBits marks every scanline a paint writes with DirtyBit.
func WithDirtyBits(on bool) Option {
	return func(o *options) {
		if on {
			o.flags |= FlagDirty
		} else {
			o.flags &^= FlagDirty
		}
	}
}

// WithEllipsis makes a line that would wrap end in an ellipsis, and stops
// painting there.
func WithEllipsis(on bool) Option {
	return func(o *options) {
		if on {
			o.flags |= FlagEllipsis
		} else {
			o.flags &^= FlagEllipsis
		}
	}
}

// WithCaret draws an insertion caret before cluster n (counting from 0),
// or after the last cluster when n is past the end. The caret is always
// XORed in, so painting the same text twice removes it.
func WithCaret(n int) Option {
	return func(o *options) {
		n := max(n, 0)
		o.caret = &n
	}
}

// WithFonts selects the glyph sets to draw with. The default is
// DefaultFonts().
func WithFonts(f *Fonts) Option {
	return func(o *options) {
		o.fonts = f
	}
}

// WithDebug attaches a trace session created by the internal debug package.
// Values of any other type are ignored.
func WithDebug(session any) Option {
	return func(o *options) {
		if s, ok := session.(*debug.Session); ok {
			o.session = s
		}
	}
}

func (o *options) registry() *fonts.Registry {
	if o.fonts != nil {
		return o.fonts.registry()
	}
	return DefaultFonts().registry()
}

// toInternal validates the flags and converts them to renderer options.
func (o *options) toInternal() (*renderer.Options, error) {
	flags, err := NormalizeFlags(o.flags)
	if err != nil {
		return nil, err
	}
	ro := &renderer.Options{
		Ellipsis: flags.Has(FlagEllipsis),
		Flags:    int(flags),
		Debug:    o.session,
	}
	ro.Op.Dirty = flags.Has(FlagDirty)
	if flags.Mode() == ComposeErase {
		ro.Op.Mode = blit.ComposeErase
	}
	if o.caret != nil {
		ro.HasCaret = true
		ro.Caret = *o.caret
	}
	return ro, nil
}
