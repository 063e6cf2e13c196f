// Package common provides shared constants and types for internal packages.
// The public blitstr package re-exports these names, so they must stay in sync.
package common

import "errors"

// Screen geometry of the default 1bpp frame buffer.
const (
	// Width is the number of visible pixels per scanline
	Width = 336
	// Lines is the number of scanlines
	Lines = 536
	// WordsPerLine is the number of 32-bit words per scanline
	WordsPerLine = 11
	// FrameBufSize is the total number of words in a frame buffer
	FrameBufSize = WordsPerLine * Lines
)

// Pixel constants
const (
	// WordBits is the number of pixels packed into one buffer word
	WordBits = 32
	// MaxGlyphWidth is the widest glyph row the blitter can compose
	MaxGlyphWidth = 32
	// DirtyBit is the per-scanline flag set in the last word of a row
	DirtyBit uint32 = 0x0001_0000
	// BlankWord is the fill value of a freshly allocated frame buffer
	BlankWord uint32 = 0xffff_0000
	// PaddedInset is the margin of the padded-screen clip rectangle
	PaddedInset = 6
	// MinLineHeight is the line height a newline advances by at minimum
	MinLineHeight = 24
	// ReplacementChar is drawn for clusters no glyph set can render
	ReplacementChar = '\uFFFD'
)

// Glyph padding: 1px to the left of every glyph, 2px to the right.
const (
	PadLeft  = 1
	PadRight = 2
	// Advance is added to a glyph's width to get its horizontal advance
	Advance = PadLeft + PadRight
)

// Paint flag bits (must match public API in blitstr package)
const (
	// FlagXor composes glyph pixels with XOR (the default)
	FlagXor = 1 << 0
	// FlagErase composes glyph pixels with AND-NOT
	FlagErase = 1 << 1
	// FlagDirty marks written scanlines with DirtyBit
	FlagDirty = 1 << 2
	// FlagEllipsis truncates with an ellipsis instead of wrapping
	FlagEllipsis = 1 << 3
)

// Common errors (must match public API in blitstr package)
var (
	// ErrNoGlyph is returned when a glyph set has no entry for a cluster
	ErrNoGlyph = errors.New("no glyph")
	// ErrBadFormat is returned when glyph-set data has an invalid structure
	ErrBadFormat = errors.New("bad glyph set format")
	// ErrBadGeometry is returned when a buffer does not match its geometry
	ErrBadGeometry = errors.New("bad frame geometry")
	// ErrModeConflict is returned when XOR and erase composition are both set
	ErrModeConflict = errors.New("compose mode conflict")
)
