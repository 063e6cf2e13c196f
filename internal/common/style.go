package common

import (
	"fmt"
	"strings"
)

// GlyphStyle selects the Latin-script glyph set text is drawn with.
type GlyphStyle int

// Glyph styles. The integer values cross register-width IPC boundaries and
// must not change.
const (
	Small   GlyphStyle = 0
	Regular GlyphStyle = 1
	Bold    GlyphStyle = 2
)

// StyleFromInt decodes a style. Out-of-range values decode to Regular.
func StyleFromInt(n int) GlyphStyle {
	switch n {
	case 0:
		return Small
	case 2:
		return Bold
	default:
		return Regular
	}
}

// Int returns the integer encoding of s.
func (s GlyphStyle) Int() int {
	switch s {
	case Small:
		return 0
	case Bold:
		return 2
	default:
		return 1
	}
}

// String implements fmt.Stringer.
func (s GlyphStyle) String() string {
	switch s {
	case Small:
		return "small"
	case Regular:
		return "regular"
	case Bold:
		return "bold"
	default:
		return fmt.Sprintf("GlyphStyle(%d)", int(s))
	}
}

// ParseGlyphStyle accepts a style name (case-insensitive) or its integer.
func ParseGlyphStyle(name string) (GlyphStyle, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "small", "0":
		return Small, nil
	case "regular", "1", "":
		return Regular, nil
	case "bold", "2":
		return Bold, nil
	}
	return Regular, fmt.Errorf("unknown glyph style %q", name)
}
