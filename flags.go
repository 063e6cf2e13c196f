package blitstr

import (
	"fmt"
	"strings"

	"github.com/ryanlewis/blitstr/internal/common"
)

// PaintFlags is a bitmask selecting how glyphs are composed into a frame.
//
// Bits 0-1 select the compose mode (at most one may be set):
//   - Bit 0: FlagXor - glyph pixels toggle frame pixels (the default)
//   - Bit 1: FlagErase - glyph pixels force frame pixels to ink
//
// Bits 2-3 are independent modifiers:
//   - Bit 2: FlagDirty - every written scanline gets its dirty bit set
//   - Bit 3: FlagEllipsis - a line that would wrap ends in "..." instead
type PaintFlags uint32

const (
	// FlagXor composes with XOR; painting the same text twice restores the frame
	FlagXor PaintFlags = common.FlagXor

	// FlagErase composes with AND-NOT; painting is idempotent
	FlagErase PaintFlags = common.FlagErase

	// FlagDirty marks written scanlines with DirtyBit
	FlagDirty PaintFlags = common.FlagDirty

	// FlagEllipsis truncates an overlong line with an ellipsis and stops
	FlagEllipsis PaintFlags = common.FlagEllipsis
)

const knownFlags = FlagXor | FlagErase | FlagDirty | FlagEllipsis

// NormalizeFlags validates a flag mask and fills in the default compose
// mode:
//   - If both FlagXor and FlagErase are set, returns ErrModeConflict
//   - If neither is set, FlagXor is added
//   - Unknown bits are rejected with ErrModeConflict
func NormalizeFlags(f PaintFlags) (PaintFlags, error) {
	if f&^knownFlags != 0 {
		return 0, fmt.Errorf("%w: unknown bits 0x%X", ErrModeConflict, uint32(f&^knownFlags))
	}
	switch f & (FlagXor | FlagErase) {
	case FlagXor | FlagErase:
		return 0, ErrModeConflict
	case 0:
		f |= FlagXor
	}
	return f, nil
}

// Has reports whether every bit of flag is set in f.
func (f PaintFlags) Has(flag PaintFlags) bool {
	return flag != 0 && f&flag == flag
}

// Mode returns the compose mode selected by f.
func (f PaintFlags) Mode() ComposeMode {
	if f&FlagErase != 0 {
		return ComposeErase
	}
	return ComposeXor
}

// String returns the set flags joined with '|', such as "Xor|Dirty".
func (f PaintFlags) String() string {
	if f == 0 {
		return "0x00000000"
	}
	if f&^knownFlags != 0 {
		return fmt.Sprintf("0x%08X", uint32(f))
	}
	var parts []string
	if f&FlagXor != 0 {
		parts = append(parts, "Xor")
	}
	if f&FlagErase != 0 {
		parts = append(parts, "Erase")
	}
	if f&FlagDirty != 0 {
		parts = append(parts, "Dirty")
	}
	if f&FlagEllipsis != 0 {
		parts = append(parts, "Ellipsis")
	}
	return strings.Join(parts, "|")
}

// ParseFlags reads a mask written by String, case-insensitively. An empty
// string is no flags.
func ParseFlags(s string) (PaintFlags, error) {
	var f PaintFlags
	for _, part := range strings.Split(s, "|") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "":
		case "xor":
			f |= FlagXor
		case "erase":
			f |= FlagErase
		case "dirty":
			f |= FlagDirty
		case "ellipsis":
			f |= FlagEllipsis
		default:
			return 0, fmt.Errorf("unknown paint flag %q", part)
		}
	}
	return f, nil
}

// ComposeMode selects how glyph pixels combine with frame pixels.
type ComposeMode int

const (
	// ComposeXor toggles frame pixels under glyph ink
	ComposeXor ComposeMode = iota
	// ComposeErase forces frame pixels under glyph ink to ink
	ComposeErase
)

// String implements fmt.Stringer.
func (m ComposeMode) String() string {
	switch m {
	case ComposeXor:
		return "xor"
	case ComposeErase:
		return "erase"
	default:
		return fmt.Sprintf("ComposeMode(%d)", int(m))
	}
}

func (m ComposeMode) flag() PaintFlags {
	if m == ComposeErase {
		return FlagErase
	}
	return FlagXor
}
