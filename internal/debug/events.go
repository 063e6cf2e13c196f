package debug

import "strings"

// PaintStartData describes a paint or measure call.
type PaintStartData struct {
	Text    string   `json:"text"`
	Bytes   int      `json:"bytes"`
	Style   string   `json:"style"`
	Clip    string   `json:"clip"`
	Cursor  string   `json:"cursor"`
	Flags   []string `json:"flags"`
	Measure bool     `json:"measure,omitempty"`
}

// PaintEndData summarizes a finished paint.
type PaintEndData struct {
	Clusters    int    `json:"clusters"`
	Glyphs      int    `json:"glyphs"`
	Fallbacks   int    `json:"fallbacks"`
	Lines       int    `json:"lines"`
	RowsWritten int    `json:"rows_written"`
	Cursor      string `json:"cursor"`
	Truncated   bool   `json:"truncated,omitempty"`
	ElapsedUs   int64  `json:"elapsed_us"`
}

// ResolveData records which glyph set served a cluster.
type ResolveData struct {
	Index   int    `json:"index"`
	Cluster string `json:"cluster"`
	Set     string `json:"set"`
	Offset  uint32 `json:"offset"`
	Bytes   int    `json:"bytes"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	YOffset int    `json:"y_offset"`
}

// FallbackData records a cluster no glyph set could draw.
type FallbackData struct {
	Index       int    `json:"index"`
	Cluster     string `json:"cluster"`
	Replacement bool   `json:"replacement"` // false when U+FFFD is missing too
}

// WrapData records a line break.
type WrapData struct {
	Reason string `json:"reason"` // "newline", "width"
	FromY  int    `json:"from_y"`
	ToY    int    `json:"to_y"`
	Height int    `json:"line_height"`
}

// BlitData records one glyph composed into the frame.
type BlitData struct {
	X    int `json:"x"`
	Y    int `json:"y"`
	W    int `json:"w"`
	H    int `json:"h"`
	Rows int `json:"rows"`
}

// ClearData records a cleared region.
type ClearData struct {
	Clip string `json:"clip"`
	Rows int    `json:"rows"`
}

// CaretData records where the insertion caret was drawn.
type CaretData struct {
	X      int `json:"x"`
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
}

// EllipsisData records a truncated line.
type EllipsisData struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Index int `json:"index"`
}

// GlyphSetLoadData describes a glyph set read from a file or reader.
type GlyphSetLoadData struct {
	Name      string `json:"name"`
	Source    string `json:"source"`
	Container string `json:"container"` // "plain", "zip", "zstd"
	Bytes     int    `json:"bytes"`
	CacheHit  bool   `json:"cache_hit,omitempty"`
}

// BuildSourceData reports one imported font or sheet.
type BuildSourceData struct {
	Index int    `json:"index"`
	Kind  string `json:"kind"` // "face", "opentype", "sheet"
	Added int    `json:"added"`
}

// BuildStatsData summarizes a built glyph store.
type BuildStatsData struct {
	Name      string `json:"name"`
	Seed      uint32 `json:"seed"`
	Buckets   int    `json:"buckets"`
	Entries   int    `json:"entries"`
	Words     int    `json:"words"`
	MaxHeight int    `json:"max_height"`
}

// ErrorData describes an error hit while tracing.
type ErrorData struct {
	Type    string         `json:"type"`
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
}

// Paint flag bits, as in the public PaintFlags type.
const (
	flagXor      = 1 << 0
	flagErase    = 1 << 1
	flagDirty    = 1 << 2
	flagEllipsis = 1 << 3
	flagCaret    = 1 << 4
)

// FormatPaintFlags names the set bits of a paint flag mask.
func FormatPaintFlags(flags int) []string {
	var names []string
	for _, f := range []struct {
		bit  int
		name string
	}{
		{flagXor, "Xor"},
		{flagErase, "Erase"},
		{flagDirty, "Dirty"},
		{flagEllipsis, "Ellipsis"},
		{flagCaret, "Caret"},
	} {
		if flags&f.bit != 0 {
			names = append(names, f.name)
		}
	}
	if len(names) == 0 {
		return []string{"None"}
	}
	return names
}

// JoinFlags renders FormatPaintFlags output as "Xor|Dirty".
func JoinFlags(names []string) string {
	return strings.Join(names, "|")
}
