package blitstr

import (
	"errors"
	"testing"

	"github.com/ryanlewis/blitstr/internal/blit"
	"github.com/ryanlewis/blitstr/internal/debug"
)

func TestErrorTypes(t *testing.T) {
	errs := map[string]error{
		"ErrNoGlyph":          ErrNoGlyph,
		"ErrBadFormat":        ErrBadFormat,
		"ErrBadGeometry":      ErrBadGeometry,
		"ErrModeConflict":     ErrModeConflict,
		"ErrUnknownGlyphSet":  ErrUnknownGlyphSet,
		"ErrHashCollision":    ErrHashCollision,
		"ErrDuplicateCluster": ErrDuplicateCluster,
		"ErrGlyphTooWide":     ErrGlyphTooWide,
		"ErrUnknownBlock":     ErrUnknownBlock,
	}
	for name, err := range errs {
		if err == nil {
			t.Errorf("%s is nil", name)
			continue
		}
		if err.Error() == "" {
			t.Errorf("%s has an empty message", name)
		}
		for other, e := range errs {
			if other != name && errors.Is(err, e) {
				t.Errorf("%s matches %s", name, other)
			}
		}
	}
}

func TestGeometryConstants(t *testing.T) {
	if Width != 336 || Lines != 536 || WordsPerLine != 11 {
		t.Errorf("screen = %dx%d, %d words per line", Width, Lines, WordsPerLine)
	}
	if FrameBufSize != 5896 {
		t.Errorf("FrameBufSize = %d, want 5896", FrameBufSize)
	}
	if Screen.Words() != FrameBufSize {
		t.Errorf("Screen.Words() = %d, want %d", Screen.Words(), FrameBufSize)
	}
	if DirtyBit != 0x10000 || BlankWord != 0xffff0000 {
		t.Errorf("DirtyBit = 0x%X, BlankWord = 0x%X", DirtyBit, BlankWord)
	}
}

func TestScreenRects(t *testing.T) {
	if got, want := FullScreen(), NewClipRect(0, 0, 336, 536); got != want {
		t.Errorf("FullScreen() = %v, want %v", got, want)
	}
	if got, want := PaddedScreen(), NewClipRect(6, 6, 330, 530); got != want {
		t.Errorf("PaddedScreen() = %v, want %v", got, want)
	}
	c := CursorFromTopLeftOf(PaddedScreen())
	if c != NewCursor(6, 6, 0) {
		t.Errorf("CursorFromTopLeftOf(PaddedScreen()) = %+v", c)
	}
}

func TestNewClipRectOrdersCorners(t *testing.T) {
	want := NewClipRect(10, 20, 30, 40)
	corners := [][4]int{
		{10, 20, 30, 40},
		{30, 20, 10, 40},
		{10, 40, 30, 20},
		{30, 40, 10, 20},
	}
	for _, c := range corners {
		if got := NewClipRect(c[0], c[1], c[2], c[3]); got != want {
			t.Errorf("NewClipRect%v = %v, want %v", c, got, want)
		}
	}
}

func TestParseClipRect(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "full", want: "(0,0)-(336,536)"},
		{in: "Padded", want: "(6,6)-(330,530)"},
		{in: "", want: "(6,6)-(330,530)"},
		{in: "100, 10, 20, 50", want: "(20,10)-(100,50)"},
		{in: "1,2,3", wantErr: true},
		{in: "a,b,c,d", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseClipRect(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseClipRect(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil {
			if !errors.Is(err, ErrBadGeometry) {
				t.Errorf("ParseClipRect(%q) error %v is not ErrBadGeometry", tt.in, err)
			}
			continue
		}
		if got.String() != tt.want {
			t.Errorf("ParseClipRect(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestStyleConversions(t *testing.T) {
	for _, s := range []GlyphStyle{Small, Regular, Bold} {
		if got := StyleFromInt(s.Int()); got != s {
			t.Errorf("StyleFromInt(%d) = %v, want %v", s.Int(), got, s)
		}
		got, err := ParseGlyphStyle(s.String())
		if err != nil || got != s {
			t.Errorf("ParseGlyphStyle(%q) = %v, %v", s.String(), got, err)
		}
	}
	for _, n := range []int{-1, 3, 99} {
		if got := StyleFromInt(n); got != Regular {
			t.Errorf("StyleFromInt(%d) = %v, want Regular", n, got)
		}
	}
	if _, err := ParseGlyphStyle("italic"); err == nil {
		t.Error("ParseGlyphStyle(\"italic\") should fail")
	}
}

func TestParseGlyphSetName(t *testing.T) {
	got, err := ParseGlyphSetName("emoji")
	if err != nil || got != Emoji {
		t.Errorf("ParseGlyphSetName(\"emoji\") = %v, %v", got, err)
	}
	if _, err := ParseGlyphSetName("cursive"); !errors.Is(err, ErrUnknownGlyphSet) {
		t.Errorf("ParseGlyphSetName(\"cursive\") error = %v, want ErrUnknownGlyphSet", err)
	}
}

func TestOptionPattern(t *testing.T) {
	f := NewFonts()
	s := &debug.Session{}
	o := defaultOptions()
	for _, opt := range []Option{
		WithFlags(FlagErase | FlagDirty),
		WithEllipsis(true),
		WithCaret(-4),
		WithFonts(f),
		WithDebug(s),
		WithDebug("not a session"),
	} {
		opt(o)
	}

	if o.caret == nil || *o.caret != 0 {
		t.Errorf("negative caret should clamp to 0, got %v", o.caret)
	}
	if o.fonts != f {
		t.Error("WithFonts was not applied")
	}
	if o.session != s {
		t.Error("WithDebug with a non-session value should be ignored")
	}

	ro, err := o.toInternal()
	if err != nil {
		t.Fatalf("toInternal() error: %v", err)
	}
	if ro.Op.Mode != blit.ComposeErase || !ro.Op.Dirty || !ro.Ellipsis {
		t.Errorf("toInternal() = %+v", ro)
	}
	if !ro.HasCaret || ro.Caret != 0 {
		t.Errorf("caret = %v/%d, want set at 0", ro.HasCaret, ro.Caret)
	}
	if ro.Debug != s {
		t.Error("debug session not passed through")
	}

	if _, err := (&options{flags: FlagXor | FlagErase}).toInternal(); !errors.Is(err, ErrModeConflict) {
		t.Errorf("conflicting flags: error = %v, want ErrModeConflict", err)
	}
}

func TestOptionsRegistryDefault(t *testing.T) {
	if defaultOptions().registry() != DefaultFonts().registry() {
		t.Error("options without WithFonts should use DefaultFonts")
	}
}
