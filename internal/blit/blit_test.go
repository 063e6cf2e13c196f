package blit

import (
	"testing"

	"github.com/ryanlewis/blitstr/internal/common"
	"github.com/ryanlewis/blitstr/internal/m3hash"
)

func newSurface(fill uint32) Surface {
	g := common.Geometry{Width: 64, Lines: 4, WordsPerLine: 2}
	words := make([]uint32, g.Words())
	for i := range words {
		words[i] = fill
	}
	return NewSurface(words, g)
}

func rect(x0, y0, x1, y1 int) common.ClipRect {
	return common.NewClipRect(x0, y0, x1, y1)
}

// tee is a 3x2 pattern:
//
//	#..
//	.##
var tee = Pattern{W: 3, H: 2, Src: words{0x00030200, 0x38000000}}

type words []uint32

func (w words) Word(n int) (uint32, bool) {
	if n < 0 || n >= len(w) {
		return 0, false
	}
	return w[n], true
}

func TestClearRegionFullScreenHash(t *testing.T) {
	buf := make([]uint32, common.FrameBufSize)
	for i := range buf {
		buf[i] = common.BlankWord
	}
	s := NewSurface(buf, common.Screen)
	if n := ClearRegion(s, common.FullFrame(common.Screen), Op{}); n != common.Lines {
		t.Fatalf("ClearRegion wrote %d rows, want %d", n, common.Lines)
	}
	if got := m3hash.FrameBuffer(buf, 0); got != 0x3A25F08C {
		t.Errorf("hash = 0x%08X, want 0x3A25F08C", got)
	}
}

func TestClearRegionMasks(t *testing.T) {
	tests := []struct {
		name string
		clip common.ClipRect
		want [2]uint32
	}{
		{"within one word", rect(3, 0, 5, 1), [2]uint32{0x18, 0}},
		{"spans words", rect(30, 0, 34, 1), [2]uint32{0xC0000000, 0x3}},
		{"whole first word", rect(0, 0, 32, 1), [2]uint32{0xFFFFFFFF, 0}},
		{"to the right edge", rect(60, 0, 64, 1), [2]uint32{0, 0xF0000000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSurface(0)
			ClearRegion(s, tt.clip, Op{})
			if got := [2]uint32{s.Words[0], s.Words[1]}; got != tt.want {
				t.Errorf("row 0 = %08X, want %08X", got, tt.want)
			}
			for i := 2; i < len(s.Words); i++ {
				if s.Words[i] != 0 {
					t.Fatalf("word %d = %08X outside the clip", i, s.Words[i])
				}
			}
		})
	}
}

func TestGuardsLeaveSurfaceUntouched(t *testing.T) {
	bad := []struct {
		name string
		clip common.ClipRect
	}{
		{"too wide", rect(0, 0, 65, 4)},
		{"too tall", rect(0, 0, 64, 5)},
		{"empty x", rect(9, 0, 9, 4)},
		{"empty y", rect(0, 2, 64, 2)},
		{"negative", rect(-1, 0, 10, 4)},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			s := newSurface(0)
			if n := ClearRegion(s, tt.clip, Op{Dirty: true}); n != 0 {
				t.Errorf("ClearRegion wrote %d rows", n)
			}
			if n := Glyph(s, tt.clip, 1, 0, tee, Op{Dirty: true}); n != 0 {
				t.Errorf("Glyph wrote %d rows", n)
			}
			Dots(s, tt.clip, 1, 1, Op{})
			for i, w := range s.Words {
				if w != 0 {
					t.Fatalf("word %d = %08X", i, w)
				}
			}
		})
	}

	short := Surface{Words: make([]uint32, 3), Width: 64, Lines: 4, Stride: 2}
	if n := ClearRegion(short, rect(0, 0, 8, 1), Op{}); n != 0 {
		t.Errorf("short buffer: ClearRegion wrote %d rows", n)
	}
}

func TestGlyph(t *testing.T) {
	tests := []struct {
		name     string
		clip     common.ClipRect
		x0, y0   int
		fill     uint32
		op       Op
		wantRows int
		want     []uint32
	}{
		{
			name: "xor at origin", clip: rect(0, 0, 64, 4), fill: 0, wantRows: 2,
			want: []uint32{0x1, 0, 0x6, 0, 0, 0, 0, 0},
		},
		{
			name: "spans a word boundary", clip: rect(0, 0, 64, 4), x0: 31, y0: 1, wantRows: 2,
			want: []uint32{0, 0, 0x80000000, 0, 0, 0x3, 0, 0},
		},
		{
			name: "right clip masks columns", clip: rect(0, 0, 32, 4), x0: 31, y0: 1, wantRows: 2,
			want: []uint32{0, 0, 0x80000000, 0, 0, 0, 0, 0},
		},
		{
			name: "top clip skips rows", clip: rect(0, 1, 64, 4), wantRows: 1,
			want: []uint32{0, 0, 0x6, 0, 0, 0, 0, 0},
		},
		{
			name: "bottom clip truncates", clip: rect(0, 0, 64, 4), y0: 3, wantRows: 1,
			want: []uint32{0, 0, 0, 0, 0, 0, 0x1, 0},
		},
		{
			name: "below clip", clip: rect(0, 0, 64, 2), y0: 2, wantRows: 0,
			want: []uint32{0, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name: "erase", clip: rect(0, 0, 64, 4), fill: 0xFFFFFFFF, op: Op{Mode: ComposeErase}, wantRows: 2,
			want: []uint32{0xFFFFFFFE, 0xFFFFFFFF, 0xFFFFFFF9, 0xFFFFFFFF,
				0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF},
		},
		{
			name: "dirty rows", clip: rect(0, 0, 64, 4), op: Op{Dirty: true}, wantRows: 2,
			want: []uint32{0x1, common.DirtyBit, 0x6, common.DirtyBit, 0, 0, 0, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSurface(tt.fill)
			if n := Glyph(s, tt.clip, tt.x0, tt.y0, tee, tt.op); n != tt.wantRows {
				t.Errorf("rows = %d, want %d", n, tt.wantRows)
			}
			for i := range tt.want {
				if s.Words[i] != tt.want[i] {
					t.Errorf("word %d = %08X, want %08X", i, s.Words[i], tt.want[i])
				}
			}
		})
	}
}

func TestGlyphXorTwiceRestores(t *testing.T) {
	s := newSurface(0x5A5A5A5A)
	clip := rect(0, 0, 64, 4)
	Glyph(s, clip, 30, 1, tee, Op{})
	Glyph(s, clip, 30, 1, tee, Op{})
	for i, w := range s.Words {
		if w != 0x5A5A5A5A {
			t.Fatalf("word %d = %08X", i, w)
		}
	}
}

func TestGlyphFullWidthRow(t *testing.T) {
	// 32 wide and 2 tall: the second row starts on a word boundary.
	p := Pattern{W: 32, H: 2, Src: words{0x00200200, 0x80000001, 0xFFFFFFFF}}
	s := newSurface(0)
	Glyph(s, rect(0, 0, 64, 4), 16, 0, p, Op{})
	want := []uint32{0x00010000, 0x00008000, 0xFFFF0000, 0x0000FFFF}
	for i := range want {
		if s.Words[i] != want[i] {
			t.Errorf("word %d = %08X, want %08X", i, s.Words[i], want[i])
		}
	}
}

func TestGlyphMissingWordsAreBlank(t *testing.T) {
	s := newSurface(0)
	p := Pattern{W: 3, H: 2, Src: words{0x00030200}}
	if n := Glyph(s, rect(0, 0, 64, 4), 0, 0, p, Op{}); n != 2 {
		t.Errorf("rows = %d, want 2", n)
	}
	for i, w := range s.Words {
		if w != 0 {
			t.Fatalf("word %d = %08X", i, w)
		}
	}
}

func TestCaretAndDots(t *testing.T) {
	s := newSurface(0)
	clip := rect(0, 0, 64, 4)
	if n := Caret(s, clip, 5, 1, 3, Op{}); n != 2 {
		t.Errorf("caret rows = %d, want 2", n)
	}
	want := []uint32{0, 0, 0x20, 0, 0x20, 0, 0, 0}
	for i := range want {
		if s.Words[i] != want[i] {
			t.Errorf("caret word %d = %08X, want %08X", i, s.Words[i], want[i])
		}
	}

	s = newSurface(0)
	Dots(s, clip, 30, 2, Op{})
	want = []uint32{0, 0, 0, 0, 0xC0000000, 0xCC, 0xC0000000, 0xCC}
	for i := range want {
		if s.Words[i] != want[i] {
			t.Errorf("dots word %d = %08X, want %08X", i, s.Words[i], want[i])
		}
	}
}

func BenchmarkGlyph(b *testing.B) {
	s := newSurface(0)
	clip := rect(0, 0, 64, 4)
	for i := 0; i < b.N; i++ {
		Glyph(s, clip, 30, 1, tee, Op{})
	}
}
