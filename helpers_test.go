package blitstr

import (
	"bytes"
	"sync"
	"testing"

	"github.com/ryanlewis/blitstr/internal/debug"
	"github.com/ryanlewis/blitstr/internal/fontpack"
	"github.com/ryanlewis/blitstr/internal/fonts"
)

// recordSink keeps every event it is given.
type recordSink struct {
	mu     sync.Mutex
	events []debug.Event
}

func (s *recordSink) Write(e debug.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *recordSink) Flush() error { return nil }
func (s *recordSink) Close() error { return nil }

func (s *recordSink) find(phase, event string) []debug.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []debug.Event
	for _, e := range s.events {
		if e.Phase == phase && e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

// newTraceSession enables tracing for the duration of the test.
func newTraceSession(t *testing.T) (*debug.Session, *recordSink) {
	t.Helper()
	was := debug.Enabled()
	debug.SetEnabled(true)
	t.Cleanup(func() { debug.SetEnabled(was) })
	sink := &recordSink{}
	return debug.NewSession(sink), sink
}

// encodedSmall returns the built-in Small store as glyph-set file text.
func encodedSmall(t testing.TB) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := fontpack.Encode(&buf, fonts.SmallStore(), []string{"Small glyphs", "test copy"}); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	return buf.Bytes()
}

// testEmoji is a glyph set holding a 16x16 cat face and a 12x10 box for
// U+1F170 (also reached through its emoji presentation sequence).
func testEmoji(t testing.TB) *GlyphSetData {
	t.Helper()
	b := fontpack.NewBuilder("emoji", 0)
	cat := fontpack.PatternFromRows(
		"##............##",
		"###..........###",
		"####........####",
		"################",
		"################",
		"###..######..###",
		"##....####....##",
		"##....####....##",
		"###..######..###",
		"################",
		"#######..#######",
		"################",
		"####.######.####",
		"#####......#####",
		"################",
		".##############.",
	)
	box := fontpack.NewPattern(12, 10)
	for y := 0; y < 10; y++ {
		for x := 0; x < 12; x++ {
			if y == 0 || y == 9 || x == 0 || x == 11 {
				box.Set(x, y)
			}
		}
	}
	box.YOffset = 4
	for _, g := range []struct {
		cluster string
		p       fontpack.Pattern
	}{
		{"\U0001F638", cat},
		{"\U0001F170", box},
	} {
		if err := b.Add(g.cluster, g.p); err != nil {
			t.Fatalf("Add(%q) error: %v", g.cluster, err)
		}
	}
	if err := b.Alias("\U0001F170\uFE0F", "\U0001F170"); err != nil {
		t.Fatalf("Alias() error: %v", err)
	}
	s, err := b.BuildAutoSeed(8)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return &GlyphSetData{store: s}
}

// newClearedFrame returns a default frame with every pixel light.
func newClearedFrame(t testing.TB) *Frame {
	t.Helper()
	f := NewFrame()
	ClearRegion(f, FullScreen())
	return f
}
