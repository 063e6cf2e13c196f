package blitstr

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"

	"github.com/ryanlewis/blitstr/internal/debug"
	"github.com/ryanlewis/blitstr/internal/fonts"
)

func zipped(t *testing.T, entries ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for i := 0; i+1 < len(entries); i += 2 {
		f, err := w.Create(entries[i])
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write([]byte(entries[i+1])); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func zstded(t *testing.T, data []byte) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil)
}

func checkSmall(t *testing.T, d *GlyphSetData) {
	t.Helper()
	want := fonts.SmallStore()
	if d.Name() != "small" {
		t.Errorf("Name() = %q, want small", d.Name())
	}
	if d.MaxHeight() != want.MaxHeight {
		t.Errorf("MaxHeight() = %d, want %d", d.MaxHeight(), want.MaxHeight)
	}
	if d.Entries() != want.Entries() || d.Words() != want.Data.Len() {
		t.Errorf("Entries/Words = %d/%d, want %d/%d", d.Entries(), d.Words(), want.Entries(), want.Data.Len())
	}
	if !d.Has("a") || !d.Has("ë") || d.Has("一") {
		t.Error("unexpected Has results")
	}
}

func TestParseGlyphSetContainers(t *testing.T) {
	plain := encodedSmall(t)
	tests := []struct {
		name    string
		data    []byte
		wantErr bool
	}{
		{name: "plain", data: plain},
		{name: "zip", data: zipped(t, "small.bgs", string(plain))},
		{name: "zip uses first entry", data: zipped(t, "small.bgs", string(plain), "junk.txt", "not a glyph set")},
		{name: "zip skips directories", data: zipped(t, "glyphs/", "", "glyphs/small.bgs", string(plain))},
		{name: "zstd", data: zstded(t, plain)},
		{name: "empty zip", data: zipped(t), wantErr: true},
		{name: "zip of garbage", data: zipped(t, "x.bgs", "hello"), wantErr: true},
		{name: "truncated zstd", data: zstded(t, plain)[:12], wantErr: true},
		{name: "empty", data: nil, wantErr: true},
		{name: "not a glyph set", data: []byte("P1\n1 1\n0\n"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseGlyphSetBytes(tt.data)
			if tt.wantErr {
				if !errors.Is(err, ErrBadFormat) {
					t.Fatalf("error = %v, want ErrBadFormat", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseGlyphSetBytes() error: %v", err)
			}
			checkSmall(t, d)
		})
	}
}

func TestParseGlyphSetReader(t *testing.T) {
	d, err := ParseGlyphSet(bytes.NewReader(encodedSmall(t)))
	if err != nil {
		t.Fatalf("ParseGlyphSet() error: %v", err)
	}
	checkSmall(t, d)
	if got := d.Comments(); len(got) != 2 || got[0] != "Small glyphs" {
		t.Errorf("Comments() = %q", got)
	}

	// Comments returns a copy.
	d.Comments()[0] = "changed"
	if d.Comments()[0] != "Small glyphs" {
		t.Error("Comments() exposed internal storage")
	}
}

func TestLoadGlyphSet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "small.bgs.zst")
	if err := os.WriteFile(path, zstded(t, encodedSmall(t)), 0o600); err != nil {
		t.Fatal(err)
	}

	d, err := LoadGlyphSet(path)
	if err != nil {
		t.Fatalf("LoadGlyphSet() error: %v", err)
	}
	checkSmall(t, d)

	if _, err := LoadGlyphSet(filepath.Join(dir, "missing.bgs")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: error = %v, want os.ErrNotExist", err)
	}

	bad := filepath.Join(dir, "bad.bgs")
	if err := os.WriteFile(bad, []byte("bgs1 broken\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err = LoadGlyphSet(bad)
	if !errors.Is(err, ErrBadFormat) || !strings.Contains(err.Error(), bad) {
		t.Errorf("bad file: error = %v, want ErrBadFormat naming the file", err)
	}
}

func TestLoadGlyphSetFS(t *testing.T) {
	plain := encodedSmall(t)
	fsys := fstest.MapFS{
		"glyphs/small.bgs":     {Data: plain},
		"glyphs/small.bgs.zip": {Data: zipped(t, "small.bgs", string(plain))},
		"glyphs/sub/.keep":     {Data: nil},
	}

	tests := []struct {
		name        string
		path        string
		errContains string
	}{
		{name: "plain", path: "glyphs/small.bgs"},
		{name: "zip", path: "glyphs/small.bgs.zip"},
		{name: "cleaned", path: "glyphs/sub/../small.bgs", errContains: "invalid fs path"},
		{name: "empty path", path: "", errContains: "path cannot be empty"},
		{name: "absolute", path: "/glyphs/small.bgs", errContains: "absolute paths not allowed"},
		{name: "backslash", path: `glyphs\small.bgs`, errContains: "backslashes not allowed"},
		{name: "traversal", path: "../small.bgs", errContains: "invalid fs path"},
		{name: "missing", path: "glyphs/none.bgs", errContains: "failed to open glyph set"},
		{name: "directory", path: "glyphs/sub", errContains: "failed to open glyph set"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := LoadGlyphSetFS(fsys, tt.path)
			if tt.errContains != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errContains) {
					t.Fatalf("error = %v, want it to contain %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadGlyphSetFS() error: %v", err)
			}
			checkSmall(t, d)
		})
	}

	if _, err := LoadGlyphSetFS(nil, "glyphs/small.bgs"); err == nil {
		t.Error("nil filesystem should fail")
	}
}

func TestCleanFSPath(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "a.bgs", want: "a.bgs"},
		{in: "dir/a.bgs", want: "dir/a.bgs"},
		{in: "", wantErr: true},
		{in: "/a.bgs", wantErr: true},
		{in: `dir\a.bgs`, wantErr: true},
		{in: "dir/../a.bgs", wantErr: true},
		{in: ".", wantErr: true},
		{in: "dir//a.bgs", wantErr: true},
	}
	for _, tt := range tests {
		got, err := cleanFSPath(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("cleanFSPath(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("cleanFSPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadEmitsTraceEvents(t *testing.T) {
	session, sink := newTraceSession(t)

	if _, err := ParseGlyphSetBytes(zstded(t, encodedSmall(t)), WithDebug(session)); err != nil {
		t.Fatal(err)
	}
	loads := sink.find("load", "GlyphSet")
	if len(loads) != 1 {
		t.Fatalf("got %d load events, want 1", len(loads))
	}
	data, ok := loads[0].Data.(debug.GlyphSetLoadData)
	if !ok || data.Name != "small" || data.Container != "zstd" || data.Source != "bytes" {
		t.Errorf("load event = %+v", loads[0].Data)
	}

	if _, err := ParseGlyphSetBytes([]byte("nope"), WithDebug(session)); err == nil {
		t.Fatal("expected an error")
	}
	if len(sink.find("load", "Error")) != 1 {
		t.Error("parse failure should emit one load/Error event")
	}
}

func TestLoadedSetDraws(t *testing.T) {
	d, err := ParseGlyphSetBytes(encodedSmall(t))
	if err != nil {
		t.Fatal(err)
	}
	// The loaded copy of Small standing in for Regular draws exactly what
	// the built-in Small set draws.
	f, err := NewFonts().WithGlyphSet(RegularSet, d)
	if err != nil {
		t.Fatal(err)
	}
	got := newClearedFrame(t)
	c := NewCursor(0, 0, 0)
	if _, err := PaintStr(got, FullScreen(), &c, Regular, "abc", WithFonts(f)); err != nil {
		t.Fatal(err)
	}
	if h := got.Hash(0); h != 0x5DE65BFC {
		t.Errorf("hash = 0x%08X, want 0x5DE65BFC", h)
	}
}
