package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ryanlewis/blitstr"
)

func TestEditorEditing(t *testing.T) {
	e := newEditor("ab", blitstr.Small, blitstr.FullScreen())

	e.Insert("c")
	e.Left()
	e.Left()
	e.Insert("\u00E4")
	if got := e.Text(); got != "a\u00E4bc" {
		t.Fatalf("text = %q", got)
	}

	// A decomposed cluster moves and deletes as one.
	e.End()
	e.Insert("e\u0301")
	e.Left()
	if e.caret != len("a\u00E4bc") {
		t.Errorf("caret = %d after Left over a combining sequence", e.caret)
	}
	e.Delete()
	if got := e.Text(); got != "a\u00E4bc" {
		t.Errorf("text after Delete = %q", got)
	}

	e.Home()
	e.Backspace() // nothing before the caret
	e.Right()
	e.Right()
	e.Backspace()
	if got := e.Text(); got != "abc" {
		t.Errorf("text after Backspace = %q", got)
	}
	e.End()
	e.Delete() // nothing after the caret
	e.Right()
	if got := e.Text(); got != "abc" || e.caret != 3 {
		t.Errorf("text %q caret %d at the end", got, e.caret)
	}
}

func TestEditorRender(t *testing.T) {
	e := newEditor("abc", blitstr.Small, blitstr.FullScreen())
	painted, err := e.Render()
	if err != nil || !painted {
		t.Fatalf("first Render() = %v, %v", painted, err)
	}
	// A caret after the last cluster of a fresh line paints the same frame
	// as an explicit caret.
	f := blitstr.NewFrame()
	blitstr.ClearRegion(f, blitstr.FullScreen())
	c := blitstr.CursorFromTopLeftOf(blitstr.FullScreen())
	if _, err := blitstr.PaintStr(f, blitstr.FullScreen(), &c, blitstr.Small, "abc", blitstr.WithCaret(3)); err != nil {
		t.Fatal(err)
	}
	if got, want := e.Frame().Hash(0), f.Hash(0); got != want {
		t.Errorf("editor frame hash = 0x%08X, want 0x%08X", got, want)
	}

	if painted, _ := e.Render(); painted {
		t.Error("Render() repainted an unchanged editor")
	}

	e.Left()
	if painted, _ := e.Render(); !painted {
		t.Error("Render() skipped a caret move")
	}
	// The golden caret-after-two hash.
	if got := e.Frame().Hash(0); got != 0x33F3BE18 {
		t.Errorf("caret after two clusters: hash 0x%08X, want 0x33F3BE18", got)
	}
}

func TestEditorCaretClusters(t *testing.T) {
	e := newEditor("a\nbc", blitstr.Small, blitstr.FullScreen())
	n, err := e.caretClusters()
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("caretClusters() = %d, want 4", n)
	}
	e.Home()
	if n, _ := e.caretClusters(); n != 0 {
		t.Errorf("caretClusters() at start = %d", n)
	}
}

func TestEditorCycleStyle(t *testing.T) {
	e := newEditor("x", blitstr.Small, blitstr.PaddedScreen())
	for _, want := range []blitstr.GlyphStyle{blitstr.Regular, blitstr.Bold, blitstr.Small} {
		e.CycleStyle()
		if e.style != want {
			t.Errorf("style = %v, want %v", e.style, want)
		}
	}
}

func TestFillRGBA(t *testing.T) {
	f := blitstr.NewFrame()
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	fillRGBA(img, f)
	// A fresh frame word is 0xffff0000: dark in its low 16 pixels.
	if px := img.RGBAAt(0, 0); px.R != 0 || px.A != 0xff {
		t.Errorf("pixel (0,0) = %v, want black", px)
	}
	full := image.NewRGBA(image.Rect(0, 0, 336, 536))
	fillRGBA(full, f)
	if px := full.RGBAAt(16, 0); px.R != 0xff {
		t.Errorf("pixel (16,0) = %v, want white", px)
	}

	blitstr.ClearRegion(f, blitstr.FullScreen())
	c := blitstr.CursorFromTopLeftOf(blitstr.FullScreen())
	if _, err := blitstr.PaintStr(f, blitstr.FullScreen(), &c, blitstr.Small, "l"); err != nil {
		t.Fatal(err)
	}
	fillRGBA(full, f)
	ink := 0
	for y := 0; y < 536; y++ {
		for x := 0; x < 336; x++ {
			if full.RGBAAt(x, y).R == 0 {
				ink++
				if f.Light(x, y) {
					t.Fatalf("(%d,%d) black but light in the frame", x, y)
				}
			}
		}
	}
	if ink == 0 {
		t.Error("no ink copied")
	}
}

func TestRunSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "view.png")
	var stderr bytes.Buffer
	if code := run([]string{"-s", "small", "-c", "full", "--png", path, "abc"}, &stderr); code != 0 {
		t.Fatalf("exit code %d: %s", code, stderr.String())
	}
	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	img, err := png.Decode(file)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 336 || b.Dy() != 536 {
		t.Errorf("snapshot bounds = %v", b)
	}
}

func TestRunErrors(t *testing.T) {
	for _, args := range [][]string{
		{"-s", "italic"},
		{"-c", "1,2"},
		{"--nope"},
	} {
		var stderr bytes.Buffer
		if code := run(args, &stderr); code != 2 {
			t.Errorf("run(%q) = %d, want 2", args, code)
		}
	}
	var stderr bytes.Buffer
	if code := run([]string{"--emoji", "/nonexistent.bgs", "--png", "x.png"}, &stderr); code != 1 {
		t.Errorf("missing glyph set: exit code %d, want 1", code)
	}
}
