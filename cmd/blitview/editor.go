package main

import (
	"github.com/rivo/uniseg"

	"github.com/ryanlewis/blitstr"
)

// editor is a single text buffer painted into a frame with an insertion
// caret. The caret is a byte offset that always sits on a grapheme
// cluster boundary.
type editor struct {
	text  string
	caret int
	style blitstr.GlyphStyle
	clip  blitstr.ClipRect
	opts  []blitstr.Option

	frame *blitstr.Frame
	stale bool
}

func newEditor(text string, style blitstr.GlyphStyle, clip blitstr.ClipRect, opts ...blitstr.Option) *editor {
	return &editor{
		text:  text,
		caret: len(text),
		style: style,
		clip:  clip,
		opts:  opts,
		frame: blitstr.NewFrame(),
		stale: true,
	}
}

func (e *editor) Text() string { return e.text }

// Insert adds s at the caret and moves the caret past it.
func (e *editor) Insert(s string) {
	if s == "" {
		return
	}
	e.text = e.text[:e.caret] + s + e.text[e.caret:]
	e.caret += len(s)
	e.stale = true
}

// Backspace removes the cluster before the caret.
func (e *editor) Backspace() {
	prev := e.prevBoundary()
	if prev == e.caret {
		return
	}
	e.text = e.text[:prev] + e.text[e.caret:]
	e.caret = prev
	e.stale = true
}

// Delete removes the cluster after the caret.
func (e *editor) Delete() {
	next := e.nextBoundary()
	if next == e.caret {
		return
	}
	e.text = e.text[:e.caret] + e.text[next:]
	e.stale = true
}

func (e *editor) Left() { e.moveTo(e.prevBoundary()) }

func (e *editor) Right() { e.moveTo(e.nextBoundary()) }

func (e *editor) Home() { e.moveTo(0) }

func (e *editor) End() { e.moveTo(len(e.text)) }

func (e *editor) moveTo(off int) {
	if off != e.caret {
		e.caret = off
		e.stale = true
	}
}

// CycleStyle switches to the next glyph style: Small, Regular, Bold.
func (e *editor) CycleStyle() {
	e.style = blitstr.StyleFromInt((int(e.style) + 1) % 3)
	e.stale = true
}

func (e *editor) prevBoundary() int {
	prev, off := 0, 0
	rest := e.text[:e.caret]
	state := -1
	for len(rest) > 0 {
		prev = off
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		off += len(cluster)
	}
	return prev
}

func (e *editor) nextBoundary() int {
	if e.caret >= len(e.text) {
		return e.caret
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(e.text[e.caret:], -1)
	return e.caret + len(cluster)
}

// caretClusters converts the caret offset into the cluster count the
// renderer places the caret after. Measuring the prefix keeps the two
// in step when a glyph covers fewer bytes than a grapheme cluster.
func (e *editor) caretClusters() (int, error) {
	c := blitstr.CursorFromTopLeftOf(e.clip)
	res, err := blitstr.Measure(e.clip, &c, e.style, e.text[:e.caret], e.opts...)
	if err != nil {
		return 0, err
	}
	return res.Clusters, nil
}

// Render repaints the frame if the text, caret or style changed since the
// last call. It reports whether the frame was repainted.
func (e *editor) Render() (bool, error) {
	if !e.stale {
		return false, nil
	}
	n, err := e.caretClusters()
	if err != nil {
		return false, err
	}
	blitstr.ClearRegion(e.frame, blitstr.FullScreen(), e.opts...)
	c := blitstr.CursorFromTopLeftOf(e.clip)
	opts := append(e.opts[:len(e.opts):len(e.opts)], blitstr.WithCaret(n))
	if _, err := blitstr.PaintStr(e.frame, e.clip, &c, e.style, e.text, opts...); err != nil {
		return false, err
	}
	e.stale = false
	return true, nil
}

func (e *editor) Frame() *blitstr.Frame { return e.frame }
