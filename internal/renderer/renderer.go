// Package renderer lays out UTF-8 text inside a clip rectangle and blits
// the resolved glyphs into a word-packed surface.
package renderer

import (
	"time"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/ryanlewis/blitstr/internal/blit"
	"github.com/ryanlewis/blitstr/internal/common"
	"github.com/ryanlewis/blitstr/internal/debug"
	"github.com/ryanlewis/blitstr/internal/fonts"
)

const replacement = string(common.ReplacementChar)

// Paint draws text at cursor c, clipped and wrapped to clip, and leaves c
// where the next glyph would go. A clip that is empty or not inside the
// surface makes Paint a no-op. Glyphs are looked up in the Emoji set, then
// in the Latin set of style, then in the Hanzi set; clusters none of them
// can draw become U+FFFD.
func Paint(s blit.Surface, reg *fonts.Registry, clip common.ClipRect, c *common.Cursor,
	style common.GlyphStyle, text string, opts *Options) Result {
	if opts == nil {
		opts = &Options{}
	}
	if c == nil || !clip.Within(s.Width, s.Lines) {
		return Result{}
	}
	st := paintState{
		surf:  s,
		reg:   reg,
		clip:  clip,
		c:     c,
		style: style,
		latin: fonts.LatinSet(style),
		opts:  opts,
		dbg:   opts.Debug,
	}

	var start time.Time
	if st.dbg != nil {
		start = time.Now()
		flags := opts.Flags
		if opts.HasCaret {
			flags |= 1 << 4
		}
		st.dbg.Emit("paint", "Start", debug.PaintStartData{
			Text:    text,
			Bytes:   len(text),
			Style:   style.String(),
			Clip:    clip.String(),
			Cursor:  c.Pt.String(),
			Flags:   debug.FormatPaintFlags(flags),
			Measure: opts.Measure,
		})
	}

	caretPending := opts.HasCaret
	rest := text
	// Every step consumes at least one byte, so len(text) steps suffice.
	for step := 0; step < len(text) && len(rest) > 0 && !st.done; step++ {
		if caretPending && st.res.Clusters >= opts.Caret {
			st.caret()
			caretPending = false
		}
		if rest[0] == '\n' {
			st.newline("newline")
			rest = rest[1:]
			st.res.Clusters++
			continue
		}
		cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(rest, -1)
		n := st.resolveAndPlace(cluster)
		rest = rest[n:]
		st.res.Clusters++
	}
	if caretPending && !st.done {
		st.caret()
	}
	st.res.Done = st.done

	if st.dbg != nil {
		st.dbg.Emit("paint", "End", debug.PaintEndData{
			Clusters:    st.res.Clusters,
			Glyphs:      st.res.Glyphs,
			Fallbacks:   st.res.Fallbacks,
			Lines:       st.res.Lines,
			RowsWritten: st.res.RowsWritten,
			Cursor:      c.Pt.String(),
			Truncated:   st.res.Truncated,
			ElapsedUs:   time.Since(start).Microseconds(),
		})
	}
	return st.res
}

// HeightHint returns the line height text of style occupies in reg.
func HeightHint(reg *fonts.Registry, style common.GlyphStyle) int {
	if h := reg.MaxHeight(fonts.LatinSet(style)); h > 0 {
		return h
	}
	return common.MinLineHeight
}

// resolveAndPlace draws the glyph for the leading cluster and returns the
// number of bytes of the cluster it consumed.
func (st *paintState) resolveAndPlace(cluster string) int {
	for _, set := range [3]fonts.GlyphSet{fonts.Emoji, st.latin, fonts.Hanzi} {
		h, n, err := st.reg.Resolve(set, cluster)
		if err != nil {
			continue
		}
		hdr, err := st.reg.Header(h)
		if err != nil {
			continue
		}
		if st.dbg != nil {
			st.dbg.Emit(phaseScanning, "Resolve", debug.ResolveData{
				Index:   st.res.Clusters,
				Cluster: cluster[:n],
				Set:     set.String(),
				Offset:  h.Offset,
				Bytes:   n,
				Width:   hdr.W,
				Height:  hdr.H,
				YOffset: hdr.YOffset,
			})
		}
		st.place(h, hdr)
		return n
	}

	// No set can draw the cluster: draw U+FFFD for its first codepoint.
	st.res.Fallbacks++
	h, _, err := st.reg.Resolve(st.latin, replacement)
	var hdr fonts.Header
	if err == nil {
		hdr, err = st.reg.Header(h)
	}
	if st.dbg != nil {
		st.dbg.Emit(phaseFallback, "Fallback", debug.FallbackData{
			Index:       st.res.Clusters,
			Cluster:     cluster,
			Replacement: err == nil,
		})
	}
	if err == nil {
		st.place(h, hdr)
	}
	_, size := utf8.DecodeRuneInString(cluster)
	return size
}

// place positions one glyph, wrapping first when it does not fit the rest
// of the line, and advances the cursor.
func (st *paintState) place(h fonts.Handle, hdr fonts.Header) {
	c := st.c
	if c.Pt.X < st.clip.Min.X {
		c.Pt.X = st.clip.Min.X
	}
	x0 := c.Pt.X + common.PadLeft
	if x0+hdr.W+common.PadRight >= st.clip.Max.X {
		if st.opts.Ellipsis {
			st.ellipsis()
			return
		}
		st.newline("width")
		x0 = c.Pt.X + common.PadLeft
	}
	y0 := c.Pt.Y + hdr.YOffset
	if !st.opts.Measure {
		src, base, ok := st.reg.Source(h)
		if ok {
			rows := blit.Glyph(st.surf, st.clip, x0, y0, blit.Pattern{W: hdr.W, H: hdr.H, Src: src, Base: base}, st.opts.Op)
			st.res.RowsWritten += rows
			if st.dbg != nil {
				st.dbg.Emit(phaseScanning, "Blit", debug.BlitData{X: x0, Y: y0, W: hdr.W, H: hdr.H, Rows: rows})
			}
		}
	}
	st.res.Glyphs++
	c.Pt.X += hdr.W + common.Advance
	if mh := st.reg.MaxHeight(h.Set); mh > c.LineHeight {
		c.LineHeight = mh
	}
}

// newline moves the cursor to the start of the next line.
func (st *paintState) newline(reason string) {
	c := st.c
	fromY := c.Pt.Y
	c.Pt.X = st.clip.Min.X
	if c.LineHeight < common.MinLineHeight {
		c.LineHeight = common.MinLineHeight
	}
	c.Pt.Y += c.LineHeight + 1
	if st.dbg != nil {
		st.dbg.Emit(phaseBreak, "Wrap", debug.WrapData{Reason: reason, FromY: fromY, ToY: c.Pt.Y, Height: c.LineHeight})
	}
	c.LineHeight = 0
	st.res.Lines++
}

// lineHeight is the height the caret and ellipsis span on the current line.
func (st *paintState) lineHeight() int {
	return max(st.c.LineHeight, HeightHint(st.reg, st.style))
}

// caret draws a 1px stroke at the cursor.
func (st *paintState) caret() {
	c := st.c
	x := max(c.Pt.X, st.clip.Min.X)
	top := c.Pt.Y + 1
	bottom := c.Pt.Y + st.lineHeight() - 1
	if st.dbg != nil {
		st.dbg.Emit(phaseScanning, "Caret", debug.CaretData{X: x, Top: top, Bottom: bottom})
	}
	if st.opts.Measure {
		return
	}
	st.res.RowsWritten += blit.Caret(st.surf, st.clip, x, top, bottom, blit.Op{Dirty: st.opts.Op.Dirty})
}

// ellipsis clears the end of the current line, marks it with three dots
// and stops layout.
func (st *paintState) ellipsis() {
	c := st.c
	h := st.lineHeight()
	ex := min(c.Pt.X, st.clip.Max.X-blit.EllipsisWidth)
	if ex < st.clip.Min.X {
		ex = st.clip.Min.X
	}
	if st.dbg != nil {
		st.dbg.Emit(phaseDone, "Ellipsis", debug.EllipsisData{X: ex, Y: c.Pt.Y, Index: st.res.Clusters})
	}
	if !st.opts.Measure {
		region := common.NewClipRect(ex, max(c.Pt.Y, st.clip.Min.Y), st.clip.Max.X, min(c.Pt.Y+h, st.clip.Max.Y))
		if !region.Empty() {
			rows := blit.ClearRegion(st.surf, region, blit.Op{Dirty: st.opts.Op.Dirty})
			st.res.RowsWritten += rows
			if st.dbg != nil {
				st.dbg.Emit(phaseDone, "Clear", debug.ClearData{Clip: region.String(), Rows: rows})
			}
		}
		blit.Dots(st.surf, st.clip, ex+1, c.Pt.Y+h-4, st.opts.Op)
	}
	c.Pt.X = st.clip.Max.X
	st.res.Truncated = true
	st.done = true
}

