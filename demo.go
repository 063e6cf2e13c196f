package blitstr

// Demo text exercising every style, NFC and NFD clusters and emoji.
const (
	demoNote = "Hello, world! \u00E4a\u0308 \U0001F004\U0001F0CF\U0001F170\U0001F170\uFE0F\n"
	demoSAS1 = "\n   \U0001F34E       \U0001F3B8       \U0001F576        \U0001F34E\n"
	demoSAS2 = " apple  guitar  glasses  apple\n\n"
	demoSAS3 = "           \U0001F638     \U0001F3A9    \U0001F511\n"
	demoSAS4 = "           cat    hat    key\n\n"
	demoWrap = "The quick brown fox jumps over the lazy dog. " +
		"Zw\u00F6lf Boxk\u00E4mpfer jagen Viktor quer \u00FCber den gro\u00DFen Sylter Deich.\n"
)

// DemoSampleText clears f and fills it with sample text in every style,
// finishing with a paragraph wrapped inside a narrower clip rectangle.
func DemoSampleText(f *Frame, opts ...Option) error {
	ClearRegion(f, FullScreen(), opts...)
	clip := PaddedScreen()
	c := CursorFromTopLeftOf(clip)
	for _, p := range []struct {
		style GlyphStyle
		text  string
	}{
		{Bold, demoNote},
		{Regular, demoNote},
		{Small, demoNote},
		{Regular, demoSAS1},
		{Regular, demoSAS2},
		{Regular, demoSAS3},
		{Regular, demoSAS4},
		{Regular, demoWrap},
	} {
		if _, err := PaintStr(f, clip, &c, p.style, p.text, opts...); err != nil {
			return err
		}
	}

	c = NewCursor(c.Pt.X, c.Pt.Y, c.LineHeight)
	clip.Min.Y = c.Pt.Y + 12
	clip.Max.Y -= 8
	clip.Min.X += 30
	clip.Max.X -= 40
	// Corners given in the wrong order are swapped back.
	clip = NewClipRect(clip.Max.X, clip.Min.Y, clip.Min.X, clip.Max.Y)
	_, err := PaintStr(f, clip, &c, Small, demoWrap, opts...)
	return err
}

// DemoShortGreeting clears f and greets the world and a cat in Regular.
func DemoShortGreeting(f *Frame, opts ...Option) error {
	ClearRegion(f, FullScreen(), opts...)
	clip := PaddedScreen()
	c := CursorFromTopLeftOf(clip)
	for _, s := range []string{"Hello, world!\n", "Hello, \U0001F638!\n"} {
		if _, err := PaintStr(f, clip, &c, Regular, s, opts...); err != nil {
			return err
		}
	}
	return nil
}
