// Package goldens reads and writes testdata/goldens.yaml, the recorded
// whole-frame hashes of reference paints.
package goldens

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ryanlewis/blitstr"
)

// File is the top level of a golden file.
type File struct {
	Generated string `yaml:"generated,omitempty"`
	Generator string `yaml:"generator,omitempty"`
	// Seed is the murmur3 seed of every hash in the file
	Seed  uint32 `yaml:"seed"`
	Cases []Case `yaml:"cases"`
}

// Case is one reference paint: the frame is cleared, then every string of
// Text is painted in turn with a shared cursor.
type Case struct {
	Name  string   `yaml:"name"`
	Style string   `yaml:"style,omitempty"` // default small
	Text  []string `yaml:"text"`
	// Clip is "full", "padded" or empty when Rect is given
	Clip   string `yaml:"clip,omitempty"`
	Rect   []int  `yaml:"rect,omitempty,flow"`
	Cursor []int  `yaml:"cursor,omitempty,flow"` // default: top left of the clip
	Flags  string `yaml:"flags,omitempty"`
	Caret  *int   `yaml:"caret,omitempty"`

	Hash        string `yaml:"hash"`
	CursorAfter []int  `yaml:"cursor_after,flow"`
}

// Load reads a golden file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read golden file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse golden file %s: %w", path, err)
	}
	return &f, nil
}

// Write encodes f as YAML.
func Write(w io.Writer, f *File) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return err
	}
	return enc.Close()
}

// ClipRect resolves the case's clip rectangle.
func (c *Case) ClipRect() (blitstr.ClipRect, error) {
	if len(c.Rect) > 0 {
		if len(c.Rect) != 4 {
			return blitstr.ClipRect{}, fmt.Errorf("%s: rect needs 4 values, got %d", c.Name, len(c.Rect))
		}
		return blitstr.NewClipRect(c.Rect[0], c.Rect[1], c.Rect[2], c.Rect[3]), nil
	}
	switch c.Clip {
	case "", "full":
		return blitstr.FullScreen(), nil
	case "padded":
		return blitstr.PaddedScreen(), nil
	}
	return blitstr.ClipRect{}, fmt.Errorf("%s: unknown clip %q", c.Name, c.Clip)
}

// Start returns the cursor the first paint starts from.
func (c *Case) Start(clip blitstr.ClipRect) (blitstr.Cursor, error) {
	return cursor(c.Name, c.Cursor, blitstr.CursorFromTopLeftOf(clip))
}

// WantCursor returns the recorded cursor after the last paint.
func (c *Case) WantCursor() (blitstr.Cursor, error) {
	return cursor(c.Name, c.CursorAfter, blitstr.Cursor{})
}

func cursor(name string, v []int, def blitstr.Cursor) (blitstr.Cursor, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return blitstr.NewCursor(v[0], v[1], v[2]), nil
	}
	return blitstr.Cursor{}, fmt.Errorf("%s: cursor needs 3 values, got %d", name, len(v))
}

// WantHash returns the recorded hash.
func (c *Case) WantHash() (uint32, error) {
	h, err := strconv.ParseUint(strings.TrimPrefix(c.Hash, "0x"), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%s: bad hash %q: %w", c.Name, c.Hash, err)
	}
	return uint32(h), nil
}

// Options converts the case's flags and caret into paint options.
func (c *Case) Options() ([]blitstr.Option, error) {
	flags, err := blitstr.ParseFlags(c.Flags)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Name, err)
	}
	opts := []blitstr.Option{blitstr.WithFlags(flags)}
	if c.Caret != nil {
		opts = append(opts, blitstr.WithCaret(*c.Caret))
	}
	return opts, nil
}

// Render clears a default frame and paints the case into it, returning
// the frame and the final cursor.
func (c *Case) Render(extra ...blitstr.Option) (*blitstr.Frame, blitstr.Cursor, error) {
	if len(c.Text) == 0 {
		return nil, blitstr.Cursor{}, errors.New(c.Name + ": no text")
	}
	style := blitstr.Small
	if c.Style != "" {
		s, err := blitstr.ParseGlyphStyle(c.Style)
		if err != nil {
			return nil, blitstr.Cursor{}, err
		}
		style = s
	}
	clip, err := c.ClipRect()
	if err != nil {
		return nil, blitstr.Cursor{}, err
	}
	cur, err := c.Start(clip)
	if err != nil {
		return nil, blitstr.Cursor{}, err
	}
	opts, err := c.Options()
	if err != nil {
		return nil, blitstr.Cursor{}, err
	}
	opts = append(opts, extra...)

	f := blitstr.NewFrame()
	blitstr.ClearRegion(f, blitstr.FullScreen())
	for _, s := range c.Text {
		if _, err := blitstr.PaintStr(f, clip, &cur, style, s, opts...); err != nil {
			return nil, blitstr.Cursor{}, fmt.Errorf("%s: %w", c.Name, err)
		}
	}
	return f, cur, nil
}

// Record renders the case and stores its hash and final cursor.
func (c *Case) Record(seed uint32) error {
	f, cur, err := c.Render()
	if err != nil {
		return err
	}
	c.Hash = fmt.Sprintf("0x%08X", f.Hash(seed))
	c.CursorAfter = []int{cur.Pt.X, cur.Pt.Y, cur.LineHeight}
	return nil
}
