package blitstr

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ryanlewis/blitstr/internal/blit"
	"github.com/ryanlewis/blitstr/internal/common"
	"github.com/ryanlewis/blitstr/internal/m3hash"
)

// Frame is a word-packed 1bpp frame buffer. Pixel x of line y is bit x&31
// of word y*WordsPerLine + x>>5; a set bit is a light pixel.
//
// A Frame is not safe for concurrent use.
type Frame struct {
	words []uint32
	geom  Geometry
}

// FrBuf is the backing array of a default-geometry frame, for callers that
// want the buffer in static storage.
type FrBuf [FrameBufSize]uint32

// NewFrBuf returns a buffer filled with BlankWord.
func NewFrBuf() *FrBuf {
	b := new(FrBuf)
	for i := range b {
		b[i] = BlankWord
	}
	return b
}

// Frame wraps b without copying.
func (b *FrBuf) Frame() *Frame {
	return &Frame{words: b[:], geom: Screen}
}

// NewFrame returns a default-geometry frame filled with BlankWord.
func NewFrame() *Frame {
	return NewFrBuf().Frame()
}

// NewFrameWithGeometry allocates a frame of any geometry, filled with
// BlankWord.
func NewFrameWithGeometry(g Geometry) (*Frame, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	words := make([]uint32, g.Words())
	for i := range words {
		words[i] = BlankWord
	}
	return &Frame{words: words, geom: g}, nil
}

// WrapFrame uses words as the buffer of a frame of geometry g. The slice
// must hold exactly g.Words() words.
func WrapFrame(words []uint32, g Geometry) (*Frame, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if len(words) != g.Words() {
		return nil, fmt.Errorf("%w: %d words for a %dx%d frame of %d", ErrBadGeometry,
			len(words), g.Width, g.Lines, g.Words())
	}
	return &Frame{words: words, geom: g}, nil
}

// Words returns the frame's buffer without copying.
func (f *Frame) Words() []uint32 { return f.words }

// Geometry returns the frame's geometry.
func (f *Frame) Geometry() Geometry { return f.geom }

// Bounds returns the clip rectangle covering the whole frame.
func (f *Frame) Bounds() ClipRect { return common.FullFrame(f.geom) }

// Light reports whether the pixel at (x, y) is light. Pixels outside the
// frame are light.
func (f *Frame) Light(x, y int) bool {
	if x < 0 || y < 0 || x >= f.geom.Width || y >= f.geom.Lines {
		return true
	}
	return f.words[y*f.geom.WordsPerLine+(x>>5)]&(1<<(x&31)) != 0
}

// Dirty reports whether line y has its dirty bit set.
func (f *Frame) Dirty(y int) bool {
	if y < 0 || y >= f.geom.Lines {
		return false
	}
	return f.words[(y+1)*f.geom.WordsPerLine-1]&DirtyBit != 0
}

// Hash returns a murmur3 hash of every word of the frame, for comparing
// rendered output against recorded frames.
func (f *Frame) Hash(seed uint32) uint32 {
	return m3hash.FrameBuffer(f.words, seed)
}

// Image converts the visible pixels to grayscale: light pixels are white
// and ink is black.
func (f *Frame) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.geom.Width, f.geom.Lines))
	for y := 0; y < f.geom.Lines; y++ {
		for x := 0; x < f.geom.Width; x++ {
			if f.Light(x, y) {
				img.SetGray(x, y, color.Gray{Y: 0xff})
			}
		}
	}
	return img
}

func (f *Frame) surface() blit.Surface {
	return blit.NewSurface(f.words, f.geom)
}
