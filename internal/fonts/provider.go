package fonts

import (
	"encoding/binary"
	"io"
)

// Provider exposes the packed words of a glyph set. Word reports false for
// any index it cannot serve; it must not panic.
type Provider interface {
	Word(n int) (uint32, bool)
	Len() int
}

// Words is a Provider backed by an in-memory word slice.
type Words []uint32

// Word implements Provider.
func (w Words) Word(n int) (uint32, bool) {
	if n < 0 || n >= len(w) {
		return 0, false
	}
	return w[n], true
}

// Len implements Provider.
func (w Words) Len() int { return len(w) }

// ProviderFunc adapts a function and a word count to a Provider, for data
// that lives behind a caller-managed mapping.
type ProviderFunc struct {
	N  int
	Fn func(n int) (uint32, bool)
}

// Word implements Provider.
func (p ProviderFunc) Word(n int) (uint32, bool) {
	if p.Fn == nil || n < 0 || n >= p.N {
		return 0, false
	}
	return p.Fn(n)
}

// Len implements Provider.
func (p ProviderFunc) Len() int { return p.N }

// ReaderAtProvider reads little-endian words through an io.ReaderAt,
// starting at byte Base. Reads that come up short report false.
type ReaderAtProvider struct {
	R    io.ReaderAt
	Base int64
	N    int
}

// Word implements Provider.
func (p ReaderAtProvider) Word(n int) (uint32, bool) {
	if p.R == nil || n < 0 || n >= p.N {
		return 0, false
	}
	var buf [4]byte
	if _, err := p.R.ReadAt(buf[:], p.Base+int64(n)*4); err != nil {
		return 0, false
	}
	return binary.LittleEndian.Uint32(buf[:]), true
}

// Len implements Provider.
func (p ReaderAtProvider) Len() int { return p.N }

// Unmapped is the Provider of a glyph set with no data. Every read fails.
type Unmapped struct{}

// Word implements Provider.
func (Unmapped) Word(int) (uint32, bool) { return 0, false }

// Len implements Provider.
func (Unmapped) Len() int { return 0 }
