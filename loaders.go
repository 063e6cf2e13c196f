package blitstr

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"

	"github.com/ryanlewis/blitstr/internal/debug"
	"github.com/ryanlewis/blitstr/internal/parser"
)

// maxGlyphSetSize bounds the decompressed size of a glyph-set file.
const maxGlyphSetSize = 64 << 20

var (
	zipMagic  = []byte("PK\x03\x04")
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
)

// ParseGlyphSet reads a glyph-set file from r. The file may be plain text,
// a zip archive (its first file is used) or zstd compressed.
func ParseGlyphSet(r io.Reader, opts ...Option) (*GlyphSetData, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxGlyphSetSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read glyph set: %w", err)
	}
	return parseGlyphSet(data, "reader", opts)
}

// ParseGlyphSetBytes parses a glyph-set file held in memory.
func ParseGlyphSetBytes(data []byte, opts ...Option) (*GlyphSetData, error) {
	return parseGlyphSet(data, "bytes", opts)
}

// LoadGlyphSet reads a glyph-set file from disk.
func LoadGlyphSet(filePath string, opts ...Option) (*GlyphSetData, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open glyph set: %w", err)
	}
	d, err := parseGlyphSet(data, filePath, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse glyph set %s: %w", filePath, err)
	}
	return d, nil
}

// cleanFSPath validates and cleans a path for use with fs.FS.
// It ensures the path is valid according to fs.ValidPath rules and
// prevents directory traversal attacks.
func cleanFSPath(p string) (string, error) {
	if p == "" {
		return "", errors.New("path cannot be empty")
	}
	// fs.FS disallows leading slash and uses '/' only
	if strings.HasPrefix(p, "/") {
		return "", errors.New("absolute paths not allowed")
	}
	if strings.ContainsRune(p, '\\') {
		return "", errors.New("backslashes not allowed in fs paths")
	}
	if !fs.ValidPath(p) {
		return "", fmt.Errorf("invalid fs path: %s", p)
	}
	clean := path.Clean(p)
	if clean == "." || strings.HasPrefix(clean, "../") {
		return "", errors.New("path traversal not allowed")
	}
	return clean, nil
}

// LoadGlyphSetFS reads a glyph-set file from a filesystem, such as an
// embed.FS:
//
//	//go:embed glyphs/*.bgs
//	var glyphs embed.FS
//
//	emoji, err := blitstr.LoadGlyphSetFS(glyphs, "glyphs/emoji.bgs")
func LoadGlyphSetFS(fsys fs.FS, filePath string, opts ...Option) (*GlyphSetData, error) {
	if fsys == nil {
		return nil, errors.New("filesystem cannot be nil")
	}
	clean, err := cleanFSPath(filePath)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(fsys, clean)
	if err != nil {
		return nil, fmt.Errorf("failed to open glyph set: %w", err)
	}
	d, err := parseGlyphSet(data, clean, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse glyph set %s: %w", clean, err)
	}
	return d, nil
}

func parseGlyphSet(data []byte, source string, opts []Option) (*GlyphSetData, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if len(data) > maxGlyphSetSize {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrBadFormat, maxGlyphSetSize)
	}

	container := "plain"
	var err error
	switch {
	case bytes.HasPrefix(data, zipMagic):
		container = "zip"
		data, err = unzipFirst(data)
	case bytes.HasPrefix(data, zstdMagic):
		container = "zstd"
		data, err = unzstd(data)
	}
	if err != nil {
		o.emitError(err, source)
		return nil, err
	}

	f, err := parser.Parse(bytes.NewReader(data))
	if err != nil {
		o.emitError(err, source)
		return nil, err
	}
	o.session.Emit("load", "GlyphSet", debug.GlyphSetLoadData{
		Name:      f.Store.Name,
		Source:    source,
		Container: container,
		Bytes:     len(data),
	})
	return &GlyphSetData{store: f.Store, comments: f.Comments}, nil
}

// unzipFirst returns the contents of the first file in a zip archive,
// skipping directory entries.
func unzipFirst(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: zip: %w", ErrBadFormat, err)
	}
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: zip entry %s: %w", ErrBadFormat, zf.Name, err)
		}
		defer rc.Close()
		out, err := io.ReadAll(io.LimitReader(rc, maxGlyphSetSize+1))
		if err != nil {
			return nil, fmt.Errorf("%w: zip entry %s: %w", ErrBadFormat, zf.Name, err)
		}
		if len(out) > maxGlyphSetSize {
			return nil, fmt.Errorf("%w: zip entry %s larger than %d bytes", ErrBadFormat, zf.Name, maxGlyphSetSize)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: zip archive is empty", ErrBadFormat)
}

func unzstd(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxGlyphSetSize))
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %w", ErrBadFormat, err)
	}
	return out, nil
}

func (o *options) emitError(err error, source string) {
	o.session.Emit("load", "Error", debug.ErrorData{
		Type:    "load",
		Message: err.Error(),
		Context: map[string]any{"source": source},
	})
}
