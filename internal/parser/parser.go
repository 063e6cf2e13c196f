// Package parser reads glyph-set files (the line-oriented "bgs1" format)
// into fonts.Store values.
//
// A file is a header line, comment lines, bucket index sections and the
// packed data words:
//
//	bgs1 <name> <max-height> <seed-hex> <bucket-count> <word-count> <comment-lines>
//	<comment lines>
//	bucket <low-hex> <high-hex> <limits> <entry-count>
//	<key-hex> <offset>
//	...
//	<up to 8 hex words per line>
//
// limits is a comma-separated list of cluster lengths in codepoints,
// longest first.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ryanlewis/blitstr/internal/common"
	"github.com/ryanlewis/blitstr/internal/fonts"
)

// Magic is the first field of every glyph-set file.
const Magic = "bgs1"

const (
	headerFields = 7
	// WordsPerLine is how many data words an encoder should put on a line.
	WordsPerLine = 8
	// maxCount bounds the counts a header may declare.
	maxCount = 1 << 24
	// maxPrealloc caps the capacity reserved from a declared count; the
	// rest grows as lines are actually read.
	maxPrealloc = 1024
)

// Header is the parsed first line of a glyph-set file.
type Header struct {
	Name         string
	MaxHeight    int
	Seed         uint32
	BucketCount  int
	WordCount    int
	CommentLines int
}

// File is a parsed glyph-set file.
type File struct {
	Header   Header
	Comments []string
	Store    *fonts.Store
}

// lineReader wraps a scanner and tracks line numbers for error messages.
type lineReader struct {
	sc   *bufio.Scanner
	line int
}

func (lr *lineReader) next() (string, error) {
	if !lr.sc.Scan() {
		if err := lr.sc.Err(); err != nil {
			return "", fmt.Errorf("%w: line %d: %w", common.ErrBadFormat, lr.line+1, err)
		}
		return "", fmt.Errorf("%w: line %d: %w", common.ErrBadFormat, lr.line+1, io.ErrUnexpectedEOF)
	}
	lr.line++
	return strings.TrimSuffix(lr.sc.Text(), "\r"), nil
}

func (lr *lineReader) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", common.ErrBadFormat, lr.line, fmt.Sprintf(format, args...))
}

// Parse reads a complete glyph-set file. Every error wraps
// common.ErrBadFormat.
func Parse(r io.Reader) (*File, error) {
	scanner, buf := createPooledScanner(r)
	defer releaseScannerBuffer(buf)
	lr := &lineReader{sc: scanner}

	hdr, err := parseHeader(lr)
	if err != nil {
		return nil, err
	}
	comments, err := readComments(lr, hdr.CommentLines)
	if err != nil {
		return nil, err
	}

	buckets := make([]fonts.Bucket, 0, prealloc(hdr.BucketCount))
	for i := 0; i < hdr.BucketCount; i++ {
		b, err := parseBucket(lr)
		if err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}

	data, err := parseWords(lr, hdr.WordCount)
	if err != nil {
		return nil, err
	}

	store := &fonts.Store{
		Name:      hdr.Name,
		MaxHeight: hdr.MaxHeight,
		Seed:      hdr.Seed,
		Buckets:   buckets,
		Data:      fonts.Words(data),
	}
	if err := store.Validate(); err != nil {
		return nil, err
	}
	return &File{Header: hdr, Comments: comments, Store: store}, nil
}

// ParseHeader reads only the header line.
func ParseHeader(r io.Reader) (Header, error) {
	scanner, buf := createPooledScanner(r)
	defer releaseScannerBuffer(buf)
	return parseHeader(&lineReader{sc: scanner})
}

func parseHeader(lr *lineReader) (Header, error) {
	line, err := lr.next()
	if err != nil {
		return Header{}, err
	}
	// Editors on some platforms prepend a UTF-8 BOM.
	line = strings.TrimPrefix(line, "\uFEFF")
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != Magic {
		return Header{}, lr.errorf("missing %q signature", Magic)
	}
	if len(fields) != headerFields {
		return Header{}, lr.errorf("header has %d fields, want %d", len(fields), headerFields)
	}

	var h Header
	h.Name = fields[1]
	if h.MaxHeight, err = parseCount(fields[2]); err != nil || h.MaxHeight == 0 {
		return Header{}, lr.errorf("invalid max height %q", fields[2])
	}
	if h.Seed, err = parseHex(fields[3]); err != nil {
		return Header{}, lr.errorf("invalid seed %q", fields[3])
	}
	if h.BucketCount, err = parseCount(fields[4]); err != nil {
		return Header{}, lr.errorf("invalid bucket count %q", fields[4])
	}
	if h.WordCount, err = parseCount(fields[5]); err != nil {
		return Header{}, lr.errorf("invalid word count %q", fields[5])
	}
	if h.CommentLines, err = parseCount(fields[6]); err != nil {
		return Header{}, lr.errorf("invalid comment line count %q", fields[6])
	}
	return h, nil
}

func readComments(lr *lineReader, n int) ([]string, error) {
	comments := make([]string, 0, prealloc(n))
	for i := 0; i < n; i++ {
		line, err := lr.next()
		if err != nil {
			return nil, err
		}
		comments = append(comments, line)
	}
	return comments, nil
}

func parseBucket(lr *lineReader) (fonts.Bucket, error) {
	line, err := lr.next()
	if err != nil {
		return fonts.Bucket{}, err
	}
	fields := strings.Fields(line)
	if len(fields) != 5 || fields[0] != "bucket" {
		return fonts.Bucket{}, lr.errorf("expected bucket line, got %q", line)
	}
	low, err := parseHex(fields[1])
	if err != nil {
		return fonts.Bucket{}, lr.errorf("invalid bucket low %q", fields[1])
	}
	high, err := parseHex(fields[2])
	if err != nil {
		return fonts.Bucket{}, lr.errorf("invalid bucket high %q", fields[2])
	}
	var limits []int
	for _, f := range strings.Split(fields[3], ",") {
		l, err := parseCount(f)
		if err != nil || l == 0 {
			return fonts.Bucket{}, lr.errorf("invalid limit %q", f)
		}
		limits = append(limits, l)
	}
	n, err := parseCount(fields[4])
	if err != nil {
		return fonts.Bucket{}, lr.errorf("invalid entry count %q", fields[4])
	}

	b := fonts.Bucket{
		Low:     rune(low),
		High:    rune(high),
		Limits:  limits,
		Keys:    make([]uint32, 0, prealloc(n)),
		Offsets: make([]uint32, 0, prealloc(n)),
	}
	for i := 0; i < n; i++ {
		line, err := lr.next()
		if err != nil {
			return fonts.Bucket{}, err
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return fonts.Bucket{}, lr.errorf("expected \"<key> <offset>\", got %q", line)
		}
		key, err := parseHex(fields[0])
		if err != nil {
			return fonts.Bucket{}, lr.errorf("invalid key %q", fields[0])
		}
		if len(b.Keys) > 0 && key <= b.Keys[len(b.Keys)-1] {
			return fonts.Bucket{}, lr.errorf("key %08X not greater than %08X", key, b.Keys[len(b.Keys)-1])
		}
		off, err := parseCount(fields[1])
		if err != nil {
			return fonts.Bucket{}, lr.errorf("invalid offset %q", fields[1])
		}
		b.Keys = append(b.Keys, key)
		b.Offsets = append(b.Offsets, uint32(off))
	}
	return b, nil
}

func parseWords(lr *lineReader, n int) ([]uint32, error) {
	words := make([]uint32, 0, prealloc(n))
	for len(words) < n {
		line, err := lr.next()
		if err != nil {
			return nil, err
		}
		for _, f := range strings.Fields(line) {
			if len(words) == n {
				return nil, lr.errorf("more than %d data words", n)
			}
			w, err := parseHex(f)
			if err != nil {
				return nil, lr.errorf("invalid data word %q", f)
			}
			words = append(words, w)
		}
	}
	return words, nil
}

func parseHex(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 32)
	return uint32(v), err
}

func prealloc(n int) int {
	return min(n, maxPrealloc)
}

func parseCount(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > maxCount {
		return 0, fmt.Errorf("count %d out of range", v)
	}
	return v, nil
}
