package fontpack

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/ryanlewis/blitstr/internal/common"
	"github.com/ryanlewis/blitstr/internal/fonts"
	"github.com/ryanlewis/blitstr/internal/parser"
)

// Encode writes s as a glyph-set file. Multi-line comments are split into
// one comment line each.
func Encode(w io.Writer, s *fonts.Store, comments []string) error {
	if s == nil || s.Data == nil {
		return fmt.Errorf("%w: nothing to encode", common.ErrBadFormat)
	}
	if s.Name == "" || strings.ContainsFunc(s.Name, unicode.IsSpace) {
		return fmt.Errorf("%w: glyph set name %q must be one word", common.ErrBadFormat, s.Name)
	}
	var lines []string
	for _, c := range comments {
		lines = append(lines, strings.Split(c, "\n")...)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s %s %d %08X %d %d %d\n",
		parser.Magic, s.Name, s.MaxHeight, s.Seed, len(s.Buckets), s.Data.Len(), len(lines))
	for _, c := range lines {
		bw.WriteString(strings.TrimRight(c, "\r"))
		bw.WriteByte('\n')
	}

	for _, b := range s.Buckets {
		limits := make([]string, len(b.Limits))
		for i, l := range b.Limits {
			limits[i] = strconv.Itoa(l)
		}
		fmt.Fprintf(bw, "bucket %04X %04X %s %d\n", b.Low, b.High, strings.Join(limits, ","), len(b.Keys))
		for i, k := range b.Keys {
			fmt.Fprintf(bw, "%08X %d\n", k, b.Offsets[i])
		}
	}

	n := s.Data.Len()
	for i := 0; i < n; i++ {
		word, ok := s.Data.Word(i)
		if !ok {
			return fmt.Errorf("%w: %s: data word %d unreadable", common.ErrBadFormat, s.Name, i)
		}
		sep := byte(' ')
		if i%parser.WordsPerLine == parser.WordsPerLine-1 || i == n-1 {
			sep = '\n'
		}
		fmt.Fprintf(bw, "%08x", word)
		bw.WriteByte(sep)
	}
	return bw.Flush()
}
