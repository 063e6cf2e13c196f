package fontpack

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ryanlewis/blitstr/internal/common"
	"github.com/ryanlewis/blitstr/internal/fonts"
	"github.com/ryanlewis/blitstr/internal/m3hash"
)

const fontsImport = "github.com/ryanlewis/blitstr/internal/fonts"

// GoSource writes s as a Go file declaring <varName>Store and its packed
// <varName>Data array. Outside package fonts the table refers to the fonts
// package by name. labels is optional and annotates keys and data with
// the clusters they stand for.
func GoSource(w io.Writer, pkg, varName string, s *fonts.Store, comments []string, labels Labels) error {
	if s == nil || s.Data == nil {
		return fmt.Errorf("%w: nothing to emit", common.ErrBadFormat)
	}
	q := "fonts."
	if pkg == "fonts" {
		q = ""
	}
	title := cases.Title(language.English).String(s.Name)

	bw := bufio.NewWriter(w)
	bw.WriteString("// Code generated by fontgen; DO NOT EDIT.\n")
	if len(comments) > 0 {
		bw.WriteString("//\n")
		for _, c := range comments {
			for _, line := range strings.Split(c, "\n") {
				writeComment(bw, line)
			}
		}
	}
	fmt.Fprintf(bw, "\npackage %s\n\n", pkg)
	if q != "" {
		fmt.Fprintf(bw, "import %q\n\n", fontsImport)
	}

	fmt.Fprintf(bw, "// %sStore is the %s glyph set. Every pattern satisfies\n// h + yOffset <= MaxHeight.\n", varName, title)
	fmt.Fprintf(bw, "var %sStore = &%sStore{\n", varName, q)
	fmt.Fprintf(bw, "\tName:      %q,\n", s.Name)
	fmt.Fprintf(bw, "\tMaxHeight: %d,\n", s.MaxHeight)
	fmt.Fprintf(bw, "\tSeed:      0x%08X,\n", s.Seed)
	fmt.Fprintf(bw, "\tBuckets: []%sBucket{\n", q)
	for _, b := range s.Buckets {
		writeBucket(bw, s.Seed, b, labels)
	}
	bw.WriteString("\t},\n")
	fmt.Fprintf(bw, "\tData: %sWords(%sData[:]),\n}\n\n", q, varName)

	n := s.Data.Len()
	fmt.Fprintf(bw, "// %sData holds the packed glyph patterns of the %s glyph set.\n", varName, title)
	fmt.Fprintf(bw, "var %sData = [%d]uint32{\n", varName, n)
	var line []string
	flush := func() {
		if len(line) > 0 {
			fmt.Fprintf(bw, "\t%s,\n", strings.Join(line, ", "))
			line = line[:0]
		}
	}
	for i := 0; i < n; i++ {
		if names := labels[uint32(i)]; len(names) > 0 {
			flush()
			fmt.Fprintf(bw, "\t// [%d]: %s %q\n", i, codepoints(names[0]), names[0])
		}
		word, ok := s.Data.Word(i)
		if !ok {
			return fmt.Errorf("%w: %s: data word %d unreadable", common.ErrBadFormat, s.Name, i)
		}
		line = append(line, fmt.Sprintf("0x%08x", word))
		if len(line) == 8 {
			flush()
		}
	}
	flush()
	bw.WriteString("}\n")
	return bw.Flush()
}

func writeComment(bw *bufio.Writer, line string) {
	if line == "" {
		bw.WriteString("//\n")
		return
	}
	fmt.Fprintf(bw, "// %s\n", line)
}

func writeBucket(bw *bufio.Writer, seed uint32, b fonts.Bucket, labels Labels) {
	if name := BlockName(b); name != "" {
		fmt.Fprintf(bw, "\t\t{ // %s\n", name)
	} else {
		bw.WriteString("\t\t{\n")
	}
	fmt.Fprintf(bw, "\t\t\tLow:    0x%04X,\n", b.Low)
	fmt.Fprintf(bw, "\t\t\tHigh:   0x%04X,\n", b.High)
	limits := make([]string, len(b.Limits))
	for i, l := range b.Limits {
		limits[i] = fmt.Sprint(l)
	}
	fmt.Fprintf(bw, "\t\t\tLimits: []int{%s},\n", strings.Join(limits, ", "))

	notes := make([]string, len(b.Keys))
	for i, k := range b.Keys {
		notes[i] = keyLabel(seed, k, labels[b.Offsets[i]])
	}
	bw.WriteString("\t\t\tKeys: []uint32{\n")
	for i, k := range b.Keys {
		writeEntry(bw, fmt.Sprintf("0x%08X,", k), 0, notes[i])
	}
	bw.WriteString("\t\t\t},\n\t\t\tOffsets: []uint32{\n")
	width := 0
	for _, off := range b.Offsets {
		width = max(width, len(fmt.Sprint(off))+1)
	}
	for i, off := range b.Offsets {
		writeEntry(bw, fmt.Sprintf("%d,", off), width, notes[i])
	}
	bw.WriteString("\t\t\t},\n\t\t},\n")
}

func writeEntry(bw *bufio.Writer, value string, width int, note string) {
	if note == "" {
		fmt.Fprintf(bw, "\t\t\t\t%s\n", value)
		return
	}
	fmt.Fprintf(bw, "\t\t\t\t%-*s // %s\n", width, value, note)
}

// keyLabel finds which of the clusters stored at an offset hashes to key.
func keyLabel(seed, key uint32, names []string) string {
	for _, name := range names {
		if k, _ := m3hash.Cluster(name, seed, utf8.RuneCountInString(name)); k == key {
			if utf8.RuneCountInString(name) > 1 {
				return fmt.Sprintf("%q %s", name, codepoints(name))
			}
			return fmt.Sprintf("%q", name)
		}
	}
	return ""
}

// codepoints renders a cluster as hex codepoints joined by '-'.
func codepoints(s string) string {
	parts := make([]string, 0, len(s))
	for _, r := range s {
		parts = append(parts, fmt.Sprintf("%X", r))
	}
	return strings.Join(parts, "-")
}
