package debug

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Sink is the interface for debug output destinations.
type Sink interface {
	Write(event Event) error
	Flush() error
	Close() error
}

// JSONSink writes events in JSON Lines format.
type JSONSink struct {
	w       *bufio.Writer
	encoder *json.Encoder
}

// NewJSONSink creates a new JSON Lines sink writing to w.
func NewJSONSink(w io.Writer) *JSONSink {
	bw := bufio.NewWriter(w)
	return &JSONSink{
		w:       bw,
		encoder: json.NewEncoder(bw),
	}
}

// Write encodes and writes an event as a JSON line.
func (s *JSONSink) Write(event Event) error {
	return s.encoder.Encode(event)
}

// Flush writes any buffered data to the underlying writer.
func (s *JSONSink) Flush() error {
	return s.w.Flush()
}

// Close flushes the buffer.
func (s *JSONSink) Close() error {
	return s.Flush()
}

// PrettySink writes events in human-readable format.
type PrettySink struct {
	w *bufio.Writer
}

// NewPrettySink creates a new pretty-format sink writing to w.
func NewPrettySink(w io.Writer) *PrettySink {
	return &PrettySink{
		w: bufio.NewWriter(w),
	}
}

// Write formats and writes an event in human-readable format.
func (s *PrettySink) Write(event Event) error {
	fmt.Fprintf(s.w, "[%s] [%s/%s] session=%s\n", event.Timestamp, event.Phase, event.Event, event.SessionID)

	switch d := event.Data.(type) {
	case PaintStartData:
		s.writePaintStart(d)
	case PaintEndData:
		s.writePaintEnd(d)
	case ResolveData:
		fmt.Fprintf(s.w, "  #%d %s -> %s@%d (%d bytes) %dx%d+%d\n",
			d.Index, clusterStr(d.Cluster), d.Set, d.Offset, d.Bytes, d.Width, d.Height, d.YOffset)
	case FallbackData:
		fmt.Fprintf(s.w, "  #%d %s replacement=%t\n", d.Index, clusterStr(d.Cluster), d.Replacement)
	case WrapData:
		fmt.Fprintf(s.w, "  %s: y %d -> %d (line height %d)\n", d.Reason, d.FromY, d.ToY, d.Height)
	case BlitData:
		fmt.Fprintf(s.w, "  %dx%d at (%d,%d), rows=%d\n", d.W, d.H, d.X, d.Y, d.Rows)
	case ClearData:
		fmt.Fprintf(s.w, "  clip: %s, rows=%d\n", d.Clip, d.Rows)
	case CaretData:
		fmt.Fprintf(s.w, "  x=%d rows %d..%d\n", d.X, d.Top, d.Bottom)
	case EllipsisData:
		fmt.Fprintf(s.w, "  at (%d,%d) after cluster %d\n", d.X, d.Y, d.Index)
	case GlyphSetLoadData:
		fmt.Fprintf(s.w, "  %s from %s (%s, %d bytes)", d.Name, d.Source, d.Container, d.Bytes)
		if d.CacheHit {
			fmt.Fprint(s.w, " cached")
		}
		fmt.Fprintln(s.w)
	case BuildSourceData:
		fmt.Fprintf(s.w, "  source %d (%s): %d glyphs\n", d.Index, d.Kind, d.Added)
	case BuildStatsData:
		fmt.Fprintf(s.w, "  %s: seed=0x%08X buckets=%d entries=%d words=%d max_height=%d\n",
			d.Name, d.Seed, d.Buckets, d.Entries, d.Words, d.MaxHeight)
	case ErrorData:
		fmt.Fprintf(s.w, "  %s: %s\n", d.Type, d.Message)
		for _, k := range sortedKeys(d.Context) {
			fmt.Fprintf(s.w, "    %s: %v\n", k, d.Context[k])
		}
	case SessionStartData:
		fmt.Fprintf(s.w, "  version: %s\n", d.Version)
	case SessionEndData:
		fmt.Fprintf(s.w, "  elapsed: %dus\n", d.ElapsedUs)
	default:
		fmt.Fprintf(s.w, "  data: %+v\n", d)
	}

	return nil
}

func (s *PrettySink) writePaintStart(d PaintStartData) {
	verb := "paint"
	if d.Measure {
		verb = "measure"
	}
	fmt.Fprintf(s.w, "  %s %q (%d bytes), style %s\n", verb, d.Text, d.Bytes, d.Style)
	fmt.Fprintf(s.w, "  clip %s, cursor %s, flags %s\n", d.Clip, d.Cursor, strings.Join(d.Flags, "|"))
}

func (s *PrettySink) writePaintEnd(d PaintEndData) {
	fmt.Fprintf(s.w, "  clusters=%d glyphs=%d fallbacks=%d lines=%d rows=%d\n",
		d.Clusters, d.Glyphs, d.Fallbacks, d.Lines, d.RowsWritten)
	fmt.Fprintf(s.w, "  cursor %s, elapsed %dus", d.Cursor, d.ElapsedUs)
	if d.Truncated {
		fmt.Fprint(s.w, ", truncated")
	}
	fmt.Fprintln(s.w)
}

// Flush writes any buffered data to the underlying writer.
func (s *PrettySink) Flush() error {
	return s.w.Flush()
}

// Close flushes the buffer.
func (s *PrettySink) Close() error {
	return s.Flush()
}

// clusterStr quotes a cluster and lists its codepoints.
func clusterStr(c string) string {
	var cps []string
	for _, r := range c {
		cps = append(cps, fmt.Sprintf("U+%04X", r))
	}
	return fmt.Sprintf("%q (%s)", c, strings.Join(cps, " "))
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
