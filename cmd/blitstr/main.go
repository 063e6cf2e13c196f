// Command blitstr renders text into a 1bpp frame and writes it as an
// image, a text preview or a frame hash.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/pflag"
	"golang.org/x/image/bmp"

	"github.com/ryanlewis/blitstr"
	"github.com/ryanlewis/blitstr/internal/debug"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type config struct {
	style       string
	clip        string
	caret       int
	ellipsis    bool
	erase       bool
	dirty       bool
	emoji       string
	hanzi       string
	runes       []string
	output      string
	hash        bool
	measure     bool
	demo        string
	debugMode   bool
	debugFile   string
	debugPretty bool
	showVersion bool
	showHelp    bool
}

func newFlagSet(cfg *config, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("blitstr", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&cfg.style, "style", "s", "regular", "Glyph style: small, regular or bold")
	fs.StringVarP(&cfg.clip, "clip", "c", "padded", "Clip rectangle: full, padded or x0,y0,x1,y1")
	fs.IntVar(&cfg.caret, "caret", -1, "Draw an insertion caret before cluster N (-1 for none)")
	fs.BoolVar(&cfg.ellipsis, "ellipsis", false, "End an overlong line with an ellipsis instead of wrapping")
	fs.BoolVar(&cfg.erase, "erase", false, "Force glyph pixels to ink instead of XORing them")
	fs.BoolVar(&cfg.dirty, "dirty", false, "Set the dirty bit of every scanline written")
	fs.StringVar(&cfg.emoji, "emoji", "", "Glyph-set file for emoji")
	fs.StringVar(&cfg.hanzi, "hanzi", "", "Glyph-set file for Hanzi")
	fs.StringArrayVarP(&cfg.runes, "rune", "r", nil, "Append a codepoint to the text (repeatable, e.g. U+1F638)")
	fs.StringVarP(&cfg.output, "output", "o", "-", "Output: a .png or .bmp file, or - for a text preview")
	fs.BoolVar(&cfg.hash, "hash", false, "Print the frame hash")
	fs.BoolVar(&cfg.measure, "measure", false, "Print where the text ends without drawing it")
	fs.StringVar(&cfg.demo, "demo", "", "Render a demo screen: sample or greeting")
	fs.BoolVar(&cfg.debugMode, "debug", false, "Enable debug mode (outputs to stderr)")
	fs.StringVar(&cfg.debugFile, "debug-file", "", "Write debug output to file instead of stderr")
	fs.BoolVar(&cfg.debugPretty, "debug-pretty", false, "Use pretty format for debug output (default: JSON)")
	fs.BoolVarP(&cfg.showVersion, "version", "v", false, "Show version information")
	fs.BoolVarP(&cfg.showHelp, "help", "h", false, "Show help message")
	return fs
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var cfg config
	fs := newFlagSet(&cfg, stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if cfg.showHelp {
		printHelp(stdout, fs)
		return exitOK
	}
	if cfg.showVersion {
		fmt.Fprintf(stdout, "blitstr version %s (commit: %s, built: %s)\n", version, commit, date)
		return exitOK
	}

	text, err := readText(fs.Args(), cfg.runes, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	if text == "" && cfg.demo == "" {
		fmt.Fprintln(stderr, "Error: no text provided")
		printHelp(stderr, fs)
		return exitUsage
	}

	style, err := blitstr.ParseGlyphStyle(cfg.style)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	clip, err := blitstr.ParseClipRect(cfg.clip)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	session, closeDebug, err := setupDebug(&cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating debug file: %v\n", err)
		return exitError
	}
	defer closeDebug()

	fonts, err := loadFonts(&cfg, session)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading glyph set: %v\n", err)
		return exitError
	}

	opts := []blitstr.Option{
		blitstr.WithFonts(fonts),
		blitstr.WithEllipsis(cfg.ellipsis),
		blitstr.WithDirtyBits(cfg.dirty),
	}
	if cfg.erase {
		opts = append(opts, blitstr.WithCompose(blitstr.ComposeErase))
	}
	if cfg.caret >= 0 {
		opts = append(opts, blitstr.WithCaret(cfg.caret))
	}
	if session != nil {
		opts = append(opts, blitstr.WithDebug(session))
	}

	if cfg.measure {
		c := blitstr.CursorFromTopLeftOf(clip)
		res, err := blitstr.Measure(clip, &c, style, text, opts...)
		if err != nil {
			fmt.Fprintf(stderr, "Error measuring text: %v\n", err)
			return exitError
		}
		fmt.Fprintf(stdout, "cursor %s line-height %d clusters %d lines %d truncated %v\n",
			c.Pt, c.LineHeight, res.Clusters, res.Lines, res.Truncated)
		return exitOK
	}

	f := blitstr.NewFrame()
	switch cfg.demo {
	case "":
		blitstr.ClearRegion(f, blitstr.FullScreen(), opts...)
		c := blitstr.CursorFromTopLeftOf(clip)
		if _, err := blitstr.PaintStr(f, clip, &c, style, text, opts...); err != nil {
			fmt.Fprintf(stderr, "Error rendering text: %v\n", err)
			return exitError
		}
	case "sample":
		err = blitstr.DemoSampleText(f, opts...)
	case "greeting":
		err = blitstr.DemoShortGreeting(f, opts...)
	default:
		fmt.Fprintf(stderr, "Error: unknown demo %q\n", cfg.demo)
		return exitUsage
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error rendering demo: %v\n", err)
		return exitError
	}

	if cfg.hash {
		fmt.Fprintf(stdout, "0x%08X\n", f.Hash(0))
		if cfg.output == "-" {
			return exitOK
		}
	}
	if err := writeOutput(f, clip, cfg.output, stdout); err != nil {
		fmt.Fprintf(stderr, "Error writing output: %v\n", err)
		return exitError
	}
	return exitOK
}

// readText joins the arguments with spaces and appends the --rune values.
// A single "-" argument reads the text from stdin.
func readText(args, runes []string, stdin io.Reader) (string, error) {
	var text string
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(bufio.NewReader(stdin))
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	} else {
		text = strings.Join(args, " ")
	}
	var sb strings.Builder
	sb.WriteString(text)
	for _, s := range runes {
		r, err := parseRune(s)
		if err != nil {
			return "", fmt.Errorf("parsing rune: %w", err)
		}
		sb.WriteRune(r)
	}
	return sb.String(), nil
}

func setupDebug(cfg *config, stderr io.Writer) (*debug.Session, func(), error) {
	envPretty := debug.InitFromEnv()
	if !cfg.debugMode && cfg.debugFile == "" && !debug.Enabled() {
		return nil, func() {}, nil
	}
	debug.SetEnabled(true)

	var output io.Writer = stderr
	var file *os.File
	if cfg.debugFile != "" {
		var err error
		file, err = os.Create(cfg.debugFile)
		if err != nil {
			return nil, nil, err
		}
		output = file
	}

	var sink debug.Sink
	if cfg.debugPretty || envPretty {
		sink = debug.NewPrettySink(output)
	} else {
		sink = debug.NewJSONSink(output)
	}
	session := debug.NewSession(sink)
	return session, func() {
		_ = session.Close()
		if file != nil {
			_ = file.Close()
		}
	}, nil
}

// loadFonts maps the glyph-set files named on the command line over the
// default fonts.
func loadFonts(cfg *config, session *debug.Session) (*blitstr.Fonts, error) {
	fonts := blitstr.DefaultFonts()
	for _, s := range []struct {
		set  blitstr.GlyphSet
		path string
	}{
		{blitstr.Emoji, cfg.emoji},
		{blitstr.Hanzi, cfg.hanzi},
	} {
		if s.path == "" {
			continue
		}
		var opts []blitstr.Option
		if session != nil {
			opts = append(opts, blitstr.WithDebug(session))
		}
		d, err := blitstr.LoadGlyphSetCached(s.path, opts...)
		if err != nil {
			return nil, err
		}
		if fonts, err = fonts.WithGlyphSet(s.set, d); err != nil {
			return nil, err
		}
	}
	return fonts, nil
}

func writeOutput(f *blitstr.Frame, clip blitstr.ClipRect, output string, stdout io.Writer) error {
	if output == "-" {
		return preview(stdout, f, clip)
	}
	file, err := os.Create(output)
	if err != nil {
		return err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(output)) {
	case ".png":
		err = png.Encode(file, f.Image())
	case ".bmp":
		err = bmp.Encode(file, f.Image())
	default:
		err = fmt.Errorf("unsupported output format %q (want .png or .bmp)", filepath.Ext(output))
	}
	if err != nil {
		return err
	}
	return file.Close()
}

// preview prints the rows of clip down to the last one holding ink, '#'
// for ink and ' ' for light pixels, with trailing spaces trimmed.
func preview(w io.Writer, f *blitstr.Frame, clip blitstr.ClipRect) error {
	last := -1
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		for x := clip.Min.X; x < clip.Max.X; x++ {
			if !f.Light(x, y) {
				last = y
				break
			}
		}
	}
	bw := bufio.NewWriter(w)
	row := make([]byte, 0, clip.Dx())
	for y := clip.Min.Y; y <= last; y++ {
		row = row[:0]
		for x := clip.Min.X; x < clip.Max.X; x++ {
			if f.Light(x, y) {
				row = append(row, ' ')
			} else {
				row = append(row, '#')
			}
		}
		bw.WriteString(strings.TrimRight(string(row), " "))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// parseRune parses a rune given in one of these formats:
// - Literal character (e.g., "*", "😸")
// - Escaped Unicode: "\uXXXX", "\UXXXXXXXX"
// - Unicode notation: "U+XXXX"
// - Decimal: "63"
// - Hexadecimal: "0x3F"
func parseRune(s string) (rune, error) {
	if s == "" {
		return 0, fmt.Errorf("rune cannot be empty")
	}

	runes := []rune(s)
	if len(runes) == 1 {
		return runes[0], nil
	}

	if r, ok := parseEscapedUnicode(s); ok {
		return r, nil
	}
	if r, ok := parseUnicodeNotation(s); ok {
		return r, nil
	}
	if r, ok := parseHexadecimal(s); ok {
		return r, nil
	}
	if r, ok := parseDecimal(s); ok {
		return r, nil
	}

	return 0, fmt.Errorf("invalid rune format: %s", s)
}

// validateRune checks if a rune is valid UTF-8 and not a surrogate
func validateRune(r rune) (rune, bool) {
	if r < 0 || r > utf8.MaxRune {
		return 0, false
	}
	if r >= 0xD800 && r <= 0xDFFF {
		return 0, false
	}
	return r, true
}

func parseEscapedUnicode(s string) (rune, bool) {
	// \uXXXX must be exactly 6 characters, \UXXXXXXXX exactly 10
	if (strings.HasPrefix(s, "\\u") && len(s) == 6) || (strings.HasPrefix(s, "\\U") && len(s) == 10) {
		code, err := strconv.ParseInt(s[2:], 16, 32)
		if err == nil {
			return validateRune(rune(code))
		}
	}
	return 0, false
}

func parseUnicodeNotation(s string) (rune, bool) {
	if strings.HasPrefix(s, "U+") || strings.HasPrefix(s, "u+") {
		code, err := strconv.ParseInt(s[2:], 16, 32)
		if err == nil {
			return validateRune(rune(code))
		}
	}
	return 0, false
}

func parseHexadecimal(s string) (rune, bool) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		code, err := strconv.ParseInt(s[2:], 16, 32)
		if err == nil {
			return validateRune(rune(code))
		}
	}
	return 0, false
}

func parseDecimal(s string) (rune, bool) {
	code, err := strconv.ParseInt(s, 10, 32)
	if err == nil {
		return validateRune(rune(code))
	}
	return 0, false
}

func printHelp(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintln(w, "blitstr - render text into a 1bpp frame buffer")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  blitstr [flags] <text>")
	fmt.Fprintln(w, "  blitstr [flags] -        (read text from stdin)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprint(w, fs.FlagUsages())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rune formats:")
	fmt.Fprintln(w, "  Literal: -r '*'")
	fmt.Fprintln(w, "  Unicode escape: -r '\\u2588'")
	fmt.Fprintln(w, "  Unicode notation: -r 'U+1F638'")
	fmt.Fprintln(w, "  Decimal: -r '63'")
	fmt.Fprintln(w, "  Hexadecimal: -r '0x3F'")
}
