// Command fontgen builds a glyph set from fonts and sprite sheets, writing
// it as a .bgs file or as Go source.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/font/opentype"

	"github.com/ryanlewis/blitstr/internal/debug"
	"github.com/ryanlewis/blitstr/internal/fonts"
	"github.com/ryanlewis/blitstr/internal/fontpack"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var faces = map[string]*basicfont.Face{
	"inconsolata-regular": inconsolata.Regular8x16,
	"inconsolata-bold":    inconsolata.Bold8x16,
	"basic7x13":           basicfont.Face7x13,
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("fontgen", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	output := fs.StringP("output", "o", "", "Override the config's output path (- for stdout)")
	debugMode := fs.Bool("debug", false, "Trace the build to stderr")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: fontgen [flags] config.yaml")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}

	cfg, err := LoadConfig(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	if *output != "" {
		cfg.Output = *output
	}

	var session *debug.Session
	if *debugMode {
		debug.SetEnabled(true)
		defer debug.SetEnabled(false)
		session = debug.NewSession(debug.NewPrettySink(stderr))
		defer session.Close()
	}

	store, labels, err := build(cfg, session)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	if err := write(cfg, store, labels, stdout); err != nil {
		fmt.Fprintf(stderr, "Error writing %s: %v\n", cfg.Output, err)
		return exitError
	}
	return exitOK
}

// build imports every source of cfg in order. Clusters an earlier source
// supplied are not replaced by later ones.
func build(cfg *Config, session *debug.Session) (*fonts.Store, fontpack.Labels, error) {
	b := fontpack.NewBuilder(cfg.Name, cfg.Seed)
	if cfg.MaxHeight > 0 {
		b.SetMaxHeight(cfg.MaxHeight)
	}
	for i, src := range cfg.Sources {
		n, err := importSource(b, src)
		if err != nil {
			return nil, nil, fmt.Errorf("source %d: %w", i, err)
		}
		session.Emit("build", "Source", debug.BuildSourceData{Index: i, Kind: src.kind(), Added: n})
	}
	if cfg.NFD {
		b.AddNFDAliases()
	}

	var (
		store *fonts.Store
		err   error
	)
	if cfg.AutoSeed > 0 {
		store, err = b.BuildAutoSeed(cfg.AutoSeed)
	} else {
		store, err = b.Build()
	}
	if err != nil {
		session.Emit("build", "Error", debug.ErrorData{Type: "build", Message: err.Error(), Context: map[string]any{"name": cfg.Name}})
		return nil, nil, err
	}
	session.Emit("build", "Stats", debug.BuildStatsData{
		Name:      store.Name,
		Seed:      store.Seed,
		Buckets:   len(store.Buckets),
		Entries:   store.Entries(),
		Words:     store.Data.Len(),
		MaxHeight: store.MaxHeight,
	})
	return store, b.Labels(), nil
}

func importSource(b *fontpack.Builder, src Source) (int, error) {
	runes, err := parseRunes(src.Runes)
	if err != nil {
		return 0, err
	}
	switch {
	case src.Face != "":
		face, ok := faces[strings.ToLower(src.Face)]
		if !ok {
			return 0, fmt.Errorf("unknown face %q", src.Face)
		}
		if len(runes) == 0 {
			runes = fontpack.RunesOf(face)
		}
		return importFace(b, face, runes, src)

	case src.OpenType != "":
		data, err := os.ReadFile(src.OpenType)
		if err != nil {
			return 0, err
		}
		f, err := opentype.Parse(data)
		if err != nil {
			return 0, fmt.Errorf("parse %s: %w", src.OpenType, err)
		}
		dpi := src.DPI
		if dpi == 0 {
			dpi = 72
		}
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    src.Size,
			DPI:     dpi,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return 0, err
		}
		defer face.Close()
		return importFace(b, face, runes, src)

	default:
		file, err := os.Open(src.Sheet)
		if err != nil {
			return 0, err
		}
		defer file.Close()
		img, err := fontpack.DecodeSheet(file)
		if err != nil {
			return 0, err
		}
		clusters := src.Clusters
		if len(clusters) == 0 {
			for _, r := range runes {
				clusters = append(clusters, string(r))
			}
		}
		return fontpack.ImportSheet(b, fontpack.SheetSource{
			Image:     img,
			Size:      src.Cell,
			Cols:      src.Cols,
			Gutter:    src.Gutter,
			Border:    src.Border,
			Clusters:  clusters,
			Scale:     src.Scale,
			Threshold: src.Threshold,
		})
	}
}

func importFace(b *fontpack.Builder, face font.Face, runes []rune, src Source) (int, error) {
	return fontpack.ImportFace(b, fontpack.FaceSource{
		Face:      face,
		Runes:     runes,
		Scale:     src.Scale,
		Threshold: src.Threshold,
		Baseline:  src.Baseline,
	})
}

// write encodes store as Go source when the output ends in .go and as a
// .bgs container otherwise.
func write(cfg *Config, store *fonts.Store, labels fontpack.Labels, stdout io.Writer) error {
	comments := cfg.Comments
	if len(comments) == 0 {
		comments = []string{"Generated by fontgen from " + cfg.Name + "."}
	}

	var buf bytes.Buffer
	var err error
	if strings.EqualFold(filepath.Ext(cfg.Output), ".go") {
		pkg, name := cfg.Package, cfg.Var
		if pkg == "" {
			pkg = "fonts"
		}
		if name == "" {
			name = cfg.Name
		}
		err = fontpack.GoSource(&buf, pkg, name, store, comments, labels)
	} else {
		err = fontpack.Encode(&buf, store, comments)
	}
	if err != nil {
		return err
	}

	if cfg.Output == "" || cfg.Output == "-" {
		_, err = stdout.Write(buf.Bytes())
		return err
	}
	return os.WriteFile(cfg.Output, buf.Bytes(), 0o644)
}
