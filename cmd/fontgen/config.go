package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Config describes one glyph set to build.
type Config struct {
	Name string `yaml:"name"`
	// Seed is the hash seed; AutoSeed > 0 searches that many seeds for
	// one without collisions instead.
	Seed      uint32   `yaml:"seed"`
	AutoSeed  int      `yaml:"auto_seed"`
	MaxHeight int      `yaml:"max_height"`
	NFD       bool     `yaml:"nfd"`
	Output    string   `yaml:"output"`
	Package   string   `yaml:"package"`
	Var       string   `yaml:"var"`
	Comments  []string `yaml:"comments"`
	Sources   []Source `yaml:"sources"`
}

// Source is one import into the set. Exactly one of Face, OpenType and
// Sheet is set.
type Source struct {
	// Face names a built-in basicfont face.
	Face string `yaml:"face"`
	// OpenType is the path of a TrueType or OpenType font.
	OpenType string  `yaml:"opentype"`
	Size     float64 `yaml:"size"`
	DPI      float64 `yaml:"dpi"`
	// Sheet is the path of a PNG or BMP sprite sheet.
	Sheet    string   `yaml:"sheet"`
	Cell     int      `yaml:"cell"`
	Cols     int      `yaml:"cols"`
	Gutter   int      `yaml:"gutter"`
	Border   int      `yaml:"border"`
	Clusters []string `yaml:"clusters"`

	// Runes lists characters, "U+XXXX" codepoints or "U+XXXX-U+YYYY"
	// ranges. Empty means every glyph of a built-in face.
	Runes     []string `yaml:"runes"`
	Scale     int      `yaml:"scale"`
	Threshold uint8    `yaml:"threshold"`
	Baseline  int      `yaml:"baseline"`
}

func (s Source) kind() string {
	switch {
	case s.Face != "":
		return "face"
	case s.OpenType != "":
		return "opentype"
	}
	return "sheet"
}

// LoadConfig reads a YAML build config. Relative source paths are resolved
// against the config's directory.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i := range cfg.Sources {
		s := &cfg.Sources[i]
		s.OpenType = resolve(dir, s.OpenType)
		s.Sheet = resolve(dir, s.Sheet)
	}
	cfg.Output = resolve(dir, cfg.Output)
	return &cfg, cfg.Validate()
}

func resolve(dir, p string) string {
	if p == "" || p == "-" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Validate checks that the config names a set, an output and well-formed
// sources.
func (c *Config) Validate() error {
	if c.Name == "" {
		return errors.New("config: name is required")
	}
	if len(c.Sources) == 0 {
		return errors.New("config: no sources")
	}
	for i, s := range c.Sources {
		n := 0
		for _, v := range []string{s.Face, s.OpenType, s.Sheet} {
			if v != "" {
				n++
			}
		}
		if n != 1 {
			return fmt.Errorf("config: source %d: want exactly one of face, opentype or sheet", i)
		}
		if s.OpenType != "" && s.Size <= 0 {
			return fmt.Errorf("config: source %d: opentype needs a size", i)
		}
		if s.Sheet != "" && (s.Cell <= 0 || s.Cols <= 0) {
			return fmt.Errorf("config: source %d: sheet needs cell and cols", i)
		}
		if s.OpenType != "" && len(s.Runes) == 0 {
			return fmt.Errorf("config: source %d: opentype needs runes", i)
		}
	}
	return nil
}

// parseRunes expands a rune list. Each item is either a "U+XXXX" codepoint,
// a "U+XXXX-U+YYYY" range or literal characters.
func parseRunes(items []string) ([]rune, error) {
	var out []rune
	for _, item := range items {
		if !strings.HasPrefix(strings.ToUpper(item), "U+") {
			if !utf8.ValidString(item) {
				return nil, fmt.Errorf("invalid UTF-8 in %q", item)
			}
			out = append(out, []rune(item)...)
			continue
		}
		lo, hi, isRange := strings.Cut(item, "-")
		first, err := parseCodepoint(lo)
		if err != nil {
			return nil, err
		}
		last := first
		if isRange {
			if last, err = parseCodepoint(hi); err != nil {
				return nil, err
			}
			if last < first {
				return nil, fmt.Errorf("empty range %q", item)
			}
		}
		for r := first; r <= last; r++ {
			out = append(out, r)
		}
	}
	return out, nil
}

func parseCodepoint(s string) (rune, error) {
	s = strings.TrimSpace(s)
	if len(s) < 3 || !strings.EqualFold(s[:2], "U+") {
		return 0, fmt.Errorf("invalid codepoint %q", s)
	}
	v, err := strconv.ParseUint(s[2:], 16, 32)
	if err != nil || v > utf8.MaxRune {
		return 0, fmt.Errorf("invalid codepoint %q", s)
	}
	return rune(v), nil
}
