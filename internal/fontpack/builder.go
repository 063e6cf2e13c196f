package fontpack

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/ryanlewis/blitstr/internal/common"
	"github.com/ryanlewis/blitstr/internal/fonts"
	"github.com/ryanlewis/blitstr/internal/m3hash"
)

// Build errors.
var (
	// ErrHashCollision is returned when two clusters of a bucket hash to
	// the same key under the chosen seed.
	ErrHashCollision = errors.New("hash collision")
	// ErrDuplicateCluster is returned when a cluster is added twice.
	ErrDuplicateCluster = errors.New("duplicate cluster")
	// ErrGlyphTooWide is returned for patterns the blitter cannot draw.
	ErrGlyphTooWide = errors.New("glyph too wide")
	// ErrUnknownBlock is returned for clusters whose first codepoint is in
	// no known Unicode block.
	ErrUnknownBlock = errors.New("unknown unicode block")
)

// maxField is the largest value a header byte can hold.
const maxField = 0xff

// Builder collects glyph patterns keyed by grapheme cluster and packs them
// into a fonts.Store.
type Builder struct {
	name      string
	seed      uint32
	maxHeight int
	glyphs    map[string]Pattern
	aliases   map[string]string
}

// NewBuilder returns an empty builder for a glyph set.
func NewBuilder(name string, seed uint32) *Builder {
	return &Builder{
		name:    name,
		seed:    seed,
		glyphs:  make(map[string]Pattern),
		aliases: make(map[string]string),
	}
}

// Name returns the glyph set name.
func (b *Builder) Name() string { return b.name }

// Len returns the number of clusters added, aliases included.
func (b *Builder) Len() int { return len(b.glyphs) + len(b.aliases) }

// Has reports whether cluster was added or aliased.
func (b *Builder) Has(cluster string) bool {
	_, g := b.glyphs[cluster]
	_, a := b.aliases[cluster]
	return g || a
}

// SetMaxHeight sets the minimum line height of the set. The built store's
// MaxHeight is the larger of h and the tallest pattern.
func (b *Builder) SetMaxHeight(h int) { b.maxHeight = h }

func (b *Builder) checkCluster(cluster string) error {
	if cluster == "" {
		return fmt.Errorf("%w: empty cluster", ErrUnknownBlock)
	}
	if b.Has(cluster) {
		return fmt.Errorf("%w: %q", ErrDuplicateCluster, cluster)
	}
	r, _ := utf8.DecodeRuneInString(cluster)
	if _, ok := fonts.BlockOf(r); !ok {
		return fmt.Errorf("%w: %q starts with U+%04X", ErrUnknownBlock, cluster, r)
	}
	return nil
}

// Add stores the pattern for cluster.
func (b *Builder) Add(cluster string, p Pattern) error {
	if err := b.checkCluster(cluster); err != nil {
		return err
	}
	if p.W > common.MaxGlyphWidth {
		return fmt.Errorf("%w: %q is %dpx wide", ErrGlyphTooWide, cluster, p.W)
	}
	if p.W < 0 || p.H < 0 || p.H > maxField || p.YOffset < 0 || p.YOffset > maxField {
		return fmt.Errorf("%w: %q has geometry %dx%d+%d", common.ErrBadGeometry, cluster, p.W, p.H, p.YOffset)
	}
	b.glyphs[cluster] = p
	return nil
}

// Alias makes alias resolve to the glyph of canonical.
func (b *Builder) Alias(alias, canonical string) error {
	if _, ok := b.glyphs[canonical]; !ok {
		return fmt.Errorf("alias %q: canonical cluster %q not added", alias, canonical)
	}
	if err := b.checkCluster(alias); err != nil {
		return err
	}
	b.aliases[alias] = canonical
	return nil
}

// AddNFDAliases aliases the canonical decomposition of every added cluster
// that is not already present. It returns the number of aliases added.
func (b *Builder) AddNFDAliases() int {
	n := 0
	for _, c := range b.canonical() {
		d := norm.NFD.String(c)
		if d == c || b.Alias(d, c) != nil {
			continue
		}
		n++
	}
	return n
}

// canonical returns the added clusters in codepoint order.
func (b *Builder) canonical() []string {
	cs := make([]string, 0, len(b.glyphs))
	for c := range b.glyphs {
		cs = append(cs, c)
	}
	slices.Sort(cs)
	return cs
}

// layout packs every canonical pattern and returns the data words and the
// offset of each cluster, aliases included.
func (b *Builder) layout() ([]uint32, map[string]uint32, int) {
	var data []uint32
	offsets := make(map[string]uint32, b.Len())
	maxH := b.maxHeight
	for _, c := range b.canonical() {
		p := b.glyphs[c]
		offsets[c] = uint32(len(data))
		data = append(data, p.Words()...)
		maxH = max(maxH, p.H+p.YOffset)
	}
	for a, c := range b.aliases {
		offsets[a] = offsets[c]
	}
	return data, offsets, maxH
}

// Labels maps every glyph offset to the clusters stored there, canonical
// cluster first.
type Labels map[uint32][]string

// Labels returns the cluster names of each offset Build lays out.
func (b *Builder) Labels() Labels {
	_, offsets, _ := b.layout()
	l := make(Labels, len(b.glyphs))
	for _, c := range b.canonical() {
		l[offsets[c]] = append(l[offsets[c]], c)
	}
	aliases := make([]string, 0, len(b.aliases))
	for a := range b.aliases {
		aliases = append(aliases, a)
	}
	slices.Sort(aliases)
	for _, a := range aliases {
		l[offsets[a]] = append(l[offsets[a]], a)
	}
	return l
}

type indexEntry struct {
	cluster string
	key     uint32
	offset  uint32
}

// Build packs the glyphs with the builder's seed.
func (b *Builder) Build() (*fonts.Store, error) {
	return b.build(b.seed)
}

// BuildAutoSeed tries up to maxTries seeds, starting at the builder's
// seed, until one produces no key collisions.
func (b *Builder) BuildAutoSeed(maxTries int) (*fonts.Store, error) {
	var err error
	for i := 0; i < max(maxTries, 1); i++ {
		var s *fonts.Store
		s, err = b.build(b.seed + uint32(i))
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, ErrHashCollision) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("no collision-free seed in %d tries: %w", max(maxTries, 1), err)
}

func (b *Builder) build(seed uint32) (*fonts.Store, error) {
	if len(b.glyphs) == 0 {
		return nil, fmt.Errorf("%w: glyph set %s is empty", common.ErrBadFormat, b.name)
	}
	data, offsets, maxH := b.layout()

	byBlock := make(map[fonts.Block][]indexEntry)
	for cluster, off := range offsets {
		r, _ := utf8.DecodeRuneInString(cluster)
		blk, _ := fonts.BlockOf(r)
		key, _ := m3hash.Cluster(cluster, seed, utf8.RuneCountInString(cluster))
		byBlock[blk] = append(byBlock[blk], indexEntry{cluster: cluster, key: key, offset: off})
	}

	buckets := make([]fonts.Bucket, 0, len(byBlock))
	for blk, entries := range byBlock {
		slices.SortFunc(entries, func(x, y indexEntry) int {
			if c := cmp.Compare(x.key, y.key); c != 0 {
				return c
			}
			return cmp.Compare(x.cluster, y.cluster)
		})
		bk := fonts.Bucket{Low: blk.Low, High: blk.High}
		var limits []int
		for i, e := range entries {
			if i > 0 && entries[i-1].key == e.key {
				return nil, fmt.Errorf("%w: %q and %q share key %08X with seed %08X in %s",
					ErrHashCollision, entries[i-1].cluster, e.cluster, e.key, seed, blk.Name)
			}
			bk.Keys = append(bk.Keys, e.key)
			bk.Offsets = append(bk.Offsets, e.offset)
			if n := utf8.RuneCountInString(e.cluster); !slices.Contains(limits, n) {
				limits = append(limits, n)
			}
		}
		slices.SortFunc(limits, func(x, y int) int { return cmp.Compare(y, x) })
		bk.Limits = limits
		buckets = append(buckets, bk)
	}
	slices.SortFunc(buckets, func(x, y fonts.Bucket) int { return cmp.Compare(x.Low, y.Low) })

	s := &fonts.Store{
		Name:      b.name,
		MaxHeight: maxH,
		Seed:      seed,
		Buckets:   buckets,
		Data:      fonts.Words(data),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// BlockName returns the name of the bucket's Unicode block, or "" if the
// bucket matches none.
func BlockName(bk fonts.Bucket) string {
	if blk, ok := fonts.BlockOf(bk.Low); ok && blk.Low == bk.Low && blk.High == bk.High {
		return blk.Name
	}
	return ""
}
