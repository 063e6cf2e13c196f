package fontpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanlewis/blitstr/internal/common"
	"github.com/ryanlewis/blitstr/internal/fonts"
)

func dot() Pattern { return PatternFromRows("#") }

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	b := NewBuilder("test", 0)
	require.NoError(t, b.Add("a", PatternFromRows("##", "#.")))
	require.NoError(t, b.Add("b", PatternFromRows("#", "#", "#")))
	require.NoError(t, b.Add("ë", PatternFromRows("#.#", "###")))
	require.NoError(t, b.Add("€", PatternFromRows(".##", "##.", ".##")))
	return b
}

func TestBuilderBuild(t *testing.T) {
	b := newTestBuilder(t)
	assert.Equal(t, 1, b.AddNFDAliases())
	assert.Equal(t, 5, b.Len())

	s, err := b.Build()
	require.NoError(t, err)
	require.NoError(t, s.Validate())
	assert.Equal(t, "test", s.Name)
	assert.Equal(t, 3, s.MaxHeight)

	require.Len(t, s.Buckets, 3)
	assert.Equal(t, "BASIC_LATIN", BlockName(s.Buckets[0]))
	assert.Equal(t, []int{2, 1}, s.Buckets[0].Limits)
	assert.Equal(t, "LATIN_1_SUPPLEMENT", BlockName(s.Buckets[1]))
	assert.Equal(t, []int{1}, s.Buckets[1].Limits)
	assert.Equal(t, "CURRENCY_SYMBOLS", BlockName(s.Buckets[2]))

	for _, bk := range s.Buckets {
		for i := 1; i < len(bk.Keys); i++ {
			assert.Less(t, bk.Keys[i-1], bk.Keys[i])
		}
	}

	composed, n, err := s.Lookup("ë!")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	decomposed, n, err := s.Lookup("e\u0308!")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, composed, decomposed)

	off, _, err := s.Lookup("b")
	require.NoError(t, err)
	hdr, err := s.Header(off)
	require.NoError(t, err)
	assert.Equal(t, fonts.Header{W: 1, H: 3}, hdr)

	_, _, err = s.Lookup("e")
	assert.ErrorIs(t, err, fonts.ErrNoGlyph)
}

func TestBuilderLayoutIsCodepointOrdered(t *testing.T) {
	s, err := newTestBuilder(t).Build()
	require.NoError(t, err)

	var offsets []uint32
	for _, c := range []string{"a", "b", "ë", "€"} {
		off, _, err := s.Lookup(c)
		require.NoError(t, err)
		offsets = append(offsets, off)
	}
	assert.Equal(t, []uint32{0, 2, 4, 6}, offsets)
	assert.Equal(t, 8, s.Data.Len())
}

func TestBuilderMaxHeight(t *testing.T) {
	b := newTestBuilder(t)
	b.SetMaxHeight(24)
	s, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 24, s.MaxHeight)

	p := dot()
	p.YOffset = 30
	require.NoError(t, b.Add("c", p))
	s, err = b.Build()
	require.NoError(t, err)
	assert.Equal(t, 31, s.MaxHeight)
}

func TestBuilderRejects(t *testing.T) {
	b := newTestBuilder(t)

	assert.ErrorIs(t, b.Add("a", dot()), ErrDuplicateCluster)
	assert.ErrorIs(t, b.Add("w", NewPattern(common.MaxGlyphWidth+1, 1)), ErrGlyphTooWide)
	assert.ErrorIs(t, b.Add("\u0600", dot()), ErrUnknownBlock)
	assert.ErrorIs(t, b.Add("", dot()), ErrUnknownBlock)

	tall := NewPattern(1, 256)
	assert.ErrorIs(t, b.Add("t", tall), common.ErrBadGeometry)

	assert.Error(t, b.Alias("x", "missing"))
	assert.ErrorIs(t, b.Alias("b", "a"), ErrDuplicateCluster)
	assert.NoError(t, b.Alias("A", "a"))
	assert.True(t, b.Has("A"))

	_, err := NewBuilder("empty", 0).Build()
	assert.ErrorIs(t, err, common.ErrBadFormat)
}

func TestBuilderHashCollision(t *testing.T) {
	// These two clusters share a key under seeds 0 through 2.
	b := NewBuilder("cjk", 0)
	require.NoError(t, b.Add("\u4E3D\u030F", dot()))
	require.NoError(t, b.Add("\u4F83\u030B", dot()))

	_, err := b.Build()
	assert.ErrorIs(t, err, ErrHashCollision)

	_, err = b.BuildAutoSeed(3)
	assert.ErrorIs(t, err, ErrHashCollision)

	s, err := b.BuildAutoSeed(5)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), s.Seed)
	a1, _, err := s.Lookup("\u4E3D\u030F")
	require.NoError(t, err)
	a2, _, err := s.Lookup("\u4F83\u030B")
	require.NoError(t, err)
	assert.NotEqual(t, a1, a2)
}

func TestBuilderLabels(t *testing.T) {
	b := newTestBuilder(t)
	b.AddNFDAliases()
	labels := b.Labels()
	assert.Equal(t, []string{"a"}, labels[0])
	assert.Equal(t, []string{"ë", "e\u0308"}, labels[4])
}
