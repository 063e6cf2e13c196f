package fonts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanlewis/blitstr/internal/common"
)

func TestSmallStoreValid(t *testing.T) {
	require.NoError(t, SmallStore().Validate())
	assert.Equal(t, 24, SmallStore().MaxHeight)
	assert.Equal(t, 1071, SmallStore().Data.Len())
}

func TestSmallStoreKeysStrictlyIncreasing(t *testing.T) {
	for _, b := range SmallStore().Buckets {
		for i := 1; i < len(b.Keys); i++ {
			assert.Less(t, b.Keys[i-1], b.Keys[i], "bucket %04X index %d", b.Low, i)
		}
		assert.Len(t, b.Offsets, len(b.Keys))
	}
}

func TestSmallStoreLookup(t *testing.T) {
	tests := []struct {
		name    string
		cluster string
		offset  uint32
		n       int
		hdr     Header
	}{
		{"ascii", "a", 322, 1, Header{W: 8, H: 10, YOffset: 10}},
		{"ascii ignores the rest", "ab", 322, 1, Header{W: 8, H: 10, YOffset: 10}},
		{"tilde", "~", 452, 1, Header{W: 10, H: 4, YOffset: 6}},
		{"precomposed", "ë", 898, 2, Header{W: 8, H: 14, YOffset: 6}},
		{"decomposed", "ë", 898, 3, Header{W: 8, H: 14, YOffset: 6}},
		{"bullet", "•", 1046, 3, Header{W: 10, H: 10, YOffset: 8}},
		{"replacement", "�", 1058, 3, Header{W: 18, H: 20, YOffset: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			off, n, err := SmallStore().Lookup(tt.cluster)
			require.NoError(t, err)
			assert.Equal(t, tt.offset, off)
			assert.Equal(t, tt.n, n)
			hdr, err := SmallStore().Header(off)
			require.NoError(t, err)
			assert.Equal(t, tt.hdr, hdr)
		})
	}
}

func TestSmallStoreMisses(t *testing.T) {
	for _, s := range []string{"", "一", "😸", "ɐ"} {
		_, _, err := SmallStore().Lookup(s)
		assert.ErrorIs(t, err, ErrNoGlyph, "%q", s)
	}
	var nilStore *Store
	_, _, err := nilStore.Lookup("a")
	assert.ErrorIs(t, err, ErrNoGlyph)
}

func TestStoreWordOutOfRange(t *testing.T) {
	_, err := SmallStore().Word(1070, 1)
	assert.ErrorIs(t, err, ErrNoGlyph)
	_, err = SmallStore().Word(0, -1)
	assert.ErrorIs(t, err, ErrNoGlyph)
	w, err := SmallStore().Word(1070, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), w)
}

func TestStoreValidateRejects(t *testing.T) {
	good := func() *Store {
		return &Store{
			Name:      "t",
			MaxHeight: 4,
			Buckets: []Bucket{{
				Low: 0, High: 0x7f, Limits: []int{1},
				Keys: []uint32{1, 2}, Offsets: []uint32{0, 2},
			}},
			Data: Words{0x00010101, 0x80000000, 0x00010101, 0x80000000},
		}
	}
	require.NoError(t, good().Validate())

	tests := []struct {
		name   string
		mutate func(s *Store)
	}{
		{"zero height", func(s *Store) { s.MaxHeight = 0 }},
		{"no data", func(s *Store) { s.Data = nil }},
		{"keys out of order", func(s *Store) { s.Buckets[0].Keys = []uint32{2, 1} }},
		{"duplicate keys", func(s *Store) { s.Buckets[0].Keys = []uint32{2, 2} }},
		{"offset past end", func(s *Store) { s.Buckets[0].Offsets[1] = 9 }},
		{"glyph runs past end", func(s *Store) { s.Data = Words{0x00010101, 0x80000000, 0x00010101} }},
		{"ragged offsets", func(s *Store) { s.Buckets[0].Offsets = s.Buckets[0].Offsets[:1] }},
		{"ascending limits", func(s *Store) { s.Buckets[0].Limits = []int{1, 2} }},
		{"no limits", func(s *Store) { s.Buckets[0].Limits = nil }},
		{"overlapping buckets", func(s *Store) {
			s.Buckets = append(s.Buckets, Bucket{Low: 0x70, High: 0x80, Limits: []int{1}})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := good()
			tt.mutate(s)
			assert.ErrorIs(t, s.Validate(), common.ErrBadFormat)
		})
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	h := DecodeHeader(0x00121402)
	assert.Equal(t, Header{W: 18, H: 20, YOffset: 2}, h)
	assert.Equal(t, uint32(0x00121402), h.Word())
	assert.Equal(t, 12, h.DataWords())
	assert.True(t, h.Renderable())
	assert.False(t, Header{W: 33, H: 1}.Renderable())
	assert.Equal(t, 0, Header{}.DataWords())
}

func TestBlockOf(t *testing.T) {
	b, ok := BlockOf('a')
	require.True(t, ok)
	assert.Equal(t, "BASIC_LATIN", b.Name)

	b, ok = BlockOf('😸')
	require.True(t, ok)
	assert.Equal(t, "EMOTICONS", b.Name)

	_, ok = BlockOf(0x1000)
	assert.False(t, ok)

	for i := 1; i < len(Blocks); i++ {
		assert.Less(t, Blocks[i-1].High, Blocks[i].Low, Blocks[i].Name)
	}
}

func BenchmarkLookup(b *testing.B) {
	s := SmallStore()
	for i := 0; i < b.N; i++ {
		_, _, _ = s.Lookup("ë")
	}
}
