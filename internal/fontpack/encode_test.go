package fontpack

import (
	"bytes"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanlewis/blitstr/internal/common"
	"github.com/ryanlewis/blitstr/internal/fonts"
	bgs "github.com/ryanlewis/blitstr/internal/parser"
)

func words(t *testing.T, p fonts.Provider) []uint32 {
	t.Helper()
	out := make([]uint32, p.Len())
	for i := range out {
		w, ok := p.Word(i)
		require.True(t, ok)
		out[i] = w
	}
	return out
}

func TestEncodeSmallStoreParsesBack(t *testing.T) {
	var buf bytes.Buffer
	small := fonts.SmallStore()
	require.NoError(t, Encode(&buf, small, []string{"Geneva bitmaps.", "second\nand third"}))

	f, err := bgs.Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"Geneva bitmaps.", "second", "and third"}, f.Comments)
	assert.Equal(t, small.Name, f.Store.Name)
	assert.Equal(t, small.MaxHeight, f.Store.MaxHeight)
	assert.Equal(t, small.Seed, f.Store.Seed)
	assert.Equal(t, small.Buckets, f.Store.Buckets)
	assert.Equal(t, words(t, small.Data), words(t, f.Store.Data))
}

func TestEncodeLineLayout(t *testing.T) {
	s, err := newTestBuilder(t).Build()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, s, nil))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, "bgs1 test 3 00000000 3 8 0", lines[0])
	assert.Equal(t, "bucket 0000 007F 1 2", lines[1])
	assert.Len(t, strings.Fields(lines[len(lines)-1]), 8)
}

func TestEncodeRejects(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Encode(&buf, nil, nil), common.ErrBadFormat)
	bad := *fonts.SmallStore()
	bad.Name = "two words"
	assert.ErrorIs(t, Encode(&buf, &bad, nil), common.ErrBadFormat)
}

func TestGoSource(t *testing.T) {
	b := newTestBuilder(t)
	b.AddNFDAliases()
	s, err := b.Build()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, GoSource(&buf, "glyphs", "test", s, []string{"Test glyphs.", "", "Two paragraphs."}, b.Labels()))
	src := buf.String()

	_, err = parser.ParseFile(token.NewFileSet(), "test.go", src, parser.ParseComments)
	require.NoError(t, err, src)
	assert.True(t, strings.HasPrefix(src, "// Code generated by fontgen; DO NOT EDIT.\n//\n// Test glyphs.\n//\n"))
	assert.Contains(t, src, "package glyphs\n")
	assert.Contains(t, src, `import "github.com/ryanlewis/blitstr/internal/fonts"`)
	assert.Contains(t, src, "var testStore = &fonts.Store{")
	assert.Contains(t, src, "// testStore is the Test glyph set.")
	assert.Contains(t, src, "{ // BASIC_LATIN")
	assert.Contains(t, src, "Limits: []int{2, 1},")
	assert.Contains(t, src, "// \"e\u0308\" 65-308")
	assert.Contains(t, src, `// [4]: EB "ë"`)
	assert.Contains(t, src, "var testData = [8]uint32{")
	assert.Contains(t, src, "Data: fonts.Words(testData[:]),")
}

func TestGoSourceInsideFonts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, GoSource(&buf, "fonts", "small", fonts.SmallStore(), nil, nil))
	src := buf.String()

	_, err := parser.ParseFile(token.NewFileSet(), "small.go", src, 0)
	require.NoError(t, err)
	assert.NotContains(t, src, "import")
	assert.Contains(t, src, "var smallStore = &Store{")
	assert.Contains(t, src, "var smallData = [1071]uint32{")
	assert.Contains(t, src, "0x2B038801,\n")
}
