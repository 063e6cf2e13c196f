package blitstr

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ryanlewis/blitstr/internal/debug"
	"github.com/ryanlewis/blitstr/internal/fontpack"
	"github.com/ryanlewis/blitstr/internal/fonts"
)

// variants returns n glyph-set files that differ only in a comment line.
func variants(tb testing.TB, n int) [][]byte {
	tb.Helper()
	out := make([][]byte, n)
	for i := range out {
		var buf bytes.Buffer
		if err := fontpack.Encode(&buf, fonts.SmallStore(), []string{fmt.Sprintf("variant %d", i)}); err != nil {
			tb.Fatal(err)
		}
		out[i] = buf.Bytes()
	}
	return out
}

func TestGlyphSetCacheHitsAndMisses(t *testing.T) {
	cache := NewGlyphSetCache(4)
	data := encodedSmall(t)

	first, err := cache.ParseGlyphSet(data)
	if err != nil {
		t.Fatal(err)
	}
	second, err := cache.ParseGlyphSet(bytes.Clone(data))
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("identical bytes should return the cached glyph set")
	}

	stats := cache.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Size != 1 {
		t.Errorf("stats = %+v, want 1 hit, 1 miss, size 1", stats)
	}
	if stats.HitRate() != 50 {
		t.Errorf("HitRate() = %v, want 50", stats.HitRate())
	}
	if stats.Bytes < int64(fonts.SmallStore().Data.Len()*4) {
		t.Errorf("Bytes = %d, smaller than the data words", stats.Bytes)
	}
}

func TestGlyphSetCacheParseErrorsAreNotCached(t *testing.T) {
	cache := NewGlyphSetCache(4)
	for i := 0; i < 2; i++ {
		if _, err := cache.ParseGlyphSet([]byte("garbage")); err == nil {
			t.Fatal("expected an error")
		}
	}
	if s := cache.Stats(); s.Size != 0 || s.Misses != 2 {
		t.Errorf("stats = %+v, want empty with 2 misses", s)
	}
}

func TestGlyphSetCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewGlyphSetCache(2)
	v := variants(t, 3)

	a, _ := cache.ParseGlyphSet(v[0])
	if _, err := cache.ParseGlyphSet(v[1]); err != nil {
		t.Fatal(err)
	}
	// Touch v[0] so v[1] becomes the eviction candidate.
	if got, _ := cache.ParseGlyphSet(v[0]); got != a {
		t.Fatal("expected a hit for v[0]")
	}
	if _, err := cache.ParseGlyphSet(v[2]); err != nil {
		t.Fatal(err)
	}

	stats := cache.Stats()
	if stats.Size != 2 || stats.Evictions != 1 {
		t.Fatalf("stats = %+v, want size 2 and 1 eviction", stats)
	}
	if got, _ := cache.ParseGlyphSet(v[0]); got != a {
		t.Error("v[0] was evicted, want v[1] evicted")
	}
	misses := cache.Stats().Misses
	if _, err := cache.ParseGlyphSet(v[1]); err != nil {
		t.Fatal(err)
	}
	if cache.Stats().Misses != misses+1 {
		t.Error("v[1] should have been evicted")
	}
}

func TestGlyphSetCacheUnlimited(t *testing.T) {
	cache := NewGlyphSetCache(0)
	for _, data := range variants(t, 5) {
		if _, err := cache.ParseGlyphSet(data); err != nil {
			t.Fatal(err)
		}
	}
	if s := cache.Stats(); s.Size != 5 || s.Evictions != 0 {
		t.Errorf("stats = %+v, want 5 entries and no evictions", s)
	}
	cache.Clear()
	if s := cache.Stats(); s.Size != 0 || s.Bytes != 0 {
		t.Errorf("after Clear stats = %+v", s)
	}
}

func TestGlyphSetCacheLoadByPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.bgs")
	if err := os.WriteFile(path, encodedSmall(t), 0o600); err != nil {
		t.Fatal(err)
	}
	session, sink := newTraceSession(t)

	cache := NewGlyphSetCache(2)
	a, err := cache.LoadGlyphSet(path, WithDebug(session))
	if err != nil {
		t.Fatal(err)
	}
	b, err := cache.LoadGlyphSet(path, WithDebug(session))
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("second load should hit the cache")
	}

	loads := sink.find("load", "GlyphSet")
	if len(loads) != 2 {
		t.Fatalf("got %d load events, want 2", len(loads))
	}
	if d := loads[1].Data.(debug.GlyphSetLoadData); !d.CacheHit || d.Source != path {
		t.Errorf("second load event = %+v, want a cache hit for %s", d, path)
	}

	if _, err := cache.LoadGlyphSet(filepath.Join(t.TempDir(), "missing.bgs")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestDefaultCache(t *testing.T) {
	t.Cleanup(func() { SetDefaultCacheSize(16) })
	SetDefaultCacheSize(1)

	v := variants(t, 2)
	if _, err := ParseGlyphSetCached(v[0]); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseGlyphSetCached(v[1]); err != nil {
		t.Fatal(err)
	}
	stats := DefaultCacheStats()
	if stats.MaxSize != 1 || stats.Size != 1 || stats.Evictions != 1 {
		t.Errorf("stats = %+v, want one entry after one eviction", stats)
	}

	path := filepath.Join(t.TempDir(), "small.bgs")
	if err := os.WriteFile(path, v[0], 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadGlyphSetCached(path); err != nil {
		t.Fatal(err)
	}

	ClearDefaultCache()
	if DefaultCacheStats().Size != 0 {
		t.Error("ClearDefaultCache left entries behind")
	}
}

func TestGlyphSetCacheConcurrent(t *testing.T) {
	cache := NewGlyphSetCache(3)
	v := variants(t, 5)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if _, err := cache.ParseGlyphSet(v[(g+i)%len(v)]); err != nil {
					t.Error(err)
					return
				}
			}
		}(g)
	}
	wg.Wait()

	s := cache.Stats()
	if s.Hits+s.Misses != 8*50 {
		t.Errorf("hits+misses = %d, want %d", s.Hits+s.Misses, 8*50)
	}
	if s.Size > 3 {
		t.Errorf("Size = %d exceeds the limit", s.Size)
	}
}

func TestCacheStatsHitRateEmpty(t *testing.T) {
	if got := (CacheStats{}).HitRate(); got != 0 {
		t.Errorf("HitRate() = %v, want 0", got)
	}
}

// BenchmarkGlyphSetCache compares parsing with and without the cache.
func BenchmarkGlyphSetCache(b *testing.B) {
	data := encodedSmall(b)

	b.Run("ParseWithoutCache", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, err := ParseGlyphSetBytes(data); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("ParseWithCache", func(b *testing.B) {
		cache := NewGlyphSetCache(10)
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, err := cache.ParseGlyphSet(data); err != nil {
				b.Fatal(err)
			}
		}
	})
}

// BenchmarkLRUEviction benchmarks a working set larger than the cache.
func BenchmarkLRUEviction(b *testing.B) {
	cache := NewGlyphSetCache(3)
	v := variants(b, 10)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = cache.ParseGlyphSet(v[i%len(v)])
	}

	stats := cache.Stats()
	b.ReportMetric(float64(stats.Evictions), "evictions")
}
