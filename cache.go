package blitstr

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"sync/atomic"

	"github.com/ryanlewis/blitstr/internal/debug"
)

// GlyphSetCache provides thread-safe caching of parsed glyph sets for
// long-running applications. The least recently used set is evicted when
// the cache is full.
//
// Keys are file paths for LoadGlyphSet and "sha256:<hex>" content hashes
// for ParseGlyphSet, so identical bytes share one entry whatever their
// source.
type GlyphSetCache struct {
	mu        sync.RWMutex
	sets      map[string]*cacheEntry
	lru       *lruList
	maxSize   int
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type cacheEntry struct {
	key     string
	set     *GlyphSetData
	size    int64 // approximate memory size in bytes
	lruNode *lruNode
}

type lruNode struct {
	key  string
	prev *lruNode
	next *lruNode
}

type lruList struct {
	head *lruNode
	tail *lruNode
	size int
}

var (
	defaultCacheMu sync.RWMutex
	defaultCache   = NewGlyphSetCache(16)
)

// NewGlyphSetCache creates a cache holding at most maxSize glyph sets.
// A maxSize of 0 or less means unlimited.
func NewGlyphSetCache(maxSize int) *GlyphSetCache {
	return &GlyphSetCache{
		sets:    make(map[string]*cacheEntry),
		lru:     &lruList{},
		maxSize: maxSize,
	}
}

func cacheDefault() *GlyphSetCache {
	defaultCacheMu.RLock()
	defer defaultCacheMu.RUnlock()
	return defaultCache
}

// LoadGlyphSetCached loads a glyph-set file through the default cache.
func LoadGlyphSetCached(filePath string, opts ...Option) (*GlyphSetData, error) {
	return cacheDefault().LoadGlyphSet(filePath, opts...)
}

// ParseGlyphSetCached parses glyph-set bytes through the default cache.
func ParseGlyphSetCached(data []byte, opts ...Option) (*GlyphSetData, error) {
	return cacheDefault().ParseGlyphSet(data, opts...)
}

// LoadGlyphSet loads a glyph-set file, returning the cached copy if the
// path was loaded before.
func (c *GlyphSetCache) LoadGlyphSet(filePath string, opts ...Option) (*GlyphSetData, error) {
	if d := c.get(filePath); d != nil {
		emitCacheHit(d, filePath, opts)
		return d, nil
	}
	d, err := LoadGlyphSet(filePath, opts...)
	if err != nil {
		return nil, err
	}
	c.put(filePath, d)
	return d, nil
}

// ParseGlyphSet parses glyph-set bytes, returning the cached copy if the
// same content was parsed before.
func (c *GlyphSetCache) ParseGlyphSet(data []byte, opts ...Option) (*GlyphSetData, error) {
	hash := sha256.Sum256(data)
	key := "sha256:" + hex.EncodeToString(hash[:])

	if d := c.get(key); d != nil {
		emitCacheHit(d, key, opts)
		return d, nil
	}
	d, err := ParseGlyphSetBytes(data, opts...)
	if err != nil {
		return nil, err
	}
	c.put(key, d)
	return d, nil
}

func emitCacheHit(d *GlyphSetData, source string, opts []Option) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	o.session.Emit("load", "GlyphSet", debug.GlyphSetLoadData{
		Name:     d.Name(),
		Source:   source,
		CacheHit: true,
	})
}

// get takes the read lock for the lookup and the write lock only to move
// a hit to the front of the LRU list.
func (c *GlyphSetCache) get(key string) *GlyphSetData {
	c.mu.RLock()
	entry, exists := c.sets[key]
	c.mu.RUnlock()

	if !exists {
		c.misses.Add(1)
		return nil
	}

	c.mu.Lock()
	// The entry may have been evicted or cleared between the two locks.
	if cur, ok := c.sets[key]; ok && cur == entry {
		c.lru.moveToFront(entry.lruNode)
	}
	c.mu.Unlock()

	c.hits.Add(1)
	return entry.set
}

func (c *GlyphSetCache) put(key string, d *GlyphSetData) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.sets[key]; exists {
		return
	}
	if c.maxSize > 0 && len(c.sets) >= c.maxSize {
		c.evictLRU()
	}
	node := c.lru.pushFront(key)
	c.sets[key] = &cacheEntry{
		key:     key,
		set:     d,
		size:    estimateGlyphSetSize(d),
		lruNode: node,
	}
}

func (c *GlyphSetCache) evictLRU() {
	if c.lru.tail == nil {
		return
	}
	key := c.lru.tail.key
	delete(c.sets, key)
	c.lru.remove(c.lru.tail)
	c.evictions.Add(1)
}

// Clear removes every glyph set from the cache.
func (c *GlyphSetCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sets = make(map[string]*cacheEntry)
	c.lru = &lruList{}
}

// Stats returns cache statistics.
func (c *GlyphSetCache) Stats() CacheStats {
	c.mu.RLock()
	size := len(c.sets)
	var bytes int64
	for _, e := range c.sets {
		bytes += e.size
	}
	c.mu.RUnlock()

	return CacheStats{
		Size:      size,
		MaxSize:   c.maxSize,
		Bytes:     bytes,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

// CacheStats contains cache performance statistics
type CacheStats struct {
	Size      int    // Current number of cached glyph sets
	MaxSize   int    // Maximum cache size
	Bytes     int64  // Approximate memory held by cached sets
	Hits      uint64 // Number of cache hits
	Misses    uint64 // Number of cache misses
	Evictions uint64 // Number of evictions
}

// HitRate returns the cache hit rate as a percentage (0-100)
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) * 100 / float64(total)
}

// estimateGlyphSetSize counts the data words and index entries, 4 bytes
// per word and 8 per key/offset pair, plus the comment text.
func estimateGlyphSetSize(d *GlyphSetData) int64 {
	if d == nil {
		return 0
	}
	size := int64(100)
	size += int64(d.Words()) * 4
	size += int64(d.Entries()) * 8
	for _, c := range d.comments {
		size += int64(len(c))
	}
	return size
}

func (l *lruList) pushFront(key string) *lruNode {
	node := &lruNode{key: key}
	if l.head == nil {
		l.head = node
		l.tail = node
	} else {
		node.next = l.head
		l.head.prev = node
		l.head = node
	}
	l.size++
	return node
}

func (l *lruList) moveToFront(node *lruNode) {
	if node == l.head {
		return
	}
	if node.prev != nil {
		node.prev.next = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	}
	if node == l.tail {
		l.tail = node.prev
	}
	node.prev = nil
	node.next = l.head
	l.head.prev = node
	l.head = node
}

func (l *lruList) remove(node *lruNode) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	l.size--
}

// SetDefaultCacheSize replaces the default cache with an empty one of the
// given size.
func SetDefaultCacheSize(maxSize int) {
	defaultCacheMu.Lock()
	defer defaultCacheMu.Unlock()
	defaultCache = NewGlyphSetCache(maxSize)
}

// ClearDefaultCache clears the default cache.
func ClearDefaultCache() {
	cacheDefault().Clear()
}

// DefaultCacheStats returns statistics for the default cache.
func DefaultCacheStats() CacheStats {
	return cacheDefault().Stats()
}
