// Package m3hash implements the seeded Murmur3 (x86_32) variants used to key
// glyph tables and to fingerprint frame buffers.
//
// Glyph tables are generated with these exact functions, so any change to the
// mixing steps breaks every lookup against previously generated data.
package m3hash

import "math/bits"

const (
	c1 uint32 = 0xcc9e2d51
	c2 uint32 = 0x1b873593
	n  uint32 = 0xe6546b64
)

func mix(h, k uint32) uint32 {
	k *= c1
	k = bits.RotateLeft32(k, 15)
	k *= c2
	h ^= k
	h = bits.RotateLeft32(h, 13)
	return h*5 + n
}

func finalize(h uint32) uint32 {
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	return h
}

// Cluster hashes at most limit leading Unicode scalar values of s, each one
// mixed as a single 32-bit block. It returns the hash and the number of UTF-8
// bytes of s the hashed scalar values occupy.
func Cluster(s string, seed uint32, limit int) (hash uint32, bytesHashed int) {
	h := seed
	count := 0
	bytesHashed = len(s)
	for i, r := range s {
		if count >= limit {
			bytesHashed = i
			break
		}
		h = mix(h, uint32(r))
		count++
	}
	h ^= uint32(bytesHashed)
	return finalize(h), bytesHashed
}

// FrameBuffer hashes every word of a pixel buffer. It is used to compare
// rendered output against previously recorded frames.
func FrameBuffer(words []uint32, seed uint32) uint32 {
	h := seed
	for _, w := range words {
		h = mix(h, w)
	}
	h ^= uint32(len(words))
	return finalize(h)
}
