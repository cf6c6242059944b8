// Package simd provides word-at-a-time byte scanning used to delimit tokens
// inside large image buffers.
//
// The implementation uses SWAR (SIMD Within A Register): eight bytes are
// loaded into a uint64 and tested in parallel with bitwise arithmetic, so it
// runs on every platform without assembly.
package simd

import (
	"encoding/binary"
	"math/bits"
)

const (
	lo8 = 0x0101010101010101
	hi8 = 0x8080808080808080
)

// Memchr returns the index of the first instance of needle in haystack,
// or -1 if needle is not present in haystack.
//
// It is equivalent to bytes.IndexByte. Version tokens are terminated by a NUL
// byte, so the common call is Memchr(token, 0).
//
// Example:
//
//	haystack := []byte("4.0.3\x00\xff\xff")
//	end := simd.Memchr(haystack, 0)
//	// end == 5
func Memchr(haystack []byte, needle byte) int {
	n := len(haystack)

	// For small inputs, byte-by-byte is faster (no setup overhead)
	if n < 8 {
		for idx := 0; idx < n; idx++ {
			if haystack[idx] == needle {
				return idx
			}
		}
		return -1
	}

	// Broadcast needle to all 8 bytes: 0x42 -> 0x4242424242424242
	needleMask := uint64(needle) * lo8

	idx := 0
	for idx+8 <= n {
		chunk := binary.LittleEndian.Uint64(haystack[idx:])

		// Matching bytes become 0x00.
		xor := chunk ^ needleMask

		// Zero-byte detection (Hacker's Delight): the high bit of every byte
		// that was zero is set.
		if hasZero := (xor - lo8) & ^xor & hi8; hasZero != 0 {
			return idx + bits.TrailingZeros64(hasZero)/8
		}
		idx += 8
	}

	for ; idx < n; idx++ {
		if haystack[idx] == needle {
			return idx
		}
	}
	return -1
}
