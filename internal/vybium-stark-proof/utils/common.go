package utils

import "math/bits"

// IsPowerOfTwo checks if a number is a power of 2
func IsPowerOfTwo(n uint64) bool {
	return n > 0 && (n&(n-1)) == 0
}

// Ilog2 returns floor(log2(n)); n must be positive.
func Ilog2(n uint64) uint32 {
	if n == 0 {
		panic("utils: Ilog2 of zero")
	}
	return uint32(63 - bits.LeadingZeros64(n))
}

// Log2 computes the base-2 logarithm of a power of 2, or -1 if n is not one
func Log2(n uint64) int {
	if !IsPowerOfTwo(n) {
		return -1
	}
	return int(Ilog2(n))
}

// BitLength returns the number of significant bits in a little-endian byte string.
func BitLength(le []byte) uint32 {
	numBits := uint32(len(le)) * 8
	for i := len(le) - 1; i >= 0; i-- {
		if le[i] != 0 {
			return numBits - uint32(bits.LeadingZeros8(le[i]))
		}
		numBits -= 8
	}
	return 0
}
