package index

import (
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
)

// HashFunc turns a key into an unsigned integer hash. Implementations must
// be deterministic: equal keys hash to the same value for the lifetime of
// the function. A HashFunc must not mutate anything.
type HashFunc[K comparable] func(key K) uint64

// DefaultHash builds a HashFunc backed by hash/maphash with a fresh seed.
// Hashes are stable for the lifetime of the returned function but differ
// between builds, so they are not suitable for persistence.
func DefaultHash[K comparable]() HashFunc[K] {
	seed := maphash.MakeSeed()
	return func(key K) uint64 {
		return maphash.Comparable(seed, key)
	}
}

// StringHash hashes a string with xxHash (64-bit). Unlike DefaultHash, the
// result is stable across processes and runs.
func StringHash(key string) uint64 {
	return xxhash.Sum64String(key)
}

// BytesHash hashes a byte slice with xxHash (64-bit). The result is stable
// across processes and runs.
func BytesHash(key []byte) uint64 {
	return xxhash.Sum64(key)
}
