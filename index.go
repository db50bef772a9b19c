// Package index implements a generic associative container built on open
// addressing: all entries live directly in a fixed-size slot array and
// collisions are resolved by probing alternate slots. Hashing, probing,
// maximum load factor and growth policy are all pluggable through Params.
//
// Index is not safe for concurrent use. What it does enforce, at runtime,
// is per-slot aliasing: any number of shared borrows or exactly one
// exclusive borrow may exist into a slot at a time, and a violation panics
// at the offending call site.
package index

import (
	"fmt"
	"strings"
)

const (
	// DefaultMaxLoad is the load factor threshold that triggers a resize
	// during insertion.
	DefaultMaxLoad = 0.7
	// DefaultGrowthPolicy is the ratio by which capacity grows once
	// DefaultMaxLoad is reached.
	DefaultGrowthPolicy = 2.0

	// defaultInitialCapacity is used when a requested capacity is zero;
	// the table never has capacity zero.
	defaultInitialCapacity = 1
)

// ProbeFunc maps a hash and an attempt counter to a candidate position.
// The engine reduces the result modulo the current capacity, so a probe
// sequence probe(h, 0), probe(h, 1), ... should, for a compatible capacity,
// eventually enumerate every position. Quadratic probing does not do so for
// arbitrary capacities; see the note on QuadraticProbing.
type ProbeFunc func(hash, attempt uint64) uint64

// QuadraticProbing is the default probing policy: hash + i + i*i.
//
// Note: quadratic probing only visits all positions for particular
// capacities. For incompatible capacities some slots stay unreachable from
// a given hash, in which case a lookup can exhaust its probe budget with
// free slots still present and an insert responds by growing the table.
func QuadraticProbing(hash, i uint64) uint64 {
	return hash + i + i*i
}

// LinearProbing probes consecutive positions: hash + i. It reaches every
// position for any capacity, at the price of primary clustering.
func LinearProbing(hash, i uint64) uint64 {
	return hash + i
}

// Params bundles the tunables of an Index. All fields are required when
// passed to NewWithParams; DefaultParams returns the documented defaults.
// An Index keeps its own copy, replaced only by rebuilding the table.
type Params[K comparable] struct {
	// MaxLoad is the maximum load factor accepted before the table is
	// resized. Default is 0.7.
	MaxLoad float64

	// GrowthPolicy is the ratio by which capacity is grown. Default is 2.
	// Values <= 1 are not validated here; an insert that needs room panics
	// as soon as growing fails to increase capacity.
	GrowthPolicy float64

	// Hash produces the hash for a key. Default is DefaultHash.
	Hash HashFunc[K]

	// Probe is the open addressing probing policy. Default is
	// QuadraticProbing.
	Probe ProbeFunc
}

// DefaultParams returns the default tunables: MaxLoad 0.7, GrowthPolicy 2,
// a fresh DefaultHash and QuadraticProbing.
func DefaultParams[K comparable]() Params[K] {
	return Params[K]{
		MaxLoad:      DefaultMaxLoad,
		GrowthPolicy: DefaultGrowthPolicy,
		Hash:         DefaultHash[K](),
		Probe:        QuadraticProbing,
	}
}

// Entry is a key-value pair, as returned by Insert for a replaced entry.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Index is a keyed store backed by a single slot array. Collisions are
// resolved through open addressing with quadratic probing by default;
// linear probing or any other policy can be set through Params.
//
// The zero value is not usable; construct with New, NewWithCapacity or
// NewWithParams. An Index must not be copied after first use.
type Index[K comparable, V any] struct {
	params   Params[K]
	capacity int
	len      int
	table    []slot[K, V]

	// pins counts outstanding Ref/RefMut/EntryRef handles. Operations that
	// can restructure the table refuse to run while any handle is live.
	pins int
}

// New creates an empty Index with capacity 1 and default Params.
func New[K comparable, V any]() *Index[K, V] {
	return NewWithCapacity[K, V](defaultInitialCapacity)
}

// NewWithCapacity creates an empty Index with the given capacity and
// default Params. A capacity of zero is coerced to 1.
func NewWithCapacity[K comparable, V any](capacity int) *Index[K, V] {
	return NewWithParams[K, V](capacity, DefaultParams[K]())
}

// NewWithParams creates an empty Index with the given capacity and
// tunables. A capacity of zero is coerced to 1. All Params fields must be
// set; a nil Hash or Probe panics.
func NewWithParams[K comparable, V any](capacity int, params Params[K]) *Index[K, V] {
	if params.Hash == nil {
		panic("index: Params.Hash must not be nil")
	}
	if params.Probe == nil {
		panic("index: Params.Probe must not be nil")
	}
	if capacity < 1 {
		capacity = defaultInitialCapacity
	}
	return &Index[K, V]{
		params:   params,
		capacity: capacity,
		table:    make([]slot[K, V], capacity),
	}
}

// Capacity returns the number of slots in the backing array.
func (ix *Index[K, V]) Capacity() int {
	return ix.capacity
}

// Len returns the number of entries in the Index.
func (ix *Index[K, V]) Len() int {
	return ix.len
}

// IsEmpty reports whether the Index contains no entries.
func (ix *Index[K, V]) IsEmpty() bool {
	return ix.len == 0
}

// LoadFactor returns the current ratio of entries to capacity.
func (ix *Index[K, V]) LoadFactor() float64 {
	return float64(ix.len) / float64(ix.capacity)
}

// MaxLoad returns the load factor threshold that triggers a resize.
func (ix *Index[K, V]) MaxLoad() float64 {
	return ix.params.MaxLoad
}

// GrowthPolicy returns the ratio by which capacity is grown.
func (ix *Index[K, V]) GrowthPolicy() float64 {
	return ix.params.GrowthPolicy
}

// find scans probe positions probe(hash, 0), probe(hash, 1), ... modulo
// capacity, for at most capacity attempts. Outcomes:
//
//   - pos >= 0, hit true: the first occupied slot whose key satisfies match.
//   - pos >= 0, hit false: the first empty slot, the insertion point.
//   - pos == -1: no usable slot within capacity attempts. Only possible on
//     a degenerate probe/capacity pairing or a completely full table.
//
// Each occupied slot examined is read under a transient shared borrow, so
// probing across a slot that is exclusively borrowed panics.
func (ix *Index[K, V]) find(hash uint64, match func(K) bool) (pos int, hit bool) {
	for i := uint64(0); i < uint64(ix.capacity); i++ {
		p := int(ix.params.Probe(hash, i) % uint64(ix.capacity))

		s := &ix.table[p]
		if !s.occupied {
			return p, false
		}
		s.cell.acquireShared()
		ok := match(s.key)
		s.cell.releaseShared()
		if ok {
			return p, true
		}
	}
	return -1, false
}

// Insert adds a key-value pair to the Index. If the key is already present
// its slot is overwritten in place and the previous pair is returned with
// replaced true; otherwise the pair lands in the first empty probe position
// and replaced is false.
//
// The load factor is checked before anything is written: at or above
// MaxLoad the table grows first. If the probe sequence cannot reach any
// usable slot, the table grows and the lookup is retried; every retry must
// strictly increase capacity or Insert panics, so a growth policy <= 1
// surfaces as a fault instead of a livelock.
func (ix *Index[K, V]) Insert(key K, value V) (prev Entry[K, V], replaced bool) {
	hash := ix.params.Hash(key)

	if ix.LoadFactor() >= ix.params.MaxLoad {
		ix.grow()
	}

	for {
		pos, hit := ix.find(hash, func(k K) bool { return k == key })
		if pos >= 0 {
			s := &ix.table[pos]
			s.cell.acquireExclusive()
			if hit {
				prev = Entry[K, V]{Key: s.key, Value: s.value}
			}
			s.key, s.value = key, value
			s.occupied = true
			s.cell.releaseExclusive()
			if !hit {
				ix.len++
			}
			return prev, hit
		}

		before := ix.capacity
		ix.grow()
		if ix.capacity <= before {
			panic(fmt.Sprintf(
				"index: growth policy %v failed to increase capacity beyond %d",
				ix.params.GrowthPolicy, before))
		}
	}
}

// Get returns a shared borrow of the value associated with key. The second
// return is false when the key is absent. The returned Ref must be
// released before the table can be restructured.
func (ix *Index[K, V]) Get(key K) (Ref[V], bool) {
	hash := ix.params.Hash(key)
	pos, hit := ix.find(hash, func(k K) bool { return k == key })
	if !hit {
		return Ref[V]{}, false
	}
	s := &ix.table[pos]
	s.cell.acquireShared()
	ix.pins++
	return Ref[V]{v: &s.value, cell: &s.cell, pins: &ix.pins}, true
}

// GetMut returns an exclusive borrow of the value associated with key. The
// second return is false when the key is absent. Only the value is
// reachable through the borrow; the key cannot be modified. The returned
// RefMut must be released before any other access to the same slot.
func (ix *Index[K, V]) GetMut(key K) (RefMut[V], bool) {
	hash := ix.params.Hash(key)
	pos, hit := ix.find(hash, func(k K) bool { return k == key })
	if !hit {
		return RefMut[V]{}, false
	}
	s := &ix.table[pos]
	s.cell.acquireExclusive()
	ix.pins++
	return RefMut[V]{v: &s.value, cell: &s.cell, pins: &ix.pins}, true
}

// GetEntry returns a shared borrow of the full key-value pair associated
// with key. The second return is false when the key is absent.
func (ix *Index[K, V]) GetEntry(key K) (EntryRef[K, V], bool) {
	hash := ix.params.Hash(key)
	pos, hit := ix.find(hash, func(k K) bool { return k == key })
	if !hit {
		return EntryRef[K, V]{}, false
	}
	s := &ix.table[pos]
	s.cell.acquireShared()
	ix.pins++
	return EntryRef[K, V]{s: s, pins: &ix.pins}, true
}

// Clear resets every slot to empty and the length to zero. Capacity is
// unchanged. O(capacity).
func (ix *Index[K, V]) Clear() {
	ix.exclusive("Clear")
	clear(ix.table)
	ix.len = 0
}

// Resize rebuilds the Index with the given capacity (coerced to >= 1) and
// the same Params, re-inserting every entry so that each key's probe
// sequence is recomputed against the new capacity. A new capacity too
// small for the current entries simply grows again during re-insertion.
func (ix *Index[K, V]) Resize(newCapacity int) {
	ix.exclusive("Resize")

	fresh := NewWithParams[K, V](newCapacity, ix.params)
	for k, v := range ix.Drain() {
		fresh.Insert(k, v)
	}
	*ix = *fresh
}

// grow multiplies capacity by the growth policy and rebuilds. Growth is
// unconditional once triggered; whether the product actually relieves the
// load is up to the configured policy.
func (ix *Index[K, V]) grow() {
	ix.Resize(int(float64(ix.capacity) * ix.params.GrowthPolicy))
}

// exclusive panics if any borrow handle is still live. Operations that can
// replace or rewrite the slot array require the whole engine, not just a
// slot.
func (ix *Index[K, V]) exclusive(op string) {
	if ix.pins != 0 {
		panic("index: " + op + " with outstanding borrows")
	}
}

// String renders the configuration, capacity, length and every slot for
// debugging. The format is not stable and not meant to be parsed.
func (ix *Index[K, V]) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Index{maxLoad: %v, growthPolicy: %v, capacity: %d, len: %d, table: [",
		ix.params.MaxLoad, ix.params.GrowthPolicy, ix.capacity, ix.len)
	for i := range ix.table {
		s := &ix.table[i]
		if s.occupied {
			fmt.Fprintf(&b, "\n\t%d: (%v, %v),", i, s.key, s.value)
		} else {
			fmt.Fprintf(&b, "\n\t%d: <empty>,", i)
		}
	}
	b.WriteString("\n]}")
	return b.String()
}
