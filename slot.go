package index

// borrowCell tracks how a single slot is currently aliased. A slot may be
// borrowed by any number of readers or by exactly one writer, never both.
// The check is a per-slot discipline, not a lock: a conflicting request is
// a programming error and panics immediately instead of blocking.
//
// States: 0 = free, n > 0 = n shared borrows, borrowedMut = one exclusive
// borrow.
type borrowCell struct {
	state int32
}

const borrowedMut int32 = -1

func (c *borrowCell) acquireShared() {
	if c.state == borrowedMut {
		panic("index: slot is already exclusively borrowed")
	}
	c.state++
}

func (c *borrowCell) releaseShared() {
	if c.state <= 0 {
		panic("index: release of a shared borrow that was never taken")
	}
	c.state--
}

func (c *borrowCell) acquireExclusive() {
	if c.state != 0 {
		if c.state == borrowedMut {
			panic("index: slot is already exclusively borrowed")
		}
		panic("index: slot has outstanding shared borrows")
	}
	c.state = borrowedMut
}

func (c *borrowCell) releaseExclusive() {
	if c.state != borrowedMut {
		panic("index: release of an exclusive borrow that was never taken")
	}
	c.state = 0
}

// slot is a single position in the backing array: either empty or occupied
// by a key-value pair. Transitions are empty -> occupied (insert),
// occupied -> occupied (overwrite) and occupied -> empty (clear, drain).
type slot[K comparable, V any] struct {
	cell     borrowCell
	occupied bool
	key      K
	value    V
}

func (s *slot[K, V]) reset() {
	var k K
	var v V
	s.key, s.value = k, v
	s.occupied = false
}

// Ref is a shared borrow of a single value inside an Index. It keeps the
// underlying slot readable but not writable until Release is called.
// Using a Ref after releasing it panics.
//
// A Ref must not be copied; release the one handle that was returned.
type Ref[V any] struct {
	v    *V
	cell *borrowCell
	pins *int
}

// Value returns the borrowed value.
func (r *Ref[V]) Value() V {
	if r.cell == nil {
		panic("index: use of released Ref")
	}
	return *r.v
}

// Release ends the borrow. Every Ref must be released before any operation
// that can restructure the table (Insert that grows, Resize, Clear, Drain).
func (r *Ref[V]) Release() {
	if r.cell == nil {
		panic("index: double release of Ref")
	}
	r.cell.releaseShared()
	*r.pins--
	r.cell = nil
}

// RefMut is an exclusive borrow of a single value inside an Index. No other
// borrow of the same slot may exist until Release is called. The borrow
// covers the value only; the key is not reachable through a RefMut.
//
// A RefMut must not be copied.
type RefMut[V any] struct {
	v    *V
	cell *borrowCell
	pins *int
}

// Value returns the borrowed value.
func (r *RefMut[V]) Value() V {
	if r.cell == nil {
		panic("index: use of released RefMut")
	}
	return *r.v
}

// Set overwrites the borrowed value in place.
func (r *RefMut[V]) Set(v V) {
	if r.cell == nil {
		panic("index: use of released RefMut")
	}
	*r.v = v
}

// Release ends the borrow.
func (r *RefMut[V]) Release() {
	if r.cell == nil {
		panic("index: double release of RefMut")
	}
	r.cell.releaseExclusive()
	*r.pins--
	r.cell = nil
}

// EntryRef is a shared borrow of a full key-value pair inside an Index.
// An EntryRef must not be copied.
type EntryRef[K comparable, V any] struct {
	s    *slot[K, V]
	pins *int
}

// Key returns the borrowed entry's key.
func (r *EntryRef[K, V]) Key() K {
	if r.s == nil {
		panic("index: use of released EntryRef")
	}
	return r.s.key
}

// Value returns the borrowed entry's value.
func (r *EntryRef[K, V]) Value() V {
	if r.s == nil {
		panic("index: use of released EntryRef")
	}
	return r.s.value
}

// Release ends the borrow.
func (r *EntryRef[K, V]) Release() {
	if r.s == nil {
		panic("index: double release of EntryRef")
	}
	r.s.cell.releaseShared()
	*r.pins--
	r.s = nil
}
