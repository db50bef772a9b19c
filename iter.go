package index

// The iteration suite. Every iterator is a lazy, finite, single pass over
// the slot array in physical slot order, skipping empty slots. Ordering
// therefore follows capacity-index order, not insertion order.
//
// The per-slot borrow is held for the duration of each yield: shared for
// Keys, Values and All, exclusive for ValuesMut, AllMut and Drain. Code in
// the loop body that conflicts with that borrow (for example inserting a
// colliding key while iterating) panics, the same way any other aliasing
// violation does.

// Keys iterates over the keys of the Index.
func (ix *Index[K, V]) Keys() func(yield func(K) bool) {
	return func(yield func(K) bool) {
		for i := range ix.table {
			s := &ix.table[i]
			if !s.occupied {
				continue
			}
			s.cell.acquireShared()
			ok := yield(s.key)
			s.cell.releaseShared()
			if !ok {
				return
			}
		}
	}
}

// Values iterates over the values of the Index.
func (ix *Index[K, V]) Values() func(yield func(V) bool) {
	return func(yield func(V) bool) {
		for i := range ix.table {
			s := &ix.table[i]
			if !s.occupied {
				continue
			}
			s.cell.acquireShared()
			ok := yield(s.value)
			s.cell.releaseShared()
			if !ok {
				return
			}
		}
	}
}

// ValuesMut iterates over pointers to the values of the Index so the loop
// body can overwrite them in place. Each slot is exclusively borrowed while
// its value is yielded.
func (ix *Index[K, V]) ValuesMut() func(yield func(*V) bool) {
	return func(yield func(*V) bool) {
		for i := range ix.table {
			s := &ix.table[i]
			if !s.occupied {
				continue
			}
			s.cell.acquireExclusive()
			ok := yield(&s.value)
			s.cell.releaseExclusive()
			if !ok {
				return
			}
		}
	}
}

// All iterates over the key-value pairs of the Index.
func (ix *Index[K, V]) All() func(yield func(K, V) bool) {
	return func(yield func(K, V) bool) {
		for i := range ix.table {
			s := &ix.table[i]
			if !s.occupied {
				continue
			}
			s.cell.acquireShared()
			ok := yield(s.key, s.value)
			s.cell.releaseShared()
			if !ok {
				return
			}
		}
	}
}

// AllMut iterates over the key-value pairs of the Index with a pointer to
// each value, so the loop body can overwrite values in place. Keys stay
// read-only: rewriting a key would corrupt its probe sequence.
func (ix *Index[K, V]) AllMut() func(yield func(K, *V) bool) {
	return func(yield func(K, *V) bool) {
		for i := range ix.table {
			s := &ix.table[i]
			if !s.occupied {
				continue
			}
			s.cell.acquireExclusive()
			ok := yield(s.key, &s.value)
			s.cell.releaseExclusive()
			if !ok {
				return
			}
		}
	}
}

// Drain iterates over the key-value pairs of the Index, moving them out:
// before each pair is yielded its slot is reset to empty and the length is
// decremented. A fully consumed Drain leaves the Index empty with its
// capacity intact. Breaking out early keeps the not-yet-visited entries.
func (ix *Index[K, V]) Drain() func(yield func(K, V) bool) {
	return func(yield func(K, V) bool) {
		ix.exclusive("Drain")
		for i := range ix.table {
			s := &ix.table[i]
			if !s.occupied {
				continue
			}
			s.cell.acquireExclusive()
			k, v := s.key, s.value
			s.reset()
			s.cell.releaseExclusive()
			ix.len--
			if !yield(k, v) {
				return
			}
		}
	}
}
