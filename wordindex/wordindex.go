// Package wordindex builds a word-location index over a text stream using
// the index package, and answers single-word frequency queries. It exists
// as a demonstration consumer of the container's public contract.
package wordindex

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	index "github.com/gz/Index"
)

// Location records one occurrence of a word: the 1-based line number and
// the name of the file it was read from.
type Location struct {
	Line int
	File string
}

// Index maps lowercased words to every location they occur at.
type Index = index.Index[string, []Location]

// New returns an empty word index. It starts at capacity 1 so the table
// exercises its growth path, and hashes with StringHash so word hashes are
// stable across runs.
func New() *Index {
	return index.NewWithParams[string, []Location](1, index.Params[string]{
		MaxLoad:      index.DefaultMaxLoad,
		GrowthPolicy: index.DefaultGrowthPolicy,
		Hash:         index.StringHash,
		Probe:        index.QuadraticProbing,
	})
}

// Build reads r line by line, tokenizes each line on non-alphanumeric
// boundaries, lowercases every token and records its location under
// filename. It returns the populated index and the number of lines read.
func Build(r io.Reader, filename string) (*Index, int, error) {
	ix := New()

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		words := strings.FieldsFunc(sc.Text(), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, word := range words {
			word = strings.ToLower(word)
			loc := Location{Line: line, File: filename}

			if ref, ok := ix.GetMut(word); ok {
				ref.Set(append(ref.Value(), loc))
				// The borrow must end before any insert can grow the table.
				ref.Release()
			} else {
				ix.Insert(word, []Location{loc})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, line, fmt.Errorf("reading %s at line %d: %w", filename, line+1, err)
	}

	return ix, line, nil
}

// Count reports how many times word occurs in the index, and whether it
// occurs at all.
func Count(ix *Index, word string) (int, bool) {
	ref, ok := ix.Get(word)
	if !ok {
		return 0, false
	}
	defer ref.Release()
	return len(ref.Value()), true
}

// Locations returns a copy of every recorded occurrence of word, in the
// order the occurrences were read.
func Locations(ix *Index, word string) []Location {
	ref, ok := ix.Get(word)
	if !ok {
		return nil
	}
	defer ref.Release()
	locs := make([]Location, len(ref.Value()))
	copy(locs, ref.Value())
	return locs
}
