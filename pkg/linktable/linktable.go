// Package linktable accumulates category vectors per canonical entity pair.
//
// A Table is allocated once over the full pair domain of a universe; every
// pair exists from the start with a zero vector and entries only ever grow by
// addition. Tables built over the same universe and category count can be
// merged by pointwise summation, which is how partitioned runs are reduced.
package linktable

import (
	"errors"
	"fmt"

	"github.com/dtnitsch/citylink/pkg/category"
	"github.com/dtnitsch/citylink/pkg/universe"
)

var (
	// ErrOutOfDomain means a pair key is not part of the table's universe.
	// The entity universe and entity extraction are out of sync; callers
	// must treat it as fatal.
	ErrOutOfDomain    = errors.New("pair key outside link table domain")
	ErrVectorLength   = errors.New("vector length does not match table categories")
	ErrDomainMismatch = errors.New("link tables cover different domains")
)

// Table is a dense arena of PairCount()*N counters. It is not safe for
// concurrent mutation; each worker owns its own Table.
type Table struct {
	universe *universe.Universe
	n        int
	counts   []int64
}

// New allocates a zeroed table over every pair of u with n categories.
func New(u *universe.Universe, n int) *Table {
	return &Table{
		universe: u,
		n:        n,
		counts:   make([]int64, u.PairCount()*n),
	}
}

func (t *Table) Universe() *universe.Universe { return t.universe }

// N returns the number of categories per pair.
func (t *Table) N() int { return t.n }

// Len returns the number of pairs in the domain.
func (t *Table) Len() int { return t.universe.PairCount() }

func (t *Table) slot(key universe.PairKey) (int, error) {
	idx, err := t.universe.Index(key)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrOutOfDomain, key, err)
	}
	return idx * t.n, nil
}

// Add pointwise-adds v into the entry for key.
func (t *Table) Add(key universe.PairKey, v category.Vector) error {
	if len(v) != t.n {
		return fmt.Errorf("%w: got %d, want %d", ErrVectorLength, len(v), t.n)
	}
	off, err := t.slot(key)
	if err != nil {
		return err
	}
	for i, c := range v {
		t.counts[off+i] += c
	}
	return nil
}

// AddDocument adds v to every unordered pair of the given distinct entities,
// each pair exactly once. A document naming k entities touches C(k,2) pairs.
// Keys are validated before any counter changes, so a failed call leaves the
// table untouched.
func (t *Table) AddDocument(entities []string, v category.Vector) (int, error) {
	if len(v) != t.n {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrVectorLength, len(v), t.n)
	}
	offsets := make([]int, 0, len(entities)*(len(entities)-1)/2)
	for i := 0; i < len(entities)-1; i++ {
		for j := i + 1; j < len(entities); j++ {
			key, err := universe.Canon(entities[i], entities[j])
			if err != nil {
				return 0, fmt.Errorf("%w: %v", ErrOutOfDomain, err)
			}
			off, err := t.slot(key)
			if err != nil {
				return 0, err
			}
			offsets = append(offsets, off)
		}
	}
	for _, off := range offsets {
		for i, c := range v {
			t.counts[off+i] += c
		}
	}
	return len(offsets), nil
}

// Get returns a copy of the vector for key.
func (t *Table) Get(key universe.PairKey) (category.Vector, error) {
	off, err := t.slot(key)
	if err != nil {
		return nil, err
	}
	v := category.NewVector(t.n)
	copy(v, t.counts[off:off+t.n])
	return v, nil
}

func (t *Table) compatible(other *Table) error {
	if t.n != other.n || !t.universe.Same(other.universe) {
		return fmt.Errorf("%w: %d pairs x %d categories vs %d pairs x %d categories",
			ErrDomainMismatch, t.Len(), t.n, other.Len(), other.n)
	}
	return nil
}

// Merge adds every counter of other into t, over the whole shared domain,
// including pairs where other is zero.
func (t *Table) Merge(other *Table) error {
	if err := t.compatible(other); err != nil {
		return err
	}
	for i, c := range other.counts {
		t.counts[i] += c
	}
	return nil
}

// Equal reports whether both tables cover the same domain with identical counts.
func (t *Table) Equal(other *Table) bool {
	if t.compatible(other) != nil {
		return false
	}
	for i := range t.counts {
		if t.counts[i] != other.counts[i] {
			return false
		}
	}
	return true
}

func (t *Table) Clone() *Table {
	counts := make([]int64, len(t.counts))
	copy(counts, t.counts)
	return &Table{universe: t.universe, n: t.n, counts: counts}
}

// Each calls fn for every pair in canonical order. The vector passed to fn
// is a copy. Iteration stops at the first error fn returns.
func (t *Table) Each(fn func(key universe.PairKey, v category.Vector) error) error {
	for slot, key := range t.universe.Pairs() {
		off := slot * t.n
		v := category.NewVector(t.n)
		copy(v, t.counts[off:off+t.n])
		if err := fn(key, v); err != nil {
			return err
		}
	}
	return nil
}

// Totals sums the vectors of every pair.
func (t *Table) Totals() category.Vector {
	total := category.NewVector(t.n)
	for i, c := range t.counts {
		total[i%t.n] += c
	}
	return total
}
