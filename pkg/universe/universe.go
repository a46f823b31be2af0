// Package universe holds the fixed set of known entities and the canonical
// unordered pairs formed over them.
package universe

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

var (
	ErrSelfPair      = errors.New("entity cannot pair with itself")
	ErrEmptyEntity   = errors.New("empty entity identifier")
	ErrUnknownEntity = errors.New("entity not in universe")
)

// PairKey is an unordered pair of distinct entities. The fields are
// unexported so a key can only come from Canon, which orders them once.
type PairKey struct {
	a, b string
}

// Canon builds the canonical key for {a, b}: (A,B) and (B,A) give the same key.
func Canon(a, b string) (PairKey, error) {
	if a == "" || b == "" {
		return PairKey{}, ErrEmptyEntity
	}
	if a == b {
		return PairKey{}, fmt.Errorf("%w: %q", ErrSelfPair, a)
	}
	if b < a {
		a, b = b, a
	}
	return PairKey{a: a, b: b}, nil
}

func (k PairKey) First() string  { return k.a }
func (k PairKey) Second() string { return k.b }

// IsZero reports whether k was never built by Canon.
func (k PairKey) IsZero() bool { return k.a == "" && k.b == "" }

func (k PairKey) String() string { return k.a + "-" + k.b }

// Universe is an immutable, sorted set of entity identifiers.
type Universe struct {
	ids      []string
	position map[string]int
}

// New builds a universe from ids. Duplicates collapse; empty ids are rejected.
func New(ids []string) (*Universe, error) {
	seen := make(map[string]struct{}, len(ids))
	sorted := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			return nil, ErrEmptyEntity
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	position := make(map[string]int, len(sorted))
	for i, id := range sorted {
		position[id] = i
	}
	return &Universe{ids: sorted, position: position}, nil
}

// LoadCSV reads entity identifiers from the first column of a CSV with a
// header row.
func LoadCSV(r io.Reader) (*Universe, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var ids []string
	header := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read entities: %w", err)
		}
		if header {
			header = false
			continue
		}
		if len(record) == 0 {
			continue
		}
		id := strings.TrimSpace(record[0])
		if id == "" {
			continue
		}
		ids = append(ids, id)
	}
	return New(ids)
}

// Len returns the number of entities.
func (u *Universe) Len() int { return len(u.ids) }

// IDs returns a copy of the sorted identifiers.
func (u *Universe) IDs() []string {
	out := make([]string, len(u.ids))
	copy(out, u.ids)
	return out
}

func (u *Universe) Contains(id string) bool {
	_, ok := u.position[id]
	return ok
}

// PairCount returns C(n,2).
func (u *Universe) PairCount() int {
	n := len(u.ids)
	return n * (n - 1) / 2
}

// Index maps a canonical pair to its dense slot in [0, PairCount()).
// Slots follow the lexicographic order of Pairs.
func (u *Universe) Index(k PairKey) (int, error) {
	i, ok := u.position[k.a]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownEntity, k.a)
	}
	j, ok := u.position[k.b]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownEntity, k.b)
	}
	if i >= j {
		// Canon guarantees a < b, and the universe is sorted the same way.
		return 0, fmt.Errorf("non-canonical pair %s", k)
	}
	n := len(u.ids)
	return i*n - i*(i+1)/2 + (j - i - 1), nil
}

// Pairs enumerates every canonical pair exactly once, in slot order.
func (u *Universe) Pairs() []PairKey {
	pairs := make([]PairKey, 0, u.PairCount())
	for i := 0; i < len(u.ids)-1; i++ {
		for j := i + 1; j < len(u.ids); j++ {
			pairs = append(pairs, PairKey{a: u.ids[i], b: u.ids[j]})
		}
	}
	return pairs
}

// Same reports whether two universes hold the same identifiers.
func (u *Universe) Same(other *Universe) bool {
	if u == other {
		return true
	}
	if u == nil || other == nil || len(u.ids) != len(other.ids) {
		return false
	}
	for i := range u.ids {
		if u.ids[i] != other.ids[i] {
			return false
		}
	}
	return true
}
