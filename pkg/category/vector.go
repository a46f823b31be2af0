package category

import "fmt"

// Vector holds one non-negative count per category.
type Vector []int64

func NewVector(n int) Vector {
	return make(Vector, n)
}

// Add adds other into v pointwise. Both vectors must have the same length.
func (v Vector) Add(other Vector) error {
	if len(v) != len(other) {
		return fmt.Errorf("%w: %d != %d", ErrVectorLength, len(v), len(other))
	}
	for i, c := range other {
		v[i] += c
	}
	return nil
}

func (v Vector) IsZero() bool {
	for _, c := range v {
		if c != 0 {
			return false
		}
	}
	return true
}

func (v Vector) Equal(other Vector) bool {
	if len(v) != len(other) {
		return false
	}
	for i := range v {
		if v[i] != other[i] {
			return false
		}
	}
	return true
}

func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Sum returns the total across all categories.
func (v Vector) Sum() int64 {
	var total int64
	for _, c := range v {
		total += c
	}
	return total
}
