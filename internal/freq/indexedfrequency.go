// Package freq implements IndexedFrequency, the tuple produced by the
// combinatorial enumerator and consumed by the multinomial allocator for the
// product and selection modes: an index vector identifying a joint cell
// (or k-subset), its joint probability, and its allocated frequency.
package freq

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// IndexedFrequency is one joint cell: the per-dimension index vector (or,
// in selection mode, the chosen k-subset of a single vector), its joint
// probability, and the frequency the allocator assigns to it.
type IndexedFrequency struct {
	Indices     []int
	Probability float64
	Frequency   float64
}

// Clone returns a deep copy so callers can mutate the index slice of the
// result independently of the one stored in an ordered-map node.
func (f IndexedFrequency) Clone() IndexedFrequency {
	idx := make([]int, len(f.Indices))
	copy(idx, f.Indices)
	return IndexedFrequency{Indices: idx, Probability: f.Probability, Frequency: f.Frequency}
}

// Canonicalize sorts the index vector ascending in place. This is only
// meaningful in selection mode, where a k-subset's representative is the
// permutation with strictly increasing indices; product-mode index vectors
// are already dimension-ordered and must not be touched.
func (f *IndexedFrequency) Canonicalize() {
	sort.Ints(f.Indices)
}

// IsCanonicalSelection reports whether Indices is strictly increasing, the
// invariant required of a selection-mode representative.
func (f IndexedFrequency) IsCanonicalSelection() bool {
	for i := 1; i < len(f.Indices); i++ {
		if f.Indices[i] <= f.Indices[i-1] {
			return false
		}
	}
	return true
}

// LessByProbabilityDescending orders two IndexedFrequency values by
// probability descending, the ordering key the top-K enumerator's ordered
// map uses. Ties are broken by index-vector lexicographic order so the
// comparator stays a strict weak ordering (deterministic, never "equal"
// for distinct index vectors with equal probability).
func LessByProbabilityDescending(a, b IndexedFrequency) bool {
	if a.Probability != b.Probability {
		return a.Probability > b.Probability
	}
	return lessIndices(a.Indices, b.Indices)
}

// SumFrequencies returns the total allocated frequency across cells, the
// invariant the enumerator's postcondition check and its callers verify
// against N.
func SumFrequencies(cells []IndexedFrequency) float64 {
	frequencies := make([]float64, len(cells))
	for i, c := range cells {
		frequencies[i] = c.Frequency
	}
	return floats.Sum(frequencies)
}

func lessIndices(a, b []int) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
