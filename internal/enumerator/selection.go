package enumerator

import (
	"errors"

	"github.com/kdinterpret/kdinterpret/internal/allocator"
	"github.com/kdinterpret/kdinterpret/internal/freq"
	"github.com/kdinterpret/kdinterpret/internal/ordered"
	"github.com/kdinterpret/kdinterpret/internal/randperturb"
)

// ErrInvalidSelectionSize is returned when k is out of [1, len(p)].
var ErrInvalidSelectionSize = errors.New("enumerator: selection size must be in [1, len(p)]")

// ComputeBestSelectionCells computes the MAP sample for selecting k
// distinct values out of one probability vector p, under the law
// P(selection) = k! * p_1 * p_2 * ... * p_k. Each
// returned cell's Indices is the canonical (strictly increasing) k-subset
// representative, so permutations of the same subset are never counted
// twice.
func ComputeBestSelectionCells(n float64, k int, p []float64) ([]freq.IndexedFrequency, error) {
	if n < 0 {
		return nil, allocator.ErrNegativeFrequency
	}
	if k <= 0 || k > len(p) {
		return nil, ErrInvalidSelectionSize
	}
	if !allocator.CheckPartialProbVector(p) {
		return nil, allocator.ErrInvalidProbVector
	}

	pert := randperturb.New()
	sorted := sortProbsDescending(p, pert)

	largestProb := 1.0
	for d := 0; d < k; d++ {
		largestProb *= sorted[d].value * float64(d+1)
	}
	if largestProb <= dblMin {
		return []freq.IndexedFrequency{}, nil
	}

	candidates := ordered.New(freq.LessByProbabilityDescending)
	current := freq.IndexedFrequency{Indices: make([]int, k), Probability: 1.0}
	searchSelectionDim(n, k, sorted, 0, 0, largestProb, current, candidates)

	cells := drainCandidatesByProbability(candidates)
	return allocateCells(n, cells)
}

// searchSelectionDim recursively extends the current k-subset one position
// at a time, restricting each new element's start index to just past the
// previous one so that every subset is visited exactly once regardless of
// permutation, then prunes and bounds exactly as the product search does.
func searchSelectionDim(n float64, k int, sorted []sortedProb, dim, startIndex int, largestProb float64, current freq.IndexedFrequency, candidates *ordered.OrderedMap[freq.IndexedFrequency]) {
	baseProb := current.Probability
	lastIndex := len(sorted) - (k - 1 - dim)
	for i := startIndex; i < lastIndex; i++ {
		sp := sorted[i]
		current.Indices[dim] = sp.index
		current.Probability = baseProb * sp.value * float64(dim+1)

		if bounded(current.Probability, n, largestProb, candidates.Size()) {
			break
		}

		if dim == k-1 {
			clone := current.Clone()
			clone.Canonicalize()
			candidates.Insert(clone)
			if tail, ok := candidates.Tail(); ok && bounded(tail.Probability, n, largestProb, candidates.Size()) {
				candidates.PopTail()
			}
		} else {
			searchSelectionDim(n, k, sorted, dim+1, i+1, largestProb, current, candidates)
		}

		if float64(candidates.Size()) >= n {
			break
		}
	}
}
