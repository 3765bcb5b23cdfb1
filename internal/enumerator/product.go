package enumerator

import (
	"errors"

	"github.com/kdinterpret/kdinterpret/internal/allocator"
	"github.com/kdinterpret/kdinterpret/internal/freq"
	"github.com/kdinterpret/kdinterpret/internal/ordered"
	"github.com/kdinterpret/kdinterpret/internal/randperturb"
)

// ErrEmptyProbVectors is returned when no dimension is supplied.
var ErrEmptyProbVectors = errors.New("enumerator: at least one probability vector is required")

// ComputeBestMultipleProductCells computes the MAP sample for the product
// of len(probVectors) independent multinomial distributions: it
// enumerates the joint cells whose probability could receive a
// non-zero frequency, then allocates N individuals over the resulting
// probability vector. The returned cells are ordered by probability
// descending and carry zero-valued Frequency until allocation runs; cells
// that receive zero frequency are omitted entirely, mirroring the
// original's "only non-zero frequencies" contract.
func ComputeBestMultipleProductCells(n float64, probVectors [][]float64) ([]freq.IndexedFrequency, error) {
	if n < 0 {
		return nil, allocator.ErrNegativeFrequency
	}
	if len(probVectors) == 0 {
		return nil, ErrEmptyProbVectors
	}
	for _, p := range probVectors {
		if !allocator.CheckPartialProbVector(p) {
			return nil, allocator.ErrInvalidProbVector
		}
	}

	pert := randperturb.New()
	dims := make([][]sortedProb, len(probVectors))
	for d, p := range probVectors {
		dims[d] = sortProbsDescending(p, pert)
		if len(dims[d]) == 0 {
			return []freq.IndexedFrequency{}, nil
		}
	}

	largestProb := 1.0
	for _, dim := range dims {
		largestProb *= dim[0].value
	}
	if largestProb <= dblMin {
		return []freq.IndexedFrequency{}, nil
	}

	candidates := ordered.New(freq.LessByProbabilityDescending)
	current := freq.IndexedFrequency{Indices: make([]int, len(dims)), Probability: 1.0}
	searchProductDim(n, dims, 0, largestProb, current, candidates)

	cells := drainCandidatesByProbability(candidates)
	result, err := allocateCells(n, cells)
	if err != nil {
		return nil, err
	}
	if !CheckIndexedFrequencies(n, probVectors, result) {
		panic("enumerator: ComputeBestMultipleProductCells produced an invalid result")
	}
	return result, nil
}

// searchProductDim recursively walks dimension dim's descending probability
// list, maintaining the joint probability of the index vector fixed by
// outer dimensions in current. It prunes a branch — and everything after
// it, since probabilities only decrease — as soon as the joint probability,
// scaled by N+2 minus the number of kept cells, falls below the largest
// achievable joint probability (see bounded), and stops the whole
// dimension once enough joint cells have been kept to cover N individuals.
func searchProductDim(n float64, dims [][]sortedProb, dim int, largestProb float64, current freq.IndexedFrequency, candidates *ordered.OrderedMap[freq.IndexedFrequency]) {
	baseProb := current.Probability
	for _, sp := range dims[dim] {
		current.Indices[dim] = sp.index
		current.Probability = baseProb * sp.value

		if bounded(current.Probability, n, largestProb, candidates.Size()) {
			break
		}

		if dim == len(dims)-1 {
			candidates.Insert(current.Clone())
			if tail, ok := candidates.Tail(); ok && bounded(tail.Probability, n, largestProb, candidates.Size()) {
				candidates.PopTail()
			}
		} else {
			searchProductDim(n, dims, dim+1, largestProb, current, candidates)
		}

		if float64(candidates.Size()) >= n {
			break
		}
	}
}

// allocateCells runs the allocator over the joint probabilities of cells
// and copies the resulting per-cell frequencies back in, matching each
// cell up with its allocator-assigned share of N.
func allocateCells(n float64, cells []freq.IndexedFrequency) ([]freq.IndexedFrequency, error) {
	if len(cells) == 0 {
		return cells, nil
	}
	probs := make([]float64, len(cells))
	for i, c := range cells {
		probs[i] = c.Probability
	}
	frequencies, err := allocator.ComputeBestSample(n, probs)
	if err != nil {
		return nil, err
	}

	nonZero := cells[:0]
	for i, c := range cells {
		if frequencies[i] == 0 {
			continue
		}
		c.Frequency = frequencies[i]
		nonZero = append(nonZero, c)
	}
	return nonZero, nil
}
