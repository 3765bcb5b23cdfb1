package enumerator

import (
	"math"

	"github.com/kdinterpret/kdinterpret/internal/allocator"
	"github.com/kdinterpret/kdinterpret/internal/freq"
	"gonum.org/v1/gonum/stat/combin"
)

// CheckIndexedFrequencies validates a product-mode result against the
// probability vectors it was generated from: every index vector must be
// in-bounds and distinct, its stored joint probability must match the
// product of the per-dimension probabilities it names, the total joint
// probability covered must not exceed 1, and the frequencies must sum to n.
//
// Distinctness is checked via combin.SubToIndex, which folds each
// dimension index vector into a single flat offset into the full joint
// cell space — the same "multi-index bookkeeping" gonum's combin package
// is built for, used here in place of an O(len(cells)^2) pairwise scan.
func CheckIndexedFrequencies(n float64, probVectors [][]float64, cells []freq.IndexedFrequency) bool {
	if len(probVectors) == 0 {
		return false
	}

	dims := make([]int, len(probVectors))
	for d, p := range probVectors {
		dims[d] = len(p)
	}
	cellSpaceSize := combin.Card(dims)

	seen := make(map[int]bool, len(cells))
	totalProb := 0.0
	for _, c := range cells {
		if len(c.Indices) != len(probVectors) {
			return false
		}
		prob := 1.0
		for d, idx := range c.Indices {
			if idx < 0 || idx >= dims[d] {
				return false
			}
			prob *= probVectors[d][idx]
		}
		if math.Abs(prob-c.Probability) > 1e-5*prob {
			return false
		}

		flat := combin.SubToIndex(dims, c.Indices)
		if flat < 0 || flat >= cellSpaceSize || seen[flat] {
			return false
		}
		seen[flat] = true

		if c.Frequency < 0 {
			return false
		}
		totalProb += prob
	}

	if totalProb > 1+1e-5 {
		return false
	}
	total := freq.SumFrequencies(cells)
	if allocator.IsVeryLargeFrequency(n) {
		return math.Abs(total-n) < n*1e-5
	}
	return math.Abs(total-n) < 1e-5
}
