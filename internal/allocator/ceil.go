package allocator

import (
	"math"

	"github.com/kdinterpret/kdinterpret/internal/ordered"
	"github.com/kdinterpret/kdinterpret/internal/randperturb"
)

// removalCandidate is one entry in the ceiling-repair ordered map: the
// dimension index and its current removal priority p_i*(sum f)/f_i.
type removalCandidate struct {
	index    int
	priority float64
}

func lessRemovalAscending(a, b removalCandidate) bool {
	return a.priority < b.priority
}

// ComputeBestCeilSample computes the initial feasible allocation:
// round-to-nearest for very-large N, otherwise ceiling of the
// normalized expectation, repaired back down to exactly N by repeatedly
// removing one unit from the cell with the smallest removal priority
// p_i*(sum f)/f_i.
func ComputeBestCeilSample(n float64, p []float64, pert *randperturb.Source) []float64 {
	if !CheckPartialProbVector(p) {
		panic("allocator: ComputeBestCeilSample requires a valid partial probability vector")
	}
	if n < 0 {
		panic("allocator: ComputeBestCeilSample requires n >= 0")
	}

	totalProb := 0.0
	for _, v := range p {
		totalProb += v
	}

	veryLarge := IsVeryLargeFrequency(n)
	f := make([]float64, len(p))
	total := 0.0
	for i, v := range p {
		var fi float64
		if veryLarge {
			fi = math.Floor(0.5 + n*v/totalProb)
		} else {
			fi = math.Ceil(n * v / totalProb)
		}
		f[i] = fi
		total += fi
	}

	const epsilon = 1e-5
	if !veryLarge && total > n+epsilon {
		m := ordered.New(lessRemovalAscending)
		for i := range p {
			if f[i] > 0 {
				priority := pert.Perturb(p[i] * total / f[i])
				m.Insert(removalCandidate{index: i, priority: priority})
			}
		}

		for total > n+epsilon {
			head, ok := m.PopHead()
			if !ok {
				break
			}
			i := head.index
			f[i]--
			total--
			if f[i] > 0 {
				priority := pert.Perturb(p[i] * total / f[i])
				m.Insert(removalCandidate{index: i, priority: priority})
			}
		}
	}
	return f
}
