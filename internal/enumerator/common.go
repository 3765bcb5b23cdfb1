// Package enumerator implements the bounded top-K combinatorial search
// behind the product and selection multinomial generators: given one
// probability vector per dimension (product mode) or one
// vector sliced into a k-subset (selection mode), it enumerates only the
// joint cells whose probability could plausibly receive a non-zero MAP
// frequency, then hands their probabilities to the allocator.
package enumerator

import (
	"sort"

	"github.com/kdinterpret/kdinterpret/internal/freq"
	"github.com/kdinterpret/kdinterpret/internal/ordered"
	"github.com/kdinterpret/kdinterpret/internal/randperturb"
)

// dblMin mirrors C's DBL_MIN (the smallest normalized positive double),
// the threshold below which the largest achievable joint probability is
// considered too small to produce any useful cell.
const dblMin = 2.2250738585072014e-308

// sortedProb is one (original index, epsilon-perturbed value) pair from a
// single dimension's probability vector, ordered descending.
type sortedProb struct {
	index int
	value float64
}

// sortProbsDescending perturbs every probability to break ties
// deterministically, then sorts descending — the order both recursive
// searches below rely on to prune as early as possible.
func sortProbsDescending(p []float64, pert *randperturb.Source) []sortedProb {
	sorted := make([]sortedProb, len(p))
	for i, v := range p {
		sorted[i] = sortedProb{index: i, value: pert.PerturbProb(v)}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].value > sorted[j].value })
	return sorted
}

// bounded is the shared prune test: a candidate (or the current tail of
// the kept set) is discarded once its probability, scaled by the number of
// slots the allocator could still spread across, falls below the largest
// achievable joint probability.
func bounded(prob, n, largestProb float64, keptCount int) bool {
	return prob*(n+2.0-float64(keptCount)) < largestProb
}

// drainCandidatesByProbability empties an ordered map of candidates into a
// slice in descending-probability order, matching the order the original
// sorted list exported its results in.
func drainCandidatesByProbability(candidates *ordered.OrderedMap[freq.IndexedFrequency]) []freq.IndexedFrequency {
	cells := make([]freq.IndexedFrequency, 0, candidates.Size())
	for {
		v, ok := candidates.PopHead()
		if !ok {
			break
		}
		cells = append(cells, v)
	}
	return cells
}
