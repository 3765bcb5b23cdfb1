package allocator

import (
	"github.com/kdinterpret/kdinterpret/internal/ordered"
	"github.com/kdinterpret/kdinterpret/internal/randperturb"
)

// postOptSlack is the margin PostOptimizeSample requires before accepting a
// swap: add_gain must exceed remove_gain*(1+postOptSlack). It also bounds
// the per-swap decrease of -Sum f_i*ln(p_i) + Sum ln(Gamma(f_i+1)), which is
// why the loop provably terminates.
const postOptSlack = 1e-5

type moveCandidate struct {
	index    int
	priority float64
}

func lessMoveAscending(a, b moveCandidate) bool { return a.priority < b.priority }

// PostOptimizeSample refines a feasible allocation by repeatedly moving one
// unit from the index with minimum remove-gain
// p_i/f_i to the index with maximum add-gain p_j/(f_j+1), stopping once no
// swap improves by more than postOptSlack or the best remove and add
// indices coincide. It mutates f in place. Skipped entirely for N=0 or
// very-large N, where unit-level precision is meaningless.
func PostOptimizeSample(n float64, p []float64, f []float64, pert *randperturb.Source) {
	if !CheckPartialProbVector(p) {
		panic("allocator: PostOptimizeSample requires a valid partial probability vector")
	}
	if !CheckFrequencies(n, p, f) {
		panic("allocator: PostOptimizeSample requires f to already satisfy CheckFrequencies")
	}
	if n == 0 || IsVeryLargeFrequency(n) {
		return
	}

	addMap := ordered.New(lessMoveAscending)
	removeMap := ordered.New(lessMoveAscending)

	for i := range p {
		addMap.Insert(moveCandidate{index: i, priority: pert.Perturb(p[i] / (f[i] + 1.0))})
		if f[i] > 0 {
			removeMap.Insert(moveCandidate{index: i, priority: pert.Perturb(p[i] / f[i])})
		}
	}

	for {
		removeHead, ok := removeMap.Head()
		if !ok {
			break
		}
		addTail, ok := addMap.Tail()
		if !ok {
			break
		}

		removeIndex, removeGain := removeHead.index, removeHead.priority
		addIndex, addGain := addTail.index, addTail.priority

		if removeIndex == addIndex || addGain <= removeGain*(1.0+postOptSlack) {
			break
		}

		removeMap.PopHead()
		addMap.PopTail()

		f[removeIndex]--
		if f[removeIndex] > 0 {
			removeMap.Insert(moveCandidate{
				index:    removeIndex,
				priority: pert.Perturb(p[removeIndex] / f[removeIndex]),
			})
		}

		f[addIndex]++
		addMap.Insert(moveCandidate{
			index:    addIndex,
			priority: pert.Perturb(p[addIndex] / (f[addIndex] + 1.0)),
		})
		if f[addIndex] == 1 {
			removeMap.Insert(moveCandidate{
				index:    addIndex,
				priority: pert.Perturb(p[addIndex]),
			})
		}
	}
}
