package enumerator

import (
	"math"
	"testing"

	"github.com/kdinterpret/kdinterpret/internal/freq"
	"gonum.org/v1/gonum/stat/combin"
)

func sumFrequencies(cells []freq.IndexedFrequency) float64 {
	return freq.SumFrequencies(cells)
}

func isStrictlyIncreasing(idx []int) bool {
	for i := 1; i < len(idx); i++ {
		if idx[i] <= idx[i-1] {
			return false
		}
	}
	return true
}

func TestComputeBestMultipleProductCells_SumsToN(t *testing.T) {
	p1 := []float64{0.6, 0.4}
	p2 := []float64{0.5, 0.3, 0.2}
	cells, err := ComputeBestMultipleProductCells(10, [][]float64{p1, p2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range cells {
		if len(c.Indices) != 2 {
			t.Errorf("expected 2-dimensional index vector, got %v", c.Indices)
		}
	}
	if got := sumFrequencies(cells); math.Abs(got-10) > 1e-9 {
		t.Errorf("sum(frequencies) = %v, want 10", got)
	}
}

func TestComputeBestMultipleProductCells_RejectsEmptyDims(t *testing.T) {
	if _, err := ComputeBestMultipleProductCells(10, nil); err != ErrEmptyProbVectors {
		t.Errorf("expected ErrEmptyProbVectors, got %v", err)
	}
}

func TestComputeBestMultipleProductCells_RejectsInvalidVector(t *testing.T) {
	_, err := ComputeBestMultipleProductCells(10, [][]float64{{0.6, 0.6}})
	if err == nil {
		t.Error("expected an error for an invalid probability vector")
	}
}

func TestComputeBestMultipleProductCells_ZeroTotal(t *testing.T) {
	cells, err := ComputeBestMultipleProductCells(0, [][]float64{{0.5, 0.5}, {1.0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range cells {
		if c.Frequency != 0 {
			t.Errorf("expected zero frequency for N=0, got %v", c)
		}
	}
}

func TestComputeBestSelectionCells_SumsToN(t *testing.T) {
	p := []float64{0.4, 0.3, 0.2, 0.1}
	cells, err := ComputeBestSelectionCells(6, 2, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range cells {
		if !isStrictlyIncreasing(c.Indices) {
			t.Errorf("expected canonical (strictly increasing) indices, got %v", c.Indices)
		}
	}
	if got := sumFrequencies(cells); math.Abs(got-6) > 1e-9 {
		t.Errorf("sum(frequencies) = %v, want 6", got)
	}
}

func TestComputeBestSelectionCells_RejectsBadSize(t *testing.T) {
	p := []float64{0.5, 0.5}
	if _, err := ComputeBestSelectionCells(5, 0, p); err != ErrInvalidSelectionSize {
		t.Errorf("expected ErrInvalidSelectionSize for k=0, got %v", err)
	}
	if _, err := ComputeBestSelectionCells(5, 3, p); err != ErrInvalidSelectionSize {
		t.Errorf("expected ErrInvalidSelectionSize for k>len(p), got %v", err)
	}
}

func TestComputeBestSelectionCells_NeverExceedsSubsetSpace(t *testing.T) {
	p := []float64{0.4, 0.3, 0.2, 0.1}
	k := 2
	cells, err := ComputeBestSelectionCells(100, k, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	maxSubsets := int(combin.Binomial(len(p), k))
	if len(cells) > maxSubsets {
		t.Errorf("got %d cells, but C(%d,%d) = %d is the entire subset space", len(cells), len(p), k, maxSubsets)
	}
}

func TestComputeBestSelectionCells_NoDuplicateSubsets(t *testing.T) {
	p := []float64{0.25, 0.25, 0.25, 0.25}
	cells, err := ComputeBestSelectionCells(4, 2, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seen := map[[2]int]bool{}
	for _, c := range cells {
		key := [2]int{c.Indices[0], c.Indices[1]}
		if seen[key] {
			t.Errorf("duplicate subset %v in result", key)
		}
		seen[key] = true
	}
}
