// Package testutil provides shared test infrastructure for kdinterpret. It
// consolidates golden dataset types and assertion helpers used by the
// allocator and shapley test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset is the structure of testdata/golden.json: independently
// checkable fixtures for the allocator's MAP multinomial sample and
// the shapley table's one-vs-all contribution sign, recorded once so a
// regression in either algorithm's numeric behavior shows up as a diff
// against a committed expectation rather than only a shape assertion.
type GoldenDataset struct {
	AllocationTests []GoldenAllocationCase `json:"allocation_tests"`
	ShapleyTests    []GoldenShapleyCase    `json:"shapley_tests"`
}

// GoldenAllocationCase pins ComputeBestSample's output for a fixed (n, p).
type GoldenAllocationCase struct {
	Name                string    `json:"name"`
	N                   float64   `json:"n"`
	Probabilities       []float64 `json:"probabilities"`
	ExpectedFrequencies []float64 `json:"expected_frequencies"`
}

// GoldenShapleyCase pins the sign (not exact value) of a 2x2 grid's
// Shapley contribution at a named source/target pair: the contribution's
// exact magnitude depends on the Laplace-smoothing constant, but its sign
// relative to the uninformative grid is the algorithm's actual contract.
type GoldenShapleyCase struct {
	Name               string `json:"name"`
	SourceIndex        int    `json:"source_index"`
	TargetIndex        int    `json:"target_index"`
	ExpectedSignIsPlus bool   `json:"expected_sign_is_plus"`
}

// LoadGoldenDataset loads the golden dataset from the repo's testdata
// directory. The path is resolved relative to this source file:
// internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "testdata", "golden.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("failed to parse golden dataset: %v", err)
	}
	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
