package shapley

import (
	"testing"

	"github.com/kdinterpret/kdinterpret/internal/testutil"
)

func TestBuild_MatchesGoldenSigns(t *testing.T) {
	table, err := Build(grid2x2(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dataset := testutil.LoadGoldenDataset(t)
	for _, tc := range dataset.ShapleyTests {
		t.Run(tc.Name, func(t *testing.T) {
			v := table.ValueAt(tc.SourceIndex, tc.TargetIndex)
			isPlus := v > 0
			if isPlus != tc.ExpectedSignIsPlus {
				t.Errorf("ValueAt(%d,%d) = %v, want sign plus=%v", tc.SourceIndex, tc.TargetIndex, v, tc.ExpectedSignIsPlus)
			}
		})
	}
}
