package allocator

import (
	"testing"

	"github.com/kdinterpret/kdinterpret/internal/testutil"
)

func TestComputeBestSample_MatchesGoldenDataset(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	for _, tc := range dataset.AllocationTests {
		t.Run(tc.Name, func(t *testing.T) {
			got, err := ComputeBestSample(tc.N, tc.Probabilities)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tc.ExpectedFrequencies) {
				t.Fatalf("len(got) = %d, want %d", len(got), len(tc.ExpectedFrequencies))
			}
			for i := range got {
				testutil.AssertFloat64Equal(t, tc.Name, tc.ExpectedFrequencies[i], got[i], 1e-9)
			}
		})
	}
}
