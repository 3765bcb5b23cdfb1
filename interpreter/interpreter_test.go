package interpreter

import (
	"testing"

	"github.com/kdinterpret/kdinterpret/classifier"
)

type fakeStats struct {
	export classifier.DataGridStatsExport
}

func (f *fakeStats) CellIndex() int { return 0 }
func (f *fakeStats) DataGridSourceConditionalLogProbAt(srcPart, tgtPart int) float64 {
	return 0
}
func (f *fakeStats) ExportDataGridStats(out *classifier.DataGridStatsExport) { *out = f.export }

type fakeClassifier struct {
	targetValues    []string
	grids           []classifier.DataGridStats
	weights         []float64
	targetFreq      []float64
	targetCellIndex [][]int
}

func (c *fakeClassifier) TargetValueCount() int      { return len(c.targetValues) }
func (c *fakeClassifier) TargetValueAt(i int) string { return c.targetValues[i] }
func (c *fakeClassifier) TargetValueRank(symbol string) int {
	for i, v := range c.targetValues {
		if v == symbol {
			return i
		}
	}
	return -1
}
func (c *fakeClassifier) DataGridStatsCount() int             { return len(c.grids) }
func (c *fakeClassifier) IsDataGridStatsAt(i int) bool        { return true }
func (c *fakeClassifier) DataGridStatsAt(i int) classifier.DataGridStats { return c.grids[i] }
func (c *fakeClassifier) DataGridStatsBlockAt(i int) classifier.DataGridStatsBlock {
	panic("no sparse blocks in this fixture")
}
func (c *fakeClassifier) DataGridSetTargetFrequencyAt(t int) float64 { return c.targetFreq[t] }
func (c *fakeClassifier) DataGridWeightAt(a int) float64             { return c.weights[a] }
func (c *fakeClassifier) DataGridSetTargetCellIndexAt(a, t int) int  { return c.targetCellIndex[a][t] }
func (c *fakeClassifier) ComputeTargetValue() string                 { return c.targetValues[0] }
func (c *fakeClassifier) ComputeTargetProbAt(symbol string) float64  { return 0 }
func (c *fakeClassifier) TargetLogProbNumeratorTerms() []float64     { return nil }
func (c *fakeClassifier) ComputeTargetProbsFromNumeratorTerms(in, out []float64) {}

type fakeObservation struct {
	cells map[string]int
}

func (o fakeObservation) CellIndexForAttribute(attr string) (int, bool) {
	idx, ok := o.cells[attr]
	return idx, ok
}

// twoAttributeClassifier builds a fixture with two univariate, two-source-
// part attributes over two target values, one a strong discriminator (the
// shapley-scenario-6 grid) and one weaker, so ranking has a clear expected
// order.
func twoAttributeClassifier() *fakeClassifier {
	strong := &fakeStats{export: classifier.DataGridStatsExport{
		SourcePartCount:   2,
		TargetPartCount:   2,
		CellFrequencies:   []float64{40, 10, 10, 40},
		TargetFrequencies: []float64{50, 50},
		SourcePartLabels:  []string{"lo", "hi"},
	}}
	weak := &fakeStats{export: classifier.DataGridStatsExport{
		SourcePartCount:   2,
		TargetPartCount:   2,
		CellFrequencies:   []float64{30, 20, 20, 30},
		TargetFrequencies: []float64{50, 50},
		SourcePartLabels:  []string{"x0", "x1"},
	}}
	return &fakeClassifier{
		targetValues:    []string{"t0", "t1"},
		grids:           []classifier.DataGridStats{strong, weak},
		weights:         []float64{1, 1},
		targetFreq:      []float64{50, 50},
		targetCellIndex: [][]int{{0, 1}, {0, 1}},
	}
}

func compileFixture(t *testing.T) *Interpreter {
	t.Helper()
	cls := twoAttributeClassifier()
	ip, err := Compile(cls, []string{"a0", "a1"}, []int{0, 0})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return ip
}

func TestCompile_BuildsOneAttributePerGrid(t *testing.T) {
	ip := compileFixture(t)
	if len(ip.attributes) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(ip.attributes))
	}
}

func TestCompile_RejectsNameCountMismatch(t *testing.T) {
	cls := twoAttributeClassifier()
	if _, err := Compile(cls, []string{"a0"}, []int{0}); err != ErrAttributeNameMismatch {
		t.Errorf("expected ErrAttributeNameMismatch, got %v", err)
	}
}

func TestBindObservation_ResolvesSourceIndexAndDefault(t *testing.T) {
	ip := compileFixture(t)
	ip.BindObservation(fakeObservation{cells: map[string]int{"a0": 0}})
	if ip.sourceIndex[0] != 0 {
		t.Errorf("a0 sourceIndex = %d, want 0", ip.sourceIndex[0])
	}
	if ip.sourceIndex[1] != ip.attributes[1].DefaultSourceIndex {
		t.Errorf("a1 sourceIndex = %d, want default %d", ip.sourceIndex[1], ip.attributes[1].DefaultSourceIndex)
	}
}

func TestGetContributionAt_MatchesTableLookup(t *testing.T) {
	ip := compileFixture(t)
	ip.BindObservation(fakeObservation{cells: map[string]int{"a0": 0, "a1": 1}})
	got := ip.GetContributionAt(0, 0)
	want := ip.attributes[0].Table.ValueAt(0, 0)
	if got != want {
		t.Errorf("GetContributionAt(0,0) = %v, want %v", got, want)
	}
	if got <= 0 {
		t.Errorf("GetContributionAt(0,0) = %v, want > 0 (source part 0 favors target 0)", got)
	}
}

func TestGetRankedContributionAt_StrongerAttributeRanksFirst(t *testing.T) {
	ip := compileFixture(t)
	ip.BindObservation(fakeObservation{cells: map[string]int{"a0": 0, "a1": 0}})
	top := ip.GetRankedContributionAttributeAt(0, 0)
	if top != "a0" {
		t.Errorf("top-ranked attribute for target 0 = %q, want a0 (stronger discriminator)", top)
	}
	v0 := ip.GetRankedContributionValueAt(0, 0)
	v1 := ip.GetRankedContributionValueAt(0, 1)
	if v0 < v1 {
		t.Errorf("ranked contributions not descending: %v then %v", v0, v1)
	}
}

func TestGetRankedContributionPartAt_ReportsSourcePartLabel(t *testing.T) {
	ip := compileFixture(t)
	ip.BindObservation(fakeObservation{cells: map[string]int{"a0": 1, "a1": 0}})
	label := ip.GetRankedContributionPartAt(0, 0)
	if label != "hi" && label != "x0" {
		t.Errorf("unexpected ranked part label %q", label)
	}
}

func TestBindObservation_InvalidatesRankedCache(t *testing.T) {
	ip := compileFixture(t)
	ip.BindObservation(fakeObservation{cells: map[string]int{"a0": 0, "a1": 0}})
	_ = ip.GetRankedContributionAttributeAt(0, 0)
	if !ip.rankedComputed {
		t.Fatalf("expected ranked cache to be computed")
	}
	ip.BindObservation(fakeObservation{cells: map[string]int{"a0": 1, "a1": 1}})
	if ip.rankedComputed {
		t.Errorf("expected ranked cache to be invalidated after re-binding")
	}
}

func TestNew_RejectsMismatchedTableSize(t *testing.T) {
	ip := compileFixture(t)
	bad := ip.attributes[0]
	bad.SourcePartLabels = []string{"only-one"}
	if _, err := New([]AttributeGrid{bad}, 2); err != ErrInvalidAttributes {
		t.Errorf("expected ErrInvalidAttributes, got %v", err)
	}
}

func TestNew_RejectsEmptyAttributes(t *testing.T) {
	if _, err := New(nil, 2); err != ErrInvalidAttributes {
		t.Errorf("expected ErrInvalidAttributes, got %v", err)
	}
}
