package config

import (
	"errors"
	"math"

	"github.com/kdinterpret/kdinterpret/classifier"
)

// ErrInvalidClassifierScenario is returned when a ClassifierScenario's
// shape is inconsistent: mismatched lengths, an attribute with no source
// parts, or a target-cell-index entry out of range.
var ErrInvalidClassifierScenario = errors.New("config: invalid classifier scenario")

// ScenarioClassifier is a classifier.Classifier built directly from a
// ClassifierScenario's stated frequency grids: no training, no
// derivation-rule compilation, just the naive-Bayes log-odds combination
// a host classifier is assumed to already perform. It exists so the
// `interpret`/`reinforce` CLI verbs have something concrete to run the
// interpreter/reinforcer libraries against.
type ScenarioClassifier struct {
	targetValues     []string
	targetValueFreq  []float64
	totalFrequency   float64
	attributeNames   []string
	grids            []*scenarioStats
	defaultSourceIdx []int

	sourceIndex []int
	numerator   []float64
}

// NewScenarioClassifier builds a ScenarioClassifier from scenario.
func NewScenarioClassifier(scenario *ClassifierScenario) (*ScenarioClassifier, error) {
	if scenario == nil || len(scenario.TargetValues) == 0 {
		return nil, ErrInvalidClassifierScenario
	}
	if len(scenario.TargetValueFrequencies) != len(scenario.TargetValues) {
		return nil, ErrInvalidClassifierScenario
	}
	if len(scenario.Attributes) == 0 {
		return nil, ErrInvalidClassifierScenario
	}

	total := 0.0
	for _, f := range scenario.TargetValueFrequencies {
		total += f
	}

	targetValueCount := len(scenario.TargetValues)
	c := &ScenarioClassifier{
		targetValues:    append([]string(nil), scenario.TargetValues...),
		targetValueFreq: append([]float64(nil), scenario.TargetValueFrequencies...),
		totalFrequency:  total,
		numerator:       make([]float64, targetValueCount),
	}

	for i := range scenario.Attributes {
		attr := &scenario.Attributes[i]
		stats, err := newScenarioStats(attr, targetValueCount)
		if err != nil {
			return nil, err
		}
		c.attributeNames = append(c.attributeNames, attr.Name)
		c.grids = append(c.grids, stats)
		c.defaultSourceIdx = append(c.defaultSourceIdx, attr.DefaultSourceIndex)
	}
	c.sourceIndex = make([]int, len(c.grids))

	c.bindSourceIndex(make([]int, len(c.grids)))
	return c, nil
}

// AttributeNames returns the compiled attribute names, in
// DataGridStatsAt order, for wiring interpreter.Compile/reinforcer.New.
func (c *ScenarioClassifier) AttributeNames() []string { return append([]string(nil), c.attributeNames...) }

// DefaultSourceIndexes returns the compiled default source cell index per
// attribute, in the same order as AttributeNames.
func (c *ScenarioClassifier) DefaultSourceIndexes() []int {
	return append([]int(nil), c.defaultSourceIdx...)
}

// AttributeIndex returns the DataGridStatsAt index of the named attribute,
// for building reinforcer.Lever entries; -1 if unknown.
func (c *ScenarioClassifier) AttributeIndex(name string) int {
	for i, n := range c.attributeNames {
		if n == name {
			return i
		}
	}
	return -1
}

// Stats returns attribute a's compiled DataGridStats, for building
// reinforcer.Lever entries.
func (c *ScenarioClassifier) Stats(a int) classifier.DataGridStats { return c.grids[a] }

// SourcePartCount returns attribute a's number of source parts.
func (c *ScenarioClassifier) SourcePartCount(a int) int { return c.grids[a].sourceSize }

// Bind resolves each attribute's current source cell index from obs and
// recomputes the naive-Bayes log-odds numerator terms.
func (c *ScenarioClassifier) Bind(obs classifier.Observation) {
	indexes := make([]int, len(c.grids))
	for i, name := range c.attributeNames {
		if idx, ok := obs.CellIndexForAttribute(name); ok {
			indexes[i] = idx
		} else {
			indexes[i] = c.defaultSourceIdx[i]
		}
	}
	c.bindSourceIndex(indexes)
}

func (c *ScenarioClassifier) bindSourceIndex(indexes []int) {
	copy(c.sourceIndex, indexes)
	for i, stats := range c.grids {
		stats.cellIndex = c.sourceIndex[i]
	}
	for t := range c.numerator {
		term := 0.0
		if c.totalFrequency > 0 {
			term = math.Log(c.targetValueFreq[t] / c.totalFrequency)
		}
		for a, stats := range c.grids {
			targetPart := c.DataGridSetTargetCellIndexAt(a, t)
			term += stats.attr.Weight * stats.DataGridSourceConditionalLogProbAt(c.sourceIndex[a], targetPart)
		}
		c.numerator[t] = term
	}
}

// TargetValueCount implements classifier.Classifier.
func (c *ScenarioClassifier) TargetValueCount() int { return len(c.targetValues) }

// TargetValueAt implements classifier.Classifier.
func (c *ScenarioClassifier) TargetValueAt(i int) string { return c.targetValues[i] }

// TargetValueRank implements classifier.Classifier.
func (c *ScenarioClassifier) TargetValueRank(symbol string) int {
	for i, v := range c.targetValues {
		if v == symbol {
			return i
		}
	}
	return -1
}

// DataGridStatsCount implements classifier.Classifier.
func (c *ScenarioClassifier) DataGridStatsCount() int { return len(c.grids) }

// IsDataGridStatsAt implements classifier.Classifier; the scenario
// classifier never compiles sparse blocks.
func (c *ScenarioClassifier) IsDataGridStatsAt(i int) bool { return true }

// DataGridStatsAt implements classifier.Classifier.
func (c *ScenarioClassifier) DataGridStatsAt(i int) classifier.DataGridStats { return c.grids[i] }

// DataGridStatsBlockAt implements classifier.Classifier.
func (c *ScenarioClassifier) DataGridStatsBlockAt(i int) classifier.DataGridStatsBlock {
	panic("config: ScenarioClassifier has no sparse attribute blocks")
}

// DataGridSetTargetFrequencyAt implements classifier.Classifier.
func (c *ScenarioClassifier) DataGridSetTargetFrequencyAt(t int) float64 { return c.targetValueFreq[t] }

// DataGridWeightAt implements classifier.Classifier.
func (c *ScenarioClassifier) DataGridWeightAt(a int) float64 { return c.grids[a].attr.Weight }

// DataGridSetTargetCellIndexAt implements classifier.Classifier.
func (c *ScenarioClassifier) DataGridSetTargetCellIndexAt(a, t int) int {
	idx := c.grids[a].attr.TargetCellIndex
	if len(idx) == 0 {
		return t
	}
	return idx[t]
}

// ComputeTargetValue implements classifier.Classifier.
func (c *ScenarioClassifier) ComputeTargetValue() string {
	probs := make([]float64, len(c.numerator))
	c.ComputeTargetProbsFromNumeratorTerms(c.numerator, probs)
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	return c.targetValues[best]
}

// ComputeTargetProbAt implements classifier.Classifier.
func (c *ScenarioClassifier) ComputeTargetProbAt(symbol string) float64 {
	probs := make([]float64, len(c.numerator))
	c.ComputeTargetProbsFromNumeratorTerms(c.numerator, probs)
	rank := c.TargetValueRank(symbol)
	if rank < 0 {
		return 0
	}
	return probs[rank]
}

// TargetLogProbNumeratorTerms implements classifier.Classifier.
func (c *ScenarioClassifier) TargetLogProbNumeratorTerms() []float64 {
	return append([]float64(nil), c.numerator...)
}

// ComputeTargetProbsFromNumeratorTerms implements classifier.Classifier:
// a numerically stable softmax of the log-numerator terms.
func (c *ScenarioClassifier) ComputeTargetProbsFromNumeratorTerms(in, out []float64) {
	max := in[0]
	for _, v := range in[1:] {
		if v > max {
			max = v
		}
	}
	sum := 0.0
	for i, v := range in {
		out[i] = math.Exp(v - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
}

// scenarioStats is the classifier.DataGridStats for one AttributeScenario.
type scenarioStats struct {
	attr            *AttributeScenario
	sourceSize      int
	targetPartCount int
	laplaceEpsilon  float64
	cellIndex       int
}

func newScenarioStats(attr *AttributeScenario, targetValueCount int) (*scenarioStats, error) {
	sourceSize := len(attr.SourcePartLabels)
	if len(attr.PairedPartLabels) > 0 {
		sourceSize *= len(attr.PairedPartLabels)
	}
	if sourceSize == 0 || len(attr.TargetFrequencies) == 0 {
		return nil, ErrInvalidClassifierScenario
	}
	if len(attr.CellFrequencies) != sourceSize*len(attr.TargetFrequencies) {
		return nil, ErrInvalidClassifierScenario
	}
	if len(attr.TargetCellIndex) == 0 {
		if len(attr.TargetFrequencies) != targetValueCount {
			return nil, ErrInvalidClassifierScenario
		}
	} else if len(attr.TargetCellIndex) != targetValueCount {
		return nil, ErrInvalidClassifierScenario
	}
	for _, part := range attr.TargetCellIndex {
		if part < 0 || part >= len(attr.TargetFrequencies) {
			return nil, ErrInvalidClassifierScenario
		}
	}
	if attr.DefaultSourceIndex < 0 || attr.DefaultSourceIndex >= sourceSize {
		return nil, ErrInvalidClassifierScenario
	}

	total := 0.0
	for _, f := range attr.TargetFrequencies {
		total += f
	}
	return &scenarioStats{
		attr:            attr,
		sourceSize:      sourceSize,
		targetPartCount: len(attr.TargetFrequencies),
		laplaceEpsilon:  1.0 / (total + 1),
	}, nil
}

// CellIndex implements classifier.DataGridStats.
func (s *scenarioStats) CellIndex() int { return s.cellIndex }

// DataGridSourceConditionalLogProbAt implements classifier.DataGridStats:
// ln P(srcPart | tgtPart) with Laplace smoothing, the same correction
// internal/shapley.Build uses for its own probOne/probAll terms.
func (s *scenarioStats) DataGridSourceConditionalLogProbAt(srcPart, tgtPart int) float64 {
	freq := s.attr.CellFrequencies[srcPart+tgtPart*s.sourceSize]
	denom := s.attr.TargetFrequencies[tgtPart]
	eps := s.laplaceEpsilon
	return math.Log((freq + eps) / (denom + float64(s.sourceSize)*eps))
}

// ExportDataGridStats implements classifier.DataGridStats.
func (s *scenarioStats) ExportDataGridStats(out *classifier.DataGridStatsExport) {
	out.SourcePartCount = len(s.attr.SourcePartLabels)
	out.PairedPartCount = len(s.attr.PairedPartLabels)
	out.TargetPartCount = s.targetPartCount
	out.CellFrequencies = s.attr.CellFrequencies
	out.TargetFrequencies = s.attr.TargetFrequencies
	out.SourcePartLabels = s.attr.SourcePartLabels
	out.PairedPartLabels = s.attr.PairedPartLabels
}
