// Package interpreter implements the per-observation classifier
// interpreter: given an observation's already-resolved source cell per
// attribute, it looks up each attribute's Shapley
// contribution to each target value and reports them ranked by
// contribution, highest first.
package interpreter

import (
	"errors"
	"sort"

	"github.com/kdinterpret/kdinterpret/classifier"
	"github.com/kdinterpret/kdinterpret/internal/floatcmp"
	"github.com/kdinterpret/kdinterpret/internal/shapley"
)

// ErrInvalidAttributes is returned when the compiled attribute set is
// malformed: no attributes, no target values, a Shapley table whose target
// size disagrees with the interpreter's target value count, or a source
// part labeling whose size disagrees with its table's source size.
var ErrInvalidAttributes = errors.New("interpreter: invalid attribute set")

// AttributeGrid is one compiled predictor attribute: its Shapley
// contribution table, the source-part labels needed to reconstruct a
// human-readable cell label, and the default source cell index used when
// an observation's sparse block has no value for this attribute.
type AttributeGrid struct {
	// Name is the predictor attribute's name, used both to resolve an
	// observation's bound cell index and to break contribution ties.
	Name string
	// Table is the attribute's compiled Shapley contribution table.
	Table *shapley.Table
	// SourcePartLabels names each source part. For a univariate grid its
	// length equals Table.SourceSize(); for a bivariate (paired
	// attribute) grid it is the first dimension's labels and
	// PairedPartLabels the second.
	SourcePartLabels []string
	// PairedPartLabels is non-empty only for a bivariate grid: the
	// second dimension's part labels. A bivariate source cell index c
	// decodes as (c mod len(SourcePartLabels), c / len(SourcePartLabels)).
	PairedPartLabels []string
	// DefaultSourceIndex is the source cell used when an observation's
	// sparse attribute block has no entry for this attribute.
	DefaultSourceIndex int
}

func (a AttributeGrid) validate(targetValueCount int) bool {
	if a.Table == nil || a.Table.TargetSize() != targetValueCount {
		return false
	}
	if len(a.PairedPartLabels) > 0 {
		if len(a.SourcePartLabels)*len(a.PairedPartLabels) != a.Table.SourceSize() {
			return false
		}
	} else if len(a.SourcePartLabels) != a.Table.SourceSize() {
		return false
	}
	if a.DefaultSourceIndex < 0 || a.DefaultSourceIndex >= a.Table.SourceSize() {
		return false
	}
	return true
}

// Interpreter is a compiled interpreter over a fixed set of attributes: the
// Shapley tables never change after construction, but the bound
// observation's source cell indices and the ranked-contribution cache are
// mutable per call to BindObservation.
type Interpreter struct {
	attributes       []AttributeGrid
	targetValueCount int

	sourceIndex    []int
	rankedComputed bool
	ranked         [][]attributeContribution
}

type attributeContribution struct {
	attributeIndex int
	contribution   float64
}

// New compiles an Interpreter over attributes, one Shapley table per
// predictor attribute, all sharing targetValueCount target values.
func New(attributes []AttributeGrid, targetValueCount int) (*Interpreter, error) {
	if len(attributes) == 0 || targetValueCount <= 0 {
		return nil, ErrInvalidAttributes
	}
	for _, a := range attributes {
		if !a.validate(targetValueCount) {
			return nil, ErrInvalidAttributes
		}
	}
	return &Interpreter{
		attributes:       attributes,
		targetValueCount: targetValueCount,
		sourceIndex:      make([]int, len(attributes)),
	}, nil
}

// BindObservation resolves each attribute's source cell index for obs,
// falling back to the attribute's compiled default when obs has no value
// for it (the sparse-block case), and invalidates the ranked-contribution
// cache so the next rank query recomputes it for this observation.
func (ip *Interpreter) BindObservation(obs classifier.Observation) {
	for i, a := range ip.attributes {
		if idx, ok := obs.CellIndexForAttribute(a.Name); ok {
			ip.sourceIndex[i] = idx
		} else {
			ip.sourceIndex[i] = a.DefaultSourceIndex
		}
	}
	ip.rankedComputed = false
}

// GetContributionAt returns attribute attrRank's direct Shapley
// contribution to target value targetRank, for the currently bound
// observation.
func (ip *Interpreter) GetContributionAt(targetRank, attrRank int) float64 {
	return ip.attributes[attrRank].Table.ValueAt(ip.sourceIndex[attrRank], targetRank)
}

// GetRankedContributionAttributeAt returns the name of the attribute at
// contribution rank contribRank (0 = highest) for target value targetRank.
func (ip *Interpreter) GetRankedContributionAttributeAt(targetRank, contribRank int) string {
	idx, _ := ip.rankedContributionAt(targetRank, contribRank)
	return ip.attributes[idx].Name
}

// GetRankedContributionValueAt returns the contribution value at rank
// contribRank for target value targetRank.
func (ip *Interpreter) GetRankedContributionValueAt(targetRank, contribRank int) float64 {
	_, value := ip.rankedContributionAt(targetRank, contribRank)
	return value
}

// GetRankedContributionPartAt returns the human-readable source-part label
// of the attribute at contribution rank contribRank for target value
// targetRank, reconstructed from the attribute's compiled part labels.
func (ip *Interpreter) GetRankedContributionPartAt(targetRank, contribRank int) string {
	idx, _ := ip.rankedContributionAt(targetRank, contribRank)
	return ip.sourceCellLabel(idx)
}

func (ip *Interpreter) sourceCellLabel(attrIndex int) string {
	attr := ip.attributes[attrIndex]
	cellIndex := ip.sourceIndex[attrIndex]
	if len(attr.PairedPartLabels) > 0 {
		n1 := len(attr.SourcePartLabels)
		return attr.SourcePartLabels[cellIndex%n1] + " x " + attr.PairedPartLabels[cellIndex/n1]
	}
	return attr.SourcePartLabels[cellIndex]
}

func (ip *Interpreter) rankedContributionAt(targetRank, contribRank int) (attributeIndex int, value float64) {
	ip.ensureRankedContributions()
	c := ip.ranked[targetRank][contribRank]
	return c.attributeIndex, c.contribution
}

// ensureRankedContributions sorts each target value's attribute
// contributions descending once per bound observation, with an
// epsilon-stable comparator so floating-point noise never reorders two
// contributions that are equal for all practical purposes, and an
// attribute-name tiebreak so the order is fully deterministic.
func (ip *Interpreter) ensureRankedContributions() {
	if ip.rankedComputed {
		return
	}
	if ip.ranked == nil {
		ip.ranked = make([][]attributeContribution, ip.targetValueCount)
	}
	for t := 0; t < ip.targetValueCount; t++ {
		row := ip.ranked[t]
		if row == nil {
			row = make([]attributeContribution, len(ip.attributes))
			ip.ranked[t] = row
		}
		for a := range ip.attributes {
			row[a] = attributeContribution{attributeIndex: a, contribution: ip.GetContributionAt(t, a)}
		}
		sort.Slice(row, func(i, j int) bool {
			cmp := floatcmp.CompareIndicatorValue(row[i].contribution, row[j].contribution)
			if cmp != 0 {
				return cmp > 0
			}
			return ip.attributes[row[i].attributeIndex].Name < ip.attributes[row[j].attributeIndex].Name
		})
	}
	ip.rankedComputed = true
}
