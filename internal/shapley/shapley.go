// Package shapley builds and stores the one-vs-all Shapley-value
// contribution table for a single classifier attribute, following
// Lemaire, Clerot & Boullé's efficient naive-Bayes Shapley value
// computation: for every (source part, target value) pair it stores
// w · (ln(P(s|t)/P(s|¬t)) − E_s[ln(P(s|t)/P(s|¬t))]).
package shapley

import (
	"errors"
	"math"
)

// ErrInvalidGrid is returned when a GridInput fails its shape or frequency
// invariants.
var ErrInvalidGrid = errors.New("shapley: invalid grid input")

// GridInput is the bivariate (source attribute × target) grid a Table is
// built from, already exported from a host classifier's DataGridStats.
type GridInput struct {
	// SourcePartFrequencies is the marginal frequency of each source part.
	SourcePartFrequencies []float64
	// TargetPartFrequencies is the marginal frequency of each target part;
	// its length equals the target value count unless target values are
	// grouped, in which case it is smaller.
	TargetPartFrequencies []float64
	// CellFrequencies is the (source part, target part) joint frequency,
	// flattened with the source part varying fastest:
	// CellFrequencies[s + t*len(SourcePartFrequencies)].
	CellFrequencies []float64
	// TotalFrequency is the grid's total observed frequency.
	TotalFrequency float64
	// TargetValueFrequencies is the observed frequency of each original
	// target value (length = the classifier's target value count, which
	// may exceed len(TargetPartFrequencies) when values are grouped).
	TargetValueFrequencies []float64
	// TargetValueToPart maps each target value's rank to the index of
	// the target part it belongs to.
	TargetValueToPart []int
	// PartsAreSingletons is true when every target part holds exactly one
	// target value (no grouping), in which case the Laplace epsilon and
	// conditional frequencies need no pro-rating.
	PartsAreSingletons bool
}

func (g GridInput) validate() error {
	sourceSize := len(g.SourcePartFrequencies)
	targetValueCount := len(g.TargetValueFrequencies)
	if sourceSize <= 1 || targetValueCount <= 1 {
		return ErrInvalidGrid
	}
	if len(g.TargetValueToPart) != targetValueCount {
		return ErrInvalidGrid
	}
	if len(g.CellFrequencies) != sourceSize*len(g.TargetPartFrequencies) {
		return ErrInvalidGrid
	}
	if g.TotalFrequency <= 0 {
		return ErrInvalidGrid
	}
	for _, part := range g.TargetValueToPart {
		if part < 0 || part >= len(g.TargetPartFrequencies) {
			return ErrInvalidGrid
		}
	}
	return nil
}

// Table is a compiled Shapley-value table for one attribute: SourceSize()
// rows (source parts) by TargetSize() columns (target values), read-only
// once Build returns.
type Table struct {
	sourceSize int
	targetSize int
	values     []float64
}

// SourceSize returns the number of source parts.
func (t *Table) SourceSize() int { return t.sourceSize }

// TargetSize returns the number of target values.
func (t *Table) TargetSize() int { return t.targetSize }

// ValueAt returns the Shapley value at (sourceIndex, targetIndex).
func (t *Table) ValueAt(sourceIndex, targetIndex int) float64 {
	if sourceIndex < 0 || sourceIndex >= t.sourceSize || targetIndex < 0 || targetIndex >= t.targetSize {
		panic("shapley: index out of range")
	}
	return t.values[sourceIndex+targetIndex*t.sourceSize]
}

func (t *Table) setAt(sourceIndex, targetIndex int, v float64) {
	t.values[sourceIndex+targetIndex*t.sourceSize] = v
}

// Build computes a Table from grid for one attribute with weight
// attributeWeight. The Laplace epsilon is 1/(N+1); when
// target parts group several values, both the epsilon and the observed
// cell frequency for a value are prorated by that value's share of its
// part's frequency.
func Build(grid GridInput, attributeWeight float64) (*Table, error) {
	if attributeWeight <= 0 {
		return nil, ErrInvalidGrid
	}
	if err := grid.validate(); err != nil {
		return nil, err
	}

	sourceSize := len(grid.SourcePartFrequencies)
	targetSize := len(grid.TargetValueFrequencies)
	targetPartCount := len(grid.TargetPartFrequencies)

	table := &Table{sourceSize: sourceSize, targetSize: targetSize, values: make([]float64, sourceSize*targetSize)}

	laplaceEpsilon := 1.0 / (grid.TotalFrequency + 1)
	for target := 0; target < targetSize; target++ {
		targetPart := grid.TargetValueToPart[target]
		targetValueFreq := grid.TargetValueFrequencies[target]

		oneEpsilon := laplaceEpsilon
		if !grid.PartsAreSingletons {
			oneEpsilon = laplaceEpsilon * targetValueFreq / grid.TargetPartFrequencies[targetPart]
		}
		allEpsilon := float64(targetPartCount)*laplaceEpsilon - oneEpsilon

		expectedTerm := 0.0
		for sourcePart := 0; sourcePart < sourceSize; sourcePart++ {
			oneFreq := grid.CellFrequencies[sourcePart+targetPart*sourceSize]
			if !grid.PartsAreSingletons {
				oneFreq = oneFreq * targetValueFreq / grid.TargetPartFrequencies[targetPart]
			}
			allFreq := grid.SourcePartFrequencies[sourcePart] - oneFreq

			probOne := (oneFreq + oneEpsilon) / (targetValueFreq + float64(sourceSize)*oneEpsilon)
			probAll := (allFreq + allEpsilon) / (grid.TotalFrequency - targetValueFreq + float64(sourceSize)*allEpsilon)

			term := math.Log(probOne / probAll)
			table.setAt(sourcePart, target, term)
			expectedTerm += (grid.SourcePartFrequencies[sourcePart] / grid.TotalFrequency) * term
		}

		for sourcePart := 0; sourcePart < sourceSize; sourcePart++ {
			term := table.ValueAt(sourcePart, target)
			table.setAt(sourcePart, target, attributeWeight*(term-expectedTerm))
		}
	}

	return table, nil
}
