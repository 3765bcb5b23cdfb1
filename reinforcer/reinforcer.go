// Package reinforcer implements the classifier reinforcer: given a
// subset of "lever" attributes, for each target value it
// greedily searches each lever's alternative source parts for the one
// single-attribute change that would most increase the predicted
// probability of that target value, and ranks the levers by how much they
// helped.
package reinforcer

import (
	"errors"
	"sort"

	"github.com/kdinterpret/kdinterpret/classifier"
	"github.com/kdinterpret/kdinterpret/internal/floatcmp"
)

// ErrInvalidLevers is returned when the compiled lever set is malformed:
// no classifier, no levers, a lever with no DataGridStats or a
// non-positive source part count, or an out-of-range default source index.
// A lever's source part count is not checked against its DataGridStats.
var ErrInvalidLevers = errors.New("reinforcer: invalid lever set")

// Lever is one compiled attribute eligible for reinforcement: a predictor
// attribute the host allows the reinforcer to hypothetically move to a
// different source part in search of a better score.
type Lever struct {
	// Name is the lever attribute's name, used both to resolve an
	// observation's bound cell index and to break final-score ties.
	Name string
	// AttributeIndex is this attribute's index into the classifier's
	// DataGridWeightAt/DataGridSetTargetCellIndexAt space.
	AttributeIndex int
	// Stats is the attribute's compiled DataGridStats, read for
	// source-conditional log-probabilities.
	Stats classifier.DataGridStats
	// SourcePartCount is the number of source parts Stats' grid has.
	SourcePartCount int
	// DefaultSourceIndex is the source cell used when an observation's
	// sparse attribute block has no entry for this lever.
	DefaultSourceIndex int
}

func (l Lever) validate() bool {
	if l.Stats == nil || l.SourcePartCount <= 0 {
		return false
	}
	if l.DefaultSourceIndex < 0 || l.DefaultSourceIndex >= l.SourcePartCount {
		return false
	}
	return true
}

// Reinforcer is a compiled reinforcer over a fixed lever set.
type Reinforcer struct {
	cls              classifier.Classifier
	levers           []Lever
	targetValueCount int

	sourceIndex            []int
	initialPredictedTarget int

	rankedComputed []bool
	ranked         [][]leverResult
}

type leverResult struct {
	leverIndex     int
	partIndex      int
	finalScore     float64
	classChangeTag int
}

// New compiles a Reinforcer over levers against cls.
func New(cls classifier.Classifier, levers []Lever) (*Reinforcer, error) {
	if cls == nil || len(levers) == 0 {
		return nil, ErrInvalidLevers
	}
	for _, l := range levers {
		if !l.validate() {
			return nil, ErrInvalidLevers
		}
	}
	targetValueCount := cls.TargetValueCount()
	return &Reinforcer{
		cls:              cls,
		levers:           levers,
		targetValueCount: targetValueCount,
		sourceIndex:      make([]int, len(levers)),
		rankedComputed:   make([]bool, targetValueCount),
		ranked:           make([][]leverResult, targetValueCount),
	}, nil
}

// BindObservation resolves each lever's current source cell index for obs,
// falling back to the lever's compiled default when obs has no value for
// it, snapshots the observation's initially predicted target value, and
// invalidates the per-target-value reinforcement cache.
func (r *Reinforcer) BindObservation(obs classifier.Observation) {
	for i, l := range r.levers {
		if idx, ok := obs.CellIndexForAttribute(l.Name); ok {
			r.sourceIndex[i] = idx
		} else {
			r.sourceIndex[i] = l.DefaultSourceIndex
		}
	}
	r.initialPredictedTarget = r.cls.TargetValueRank(r.cls.ComputeTargetValue())
	for t := range r.rankedComputed {
		r.rankedComputed[t] = false
	}
}

// GetReinforcementInitialScoreAt returns the currently bound observation's
// predicted probability of target value targetRank, before reinforcement.
func (r *Reinforcer) GetReinforcementInitialScoreAt(targetRank int) float64 {
	return r.cls.ComputeTargetProbAt(r.cls.TargetValueAt(targetRank))
}

// GetRankedReinforcementAttributeAt returns the name of the lever attribute
// ranked rank (0 = most improving) for target value targetRank.
func (r *Reinforcer) GetRankedReinforcementAttributeAt(targetRank, rank int) string {
	res := r.rankedReinforcementAt(targetRank, rank)
	return r.levers[res.leverIndex].Name
}

// GetRankedReinforcementPartIndexAt returns the source part index the
// ranked lever was moved to (or its current part, if no move improved the
// score).
func (r *Reinforcer) GetRankedReinforcementPartIndexAt(targetRank, rank int) int {
	return r.rankedReinforcementAt(targetRank, rank).partIndex
}

// GetRankedReinforcementFinalScoreAt returns the ranked lever's final
// score; 0 means no alternative source part improved on the initial score.
func (r *Reinforcer) GetRankedReinforcementFinalScoreAt(targetRank, rank int) float64 {
	return r.rankedReinforcementAt(targetRank, rank).finalScore
}

// GetRankedReinforcementClassChangeTagAt returns the ranked lever's
// class-change tag: 0 if targetRank was already the predicted class, +1 if
// moving the lever makes targetRank the new predicted class, -1 otherwise.
func (r *Reinforcer) GetRankedReinforcementClassChangeTagAt(targetRank, rank int) int {
	return r.rankedReinforcementAt(targetRank, rank).classChangeTag
}

func (r *Reinforcer) rankedReinforcementAt(targetRank, rank int) leverResult {
	r.ensureRanked(targetRank)
	return r.ranked[targetRank][rank]
}

// ensureRanked computes and sorts every lever's reinforcement for
// targetRank once per bound observation, descending by final score with an
// epsilon-stable comparator and an attribute-name tiebreak.
func (r *Reinforcer) ensureRanked(targetRank int) {
	if r.rankedComputed[targetRank] {
		return
	}
	results := make([]leverResult, len(r.levers))
	for i := range r.levers {
		results[i] = r.computeReinforcementAt(targetRank, i)
	}
	sort.Slice(results, func(i, j int) bool {
		cmp := floatcmp.CompareIndicatorValue(results[i].finalScore, results[j].finalScore)
		if cmp != 0 {
			return cmp > 0
		}
		return r.levers[results[i].leverIndex].Name < r.levers[results[j].leverIndex].Name
	})
	r.ranked[targetRank] = results
	r.rankedComputed[targetRank] = true
}

// computeReinforcementAt simulates moving lever leverIndex to each
// alternative source part and keeps the one maximizing target value
// targetRank's predicted probability.
func (r *Reinforcer) computeReinforcementAt(targetRank, leverIndex int) leverResult {
	lever := r.levers[leverIndex]
	currentSource := r.sourceIndex[leverIndex]
	weight := r.cls.DataGridWeightAt(lever.AttributeIndex)

	result := leverResult{leverIndex: leverIndex, partIndex: currentSource, finalScore: 0, classChangeTag: 0}
	bestScore := r.GetReinforcementInitialScoreAt(targetRank)

	snapshot := r.cls.TargetLogProbNumeratorTerms()
	terms := make([]float64, r.targetValueCount)
	newScores := make([]float64, r.targetValueCount)

	for source := 0; source < lever.SourcePartCount; source++ {
		if source == currentSource {
			continue
		}
		copy(terms, snapshot)
		for t := 0; t < r.targetValueCount; t++ {
			targetPart := r.cls.DataGridSetTargetCellIndexAt(lever.AttributeIndex, t)
			currentLogProb := lever.Stats.DataGridSourceConditionalLogProbAt(currentSource, targetPart)
			newLogProb := lever.Stats.DataGridSourceConditionalLogProbAt(source, targetPart)
			terms[t] += weight * (newLogProb - currentLogProb)
		}
		r.cls.ComputeTargetProbsFromNumeratorTerms(terms, newScores)
		newScore := newScores[targetRank]

		if floatcmp.CompareIndicatorValue(newScore, bestScore) > 0 {
			bestScore = newScore
			finalPredicted := argMaxScore(newScores)

			var tag int
			switch {
			case r.initialPredictedTarget == targetRank:
				tag = 0
			case finalPredicted == targetRank:
				tag = 1
			default:
				tag = -1
			}

			result.partIndex = source
			result.finalScore = newScore
			result.classChangeTag = tag
		}
	}
	return result
}

// argMaxScore returns the index of the largest strictly-positive score.
func argMaxScore(scores []float64) int {
	argMax := -1
	best := 0.0
	for i, s := range scores {
		if s > best {
			best = s
			argMax = i
		}
	}
	return argMax
}
