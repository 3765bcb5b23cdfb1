// Package config loads the YAML scenario files the cmd/ CLI reads: strict
// (KnownFields(true)) decoding so a typo'd field fails loudly instead of
// silently zeroing a value.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is a scenario file's top-level shape. Every section must be
// listed here to satisfy strict decoding; a section a given CLI verb
// doesn't need may simply be omitted from the YAML.
type Config struct {
	Version    string              `yaml:"version"`
	Allocate   *AllocateScenario   `yaml:"allocate"`
	Enumerate  *EnumerateScenario  `yaml:"enumerate"`
	Classifier *ClassifierScenario `yaml:"classifier"`
	Observation map[string]int     `yaml:"observation"`
}

// AllocateScenario is the input to the `allocate` verb: a call to
// ComputeBestSample over a single probability vector.
type AllocateScenario struct {
	N             float64   `yaml:"n"`
	Probabilities []float64 `yaml:"probabilities"`
}

// EnumerateScenario is the input to the `enumerate` verb: a bounded
// top-K joint-cell search, in either product or selection mode.
type EnumerateScenario struct {
	// Mode selects "product" (ComputeBestMultipleProductCells over
	// ProbabilityVectors) or "selection" (ComputeBestSelectionCells over
	// SelectionProbabilities choosing SelectionK indices).
	Mode                   string      `yaml:"mode"`
	N                      float64     `yaml:"n"`
	ProbabilityVectors     [][]float64 `yaml:"probability_vectors"`
	SelectionK             int         `yaml:"selection_k"`
	SelectionProbabilities []float64   `yaml:"selection_probabilities"`
}

// AttributeScenario describes one predictor attribute's compiled grid: a
// dense (source part x target part) frequency table, already aggregated
// from training data the way a host classifier would supply it. kdinterpret
// never trains this table; the scenario file states it directly.
type AttributeScenario struct {
	Name string  `yaml:"name"`
	// Weight scales this attribute's contribution in both the classifier's
	// log-odds combination and its Shapley table.
	Weight float64 `yaml:"weight"`
	// SourcePartLabels names the (first, if paired) source dimension.
	SourcePartLabels []string `yaml:"source_part_labels"`
	// PairedPartLabels names the second dimension for a bivariate
	// (grouped-attribute) grid; empty for a univariate grid.
	PairedPartLabels []string `yaml:"paired_part_labels"`
	// CellFrequencies is the (source, target part) joint frequency,
	// flattened with the source cell varying fastest: index
	// source + targetPart*sourceCellCount.
	CellFrequencies []float64 `yaml:"cell_frequencies"`
	// TargetFrequencies is the frequency of each target part.
	TargetFrequencies []float64 `yaml:"target_frequencies"`
	// TargetCellIndex maps each target value's rank to the target part
	// index this attribute's grid assigns it; defaults to the identity
	// mapping (one target part per target value) when omitted.
	TargetCellIndex []int `yaml:"target_cell_index"`
	// DefaultSourceIndex is used when the observation has no value for
	// this attribute.
	DefaultSourceIndex int `yaml:"default_source_index"`
	// Lever marks this attribute as eligible for the `reinforce` verb.
	Lever bool `yaml:"lever"`
}

// ClassifierScenario is the input to the `interpret` and `reinforce`
// verbs: a minimal already-compiled naive-Bayes-family classifier, stated
// directly as per-attribute frequency grids rather than trained.
type ClassifierScenario struct {
	TargetValues           []string            `yaml:"target_values"`
	TargetValueFrequencies []float64           `yaml:"target_value_frequencies"`
	Attributes             []AttributeScenario `yaml:"attributes"`
}

// Load reads and strictly decodes the scenario file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}

// MapObservation is a classifier.Observation backed by a flat attribute
// name to source-cell-index map, the shape the `observation` scenario
// section decodes into.
type MapObservation map[string]int

// CellIndexForAttribute implements classifier.Observation.
func (o MapObservation) CellIndexForAttribute(attr string) (int, bool) {
	idx, ok := o[attr]
	return idx, ok
}
