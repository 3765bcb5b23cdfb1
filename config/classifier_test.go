package config

import (
	"math"
	"testing"
)

func scenario() *ClassifierScenario {
	return &ClassifierScenario{
		TargetValues:           []string{"t0", "t1"},
		TargetValueFrequencies: []float64{50, 50},
		Attributes: []AttributeScenario{
			{
				Name:               "a0",
				Weight:             1,
				SourcePartLabels:   []string{"lo", "hi"},
				CellFrequencies:    []float64{40, 10, 10, 40},
				TargetFrequencies:  []float64{50, 50},
				DefaultSourceIndex: 0,
			},
		},
	}
}

func TestNewScenarioClassifier_RejectsEmptyScenario(t *testing.T) {
	if _, err := NewScenarioClassifier(nil); err != ErrInvalidClassifierScenario {
		t.Errorf("expected ErrInvalidClassifierScenario, got %v", err)
	}
}

func TestNewScenarioClassifier_RejectsMismatchedFrequencies(t *testing.T) {
	s := scenario()
	s.TargetValueFrequencies = []float64{50}
	if _, err := NewScenarioClassifier(s); err != ErrInvalidClassifierScenario {
		t.Errorf("expected ErrInvalidClassifierScenario, got %v", err)
	}
}

func TestScenarioClassifier_BindAndPredict(t *testing.T) {
	c, err := NewScenarioClassifier(scenario())
	if err != nil {
		t.Fatalf("NewScenarioClassifier: %v", err)
	}
	c.Bind(MapObservation{"a0": 0})
	if got := c.ComputeTargetValue(); got != "t0" {
		t.Errorf("ComputeTargetValue() = %q, want t0 (source part 0 favors t0)", got)
	}
	p0 := c.ComputeTargetProbAt("t0")
	p1 := c.ComputeTargetProbAt("t1")
	if math.Abs(p0+p1-1) > 1e-9 {
		t.Errorf("probabilities don't sum to 1: %v + %v", p0, p1)
	}
	if p0 <= p1 {
		t.Errorf("p(t0) = %v, want > p(t1) = %v", p0, p1)
	}
}

func TestScenarioClassifier_BindFallsBackToDefault(t *testing.T) {
	c, err := NewScenarioClassifier(scenario())
	if err != nil {
		t.Fatalf("NewScenarioClassifier: %v", err)
	}
	c.Bind(MapObservation{})
	if c.sourceIndex[0] != c.defaultSourceIdx[0] {
		t.Errorf("sourceIndex = %d, want default %d", c.sourceIndex[0], c.defaultSourceIdx[0])
	}
}

func TestScenarioClassifier_ComputeTargetProbsFromNumeratorTerms_SumsToOne(t *testing.T) {
	c, err := NewScenarioClassifier(scenario())
	if err != nil {
		t.Fatalf("NewScenarioClassifier: %v", err)
	}
	out := make([]float64, 2)
	c.ComputeTargetProbsFromNumeratorTerms([]float64{3, -2}, out)
	if math.Abs(out[0]+out[1]-1) > 1e-9 {
		t.Errorf("probabilities don't sum to 1: %v", out)
	}
	if out[0] <= out[1] {
		t.Errorf("expected out[0] > out[1] for numerator 3 > -2, got %v", out)
	}
}

func TestScenarioClassifier_AttributeIndexAndDefaults(t *testing.T) {
	c, err := NewScenarioClassifier(scenario())
	if err != nil {
		t.Fatalf("NewScenarioClassifier: %v", err)
	}
	if idx := c.AttributeIndex("a0"); idx != 0 {
		t.Errorf("AttributeIndex(a0) = %d, want 0", idx)
	}
	if idx := c.AttributeIndex("missing"); idx != -1 {
		t.Errorf("AttributeIndex(missing) = %d, want -1", idx)
	}
	if got := c.DefaultSourceIndexes(); len(got) != 1 || got[0] != 0 {
		t.Errorf("DefaultSourceIndexes() = %v, want [0]", got)
	}
}
