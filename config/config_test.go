package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validScenario = `
version: "1"
allocate:
  n: 10
  probabilities: [0.5, 0.3, 0.2]
observation:
  age: 0
`

const scenarioWithTypo = `
version: "1"
allocate:
  nn: 10
  probabilities: [0.5, 0.3, 0.2]
`

func writeScenario(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoad_ParsesValidScenario(t *testing.T) {
	cfg, err := Load(writeScenario(t, validScenario))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Allocate == nil || cfg.Allocate.N != 10 {
		t.Fatalf("allocate section not parsed: %+v", cfg.Allocate)
	}
	if cfg.Observation["age"] != 0 {
		t.Errorf("observation.age = %v, want 0", cfg.Observation["age"])
	}
}

func TestLoad_RejectsUnknownField(t *testing.T) {
	if _, err := Load(writeScenario(t, scenarioWithTypo)); err == nil {
		t.Error("expected an error for a typo'd field under strict decoding")
	}
}

func TestLoad_RejectsMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestMapObservation_CellIndexForAttribute(t *testing.T) {
	obs := MapObservation{"age": 1}
	idx, ok := obs.CellIndexForAttribute("age")
	if !ok || idx != 1 {
		t.Errorf("CellIndexForAttribute(age) = (%d, %v), want (1, true)", idx, ok)
	}
	if _, ok := obs.CellIndexForAttribute("missing"); ok {
		t.Error("expected ok=false for an unknown attribute")
	}
}
