package benchmark

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// DetectorKind names the detector a scenario exercises.
type DetectorKind string

// The benchmarkable detectors.
const (
	DetectorCanny  DetectorKind = "canny"
	DetectorHarris DetectorKind = "harris"
	DetectorFAST   DetectorKind = "fast"
)

// Scenario describes one benchmark run: which detector, at what image size,
// for how many iterations.
type Scenario struct {
	Name       string       `json:"name"`
	Detector   DetectorKind `json:"detector"`
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	Iterations int          `json:"iterations"`
	WarmupRuns int          `json:"warmup_runs"`
}

// ScenarioBuilder builds scenarios with a fluent API.
type ScenarioBuilder struct {
	scenario Scenario
}

// NewScenarioBuilder starts a scenario with the default iteration counts.
func NewScenarioBuilder(name string) *ScenarioBuilder {
	return &ScenarioBuilder{
		scenario: Scenario{
			Name:       name,
			Iterations: 100,
			WarmupRuns: 10,
		},
	}
}

// WithDetector sets the detector under test.
func (sb *ScenarioBuilder) WithDetector(kind DetectorKind) *ScenarioBuilder {
	sb.scenario.Detector = kind
	return sb
}

// WithResolution sets the synthetic input image size.
func (sb *ScenarioBuilder) WithResolution(width, height int) *ScenarioBuilder {
	sb.scenario.Width = width
	sb.scenario.Height = height
	return sb
}

// WithIterations sets the number of timed iterations.
func (sb *ScenarioBuilder) WithIterations(iterations int) *ScenarioBuilder {
	sb.scenario.Iterations = iterations
	return sb
}

// WithWarmupRuns sets the number of untimed warmup runs.
func (sb *ScenarioBuilder) WithWarmupRuns(warmups int) *ScenarioBuilder {
	sb.scenario.WarmupRuns = warmups
	return sb
}

// Build returns the configured scenario.
func (sb *ScenarioBuilder) Build() Scenario {
	return sb.scenario
}

// ScenarioSet is a named collection of related scenarios.
type ScenarioSet struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Scenarios   []Scenario `json:"scenarios"`
}

// QuickScenarios returns a small scenario set covering each detector at two
// common sizes.
func QuickScenarios() *ScenarioSet {
	detectors := []DetectorKind{DetectorCanny, DetectorHarris, DetectorFAST}
	sizes := [][2]int{{320, 240}, {640, 480}}

	scenarios := make([]Scenario, 0, len(detectors)*len(sizes))
	for _, kind := range detectors {
		for _, size := range sizes {
			scenarios = append(scenarios, NewScenarioBuilder(
				fmt.Sprintf("quick_%s_%dx%d", kind, size[0], size[1])).
				WithDetector(kind).
				WithResolution(size[0], size[1]).
				WithIterations(50).
				WithWarmupRuns(5).
				Build())
		}
	}
	return &ScenarioSet{
		Name:        "Quick Detector Test",
		Description: "Each detector at common capture resolutions",
		Scenarios:   scenarios,
	}
}

// ResolutionComparisonScenarios compares one detector across input sizes.
func ResolutionComparisonScenarios(kind DetectorKind) *ScenarioSet {
	sizes := [][2]int{{160, 120}, {320, 240}, {640, 480}, {1280, 720}}

	scenarios := make([]Scenario, 0, len(sizes))
	for _, size := range sizes {
		scenarios = append(scenarios, NewScenarioBuilder(
			fmt.Sprintf("resolution_%s_%dx%d", kind, size[0], size[1])).
			WithDetector(kind).
			WithResolution(size[0], size[1]).
			Build())
	}
	return &ScenarioSet{
		Name:        fmt.Sprintf("Resolution Comparison - %s", kind),
		Description: fmt.Sprintf("Scaling behavior of the %s detector", kind),
		Scenarios:   scenarios,
	}
}

// SaveScenarioSet writes a scenario set to a JSON file.
func SaveScenarioSet(set *ScenarioSet, filename string) error {
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return errors.Wrap(err, "benchmark: marshaling scenario set")
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return errors.Wrapf(err, "benchmark: writing %s", filename)
	}
	return nil
}

// LoadScenarioSet reads a scenario set from a JSON file.
func LoadScenarioSet(filename string) (*ScenarioSet, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "benchmark: reading %s", filename)
	}
	var set ScenarioSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, errors.Wrapf(err, "benchmark: parsing %s", filename)
	}
	return &set, nil
}
