package benchmark

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarioBuilder(t *testing.T) {
	scenario := NewScenarioBuilder("fast_small").
		WithDetector(DetectorFAST).
		WithResolution(320, 240).
		WithIterations(5).
		WithWarmupRuns(1).
		Build()

	assert.Equal(t, Scenario{
		Name:       "fast_small",
		Detector:   DetectorFAST,
		Width:      320,
		Height:     240,
		Iterations: 5,
		WarmupRuns: 1,
	}, scenario)
}

func TestRunScenario(t *testing.T) {
	suite := NewSuite()
	scenario := NewScenarioBuilder("canny_tiny").
		WithDetector(DetectorCanny).
		WithResolution(64, 64).
		WithIterations(3).
		WithWarmupRuns(1).
		Build()

	metrics, err := suite.RunScenario(context.Background(), scenario)
	require.NoError(t, err)
	assert.Equal(t, scenario, metrics.Scenario)
	assert.Greater(t, metrics.FramesPerSecond, 0.0)
	assert.Greater(t, metrics.FeatureCount, 0, "a checkerboard has edges")
	assert.Zero(t, metrics.ErrorRate)
}

func TestRunScenarioValidation(t *testing.T) {
	suite := NewSuite()

	_, err := suite.RunScenario(context.Background(), Scenario{
		Name: "bad", Detector: DetectorCanny, Width: 0, Height: 64, Iterations: 1,
	})
	assert.Error(t, err, "zero width is rejected")

	_, err = suite.RunScenario(context.Background(), Scenario{
		Name: "bad", Detector: DetectorKind("orb"), Width: 64, Height: 64, Iterations: 1,
	})
	assert.Error(t, err, "unknown detectors are rejected")
}

func TestRunAllCollectsResults(t *testing.T) {
	suite := NewSuite()
	for _, kind := range []DetectorKind{DetectorHarris, DetectorFAST} {
		suite.AddScenario(NewScenarioBuilder(string(kind)).
			WithDetector(kind).
			WithResolution(48, 48).
			WithIterations(2).
			WithWarmupRuns(0).
			Build())
	}

	require.NoError(t, suite.RunAll(context.Background()))
	assert.Len(t, suite.Results(), 2)
}

func TestRunAllHonorsCancellation(t *testing.T) {
	suite := NewSuite()
	suite.AddScenarioSet(QuickScenarios())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, suite.RunAll(ctx))
	assert.Empty(t, suite.Results())
}

func TestScenarioSetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.json")
	set := ResolutionComparisonScenarios(DetectorFAST)
	require.NoError(t, SaveScenarioSet(set, path))

	loaded, err := LoadScenarioSet(path)
	require.NoError(t, err)
	assert.Equal(t, set, loaded)

	_, err = LoadScenarioSet(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
