package benchmark

import (
	"context"
	"encoding/json"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/matajoh/visionnet-sub000/detectors/canny"
	"github.com/matajoh/visionnet-sub000/detectors/fast"
	"github.com/matajoh/visionnet-sub000/detectors/harris"
	"github.com/matajoh/visionnet-sub000/images"
)

// Suite manages and executes benchmark scenarios.
type Suite struct {
	mu        sync.RWMutex
	scenarios []Scenario
	results   []PerformanceMetrics
}

// NewSuite creates an empty benchmark suite.
func NewSuite() *Suite {
	return &Suite{
		scenarios: make([]Scenario, 0),
		results:   make([]PerformanceMetrics, 0),
	}
}

// AddScenario adds a scenario to the suite.
func (bs *Suite) AddScenario(scenario Scenario) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.scenarios = append(bs.scenarios, scenario)
}

// AddScenarioSet adds every scenario in a set.
func (bs *Suite) AddScenarioSet(set *ScenarioSet) {
	for _, s := range set.Scenarios {
		bs.AddScenario(s)
	}
}

// RunAll executes every scenario in order, collecting results. The context
// cancels the remaining scenarios.
func (bs *Suite) RunAll(ctx context.Context) error {
	bs.mu.RLock()
	scenarios := make([]Scenario, len(bs.scenarios))
	copy(scenarios, bs.scenarios)
	bs.mu.RUnlock()

	for _, scenario := range scenarios {
		if err := ctx.Err(); err != nil {
			return err
		}
		metrics, err := bs.RunScenario(ctx, scenario)
		if err != nil {
			return err
		}
		bs.mu.Lock()
		bs.results = append(bs.results, *metrics)
		bs.mu.Unlock()
	}
	return nil
}

// RunScenario executes a single scenario against a synthetic test image.
//
// Arguments:
//   - ctx: Cancels the run between iterations.
//   - scenario: The scenario to execute.
//
// Returns:
//   - *PerformanceMetrics: Timing, throughput and memory statistics.
//   - error: Non-nil on an unknown detector, invalid size, or cancellation.
func (bs *Suite) RunScenario(ctx context.Context, scenario Scenario) (*PerformanceMetrics, error) {
	if scenario.Width <= 0 || scenario.Height <= 0 {
		return nil, errors.Errorf("benchmark: invalid resolution %dx%d", scenario.Width, scenario.Height)
	}
	run, err := detectorRunner(scenario.Detector)
	if err != nil {
		return nil, err
	}

	gray := syntheticImage(scenario.Height, scenario.Width)
	metrics := &PerformanceMetrics{
		Scenario:  scenario,
		Timestamp: time.Now(),
	}

	for i := 0; i < scenario.WarmupRuns; i++ {
		run(gray)
	}

	var startMem runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&startMem)

	startTime := time.Now()
	totalFeatures := 0
	failures := 0
	for i := 0; i < scenario.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		count, err := run(gray)
		if err != nil {
			failures++
			continue
		}
		totalFeatures += count
	}
	totalDuration := time.Since(startTime)

	var endMem runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&endMem)

	metrics.TotalDuration = totalDuration
	metrics.FramesPerSecond = float64(scenario.Iterations) / totalDuration.Seconds()
	metrics.FeatureCount = totalFeatures
	metrics.ErrorRate = float64(failures) / float64(scenario.Iterations)
	metrics.MemoryStats = MemoryMetrics{
		AllocBytes:      endMem.Alloc,
		TotalAllocBytes: endMem.TotalAlloc - startMem.TotalAlloc,
		SysBytes:        endMem.Sys,
		NumGC:           endMem.NumGC - startMem.NumGC,
		HeapAllocBytes:  endMem.HeapAlloc,
	}
	metrics.CPUStats = CPUMetrics{NumCPU: runtime.NumCPU()}
	return metrics, nil
}

// Results returns the metrics collected so far.
func (bs *Suite) Results() []PerformanceMetrics {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	out := make([]PerformanceMetrics, len(bs.results))
	copy(out, bs.results)
	return out
}

// SaveResults writes the collected metrics to a JSON file.
func (bs *Suite) SaveResults(filename string) error {
	data, err := json.MarshalIndent(bs.Results(), "", "  ")
	if err != nil {
		return errors.Wrap(err, "benchmark: marshaling results")
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return errors.Wrapf(err, "benchmark: writing %s", filename)
	}
	return nil
}

// detectorRunner binds a detector kind to a closure returning the feature
// count for one frame. Canny and Harris pay the gradient cost per frame, the
// same as the file pipeline.
func detectorRunner(kind DetectorKind) (func(*images.Gray) (int, error), error) {
	switch kind {
	case DetectorCanny:
		opts := canny.DefaultOptions()
		return func(gray *images.Gray) (int, error) {
			mask, err := canny.Detect(images.SobelGradient(gray), opts)
			if err != nil {
				return 0, err
			}
			return mask.Count(), nil
		}, nil
	case DetectorHarris:
		opts := harris.DefaultOptions()
		return func(gray *images.Gray) (int, error) {
			corners, err := harris.Detect(images.SobelGradient(gray), opts)
			if err != nil {
				return 0, err
			}
			return len(corners), nil
		}, nil
	case DetectorFAST:
		opts := fast.DefaultOptions()
		return func(gray *images.Gray) (int, error) {
			corners, err := fast.Detect(gray, opts)
			if err != nil {
				return 0, err
			}
			return len(corners), nil
		}, nil
	}
	return nil, errors.Errorf("benchmark: unknown detector %q", kind)
}

// syntheticImage builds a deterministic test frame: a checkerboard with
// additive noise, giving every detector edges and corners to find.
func syntheticImage(rows, cols int) *images.Gray {
	g := images.NewGray(rows, cols)
	seed := uint32(7)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			v := 60
			if (row/16+col/16)%2 == 0 {
				v = 190
			}
			seed = seed*1664525 + 1013904223
			g.Data[row*cols+col] = uint8(v + int(seed%16))
		}
	}
	return g
}
