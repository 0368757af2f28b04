// Package benchmark - throughput measurement for the feature detectors.
package benchmark

import "time"

// PerformanceMetrics captures the outcome of one benchmark scenario.
type PerformanceMetrics struct {
	Scenario        Scenario      `json:"scenario"`
	Timestamp       time.Time     `json:"timestamp"`
	TotalDuration   time.Duration `json:"total_duration"`
	FramesPerSecond float64       `json:"frames_per_second"`
	FeatureCount    int           `json:"feature_count"`
	ErrorRate       float64       `json:"error_rate"`
	MemoryStats     MemoryMetrics `json:"memory_stats"`
	CPUStats        CPUMetrics    `json:"cpu_stats"`
}

// MemoryMetrics captures memory usage over a scenario run.
type MemoryMetrics struct {
	AllocBytes      uint64 `json:"alloc_bytes"`
	TotalAllocBytes uint64 `json:"total_alloc_bytes"`
	SysBytes        uint64 `json:"sys_bytes"`
	NumGC           uint32 `json:"num_gc"`
	HeapAllocBytes  uint64 `json:"heap_alloc_bytes"`
}

// CPUMetrics captures the CPU environment of a scenario run.
type CPUMetrics struct {
	NumCPU int `json:"num_cpu"`
}
