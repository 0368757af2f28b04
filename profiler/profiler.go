// Package profiler - lightweight operation timing for the detection
// pipeline. The CLI wraps each stage (load, gradient, detect, render) in a
// StageTimer so runs can report where the time went.
package profiler

import (
	"sort"
	"sync"
	"time"
)

// StageTimer accumulates wall-clock timings per named stage. Safe for
// concurrent use.
type StageTimer struct {
	mu     sync.Mutex
	stages map[string]*stageStats
}

type stageStats struct {
	total time.Duration
	min   time.Duration
	max   time.Duration
	count int64
}

// StageReport is the snapshot of one stage's accumulated timings.
type StageReport struct {
	Name    string        `json:"name"`
	Count   int64         `json:"count"`
	Total   time.Duration `json:"total"`
	Average time.Duration `json:"average"`
	Min     time.Duration `json:"min"`
	Max     time.Duration `json:"max"`
}

// NewStageTimer creates an empty timer.
func NewStageTimer() *StageTimer {
	return &StageTimer{stages: make(map[string]*stageStats)}
}

// Start begins timing a stage. The returned function records the elapsed
// time when called, typically via defer.
func (st *StageTimer) Start(name string) func() {
	begin := time.Now()
	return func() {
		st.Record(name, time.Since(begin))
	}
}

// Record adds one measured duration to a stage.
func (st *StageTimer) Record(name string, d time.Duration) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.stages[name]
	if !ok {
		s = &stageStats{min: d, max: d}
		st.stages[name] = s
	}
	s.total += d
	s.count++
	if d < s.min {
		s.min = d
	}
	if d > s.max {
		s.max = d
	}
}

// Report returns per-stage snapshots sorted by descending total time.
func (st *StageTimer) Report() []StageReport {
	st.mu.Lock()
	defer st.mu.Unlock()

	reports := make([]StageReport, 0, len(st.stages))
	for name, s := range st.stages {
		reports = append(reports, StageReport{
			Name:    name,
			Count:   s.count,
			Total:   s.total,
			Average: s.total / time.Duration(s.count),
			Min:     s.min,
			Max:     s.max,
		})
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Total > reports[j].Total })
	return reports
}

// Fields flattens the report into a map suitable for structured logging,
// keyed "<stage>_ms" with millisecond totals.
func (st *StageTimer) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	for _, r := range st.Report() {
		fields[r.Name+"_ms"] = float64(r.Total.Microseconds()) / 1000.0
	}
	return fields
}
