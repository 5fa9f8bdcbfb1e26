// Package telemetry records wall-clock timings for the Driver's
// per-epsilon selection and detection phases, adapted from the teacher's
// profiling package into a tool for sizing event_iterations/
// detect_iterations budgets against observed run time rather than
// lattice-operation profiling.
package telemetry

import (
	"sync"
	"time"
)

// Phase names a stage of Detect's per-epsilon loop.
type Phase string

const (
	PhaseSelect Phase = "select"
	PhaseDetect Phase = "detect"
)

// Entry is a single timing measurement: the phase and tested epsilon it
// belongs to, and how long that call took.
type Entry struct {
	Phase   Phase
	Epsilon float64
	Dur     time.Duration
}

var (
	mu     sync.Mutex
	record []Entry
)

// Track records the elapsed time since start for (phase, epsilon). Call
// as `telemetry.Track(start, telemetry.PhaseSelect, eps)` right after the
// timed call returns.
func Track(start time.Time, phase Phase, epsilon float64) {
	elapsed := time.Since(start)
	mu.Lock()
	record = append(record, Entry{Phase: phase, Epsilon: epsilon, Dur: elapsed})
	mu.Unlock()
}

// SnapshotAndReset returns every timing entry recorded since the last
// call and clears the buffer, for the Driver to attach to a run's report
// or for the CLI to print as a summary table.
func SnapshotAndReset() []Entry {
	mu.Lock()
	defer mu.Unlock()
	out := make([]Entry, len(record))
	copy(out, record)
	record = nil
	return out
}

// Total sums the durations of every entry matching phase, or every entry
// when phase is empty.
func Total(entries []Entry, phase Phase) time.Duration {
	var total time.Duration
	for _, e := range entries {
		if phase == "" || e.Phase == phase {
			total += e.Dur
		}
	}
	return total
}
