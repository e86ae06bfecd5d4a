package sim

import "time"

// Series holds one work item's per-trial outcomes; index = trial number.
// Slots are written exactly once by exactly one trial, so concurrent trials
// never contend.
type Series struct {
	Starts      []time.Time
	Completions []time.Time
	Efforts     []float64
}

// Result is the raw output of a simulation run, keyed by work item
// position. It carries no aggregation; see the stats package.
type Result struct {
	RunID      string
	Seed       uint64
	Iterations int
	Items      map[int]*Series
}

func newResult(runID string, seed uint64, iterations int, positions []int) *Result {
	r := &Result{RunID: runID, Seed: seed, Iterations: iterations, Items: make(map[int]*Series, len(positions))}
	for _, p := range positions {
		r.Items[p] = &Series{
			Starts:      make([]time.Time, iterations),
			Completions: make([]time.Time, iterations),
			Efforts:     make([]float64, iterations),
		}
	}
	return r
}
