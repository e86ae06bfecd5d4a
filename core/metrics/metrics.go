// Package metrics defines the observability events emitted by the Monte
// Carlo driver and the sink interfaces infra adapters implement. Recording
// is best-effort: a failing sink never aborts a simulation run.
package metrics

import "time"

// TrialEvent describes one completed simulation trial.
type TrialEvent struct {
	RunID    string
	Trial    int
	Items    int
	Duration time.Duration
}

// RunEvent describes a completed simulation run.
type RunEvent struct {
	RunID      string
	Iterations int
	Items      int
	Duration   time.Duration
	Completed  time.Time
}

// Sink records simulation events for observability purposes.
type Sink interface {
	RecordTrial(ev TrialEvent) error
	RecordRun(ev RunEvent) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordTrial(TrialEvent) error { return nil }
func (NopSink) RecordRun(RunEvent) error     { return nil }
