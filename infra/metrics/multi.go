package metrics

import (
	"errors"

	coremetrics "github.com/avelard/roadcast/core/metrics"
)

// MultiSink fans events out to several sinks. Errors are joined so one
// failing backend does not hide the others.
type MultiSink struct {
	sinks []coremetrics.Sink
}

// NewMultiSink builds a sink dispatching to all the given sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordTrial(ev coremetrics.TrialEvent) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordTrial(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordRun(ev coremetrics.RunEvent) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordRun(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
