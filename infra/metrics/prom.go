// Package metrics provides sink implementations recording simulation
// events in Prometheus or InfluxDB.
package metrics

import (
	coremetrics "github.com/avelard/roadcast/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records simulation events in Prometheus metrics.
type PromSink struct {
	trials        *prometheus.CounterVec
	trialDuration prometheus.Histogram
	runs          prometheus.Counter
	runDuration   prometheus.Histogram
}

// NewPromSink registers simulation metrics on the default Prometheus
// registerer. The Prometheus server is started separately.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	trials := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "simulation_trials_total",
		Help: "Total number of completed simulation trials",
	}, []string{"run_id"})
	trialDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "simulation_trial_duration_seconds",
		Help:    "Wall time of a single simulation trial",
		Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
	})
	runs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "simulation_runs_total",
		Help: "Total number of completed simulation runs",
	})
	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "simulation_run_duration_seconds",
		Help:    "Wall time of a full simulation run",
		Buckets: prometheus.DefBuckets,
	})

	if err := reg.Register(trials); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			trials = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(trialDuration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			trialDuration = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(runs); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			runs = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(runDuration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			runDuration = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}

	return &PromSink{trials: trials, trialDuration: trialDuration, runs: runs, runDuration: runDuration}, nil
}

// RecordTrial increments the trial counter and observes its duration.
func (s *PromSink) RecordTrial(ev coremetrics.TrialEvent) error {
	s.trials.WithLabelValues(ev.RunID).Inc()
	s.trialDuration.Observe(ev.Duration.Seconds())
	return nil
}

// RecordRun counts the run and observes its total duration.
func (s *PromSink) RecordRun(ev coremetrics.RunEvent) error {
	s.runs.Inc()
	s.runDuration.Observe(ev.Duration.Seconds())
	return nil
}
