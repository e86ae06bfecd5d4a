package sim

import (
	"fmt"
	"time"

	"github.com/avelard/roadcast/core/capacity"
)

// Config carries the resolved parameters of one simulation run. The caller
// (config loading, tests) is responsible for producing parsed values; the
// engine only validates them.
type Config struct {
	// Start is the project start date. It is normalized to the next working
	// day before the first trial.
	Start time.Time
	// Period selects quarterly or monthly capacity budgeting.
	Period capacity.PeriodType
	// DefaultQuarterlyCapacity is the person-day capacity per quarter used
	// when no override exists. Monthly runs derive their default from it.
	DefaultQuarterlyCapacity float64
	// Iterations is the number of trials, at least 1.
	Iterations int
	// Seed is the root random seed. Zero selects a time-derived seed; trial
	// i always draws from its own source seeded with Seed+i.
	Seed uint64
	// Workers bounds trial parallelism. Zero or negative selects GOMAXPROCS.
	Workers int
}

// Validate checks the run parameters.
func (c Config) Validate() error {
	if c.Start.IsZero() {
		return fmt.Errorf("project start date is required")
	}
	if !c.Period.Valid() {
		return fmt.Errorf("unsupported period type %q", c.Period)
	}
	if c.DefaultQuarterlyCapacity <= 0 {
		return fmt.Errorf("default quarterly capacity must be positive, got %g", c.DefaultQuarterlyCapacity)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1, got %d", c.Iterations)
	}
	return nil
}
