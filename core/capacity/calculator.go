package capacity

import (
	"errors"
	"fmt"
	"time"

	"github.com/avelard/roadcast/core/calendar"
)

// PeriodType selects the calendar granularity capacity is budgeted over.
type PeriodType string

const (
	Quarterly PeriodType = "quarterly"
	Monthly   PeriodType = "monthly"
)

// Valid reports whether the period type is one of the supported values.
func (p PeriodType) Valid() bool {
	return p == Quarterly || p == Monthly
}

// ErrNoWorkingDays is returned when a period contains no working days and a
// per-day capacity would divide by zero.
var ErrNoWorkingDays = errors.New("period has no working days")

// PeriodID maps a date to its internal period identifier: "YYYY-QN" for
// quarterly periods, "YYYY-MM" for monthly ones.
func PeriodID(d time.Time, pt PeriodType) string {
	if pt == Monthly {
		return fmt.Sprintf("%04d-%02d", d.Year(), int(d.Month()))
	}
	return fmt.Sprintf("%04d-Q%d", d.Year(), (int(d.Month())-1)/3+1)
}

// Calculator resolves period capacities for one simulation run. It is
// read-only after construction and safe to share across concurrent trials.
type Calculator struct {
	cal              calendar.Calendar
	period           PeriodType
	defaultQuarterly float64
	overrides        map[string]float64
}

// NewCalculator builds a calculator for the given period type. The override
// mapping is keyed by internal period identifiers and copied so the caller's
// map is never mutated or observed after construction.
func NewCalculator(cal calendar.Calendar, pt PeriodType, defaultQuarterly float64, overrides map[string]float64) (*Calculator, error) {
	if !pt.Valid() {
		return nil, fmt.Errorf("unsupported period type %q", pt)
	}
	if defaultQuarterly <= 0 {
		return nil, fmt.Errorf("default quarterly capacity must be positive, got %g", defaultQuarterly)
	}
	ov := make(map[string]float64, len(overrides))
	for k, v := range overrides {
		ov[k] = v
	}
	return &Calculator{cal: cal, period: pt, defaultQuarterly: defaultQuarterly, overrides: ov}, nil
}

// Period returns the configured period type.
func (c *Calculator) Period() PeriodType { return c.period }

// PeriodID returns the identifier of the period containing d.
func (c *Calculator) PeriodID(d time.Time) string { return PeriodID(d, c.period) }

// PeriodStart returns the first calendar day of the period containing d.
func (c *Calculator) PeriodStart(d time.Time) time.Time {
	d = calendar.DayOf(d)
	if c.period == Monthly {
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	startMonth := time.Month((int(d.Month())-1)/3*3 + 1)
	return time.Date(d.Year(), startMonth, 1, 0, 0, 0, 0, time.UTC)
}

// PeriodEnd returns the last calendar day of the period containing d.
func (c *Calculator) PeriodEnd(d time.Time) time.Time {
	return c.NextPeriodStart(d).AddDate(0, 0, -1)
}

// NextPeriodStart returns the first calendar day of the period following the
// one containing d, crossing year boundaries as needed.
func (c *Calculator) NextPeriodStart(d time.Time) time.Time {
	start := c.PeriodStart(d)
	if c.period == Monthly {
		return start.AddDate(0, 1, 0)
	}
	return start.AddDate(0, 3, 0)
}

// WorkingDays counts the working days in the period containing d.
func (c *Calculator) WorkingDays(d time.Time) int {
	return c.cal.WorkingDaysBetween(c.PeriodStart(d), c.PeriodEnd(d))
}

// RemainingWorkingDays counts working days from d (inclusive) to the end of
// its period.
func (c *Calculator) RemainingWorkingDays(d time.Time) int {
	return c.cal.WorkingDaysBetween(calendar.DayOf(d), c.PeriodEnd(d))
}

// TotalCapacity returns the capacity for the period containing d: the
// override value when one exists, otherwise the configured default. The
// monthly default is the quarterly default divided by three; it is derived,
// not independently configurable.
func (c *Calculator) TotalCapacity(d time.Time) float64 {
	if v, ok := c.overrides[c.PeriodID(d)]; ok {
		return v
	}
	if c.period == Monthly {
		return c.defaultQuarterly / 3
	}
	return c.defaultQuarterly
}

// PerWorkingDay returns the capacity available per working day in the
// period containing d. A period without working days is a fatal
// configuration error rather than a silent infinity.
func (c *Calculator) PerWorkingDay(d time.Time) (float64, error) {
	wd := c.WorkingDays(d)
	if wd == 0 {
		return 0, fmt.Errorf("period %s: %w", c.PeriodID(d), ErrNoWorkingDays)
	}
	return c.TotalCapacity(d) / float64(wd), nil
}
