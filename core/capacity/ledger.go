package capacity

import (
	"fmt"
	"time"
)

// consumeEpsilon absorbs float rounding when a caller consumes exactly the
// remaining capacity of a period.
const consumeEpsilon = 1e-9

// Ledger tracks capacity claimed within a single trial. Items scheduled
// earlier in the topological order observe the consumption of items before
// them; ledgers are never shared between trials.
type Ledger struct {
	calc     *Calculator
	consumed map[string]float64
}

// NewLedger creates an empty ledger backed by the run's calculator.
func NewLedger(calc *Calculator) *Ledger {
	return &Ledger{calc: calc, consumed: make(map[string]float64)}
}

// RemainingFrom returns the capacity still available in the period
// containing d when starting on d: the per-working-day capacity times the
// working days left in the period, reduced by what this trial has already
// consumed there. The result never goes below zero.
func (l *Ledger) RemainingFrom(d time.Time) (float64, error) {
	perDay, err := l.calc.PerWorkingDay(d)
	if err != nil {
		return 0, err
	}
	remaining := perDay*float64(l.calc.RemainingWorkingDays(d)) - l.consumed[l.calc.PeriodID(d)]
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Consume claims amount person-days from the period containing d.
// Consumption is monotonic; callers must cap amount to RemainingFrom first,
// and an attempt to overdraw is rejected.
func (l *Ledger) Consume(d time.Time, amount float64) error {
	if amount < 0 {
		return fmt.Errorf("period %s: cannot consume negative capacity %g", l.calc.PeriodID(d), amount)
	}
	available, err := l.RemainingFrom(d)
	if err != nil {
		return err
	}
	if amount > available+consumeEpsilon {
		return fmt.Errorf("period %s: consuming %g exceeds available capacity %g", l.calc.PeriodID(d), amount, available)
	}
	l.consumed[l.calc.PeriodID(d)] += amount
	return nil
}

// Consumed reports the capacity already claimed from a period in this trial.
func (l *Ledger) Consumed(periodID string) float64 {
	return l.consumed[periodID]
}
