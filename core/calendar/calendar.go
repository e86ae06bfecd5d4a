package calendar

import "time"

// Calendar answers working-day questions for a weekly weekend pattern.
// The zero value treats every day as a working day; use New or Default.
type Calendar struct {
	weekend map[time.Weekday]bool
}

// Default returns a calendar with a Saturday/Sunday weekend.
func Default() Calendar {
	return New(time.Saturday, time.Sunday)
}

// New builds a calendar with the given weekend days. Passing all seven
// weekdays leaves no working days; callers validating configuration must
// reject such patterns before handing the calendar to the engine.
func New(weekend ...time.Weekday) Calendar {
	m := make(map[time.Weekday]bool, len(weekend))
	for _, d := range weekend {
		m[d] = true
	}
	return Calendar{weekend: m}
}

// DayOf truncates t to its calendar day in UTC. All engine dates are
// normalized through this so that comparisons are exact day comparisons.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsWorkingDay reports whether d falls outside the weekend pattern.
func (c Calendar) IsWorkingDay(d time.Time) bool {
	return !c.weekend[d.Weekday()]
}

// NextWorkingDay returns d unchanged if it is a working day, otherwise the
// nearest following working day.
func (c Calendar) NextWorkingDay(d time.Time) time.Time {
	d = DayOf(d)
	for !c.IsWorkingDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// WorkingDaysBetween counts working days in [start, end] inclusive.
// It returns 0 when end is before start.
func (c Calendar) WorkingDaysBetween(start, end time.Time) int {
	start, end = DayOf(start), DayOf(end)
	if end.Before(start) {
		return 0
	}
	n := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if c.IsWorkingDay(d) {
			n++
		}
	}
	return n
}

// AdvanceWorkingDays moves n working days forward from d. A non-working
// start date is first normalized, so the result is never a weekend day and
// advancing by 0 from a working day returns that day.
func (c Calendar) AdvanceWorkingDays(d time.Time, n int) time.Time {
	cur := c.NextWorkingDay(d)
	for i := 0; i < n; i++ {
		cur = c.NextWorkingDay(cur.AddDate(0, 0, 1))
	}
	return cur
}
