// Package stats reduces simulation result series into per-item percentile
// dates and on-time probabilities.
package stats

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/avelard/roadcast/core/calendar"
	"github.com/avelard/roadcast/core/model"
	"github.com/avelard/roadcast/core/sim"
)

// ItemStats summarizes one work item across all trials of a run.
type ItemStats struct {
	Position int
	Name     string
	DueDate  time.Time

	P10 time.Time
	P50 time.Time
	P90 time.Time

	StartP10 time.Time
	StartP50 time.Time
	StartP90 time.Time

	// OnTimeProbability is the fraction of trials completing on or before
	// the due date. Only meaningful when HasOnTime is true; items without a
	// due date have no on-time probability, not a zero one.
	OnTimeProbability float64
	HasOnTime         bool

	BestEffort   float64
	LikelyEffort float64
	WorstEffort  float64
}

// Analyze reduces a simulation result into per-item statistics keyed by
// work item position.
func Analyze(res *sim.Result, items []model.WorkItem) (map[int]ItemStats, error) {
	if res == nil || res.Iterations < 1 {
		return nil, fmt.Errorf("result holds no trials")
	}
	out := make(map[int]ItemStats, len(items))
	for _, it := range items {
		series, ok := res.Items[it.Position]
		if !ok {
			return nil, fmt.Errorf("no result series for work item %d", it.Position)
		}
		if len(series.Completions) != res.Iterations || len(series.Starts) != res.Iterations {
			return nil, fmt.Errorf("work item %d: series length %d does not match %d trials", it.Position, len(series.Completions), res.Iterations)
		}

		completions := sortedDates(series.Completions)
		starts := sortedDates(series.Starts)

		st := ItemStats{
			Position:     it.Position,
			Name:         it.Name,
			DueDate:      it.DueDate,
			P10:          nearestRank(completions, 0.10),
			P50:          nearestRank(completions, 0.50),
			P90:          nearestRank(completions, 0.90),
			StartP10:     nearestRank(starts, 0.10),
			StartP50:     nearestRank(starts, 0.50),
			StartP90:     nearestRank(starts, 0.90),
			BestEffort:   it.Best,
			LikelyEffort: it.Likely,
			WorstEffort:  it.Worst,
		}
		if it.HasDueDate() {
			due := calendar.DayOf(it.DueDate)
			onTime := 0
			for _, c := range series.Completions {
				if !c.After(due) {
					onTime++
				}
			}
			st.OnTimeProbability = float64(onTime) / float64(res.Iterations)
			st.HasOnTime = true
		}
		out[it.Position] = st
	}
	return out, nil
}

func sortedDates(in []time.Time) []time.Time {
	out := make([]time.Time, len(in))
	copy(out, in)
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// nearestRank returns the value at rank ceil(p*N), 1-indexed. The result is
// always a date that occurred in some trial; no interpolation.
func nearestRank(sorted []time.Time, p float64) time.Time {
	rank := int(math.Ceil(p * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}
