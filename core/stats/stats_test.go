package stats

import (
	"testing"
	"time"

	"github.com/avelard/roadcast/core/model"
	"github.com/avelard/roadcast/core/sim"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// days builds a date slice offset in days from a base Monday.
func days(offsets ...int) []time.Time {
	base := date(2025, 1, 6)
	out := make([]time.Time, len(offsets))
	for i, o := range offsets {
		out[i] = base.AddDate(0, 0, o)
	}
	return out
}

func resultFor(item model.WorkItem, starts, completions []time.Time) *sim.Result {
	efforts := make([]float64, len(starts))
	return &sim.Result{
		RunID:      "test-run",
		Iterations: len(starts),
		Items: map[int]*sim.Series{
			item.Position: {Starts: starts, Completions: completions, Efforts: efforts},
		},
	}
}

func TestNearestRankPercentiles(t *testing.T) {
	item := model.WorkItem{Position: 1, Name: "a", Best: 1, Likely: 1, Worst: 1}
	// 10 samples, deliberately unsorted. Ranks: P10=1st, P50=5th, P90=9th.
	completions := days(9, 0, 3, 7, 1, 5, 8, 2, 6, 4)
	res := resultFor(item, days(0, 0, 0, 0, 0, 0, 0, 0, 0, 0), completions)

	st, err := Analyze(res, []model.WorkItem{item})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	got := st[1]
	if !got.P10.Equal(days(0)[0]) {
		t.Fatalf("P10 = %v, want %v", got.P10, days(0)[0])
	}
	if !got.P50.Equal(days(4)[0]) {
		t.Fatalf("P50 = %v, want %v", got.P50, days(4)[0])
	}
	if !got.P90.Equal(days(8)[0]) {
		t.Fatalf("P90 = %v, want %v", got.P90, days(8)[0])
	}
}

func TestPercentileMonotonic(t *testing.T) {
	item := model.WorkItem{Position: 1, Name: "a", Best: 1, Likely: 2, Worst: 3}
	completions := days(12, 4, 9, 1, 30, 17, 2)
	res := resultFor(item, days(0, 0, 0, 0, 0, 0, 0), completions)
	st, err := Analyze(res, []model.WorkItem{item})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	got := st[1]
	if got.P10.After(got.P50) || got.P50.After(got.P90) {
		t.Fatalf("percentiles not monotonic: %v %v %v", got.P10, got.P50, got.P90)
	}
}

func TestOnTimeProbability(t *testing.T) {
	due := date(2025, 1, 10) // base+4
	item := model.WorkItem{Position: 1, Name: "a", DueDate: due, Best: 1, Likely: 1, Worst: 1}
	// 3 of 5 completions on or before the due date (inclusive).
	completions := days(1, 4, 7, 2, 9)
	res := resultFor(item, days(0, 0, 0, 0, 0), completions)
	st, err := Analyze(res, []model.WorkItem{item})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	got := st[1]
	if !got.HasOnTime {
		t.Fatalf("on-time probability should be defined")
	}
	if got.OnTimeProbability != 0.6 {
		t.Fatalf("on-time probability = %g, want 0.6", got.OnTimeProbability)
	}
}

func TestOnTimeOmittedWithoutDueDate(t *testing.T) {
	item := model.WorkItem{Position: 1, Name: "a", Best: 1, Likely: 1, Worst: 1}
	res := resultFor(item, days(0, 0), days(1, 2))
	st, err := Analyze(res, []model.WorkItem{item})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if st[1].HasOnTime {
		t.Fatalf("on-time probability must be omitted, not zero")
	}
}

func TestStartPercentiles(t *testing.T) {
	item := model.WorkItem{Position: 1, Name: "a", Best: 1, Likely: 1, Worst: 1}
	starts := days(2, 0, 4)
	res := resultFor(item, starts, days(5, 3, 7))
	st, err := Analyze(res, []model.WorkItem{item})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	got := st[1]
	if !got.StartP50.Equal(days(2)[0]) {
		t.Fatalf("StartP50 = %v, want %v", got.StartP50, days(2)[0])
	}
}

func TestAnalyzeRejectsMissingSeries(t *testing.T) {
	item := model.WorkItem{Position: 2, Name: "b", Best: 1, Likely: 1, Worst: 1}
	res := &sim.Result{RunID: "x", Iterations: 1, Items: map[int]*sim.Series{}}
	if _, err := Analyze(res, []model.WorkItem{item}); err == nil {
		t.Fatalf("expected error for missing series")
	}
}
