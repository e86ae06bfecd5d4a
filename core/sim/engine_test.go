package sim

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/avelard/roadcast/core/calendar"
	"github.com/avelard/roadcast/core/capacity"
	"github.com/avelard/roadcast/core/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedItem(pos, dep int, effort float64) model.WorkItem {
	return model.WorkItem{
		Position:  pos,
		Name:      "item",
		DependsOn: dep,
		Best:      effort,
		Likely:    effort,
		Worst:     effort,
	}
}

func runCfg(iterations int) Config {
	return Config{
		Start:                    date(2024, 1, 1), // Monday, first day of Q1
		Period:                   capacity.Quarterly,
		DefaultQuarterlyCapacity: 1300,
		Iterations:               iterations,
		Seed:                     1,
		Workers:                  1,
	}
}

func mustRun(t *testing.T, items []model.WorkItem, cfg Config, overrides map[string]float64) *Result {
	t.Helper()
	res, err := NewEngine(calendar.Default(), nil).Run(context.Background(), items, cfg, overrides)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return res
}

func TestSingleItemFixedEffort(t *testing.T) {
	// Q1 2024 has 65 working days; 100 PD/quarter is ~1.54 PD per working
	// day, so 10 PD take ceil(10/1.54)=7 working days including the start.
	cfg := runCfg(5)
	cfg.DefaultQuarterlyCapacity = 100
	res := mustRun(t, []model.WorkItem{fixedItem(1, 0, 10)}, cfg, nil)

	want := date(2024, 1, 9) // 7th working day counting 2024-01-01 as the first
	s := res.Items[1]
	for trial := 0; trial < cfg.Iterations; trial++ {
		if !s.Starts[trial].Equal(date(2024, 1, 1)) {
			t.Fatalf("trial %d start = %v, want 2024-01-01", trial, s.Starts[trial])
		}
		if !s.Completions[trial].Equal(want) {
			t.Fatalf("trial %d completion = %v, want %v", trial, s.Completions[trial], want)
		}
	}
}

func TestProjectStartNormalizedToWorkingDay(t *testing.T) {
	cfg := runCfg(1)
	cfg.Start = date(2024, 1, 6) // Saturday
	res := mustRun(t, []model.WorkItem{fixedItem(1, 0, 1)}, cfg, nil)
	if got := res.Items[1].Starts[0]; !got.Equal(date(2024, 1, 8)) {
		t.Fatalf("start = %v, want Monday 2024-01-08", got)
	}
}

func TestDependencyStartsAfterPredecessor(t *testing.T) {
	a := fixedItem(1, 0, 100)
	b := fixedItem(2, 1, 10)
	cfg := runCfg(3)
	res := mustRun(t, []model.WorkItem{a, b}, cfg, nil)

	cal := calendar.Default()
	for trial := 0; trial < cfg.Iterations; trial++ {
		aDone := res.Items[1].Completions[trial]
		bStart := res.Items[2].Starts[trial]
		if bStart.Before(aDone) {
			t.Fatalf("trial %d: dependent started %v before predecessor finished %v", trial, bStart, aDone)
		}
		if want := cal.NextWorkingDay(aDone); !bStart.Equal(want) {
			t.Fatalf("trial %d: dependent start = %v, want %v", trial, bStart, want)
		}
	}
}

func TestFixedStartDateOnWeekend(t *testing.T) {
	it := fixedItem(1, 0, 5)
	it.StartDate = date(2024, 3, 16) // Saturday
	res := mustRun(t, []model.WorkItem{it}, runCfg(1), nil)
	if got := res.Items[1].Starts[0]; !got.Equal(date(2024, 3, 18)) {
		t.Fatalf("start = %v, want Monday 2024-03-18", got)
	}
}

func TestLaterOfDependencyAndFixedStart(t *testing.T) {
	a := fixedItem(1, 0, 10) // finishes early in January
	b := fixedItem(2, 1, 5)
	b.StartDate = date(2024, 6, 3) // Monday, far after A completes
	res := mustRun(t, []model.WorkItem{a, b}, runCfg(1), nil)
	if got := res.Items[2].Starts[0]; !got.Equal(date(2024, 6, 3)) {
		t.Fatalf("start = %v, want fixed start 2024-06-03", got)
	}

	// And the other way around: dependency completion wins when later.
	c := fixedItem(1, 0, 600) // runs deep into the year
	d := fixedItem(2, 1, 5)
	d.StartDate = date(2024, 1, 15)
	res = mustRun(t, []model.WorkItem{c, d}, runCfg(1), nil)
	cal := calendar.Default()
	want := cal.NextWorkingDay(res.Items[1].Completions[0])
	if got := res.Items[2].Starts[0]; !got.Equal(want) {
		t.Fatalf("start = %v, want dependency completion %v", got, want)
	}
}

func TestCapacityOverrideSplitsAcrossPeriods(t *testing.T) {
	// Q1 2024 capped at 13 PD; a 20 PD item drains Q1 and finishes in Q2.
	// Q2 at the 1300 default funds the remaining 7 PD within its first
	// working day, so completion is exactly 2024-04-01.
	res := mustRun(t, []model.WorkItem{fixedItem(1, 0, 20)}, runCfg(1), map[string]float64{"2024-Q1": 13})
	if got := res.Items[1].Completions[0]; !got.Equal(date(2024, 4, 1)) {
		t.Fatalf("completion = %v, want 2024-04-01", got)
	}
}

func TestCapacityContentionWithinTrial(t *testing.T) {
	// Two roots compete for a 13 PD quarter. Item 1 wins the tie-break,
	// consumes 10 PD at 0.2 PD/day and completes on the 50th working day
	// (2024-03-08). Item 2 gets the remaining 3 PD and spills into Q2.
	items := []model.WorkItem{fixedItem(1, 0, 10), fixedItem(2, 0, 10)}
	res := mustRun(t, items, runCfg(1), map[string]float64{"2024-Q1": 13})

	if got := res.Items[1].Completions[0]; !got.Equal(date(2024, 3, 8)) {
		t.Fatalf("first item completion = %v, want 2024-03-08", got)
	}
	second := res.Items[2].Completions[0]
	if !second.After(date(2024, 3, 31)) {
		t.Fatalf("second item should spill into Q2, completed %v", second)
	}
	if got := res.Items[2].Starts[0]; !got.Equal(date(2024, 1, 1)) {
		t.Fatalf("second item still starts at project start, got %v", got)
	}
}

func TestDeterministicUnderFixedSeed(t *testing.T) {
	items := []model.WorkItem{
		{Position: 1, Name: "a", Best: 10, Likely: 15, Worst: 25},
		{Position: 2, Name: "b", DependsOn: 1, Best: 5, Likely: 8, Worst: 20},
	}
	cfg := runCfg(50)
	first := mustRun(t, items, cfg, nil)
	second := mustRun(t, items, cfg, nil)

	for pos, s1 := range first.Items {
		s2 := second.Items[pos]
		for trial := range s1.Completions {
			if !s1.Completions[trial].Equal(s2.Completions[trial]) || s1.Efforts[trial] != s2.Efforts[trial] {
				t.Fatalf("item %d trial %d diverged between identical runs", pos, trial)
			}
		}
	}
}

func TestWorkerCountDoesNotChangeResults(t *testing.T) {
	items := []model.WorkItem{
		{Position: 1, Name: "a", Best: 10, Likely: 15, Worst: 25},
		{Position: 2, Name: "b", DependsOn: 1, Best: 5, Likely: 8, Worst: 20},
		{Position: 3, Name: "c", Best: 30, Likely: 45, Worst: 90},
	}
	serial := runCfg(40)
	parallel := serial
	parallel.Workers = 4

	a := mustRun(t, items, serial, nil)
	b := mustRun(t, items, parallel, nil)
	for pos, s1 := range a.Items {
		s2 := b.Items[pos]
		for trial := range s1.Completions {
			if !s1.Completions[trial].Equal(s2.Completions[trial]) {
				t.Fatalf("item %d trial %d differs between worker counts", pos, trial)
			}
		}
	}
}

func TestScheduleInvariants(t *testing.T) {
	items := []model.WorkItem{
		{Position: 1, Name: "a", Best: 10, Likely: 15, Worst: 25},
		{Position: 2, Name: "b", DependsOn: 1, Best: 5, Likely: 8, Worst: 20},
		{Position: 3, Name: "c", Best: 30, Likely: 45, Worst: 90},
	}
	cfg := runCfg(50)
	res := mustRun(t, items, cfg, nil)

	cal := calendar.Default()
	for pos, s := range res.Items {
		for trial := 0; trial < cfg.Iterations; trial++ {
			start, done := s.Starts[trial], s.Completions[trial]
			if !cal.IsWorkingDay(start) {
				t.Fatalf("item %d trial %d starts on weekend %v", pos, trial, start)
			}
			if done.Before(start) {
				t.Fatalf("item %d trial %d completes %v before start %v", pos, trial, done, start)
			}
		}
	}
	// Roots without fixed start always begin at the normalized project start.
	for trial := 0; trial < cfg.Iterations; trial++ {
		for _, pos := range []int{1, 3} {
			if !res.Items[pos].Starts[trial].Equal(date(2024, 1, 1)) {
				t.Fatalf("root item %d trial %d start = %v", pos, trial, res.Items[pos].Starts[trial])
			}
		}
	}
}

func TestRunRejectsBadConfiguration(t *testing.T) {
	eng := NewEngine(calendar.Default(), nil)
	ctx := context.Background()

	cfg := runCfg(1)
	cfg.Iterations = 0
	if _, err := eng.Run(ctx, []model.WorkItem{fixedItem(1, 0, 1)}, cfg, nil); err == nil {
		t.Fatalf("expected iteration count error")
	}

	bad := fixedItem(1, 0, 1)
	bad.Best, bad.Worst = 10, 5
	bad.Likely = 7
	if _, err := eng.Run(ctx, []model.WorkItem{bad}, runCfg(1), nil); err == nil {
		t.Fatalf("expected estimate validation error")
	} else if !strings.Contains(err.Error(), "work item 1") {
		t.Fatalf("error should name the item: %v", err)
	}

	cycle := []model.WorkItem{fixedItem(1, 2, 1), fixedItem(2, 1, 1)}
	if _, err := eng.Run(ctx, cycle, runCfg(1), nil); err == nil {
		t.Fatalf("expected cycle error")
	}

	dangling := []model.WorkItem{fixedItem(1, 7, 1)}
	if _, err := eng.Run(ctx, dangling, runCfg(1), nil); err == nil {
		t.Fatalf("expected unresolved dependency error")
	}

	if _, err := eng.Run(ctx, nil, runCfg(1), nil); err == nil {
		t.Fatalf("expected empty item list error")
	}
}

func TestRunHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := runCfg(10000)
	_, err := NewEngine(calendar.Default(), nil).Run(ctx, []model.WorkItem{fixedItem(1, 0, 10)}, cfg, nil)
	if err == nil {
		t.Fatalf("expected context error")
	}
}
