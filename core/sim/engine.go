package sim

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avelard/roadcast/core/calendar"
	"github.com/avelard/roadcast/core/capacity"
	"github.com/avelard/roadcast/core/metrics"
	"github.com/avelard/roadcast/core/model"
	"github.com/avelard/roadcast/core/plan"
)

// maxPeriodsPerItem bounds the completion-date loop. An item that cannot be
// funded within this many periods indicates a zero-capacity configuration
// and aborts the run instead of looping forever.
const maxPeriodsPerItem = 4000

// Engine runs Monte Carlo simulations over a set of work items.
type Engine struct {
	cal  calendar.Calendar
	sink metrics.Sink
}

// NewEngine creates an engine using the given calendar. A nil sink disables
// metrics recording.
func NewEngine(cal calendar.Calendar, sink metrics.Sink) *Engine {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Engine{cal: cal, sink: sink}
}

// Run executes cfg.Iterations independent trials and returns the per-item
// date series. Configuration errors (cycles, unresolved references, invalid
// estimates) are reported before any trial runs; an error inside a trial
// aborts the whole run rather than producing contaminated statistics.
func (e *Engine) Run(ctx context.Context, items []model.WorkItem, cfg Config, overrides map[string]float64) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no work items to simulate")
	}
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("work item %d: %w", it.Position, err)
		}
	}
	graph, err := plan.Build(items)
	if err != nil {
		return nil, err
	}
	calc, err := capacity.NewCalculator(e.cal, cfg.Period, cfg.DefaultQuarterlyCapacity, overrides)
	if err != nil {
		return nil, err
	}

	order := graph.Order()
	projectStart := e.cal.NextWorkingDay(calendar.DayOf(cfg.Start))
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	positions := make([]int, len(order))
	for i, it := range order {
		positions[i] = it.Position
	}
	res := newResult(uuid.NewString(), seed, cfg.Iterations, positions)

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > cfg.Iterations {
		workers = cfg.Iterations
	}

	began := time.Now()
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	trials := make(chan int)
	var wg sync.WaitGroup
	var once sync.Once
	var runErr error
	fail := func(err error) {
		once.Do(func() {
			runErr = err
			cancel()
		})
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for trial := range trials {
				if runCtx.Err() != nil {
					return
				}
				if err := e.runTrial(trial, order, calc, projectStart, seed+uint64(trial), res); err != nil {
					fail(err)
					return
				}
			}
		}()
	}

feed:
	for t := 0; t < cfg.Iterations; t++ {
		select {
		case trials <- t:
		case <-runCtx.Done():
			break feed
		}
	}
	close(trials)
	wg.Wait()

	if runErr != nil {
		return nil, runErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_ = e.sink.RecordRun(metrics.RunEvent{
		RunID:      res.RunID,
		Iterations: cfg.Iterations,
		Items:      len(order),
		Duration:   time.Since(began),
		Completed:  time.Now(),
	})
	return res, nil
}

// runTrial schedules every item once, in topological order, against a fresh
// capacity ledger.
func (e *Engine) runTrial(trial int, order []model.WorkItem, calc *capacity.Calculator, projectStart time.Time, seed uint64, res *Result) error {
	began := time.Now()
	ledger := capacity.NewLedger(calc)
	smp := newSampler(seed)
	completions := make(map[int]time.Time, len(order))

	for _, it := range order {
		effort, err := smp.effort(it)
		if err != nil {
			return fmt.Errorf("trial %d: work item %d: %w", trial, it.Position, err)
		}
		start := e.startDate(it, completions, projectStart)
		completion, err := e.schedule(ledger, calc, start, effort)
		if err != nil {
			return fmt.Errorf("trial %d: work item %d: %w", trial, it.Position, err)
		}
		completions[it.Position] = completion

		s := res.Items[it.Position]
		s.Starts[trial] = start
		s.Completions[trial] = completion
		s.Efforts[trial] = effort
	}
	_ = e.sink.RecordTrial(metrics.TrialEvent{
		RunID:    res.RunID,
		Trial:    trial,
		Items:    len(order),
		Duration: time.Since(began),
	})
	return nil
}

// startDate resolves an item's start: the later of its dependency's
// completion (or the project start for roots) and its declared earliest
// start, normalized to a working day.
func (e *Engine) startDate(it model.WorkItem, completions map[int]time.Time, projectStart time.Time) time.Time {
	earliest := projectStart
	if it.HasDependency() {
		if dep, ok := completions[it.DependsOn]; ok && dep.After(earliest) {
			earliest = dep
		}
	}
	if it.HasStartDate() {
		if sd := calendar.DayOf(it.StartDate); sd.After(earliest) {
			earliest = sd
		}
	}
	return e.cal.NextWorkingDay(earliest)
}

// schedule walks periods from start, consuming capacity until the sampled
// effort is exhausted, and returns the completion date. Fractional days are
// kept exact internally; only the returned date is a calendar day.
func (e *Engine) schedule(ledger *capacity.Ledger, calc *capacity.Calculator, start time.Time, effort float64) (time.Time, error) {
	if effort <= 0 {
		return time.Time{}, fmt.Errorf("effort must be positive, got %g", effort)
	}
	remaining := effort
	cur := start
	for i := 0; i < maxPeriodsPerItem; i++ {
		available, err := ledger.RemainingFrom(cur)
		if err != nil {
			return time.Time{}, err
		}
		if available >= remaining {
			perDay, err := calc.PerWorkingDay(cur)
			if err != nil {
				return time.Time{}, err
			}
			daysNeeded := remaining / perDay
			completion := e.cal.AdvanceWorkingDays(cur, int(math.Ceil(daysNeeded))-1)
			if err := ledger.Consume(cur, remaining); err != nil {
				return time.Time{}, err
			}
			return completion, nil
		}
		if available > 0 {
			if err := ledger.Consume(cur, available); err != nil {
				return time.Time{}, err
			}
			remaining -= available
		}
		cur = e.cal.NextWorkingDay(calc.NextPeriodStart(cur))
	}
	return time.Time{}, fmt.Errorf("effort %g not schedulable within %d periods from %s", effort, maxPeriodsPerItem, start.Format("2006-01-02"))
}
