// Package app wires configuration, the roadmap loader, the simulation
// engine and the exporters into a runnable service.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/avelard/roadcast/config"
	"github.com/avelard/roadcast/core/calendar"
	"github.com/avelard/roadcast/core/capacity"
	coremetrics "github.com/avelard/roadcast/core/metrics"
	"github.com/avelard/roadcast/core/sim"
	"github.com/avelard/roadcast/core/stats"
	"github.com/avelard/roadcast/infra/logger"
	"github.com/avelard/roadcast/infra/metrics"
	"github.com/avelard/roadcast/loader"
	"github.com/avelard/roadcast/pkg/export"
)

// Service runs roadmap forecasts from a loaded configuration.
type Service struct {
	cfg    *config.Config
	simCfg sim.Config
	cal    calendar.Calendar
	sink   coremetrics.Sink
	log    logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	simCfg, err := cfg.Simulation.ToSimConfig()
	if err != nil {
		return nil, err
	}
	cal, err := cfg.Simulation.Calendar()
	if err != nil {
		return nil, err
	}
	sink, err := metrics.FromConfig(cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	return &Service{
		cfg:    cfg,
		simCfg: simCfg,
		cal:    cal,
		sink:   sink,
		log:    logger.New("service"),
	}, nil
}

// Run executes one forecast: load the roadmap, simulate, analyze and export.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	items, overrides, err := loader.Load(s.cfg.Roadmap)
	if err != nil {
		return fmt.Errorf("roadmap: %w", err)
	}
	s.log.Infof("loaded %d work items and %d capacity overrides from %s",
		len(items), len(overrides), s.cfg.Roadmap)

	began := time.Now()
	engine := sim.NewEngine(s.cal, s.sink)
	res, err := engine.Run(ctx, items, s.simCfg, overrides)
	if err != nil {
		return err
	}
	s.log.Infof("simulation finished: run_id=%s iterations=%d items=%d duration=%s",
		res.RunID, res.Iterations, len(items), time.Since(began))

	itemStats, err := stats.Analyze(res, items)
	if err != nil {
		return err
	}
	rep := export.BuildReport(res.RunID, res.Seed, res.Iterations, itemStats)
	return s.export(rep)
}

func (s *Service) export(rep export.Report) error {
	var w io.Writer = os.Stdout
	if s.cfg.Export.Path != "" {
		f, err := os.Create(s.cfg.Export.Path)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		defer f.Close()
		w = f
	}
	switch s.cfg.Export.Format {
	case "csv":
		return export.WriteCSV(w, rep)
	default:
		return export.WriteJSON(w, rep)
	}
}

// PeriodCapacity is one row of the capacity horizon table.
type PeriodCapacity struct {
	Period      string
	Start       time.Time
	End         time.Time
	WorkingDays int
	Total       float64
	PerDay      float64
	Override    bool
}

// CapacityHorizon resolves capacity for the next n periods starting at the
// configured project start, applying the roadmap's override table.
func (s *Service) CapacityHorizon(n int) ([]PeriodCapacity, error) {
	if n < 1 {
		return nil, fmt.Errorf("horizon must cover at least one period, got %d", n)
	}
	_, overrides, err := loader.Load(s.cfg.Roadmap)
	if err != nil {
		return nil, fmt.Errorf("roadmap: %w", err)
	}
	calc, err := capacity.NewCalculator(s.cal, s.simCfg.Period, s.simCfg.DefaultQuarterlyCapacity, overrides)
	if err != nil {
		return nil, err
	}

	rows := make([]PeriodCapacity, 0, n)
	cur := calendar.DayOf(s.simCfg.Start)
	for i := 0; i < n; i++ {
		perDay, err := calc.PerWorkingDay(cur)
		if err != nil {
			return nil, err
		}
		id := calc.PeriodID(cur)
		_, override := overrides[id]
		rows = append(rows, PeriodCapacity{
			Period:      id,
			Start:       calc.PeriodStart(cur),
			End:         calc.PeriodEnd(cur),
			WorkingDays: calc.WorkingDays(cur),
			Total:       calc.TotalCapacity(cur),
			PerDay:      perDay,
			Override:    override,
		})
		cur = calc.NextPeriodStart(cur)
	}
	return rows, nil
}
