// Package config loads and validates the application configuration from a
// YAML or JSON file, with optional environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/avelard/roadcast/core/calendar"
	"github.com/avelard/roadcast/core/capacity"
	"github.com/avelard/roadcast/core/metrics"
	"github.com/avelard/roadcast/core/sim"
)

// Config is the root application configuration.
type Config struct {
	// Roadmap is the path to the roadmap file holding work items and
	// capacity overrides.
	Roadmap    string           `json:"roadmap"`
	Simulation SimulationConfig `json:"simulation"`
	Metrics    metrics.Config   `json:"metrics"`
	Export     ExportConfig     `json:"export"`
}

// SimulationConfig carries the raw simulation parameters as written in the
// configuration file. ToSimConfig resolves them into engine values.
type SimulationConfig struct {
	StartDate                string   `json:"start_date"`
	PeriodType               string   `json:"period_type"`
	DefaultQuarterlyCapacity float64  `json:"default_quarterly_capacity"`
	Iterations               int      `json:"iterations"`
	Seed                     uint64   `json:"seed"`
	Workers                  int      `json:"workers"`
	WeekendDays              []string `json:"weekend_days"`
}

// ExportConfig selects the report output format and destination.
type ExportConfig struct {
	// Format is "json" or "csv".
	Format string `json:"format"`
	// Path is the output file. Empty writes the report to stdout.
	Path string `json:"path"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Load reads the configuration file at path, applies RC_-prefixed
// environment overrides, fills defaults and validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("RC_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "rc_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Simulation.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Export.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if c.Roadmap == "" {
		return fmt.Errorf("roadmap path is required")
	}
	if err := c.Simulation.Validate(); err != nil {
		return err
	}
	return c.Export.Validate()
}

// SetDefaults applies the documented defaults for omitted fields.
func (c *SimulationConfig) SetDefaults() {
	if c.PeriodType == "" {
		c.PeriodType = string(capacity.Quarterly)
	}
	if c.DefaultQuarterlyCapacity == 0 {
		c.DefaultQuarterlyCapacity = 1300
	}
	if c.Iterations == 0 {
		c.Iterations = 20000
	}
	if len(c.WeekendDays) == 0 {
		c.WeekendDays = []string{"saturday", "sunday"}
	}
}

// Validate checks the raw simulation parameters without resolving them.
func (c *SimulationConfig) Validate() error {
	if _, err := c.ToSimConfig(); err != nil {
		return err
	}
	_, err := c.Calendar()
	return err
}

// ToSimConfig resolves the raw parameters into an engine configuration.
func (c *SimulationConfig) ToSimConfig() (sim.Config, error) {
	if c.StartDate == "" {
		return sim.Config{}, fmt.Errorf("simulation start_date is required")
	}
	start, err := time.Parse("2006-01-02", c.StartDate)
	if err != nil {
		return sim.Config{}, fmt.Errorf("invalid start_date %q: %w", c.StartDate, err)
	}
	cfg := sim.Config{
		Start:                    start,
		Period:                   capacity.PeriodType(c.PeriodType),
		DefaultQuarterlyCapacity: c.DefaultQuarterlyCapacity,
		Iterations:               c.Iterations,
		Seed:                     c.Seed,
		Workers:                  c.Workers,
	}
	if err := cfg.Validate(); err != nil {
		return sim.Config{}, err
	}
	return cfg, nil
}

// Calendar builds the working-day calendar from the weekend day names.
func (c *SimulationConfig) Calendar() (calendar.Calendar, error) {
	days := make([]time.Weekday, 0, len(c.WeekendDays))
	seen := make(map[time.Weekday]bool)
	for _, name := range c.WeekendDays {
		d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return calendar.Calendar{}, fmt.Errorf("unknown weekend day %q", name)
		}
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	if len(days) > 6 {
		return calendar.Calendar{}, fmt.Errorf("weekend covers all seven days, no working days remain")
	}
	return calendar.New(days...), nil
}

// SetDefaults selects JSON output when no format is configured.
func (c *ExportConfig) SetDefaults() {
	if c.Format == "" {
		c.Format = "json"
	}
}

// Validate checks the export settings.
func (c *ExportConfig) Validate() error {
	switch c.Format {
	case "json", "csv":
		return nil
	default:
		return fmt.Errorf("unsupported export format %q", c.Format)
	}
}
