// Package loader reads roadmap files: the work item list and the optional
// capacity override table. External period notations are translated to the
// internal identifiers before the data reaches the engine.
package loader

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/avelard/roadcast/core/model"
)

const dateLayout = "2006-01-02"

type itemRow struct {
	Position  int     `json:"position"`
	Name      string  `json:"name"`
	DueDate   string  `json:"due_date"`
	StartDate string  `json:"start_date"`
	Priority  string  `json:"priority"`
	DependsOn int     `json:"depends_on"`
	Best      float64 `json:"best"`
	Likely    float64 `json:"likely"`
	Worst     float64 `json:"worst"`
}

type capacityRow struct {
	Period   string  `json:"period"`
	Capacity float64 `json:"capacity"`
}

type roadmapFile struct {
	Items    []itemRow     `json:"items"`
	Capacity []capacityRow `json:"capacity"`
}

// Load reads the roadmap file at path and returns the validated work items
// together with the capacity override mapping keyed by internal period
// identifiers.
func Load(path string) ([]model.WorkItem, map[string]float64, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, nil, fmt.Errorf("unsupported roadmap format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, nil, err
	}
	var raw roadmapFile
	if err := k.UnmarshalWithConf("", &raw, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, nil, err
	}
	if len(raw.Items) == 0 {
		return nil, nil, fmt.Errorf("roadmap has no work items")
	}

	items := make([]model.WorkItem, 0, len(raw.Items))
	for i, row := range raw.Items {
		it, err := convertItem(row)
		if err != nil {
			return nil, nil, fmt.Errorf("roadmap item %d: %w", i+1, err)
		}
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Position < items[j].Position })

	overrides := make(map[string]float64, len(raw.Capacity))
	for _, row := range raw.Capacity {
		id, _, err := ParsePeriod(row.Period)
		if err != nil {
			return nil, nil, err
		}
		if row.Capacity <= 0 {
			return nil, nil, fmt.Errorf("period %s: capacity must be positive, got %g", id, row.Capacity)
		}
		if _, dup := overrides[id]; dup {
			return nil, nil, fmt.Errorf("period %s: duplicate capacity override", id)
		}
		overrides[id] = row.Capacity
	}
	return items, overrides, nil
}

func convertItem(row itemRow) (model.WorkItem, error) {
	it := model.WorkItem{
		Position:  row.Position,
		Name:      row.Name,
		Priority:  row.Priority,
		DependsOn: row.DependsOn,
		Best:      row.Best,
		Likely:    row.Likely,
		Worst:     row.Worst,
	}
	var err error
	if it.DueDate, err = parseDate(row.DueDate); err != nil {
		return model.WorkItem{}, fmt.Errorf("due_date: %w", err)
	}
	if it.StartDate, err = parseDate(row.StartDate); err != nil {
		return model.WorkItem{}, fmt.Errorf("start_date: %w", err)
	}
	if err := it.Validate(); err != nil {
		return model.WorkItem{}, err
	}
	return it, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return d, nil
}
