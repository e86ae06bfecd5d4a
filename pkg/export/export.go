// Package export renders forecast reports as JSON or CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/avelard/roadcast/core/stats"
)

const dateLayout = "2006-01-02"

// Row is one work item of the forecast report.
type Row struct {
	Position     int      `json:"position"`
	Name         string   `json:"name"`
	DueDate      string   `json:"due_date,omitempty"`
	StartP10     string   `json:"start_p10"`
	StartP50     string   `json:"start_p50"`
	StartP90     string   `json:"start_p90"`
	P10          string   `json:"completion_p10"`
	P50          string   `json:"completion_p50"`
	P90          string   `json:"completion_p90"`
	OnTime       *float64 `json:"on_time_probability,omitempty"`
	BestEffort   float64  `json:"best_effort"`
	LikelyEffort float64  `json:"likely_effort"`
	WorstEffort  float64  `json:"worst_effort"`
}

// Report is the full forecast output of one run.
type Report struct {
	RunID      string `json:"run_id"`
	Seed       uint64 `json:"seed"`
	Iterations int    `json:"iterations"`
	Items      []Row  `json:"items"`
}

// BuildReport converts per-item statistics into a report with rows ordered
// by work item position.
func BuildReport(runID string, seed uint64, iterations int, items map[int]stats.ItemStats) Report {
	rows := make([]Row, 0, len(items))
	for _, st := range items {
		row := Row{
			Position:     st.Position,
			Name:         st.Name,
			StartP10:     formatDate(st.StartP10),
			StartP50:     formatDate(st.StartP50),
			StartP90:     formatDate(st.StartP90),
			P10:          formatDate(st.P10),
			P50:          formatDate(st.P50),
			P90:          formatDate(st.P90),
			BestEffort:   st.BestEffort,
			LikelyEffort: st.LikelyEffort,
			WorstEffort:  st.WorstEffort,
		}
		if !st.DueDate.IsZero() {
			row.DueDate = formatDate(st.DueDate)
		}
		if st.HasOnTime {
			p := st.OnTimeProbability
			row.OnTime = &p
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Position < rows[j].Position })
	return Report{RunID: runID, Seed: seed, Iterations: iterations, Items: rows}
}

// WriteJSON writes the report to w in indented JSON.
func WriteJSON(w io.Writer, rep Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// WriteCSV writes the report rows to w. Items without a due date leave the
// due date and on-time columns empty.
func WriteCSV(w io.Writer, rep Report) error {
	cw := csv.NewWriter(w)
	header := []string{
		"position", "name", "due_date",
		"start_p10", "start_p50", "start_p90",
		"completion_p10", "completion_p50", "completion_p90",
		"on_time_probability",
		"best_effort", "likely_effort", "worst_effort",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rep.Items {
		onTime := ""
		if r.OnTime != nil {
			onTime = strconv.FormatFloat(*r.OnTime, 'f', -1, 64)
		}
		rec := []string{
			strconv.Itoa(r.Position),
			r.Name,
			r.DueDate,
			r.StartP10, r.StartP50, r.StartP90,
			r.P10, r.P50, r.P90,
			onTime,
			strconv.FormatFloat(r.BestEffort, 'f', -1, 64),
			strconv.FormatFloat(r.LikelyEffort, 'f', -1, 64),
			strconv.FormatFloat(r.WorstEffort, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatDate(d time.Time) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}
