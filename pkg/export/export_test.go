package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelard/roadcast/core/stats"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleStats() map[int]stats.ItemStats {
	return map[int]stats.ItemStats{
		2: {
			Position: 2, Name: "Billing rework",
			StartP10: day(2025, 2, 3), StartP50: day(2025, 2, 5), StartP90: day(2025, 2, 12),
			P10: day(2025, 3, 3), P50: day(2025, 3, 10), P90: day(2025, 3, 24),
			BestEffort: 5, LikelyEffort: 8, WorstEffort: 15,
		},
		1: {
			Position: 1, Name: "Auth service", DueDate: day(2025, 3, 31),
			StartP10: day(2025, 1, 6), StartP50: day(2025, 1, 6), StartP90: day(2025, 1, 6),
			P10: day(2025, 1, 20), P50: day(2025, 1, 27), P90: day(2025, 2, 10),
			OnTimeProbability: 0.85, HasOnTime: true,
			BestEffort: 10, LikelyEffort: 15, WorstEffort: 30,
		},
	}
}

func TestBuildReportOrdersByPosition(t *testing.T) {
	rep := BuildReport("run-1", 42, 1000, sampleStats())
	require.Len(t, rep.Items, 2)
	assert.Equal(t, 1, rep.Items[0].Position)
	assert.Equal(t, 2, rep.Items[1].Position)
	assert.Equal(t, "2025-03-31", rep.Items[0].DueDate)
	require.NotNil(t, rep.Items[0].OnTime)
	assert.Equal(t, 0.85, *rep.Items[0].OnTime)
	assert.Nil(t, rep.Items[1].OnTime)
	assert.Empty(t, rep.Items[1].DueDate)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, BuildReport("run-1", 42, 1000, sampleStats())))

	var decoded Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	assert.Equal(t, uint64(42), decoded.Seed)
	require.Len(t, decoded.Items, 2)
	assert.Equal(t, "2025-01-27", decoded.Items[0].P50)
	// Items without a due date omit the on-time field entirely.
	assert.NotContains(t, buf.String(), `"on_time_probability": null`)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, BuildReport("run-1", 42, 1000, sampleStats())))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "position", records[0][0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "0.85", records[1][9])
	// No due date leaves both columns empty.
	assert.Equal(t, "", records[2][2])
	assert.Equal(t, "", records[2][9])
}
