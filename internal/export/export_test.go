package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icugreen/icucarbon/internal/engine"
)

func sampleSnapshot() engine.Snapshot {
	return engine.Snapshot{
		Inputs:      engine.DefaultInputs(),
		PatientDays: 6205,
		GridFactor:  0.3755,
		Baseline: engine.Baseline{
			IntensityPD: 22,
			Figures: engine.Figures{
				AnnualT: 136.51,
				CategoriesT: map[engine.Category]float64{
					engine.CategoryEnergyHvac: 54.6,
					engine.CategoryWaste:      12.29,
				},
			},
		},
		Current: engine.Figures{
			AnnualT: 130.0,
			CategoriesT: map[engine.Category]float64{
				engine.CategoryEnergyHvac: 48.09,
				engine.CategoryWaste:      12.29,
			},
		},
		PerIntervention: []engine.InterventionResult{
			{ID: "led_retrofit", Title: "LED retrofit", Enabled: true, Value: 1, DeltaT: 6.51},
			{ID: "waste_segregation", Title: "Waste segregation", Enabled: false, Value: 0, DeltaT: 0},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleSnapshot()))

	var doc struct {
		RunID       string          `json:"run_id"`
		GeneratedAt time.Time       `json:"generated_at"`
		Results     engine.Snapshot `json:"results"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	_, err := ulid.Parse(doc.RunID)
	assert.NoError(t, err, "run_id is a ULID")
	assert.False(t, doc.GeneratedAt.IsZero())
	assert.Equal(t, 136.51, doc.Results.Baseline.AnnualT)
	assert.Len(t, doc.Results.PerIntervention, 2)
}

func TestWriteJSON_FreshRunIDPerExport(t *testing.T) {
	a, b := NewDocument(sampleSnapshot()), NewDocument(sampleSnapshot())
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleSnapshot()))

	cr := csv.NewReader(strings.NewReader(buf.String()))
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"Metric", "Value"}, rows[0])
	assert.Equal(t, []string{"Beds", "20"}, rows[1])
	assert.Equal(t, []string{"Patient-days/year", "6205"}, rows[3])
	assert.Equal(t, []string{"Baseline annual tons", "136.51"}, rows[5])
	assert.Equal(t, []string{"Savings tons", "6.51"}, rows[7])

	// Category section follows the canonical order, zero-filled for absent
	// buckets.
	assert.Equal(t, []string{"----", "----"}, rows[8])
	assert.Equal(t, []string{"Category", "tons/year (baseline)"}, rows[9])
	catRows := rows[10 : 10+len(engine.CategoryOrder)]
	for i, cat := range engine.CategoryOrder {
		assert.Equal(t, string(cat), catRows[i][0])
	}
	assert.Equal(t, "54.60", catRows[0][1])
	assert.Equal(t, "0.00", catRows[1][1], "missing category exports as zero")

	// Intervention section preserves snapshot order.
	interHeader := 10 + len(engine.CategoryOrder) + 1
	assert.Equal(t, []string{"Intervention", "Enabled", "Value", "Delta_tons_per_year"}, rows[interHeader])
	assert.Equal(t, []string{"LED retrofit", "true", "1.00", "6.51"}, rows[interHeader+1])
	assert.Equal(t, []string{"Waste segregation", "false", "0.00", "0.00"}, rows[interHeader+2])
}
