package cli

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icugreen/icucarbon/internal/dataset"
	"github.com/icugreen/icucarbon/internal/engine"
)

func cliTestDataset() *dataset.Dataset {
	return &dataset.Dataset{
		Assumptions: &dataset.Assumptions{
			BaselineIntensity: dataset.BaselineIntensity{KgCO2ePerPatientDay: 22},
			CategoryShares:    dataset.CategoryShares{EnergyHvac: 0.4, Waste: 0.6},
			NationalGridAnchor: dataset.NationalGridAnchor{
				USMeanKgPerKwh: 0.3755,
			},
			EnergyModule: dataset.EnergyModule{ReferenceGridFactorKgPerKwh: 0.417},
		},
		Catalog: &dataset.Catalog{
			Interventions: []dataset.Intervention{
				{
					ID:    "eliminate_desflurane",
					Title: "Eliminate desflurane",
					Type:  "binary",
					BaselineControl: &dataset.BaselineControl{
						Type:           "binary",
						DefaultEnabled: true,
					},
					Calculation: dataset.DirectSavings{
						AnnualUsageKg: dataset.LiteralRef(10),
						GWP100:        dataset.LiteralRef(2540),
					},
				},
				{
					ID:    "hvac_setback",
					Title: "HVAC setback",
					Type:  "slider",
					Range: dataset.Range{Min: 0, Max: 12, Step: 1},
					Calculation: dataset.PercentOfCategory{
						Category: "energy_hvac",
						Percent:  &dataset.ValueRef{Kind: dataset.RefControlValue},
					},
				},
			},
		},
	}
}

func TestApplyPracticeFlags(t *testing.T) {
	ds := cliTestDataset()
	calc := engine.NewCalculator(ds, zerolog.Nop())

	err := applyPracticeFlags(calc, ds, []string{
		"eliminate_desflurane=off",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"eliminate_desflurane"}, calc.DisabledInterventions())

	require.NoError(t, applyPracticeFlags(calc, ds, []string{"eliminate_desflurane=on"}))
	assert.Empty(t, calc.DisabledInterventions())

	require.NoError(t, applyPracticeFlags(calc, ds, []string{"hvac_setback=6"}))
	snap := calc.Recalculate()
	assert.Equal(t, 6.0, snap.Practices["hvac_setback"].Value)
}

func TestApplyPracticeFlags_Errors(t *testing.T) {
	ds := cliTestDataset()
	calc := engine.NewCalculator(ds, zerolog.Nop())

	assert.Error(t, applyPracticeFlags(calc, ds, []string{"no_such_id=on"}))
	assert.Error(t, applyPracticeFlags(calc, ds, []string{"hvac_setback=lots"}))
	assert.Error(t, applyPracticeFlags(calc, ds, []string{"=5"}))
}

func TestApplyEnableFlags(t *testing.T) {
	ds := cliTestDataset()
	calc := engine.NewCalculator(ds, zerolog.Nop())

	require.NoError(t, applyEnableFlags(calc, ds, []string{
		"eliminate_desflurane",
		"hvac_setback=6",
	}))
	snap := calc.Recalculate()

	require.Len(t, snap.PerIntervention, 2)
	assert.True(t, snap.PerIntervention[0].Enabled)
	assert.Equal(t, 6.0, snap.PerIntervention[1].Value)
	assert.Positive(t, snap.SavingsT())
}

func TestApplyEnableFlags_Errors(t *testing.T) {
	ds := cliTestDataset()
	calc := engine.NewCalculator(ds, zerolog.Nop())

	assert.Error(t, applyEnableFlags(calc, ds, []string{"no_such_id"}))
	assert.Error(t, applyEnableFlags(calc, ds, []string{"hvac_setback=high"}))
}

func TestWriteExport(t *testing.T) {
	ds := cliTestDataset()
	calc := engine.NewCalculator(ds, zerolog.Nop())
	require.NoError(t, applyEnableFlags(calc, ds, []string{"eliminate_desflurane"}))
	snap := calc.Recalculate()

	t.Run("json", func(t *testing.T) {
		var sb strings.Builder
		require.NoError(t, writeExport(&sb, "json", snap))
		assert.Contains(t, sb.String(), `"run_id"`)
		assert.Contains(t, sb.String(), `"eliminate_desflurane"`)
	})

	t.Run("csv", func(t *testing.T) {
		var sb strings.Builder
		require.NoError(t, writeExport(&sb, "csv", snap))
		assert.Contains(t, sb.String(), "Metric,Value")
		assert.Contains(t, sb.String(), "Eliminate desflurane,true")
	})

	t.Run("unknown format", func(t *testing.T) {
		var sb strings.Builder
		assert.ErrorContains(t, writeExport(&sb, "xml", snap), "unknown export format")
	})
}

func TestRenderTable(t *testing.T) {
	ds := cliTestDataset()
	calc := engine.NewCalculator(ds, zerolog.Nop())
	require.NoError(t, applyEnableFlags(calc, ds, []string{"eliminate_desflurane"}))
	snap := calc.Recalculate()

	var sb strings.Builder
	renderTable(&sb, snap, ds)
	out := sb.String()

	assert.Contains(t, out, "Patient-days/year: 6,205")
	assert.Contains(t, out, "Baseline:")
	assert.Contains(t, out, "Savings:")
	assert.Contains(t, out, "* eliminate_desflurane")
	assert.Contains(t, out, "energy_hvac")
}
