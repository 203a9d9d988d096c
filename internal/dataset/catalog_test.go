package dataset

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseCatalog(t *testing.T, data string) *Catalog {
	t.Helper()
	c, err := ParseCatalog([]byte(data), zerolog.Nop())
	require.NoError(t, err)
	return c
}

func TestParseCatalog_SkipsInvalidEntries(t *testing.T) {
	c := parseCatalog(t, `{
		"groups": [{"id": "energy", "label": "Energy"}],
		"interventions": [
			{"id": "ok", "title": "Fine", "type": "binary", "group": "energy"},
			{"title": "No id", "type": "binary"},
			{"id": "no_title", "type": "slider"},
			{"id": "no_type", "title": "No type"}
		]
	}`)

	assert.Equal(t, 3, c.Skipped)
	require.Len(t, c.Interventions, 1)
	assert.Equal(t, "ok", c.Interventions[0].ID)
}

func TestParseCatalog_SliderDefaultRange(t *testing.T) {
	c := parseCatalog(t, `{
		"groups": [{"id": "g", "label": "G"}],
		"interventions": [
			{"id": "bare", "title": "Bare slider", "type": "slider", "group": "g"},
			{"id": "ranged", "title": "Ranged", "type": "slider", "group": "g",
			 "range": {"min": 0, "max": 8, "step": 0.5, "unit": "h"}},
			{"id": "bin", "title": "Binary", "type": "binary", "group": "g"}
		]
	}`)

	assert.Equal(t, Range{Min: 0, Max: 100, Step: 1}, c.Interventions[0].Range)
	assert.Equal(t, Range{Min: 0, Max: 8, Step: 0.5, Unit: "h"}, c.Interventions[1].Range)
	assert.Equal(t, Range{}, c.Interventions[2].Range, "binary controls get no synthesized range")
}

func TestParseCatalog_OtherGroupSynthesis(t *testing.T) {
	c := parseCatalog(t, `{
		"groups": [{"id": "energy", "label": "Energy"}],
		"interventions": [
			{"id": "a", "title": "A", "type": "binary", "group": "energy"},
			{"id": "b", "title": "B", "type": "binary", "group": "nonexistent"},
			{"id": "c", "title": "C", "type": "binary"}
		]
	}`)

	other, ok := c.GroupByID(OtherGroupID)
	require.True(t, ok)
	assert.Equal(t, "Other", other.Label)

	assert.Equal(t, "energy", c.Interventions[0].Group)
	assert.Equal(t, OtherGroupID, c.Interventions[1].Group)
	assert.Equal(t, OtherGroupID, c.Interventions[2].Group)
}

func TestParseCatalog_EmptyGroupsStillYieldsOther(t *testing.T) {
	c := parseCatalog(t, `{"interventions": []}`)
	_, ok := c.GroupByID(OtherGroupID)
	assert.True(t, ok)
}

func TestParseCatalog_EquivalencyCoeffs(t *testing.T) {
	c := parseCatalog(t, `{
		"equivalency_coeffs": {
			"cars_per_tCO2e": 0.45,
			"acres_forest_per_tCO2e": 0.06,
			"tree_seedlings_10yr_per_tCO2e": 7.0
		},
		"interventions": []
	}`)
	assert.Equal(t, 0.45, c.EquivalencyCoeffs.CarsPerTonCO2e)
	assert.Equal(t, 7.0, c.EquivalencyCoeffs.TreeSeedlings10YrPerTonCO2e)

	empty := parseCatalog(t, `{"interventions": []}`)
	assert.Zero(t, empty.EquivalencyCoeffs.CarsPerTonCO2e)
}

func TestParseCatalog_CalculationMethods(t *testing.T) {
	c := parseCatalog(t, `{
		"groups": [{"id": "g", "label": "G"}],
		"interventions": [
			{"id": "ds", "title": "DS", "type": "binary", "group": "g",
			 "calculation": {"method": "direct_savings", "params": {
				"annual_usage_kg": 120,
				"gwp100": {"source": "assumptions.medical_gases.gwps_100.N2O"},
				"leakage_factor": 1.1
			 }}},
			{"id": "kwh", "title": "KWH", "type": "slider", "group": "g",
			 "calculation": {"method": "kwh_reduction", "params": {
				"kwh_per_hour_per_bed": {"source": "assumptions.energy_module.lighting.kwh_per_bed_hour"},
				"grid_factor_source": "baseline.location.grid_factor_kg_per_kwh"
			 }}},
			{"id": "pct", "title": "PCT", "type": "slider", "group": "g",
			 "calculation": {"method": "percent_of_category", "params": {
				"category": "waste",
				"percent_reduction": {"source_value": true}
			 }}},
			{"id": "iph", "title": "IPH", "type": "slider", "group": "g",
			 "calculation": {"method": "intensity_per_hour", "params": {"kg_per_hour": 2.0}}},
			{"id": "ppd", "title": "PPD", "type": "slider", "group": "g",
			 "calculation": {"method": "per_patient_day_delta", "params": {"kg_co2e_per_puff": 0.05}}},
			{"id": "unk", "title": "UNK", "type": "binary", "group": "g",
			 "calculation": {"method": "quantum_leap"}},
			{"id": "none", "title": "NONE", "type": "binary", "group": "g"}
		]
	}`)

	require.Len(t, c.Interventions, 7)

	ds, ok := c.Interventions[0].Calculation.(DirectSavings)
	require.True(t, ok)
	assert.Equal(t, RefLiteral, ds.AnnualUsageKg.Kind)
	assert.Equal(t, 120.0, ds.AnnualUsageKg.Literal)
	assert.Equal(t, RefAssumption, ds.GWP100.Kind)
	assert.Equal(t, PathN2OGWP, ds.GWP100.Path)
	require.NotNil(t, ds.LeakageFactor)
	assert.Equal(t, 1.1, *ds.LeakageFactor)

	kwh, ok := c.Interventions[1].Calculation.(KwhReduction)
	require.True(t, ok)
	assert.True(t, kwh.UseLocalGrid)
	assert.Equal(t, PathLightingKwhPerBedHour, kwh.KwhPerHourPerBed.Path)

	pct, ok := c.Interventions[2].Calculation.(PercentOfCategory)
	require.True(t, ok)
	assert.Equal(t, "waste", pct.Category)
	assert.True(t, pct.Percent.IsControlValue())

	iph, ok := c.Interventions[3].Calculation.(IntensityPerHour)
	require.True(t, ok)
	assert.Equal(t, 2.0, iph.KgPerHour.Literal)

	ppd, ok := c.Interventions[4].Calculation.(PerPatientDayDelta)
	require.True(t, ok)
	assert.Equal(t, 0.05, ppd.KgPerUnit)

	assert.Nil(t, c.Interventions[5].Calculation, "unknown method decodes to nil")
	assert.Nil(t, c.Interventions[6].Calculation)
}

func TestParseCatalog_BaselineControl(t *testing.T) {
	c := parseCatalog(t, `{
		"groups": [{"id": "g", "label": "G"}],
		"interventions": [{
			"id": "crrt_stewardship", "title": "CRRT", "type": "slider", "group": "g",
			"baseline_control": {
				"label": "CRRT hours avoided per patient-day",
				"type": "slider", "default_enabled": true, "default_value": 3,
				"min": 0, "max": 8, "step": 0.5, "unit": "h/pd"
			}
		}]
	}`)

	bc := c.Interventions[0].BaselineControl
	require.NotNil(t, bc)
	assert.True(t, bc.DefaultEnabled)
	assert.Equal(t, 3.0, bc.DefaultValue)
	require.NotNil(t, bc.Max)
	assert.Equal(t, 8.0, *bc.Max)
}

func TestValueRef_UnknownSourceResolvesToDefault(t *testing.T) {
	c := parseCatalog(t, `{
		"interventions": [{
			"id": "x", "title": "X", "type": "slider",
			"calculation": {"method": "intensity_per_hour",
				"params": {"kg_per_hour": {"source": "assumptions.nonexistent.path"}}}
		}]
	}`)

	iph := c.Interventions[0].Calculation.(IntensityPerHour)
	assert.Equal(t, PathUnknown, iph.KgPerHour.Path)
	assert.Equal(t, 2.0, iph.KgPerHour.Resolve(&Assumptions{}, 2.0))
}

func TestValueRef_Truthy(t *testing.T) {
	assert.False(t, (*ValueRef)(nil).Truthy())
	assert.False(t, LiteralRef(0).Truthy())
	assert.True(t, LiteralRef(-1).Truthy())
	assert.True(t, (&ValueRef{Kind: RefAssumption, Path: PathN2OGWP}).Truthy())
	assert.True(t, (&ValueRef{Kind: RefControlValue}).Truthy())
}
