package engine

import (
	"math"

	"github.com/icugreen/icucarbon/internal/dataset"
)

// Method-specific defaults applied when a parameter is absent or references
// an unresolvable assumption path.
const (
	defaultUsageGWP         = 273 // N2O-class gas
	defaultAgentGWP         = 130 // volatile-agent class
	defaultKwhPerHourBed    = 0.02
	defaultDeltaKgPerHour   = 2.0
	fallbackPercentCategory = string(CategoryEnergyHvac)
)

// ComputeDelta evaluates one catalog entry's emissions delta in tons/year for
// the given live control value. Disabled controls and entries without a known
// calculation contribute zero. The result is always finite; clamping of the
// aggregate figures happens in the orchestrator.
func ComputeDelta(
	it *dataset.Intervention,
	value float64,
	enabled bool,
	base *Baseline,
	patientDays, grid float64,
	inputs Inputs,
	a *dataset.Assumptions,
) float64 {
	if !enabled || it.Calculation == nil {
		return 0
	}

	var delta float64
	switch calc := it.Calculation.(type) {
	case dataset.DirectSavings:
		delta = directSavingsDelta(calc, a)
	case dataset.KwhReduction:
		kwhPerHrBed := calc.KwhPerHourPerBed.Resolve(a, defaultKwhPerHourBed)
		kwh := value * float64(inputs.Beds) * 365 * kwhPerHrBed
		gf := a.EnergyModule.ReferenceGridFactorKgPerKwh
		if calc.UseLocalGrid {
			gf = grid
		}
		delta = kwh * gf / 1000
	case dataset.PercentOfCategory:
		delta = percentOfCategoryDelta(calc, value, base, a)
	case dataset.IntensityPerHour:
		kgph := calc.KgPerHour.Resolve(a, defaultDeltaKgPerHour)
		delta = value * kgph * patientDays / 1000
	case dataset.PerPatientDayDelta:
		delta = value * calc.KgPerUnit * patientDays / 1000
	default:
		// Unknown variant: tolerated as zero, same as an absent method.
		return 0
	}

	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return 0
	}
	return delta
}

// directSavingsDelta handles the two direct_savings shapes: an annual gas
// usage with GWP and leakage, or annual agent minutes converted to kg through
// vaporizer consumption and density. Usage wins when present and nonzero.
func directSavingsDelta(calc dataset.DirectSavings, a *dataset.Assumptions) float64 {
	if calc.AnnualUsageKg.Truthy() {
		usage := calc.AnnualUsageKg.Resolve(a, 0)
		gwp := calc.GWP100.Resolve(a, defaultUsageGWP)
		leakage := 1.0
		if calc.LeakageFactor != nil {
			leakage = *calc.LeakageFactor
		}
		return usage * gwp * leakage / 1000
	}

	if calc.AnnualAgentMinutes.Truthy() {
		minutes := calc.AnnualAgentMinutes.Resolve(a, 0)
		mlPerMin := 0.2
		if calc.AgentConsumptionMLPerMin != nil {
			mlPerMin = *calc.AgentConsumptionMLPerMin
		}
		density := 1.0
		if calc.DensityGPerML != nil {
			density = *calc.DensityGPerML
		}
		gwp := calc.GWP100.Resolve(a, defaultAgentGWP)
		kg := minutes * mlPerMin * density / 1000
		return kg * gwp / 1000
	}

	return 0
}

// percentOfCategoryDelta removes a percentage of one baseline category.
//
// The nominal percent is the live control value when the parameter carries
// the control-value marker, otherwise a constant. When scale_with_value_pct
// is set the control value acts as a 0-100 scaling factor OF the nominal
// percent: nominal 5 with slider 60 yields 3%, not 300%. The final percent is
// clamped to [0,100] and applied once.
func percentOfCategoryDelta(calc dataset.PercentOfCategory, value float64, base *Baseline, a *dataset.Assumptions) float64 {
	cat := calc.Category
	if cat == "" {
		cat = fallbackPercentCategory
	}
	baseT := base.CategoriesT[Category(cat)]

	var nominal float64
	if calc.Percent.IsControlValue() {
		nominal = value
	} else {
		nominal = calc.Percent.Resolve(a, 0)
	}

	if calc.ScaleWithValue {
		nominal = value * (nominal / 100)
	}

	if math.IsNaN(nominal) || math.IsInf(nominal, 0) {
		nominal = 0
	}
	percent := clamp(nominal, 0, 100)
	return baseT * percent / 100
}
