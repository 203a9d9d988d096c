package engine

import (
	"math"

	"github.com/icugreen/icucarbon/internal/dataset"
)

// Fallback coefficients used when the assumptions file leaves one at zero.
const (
	defaultLightingKwhPerBedHour = 0.02
	defaultCRRTKgPerHour         = 2.0
	defaultBronchKgPd            = 0.5
	defaultGownKgPd              = 0.4

	// mdiKgPerPuffPd is the flat placeholder coefficient for the
	// MDI-to-nebulizer practice, kg CO2e per puff per patient-day. See the
	// catalog's formula note.
	mdiKgPerPuffPd = 0.05

	// Desflurane vaporizer consumption: mL agent per minute and liquid
	// density in g/mL.
	desfluraneMLPerMin      = 0.2
	desfluraneDensityGPerML = 1.46
)

// Baseline-practice ids with dedicated extra terms in the baseline model.
const (
	PracticeLightsNightDimming   = "lights_night_dimming"
	PracticeCRRTStewardship      = "crrt_stewardship"
	PracticeEliminateN2O         = "eliminate_n2o"
	PracticeEliminateDesflurane  = "eliminate_desflurane"
	PracticeMDIToNebulizer       = "mdi_to_nebulizer"
	PracticeReusableBronchoscopy = "reusable_bronchoscopy"
	PracticeReusableGowns        = "reusable_gowns"
)

// ComputeBaseline evaluates the baseline model for the given facility inputs,
// practice states, and an already-resolved grid factor.
//
// Patient-days are 365 × beds × occupancy. The energy category converts its
// intensity share to kWh/patient-day at the reference grid factor, then
// reprices it at the local grid with the clamped climate multiplier. The
// remaining share categories scale the baseline intensity directly. Enabled
// baseline practices add per-patient-day extras attributed to their
// categories; lighting and crrt exist only through those extras.
func ComputeBaseline(inputs Inputs, practices Practices, grid float64, a *dataset.Assumptions) (patientDays float64, b Baseline) {
	pd := 365 * float64(inputs.Beds) * inputs.Occupancy

	baseI := a.BaselineIntensity.KgCO2ePerPatientDay
	shares := a.CategoryShares

	refGrid := a.EnergyModule.ReferenceGridFactorKgPerKwh
	if refGrid == 0 {
		refGrid = a.NationalGridAnchor.USMeanKgPerKwh
	}
	kwhPdRef := safeDiv(shares.EnergyHvac*baseI, refGrid)

	mcl := inputs.ClimateMult
	if mcl == 0 || math.IsNaN(mcl) {
		mcl = 1
	}
	mcl = clamp(mcl, a.EnergyModule.ClimateAdjustment.CapMultiplierMin, a.EnergyModule.ClimateAdjustment.CapMultiplierMax)

	ePd := kwhPdRef * grid * mcl

	otherPd := map[Category]float64{
		CategoryProcurement:  baseI * shares.Procurement,
		CategoryPharma:       baseI * shares.Pharma,
		CategoryMedicalGases: baseI * shares.MedicalGases,
		CategoryWaste:        baseI * shares.Waste,
		CategoryWaterOther:   baseI * shares.WaterOther,
	}

	extras := practiceExtras(inputs, practices, grid, pd, a)

	intensityPd := ePd
	for _, v := range otherPd {
		intensityPd += v
	}
	for _, v := range extras {
		intensityPd += v
	}

	toTons := pd / 1000
	b = Baseline{
		IntensityPD: intensityPd,
		Figures: Figures{
			AnnualT: intensityPd * toTons,
			CategoriesT: map[Category]float64{
				CategoryEnergyHvac:   ePd * toTons,
				CategoryProcurement:  (otherPd[CategoryProcurement] + extras[CategoryProcurement]) * toTons,
				CategoryPharma:       (otherPd[CategoryPharma] + extras[CategoryPharma]) * toTons,
				CategoryMedicalGases: (otherPd[CategoryMedicalGases] + extras[CategoryMedicalGases]) * toTons,
				CategoryWaste:        otherPd[CategoryWaste] * toTons,
				CategoryWaterOther:   otherPd[CategoryWaterOther] * toTons,
				CategoryLighting:     extras[CategoryLighting] * toTons,
				CategoryCRRT:         extras[CategoryCRRT] * toTons,
			},
		},
	}
	return pd, b
}

// practiceExtras computes the additive kg/patient-day terms for enabled
// baseline practices, keyed by the category each attributes to.
func practiceExtras(inputs Inputs, practices Practices, grid, pd float64, a *dataset.Assumptions) map[Category]float64 {
	extras := map[Category]float64{}

	enabledValue := func(id string) (float64, bool) {
		p, ok := practices[id]
		if !ok || !p.Enabled {
			return 0, false
		}
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			return 0, true
		}
		return p.Value, true
	}

	if hours, ok := enabledValue(PracticeLightsNightDimming); ok {
		coeff := a.EnergyModule.Lighting.KwhPerBedHour
		if coeff == 0 {
			coeff = defaultLightingKwhPerBedHour
		}
		kwhYear := hours * float64(inputs.Beds) * 365 * coeff
		extras[CategoryLighting] += safeDiv(kwhYear*grid, pd)
	}

	if hours, ok := enabledValue(PracticeCRRTStewardship); ok {
		coeff := a.CRRT.KgCO2ePerHour
		if coeff == 0 {
			coeff = defaultCRRTKgPerHour
		}
		// Already per patient-day, no pd division.
		extras[CategoryCRRT] += hours * coeff
	}

	if kgYear, ok := enabledValue(PracticeEliminateN2O); ok {
		extras[CategoryMedicalGases] += safeDiv(kgYear*a.MedicalGases.GWPs100.N2O, pd)
	}

	if minutes, ok := enabledValue(PracticeEliminateDesflurane); ok {
		kg := minutes * desfluraneMLPerMin * desfluraneDensityGPerML / 1000
		extras[CategoryMedicalGases] += safeDiv(kg*a.MedicalGases.GWPs100.Desflurane, pd)
	}

	if puffsPd, ok := enabledValue(PracticeMDIToNebulizer); ok {
		extras[CategoryPharma] += puffsPd * mdiKgPerPuffPd
	}

	if pctReusable, ok := enabledValue(PracticeReusableBronchoscopy); ok {
		coeff := a.ProcurementPharma.BronchKgPd
		if coeff == 0 {
			coeff = defaultBronchKgPd
		}
		pctSingleUse := clamp(100-pctReusable, 0, 100)
		extras[CategoryProcurement] += pctSingleUse / 100 * coeff
	}

	if pctSingle, ok := enabledValue(PracticeReusableGowns); ok {
		coeff := a.ProcurementPharma.GownKgPd
		if coeff == 0 {
			coeff = defaultGownKgPd
		}
		extras[CategoryProcurement] += clamp(pctSingle, 0, 100) / 100 * coeff
	}

	return extras
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// safeDiv keeps the model total: division by zero yields 0 instead of an
// infinity that would poison every downstream figure.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
