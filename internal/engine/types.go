// Package engine implements the emissions computation core: grid-factor
// resolution, the baseline model, per-intervention deltas, and the
// recalculation orchestrator. All arithmetic here is total: structurally
// valid inputs always produce finite, clamped results, never errors.
package engine

// Category is one of the eight fixed emissions buckets.
type Category string

const (
	CategoryEnergyHvac   Category = "energy_hvac"
	CategoryProcurement  Category = "procurement"
	CategoryPharma       Category = "pharma"
	CategoryMedicalGases Category = "medical_gases"
	CategoryWaste        Category = "waste"
	CategoryWaterOther   Category = "water_other"
	CategoryLighting     Category = "lighting"
	CategoryCRRT         Category = "crrt"
)

// CategoryOrder is the canonical display and export ordering.
var CategoryOrder = []Category{
	CategoryEnergyHvac,
	CategoryProcurement,
	CategoryPharma,
	CategoryMedicalGases,
	CategoryWaste,
	CategoryWaterOther,
	CategoryLighting,
	CategoryCRRT,
}

// ValidCategory reports whether c is one of the eight known buckets.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryEnergyHvac, CategoryProcurement, CategoryPharma,
		CategoryMedicalGases, CategoryWaste, CategoryWaterOther,
		CategoryLighting, CategoryCRRT:
		return true
	default:
		return false
	}
}

// Inputs are the facility parameters the user edits.
type Inputs struct {
	Beds        int     `json:"beds"`
	Occupancy   float64 `json:"occupancy"`
	Zip         string  `json:"zip"`
	Country     string  `json:"country"`
	ICUType     string  `json:"icu_type"`
	ClimateMult float64 `json:"climate_mult"`
}

// DefaultInputs returns the facility defaults applied at startup and on
// reset.
func DefaultInputs() Inputs {
	return Inputs{
		Beds:        20,
		Occupancy:   0.85,
		Zip:         "",
		Country:     "USA",
		ICUType:     "Med/Surg",
		ClimateMult: 1.0,
	}
}

// PracticeState is the user's answer for one baseline practice: whether the
// practice is in place at the facility, and its magnitude.
type PracticeState struct {
	Enabled bool    `json:"enabled"`
	Value   float64 `json:"value"`
}

// Practices maps intervention id to the paired baseline-practice state.
// Absence means "unknown": no extra baseline term, and no gating of the
// paired intervention.
type Practices map[string]PracticeState

// Control is the live value of one intervention control at recompute time.
// For binary controls Enabled drives the calculation; for sliders Value does,
// with any nonzero value counting as enabled.
type Control struct {
	Enabled bool    `json:"enabled"`
	Value   float64 `json:"value"`
}

// Figures holds an annual total and its category breakdown, in metric tons
// CO2e per year.
type Figures struct {
	AnnualT     float64              `json:"annual_t"`
	CategoriesT map[Category]float64 `json:"categories_t"`
}

// Baseline is the computed pre-intervention state.
type Baseline struct {
	IntensityPD float64 `json:"intensity_pd"`
	Figures
}

// InterventionResult is one row of the per-intervention output, in catalog
// order.
type InterventionResult struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Enabled bool    `json:"enabled"`
	Value   float64 `json:"value"`
	DeltaT  float64 `json:"delta_t"`
}

// Snapshot is a self-contained copy of the derived state handed to renderers
// and exporters. Maps and slices are deep-copied, so holders can never
// observe a later recompute.
type Snapshot struct {
	Inputs          Inputs               `json:"inputs"`
	Practices       Practices            `json:"baseline_practices"`
	PatientDays     float64              `json:"patient_days"`
	GridFactor      float64              `json:"grid_factor_kg_per_kwh"`
	Baseline        Baseline             `json:"baseline"`
	Current         Figures              `json:"current"`
	PerIntervention []InterventionResult `json:"interventions"`
}

// SavingsT returns the clamped total savings in tons per year.
func (s *Snapshot) SavingsT() float64 {
	sav := s.Baseline.AnnualT - s.Current.AnnualT
	if sav < 0 {
		return 0
	}
	return sav
}

func copyCategories(src map[Category]float64) map[Category]float64 {
	dst := make(map[Category]float64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
