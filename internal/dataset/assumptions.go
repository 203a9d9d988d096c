// Package dataset loads and normalizes the four data artifacts the calculator
// runs on: the assumptions file, the intervention catalog, and the two grid
// rate tables. Everything loaded here is treated as immutable for the rest of
// the session.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
)

// SupportedSchemaConstraint is the semver range of assumptions files this
// build understands. Files without a schema_version are accepted for backward
// compatibility with hand-edited datasets.
const SupportedSchemaConstraint = "^1.0"

// ErrSchemaVersion indicates the assumptions file declares a schema version
// outside the supported range.
var ErrSchemaVersion = errors.New("unsupported assumptions schema version")

// BaselineIntensity is the literature-derived emissions intensity per
// patient-day, with its published range.
type BaselineIntensity struct {
	KgCO2ePerPatientDay float64 `json:"kg_co2e_per_patient_day"`
	RangeLitMin         float64 `json:"range_lit_min"`
	RangeLitMax         float64 `json:"range_lit_max"`
}

// CategoryShares apportions the baseline intensity across emission buckets.
// The shares are fractions of the baseline intensity and should sum to at
// most 1.
type CategoryShares struct {
	EnergyHvac   float64 `json:"energy_hvac"`
	Procurement  float64 `json:"procurement"`
	Pharma       float64 `json:"pharma"`
	MedicalGases float64 `json:"medical_gases"`
	Waste        float64 `json:"waste"`
	WaterOther   float64 `json:"water_other"`
}

// Sum returns the total of all share fractions.
func (s CategoryShares) Sum() float64 {
	return s.EnergyHvac + s.Procurement + s.Pharma + s.MedicalGases + s.Waste + s.WaterOther
}

// NationalGridAnchor is the last-resort grid factor when no location-specific
// or country-specific value resolves.
type NationalGridAnchor struct {
	USMeanKgPerKwh float64 `json:"us_mean_kg_per_kwh"`
}

// ClimateAdjustment bounds the user-supplied climate multiplier.
type ClimateAdjustment struct {
	CapMultiplierMin float64 `json:"cap_multiplier_min"`
	CapMultiplierMax float64 `json:"cap_multiplier_max"`
}

// Lighting holds the lighting energy coefficient.
type Lighting struct {
	KwhPerBedHour float64 `json:"kwh_per_bed_hour"`
}

// EnergyModule groups the energy-related assumptions.
type EnergyModule struct {
	ReferenceGridFactorKgPerKwh float64           `json:"reference_grid_factor_kg_per_kwh"`
	ClimateAdjustment           ClimateAdjustment `json:"climate_adjustment"`
	Lighting                    Lighting          `json:"lighting"`
}

// CRRT holds the continuous renal replacement therapy coefficient.
type CRRT struct {
	KgCO2ePerHour float64 `json:"kg_co2e_per_hour"`
}

// GWPs100 lists the 100-year global warming potentials used by the gas
// calculations.
type GWPs100 struct {
	N2O         float64 `json:"N2O"`
	Desflurane  float64 `json:"Desflurane"`
	Sevoflurane float64 `json:"Sevoflurane"`
	Isoflurane  float64 `json:"Isoflurane"`
}

// MedicalGases groups gas-related assumptions.
type MedicalGases struct {
	GWPs100 GWPs100 `json:"gwps_100"`
}

// ProcurementPharma holds per-patient-day coefficients for procurement and
// pharmacy practice extras.
type ProcurementPharma struct {
	BronchKgPd float64 `json:"bronch_kg_pd"`
	GownKgPd   float64 `json:"gown_kg_pd"`
}

// UIDefaults carries presentation defaults that ride along in the assumptions
// file. ICU type is descriptive only and never enters a formula.
type UIDefaults struct {
	ICUTypes []string `json:"icu_types"`
}

// Assumptions is the loaded assumptions document. It is read-only within a
// session.
type Assumptions struct {
	SchemaVersion       string             `json:"schema_version"`
	BaselineIntensity   BaselineIntensity  `json:"baseline_intensity"`
	CategoryShares      CategoryShares     `json:"category_shares"`
	NationalGridAnchor  NationalGridAnchor `json:"national_grid_anchor"`
	CountryGridDefaults map[string]float64 `json:"country_grid_defaults_kg_per_kwh"`
	EnergyModule        EnergyModule       `json:"energy_module"`
	CRRT                CRRT               `json:"crrt"`
	MedicalGases        MedicalGases       `json:"medical_gases"`
	ProcurementPharma   ProcurementPharma  `json:"procurement_pharma"`
	UIDefaults          UIDefaults         `json:"ui_defaults"`
}

// ParseAssumptions decodes and validates an assumptions document.
func ParseAssumptions(data []byte) (*Assumptions, error) {
	var a Assumptions
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parsing assumptions: %w", err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// LoadAssumptions reads and parses the assumptions file at path.
func LoadAssumptions(path string) (*Assumptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading assumptions: %w", err)
	}
	return ParseAssumptions(data)
}

// Validate checks structural soundness: a positive baseline intensity,
// category shares forming a partition (sum ≤ 1, small float tolerance), and a
// supported schema version when one is declared.
func (a *Assumptions) Validate() error {
	if a.BaselineIntensity.KgCO2ePerPatientDay <= 0 {
		return errors.New("assumptions: baseline intensity must be positive")
	}

	const shareTolerance = 1e-9
	if sum := a.CategoryShares.Sum(); sum > 1+shareTolerance {
		return fmt.Errorf("assumptions: category shares sum to %.4f, must be <= 1", sum)
	}

	if a.SchemaVersion != "" {
		v, err := semver.NewVersion(a.SchemaVersion)
		if err != nil {
			return fmt.Errorf("%w: %q is not a semantic version", ErrSchemaVersion, a.SchemaVersion)
		}
		constraint, err := semver.NewConstraint(SupportedSchemaConstraint)
		if err != nil {
			return fmt.Errorf("parsing schema constraint: %w", err)
		}
		if !constraint.Check(v) {
			return fmt.Errorf("%w: %s (supported: %s)", ErrSchemaVersion, a.SchemaVersion, SupportedSchemaConstraint)
		}
	}
	return nil
}
