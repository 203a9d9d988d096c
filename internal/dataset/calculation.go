package dataset

import (
	"encoding/json"
)

// AssumptionPath identifies one of the assumption values a catalog parameter
// may reference instead of carrying a literal number. The set is closed:
// catalog authors can only point at these three values, anything else decodes
// to PathUnknown and resolves to the method's default.
type AssumptionPath int

const (
	// PathUnknown is an unrecognized or absent reference.
	PathUnknown AssumptionPath = iota

	// PathN2OGWP references assumptions.medical_gases.gwps_100.N2O.
	PathN2OGWP

	// PathDesfluraneGWP references assumptions.medical_gases.gwps_100.Desflurane.
	PathDesfluraneGWP

	// PathLightingKwhPerBedHour references assumptions.energy_module.lighting.kwh_per_bed_hour.
	PathLightingKwhPerBedHour
)

// assumptionPathNames maps the dotted source strings used in catalog files to
// their closed-enum values.
var assumptionPathNames = map[string]AssumptionPath{
	"assumptions.medical_gases.gwps_100.N2O":              PathN2OGWP,
	"assumptions.medical_gases.gwps_100.Desflurane":       PathDesfluraneGWP,
	"assumptions.energy_module.lighting.kwh_per_bed_hour": PathLightingKwhPerBedHour,
}

// ValueRefKind discriminates the forms a calculation parameter can take.
type ValueRefKind int

const (
	// RefLiteral is an inline number.
	RefLiteral ValueRefKind = iota

	// RefAssumption resolves against a named assumption path.
	RefAssumption

	// RefControlValue marks the parameter as "use the live control value"
	// (the {"source_value": true} encoding, used by percent sliders).
	RefControlValue
)

// ValueRef is a calculation parameter that is either a literal number, an
// assumption reference, or the live-control marker. A nil *ValueRef means the
// parameter was absent.
type ValueRef struct {
	Kind    ValueRefKind
	Literal float64
	Path    AssumptionPath
}

// UnmarshalJSON accepts the three encodings emitted by the catalog tooling:
// a bare number, {"source": "<dotted path>"} and {"source_value": true}.
// Unrecognized shapes decode to an unknown assumption reference, which
// resolves to the method default downstream.
func (v *ValueRef) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*v = ValueRef{Kind: RefLiteral, Literal: num}
		return nil
	}

	var obj struct {
		Source      string `json:"source"`
		SourceValue bool   `json:"source_value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		*v = ValueRef{Kind: RefAssumption, Path: PathUnknown}
		return nil
	}
	if obj.SourceValue {
		*v = ValueRef{Kind: RefControlValue}
		return nil
	}
	*v = ValueRef{Kind: RefAssumption, Path: assumptionPathNames[obj.Source]}
	return nil
}

// LiteralRef returns a literal-valued ref, mainly for tests and synthesized
// catalogs.
func LiteralRef(x float64) *ValueRef {
	return &ValueRef{Kind: RefLiteral, Literal: x}
}

// Resolve returns the concrete number for this reference. Unknown paths and
// the control-value marker fall back to the supplied default; control values
// are handled explicitly by the percent-of-category method before calling
// Resolve.
func (v *ValueRef) Resolve(a *Assumptions, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	switch v.Kind {
	case RefLiteral:
		return v.Literal
	case RefAssumption:
		switch v.Path {
		case PathN2OGWP:
			return a.MedicalGases.GWPs100.N2O
		case PathDesfluraneGWP:
			return a.MedicalGases.GWPs100.Desflurane
		case PathLightingKwhPerBedHour:
			return a.EnergyModule.Lighting.KwhPerBedHour
		default:
			return fallback
		}
	default:
		return fallback
	}
}

// IsControlValue reports whether the parameter is the live-control marker.
func (v *ValueRef) IsControlValue() bool {
	return v != nil && v.Kind == RefControlValue
}

// Truthy mirrors the original model's branch-selection rule for
// direct_savings: a parameter participates when present and not a literal
// zero. Assumption references and control markers always count as present.
func (v *ValueRef) Truthy() bool {
	if v == nil {
		return false
	}
	return v.Kind != RefLiteral || v.Literal != 0
}

// Calculation is the tagged variant over the five supported calculation
// methods. Dispatch happens by type switch in the engine, so a missing case
// is a compile-visible gap rather than a silent string mismatch.
type Calculation interface {
	method() string
}

// DirectSavings computes a delta from an annual quantity of gas (or agent
// minutes) and a GWP. Exactly one of AnnualUsageKg / AnnualAgentMinutes
// drives the formula; usage wins when both are present and nonzero.
type DirectSavings struct {
	AnnualUsageKg            *ValueRef
	GWP100                   *ValueRef
	LeakageFactor            *float64
	AnnualAgentMinutes       *ValueRef
	AgentConsumptionMLPerMin *float64
	DensityGPerML            *float64
}

func (DirectSavings) method() string { return "direct_savings" }

// KwhReduction scales avoided bed-hours of electricity by a grid factor.
// UseLocalGrid selects the live resolved factor over the reference factor.
type KwhReduction struct {
	KwhPerHourPerBed *ValueRef
	UseLocalGrid     bool
}

func (KwhReduction) method() string { return "kwh_reduction" }

// PercentOfCategory removes a percentage of one baseline category. Percent
// may be a constant or the live control value; ScaleWithValue additionally
// rescales the nominal percent by the control value treated as 0-100.
type PercentOfCategory struct {
	Category       string
	Percent        *ValueRef
	ScaleWithValue bool
}

func (PercentOfCategory) method() string { return "percent_of_category" }

// IntensityPerHour multiplies the control value (hours) by a per-hour
// coefficient and patient-days.
type IntensityPerHour struct {
	KgPerHour *ValueRef
}

func (IntensityPerHour) method() string { return "intensity_per_hour" }

// PerPatientDayDelta multiplies the control value by a per-unit coefficient
// and patient-days.
type PerPatientDayDelta struct {
	KgPerUnit float64
}

func (PerPatientDayDelta) method() string { return "per_patient_day_delta" }

// rawCalculation is the on-disk shape of a calculation block.
type rawCalculation struct {
	Method      string          `json:"method"`
	FormulaNote string          `json:"formula_note"`
	Params      json.RawMessage `json:"params"`
}

// grid_factor_source value selecting the live resolved grid factor.
const gridFactorSourceLocal = "baseline.location.grid_factor_kg_per_kwh"

// decode builds the typed variant for the method tag, returning nil for
// unknown or empty methods (which contribute a zero delta but stay listed).
func (rc *rawCalculation) decode() Calculation {
	params := rc.Params
	if len(params) == 0 {
		params = json.RawMessage(`{}`)
	}

	switch rc.Method {
	case "direct_savings":
		var p struct {
			AnnualUsageKg            *ValueRef `json:"annual_usage_kg"`
			GWP100                   *ValueRef `json:"gwp100"`
			LeakageFactor            *float64  `json:"leakage_factor"`
			AnnualAgentMinutes       *ValueRef `json:"annual_agent_minutes"`
			AgentConsumptionMLPerMin *float64  `json:"agent_consumption_ml_per_min"`
			DensityGPerML            *float64  `json:"density_g_per_ml"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil
		}
		return DirectSavings{
			AnnualUsageKg:            p.AnnualUsageKg,
			GWP100:                   p.GWP100,
			LeakageFactor:            p.LeakageFactor,
			AnnualAgentMinutes:       p.AnnualAgentMinutes,
			AgentConsumptionMLPerMin: p.AgentConsumptionMLPerMin,
			DensityGPerML:            p.DensityGPerML,
		}
	case "kwh_reduction":
		var p struct {
			KwhPerHourPerBed *ValueRef `json:"kwh_per_hour_per_bed"`
			GridFactorSource string    `json:"grid_factor_source"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil
		}
		return KwhReduction{
			KwhPerHourPerBed: p.KwhPerHourPerBed,
			UseLocalGrid:     p.GridFactorSource == gridFactorSourceLocal,
		}
	case "percent_of_category":
		var p struct {
			Category          string    `json:"category"`
			PercentReduction  *ValueRef `json:"percent_reduction"`
			ScaleWithValuePct bool      `json:"scale_with_value_pct"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil
		}
		return PercentOfCategory{
			Category:       p.Category,
			Percent:        p.PercentReduction,
			ScaleWithValue: p.ScaleWithValuePct,
		}
	case "intensity_per_hour":
		var p struct {
			KgPerHour *ValueRef `json:"kg_per_hour"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil
		}
		return IntensityPerHour{KgPerHour: p.KgPerHour}
	case "per_patient_day_delta":
		var p struct {
			KgCO2ePerPuff float64 `json:"kg_co2e_per_puff"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil
		}
		return PerPatientDayDelta{KgPerUnit: p.KgCO2ePerPuff}
	default:
		return nil
	}
}
