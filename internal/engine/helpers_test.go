package engine

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/icugreen/icucarbon/internal/dataset"
)

// testAssumptions mirrors the shipped dataset closely enough for formula
// verification: baseline 22 kg/pd, shares summing to 1, reference grid
// 0.417, USA default 0.42 (distinct from the anchor so fallback tiers are
// distinguishable in tests).
func testAssumptions() *dataset.Assumptions {
	return &dataset.Assumptions{
		BaselineIntensity: dataset.BaselineIntensity{KgCO2ePerPatientDay: 22},
		CategoryShares: dataset.CategoryShares{
			EnergyHvac:   0.40,
			Procurement:  0.22,
			Pharma:       0.12,
			MedicalGases: 0.10,
			Waste:        0.09,
			WaterOther:   0.07,
		},
		NationalGridAnchor:  dataset.NationalGridAnchor{USMeanKgPerKwh: 0.3755},
		CountryGridDefaults: map[string]float64{"USA": 0.42, "France": 0.056},
		EnergyModule: dataset.EnergyModule{
			ReferenceGridFactorKgPerKwh: 0.417,
			ClimateAdjustment:           dataset.ClimateAdjustment{CapMultiplierMin: 0.8, CapMultiplierMax: 1.4},
			Lighting:                    dataset.Lighting{KwhPerBedHour: 0.02},
		},
		CRRT: dataset.CRRT{KgCO2ePerHour: 2.0},
		MedicalGases: dataset.MedicalGases{
			GWPs100: dataset.GWPs100{N2O: 273, Desflurane: 2540, Sevoflurane: 130, Isoflurane: 510},
		},
		ProcurementPharma: dataset.ProcurementPharma{BronchKgPd: 0.5, GownKgPd: 0.4},
	}
}

func rateTable(rows ...dataset.RateRow) *dataset.RateTable {
	return &dataset.RateTable{Rows: rows}
}

func testDataset(zip, subregion *dataset.RateTable, interventions ...dataset.Intervention) *dataset.Dataset {
	return &dataset.Dataset{
		Assumptions:    testAssumptions(),
		Catalog:        &dataset.Catalog{Interventions: interventions},
		ZipTable:       zip,
		SubregionTable: subregion,
	}
}

func nopLogger() zerolog.Logger { return zerolog.Nop() }

func nan() float64 { return math.NaN() }
