// Package equiv converts saved emissions into relatable real-world
// equivalencies (cars off the road, forest acres, tree seedlings) using the
// coefficients shipped with the intervention catalog.
package equiv

import (
	"fmt"
	"math"

	"github.com/icugreen/icucarbon/internal/dataset"
)

// Result holds the calculated equivalencies for a savings figure.
type Result struct {
	SavingsT  float64 `json:"savings_t"`
	Cars      float64 `json:"cars"`
	Acres     float64 `json:"acres"`
	Seedlings float64 `json:"seedlings"`

	// DisplayText is the full prose form for CLI/TUI output.
	DisplayText string `json:"display_text"`

	// IsEmpty is true when the savings were too small to express.
	IsEmpty bool `json:"is_empty"`
}

// MinSavingsT is the smallest savings worth expressing as equivalencies.
const MinSavingsT = 0.05

// ForSavings converts annual savings in tons CO2e into equivalencies. Non-
// finite or negligible savings yield an empty result rather than an error.
func ForSavings(savingsT float64, coeffs dataset.EquivalencyCoeffs) Result {
	if math.IsNaN(savingsT) || math.IsInf(savingsT, 0) || savingsT < MinSavingsT {
		return Result{SavingsT: savingsT, IsEmpty: true}
	}

	cars := savingsT * coeffs.CarsPerTonCO2e
	acres := savingsT * coeffs.AcresForestPerTonCO2e
	seedlings := savingsT * coeffs.TreeSeedlings10YrPerTonCO2e

	return Result{
		SavingsT:  savingsT,
		Cars:      cars,
		Acres:     acres,
		Seedlings: seedlings,
		DisplayText: fmt.Sprintf(
			"Equivalent to taking %s cars off the road, saving %s acres from deforestation, or planting %s seedlings",
			FormatFloat(cars, 1), FormatFloat(acres, 1), FormatFloat(seedlings, 1)),
	}
}
