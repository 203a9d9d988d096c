package engine

import (
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/icugreen/icucarbon/internal/dataset"
)

// PoundsPerMWhToKgPerKwh converts lb CO2/MWh to kg CO2e/kWh.
const PoundsPerMWhToKgPerKwh = 0.453592 / 1000

// GridResolver resolves an electrical-grid carbon intensity (kg CO2e/kWh)
// from a location, with tiered fallback:
//
//  1. exact zero-padded zip match in the zip table,
//  2. for USA, the lower median of all finite subregion rates,
//  3. the country default from assumptions,
//  4. the national mean anchor.
//
// A rate of exactly 0 lb/MWh is treated as "not found" and falls through to
// the country tier: a zero row carries no usable data.
//
// Zip lookups are memoized per resolver, misses included; the tables are
// immutable for the session so the cache never goes stale. Build one resolver
// per loaded dataset.
type GridResolver struct {
	assumptions *dataset.Assumptions
	zipTable    *dataset.RateTable
	subregion   *dataset.RateTable

	mu       sync.Mutex
	zipCache map[string]float64 // zero-padded zip -> rate (NaN caches a miss)
}

// NewGridResolver builds a resolver over the dataset's immutable tables.
func NewGridResolver(ds *dataset.Dataset) *GridResolver {
	return &GridResolver{
		assumptions: ds.Assumptions,
		zipTable:    ds.ZipTable,
		subregion:   ds.SubregionTable,
		zipCache:    make(map[string]float64),
	}
}

// Zfill5 zero-pads a zone code to 5 characters.
func Zfill5(s string) string {
	if len(s) >= 5 {
		return s
	}
	return strings.Repeat("0", 5-len(s)) + s
}

// Resolve returns the grid factor in kg CO2e/kWh for the given zip and
// country. It never fails: every tier miss falls through to the next, ending
// at the national anchor.
func (r *GridResolver) Resolve(zip, country string) float64 {
	rate := math.NaN()

	if z := strings.TrimSpace(zip); z != "" && r.zipTable != nil {
		rate = r.zipRate(Zfill5(z))
	}
	if !usableRate(rate) && country == "USA" && r.subregion != nil {
		rate = r.subregionMedian()
	}
	if usableRate(rate) {
		return rate * PoundsPerMWhToKgPerKwh
	}

	if cf, ok := r.assumptions.CountryGridDefaults[country]; ok {
		return cf
	}
	return r.assumptions.NationalGridAnchor.USMeanKgPerKwh
}

// usableRate reports whether a lb/MWh rate counts as found: finite and
// nonzero.
func usableRate(rate float64) bool {
	return !math.IsNaN(rate) && !math.IsInf(rate, 0) && rate != 0
}

// zipRate returns the first matching row's rate for the zero-padded zip,
// consulting and filling the memo. NaN marks both unparseable rates and
// outright misses.
func (r *GridResolver) zipRate(zip string) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rate, ok := r.zipCache[zip]; ok {
		return rate
	}
	rate := math.NaN()
	for _, row := range r.zipTable.Rows {
		if Zfill5(row.Key) == zip {
			rate = row.Rate
			break
		}
	}
	r.zipCache[zip] = rate
	return rate
}

// subregionMedian returns the median of all finite subregion rates: sort
// ascending and take index len/2, which for even lengths is the upper of the
// two middles. NaN when the table has no finite rates.
func (r *GridResolver) subregionMedian() float64 {
	vals := make([]float64, 0, len(r.subregion.Rows))
	for _, row := range r.subregion.Rows {
		if !math.IsNaN(row.Rate) && !math.IsInf(row.Rate, 0) {
			vals = append(vals, row.Rate)
		}
	}
	if len(vals) == 0 {
		return math.NaN()
	}
	sort.Float64s(vals)
	return vals[len(vals)/2]
}
