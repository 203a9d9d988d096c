package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/icugreen/icucarbon/internal/dataset"
)

func TestGridResolver_ZipLookup(t *testing.T) {
	ds := testDataset(rateTable(
		dataset.RateRow{Key: "02144", Rate: 500},
		dataset.RateRow{Key: "02144", Rate: 900}, // duplicate: first match wins
	), nil)
	r := NewGridResolver(ds)

	got := r.Resolve("02144", "USA")
	assert.InDelta(t, 0.226796, got, 1e-9, "500 lb/MWh × 0.453592/1000")
}

func TestGridResolver_ZeroPadding(t *testing.T) {
	ds := testDataset(rateTable(dataset.RateRow{Key: "2144", Rate: 500}), nil)
	r := NewGridResolver(ds)

	// Both the input and the table key are padded before comparison.
	assert.InDelta(t, 0.226796, r.Resolve("2144", "USA"), 1e-9)
	assert.InDelta(t, 0.226796, r.Resolve("02144", "USA"), 1e-9)
}

func TestGridResolver_SubregionMedian(t *testing.T) {
	sub := rateTable(
		dataset.RateRow{Key: "A", Rate: 300},
		dataset.RateRow{Key: "B", Rate: 100},
		dataset.RateRow{Key: "C", Rate: 200},
		dataset.RateRow{Key: "D", Rate: nan()}, // non-finite rates are dropped
	)
	r := NewGridResolver(testDataset(nil, sub))

	got := r.Resolve("", "USA")
	assert.InDelta(t, 0.0907184, got, 1e-9, "median rate 200 lb/MWh")
}

func TestGridResolver_SubregionMedianEvenLength(t *testing.T) {
	sub := rateTable(
		dataset.RateRow{Rate: 100},
		dataset.RateRow{Rate: 200},
		dataset.RateRow{Rate: 300},
		dataset.RateRow{Rate: 400},
	)
	r := NewGridResolver(testDataset(nil, sub))

	// Index len/2 = 2 after ascending sort, i.e. 300.
	assert.InDelta(t, 300*PoundsPerMWhToKgPerKwh, r.Resolve("", "USA"), 1e-12)
}

func TestGridResolver_SubregionOnlyForUSA(t *testing.T) {
	sub := rateTable(dataset.RateRow{Rate: 200})
	r := NewGridResolver(testDataset(nil, sub))

	assert.InDelta(t, 0.056, r.Resolve("", "France"), 1e-12, "non-USA skips the subregion tier")
}

func TestGridResolver_ZeroRateFallsThrough(t *testing.T) {
	// A resolved rate of exactly 0 is deliberately treated as "not found".
	ds := testDataset(rateTable(dataset.RateRow{Key: "02144", Rate: 0}), nil)
	r := NewGridResolver(ds)

	assert.InDelta(t, 0.42, r.Resolve("02144", "USA"), 1e-12, "zero rate falls through to country default")
}

func TestGridResolver_CountryDefaultAndAnchor(t *testing.T) {
	r := NewGridResolver(testDataset(nil, nil))

	assert.InDelta(t, 0.42, r.Resolve("", "USA"), 1e-12)
	assert.InDelta(t, 0.056, r.Resolve("", "France"), 1e-12)
	assert.InDelta(t, 0.3755, r.Resolve("", "Atlantis"), 1e-12, "unknown country falls to the national anchor")
}

func TestGridResolver_CachesMisses(t *testing.T) {
	ds := testDataset(rateTable(dataset.RateRow{Key: "02144", Rate: 500}), nil)
	r := NewGridResolver(ds)

	assert.InDelta(t, 0.42, r.Resolve("99999", "USA"), 1e-12)
	// The miss is memoized; mutating the table after the fact must not
	// change the answer (tables are immutable by contract, this guards the
	// cache itself).
	ds.ZipTable.Rows = append(ds.ZipTable.Rows, dataset.RateRow{Key: "99999", Rate: 100})
	assert.InDelta(t, 0.42, r.Resolve("99999", "USA"), 1e-12)
}

func TestZfill5(t *testing.T) {
	assert.Equal(t, "02144", Zfill5("2144"))
	assert.Equal(t, "00007", Zfill5("7"))
	assert.Equal(t, "02144", Zfill5("02144"))
	assert.Equal(t, "123456", Zfill5("123456"))
}
