// Package share serializes the facility-input scalars as a flat key-value
// set, the only state the tool shares across sessions. The encoding is a URL
// query string so links produced by the original web calculator keep working.
package share

import (
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/icugreen/icucarbon/internal/engine"
)

// Keys in the shared state. Occupancy travels as a rounded percentage.
const (
	keyBeds    = "beds"
	keyOcc     = "occ"
	keyZip     = "zip"
	keyCountry = "country"
	keyClimate = "clim"
)

// Encode renders the inputs as a query string. Zip is omitted when empty.
func Encode(in engine.Inputs) string {
	v := url.Values{}
	v.Set(keyBeds, strconv.Itoa(in.Beds))
	v.Set(keyOcc, strconv.Itoa(int(math.Round(in.Occupancy*100))))
	if in.Zip != "" {
		v.Set(keyZip, in.Zip)
	}
	v.Set(keyCountry, in.Country)
	v.Set(keyClimate, strconv.FormatFloat(in.ClimateMult, 'f', -1, 64))
	return v.Encode()
}

// Decode parses a query string into inputs, starting from the facility
// defaults so absent or malformed values keep their default rather than
// zeroing out.
func Decode(s string) (engine.Inputs, error) {
	in := engine.DefaultInputs()

	v, err := url.ParseQuery(s)
	if err != nil {
		return in, fmt.Errorf("parsing shared state: %w", err)
	}

	if raw := v.Get(keyBeds); raw != "" {
		if beds, perr := strconv.Atoi(raw); perr == nil && beds > 0 {
			in.Beds = beds
		}
	}
	if raw := v.Get(keyOcc); raw != "" {
		if occ, perr := strconv.ParseFloat(raw, 64); perr == nil && occ > 0 {
			in.Occupancy = occ / 100
		}
	}
	if raw := v.Get(keyZip); raw != "" {
		in.Zip = raw
	}
	if raw := v.Get(keyCountry); raw != "" {
		in.Country = raw
	}
	if raw := v.Get(keyClimate); raw != "" {
		if clim, perr := strconv.ParseFloat(raw, 64); perr == nil && clim != 0 {
			in.ClimateMult = clim
		}
	}
	return in, nil
}
