package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// OtherGroupID is the synthesized group that absorbs interventions with a
// missing or unknown group reference.
const OtherGroupID = "other"

// Group is a display grouping for catalog entries.
type Group struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// Range bounds a slider control.
type Range struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
	Unit string  `json:"unit"`
}

// BaselineControl describes the real-world-practice control paired with an
// intervention. Its presence makes the intervention also appear in the
// baseline practices panel.
type BaselineControl struct {
	Label          string   `json:"label"`
	Type           string   `json:"type"`
	DefaultEnabled bool     `json:"default_enabled"`
	DefaultValue   float64  `json:"default_value"`
	Min            *float64 `json:"min,omitempty"`
	Max            *float64 `json:"max,omitempty"`
	Step           *float64 `json:"step,omitempty"`
	Unit           string   `json:"unit,omitempty"`
}

// Reference is a literature link shown with an intervention.
type Reference struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// UI carries presentation-only fields for an intervention.
type UI struct {
	Icon            string      `json:"icon"`
	Summary         string      `json:"summary"`
	DetailsMarkdown string      `json:"details_markdown"`
	References      []Reference `json:"references"`
}

// Intervention is a normalized catalog entry. Calculation is nil when the
// entry has no (or an unknown) calculation method; such entries always
// contribute a zero delta.
type Intervention struct {
	ID              string
	Title           string
	Type            string // "binary" or "slider"
	Group           string
	ImpactCategory  string
	Range           Range
	BaselineControl *BaselineControl
	Calculation     Calculation
	FormulaNote     string
	UI              UI
}

// EquivalencyCoeffs converts saved tons into relatable quantities.
type EquivalencyCoeffs struct {
	CarsPerTonCO2e              float64 `json:"cars_per_tCO2e"`
	AcresForestPerTonCO2e       float64 `json:"acres_forest_per_tCO2e"`
	TreeSeedlings10YrPerTonCO2e float64 `json:"tree_seedlings_10yr_per_tCO2e"`
}

// Catalog is the normalized intervention catalog. Interventions preserve file
// order; downstream per-intervention output follows it.
type Catalog struct {
	Groups            []Group
	Interventions     []Intervention
	EquivalencyCoeffs EquivalencyCoeffs
	Skipped           int
}

// GroupByID returns the group with the given id, if present.
func (c *Catalog) GroupByID(id string) (Group, bool) {
	for _, g := range c.Groups {
		if g.ID == id {
			return g, true
		}
	}
	return Group{}, false
}

// Intervention returns the catalog entry with the given id, if present.
func (c *Catalog) Intervention(id string) (*Intervention, bool) {
	for i := range c.Interventions {
		if c.Interventions[i].ID == id {
			return &c.Interventions[i], true
		}
	}
	return nil, false
}

type rawIntervention struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Type            string           `json:"type"`
	Group           string           `json:"group"`
	ImpactCategory  string           `json:"impact_category"`
	Range           *Range           `json:"range"`
	BaselineControl *BaselineControl `json:"baseline_control"`
	Calculation     *rawCalculation  `json:"calculation"`
	UI              UI               `json:"ui"`
}

type rawCatalog struct {
	Groups            []Group            `json:"groups"`
	Interventions     []rawIntervention  `json:"interventions"`
	EquivalencyCoeffs *EquivalencyCoeffs `json:"equivalency_coeffs"`
}

// ParseCatalog decodes and normalizes an interventions document:
//
//   - entries missing id, title, or type are skipped (counted in Skipped),
//   - sliders get a {0,100,1} range when none is declared,
//   - entries with a missing or unknown group land in a synthesized "other"
//     group, appended on demand,
//   - an empty groups list still yields the "other" group,
//   - absent equivalency coefficients default to zero.
func ParseCatalog(data []byte, logger zerolog.Logger) (*Catalog, error) {
	var raw rawCatalog
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing interventions: %w", err)
	}

	out := &Catalog{Groups: raw.Groups}
	if raw.EquivalencyCoeffs != nil {
		out.EquivalencyCoeffs = *raw.EquivalencyCoeffs
	}

	known := make(map[string]bool, len(out.Groups))
	for _, g := range out.Groups {
		known[g.ID] = true
	}
	ensureOther := func() {
		if !known[OtherGroupID] {
			out.Groups = append(out.Groups, Group{ID: OtherGroupID, Label: "Other", Icon: "📦"})
			known[OtherGroupID] = true
		}
	}

	for _, r := range raw.Interventions {
		if r.ID == "" || r.Title == "" || r.Type == "" {
			out.Skipped++
			logger.Error().
				Str("component", "dataset").
				Str("id", r.ID).
				Str("title", r.Title).
				Msg("invalid intervention skipped")
			continue
		}

		it := Intervention{
			ID:              r.ID,
			Title:           r.Title,
			Type:            r.Type,
			Group:           r.Group,
			ImpactCategory:  r.ImpactCategory,
			BaselineControl: r.BaselineControl,
			UI:              r.UI,
		}
		if r.Range != nil {
			it.Range = *r.Range
		} else if r.Type == "slider" {
			it.Range = Range{Min: 0, Max: 100, Step: 1}
		}
		if r.Calculation != nil {
			it.Calculation = r.Calculation.decode()
			it.FormulaNote = r.Calculation.FormulaNote
			if it.Calculation == nil && r.Calculation.Method != "" {
				logger.Warn().
					Str("component", "dataset").
					Str("id", r.ID).
					Str("method", r.Calculation.Method).
					Msg("unknown calculation method, entry will contribute zero delta")
			}
		}
		if it.Group == "" || !known[it.Group] {
			ensureOther()
			it.Group = OtherGroupID
		}
		out.Interventions = append(out.Interventions, it)
	}

	if len(out.Groups) == 0 {
		ensureOther()
	}
	return out, nil
}

// LoadCatalog reads and normalizes the interventions file at path.
func LoadCatalog(path string, logger zerolog.Logger) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading interventions: %w", err)
	}
	return ParseCatalog(data, logger)
}
