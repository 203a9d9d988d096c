// Package export renders a derived-state snapshot as CSV or JSON for files
// and pipes. Exports read only the immutable snapshot, never the live
// calculator state.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/icugreen/icucarbon/internal/engine"
)

// Document is the JSON export payload. RunID is a fresh ULID so downstream
// tooling can dedupe repeated exports of the same scenario.
type Document struct {
	RunID       string          `json:"run_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Snapshot    engine.Snapshot `json:"results"`
}

// NewDocument wraps a snapshot with export metadata.
func NewDocument(snap engine.Snapshot) Document {
	return Document{
		RunID:       ulid.Make().String(),
		GeneratedAt: time.Now().UTC(),
		Snapshot:    snap,
	}
}

// WriteJSON writes the snapshot as an indented JSON document.
func WriteJSON(w io.Writer, snap engine.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(snap)); err != nil {
		return fmt.Errorf("encoding JSON export: %w", err)
	}
	return nil
}

// WriteCSV writes the snapshot in the three-section layout the original tool
// exported: headline metrics, baseline category breakdown, then one row per
// intervention.
//
// Category rows follow engine.CategoryOrder. The category tons may not sum
// exactly to the annual total when an enabled intervention lacks an
// impact_category; the total is authoritative.
func WriteCSV(w io.Writer, snap engine.Snapshot) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"Metric", "Value"},
		{"Beds", strconv.Itoa(snap.Inputs.Beds)},
		{"Occupancy", formatFloat(snap.Inputs.Occupancy, 2)},
		{"Patient-days/year", formatFloat(snap.PatientDays, 0)},
		{"Grid (kg/kWh)", formatFloat(snap.GridFactor, 4)},
		{"Baseline annual tons", formatFloat(snap.Baseline.AnnualT, 2)},
		{"Current annual tons", formatFloat(snap.Current.AnnualT, 2)},
		{"Savings tons", formatFloat(snap.SavingsT(), 2)},
		{"----", "----"},
		{"Category", "tons/year (baseline)"},
	}
	for _, cat := range engine.CategoryOrder {
		rows = append(rows, []string{string(cat), formatFloat(snap.Baseline.CategoriesT[cat], 2)})
	}
	rows = append(rows,
		[]string{"----", "----"},
		[]string{"Intervention", "Enabled", "Value", "Delta_tons_per_year"},
	)
	for _, p := range snap.PerIntervention {
		rows = append(rows, []string{
			p.Title,
			strconv.FormatBool(p.Enabled),
			formatFloat(p.Value, 2),
			formatFloat(p.DeltaT, 2),
		})
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing CSV export: %w", err)
	}
	return nil
}

func formatFloat(f float64, precision int) string {
	return strconv.FormatFloat(f, 'f', precision, 64)
}
