package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/icugreen/icucarbon/internal/dataset"
	"github.com/icugreen/icucarbon/internal/engine"
	"github.com/icugreen/icucarbon/internal/equiv"
	"github.com/icugreen/icucarbon/internal/export"
	"github.com/icugreen/icucarbon/internal/share"
)

// EstimateParams holds the flag values for the estimate command. Exported for
// testing.
type EstimateParams struct {
	Beds      int
	Occupancy float64
	Zip       string
	Country   string
	ICUType   string
	Climate   float64

	Practices []string // id=VALUE, id=on, id=off
	Enable    []string // id (binary) or id=VALUE (slider)

	FromShare  string
	PrintShare bool
	Output     string
}

// NewEstimateCmd creates the "estimate" subcommand: one full recompute from
// flags, rendered as a table, JSON, or CSV.
func NewEstimateCmd() *cobra.Command {
	params := EstimateParams{
		Beds:      20,
		Occupancy: 0.85,
		Country:   "USA",
		ICUType:   "Med/Surg",
		Climate:   1.0,
	}

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Compute baseline and post-intervention emissions",
		Long: `Compute annual baseline emissions for the facility described by the flags,
apply the selected interventions, and print baseline, current, and savings
figures.

Baseline practices describe what the unit already does today:
  --practice lights_night_dimming=8     practice in place, value 8
  --practice crrt_stewardship=off       practice explicitly not in use
                                        (disables the paired intervention)

Interventions are the proposed changes:
  --enable eliminate_desflurane         binary intervention on
  --enable hvac_setback=6               slider intervention at 6`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEstimate(cmd, params)
		},
	}

	addScenarioFlags(cmd, &params)
	cmd.Flags().BoolVar(&params.PrintShare, "share", false, "Print the shareable state string for these inputs")
	cmd.Flags().StringVar(&params.Output, "output", "table", "Output format: table, json, csv")

	return cmd
}

// addScenarioFlags registers the facility and scenario flags shared by the
// estimate and export commands.
func addScenarioFlags(cmd *cobra.Command, params *EstimateParams) {
	cmd.Flags().IntVar(&params.Beds, "beds", params.Beds, "Number of ICU beds")
	cmd.Flags().Float64Var(&params.Occupancy, "occupancy", params.Occupancy, "Average occupancy as a fraction (0,1]")
	cmd.Flags().StringVar(&params.Zip, "zip", "", "5-digit ZIP code for grid lookup")
	cmd.Flags().StringVar(&params.Country, "country", params.Country, "Country for grid defaults")
	cmd.Flags().StringVar(&params.ICUType, "icu-type", params.ICUType, "ICU type (descriptive only)")
	cmd.Flags().Float64Var(&params.Climate, "climate", params.Climate, "Climate adjustment multiplier")
	cmd.Flags().StringArrayVar(&params.Practices, "practice", nil, "Baseline practice state, repeatable: id=VALUE | id=on | id=off")
	cmd.Flags().StringArrayVar(&params.Enable, "enable", nil, "Enable an intervention, repeatable: id | id=VALUE")
	cmd.Flags().StringVar(&params.FromShare, "from-share", "", "Load facility inputs from a shared state string")
}

// computeSnapshot loads the dataset and runs one full recompute for the given
// scenario flags. Shared by the estimate and export commands.
func computeSnapshot(cmd *cobra.Command, params EstimateParams) (engine.Snapshot, *dataset.Dataset, error) {
	ds, err := dataset.Load(cmd.Context(), appCfg.DataDir)
	if err != nil {
		return engine.Snapshot{}, nil, err
	}

	calc := engine.NewCalculator(ds, logger)

	inputs := engine.Inputs{
		Beds:        params.Beds,
		Occupancy:   params.Occupancy,
		Zip:         params.Zip,
		Country:     params.Country,
		ICUType:     params.ICUType,
		ClimateMult: params.Climate,
	}
	if params.FromShare != "" {
		inputs, err = share.Decode(params.FromShare)
		if err != nil {
			return engine.Snapshot{}, nil, err
		}
	}
	calc.SetInputs(inputs)

	if err := applyPracticeFlags(calc, ds, params.Practices); err != nil {
		return engine.Snapshot{}, nil, err
	}
	if err := applyEnableFlags(calc, ds, params.Enable); err != nil {
		return engine.Snapshot{}, nil, err
	}

	return calc.Recalculate(), ds, nil
}

func runEstimate(cmd *cobra.Command, params EstimateParams) error {
	snap, ds, err := computeSnapshot(cmd, params)
	if err != nil {
		return err
	}

	if params.PrintShare {
		fmt.Fprintln(cmd.OutOrStdout(), share.Encode(snap.Inputs))
	}

	switch params.Output {
	case "json":
		return export.WriteJSON(cmd.OutOrStdout(), snap)
	case "csv":
		return export.WriteCSV(cmd.OutOrStdout(), snap)
	case "table":
		renderTable(cmd.OutOrStdout(), snap, ds)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want table, json, or csv)", params.Output)
	}
}

// applyPracticeFlags parses repeated --practice flags. "off" marks the
// practice explicitly not in use, which also locks out the paired
// intervention.
func applyPracticeFlags(calc *engine.Calculator, ds *dataset.Dataset, flags []string) error {
	for _, f := range flags {
		id, raw, found := strings.Cut(f, "=")
		if id == "" {
			return fmt.Errorf("invalid --practice %q: want id=VALUE, id=on, or id=off", f)
		}
		if _, ok := ds.Catalog.Intervention(id); !ok {
			return fmt.Errorf("unknown practice id %q", id)
		}
		switch {
		case !found, strings.EqualFold(raw, "on"):
			calc.SetPractice(id, engine.PracticeState{Enabled: true})
		case strings.EqualFold(raw, "off"):
			calc.SetPractice(id, engine.PracticeState{Enabled: false})
		default:
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return fmt.Errorf("invalid --practice value %q: %w", f, err)
			}
			calc.SetPractice(id, engine.PracticeState{Enabled: true, Value: v})
		}
	}
	return nil
}

// applyEnableFlags parses repeated --enable flags into live controls. A bare
// id switches a binary intervention on; id=VALUE positions a slider.
func applyEnableFlags(calc *engine.Calculator, ds *dataset.Dataset, flags []string) error {
	for _, f := range flags {
		id, raw, found := strings.Cut(f, "=")
		if _, ok := ds.Catalog.Intervention(id); !ok {
			return fmt.Errorf("unknown intervention id %q", id)
		}
		if !found {
			calc.SetControl(id, engine.Control{Enabled: true, Value: 1})
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid --enable value %q: %w", f, err)
		}
		calc.SetControl(id, engine.Control{Enabled: v != 0, Value: v})
	}
	return nil
}

func renderTable(w io.Writer, snap engine.Snapshot, ds *dataset.Dataset) {
	fmt.Fprintf(w, "Patient-days/year: %s\n", equiv.FormatFloat(snap.PatientDays, 0))
	fmt.Fprintf(w, "Grid factor:       %.4f kg CO2e/kWh\n", snap.GridFactor)
	fmt.Fprintf(w, "Baseline:          %s\n", equiv.FormatTons(snap.Baseline.AnnualT))
	fmt.Fprintf(w, "Current:           %s\n", equiv.FormatTons(snap.Current.AnnualT))
	fmt.Fprintf(w, "Savings:           %s\n", equiv.FormatTons(snap.SavingsT()))
	if snap.Baseline.AnnualT > 0 {
		below := 100 - snap.Current.AnnualT/snap.Baseline.AnnualT*100
		fmt.Fprintf(w, "                   %s below baseline\n", equiv.FormatPercent(below))
	}

	fmt.Fprintln(w, "\nBaseline by category (tons/year):")
	for _, cat := range engine.CategoryOrder {
		fmt.Fprintf(w, "  %-14s %10s\n", cat, equiv.FormatFloat(snap.Baseline.CategoriesT[cat], 1))
	}

	if len(snap.PerIntervention) > 0 {
		fmt.Fprintln(w, "\nInterventions (Δ tons/year):")
		for _, p := range snap.PerIntervention {
			marker := " "
			if p.Enabled {
				marker = "*"
			}
			fmt.Fprintf(w, "  %s %-28s %10s\n", marker, p.ID, equiv.FormatFloat(p.DeltaT, 1))
		}
	}

	if eq := equiv.ForSavings(snap.SavingsT(), ds.Catalog.EquivalencyCoeffs); !eq.IsEmpty {
		fmt.Fprintf(w, "\n%s\n", eq.DisplayText)
	}
}
