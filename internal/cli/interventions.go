package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/icugreen/icucarbon/internal/dataset"
	"github.com/icugreen/icucarbon/internal/engine"
)

// NewInterventionsCmd creates the "interventions" subcommand, which lists the
// loaded catalog grouped the way the UI presents it, or summarizes the
// assumptions the model runs on.
func NewInterventionsCmd() *cobra.Command {
	var showAssumptions bool

	cmd := &cobra.Command{
		Use:   "interventions",
		Short: "List the intervention catalog and model assumptions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := dataset.Load(cmd.Context(), appCfg.DataDir)
			if err != nil {
				return err
			}
			if showAssumptions {
				renderAssumptions(cmd.OutOrStdout(), ds)
				return nil
			}
			renderCatalog(cmd.OutOrStdout(), ds.Catalog)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showAssumptions, "assumptions", false, "Show the model assumptions instead of the catalog")
	return cmd
}

func renderCatalog(w io.Writer, cat *dataset.Catalog) {
	for _, g := range cat.Groups {
		var entries []*dataset.Intervention
		for i := range cat.Interventions {
			if cat.Interventions[i].Group == g.ID {
				entries = append(entries, &cat.Interventions[i])
			}
		}
		if len(entries) == 0 {
			continue
		}

		fmt.Fprintf(w, "%s %s\n", g.Icon, g.Label)
		for _, it := range entries {
			fmt.Fprintf(w, "  %-28s %-7s", it.ID, it.Type)
			if it.Type == "slider" {
				fmt.Fprintf(w, " [%g..%g %s]", it.Range.Min, it.Range.Max, it.Range.Unit)
			}
			if it.ImpactCategory != "" {
				fmt.Fprintf(w, " -> %s", it.ImpactCategory)
			}
			if it.BaselineControl != nil {
				fmt.Fprint(w, " (baseline practice)")
			}
			fmt.Fprintln(w)
			if it.FormulaNote != "" {
				fmt.Fprintf(w, "      %s\n", it.FormulaNote)
			}
		}
	}

	if cat.Skipped > 0 {
		fmt.Fprintf(w, "\n%d invalid entries were skipped at load.\n", cat.Skipped)
	}
}

func renderAssumptions(w io.Writer, ds *dataset.Dataset) {
	a := ds.Assumptions
	fmt.Fprintf(w, "Baseline intensity: %.1f kg CO2e/patient-day (range %.0f-%.0f)\n",
		a.BaselineIntensity.KgCO2ePerPatientDay,
		a.BaselineIntensity.RangeLitMin,
		a.BaselineIntensity.RangeLitMax)
	fmt.Fprintf(w, "Category shares:    energy %.0f%%, procurement %.0f%%, pharma %.0f%%, gases %.0f%%, waste %.0f%%, water/other %.0f%%\n",
		a.CategoryShares.EnergyHvac*100,
		a.CategoryShares.Procurement*100,
		a.CategoryShares.Pharma*100,
		a.CategoryShares.MedicalGases*100,
		a.CategoryShares.Waste*100,
		a.CategoryShares.WaterOther*100)

	resolver := engine.NewGridResolver(ds)
	in := engine.DefaultInputs()
	fmt.Fprintf(w, "Grid factor:        %.3f kg/kWh (default location)\n", resolver.Resolve(in.Zip, in.Country))
	fmt.Fprintf(w, "Reference grid:     %.3f kg/kWh\n", a.EnergyModule.ReferenceGridFactorKgPerKwh)
	fmt.Fprintf(w, "Lighting coeff:     %.3f kWh per bed-hour\n", a.EnergyModule.Lighting.KwhPerBedHour)
	fmt.Fprintf(w, "CRRT coeff:         %.1f kg CO2e per hour\n", a.CRRT.KgCO2ePerHour)
	fmt.Fprintf(w, "GWP100:             N2O %.0f, Desflurane %.0f, Sevoflurane %.0f, Isoflurane %.0f\n",
		a.MedicalGases.GWPs100.N2O,
		a.MedicalGases.GWPs100.Desflurane,
		a.MedicalGases.GWPs100.Sevoflurane,
		a.MedicalGases.GWPs100.Isoflurane)
}
