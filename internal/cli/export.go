package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/icugreen/icucarbon/internal/engine"
	"github.com/icugreen/icucarbon/internal/export"
)

// NewExportCmd creates the "export" subcommand: the same computation as
// estimate, written as a JSON document or CSV report to a file or stdout.
func NewExportCmd() *cobra.Command {
	params := EstimateParams{
		Beds:      20,
		Occupancy: 0.85,
		Country:   "USA",
		ICUType:   "Med/Surg",
		Climate:   1.0,
	}
	var format, outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export results as JSON or CSV",
		Example: `  icucarbon export --beds 20 --zip 02144 --format json --out results.json
  icucarbon export --enable eliminate_desflurane --format csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, _, err := computeSnapshot(cmd, params)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating export file: %w", err)
				}
				defer f.Close()
				w = f
			}
			if err := writeExport(w, format, snap); err != nil {
				return err
			}

			if outPath != "" {
				logger.Info().
					Str("operation", "export").
					Str("format", format).
					Str("path", outPath).
					Msg("results exported")
			}
			return nil
		},
	}

	addScenarioFlags(cmd, &params)
	cmd.Flags().StringVar(&format, "format", "json", "Export format: json or csv")
	cmd.Flags().StringVar(&outPath, "out", "", "Output file (default stdout)")

	return cmd
}

func writeExport(w io.Writer, format string, snap engine.Snapshot) error {
	switch format {
	case "json":
		return export.WriteJSON(w, snap)
	case "csv":
		return export.WriteCSV(w, snap)
	default:
		return fmt.Errorf("unknown export format %q (want json or csv)", format)
	}
}
