// Package cli wires the icucarbon command tree: estimate, export,
// interventions, and the interactive tui, over a shared config and logging
// setup.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/icugreen/icucarbon/internal/config"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// appCfg is the loaded application configuration, set in PersistentPreRunE.
var appCfg *config.Config //nolint:gochecknoglobals // Set once at startup

// NewRootCmd creates the root Cobra command for the icucarbon CLI.
func NewRootCmd(ver string) *cobra.Command {
	var logResult logResultHolder

	cmd := &cobra.Command{
		Use:     "icucarbon",
		Short:   "ICU greenhouse-gas estimation calculator",
		Long:    "icucarbon: estimate ICU baseline emissions and what-if intervention savings",
		Version: ver,
		Example: `  # Baseline for a 20-bed unit in ZIP 02144
  icucarbon estimate --beds 20 --occupancy 0.85 --zip 02144

  # Toggle interventions and export JSON
  icucarbon estimate --enable eliminate_desflurane --enable hvac_setback=6 --output json

  # Interactive mode
  icucarbon tui`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			if cfgPath == "" {
				cfgPath = config.DefaultPath()
			}
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if dataDir, _ := cmd.Flags().GetString("data-dir"); dataDir != "" {
				cfg.DataDir = dataDir
			}
			appCfg = cfg

			logResult = setupLogging(cmd, cfg)
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return logResult.Close()
		},
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default ~/.icucarbon/config.yaml)")
	cmd.PersistentFlags().String("data-dir", "", "Directory with assumptions, interventions and grid CSVs")
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging to the console")

	cmd.AddCommand(NewEstimateCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewInterventionsCmd())
	cmd.AddCommand(NewTUICmd())

	return cmd
}
