package cli

import (
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/icugreen/icucarbon/internal/dataset"
	"github.com/icugreen/icucarbon/internal/engine"
	"github.com/icugreen/icucarbon/internal/tui"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewTUICmd creates the "tui" subcommand, the interactive calculator.
func NewTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive emissions calculator",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(os.Stdout) {
				return errors.New("tui requires an interactive terminal; use 'estimate' for scripted output")
			}

			ds, err := dataset.Load(cmd.Context(), appCfg.DataDir)
			if err != nil {
				return err
			}

			calc := engine.NewCalculator(ds, logger)
			model := tui.New(calc, ds)

			program := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				logger.Error().Err(err).Msg("tui exited with error")
				return err
			}
			return nil
		},
	}
}
