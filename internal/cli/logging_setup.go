package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/icugreen/icucarbon/internal/config"
	"github.com/icugreen/icucarbon/internal/logging"
)

// logResultHolder keeps the log file handle for PersistentPostRunE cleanup.
type logResultHolder struct {
	result *logging.Result
}

func (h logResultHolder) Close() error {
	if h.result == nil {
		return nil
	}
	return h.result.Close()
}

// setupLogging configures logging from the config file and CLI flags, stores
// the package-level logger, and attaches the logger to the command context so
// downstream packages can recover it with logging.FromContext.
func setupLogging(cmd *cobra.Command, cfg *config.Config) logResultHolder {
	loggingCfg := logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	}

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = "console"
		loggingCfg.File = ""
	}

	result := logging.New(loggingCfg)
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.FallbackUsed {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(),
			"Warning: could not open log file %s, logging to console only\n", cfg.Logging.File)
	}

	ctx := result.Logger.WithContext(cmd.Context())
	cmd.SetContext(ctx)

	logger.Debug().Str("command", cmd.Name()).Msg("command started")
	return logResultHolder{result: &result}
}
