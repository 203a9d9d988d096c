// Package config loads the icucarbon application configuration. Settings come
// from a YAML file (default ~/.icucarbon/config.yaml), overridden by
// ICUCARBON_* environment variables, overridden in turn by CLI flags at the
// cli layer.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`

	// DataDir is the directory holding assumptions.json, interventions.json
	// and the grid rate CSVs.
	DataDir string `yaml:"data_dir"`
}

// Default returns the built-in configuration used when no file exists.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		DataDir: "data",
	}
}

// DefaultPath returns the default config file location under the user's home
// directory, or "" when the home directory cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".icucarbon", "config.yaml")
}

// Load reads configuration from path, falling back to defaults when the file
// does not exist. A malformed file is an error; a missing one is not.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Missing config file is fine, defaults apply.
		case err != nil:
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ICUCARBON_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ICUCARBON_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("ICUCARBON_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
	if v := os.Getenv("ICUCARBON_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
}
