// =============================================================================
// SDMX Catalog Flattener - Configuration Module
// =============================================================================
//
// This module loads the optional YAML configuration. Every setting has a
// default, so the tool runs without any configuration file and then reads
// and writes the fixed default paths.
//
// CONFIGURATION FILE (config.yaml):
//   input_path:      node_modules/TerriaJS/build/wwwroot/test/init/sdmx-abs.json
//   output_path:     datasources/sdmx-abs.csv
//   catalog_index:   0
//   output_format:   csv
//   xlsx_sheet:      sdmx-abs
//   use_crlf:        false
//   name_split:      compat
//   backup_existing: false
//   log_level:       info
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/sdmx-catalog-flattener/internal/flattener"
)

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultInputPath is the catalog document shipped with the web client build.
	DefaultInputPath = "node_modules/TerriaJS/build/wwwroot/test/init/sdmx-abs.json"

	// DefaultOutputPath is where the flattened catalog is written.
	DefaultOutputPath = "datasources/sdmx-abs.csv"

	// DefaultSheet is the XLSX worksheet name.
	DefaultSheet = "sdmx-abs"
)

// Output formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// PATHS
	// =========================================================================

	// InputPath is the relaxed JSON catalog document to read.
	InputPath string `yaml:"input_path"`

	// OutputPath is the file the flattened rows are written to.
	OutputPath string `yaml:"output_path"`

	// =========================================================================
	// CATALOG
	// =========================================================================

	// CatalogIndex selects the element of the top-level "catalog" array
	// whose items are the groups.
	// Default: 0
	CatalogIndex int `yaml:"catalog_index"`

	// NameSplit selects how item names are split into name and id.
	// Valid values: "compat", "separator"
	// Default: "compat"
	NameSplit string `yaml:"name_split"`

	// =========================================================================
	// OUTPUT
	// =========================================================================

	// OutputFormat is "csv" or "xlsx".
	// Default: "csv"
	OutputFormat string `yaml:"output_format"`

	// XLSXSheet is the worksheet name for xlsx output.
	XLSXSheet string `yaml:"xlsx_sheet"`

	// UseCRLF ends CSV records with "\r\n".
	UseCRLF bool `yaml:"use_crlf"`

	// BackupExisting keeps a timestamped copy of the previous output.
	BackupExisting bool `yaml:"backup_existing"`

	// =========================================================================
	// LOGGING
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// Default returns the configuration used when no file is present.
func Default() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}

// LoadConfig loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//   - explicit: Whether the user asked for this file. A missing file is only
//     an error when it was asked for; otherwise the defaults are used.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file cannot be read, parsed or validated.
func LoadConfig(configPath string, explicit bool) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(config *Config) {
	if config.InputPath == "" {
		config.InputPath = DefaultInputPath
	}
	if config.OutputPath == "" {
		config.OutputPath = DefaultOutputPath
	}
	if config.NameSplit == "" {
		config.NameSplit = string(flattener.SplitCompat)
	}
	if config.OutputFormat == "" {
		config.OutputFormat = FormatCSV
	}
	if config.XLSXSheet == "" {
		config.XLSXSheet = DefaultSheet
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
}

// Validate checks the enumerated settings. It is called again after
// command line flags override file values.
func (c *Config) Validate() error {
	if c.CatalogIndex < 0 {
		return fmt.Errorf("catalog_index must not be negative, got %d", c.CatalogIndex)
	}

	if _, err := flattener.ParseNameSplit(c.NameSplit); err != nil {
		return err
	}

	switch c.OutputFormat {
	case FormatCSV, FormatXLSX:
	default:
		return fmt.Errorf("unknown output_format %q (valid: %s, %s)", c.OutputFormat, FormatCSV, FormatXLSX)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}

	return nil
}
