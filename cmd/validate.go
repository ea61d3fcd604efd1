// =============================================================================
// SDMX Catalog Flattener - Validate Command
// =============================================================================
//
// This file defines the 'validate' command. It loads the configuration and
// the catalog document and flattens every item, but writes nothing. A
// non-zero exit status means the flatten command would fail too.
//
// COMMAND USAGE:
//   sdmx-flatten validate [--input path]
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/sdmx-catalog-flattener/internal/converter"
)

var validateInput string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration and catalog document without writing output",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("input") {
			cfg.InputPath = validateInput
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		result := converter.New(cfg, logger).Run(cmd.Context(), converter.RunOptions{DryRun: true})
		if result.Error != nil {
			return result.Error
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Catalog OK: %d group(s), %d item(s), %d row(s)\n",
			result.Stats.Groups, result.Stats.Items, result.Stats.Rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateInput, "input", "", "Catalog document to read")
}
