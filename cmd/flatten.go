// =============================================================================
// SDMX Catalog Flattener - Flatten Command
// =============================================================================
//
// This file defines the 'flatten' command, which runs the whole pipeline:
// load the catalog document, flatten every item into a row and write the
// rows to the output file.
//
// COMMAND USAGE:
//   sdmx-flatten flatten [flags]
//
// FLAGS:
//   --input       : Catalog document to read (overrides input_path)
//   --output      : File to write (overrides output_path)
//   --format      : csv or xlsx (overrides output_format)
//   --name-split  : compat or separator (overrides name_split)
//   --verify      : Read the output back and compare it with the rows
//   --dry-run     : Flatten without writing output
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/sdmx-catalog-flattener/internal/converter"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	inputPath    string
	outputPath   string
	outputFormat string
	nameSplit    string
	verifyOutput bool
	dryRun       bool
)

// =============================================================================
// FLATTEN COMMAND DEFINITION
// =============================================================================

var flattenCmd = &cobra.Command{
	Use:   "flatten",
	Short: "Flatten the catalog document into a CSV or XLSX file",
	Long: `The flatten command reads the catalog document, produces one row per item of
every group and writes the rows with a fixed header.

Nothing is written unless every item could be flattened. The output file is
replaced atomically, so a failed run leaves the previous output untouched.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runFlatten(cmd, converter.RunOptions{DryRun: dryRun, Verify: verifyOutput})
	},
}

func init() {
	rootCmd.AddCommand(flattenCmd)

	flattenCmd.Flags().StringVar(&inputPath, "input", "", "Catalog document to read")
	flattenCmd.Flags().StringVar(&outputPath, "output", "", "File to write the rows to")
	flattenCmd.Flags().StringVar(&outputFormat, "format", "", "Output format: csv or xlsx")
	flattenCmd.Flags().StringVar(&nameSplit, "name-split", "", "Item name split: compat or separator")
	flattenCmd.Flags().BoolVar(&verifyOutput, "verify", false, "Read the output back and compare it with the rows")
	flattenCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Flatten without writing output")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// applyOverrides copies the flags the user set onto the loaded configuration
// and validates the result.
func applyOverrides(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.InputPath = inputPath
	}
	if flags.Changed("output") {
		cfg.OutputPath = outputPath
	}
	if flags.Changed("format") {
		cfg.OutputFormat = outputFormat
	}
	if flags.Changed("name-split") {
		cfg.NameSplit = nameSplit
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// runFlatten runs the pipeline and prints a summary.
func runFlatten(cmd *cobra.Command, opts converter.RunOptions) error {
	if err := applyOverrides(cmd); err != nil {
		return err
	}

	result := converter.New(cfg, logger).Run(cmd.Context(), opts)
	if result.Error != nil {
		return result.Error
	}

	printSummary(cmd.OutOrStdout(), result)
	return nil
}

func printSummary(out io.Writer, result converter.Result) {
	fmt.Fprintln(out, "=== SDMX Catalog Flattener ===")
	fmt.Fprintf(out, "Input:           %s\n", result.InputFile)
	if result.OutputFile != "" {
		fmt.Fprintf(out, "Output:          %s\n", result.OutputFile)
	} else {
		fmt.Fprintln(out, "Output:          (dry run, nothing written)")
	}
	if result.BackupFile != "" {
		fmt.Fprintf(out, "Backup:          %s\n", result.BackupFile)
	}
	fmt.Fprintf(out, "Groups:          %d\n", result.Stats.Groups)
	fmt.Fprintf(out, "Rows:            %d\n", result.Stats.Rows)
	fmt.Fprintf(out, "LGA rows:        %d\n", result.Stats.LGARows)
	fmt.Fprintf(out, "State rows:      %d\n", result.Stats.StateRows)
	fmt.Fprintf(out, "Time elapsed:    %s\n", result.Stats.ProcessingTime)
}
