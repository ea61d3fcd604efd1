// =============================================================================
// SDMX Catalog Flattener - Converter Module
// =============================================================================
//
// This module runs the conversion pipeline for one catalog document.
//
// CONVERSION PIPELINE:
//   1. Load the catalog document and build the typed catalog
//   2. Flatten groups and items into rows
//   3. Back up the previous output (optional)
//   4. Write the output file atomically (CSV or XLSX)
//   5. Read the output back and compare it with the rows (optional)
//
// FAILURE MODEL:
//   The first error ends the run. Nothing is written unless every item was
//   flattened, and a failed write leaves the previous output in place.
//
// =============================================================================

package converter

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ginjaninja78/sdmx-catalog-flattener/internal/catalog"
	"github.com/ginjaninja78/sdmx-catalog-flattener/internal/config"
	"github.com/ginjaninja78/sdmx-catalog-flattener/internal/flattener"
	"github.com/ginjaninja78/sdmx-catalog-flattener/internal/sink"
	"github.com/ginjaninja78/sdmx-catalog-flattener/internal/types"
	"github.com/ginjaninja78/sdmx-catalog-flattener/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one run.
type Result struct {
	// RunID identifies the run in log output.
	RunID string

	// InputFile is the catalog document that was read.
	InputFile string

	// OutputFile is the written file. Empty on failure or in a dry run.
	OutputFile string

	// BackupFile is the copy of the previous output, if one was made.
	BackupFile string

	// Success indicates whether the run completed.
	Success bool

	// Error is the first error encountered. Nil on success.
	Error error

	// Rows are the flattened rows. Nil on failure.
	Rows []types.Row

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the run.
type ProcessingStats struct {
	// Groups is the number of groups in the catalog.
	Groups int

	// Items is the number of items over all groups.
	Items int

	// Rows is the number of rows produced (equal to Items on success).
	Rows int

	// LGARows is the number of rows flagged isLGA.
	LGARows int

	// StateRows is the number of rows flagged hasState.
	StateRows int

	// ProcessingTime is the time taken by the run.
	ProcessingTime time.Duration
}

// RunOptions are per-run switches set from the command line.
type RunOptions struct {
	// DryRun stops after flattening; nothing is written.
	DryRun bool

	// Verify reads the written output back and compares it with the rows.
	Verify bool
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter runs the pipeline with one configuration.
type Converter struct {
	config *config.Config
	logger *zap.Logger
	now    func() time.Time
}

// New creates a new Converter instance.
func New(cfg *config.Config, logger *zap.Logger) *Converter {
	return &Converter{
		config: cfg,
		logger: logger,
		now:    time.Now,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline. The context is checked between steps.
func (c *Converter) Run(ctx context.Context, opts RunOptions) Result {
	startTime := time.Now()
	result := Result{
		RunID:     uuid.New().String(),
		InputFile: c.config.InputPath,
	}
	logger := c.logger.With(zap.String("run_id", result.RunID))

	fail := func(err error) Result {
		result.Error = err
		result.Rows = nil
		result.Stats.ProcessingTime = time.Since(startTime)
		logger.Error("Run failed", zap.Error(err))
		return result
	}

	// =========================================================================
	// STEP 1: LOAD CATALOG
	// =========================================================================

	logger.Info("Loading catalog",
		zap.String("input", c.config.InputPath),
		zap.Int("catalog_index", c.config.CatalogIndex))

	cat, err := catalog.Load(c.config.InputPath, c.config.CatalogIndex)
	if err != nil {
		return fail(fmt.Errorf("failed to load catalog: %w", err))
	}

	result.Stats.Groups = len(cat.Groups)
	result.Stats.Items = cat.ItemCount()
	logger.Debug("Catalog loaded",
		zap.Int("groups", result.Stats.Groups),
		zap.Int("items", result.Stats.Items))

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	// =========================================================================
	// STEP 2: FLATTEN
	// =========================================================================

	split, err := flattener.ParseNameSplit(c.config.NameSplit)
	if err != nil {
		return fail(err)
	}

	rows, err := flattener.Flatten(cat, flattener.Options{NameSplit: split})
	if err != nil {
		return fail(fmt.Errorf("failed to flatten catalog: %w", err))
	}

	result.Rows = rows
	result.Stats.Rows = len(rows)
	for _, row := range rows {
		if row.IsLGA {
			result.Stats.LGARows++
		}
		if row.HasState {
			result.Stats.StateRows++
		}
	}
	logger.Debug("Catalog flattened", zap.Int("rows", len(rows)), zap.String("name_split", string(split)))

	if opts.DryRun {
		logger.Info("Dry run, skipping output", zap.Int("rows", len(rows)))
		return c.succeed(result, startTime)
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	// =========================================================================
	// STEP 3: BACKUP PREVIOUS OUTPUT
	// =========================================================================

	if c.config.BackupExisting {
		backup, err := utils.BackupExisting(c.config.OutputPath, c.now())
		if err != nil {
			return fail(err)
		}
		if backup != "" {
			result.BackupFile = backup
			logger.Info("Backed up previous output", zap.String("backup", backup))
		}
	}

	// =========================================================================
	// STEP 4: WRITE OUTPUT
	// =========================================================================

	if err := utils.WriteFileAtomic(c.config.OutputPath, c.writer(rows)); err != nil {
		return fail(fmt.Errorf("failed to write output: %w", err))
	}

	result.OutputFile = c.config.OutputPath
	logger.Info("Wrote output",
		zap.String("output", c.config.OutputPath),
		zap.String("format", c.config.OutputFormat),
		zap.Int("rows", len(rows)))

	// =========================================================================
	// STEP 5: VERIFY
	// =========================================================================

	if opts.Verify {
		if err := c.verify(rows); err != nil {
			return fail(fmt.Errorf("failed to verify output: %w", err))
		}
		logger.Info("Verified output", zap.String("output", c.config.OutputPath))
	}

	return c.succeed(result, startTime)
}

func (c *Converter) succeed(result Result, startTime time.Time) Result {
	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)
	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// writer returns the serializer for the configured output format.
func (c *Converter) writer(rows []types.Row) func(w io.Writer) error {
	switch c.config.OutputFormat {
	case config.FormatXLSX:
		return func(w io.Writer) error {
			return sink.WriteXLSX(w, rows, c.config.XLSXSheet)
		}
	default:
		return func(w io.Writer) error {
			return sink.WriteCSV(w, rows, sink.CSVOptions{UseCRLF: c.config.UseCRLF})
		}
	}
}

// verify reads the output file back and compares it with the rows.
func (c *Converter) verify(rows []types.Row) error {
	file, err := os.Open(c.config.OutputPath)
	if err != nil {
		return err
	}
	defer file.Close()

	var records [][]string
	switch c.config.OutputFormat {
	case config.FormatXLSX:
		records, err = sink.ReadXLSX(file, c.config.XLSXSheet)
	default:
		records, err = sink.ReadCSV(file)
	}
	if err != nil {
		return err
	}

	return sink.Verify(records, rows)
}
