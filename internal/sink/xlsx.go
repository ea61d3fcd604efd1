// =============================================================================
// SDMX Catalog Flattener - XLSX Sink
// =============================================================================
//
// This module writes the flattened rows into a single worksheet and reads
// them back for verification. It uses the same text records as the CSV
// writer, so both formats carry identical values.
//
// =============================================================================

package sink

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/sdmx-catalog-flattener/internal/types"
)

// DefaultSheet is the worksheet name used when none is configured.
const DefaultSheet = "sdmx-abs"

// excelize creates new workbooks with this sheet.
const initialSheet = "Sheet1"

// WriteXLSX writes the header and all rows into a single worksheet. Cells are
// written as text so the workbook holds the same values as the CSV output.
func WriteXLSX(w io.Writer, rows []types.Row, sheet string) error {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheet != initialSheet {
		if err := f.SetSheetName(initialSheet, sheet); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	if err := setRow(f, sheet, 1, Header()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		if err := setRow(f, sheet, i+2, Record(row)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, fields []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(fields))
	for i, field := range fields {
		values[i] = field
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// ReadXLSX reads back all records of a worksheet, header included. Rows are
// padded to the column count because trailing empty cells are not stored.
func ReadXLSX(r io.Reader, sheet string) ([][]string, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	for i, row := range rows {
		for len(row) < len(types.Columns) {
			row = append(row, "")
		}
		rows[i] = row
	}

	return rows, nil
}
