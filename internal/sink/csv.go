// =============================================================================
// SDMX Catalog Flattener - Sink Writers
// =============================================================================
//
// This module serializes flattened rows. Every format writes the same text
// records: one header with the fixed column names, then one record per row.
//
// FIELD TEXT:
//   string fields      -> verbatim
//   booleans           -> "true" / "false"
//   absent values      -> "" (empty field)
//   pass-through values -> document.Text (arrays/objects as compact JSON)
//
// LINE BREAKS:
//   "\r\n" and a lone "\r" inside a field become "\n" in every format.
//   encoding/csv drops or rewrites carriage returns inside fields, so this is
//   the only text that reads back field for field.
//
// CSV ENCODING:
//   encoding/csv: comma delimiter, fields with a comma, quote or newline are
//   quoted and inner quotes doubled. Records end in "\n", or "\r\n" when
//   UseCRLF is set.
//
// =============================================================================

package sink

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/ginjaninja78/sdmx-catalog-flattener/internal/document"
	"github.com/ginjaninja78/sdmx-catalog-flattener/internal/types"
)

// CSVOptions controls CSV output.
type CSVOptions struct {
	// UseCRLF ends records with "\r\n" instead of "\n".
	UseCRLF bool
}

// =============================================================================
// RECORDS
// =============================================================================

// Header returns the column names written as the first record.
func Header() []string {
	return slices.Clone(types.Columns)
}

// Records returns the text record of every row, without the header.
func Records(rows []types.Row) [][]string {
	records := make([][]string, len(rows))
	for i, row := range rows {
		records[i] = Record(row)
	}
	return records
}

// Record returns the text fields of one row, in column order.
func Record(row types.Row) []string {
	record := []string{
		row.Group,
		row.Name,
		row.ID,
		strconv.FormatBool(row.IsLGA),
		strconv.FormatBool(row.HasState),
		document.Text(row.SingleValuedDimensionIDs),
		optionalText(row.SexID),
		optionalText(row.AgeID),
		document.Text(row.RegionDimensionID),
	}
	for i, field := range record {
		record[i] = lineBreaks.Replace(field)
	}
	return record
}

// lineBreaks maps every carriage return form to "\n". "\r\n" is listed first
// so it is replaced as one break.
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func optionalText(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// =============================================================================
// CSV
// =============================================================================

// WriteCSV writes the header and all rows to w.
func WriteCSV(w io.Writer, rows []types.Row, opts CSVOptions) error {
	writer := csv.NewWriter(w)
	writer.UseCRLF = opts.UseCRLF

	if err := writer.Write(Header()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		if err := writer.Write(Record(row)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	return nil
}

// ReadCSV reads back all records, header included.
func ReadCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)

	// Every record must have as many fields as the header.
	reader.FieldsPerRecord = 0

	// Written fields are always properly quoted, so no lazy quotes and no
	// trimming: the read-back must see exactly what was written.
	reader.LazyQuotes = false
	reader.TrimLeadingSpace = false

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return records, nil
}
