// =============================================================================
// SDMX Catalog Flattener - Output Verification
// =============================================================================
//
// This module compares records read back from a written output file with
// the rows they were written from. The first differing field is reported.
//
// =============================================================================

package sink

import (
	"errors"
	"fmt"

	"github.com/ginjaninja78/sdmx-catalog-flattener/internal/types"
)

// ErrMismatch is returned when read-back records differ from the rows.
var ErrMismatch = errors.New("output mismatch")

// Verify checks that records read back from an output file, header included,
// match the rows field for field.
func Verify(records [][]string, rows []types.Row) error {
	want := append([][]string{Header()}, Records(rows)...)

	if len(records) != len(want) {
		return fmt.Errorf("%w: read %d records, expected %d", ErrMismatch, len(records), len(want))
	}

	for i := range want {
		if len(records[i]) != len(want[i]) {
			return fmt.Errorf("%w: record %d has %d fields, expected %d", ErrMismatch, i, len(records[i]), len(want[i]))
		}
		for j := range want[i] {
			if records[i][j] != want[i][j] {
				return fmt.Errorf("%w: record %d column %s: read %q, expected %q",
					ErrMismatch, i, types.Columns[j], records[i][j], want[i][j])
			}
		}
	}

	return nil
}
