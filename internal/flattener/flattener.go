// =============================================================================
// SDMX Catalog Flattener - Flattener Module
// =============================================================================
//
// This module turns the two-level catalog (groups of items) into flat rows,
// one per item, in document order.
//
// DERIVED FIELDS (per item):
//   name, id  - the item name split at its last '(' (see SplitName)
//   isLGA     - the item name contains "(LGA)"
//   hasState  - "STATE" is one of the aggregated dimensions
//   sexId     - first totalValueIds key whose codes are exactly ["3"]
//   ageId     - first totalValueIds key whose codes contain "O15" or "TT"
//
// "First" always means first in document order of totalValueIds.
//
// The first item that cannot be flattened stops the whole run; no partial
// result is returned.
//
// =============================================================================

package flattener

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ginjaninja78/sdmx-catalog-flattener/internal/catalog"
	"github.com/ginjaninja78/sdmx-catalog-flattener/internal/types"
)

const (
	lgaMarker      = "(LGA)"
	stateDimension = "STATE"
	sexTotalCode   = "3"
	ageTotalCode   = "TT"
	ageOver15Code  = "O15"
)

// Options controls flattening.
type Options struct {
	// NameSplit selects how item names are split. Defaults to SplitCompat.
	NameSplit NameSplit
}

// =============================================================================
// FLATTEN
// =============================================================================

// Flatten produces one row per item of the catalog, groups first, then items,
// both in document order.
func Flatten(c *catalog.Catalog, opts Options) ([]types.Row, error) {
	rows := make([]types.Row, 0, c.ItemCount())

	for gi, group := range c.Groups {
		for ii := range group.Items {
			row, err := flattenItem(group.Name, &group.Items[ii], opts)
			if err != nil {
				return nil, fmt.Errorf("group %d item %d %q: %w", gi+1, ii+1, group.Items[ii].Name, err)
			}
			rows = append(rows, row)
		}
	}

	return rows, nil
}

// flattenItem derives the row of a single item.
func flattenItem(group string, item *catalog.Item, opts Options) (types.Row, error) {
	name, id, err := SplitName(item.Name, opts.NameSplit)
	if err != nil {
		return types.Row{}, err
	}

	return types.Row{
		Group:                    group,
		Name:                     name,
		ID:                       id,
		IsLGA:                    strings.Contains(item.Name, lgaMarker),
		HasState:                 slices.Contains(item.AggregatedDimensionIDs, stateDimension),
		SingleValuedDimensionIDs: item.SingleValuedDimensionIDs,
		SexID:                    FindSexDimension(item),
		AgeID:                    FindAgeDimension(item),
		RegionDimensionID:        item.RegionDimensionID,
	}, nil
}

// =============================================================================
// TOTAL VALUE LOOKUPS
// =============================================================================

// FindSexDimension returns the first dimension whose total codes are exactly
// ["3"], or nil.
func FindSexDimension(item *catalog.Item) *string {
	return firstDimension(item, func(codes []string) bool {
		return len(codes) == 1 && codes[0] == sexTotalCode
	})
}

// FindAgeDimension returns the first dimension whose total codes contain
// "O15" or "TT", or nil.
func FindAgeDimension(item *catalog.Item) *string {
	return firstDimension(item, func(codes []string) bool {
		return slices.Contains(codes, ageOver15Code) || slices.Contains(codes, ageTotalCode)
	})
}

func firstDimension(item *catalog.Item, match func(codes []string) bool) *string {
	if item.TotalValueIDs == nil {
		return nil
	}
	for _, key := range item.TotalValueIDs.Keys() {
		if match(item.TotalValues(key)) {
			return &key
		}
	}
	return nil
}
