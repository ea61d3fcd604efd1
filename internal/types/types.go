// =============================================================================
// SDMX Catalog Flattener - Shared Types
// =============================================================================
//
// This package contains the output row type shared by the flattener (which
// produces rows) and the sink writers (which serialize them). Keeping it here
// avoids an import cycle between those two packages.
//
// =============================================================================

package types

// =============================================================================
// OUTPUT COLUMNS
// =============================================================================

// Columns is the fixed header of every output file, in output order.
var Columns = []string{
	"group",
	"name",
	"id",
	"isLGA",
	"hasState",
	"singleValuedDimensionIds",
	"sexId",
	"ageId",
	"regionDimensionId",
}

// =============================================================================
// ROW TYPE
// =============================================================================

// Row is one flattened (group, item) pair of the catalog.
type Row struct {
	// Group is the name of the group the item belongs to, verbatim.
	Group string

	// Name is the item name with its parenthesised id suffix removed.
	Name string

	// ID is the parenthesised suffix of the item name.
	ID string

	// IsLGA is true when the item name mentions "(LGA)".
	IsLGA bool

	// HasState is true when "STATE" is one of the aggregated dimensions.
	HasState bool

	// SingleValuedDimensionIDs is passed through from the item unchanged.
	// A nil value means the key was absent.
	SingleValuedDimensionIDs any

	// SexID is the first totalValueIds key whose values are exactly ["3"].
	// Nil when no key qualifies.
	SexID *string

	// AgeID is the first totalValueIds key whose values contain "O15" or "TT".
	// Nil when no key qualifies.
	AgeID *string

	// RegionDimensionID is passed through from the item unchanged.
	RegionDimensionID any
}
