// =============================================================================
// SDMX Catalog Flattener - Catalog Model
// =============================================================================
//
// This package turns a decoded catalog document into typed Go structures.
//
// DOCUMENT SHAPE:
//   {
//     catalog: [
//       {                                  <- element selected by index (0)
//         items: [                         <- groups
//           {
//             name: "Census 2011",
//             items: [                     <- items of the group
//               {
//                 name: "Age by Sex (ABS_CENSUS2011_B04)",
//                 aggregatedDimensionIds: ["STATE"],
//                 singleValuedDimensionIds: ["MEASURE"],
//                 totalValueIds: { SEX_ABS: ["3"], AGE: ["TT"] },
//                 regionDimensionId: "REGION",
//               },
//             ],
//           },
//         ],
//       },
//     ],
//   }
//
// Optional item keys are defaulted here, once, so that the flattener never
// has to check for absent values. An explicit null for aggregatedDimensionIds
// or totalValueIds is a type error, not a missing key.
//
// =============================================================================

package catalog

import (
	"errors"
	"fmt"

	"github.com/keboola/go-utils/pkg/orderedmap"

	"github.com/ginjaninja78/sdmx-catalog-flattener/internal/document"
)

// ErrMissingKey is returned when a mandatory key is absent from the document.
var ErrMissingKey = errors.New("missing key")

// ErrWrongType is returned when a key holds a value of an unexpected type.
var ErrWrongType = errors.New("wrong type")

// =============================================================================
// CATALOG TYPES
// =============================================================================

// Catalog is the root of the data series catalog.
type Catalog struct {
	// Groups in document order.
	Groups []Group
}

// Group is a named collection of data series.
type Group struct {
	Name  string
	Items []Item
}

// Item describes a single data series.
type Item struct {
	// Name is the display name, ending in a parenthesised id.
	Name string

	// AggregatedDimensionIDs is empty when the key is absent.
	AggregatedDimensionIDs []string

	// SingleValuedDimensionIDs is passed through as decoded. Nil when absent.
	SingleValuedDimensionIDs document.Value

	// TotalValueIDs maps dimension ids to their total value codes
	// ([]string). Keys keep their document order, which decides lookups
	// that pick the first matching dimension. Empty when absent.
	TotalValueIDs *orderedmap.OrderedMap

	// RegionDimensionID is passed through as decoded. Nil when absent.
	RegionDimensionID document.Value
}

// TotalValues returns the total value codes of a dimension.
func (i *Item) TotalValues(dimension string) []string {
	v, found := i.TotalValueIDs.Get(dimension)
	if !found {
		return nil
	}
	return v.([]string)
}

// ItemCount returns the number of items over all groups.
func (c *Catalog) ItemCount() int {
	count := 0
	for _, g := range c.Groups {
		count += len(g.Items)
	}
	return count
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the document at path and builds the catalog found in the
// catalog element at index.
func Load(path string, index int) (*Catalog, error) {
	root, err := document.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromDocument(root, index)
}

// FromDocument builds the catalog from a decoded document. The groups are
// read from catalog[index].items.
func FromDocument(root document.Value, index int) (*Catalog, error) {
	groupsValue, err := document.Lookup(root, "catalog", index, "items")
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrMissingKey, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrWrongType, err)
	}

	groupValues, ok := groupsValue.([]any)
	if !ok {
		return nil, wrongType(fmt.Sprintf("catalog[%d].items", index), "array", groupsValue)
	}

	c := &Catalog{Groups: make([]Group, 0, len(groupValues))}
	for gi, gv := range groupValues {
		where := fmt.Sprintf("group %d", gi+1)
		group, err := parseGroup(gv, where)
		if err != nil {
			return nil, err
		}
		c.Groups = append(c.Groups, group)
	}

	return c, nil
}

// parseGroup builds one group and its items.
func parseGroup(v document.Value, where string) (Group, error) {
	obj, ok := v.(*orderedmap.OrderedMap)
	if !ok {
		return Group{}, wrongType(where, "object", v)
	}

	name, err := requiredString(obj, "name", where)
	if err != nil {
		return Group{}, err
	}

	itemsValue, found := obj.Get("items")
	if !found {
		return Group{}, fmt.Errorf("%s: %w \"items\"", where, ErrMissingKey)
	}
	itemValues, ok := itemsValue.([]any)
	if !ok {
		return Group{}, wrongType(where+" items", "array", itemsValue)
	}

	group := Group{Name: name, Items: make([]Item, 0, len(itemValues))}
	for ii, iv := range itemValues {
		item, err := parseItem(iv, fmt.Sprintf("%s item %d", where, ii+1))
		if err != nil {
			return Group{}, err
		}
		group.Items = append(group.Items, item)
	}

	return group, nil
}

// parseItem builds one item, substituting defaults for absent optional keys.
func parseItem(v document.Value, where string) (Item, error) {
	obj, ok := v.(*orderedmap.OrderedMap)
	if !ok {
		return Item{}, wrongType(where, "object", v)
	}

	name, err := requiredString(obj, "name", where)
	if err != nil {
		return Item{}, err
	}

	item := Item{
		Name:                     name,
		AggregatedDimensionIDs:   []string{},
		SingleValuedDimensionIDs: optional(obj, "singleValuedDimensionIds"),
		TotalValueIDs:            orderedmap.New(),
		RegionDimensionID:        optional(obj, "regionDimensionId"),
	}

	if raw, found := obj.Get("aggregatedDimensionIds"); found {
		ids, err := stringList(raw, where+" aggregatedDimensionIds")
		if err != nil {
			return Item{}, err
		}
		item.AggregatedDimensionIDs = ids
	}

	if raw, found := obj.Get("totalValueIds"); found {
		totals, ok := raw.(*orderedmap.OrderedMap)
		if !ok {
			return Item{}, wrongType(where+" totalValueIds", "object", raw)
		}
		for _, key := range totals.Keys() {
			codes, _ := totals.Get(key)
			list, err := stringList(codes, fmt.Sprintf("%s totalValueIds.%s", where, key))
			if err != nil {
				return Item{}, err
			}
			item.TotalValueIDs.Set(key, list)
		}
	}

	return item, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// optional returns the value of key, or nil when it is absent.
func optional(obj *orderedmap.OrderedMap, key string) document.Value {
	v, _ := obj.Get(key)
	return v
}

func requiredString(obj *orderedmap.OrderedMap, key, where string) (string, error) {
	v, found := obj.Get(key)
	if !found {
		return "", fmt.Errorf("%s: %w %q", where, ErrMissingKey, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", wrongType(where+" "+key, "string", v)
	}
	return s, nil
}

func stringList(v document.Value, where string) ([]string, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, wrongType(where, "array", v)
	}
	out := make([]string, 0, len(arr))
	for _, el := range arr {
		s, ok := el.(string)
		if !ok {
			return nil, wrongType(where, "array of strings", v)
		}
		out = append(out, s)
	}
	return out, nil
}

func wrongType(where, want string, got document.Value) error {
	return fmt.Errorf("%s: %w: expected %s, found %s", where, ErrWrongType, want, document.Kind(got))
}
