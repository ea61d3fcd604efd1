package flattener

import (
	"testing"

	"github.com/keboola/go-utils/pkg/orderedmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/sdmx-catalog-flattener/internal/catalog"
	"github.com/ginjaninja78/sdmx-catalog-flattener/internal/types"
)

func item(name string) catalog.Item {
	return catalog.Item{
		Name:                   name,
		AggregatedDimensionIDs: []string{},
		TotalValueIDs:          orderedmap.New(),
	}
}

func totals(pairs ...orderedmap.Pair) *orderedmap.OrderedMap {
	return orderedmap.FromPairs(pairs)
}

func ptr(s string) *string {
	return &s
}

func TestSplitName_Compat(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, name, id string
	}{
		{in: "Foo Bar (XYZ)", name: "Foo Bar", id: "(XYZ"},
		{in: "Total Population by Age and Sex (ASGS)", name: "Total Population by Age and Sex", id: "(ASGS"},
		{in: "Population (LGA) (2016)", name: "Population (LGA)", id: "(2016"},
		{in: "Foo(XYZ)", name: "Fo", id: "(XYZ"},
		{in: "(XYZ)", name: "", id: "(XYZ"},
		{in: "Trailing (", name: "Trailing", id: ""},
		{in: "Café (ÉTÉ)", name: "Café", id: "(ÉTÉ"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			name, id, err := SplitName(tc.in, SplitCompat)
			require.NoError(t, err)
			assert.Equal(t, tc.name, name)
			assert.Equal(t, tc.id, id)
		})
	}
}

func TestSplitName_Separator(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, name, id string
	}{
		{in: "Foo Bar (XYZ)", name: "Foo Bar", id: "XYZ"},
		{in: "Foo(XYZ)", name: "Foo", id: "XYZ"},
		{in: "Population (LGA) (2016)", name: "Population (LGA)", id: "2016"},
		{in: "Spaced   (ID) tail", name: "Spaced", id: "ID"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			name, id, err := SplitName(tc.in, SplitSeparator)
			require.NoError(t, err)
			assert.Equal(t, tc.name, name)
			assert.Equal(t, tc.id, id)
		})
	}

	_, _, err := SplitName("Open (XYZ", SplitSeparator)
	assert.ErrorIs(t, err, ErrUnbalanced)
}

func TestSplitName_NoParen(t *testing.T) {
	t.Parallel()

	for _, mode := range []NameSplit{SplitCompat, SplitSeparator} {
		_, _, err := SplitName("NoParenHere", mode)
		assert.ErrorIs(t, err, ErrNoParen)
	}
}

func TestParseNameSplit(t *testing.T) {
	t.Parallel()

	mode, err := ParseNameSplit("")
	require.NoError(t, err)
	assert.Equal(t, SplitCompat, mode)

	mode, err = ParseNameSplit("separator")
	require.NoError(t, err)
	assert.Equal(t, SplitSeparator, mode)

	_, err = ParseNameSplit("python")
	assert.Error(t, err)
}

func TestFlatten_RowCountAndOrder(t *testing.T) {
	t.Parallel()

	c := &catalog.Catalog{Groups: []catalog.Group{
		{Name: "G1", Items: []catalog.Item{item("A (1)"), item("B (2)")}},
		{Name: "G2", Items: nil},
		{Name: "G3", Items: []catalog.Item{item("C (3)")}},
	}}

	rows, err := Flatten(c, Options{})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	var got [][2]string
	for _, r := range rows {
		got = append(got, [2]string{r.Group, r.Name})
	}
	assert.Equal(t, [][2]string{{"G1", "A"}, {"G1", "B"}, {"G3", "C"}}, got)
}

func TestFlatten_DerivedFields(t *testing.T) {
	t.Parallel()

	full := item("Population (LGA) (2016)")
	full.AggregatedDimensionIDs = []string{"STATE", "SEX"}
	full.SingleValuedDimensionIDs = []any{"MEASURE"}
	full.RegionDimensionID = "REGION"
	full.TotalValueIDs = totals(
		orderedmap.Pair{Key: "SEX_ABS", Value: []string{"3"}},
		orderedmap.Pair{Key: "AGE_ABS", Value: []string{"TT"}},
	)

	plain := item("Population (2016)")
	plain.AggregatedDimensionIDs = []string{"SEX"}

	c := &catalog.Catalog{Groups: []catalog.Group{{Name: "Census", Items: []catalog.Item{full, plain}}}}

	rows, err := Flatten(c, Options{NameSplit: SplitCompat})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, types.Row{
		Group:                    "Census",
		Name:                     "Population (LGA)",
		ID:                       "(2016",
		IsLGA:                    true,
		HasState:                 true,
		SingleValuedDimensionIDs: []any{"MEASURE"},
		SexID:                    ptr("SEX_ABS"),
		AgeID:                    ptr("AGE_ABS"),
		RegionDimensionID:        "REGION",
	}, rows[0])

	assert.Equal(t, types.Row{
		Group: "Census",
		Name:  "Population",
		ID:    "(2016",
	}, rows[1])
}

func TestFlatten_MissingParenAborts(t *testing.T) {
	t.Parallel()

	c := &catalog.Catalog{Groups: []catalog.Group{
		{Name: "G1", Items: []catalog.Item{item("Good (1)"), item("NoParenHere")}},
	}}

	rows, err := Flatten(c, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoParen)
	assert.Nil(t, rows)
	assert.Contains(t, err.Error(), `group 1 item 2 "NoParenHere"`)
}

func TestFindSexDimension(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		totals *orderedmap.OrderedMap
		want   *string
	}{
		{name: "empty", totals: totals(), want: nil},
		{name: "nil map", totals: nil, want: nil},
		{
			name:   "exact match only",
			totals: totals(orderedmap.Pair{Key: "A", Value: []string{"3", "1"}}, orderedmap.Pair{Key: "B", Value: []string{"3"}}),
			want:   ptr("B"),
		},
		{
			name:   "first of several",
			totals: totals(orderedmap.Pair{Key: "Z", Value: []string{"3"}}, orderedmap.Pair{Key: "A", Value: []string{"3"}}),
			want:   ptr("Z"),
		},
		{name: "none", totals: totals(orderedmap.Pair{Key: "A", Value: []string{"TT"}}), want: nil},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			it := item("x (y)")
			it.TotalValueIDs = tc.totals
			assert.Equal(t, tc.want, FindSexDimension(&it))
		})
	}
}

func TestFindAgeDimension(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		totals *orderedmap.OrderedMap
		want   *string
	}{
		{name: "empty", totals: totals(), want: nil},
		{name: "TT", totals: totals(orderedmap.Pair{Key: "AGE", Value: []string{"A04", "TT"}}), want: ptr("AGE")},
		{name: "O15", totals: totals(orderedmap.Pair{Key: "AGEP", Value: []string{"O15"}}), want: ptr("AGEP")},
		{
			name: "tie picks first in document order",
			totals: totals(
				orderedmap.Pair{Key: "SEX", Value: []string{"3"}},
				orderedmap.Pair{Key: "ZAGE", Value: []string{"O15"}},
				orderedmap.Pair{Key: "AAGE", Value: []string{"TT"}},
			),
			want: ptr("ZAGE"),
		},
		{name: "none", totals: totals(orderedmap.Pair{Key: "SEX", Value: []string{"3"}}), want: nil},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			it := item("x (y)")
			it.TotalValueIDs = tc.totals
			assert.Equal(t, tc.want, FindAgeDimension(&it))
		})
	}
}
