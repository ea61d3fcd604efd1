package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/sdmx-catalog-flattener/internal/document"
)

const sampleCatalog = `{
  catalog: [
    {
      name: "ABS",
      type: "group",
      items: [
        {
          name: "Census 2011",
          items: [
            {
              name: "Age by Sex (ABS_CENSUS2011_B04)",
              aggregatedDimensionIds: ["STATE", "REGIONTYPE"],
              singleValuedDimensionIds: ["MEASURE"],
              totalValueIds: { SEX_ABS: ["3"], AGE: ["TT"] },
              regionDimensionId: "REGION",
            },
            { name: "Bare (BARE)" },
          ],
        },
        { name: "Empty", items: [] },
      ],
    },
  ],
}`

func parse(t *testing.T, doc string) document.Value {
	t.Helper()
	root, err := document.Parse("catalog.json", []byte(doc))
	require.NoError(t, err)
	return root
}

func TestFromDocument(t *testing.T) {
	t.Parallel()

	c, err := FromDocument(parse(t, sampleCatalog), 0)
	require.NoError(t, err)

	require.Len(t, c.Groups, 2)
	assert.Equal(t, "Census 2011", c.Groups[0].Name)
	assert.Equal(t, "Empty", c.Groups[1].Name)
	assert.Empty(t, c.Groups[1].Items)
	assert.Equal(t, 2, c.ItemCount())

	full := c.Groups[0].Items[0]
	assert.Equal(t, "Age by Sex (ABS_CENSUS2011_B04)", full.Name)
	assert.Equal(t, []string{"STATE", "REGIONTYPE"}, full.AggregatedDimensionIDs)
	assert.Equal(t, []any{"MEASURE"}, full.SingleValuedDimensionIDs)
	assert.Equal(t, "REGION", full.RegionDimensionID)
	assert.Equal(t, []string{"SEX_ABS", "AGE"}, full.TotalValueIDs.Keys())
	assert.Equal(t, []string{"3"}, full.TotalValues("SEX_ABS"))
	assert.Nil(t, full.TotalValues("MISSING"))
}

func TestFromDocument_Defaults(t *testing.T) {
	t.Parallel()

	c, err := FromDocument(parse(t, sampleCatalog), 0)
	require.NoError(t, err)

	bare := c.Groups[0].Items[1]
	assert.Equal(t, "Bare (BARE)", bare.Name)
	assert.NotNil(t, bare.AggregatedDimensionIDs)
	assert.Empty(t, bare.AggregatedDimensionIDs)
	assert.Nil(t, bare.SingleValuedDimensionIDs)
	assert.Nil(t, bare.RegionDimensionID)
	require.NotNil(t, bare.TotalValueIDs)
	assert.Empty(t, bare.TotalValueIDs.Keys())
}

func TestFromDocument_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		doc     string
		index   int
		wantErr error
	}{
		{name: "no catalog", doc: `{ other: [] }`, wantErr: ErrMissingKey},
		{name: "index out of range", doc: `{ catalog: [ { items: [] } ] }`, index: 1, wantErr: ErrMissingKey},
		{name: "catalog not array", doc: `{ catalog: "x" }`, wantErr: ErrWrongType},
		{name: "items not array", doc: `{ catalog: [ { items: {} } ] }`, wantErr: ErrWrongType},
		{name: "group without name", doc: `{ catalog: [ { items: [ { items: [] } ] } ] }`, wantErr: ErrMissingKey},
		{name: "group without items", doc: `{ catalog: [ { items: [ { name: "G" } ] } ] }`, wantErr: ErrMissingKey},
		{name: "item without name", doc: `{ catalog: [ { items: [ { name: "G", items: [ {} ] } ] } ] }`, wantErr: ErrMissingKey},
		{name: "item name not string", doc: `{ catalog: [ { items: [ { name: "G", items: [ { name: 1 } ] } ] } ] }`, wantErr: ErrWrongType},
		{
			name:    "aggregated not list",
			doc:     `{ catalog: [ { items: [ { name: "G", items: [ { name: "a (b)", aggregatedDimensionIds: "STATE" } ] } ] } ] }`,
			wantErr: ErrWrongType,
		},
		{
			name:    "aggregated null",
			doc:     `{ catalog: [ { items: [ { name: "G", items: [ { name: "a (b)", aggregatedDimensionIds: null } ] } ] } ] }`,
			wantErr: ErrWrongType,
		},
		{
			name:    "totals null",
			doc:     `{ catalog: [ { items: [ { name: "G", items: [ { name: "a (b)", totalValueIds: null } ] } ] } ] }`,
			wantErr: ErrWrongType,
		},
		{
			name:    "totals not object",
			doc:     `{ catalog: [ { items: [ { name: "G", items: [ { name: "a (b)", totalValueIds: [] } ] } ] } ] }`,
			wantErr: ErrWrongType,
		},
		{
			name:    "total codes not strings",
			doc:     `{ catalog: [ { items: [ { name: "G", items: [ { name: "a (b)", totalValueIds: { SEX: [3] } } ] } ] } ] }`,
			wantErr: ErrWrongType,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := FromDocument(parse(t, tc.doc), tc.index)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sdmx-abs.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o644))

	c, err := Load(path, 0)
	require.NoError(t, err)
	assert.Len(t, c.Groups, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"), 0)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
