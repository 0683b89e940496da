package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allRegions() []string {
	var names []string
	for _, r := range DefaultCatalog().Regions {
		names = append(names, r.Name)
	}
	return names
}

func TestFilter_ProductAndAllRegions(t *testing.T) {
	table := newTestGenerator(11).Generate()

	got := Filter(table, "Riz Local", allRegions())
	require.Len(t, got, 8)
	for i, o := range got {
		assert.Equal(t, "Riz Local", o.Product)
		assert.Equal(t, allRegions()[i], o.Region, "input order is preserved")
	}
}

func TestFilter_EveryRowMatchesSelection(t *testing.T) {
	table := newTestGenerator(12).Generate()
	regions := []string{"Labé", "Kankan", "Conakry"}

	got := Filter(table, "Sucre", regions)
	require.Len(t, got, 3)
	assert.LessOrEqual(t, len(got), len(table))
	for _, o := range got {
		assert.Equal(t, "Sucre", o.Product)
		assert.Contains(t, regions, o.Region)
	}
	// table order, not selection order
	assert.Equal(t, []string{"Conakry", "Labé", "Kankan"}, Table(got).Regions())
}

func TestFilter_EmptyRegionSet(t *testing.T) {
	table := newTestGenerator(13).Generate()

	got := Filter(table, "Riz Local", nil)
	assert.Empty(t, got)
	assert.NotNil(t, got)

	assert.Empty(t, Filter(got, "Riz Local", allRegions()), "filtering an empty result stays empty")
	assert.Empty(t, Filter(table, "Riz Local", []string{}))
}

func TestFilter_UnknownProductOrRegion(t *testing.T) {
	table := newTestGenerator(14).Generate()

	assert.Empty(t, Filter(table, "Mil", allRegions()))
	assert.Empty(t, Filter(table, "Riz Local", []string{"Siguiri"}))
}

func TestFilter_DoesNotAliasInput(t *testing.T) {
	table := newTestGenerator(15).Generate()
	got := Filter(table, "Farine", []string{"Mamou"})
	require.Len(t, got, 1)

	got[0].PriceGNF = 0
	for _, o := range table {
		if o.Product == "Farine" && o.Region == "Mamou" {
			assert.NotZero(t, o.PriceGNF)
		}
	}
}

func TestCoverageDays(t *testing.T) {
	days, ok := CoverageDays(700, 700)
	require.True(t, ok)
	assert.Equal(t, 7.0, days)

	days, ok = CoverageDays(1400, 350)
	require.True(t, ok)
	assert.Equal(t, 28.0, days)

	_, ok = CoverageDays(500, 0)
	assert.False(t, ok)
	_, ok = CoverageDays(500, -10)
	assert.False(t, ok)
}

func TestMarkerSize(t *testing.T) {
	assert.Equal(t, 8500.0, MarkerSize(850000))
	assert.Equal(t, 85.0, MarkerSize(8500))
}

func TestDerive(t *testing.T) {
	table := Table{
		{Region: "Conakry", Product: "Riz Local", PriceGNF: 850000, StockTons: 700, WeeklyNeedTons: 700},
		{Region: "Kindia", Product: "Riz Local", PriceGNF: 9000, StockTons: 300, WeeklyNeedTons: 0},
	}

	rows := Derive(table)
	require.Len(t, rows, 2)

	require.NotNil(t, rows[0].CoverageDays)
	assert.Equal(t, 7.0, *rows[0].CoverageDays)
	assert.Equal(t, 8500.0, rows[0].MarkerSize)
	assert.Equal(t, table[0], rows[0].Observation)

	assert.Nil(t, rows[1].CoverageDays, "zero weekly need leaves coverage undefined")
	assert.Equal(t, 90.0, rows[1].MarkerSize)
}

func TestSummarize(t *testing.T) {
	rows := Derive(Table{
		{Region: "Conakry", PriceGNF: 8000, StockTons: 100, WeeklyNeedTons: 70},
		{Region: "Kindia", PriceGNF: 9000, StockTons: 250, WeeklyNeedTons: 0},
		{Region: "Boké", PriceGNF: 10000, StockTons: 50, WeeklyNeedTons: 140},
	})

	s := Summarize(rows)
	assert.True(t, s.HasData())
	assert.Equal(t, 3, s.Rows)
	require.NotNil(t, s.AveragePrice)
	assert.Equal(t, 9000.0, *s.AveragePrice)
	require.NotNil(t, s.TotalStock)
	assert.Equal(t, 400.0, *s.TotalStock)
	assert.Equal(t, []string{"Kindia"}, s.UndefinedCoverage)
}

func TestSummarize_EmptyIsUndefined(t *testing.T) {
	s := Summarize(nil)
	assert.False(t, s.HasData())
	assert.Zero(t, s.Rows)
	assert.Nil(t, s.AveragePrice)
	assert.Nil(t, s.TotalStock)
}

func TestBuildView_EndToEnd(t *testing.T) {
	table := newTestGenerator(16).Generate()
	require.Len(t, table, 48)

	view := BuildView(table, "Riz Local", allRegions())
	require.Len(t, view.Rows, 8)
	for _, r := range view.Rows {
		assert.Equal(t, "Riz Local", r.Product)
		require.NotNil(t, r.CoverageDays)
		assert.Equal(t, r.PriceGNF/100, r.MarkerSize)
	}
	assert.Equal(t, 8, view.Summary.Rows)
	assert.NotNil(t, view.Summary.AveragePrice)

	empty := BuildView(table, "Riz Local", nil)
	assert.Empty(t, empty.Rows)
	assert.Nil(t, empty.Summary.AveragePrice)
}

func TestTable_ProductsAndRegionsKeepFirstAppearance(t *testing.T) {
	table := Table{
		{Region: "Mamou", Product: "Sucre"},
		{Region: "Kindia", Product: "Farine"},
		{Region: "Mamou", Product: "Farine"},
	}
	assert.Equal(t, []string{"Sucre", "Farine"}, table.Products())
	assert.Equal(t, []string{"Mamou", "Kindia"}, table.Regions())
}

func TestNewBriefing_IsPlaceholder(t *testing.T) {
	b := NewBriefing("Sucre")
	assert.True(t, b.Placeholder)
	assert.Contains(t, b.Headline, "Sucre")
	assert.Contains(t, b.Forecast, "+12%")
	require.Len(t, b.WorldIndex, 6)
	assert.Equal(t, IndexStep{Month: 4, Index: 150}, b.WorldIndex[3])
}
