package market

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestGenerator(seed int64) *Generator {
	return NewGenerator(DefaultCatalog(), seed, clockwork.NewFakeClockAt(fixedTime))
}

func TestDefaultCatalog_Size(t *testing.T) {
	c := DefaultCatalog()
	assert.Len(t, c.Regions, 8)
	assert.Len(t, c.Products, 6)
	assert.Equal(t, 48, c.Size())
}

func TestGenerate_OneRowPerRegionProduct(t *testing.T) {
	table := newTestGenerator(1).Generate()
	require.Len(t, table, 48)

	seen := make(map[[2]string]int)
	for _, o := range table {
		seen[[2]string{o.Region, o.Product}]++
	}
	assert.Len(t, seen, 48)
	for pair, n := range seen {
		assert.Equal(t, 1, n, "pair %v", pair)
	}

	// regions outermost, products in catalog order
	assert.Equal(t, "Conakry", table[0].Region)
	assert.Equal(t, "Riz Local", table[0].Product)
	assert.Equal(t, "Riz Importé", table[1].Product)
	assert.Equal(t, "Nzérékoré", table[47].Region)
	assert.Equal(t, "Ciment", table[47].Product)
}

func TestGenerate_ValuesWithinDesignedRanges(t *testing.T) {
	catalog := DefaultCatalog()
	gen := newTestGenerator(42)

	for run := 0; run < 20; run++ {
		for _, o := range gen.Generate() {
			region, ok := catalog.Region(o.Region)
			require.True(t, ok)
			product, ok := catalog.Product(o.Product)
			require.True(t, ok)

			lo, hi := PriceRange(product, region)
			assert.Greater(t, o.PriceGNF, 0.0)
			assert.GreaterOrEqual(t, o.PriceGNF, lo, "%s/%s", o.Region, o.Product)
			assert.LessOrEqual(t, o.PriceGNF, hi, "%s/%s", o.Region, o.Product)

			assert.GreaterOrEqual(t, o.StockTons, 50.0)
			assert.Less(t, o.StockTons, 5000.0)
			assert.Equal(t, float64(int(o.StockTons)), o.StockTons)

			assert.GreaterOrEqual(t, o.WeeklyNeedTons, 100.0)
			assert.Less(t, o.WeeklyNeedTons, 1500.0)
			assert.Equal(t, float64(int(o.WeeklyNeedTons)), o.WeeklyNeedTons)

			assert.Equal(t, region.Lat, o.Lat)
			assert.Equal(t, region.Lon, o.Lon)
			assert.Equal(t, fixedTime, o.Date)
		}
	}
}

func TestDistanceFactor(t *testing.T) {
	c := DefaultCatalog()
	for _, name := range []string{"Kankan", "Nzérékoré"} {
		r, ok := c.Region(name)
		require.True(t, ok)
		assert.Equal(t, 1.3, r.DistanceFactor(), name)
	}
	conakry, _ := c.Region("Conakry")
	assert.Equal(t, 1.0, conakry.DistanceFactor())

	rice, _ := c.Product("Riz Local")
	kankan, _ := c.Region("Kankan")
	lo, hi := PriceRange(rice, kankan)
	assert.InDelta(t, 8500*1.3*0.9, lo, 1e-9)
	assert.InDelta(t, 8500*1.3*1.1, hi, 1e-9)
}

func TestGenerate_SameSeedIsReproducible(t *testing.T) {
	a := newTestGenerator(7).Generate()
	b := newTestGenerator(7).Generate()
	assert.Equal(t, a, b)

	c := newTestGenerator(8).Generate()
	assert.NotEqual(t, a, c)
}

func TestGenerate_EachCallIsANewTable(t *testing.T) {
	gen := newTestGenerator(3)
	first := gen.Generate()
	second := gen.Generate()

	assert.NotEqual(t, first, second)

	first[0].PriceGNF = -1
	assert.NotEqual(t, -1.0, second[0].PriceGNF)
}

func TestGenerator_ImplementsSource(t *testing.T) {
	var src Source = newTestGenerator(5)
	assert.Equal(t, "synthetic", src.Name())

	table, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, table, 48)
}

func TestGenerator_ConcurrentUse(t *testing.T) {
	gen := newTestGenerator(0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Len(t, gen.Generate(), 48)
		}()
	}
	wg.Wait()
}
