package market

import (
	"context"
	"math/rand"
	"sync"

	"github.com/jonboulle/clockwork"
)

const (
	minStockTons      = 50
	maxStockTons      = 5000 // exclusive
	minWeeklyNeedTons = 100
	maxWeeklyNeedTons = 1500 // exclusive
)

// Generator produces synthetic observation tables for a catalog.
// It is safe for concurrent use.
type Generator struct {
	catalog Catalog
	clock   clockwork.Clock

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a Generator. A zero seed seeds from the clock, so
// successive processes produce different tables; any other seed makes the
// sequence of generated tables reproducible.
func NewGenerator(catalog Catalog, seed int64, clock clockwork.Clock) *Generator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if seed == 0 {
		seed = clock.Now().UnixNano()
	}
	return &Generator{
		catalog: catalog,
		clock:   clock,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Name implements Source.
func (g *Generator) Name() string {
	return "synthetic"
}

// Load implements Source. It never fails.
func (g *Generator) Load(_ context.Context) (Table, error) {
	return g.Generate(), nil
}

// Generate returns one row per (region, product) pair, regions outermost.
func (g *Generator) Generate() Table {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now().UTC()
	table := make(Table, 0, g.catalog.Size())

	for _, reg := range g.catalog.Regions {
		for _, prod := range g.catalog.Products {
			factor := minPriceFactor + (maxPriceFactor-minPriceFactor)*g.rng.Float64()
			table = append(table, Observation{
				Date:           now,
				Region:         reg.Name,
				Product:        prod.Name,
				PriceGNF:       prod.BasePrice * reg.DistanceFactor() * factor,
				StockTons:      float64(minStockTons + g.rng.Intn(maxStockTons-minStockTons)),
				WeeklyNeedTons: float64(minWeeklyNeedTons + g.rng.Intn(maxWeeklyNeedTons-minWeeklyNeedTons)),
				Lat:            reg.Lat,
				Lon:            reg.Lon,
			})
		}
	}
	return table
}
