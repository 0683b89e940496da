package market

import "time"

const daysPerWeek = 7.0

// markerScale converts a GNF price into a map marker size.
const markerScale = 100.0

// ViewRow is a filtered observation with its display-only derived columns.
type ViewRow struct {
	Observation

	// CoverageDays is how many days the stock lasts at the average daily need.
	// It is nil when the weekly need is zero or negative.
	CoverageDays *float64 `json:"coverageDays"`
	MarkerSize   float64  `json:"markerSize"`
}

// Summary holds the aggregate figures shown above a view. The pointer fields
// are nil when the view has no rows, which callers render as "no data".
type Summary struct {
	Rows              int      `json:"rows"`
	AveragePrice      *float64 `json:"averagePriceGnf"`
	TotalStock        *float64 `json:"totalStockTons"`
	UndefinedCoverage []string `json:"undefinedCoverageRegions,omitempty"`
}

// HasData reports whether the summary was computed over at least one row.
func (s Summary) HasData() bool {
	return s.Rows > 0
}

// View is the filtered, derived table for one product and a set of regions.
type View struct {
	Product     string    `json:"product"`
	Regions     []string  `json:"regions"`
	GeneratedAt time.Time `json:"generatedAt"`
	Rows        []ViewRow `json:"rows"`
	Summary     Summary   `json:"summary"`
}

// Filter returns the rows whose product equals product and whose region is in
// regions, in input order. An empty region set always yields an empty table.
func Filter(table Table, product string, regions []string) Table {
	if len(regions) == 0 {
		return Table{}
	}
	allowed := make(map[string]struct{}, len(regions))
	for _, r := range regions {
		allowed[r] = struct{}{}
	}

	out := Table{}
	for _, o := range table {
		if o.Product != product {
			continue
		}
		if _, ok := allowed[o.Region]; !ok {
			continue
		}
		out = append(out, o)
	}
	return out
}

// CoverageDays returns stock / (weeklyNeed / 7). ok is false when the weekly
// need is not positive and coverage is undefined.
func CoverageDays(stockTons, weeklyNeedTons float64) (days float64, ok bool) {
	if weeklyNeedTons <= 0 {
		return 0, false
	}
	return stockTons / (weeklyNeedTons / daysPerWeek), true
}

// MarkerSize returns the map marker size for a price.
func MarkerSize(priceGNF float64) float64 {
	return priceGNF / markerScale
}

// Derive computes the display columns for each row.
func Derive(table Table) []ViewRow {
	rows := make([]ViewRow, 0, len(table))
	for _, o := range table {
		row := ViewRow{
			Observation: o,
			MarkerSize:  MarkerSize(o.PriceGNF),
		}
		if days, ok := CoverageDays(o.StockTons, o.WeeklyNeedTons); ok {
			row.CoverageDays = &days
		}
		rows = append(rows, row)
	}
	return rows
}

// Summarize computes the mean price and total stock of the rows.
func Summarize(rows []ViewRow) Summary {
	s := Summary{Rows: len(rows)}
	if len(rows) == 0 {
		return s
	}

	var sumPrice, sumStock float64
	for _, r := range rows {
		sumPrice += r.PriceGNF
		sumStock += r.StockTons
		if r.CoverageDays == nil {
			s.UndefinedCoverage = append(s.UndefinedCoverage, r.Region)
		}
	}
	avg := sumPrice / float64(len(rows))
	s.AveragePrice = &avg
	s.TotalStock = &sumStock
	return s
}

// BuildView runs filter, derive and summarize over table.
func BuildView(table Table, product string, regions []string) View {
	rows := Derive(Filter(table, product, regions))
	return View{
		Product: product,
		Regions: regions,
		Rows:    rows,
		Summary: Summarize(rows),
	}
}
